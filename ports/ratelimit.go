package ports

// RateLimiter enforces a minimum interval between requests per user.
// TryAcquire reports whether the caller may proceed now; rejected
// requests are not queued.
type RateLimiter interface {
	TryAcquire(userID string) bool
}
