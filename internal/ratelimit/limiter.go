package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IntervalLimiter enforces a minimum interval between requests per
// user, backed by a token bucket of size one per key: after any idle
// stretch exactly one request passes and the next is admitted one
// interval later. Rejected attempts consume nothing. Suitable for a
// single-process deployment; multi-process setups would back the same
// contract with a shared counter store.
type IntervalLimiter struct {
	limit rate.Limit
	now   func() time.Time

	mu    sync.Mutex
	users map[string]*rate.Limiter
}

// NewIntervalLimiter creates a limiter with the given minimum interval
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		limit: rate.Every(interval),
		now:   time.Now,
		users: make(map[string]*rate.Limiter),
	}
}

// TryAcquire reports whether userID may proceed now, consuming the
// user's token on success. Requests arriving early are rejected,
// never queued.
func (l *IntervalLimiter) TryAcquire(userID string) bool {
	l.mu.Lock()
	lim, ok := l.users[userID]
	if !ok {
		lim = rate.NewLimiter(l.limit, 1)
		l.users[userID] = lim
	}
	l.mu.Unlock()

	return lim.AllowN(l.now(), 1)
}

// Reset forgets all per-user buckets
func (l *IntervalLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users = make(map[string]*rate.Limiter)
}
