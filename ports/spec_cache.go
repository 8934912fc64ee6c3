package ports

import (
	"context"

	"labstock/domain/spec"

	"github.com/google/uuid"
)

// CacheHit is the result of a personal cache probe
type CacheHit struct {
	Cached    bool
	Specs     *spec.Specification
	SourceURL string
}

// SpecCache memoizes resolved specifications per user, keyed by the
// normalized model string. Entries past their expiry read as absent.
type SpecCache interface {
	Check(ctx context.Context, userID uuid.UUID, model string) (CacheHit, error)

	// Save upserts, resetting the entry's TTL from now
	Save(ctx context.Context, userID uuid.UUID, model string, specs *spec.Specification, sourceURL string) error
}
