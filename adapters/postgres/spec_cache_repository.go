package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"labstock/domain/spec"
	"labstock/models"
	"labstock/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SpecCacheRepository implements ports.SpecCache on PostgreSQL.
// Rows past their expiry read as absent; actual deletion happens in
// the periodic DeleteExpired sweep.
type SpecCacheRepository struct {
	db  *sqlx.DB
	ttl time.Duration
}

// NewSpecCacheRepository creates a cache repository with the given TTL
func NewSpecCacheRepository(db *sqlx.DB, ttl time.Duration) *SpecCacheRepository {
	return &SpecCacheRepository{db: db, ttl: ttl}
}

// Check looks up the user's cache entry for a normalized model key
func (r *SpecCacheRepository) Check(ctx context.Context, userID uuid.UUID, model string) (ports.CacheHit, error) {
	var entry models.CacheEntry
	err := r.db.GetContext(ctx, &entry, `
		SELECT id, user_id, model_query, specs_json, source_url, expires_at, created_at, updated_at
		FROM specs_cache
		WHERE user_id = $1 AND model_query = $2
	`, userID, spec.Normalize(model))

	if errors.Is(err, sql.ErrNoRows) {
		return ports.CacheHit{}, nil
	}
	if err != nil {
		return ports.CacheHit{}, err
	}

	if entry.Expired(time.Now()) {
		return ports.CacheHit{}, nil
	}

	specs, err := spec.UnmarshalText(entry.SpecsJSON)
	if err != nil {
		// A corrupt row reads as a miss; the next write repairs it
		log.Printf("[SpecCache] corrupt entry for %q: %v", entry.ModelQuery, err)
		return ports.CacheHit{}, nil
	}

	hit := ports.CacheHit{Cached: true, Specs: specs}
	if entry.SourceURL != nil {
		hit.SourceURL = *entry.SourceURL
	}
	return hit, nil
}

// Save upserts the entry, resetting expiry to now + TTL
func (r *SpecCacheRepository) Save(ctx context.Context, userID uuid.UUID, model string, specs *spec.Specification, sourceURL string) error {
	raw, err := spec.MarshalText(specs)
	if err != nil {
		return err
	}

	var srcURL *string
	if sourceURL != "" {
		srcURL = &sourceURL
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO specs_cache (id, user_id, model_query, specs_json, source_url, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, model_query) DO UPDATE SET
			specs_json = EXCLUDED.specs_json,
			source_url = EXCLUDED.source_url,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`, uuid.New(), userID, spec.Normalize(model), raw, srcURL, time.Now().Add(r.ttl))
	return err
}

// DeleteExpired removes entries whose expiry has passed and returns
// the number of rows swept.
func (r *SpecCacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM specs_cache
		WHERE expires_at IS NOT NULL AND expires_at < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
