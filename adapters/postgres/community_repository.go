package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"labstock/domain/spec"
	apperrors "labstock/internal/errors"
	"labstock/models"
	"labstock/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CommunityRepository implements ports.CommunityStore on PostgreSQL
type CommunityRepository struct {
	db *sqlx.DB
}

// NewCommunityRepository creates a community spec repository
func NewCommunityRepository(db *sqlx.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// Find looks up a verified entry by normalized model key. Unverified
// submissions stay invisible until moderation flips the flag.
func (r *CommunityRepository) Find(ctx context.Context, model string) (ports.CommunityHit, error) {
	var entry models.CommunitySpecEntry
	err := r.db.GetContext(ctx, &entry, `
		SELECT id, model_query, specs_json, device_type, manufacturer, contributed_by, verified, created_at, updated_at
		FROM community_specs
		WHERE model_query = $1 AND verified = TRUE
	`, spec.Normalize(model))

	if errors.Is(err, sql.ErrNoRows) {
		return ports.CommunityHit{}, nil
	}
	if err != nil {
		return ports.CommunityHit{}, err
	}

	specs, err := spec.UnmarshalText(entry.SpecsJSON)
	if err != nil {
		log.Printf("[CommunityStore] corrupt entry for %q: %v", entry.ModelQuery, err)
		return ports.CommunityHit{}, nil
	}

	return ports.CommunityHit{Found: true, Specs: specs}, nil
}

// Submit inserts an unverified entry. First submission wins: an
// existing row for the normalized key rejects the new one rather than
// overwriting it.
func (r *CommunityRepository) Submit(ctx context.Context, sub ports.CommunitySubmission) error {
	raw, err := spec.MarshalText(sub.Specs)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO community_specs (id, model_query, specs_json, device_type, manufacturer, contributed_by, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW())
		ON CONFLICT (model_query) DO NOTHING
	`, uuid.New(), spec.Normalize(sub.Model), raw, sub.DeviceType, sub.Manufacturer, sub.ContributedBy)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.AlreadyExists("community spec")
	}
	return nil
}
