package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the ordered DDL for the lookup tables. Statements are
// idempotent so Apply can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS specs_cache (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		model_query TEXT NOT NULL,
		specs_json TEXT NOT NULL,
		source_url TEXT,
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, model_query)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_specs_cache_expires_at ON specs_cache (expires_at)`,
	`CREATE TABLE IF NOT EXISTS community_specs (
		id UUID PRIMARY KEY,
		model_query TEXT NOT NULL UNIQUE,
		specs_json TEXT NOT NULL,
		device_type TEXT,
		manufacturer TEXT,
		contributed_by UUID NOT NULL REFERENCES users(id),
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_community_specs_verified ON community_specs (model_query) WHERE verified`,
}

// Apply creates or updates the schema
func Apply(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
