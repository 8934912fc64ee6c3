package models

import (
	"time"

	"github.com/google/uuid"
)

// CacheEntry is one row of a user's personal spec cache. Specs are
// stored serialized so the row survives schema drift in Specification.
type CacheEntry struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	ModelQuery string     `json:"model_query" db:"model_query"`
	SpecsJSON  string     `json:"specs_json" db:"specs_json"`
	SourceURL  *string    `json:"source_url,omitempty" db:"source_url"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the entry's TTL has elapsed. Entries without
// an expiry never expire.
func (e *CacheEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && e.ExpiresAt.Before(now)
}

// CommunitySpecEntry is a crowd-contributed specification. Only
// verified entries are visible to lookups; moderation flips the flag.
type CommunitySpecEntry struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ModelQuery    string    `json:"model_query" db:"model_query"`
	SpecsJSON     string    `json:"specs_json" db:"specs_json"`
	DeviceType    *string   `json:"device_type,omitempty" db:"device_type"`
	Manufacturer  *string   `json:"manufacturer,omitempty" db:"manufacturer"`
	ContributedBy uuid.UUID `json:"contributed_by" db:"contributed_by"`
	Verified      bool      `json:"verified" db:"verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
