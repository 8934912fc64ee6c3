package app

import (
	"context"

	"labstock/domain/spec"
	"labstock/internal/config"
	"labstock/internal/errors"
	"labstock/ports"

	"github.com/google/uuid"
)

// CommunityService validates and forwards community submissions.
// Entries enter unverified and stay invisible to the cascade until
// moderation flips the flag.
type CommunityService struct {
	store  ports.CommunityStore
	config config.LookupConfig
}

// NewCommunityService creates a community submission service
func NewCommunityService(store ports.CommunityStore, lookupConfig config.LookupConfig) *CommunityService {
	return &CommunityService{store: store, config: lookupConfig}
}

// Submit validates the normalized query length and specs, then inserts
// an unverified entry. A duplicate key rejects with ALREADY_EXISTS;
// first submission wins.
func (s *CommunityService) Submit(ctx context.Context, userID uuid.UUID, model string, specs *spec.Specification, deviceType, manufacturer *string) error {
	normalized := spec.Normalize(model)
	if len(normalized) < s.config.QueryMinLength || len(normalized) > s.config.QueryMaxLength {
		return errors.ValidationError("invalid model query length")
	}
	if specs.IsEmpty() {
		return errors.ValidationError("specs must not be empty")
	}

	return s.store.Submit(ctx, ports.CommunitySubmission{
		Model:         model,
		Specs:         specs,
		DeviceType:    deviceType,
		Manufacturer:  manufacturer,
		ContributedBy: userID,
	})
}

// Find passes a lookup through to the store (verified entries only)
func (s *CommunityService) Find(ctx context.Context, model string) (ports.CommunityHit, error) {
	return s.store.Find(ctx, model)
}
