package ports

import (
	"context"

	"labstock/domain/spec"

	"github.com/google/uuid"
)

// CommunityHit is the result of a community store probe
type CommunityHit struct {
	Found bool
	Specs *spec.Specification
}

// CommunitySubmission is a user-contributed specification awaiting moderation
type CommunitySubmission struct {
	Model         string
	Specs         *spec.Specification
	DeviceType    *string
	Manufacturer  *string
	ContributedBy uuid.UUID
}

// CommunityStore is the shared, cross-user specification table.
// Find only surfaces verified entries; fresh submissions stay
// invisible until moderation flips the flag.
type CommunityStore interface {
	Find(ctx context.Context, model string) (CommunityHit, error)
	Submit(ctx context.Context, sub CommunitySubmission) error
}
