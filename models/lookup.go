package models

import "labstock/domain/spec"

// LookupSource tags which cascade stage produced a resolution
type LookupSource string

const (
	SourceCache        LookupSource = "cache"
	SourceWebDerived   LookupSource = "web-derived"
	SourceCommunity    LookupSource = "community"
	SourceUserProvided LookupSource = "user-provided"
)

// LookupResult is the terminal outcome of one cascade invocation.
// NeedsUserInput marks exhaustion of all automated sources; it is an
// expected outcome for rare hardware, not an error.
type LookupResult struct {
	Success        bool                `json:"success"`
	Specs          *spec.Specification `json:"specs,omitempty"`
	Source         LookupSource        `json:"source,omitempty"`
	Error          string              `json:"error,omitempty"`
	NeedsUserInput bool                `json:"needs_user_input,omitempty"`
}
