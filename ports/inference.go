package ports

import "context"

// ProgressReport describes engine load progress for UI display
type ProgressReport struct {
	Text     string
	Progress float64 // fraction in [0,1]
}

// GenerateParams are the per-request generation knobs
type GenerateParams struct {
	MaxTokens   int
	Temperature float64
}

// InferenceEngine is the low-level local model runtime. Load acquires
// the engine and model assets, reporting progress through the callback;
// Complete runs one single-turn text completion; Unload releases all
// engine resources. Lifecycle policy lives above this interface.
type InferenceEngine interface {
	Load(ctx context.Context, progress func(ProgressReport)) error
	Complete(ctx context.Context, prompt string, params GenerateParams) (string, error)
	Unload()
}
