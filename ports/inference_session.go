package ports

import (
	"context"

	"labstock/models"
)

// InferenceSession owns the process-wide inference engine handle and
// its lifecycle. Initialize never returns an error: a true means the
// session is ready, a false means it is loading elsewhere or entered
// the error state (visible via Status). Complete requires a ready
// session. Reset releases the engine and returns to idle, allowing a
// retry after an error.
type InferenceSession interface {
	Initialize(ctx context.Context) bool
	Complete(ctx context.Context, prompt string, params GenerateParams) (string, error)
	Reset()
	Status() models.SessionStatus
}
