package llm

import (
	"errors"
	"fmt"

	"labstock/models"
)

// ErrCompletionInFlight is returned when a completion overlaps another
var ErrCompletionInFlight = errors.New("completion already in flight")

// NotReadyError reports a Complete call against a session that has not
// finished (or failed) initialization.
type NotReadyError struct {
	State models.SessionState
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("inference session is not ready (state %s)", e.State)
}
