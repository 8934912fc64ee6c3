package models

// SessionState represents the lifecycle state of the local inference session
type SessionState string

const (
	SessionStateIdle    SessionState = "idle"
	SessionStateLoading SessionState = "loading"
	SessionStateReady   SessionState = "ready"
	SessionStateError   SessionState = "error"
)

// SessionStatus is a point-in-time snapshot of the inference session,
// enough for a UI to render a loading/ready/error indicator.
type SessionStatus struct {
	State        SessionState `json:"state"`
	Error        string       `json:"error,omitempty"`
	ProgressText string       `json:"progress_text,omitempty"`
	Progress     float64      `json:"progress"`
}
