package llm

import (
	"context"
	"log"
	"sync"

	"labstock/models"
	"labstock/ports"
)

// Session is the process-wide owner of the inference engine handle.
// It enforces the idle -> loading -> ready | error lifecycle: a second
// Initialize while loading returns false without starting another
// load, and only Reset leaves the error state. The cascade never
// touches the engine directly.
type Session struct {
	engine ports.InferenceEngine

	mu         sync.Mutex
	state      models.SessionState
	errMsg     string
	progress   ports.ProgressReport
	completing bool
}

// NewSession creates an idle session around an engine
func NewSession(engine ports.InferenceEngine) *Session {
	return &Session{
		engine: engine,
		state:  models.SessionStateIdle,
	}
}

// Initialize brings the session to ready. It never returns an error:
// true means ready (possibly already), false means either a load is
// in flight elsewhere or the load failed (state error, message in
// Status). Callers retry after Reset.
func (s *Session) Initialize(ctx context.Context) bool {
	s.mu.Lock()
	switch s.state {
	case models.SessionStateReady:
		s.mu.Unlock()
		return true
	case models.SessionStateLoading:
		// Duplicate concurrent load; the first caller owns it
		s.mu.Unlock()
		return false
	}
	s.state = models.SessionStateLoading
	s.errMsg = ""
	s.progress = ports.ProgressReport{Text: "Initializing...", Progress: 0}
	s.mu.Unlock()

	err := s.engine.Load(ctx, func(report ports.ProgressReport) {
		s.mu.Lock()
		s.progress = report
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.SessionStateLoading {
		// Reset ran while the load was in flight; the teardown wins
		if err == nil {
			s.engine.Unload()
		}
		return false
	}
	if err != nil {
		log.Printf("[Session] engine load failed: %v", err)
		s.state = models.SessionStateError
		s.errMsg = err.Error()
		s.progress = ports.ProgressReport{Text: "Error", Progress: 0}
		return false
	}
	s.state = models.SessionStateReady
	s.progress = ports.ProgressReport{Text: "Ready", Progress: 1}
	return true
}

// Complete runs one single-turn completion. The session must be ready;
// overlapping completions are rejected rather than queued because the
// cascade issues at most one extraction at a time.
func (s *Session) Complete(ctx context.Context, prompt string, params ports.GenerateParams) (string, error) {
	s.mu.Lock()
	if s.state != models.SessionStateReady {
		state := s.state
		s.mu.Unlock()
		return "", &NotReadyError{State: state}
	}
	if s.completing {
		s.mu.Unlock()
		return "", ErrCompletionInFlight
	}
	s.completing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.completing = false
		s.mu.Unlock()
	}()

	return s.engine.Complete(ctx, prompt, params)
}

// Reset unloads the engine and returns to idle, clearing any error and
// progress state. Used to retry after a failed load.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionStateIdle {
		s.engine.Unload()
	}
	s.state = models.SessionStateIdle
	s.errMsg = ""
	s.progress = ports.ProgressReport{}
	s.completing = false
}

// Status returns a snapshot for UI display
func (s *Session) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SessionStatus{
		State:        s.state,
		Error:        s.errMsg,
		ProgressText: s.progress.Text,
		Progress:     s.progress.Progress,
	}
}
