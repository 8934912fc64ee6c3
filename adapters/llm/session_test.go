package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"labstock/models"
	"labstock/ports"
)

// fakeEngine is a controllable InferenceEngine for session tests
type fakeEngine struct {
	mu              sync.Mutex
	loadErr         error
	loadGate        chan struct{} // when set, Load blocks until closed
	completeGate    chan struct{} // when set, Complete blocks until closed
	completeEntered chan struct{} // signaled when Complete is underway
	response        string
	respErr         error
	loads           int
	unloads         int
}

func (f *fakeEngine) Load(ctx context.Context, progress func(ports.ProgressReport)) error {
	f.mu.Lock()
	f.loads++
	gate := f.loadGate
	err := f.loadErr
	f.mu.Unlock()

	if progress != nil {
		progress(ports.ProgressReport{Text: "Loading...", Progress: 0.5})
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeEngine) Complete(ctx context.Context, prompt string, params ports.GenerateParams) (string, error) {
	f.mu.Lock()
	gate := f.completeGate
	entered := f.completeEntered
	response, respErr := f.response, f.respErr
	f.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}
	return response, respErr
}

func (f *fakeEngine) Unload() {
	f.mu.Lock()
	f.unloads++
	f.mu.Unlock()
}

func TestSessionInitializeSuccess(t *testing.T) {
	engine := &fakeEngine{response: "hello"}
	session := NewSession(engine)

	if got := session.Status().State; got != models.SessionStateIdle {
		t.Fatalf("initial state = %s", got)
	}

	if !session.Initialize(context.Background()) {
		t.Fatal("Initialize returned false")
	}

	status := session.Status()
	if status.State != models.SessionStateReady {
		t.Errorf("state = %s, want ready", status.State)
	}
	if status.Progress != 1 {
		t.Errorf("progress = %v, want 1", status.Progress)
	}

	// Second call is a no-op returning true, no second load
	if !session.Initialize(context.Background()) {
		t.Error("repeat Initialize returned false")
	}
	if engine.loads != 1 {
		t.Errorf("engine loaded %d times, want 1", engine.loads)
	}
}

func TestSessionInitializeFailure(t *testing.T) {
	engine := &fakeEngine{loadErr: errors.New("no hardware acceleration available")}
	session := NewSession(engine)

	if session.Initialize(context.Background()) {
		t.Fatal("Initialize returned true despite load failure")
	}

	status := session.Status()
	if status.State != models.SessionStateError {
		t.Errorf("state = %s, want error", status.State)
	}
	if status.Error != "no hardware acceleration available" {
		t.Errorf("error message = %q", status.Error)
	}

	// Reset clears the error and allows a retry
	session.Reset()
	status = session.Status()
	if status.State != models.SessionStateIdle {
		t.Errorf("state after reset = %s, want idle", status.State)
	}
	if status.Error != "" {
		t.Errorf("error after reset = %q, want empty", status.Error)
	}
	if engine.unloads != 1 {
		t.Errorf("engine unloaded %d times, want 1", engine.unloads)
	}

	engine.mu.Lock()
	engine.loadErr = nil
	engine.mu.Unlock()
	if !session.Initialize(context.Background()) {
		t.Error("Initialize after reset returned false")
	}
}

func TestSessionConcurrentInitializeRejected(t *testing.T) {
	gate := make(chan struct{})
	engine := &fakeEngine{loadGate: gate}
	session := NewSession(engine)

	done := make(chan bool)
	go func() {
		done <- session.Initialize(context.Background())
	}()

	// Wait until the first load is underway
	deadline := time.Now().Add(2 * time.Second)
	for session.Status().State != models.SessionStateLoading {
		if time.Now().After(deadline) {
			t.Fatal("session never entered loading state")
		}
		time.Sleep(time.Millisecond)
	}

	if session.Initialize(context.Background()) {
		t.Error("second Initialize returned true while loading")
	}
	engine.mu.Lock()
	got := engine.loads
	engine.mu.Unlock()
	if got != 1 {
		t.Errorf("engine loaded %d times while gated, want 1", got)
	}

	close(gate)
	if !<-done {
		t.Error("first Initialize returned false")
	}
}

func TestSessionResetDuringLoad(t *testing.T) {
	gate := make(chan struct{})
	engine := &fakeEngine{loadGate: gate}
	session := NewSession(engine)

	done := make(chan bool)
	go func() {
		done <- session.Initialize(context.Background())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for session.Status().State != models.SessionStateLoading {
		if time.Now().After(deadline) {
			t.Fatal("session never entered loading state")
		}
		time.Sleep(time.Millisecond)
	}

	session.Reset()
	close(gate)

	if <-done {
		t.Error("Initialize reported success after Reset tore the session down")
	}
	if got := session.Status().State; got != models.SessionStateIdle {
		t.Errorf("state = %s, want idle to stick after mid-load reset", got)
	}
}

func TestSessionOverlappingCompleteRejected(t *testing.T) {
	gate := make(chan struct{})
	engine := &fakeEngine{
		response:        "ok",
		completeGate:    gate,
		completeEntered: make(chan struct{}, 1),
	}
	session := NewSession(engine)
	if !session.Initialize(context.Background()) {
		t.Fatal("Initialize failed")
	}

	done := make(chan error)
	go func() {
		_, err := session.Complete(context.Background(), "first", ports.GenerateParams{})
		done <- err
	}()
	<-engine.completeEntered

	_, err := session.Complete(context.Background(), "second", ports.GenerateParams{})
	if !errors.Is(err, ErrCompletionInFlight) {
		t.Fatalf("overlapping Complete error = %v, want ErrCompletionInFlight", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Errorf("first Complete failed: %v", err)
	}

	// The gate clears once the first completion returns
	if _, err := session.Complete(context.Background(), "third", ports.GenerateParams{}); err != nil {
		t.Errorf("Complete after drain failed: %v", err)
	}
}

func TestSessionCompleteRequiresReady(t *testing.T) {
	session := NewSession(&fakeEngine{})

	_, err := session.Complete(context.Background(), "prompt", ports.GenerateParams{})
	if err == nil {
		t.Fatal("Complete on idle session did not fail")
	}
	var notReady *NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("error = %v, want NotReadyError", err)
	}
	if notReady.State != models.SessionStateIdle {
		t.Errorf("reported state = %s", notReady.State)
	}
}

func TestSessionComplete(t *testing.T) {
	engine := &fakeEngine{response: "cpu:\n  model: Intel N100\n"}
	session := NewSession(engine)
	session.Initialize(context.Background())

	text, err := session.Complete(context.Background(), "prompt", ports.GenerateParams{MaxTokens: 512, Temperature: 0.2})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "cpu:\n  model: Intel N100\n" {
		t.Errorf("text = %q", text)
	}
}
