package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"labstock/ports"
)

func newRuntimeStub(t *testing.T, model string, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"id": model}},
			})
		case "/chat/completions":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": reply}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestLocalEngineLoadAndComplete(t *testing.T) {
	srv := newRuntimeStub(t, "llama-3.2-1b-instruct", "ram:\n  type: DDR5\n")
	defer srv.Close()

	engine := NewLocalEngine(Config{BaseURL: srv.URL, Model: "llama-3.2-1b-instruct"})

	var reports []ports.ProgressReport
	if err := engine.Load(context.Background(), func(r ports.ProgressReport) {
		reports = append(reports, r)
	}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(reports) < 2 {
		t.Errorf("expected progress reports, got %d", len(reports))
	}
	if last := reports[len(reports)-1]; last.Progress != 1 {
		t.Errorf("final progress = %v, want 1", last.Progress)
	}

	text, err := engine.Complete(context.Background(), "prompt", ports.GenerateParams{MaxTokens: 64})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ram:\n  type: DDR5\n" {
		t.Errorf("text = %q", text)
	}
}

func TestLocalEngineLoadMissingModel(t *testing.T) {
	srv := newRuntimeStub(t, "some-other-model", "")
	defer srv.Close()

	engine := NewLocalEngine(Config{BaseURL: srv.URL, Model: "llama-3.2-1b-instruct"})

	if err := engine.Load(context.Background(), nil); err == nil {
		t.Fatal("Load succeeded against runtime without the model")
	}
}

func TestLocalEngineLoadUnreachable(t *testing.T) {
	engine := NewLocalEngine(Config{BaseURL: "http://127.0.0.1:1", Model: "m"})
	if err := engine.Load(context.Background(), nil); err == nil {
		t.Fatal("Load succeeded against unreachable runtime")
	}
}

func TestLocalEngineCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	engine := NewLocalEngine(Config{BaseURL: srv.URL, Model: "m"})
	text, err := engine.Complete(context.Background(), "prompt", ports.GenerateParams{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}
