package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"labstock/ports"
)

// Config holds connection settings for the local inference server
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LocalEngine drives a llama-server style runtime over its
// OpenAI-compatible HTTP surface. The process owns no model weights
// itself; Load verifies the runtime is reachable and warms the model
// into memory so later completions don't pay the load cost.
type LocalEngine struct {
	config Config
	client *http.Client
}

// NewLocalEngine creates an engine client. The timeout bounds single
// completions, which can take tens of seconds on CPU-only hosts.
func NewLocalEngine(config Config) *LocalEngine {
	if config.Timeout <= 0 {
		config.Timeout = 120 * time.Second
	}
	return &LocalEngine{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Load probes the runtime and warms the model, reporting progress for
// UI display. A missing runtime or model is a hard failure; the
// session above translates it into the error state.
func (e *LocalEngine) Load(ctx context.Context, progress func(ports.ProgressReport)) error {
	if progress == nil {
		progress = func(ports.ProgressReport) {}
	}

	progress(ports.ProgressReport{Text: "Connecting to inference runtime...", Progress: 0.1})
	if err := e.probeModel(ctx); err != nil {
		return err
	}

	progress(ports.ProgressReport{Text: "Loading model " + e.config.Model + "...", Progress: 0.5})
	if _, err := e.Complete(ctx, "ok", ports.GenerateParams{MaxTokens: 1}); err != nil {
		return fmt.Errorf("model warmup failed: %w", err)
	}

	progress(ports.ProgressReport{Text: "Ready", Progress: 1})
	return nil
}

// probeModel checks the runtime's model list for the configured model.
// This doubles as the capability check: no runtime means no local
// inference on this host.
func (e *LocalEngine) probeModel(ctx context.Context) error {
	url := strings.TrimRight(e.config.BaseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build models request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("inference runtime is not reachable at %s: %w", e.config.BaseURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read models response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("inference runtime http %d: %s", resp.StatusCode, string(raw))
	}

	type model struct {
		ID string `json:"id"`
	}
	type modelList struct {
		Data []model `json:"data"`
	}
	var decoded modelList
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("unmarshal models response: %w", err)
	}

	for _, m := range decoded.Data {
		if m.ID == e.config.Model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not available on the inference runtime", e.config.Model)
}

// Complete runs one single-turn completion and returns the first
// choice's text, or an empty string when the engine yields no content.
func (e *LocalEngine) Complete(ctx context.Context, prompt string, params ports.GenerateParams) (string, error) {
	if params.MaxTokens <= 0 {
		params.MaxTokens = 512
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model:       e.config.Model,
		Messages:    []msg{{Role: "user", Content: prompt}},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(e.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}

// Unload drops pooled connections to the runtime. The runtime itself
// decides when to evict weights.
func (e *LocalEngine) Unload() {
	e.client.CloseIdleConnections()
}
