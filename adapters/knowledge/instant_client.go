package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"labstock/ports"
)

const defaultBaseURL = "https://api.duckduckgo.com"

// InstantClient queries the DuckDuckGo Instant Answer API for a short
// abstract. Only popular hardware has knowledge-graph entries, so the
// hit rate is low; the cascade treats this as a best-effort source.
type InstantClient struct {
	BaseURL string
	Timeout time.Duration
	client  *http.Client
}

// NewInstantClient creates a client with a hard per-query timeout
func NewInstantClient(timeout time.Duration) *InstantClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &InstantClient{
		BaseURL: defaultBaseURL,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// instantResponse mirrors the fields of the instant-answer payload we use
type instantResponse struct {
	AbstractText string `json:"AbstractText"`
	Heading      string `json:"Heading"`
	AbstractURL  string `json:"AbstractURL"`
}

// Query issues exactly one GET against the instant-answer API. It never
// returns an error: network failures, non-2xx statuses and timeouts all
// resolve to an empty answer so the cascade can fall through.
func (c *InstantClient) Query(ctx context.Context, query string) (ports.InstantAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&t=labstock",
		strings.TrimRight(c.BaseURL, "/"), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("[InstantClient] build request failed: %v", err)
		return ports.InstantAnswer{}, nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[InstantClient] query failed: %v", err)
		return ports.InstantAnswer{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[InstantClient] http %d for query %q", resp.StatusCode, query)
		return ports.InstantAnswer{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[InstantClient] read response failed: %v", err)
		return ports.InstantAnswer{}, nil
	}

	var decoded instantResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		log.Printf("[InstantClient] unmarshal failed: %v", err)
		return ports.InstantAnswer{}, nil
	}

	return ports.InstantAnswer{
		Text:      decoded.AbstractText,
		Heading:   decoded.Heading,
		SourceURL: decoded.AbstractURL,
	}, nil
}
