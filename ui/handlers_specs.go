package ui

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"labstock/domain/spec"
	"labstock/internal/errors"

	"github.com/gin-gonic/gin"
)

type lookupRequest struct {
	Model string `json:"model" binding:"required"`
}

type extractRequest struct {
	Model string `json:"model" binding:"required"`
	Text  string `json:"text"`
}

type cacheSaveRequest struct {
	Model     string              `json:"model" binding:"required"`
	Specs     *spec.Specification `json:"specs" binding:"required"`
	SourceURL string              `json:"source_url"`
}

// handleLookup runs the full cascade for the authenticated user
func (s *Server) handleLookup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}

	result := s.lookup.Resolve(c.Request.Context(), userID, req.Model)
	if !result.Success && result.Error != "" && !result.NeedsUserInput {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleExtract parses user-pasted text into structured specs
func (s *Server) handleExtract(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}

	result := s.lookup.ExtractFromText(c.Request.Context(), userID, req.Model, req.Text)
	if !result.Success {
		if result.Error == "Text is required" {
			c.JSON(http.StatusBadRequest, result)
			return
		}
		appErr := errors.ExtractionFailed(result.Error)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleCacheCheck probes the caller's personal cache
func (s *Server) handleCacheCheck(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	model := c.Query("model")
	if model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model query parameter required"})
		return
	}

	hit, err := s.cache.Check(c.Request.Context(), userID, model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache lookup failed"})
		return
	}
	if !hit.Cached {
		c.JSON(http.StatusOK, gin.H{"cached": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cached": true, "specs": hit.Specs, "source_url": hit.SourceURL})
}

// handleCacheSave upserts a cache entry, resetting its TTL
func (s *Server) handleCacheSave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req cacheSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model and specs are required"})
		return
	}
	if req.Specs.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "specs must not be empty"})
		return
	}

	if err := s.cache.Save(c.Request.Context(), userID, req.Model, req.Specs, req.SourceURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleInferenceStatus reports the session state for UI display
func (s *Server) handleInferenceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.lookup.InferenceStatus())
}

// handleInferenceReset unloads the engine, allowing a retry after error
func (s *Server) handleInferenceReset(c *gin.Context) {
	s.lookup.ResetInference()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)

	htmlEntities = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#x27;", "'",
	)
)

// cleanHTML strips tags and common entities from a search result page
func cleanHTML(text string) string {
	return strings.TrimSpace(htmlEntities.Replace(htmlTagRe.ReplaceAllString(text, "")))
}

// handleProxySearch fetches a search result page on the user's behalf.
// One request per user per interval; early arrivals are rejected, not
// queued.
func (s *Server) handleProxySearch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter required"})
		return
	}

	if !s.limiter.TryAcquire(userID.String()) {
		err := errors.RateLimited("search rate limit exceeded, try again shortly")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Message, "code": err.Code})
		return
	}

	searchURL := s.searchBaseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, searchURL, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search request failed"})
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search request failed"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search request failed"})
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search response unreadable"})
		return
	}

	c.String(http.StatusOK, cleanHTML(string(body)))
}
