package ui

import (
	"net/http"

	"labstock/domain/spec"
	"labstock/internal/errors"

	"github.com/gin-gonic/gin"
)

type communitySubmitRequest struct {
	Model        string              `json:"model" binding:"required"`
	Specs        *spec.Specification `json:"specs" binding:"required"`
	DeviceType   *string             `json:"device_type"`
	Manufacturer *string             `json:"manufacturer"`
}

// handleCommunityFind looks up a verified community entry. Public:
// reading crowd-vetted specs needs no account.
func (s *Server) handleCommunityFind(c *gin.Context) {
	model := c.Query("model")
	if model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model query parameter required"})
		return
	}

	hit, err := s.community.Find(c.Request.Context(), model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "community lookup failed"})
		return
	}
	if !hit.Found {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "specs": hit.Specs})
}

// handleCommunitySubmit accepts a new unverified contribution
func (s *Server) handleCommunitySubmit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req communitySubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model and specs are required"})
		return
	}

	err := s.community.Submit(c.Request.Context(), userID, req.Model, req.Specs, req.DeviceType, req.Manufacturer)
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodeAlreadyExists:
			// First submission wins; report without overwriting
			c.JSON(http.StatusConflict, gin.H{"success": false, "reason": "already_exists"})
		case errors.CodeValidationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
