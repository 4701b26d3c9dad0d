package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trust-assembly/headline-engine/model"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

type submitReplacementRequest struct {
	Url                 string   `json:"url"`
	OriginalHeadline    string   `json:"original_headline"`
	ReplacementHeadline string   `json:"replacement_headline"`
	Citations           []string `json:"citations"`
}

// SubmitReplacementHandler records a community sourced headline replacement.
// The submitting user comes from the identity middleware.
func (h *Handlers) SubmitReplacementHandler(c *gin.Context) {
	userID := c.Request.Header.Get("sub")

	var req submitReplacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	replacement := model.HeadlineReplacement{
		UserID:              userID,
		Url:                 req.Url,
		OriginalHeadline:    req.OriginalHeadline,
		ReplacementHeadline: req.ReplacementHeadline,
	}
	for _, citation := range req.Citations {
		replacement.Citations = append(replacement.Citations, model.Citation{CitationUrl: citation})
	}

	if err := replacement.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Store.CreateHeadlineReplacement(&replacement)
	if err != nil {
		Logger.Log.Errorf("create replacement error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit replacement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// ListReplacementsHandler lists community submissions for a URL, newest
// first.
func (h *Handlers) ListReplacementsHandler(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	replacements, err := h.Store.GetHeadlineReplacements(rawURL)
	if err != nil {
		Logger.Log.Errorf("list replacements error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list replacements"})
		return
	}
	if replacements == nil {
		replacements = []model.HeadlineReplacement{}
	}
	c.JSON(http.StatusOK, gin.H{"replacements": replacements})
}
