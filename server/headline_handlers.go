package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/store"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

// transformedArticleView is the browser extension contract: camelCase keys,
// nothing else.
type transformedArticleView struct {
	OriginalHeadline    string `json:"originalHeadline"`
	TransformedHeadline string `json:"transformedHeadline"`
	ProviderUsed        string `json:"providerUsed"`
}

// TransformedHeadlineHandler parses the article behind url and rewrites its
// headline in the requested author's voice, synchronously.
func (h *Handlers) TransformedHeadlineHandler(c *gin.Context) {
	rawURL := c.Query("url")
	author := c.Query("author")
	if rawURL == "" || author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL and author are required"})
		return
	}

	extracted, err := h.Extractor.Extract(c.Request.Context(), rawURL, model.ScrapeSelectors{})
	if err != nil || extracted == nil || extracted.Title == "" || extracted.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not parse article"})
		return
	}

	result, err := h.Provider.Transform(c.Request.Context(), extracted.Title, author, extracted.Content, "")
	if err != nil {
		Logger.Log.Errorf("on-demand transform error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing request"})
		return
	}

	c.JSON(http.StatusOK, transformedArticleView{
		OriginalHeadline:    extracted.Title,
		TransformedHeadline: result.TransformedHeadline,
		ProviderUsed:        result.ProviderUsed,
	})
}

// ParsedArticleHandler exposes raw extraction results, mainly for debugging
// site selectors.
func (h *Handlers) ParsedArticleHandler(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	extracted, err := h.Extractor.Extract(c.Request.Context(), rawURL, model.ScrapeSelectors{})
	if err != nil || extracted == nil || extracted.Title == "" || extracted.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not parse article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       rawURL,
		"title":     extracted.Title,
		"content":   extracted.Content,
		"author":    extracted.Author,
		"published": extracted.Published,
	})
}

type creatorEditsRequest struct {
	Url string `json:"url"`
}

// CreatorEditsHandler lists every creator's stored headline for a URL,
// deployed or not.
func (h *Handlers) CreatorEditsHandler(c *gin.Context) {
	var req creatorEditsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	edits, err := h.Store.GetAllCreatorEdits(req.Url)
	if err != nil {
		Logger.Log.Errorf("creator edits error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing request"})
		return
	}
	if edits == nil {
		edits = []store.CreatorEdit{}
	}
	c.JSON(http.StatusOK, gin.H{"headlines": edits})
}
