package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trust-assembly/headline-engine/scraper"
	"github.com/trust-assembly/headline-engine/transformer"
)

func performRequest(router *gin.Engine, method string, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func newHeadlineTestRouter(extractor scraper.Extractor, provider transformer.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handlers{Extractor: extractor, Provider: provider}
	router.GET("/headline", h.TransformedHeadlineHandler)
	router.GET("/parsedArticle", h.ParsedArticleHandler)
	return router
}

func TestTransformedHeadlineRequiresParams(t *testing.T) {
	router := newHeadlineTestRouter(&scraper.FakeExtractor{}, &transformer.FakeProvider{})

	for _, target := range []string{"/headline", "/headline?url=https://example.com/a", "/headline?author=Neutral+Observer"} {
		w := performRequest(router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "URL and author are required")
	}
}

func TestTransformedHeadlineUnparsableArticle(t *testing.T) {
	// The fake yields an empty extraction for unknown URLs.
	router := newHeadlineTestRouter(&scraper.FakeExtractor{}, &transformer.FakeProvider{})

	w := performRequest(router, http.MethodGet, "/headline?url=https://example.com/a&author=Neutral+Observer")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Could not parse article")
}

func TestTransformedHeadlineProviderFailure(t *testing.T) {
	extractor := &scraper.FakeExtractor{Articles: map[string]*scraper.ExtractedArticle{
		"https://example.com/a": {Title: "Original Headline", Content: "Body"},
	}}
	// No canned rewrite configured: every call fails.
	router := newHeadlineTestRouter(extractor, &transformer.FakeProvider{})

	w := performRequest(router, http.MethodGet, "/headline?url=https://example.com/a&author=Neutral+Observer")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error processing request")
}

func TestTransformedHeadlineSuccess(t *testing.T) {
	extractor := &scraper.FakeExtractor{Articles: map[string]*scraper.ExtractedArticle{
		"https://example.com/a": {Title: "Original Headline", Content: "Body"},
	}}
	provider := &transformer.FakeProvider{Rewrite: map[string]string{
		"Original Headline": "Calm Rewritten Headline",
	}}
	router := newHeadlineTestRouter(extractor, provider)

	target := "/headline?url=" + url.QueryEscape("https://example.com/a") + "&author=Neutral+Observer"
	w := performRequest(router, http.MethodGet, target)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Original Headline", resp["originalHeadline"])
	assert.Equal(t, "Calm Rewritten Headline", resp["transformedHeadline"])
	assert.Equal(t, "test", resp["providerUsed"])
}

func TestParsedArticle(t *testing.T) {
	extractor := &scraper.FakeExtractor{Articles: map[string]*scraper.ExtractedArticle{
		"https://example.com/a": {Title: "T", Content: "C", Author: "A"},
	}}
	router := newHeadlineTestRouter(extractor, &transformer.FakeProvider{})

	w := performRequest(router, http.MethodGet, "/parsedArticle")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "URL is required")

	w = performRequest(router, http.MethodGet, "/parsedArticle?url=https://example.com/a")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "T", resp["title"])
	assert.Equal(t, "A", resp["author"])
}
