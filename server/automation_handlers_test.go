package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trust-assembly/headline-engine/model"
	"github.com/trust-assembly/headline-engine/store"
	"github.com/trust-assembly/headline-engine/transformer"
)

// fakeReplacementSource satisfies the engine's store dependency; only the
// replacement lookup is exercised here.
type fakeReplacementSource struct {
	requestedURL string
	views        []store.ReplacementView
}

func (f *fakeReplacementSource) GetArticlesForTransformation(limit int) ([]model.Article, error) {
	return nil, nil
}

func (f *fakeReplacementSource) GetActiveCreatorPrompts() ([]model.CreatorPrompt, error) {
	return nil, nil
}

func (f *fakeReplacementSource) InsertTransformation(transformation *model.Transformation) (string, error) {
	return "", nil
}

func (f *fakeReplacementSource) MarkArticleTransformed(articleID string) error {
	return nil
}

func (f *fakeReplacementSource) InsertDeployment(transformationID string) (string, error) {
	return "", nil
}

func (f *fakeReplacementSource) GetActiveReplacements(url string) ([]store.ReplacementView, error) {
	f.requestedURL = url
	return f.views, nil
}

func TestReplacementsRouteMatchesEncodedURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	source := &fakeReplacementSource{views: []store.ReplacementView{
		{OriginalHeadline: "Original", TransformedHeadline: "Replacement", CreatorName: "Neutral Observer", ConfidenceScore: 0.9},
	}}
	router := NewRouter(&Handlers{Engine: transformer.NewEngine(source, nil)})

	// Encoded URLs contain %2F; the route must still match a single :url
	// segment and hand the still-encoded value to the handler.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/automation/replacements/https%3A%2F%2Fexample.com%2Farticle", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/article", source.requestedURL)
	assert.Contains(t, w.Body.String(), "Replacement")
	assert.Contains(t, w.Body.String(), `"success":true`)
}
