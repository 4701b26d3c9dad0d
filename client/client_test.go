package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHeadlineDataCachesPerSession(t *testing.T) {
	backendCalls := 0
	var authorsSeen []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls++
		assert.Equal(t, "/headline", r.URL.Path)
		assert.Equal(t, "https://example.com/a", r.URL.Query().Get("url"))
		authorsSeen = append(authorsSeen, r.URL.Query().Get("author"))
		json.NewEncoder(w).Encode(TransformedArticle{
			OriginalHeadline:    "Original",
			TransformedHeadline: "Replacement",
			ProviderUsed:        "openai",
		})
	}))
	defer backend.Close()

	c := New(backend.URL)
	ctx := context.Background()

	first, err := c.GetHeadlineData(ctx, "https://example.com/a", "Neutral Observer")
	require.NoError(t, err)
	assert.Equal(t, "Replacement", first.TransformedHeadline)

	second, err := c.GetHeadlineData(ctx, "https://example.com/a", "Neutral Observer")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The second lookup is served from the session cache.
	assert.Equal(t, 1, backendCalls)

	// A different author is a different cache entry.
	_, err = c.GetHeadlineData(ctx, "https://example.com/a", "Plain Facts")
	require.NoError(t, err)
	assert.Equal(t, 2, backendCalls)
	assert.Equal(t, []string{"Neutral Observer", "Plain Facts"}, authorsSeen)
}

func TestGetHeadlineDataSurfacesBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Could not parse article"})
	}))
	defer backend.Close()

	c := New(backend.URL)
	_, err := c.GetHeadlineData(context.Background(), "https://example.com/a", "Neutral Observer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not parse article")
}

func TestGetTransformationsCachesByURL(t *testing.T) {
	backendCalls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls++
		assert.Equal(t, "/headlines", r.URL.Path)
		var req struct {
			Url string `json:"url"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"headlines": []CreatorEdit{
				{Url: req.Url, Creator: "Neutral Observer", Headline: "Calm Version"},
				{Url: req.Url, Creator: "Plain Facts", Headline: "Plain Version"},
			},
		})
	}))
	defer backend.Close()

	c := New(backend.URL)
	ctx := context.Background()

	edits, err := c.GetTransformations(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, "Neutral Observer", edits[0].Creator)

	_, err = c.GetTransformations(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, 1, backendCalls)
}
