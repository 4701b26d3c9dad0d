package scraper

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trust-assembly/headline-engine/model"
)

// fakeScraperStore is an in-memory Store for coordinator tests.
type fakeScraperStore struct {
	sites    []model.Site
	sitesErr error
	saved    []model.Article
}

func (f *fakeScraperStore) EnabledSites() ([]model.Site, error) {
	if f.sitesErr != nil {
		return nil, f.sitesErr
	}
	return f.sites, nil
}

func (f *fakeScraperStore) GetOrCreateArticle(article *model.Article) (string, error) {
	f.saved = append(f.saved, *article)
	return "article-" + article.Url, nil
}

func newTestCoordinator(store Store, extractor Extractor, source URLSource) *Coordinator {
	c := NewCoordinator(store, extractor, source)
	c.RequestDelay = 0
	return c
}

func TestScrapeArticleReturnsNilOnUnparsablePage(t *testing.T) {
	entityStore := &fakeScraperStore{}
	extractor := &FakeExtractor{Articles: map[string]*ExtractedArticle{
		"https://example.com/no-content": {Title: "Headline Only"},
	}}
	coordinator := newTestCoordinator(entityStore, extractor, &FakeURLSource{})

	article, err := coordinator.ScrapeArticle(context.Background(), "https://example.com/no-content", nil)
	require.NoError(t, err)
	assert.Nil(t, article)

	// An extraction error is also a soft failure.
	failing := newTestCoordinator(entityStore, &FakeExtractor{Err: errors.New("boom")}, &FakeURLSource{})
	article, err = failing.ScrapeArticle(context.Background(), "https://example.com/a", nil)
	require.NoError(t, err)
	assert.Nil(t, article)
}

func TestScrapeArticleInfersSiteByHostname(t *testing.T) {
	entityStore := &fakeScraperStore{sites: []model.Site{
		{Id: "s1", Name: "Example Times", BaseUrl: "https://example-times.com"},
		{Id: "s2", Name: "Daily Report", BaseUrl: "https://daily-report.org"},
	}}
	extractor := &FakeExtractor{Articles: map[string]*ExtractedArticle{
		"https://daily-report.org/politics/a": {Title: "T", Content: "C", Author: "A"},
	}}
	coordinator := newTestCoordinator(entityStore, extractor, &FakeURLSource{})

	article, err := coordinator.ScrapeArticle(context.Background(), "https://daily-report.org/politics/a", nil)
	require.NoError(t, err)
	require.NotNil(t, article)
	require.NotNil(t, article.SiteID)
	assert.Equal(t, "s2", *article.SiteID)
	assert.Equal(t, model.ArticleStatusScraped, article.Status)
	require.NotNil(t, article.Author)
	assert.Equal(t, "A", *article.Author)
}

func TestScrapeLatestArticlesRespectsLimit(t *testing.T) {
	site := model.Site{Id: "s1", Name: "Example Times", BaseUrl: "https://example-times.com"}
	entityStore := &fakeScraperStore{sites: []model.Site{site}}
	extractor := &FakeExtractor{Articles: map[string]*ExtractedArticle{
		"https://example-times.com/1": {Title: "One", Content: "C"},
		"https://example-times.com/2": {Title: "Two", Content: "C"},
		"https://example-times.com/3": {Title: "Three", Content: "C"},
	}}
	source := &FakeURLSource{URLs: map[string][]string{
		"Example Times": {
			"https://example-times.com/1",
			"https://example-times.com/2",
			"https://example-times.com/3",
		},
	}}

	coordinator := newTestCoordinator(entityStore, extractor, source)
	ids, err := coordinator.ScrapeLatestArticles(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, []string{"https://example-times.com/1", "https://example-times.com/2"}, extractor.Calls)
}

func TestScrapeLatestArticlesIsolatesSiteFailures(t *testing.T) {
	entityStore := &fakeScraperStore{sites: []model.Site{
		{Id: "s1", Name: "Broken Site", BaseUrl: "https://broken.example"},
		{Id: "s2", Name: "Working Site", BaseUrl: "https://working.example"},
	}}
	extractor := &FakeExtractor{Articles: map[string]*ExtractedArticle{
		"https://working.example/a": {Title: "T", Content: "C"},
	}}
	source := &failOnceSource{
		failFor: "Broken Site",
		urls:    map[string][]string{"Working Site": {"https://working.example/a"}},
	}

	coordinator := newTestCoordinator(entityStore, extractor, source)
	ids, err := coordinator.ScrapeLatestArticles(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"article-https://working.example/a"}, ids)
}

func TestScrapeLatestArticlesSkipsUnparsablePages(t *testing.T) {
	site := model.Site{Id: "s1", Name: "Example Times", BaseUrl: "https://example-times.com"}
	entityStore := &fakeScraperStore{sites: []model.Site{site}}
	extractor := &FakeExtractor{Articles: map[string]*ExtractedArticle{
		"https://example-times.com/good": {Title: "T", Content: "C"},
	}}
	source := &FakeURLSource{URLs: map[string][]string{
		"Example Times": {"https://example-times.com/bad", "https://example-times.com/good"},
	}}

	coordinator := newTestCoordinator(entityStore, extractor, source)
	ids, err := coordinator.ScrapeLatestArticles(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Len(t, entityStore.saved, 1)
}

// failOnceSource errors for one named site and serves canned URLs otherwise.
type failOnceSource struct {
	failFor string
	urls    map[string][]string
}

func (f *failOnceSource) LatestURLs(ctx context.Context, site model.Site) ([]string, error) {
	if site.Name == f.failFor {
		return nil, errors.New("site unavailable")
	}
	return f.urls[site.Name], nil
}
