package scraper

import (
	"context"

	"github.com/trust-assembly/headline-engine/model"
)

// FakeExtractor returns canned extraction results keyed by URL, for tests
// that exercise the coordinator without the network.
type FakeExtractor struct {
	Articles map[string]*ExtractedArticle
	Err      error
	// Calls records every URL handed to Extract, in order.
	Calls []string
}

func (f *FakeExtractor) Extract(ctx context.Context, url string, selectors model.ScrapeSelectors) (*ExtractedArticle, error) {
	f.Calls = append(f.Calls, url)
	if f.Err != nil {
		return nil, f.Err
	}
	if article, ok := f.Articles[url]; ok {
		return article, nil
	}
	return &ExtractedArticle{}, nil
}

// FakeURLSource returns a fixed URL list per site name.
type FakeURLSource struct {
	URLs map[string][]string
	Err  error
}

func (f *FakeURLSource) LatestURLs(ctx context.Context, site model.Site) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.URLs[site.Name], nil
}
