package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
)

// extractTimeout bounds a single extraction call. A page that takes longer is
// treated as an extraction failure, not a process-ending fault.
const extractTimeout = 30 * time.Second

// ExtractedArticle is what the extraction capability yields for one URL.
type ExtractedArticle struct {
	Title     string
	Content   string
	Author    string
	Published *time.Time
}

// Extractor is the external "extract content from URL" capability. Site
// selectors are optional; the zero value means the implementation should fall
// back to generic heuristics.
type Extractor interface {
	Extract(ctx context.Context, url string, selectors model.ScrapeSelectors) (*ExtractedArticle, error)
}

// HTMLExtractor extracts articles by fetching the page and querying the DOM,
// honoring per-site selectors when the site has them configured.
type HTMLExtractor struct {
	client *http.Client
}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{
		client: &http.Client{Timeout: extractTimeout},
	}
}

func (e *HTMLExtractor) Extract(ctx context.Context, url string, selectors model.ScrapeSelectors) (*ExtractedArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fail to build extraction request")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fail to fetch article page")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to parse article page")
	}

	extracted := &ExtractedArticle{
		Title:   e.extractTitle(doc, selectors.Headline),
		Content: e.extractContent(doc, selectors.Content),
		Author:  e.extractAuthor(doc, selectors.Author),
	}

	if published, ok := e.extractPublished(doc); ok {
		extracted.Published = &published
	}
	return extracted, nil
}

func (e *HTMLExtractor) extractTitle(doc *goquery.Document, selector string) string {
	candidates := []string{selector, "h1.headline", "h1[class*=headline]", "h1", "title"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if text := strings.TrimSpace(doc.Find(candidate).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func (e *HTMLExtractor) extractContent(doc *goquery.Document, selector string) string {
	candidates := []string{selector, "article", "div[class*=article-body]", "main"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		selection := doc.Find(candidate).First()
		if selection.Length() == 0 {
			continue
		}
		var paragraphs []string
		selection.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
		if text := strings.TrimSpace(selection.Text()); text != "" {
			return text
		}
	}
	return ""
}

func (e *HTMLExtractor) extractAuthor(doc *goquery.Document, selector string) string {
	if selector != "" {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	if content, exists := doc.Find(`meta[name="author"]`).Attr("content"); exists {
		return strings.TrimSpace(content)
	}
	return ""
}

func (e *HTMLExtractor) extractPublished(doc *goquery.Document) (time.Time, bool) {
	metaSelectors := []string{
		`meta[property="article:published_time"]`,
		`meta[name="publish-date"]`,
		`meta[name="date"]`,
	}
	for _, metaSelector := range metaSelectors {
		content, exists := doc.Find(metaSelector).Attr("content")
		if !exists || content == "" {
			continue
		}
		if published, err := dateparse.ParseAny(content); err == nil {
			return published, true
		}
	}
	return time.Time{}, false
}
