// Package scraper turns URLs (or configured sites) into stored articles.
// Scraping is deliberately serialized with an inter-request delay to respect
// target sites; per-site failures are isolated so one broken site never
// aborts the batch.
package scraper

import (
	"context"
	"time"

	"github.com/trust-assembly/headline-engine/model"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

// defaultRequestDelay is the mandatory pause between successive article
// fetches against external sites.
const defaultRequestDelay = time.Second

// Store is the slice of the entity store the coordinator needs.
type Store interface {
	EnabledSites() ([]model.Site, error)
	GetOrCreateArticle(article *model.Article) (string, error)
}

// Coordinator drives extraction and persistence for single URLs and for
// batch scrapes across enabled sites.
type Coordinator struct {
	store     Store
	extractor Extractor
	source    URLSource

	// RequestDelay is overridable so tests don't sleep.
	RequestDelay time.Duration
}

func NewCoordinator(store Store, extractor Extractor, source URLSource) *Coordinator {
	return &Coordinator{
		store:        store,
		extractor:    extractor,
		source:       source,
		RequestDelay: defaultRequestDelay,
	}
}

// ScrapeArticle extracts one URL and returns the article ready for
// persistence. Returns (nil, nil) when the page yields no title or no
// content; extraction failures are logged, never fatal. When site is nil the
// owning site is inferred by matching the URL's hostname against enabled
// sites.
func (c *Coordinator) ScrapeArticle(ctx context.Context, url string, site *model.Site) (*model.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	var selectors model.ScrapeSelectors
	if site != nil {
		selectors = site.Selectors()
	}

	extracted, err := c.extractor.Extract(ctx, url, selectors)
	if err != nil {
		Logger.Log.Warnf("extraction failed for %s: %v", url, err)
		return nil, nil
	}
	if extracted.Title == "" || extracted.Content == "" {
		Logger.Log.Warnf("could not parse article from %s", url)
		return nil, nil
	}

	if site == nil {
		site = c.inferSite(url)
	}

	article := &model.Article{
		Url:             url,
		Headline:        extracted.Title,
		OriginalContent: extracted.Content,
		PublishedAt:     extracted.Published,
		ScrapedAt:       time.Now(),
		Status:          model.ArticleStatusScraped,
	}
	if extracted.Author != "" {
		author := extracted.Author
		article.Author = &author
	}
	if site != nil {
		siteID := site.Id
		article.SiteID = &siteID
	}
	return article, nil
}

// ScrapeAndSave scrapes one URL and persists it, returning the article id or
// "" when the page could not be parsed.
func (c *Coordinator) ScrapeAndSave(ctx context.Context, url string, site *model.Site) (string, error) {
	article, err := c.ScrapeArticle(ctx, url, site)
	if err != nil || article == nil {
		return "", err
	}
	return c.store.GetOrCreateArticle(article)
}

// ScrapeLatestArticles enumerates candidate URLs per enabled site and scrapes
// up to limit from each. One site failing is logged and skipped; the ids of
// everything that succeeded are returned.
func (c *Coordinator) ScrapeLatestArticles(ctx context.Context, limit int) ([]string, error) {
	sites, err := c.store.EnabledSites()
	if err != nil {
		return nil, err
	}

	var savedIDs []string
	for i := range sites {
		site := sites[i]
		ids, err := c.scrapeSite(ctx, site, limit)
		if err != nil {
			Logger.Log.Errorf("error scraping from %s: %v", site.Name, err)
			continue
		}
		savedIDs = append(savedIDs, ids...)
	}
	return savedIDs, nil
}

func (c *Coordinator) scrapeSite(ctx context.Context, site model.Site, limit int) ([]string, error) {
	Logger.Log.Infof("scraping latest articles from %s", site.Name)

	urls, err := c.source.LatestURLs(ctx, site)
	if err != nil {
		return nil, err
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}

	var savedIDs []string
	for _, url := range urls {
		if ctx.Err() != nil {
			return savedIDs, ctx.Err()
		}

		id, err := c.ScrapeAndSave(ctx, url, &site)
		if err != nil {
			Logger.Log.Errorf("error saving article %s: %v", url, err)
		} else if id != "" {
			savedIDs = append(savedIDs, id)
		}

		// Mandatory delay between requests to be respectful to target sites.
		if c.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return savedIDs, ctx.Err()
			case <-time.After(c.RequestDelay):
			}
		}
	}
	return savedIDs, nil
}

func (c *Coordinator) inferSite(url string) *model.Site {
	sites, err := c.store.EnabledSites()
	if err != nil {
		Logger.Log.Warnf("fail to list sites for inference: %v", err)
		return nil
	}
	urlHost := hostOf(url)
	for i := range sites {
		if hostOf(sites[i].BaseUrl) == urlHost {
			return &sites[i]
		}
	}
	return nil
}
