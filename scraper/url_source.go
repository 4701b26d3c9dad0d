package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/gocolly/colly"
	"github.com/mmcdole/gofeed"
	"github.com/trust-assembly/headline-engine/model"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

// URLSource derives candidate article URLs for one configured site.
type URLSource interface {
	LatestURLs(ctx context.Context, site model.Site) ([]string, error)
}

// feedPaths are the common RSS locations probed relative to a site's base
// URL, in order.
var feedPaths = []string{"/feed", "/rss", "/rss.xml", "/feed.xml", "/index.xml"}

// sectionPaths is the last-resort candidate list when neither a feed nor the
// front page yields anything.
var sectionPaths = []string{
	"/politics/latest",
	"/world/breaking",
	"/business/markets",
	"/technology/ai",
	"/health/covid",
}

// DiscoverySource finds candidate URLs by probing RSS feeds first, then
// crawling the site's front page for same-host article links, then falling
// back to a fixed set of section paths.
type DiscoverySource struct {
	feedParser *gofeed.Parser
	// MaxCrawlLinks caps how many links the front-page crawl collects.
	MaxCrawlLinks int
}

func NewDiscoverySource() *DiscoverySource {
	return &DiscoverySource{
		feedParser:    gofeed.NewParser(),
		MaxCrawlLinks: 25,
	}
}

func (d *DiscoverySource) LatestURLs(ctx context.Context, site model.Site) ([]string, error) {
	if urls := d.fromFeeds(ctx, site); len(urls) > 0 {
		return urls, nil
	}
	if urls := d.fromFrontPage(site); len(urls) > 0 {
		return urls, nil
	}

	// Same placeholder sections the manual pipeline used before feed
	// discovery existed.
	base := strings.TrimRight(site.BaseUrl, "/")
	var urls []string
	for _, path := range sectionPaths {
		urls = append(urls, base+path)
	}
	return urls, nil
}

func (d *DiscoverySource) fromFeeds(ctx context.Context, site model.Site) []string {
	base := strings.TrimRight(site.BaseUrl, "/")
	for _, path := range feedPaths {
		feed, err := d.feedParser.ParseURLWithContext(base+path, ctx)
		if err != nil || feed == nil {
			continue
		}
		var urls []string
		for _, item := range feed.Items {
			if item.Link != "" {
				urls = append(urls, item.Link)
			}
		}
		if len(urls) > 0 {
			Logger.Log.Infof("discovered %d urls from feed %s", len(urls), base+path)
			return urls
		}
	}
	return nil
}

func (d *DiscoverySource) fromFrontPage(site model.Site) []string {
	baseHost := hostOf(site.BaseUrl)
	if baseHost == "" {
		return nil
	}

	collector := colly.NewCollector()
	seen := map[string]bool{}
	var urls []string

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(urls) >= d.MaxCrawlLinks {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || seen[link] {
			return
		}
		if hostOf(link) != baseHost || !looksLikeArticle(link) {
			return
		}
		seen[link] = true
		urls = append(urls, link)
	})

	if err := collector.Visit(site.BaseUrl); err != nil {
		Logger.Log.Warnf("front page crawl failed for %s: %v", site.BaseUrl, err)
		return nil
	}
	return urls
}

// looksLikeArticle filters out navigation links; an article link has a path
// at least two segments deep.
func looksLikeArticle(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := strings.Trim(parsed.Path, "/")
	return strings.Count(path, "/") >= 1
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
