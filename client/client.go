// Package client is the extension-side retrieval layer. It fetches headline
// replacements from the backend and caches them for the lifetime of the
// browsing session; cached entries never expire, the session storage is
// simply discarded when the session ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const requestTimeout = 15 * time.Second

// TransformedArticle is the single-author retrieval result as the backend
// serves it.
type TransformedArticle struct {
	OriginalHeadline    string `json:"originalHeadline"`
	TransformedHeadline string `json:"transformedHeadline"`
	ProviderUsed        string `json:"providerUsed"`
}

// CreatorEdit is one creator's candidate headline for a URL.
type CreatorEdit struct {
	Url      string `json:"url"`
	Creator  string `json:"creator"`
	Headline string `json:"headline"`
}

// Client talks to the headline backend with session-scoped caching. Safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	headlineCache  map[string]*TransformedArticle
	headlinesCache map[string][]CreatorEdit
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: requestTimeout},
		headlineCache:  map[string]*TransformedArticle{},
		headlinesCache: map[string][]CreatorEdit{},
	}
}

func headlineCacheKey(articleURL string, author string) string {
	return articleURL + "|" + author
}

// GetHeadlineData returns the transformed headline for (url, author),
// fetching from the backend only on the first call of the session.
func (c *Client) GetHeadlineData(ctx context.Context, articleURL string, author string) (*TransformedArticle, error) {
	key := headlineCacheKey(articleURL, author)

	c.mu.RLock()
	cached, ok := c.headlineCache[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/headline?url=%s&author=%s",
		c.baseURL, url.QueryEscape(articleURL), url.QueryEscape(author))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fail to build headline request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fail to fetch headline")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, backendError(resp)
	}

	var article TransformedArticle
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, errors.Wrap(err, "fail to decode headline response")
	}

	c.mu.Lock()
	c.headlineCache[key] = &article
	c.mu.Unlock()
	return &article, nil
}

// GetTransformations returns every creator's candidate headline for a URL,
// same cache-then-fetch contract keyed by url alone.
func (c *Client) GetTransformations(ctx context.Context, articleURL string) ([]CreatorEdit, error) {
	c.mu.RLock()
	cached, ok := c.headlinesCache[articleURL]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	body, err := json.Marshal(map[string]string{"url": articleURL})
	if err != nil {
		return nil, errors.Wrap(err, "fail to encode headlines request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/headlines", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "fail to build headlines request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fail to fetch headlines")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, backendError(resp)
	}

	var decoded struct {
		Headlines []CreatorEdit `json:"headlines"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "fail to decode headlines response")
	}

	c.mu.Lock()
	c.headlinesCache[articleURL] = decoded.Headlines
	c.mu.Unlock()
	return decoded.Headlines, nil
}

// backendError surfaces the backend's error string when it sent one.
func backendError(resp *http.Response) error {
	payload, _ := ioutil.ReadAll(resp.Body)
	var failure struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(payload, &failure) == nil && failure.Error != "" {
		return errors.Errorf("backend error: %s", failure.Error)
	}
	return errors.Errorf("backend status %s", resp.Status)
}
