package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blog_section/internal/metrics"
	"blog_section/internal/models"
)

// ArticlesPath is the dashboard endpoint listing blog articles.
const ArticlesPath = "/api/admin/dashboard/blog"

// ErrFetchFailed covers transport, status and decode failures alike.
var ErrFetchFailed = errors.New("fetch failed")

// Client reads articles from the blog API.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: strings.TrimRight(baseURL, "/") + ArticlesPath,
	}
}

// Endpoint is the full URL the client reads from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchArticles issues one GET and decodes the article list. There is no
// retry; every failure is reported as ErrFetchFailed.
func (c *Client) FetchArticles(ctx context.Context) ([]models.Article, error) {
	start := time.Now()
	articles, err := c.fetch(ctx)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.FetchTotal.WithLabelValues("ok").Inc()
	return articles, nil
}

func (c *Client) fetch(ctx context.Context) ([]models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	var articles []models.Article
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
	}
	return articles, nil
}
