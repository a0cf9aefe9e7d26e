// Package hnsearch queries the Hacker News search API hosted by Algolia.
package hnsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/starford/hnquery/internal/models"
)

// DefaultBaseURL is the public Algolia endpoint for Hacker News.
const DefaultBaseURL = "https://hn.algolia.com/api/v1"

// Ordering selects the API endpoint.
type Ordering string

const (
	// OrderRelevance uses /search.
	OrderRelevance Ordering = "relevance"
	// OrderDate uses /search_by_date.
	OrderDate Ordering = "date"
)

func (o Ordering) endpoint() string {
	if o == OrderDate {
		return "search_by_date"
	}
	return "search"
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Ordering  Ordering
	UserAgent string
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration
}

// Client issues one GET per search. It does not retry.
type Client struct {
	http      *http.Client
	baseURL   string
	ordering  Ordering
	userAgent string
}

// NewClient creates a Client. A nil httpClient gets a fresh one honouring
// opts.Timeout.
func NewClient(opts Options, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		http:      httpClient,
		baseURL:   base,
		ordering:  opts.Ordering,
		userAgent: opts.UserAgent,
	}
}

// URL builds the request URL for query. The query is interpolated as is
// and the whole string is then passed through EncodeURI.
func (c *Client) URL(query string) (string, error) {
	return EncodeURI(fmt.Sprintf("%s/%s?query=%s", c.baseURL, c.ordering.endpoint(), query))
}

// Search fetches the hits for query.
func (c *Client) Search(ctx context.Context, query string) ([]models.Hit, error) {
	u, err := c.URL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("request failed with status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return decodeHits(body)
}

func decodeHits(body []byte) ([]models.Hit, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parsing response: invalid JSON")
	}
	raw := gjson.GetBytes(body, "hits")
	if !raw.IsArray() {
		return nil, fmt.Errorf("parsing response: no hits array")
	}
	var hits []models.Hit
	if err := json.Unmarshal([]byte(raw.Raw), &hits); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return hits, nil
}
