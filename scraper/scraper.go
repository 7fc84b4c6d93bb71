// Package scraper fetches the external news listing of the union site and
// extracts full articles from it: title, publish date, main image, gallery
// images, and the article body converted to Markdown.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is a candidate article discovered on the listing page. It is
// ephemeral: consumed immediately by FetchArticle, never persisted.
type Link struct {
	URL          string `json:"url"`
	PreviewTitle string `json:"previewTitle"`
	PreviewImage string `json:"previewImage,omitempty"`
}

// Article is a fully scraped external article. Content is Markdown with all
// images stripped out; images travel exclusively through ImageURL and
// ImageURLs.
type Article struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	SourceURL     string   `json:"sourceUrl,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
}

// FetchError reports a non-success HTTP status from the scraped origin.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client scrapes one external origin. All relative URLs found on the origin
// are rewritten against it, so every URL leaving this package is absolute.
type Client struct {
	httpClient *http.Client
	listingURL string
	origin     string
	host       string
	userAgent  string
}

// NewClient creates a scraper for the given listing page URL. The origin for
// relative-URL resolution is derived from the listing URL.
func NewClient(listingURL, userAgent string) (*Client, error) {
	u, err := url.Parse(listingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("listing URL must be absolute: %s", listingURL)
	}

	return &Client{
		httpClient: &http.Client{},
		listingURL: listingURL,
		origin:     u.Scheme + "://" + u.Host,
		host:       u.Host,
		userAgent:  userAgent,
	}, nil
}

// fetchDocument retrieves a page from the origin and parses it. A non-2xx
// response is returned as a *FetchError.
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	return doc, nil
}

// absoluteURL rewrites a relative URL against the scraped origin. Absolute
// URLs pass through untouched; empty input stays empty.
func (c *Client) absoluteURL(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	if strings.HasPrefix(raw, "/") {
		return c.origin + raw
	}
	return c.origin + "/" + raw
}

// Host returns the host of the scraped origin.
func (c *Client) Host() string {
	return c.host
}
