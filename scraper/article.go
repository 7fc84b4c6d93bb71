package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// bodyContainerSelector is the union of containers that are likely to hold
// the main article text across the site's templates.
const bodyContainerSelector = ".fullstory, .full-story, .post-content, .entry-content, article"

// dateSelector matches date-bearing elements; a machine-readable datetime
// attribute is preferred over the element's text.
const dateSelector = "time, .post-date, .entry-date, .published, .date"

// titleSelectors is the prioritized cascade for article titles; the first
// non-empty match wins.
var titleSelectors = []string{"h1", ".post-title", ".entry-title", "article h1"}

// Images with an explicit width or height below minImageDimension are icons
// or spacers, not content. Absent or unparseable dimension attributes default
// to defaultImageDimension so unlabeled real photos are kept.
const (
	minImageDimension     = 50
	defaultImageDimension = 100
)

// FetchArticle retrieves one article page and extracts its content. A nil
// article with a nil error means the page has no extractable title and is
// not importable; a non-nil error means the fetch itself failed and the
// caller should fall back to preview data.
func (c *Client) FetchArticle(ctx context.Context, articleURL, previewImage string) (*Article, error) {
	doc, err := c.fetchDocument(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	var title string
	for _, sel := range titleSelectors {
		if title = strings.TrimSpace(doc.Find(sel).First().Text()); title != "" {
			break
		}
	}
	if title == "" {
		return nil, nil
	}

	var publishedDate string
	if dateEl := doc.Find(dateSelector).First(); dateEl.Length() > 0 {
		if dt, ok := dateEl.Attr("datetime"); ok && dt != "" {
			publishedDate = dt
		} else {
			publishedDate = strings.TrimSpace(dateEl.Text())
		}
	}

	container := doc.Find(bodyContainerSelector)

	mainImage := previewImage
	if mainImage == "" {
		if src := container.Find("img").First().AttrOr("src", ""); src != "" {
			mainImage = c.absoluteURL(src)
		}
	}

	return &Article{
		Title:         title,
		Content:       c.toMarkdown(container),
		ImageURL:      mainImage,
		SourceURL:     articleURL,
		PublishedDate: publishedDate,
		ImageURLs:     c.extractImages(container, mainImage),
	}, nil
}

// extractImages collects qualifying gallery image URLs from the article body
// in document order, excluding the main image and duplicates.
func (c *Client) extractImages(container *goquery.Selection, mainImage string) []string {
	var urls []string

	container.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			return
		}
		src = c.absoluteURL(src)

		width := parseDimension(img.AttrOr("width", ""))
		height := parseDimension(img.AttrOr("height", ""))
		if width < minImageDimension || height < minImageDimension {
			return
		}

		if src == mainImage {
			return
		}
		if lo.Contains(urls, src) {
			return
		}

		urls = append(urls, src)
	})

	return urls
}

// parseDimension reads the leading digits of a width/height attribute.
// Missing or non-numeric values pass the size filter, same as the default.
func parseDimension(raw string) int {
	raw = strings.TrimSpace(raw)

	n := 0
	digits := false
	for _, r := range raw {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits = true
	}

	if !digits {
		return defaultImageDimension
	}
	return n
}
