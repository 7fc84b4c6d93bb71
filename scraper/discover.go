package scraper

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// maxLinks caps how many candidate articles a single scrape collects.
const maxLinks = 10

// Selector for the site's news listing blocks. When it matches nothing the
// discoverer falls back to generic article-link selectors, which are noisier
// and therefore filtered harder.
const (
	primaryLinkSelector  = "div#news .ntitle a, #news .ntitle a"
	previewBlockSelector = ".nblock, .news-block, .newsblock, div"
	fallbackLinkSelector = "article a, .post-title a, .entry-title a, .news-item a, .story a"
)

// Minimum title length accepted by the fallback strategy; shorter anchor
// texts are almost always navigation or boilerplate.
const minFallbackTitleLen = 10

// DiscoverLinks fetches the listing page and extracts up to 10 candidate
// article links with preview metadata, in document order.
func (c *Client) DiscoverLinks(ctx context.Context) ([]Link, error) {
	doc, err := c.fetchDocument(ctx, c.listingURL)
	if err != nil {
		return nil, err
	}

	links := c.discoverPrimary(doc)
	if len(links) == 0 {
		links = c.discoverFallback(doc)
	}

	return links, nil
}

func (c *Client) discoverPrimary(doc *goquery.Document) []Link {
	var links []Link

	doc.Find(primaryLinkSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(links) >= maxLinks {
			return false
		}

		href := s.AttrOr("href", "")
		if href == "" {
			return true
		}

		link := Link{
			URL:          c.absoluteURL(href),
			PreviewTitle: strings.TrimSpace(s.Text()),
		}

		// The preview image sits in the nearest enclosing news block.
		block := s.Closest(previewBlockSelector)
		if src := block.Find("img").First().AttrOr("src", ""); src != "" {
			link.PreviewImage = c.absoluteURL(src)
		}

		links = append(links, link)
		return true
	})

	return links
}

func (c *Client) discoverFallback(doc *goquery.Document) []Link {
	var links []Link

	doc.Find(fallbackLinkSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(links) >= maxLinks {
			return false
		}

		href := s.AttrOr("href", "")
		if href == "" || href == "#" {
			return true
		}
		href = c.absoluteURL(href)

		// Only links on the origin domain can be articles.
		if !strings.Contains(href, c.host) {
			return true
		}

		title := strings.TrimSpace(s.Text())
		if title == "" || utf8.RuneCountInString(title) < minFallbackTitleLen {
			return true
		}

		if lo.ContainsBy(links, func(l Link) bool { return l.URL == href }) {
			return true
		}

		links = append(links, Link{URL: href, PreviewTitle: title})
		return true
	})

	return links
}
