package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	imageMarkdownRe = regexp.MustCompile(`!\[.*?\]\(.*?\)\s*`)
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
)

// toMarkdown renders the article body container as Markdown. Images are
// suppressed at the block level and stripped again globally afterwards; the
// gallery extractor is the only channel for images.
func (c *Client) toMarkdown(container *goquery.Selection) string {
	markdown := c.renderBlocks(container)

	markdown = imageMarkdownRe.ReplaceAllString(markdown, "")
	markdown = blankLinesRe.ReplaceAllString(markdown, "\n\n")

	return strings.TrimSpace(markdown)
}

// renderBlocks renders each direct child element of a container. It is a
// pure function of the subtree, composed by concatenation, so each node kind
// is testable on its own.
func (c *Client) renderBlocks(container *goquery.Selection) string {
	var b strings.Builder

	container.Children().Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)

		switch {
		case tag == "p":
			if text := strings.TrimSpace(c.renderInline(el)); text != "" {
				b.WriteString(text + "\n\n")
			}
		case headingLevel(tag) > 0:
			if text := strings.TrimSpace(el.Text()); text != "" {
				b.WriteString(strings.Repeat("#", headingLevel(tag)) + " " + text + "\n\n")
			}
		case tag == "ul" || tag == "ol":
			el.Find("li").Each(func(i int, li *goquery.Selection) {
				prefix := "- "
				if tag == "ol" {
					prefix = fmt.Sprintf("%d. ", i+1)
				}
				b.WriteString(prefix + strings.TrimSpace(li.Text()) + "\n")
			})
			b.WriteString("\n")
		case tag == "blockquote":
			if text := strings.TrimSpace(el.Text()); text != "" {
				b.WriteString("> " + strings.ReplaceAll(text, "\n", "\n> ") + "\n\n")
			}
		case tag == "img":
			// Block-level images are already captured by the gallery extractor.
		case tag == "div" || tag == "section":
			if inner := c.renderBlocks(el); strings.TrimSpace(inner) != "" {
				b.WriteString(inner)
			}
		case tag == "br":
			b.WriteString("\n")
		default:
			if text := strings.TrimSpace(c.renderInline(el)); text != "" {
				b.WriteString(text + "\n\n")
			}
		}
	})

	return b.String()
}

// renderInline renders the child nodes of an element as inline Markdown.
// Unknown inline tags degrade to their plain text content.
func (c *Client) renderInline(el *goquery.Selection) string {
	var b strings.Builder

	el.Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)

		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		if node.Type != html.ElementNode {
			return
		}

		switch node.Data {
		case "a":
			href := c.absoluteURL(s.AttrOr("href", ""))
			b.WriteString("[" + strings.TrimSpace(s.Text()) + "](" + href + ")")
		case "strong", "b":
			b.WriteString("**" + strings.TrimSpace(s.Text()) + "**")
		case "em", "i":
			b.WriteString("*" + strings.TrimSpace(s.Text()) + "*")
		case "img":
			src := c.absoluteURL(s.AttrOr("src", ""))
			b.WriteString("![" + s.AttrOr("alt", "") + "](" + src + ")")
		case "br":
			b.WriteString("\n")
		default:
			b.WriteString(s.Text())
		}
	})

	return b.String()
}

// headingLevel returns 1-6 for h1-h6 tags and 0 for anything else.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
