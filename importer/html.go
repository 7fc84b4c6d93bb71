package importer

import (
	"regexp"
	"strings"
)

// Substitutions run in a fixed order: headings longest-prefix-first so "###"
// is never eaten by "#", and bold before italic so "**" is never eaten by
// "*". Nested lists, nested emphasis, and tables are not supported.
var (
	h3Re     = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Re     = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Re     = regexp.MustCompile(`(?m)^# (.+)$`)
	imgRe    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)

	ulItemRe = regexp.MustCompile(`^- (.+)`)
	olItemRe = regexp.MustCompile(`^\d+\. (.+)`)
)

// listState tracks the line-grouping state machine for consecutive list
// items.
type listState int

const (
	listNone listState = iota
	listUnordered
	listOrdered
)

// MarkdownToHTML converts the constrained Markdown dialect produced by the
// scraper into storable HTML. Single pass, non-recursive.
func MarkdownToHTML(markdown string) string {
	if markdown == "" {
		return ""
	}

	out := markdown
	out = h3Re.ReplaceAllString(out, "<h3>$1</h3>")
	out = h2Re.ReplaceAllString(out, "<h2>$1</h2>")
	out = h1Re.ReplaceAllString(out, "<h1>$1</h1>")
	out = imgRe.ReplaceAllString(out, `<img src="$2" alt="$1" />`)
	out = linkRe.ReplaceAllString(out, `<a href="$2">$1</a>`)
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")

	return groupLines(out)
}

// groupLines wraps consecutive list-item lines in <ul>/<ol>, paragraphs in
// <p>, drops empty lines, and passes already-tagged lines through.
func groupLines(text string) string {
	var b strings.Builder
	state := listNone

	closeList := func() {
		switch state {
		case listUnordered:
			b.WriteString("</ul>")
		case listOrdered:
			b.WriteString("</ol>")
		}
		state = listNone
	}

	for _, line := range strings.Split(text, "\n") {
		if m := ulItemRe.FindStringSubmatch(line); m != nil {
			if state != listUnordered {
				closeList()
				b.WriteString("<ul>")
				state = listUnordered
			}
			b.WriteString("<li>" + m[1] + "</li>")
			continue
		}

		if m := olItemRe.FindStringSubmatch(line); m != nil {
			if state != listOrdered {
				closeList()
				b.WriteString("<ol>")
				state = listOrdered
			}
			b.WriteString("<li>" + m[1] + "</li>")
			continue
		}

		closeList()

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "<") {
			b.WriteString(trimmed)
		} else {
			b.WriteString("<p>" + trimmed + "</p>")
		}
	}

	closeList()

	return b.String()
}
