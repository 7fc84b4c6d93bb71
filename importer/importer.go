// Package importer drives the scrape-then-import workflow: it discovers and
// fetches external articles, filters out already-imported ones, converts
// their Markdown to storable HTML, and persists them with a per-item
// success/failure summary.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ponunion/cms/newsstore"
	"github.com/ponunion/cms/scraper"
)

// DefaultCategoryName is the well-known category imported news lands in.
// Created on first import, reused thereafter.
const DefaultCategoryName = "Новини"

// MsgNoneSelected is returned when the submitted batch is empty or
// malformed.
const MsgNoneSelected = "Не обрано жодної новини"

// ErrEmptyBatch signals that an import was requested with nothing selected.
var ErrEmptyBatch = errors.New("empty import batch")

// Store is the persistence surface the import pipeline needs.
type Store interface {
	FindSourceURLs(ctx context.Context, urls []string) (map[string]bool, error)
	FindBySourceURL(ctx context.Context, sourceURL string) (*newsstore.News, error)
	FindByTitle(ctx context.Context, title string) (*newsstore.News, error)
	FindOrCreateCategory(ctx context.Context, name, description string) (*newsstore.Category, error)
	CreateNews(ctx context.Context, input newsstore.NewsInput, galleryURLs []string) (*newsstore.News, error)
}

// Scraper discovers and fetches external articles.
type Scraper interface {
	DiscoverLinks(ctx context.Context) ([]scraper.Link, error)
	FetchArticle(ctx context.Context, articleURL, previewImage string) (*scraper.Article, error)
}

// Result is the caller-facing outcome of an import batch.
type Result struct {
	Success       bool   `json:"success"`
	ImportedCount int    `json:"importedCount"`
	Message       string `json:"message"`
}

// Service orchestrates scraping and importing. Articles are fetched one at a
// time to bound load on the scraped origin and keep result order
// deterministic.
type Service struct {
	scraper Scraper
	store   Store
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates an import service.
func NewService(sc Scraper, store Store, log *slog.Logger) *Service {
	return &Service{scraper: sc, store: store, log: log, now: time.Now}
}

// Scrape discovers candidate articles on the listing page, drops the ones
// already imported, and fetches the rest. An article whose fetch fails is
// kept with preview-only data; an article without a title is dropped.
func (s *Service) Scrape(ctx context.Context) ([]scraper.Article, error) {
	links, err := s.scraper.DiscoverLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover article links: %w", err)
	}

	urls := lo.Map(links, func(l scraper.Link, _ int) string { return l.URL })
	existing, err := s.store.FindSourceURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing source URLs: %w", err)
	}

	articles := make([]scraper.Article, 0, len(links))
	for _, link := range links {
		if existing[link.URL] {
			continue
		}

		article, err := s.scraper.FetchArticle(ctx, link.URL, link.PreviewImage)
		if err != nil {
			s.log.Warn("article fetch failed, keeping preview data",
				"url", link.URL, "err", err)
			articles = append(articles, scraper.Article{
				Title:     link.PreviewTitle,
				ImageURL:  link.PreviewImage,
				SourceURL: link.URL,
			})
			continue
		}
		if article == nil {
			// No extractable title: not importable.
			continue
		}

		articles = append(articles, *article)
	}

	return articles, nil
}

// Import persists a batch of administrator-selected articles. Duplicates and
// per-item persistence failures are recorded as skips; the batch never
// aborts midway.
func (s *Service) Import(ctx context.Context, items []scraper.Article) (Result, error) {
	if len(items) == 0 {
		return Result{Message: MsgNoneSelected}, ErrEmptyBatch
	}

	category, err := s.store.FindOrCreateCategory(ctx, DefaultCategoryName, DefaultCategoryName)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve default category: %w", err)
	}

	imported := 0
	var skips []string

	for _, item := range items {
		if skip := s.importOne(ctx, item, category.ID); skip != "" {
			skips = append(skips, skip)
			continue
		}
		imported++
	}

	return Result{
		Success:       imported > 0,
		ImportedCount: imported,
		Message:       composeMessage(imported, skips),
	}, nil
}

// importOne imports a single article and returns the localized skip reason,
// or "" on success.
func (s *Service) importOne(ctx context.Context, item scraper.Article, categoryID string) string {
	if item.SourceURL != "" {
		existing, err := s.store.FindBySourceURL(ctx, item.SourceURL)
		if err != nil {
			s.log.Error("source URL lookup failed", "title", item.Title, "err", err)
			return "Помилка: " + item.Title
		}
		if existing != nil {
			return "Дублікат: " + item.Title
		}
	}

	existing, err := s.store.FindByTitle(ctx, item.Title)
	if err != nil {
		s.log.Error("title lookup failed", "title", item.Title, "err", err)
		return "Помилка: " + item.Title
	}
	if existing != nil {
		return "Дублікат (за назвою): " + item.Title
	}

	publishedDate, ok := ParseDate(item.PublishedDate)
	if !ok {
		publishedDate = s.now()
	}

	input := newsstore.NewsInput{
		Title:         item.Title,
		Summary:       Summarize(item.Content),
		Content:       MarkdownToHTML(item.Content),
		CategoryID:    categoryID,
		Published:     true,
		PublishedDate: publishedDate,
		MainImageURL:  item.ImageURL,
		SourceURL:     item.SourceURL,
	}

	if _, err := s.store.CreateNews(ctx, input, item.ImageURLs); err != nil {
		s.log.Error("failed to persist news item", "title", item.Title, "err", err)
		return "Помилка: " + item.Title
	}

	return ""
}

func composeMessage(imported int, skips []string) string {
	if imported == 0 {
		return "Не вдалося імпортувати жодної новини. " + strings.Join(skips, "; ")
	}

	msg := fmt.Sprintf("Успішно імпортовано %d %s", imported, NewsWord(imported))
	if len(skips) > 0 {
		msg += fmt.Sprintf(". Пропущено: %d", len(skips))
	}
	return msg
}

// NewsWord returns the Ukrainian plural form of "новина" for a count:
// 1 takes the singular, 2-4 one plural form, 0 and 5+ another.
func NewsWord(count int) string {
	if count == 1 {
		return "новину"
	}
	if count >= 2 && count <= 4 {
		return "новини"
	}
	return "новин"
}

var (
	mdPunctuationRe = regexp.MustCompile(`[#*\[\]()!>-]`)
	newlineRunRe    = regexp.MustCompile(`\n+`)
)

const summaryMaxLen = 200

// Summarize derives a plain-text summary from the Markdown source by
// stripping Markdown punctuation and collapsing newlines, truncated to 200
// characters with an ellipsis.
func Summarize(markdown string) string {
	plain := mdPunctuationRe.ReplaceAllString(markdown, "")
	plain = strings.TrimSpace(newlineRunRe.ReplaceAllString(plain, " "))

	runes := []rune(plain)
	if len(runes) > summaryMaxLen {
		return string(runes[:summaryMaxLen-3]) + "..."
	}
	return plain
}
