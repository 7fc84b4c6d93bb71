// Package newsstore persists news items, their gallery images, and
// categories using SQLite.
package newsstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// News is a persisted news item.
type News struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Content       string     `json:"content"`
	CategoryID    string     `json:"categoryId"`
	Published     bool       `json:"published"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	MainImageURL  string     `json:"mainImageUrl,omitempty"`
	SourceURL     string     `json:"sourceUrl,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Images        []string   `json:"images,omitempty"`
}

// Category groups news items.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewsInput carries the fields for creating a news item. Empty MainImageURL
// and SourceURL are stored as NULL.
type NewsInput struct {
	Title         string
	Summary       string
	Content       string
	CategoryID    string
	Published     bool
	PublishedDate time.Time
	MainImageURL  string
	SourceURL     string
}

// Store manages news persistence using SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and ensures the
// schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS news (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		category_id TEXT NOT NULL REFERENCES categories(id),
		published INTEGER NOT NULL DEFAULT 0,
		published_date TEXT,
		main_image_url TEXT,
		source_url TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_news_source_url ON news(source_url);
	CREATE INDEX IF NOT EXISTS idx_news_title ON news(title);

	CREATE TABLE IF NOT EXISTS news_images (
		id TEXT PRIMARY KEY,
		news_id TEXT NOT NULL REFERENCES news(id) ON DELETE CASCADE,
		image_url TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindSourceURLs checks which of the given URLs already exist as source URLs
// of stored news. Returns the matching subset as a set.
func (s *Store) FindSourceURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(urls) == 0 {
		return existing, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(urls)), ",")
	query := fmt.Sprintf("SELECT source_url FROM news WHERE source_url IN (%s)", placeholders)

	args := make([]any, len(urls))
	for i, u := range urls {
		args[i] = u
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query source URLs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan source URL: %w", err)
		}
		existing[u] = true
	}

	return existing, rows.Err()
}

const newsColumns = `id, title, summary, content, category_id, published,
	published_date, main_image_url, source_url, created_at`

// FindBySourceURL returns the news item with the given source URL, or nil if
// none exists.
func (s *Store) FindBySourceURL(ctx context.Context, sourceURL string) (*News, error) {
	query := "SELECT " + newsColumns + " FROM news WHERE source_url = ? LIMIT 1"
	return s.queryOne(ctx, query, sourceURL)
}

// FindByTitle returns the news item with the given exact title, or nil if
// none exists.
func (s *Store) FindByTitle(ctx context.Context, title string) (*News, error) {
	query := "SELECT " + newsColumns + " FROM news WHERE title = ? LIMIT 1"
	return s.queryOne(ctx, query, title)
}

// FindByID returns the news item with the given id, or nil if none exists.
func (s *Store) FindByID(ctx context.Context, id string) (*News, error) {
	query := "SELECT " + newsColumns + " FROM news WHERE id = ?"
	return s.queryOne(ctx, query, id)
}

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (*News, error) {
	n, err := scanNews(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}

	if n.Images, err = s.loadImages(ctx, n.ID); err != nil {
		return nil, err
	}
	return n, nil
}

// FindOrCreateCategory returns the category with the given name, creating it
// first if it does not exist. Idempotent.
func (s *Store) FindOrCreateCategory(ctx context.Context, name, description string) (*Category, error) {
	c := &Category{}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM categories WHERE name = ?", name).
		Scan(&c.ID, &c.Name, &c.Description, &createdAt)
	if err == nil {
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		return c, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	c = &Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Description, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

// CreateNews persists a news item together with its ordered gallery images.
func (s *Store) CreateNews(ctx context.Context, input NewsInput, galleryURLs []string) (*News, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO news (id, title, summary, content, category_id, published,
			published_date, main_image_url, source_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.Title, input.Summary, input.Content, input.CategoryID,
		input.Published, nullableTime(input.PublishedDate),
		nullable(input.MainImageURL), nullable(input.SourceURL),
		now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert news: %w", err)
	}

	for i, u := range galleryURLs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO news_images (id, news_id, image_url, position) VALUES (?, ?, ?, ?)",
			uuid.New().String(), id, u, i)
		if err != nil {
			return nil, fmt.Errorf("failed to insert gallery image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return s.FindByID(ctx, id)
}

// ListNews returns published news ordered newest first, with the total count
// of published items.
func (s *Store) ListNews(ctx context.Context, limit, offset int) ([]News, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news WHERE published = 1").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	query := "SELECT " + newsColumns + ` FROM news WHERE published = 1
		ORDER BY published_date DESC, created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range items {
		if items[i].Images, err = s.loadImages(ctx, items[i].ID); err != nil {
			return nil, 0, err
		}
	}

	return items, total, nil
}

func (s *Store) loadImages(ctx context.Context, newsID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT image_url FROM news_images WHERE news_id = ? ORDER BY position", newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery images: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(row rowScanner) (*News, error) {
	var (
		n                       News
		publishedDate           sql.NullString
		mainImageURL, sourceURL sql.NullString
		createdAt               string
	)

	err := row.Scan(&n.ID, &n.Title, &n.Summary, &n.Content, &n.CategoryID,
		&n.Published, &publishedDate, &mainImageURL, &sourceURL, &createdAt)
	if err != nil {
		return nil, err
	}

	if publishedDate.Valid {
		if t, err := time.Parse(time.RFC3339, publishedDate.String); err == nil {
			n.PublishedDate = &t
		}
	}
	n.MainImageURL = mainImageURL.String
	n.SourceURL = sourceURL.String
	n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
