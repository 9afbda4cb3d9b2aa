package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

// Store persists crawled pages in a local SQLite database, keyed by URL.
// The crawler is the only writer; the ingestion job reads the whole corpus.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database and applies the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		url TEXT UNIQUE NOT NULL,
		body TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SavePage inserts a page, overwriting title and body when the URL was
// crawled before. The row id stays stable across re-crawls.
func (s *Store) SavePage(ctx context.Context, doc *domain.Document) error {
	query := `INSERT INTO pages (title, url, body) VALUES (?, ?, ?)
	          ON CONFLICT(url) DO UPDATE SET title = excluded.title, body = excluded.body`
	if _, err := s.db.ExecContext(ctx, query, doc.Title, doc.URL, doc.Body); err != nil {
		return fmt.Errorf("save page %s: %w", doc.URL, err)
	}
	return nil
}

// ListPages returns all stored pages in insertion order.
func (s *Store) ListPages(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, url, body FROM pages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.URL, &doc.Body); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CountPages returns the number of stored pages.
func (s *Store) CountPages(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}
