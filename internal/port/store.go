package port

import (
	"context"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

// DocumentStore persists crawled pages keyed by unique URL.
type DocumentStore interface {
	// SavePage inserts a page, overwriting any previous page with the same URL.
	SavePage(ctx context.Context, doc *domain.Document) error

	// ListPages returns all stored pages in insertion order.
	ListPages(ctx context.Context) ([]domain.Document, error)

	// CountPages returns the number of stored pages.
	CountPages(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}
