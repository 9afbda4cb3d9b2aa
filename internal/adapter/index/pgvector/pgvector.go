package pgvector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

var collectionNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Index stores embedding points in a Postgres table using the pgvector
// extension, one table per collection, cosine distance via the <=> operator.
type Index struct {
	db         *sql.DB
	collection string
}

// New opens a connection pool and validates the collection name, which is
// interpolated into SQL identifiers.
func New(databaseURL, collection string) (*Index, error) {
	if !collectionNameRe.MatchString(collection) {
		return nil, fmt.Errorf("pgvector: invalid collection name %q", collection)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Index{db: db, collection: collection}, nil
}

// Close closes the connection pool.
func (x *Index) Close() error {
	return x.db.Close()
}

// EnsureCollection creates the collection table if missing, dropping and
// recreating it when the stored dimension differs.
func (x *Index) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("pgvector: invalid dimension %d", dimension)
	}
	if err := x.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", port.ErrIndexUnavailable, err)
	}

	if _, err := x.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	// pgvector keeps the declared dimension in atttypmod.
	var current sql.NullInt64
	err := x.db.QueryRowContext(ctx, `
		SELECT a.atttypmod
		FROM pg_attribute a
		JOIN pg_class c ON a.attrelid = c.oid
		WHERE c.relname = $1 AND a.attname = 'embedding'`,
		x.collection,
	).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// table does not exist yet
	case err != nil:
		return fmt.Errorf("inspect collection: %w", err)
	case current.Valid && int(current.Int64) != dimension:
		slog.Warn("recreating collection with new dimension",
			"collection", x.collection, "old", current.Int64, "new", dimension)
		if _, err := x.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, x.collection)); err != nil {
			return fmt.Errorf("drop collection: %w", err)
		}
	default:
		return nil
	}

	create := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			embedding vector(%d) NOT NULL,
			doc_id TEXT,
			chunk_text TEXT,
			url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, x.collection, dimension)
	if _, err := x.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// Upsert inserts or replaces points by id inside one transaction.
func (x *Index) Upsert(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", port.ErrIndexUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, embedding, doc_id, chunk_text, url)
		VALUES ($1, $2::vector, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			doc_id = EXCLUDED.doc_id,
			chunk_text = EXCLUDED.chunk_text,
			url = EXCLUDED.url`, x.collection))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx,
			p.ID, vectorToString(p.Vector), p.Payload.DocID, p.Payload.Text, p.Payload.URL,
		); err != nil {
			return fmt.Errorf("insert point %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Search ranks points by cosine similarity. Insertion order breaks ties via
// the created_at column, keeping result order stable.
func (x *Index) Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredPoint, error) {
	if k <= 0 {
		k = 5
	}
	query := fmt.Sprintf(`
		SELECT id, doc_id, chunk_text, url, 1 - (embedding <=> $1::vector) AS score
		FROM %s
		ORDER BY embedding <=> $1::vector, created_at
		LIMIT $2`, x.collection)

	rows, err := x.db.QueryContext(ctx, query, vectorToString(vector), k)
	if err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", port.ErrIndexUnavailable, err)
		}
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var hits []domain.ScoredPoint
	for rows.Next() {
		var (
			hit                   domain.ScoredPoint
			docID, chunkText, url sql.NullString
		)
		if err := rows.Scan(&hit.ID, &docID, &chunkText, &url, &hit.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hit.Payload = domain.Payload{
			DocID: docID.String,
			Text:  chunkText.String,
			URL:   url.String,
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Ready reports whether the database answers a ping.
func (x *Index) Ready(ctx context.Context) bool {
	return x.db.PingContext(ctx) == nil
}

// isUnavailable matches conditions retrieval should absorb: connection
// failures and a collection table that was never created (42P01).
func isUnavailable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	return true
}

// vectorToString renders a vector in pgvector literal format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
