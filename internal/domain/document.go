package domain

// Document is a crawled documentation page. Pages are deduplicated by URL:
// re-crawling the same URL overwrites the stored body.
type Document struct {
	ID    int64  `json:"id"    db:"id"`
	Title string `json:"title" db:"title"`
	URL   string `json:"url"   db:"url"`
	Body  string `json:"body"  db:"body"`
}

// Chunk is a bounded token window cut from a document body. Chunks are never
// persisted on their own, only as the payload of an embedding point.
type Chunk struct {
	Text       string
	TokenCount int
}
