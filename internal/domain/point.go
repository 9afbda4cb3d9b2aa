package domain

// Payload is the schema stored alongside each vector in the index.
// PageContent and Source are aliases written by earlier ingesters; readers go
// through ChunkText and SourceURL instead of touching fields directly.
type Payload struct {
	DocID       string `json:"doc_id,omitempty"`
	Text        string `json:"text,omitempty"`
	URL         string `json:"url,omitempty"`
	PageContent string `json:"page_content,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ChunkText returns the chunk text, falling back to the legacy field name.
func (p Payload) ChunkText() string {
	if p.Text != "" {
		return p.Text
	}
	return p.PageContent
}

// SourceURL returns the provenance URL, falling back to the legacy field name.
func (p Payload) SourceURL() string {
	if p.URL != "" {
		return p.URL
	}
	return p.Source
}

// Point is one embedded chunk stored in the vector index.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// ScoredPoint is a search hit together with its cosine similarity.
type ScoredPoint struct {
	Point
	Score float64 `json:"score"`
}
