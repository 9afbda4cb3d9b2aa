package domain

// Answer is the result of one question-answering cycle. Sources keep the
// retrieval rank order and are not deduplicated.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
}
