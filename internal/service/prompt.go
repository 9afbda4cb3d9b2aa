package service

import (
	"fmt"
	"strings"
)

const promptTemplate = "Use the following context to answer the question.\n\n%s\n\nQuestion: %s\nAnswer:"

// BuildPrompt joins the retrieved chunks with blank lines, in retrieval rank
// order, and renders the generation prompt. With no chunks the context block
// is empty and the generator answers ungrounded rather than failing.
func BuildPrompt(contextChunks []string, query string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(contextChunks, "\n\n"), query)
}
