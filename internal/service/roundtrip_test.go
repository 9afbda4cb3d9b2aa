package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-chaindocs/internal/adapter/index/memory"
	"github.com/arturoeanton/go-chaindocs/internal/chunker"
	"github.com/arturoeanton/go-chaindocs/internal/domain"
)

// Ingest a small corpus through the real in-memory index, then ask a question
// whose answer lives in exactly one document. The retrieved context must carry
// that document's text and its URL must lead the sources.
func TestIngestThenAskRoundTrip(t *testing.T) {
	store := &fakeDocStore{docs: []domain.Document{
		{ID: 1, Title: "ERC20Pausable", URL: "https://docs/erc20-pausable",
			Body: "A pausable ERC20 token lets an admin pause transfers in an emergency."},
		{ID: 2, Title: "Staking", URL: "https://docs/staking",
			Body: "Staking contracts lock a token and pay rewards over time."},
		{ID: 3, Title: "Oracles", URL: "https://docs/oracles",
			Body: "A price oracle feeds external price data to contracts."},
	}}

	embedder := &vocabEmbedder{vocab: []string{"erc20", "pause", "pausable", "token", "stake", "staking", "oracle", "price"}}
	index := memory.New()

	ch, err := chunker.New(512, 50)
	require.NoError(t, err)

	summary, err := NewIngestService(store, ch, embedder, index).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, summary.Documents)
	require.Equal(t, 3, summary.Points)

	gen := &fakeGenerator{out: "Pause the token through the admin role."}
	svc := NewQueryService(NewRetriever(embedder, index, 5), gen)

	answer, err := svc.Ask(context.Background(), "How to pause an ERC20?")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "pausable ERC20 token")
	assert.Contains(t, gen.prompts[0], "Question: How to pause an ERC20?")

	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "https://docs/erc20-pausable", answer.Sources[0])
	assert.Equal(t, "Pause the token through the admin role.", answer.Text)
}
