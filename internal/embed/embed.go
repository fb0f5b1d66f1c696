package embed

import "context"

// DefaultDim is the embedding dimension of nomic-embed-text, which the
// knowledge base schema is sized for.
const DefaultDim = 768

// Embedder turns text into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds every text, preserving order. It fails on the first
	// error.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
