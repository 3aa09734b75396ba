package llm

import "context"

// EmbeddingDimensions is the dimensionality of the vectors produced by the
// supported embedding models. The mongo vector index is declared with the
// same value.
const EmbeddingDimensions = 1536

// Embedder converts text into a dense vector for semantic search.
type Embedder interface {
	GetEmbedding(ctx context.Context, input string) ([]float32, error)
}
