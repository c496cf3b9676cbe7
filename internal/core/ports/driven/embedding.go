package driven

import "context"

// EmbeddingService turns post chunks and questions into vectors. An index is
// only queryable with the model and dimensions it was built with, which is
// why both are recorded in the index metadata.
type EmbeddingService interface {
	// Embed returns the vector for a question.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per chunk text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector length this service produces.
	Dimensions() int

	// ModelName identifies the embedding model.
	ModelName() string

	// Ping checks the provider is reachable before a build or query.
	Ping(ctx context.Context) error

	// Close releases idle connections.
	Close() error
}
