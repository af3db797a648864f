package indexer

import (
	"context"
)

// Embedder generates embeddings for texts. Output order matches input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CollectionEnsurer is implemented by vector stores that must create a collection
// before the first upsert.
type CollectionEnsurer interface {
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}

// Stats summarises a pipeline run.
type Stats struct {
	// Documents is the number of documents considered.
	Documents int `json:"documents"`
	// Embedded is the number of documents that received a new embedding.
	Embedded int `json:"embedded"`
	// Skipped counts documents left untouched: already embedded, or with no text.
	Skipped int `json:"skipped"`
	// Upserted is the number of points written to the vector store.
	Upserted int `json:"upserted"`
	// Failed counts documents whose batch failed.
	Failed int `json:"failed"`
	// Dimension is the embedding size.
	Dimension int `json:"dimension"`
}
