package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks consumer-assistant/internal/vectorstore VectorStore

import (
	"context"

	"github.com/google/uuid"
)

// Payload keys stored with every point.
const (
	MetaDocumentID = "doc_id"
	MetaSource     = "source"
	MetaTitle      = "title"
	// MetaOrder is the document's corpus position. MemoryStore breaks score ties
	// on it.
	MetaOrder = "order"
)

// FilterSources restricts a search to documents whose source is in the given
// []string.
const FilterSources = "sources"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// DocumentID returns the corpus document ID carried in the result payload.
func (r SearchResult) DocumentID() string {
	id, _ := r.Meta[MetaDocumentID].(string)
	return id
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional filters. Results are ordered
	// by descending similarity.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
}

// PointID derives a stable UUID point ID from a corpus document ID, since Qdrant only
// accepts UUIDs or integers.
func PointID(documentID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("corpus:"+documentID)).String()
}

func sourceFilter(filters map[string]any) []string {
	if filters == nil {
		return nil
	}
	switch v := filters[FilterSources].(type) {
	case []string:
		return v
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}
