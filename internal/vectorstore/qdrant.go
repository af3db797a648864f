package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"consumer-assistant/internal/contextutil"
)

// upsertBatchSize bounds a single Upsert request.
const upsertBatchSize = 256

// QdrantStore implements VectorStore on a Qdrant collection. Points carry the
// document payload keys; source is indexed as a keyword so link searches can
// filter on it.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore connects to Qdrant. urlStr is the HTTP URL (for example
// "http://localhost:6333"); the client talks gRPC on the next port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	host, port, err := grpcAddress(urlStr)
	if err != nil {
		return nil, err
	}
	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	return &QdrantStore{client: client}, nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func grpcAddress(urlStr string) (string, int, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := 6334
	if p, err := strconv.Atoi(u.Port()); err == nil {
		port = p + 1
	}
	return host, port, nil
}

// Upsert writes points in batches and waits for each batch to be applied.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	wait := true
	for start := 0; start < len(points); start += upsertBatchSize {
		batch := points[start:min(start+upsertBatchSize, len(points))]
		structs := make([]*qdrant.PointStruct, len(batch))
		for i, p := range batch {
			structs[i] = &qdrant.PointStruct{
				Id:      qdrant.NewID(p.ID),
				Vectors: qdrant.NewVectors(p.Vec...),
				Payload: qdrant.NewValueMap(p.Meta),
			}
		}
		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         structs,
			Wait:           &wait,
		}); err != nil {
			logger.ErrorContext(ctx, "qdrant upsert failed", "collection", collection, "offset", start, "error", err)
			return fmt.Errorf("failed to upsert points into %s: %w", collection, err)
		}
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search returns the k nearest points, optionally restricted by FilterSources.
func (s *QdrantStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		Filter:         buildFilter(filters),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	results := make([]SearchResult, len(scored))
	for i, sp := range scored {
		results[i] = SearchResult{
			PointID: sp.GetId().GetUuid(),
			Score:   sp.GetScore(),
			Meta:    payloadMeta(sp.GetPayload()),
		}
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "qdrant search", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

func buildFilter(filters map[string]any) *qdrant.Filter {
	sources := sourceFilter(filters)
	if len(sources) == 0 {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatchKeywords(MetaSource, sources...)},
	}
}

// payloadMeta keeps the string and integer payload fields, the only kinds the
// corpus writes.
func payloadMeta(payload map[string]*qdrant.Value) map[string]any {
	meta := make(map[string]any, len(payload))
	for k, v := range payload {
		switch kind := v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			meta[k] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			meta[k] = kind.IntegerValue
		}
	}
	return meta
}

// Delete removes points by ID.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}
	if _, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	}); err != nil {
		return fmt.Errorf("failed to delete points from %s: %w", collection, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "deleted points", "collection", collection, "count", len(ids))
	return nil
}

// CollectionExists reports whether the collection exists.
func (s *QdrantStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	return exists, nil
}

// EnsureCollection creates a cosine collection with a keyword index on the source
// payload, or checks the vector size of an existing one.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		info, err := s.CollectionInfo(ctx, collection)
		if err != nil {
			return err
		}
		if info.VectorSize != vectorSize {
			return fmt.Errorf("collection %s has vector size %d, corpus has %d", collection, info.VectorSize, vectorSize)
		}
		logger.InfoContext(ctx, "collection validated", "collection", collection, "vector_size", vectorSize, "points", info.PointsCount)
		return nil
	}

	if err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}
	wait := true
	if _, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      MetaSource,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           &wait,
	}); err != nil {
		return fmt.Errorf("failed to index %s on %s: %w", MetaSource, collection, err)
	}

	logger.InfoContext(ctx, "collection created", "collection", collection, "vector_size", vectorSize)
	return nil
}

// CollectionInfo summarizes a collection.
type CollectionInfo struct {
	VectorSize  int    `json:"vector_size"`
	PointsCount int    `json:"points_count"`
	Status      string `json:"status"`
}

// CollectionInfo returns the vector size, point count and status of a collection.
func (s *QdrantStore) CollectionInfo(ctx context.Context, collection string) (CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	return CollectionInfo{
		VectorSize:  int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()),
		PointsCount: int(info.GetPointsCount()),
		Status:      info.GetStatus().String(),
	}, nil
}
