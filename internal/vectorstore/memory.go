package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"consumer-assistant/internal/contextutil"
)

// MemoryStore is an exact, brute-force cosine-similarity VectorStore. Vectors are
// normalized on upsert, so similarity is a plain dot product. Score ties are broken
// by MetaOrder, then by insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order  []string
	points map[string]memoryPoint
}

type memoryPoint struct {
	vec  []float32
	meta map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Upsert inserts or updates points in the collection. All vectors in a collection
// must share one dimension.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{points: make(map[string]memoryPoint)}
		s.collections[collection] = c
	}

	dim := c.dimension()
	for _, p := range points {
		if dim == 0 {
			dim = len(p.Vec)
		}
		if len(p.Vec) == 0 || len(p.Vec) != dim {
			return fmt.Errorf("point %s has dimension %d, expected %d", p.ID, len(p.Vec), dim)
		}
		if _, exists := c.points[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.points[p.ID] = memoryPoint{vec: unit(p.Vec), meta: p.Meta}
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search returns the top-k points by cosine similarity. k larger than the collection
// truncates silently.
func (s *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", collection)
	}
	if dim := c.dimension(); dim != 0 && len(query) != dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), dim)
	}

	allowed := make(map[string]bool)
	for _, src := range sourceFilter(filters) {
		allowed[src] = true
	}

	q := unit(query)
	results := make([]SearchResult, 0, len(c.order))
	for _, id := range c.order {
		p := c.points[id]
		if len(allowed) > 0 {
			src, _ := p.meta[MetaSource].(string)
			if !allowed[src] {
				continue
			}
		}
		results = append(results, SearchResult{
			PointID: id,
			Score:   dot(q, p.vec),
			Meta:    p.meta,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return metaOrder(results[i].Meta) < metaOrder(results[j].Meta)
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Delete removes points by their IDs.
func (s *MemoryStore) Delete(ctx context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok || len(ids) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(c.points, id)
	}
	kept := c.order[:0]
	for _, id := range c.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	c.order = kept
	return nil
}

// CollectionExists reports whether the collection has been created by an upsert.
func (s *MemoryStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection]
	return ok, nil
}

func (c *memoryCollection) dimension() int {
	for _, id := range c.order {
		return len(c.points[id].vec)
	}
	return 0
}

// metaOrder returns the point's MetaOrder; points without one sort after those
// that have it.
func metaOrder(meta map[string]any) int {
	switch v := meta[MetaOrder].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return math.MaxInt
}

func unit(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
