package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure MemoryIndex implements the interface.
var _ driven.VectorIndex = (*MemoryIndex)(nil)

// MemoryIndex keeps chunk vectors in process memory with brute-force cosine
// search. Contents are lost when the process exits; it exists for tests and
// for trying the tool without a Qdrant server.
type MemoryIndex struct {
	mu         sync.RWMutex
	dimensions int
	// namespace -> chunk id -> point
	points map[string]map[string]memoryPoint
}

type memoryPoint struct {
	chunk  domain.Chunk
	vector []float32
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		points: make(map[string]map[string]memoryPoint),
	}
}

// EnsureReady records the expected vector dimensionality.
func (m *MemoryIndex) EnsureReady(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("memory index: invalid dimensions %d", dimensions)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dimensions
	return nil
}

// Add upserts chunk vectors, keyed by namespace and chunk id.
func (m *MemoryIndex) Add(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("memory index: chunk %s has no embedding", chunk.ID)
		}
		if m.dimensions > 0 && len(chunk.Embedding) != m.dimensions {
			return fmt.Errorf("memory index: chunk %s has %d dimensions, index expects %d",
				chunk.ID, len(chunk.Embedding), m.dimensions)
		}

		ns := m.points[chunk.Namespace]
		if ns == nil {
			ns = make(map[string]memoryPoint)
			m.points[chunk.Namespace] = ns
		}

		vector := make([]float32, len(chunk.Embedding))
		copy(vector, chunk.Embedding)

		stored := chunk
		stored.Embedding = nil
		ns[chunk.ID] = memoryPoint{chunk: stored, vector: vector}
	}
	return nil
}

// Search runs a brute-force cosine similarity scan over one namespace.
func (m *MemoryIndex) Search(_ context.Context, namespace string, query []float32, filter driven.SearchFilter) ([]driven.VectorHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var allowed map[string]struct{}
	if len(filter.DocumentIDs) > 0 {
		allowed = make(map[string]struct{}, len(filter.DocumentIDs))
		for _, id := range filter.DocumentIDs {
			allowed[id] = struct{}{}
		}
	}

	var hits []driven.VectorHit
	for _, point := range m.points[namespace] {
		if allowed != nil {
			if _, ok := allowed[point.chunk.DocumentID]; !ok {
				continue
			}
		}
		score := cosineSimilarity(query, point.vector)
		if filter.MinScore > 0 && score < filter.MinScore {
			continue
		}
		hits = append(hits, driven.VectorHit{Chunk: point.chunk, Similarity: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		// Stable order for equal scores.
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if filter.Limit > 0 && len(hits) > filter.Limit {
		hits = hits[:filter.Limit]
	}
	return hits, nil
}

// Fetch retrieves specific chunks by chunk id. Missing ids are skipped.
func (m *MemoryIndex) Fetch(_ context.Context, namespace string, chunkIDs []string) ([]domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns := m.points[namespace]
	if ns == nil {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(chunkIDs))
	for _, id := range chunkIDs {
		if point, ok := ns[id]; ok {
			chunks = append(chunks, point.chunk)
		}
	}
	return chunks, nil
}

// DeleteDocument removes every vector belonging to a document.
func (m *MemoryIndex) DeleteDocument(_ context.Context, namespace, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, point := range m.points[namespace] {
		if point.chunk.DocumentID == documentID {
			delete(m.points[namespace], id)
		}
	}
	return nil
}

// Count returns the number of stored vectors for a document.
func (m *MemoryIndex) Count(_ context.Context, namespace, documentID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, point := range m.points[namespace] {
		if point.chunk.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

// Ping always succeeds for the in-memory index.
func (m *MemoryIndex) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (m *MemoryIndex) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Embeddings are not assumed to be L2-normalised.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
