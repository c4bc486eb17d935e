package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// VectorIndex stores chunk embeddings and provides similarity search.
// Backed by Qdrant, or an in-process index for ephemeral use.
//
// All operations are namespace-scoped: a search never crosses namespaces,
// and deletes only touch the given namespace.
type VectorIndex interface {
	// EnsureReady prepares the backing collection for vectors of the
	// given dimensionality, creating it if needed. Safe to call on
	// every startup.
	EnsureReady(ctx context.Context, dimensions int) error

	// Add upserts chunk vectors. Each chunk carries its own namespace,
	// document id, sequence, and text; re-adding a chunk id overwrites
	// the previous point.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Search finds the nearest neighbours to the query vector within a
	// namespace, optionally restricted to specific documents.
	// Results are ordered by descending similarity.
	Search(ctx context.Context, namespace string, query []float32, filter SearchFilter) ([]VectorHit, error)

	// Fetch retrieves specific chunks by chunk ID without a similarity
	// query. Missing IDs are skipped, not errors.
	Fetch(ctx context.Context, namespace string, chunkIDs []string) ([]domain.Chunk, error)

	// DeleteDocument removes every vector belonging to a document.
	DeleteDocument(ctx context.Context, namespace, documentID string) error

	// Count returns the number of stored vectors for a document.
	Count(ctx context.Context, namespace, documentID string) (int, error)

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// SearchFilter restricts a similarity search.
type SearchFilter struct {
	// DocumentIDs restricts matches to these documents. Empty means
	// the whole namespace.
	DocumentIDs []string

	// Limit is the maximum number of hits to return.
	Limit int

	// MinScore drops hits scoring below it. 0 means no floor.
	MinScore float64
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk with its payload fields populated.
	// The embedding itself is not returned.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
