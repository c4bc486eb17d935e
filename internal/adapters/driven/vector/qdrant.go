// Package vector provides VectorIndex implementations: a Qdrant-backed
// index for persistent storage and an in-memory index for ephemeral use.
package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure QdrantIndex implements the interface.
var _ driven.VectorIndex = (*QdrantIndex)(nil)

// Default configuration values.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 6334
	DefaultCollection = "askdoc"
)

// Payload field names for chunk points.
const (
	payloadChunkID    = "chunk_id"
	payloadDocumentID = "document_id"
	payloadNamespace  = "namespace"
	payloadSeq        = "seq"
	payloadFileName   = "file_name"
	payloadText       = "text"
)

// QdrantConfig holds connection settings for a Qdrant server.
type QdrantConfig struct {
	// Host is the Qdrant host (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the collection name (default: askdoc).
	Collection string
}

// QdrantIndex stores chunk embeddings in a Qdrant collection.
//
// Qdrant only accepts UUID or integer point ids, so each point id is a
// deterministic UUID derived from the namespace and chunk id; the canonical
// chunk id lives in the payload. Re-adding a chunk overwrites its point.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex connects to a Qdrant server over gRPC.
func NewQdrantIndex(cfg QdrantConfig) (*QdrantIndex, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &QdrantIndex{
		client:     client,
		collection: cfg.Collection,
	}, nil
}

// EnsureReady creates the collection if it does not exist yet.
func (q *QdrantIndex) EnsureReady(ctx context.Context, dimensions int) error {
	collections, err := q.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}
	for _, name := range collections {
		if name == q.collection {
			return nil
		}
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", q.collection, err)
	}
	return nil
}

// Add upserts chunk vectors into the collection.
func (q *QdrantIndex) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("qdrant: chunk %s has no embedding", chunk.ID)
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(chunk.Namespace, chunk.ID)),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadChunkID:    chunk.ID,
				payloadDocumentID: chunk.DocumentID,
				payloadNamespace:  chunk.Namespace,
				payloadSeq:        int64(chunk.Seq),
				payloadFileName:   chunk.FileName,
				payloadText:       chunk.Text,
			}),
		}
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search finds the nearest neighbours to the query vector within a namespace.
func (q *QdrantIndex) Search(ctx context.Context, namespace string, query []float32, filter driven.SearchFilter) ([]driven.VectorHit, error) {
	req := &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(query...),
		Filter:         buildFilter(namespace, filter.DocumentIDs),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if filter.Limit > 0 {
		limit := uint64(filter.Limit)
		req.Limit = &limit
	}
	if filter.MinScore > 0 {
		threshold := float32(filter.MinScore)
		req.ScoreThreshold = &threshold
	}

	results, err := q.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, point := range results {
		chunk, ok := chunkFromPayload(point.GetPayload())
		if !ok {
			continue
		}
		hits = append(hits, driven.VectorHit{
			Chunk:      chunk,
			Similarity: float64(point.GetScore()),
		})
	}
	return hits, nil
}

// Fetch retrieves specific chunks by chunk id. Missing ids are skipped.
func (q *QdrantIndex) Fetch(ctx context.Context, namespace string, chunkIDs []string) ([]domain.Chunk, error) {
	if len(chunkIDs) == 0 {
		return nil, nil
	}

	ids := make([]*qdrant.PointId, len(chunkIDs))
	for i, id := range chunkIDs {
		ids[i] = qdrant.NewID(pointID(namespace, id))
	}

	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collection,
		Ids:            ids,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: get %d points: %w", len(ids), err)
	}

	chunks := make([]domain.Chunk, 0, len(points))
	for _, point := range points {
		if chunk, ok := chunkFromPayload(point.GetPayload()); ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// DeleteDocument removes every vector belonging to a document.
func (q *QdrantIndex) DeleteDocument(ctx context.Context, namespace, documentID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: buildFilter(namespace, []string{documentID}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete document %s: %w", documentID, err)
	}
	return nil
}

// Count returns the number of stored vectors for a document.
func (q *QdrantIndex) Count(ctx context.Context, namespace, documentID string) (int, error) {
	exact := true
	count, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.collection,
		Filter:         buildFilter(namespace, []string{documentID}),
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count document %s: %w", documentID, err)
	}
	return int(count), nil
}

// Ping validates the Qdrant server is reachable.
func (q *QdrantIndex) Ping(ctx context.Context) error {
	if _, err := q.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant: ping failed: %w", err)
	}
	return nil
}

// Close releases the gRPC connection.
func (q *QdrantIndex) Close() error {
	return q.client.Close()
}

// buildFilter scopes an operation to a namespace and optionally to documents.
func buildFilter(namespace string, documentIDs []string) *qdrant.Filter {
	must := []*qdrant.Condition{
		qdrant.NewMatch(payloadNamespace, namespace),
	}
	switch len(documentIDs) {
	case 0:
	case 1:
		must = append(must, qdrant.NewMatch(payloadDocumentID, documentIDs[0]))
	default:
		must = append(must, qdrant.NewMatchKeywords(payloadDocumentID, documentIDs...))
	}
	return &qdrant.Filter{Must: must}
}

// chunkFromPayload rebuilds a chunk from point payload fields.
func chunkFromPayload(payload map[string]*qdrant.Value) (domain.Chunk, bool) {
	if payload == nil {
		return domain.Chunk{}, false
	}
	chunk := domain.Chunk{
		ID:         payload[payloadChunkID].GetStringValue(),
		DocumentID: payload[payloadDocumentID].GetStringValue(),
		Namespace:  payload[payloadNamespace].GetStringValue(),
		Seq:        int(payload[payloadSeq].GetIntegerValue()),
		FileName:   payload[payloadFileName].GetStringValue(),
		Text:       payload[payloadText].GetStringValue(),
	}
	if chunk.ID == "" {
		return domain.Chunk{}, false
	}
	return chunk, true
}

// pointID derives the stable point UUID for a chunk.
func pointID(namespace, chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+"/"+chunkID)).String()
}
