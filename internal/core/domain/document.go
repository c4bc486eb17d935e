package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultNamespace is used when a caller supplies an empty namespace.
const DefaultNamespace = "default"

// Document is the catalog record of an ingested document within a namespace.
// It carries the retrieval metadata the router decides on; the document's
// text lives only in the vector index as chunk payloads.
type Document struct {
	// ID is the caller-supplied identifier, unique within the namespace.
	ID string

	// Namespace is the partition this document belongs to.
	Namespace string

	// Name is the human-readable name, usually the original file name.
	Name string

	// Keywords are short noun-phrases extracted at ingestion.
	// Re-ingestion unions new keywords into this set.
	Keywords []string

	// Summary is a short abstract of the document, overwritten on re-ingestion.
	Summary string

	// ChunkCount is the number of chunks currently indexed for this document.
	ChunkCount int

	// AdditionalInfo is optional caller-supplied routing context.
	AdditionalInfo string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested or updated.
	UpdatedAt time.Time
}

// MergeKeywords unions new keywords into the document's set.
// Existing order is preserved and duplicates are dropped, so repeated
// re-ingestion is stable.
func (d *Document) MergeKeywords(keywords []string) {
	seen := make(map[string]struct{}, len(d.Keywords)+len(keywords))
	for _, k := range d.Keywords {
		seen[k] = struct{}{}
	}
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		d.Keywords = append(d.Keywords, k)
	}
}

// Chunk is a sentence-aligned slice of a document's text.
// Chunks are immutable once written; re-ingestion replaces a document's
// whole chunk set.
type Chunk struct {
	// ID is "<documentID>_<seq>". See ChunkID.
	ID string

	// DocumentID links to the parent document.
	DocumentID string

	// Namespace is the partition the chunk is indexed under.
	Namespace string

	// Text is the chunk's content.
	Text string

	// Seq is the zero-based sequence number within the document.
	// Sequence numbers are contiguous; adjacency lookups depend on it.
	Seq int

	// FileName is the originating file name, carried in the index payload.
	FileName string

	// Embedding is the vector representation, set during ingestion.
	// It is not persisted in the metadata store.
	Embedding []float32
}

// ChunkID builds the canonical chunk identifier for a document and sequence.
func ChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s_%d", documentID, seq)
}

// SplitChunkID parses a chunk identifier into document id and sequence.
// Document ids may themselves contain underscores, so the split happens at
// the last one. Returns ok=false if the id is not in canonical form.
func SplitChunkID(id string) (documentID string, seq int, ok bool) {
	i := strings.LastIndex(id, "_")
	if i <= 0 || i == len(id)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return id[:i], n, true
}

// NamespaceOverview is the catalog view of one namespace.
type NamespaceOverview struct {
	// Namespace is the partition name.
	Namespace string

	// Documents are the catalog records, the router's input.
	Documents []Document

	// Summary is the namespace-level rolling summary, possibly empty.
	Summary string
}
