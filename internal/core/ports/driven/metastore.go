package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// MetadataStore persists document catalog entries and namespace summaries.
// Backed by SQLite. Chunk text lives in the VectorIndex payload, not here.
type MetadataStore interface {
	// SaveDocument stores or updates a document keyed by (namespace, id).
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document. Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, namespace, id string) (*domain.Document, error)

	// ListDocuments returns all documents in a namespace, ordered by name.
	ListDocuments(ctx context.Context, namespace string) ([]domain.Document, error)

	// DeleteDocument removes a document's catalog entry.
	// Returns domain.ErrNotFound if absent.
	DeleteDocument(ctx context.Context, namespace, id string) error

	// SaveNamespaceSummary stores or updates the rolling summary for a
	// namespace.
	SaveNamespaceSummary(ctx context.Context, namespace, summary string) error

	// GetNamespaceSummary retrieves a namespace's summary.
	// Returns "" and no error when none has been written yet.
	GetNamespaceSummary(ctx context.Context, namespace string) (string, error)

	// ListNamespaces returns every namespace that has at least one
	// document or a stored summary, sorted.
	ListNamespaces(ctx context.Context) ([]string, error)
}
