package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// CatalogService manages the document catalog and namespaces.
type CatalogService interface {
	// ListDocuments returns all documents in a namespace, ordered by name.
	ListDocuments(ctx context.Context, namespace string) ([]domain.Document, error)

	// GetDocument retrieves one catalog entry.
	GetDocument(ctx context.Context, namespace, id string) (*domain.Document, error)

	// DeleteDocument removes a document everywhere: vectors first, then
	// the catalog entry. The namespace summary is refreshed best-effort.
	DeleteDocument(ctx context.Context, namespace, id string) error

	// ListNamespaces returns every known namespace, sorted.
	ListNamespaces(ctx context.Context) ([]string, error)

	// Overview returns a namespace's documents plus its rolling summary.
	Overview(ctx context.Context, namespace string) (*domain.NamespaceOverview, error)
}
