package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService manages the document catalog and namespaces.
type CatalogService struct {
	meta      driven.MetadataStore
	vector    driven.VectorIndex
	summaries *SummaryRefresher
}

// NewCatalogService creates a catalog service. summaries is optional.
func NewCatalogService(meta driven.MetadataStore, vector driven.VectorIndex, summaries *SummaryRefresher) *CatalogService {
	return &CatalogService{
		meta:      meta,
		vector:    vector,
		summaries: summaries,
	}
}

// ListDocuments returns all documents in a namespace, ordered by name.
func (s *CatalogService) ListDocuments(ctx context.Context, namespace string) ([]domain.Document, error) {
	return s.meta.ListDocuments(ctx, coerceNamespace(namespace))
}

// GetDocument retrieves one catalog entry.
func (s *CatalogService) GetDocument(ctx context.Context, namespace, id string) (*domain.Document, error) {
	return s.meta.GetDocument(ctx, coerceNamespace(namespace), id)
}

// DeleteDocument removes a document everywhere: vectors first, then the
// catalog entry, so a half-applied delete leaves metadata pointing at
// nothing rather than orphaned vectors.
func (s *CatalogService) DeleteDocument(ctx context.Context, namespace, id string) error {
	namespace = coerceNamespace(namespace)

	if err := s.vector.DeleteDocument(ctx, namespace, id); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.meta.DeleteDocument(ctx, namespace, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if s.summaries != nil {
		if err := s.summaries.Refresh(ctx, namespace); err != nil {
			logger.Warn("Namespace summary refresh failed: %v", err)
		}
	}

	logger.Info("Deleted document %s from namespace %s", id, namespace)
	return nil
}

// ListNamespaces returns every known namespace, sorted.
func (s *CatalogService) ListNamespaces(ctx context.Context) ([]string, error) {
	return s.meta.ListNamespaces(ctx)
}

// Overview returns a namespace's documents plus its rolling summary.
func (s *CatalogService) Overview(ctx context.Context, namespace string) (*domain.NamespaceOverview, error) {
	namespace = coerceNamespace(namespace)

	docs, err := s.meta.ListDocuments(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	summary, err := s.meta.GetNamespaceSummary(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("get namespace summary: %w", err)
	}

	return &domain.NamespaceOverview{
		Namespace: namespace,
		Documents: docs,
		Summary:   summary,
	}, nil
}

// coerceNamespace substitutes the default namespace for an empty one.
func coerceNamespace(namespace string) string {
	if namespace == "" {
		return domain.DefaultNamespace
	}
	return namespace
}
