package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
type MetadataStore struct {
	mu        sync.RWMutex
	documents map[string]map[string]domain.Document // namespace -> id -> document
	summaries map[string]string                     // namespace -> summary
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		documents: make(map[string]map[string]domain.Document),
		summaries: make(map[string]string),
	}
}

// SaveDocument stores or updates a document keyed by (namespace, id).
func (s *MetadataStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" || doc.Namespace == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.documents[doc.Namespace]
	if !ok {
		ns = make(map[string]domain.Document)
		s.documents[doc.Namespace] = ns
	}
	ns[doc.ID] = copyDocument(*doc)
	return nil
}

// GetDocument retrieves a document by namespace and ID.
func (s *MetadataStore) GetDocument(_ context.Context, namespace, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[namespace][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyDocument(doc)
	return &out, nil
}

// ListDocuments returns all documents in a namespace, ordered by name.
func (s *MetadataStore) ListDocuments(_ context.Context, namespace string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for _, doc := range s.documents[namespace] {
		result = append(result, copyDocument(doc))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteDocument removes a document's catalog entry.
func (s *MetadataStore) DeleteDocument(_ context.Context, namespace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.documents[namespace]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := ns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(ns, id)
	if len(ns) == 0 {
		delete(s.documents, namespace)
	}
	return nil
}

// SaveNamespaceSummary stores or updates the rolling summary for a namespace.
func (s *MetadataStore) SaveNamespaceSummary(_ context.Context, namespace, summary string) error {
	if namespace == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[namespace] = summary
	return nil
}

// GetNamespaceSummary retrieves a namespace's summary.
// Returns "" and no error when none has been written yet.
func (s *MetadataStore) GetNamespaceSummary(_ context.Context, namespace string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries[namespace], nil
}

// ListNamespaces returns every namespace with at least one document or a
// stored summary, sorted.
func (s *MetadataStore) ListNamespaces(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for ns, docs := range s.documents {
		if len(docs) > 0 {
			seen[ns] = struct{}{}
		}
	}
	for ns, summary := range s.summaries {
		if summary != "" {
			seen[ns] = struct{}{}
		}
	}
	namespaces := make([]string, 0, len(seen))
	for ns := range seen {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

// copyDocument clones a document so callers cannot mutate stored state
// through shared slices.
func copyDocument(doc domain.Document) domain.Document {
	if doc.Keywords != nil {
		keywords := make([]string, len(doc.Keywords))
		copy(keywords, doc.Keywords)
		doc.Keywords = keywords
	}
	return doc
}
