package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer    *domain.Answer
	retrieval *domain.RetrievalResult
	err       error
}

func (m *mockAnswerService) Retrieve(
	_ context.Context,
	_ *domain.Session,
	_ string,
	_ domain.RetrieveOptions,
) (*domain.RetrievalResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.retrieval != nil {
		return m.retrieval, nil
	}
	return &domain.RetrievalResult{}, nil
}

func (m *mockAnswerService) Ask(
	_ context.Context,
	_ *domain.Session,
	_ string,
	_ domain.RetrieveOptions,
) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{}, nil
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	documents  []domain.Document
	document   *domain.Document
	namespaces []string
	overview   *domain.NamespaceOverview
	err        error
}

func (m *mockCatalogService) ListDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockCatalogService) GetDocument(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockCatalogService) DeleteDocument(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockCatalogService) ListNamespaces(_ context.Context) ([]string, error) {
	return m.namespaces, m.err
}

func (m *mockCatalogService) Overview(_ context.Context, _ string) (*domain.NamespaceOverview, error) {
	return m.overview, m.err
}

// mockJobService is a mock implementation of driving.JobService.
type mockJobService struct {
	job *domain.IngestJob
	err error
}

func (m *mockJobService) Submit(_ context.Context, req driving.IngestRequest) (*domain.IngestJob, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.job != nil {
		return m.job, nil
	}
	namespace := req.Namespace
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	id := req.DocumentID
	if id == "" {
		id = "generated-doc-id"
	}
	return domain.NewIngestJob("job-1", namespace, id, req.FileName, time.Now()), nil
}

func (m *mockJobService) Get(_ context.Context, _ string) (*domain.IngestJob, error) {
	return m.job, m.err
}

func (m *mockJobService) List(_ context.Context, _ string, _ int) ([]domain.IngestJob, error) {
	if m.job == nil {
		return nil, m.err
	}
	return []domain.IngestJob{*m.job}, m.err
}

func (m *mockJobService) Wait(_ context.Context, _ string, _ time.Duration) (*domain.IngestJob, error) {
	return m.job, m.err
}

func (m *mockJobService) Prune(_ context.Context) (int, error) {
	return 0, m.err
}
