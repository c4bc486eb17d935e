package cli

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// testTime keeps fixture timestamps stable across assertions.
var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// setupTestServices installs happy-path mocks for every service and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldCatalog := catalogService
	oldJobs := jobService
	oldRunner := jobRunner
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	answerService = &mockAnswerService{}
	catalogService = &mockCatalogService{}
	jobService = &mockJobService{}
	jobRunner = nil
	settingsService = &mockSettingsService{}

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		catalogService = oldCatalog
		jobService = oldJobs
		jobRunner = oldRunner
		settingsService = oldSettings
	}
}

// Fixtures

func testDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:         "doc-1",
			Namespace:  "default",
			Name:       "Test Document 1",
			Keywords:   []string{"setup", "installation"},
			Summary:    "How to install and configure the product.",
			ChunkCount: 4,
			CreatedAt:  testTime,
			UpdatedAt:  testTime,
		},
		{
			ID:         "doc-2",
			Namespace:  "default",
			Name:       "Test Document 2",
			ChunkCount: 2,
			CreatedAt:  testTime,
			UpdatedAt:  testTime,
		},
	}
}

func testJob(id string, state domain.JobState) *domain.IngestJob {
	job := domain.NewIngestJob(id, "default", "doc-1", "guide.md", testTime)
	switch state {
	case domain.JobStateProcessing:
		job.Claim(testTime)
		job.Advance(55, "embedding chunks")
	case domain.JobStateSuccess:
		job.Succeed(&domain.IngestResult{
			Namespace:  "default",
			DocumentID: "doc-1",
			FileName:   "guide.md",
			ChunkCount: 4,
		}, testTime.Add(2*time.Second))
	case domain.JobStateFailure:
		job.Advance(40, "embedding chunks")
		job.Fail(domain.JobErrKindEmbed, "embedding provider unreachable", testTime.Add(2*time.Second))
	}
	return job
}

// Ingest service mocks

type mockIngestService struct{}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest, progress driving.ProgressFunc) (*domain.IngestResult, error) {
	if progress != nil {
		progress(100, "done")
	}
	namespace := req.Namespace
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &domain.IngestResult{
		Namespace:  namespace,
		DocumentID: "doc-1",
		FileName:   req.FileName,
		ChunkCount: 4,
		Message:    "ingested 4 chunks",
	}, nil
}

type mockIngestServiceError struct{}

func (m *mockIngestServiceError) Ingest(_ context.Context, _ driving.IngestRequest, _ driving.ProgressFunc) (*domain.IngestResult, error) {
	return nil, errors.New("pipeline failure")
}

// Answer service mocks

type mockAnswerService struct{}

func (m *mockAnswerService) Retrieve(_ context.Context, _ *domain.Session, _ string, _ domain.RetrieveOptions) (*domain.RetrievalResult, error) {
	return &domain.RetrievalResult{
		Context:        "=== INFORMATION FROM DOCUMENT: Test Document 1 (ID: doc-1) ===",
		Catalog:        testDocuments(),
		SelectedIDs:    []string{"doc-1"},
		OptimizedQuery: "install product",
	}, nil
}

func (m *mockAnswerService) Ask(ctx context.Context, session *domain.Session, query string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	retrieval, err := m.Retrieve(ctx, session, query, opts)
	if err != nil {
		return nil, err
	}
	if session != nil {
		session.Append(domain.RoleUser, query, testTime)
		session.Append(domain.RoleAssistant, "Run the setup script first.", testTime)
	}
	return &domain.Answer{
		Text:      "Run the setup script first.",
		Retrieval: retrieval,
	}, nil
}

type mockAnswerServiceDegraded struct{}

func (m *mockAnswerServiceDegraded) Retrieve(_ context.Context, _ *domain.Session, _ string, _ domain.RetrieveOptions) (*domain.RetrievalResult, error) {
	result := &domain.RetrievalResult{Catalog: testDocuments()}
	result.Degrade("document routing unavailable, used first document")
	return result, nil
}

func (m *mockAnswerServiceDegraded) Ask(ctx context.Context, session *domain.Session, query string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	retrieval, _ := m.Retrieve(ctx, session, query, opts)
	answer := &domain.Answer{Retrieval: retrieval, Degraded: true}
	answer.Degrade("answer generation unavailable")
	return answer, nil
}

type mockAnswerServiceError struct{}

func (m *mockAnswerServiceError) Retrieve(_ context.Context, _ *domain.Session, _ string, _ domain.RetrieveOptions) (*domain.RetrievalResult, error) {
	return nil, errors.New("retrieval failure")
}

func (m *mockAnswerServiceError) Ask(_ context.Context, _ *domain.Session, _ string, _ domain.RetrieveOptions) (*domain.Answer, error) {
	return nil, errors.New("generation failure")
}

// Catalog service mocks

type mockCatalogService struct{}

func (m *mockCatalogService) ListDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return testDocuments(), nil
}

func (m *mockCatalogService) GetDocument(_ context.Context, _, id string) (*domain.Document, error) {
	docs := testDocuments()
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalogService) DeleteDocument(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockCatalogService) ListNamespaces(_ context.Context) ([]string, error) {
	return []string{"default", "team-a"}, nil
}

func (m *mockCatalogService) Overview(_ context.Context, namespace string) (*domain.NamespaceOverview, error) {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &domain.NamespaceOverview{
		Namespace: namespace,
		Documents: testDocuments(),
		Summary:   "Two documents about product setup.",
	}, nil
}

type mockCatalogServiceEmpty struct {
	mockCatalogService
}

func (m *mockCatalogServiceEmpty) ListDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, nil
}

func (m *mockCatalogServiceEmpty) ListNamespaces(_ context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockCatalogServiceEmpty) Overview(_ context.Context, namespace string) (*domain.NamespaceOverview, error) {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &domain.NamespaceOverview{Namespace: namespace}, nil
}

type mockCatalogServiceError struct{}

func (m *mockCatalogServiceError) ListDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, errors.New("catalog failure")
}

func (m *mockCatalogServiceError) GetDocument(_ context.Context, _, _ string) (*domain.Document, error) {
	return nil, errors.New("catalog failure")
}

func (m *mockCatalogServiceError) DeleteDocument(_ context.Context, _, _ string) error {
	return errors.New("catalog failure")
}

func (m *mockCatalogServiceError) ListNamespaces(_ context.Context) ([]string, error) {
	return nil, errors.New("catalog failure")
}

func (m *mockCatalogServiceError) Overview(_ context.Context, _ string) (*domain.NamespaceOverview, error) {
	return nil, errors.New("catalog failure")
}

// Job service mocks

type mockJobService struct{}

func (m *mockJobService) Submit(_ context.Context, req driving.IngestRequest) (*domain.IngestJob, error) {
	namespace := req.Namespace
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	id := req.DocumentID
	if id == "" {
		id = filepath.Base(req.Path)
	}
	name := req.FileName
	if name == "" {
		name = filepath.Base(req.Path)
	}
	return domain.NewIngestJob("job-1", namespace, id, name, testTime), nil
}

func (m *mockJobService) Get(_ context.Context, jobID string) (*domain.IngestJob, error) {
	if jobID != "job-1" {
		return nil, domain.ErrNotFound
	}
	return testJob(jobID, domain.JobStateSuccess), nil
}

func (m *mockJobService) List(_ context.Context, _ string, _ int) ([]domain.IngestJob, error) {
	return []domain.IngestJob{
		*testJob("job-1", domain.JobStateSuccess),
		*testJob("job-2", domain.JobStateFailure),
	}, nil
}

func (m *mockJobService) Wait(ctx context.Context, jobID string, _ time.Duration) (*domain.IngestJob, error) {
	return m.Get(ctx, jobID)
}

func (m *mockJobService) Prune(_ context.Context) (int, error) {
	return 3, nil
}

type mockJobServiceEmpty struct {
	mockJobService
}

func (m *mockJobServiceEmpty) List(_ context.Context, _ string, _ int) ([]domain.IngestJob, error) {
	return nil, nil
}

// mockJobServiceFailed submits fine but reports the job as failed.
type mockJobServiceFailed struct {
	mockJobService
}

func (m *mockJobServiceFailed) Get(_ context.Context, jobID string) (*domain.IngestJob, error) {
	return testJob(jobID, domain.JobStateFailure), nil
}

type mockJobServiceError struct{}

func (m *mockJobServiceError) Submit(_ context.Context, _ driving.IngestRequest) (*domain.IngestJob, error) {
	return nil, errors.New("queue failure")
}

func (m *mockJobServiceError) Get(_ context.Context, _ string) (*domain.IngestJob, error) {
	return nil, errors.New("queue failure")
}

func (m *mockJobServiceError) List(_ context.Context, _ string, _ int) ([]domain.IngestJob, error) {
	return nil, errors.New("queue failure")
}

func (m *mockJobServiceError) Wait(_ context.Context, _ string, _ time.Duration) (*domain.IngestJob, error) {
	return nil, errors.New("queue failure")
}

func (m *mockJobServiceError) Prune(_ context.Context) (int, error) {
	return 0, errors.New("queue failure")
}

// Settings service mocks

type mockSettingsService struct {
	saved *domain.AppSettings
	keys  map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434",
	}
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetVectorBackend(_ domain.VectorBackend) error {
	return nil
}

func (m *mockSettingsService) SetKey(key, value string) error {
	if m.keys == nil {
		m.keys = make(map[string]string)
	}
	m.keys[key] = value
	return nil
}

func (m *mockSettingsService) Validate() error { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

// mockSettingsServiceInvalid reports an incomplete configuration.
type mockSettingsServiceInvalid struct {
	mockSettingsService
}

func (m *mockSettingsServiceInvalid) Validate() error {
	return errors.New("embedding provider is not configured")
}

type mockSettingsServiceError struct {
	mockSettingsService
}

func (m *mockSettingsServiceError) Get() (*domain.AppSettings, error) {
	return nil, errors.New("config store failure")
}

func (m *mockSettingsServiceError) SetKey(_, _ string) error {
	return errors.New("config store failure")
}
