package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	generateResult string
	generateErr    error
	jsonResult     string
	jsonErr        error
	chatResult     string
	chatErr        error

	generateCalls int
	jsonCalls     int
	chatCalls     int
	lastPrompt    string
	lastMessages  []driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.generateCalls++
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.generateResult, nil
}

func (m *mockLLMService) GenerateJSON(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.jsonCalls++
	m.lastPrompt = prompt
	if m.jsonErr != nil {
		return "", m.jsonErr
	}
	return m.jsonResult, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastMessages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResult, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	batchErr  error
	dims      int

	batchCalls int
	lastTexts  []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	m.lastTexts = texts
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.vector()
	}
	return result, nil
}

func (m *mockEmbeddingService) vector() []float32 {
	if m.embedding != nil {
		return m.embedding
	}
	return make([]float32, m.Dimensions())
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 8
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing. Hits are
// keyed by document id so per-document searches return distinct results;
// Fetch serves from the chunks map.
type mockVectorIndex struct {
	hits   map[string][]driven.VectorHit
	chunks map[string]domain.Chunk

	searchErr error
	fetchErr  error
	addErr    error
	deleteErr error

	added   []domain.Chunk
	deleted []string
	ops     []string
}

func (m *mockVectorIndex) EnsureReady(_ context.Context, _ int) error {
	return nil
}

func (m *mockVectorIndex) Add(_ context.Context, chunks []domain.Chunk) error {
	m.ops = append(m.ops, "add")
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ string, _ []float32, filter driven.SearchFilter) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	var pool []driven.VectorHit
	if len(filter.DocumentIDs) == 0 {
		for _, hits := range m.hits {
			pool = append(pool, hits...)
		}
	} else {
		for _, id := range filter.DocumentIDs {
			pool = append(pool, m.hits[id]...)
		}
	}

	var out []driven.VectorHit
	for _, hit := range pool {
		if filter.MinScore > 0 && hit.Similarity < filter.MinScore {
			continue
		}
		out = append(out, hit)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockVectorIndex) Fetch(_ context.Context, _ string, chunkIDs []string) ([]domain.Chunk, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []domain.Chunk
	for _, id := range chunkIDs {
		if chunk, ok := m.chunks[id]; ok {
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, namespace, documentID string) error {
	m.ops = append(m.ops, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, namespace+"/"+documentID)
	return nil
}

func (m *mockVectorIndex) Count(_ context.Context, _, documentID string) (int, error) {
	return len(m.hits[documentID]), nil
}

func (m *mockVectorIndex) Ping(_ context.Context) error {
	return nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockMetadataStore implements driven.MetadataStore for testing, backed
// by maps so merge behaviour can be exercised end to end.
type mockMetadataStore struct {
	mu        sync.Mutex
	docs      map[string]*domain.Document
	summaries map[string]string

	saveErr    error
	getErr     error
	listErr    error
	deleteErr  error
	summaryErr error

	saved []string
}

func newMockMetadataStore() *mockMetadataStore {
	return &mockMetadataStore{
		docs:      make(map[string]*domain.Document),
		summaries: make(map[string]string),
	}
}

func metaKey(namespace, id string) string {
	return namespace + "/" + id
}

func (m *mockMetadataStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *doc
	m.docs[metaKey(doc.Namespace, doc.ID)] = &copied
	m.saved = append(m.saved, doc.ID)
	return nil
}

func (m *mockMetadataStore) GetDocument(_ context.Context, namespace, id string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[metaKey(namespace, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *mockMetadataStore) ListDocuments(_ context.Context, namespace string) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Document
	for key, doc := range m.docs {
		if strings.HasPrefix(key, namespace+"/") {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockMetadataStore) DeleteDocument(_ context.Context, namespace, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := metaKey(namespace, id)
	if _, ok := m.docs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, key)
	return nil
}

func (m *mockMetadataStore) SaveNamespaceSummary(_ context.Context, namespace, summary string) error {
	if m.summaryErr != nil {
		return m.summaryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[namespace] = summary
	return nil
}

func (m *mockMetadataStore) GetNamespaceSummary(_ context.Context, namespace string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries[namespace], nil
}

func (m *mockMetadataStore) ListNamespaces(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	for key := range m.docs {
		ns := key[:strings.Index(key, "/")]
		seen[ns] = true
	}
	for ns := range m.summaries {
		seen[ns] = true
	}
	var out []string
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}

// mockJobStore implements driven.JobStore for testing. Worker goroutines
// update jobs while tests poll them, so access is locked, and progress
// values are recorded per job for ordering assertions.
type mockJobStore struct {
	mu   sync.Mutex
	jobs map[string]*domain.IngestJob

	createErr error
	updateErr error

	progressLog map[string][]int
	deleted     []string
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{
		jobs:        make(map[string]*domain.IngestJob),
		progressLog: make(map[string][]int),
	}
}

func (m *mockJobStore) CreateJob(_ context.Context, job *domain.IngestJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return domain.ErrAlreadyExists
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockJobStore) UpdateJob(_ context.Context, job *domain.IngestJob) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *job
	m.jobs[job.ID] = &copied
	m.progressLog[job.ID] = append(m.progressLog[job.ID], job.Progress)
	return nil
}

func (m *mockJobStore) GetJob(_ context.Context, id string) (*domain.IngestJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (m *mockJobStore) ListJobs(_ context.Context, namespace string, limit int) ([]domain.IngestJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.IngestJob
	for _, job := range m.jobs {
		if namespace != "" && job.Namespace != namespace {
			continue
		}
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnqueuedAt.After(out[j].EnqueuedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockJobStore) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.jobs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockJobStore) PruneJobs(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int
	for id, job := range m.jobs {
		if job.State.Terminal() && job.FinishedAt.Before(cutoff) {
			delete(m.jobs, id)
			count++
		}
	}
	return count, nil
}

func (m *mockJobStore) progressFor(id string) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.progressLog[id]))
	copy(out, m.progressLog[id])
	return out
}

// mockNormaliserRegistry implements driven.NormaliserRegistry for testing.
type mockNormaliserRegistry struct {
	text string
	err  error
}

func (m *mockNormaliserRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.text != "" {
		return &driven.NormaliseResult{Text: m.text}, nil
	}
	return &driven.NormaliseResult{Text: string(raw.Content)}, nil
}

func (m *mockNormaliserRegistry) Register(_ driven.Normaliser) {}

func (m *mockNormaliserRegistry) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockPipeline implements driven.PostProcessorPipeline for testing.
// Without explicit chunks it splits text on blank lines.
type mockPipeline struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document, text string) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	var chunks []domain.Chunk
	for i, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Namespace:  doc.Namespace,
			Text:       part,
			Seq:        i,
			FileName:   doc.Name,
		})
	}
	return chunks, nil
}

// mockTokenizer implements driven.Tokenizer for testing. One word is one
// token, which keeps budget arithmetic readable in tests.
type mockTokenizer struct{}

func (m *mockTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
	reloads int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {
	m.reloads++
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values  map[string]any
	setErr  error
	saveErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	val, ok := m.values[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if val, ok := m.values[key].(string); ok {
		return val
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch val := m.values[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch val := m.values[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if val, ok := m.values[key].(bool); ok {
		return val
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	switch val := m.values[key].(type) {
	case []string:
		return val
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	return m.saveErr
}

func (m *mockConfigStore) Load() error {
	return nil
}

func (m *mockConfigStore) Path() string {
	return "/tmp/mock-config.toml"
}

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

// --- Test helpers ---

// testChunk builds a chunk with the canonical id for a document and sequence.
func testChunk(namespace, docID string, seq int, text string) domain.Chunk {
	return domain.Chunk{
		ID:         domain.ChunkID(docID, seq),
		DocumentID: docID,
		Namespace:  namespace,
		Text:       text,
		Seq:        seq,
	}
}

// testCatalog builds a small multi-document catalog.
func testCatalog() []domain.Document {
	return []domain.Document{
		{ID: "doc-handbook", Namespace: "kb", Name: "employee-handbook.md", Keywords: []string{"onboarding", "leave policy"}, Summary: "HR policies and onboarding.", ChunkCount: 4},
		{ID: "doc-security", Namespace: "kb", Name: "security-guide.md", Keywords: []string{"passwords", "incident response"}, Summary: "Security practices.", ChunkCount: 3},
		{ID: "doc-finance", Namespace: "kb", Name: "travel-expenses.md", Keywords: []string{"expenses", "travel"}, Summary: "Expense reporting rules.", ChunkCount: 2},
	}
}
