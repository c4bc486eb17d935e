package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Ensure IngestService can take custom prompts.
var _ driven.PromptStoreAware = (*IngestService)(nil)

// extractionSampleLimit caps how much document text one metadata
// extraction call sees.
const extractionSampleLimit = 8000

// maxKeywordWords is the longest keyword accepted from extraction.
const maxKeywordWords = 3

// defaultExtractionPrompt asks for document keywords and a summary.
// Placeholder: document text.
const defaultExtractionPrompt = `Read the document below and reply with a single JSON object and nothing else:
{"keywords": ["<short topic keyword>", ...], "summary": "<one or two sentences on what the document contains>"}
Each keyword must be at most three words.

Document:
%s

JSON:`

// StageError reports which ingest stage failed, so job state can carry
// a machine-readable failure kind alongside the message.
type StageError struct {
	// Kind is one of the domain.JobErrKind constants.
	Kind string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying failure to errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf extracts the failing stage kind from an ingest error.
// Errors that carry no stage map to the first stage.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return domain.JobErrKindRead
}

// IngestService runs the document ingestion pipeline: read, normalise,
// extract metadata, chunk, embed, index, and update the catalog.
//
// There is no rollback: a failure part-way leaves earlier writes in place,
// and re-ingesting the same document id supersedes them.
type IngestService struct {
	registry    driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	vector      driven.VectorIndex
	meta        driven.MetadataStore
	llm         driven.LLMService
	summaries   *SummaryRefresher
	promptStore driven.PromptStore
}

// NewIngestService creates an ingest service.
// llm and summaries are optional: without llm, extraction yields empty
// keywords and summary; without summaries, namespace summaries go stale
// until the next refresh.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vector driven.VectorIndex,
	meta driven.MetadataStore,
	llm driven.LLMService,
	summaries *SummaryRefresher,
) *IngestService {
	return &IngestService{
		registry:  registry,
		pipeline:  pipeline,
		embedder:  embedder,
		vector:    vector,
		meta:      meta,
		llm:       llm,
		summaries: summaries,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *IngestService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ingest runs the full pipeline synchronously.
//
//nolint:gocyclo // Pipeline orchestration with sequential steps
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest, progress driving.ProgressFunc) (*domain.IngestResult, error) {
	if progress == nil {
		progress = func(int, string) {}
	}
	if s.embedder == nil {
		return nil, &StageError{Kind: domain.JobErrKindEmbed, Err: domain.ErrEmbeddingUnavailable}
	}
	req = s.applyDefaults(req)

	logger.Section("Document Ingestion")
	logger.Info("Ingesting %s into namespace %s (document %s)", req.FileName, req.Namespace, req.DocumentID)

	// 1. READ
	progress(5, "reading document")
	raw, err := s.read(req)
	if err != nil {
		return nil, &StageError{Kind: domain.JobErrKindRead, Err: err}
	}

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, &StageError{Kind: domain.JobErrKindExtract, Err: fmt.Errorf("normalise: %w", err)}
	}
	text := result.Text
	logger.Debug("Normalised %s: %d characters", req.FileName, len(text))

	// 2. EXTRACT METADATA (degrades to empty on failure)
	progress(25, "extracting metadata")
	keywords, summary, extractNote := s.extractMetadata(ctx, text)

	// 3. CHUNK
	doc := &domain.Document{
		ID:             req.DocumentID,
		Namespace:      req.Namespace,
		Name:           req.FileName,
		AdditionalInfo: req.AdditionalInfo,
	}
	chunks, err := s.pipeline.Process(ctx, doc, text)
	if err != nil {
		return nil, &StageError{Kind: domain.JobErrKindExtract, Err: fmt.Errorf("post-process: %w", err)}
	}
	if len(chunks) == 0 {
		return nil, &StageError{Kind: domain.JobErrKindExtract, Err: domain.ErrNoChunks}
	}
	logger.Debug("Chunked %s into %d chunks", req.FileName, len(chunks))

	// 4. EMBED + UPSERT (old vectors are superseded first)
	progress(55, "embedding and uploading")
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &StageError{Kind: domain.JobErrKindEmbed, Err: fmt.Errorf("embed chunks: %w", err)}
	}
	if len(embeddings) != len(chunks) {
		return nil, &StageError{Kind: domain.JobErrKindEmbed, Err: fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(embeddings), len(chunks))}
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.vector.DeleteDocument(ctx, req.Namespace, req.DocumentID); err != nil {
		return nil, &StageError{Kind: domain.JobErrKindUpload, Err: fmt.Errorf("delete superseded vectors: %w", err)}
	}
	if err := s.vector.Add(ctx, chunks); err != nil {
		return nil, &StageError{Kind: domain.JobErrKindUpload, Err: fmt.Errorf("add vectors: %w", err)}
	}
	progress(75, "embedding and uploading")

	// 5. MERGE CATALOG METADATA
	progress(90, "finalizing")
	if err := s.mergeMetadata(ctx, req, keywords, summary, len(chunks)); err != nil {
		return nil, &StageError{Kind: domain.JobErrKindMetadata, Err: err}
	}

	// 6. REFRESH NAMESPACE SUMMARY (best-effort)
	if s.summaries != nil {
		if err := s.summaries.Refresh(ctx, req.Namespace); err != nil {
			logger.Warn("Namespace summary refresh failed: %v", err)
		}
	}

	logger.Info("Ingested %s: %d chunks", req.FileName, len(chunks))
	return &domain.IngestResult{
		Namespace:  req.Namespace,
		DocumentID: req.DocumentID,
		FileName:   req.FileName,
		ChunkCount: len(chunks),
		Keywords:   keywords,
		Summary:    summary,
		Message:    extractNote,
	}, nil
}

// applyDefaults fills namespace, document id, file name, and MIME type.
func (s *IngestService) applyDefaults(req driving.IngestRequest) driving.IngestRequest {
	if req.Namespace == "" {
		req.Namespace = domain.DefaultNamespace
	}
	if req.FileName == "" {
		if req.Path != "" {
			req.FileName = filepath.Base(req.Path)
		} else {
			req.FileName = "inline.txt"
		}
	}
	if req.DocumentID == "" {
		req.DocumentID = uuid.New().String()
	}
	if req.MIMEType == "" {
		req.MIMEType = detectMIMEType(req.FileName)
	}
	return req
}

// read produces the raw document from disk or inline content.
func (s *IngestService) read(req driving.IngestRequest) (*domain.RawDocument, error) {
	raw := &domain.RawDocument{
		URI:      "inline",
		FileName: req.FileName,
		MIMEType: req.MIMEType,
		Content:  req.Content,
	}

	if req.Path != "" {
		content, err := os.ReadFile(req.Path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		raw.URI = req.Path
		raw.Content = content
	}

	if len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: no content to ingest", domain.ErrInvalidInput)
	}
	return raw, nil
}

// extractMetadata asks the model for keywords and a summary in one call.
// Any failure degrades to empty metadata with a note, never an error.
func (s *IngestService) extractMetadata(ctx context.Context, text string) (keywords []string, summary, note string) {
	if s.llm == nil {
		return nil, "", "metadata extraction skipped: no LLM configured"
	}

	sample := text
	if len(sample) > extractionSampleLimit {
		sample = sample[:extractionSampleLimit]
	}
	prompt := fmt.Sprintf(s.loadExtractionPrompt(), sample)

	raw, err := s.llm.GenerateJSON(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   300,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Metadata extraction failed: %v (continuing without)", err)
		return nil, "", "metadata extraction failed, continuing without keywords and summary"
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
		Summary  string   `json:"summary"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		logger.Warn("Metadata extraction returned malformed JSON: %v (continuing without)", err)
		return nil, "", "metadata extraction returned malformed output, continuing without keywords and summary"
	}

	return cleanKeywords(parsed.Keywords), strings.TrimSpace(parsed.Summary), ""
}

// mergeMetadata folds extraction output into the existing catalog entry:
// keywords are unioned, summary and chunk count overwritten.
func (s *IngestService) mergeMetadata(ctx context.Context, req driving.IngestRequest, keywords []string, summary string, chunkCount int) error {
	now := time.Now()

	doc, err := s.meta.GetDocument(ctx, req.Namespace, req.DocumentID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		doc = &domain.Document{
			ID:        req.DocumentID,
			Namespace: req.Namespace,
			CreatedAt: now,
		}
	case err != nil:
		return fmt.Errorf("get document: %w", err)
	}

	doc.Name = req.FileName
	doc.MergeKeywords(keywords)
	if summary != "" {
		doc.Summary = summary
	}
	doc.ChunkCount = chunkCount
	if req.AdditionalInfo != "" {
		doc.AdditionalInfo = req.AdditionalInfo
	}
	doc.UpdatedAt = now

	if err := s.meta.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// loadExtractionPrompt returns the extraction template, customised or built-in.
func (s *IngestService) loadExtractionPrompt() string {
	if s.promptStore != nil {
		if prompt, err := s.promptStore.Load(driven.PromptExtraction); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultExtractionPrompt
}

// cleanKeywords trims, deduplicates, and drops keywords longer than the
// word limit, preserving model order.
func cleanKeywords(raw []string) []string {
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			continue
		}
		if len(strings.Fields(kw)) > maxKeywordWords {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

// detectMIMEType maps a file name to a content type, defaulting to plain text.
func detectMIMEType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		// Strip parameters like "; charset=utf-8".
		if idx := strings.Index(mimeType, ";"); idx >= 0 {
			mimeType = mimeType[:idx]
		}
		return mimeType
	}
	return "text/plain"
}
