package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Ensure AnswerService can take custom prompts.
var _ driven.PromptStoreAware = (*AnswerService)(nil)

// defaultAnswerSystemPrompt grounds generation in retrieved context.
const defaultAnswerSystemPrompt = `You answer questions using only the document context provided in the conversation.
When the context sections are labeled, mention which document the information came from if it helps the reader.
If the context does not contain the answer, say so plainly instead of guessing.`

// AnswerService answers questions over ingested documents. Retrieve runs
// the query path (route, optimize, search, assemble); Ask adds grounded
// generation on top.
type AnswerService struct {
	meta        driven.MetadataStore
	router      *Router
	optimizer   *QueryOptimizer
	assembler   *ContextAssembler
	llm         driven.LLMService
	promptStore driven.PromptStore
	defaults    domain.RetrievalSettings
}

// NewAnswerService creates an answer service. llm may be nil; Retrieve
// then degrades per component and Ask returns the context without a
// generated answer.
func NewAnswerService(
	meta driven.MetadataStore,
	router *Router,
	optimizer *QueryOptimizer,
	assembler *ContextAssembler,
	llm driven.LLMService,
	defaults domain.RetrievalSettings,
) *AnswerService {
	return &AnswerService{
		meta:      meta,
		router:    router,
		optimizer: optimizer,
		assembler: assembler,
		llm:       llm,
		defaults:  defaults,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Retrieve runs document routing, query optimization, vector search, and
// context assembly in one call.
func (s *AnswerService) Retrieve(ctx context.Context, session *domain.Session, query string, opts domain.RetrieveOptions) (*domain.RetrievalResult, error) {
	logger.Section("Retrieval")

	namespace := domain.DefaultNamespace
	var history []domain.Turn
	if session != nil {
		namespace = session.Namespace
	}

	opts = s.resolveOpts(opts)
	if session != nil {
		history = session.Recent(opts.HistoryTurns)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		query = domain.DefaultQuery
	}
	logger.Debug("Query: %q (namespace %s)", query, namespace)

	catalog, err := s.meta.ListDocuments(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	result := &domain.RetrievalResult{
		Catalog:        catalog,
		OptimizedQuery: query,
	}

	// 1. ROUTE
	decision := s.router.Route(ctx, query, catalog, history, opts.MaxDocuments)
	if decision.Fallback {
		result.Degrade("document routing fell back to the first document")
	}
	if decision.NoDocument() {
		logger.Info("Retrieval: no document needed")
		return result, nil
	}
	result.SelectedIDs = decision.DocumentIDs

	// 2. OPTIMIZE
	phrase, note := s.optimizer.Optimize(ctx, query)
	if note != "" {
		result.Degrade(note)
	}
	result.OptimizedQuery = phrase

	// 3. SEARCH + ASSEMBLE
	docs := selectDocuments(catalog, decision.DocumentIDs)
	context, err := s.assembler.Assemble(ctx, AssembleParams{
		Namespace:        namespace,
		Query:            phrase,
		Documents:        docs,
		TopK:             opts.TopK,
		SimilarityFloor:  opts.SimilarityFloor,
		MaxContextTokens: opts.MaxContextTokens,
	})
	if err != nil {
		logger.Warn("Retrieval: context assembly failed: %v", err)
		result.Degrade("context assembly failed, no document context available")
		return result, nil
	}
	result.Context = context

	logger.Info("Retrieval: %d document(s), %d characters of context", len(docs), len(context))
	return result, nil
}

// Ask runs Retrieve and then generates a grounded answer. On success both
// turns are appended to the session.
func (s *AnswerService) Ask(ctx context.Context, session *domain.Session, query string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	retrieval, err := s.Retrieve(ctx, session, query, opts)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{
		Retrieval: retrieval,
		Degraded:  retrieval.Degraded,
	}

	if s.llm == nil {
		answer.Degrade("answer generation requires an LLM, none is configured")
		return answer, nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		query = domain.DefaultQuery
	}

	var history []domain.Turn
	if session != nil {
		history = session.Recent(s.resolveOpts(opts).HistoryTurns)
	}
	messages := s.buildMessages(retrieval.Context, history, query)

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.2})
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		answer.Degrade("answer generation failed, retrieved context is still attached")
		return answer, nil
	}

	answer.Text = strings.TrimSpace(text)
	if session != nil && answer.Text != "" {
		now := time.Now()
		session.Append(domain.RoleUser, query, now)
		session.Append(domain.RoleAssistant, answer.Text, now)
	}
	return answer, nil
}

// resolveOpts fills zero-valued options from the configured defaults.
func (s *AnswerService) resolveOpts(opts domain.RetrieveOptions) domain.RetrieveOptions {
	if opts.TopK <= 0 {
		opts.TopK = s.defaults.TopK
	}
	if opts.MaxDocuments <= 0 {
		opts.MaxDocuments = s.defaults.MaxDocuments
	}
	if opts.SimilarityFloor <= 0 {
		opts.SimilarityFloor = s.defaults.SimilarityFloor
	}
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = s.defaults.HistoryTurns
	}
	if opts.MaxContextTokens <= 0 {
		opts.MaxContextTokens = s.defaults.MaxContextTokens
	}
	return opts
}

// buildMessages lays out the chat: system prompt, prior turns, then the
// question with its context attached.
func (s *AnswerService) buildMessages(context string, history []domain.Turn, query string) []driven.ChatMessage {
	messages := []driven.ChatMessage{
		{Role: "system", Content: s.loadSystemPrompt()},
	}

	for _, turn := range history {
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Content})
	}

	final := query
	if context != "" {
		final = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", context, query)
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: final})
	return messages
}

// loadSystemPrompt returns the answer system prompt, customised or built-in.
func (s *AnswerService) loadSystemPrompt() string {
	if s.promptStore != nil {
		if prompt, err := s.promptStore.Load(driven.PromptAnswerSystem); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultAnswerSystemPrompt
}

// selectDocuments resolves routed ids to catalog entries, keeping routing
// order.
func selectDocuments(catalog []domain.Document, ids []string) []domain.Document {
	byID := make(map[string]domain.Document, len(catalog))
	for _, doc := range catalog {
		byID[doc.ID] = doc
	}

	var docs []domain.Document
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs
}
