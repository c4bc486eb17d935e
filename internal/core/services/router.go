package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure Router can take custom prompts.
var _ driven.PromptStoreAware = (*Router)(nil)

// defaultRoutingPrompt selects documents for a query. Placeholders:
// catalog, history, query.
const defaultRoutingPrompt = `You decide which documents are needed to answer a question.

Available documents:
%s

Conversation so far:
%s

Question: %s

Reply with a single JSON object and nothing else.
If one document is enough: {"document_id": "<id>"}
If several documents are needed: {"document_ids": ["<id>", "<id>"]}
If the conversation already answers the question and no document is needed: {"document_id": "no_document_found"}`

// Router selects which documents a query needs, based on catalog metadata
// rather than content. Every failure path degrades to a deterministic
// choice; Route never fails.
type Router struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewRouter creates a document router. llm may be nil; routing then always
// falls back to the first catalog entry.
func NewRouter(llm driven.LLMService) *Router {
	return &Router{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (r *Router) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// Route selects up to maxDocs documents for the query. An empty catalog
// yields the no-document decision without consulting the model; a single
// entry is returned directly. maxDocs < 1 is treated as 1 and values above
// the routing cap are clamped.
func (r *Router) Route(ctx context.Context, query string, catalog []domain.Document, history []domain.Turn, maxDocs int) domain.RouteDecision {
	if len(catalog) == 0 {
		logger.Debug("Routing: empty catalog, nothing to select")
		return domain.RouteDecision{}
	}

	if maxDocs < 1 {
		maxDocs = 1
	}
	if maxDocs > domain.MaxRoutedDocuments {
		maxDocs = domain.MaxRoutedDocuments
	}

	if len(catalog) == 1 {
		logger.Debug("Routing: single document %s, short-circuit", catalog[0].ID)
		return domain.RouteDecision{DocumentIDs: []string{catalog[0].ID}}
	}

	if r.llm == nil {
		logger.Warn("Routing: LLM unavailable, falling back to first document")
		return r.fallback(catalog)
	}

	prompt := fmt.Sprintf(r.loadPrompt(), r.formatCatalog(catalog), formatHistory(history), query)

	raw, err := r.llm.GenerateJSON(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   200,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Routing: model call failed: %v (falling back to first document)", err)
		return r.fallback(catalog)
	}

	var parsed struct {
		DocumentID  string   `json:"document_id"`
		DocumentIDs []string `json:"document_ids"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		logger.Warn("Routing: malformed model output: %v (falling back to first document)", err)
		return r.fallback(catalog)
	}

	selected := parsed.DocumentIDs
	if len(selected) == 0 && parsed.DocumentID != "" {
		selected = []string{parsed.DocumentID}
	}

	for _, id := range selected {
		if strings.TrimSpace(id) == domain.NoDocumentFound {
			logger.Debug("Routing: model chose no document")
			return domain.RouteDecision{}
		}
	}

	valid := r.validate(selected, catalog)
	if len(valid) == 0 {
		logger.Warn("Routing: model returned no known document id (falling back to first document)")
		return r.fallback(catalog)
	}

	if len(valid) > maxDocs {
		valid = valid[:maxDocs]
	}
	logger.Debug("Routing: selected %v", valid)
	return domain.RouteDecision{DocumentIDs: valid}
}

// fallback is the deterministic degradation: the first catalog entry.
func (r *Router) fallback(catalog []domain.Document) domain.RouteDecision {
	return domain.RouteDecision{
		DocumentIDs: []string{catalog[0].ID},
		Fallback:    true,
	}
}

// validate keeps ids that exist in the catalog, preserving model order and
// dropping duplicates.
func (r *Router) validate(ids []string, catalog []domain.Document) []string {
	known := make(map[string]bool, len(catalog))
	for _, doc := range catalog {
		known[doc.ID] = true
	}

	var valid []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		valid = append(valid, id)
	}
	return valid
}

// formatCatalog renders one line per document for the routing prompt.
func (r *Router) formatCatalog(catalog []domain.Document) string {
	var b strings.Builder
	for i, doc := range catalog {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- id: %s | name: %s", doc.ID, doc.Name)
		if len(doc.Keywords) > 0 {
			fmt.Fprintf(&b, " | keywords: %s", strings.Join(doc.Keywords, ", "))
		}
		if doc.Summary != "" {
			fmt.Fprintf(&b, " | summary: %s", doc.Summary)
		}
		if doc.AdditionalInfo != "" {
			fmt.Fprintf(&b, " | additional info: %s", doc.AdditionalInfo)
		}
	}
	return b.String()
}

// loadPrompt returns the routing prompt template, customised or built-in.
func (r *Router) loadPrompt() string {
	if r.promptStore != nil {
		if prompt, err := r.promptStore.Load(driven.PromptRouting); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultRoutingPrompt
}
