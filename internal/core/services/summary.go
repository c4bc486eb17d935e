package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure SummaryRefresher can take custom prompts.
var _ driven.PromptStoreAware = (*SummaryRefresher)(nil)

// defaultNamespaceSummaryPrompt describes a document collection.
// Placeholder: document digests.
const defaultNamespaceSummaryPrompt = `Write two or three sentences describing what the document collection below covers, so a reader knows what questions it can answer.

Documents:
%s

Description:`

// SummaryRefresher maintains the rolling per-namespace summary shown in
// overviews and used as routing context. Callers treat it as best-effort:
// a failed refresh leaves the previous summary in place.
type SummaryRefresher struct {
	meta        driven.MetadataStore
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewSummaryRefresher creates a summary refresher. llm may be nil; the
// summary is then built deterministically from document names.
func NewSummaryRefresher(meta driven.MetadataStore, llm driven.LLMService) *SummaryRefresher {
	return &SummaryRefresher{meta: meta, llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *SummaryRefresher) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Refresh recomputes and stores the summary for a namespace.
func (s *SummaryRefresher) Refresh(ctx context.Context, namespace string) error {
	docs, err := s.meta.ListDocuments(ctx, namespace)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	summary := s.summarise(ctx, docs)
	if err := s.meta.SaveNamespaceSummary(ctx, namespace, summary); err != nil {
		return fmt.Errorf("save namespace summary: %w", err)
	}

	logger.Debug("Namespace %s summary refreshed (%d documents)", namespace, len(docs))
	return nil
}

// summarise produces the namespace description, preferring the model and
// falling back to a plain document listing.
func (s *SummaryRefresher) summarise(ctx context.Context, docs []domain.Document) string {
	if len(docs) == 0 {
		return ""
	}

	if s.llm != nil {
		prompt := fmt.Sprintf(s.loadPrompt(), s.formatDigests(docs))
		out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   150,
			Temperature: 0.2,
		})
		if err == nil {
			if summary := strings.TrimSpace(out); summary != "" {
				return summary
			}
		} else {
			logger.Warn("Namespace summary: model call failed: %v (using document listing)", err)
		}
	}

	return s.fallback(docs)
}

// fallback lists document names when no model summary is available.
func (s *SummaryRefresher) fallback(docs []domain.Document) string {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}
	return fmt.Sprintf("Contains %d document(s): %s.", len(docs), strings.Join(names, ", "))
}

// formatDigests renders one line per document for the summary prompt.
func (s *SummaryRefresher) formatDigests(docs []domain.Document) string {
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s", doc.Name)
		if len(doc.Keywords) > 0 {
			fmt.Fprintf(&b, " (keywords: %s)", strings.Join(doc.Keywords, ", "))
		}
		if doc.Summary != "" {
			fmt.Fprintf(&b, ": %s", doc.Summary)
		}
	}
	return b.String()
}

// loadPrompt returns the summary prompt template, customised or built-in.
func (s *SummaryRefresher) loadPrompt() string {
	if s.promptStore != nil {
		if prompt, err := s.promptStore.Load(driven.PromptNamespaceSummary); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultNamespaceSummaryPrompt
}
