package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure QueryOptimizer can take custom prompts.
var _ driven.PromptStoreAware = (*QueryOptimizer)(nil)

// minOptimizedLen is the shortest model output accepted as a search phrase.
const minOptimizedLen = 3

// defaultOptimizePrompt condenses a question into a search phrase.
// Placeholder: query.
const defaultOptimizePrompt = `Condense the question below into a short search phrase of one to three words.
Keep only the terms that carry meaning. Reply with the phrase and nothing else.

Question: %s

Search phrase:`

// QueryOptimizer condenses conversational questions into short phrases
// better suited to embedding search. Failures pass the original query
// through unchanged; Optimize never fails.
type QueryOptimizer struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewQueryOptimizer creates a query optimizer. llm may be nil; queries are
// then passed through unchanged.
func NewQueryOptimizer(llm driven.LLMService) *QueryOptimizer {
	return &QueryOptimizer{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (o *QueryOptimizer) SetPromptStore(store driven.PromptStore) {
	o.promptStore = store
}

// Optimize returns a condensed search phrase for the query, or the query
// itself when no usable phrase could be produced. A non-empty note reports
// a fallback worth surfacing on the retrieval result; a configured-away
// model (nil llm) is not one.
func (o *QueryOptimizer) Optimize(ctx context.Context, query string) (phrase, note string) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = domain.DefaultQuery
	}

	if o.llm == nil {
		logger.Debug("Optimize: LLM unavailable, using original query")
		return query, ""
	}

	prompt := fmt.Sprintf(o.loadPrompt(), query)

	out, err := o.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   20,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Optimize: model call failed: %v (using original query)", err)
		return query, "query optimization failed, using original query"
	}

	phrase = strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"'`))
	if len(phrase) < minOptimizedLen {
		logger.Warn("Optimize: output %q too short, using original query", phrase)
		return query, "query optimization produced unusable output, using original query"
	}

	logger.Debug("Optimize: %q -> %q", query, phrase)
	return phrase, ""
}

// loadPrompt returns the optimize prompt template, customised or built-in.
func (o *QueryOptimizer) loadPrompt() string {
	if o.promptStore != nil {
		if prompt, err := o.promptStore.Load(driven.PromptOptimize); err == nil && prompt != "" {
			return prompt
		}
	}
	return defaultOptimizePrompt
}
