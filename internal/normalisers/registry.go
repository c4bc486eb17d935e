// Package normalisers provides implementations of the Normaliser interface
// for various document formats, and the registry that selects between them.
// Each normaliser knows how to extract text content from a specific MIME
// type; the registry dispatches by type and priority.
package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/docx"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/html"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// fallbackPriorityCeiling separates fallback normalisers (below) from
// format-specific ones (above).
const fallbackPriorityCeiling = 10

// Registry selects the appropriate normaliser for a document by MIME type,
// preferring higher priority. Register everything at startup; Normalise is
// safe for concurrent use afterwards.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with all built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.normalisers = append(r.normalisers, normaliser)
}

// Normalise transforms a raw document using the best matching normaliser.
// Unknown MIME types fall back to the plain text path when the content is
// valid UTF-8; binary content of an unknown type is rejected.
// The returned text has all whitespace runs flattened to single spaces, so
// the chunker downstream sees one continuous run of sentences.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	normaliser := r.forMIMEType(raw.MIMEType)
	if normaliser == nil && utf8.Valid(raw.Content) {
		normaliser = r.fallback()
	}
	if normaliser == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, raw.MIMEType)
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	result.Text = flattenWhitespace(result.Text)
	return result, nil
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]struct{})
	for _, n := range r.normalisers {
		for _, mimeType := range n.SupportedMIMETypes() {
			seen[mimeType] = struct{}{}
		}
	}

	types := make([]string, 0, len(seen))
	for mimeType := range seen {
		types = append(types, mimeType)
	}
	sort.Strings(types)
	return types
}

// forMIMEType returns the highest-priority normaliser for the type, or nil.
func (r *Registry) forMIMEType(mimeType string) driven.Normaliser {
	// Parameters like "; charset=utf-8" do not affect dispatch.
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	var best driven.Normaliser
	for _, n := range r.normalisers {
		if !supports(n, mimeType) {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	return best
}

// fallback returns the best normaliser in the fallback priority band, or nil.
func (r *Registry) fallback() driven.Normaliser {
	var best driven.Normaliser
	for _, n := range r.normalisers {
		if n.Priority() >= fallbackPriorityCeiling {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	return best
}

func supports(n driven.Normaliser, mimeType string) bool {
	for _, supported := range n.SupportedMIMETypes() {
		if supported == mimeType {
			return true
		}
	}
	return false
}

// flattenWhitespace collapses every whitespace run (including line breaks)
// to a single space.
func flattenWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
