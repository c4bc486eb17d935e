// Package markdown normalises Markdown documents to prose text.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plaintext fallback
}

// Normalise strips Markdown syntax and keeps the prose.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &driven.NormaliseResult{
		Text: stripMarkdown(string(raw.Content)),
	}, nil
}

// Pre-compiled expressions for Markdown stripping.
var (
	codeBlocks      = regexp.MustCompile("(?s)```.*?```")
	inlineCode      = regexp.MustCompile("`[^`]+`")
	images          = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	links           = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headings        = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquotes     = regexp.MustCompile(`(?m)^>\s?`)
	horizontalRules = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedLists   = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiNewlines   = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common Markdown formatting. Code blocks and images
// are dropped entirely; links keep their text. Single underscores are left
// alone so identifiers like file_name survive.
func stripMarkdown(content string) string {
	content = codeBlocks.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquotes.ReplaceAllString(content, "")
	content = horizontalRules.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedLists.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
