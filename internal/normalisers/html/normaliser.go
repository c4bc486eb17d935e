// Package html normalises HTML documents to readable text.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plaintext fallback
}

// Normalise strips tags and markup scaffolding and decodes entities.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &driven.NormaliseResult{
		Text: stripHTML(string(raw.Content)),
	}, nil
}

// Pre-compiled expressions for HTML stripping.
var (
	scriptTags    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTags     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTags  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTags      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTags       = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockOpeners  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	blockClosers  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	lineBreaks    = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	remainingTags = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// stripHTML removes markup and extracts readable text, one line per block
// element. Scripts, styles, and the document head carry no prose and are
// dropped entirely.
func stripHTML(content string) string {
	content = scriptTags.ReplaceAllString(content, "")
	content = styleTags.ReplaceAllString(content, "")
	content = noscriptTags.ReplaceAllString(content, "")
	content = headTags.ReplaceAllString(content, "")
	content = svgTags.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")

	// Block boundaries become line breaks so sentences from different
	// elements do not run together.
	content = blockOpeners.ReplaceAllString(content, "\n")
	content = blockClosers.ReplaceAllString(content, "\n")
	content = lineBreaks.ReplaceAllString(content, "\n")

	content = remainingTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
