// Package enricher refines chunks after splitting: it trims chunk text,
// drops chunks left empty, and hard-splits chunks that exceed a maximum
// length. The chunker's target size is soft, so a single run-on sentence can
// produce a chunk far beyond what embedding models accept as input; the
// enricher is the hard cap behind that soft target.
package enricher

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultMaxLength is the default hard cap on chunk length in characters.
const DefaultMaxLength = 4000

// Processor refines chunks produced by earlier pipeline stages.
// It implements the PostProcessor interface.
type Processor struct {
	maxLength int
}

// Option configures the enricher processor.
type Option func(*Processor)

// WithMaxLength sets the hard cap on chunk length in characters.
func WithMaxLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// New creates a new enricher processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxLength: DefaultMaxLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "enricher"
}

// Process trims each chunk's text, drops chunks that end up empty, and
// splits any chunk longer than the configured maximum. Splitting happens at
// word boundaries; a single word longer than the maximum is cut by runes.
func (p *Processor) Process(_ context.Context, _ *domain.Document, _ string, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(chunks))

	for _, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}

		if utf8.RuneCountInString(text) <= p.maxLength {
			chunk.Text = text
			out = append(out, chunk)
			continue
		}

		for _, part := range splitLongText(text, p.maxLength) {
			next := chunk
			next.Text = part
			out = append(out, next)
		}
	}

	return out, nil
}

// splitLongText packs words into pieces of at most maxLen characters.
// Runs of whitespace inside the text collapse to single spaces.
func splitLongText(text string, maxLen int) []string {
	words := strings.Fields(text)
	parts := make([]string, 0, utf8.RuneCountInString(text)/maxLen+1)

	var buf strings.Builder
	bufLen := 0

	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, buf.String())
			buf.Reset()
			bufLen = 0
		}
	}

	for _, word := range words {
		n := utf8.RuneCountInString(word)

		if n > maxLen {
			flush()
			parts = append(parts, cutRunes(word, maxLen)...)
			continue
		}

		if bufLen > 0 && bufLen+1+n > maxLen {
			flush()
		}
		if bufLen > 0 {
			buf.WriteByte(' ')
			bufLen++
		}
		buf.WriteString(word)
		bufLen += n
	}

	flush()
	return parts
}

// cutRunes slices a string into pieces of at most maxLen runes.
func cutRunes(s string, maxLen int) []string {
	runes := []rune(s)
	parts := make([]string, 0, len(runes)/maxLen+1)

	for len(runes) > maxLen {
		parts = append(parts, string(runes[:maxLen]))
		runes = runes[maxLen:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}
