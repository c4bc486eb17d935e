// Package chunker splits document text into sentence-aligned chunks.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultTargetSize is the default chunk size in characters.
const DefaultTargetSize = 1000

// Processor splits document text into sentence-aligned chunks.
// It implements the PostProcessor interface.
type Processor struct {
	targetSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetSize sets the target chunk size in characters.
func WithTargetSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.targetSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		targetSize: DefaultTargetSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the text into chunks.
// Input chunks are ignored; this processor creates new chunks from the text.
func (p *Processor) Process(_ context.Context, _ *domain.Document, text string, _ []domain.Chunk) ([]domain.Chunk, error) {
	parts := Split(text, p.targetSize)
	if len(parts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{Text: part}
	}
	return chunks, nil
}

// Split divides text into sentence-aligned chunks of roughly targetSize
// characters (runes, not bytes). A period followed by a space is the sentence
// terminator. That is an approximation, not grammar-aware, and it stays that
// way on purpose: chunk ids derive from chunk order, so the splitter must be
// deterministic and reproducible across ingestions.
//
// Sentences accumulate into a buffer; once appending the next sentence would
// make the buffer reach or exceed targetSize, the buffer is sealed with its
// terminating period restored and a new buffer starts with that sentence.
// The last non-empty buffer is always emitted. A single sentence longer than
// targetSize is emitted whole, so targetSize is a soft target, not a hard
// cap. Empty or whitespace-only input yields no chunks. Joining the chunks
// with single spaces reconstructs the input, minus outer whitespace.
func Split(text string, targetSize int) []string {
	if targetSize <= 0 {
		targetSize = DefaultTargetSize
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := strings.Split(text, ". ")
	chunks := make([]string, 0, len(text)/targetSize+1)

	buf := sentences[0]
	bufLen := utf8.RuneCountInString(buf)

	for _, sentence := range sentences[1:] {
		n := utf8.RuneCountInString(sentence)

		// Joining adds the ". " the split consumed, hence the +2.
		if bufLen+n+2 >= targetSize {
			chunks = append(chunks, buf+".")
			buf = sentence
			bufLen = n
			continue
		}

		buf += ". " + sentence
		bufLen += n + 2
	}

	if buf != "" {
		chunks = append(chunks, buf)
	}

	return chunks
}
