package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// DefaultTopK is the per-document match count when the caller sets none.
const DefaultTopK = 5

// AssembleParams describes one context assembly request.
type AssembleParams struct {
	// Namespace scopes the search.
	Namespace string

	// Query is the (already optimized) search phrase.
	Query string

	// Documents are the routed documents in routing order. Names are
	// used for block headers, ChunkCount bounds neighbor lookups.
	Documents []domain.Document

	// TopK is the match count per document. <= 0 uses DefaultTopK.
	TopK int

	// SimilarityFloor drops matches scoring below it. 0 means no floor.
	SimilarityFloor float64

	// MaxContextTokens bounds the rendered context. 0 means unbounded.
	MaxContextTokens int
}

// triad is one match expanded with its neighbors, ready to render.
type triad struct {
	docIndex int // 1-based position of the document in routing order
	hitIndex int // 1-based position of the match within its document
	previous *domain.Chunk
	main     domain.Chunk
	next     *domain.Chunk
}

// docBlock groups the rendered triads of one document.
type docBlock struct {
	doc    domain.Document
	triads []triad
}

// ContextAssembler turns routed documents into a labeled context block:
// per document, the top matches each expanded with the chunk before and
// after it, wrapped in markers the answer model can cite.
type ContextAssembler struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	tokenizer driven.Tokenizer
}

// NewContextAssembler creates a context assembler.
// tokenizer may be nil; token bounding is then skipped.
func NewContextAssembler(embedder driven.EmbeddingService, index driven.VectorIndex, tokenizer driven.Tokenizer) *ContextAssembler {
	return &ContextAssembler{
		embedder:  embedder,
		index:     index,
		tokenizer: tokenizer,
	}
}

// Assemble searches each routed document and renders the labeled context.
// No usable match in any document yields an empty string with a nil error.
// A failed query embedding is the one fatal path; per-document search
// failures only drop that document's block.
func (a *ContextAssembler) Assemble(ctx context.Context, params AssembleParams) (string, error) {
	if len(params.Documents) == 0 {
		return "", nil
	}

	topK := params.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := a.embedder.Embed(ctx, params.Query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	var blocks []docBlock
	for d, doc := range params.Documents {
		hits, err := a.index.Search(ctx, params.Namespace, vector, driven.SearchFilter{
			DocumentIDs: []string{doc.ID},
			Limit:       topK,
			MinScore:    params.SimilarityFloor,
		})
		if err != nil {
			logger.Warn("Assemble: search in %s failed: %v (skipping document)", doc.ID, err)
			continue
		}
		if len(hits) == 0 {
			logger.Debug("Assemble: no matches in %s", doc.ID)
			continue
		}

		block := docBlock{doc: doc}
		for m, hit := range hits {
			t := triad{
				docIndex: d + 1,
				hitIndex: m + 1,
				main:     hit.Chunk,
			}
			t.previous, t.next = a.neighbors(ctx, params.Namespace, &doc, hit.Chunk)
			block.triads = append(block.triads, t)
		}
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return "", nil
	}

	blocks = a.bound(blocks, params.MaxContextTokens)
	return renderBlocks(blocks), nil
}

// neighbors fetches the chunks directly before and after a match.
// Sequence 0 has no previous chunk; the known chunk count caps lookups
// past the end. Lookup failures drop that neighbor only.
func (a *ContextAssembler) neighbors(ctx context.Context, namespace string, doc *domain.Document, main domain.Chunk) (previous, next *domain.Chunk) {
	var wanted []string
	if main.Seq > 0 {
		wanted = append(wanted, domain.ChunkID(main.DocumentID, main.Seq-1))
	}
	if doc.ChunkCount == 0 || main.Seq+1 < doc.ChunkCount {
		wanted = append(wanted, domain.ChunkID(main.DocumentID, main.Seq+1))
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	chunks, err := a.index.Fetch(ctx, namespace, wanted)
	if err != nil {
		logger.Debug("Assemble: neighbor fetch for %s failed: %v", main.ID, err)
		return nil, nil
	}

	for i := range chunks {
		switch chunks[i].Seq {
		case main.Seq - 1:
			previous = &chunks[i]
		case main.Seq + 1:
			next = &chunks[i]
		}
	}
	return previous, next
}

// bound drops whole trailing triads until the rendered context fits the
// token budget. Partial triads are never emitted; a document whose triads
// are all dropped loses its wrapper too.
func (a *ContextAssembler) bound(blocks []docBlock, maxTokens int) []docBlock {
	if maxTokens <= 0 {
		return blocks
	}
	if a.tokenizer == nil {
		logger.Warn("Assemble: token bound requested but no tokenizer available, skipping")
		return blocks
	}

	for a.tokenizer.Count(renderBlocks(blocks)) > maxTokens {
		last := len(blocks) - 1
		if last < 0 {
			break
		}
		if len(blocks[last].triads) <= 1 {
			logger.Debug("Assemble: token bound dropped document block %s", blocks[last].doc.ID)
			blocks = blocks[:last]
			continue
		}
		blocks[last].triads = blocks[last].triads[:len(blocks[last].triads)-1]
		logger.Debug("Assemble: token bound dropped a triad from %s", blocks[last].doc.ID)
	}
	return blocks
}

// renderBlocks produces the final labeled context text.
func renderBlocks(blocks []docBlock) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== INFORMATION FROM DOCUMENT: %s (ID: %s) ===\n", block.doc.Name, block.doc.ID)
		for _, t := range block.triads {
			if t.previous != nil {
				writeSection(&b, t.docIndex, t.hitIndex, "a", "PREVIOUS", t.previous.Text)
			}
			writeSection(&b, t.docIndex, t.hitIndex, "b", "MAIN HIT", t.main.Text)
			if t.next != nil {
				writeSection(&b, t.docIndex, t.hitIndex, "c", "NEXT", t.next.Text)
			}
		}
		fmt.Fprintf(&b, "=== END OF DOCUMENT: %s ===", block.doc.Name)
	}
	return b.String()
}

// writeSection emits one labeled chunk section.
func writeSection(b *strings.Builder, docIndex, hitIndex int, slot, role, text string) {
	fmt.Fprintf(b, "--- DOC%d CHUNK %d%s (%s) START ---\n", docIndex, hitIndex, slot, role)
	b.WriteString(text)
	fmt.Fprintf(b, "\n--- DOC%d CHUNK %d%s (%s) END ---\n", docIndex, hitIndex, slot, role)
}
