// Package tokenizer provides model token counting for context bounding.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Tiktoken implements the interface.
var _ driven.Tokenizer = (*Tiktoken)(nil)

// DefaultEncoding covers GPT-4-class models and is a close enough
// approximation for the other providers' context budgets.
const DefaultEncoding = "cl100k_base"

// The offline loader embeds the BPE files so counting never needs
// network access.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Tiktoken counts tokens using the tiktoken BPE encodings.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer for the given encoding name.
// An empty name selects DefaultEncoding.
func New(encodingName string) (*Tiktoken, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load encoding %s: %w", encodingName, err)
	}

	return &Tiktoken{encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}
