package driven

// Tokenizer counts text length in model tokens.
// Used to bound assembled context against a model's window.
// This is an optional service - when nil, token bounding is skipped.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) int
}
