package domain

import "errors"

// Sentinel errors shared across the core. Adapters translate their native
// failures into these so services can branch with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness conflict on create.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the caller supplied an unusable argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates extraction produced no usable text.
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrNoChunks indicates chunking produced nothing to index.
	ErrNoChunks = errors.New("no chunks produced")

	// ErrLLMUnavailable indicates the language model backend cannot be
	// reached or is not configured.
	ErrLLMUnavailable = errors.New("llm unavailable")

	// ErrEmbeddingUnavailable indicates the embedding backend cannot be
	// reached or is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrIndexUnavailable indicates the vector index cannot be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrJobQueueFull indicates the ingest queue rejected a submission.
	ErrJobQueueFull = errors.New("job queue full")

	// ErrJobNotTerminal indicates an operation that requires a finished
	// job was given a live one.
	ErrJobNotTerminal = errors.New("job not terminal")

	// ErrUnsupportedFormat indicates no normaliser accepts the file type.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotConfigured indicates a required setting is missing.
	ErrNotConfigured = errors.New("not configured")
)
