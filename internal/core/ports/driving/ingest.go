package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// ProgressFunc receives ingest progress updates. percent is 0-100 and never
// decreases within one ingest; label names the current step.
type ProgressFunc func(percent int, label string)

// IngestRequest describes one document to ingest.
type IngestRequest struct {
	// Namespace scopes the document. Empty falls back to the default
	// namespace.
	Namespace string

	// DocumentID identifies the document. Re-using an ID replaces the
	// previous upload.
	DocumentID string

	// FileName is the display name stored with the document.
	FileName string

	// Path reads the content from disk when set.
	Path string

	// Content is inline content, used when Path is empty.
	Content []byte

	// MIMEType overrides content-type detection when set.
	MIMEType string

	// AdditionalInfo is caller-supplied routing context stored verbatim
	// on the catalog entry.
	AdditionalInfo string
}

// IngestService runs the document ingestion pipeline: read, normalise,
// extract metadata, chunk, embed, index, and update the catalog.
type IngestService interface {
	// Ingest runs the full pipeline synchronously. progress may be nil.
	// The returned result reflects what was indexed; a failure mid-way
	// leaves no partial rollback, only the error's stage in its message.
	Ingest(ctx context.Context, req IngestRequest, progress ProgressFunc) (*domain.IngestResult, error)
}
