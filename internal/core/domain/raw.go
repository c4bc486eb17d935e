package domain

// RawDocument represents opaque bytes read from disk or passed in directly.
// It is the ingestion input before normalisation.
type RawDocument struct {
	// URI is the original location (file path, or "inline" for text
	// submitted without a file).
	URI string

	// FileName is the display name stored with the document.
	FileName string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// ChangeType represents the type of watched-file change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// RawDocumentChange represents a change event from the filesystem watcher.
type RawDocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected document. For deletions only URI and
	// FileName are set.
	Document RawDocument
}
