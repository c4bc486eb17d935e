// Package domain defines the core business entities for Askdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a document's catalog record within a namespace
//   - Chunk: a sentence-aligned slice of a document, independently embedded
//   - IngestJob: an asynchronous ingestion job and its state machine
//   - Session: one conversation's append-only turn sequence
//   - RetrievalResult / Answer: typed query-path outcomes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
