// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Transforms raw documents into plain text
//   - NormaliserRegistry: Selects appropriate normaliser
//   - MetadataStore: Document and namespace metadata persistence
//   - JobStore: Ingest job state persistence
//   - VectorIndex: Chunk embedding storage and similarity search
//   - EmbeddingService: Generates vector embeddings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, keyword/summary
//     extraction yields empty metadata, routing falls back to the first
//     document, and query optimization passes queries through unchanged.
//   - PromptStore: Custom prompt templates. Without it, built-in defaults
//     are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
