package domain

// NoDocumentFound is the routing sentinel: the query needs no new document
// context, typically because the conversation history already answers it.
const NoDocumentFound = "no_document_found"

// DefaultQuery replaces an empty or whitespace-only user query.
const DefaultQuery = "What information is available?"

// MaxRoutedDocuments caps the multi-document routing variant to bound
// downstream retrieval fan-out.
const MaxRoutedDocuments = 3

// RouteDecision is the document router's outcome.
type RouteDecision struct {
	// DocumentIDs are the selected documents in routing order.
	// Empty means the no-document sentinel.
	DocumentIDs []string

	// Fallback is true when the decision came from the deterministic
	// first-document fallback rather than the model.
	Fallback bool
}

// NoDocument reports whether routing selected nothing.
func (r RouteDecision) NoDocument() bool {
	return len(r.DocumentIDs) == 0
}

// RetrieveOptions tunes the query path. Zero values fall back to the
// configured retrieval settings.
type RetrieveOptions struct {
	// TopK is the number of nearest-neighbor matches per document.
	TopK int

	// MaxDocuments enables multi-document routing when > 1 (capped at
	// MaxRoutedDocuments).
	MaxDocuments int

	// SimilarityFloor drops matches scoring below it. 0 means no floor.
	SimilarityFloor float64

	// HistoryTurns is how many recent turns routing and generation see.
	HistoryTurns int

	// MaxContextTokens bounds the rendered context. 0 means unbounded.
	MaxContextTokens int
}

// RetrievalResult is the typed outcome of the one-call retrieval operation
// (route, optimize, assemble). A degraded result is still usable; fatal
// failures are ordinary Go errors instead.
type RetrievalResult struct {
	// Context is the rendered, labeled context block. Empty is a valid
	// outcome, meaning no relevant passage was found.
	Context string

	// Catalog is the namespace's document catalog at query time.
	Catalog []Document

	// SelectedIDs are the routed document ids in routing order.
	// Empty when routing returned the no-document sentinel.
	SelectedIDs []string

	// OptimizedQuery is the phrase actually used for vector search.
	OptimizedQuery string

	// Degraded is true when some stage fell back to its documented
	// default; Notes records which.
	Degraded bool

	// Notes are human-readable degradation notes, in order of occurrence.
	Notes []string
}

// Degrade marks the result degraded and records why.
func (r *RetrievalResult) Degrade(note string) {
	r.Degraded = true
	r.Notes = append(r.Notes, note)
}

// Answer is a generated reply over a retrieval result.
type Answer struct {
	// Text is the generated answer. Empty when generation degraded.
	Text string

	// Retrieval is the underlying retrieval outcome.
	Retrieval *RetrievalResult

	// Degraded is true when retrieval degraded or generation fell back.
	Degraded bool

	// Notes are degradation notes beyond the retrieval's own.
	Notes []string
}

// Degrade marks the answer degraded and records why.
func (a *Answer) Degrade(note string) {
	a.Degraded = true
	a.Notes = append(a.Notes, note)
}
