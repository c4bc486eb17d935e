package mcp

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions over ingested documents.
	Answer driving.AnswerService

	// Catalog exposes documents and namespaces.
	Catalog driving.CatalogService

	// Jobs submits and inspects ingestion jobs.
	Jobs driving.JobService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Catalog and Jobs are optional; tools that need them error per call
	return nil
}
