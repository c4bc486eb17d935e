// Package tui provides an interactive terminal user interface for askdoc.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions over the ingested documents.
	Answer driving.AnswerService

	// Catalog manages documents and namespaces.
	Catalog driving.CatalogService

	// Ingest runs the synchronous ingestion pipeline.
	Ingest driving.IngestService

	// Jobs manages asynchronous ingest jobs.
	Jobs driving.JobService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	answer driving.AnswerService,
	catalog driving.CatalogService,
	jobs driving.JobService,
) *Ports {
	return &Ports{
		Answer:  answer,
		Catalog: catalog,
		Jobs:    jobs,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
