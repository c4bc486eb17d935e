// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// QuestionChanged is sent when the question input changes.
type QuestionChanged struct {
	Question string
}

// AskRequested is a command to ask a question.
type AskRequested struct {
	Question string
	Options  domain.RetrieveOptions
}

// AskCompleted carries a generated answer back to the model.
type AskCompleted struct {
	Answer *domain.Answer
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewNamespaces is the namespace browser.
	ViewNamespaces
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewDocuments lists documents in a namespace.
	ViewDocuments
	// ViewDocDetails shows a document's catalog entry.
	ViewDocDetails
	// ViewJobs shows ingestion jobs.
	ViewJobs
	// ViewIngest is the ingest document wizard.
	ViewIngest
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewNamespaces:
		return "namespaces"
	case ViewHelp:
		return "help"
	case ViewDocuments:
		return "documents"
	case ViewDocDetails:
		return "doc_details"
	case ViewJobs:
		return "jobs"
	case ViewIngest:
		return "ingest"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// NamespacesLoaded carries the list of namespaces from the catalog.
type NamespacesLoaded struct {
	Namespaces []string
	Err        error
}

// NamespaceSelected signals a namespace was selected for browsing.
type NamespaceSelected struct {
	Namespace string
}

// DocumentsLoaded carries the document catalog of a namespace.
type DocumentsLoaded struct {
	Namespace string
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was selected.
type DocumentSelected struct {
	Document domain.Document
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// JobsLoaded carries the list of ingestion jobs.
type JobsLoaded struct {
	Jobs []domain.IngestJob
	Err  error
}

// JobSubmitted signals an ingest job was enqueued.
type JobSubmitted struct {
	Job *domain.IngestJob
	Err error
}

// JobsPruned signals terminal jobs were pruned.
type JobsPruned struct {
	Removed int
	Err     error
}

// IngestCompleted signals a synchronous ingestion finished.
type IngestCompleted struct {
	Result *domain.IngestResult
	Err    error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
