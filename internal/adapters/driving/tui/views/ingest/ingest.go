// Package ingest provides the document ingestion wizard view for the TUI.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// WizardStep identifies a step of the ingest wizard.
type WizardStep int

const (
	StepEnterPath WizardStep = iota
	StepEnterNamespace
	StepSubmitting
	StepComplete
)

// View is the document ingestion wizard view. It submits through the job
// service when one is wired so ingestion runs in the background; without
// one it falls back to the synchronous ingest service.
type View struct {
	styles        *styles.Styles
	jobService    driving.JobService
	ingestService driving.IngestService

	// Wizard state
	step           WizardStep
	pathInput      textinput.Model
	namespaceInput textinput.Model

	// Result
	job    *domain.IngestJob
	result *domain.IngestResult
	err    error

	width  int
	height int
	ready  bool
}

// NewView creates a new ingest wizard view.
func NewView(
	s *styles.Styles,
	jobService driving.JobService,
	ingestService driving.IngestService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	pathInput := textinput.New()
	pathInput.Placeholder = "Path to document (e.g. ./docs/guide.md)"
	pathInput.CharLimit = 512
	pathInput.Width = 50

	namespaceInput := textinput.New()
	namespaceInput.Placeholder = domain.DefaultNamespace
	namespaceInput.CharLimit = 128
	namespaceInput.Width = 50

	return &View{
		styles:         s,
		jobService:     jobService,
		ingestService:  ingestService,
		step:           StepEnterPath,
		pathInput:      pathInput,
		namespaceInput: namespaceInput,
	}
}

// Init initialises the view and focuses the path input.
func (v *View) Init() tea.Cmd {
	v.pathInput.Focus()
	return textinput.Blink
}

// Update handles messages for the ingest view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.JobSubmitted:
		if msg.Err != nil {
			v.err = msg.Err
			v.step = StepEnterPath
			v.pathInput.Focus()
			return v, nil
		}
		v.job = msg.Job
		v.err = nil
		v.step = StepComplete
		return v, nil

	case messages.IngestCompleted:
		if msg.Err != nil {
			v.err = msg.Err
			v.step = StepEnterPath
			v.pathInput.Focus()
			return v, nil
		}
		v.result = msg.Result
		v.err = nil
		v.step = StepComplete
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		if v.step == StepSubmitting {
			v.step = StepEnterPath
			v.pathInput.Focus()
		}
		return v, nil
	}

	// Forward other messages (cursor blink) to the focused input
	return v.updateInputs(msg)
}

// handleKeyMsg handles key presses per wizard step.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.step {
	case StepEnterPath:
		return v.handlePathInput(msg)
	case StepEnterNamespace:
		return v.handleNamespaceInput(msg)
	case StepSubmitting:
		if msg.Type == tea.KeyEsc {
			// The submission keeps running; only the wizard resets
			v.Reset()
			return v, v.Init()
		}
		return v, nil
	case StepComplete:
		switch msg.String() {
		case "enter":
			// Start another ingest
			v.Reset()
			return v, v.Init()
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewJobs}
			}
		}
		return v, nil
	}

	return v, nil
}

// handlePathInput handles keys while entering the document path.
func (v *View) handlePathInput(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyEnter:
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			v.err = fmt.Errorf("document path is required")
			return v, nil
		}
		v.err = nil
		v.step = StepEnterNamespace
		v.pathInput.Blur()
		v.namespaceInput.Focus()
		return v, textinput.Blink
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

// handleNamespaceInput handles keys while entering the namespace.
func (v *View) handleNamespaceInput(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Back to the path step
		v.step = StepEnterPath
		v.namespaceInput.Blur()
		v.pathInput.Focus()
		return v, textinput.Blink
	case tea.KeyEnter:
		v.err = nil
		v.step = StepSubmitting
		v.namespaceInput.Blur()
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.namespaceInput, cmd = v.namespaceInput.Update(msg)
	return v, cmd
}

// updateInputs forwards a message to whichever input is focused.
func (v *View) updateInputs(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	switch v.step {
	case StepEnterPath:
		v.pathInput, cmd = v.pathInput.Update(msg)
	case StepEnterNamespace:
		v.namespaceInput, cmd = v.namespaceInput.Update(msg)
	}
	return v, cmd
}

// submit builds the ingest request and hands it to the job service, or
// runs it synchronously when no job service is wired.
func (v *View) submit() tea.Cmd {
	path := strings.TrimSpace(v.pathInput.Value())
	namespace := strings.TrimSpace(v.namespaceInput.Value())
	req := driving.IngestRequest{
		Namespace: namespace,
		FileName:  filepath.Base(path),
		Path:      path,
	}

	return func() tea.Msg {
		if v.jobService != nil {
			job, err := v.jobService.Submit(context.Background(), req)
			return messages.JobSubmitted{Job: job, Err: err}
		}

		if v.ingestService != nil {
			result, err := v.ingestService.Ingest(context.Background(), req, nil)
			return messages.IngestCompleted{Result: result, Err: err}
		}

		return messages.ErrorOccurred{Err: fmt.Errorf("ingest service not available")}
	}
}

// View renders the ingest view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ingest Document"))
	b.WriteString("\n\n")

	// Progress indicator
	b.WriteString(v.renderProgress())
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Step content
	switch v.step {
	case StepEnterPath:
		b.WriteString(v.renderPathInput())
	case StepEnterNamespace:
		b.WriteString(v.renderNamespaceInput())
	case StepSubmitting:
		b.WriteString(v.styles.Muted.Render("Submitting..."))
	case StepComplete:
		b.WriteString(v.renderComplete())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderProgress renders the wizard step indicator.
func (v *View) renderProgress() string {
	stepNames := []string{"Document", "Namespace", "Done"}
	currentIdx := 0
	switch v.step {
	case StepEnterPath:
		currentIdx = 0
	case StepEnterNamespace, StepSubmitting:
		currentIdx = 1
	case StepComplete:
		currentIdx = 2
	}

	progress := ""
	for i, name := range stepNames {
		if i > 0 {
			progress += " > "
		}
		switch {
		case i == currentIdx:
			progress += v.styles.Selected.Render(name)
		case i < currentIdx:
			progress += v.styles.Success.Render(name)
		default:
			progress += v.styles.Muted.Render(name)
		}
	}
	return progress
}

// renderPathInput renders the path entry step.
func (v *View) renderPathInput() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Which document should be ingested?"))
	b.WriteString("\n\n")
	b.WriteString(v.pathInput.View())
	b.WriteString("\n")
	return b.String()
}

// renderNamespaceInput renders the namespace entry step.
func (v *View) renderNamespaceInput() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Which namespace should it go into?"))
	b.WriteString("\n\n")
	b.WriteString(v.namespaceInput.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Leave empty for the default namespace."))
	b.WriteString("\n")
	return b.String()
}

// renderComplete renders the final step.
func (v *View) renderComplete() string {
	var b strings.Builder

	if v.job != nil {
		b.WriteString(v.styles.Subtitle.Render("Job Submitted"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Job ID:    %s\n", v.job.ID))
		b.WriteString(fmt.Sprintf("Document:  %s\n", v.job.DocumentID))
		b.WriteString(fmt.Sprintf("Namespace: %s\n", v.job.Namespace))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Track progress in the Jobs view."))
		b.WriteString("\n")
		return b.String()
	}

	if v.result != nil {
		b.WriteString(v.styles.Subtitle.Render("Document Ingested"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Document:  %s\n", v.result.DocumentID))
		b.WriteString(fmt.Sprintf("Namespace: %s\n", v.result.Namespace))
		b.WriteString(fmt.Sprintf("Chunks:    %d\n", v.result.ChunkCount))
		return b.String()
	}

	return v.styles.Muted.Render("Nothing submitted yet.")
}

// renderHelp renders the help footer for the current step.
func (v *View) renderHelp() string {
	switch v.step {
	case StepEnterPath:
		return v.styles.Help.Render("[enter] continue  [esc] cancel")
	case StepEnterNamespace:
		return v.styles.Help.Render("[enter] submit  [esc] back")
	case StepSubmitting:
		return v.styles.Help.Render("[esc] reset")
	case StepComplete:
		return v.styles.Help.Render("[enter] ingest another  [esc] view jobs")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Step returns the current wizard step.
func (v *View) Step() WizardStep {
	return v.step
}

// Job returns the submitted job, if any.
func (v *View) Job() *domain.IngestJob {
	return v.job
}

// Result returns the synchronous ingest result, if any.
func (v *View) Result() *domain.IngestResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the wizard to its initial state.
func (v *View) Reset() {
	v.step = StepEnterPath
	v.pathInput.SetValue("")
	v.namespaceInput.SetValue("")
	v.namespaceInput.Blur()
	v.job = nil
	v.result = nil
	v.err = nil
}
