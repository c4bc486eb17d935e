// Package jobs provides the ingestion jobs view for the TUI.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// pollInterval is how often the job list refreshes while the view is shown.
const pollInterval = 2 * time.Second

// listLimit caps how many recent jobs the view requests.
const listLimit = 50

// View is the ingestion jobs view. It polls the job service while visible
// so running jobs show live progress.
type View struct {
	styles     *styles.Styles
	jobService driving.JobService

	jobs         []domain.IngestJob
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// tickMsg triggers a refresh of the job list. It is private so ticks from
// a previous visit are dropped once the app routes messages elsewhere.
type tickMsg struct{}

// NewView creates a new jobs view.
func NewView(s *styles.Styles, jobService driving.JobService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:     s,
		jobService: jobService,
		jobs:       []domain.IngestJob{},
	}
}

// Init initialises the view, loads jobs, and starts polling.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.loadJobs(), v.tick())
}

// tick schedules the next refresh.
func (v *View) tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadJobs returns a command that loads recent jobs from the service.
func (v *View) loadJobs() tea.Cmd {
	return func() tea.Msg {
		if v.jobService == nil {
			return messages.JobsLoaded{Err: fmt.Errorf("job service not available")}
		}

		jobs, err := v.jobService.List(context.Background(), "", listLimit)
		return messages.JobsLoaded{Jobs: jobs, Err: err}
	}
}

// pruneJobs returns a command that removes old finished jobs.
func (v *View) pruneJobs() tea.Cmd {
	return func() tea.Msg {
		if v.jobService == nil {
			return messages.JobsPruned{Err: fmt.Errorf("job service not available")}
		}

		removed, err := v.jobService.Prune(context.Background())
		return messages.JobsPruned{Removed: removed, Err: err}
	}
}

// Update handles messages for the jobs view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tickMsg:
		return v, tea.Batch(v.loadJobs(), v.tick())

	case messages.JobsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.jobs = msg.Jobs
			v.err = nil
			if v.selected >= len(v.jobs) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.JobsPruned:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Reload to reflect the pruned list
		return v, v.loadJobs()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.jobs)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "r":
		// Reload jobs
		v.loading = true
		return v, v.loadJobs()
	case "p":
		// Prune finished jobs
		return v, v.pruneJobs()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the jobs view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	active := v.activeCount()
	title := fmt.Sprintf("Ingestion Jobs (%d, %d running)", len(v.jobs), active)
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading jobs..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Empty state
	if len(v.jobs) == 0 {
		b.WriteString(v.styles.Muted.Render("No jobs yet."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Jobs list
	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.jobs) && i < v.scrollOffset+visibleItems; i++ {
		line := v.renderJob(i, &v.jobs[i])
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(v.jobs) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.jobs)),
			len(v.jobs))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// activeCount returns the number of jobs still in flight.
func (v *View) activeCount() int {
	count := 0
	for i := range v.jobs {
		if !v.jobs[i].State.Terminal() {
			count++
		}
	}
	return count
}

// renderJob renders a single job line.
func (v *View) renderJob(index int, job *domain.IngestJob) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := job.FileName
	if name == "" {
		name = job.DocumentID
	}

	// Truncate name if needed
	maxNameLen := v.width/2 - 4
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	status := v.renderStatus(job)
	prefix := fmt.Sprintf("%s[%s] %-*s  ", indicator, job.Namespace, maxNameLen, name)

	if index == v.selected {
		return v.styles.Selected.Render(prefix) + status
	}
	return v.styles.Normal.Render(prefix) + status
}

// renderStatus renders the state portion of a job line.
func (v *View) renderStatus(job *domain.IngestJob) string {
	switch job.State {
	case domain.JobStatePending:
		return v.styles.Muted.Render("pending")
	case domain.JobStateStarted:
		return v.styles.Warning.Render("starting")
	case domain.JobStateProcessing:
		label := job.StepLabel
		if label == "" {
			label = "processing"
		}
		return v.styles.Warning.Render(fmt.Sprintf("%3d%% %s", job.Progress, label))
	case domain.JobStateSuccess:
		chunks := ""
		if job.Result != nil {
			chunks = fmt.Sprintf(" (%d chunks)", job.Result.ChunkCount)
		}
		return v.styles.Success.Render("done" + chunks)
	case domain.JobStateFailure:
		msg := "failed"
		if job.Error != nil {
			msg = fmt.Sprintf("failed [%s] %s", job.Error.Kind, job.Error.Message)
		}
		return v.styles.Error.Render(msg)
	default:
		return v.styles.Muted.Render(string(job.State))
	}
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [r] reload  [p] prune finished  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Jobs returns the current list of jobs.
func (v *View) Jobs() []domain.IngestJob {
	return v.jobs
}

// SelectedIndex returns the currently selected job index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
