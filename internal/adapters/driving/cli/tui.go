package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	AnswerService   driving.AnswerService
	CatalogService  driving.CatalogService
	IngestService   driving.IngestService
	JobService      driving.JobService
	SettingsService driving.SettingsService
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Askdoc.

The TUI provides a visual interface for asking questions, browsing
documents and namespaces, and following ingestion jobs.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Ask / Select
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// The TUI is long-running; jobs submitted from it need the workers.
	startJobRunner(cmd)

	// Build ports from configuration
	ports := &tui.Ports{}

	if tuiConfig != nil {
		ports.Answer = tuiConfig.AnswerService
		ports.Catalog = tuiConfig.CatalogService
		ports.Ingest = tuiConfig.IngestService
		ports.Jobs = tuiConfig.JobService
		ports.Settings = tuiConfig.SettingsService
	} else {
		ports.Answer = answerService
		ports.Catalog = catalogService
		ports.Ingest = ingestService
		ports.Jobs = jobService
		ports.Settings = settingsService
	}

	// Create the TUI app
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context())

	// Create and run the bubbletea program
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
