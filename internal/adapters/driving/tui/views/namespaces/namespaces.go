// Package namespaces provides the namespace browser view for the TUI.
package namespaces

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// View is the namespace browser view.
type View struct {
	styles         *styles.Styles
	catalogService driving.CatalogService

	namespaces []string
	docCounts  map[string]int // namespace -> document count
	selected   int
	width      int
	height     int
	ready      bool
	err        error
	loading    bool
}

// NewView creates a new namespaces view.
func NewView(s *styles.Styles, catalogService driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:         s,
		catalogService: catalogService,
		namespaces:     []string{},
		docCounts:      make(map[string]int),
	}
}

// Init initialises the view and loads namespaces.
func (v *View) Init() tea.Cmd {
	return v.loadNamespaces()
}

// namespacesLoadedMsg extends messages.NamespacesLoaded with document counts.
type namespacesLoadedMsg struct {
	messages.NamespacesLoaded
	DocCounts map[string]int
}

// loadNamespaces returns a command that loads namespaces from the service.
func (v *View) loadNamespaces() tea.Cmd {
	return func() tea.Msg {
		if v.catalogService == nil {
			return namespacesLoadedMsg{
				NamespacesLoaded: messages.NamespacesLoaded{Err: fmt.Errorf("catalog service not available")},
				DocCounts:        nil,
			}
		}

		ctx := context.Background()
		namespaces, err := v.catalogService.ListNamespaces(ctx)
		if err != nil {
			return namespacesLoadedMsg{
				NamespacesLoaded: messages.NamespacesLoaded{Err: err},
				DocCounts:        nil,
			}
		}

		// Fetch document counts per namespace
		counts := v.fetchDocCounts(ctx, namespaces)

		return namespacesLoadedMsg{
			NamespacesLoaded: messages.NamespacesLoaded{Namespaces: namespaces, Err: nil},
			DocCounts:        counts,
		}
	}
}

// fetchDocCounts retrieves the document count for each namespace.
func (v *View) fetchDocCounts(ctx context.Context, namespaces []string) map[string]int {
	counts := make(map[string]int)
	for _, ns := range namespaces {
		docs, err := v.catalogService.ListDocuments(ctx, ns)
		if err != nil {
			continue
		}
		counts[ns] = len(docs)
	}
	return counts
}

// Update handles messages for the namespaces view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case namespacesLoadedMsg:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.namespaces = msg.Namespaces
			v.docCounts = msg.DocCounts
			v.err = nil
			if v.selected >= len(v.namespaces) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.NamespacesLoaded:
		// Also handle the base type for callers that dispatch it directly
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.namespaces = msg.Namespaces
			v.err = nil
		}
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
		}
	case "down", "j":
		if v.selected < len(v.namespaces)-1 {
			v.selected++
		}
	case "enter":
		// Navigate to the document list for the namespace
		if len(v.namespaces) > 0 && v.selected < len(v.namespaces) {
			namespace := v.namespaces[v.selected]
			return v, func() tea.Msg {
				return messages.NamespaceSelected{Namespace: namespace}
			}
		}
	case "a":
		// Ingest a new document
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewIngest}
		}
	case "r":
		// Reload namespaces
		v.loading = true
		cmd := v.loadNamespaces()
		return v, cmd
	}

	return v, nil
}

// View renders the namespaces view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render("Namespaces"))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading namespaces..."))
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
	if len(v.namespaces) == 0 {
		b.WriteString(v.styles.Muted.Render("No namespaces yet. Ingest a document to create one."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Namespace list
	for i, ns := range v.namespaces {
		line := v.renderNamespace(i, ns)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderNamespace renders a single namespace line.
func (v *View) renderNamespace(index int, namespace string) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	countStr := ""
	if count, ok := v.docCounts[namespace]; ok {
		countStr = fmt.Sprintf(" (%d docs)", count)
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s%s", indicator, namespace, countStr))
	}
	return v.styles.Normal.Render(indicator+namespace) + v.styles.Muted.Render(countStr)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] documents  [a] ingest  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Namespaces returns the current list of namespaces.
func (v *View) Namespaces() []string {
	return v.namespaces
}

// SelectedIndex returns the currently selected namespace index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedNamespace returns the currently selected namespace, if any.
func (v *View) SelectedNamespace() string {
	if len(v.namespaces) == 0 || v.selected >= len(v.namespaces) {
		return ""
	}
	return v.namespaces[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
