// Package answer provides the answer display component for the TUI.
package answer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Pane displays a generated answer with its sources in a scrollable area.
type Pane struct {
	answer *domain.Answer
	offset int
	styles *styles.Styles
	width  int
	height int
}

// NewPane creates a new answer pane component.
func NewPane(s *styles.Styles) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Pane{
		answer: nil,
		offset: 0,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the answer pane.
func (p *Pane) Init() tea.Cmd {
	return nil
}

// Update handles scroll navigation messages.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			p.ScrollUp()
		case tea.KeyDown:
			p.ScrollDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			p.ScrollUp()
		case "j":
			p.ScrollDown()
		}
	}
	return p, nil
}

// View renders the answer pane.
func (p *Pane) View() string {
	if p.answer == nil {
		return p.styles.Muted.Render("Ask something to get started.")
	}

	lines := p.buildLines()
	visible := p.visibleLines()

	start := p.offset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, visible+2)
	out = append(out, lines[start:end]...)

	if len(lines) > visible {
		out = append(out, "", p.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			start+1, end, len(lines))))
	}

	return strings.Join(out, "\n")
}

// buildLines renders the answer into styled display lines.
func (p *Pane) buildLines() []string {
	lines := make([]string, 0, 16)

	text := p.answer.Text
	if text == "" {
		text = "No answer could be generated."
	}
	for _, line := range wrapText(text, p.contentWidth()) {
		lines = append(lines, p.styles.Normal.Render(line))
	}

	if p.answer.Retrieval != nil && len(p.answer.Retrieval.SelectedIDs) > 0 {
		sources := strings.Join(p.answer.Retrieval.SelectedIDs, ", ")
		lines = append(lines, "", p.styles.Subtitle.Render("Sources: ")+p.styles.Muted.Render(sources))
	}

	notes := p.collectNotes()
	if len(notes) > 0 {
		lines = append(lines, "")
		for _, note := range notes {
			lines = append(lines, p.styles.Warning.Render("Note: "+note))
		}
	}

	return lines
}

// collectNotes merges retrieval and generation degradation notes in order.
func (p *Pane) collectNotes() []string {
	var notes []string
	if p.answer.Retrieval != nil {
		notes = append(notes, p.answer.Retrieval.Notes...)
	}
	notes = append(notes, p.answer.Notes...)
	return notes
}

// contentWidth returns the usable text width.
func (p *Pane) contentWidth() int {
	w := p.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// visibleLines returns how many lines fit in the pane.
func (p *Pane) visibleLines() int {
	v := p.height - 2
	if v < 1 {
		v = 1
	}
	return v
}

// maxOffset returns the largest valid scroll offset.
func (p *Pane) maxOffset() int {
	if p.answer == nil {
		return 0
	}
	m := len(p.buildLines()) - p.visibleLines()
	if m < 0 {
		m = 0
	}
	return m
}

// SetAnswer updates the displayed answer and resets scrolling.
func (p *Pane) SetAnswer(a *domain.Answer) {
	p.answer = a
	p.offset = 0
}

// Answer returns the current answer.
func (p *Pane) Answer() *domain.Answer {
	return p.answer
}

// SourceCount returns how many documents the answer was grounded on.
func (p *Pane) SourceCount() int {
	if p.answer == nil || p.answer.Retrieval == nil {
		return 0
	}
	return len(p.answer.Retrieval.SelectedIDs)
}

// ScrollUp scrolls the pane up one line.
func (p *Pane) ScrollUp() {
	if p.offset > 0 {
		p.offset--
	}
}

// ScrollDown scrolls the pane down one line.
func (p *Pane) ScrollDown() {
	if p.offset < p.maxOffset() {
		p.offset++
	}
}

// SetDimensions sets the component dimensions.
func (p *Pane) SetDimensions(width, height int) {
	p.width = width
	p.height = height
	if p.offset > p.maxOffset() {
		p.offset = p.maxOffset()
	}
}

// Width returns the current width.
func (p *Pane) Width() int {
	return p.width
}

// Height returns the current height.
func (p *Pane) Height() int {
	return p.height
}

// IsEmpty returns whether the pane has an answer to show.
func (p *Pane) IsEmpty() bool {
	return p.answer == nil
}

// Clear removes the current answer.
func (p *Pane) Clear() {
	p.answer = nil
	p.offset = 0
}

// wrapText greedily wraps text to the given width, preserving paragraph
// breaks. Words longer than the width are kept on their own line.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				lines = append(lines, current)
				current = word
				continue
			}
			current += " " + word
		}
		lines = append(lines, current)
	}
	return lines
}
