// Package ask provides the question-answering view for the TUI.
package ask

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/components/answer"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// View represents the ask view with question input, answer pane, and
// status bar. Questions asked in sequence share one session, so follow-up
// questions see the conversation history.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	pane      *answer.Pane
	statusbar *status.Bar

	answerService driving.AnswerService
	session       *domain.Session
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = answer mode (scrolling)
}

// NewView creates a new ask view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		pane:          answer.NewPane(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		session:       domain.NewSession("", ""),
		ctx:           context.Background(),
		width:         80,
		height:        24,
		ready:         false,
		focusInput:    true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetNamespace switches the conversation to another namespace.
// Switching namespaces starts a fresh session; setting the same
// namespace again keeps the conversation.
func (v *View) SetNamespace(namespace string) {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	if v.session != nil && v.session.Namespace == namespace {
		return
	}
	v.session = domain.NewSession("", namespace)
	v.pane.Clear()
}

// Namespace returns the namespace questions are asked against.
func (v *View) Namespace() string {
	return v.session.Namespace
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Enter in input mode submits the question
	if msg.Type == tea.KeyEnter && v.focusInput {
		question := v.input.Value()
		if question == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateAsking)
		v.focusInput = false // Move to answer mode while waiting
		v.input.Blur()
		cmd := v.performAsk(question)
		return v, cmd
	}

	// Input mode: all keys go to input
	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	// Answer mode: scroll and follow-up handling
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.pane.ScrollUp()
		return v, nil
	case tea.KeyDown:
		v.pane.ScrollDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.pane.ScrollUp()
		return v, nil
	case "j":
		v.pane.ScrollDown()
		return v, nil
	case "n":
		// Follow-up question in the same conversation
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
		return v, nil
	}

	return v, nil
}

// performAsk asks the question and returns the generated answer.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if v.answerService == nil {
			return messages.ErrorOccurred{Err: ErrNoAnswerService}
		}

		ans, err := v.answerService.Ask(v.ctx, v.session, question, domain.RetrieveOptions{})
		if err != nil {
			return messages.AskCompleted{Answer: nil, Err: err}
		}
		return messages.AskCompleted{Answer: ans, Err: nil}
	}
}

// handleAskCompleted processes a finished ask call.
func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		// Back to the input so the question can be retried
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.pane.SetAnswer(msg.Answer)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetSourceCount(v.pane.SourceCount())
	v.statusbar.SetMessage("")

	// Stay in answer mode for scrolling
	v.focusInput = false
	v.input.Blur()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	// Header
	header := v.styles.Title.Render("Askdoc")
	sections = append(sections, header)

	// Namespace line
	namespace := v.styles.Muted.Render("Namespace: " + v.session.Namespace)
	sections = append(sections, namespace, "")

	// Question input
	inputView := v.input.View()
	sections = append(sections, inputView, "")

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Answer pane
	paneView := v.pane.View()
	sections = append(sections, paneView)

	// Status bar at bottom
	sections = append(sections, "")
	statusView := v.statusbar.View()
	sections = append(sections, statusView)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.input.SetWidth(width)
	v.pane.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current question input value.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the question input value.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// Answer returns the currently displayed answer.
func (v *View) Answer() *domain.Answer {
	return v.pane.Answer()
}

// Session returns the conversation session.
func (v *View) Session() *domain.Session {
	return v.session
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset starts a new conversation in the same namespace.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.pane.Clear()
	v.session = domain.NewSession("", v.session.Namespace)
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
