// Package chat provides the question-and-answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qa-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// ErrNoAgent is reported when a question is asked without an agent.
var ErrNoAgent = errors.New("agent not available")

// chromeHeight is the rows used by the header, input and status bar.
const chromeHeight = 7

// Turn is one question with its answer or error.
type Turn struct {
	Question    string
	Answer      string
	ContextOnly bool
	Err         error
}

// View is the chat transcript with a question input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript viewport.Model
	spinner    spinner.Model
	statusbar  *status.Bar

	agent driving.Agent
	ctx   context.Context

	turns       []Turn
	pending     string
	waiting     bool
	contextOnly bool

	width  int
	height int
	ready  bool
}

// NewView creates a chat view backed by agent.
func NewView(s *styles.Styles, km *keymap.KeyMap, agent driving.Agent) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 24-chromeHeight),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Subtitle)),
		statusbar:  status.NewBar(s, km),
		agent:      agent,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used for agent calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink and loads the record count.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadCount())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.CountLoaded:
		if msg.Err == nil {
			v.statusbar.SetRecordCount(msg.Count)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refresh()
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Quit):
		return v, tea.Quit

	case keymap.Matches(key, v.keymap.Ask):
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.waiting {
			return v, nil
		}
		v.input.Reset()
		v.pending = question
		v.waiting = true
		v.statusbar.SetState(status.StateThinking)
		v.refresh()
		return v, tea.Batch(v.spinner.Tick, v.ask(question, v.contextOnly))

	case keymap.Matches(key, v.keymap.ToggleContext):
		v.contextOnly = !v.contextOnly
		v.statusbar.SetMode(v.Mode())
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollUp):
		v.transcript.SetYOffset(v.transcript.YOffset - max(v.transcript.Height/2, 1))
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollDown):
		v.transcript.SetYOffset(v.transcript.YOffset + max(v.transcript.Height/2, 1))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs the question against the agent off the update loop.
func (v *View) ask(question string, contextOnly bool) tea.Cmd {
	agent, ctx := v.agent, v.ctx
	return func() tea.Msg {
		if agent == nil {
			return messages.AnswerReceived{Question: question, ContextOnly: contextOnly, Err: ErrNoAgent}
		}

		var (
			answer string
			err    error
		)
		if contextOnly {
			answer, err = agent.Context(ctx, question)
		} else {
			answer, err = agent.Query(ctx, question)
		}
		return messages.AnswerReceived{Question: question, Answer: answer, ContextOnly: contextOnly, Err: err}
	}
}

func (v *View) loadCount() tea.Cmd {
	agent, ctx := v.agent, v.ctx
	if agent == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := agent.Count(ctx)
		return messages.CountLoaded{Count: n, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.waiting = false
	v.pending = ""
	v.turns = append(v.turns, Turn{
		Question:    msg.Question,
		Answer:      msg.Answer,
		ContextOnly: msg.ContextOnly,
		Err:         msg.Err,
	})

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
	v.refresh()
}

// refresh re-renders the transcript and keeps the newest turn visible.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := max(v.width-4, 10)
	var b strings.Builder

	for _, turn := range v.turns {
		b.WriteString(v.styles.Question.Width(wrap).Render("> " + turn.Question))
		b.WriteString("\n")
		switch {
		case turn.Err != nil:
			b.WriteString(v.styles.Error.Width(wrap).Render("Error: " + turn.Err.Error()))
		case turn.ContextOnly && turn.Answer == "":
			b.WriteString(v.styles.Context.Width(wrap).Render("(no context retrieved)"))
		case turn.ContextOnly:
			b.WriteString(v.styles.Context.Width(wrap).Render(turn.Answer))
		default:
			b.WriteString(v.styles.Answer.Width(wrap).Render(turn.Answer))
		}
		b.WriteString("\n\n")
	}

	if v.waiting {
		b.WriteString(v.styles.Question.Width(wrap).Render("> " + v.pending))
		b.WriteString("\n")
		b.WriteString(v.spinner.View())
		b.WriteString(v.styles.Muted.Render(" thinking"))
		b.WriteString("\n")
	}

	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("qa-agent")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sizes the transcript, input and status bar.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.transcript.Width = width
	v.transcript.Height = max(height-chromeHeight, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Turns returns the completed turns.
func (v *View) Turns() []Turn {
	return v.turns
}

// Waiting reports whether a question is in flight.
func (v *View) Waiting() bool {
	return v.waiting
}

// Mode returns "context" when answers are replaced by retrieved context.
func (v *View) Mode() string {
	if v.contextOnly {
		return "context"
	}
	return "answer"
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Input returns the current input value.
func (v *View) Input() string {
	return v.input.Value()
}
