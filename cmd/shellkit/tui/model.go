// Package tui is the full-screen shell front-end: a scrollback viewport over
// the session's output and a single-line input box below it.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shellkit/cmd/shellkit/ui"
	"shellkit/internal/output"
	"shellkit/internal/shell"
)

const (
	headerHeight = 1
	footerHeight = 1
	inputHeight  = 3 // one line plus border
)

// Model is the bubbletea model. It is the controller's line source.
type Model struct {
	ctrl   *shell.Controller
	sink   *output.TextSink
	styles ui.Styles
	title  string

	textarea textarea.Model
	viewport viewport.Model

	ready       bool
	width       int
	lastScrolls int
	// dirty is set by the sink whenever its text changes
	dirty bool
}

// New creates a model over ctrl, whose router writes into sink.
func New(ctrl *shell.Controller, sink *output.TextSink, styles ui.Styles, title string) *Model {
	ta := textarea.New()
	ta.Placeholder = "Go statement or expression"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(1)
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	m := &Model{
		ctrl:     ctrl,
		sink:     sink,
		styles:   styles,
		title:    title,
		textarea: ta,
		viewport: viewport.New(80, 20),
	}
	ctrl.Attach(m)
	sink.OnChange(func() { m.dirty = true })
	m.dirty = true
	m.refresh()
	return m
}

// ReplaceInput implements shell.LineSource.
func (m *Model) ReplaceInput(text string) {
	m.textarea.SetValue(text)
	m.textarea.CursorEnd()
}

// Input returns the uncommitted input.
func (m *Model) Input() string { return m.textarea.Value() }

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleKey processes the shell key bindings. handled=false lets the key
// fall through to the input box.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return tea.Quit, true

	case tea.KeyEnter:
		line := m.textarea.Value()
		m.textarea.Reset()
		m.ctrl.Submit(line)
		m.refresh()
		return nil, true

	case tea.KeyUp:
		m.ctrl.NavigateUp()
		return nil, true

	case tea.KeyDown:
		m.ctrl.NavigateDown()
		return nil, true

	case tea.KeyCtrlL:
		m.ctrl.Clear()
		m.refresh()
		return nil, true

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (m *Model) resize(width, height int) {
	m.width = width
	vpHeight := height - headerHeight - footerHeight - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	// Border (2) + padding (2)
	m.textarea.SetWidth(max(width-4, 1))
	m.ready = true
	m.viewport.SetContent(m.render())
	m.viewport.GotoBottom()
}

// refresh re-renders the scrollback and follows the newest output when the
// router asked for a scroll since the last refresh.
func (m *Model) refresh() {
	if !m.dirty {
		return
	}
	m.dirty = false
	m.viewport.SetContent(m.render())
	if n := m.sink.Scrolls(); n != m.lastScrolls {
		m.lastScrolls = n
		m.viewport.GotoBottom()
	}
}

func (m *Model) render() string {
	var b strings.Builder
	for _, seg := range m.sink.Segments() {
		style := m.styles.Output
		if seg.HasTag(output.TagError) {
			style = m.styles.Error
		}
		// Styling per line keeps lipgloss from padding across newlines
		lines := strings.Split(seg.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return b.String()
}

func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	header := m.styles.Header.Render(m.title)
	footer := m.styles.Footer.Render(m.status())
	input := m.styles.Input.Render(m.textarea.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), input, footer)
}

func (m *Model) status() string {
	state := m.ctrl.State().String()
	return state + " | enter run · ↑/↓ history · ctrl+l clear · ctrl+c quit"
}

// Run starts the full-screen program and blocks until it exits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
