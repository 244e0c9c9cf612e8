package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellkit/cmd/shellkit/ui"
	"shellkit/internal/goeval"
	"shellkit/internal/history"
	"shellkit/internal/output"
	"shellkit/internal/shell"
)

func newTestModel(t *testing.T) (*Model, *output.TextSink) {
	t.Helper()
	sink := output.NewTextSink()
	opts := shell.DefaultOptions()
	opts.Banner = ""
	opts.EchoInput = true
	ctrl, err := shell.New(goeval.New(), output.NewRouter(sink, output.DefaultOptions()), history.New(nil), nil, opts)
	require.NoError(t, err)

	m := New(ctrl, sink, ui.NewStyles(ui.LightTheme(), ""), "shellkit")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, sink
}

func typeLine(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestModel_EnterSubmits(t *testing.T) {
	m, sink := newTestModel(t)

	typeLine(m, "1 + 2")
	assert.Equal(t, "1 + 2", m.Input())
	press(m, tea.KeyEnter)

	assert.Equal(t, ">>> 1 + 2\n3\n>>> ", sink.String())
	assert.Empty(t, m.Input())
	assert.Contains(t, m.View(), "3")
}

func TestModel_HistoryNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	typeLine(m, "x := 1")
	press(m, tea.KeyEnter)

	press(m, tea.KeyUp)
	assert.Equal(t, "x := 1", m.Input())

	press(m, tea.KeyDown)
	assert.Empty(t, m.Input())
}

func TestModel_CtrlLClears(t *testing.T) {
	m, sink := newTestModel(t)
	typeLine(m, `fmt.Println("noise")`)
	press(m, tea.KeyEnter)

	press(m, tea.KeyCtrlL)

	assert.Equal(t, ">>> ", sink.String())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	cmd := press(m, tea.KeyCtrlC)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewBeforeResize(t *testing.T) {
	sink := output.NewTextSink()
	ctrl, err := shell.New(goeval.New(), output.NewRouter(sink, output.DefaultOptions()), nil, nil, shell.DefaultOptions())
	require.NoError(t, err)

	m := New(ctrl, sink, ui.DefaultStyles(), "shellkit")

	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_ErrorsUseErrorStyle(t *testing.T) {
	m, sink := newTestModel(t)
	typeLine(m, "x := )")
	press(m, tea.KeyEnter)

	diag := strings.SplitN(sink.Tagged(output.TagError), "\n", 2)[0]
	require.NotEmpty(t, diag)
	assert.Contains(t, m.render(), m.styles.Error.Render(diag))
}

func TestModel_RendersOnlyAfterSinkChanges(t *testing.T) {
	m, sink := newTestModel(t)
	assert.False(t, m.dirty)

	press(m, tea.KeyUp)
	assert.False(t, m.dirty, "navigation leaves the scrollback alone")

	sink.Write("external\n")
	assert.True(t, m.dirty)

	m.refresh()
	assert.False(t, m.dirty)
	assert.Contains(t, m.viewport.View(), "external")
}
