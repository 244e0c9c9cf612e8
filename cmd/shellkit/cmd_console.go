package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"shellkit/internal/logging"
	"shellkit/internal/output"
)

// consoleCmd runs the line-mode console on stdin/stdout
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the line-mode console (default)",
	Long: `Reads lines from standard input and writes prompts, results and
errors to standard output. Input can be piped:

  echo 'fmt.Println("hi")' | shellkit console`,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	sink := newTermSink(cmd.OutOrStdout(), cfg.Output.ErrorColor)
	ctrl, hist, err := newShell(cfg, sink, false)
	if err != nil {
		return err
	}
	defer hist.Close()

	logging.Get(logging.CategoryUI).Info("console attached to stdin")
	return ctrl.Feed(cmd.InOrStdin())
}

// clearScreen homes the cursor and erases the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// termSink is an output.Sink over a terminal stream. Text already written
// cannot be edited, so deleting from the start clears the screen instead.
type termSink struct {
	w        io.Writer
	errStyle lipgloss.Style
	mark     output.Position
}

func newTermSink(w io.Writer, errorColor string) *termSink {
	style := lipgloss.NewStyle()
	if errorColor != "" {
		style = style.Foreground(lipgloss.Color(errorColor))
	}
	return &termSink{w: w, errStyle: style}
}

func (s *termSink) Write(text string, tags ...output.Tag) {
	s.mark += output.Position(len(text))
	for _, tag := range tags {
		if tag == output.TagError {
			io.WriteString(s.w, s.styleLines(text))
			return
		}
	}
	io.WriteString(s.w, text)
}

func (s *termSink) styleLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = s.errStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (s *termSink) DeleteRange(start, end output.Position) {
	if end > s.mark {
		end = s.mark
	}
	if start != 0 || end <= start {
		return
	}
	io.WriteString(s.w, clearScreen)
	s.mark -= end
}

func (s *termSink) ScrollToNewest()         {}
func (s *termSink) Mark() output.Position   { return s.mark }
func (s *termSink) MoveCaretToMark()        {}
func (s *termSink) Suspend() (resume func()) { return func() {} }
