// Package shell drives an interactive evaluation session: it takes committed
// input lines, buffers unfinished statements, evaluates finished ones and
// writes prompts, results and errors to the session's output router.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"shellkit/internal/eval"
	"shellkit/internal/history"
	"shellkit/internal/logging"
	"shellkit/internal/output"
)

// State is the statement-buffer state of a Controller.
type State int

const (
	// Idle: no statement is open.
	Idle State = iota
	// Buffering: an unfinished statement is accumulating lines.
	Buffering
)

func (s State) String() string {
	if s == Buffering {
		return "buffering"
	}
	return "idle"
}

// LineSource is the text-entry surface feeding the controller.
type LineSource interface {
	// ReplaceInput replaces the uncommitted input with text; "" clears it.
	ReplaceInput(text string)
}

// Options configures a Controller.
type Options struct {
	Name         string // bound as console.Name
	Doc          string // bound as console.Doc
	Banner       string // written once before the first prompt
	Prompt       string
	Continuation string
	// EchoInput writes each committed line to the display. Set it when
	// the line source is separate from the scrollback.
	EchoInput bool
}

// DefaultDoc documents the console for console.Doc.
const DefaultDoc = `Interactive Go shell.

Statements are evaluated as they are entered. An unfinished statement
(an open block, call or literal) is continued on the following lines
and evaluated when an empty line is entered.

console.Clear() clears the display.`

// DefaultOptions returns the controller defaults.
func DefaultOptions() Options {
	return Options{
		Name:         "__console__",
		Doc:          DefaultDoc,
		Banner:       "Welcome to shellkit :-)",
		Prompt:       ">>> ",
		Continuation: "... ",
	}
}

// classMarker is bound as console.Class.
const classMarker = "shell.Controller"

// pending accumulates the lines of an unfinished statement. It is active
// exactly when it holds lines.
type pending struct {
	lines []string
}

func (p *pending) active() bool     { return len(p.lines) > 0 }
func (p *pending) add(line string) { p.lines = append(p.lines, line) }
func (p *pending) reset()          { p.lines = nil }

// Controller is the shell state machine. It is not safe for concurrent use;
// front-ends deliver one event at a time.
type Controller struct {
	opts    Options
	router  *output.Router
	history *history.Buffer
	session *eval.Session
	source  LineSource
	pending pending
	running bool
	log     *logging.Logger
}

// New creates a controller, binds ns (seeded with the console bindings) to
// ev, and writes the banner and first prompt.
func New(ev eval.Evaluator, router *output.Router, hist *history.Buffer, ns eval.Namespace, opts Options) (*Controller, error) {
	if hist == nil {
		hist = history.New(nil)
	}
	if ns == nil {
		ns = eval.Namespace{}
	}
	c := &Controller{
		opts:    opts,
		router:  router,
		history: hist,
	}
	eval.Seed(ns, opts.Name, opts.Doc, classMarker, c.Clear)

	session, err := eval.NewSession(ev, router, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	c.session = session
	c.log = logging.Get(logging.CategoryShell).With("session", session.ID())

	if opts.Banner != "" {
		router.Stdout().WriteString(opts.Banner + "\n\n")
	}
	router.WritePrompt(opts.Prompt)
	c.log.Info("shell started: history=%d entries persistent=%v", hist.Len(), hist.Persistent())
	return c, nil
}

// Attach sets the line source that navigation replaces input on.
func (c *Controller) Attach(src LineSource) { c.source = src }

// State returns Idle or Buffering.
func (c *Controller) State() State {
	if c.pending.active() {
		return Buffering
	}
	return Idle
}

// Pending returns a copy of the buffered lines.
func (c *Controller) Pending() []string {
	return append([]string(nil), c.pending.lines...)
}

// History returns the command history.
func (c *Controller) History() *history.Buffer { return c.history }

// Session returns the evaluator session.
func (c *Controller) Session() *eval.Session { return c.session }

// Router returns the output router.
func (c *Controller) Router() *output.Router { return c.router }

// Submit handles one committed line.
//
// History is recorded per completed statement: a single-line statement
// when it is evaluated, a multi-line statement once, joined, when the
// blank line closing it arrives.
func (c *Controller) Submit(line string) eval.Outcome {
	if c.opts.EchoInput {
		c.router.Stdout().WriteString(line + "\n")
	}

	if !c.pending.active() {
		out := c.run(line)
		if out.Status == eval.NeedsMore {
			c.pending.add(line)
			c.log.Debug("idle -> buffering")
			c.router.WritePrompt(c.opts.Continuation)
			return out
		}
		c.history.Add(line)
		c.router.WritePrompt(c.opts.Prompt)
		return out
	}

	if strings.TrimSpace(line) != "" {
		c.pending.add(line)
		c.router.WritePrompt(c.opts.Continuation)
		return eval.Outcome{Status: eval.NeedsMore}
	}

	// A blank line closes the block whatever the outcome
	statement := strings.Join(c.pending.lines, "\n")
	src := statement + "\n" + line
	c.pending.reset()
	c.history.Add(statement)
	c.log.Debug("buffering -> idle: evaluating %d bytes", len(src))

	out := c.run(src)
	if out.Status == eval.NeedsMore {
		diag := "syntax error: unexpected end of input"
		if out.Diagnostic != "" {
			diag += " (" + out.Diagnostic + ")"
		}
		out = eval.Outcome{Status: eval.SyntaxError, Diagnostic: c.session.ReportError(diag)}
	}
	c.router.WritePrompt(c.opts.Prompt)
	return out
}

func (c *Controller) run(src string) eval.Outcome {
	c.running = true
	defer func() { c.running = false }()
	return c.session.Run(src)
}

// NavigateUp shows the previous history entry in the line source. At the
// oldest entry the input is left alone.
func (c *Controller) NavigateUp() (string, bool) {
	cmd, ok := c.history.Up()
	if ok && c.source != nil {
		c.source.ReplaceInput(cmd)
	}
	return cmd, ok
}

// NavigateDown shows the next history entry in the line source, or clears
// the input when there is none.
func (c *Controller) NavigateDown() (string, bool) {
	cmd, ok := c.history.Down()
	if c.source != nil {
		c.source.ReplaceInput(cmd)
	}
	return cmd, ok
}

// Clear removes everything written to the display. History and the
// namespace are untouched. Outside an evaluation a fresh prompt is written;
// during one, the prompt that follows the evaluation serves.
func (c *Controller) Clear() {
	sink := c.router.Sink()
	resume := sink.Suspend()
	sink.DeleteRange(0, sink.Mark())
	resume()

	if c.running {
		return
	}
	if c.pending.active() {
		c.router.WritePrompt(c.opts.Continuation)
		return
	}
	c.router.WritePrompt(c.opts.Prompt)
}

// Feed submits every line read from r. A statement still open at EOF is
// closed with a blank line.
func (c *Controller) Feed(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		c.Submit(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if c.pending.active() {
		c.Submit("")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
