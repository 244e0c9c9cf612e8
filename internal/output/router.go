// Package output routes shell text to a display through two independently
// styled and scrolled channels.
package output

import (
	"strings"

	"shellkit/internal/logging"
)

// Tag names a style or property applied to written text.
type Tag string

const (
	// TagProtected marks text the user may not edit.
	TagProtected Tag = "protected"
	// TagError marks text written by the error channel.
	TagError Tag = "error"
)

// Position is an offset into the display's text.
type Position int

// Sink is the display the router writes to. Implementations own rendering;
// they must refuse user edits to TagProtected text and keep an input mark
// at the end of the most recent write.
type Sink interface {
	// Write appends text at the end of the display.
	Write(text string, tags ...Tag)
	// ScrollToNewest brings the end of the display into view.
	ScrollToNewest()
	// DeleteRange removes text between start and end.
	DeleteRange(start, end Position)
	// Mark returns the input mark: where uncommitted input begins.
	Mark() Position
	// MoveCaretToMark places the caret at the input mark.
	MoveCaretToMark()
	// Suspend stops change notifications until the returned func is called.
	Suspend() (resume func())
}

// Channel names.
const (
	Standard = "standard"
	Error    = "error"
)

// Channel writes tagged text to a Sink. It implements io.Writer so it can
// stand in for an evaluator's stdout or stderr.
type Channel struct {
	name       string
	sink       Sink
	tags       []Tag
	autoScroll bool
	suppress   func(text string) bool
	writes     int
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// AutoScroll reports whether each write scrolls the sink.
func (c *Channel) AutoScroll() bool { return c.autoScroll }

// SetAutoScroll toggles scrolling on write.
func (c *Channel) SetAutoScroll(on bool) { c.autoScroll = on }

// Writes returns how many writes reached the sink.
func (c *Channel) Writes() int { return c.writes }

// Write implements io.Writer.
func (c *Channel) Write(p []byte) (int, error) {
	c.write(string(p), false)
	return len(p), nil
}

// WriteString writes text as one protected write.
func (c *Channel) WriteString(text string) (int, error) {
	c.write(text, false)
	return len(text), nil
}

func (c *Channel) write(text string, moveCaret bool) {
	if text == "" {
		return
	}
	if c.suppress != nil && c.suppress(text) {
		return
	}

	resume := c.sink.Suspend()
	defer resume()

	c.sink.Write(text, c.tags...)
	c.writes++
	if c.autoScroll {
		c.sink.ScrollToNewest()
	}
	if moveCaret {
		c.sink.MoveCaretToMark()
	}
}

// Options configures a Router.
type Options struct {
	// NoValue is the textual form of "no value"; standard writes whose
	// trimmed content equals it are dropped.
	NoValue string
	// AutoScroll is the initial setting for both channels.
	AutoScroll bool
}

// DefaultOptions returns the router defaults.
func DefaultOptions() Options {
	return Options{NoValue: "<nil>", AutoScroll: true}
}

// Router owns the standard and error channels of one session.
type Router struct {
	sink   Sink
	stdout *Channel
	stderr *Channel
}

// NewRouter creates the two channels over sink.
func NewRouter(sink Sink, opts Options) *Router {
	noValue := strings.TrimSpace(opts.NoValue)
	r := &Router{
		sink: sink,
		stdout: &Channel{
			name:       Standard,
			sink:       sink,
			tags:       []Tag{TagProtected},
			autoScroll: opts.AutoScroll,
		},
		stderr: &Channel{
			name:       Error,
			sink:       sink,
			tags:       []Tag{TagProtected, TagError},
			autoScroll: opts.AutoScroll,
		},
	}
	if noValue != "" {
		r.stdout.suppress = func(text string) bool {
			if strings.TrimSpace(text) == noValue {
				logging.Get(logging.CategoryOutput).Debug("suppressed no-value write %q", text)
				return true
			}
			return false
		}
	}
	return r
}

// Stdout returns the standard channel.
func (r *Router) Stdout() *Channel { return r.stdout }

// Stderr returns the error channel.
func (r *Router) Stderr() *Channel { return r.stderr }

// Sink returns the display the router writes to.
func (r *Router) Sink() Sink { return r.sink }

// SetAutoScroll sets auto-scroll on both channels.
func (r *Router) SetAutoScroll(on bool) {
	r.stdout.SetAutoScroll(on)
	r.stderr.SetAutoScroll(on)
}

// AutoScroll reports true only when both channels scroll.
func (r *Router) AutoScroll() bool {
	return r.stdout.AutoScroll() && r.stderr.AutoScroll()
}

// WritePrompt writes text on the standard channel and moves the caret to
// the input mark so typing continues after it.
func (r *Router) WritePrompt(text string) {
	r.stdout.write(text, true)
}
