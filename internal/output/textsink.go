package output

import (
	"strings"
	"sync"
)

// Segment is a run of text written with one set of tags.
type Segment struct {
	Text string
	Tags []Tag
}

// HasTag reports whether the segment carries tag.
func (s Segment) HasTag(tag Tag) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TextSink is an in-memory Sink. Front-ends that render a scrollback from
// a string (terminal viewports, tests, embedders without a widget toolkit)
// keep their display content here. Positions are byte offsets.
type TextSink struct {
	mu        sync.Mutex
	segments  []Segment
	mark      Position
	caret     Position
	scrolls   int
	suspended int
	onChange  func()
}

// NewTextSink returns an empty sink.
func NewTextSink() *TextSink {
	return &TextSink{}
}

// OnChange registers fn to run after every change made while notifications
// are not suspended, and once when the outermost Suspend is resumed.
func (s *TextSink) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Write appends text and moves the input mark to the end.
func (s *TextSink) Write(text string, tags ...Tag) {
	s.mu.Lock()
	s.segments = append(s.segments, Segment{Text: text, Tags: append([]Tag(nil), tags...)})
	s.mark = Position(s.lenLocked())
	s.mu.Unlock()
	s.changed()
}

// ScrollToNewest records a scroll request.
func (s *TextSink) ScrollToNewest() {
	s.mu.Lock()
	s.scrolls++
	s.mu.Unlock()
}

// DeleteRange removes text in [start, end).
func (s *TextSink) DeleteRange(start, end Position) {
	s.mu.Lock()
	total := Position(s.lenLocked())
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if start >= end {
		s.mu.Unlock()
		return
	}

	var kept []Segment
	var off Position
	for _, seg := range s.segments {
		segStart, segEnd := off, off+Position(len(seg.Text))
		off = segEnd
		if segEnd <= start || segStart >= end {
			kept = append(kept, seg)
			continue
		}
		var text string
		if start > segStart {
			text += seg.Text[:start-segStart]
		}
		if end < segEnd {
			text += seg.Text[end-segStart:]
		}
		if text != "" {
			kept = append(kept, Segment{Text: text, Tags: seg.Tags})
		}
	}
	s.segments = kept
	s.mark = shift(s.mark, start, end)
	s.caret = shift(s.caret, start, end)
	s.mu.Unlock()
	s.changed()
}

func shift(p, start, end Position) Position {
	switch {
	case p <= start:
		return p
	case p >= end:
		return p - (end - start)
	default:
		return start
	}
}

// Mark returns the input mark.
func (s *TextSink) Mark() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mark
}

// Caret returns the caret position.
func (s *TextSink) Caret() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caret
}

// MoveCaretToMark places the caret at the input mark.
func (s *TextSink) MoveCaretToMark() {
	s.mu.Lock()
	s.caret = s.mark
	s.mu.Unlock()
}

// Suspend stops change notifications until resume is called. Calls nest.
func (s *TextSink) Suspend() func() {
	s.mu.Lock()
	s.suspended++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.suspended--
			s.mu.Unlock()
			s.changed()
		})
	}
}

// Suspended reports whether notifications are currently suspended.
func (s *TextSink) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended > 0
}

func (s *TextSink) changed() {
	s.mu.Lock()
	fn, quiet := s.onChange, s.suspended > 0
	s.mu.Unlock()
	if fn != nil && !quiet {
		fn()
	}
}

// String returns the whole display text.
func (s *TextSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, seg := range s.segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Tagged returns the concatenated text of every segment carrying tag.
func (s *TextSink) Tagged(tag Tag) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, seg := range s.segments {
		if seg.HasTag(tag) {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// Segments returns a copy of the written segments.
func (s *TextSink) Segments() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Segment(nil), s.segments...)
}

// Scrolls returns how many scroll requests were made.
func (s *TextSink) Scrolls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolls
}

func (s *TextSink) lenLocked() int {
	n := 0
	for _, seg := range s.segments {
		n += len(seg.Text)
	}
	return n
}
