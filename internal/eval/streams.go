package eval

import (
	"io"
	"sync"
)

// Streams is the ambient stdout/stderr pair an evaluator writes through.
// Evaluators hold the proxies returned by Stdout and Stderr; a session
// points them at its own output channels for the duration of one call.
//
// The redirection window is serialized: a second Redirect on the same
// Streams blocks until the first is released. Sessions that must not wait
// on each other use separate Streams.
type Streams struct {
	window sync.Mutex

	mu         sync.RWMutex
	out, err   io.Writer
	redirected bool
}

// NewStreams returns Streams whose resting destinations are stdout and
// stderr. Nil destinations discard.
func NewStreams(stdout, stderr io.Writer) *Streams {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Streams{out: stdout, err: stderr}
}

// Stdout returns a writer that forwards to the current stdout target.
func (s *Streams) Stdout() io.Writer { return proxy{s, false} }

// Stderr returns a writer that forwards to the current stderr target.
func (s *Streams) Stderr() io.Writer { return proxy{s, true} }

// Redirect points both streams at the given writers until release is
// called, then restores whatever they pointed at before. Release is safe
// to call more than once and must be deferred so restoration happens on
// every exit path.
func (s *Streams) Redirect(stdout, stderr io.Writer) (release func()) {
	s.window.Lock()

	s.mu.Lock()
	prevOut, prevErr, prevRedirected := s.out, s.err, s.redirected
	s.out, s.err, s.redirected = stdout, stderr, true
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.out, s.err, s.redirected = prevOut, prevErr, prevRedirected
			s.mu.Unlock()
			s.window.Unlock()
		})
	}
}

// Redirected reports whether a redirection window is open.
func (s *Streams) Redirected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.redirected
}

type proxy struct {
	s      *Streams
	stderr bool
}

func (p proxy) Write(b []byte) (int, error) {
	p.s.mu.RLock()
	w := p.s.out
	if p.stderr {
		w = p.s.err
	}
	p.s.mu.RUnlock()
	return w.Write(b)
}
