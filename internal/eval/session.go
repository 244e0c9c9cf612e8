package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shellkit/internal/logging"
	"shellkit/internal/output"
)

// Well-known namespace bindings.
const (
	BindName  = "Name"
	BindDoc   = "Doc"
	BindClass = "Class"
	BindClear = "Clear"
)

// Seed installs the well-known bindings into ns. Name, Doc and Class keep
// any value the embedder already supplied; Clear is always replaced.
func Seed(ns Namespace, name, doc, class string, clear func()) {
	if _, ok := ns[BindName]; !ok {
		ns[BindName] = name
	}
	if _, ok := ns[BindDoc]; !ok {
		ns[BindDoc] = doc
	}
	if _, ok := ns[BindClass]; !ok {
		ns[BindClass] = class
	}
	ns[BindClear] = clear
}

// ErrEvaluatorPanic wraps a panic escaping the evaluator.
var ErrEvaluatorPanic = errors.New("evaluator panic")

// Outcome is the session-level result of one Run.
type Outcome struct {
	Status Status
	// Diagnostic is the text routed to the error channel, if any.
	Diagnostic string
	// Fault is the runtime fault raised by a Complete statement.
	Fault error
}

// Session binds an Evaluator to one namespace and one output router for
// its whole lifetime.
//
// No cancellation or timeout exists for an in-flight evaluation: a
// statement that never returns blocks the session.
type Session struct {
	id        string
	evaluator Evaluator
	router    *output.Router
	ns        Namespace
	log       *logging.Logger
}

// NewSession binds ev to ns and router. ns is owned by the session from
// here on.
func NewSession(ev Evaluator, router *output.Router, ns Namespace) (*Session, error) {
	if ns == nil {
		ns = Namespace{}
	}
	s := &Session{
		id:        uuid.NewString(),
		evaluator: ev,
		router:    router,
		ns:        ns,
	}
	s.log = logging.Get(logging.CategoryEval).With("session", s.id)

	if err := ev.Bind(ns); err != nil {
		return nil, fmt.Errorf("failed to bind namespace: %w", err)
	}
	s.log.Debug("session bound with %d names", len(ns))
	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Lookup returns the value bound to name.
func (s *Session) Lookup(name string) (any, bool) {
	v, ok := s.ns[name]
	return v, ok
}

// Names returns the bound names in sorted order.
func (s *Session) Names() []string { return s.ns.Names() }

// Run evaluates src. For the duration of the call the evaluator's ambient
// streams point at the router's channels; they are restored on every exit
// path, including an evaluator panic.
func (s *Session) Run(src string) (out Outcome) {
	streams := s.evaluator.Streams()
	release := streams.Redirect(s.router.Stdout(), s.router.Stderr())
	defer release()

	timer := logging.StartTimer(logging.CategoryEval, "evaluate")
	defer timer.Stop()

	defer func() {
		if r := recover(); r != nil {
			fault := fmt.Errorf("%w: %v", ErrEvaluatorPanic, r)
			s.log.Warn("recovered evaluator panic: %v", r)
			out = Outcome{Status: Complete, Fault: fault, Diagnostic: s.routeError(fault.Error())}
		}
	}()

	res := s.evaluator.Evaluate(src)
	s.log.Debug("evaluated %q: %s", src, res.Status)

	switch res.Status {
	case NeedsMore:
		return Outcome{Status: NeedsMore, Diagnostic: res.Diagnostic}

	case SyntaxError:
		diag := res.Diagnostic
		if diag == "" {
			diag = "syntax error"
		}
		return Outcome{Status: SyntaxError, Diagnostic: s.routeError(diag)}

	default:
		if res.Err != nil {
			s.log.Debug("runtime fault: %v", res.Err)
			diag := res.Diagnostic
			if diag == "" {
				diag = res.Err.Error()
			}
			return Outcome{Status: Complete, Fault: res.Err, Diagnostic: s.routeError(diag)}
		}
		if res.HasValue {
			s.router.Stdout().WriteString(res.Value + "\n")
		}
		return Outcome{Status: Complete}
	}
}

// ReportError writes diag to the error channel the same way evaluator
// diagnostics are written.
func (s *Session) ReportError(diag string) string {
	return s.routeError(diag)
}

func (s *Session) routeError(diag string) string {
	if !strings.HasSuffix(diag, "\n") {
		diag += "\n"
	}
	s.router.Stderr().WriteString(diag)
	return diag
}
