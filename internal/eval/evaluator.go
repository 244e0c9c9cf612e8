// Package eval runs statements through an embedded-language evaluator
// bound to a persistent namespace, routing everything the evaluator
// prints to a session's output channels.
package eval

import "sort"

// Status classifies one evaluation attempt.
type Status int

const (
	// Complete: the statement ran (possibly raising a runtime fault).
	Complete Status = iota
	// NeedsMore: the statement is valid so far but unfinished.
	NeedsMore
	// SyntaxError: the statement cannot be parsed.
	SyntaxError
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case NeedsMore:
		return "needs-more"
	case SyntaxError:
		return "syntax-error"
	default:
		return "unknown"
	}
}

// Result is what an Evaluator reports for one source text.
type Result struct {
	Status Status
	// Value is the printable form of the statement's result, if HasValue.
	Value    string
	HasValue bool
	// Diagnostic is formatted error text for SyntaxError, or the parser's
	// complaint for NeedsMore.
	Diagnostic string
	// Err is a runtime fault raised by a Complete statement.
	Err error
}

// Namespace maps names to values. Successive statements evaluate against
// the same Namespace.
type Namespace map[string]any

// Names returns the bound names in sorted order.
func (ns Namespace) Names() []string {
	names := make([]string, 0, len(ns))
	for name := range ns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluator is an embedded-language evaluation capability.
type Evaluator interface {
	// Bind attaches the session namespace. It is called once, before the
	// first Evaluate. Evaluators copy their own globals back into ns after
	// each Evaluate.
	Bind(ns Namespace) error
	// Evaluate runs src. It must write program output through the proxies
	// of Streams, never directly to the process streams.
	Evaluate(src string) Result
	// Streams returns the ambient streams the evaluator writes through.
	Streams() *Streams
}
