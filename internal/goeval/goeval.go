// Package goeval evaluates Go source at the shell prompt with the Yaegi
// interpreter.
package goeval

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"path"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"shellkit/internal/eval"
	"shellkit/internal/logging"
)

// PackageName is the import name under which namespace bindings are
// exposed to evaluated code, e.g. console.Clear().
const PackageName = "console"

// Evaluator runs Go statements and expressions in one persistent
// interpreter. Every Evaluator owns its Streams, so separate sessions never
// share a redirection window.
type Evaluator struct {
	interp  *interp.Interpreter
	streams *eval.Streams
	allowed map[string]bool
	ns      eval.Namespace
	bound   bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAllowedPackages restricts the stdlib packages visible to evaluated
// code. "fmt" is always loaded because output redirection hooks into it.
func WithAllowedPackages(pkgs ...string) Option {
	return func(e *Evaluator) {
		if len(pkgs) == 0 {
			return
		}
		e.allowed = map[string]bool{"fmt": true}
		for _, p := range pkgs {
			e.allowed[p] = true
		}
	}
}

// WithStreams uses the given Streams instead of a private pair resting on
// the discard writer.
func WithStreams(s *eval.Streams) Option {
	return func(e *Evaluator) {
		if s != nil {
			e.streams = s
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.streams == nil {
		e.streams = eval.NewStreams(nil, nil)
	}
	e.interp = interp.New(interp.Options{
		Stdout: e.streams.Stdout(),
		Stderr: e.streams.Stderr(),
	})
	return e
}

// Streams implements eval.Evaluator.
func (e *Evaluator) Streams() *eval.Streams { return e.streams }

// Bind loads the stdlib symbols and exposes ns as package console.
// It must run before the first Evaluate.
func (e *Evaluator) Bind(ns eval.Namespace) error {
	if e.bound {
		return errors.New("namespace already bound")
	}

	if err := e.interp.Use(e.symbols()); err != nil {
		return fmt.Errorf("failed to load stdlib: %w", err)
	}

	exports := make(map[string]reflect.Value, len(ns))
	for name, v := range ns {
		exports[name] = exportValue(v)
	}
	key := PackageName + "/" + PackageName
	if err := e.interp.Use(interp.Exports{key: exports}); err != nil {
		return fmt.Errorf("failed to export namespace: %w", err)
	}

	// Every loaded package is importable without an import statement
	e.interp.ImportUsed()

	e.ns = ns
	e.bound = true
	logging.EvalDebug("bound %d names as package %s", len(ns), PackageName)
	return nil
}

func (e *Evaluator) symbols() interp.Exports {
	if e.allowed == nil {
		return stdlib.Symbols
	}
	filtered := make(interp.Exports)
	for key, syms := range stdlib.Symbols {
		if e.allowed[path.Dir(key)] {
			filtered[key] = syms
		}
	}
	return filtered
}

// exportValue returns an addressable value for v so evaluated code can
// both read and assign it. Functions are exported as-is.
func exportValue(v any) reflect.Value {
	if v == nil {
		var empty any
		return reflect.ValueOf(&empty).Elem()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		return rv
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	return ptr.Elem()
}

// Evaluate implements eval.Evaluator.
func (e *Evaluator) Evaluate(src string) eval.Result {
	if !e.bound {
		if err := e.Bind(eval.Namespace{}); err != nil {
			return eval.Result{Status: eval.Complete, Err: err}
		}
	}
	if strings.TrimSpace(src) == "" {
		return eval.Result{Status: eval.Complete}
	}

	v, err := e.interp.Eval(src)
	defer e.mirrorGlobals()

	if err != nil {
		return classify(src, err)
	}
	if !e.printable(src) || !v.IsValid() || !v.CanInterface() {
		return eval.Result{Status: eval.Complete}
	}
	return eval.Result{Status: eval.Complete, Value: fmt.Sprint(v.Interface()), HasValue: true}
}

// printable reports whether src ends in an expression statement whose value
// is shown at the prompt. Assignments, declarations and control statements
// have none; neither do calls returning zero or several results, since the
// interpreter only hands back the first.
func (e *Evaluator) printable(src string) bool {
	expr := lastExpr(src)
	if expr == nil {
		return false
	}
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok {
		return true
	}
	switch ast.Unparen(call.Fun).(type) {
	case *ast.Ident, *ast.SelectorExpr:
	default:
		// Evaluating the callee could repeat side effects
		return true
	}
	fn, err := e.interp.Eval(src[call.Fun.Pos()-wrapOffset : call.Fun.End()-wrapOffset])
	if err != nil || !fn.IsValid() || fn.Kind() != reflect.Func {
		// A conversion such as int64(x)
		return true
	}
	return fn.Type().NumOut() == 1
}

const wrapPrefix = "package main; func _() {\n"

// wrapOffset maps a position in the wrapped file back to an offset in src.
// File positions start at 1.
const wrapOffset = token.Pos(len(wrapPrefix) + 1)

// lastExpr parses src as a function body and returns the expression of its
// last statement when that statement is an expression statement. Top-level
// declarations (func, type, import) do not parse as a body and yield nil.
func lastExpr(src string) ast.Expr {
	f, err := parser.ParseFile(token.NewFileSet(), "", wrapPrefix+src+"\n}", parser.SkipObjectResolution)
	if err != nil || len(f.Decls) != 1 {
		return nil
	}
	body := f.Decls[0].(*ast.FuncDecl).Body
	if body == nil || len(body.List) == 0 {
		return nil
	}
	stmt, ok := body.List[len(body.List)-1].(*ast.ExprStmt)
	if !ok {
		return nil
	}
	return stmt.X
}

// classify maps an interpreter error onto a result status.
func classify(src string, err error) eval.Result {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		if incomplete(first.Msg, src) {
			return eval.Result{Status: eval.NeedsMore, Diagnostic: first.Msg}
		}
		return eval.Result{Status: eval.SyntaxError, Diagnostic: formatScannerError(first)}
	}

	var p interp.Panic
	if errors.As(err, &p) {
		return eval.Result{
			Status:     eval.Complete,
			Err:        err,
			Diagnostic: fmt.Sprintf("panic: %v", p.Value),
		}
	}
	return eval.Result{Status: eval.Complete, Err: err, Diagnostic: err.Error()}
}

// incomplete reports whether a parse error only means the input stopped
// early.
func incomplete(msg, src string) bool {
	switch {
	case strings.HasSuffix(msg, "found 'EOF'"):
		return true
	case msg == "raw string literal not terminated":
		return true
	case strings.HasPrefix(msg, "expected operand, found '}'"):
		// The interpreter closes the wrapping func itself; a '}' the
		// user did not type means the statement is still open.
		return !strings.HasSuffix(strings.TrimSpace(src), "}")
	}
	return false
}

func formatScannerError(e *scanner.Error) string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%d:%d: syntax error: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return "syntax error: " + e.Msg
}

// mirrorGlobals copies the interpreter's main-package globals into the
// bound namespace.
func (e *Evaluator) mirrorGlobals() {
	for name, v := range e.interp.Globals() {
		if !v.IsValid() || !v.CanInterface() {
			continue
		}
		e.ns[name] = v.Interface()
	}
}
