package goeval

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellkit/internal/eval"
	"shellkit/internal/output"
)

func newSession(t *testing.T, ev *Evaluator, ns eval.Namespace) (*eval.Session, *output.TextSink) {
	t.Helper()
	sink := output.NewTextSink()
	s, err := eval.NewSession(ev, output.NewRouter(sink, output.DefaultOptions()), ns)
	require.NoError(t, err)
	return s, sink
}

func TestEvaluator_NamespacePersistsAcrossCalls(t *testing.T) {
	s, sink := newSession(t, New(), nil)

	require.Equal(t, eval.Complete, s.Run("x := 5").Status)
	out := s.Run("x + 1")

	assert.Equal(t, eval.Complete, out.Status)
	assert.Nil(t, out.Fault)
	assert.Contains(t, sink.String(), "6\n")
	assert.Empty(t, sink.Tagged(output.TagError))
}

func TestEvaluator_OnlyExpressionsShowValues(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		src   string
		want  string
	}{
		{"short var decl", nil, "x := 5", ""},
		{"assignment", []string{"x := 5"}, "x = 7", ""},
		{"var decl", nil, "var y int", ""},
		{"func decl", nil, "func f() {}", ""},
		{"func decl with result", nil, "func g() int { return 1 }", ""},
		{"type decl", nil, "type T struct{}", ""},
		{"map assignment", []string{`m := map[string]int{}`}, `m["a"] = 1`, ""},
		{"increment", []string{"n := 1"}, "n++", ""},
		{"multi-result call", nil, `fmt.Println("hi")`, "hi\n"},
		{"zero-result call", []string{"func h() {}"}, "h()", ""},
		{"control statement", nil, "for i := 0; i < 2; i++ {}", ""},
		{"expression", []string{"x := 5"}, "x + 1", "6\n"},
		{"single-result call", nil, `strings.ToUpper("ok")`, "OK\n"},
		{"user func call", []string{"func g() int { return 4 }"}, "g()", "4\n"},
		{"conversion", nil, "int64(3)", "3\n"},
		{"last statement is an expression", nil, "z := 2; z * 3", "6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sink := newSession(t, New(), nil)
			for _, line := range tt.setup {
				require.Equal(t, eval.Complete, s.Run(line).Status, line)
			}
			before := len(sink.String())

			out := s.Run(tt.src)

			require.Equal(t, eval.Complete, out.Status, out.Diagnostic)
			require.NoError(t, out.Fault)
			assert.Equal(t, tt.want, sink.String()[before:])
			assert.Empty(t, sink.Tagged(output.TagError))
		})
	}
}

func TestEvaluator_PrintGoesThroughRedirectedStdout(t *testing.T) {
	var process bytes.Buffer
	ev := New(WithStreams(eval.NewStreams(&process, &process)))
	s, sink := newSession(t, ev, nil)

	s.Run(`fmt.Println("hello from go")`)

	assert.Contains(t, sink.String(), "hello from go\n")
	assert.Empty(t, process.String(), "nothing escapes to the resting destination during a run")
}

func TestEvaluator_Classification(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		status eval.Status
		fault  bool
	}{
		{"expression", "1 + 2", eval.Complete, false},
		{"open block", "if true {", eval.NeedsMore, false},
		{"open func signature", "func (", eval.NeedsMore, false},
		{"open call", "fmt.Println(", eval.NeedsMore, false},
		{"unterminated raw string", "s := `abc", eval.NeedsMore, false},
		{"closed block", "if true {\n\ty := 1\n\t_ = y\n}\n", eval.Complete, false},
		{"bad operand", "x := )", eval.SyntaxError, false},
		{"undefined name", "undefinedName + 1", eval.Complete, true},
		{"runtime panic", `panic("boom")`, eval.Complete, true},
		{"blank", "   ", eval.Complete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := New()
			require.NoError(t, ev.Bind(eval.Namespace{}))

			res := ev.Evaluate(tt.src)

			assert.Equal(t, tt.status, res.Status, "diagnostic: %s", res.Diagnostic)
			assert.Equal(t, tt.fault, res.Err != nil, "err: %v", res.Err)
			if tt.status == eval.SyntaxError || tt.fault {
				assert.NotEmpty(t, res.Diagnostic)
			}
		})
	}
}

func TestEvaluator_PanicDiagnostic(t *testing.T) {
	ev := New()
	require.NoError(t, ev.Bind(eval.Namespace{}))

	res := ev.Evaluate(`panic("boom")`)

	require.Error(t, res.Err)
	assert.Contains(t, res.Diagnostic, "boom")
}

func TestEvaluator_StreamsRestoredAfterFault(t *testing.T) {
	var process bytes.Buffer
	ev := New(WithStreams(eval.NewStreams(&process, &process)))
	s, sink := newSession(t, ev, nil)

	out := s.Run(`panic("boom")`)
	require.Error(t, out.Fault)
	assert.Contains(t, sink.Tagged(output.TagError), "boom")

	// Unrelated output after the fault goes to the resting destination
	res := ev.Evaluate(`fmt.Print("after")`)
	require.NoError(t, res.Err)
	assert.Equal(t, "after", process.String())
	assert.NotContains(t, sink.String(), "after")
}

func TestEvaluator_ConsoleBindings(t *testing.T) {
	cleared := 0
	ns := eval.Namespace{}
	eval.Seed(ns, "__console__", "A Go shell.", "shell.Controller", func() { cleared++ })

	s, sink := newSession(t, New(), ns)

	s.Run("console.Name")
	s.Run("console.Clear()")

	assert.Contains(t, sink.String(), "__console__\n")
	assert.Equal(t, 1, cleared)
	assert.Empty(t, sink.Tagged(output.TagError))
}

func TestEvaluator_GlobalsMirroredIntoNamespace(t *testing.T) {
	ns := eval.Namespace{}
	s, _ := newSession(t, New(), ns)

	s.Run("var counter = 3")

	v, ok := s.Lookup("counter")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestEvaluator_AllowedPackages(t *testing.T) {
	ev := New(WithAllowedPackages("strings"))
	s, sink := newSession(t, ev, nil)

	s.Run(`strings.ToUpper("ok")`)
	out := s.Run(`os.Getenv("HOME")`)

	assert.Contains(t, sink.String(), "OK\n")
	assert.Error(t, out.Fault, "os is not loaded")
}

func TestEvaluator_BindTwice(t *testing.T) {
	ev := New()
	require.NoError(t, ev.Bind(eval.Namespace{}))
	assert.Error(t, ev.Bind(eval.Namespace{}))
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		msg, src string
		want     bool
	}{
		{"expected '}', found 'EOF'", "if x {", true},
		{"raw string literal not terminated", "`abc", true},
		{"expected operand, found '}'", "x :=", true},
		{"expected operand, found '}'", "x := }", false},
		{"expected operand, found ')'", "x := )", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.msg, tt.src), func(t *testing.T) {
			assert.Equal(t, tt.want, incomplete(tt.msg, tt.src))
		})
	}
}
