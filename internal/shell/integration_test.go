package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellkit/internal/eval"
	"shellkit/internal/goeval"
	"shellkit/internal/history"
	"shellkit/internal/output"
)

func newGoController(t *testing.T) (*Controller, *output.TextSink) {
	t.Helper()
	sink := output.NewTextSink()
	opts := DefaultOptions()
	opts.Banner = ""
	c, err := New(goeval.New(), output.NewRouter(sink, output.DefaultOptions()), history.New(nil), nil, opts)
	require.NoError(t, err)
	return c, sink
}

func TestGoShell_MultiLineBlock(t *testing.T) {
	c, sink := newGoController(t)

	require.Equal(t, eval.NeedsMore, c.Submit("if true {").Status)
	c.Submit(`	fmt.Println("inside")`)
	c.Submit("}")
	out := c.Submit("")

	assert.Equal(t, eval.Complete, out.Status)
	assert.Equal(t, ">>> ... ... ... inside\n>>> ", sink.String())
}

func TestGoShell_StatePersists(t *testing.T) {
	c, sink := newGoController(t)

	c.Submit("x := 5")
	c.Submit("x + 1")

	assert.Equal(t, ">>> >>> 6\n>>> ", sink.String())
	assert.Empty(t, sink.Tagged(output.TagError))
}

func TestGoShell_StatementsWithoutValuesPrintNothing(t *testing.T) {
	c, sink := newGoController(t)

	for _, line := range []string{
		"var y int",
		"func f() int { return 1 }",
		"type T struct{}",
		`m := map[string]int{}`,
		`m["a"] = 1`,
		`fmt.Println("hi")`,
	} {
		require.Equal(t, eval.Complete, c.Submit(line).Status, line)
	}

	assert.Equal(t, ">>> >>> >>> >>> >>> >>> hi\n>>> ", sink.String())
}

func TestGoShell_UnfinishedThenBlank(t *testing.T) {
	c, sink := newGoController(t)

	require.Equal(t, eval.NeedsMore, c.Submit("func (").Status)
	out := c.Submit("")

	assert.Equal(t, eval.SyntaxError, out.Status)
	assert.Contains(t, sink.Tagged(output.TagError), "unexpected end of input")

	// The session is still usable
	c.Submit(`"ok"`)
	assert.True(t, strings.HasSuffix(sink.String(), "ok\n>>> "))
}

func TestGoShell_ConsoleClear(t *testing.T) {
	c, sink := newGoController(t)

	c.Submit(`fmt.Println("before")`)
	c.Submit("console.Clear()")

	assert.Equal(t, ">>> ", sink.String())
	assert.Equal(t, Idle, c.State())
}

func TestGoShell_ErrorsAreTagged(t *testing.T) {
	c, sink := newGoController(t)

	out := c.Submit(`panic("boom")`)

	require.Error(t, out.Fault)
	assert.Contains(t, sink.Tagged(output.TagError), "boom")
	assert.True(t, strings.HasSuffix(sink.String(), ">>> "))
}

func TestGoShell_AutoScroll(t *testing.T) {
	c, sink := newGoController(t)
	before := sink.Scrolls()

	c.Submit(`fmt.Println("a")`)
	afterOn := sink.Scrolls()
	assert.Greater(t, afterOn, before)

	c.Router().SetAutoScroll(false)
	c.Submit(`fmt.Println("b")`)
	assert.Equal(t, afterOn, sink.Scrolls())
}
