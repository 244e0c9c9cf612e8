package eval

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreams_RedirectAndRestore(t *testing.T) {
	var rest, out, errOut bytes.Buffer
	s := NewStreams(&rest, &rest)

	fmt.Fprint(s.Stdout(), "a")
	release := s.Redirect(&out, &errOut)
	assert.True(t, s.Redirected())
	fmt.Fprint(s.Stdout(), "b")
	fmt.Fprint(s.Stderr(), "c")
	release()
	release()
	fmt.Fprint(s.Stderr(), "d")

	assert.Equal(t, "ad", rest.String())
	assert.Equal(t, "b", out.String())
	assert.Equal(t, "c", errOut.String())
	assert.False(t, s.Redirected())
}

func TestStreams_NilDiscards(t *testing.T) {
	s := NewStreams(nil, nil)
	n, err := fmt.Fprint(s.Stdout(), "dropped")
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestStreams_WindowsAreSerialized(t *testing.T) {
	s := NewStreams(nil, nil)
	var a, b bytes.Buffer

	release := s.Redirect(&a, &a)

	var wg sync.WaitGroup
	entered := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		r := s.Redirect(&b, &b)
		close(entered)
		fmt.Fprint(s.Stdout(), "second")
		r()
	}()

	fmt.Fprint(s.Stdout(), "first")
	select {
	case <-entered:
		t.Fatal("second redirection entered while the first was open")
	default:
	}
	release()
	wg.Wait()

	assert.Equal(t, "first", a.String())
	assert.Equal(t, "second", b.String())
}
