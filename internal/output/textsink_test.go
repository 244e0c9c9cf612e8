package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSink_DeleteRangeAcrossSegments(t *testing.T) {
	s := NewTextSink()
	s.Write("hello ", TagProtected)
	s.Write("brave ", TagProtected, TagError)
	s.Write("world", TagProtected)

	s.DeleteRange(3, 9)

	assert.Equal(t, "helve world", s.String())
	segs := s.Segments()
	assert.Len(t, segs, 3)
	assert.Equal(t, "ve ", segs[1].Text)
	assert.True(t, segs[1].HasTag(TagError))
	assert.Equal(t, Position(len("helve world")), s.Mark())
}

func TestTextSink_DeleteRangeClamps(t *testing.T) {
	s := NewTextSink()
	s.Write("abc")

	s.DeleteRange(-4, 100)
	assert.Equal(t, "", s.String())
	assert.Zero(t, s.Mark())

	s.Write("xyz")
	s.DeleteRange(2, 1)
	assert.Equal(t, "xyz", s.String(), "inverted range is a no-op")
}

func TestTextSink_ChangeNotifications(t *testing.T) {
	s := NewTextSink()
	calls := 0
	s.OnChange(func() { calls++ })

	s.Write("a")
	assert.Equal(t, 1, calls)

	resume := s.Suspend()
	inner := s.Suspend()
	s.Write("b")
	s.Write("c")
	assert.Equal(t, 1, calls, "no notifications while suspended")

	inner()
	assert.Equal(t, 1, calls, "still suspended by the outer call")
	resume()
	assert.Equal(t, 2, calls, "one notification when fully resumed")

	resume()
	assert.Equal(t, 2, calls, "resume is idempotent")
	assert.False(t, s.Suspended())
}
