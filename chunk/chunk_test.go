package chunk

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCountsNewlines(t *testing.T) {
	c, err := New("a\n😀b")
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	if c.Len() != 7 {
		t.Fatalf("unexpected len: %d", c.Len())
	}
	if c.Lines() != 1 {
		t.Fatalf("expected 1 newline, got %d", c.Lines())
	}
	for _, off := range []int{0, 1, 2, 6, 7} {
		if !c.IsCharBoundary(off) {
			t.Fatalf("expected char boundary at %d", off)
		}
	}
	if c.IsCharBoundary(3) {
		t.Fatalf("offset 3 falls inside the emoji, must not be a boundary")
	}
}

func TestNewRejectsInvalidUTF8(t *testing.T) {
	_, err := New(string([]byte{0xff}))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	_, err = NewBytes([]byte{0xff})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8 from NewBytes, got %v", err)
	}
}

func TestNewRejectsOversizedText(t *testing.T) {
	_, err := New(strings.Repeat("a", LeafCap+1))
	if !errors.Is(err, ErrChunkTooLarge) {
		t.Fatalf("expected ErrChunkTooLarge, got %v", err)
	}
	_, err = NewBytes([]byte(strings.Repeat("a", LeafCap+1)))
	if !errors.Is(err, ErrChunkTooLarge) {
		t.Fatalf("expected ErrChunkTooLarge from NewBytes, got %v", err)
	}
}

func TestNewBytesCopiesInput(t *testing.T) {
	src := []byte("ab😀\n")
	c, err := NewBytes(src)
	if err != nil {
		t.Fatalf("unexpected NewBytes error: %v", err)
	}
	src[0] = 'X'
	if c.String() != "ab😀\n" {
		t.Fatalf("chunk should not alias source bytes, got %q", c.String())
	}
}

func TestSliceAndSplitAt(t *testing.T) {
	c, err := New("ab😀cd")
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	s, err := c.Slice(2, 6)
	if err != nil {
		t.Fatalf("unexpected Slice error: %v", err)
	}
	if s.String() != "😀" {
		t.Fatalf("unexpected slice text: %q", s.String())
	}
	left, right, err := c.SplitAt(2)
	if err != nil {
		t.Fatalf("unexpected SplitAt error: %v", err)
	}
	if left.String() != "ab" || right.String() != "😀cd" {
		t.Fatalf("unexpected split result: %q | %q", left.String(), right.String())
	}
	_, _, err = c.SplitAt(3)
	if !errors.Is(err, ErrNotCharBoundary) {
		t.Fatalf("expected ErrNotCharBoundary, got %v", err)
	}
}

func TestSliceBoundaryErrors(t *testing.T) {
	c, err := New("ab😀cd")
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	_, err = c.Slice(-1, 1)
	if !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
	_, err = c.Slice(1, 3)
	if !errors.Is(err, ErrNotCharBoundary) {
		t.Fatalf("expected ErrNotCharBoundary, got %v", err)
	}
}

func TestBytesReturnsIndependentCopyAcrossSlice(t *testing.T) {
	c, err := New("hello")
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	s, err := c.Slice(0, 5)
	if err != nil {
		t.Fatalf("unexpected Slice error: %v", err)
	}
	b := s.Bytes()
	b[0] = 'X'
	if c.String() != "hello" {
		t.Fatalf("original chunk must not alias slice bytes, got %q", c.String())
	}
}

func TestAppendFitAndOverflow(t *testing.T) {
	c1, err := New("abc")
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	c2, err := New("😀\n")
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	out, ok := c1.Append(c2)
	if !ok {
		t.Fatalf("expected append to fit")
	}
	if out.String() != "abc😀\n" {
		t.Fatalf("unexpected append result: %q", out.String())
	}
	if out.Lines() != 1 {
		t.Fatalf("expected 1 newline in appended chunk, got %d", out.Lines())
	}
	// Original chunk must stay unchanged.
	if c1.String() != "abc" {
		t.Fatalf("original chunk changed: %q", c1.String())
	}

	full, err := New(strings.Repeat("a", LeafCap))
	if err != nil {
		t.Fatalf("unexpected New error: %v", err)
	}
	one, _ := New("b")
	still, ok := full.Append(one)
	if ok {
		t.Fatalf("expected overflow append to fail")
	}
	if still.String() != full.String() {
		t.Fatalf("overflow append should return unchanged chunk")
	}
}
