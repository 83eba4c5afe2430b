package tlv

import (
	"bytes"
	"io"
	"math"
	"slices"
	"testing"
)

func TestBuffer_Grow(t *testing.T) {
	var b Buffer
	if b.Cap() != 0 {
		t.Fatalf("Cap() = %d, want 0", b.Cap())
	}
	if err := b.Grow(3); err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if b.Cap() != 3 {
		t.Errorf("Cap() = %d, want 3", b.Cap())
	}
	_, _ = b.Write([]byte{1, 2, 3})
	if b.Cap() != 3 {
		t.Errorf("Write() reallocated, Cap() = %d, want 3", b.Cap())
	}

	_ = b.WriteByte(4)
	if want := 2*3 + 1; b.Cap() != want {
		t.Errorf("Cap() = %d, want %d", b.Cap(), want)
	}
	if err := b.Grow(600); err != nil {
		t.Fatalf("Grow() error = %v", err)
	}
	if want := 2*7 + 600; b.Cap() != want {
		t.Errorf("Cap() = %d, want %d", b.Cap(), want)
	}
	if !slices.Equal(b.Bytes(), []byte{1, 2, 3, 4}) {
		t.Errorf("Grow() lost contents: % X", b.Bytes())
	}

	// capacity suffices
	c := b.Cap()
	_ = b.Grow(c - b.Len())
	if b.Cap() != c {
		t.Errorf("Grow() reallocated, Cap() = %d, want %d", b.Cap(), c)
	}
}

func TestBuffer_GrowExact(t *testing.T) {
	// small values must not reserve more than they need
	for _, n := range []int{1, 3, 100} {
		var b Buffer
		_ = b.Grow(n)
		if b.Cap() != n {
			t.Errorf("Grow(%d) Cap() = %d, want %d", n, b.Cap(), n)
		}
	}
	b := NewBuffer(0)
	_, _ = b.Write([]byte{0x02, 0x01, 0x05})
	if b.Cap() != 3 {
		t.Errorf("Write() Cap() = %d, want 3", b.Cap())
	}
}

func TestBuffer_GrowOverflow(t *testing.T) {
	b := NewBuffer(1)
	_ = b.WriteByte(0)
	if err := b.Grow(math.MaxInt); err != ErrAllocation {
		t.Errorf("Grow(MaxInt) error = %v, want ErrAllocation", err)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBuffer_Truncate(t *testing.T) {
	var b Buffer
	_, _ = b.Write([]byte("hello world"))
	b.Truncate(5)
	if got := string(b.Bytes()); got != "hello" {
		t.Errorf("Bytes() = %q, want \"hello\"", got)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Truncate(6) did not panic")
		}
	}()
	b.Truncate(6)
}

func TestBuffer_ReadAt(t *testing.T) {
	var b Buffer
	_, _ = b.Write([]byte{1, 2, 3, 4, 5})

	p := make([]byte, 2)
	if n, err := b.ReadAt(p, 1); n != 2 || err != nil || !slices.Equal(p, []byte{2, 3}) {
		t.Errorf("ReadAt(1) = %d, %v, % X", n, err, p)
	}
	if n, err := b.ReadAt(p, 4); n != 1 || err != io.EOF {
		t.Errorf("ReadAt(4) = %d, %v, want 1, io.EOF", n, err)
	}
	if _, err := b.ReadAt(p, 5); err != io.EOF {
		t.Errorf("ReadAt(5) error = %v, want io.EOF", err)
	}
	if _, err := b.ReadAt(p, -1); err == nil {
		t.Errorf("ReadAt(-1) error = nil")
	}
}

func TestBuffer_WriteTo(t *testing.T) {
	var b Buffer
	_, _ = b.Write([]byte("abc"))
	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	if n != 3 || err != nil || out.String() != "abc" {
		t.Errorf("WriteTo() = %d, %v, %q", n, err, out.String())
	}
	if b.Len() != 3 {
		t.Errorf("WriteTo() consumed the buffer")
	}
	b.Reset()
	if b.Len() != 0 || b.Cap() == 0 {
		t.Errorf("Reset() = len %d cap %d", b.Len(), b.Cap())
	}
}

func BenchmarkBuffer_WriteHeader(b *testing.B) {
	buf := NewBuffer(1 << 16)
	for b.Loop() {
		if buf.Len() > 1<<15 {
			buf.Reset()
		}
		_, _ = WriteDefiniteHeader(buf, TagSequence, true, 1000)
	}
}
