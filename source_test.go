package bink

import (
	"context"
	"io"
	"testing"
)

func TestBytesSourceOpenAt(t *testing.T) {
	src := NewBytesSource([]byte("hello world"))

	r, err := src.OpenAt(context.Background(), 6)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "world" {
		t.Errorf("OpenAt(6): got %q, want %q", got, "world")
	}
}

func TestBytesSourceOpenAtPastEnd(t *testing.T) {
	src := NewBytesSource([]byte("abc"))

	if _, err := src.OpenAt(context.Background(), 10); err != io.EOF {
		t.Errorf("OpenAt past end: got %v, want io.EOF", err)
	}
}

type fakeReaderAt struct{ data []byte }

func (f fakeReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}

	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func TestReaderAtSourceRespectsCancellation(t *testing.T) {
	src := NewReaderAtSource(fakeReaderAt{data: []byte("0123456789")}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := src.OpenAt(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := make([]byte, 4)
	if _, err := r.Read(buf); err == nil {
		t.Error("Read after context cancellation: got nil error, want non-nil")
	}
}

func TestReaderAtSourceReadsFromOffset(t *testing.T) {
	src := NewReaderAtSource(fakeReaderAt{data: []byte("0123456789")}, 10)

	r, err := src.OpenAt(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "56789" {
		t.Errorf("OpenAt(5): got %q, want %q", got, "56789")
	}
}
