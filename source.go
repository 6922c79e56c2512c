package bink

import (
	"bytes"
	"context"
	"io"
)

// Source is the byte-source contract a Demuxer is driven by (spec §6):
// given an offset, it yields a lazy byte sequence starting there. Only
// one reader obtained from OpenAt may be read from at a time; calling
// OpenAt again — a seek — invalidates any reader still outstanding from
// a prior call, and the caller must Close it. Chunk granularity behind
// the returned io.ReadCloser is opaque to the Demuxer.
type Source interface {
	OpenAt(ctx context.Context, off int64) (io.ReadCloser, error)
}

// ReaderAtSource adapts any io.ReaderAt (an *os.File, a bytes.Reader, an
// httprs.HttpReadSeeker wrapped through io.NewSectionReader, ...) to
// Source. Reads are synchronous; ctx is checked before each one so a
// cancelled context stops a read promptly between chunks.
type ReaderAtSource struct {
	r    io.ReaderAt
	size int64
}

// NewReaderAtSource binds r as a Source. size is the total number of
// bytes available from r; reads past it return io.EOF.
func NewReaderAtSource(r io.ReaderAt, size int64) *ReaderAtSource {
	return &ReaderAtSource{r: r, size: size}
}

// OpenAt returns a reader over r starting at off.
func (s *ReaderAtSource) OpenAt(ctx context.Context, off int64) (io.ReadCloser, error) {
	if off < 0 || off > s.size {
		return nil, io.EOF
	}

	return &ctxSectionReader{
		ctx: ctx,
		sr:  io.NewSectionReader(s.r, off, s.size-off),
	}, nil
}

// ctxSectionReader is an io.ReadCloser over an io.SectionReader that
// aborts with ctx.Err() once ctx is done, realizing the "cancellation
// stops at the next suspension point" rule of spec §5.
type ctxSectionReader struct {
	ctx context.Context
	sr  *io.SectionReader
}

func (c *ctxSectionReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.sr.Read(p)
}

func (c *ctxSectionReader) Close() error {
	return nil
}

// BytesSource is a Source over an in-memory buffer, useful for tests and
// for callers that have already buffered the whole file.
type BytesSource struct {
	data []byte
}

// NewBytesSource binds data as a Source.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

// OpenAt returns a reader over data starting at off.
func (s *BytesSource) OpenAt(_ context.Context, off int64) (io.ReadCloser, error) {
	if off < 0 || off > int64(len(s.data)) {
		return nil, io.EOF
	}

	return io.NopCloser(bytes.NewReader(s.data[off:])), nil
}
