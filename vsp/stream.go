package vsp

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Stream is a general purpose compressor used for version 6 payloads.
type Stream interface {
	// Compress compresses src into dst and returns the number of bytes
	// used. io.ErrShortBuffer is returned if dst is too small.
	Compress(dst, src []byte) (int, error)
	// Decompress returns exactly n bytes decompressed from src, or an
	// error if src holds fewer.
	Decompress(src []byte, n int) ([]byte, error)
}

// DefaultStream is the Stream used when a Codec does not set one.
var DefaultStream Stream = Zlib{Level: zlib.DefaultCompression}

// Zlib is a Stream producing zlib data.
type Zlib struct {
	// Level is one of the zlib compression levels
	Level int
}

// fixedWriter writes into a preallocated slice and never grows it
type fixedWriter struct {
	b []byte
	n int
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	n := copy(w.b[w.n:], p)
	w.n += n
	if n < len(p) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

// Compress implements Stream.
func (z Zlib) Compress(dst, src []byte) (int, error) {
	fw := &fixedWriter{b: dst}
	zw, err := zlib.NewWriterLevel(fw, z.Level)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(src); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return fw.n, nil
}

// Decompress implements Stream. Streams that were flushed but never
// finished, as written by older tools, are accepted as long as they hold
// enough data. The output grows as data is inflated rather than being
// allocated up front.
func (Zlib) Decompress(src []byte, n int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return readN(zr, int64(n))
}
