// Package buffer implements the little-endian binary writers and readers
// used by the serialization methods of the library.
package buffer

import (
	"bufio"
	"io"
)

// Writer is an interface for bytes writers with an internal buffer.
// It is satisfied by [bufio.Writer].
type Writer interface {
	io.Writer
	Flush() (err error)
	AvailableBuffer() []byte
	Available() int
}

// Reader is an interface for bytes readers with an internal buffer.
// It is satisfied by [bufio.Reader].
type Reader interface {
	io.Reader
	Size() int
	Peek(n int) ([]byte, error)
	Discard(n int) (discarded int, err error)
}

// NewWriter returns w as a [Writer], wrapping it in a [bufio.Writer] if necessary.
func NewWriter(w io.Writer) Writer {
	if wb, ok := w.(Writer); ok {
		return wb
	}
	return bufio.NewWriter(w)
}

// NewReader returns r as a [Reader], wrapping it in a [bufio.Reader] if necessary.
func NewReader(r io.Reader) Reader {
	if rb, ok := r.(Reader); ok {
		return rb
	}
	return bufio.NewReader(r)
}

// Buffer is a simple in-memory [Writer] and [Reader].
type Buffer struct {
	buf []byte
	off int
}

// NewBuffer creates a new [Buffer] reading from buff.
func NewBuffer(buff []byte) *Buffer {
	return &Buffer{buf: buff}
}

// NewBufferSize creates a new empty [Buffer] with the given capacity.
func NewBufferSize(size int) *Buffer {
	return &Buffer{buf: make([]byte, 0, size)}
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Flush does nothing.
func (b *Buffer) Flush() (err error) {
	return
}

// AvailableBuffer returns an empty buffer with Available() capacity.
func (b *Buffer) AvailableBuffer() []byte {
	return b.buf[len(b.buf):]
}

// Available returns the remaining capacity before a reallocation.
// It never returns zero so that writers do not fail on a full buffer.
func (b *Buffer) Available() int {
	if a := cap(b.buf) - len(b.buf); a > 0 {
		return a
	}
	return 1 << 12
}

// Bytes returns the unread bytes of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.off:]
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// Read reads up to len(p) unread bytes into p.
func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.off >= len(b.buf) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n = copy(p, b.buf[b.off:])
	b.off += n
	return
}

// Size returns the total size of the underlying buffer.
func (b *Buffer) Size() int {
	return len(b.buf)
}

// Peek returns the next n bytes without advancing the reader.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if b.off+n > len(b.buf) {
		return b.buf[b.off:], io.ErrUnexpectedEOF
	}
	return b.buf[b.off : b.off+n], nil
}

// Discard skips the next n bytes.
func (b *Buffer) Discard(n int) (discarded int, err error) {
	if b.off+n > len(b.buf) {
		discarded = len(b.buf) - b.off
		b.off = len(b.buf)
		return discarded, io.ErrUnexpectedEOF
	}
	b.off += n
	return n, nil
}
