package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {
	var inc int
	inc, err = w.Write([]byte{c})
	return int64(inc), err
}

// WriteUint64 writes an uint64 c to w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], c)
	var inc int
	inc, err = w.Write(b[:])
	return int64(inc), err
}

// WriteUint64Slice writes a slice of uint64 c to w.
// Values are written in chunks fitting the available buffer of w.
func WriteUint64Slice(w Writer, c []uint64) (n int64, err error) {

	for len(c) != 0 {

		if w.Available() < 8 {
			if err = w.Flush(); err != nil {
				return
			}
		}

		size := max(w.Available()>>3, 1)
		size = min(size, len(c))

		buf := w.AvailableBuffer()
		for _, ci := range c[:size] {
			buf = binary.LittleEndian.AppendUint64(buf, ci)
		}

		var inc int
		if inc, err = w.Write(buf); err != nil {
			return n + int64(inc), fmt.Errorf("cannot WriteUint64Slice: %w", err)
		}

		n += int64(inc)
		c = c[size:]
	}

	return
}

// ReadUint8 reads a byte from r and stores the result into c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {
	var b [1]byte
	var inc int
	inc, err = io.ReadFull(r, b[:])
	*c = b[0]
	return int64(inc), err
}

// ReadUint64 reads an uint64 from r and stores the result into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {
	var b [8]byte
	var inc int
	if inc, err = io.ReadFull(r, b[:]); err != nil {
		return int64(inc), fmt.Errorf("cannot ReadUint64: %w", err)
	}
	*c = binary.LittleEndian.Uint64(b[:])
	return int64(inc), nil
}

// ReadUint64Slice reads a slice of uint64 from r and stores the result into c.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {
	var b [8]byte
	for i := range c {
		var inc int
		if inc, err = io.ReadFull(r, b[:]); err != nil {
			return n + int64(inc), fmt.Errorf("cannot ReadUint64Slice: %w", err)
		}
		n += int64(inc)
		c[i] = binary.LittleEndian.Uint64(b[:])
	}
	return
}
