// Package rlwe implements the plaintext container shared by the encoders of
// the library: a polynomial of Z_t[X]/(X^N+1) stored as its coefficients.
package rlwe

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Pro7ech/batching/utils/buffer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zeebo/blake3"
)

// MaxPlaintextLen is the maximum number of coefficients accepted when
// deserializing a [Plaintext].
const MaxPlaintextLen = 1 << 24

// Plaintext is a polynomial with coefficients modulo the plaintext modulus t.
// Value[i] is the coefficient of X^i. Trailing zero coefficients are
// trimmed, so len(Value) is the degree plus one, or zero for the zero
// polynomial.
type Plaintext struct {
	Value []uint64
}

// NewPlaintext creates a new zero [Plaintext].
func NewPlaintext() (pt *Plaintext) {
	return &Plaintext{Value: []uint64{}}
}

// NewPlaintextFromCoefficients creates a new [Plaintext] holding a trimmed copy of coeffs.
func NewPlaintextFromCoefficients(coeffs []uint64) (pt *Plaintext) {
	pt = NewPlaintext()
	pt.Set(coeffs)
	return
}

// Len returns the number of stored coefficients.
func (pt Plaintext) Len() int {
	return len(pt.Value)
}

// At returns the coefficient of X^i, which is zero for i >= Len().
func (pt Plaintext) At(i int) uint64 {
	if i < 0 {
		panic(fmt.Errorf("invalid coefficient index: %d < 0", i))
	}
	if i >= len(pt.Value) {
		return 0
	}
	return pt.Value[i]
}

// Set copies coeffs on the receiver and trims the trailing zeros.
// The receiver reuses its backing array when large enough.
func (pt *Plaintext) Set(coeffs []uint64) {
	pt.Value = append(pt.Value[:0], coeffs[:trimmedLen(coeffs)]...)
}

// Zero sets the receiver to the zero polynomial.
func (pt *Plaintext) Zero() {
	pt.Value = pt.Value[:0]
}

// IsZero returns true if the receiver is the zero polynomial.
func (pt Plaintext) IsZero() bool {
	return trimmedLen(pt.Value) == 0
}

// Clone returns a deep copy of the receiver.
func (pt Plaintext) Clone() *Plaintext {
	return &Plaintext{Value: append([]uint64{}, pt.Value...)}
}

// Copy copies other on the receiver.
func (pt *Plaintext) Copy(other *Plaintext) {
	if pt != other {
		pt.Set(other.Value)
	}
}

// Equal performs a deep equal.
func (pt Plaintext) Equal(other *Plaintext) bool {
	return other != nil && cmp.Equal(pt.Value[:trimmedLen(pt.Value)], other.Value[:trimmedLen(other.Value)], cmpopts.EquateEmpty())
}

// String renders the receiver as "c_kx^k + ... + c_1x^1 + c_0" with decimal
// coefficients, skipping zero terms. The zero polynomial renders as "0".
func (pt Plaintext) String() string {

	var sb strings.Builder

	for i := trimmedLen(pt.Value) - 1; i >= 0; i-- {

		c := pt.Value[i]

		if c == 0 {
			continue
		}

		if sb.Len() != 0 {
			sb.WriteString(" + ")
		}

		sb.WriteString(strconv.FormatUint(c, 10))

		if i != 0 {
			sb.WriteString("x^")
			sb.WriteString(strconv.Itoa(i))
		}
	}

	if sb.Len() == 0 {
		return "0"
	}

	return sb.String()
}

// Digest returns the BLAKE3 hash of the binary form of the receiver.
func (pt Plaintext) Digest() (digest [32]byte) {
	data, err := pt.MarshalBinary()

	// Writing on an in-memory buffer cannot fail.
	if err != nil {
		panic(err)
	}

	return blake3.Sum256(data)
}

// BinarySize returns the serialized size of the object in bytes.
func (pt Plaintext) BinarySize() (size int) {
	return 8 + len(pt.Value)<<3
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the [buffer.Writer] interface, it will be wrapped
// into a bufio.Writer, which is flushed before returning.
func (pt Plaintext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteUint64(w, uint64(len(pt.Value))); err != nil {
			return n + inc, fmt.Errorf("cannot WriteTo: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteUint64Slice(w, pt.Value); err != nil {
			return n + inc, fmt.Errorf("cannot WriteTo: %w", err)
		}

		return n + inc, w.Flush()

	default:
		return pt.WriteTo(buffer.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Reader. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the [buffer.Reader] interface, it will be wrapped
// into a bufio.Reader.
func (pt *Plaintext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		var size uint64

		if inc, err = buffer.ReadUint64(r, &size); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: size: %w", err)
		}

		n += inc

		if size > MaxPlaintextLen {
			return n, fmt.Errorf("cannot ReadFrom: invalid size %d", size)
		}

		if pt.Value == nil || uint64(cap(pt.Value)) < size {
			pt.Value = make([]uint64, size)
		}

		pt.Value = pt.Value[:size]

		if inc, err = buffer.ReadUint64Slice(r, pt.Value); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: coefficients: %w", err)
		}

		pt.Value = pt.Value[:trimmedLen(pt.Value)]

		return n + inc, nil

	default:
		return pt.ReadFrom(buffer.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pt Plaintext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pt.BinarySize())
	_, err = pt.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pt *Plaintext) UnmarshalBinary(p []byte) (err error) {
	_, err = pt.ReadFrom(buffer.NewBuffer(p))
	return
}

func trimmedLen(coeffs []uint64) (n int) {
	n = len(coeffs)
	for n > 0 && coeffs[n-1] == 0 {
		n--
	}
	return
}
