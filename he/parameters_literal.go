package he

import (
	"fmt"
	"io"

	"github.com/Pro7ech/batching/utils/buffer"
)

// ParametersLiteral is a literal representation of the parameters of a scheme context.
// It has public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The [NewParametersFromLiteral] function is used to
// generate the actual checked parameters from the literal representation.
//
// Users must set the scheme, the polynomial degree (LogN) and, for the integer scheme,
// the plaintext modulus (T). For batching, T must be a prime equal to 1 modulo 2N;
// this is checked by the encoder and not at parameter creation.
type ParametersLiteral struct {
	Scheme Scheme `json:",omitempty"`
	LogN   int    `json:",omitempty"`
	T      uint64 `json:",omitempty"` // Plaintext modulus
}

// BinarySize returns the serialized size of the object in bytes.
func (p ParametersLiteral) BinarySize() (size int) {
	size++    // Scheme
	size++    // LogN
	size += 8 // T
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p ParametersLiteral) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if p.Scheme < 0 || p.Scheme > 0xff || p.LogN < 0 || p.LogN > 0xff {
			return 0, fmt.Errorf("cannot WriteTo: Scheme=%d or LogN=%d does not fit on a byte", int(p.Scheme), p.LogN)
		}

		var inc int64

		if inc, err = buffer.WriteUint8(w, uint8(p.Scheme)); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.WriteUint8(w, uint8(p.LogN)); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.WriteUint64(w, p.T); err != nil {
			return n + inc, err
		}

		n += inc

		return n, w.Flush()
	default:
		return p.WriteTo(buffer.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (p *ParametersLiteral) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		var scheme, logN uint8

		if inc, err = buffer.ReadUint8(r, &scheme); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.ReadUint8(r, &logN); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.ReadUint64(r, &p.T); err != nil {
			return n + inc, err
		}

		n += inc

		p.Scheme = Scheme(scheme)
		p.LogN = int(logN)

		return
	default:
		return p.ReadFrom(buffer.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p ParametersLiteral) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *ParametersLiteral) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}
