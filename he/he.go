// Package he implements the scheme agnostic parameters and interfaces shared by
// the homomorphic encryption encoders of the library.
package he

import (
	"github.com/Pro7ech/batching/rlwe"
)

// Encoder defines a set of common and scheme agnostic method provided by an Encoder struct.
type Encoder interface {
	Encode(values IntegerSlice, pt *rlwe.Plaintext) (err error)
	Decode(pt *rlwe.Plaintext, values IntegerSlice) (err error)
}
