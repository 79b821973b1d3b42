// Package heint implements the batch encoder of the integer homomorphic encryption
// schemes (BFV/BGV): it packs vectors of integers modulo a plaintext modulus T
// into the slots of a single plaintext polynomial of Z_T[X]/(X^N+1), so that
// the ring operations on plaintexts act slot-wise on the vectors.
//
// Batching requires T to be a prime congruent to 1 modulo 2N. Values are either
// unsigned, in [0, T-1], or signed, in [-(T-1)/2, (T-1)/2].
package heint

import (
	"github.com/Pro7ech/batching/rlwe"
)

// NewPlaintext allocates a new zero rlwe.Plaintext.
func NewPlaintext() (pt *rlwe.Plaintext) {
	return rlwe.NewPlaintext()
}
