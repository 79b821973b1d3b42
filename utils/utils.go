// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// IsPow2 returns true if x is a non-zero power of two.
func IsPow2[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64[T constraints.Integer](index T, bitLen int) uint64 {
	if bitLen == 0 {
		return 0
	}
	return bits.Reverse64(uint64(index)) >> (64 - bitLen)
}

// Log2 returns floor(log2(x)) for x > 0 and -1 for x = 0.
func Log2[T constraints.Unsigned](x T) int {
	return bits.Len64(uint64(x)) - 1
}

// AllDistinct returns true if all elements in s are distinct, and false otherwise.
func AllDistinct[T comparable](s []T) bool {
	m := make(map[T]struct{}, len(s))
	for _, si := range s {
		if _, exists := m[si]; exists {
			return false
		}
		m[si] = struct{}{}
	}
	return true
}
