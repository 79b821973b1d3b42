package ring

import (
	"math/big"
	"math/bits"
)

//============================
//=== MONTGOMERY REDUCTION ===
//============================

// MForm returns a*2^64 mod q.
// The input a must be in [0, q-1].
func MForm(a, q uint64, brc [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, brc[1])
	r = -(a*brc[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// IMForm returns a*(1/2^64) mod q.
func IMForm(a, q, mrc uint64) (r uint64) {
	r, _ = bits.Mul64(a*mrc, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// GetMRedConstant computes the constant mrc = (q^-1) mod 2^64 required for MRed.
// The input q must be odd.
func GetMRedConstant(q uint64) (mrc uint64) {
	// Newton iteration, each step doubles the number of correct low bits.
	mrc = q
	for i := 0; i < 5; i++ {
		mrc *= 2 - q*mrc
	}
	return
}

// MRed computes x * y * (1/2^64) mod q.
// Requires x * y < q * 2^64.
func MRed(x, y, q, mrc uint64) (r uint64) {
	r = MRedLazy(x, y, q, mrc)
	if r >= q {
		r -= q
	}
	return
}

// MRedLazy computes x * y * (1/2^64) mod q with the result in [0, 2q-1].
func MRedLazy(x, y, q, mrc uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	H, _ := bits.Mul64(alo*mrc, q)
	r = ahi - H + q
	return
}

//==========================
//=== BARRETT REDUCTION  ===
//==========================

// GetBRedConstant computes the constant for the Barrett reduction with a radix of 2^128,
// that is floor(2^128/q) split as [hi, lo].
func GetBRedConstant(q uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	mhi := new(big.Int).Rsh(bigR, 64).Uint64()
	mlo := bigR.Uint64()

	return [2]uint64{mhi, mlo}
}

// BRedAdd computes a mod q.
func BRedAdd(a, q uint64, brc [2]uint64) (r uint64) {
	s0, _ := bits.Mul64(a, brc[0])
	r = a - s0*q
	if r >= q {
		r -= q
	}
	return
}

// BRed computes x*y mod q.
func BRed(x, y, q uint64, brc [2]uint64) (r uint64) {

	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	// (alo*ulo)>>64

	lhi, _ = bits.Mul64(alo, brc[1])

	// ((ahi*ulo + alo*uhi) + (alo*ulo))>>64

	mhi, mlo = bits.Mul64(alo, brc[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, brc[1])

	_, carry = bits.Add64(mlo, s0, 0)

	lhi = mhi + carry

	// (ahi*uhi) + (((ahi*ulo + alo*uhi) + (alo*ulo))>>64)

	s0 = ahi*brc[0] + s1 + lhi

	r = alo - s0*q

	if r >= q {
		r -= q
	}

	return
}

//===============================
//==== CONDITIONAL REDUCTION ====
//===============================

// CRed returns a mod q, where a is required to be in the range [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}
