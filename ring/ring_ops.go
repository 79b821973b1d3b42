package ring

import (
	"fmt"
)

// Add evaluates p3 = p1 + p2 (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) Add(p1, p2, p3 []uint64) {
	AddVec(p1, p2, p3, r.Modulus)
}

// Sub evaluates p3 = p1 - p2 (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) Sub(p1, p2, p3 []uint64) {
	SubVec(p1, p2, p3, r.Modulus)
}

// Neg evaluates p2 = -p1 (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) Neg(p1, p2 []uint64) {
	NegVec(p1, p2, r.Modulus)
}

// Reduce evaluates p2 = p1 (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) Reduce(p1, p2 []uint64) {
	BarrettReduceVec(p1, p2, r.Modulus, r.BRedConstant)
}

// MulCoeffsBarrett evaluates p3 = p1*p2 (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) MulCoeffsBarrett(p1, p2, p3 []uint64) {
	MulBarrettReduceVec(p1, p2, p3, r.Modulus, r.BRedConstant)
}

// AddScalar evaluates p2 = p1 + scalar (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) AddScalar(p1 []uint64, scalar uint64, p2 []uint64) {
	AddScalarVec(p1, BRedAdd(scalar, r.Modulus, r.BRedConstant), p2, r.Modulus)
}

// MulScalar evaluates p2 = p1 * scalar (mod modulus).
// Iteration is done with respect to len(p1).
func (r Ring) MulScalar(p1 []uint64, scalar uint64, p2 []uint64) {
	scalarMont := MForm(BRedAdd(scalar, r.Modulus, r.BRedConstant), r.Modulus, r.BRedConstant)
	MulScalarMontgomeryReduceVec(p1, scalarMont, p2, r.Modulus, r.MRedConstant)
}

// Inverse evaluates p2 = p1^-1 (mod modulus) coefficient-wise.
// An error is returned, and p2 left untouched, if a coefficient of p1 is zero.
func (r Ring) Inverse(p1, p2 []uint64) (err error) {

	for i := range p1 {
		if p1[i] == 0 {
			return fmt.Errorf("cannot Inverse: coefficient %d is zero", i)
		}
	}

	for i := range p1 {
		p2[i] = ModInverse(p1[i], r.Modulus)
	}

	return
}

// Automorphism evaluates p2 = p1(X^galEl) in Z_q[X]/(X^N+1).
// The Galois element galEl must be odd. p1 and p2 must not alias.
func (r Ring) Automorphism(p1 []uint64, galEl uint64, p2 []uint64) {

	N := uint64(r.N)
	mask := 2*N - 1

	for i := uint64(0); i < N; i++ {

		j := (i * galEl) & mask

		if j < N {
			p2[j] = p1[i]
		} else {
			p2[j-N] = CRed(r.Modulus-p1[i], r.Modulus)
		}
	}
}
