// Package ring implements arithmetic over the polynomial ring Z_q[X]/(X^N+1)
// for a single NTT-friendly prime modulus q, together with the number
// theoretic transform that maps coefficients to evaluations at the primitive
// 2N-th roots of unity.
package ring

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/Pro7ech/batching/utils"
	"github.com/Pro7ech/batching/utils/factorization"
	"github.com/montanaflynn/stats"
)

const (
	// MinimumRingDegree is the smallest supported ring degree.
	MinimumRingDegree = 2
)

// Ring is a struct storing precomputation
// for fast modular reduction and NTT for
// a given modulus.
type Ring struct {
	NumberTheoreticTransformer

	// Polynomial nb.Coefficients
	N int

	// Prime modulus
	Modulus uint64

	// Unique factors of Modulus-1
	Factors []uint64

	// 2^bit_length(Modulus) - 1
	Mask uint64

	// Fast reduction constants
	BRedConstant [2]uint64 // Barrett Reduction
	MRedConstant uint64    // Montgomery Reduction

	*NTTTable // NTT related constants
}

// NewRing creates a new [Ring] of degree N and modulus Modulus with the standard
// nega-cyclic NTT and generates its NTT tables.
// An error is returned with a nil *Ring in the case of non NTT-enabling parameters,
// that is if N is not a power of two, if Modulus is not prime or if Modulus != 1 mod 2N.
func NewRing(N int, Modulus uint64) (r *Ring, err error) {
	return NewRingWithCustomNTT(N, Modulus, NewNumberTheoreticTransformerStandard, 2*N)
}

// NewRingWithCustomNTT creates a new [Ring] with degree N and modulus Modulus with user-defined
// [NumberTheoreticTransformer] and primitive NthRoot-th root of unity, and generates its NTT tables.
func NewRingWithCustomNTT(N int, Modulus uint64, ntt func(*Ring, int) NumberTheoreticTransformer, NthRoot int) (r *Ring, err error) {

	if N < MinimumRingDegree || !utils.IsPow2(N) {
		return nil, fmt.Errorf("invalid ring degree: N=%d must be a power of 2 greater or equal to %d", N, MinimumRingDegree)
	}

	if NthRoot < 2*N || !utils.IsPow2(NthRoot) {
		return nil, fmt.Errorf("invalid NthRoot: %d must be a power of two greater or equal to 2N=%d", NthRoot, 2*N)
	}

	if Modulus < 3 || bits.Len64(Modulus) > MaxModulusBits {
		return nil, fmt.Errorf("invalid modulus: %d must be an odd prime of at most %d bits", Modulus, MaxModulusBits)
	}

	r = &Ring{}

	r.N = N

	r.Modulus = Modulus

	r.Mask = (1 << uint64(bits.Len64(r.Modulus-1))) - 1

	// Computes the fast modular reduction constants for the Ring
	r.BRedConstant = GetBRedConstant(r.Modulus)
	r.MRedConstant = GetMRedConstant(r.Modulus)

	r.NTTTable = new(NTTTable)
	r.NthRoot = uint64(NthRoot)

	if err = r.GenNTTTable(); err != nil {
		return nil, err
	}

	r.NumberTheoreticTransformer = ntt(r, N)

	return
}

// LogN returns log2(N).
func (r Ring) LogN() int {
	return utils.Log2(uint64(r.N))
}

// NewPoly allocates a new polynomial of N coefficients.
func (r Ring) NewPoly() []uint64 {
	return make([]uint64, r.N)
}

// Stats returns base 2 logarithm of the standard deviation
// and the mean of the coefficients of the polynomial.
func (r Ring) Stats(poly []uint64) [2]float64 {

	if len(poly) == 0 {
		return [2]float64{math.Inf(-1), 0}
	}

	values := make(stats.Float64Data, len(poly))
	for i := range values {
		values[i] = float64(poly[i])
	}

	// Errors are only returned on empty inputs.
	std, _ := stats.StandardDeviation(values)
	mean, _ := stats.Mean(values)

	return [2]float64{math.Log2(std), mean}
}

// GenNTTTable generates the NTT tables for the target Ring.
// The fields `PrimitiveRoot` and `Factors` can be set manually to
// bypass the search for the primitive root (which requires to
// factor Modulus-1) and speedup the generation of the constants.
func (r *Ring) GenNTTTable() (err error) {

	if r.N == 0 || r.Modulus == 0 {
		return fmt.Errorf("invalid ring: missing N or Modulus")
	}

	Modulus := r.Modulus
	NthRoot := r.NthRoot

	// Checks if each qi is prime and equal to 1 mod NthRoot
	if !IsPrime(Modulus) {
		return fmt.Errorf("invalid modulus: %d is not prime", Modulus)
	}

	if Modulus&(NthRoot-1) != 1 {
		return fmt.Errorf("invalid modulus: %d != 1 mod NthRoot=%d", Modulus, NthRoot)
	}

	// It is possible to manually set the primitive root along with the factors of q-1.
	// If both are set, then checks that that the root is indeed primitive.
	// Else, factorize q-1 and finds a primitive root.
	if r.PrimitiveRoot != 0 && r.Factors != nil {
		if err = CheckPrimitiveRoot(r.PrimitiveRoot, Modulus, r.Factors); err != nil {
			return
		}
	} else {
		if r.PrimitiveRoot, r.Factors, err = PrimitiveRoot(Modulus, r.Factors); err != nil {
			return
		}
	}

	logNthRoot := utils.Log2(NthRoot >> 1)

	// 1.1 Computes N^(-1) mod Q in Montgomery form
	r.NInv = MForm(ModInverse(NthRoot>>1, Modulus), Modulus, r.BRedConstant)

	// 1.2 Computes Psi and PsiInv in Montgomery form
	Psi := ModExp(r.PrimitiveRoot, (Modulus-1)/NthRoot, Modulus)

	// Checks that Psi^{NthRoot/2} = -1 mod Modulus, which implies that Psi is a primitive NthRoot-th root
	if ModExp(Psi, NthRoot>>1, Modulus) != Modulus-1 {
		return fmt.Errorf("invalid %d-th primitive root: psi^{%d} != -1 mod Modulus, something went wrong", NthRoot, NthRoot>>1)
	}

	r.Psi = Psi

	PsiMont := MForm(Psi, Modulus, r.BRedConstant)
	PsiInvMont := MForm(ModInverse(Psi, Modulus), Modulus, r.BRedConstant)

	r.RootsForward = make([]uint64, NthRoot>>1)
	r.RootsBackward = make([]uint64, NthRoot>>1)

	r.RootsForward[0] = MForm(1, Modulus, r.BRedConstant)
	r.RootsBackward[0] = MForm(1, Modulus, r.BRedConstant)

	// Computes RootsForward[brv(j)] = Psi^j and RootsBackward[brv(j)] = Psi^-j
	for j := uint64(1); j < NthRoot>>1; j++ {

		indexReversePrev := utils.BitReverse64(j-1, logNthRoot)
		indexReverseNext := utils.BitReverse64(j, logNthRoot)

		r.RootsForward[indexReverseNext] = MRed(r.RootsForward[indexReversePrev], PsiMont, Modulus, r.MRedConstant)
		r.RootsBackward[indexReverseNext] = MRed(r.RootsBackward[indexReversePrev], PsiInvMont, Modulus, r.MRedConstant)
	}

	return
}

// PrimitiveRoot computes the smallest primitive root of the given prime q
// The unique factors of q-1 can be given to speed up the search for the root.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {

	if factors != nil {
		if err := CheckFactors(q-1, factors); err != nil {
			return 0, factors, err
		}
	} else {

		factorsBig := factorization.GetFactors(new(big.Int).SetUint64(q - 1)) //Factor q-1, might be slow

		factors = make([]uint64, len(factorsBig))
		for i := range factors {
			factors[i] = factorsBig[i].Uint64()
		}
	}

	for g := uint64(2); g < q; g++ {
		if isGenerator(g, q, factors) {
			return g, factors, nil
		}
	}

	return 0, factors, fmt.Errorf("cannot PrimitiveRoot: no primitive root found for q=%d", q)
}

// isGenerator returns false if g^((q-1)/factor) = 1 mod q for any factor of q-1.
func isGenerator(g, q uint64, factors []uint64) bool {
	for _, factor := range factors {
		if ModExp(g, (q-1)/factor, q) == 1 {
			return false
		}
	}
	return true
}

// CheckFactors checks that the given list of factors contains
// all the unique primes of m.
func CheckFactors(m uint64, factors []uint64) (err error) {

	if !utils.AllDistinct(factors) {
		return fmt.Errorf("duplicate factor")
	}

	for _, factor := range factors {

		if !IsPrime(factor) {
			return fmt.Errorf("composite factor")
		}

		for m%factor == 0 {
			m /= factor
		}
	}

	if m != 1 {
		return fmt.Errorf("incomplete factor list")
	}

	return
}

// CheckPrimitiveRoot checks that g is a valid primitive root mod q,
// given the factors of q-1.
func CheckPrimitiveRoot(g, q uint64, factors []uint64) (err error) {

	if err = CheckFactors(q-1, factors); err != nil {
		return
	}

	if !isGenerator(g, q, factors) {
		return fmt.Errorf("invalid primitive root")
	}

	return
}
