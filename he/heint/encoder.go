package heint

import (
	"fmt"

	"github.com/Pro7ech/batching/he"
	"github.com/Pro7ech/batching/ring"
	"github.com/Pro7ech/batching/rlwe"
	"github.com/Pro7ech/batching/utils"
	"github.com/Pro7ech/batching/utils/concurrency"
)

// IntegerSlice is an empty interface whose goal is to
// indicate that the expected input should be []Integer.
// See [he.IntegerSlice].
type IntegerSlice = he.IntegerSlice

// GaloisGen is an integer of order N/2 modulo M=2N and that spans Z_M with the integer -1.
// The j-th ring automorphism takes the root zeta to zeta^(5j).
const GaloisGen uint64 = he.GaloisGen

// Encoder is a structure that stores the parameters to encode values on a plaintext
// in a SIMD (Single-Instruction Multiple-Data) fashion.
//
// A batched plaintext is a 2xN/2 matrix of values modulo the plaintext modulus T:
// slot i < N/2 of the first row is the evaluation of the plaintext polynomial at
// psi^(5^i) and slot i of the second row its evaluation at psi^(-5^i), where psi
// is a primitive 2N-th root of unity modulo T. Addition and negacyclic multiplication
// of plaintexts act slot-wise.
//
// An Encoder is immutable after creation and can be used concurrently.
type Encoder struct {
	parameters he.Parameters

	ringT *ring.Ring

	// indexMatrix[i] is the NTT position of slot i.
	indexMatrix []uint64

	// inverseMatrix[j] is the slot of NTT position j.
	inverseMatrix []uint64

	pool *ring.BufferPool
}

// NewEncoder creates a new [Encoder] from the provided parameters.
// It returns an error wrapping [ErrInvalidScheme] if the parameters are not for the
// integer scheme ([ErrUnsupportedScheme]) or if the plaintext modulus is not a
// prime congruent to 1 modulo 2N ([ErrNonBatchableModulus]).
func NewEncoder(parameters he.Parameters) (ecd *Encoder, err error) {

	switch scheme := parameters.Scheme(); scheme {
	case he.SchemeInteger:
	case he.SchemeApproximate:
		return nil, fmt.Errorf("cannot NewEncoder: %w: %w: batching is not available for the %s scheme", ErrInvalidScheme, ErrUnsupportedScheme, scheme)
	default:
		return nil, fmt.Errorf("cannot NewEncoder: %w: %s", ErrInvalidScheme, scheme)
	}

	var rT *ring.Ring
	if rT, err = ring.NewRing(parameters.N(), parameters.PlaintextModulus()); err != nil {
		return nil, fmt.Errorf("cannot NewEncoder: %w: %w: %w", ErrInvalidScheme, ErrNonBatchableModulus, err)
	}

	indexMatrix := permuteMatrix(rT.LogN())

	return &Encoder{
		parameters:    parameters,
		ringT:         rT,
		indexMatrix:   indexMatrix,
		inverseMatrix: inverseMatrix(indexMatrix),
		pool:          ring.NewPool(rT),
	}, nil
}

// NewEncoderFromContext creates a new [Encoder] from a reference to parameters.
// It returns an error wrapping [ErrInvalidArgument] if parameters is nil.
func NewEncoderFromContext(parameters *he.Parameters) (*Encoder, error) {
	if parameters == nil {
		return nil, fmt.Errorf("cannot NewEncoderFromContext: %w: parameters is nil", ErrInvalidArgument)
	}
	return NewEncoder(*parameters)
}

// permuteMatrix returns the map from the slots to the positions of the NTT.
func permuteMatrix(logN int) (perm []uint64) {

	var N, pow, pos uint64 = uint64(1 << logN), 1, 0

	mask := 2*N - 1

	perm = make([]uint64, N)

	halfN := int(N >> 1)

	for i, j := 0, halfN; i < halfN; i, j = i+1, j+1 {

		pos = utils.BitReverse64(pow>>1, logN) // = (pow-1)/2

		perm[i] = pos
		perm[j] = N - pos - 1

		pow *= GaloisGen
		pow &= mask
	}

	return perm
}

func inverseMatrix(perm []uint64) (inv []uint64) {
	inv = make([]uint64, len(perm))
	for i, j := range perm {
		inv[j] = uint64(i)
	}
	return
}

// Parameters returns the parameters of the encoder.
func (ecd Encoder) Parameters() he.Parameters {
	return ecd.parameters
}

// Ring returns the ring Z_T[X]/(X^N+1) of the plaintexts.
func (ecd Encoder) Ring() *ring.Ring {
	return ecd.ringT
}

// Slots returns the number of values that can be batched in a plaintext.
func (ecd Encoder) Slots() int {
	return len(ecd.indexMatrix)
}

// Encode encodes an IntegerSlice of size at most Slots() on a plaintext.
// Accepted values.(type) are []uint64, with values in [0, T-1], and []int64,
// with values in [-(T-1)/2, (T-1)/2]. Missing values are encoded as zero.
//
// The plaintext is left untouched if an error is returned.
func (ecd Encoder) Encode(values IntegerSlice, pt *rlwe.Plaintext) (err error) {
	if err = ecd.encode(values, pt, ecd.pool); err != nil {
		return fmt.Errorf("cannot Encode: %w", err)
	}
	return
}

// Decode decodes a plaintext on an IntegerSlice.
// Accepted values.(type) are *[]uint64 and *[]int64. The target slice is
// resized to exactly Slots() values, reusing its backing array when possible.
// Signed values in the upper half of [0, T-1] are decoded as negative.
//
// The values are left untouched if an error is returned.
func (ecd Encoder) Decode(pt *rlwe.Plaintext, values IntegerSlice) (err error) {
	if err = ecd.decode(pt, values, ecd.pool); err != nil {
		return fmt.Errorf("cannot Decode: %w", err)
	}
	return
}

// DecodeWithPool is the same as [Encoder.Decode], but it draws its scratch
// buffers from the given pool, which must be bound and of ring degree N.
func (ecd Encoder) DecodeWithPool(pt *rlwe.Plaintext, values IntegerSlice, pool *ring.BufferPool) (err error) {
	if err = ecd.decode(pt, values, pool); err != nil {
		return fmt.Errorf("cannot DecodeWithPool: %w", err)
	}
	return
}

// EncodeAll encodes values[i] on pts[i] for each i, using at most workers goroutines.
func (ecd Encoder) EncodeAll(values []IntegerSlice, pts []*rlwe.Plaintext, workers int) (err error) {

	if len(values) != len(pts) {
		return fmt.Errorf("cannot EncodeAll: %w: len(values)=%d != len(pts)=%d", ErrInvalidArgument, len(values), len(pts))
	}

	m := concurrency.NewResourceManager(ecd.newPools(workers))

	for i := range values {
		m.Run(func(pool *ring.BufferPool) (err error) {
			if err = ecd.encode(values[i], pts[i], pool); err != nil {
				return fmt.Errorf("cannot EncodeAll: values[%d]: %w", i, err)
			}
			return
		})
	}

	return m.Wait()
}

// DecodeAll decodes pts[i] on values[i] for each i, using at most workers goroutines.
func (ecd Encoder) DecodeAll(pts []*rlwe.Plaintext, values []IntegerSlice, workers int) (err error) {

	if len(values) != len(pts) {
		return fmt.Errorf("cannot DecodeAll: %w: len(pts)=%d != len(values)=%d", ErrInvalidArgument, len(pts), len(values))
	}

	m := concurrency.NewResourceManager(ecd.newPools(workers))

	for i := range pts {
		m.Run(func(pool *ring.BufferPool) (err error) {
			if err = ecd.decode(pts[i], values[i], pool); err != nil {
				return fmt.Errorf("cannot DecodeAll: pts[%d]: %w", i, err)
			}
			return
		})
	}

	return m.Wait()
}

func (ecd Encoder) newPools(workers int) (pools []*ring.BufferPool) {
	pools = make([]*ring.BufferPool, max(workers, 1))
	for i := range pools {
		pools[i] = ring.NewPool(ecd.ringT)
	}
	return
}

func (ecd Encoder) encode(values IntegerSlice, pt *rlwe.Plaintext, pool *ring.BufferPool) (err error) {

	if pt == nil {
		return fmt.Errorf("%w: pt is nil", ErrInvalidArgument)
	}

	T := ecd.ringT.Modulus

	switch values := values.(type) {
	case []uint64:
		if values == nil {
			return fmt.Errorf("%w: values is nil", ErrInvalidArgument)
		}
		return encodeDomain[uint64](ecd, unsignedDomain{t: T}, values, pt, pool)
	case []int64:
		if values == nil {
			return fmt.Errorf("%w: values is nil", ErrInvalidArgument)
		}
		return encodeDomain[int64](ecd, newSignedDomain(T), values, pt, pool)
	default:
		return fmt.Errorf("%w: values.(type) must be either []uint64 or []int64 but is %T", ErrInvalidArgument, values)
	}
}

func (ecd Encoder) decode(pt *rlwe.Plaintext, values IntegerSlice, pool *ring.BufferPool) (err error) {

	if pt == nil {
		return fmt.Errorf("%w: pt is nil", ErrInvalidArgument)
	}

	T := ecd.ringT.Modulus

	switch values := values.(type) {
	case *[]uint64:
		if values == nil {
			return fmt.Errorf("%w: values is nil", ErrInvalidArgument)
		}
		return decodeDomain[uint64](ecd, unsignedDomain{t: T}, pt, values, pool)
	case *[]int64:
		if values == nil {
			return fmt.Errorf("%w: values is nil", ErrInvalidArgument)
		}
		return decodeDomain[int64](ecd, newSignedDomain(T), pt, values, pool)
	default:
		return fmt.Errorf("%w: values.(type) must be either *[]uint64 or *[]int64 but is %T", ErrInvalidArgument, values)
	}
}

func (ecd Encoder) checkPool(pool *ring.BufferPool) (err error) {
	if !pool.IsBound() {
		return fmt.Errorf("%w: pool is unbound", ErrInvalidArena)
	}
	if pool.N() != ecd.Slots() {
		return fmt.Errorf("%w: pool.N()=%d != N=%d", ErrInvalidArena, pool.N(), ecd.Slots())
	}
	return
}

// checkPlaintext checks that pt is an element of Z_T[X]/(X^N+1).
func (ecd Encoder) checkPlaintext(pt *rlwe.Plaintext) (err error) {

	if pt.Len() > ecd.Slots() {
		return fmt.Errorf("%w: pt.Len()=%d > N=%d", ErrInvalidArgument, pt.Len(), ecd.Slots())
	}

	T := ecd.ringT.Modulus
	for i, c := range pt.Value {
		if c >= T {
			return fmt.Errorf("%w: pt.Value[%d]=%d >= T=%d", ErrInvalidArgument, i, c, T)
		}
	}

	return
}

// encodeDomain maps the values to Z_T, permutes them from the slots
// to the NTT positions, interpolates and stores the result on pt.
func encodeDomain[T he.Integer](ecd Encoder, d domain[T], values []T, pt *rlwe.Plaintext, pool *ring.BufferPool) (err error) {

	if err = ecd.checkPool(pool); err != nil {
		return
	}

	slots := ecd.Slots()

	if len(values) > slots {
		return fmt.Errorf("%w: len(values)=%d > slots=%d", ErrInvalidLength, len(values), slots)
	}

	buff := pool.GetBuffUintArray()
	defer pool.RecycleBuffUintArray(buff)
	pT := *buff

	perm := ecd.indexMatrix

	var ok bool
	for i, c := range values {
		if pT[perm[i]], ok = d.toModT(c); !ok {
			return fmt.Errorf("%w: values[%d]=%d is out of range for T=%d", ErrInvalidValue, i, c, ecd.ringT.Modulus)
		}
	}

	// Zeroes the non-mapped coefficients
	for i := len(values); i < slots; i++ {
		pT[perm[i]] = 0
	}

	ecd.ringT.INTT(pT, pT)

	pt.Set(pT)

	return
}

// decodeDomain evaluates pt, permutes the evaluations from the NTT positions
// to the slots and maps them from Z_T to the domain.
func decodeDomain[T he.Integer](ecd Encoder, d domain[T], pt *rlwe.Plaintext, values *[]T, pool *ring.BufferPool) (err error) {

	if err = ecd.checkPool(pool); err != nil {
		return
	}

	if err = ecd.checkPlaintext(pt); err != nil {
		return
	}

	buff := pool.GetBuffUintArray()
	defer pool.RecycleBuffUintArray(buff)
	pT := *buff

	n := copy(pT, pt.Value)
	for i := n; i < len(pT); i++ {
		pT[i] = 0
	}

	ecd.ringT.NTT(pT, pT)

	slots := ecd.Slots()

	out := *values
	if cap(out) < slots {
		out = make([]T, slots)
	}
	out = out[:slots]

	for j, i := range ecd.inverseMatrix {
		out[i] = d.fromModT(pT[j])
	}

	*values = out

	return
}

// domain maps the values of an integer type to and from Z_T.
type domain[T he.Integer] interface {
	// toModT returns the representative of v in [0, T-1], and false if v is out of range.
	toModT(v T) (c uint64, ok bool)
	// fromModT returns the value represented by c in [0, T-1].
	fromModT(c uint64) T
}

// unsignedDomain is the range [0, T-1].
type unsignedDomain struct {
	t uint64
}

func (d unsignedDomain) toModT(v uint64) (uint64, bool) {
	return v, v < d.t
}

func (d unsignedDomain) fromModT(c uint64) uint64 {
	return c
}

// signedDomain is the range [-(T-1)/2, (T-1)/2].
type signedDomain struct {
	t     uint64
	bound uint64
}

func newSignedDomain(t uint64) signedDomain {
	return signedDomain{t: t, bound: (t - 1) >> 1}
}

func (d signedDomain) toModT(v int64) (uint64, bool) {

	if v >= 0 {
		return uint64(v), uint64(v) <= d.bound
	}

	// -math.MinInt64 wraps to math.MinInt64, whose unsigned value is its absolute value.
	abs := uint64(-v)

	return d.t - abs, abs <= d.bound
}

func (d signedDomain) fromModT(c uint64) int64 {
	if c > d.bound {
		return int64(c) - int64(d.t)
	}
	return int64(c)
}
