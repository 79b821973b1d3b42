package heint

import (
	"fmt"
	"slices"

	"github.com/Pro7ech/batching/he"
	"github.com/Pro7ech/batching/ring"
	"github.com/Pro7ech/batching/rlwe"
)

// Evaluator is a struct that holds the necessary elements to execute slot-wise
// operations on batched plaintexts, that is ring operations in Z_T[X]/(X^N+1).
//
// All methods accept an output aliasing one of the inputs. Operands are checked
// against N and T and outputs are left untouched if an error is returned.
// An Evaluator can be used concurrently.
type Evaluator struct {
	*Encoder
}

// NewEvaluator instantiates a new [Evaluator] for the given parameters.
// It returns the same errors as [NewEncoder].
func NewEvaluator(parameters he.Parameters) (eval *Evaluator, err error) {
	var ecd *Encoder
	if ecd, err = NewEncoder(parameters); err != nil {
		return nil, fmt.Errorf("cannot NewEvaluator: %w", err)
	}
	return &Evaluator{Encoder: ecd}, nil
}

// GetEncoder returns the encoder of the evaluator.
func (eval Evaluator) GetEncoder() *Encoder {
	return eval.Encoder
}

// Add evaluates opOut = op0 + op1.
func (eval Evaluator) Add(op0, op1, opOut *rlwe.Plaintext) (err error) {
	if err = eval.evaluate(op0, op1, opOut, eval.ringT.Add); err != nil {
		return fmt.Errorf("cannot Add: %w", err)
	}
	return
}

// Sub evaluates opOut = op0 - op1.
func (eval Evaluator) Sub(op0, op1, opOut *rlwe.Plaintext) (err error) {
	if err = eval.evaluate(op0, op1, opOut, eval.ringT.Sub); err != nil {
		return fmt.Errorf("cannot Sub: %w", err)
	}
	return
}

// Neg evaluates opOut = -op0.
func (eval Evaluator) Neg(op0, opOut *rlwe.Plaintext) (err error) {
	if err = eval.evaluateUnary(op0, opOut, eval.ringT.Neg); err != nil {
		return fmt.Errorf("cannot Neg: %w", err)
	}
	return
}

// AddScalar evaluates opOut = op0 + scalar, which adds scalar to every slot.
// The scalar is reduced modulo T.
func (eval Evaluator) AddScalar(op0 *rlwe.Plaintext, scalar uint64, opOut *rlwe.Plaintext) (err error) {
	if err = eval.evaluateUnary(op0, opOut, func(p1, p2 []uint64) {
		// The constant polynomial scalar evaluates to scalar everywhere.
		copy(p2, p1)
		eval.ringT.AddScalar(p1[:1], scalar, p2[:1])
	}); err != nil {
		return fmt.Errorf("cannot AddScalar: %w", err)
	}
	return
}

// MulScalar evaluates opOut = op0 * scalar, which multiplies every slot by scalar.
// The scalar is reduced modulo T.
func (eval Evaluator) MulScalar(op0 *rlwe.Plaintext, scalar uint64, opOut *rlwe.Plaintext) (err error) {
	if err = eval.evaluateUnary(op0, opOut, func(p1, p2 []uint64) {
		eval.ringT.MulScalar(p1, scalar, p2)
	}); err != nil {
		return fmt.Errorf("cannot MulScalar: %w", err)
	}
	return
}

// Mul evaluates opOut = op0 * op1 in Z_T[X]/(X^N+1), which multiplies the slots pair-wise.
func (eval Evaluator) Mul(op0, op1, opOut *rlwe.Plaintext) (err error) {
	if err = eval.evaluateNTT(op0, op1, opOut, eval.ringT.MulCoeffsBarrett); err != nil {
		return fmt.Errorf("cannot Mul: %w", err)
	}
	return
}

// Div evaluates opOut = op0 * op1^-1 in Z_T[X]/(X^N+1), which divides the slots pair-wise.
// It returns an error wrapping [ErrInvalidValue] if a slot of op1 is zero.
func (eval Evaluator) Div(op0, op1, opOut *rlwe.Plaintext) (err error) {

	if op1 == nil {
		return fmt.Errorf("cannot Div: %w: op1 is nil", ErrInvalidArgument)
	}

	if err = eval.checkOperands(op0, op1, opOut); err != nil {
		return fmt.Errorf("cannot Div: %w", err)
	}

	buff0 := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff0)
	buff1 := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff1)

	p0, p1 := *buff0, *buff1

	eval.load(op0, p0)
	eval.load(op1, p1)

	rT := eval.ringT

	rT.NTT(p1, p1)

	if err = rT.Inverse(p1, p1); err != nil {
		return fmt.Errorf("cannot Div: %w: %w", ErrInvalidValue, err)
	}

	rT.NTT(p0, p0)
	rT.MulCoeffsBarrett(p0, p1, p0)
	rT.INTT(p0, p0)

	opOut.Set(p0)

	return
}

// IsInvertible returns true if op0 has an inverse in Z_T[X]/(X^N+1),
// that is, if none of its slots is zero.
func (eval Evaluator) IsInvertible(op0 *rlwe.Plaintext) (ok bool, err error) {

	if err = eval.checkPlaintext(op0); err != nil {
		return false, fmt.Errorf("cannot IsInvertible: %w", err)
	}

	buff := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff)
	p := *buff

	eval.load(op0, p)
	eval.ringT.NTT(p, p)

	for _, c := range p {
		if c == 0 {
			return false, nil
		}
	}

	return true, nil
}

// Inverse evaluates opOut = op0^-1 in Z_T[X]/(X^N+1), which inverts the slots.
// It returns an error wrapping [ErrInvalidValue] if a slot of op0 is zero.
func (eval Evaluator) Inverse(op0, opOut *rlwe.Plaintext) (err error) {

	if err = eval.checkPlaintext(op0); err != nil {
		return fmt.Errorf("cannot Inverse: %w", err)
	}

	if opOut == nil {
		return fmt.Errorf("cannot Inverse: %w: opOut is nil", ErrInvalidArgument)
	}

	buff := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff)
	p := *buff

	eval.load(op0, p)

	rT := eval.ringT

	rT.NTT(p, p)

	if err = rT.Inverse(p, p); err != nil {
		return fmt.Errorf("cannot Inverse: %w: %w", ErrInvalidValue, err)
	}

	rT.INTT(p, p)

	opOut.Set(p)

	return
}

// RotateColumns evaluates opOut = op0(X^{5^k}), which rotates the two rows of
// slots by k positions to the left. Providing a negative k rotates to the right.
// See [he.Parameters.GaloisElementForColRotation].
func (eval Evaluator) RotateColumns(op0 *rlwe.Plaintext, k int, opOut *rlwe.Plaintext) (err error) {
	if err = eval.Automorphism(op0, eval.parameters.GaloisElementForColRotation(k), opOut); err != nil {
		return fmt.Errorf("cannot RotateColumns: %w", err)
	}
	return
}

// RotateRows evaluates opOut = op0(X^{-1}), which swaps the two rows of slots.
// See [he.Parameters.GaloisElementForRowRotation].
func (eval Evaluator) RotateRows(op0, opOut *rlwe.Plaintext) (err error) {
	if err = eval.Automorphism(op0, eval.parameters.GaloisElementForRowRotation(), opOut); err != nil {
		return fmt.Errorf("cannot RotateRows: %w", err)
	}
	return
}

// Automorphism evaluates opOut = op0(X^galEl). The Galois element must be odd.
func (eval Evaluator) Automorphism(op0 *rlwe.Plaintext, galEl uint64, opOut *rlwe.Plaintext) (err error) {

	if galEl&1 == 0 {
		return fmt.Errorf("cannot Automorphism: %w: galEl=%d is even", ErrInvalidArgument, galEl)
	}

	if err = eval.checkPlaintext(op0); err != nil {
		return fmt.Errorf("cannot Automorphism: %w", err)
	}

	if opOut == nil {
		return fmt.Errorf("cannot Automorphism: %w: opOut is nil", ErrInvalidArgument)
	}

	buff0 := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff0)
	buff1 := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff1)

	eval.load(op0, *buff0)
	eval.ringT.Automorphism(*buff0, galEl, *buff1)

	opOut.Set(*buff1)

	return
}

// RandomInvertible samples a plaintext whose slots are uniform in [1, T-1],
// which is therefore invertible.
func (eval Evaluator) RandomInvertible(sampler *ring.UniformSampler) (pt *rlwe.Plaintext, err error) {

	if sampler == nil {
		return nil, fmt.Errorf("cannot RandomInvertible: %w: sampler is nil", ErrInvalidArgument)
	}

	buff := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff)
	p := *buff

	if err = sampler.Read(p); err != nil {
		return nil, fmt.Errorf("cannot RandomInvertible: %w", err)
	}

	// Resamples the zero slots
	for i := range p {
		for p[i] == 0 {
			if err = sampler.Read(p[i : i+1]); err != nil {
				return nil, fmt.Errorf("cannot RandomInvertible: %w", err)
			}
		}
	}

	eval.ringT.INTT(p, p)

	return rlwe.NewPlaintextFromCoefficients(p), nil
}

// RandomNonZero samples a uniform plaintext of Z_T[X]/(X^N+1) different from zero.
// Unlike [Evaluator.RandomInvertible], some of its slots can be zero.
func (eval Evaluator) RandomNonZero(sampler *ring.UniformSampler) (pt *rlwe.Plaintext, err error) {

	if sampler == nil {
		return nil, fmt.Errorf("cannot RandomNonZero: %w: sampler is nil", ErrInvalidArgument)
	}

	buff := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff)
	p := *buff

	for {
		if err = sampler.Read(p); err != nil {
			return nil, fmt.Errorf("cannot RandomNonZero: %w", err)
		}

		if slices.ContainsFunc(p, func(c uint64) bool { return c != 0 }) {
			return rlwe.NewPlaintextFromCoefficients(p), nil
		}
	}
}

// load copies op0 on p and zeroes the remaining coefficients.
func (eval Evaluator) load(op0 *rlwe.Plaintext, p []uint64) {
	n := copy(p, op0.Value)
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
}

func (eval Evaluator) checkOperands(op0, op1, opOut *rlwe.Plaintext) (err error) {

	if err = eval.checkPlaintext(op0); err != nil {
		return fmt.Errorf("op0: %w", err)
	}

	if op1 != nil {
		if err = eval.checkPlaintext(op1); err != nil {
			return fmt.Errorf("op1: %w", err)
		}
	}

	if opOut == nil {
		return fmt.Errorf("%w: opOut is nil", ErrInvalidArgument)
	}

	return
}

// checkPlaintext is the same as [Encoder.checkPlaintext] but also rejects nil.
func (eval Evaluator) checkPlaintext(pt *rlwe.Plaintext) (err error) {
	if pt == nil {
		return fmt.Errorf("%w: plaintext is nil", ErrInvalidArgument)
	}
	return eval.Encoder.checkPlaintext(pt)
}

// evaluate applies a coefficient-wise binary operation.
func (eval Evaluator) evaluate(op0, op1, opOut *rlwe.Plaintext, f func(p1, p2, p3 []uint64)) (err error) {

	if op1 == nil {
		return fmt.Errorf("%w: op1 is nil", ErrInvalidArgument)
	}

	if err = eval.checkOperands(op0, op1, opOut); err != nil {
		return
	}

	buff0 := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff0)
	buff1 := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff1)

	eval.load(op0, *buff0)
	eval.load(op1, *buff1)

	f(*buff0, *buff1, *buff0)

	opOut.Set(*buff0)

	return
}

// evaluateNTT applies a slot-wise binary operation in the NTT domain.
func (eval Evaluator) evaluateNTT(op0, op1, opOut *rlwe.Plaintext, f func(p1, p2, p3 []uint64)) (err error) {
	return eval.evaluate(op0, op1, opOut, func(p1, p2, p3 []uint64) {
		rT := eval.ringT
		rT.NTT(p1, p1)
		rT.NTT(p2, p2)
		f(p1, p2, p3)
		rT.INTT(p3, p3)
	})
}

// evaluateUnary applies a coefficient-wise unary operation.
func (eval Evaluator) evaluateUnary(op0, opOut *rlwe.Plaintext, f func(p1, p2 []uint64)) (err error) {

	if err = eval.checkOperands(op0, nil, opOut); err != nil {
		return
	}

	buff := eval.pool.GetBuffUintArray()
	defer eval.pool.RecycleBuffUintArray(buff)

	eval.load(op0, *buff)

	f(*buff, *buff)

	opOut.Set(*buff)

	return
}
