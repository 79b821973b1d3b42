package heint_test

import (
	"slices"
	"testing"

	"github.com/Pro7ech/batching/he/heint"
	"github.com/Pro7ech/batching/ring"
	"github.com/Pro7ech/batching/rlwe"
	"github.com/stretchr/testify/require"
)

func testEvaluator(tc *testContext, t *testing.T) {

	slots := tc.encoder.Slots()
	rT := tc.encoder.Ring()
	T := rT.Modulus
	eval := tc.eval

	// values returns two encoded vectors and their slots.
	values := func(t *testing.T) (v0, v1 []uint64, pt0, pt1 *rlwe.Plaintext) {
		v0 = newTestVector(tc, t, slots)
		v1 = newTestVector(tc, t, slots)
		return v0, v1, encodeNew(tc, t, v0), encodeNew(tc, t, v1)
	}

	t.Run(GetTestName("Evaluator/Add", tc.params), func(t *testing.T) {
		v0, v1, pt0, pt1 := values(t)
		require.NoError(t, eval.Add(pt0, pt1, pt0))
		have := decodeNew(tc, t, pt0)
		for i := range v0 {
			require.Equal(t, (v0[i]+v1[i])%T, have[i])
		}
	})

	t.Run(GetTestName("Evaluator/Sub", tc.params), func(t *testing.T) {
		v0, v1, pt0, pt1 := values(t)
		ptOut := heint.NewPlaintext()
		require.NoError(t, eval.Sub(pt0, pt1, ptOut))
		have := decodeNew(tc, t, ptOut)
		for i := range v0 {
			require.Equal(t, (v0[i]+T-v1[i])%T, have[i])
		}

		// x - x = 0
		require.NoError(t, eval.Sub(pt0, pt0, pt0))
		require.True(t, pt0.IsZero())
	})

	t.Run(GetTestName("Evaluator/Neg", tc.params), func(t *testing.T) {
		v0, _, pt0, _ := values(t)
		require.NoError(t, eval.Neg(pt0, pt0))
		have := decodeNew(tc, t, pt0)
		for i := range v0 {
			require.Equal(t, (T-v0[i])%T, have[i])
		}
	})

	t.Run(GetTestName("Evaluator/AddScalar", tc.params), func(t *testing.T) {
		v0, _, pt0, _ := values(t)
		scalar := T + 3
		ptOut := heint.NewPlaintext()
		require.NoError(t, eval.AddScalar(pt0, scalar, ptOut))
		have := decodeNew(tc, t, ptOut)
		for i := range v0 {
			require.Equal(t, (v0[i]+3%T)%T, have[i])
		}

		// Only the constant coefficient changes
		for i := 1; i < max(pt0.Len(), ptOut.Len()); i++ {
			require.Equal(t, pt0.At(i), ptOut.At(i))
		}

		// Wrap-around of the constant coefficient
		require.NoError(t, eval.AddScalar(rlwe.NewPlaintextFromCoefficients([]uint64{T - 1}), T-1, ptOut))
		require.Equal(t, rlwe.NewPlaintextFromCoefficients([]uint64{T - 2}).String(), ptOut.String())
	})

	t.Run(GetTestName("Evaluator/MulScalar", tc.params), func(t *testing.T) {
		v0, _, pt0, _ := values(t)
		scalar := T - 2
		require.NoError(t, eval.MulScalar(pt0, scalar, pt0))
		have := decodeNew(tc, t, pt0)
		for i := range v0 {
			require.Equal(t, ring.BRed(v0[i], scalar, T, rT.BRedConstant), have[i])
		}
	})

	t.Run(GetTestName("Evaluator/Mul", tc.params), func(t *testing.T) {

		v0, v1, pt0, pt1 := values(t)

		ptOut := heint.NewPlaintext()
		require.NoError(t, eval.Mul(pt0, pt1, ptOut))
		have := decodeNew(tc, t, ptOut)
		for i := range v0 {
			require.Equal(t, ring.BRed(v0[i], v1[i], T, rT.BRedConstant), have[i])
		}

		// Squaring in place
		require.NoError(t, eval.Mul(pt0, pt0, pt0))
		have = decodeNew(tc, t, pt0)
		for i := range v0 {
			require.Equal(t, ring.BRed(v0[i], v0[i], T, rT.BRedConstant), have[i])
		}
	})

	t.Run(GetTestName("Evaluator/RotateColumns", tc.params), func(t *testing.T) {

		v0, _, pt0, _ := values(t)

		halfN := max(slots>>1, 1)
		row0, row1 := v0[:slots>>1], v0[slots>>1:]

		for _, k := range []int{0, 1, 3, -1, -5, halfN + 2} {

			ptOut := heint.NewPlaintext()
			require.NoError(t, eval.RotateColumns(pt0, k, ptOut))

			// Left rotation of each row by k
			want := append(rotate(row0, k), rotate(row1, k)...)
			require.True(t, slices.Equal(want, decodeNew(tc, t, ptOut)), "k=%d", k)
		}
	})

	t.Run(GetTestName("Evaluator/RotateRows", tc.params), func(t *testing.T) {

		v0, _, pt0, _ := values(t)

		require.NoError(t, eval.RotateRows(pt0, pt0))

		want := append(slices.Clone(v0[slots>>1:]), v0[:slots>>1]...)
		require.True(t, slices.Equal(want, decodeNew(tc, t, pt0)))

		require.ErrorIs(t, eval.Automorphism(pt0, 2, pt0), heint.ErrInvalidArgument)
	})

	t.Run(GetTestName("Evaluator/Inverse", tc.params), func(t *testing.T) {

		pt, err := eval.RandomInvertible(tc.sampler)
		require.NoError(t, err)

		ok, err := eval.IsInvertible(pt)
		require.NoError(t, err)
		require.True(t, ok)

		inv := heint.NewPlaintext()
		require.NoError(t, eval.Inverse(pt, inv))
		require.NoError(t, eval.Mul(pt, inv, inv))

		// The constant polynomial 1 has all slots equal to 1
		require.Equal(t, "1", inv.String())

		// A zero slot is not invertible
		v := decodeNew(tc, t, pt)
		v[slots-1] = 0
		pt = encodeNew(tc, t, v)

		ok, err = eval.IsInvertible(pt)
		require.NoError(t, err)
		require.False(t, ok)

		invCpy := inv.Clone()
		require.ErrorIs(t, eval.Inverse(pt, inv), heint.ErrInvalidValue)
		require.True(t, invCpy.Equal(inv))

		_, err = eval.RandomInvertible(nil)
		require.ErrorIs(t, err, heint.ErrInvalidArgument)
	})

	t.Run(GetTestName("Evaluator/Div", tc.params), func(t *testing.T) {

		v0, _, pt0, _ := values(t)

		pt1, err := eval.RandomInvertible(tc.sampler)
		require.NoError(t, err)
		v1 := decodeNew(tc, t, pt1)

		ptOut := heint.NewPlaintext()
		require.NoError(t, eval.Div(pt0, pt1, ptOut))
		have := decodeNew(tc, t, ptOut)
		for i := range v0 {
			require.Equal(t, v0[i], ring.BRed(have[i], v1[i], T, rT.BRedConstant))
		}

		// x / x = 1
		require.NoError(t, eval.Div(pt1, pt1, pt1))
		require.Equal(t, "1", pt1.String())

		// Division by a zero slot
		v1[0] = 0
		pt1 = encodeNew(tc, t, v1)
		ptCpy := ptOut.Clone()
		require.ErrorIs(t, eval.Div(pt0, pt1, ptOut), heint.ErrInvalidValue)
		require.True(t, ptCpy.Equal(ptOut))

		require.ErrorIs(t, eval.Div(pt0, nil, ptOut), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.Div(nil, pt0, ptOut), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.Div(pt0, pt0, nil), heint.ErrInvalidArgument)
	})

	t.Run(GetTestName("Evaluator/RandomNonZero", tc.params), func(t *testing.T) {

		for range 4 {
			pt, err := eval.RandomNonZero(tc.sampler)
			require.NoError(t, err)
			require.False(t, pt.IsZero())
			require.LessOrEqual(t, pt.Len(), slots)
			for _, c := range pt.Value {
				require.Less(t, c, T)
			}
		}

		_, err := eval.RandomNonZero(nil)
		require.ErrorIs(t, err, heint.ErrInvalidArgument)
	})

	t.Run(GetTestName("Evaluator/Errors", tc.params), func(t *testing.T) {

		pt := encodeNew(tc, t, []uint64{1, 2})
		out := pt.Clone()

		require.ErrorIs(t, eval.Add(nil, pt, out), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.Add(pt, nil, out), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.Mul(pt, pt, nil), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.Neg(pt, nil), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.RotateRows(nil, out), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.Inverse(pt, nil), heint.ErrInvalidArgument)

		_, err := eval.IsInvertible(nil)
		require.ErrorIs(t, err, heint.ErrInvalidArgument)

		// Coefficients out of range
		bad := rlwe.NewPlaintextFromCoefficients([]uint64{T})
		require.ErrorIs(t, eval.Sub(pt, bad, out), heint.ErrInvalidArgument)
		require.ErrorIs(t, eval.MulScalar(bad, 2, out), heint.ErrInvalidArgument)

		require.True(t, out.Equal(pt))
	})
}

// rotate returns v rotated by k positions to the left.
func rotate(v []uint64, k int) (r []uint64) {
	n := len(v)
	r = make([]uint64, n)
	if n == 0 {
		return
	}
	k %= n
	if k < 0 {
		k += n
	}
	for i := range v {
		r[i] = v[(i+k)%n]
	}
	return
}
