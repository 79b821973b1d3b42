package ring_test

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/Pro7ech/batching/ring"
	"github.com/Pro7ech/batching/utils"
	"github.com/Pro7ech/batching/utils/sampling"
	"github.com/Pro7ech/batching/utils/structs"
	"github.com/stretchr/testify/require"
)

type testParams struct {
	logN    int
	modulus uint64
}

var testParameters = []testParams{
	{logN: 1, modulus: 5},
	{logN: 3, modulus: 17},
	{logN: 6, modulus: 257},
	{logN: 7, modulus: 257},
	{logN: 10, modulus: 0xffc001},
	{logN: 12, modulus: 0x1fffffffffe00001},
}

func testString(opname string, r *ring.Ring) string {
	return fmt.Sprintf("%s/N=%d/Modulus=%d", opname, r.N, r.Modulus)
}

func newTestRing(t *testing.T, p testParams) *ring.Ring {
	r, err := ring.NewRing(1<<p.logN, p.modulus)
	require.NoError(t, err)
	return r
}

func newTestPRNG(t *testing.T) *sampling.KeyedPRNG {
	prng, err := sampling.NewKeyedPRNG([]byte{'r', 'i', 'n', 'g'})
	require.NoError(t, err)
	return prng
}

func TestRing(t *testing.T) {

	for _, p := range testParameters {

		r := newTestRing(t, p)

		testNewRing(t, r)
		testModularReduction(t, r)
		testNTT(t, r)
		testRingOps(t, r)
		testAutomorphism(t, r)
		testUniformSampler(t, r)
		testBufferPool(t, r)
	}

	testNewRingErrors(t)
	testPrimes(t)
	testStats(t)
}

func testNewRing(t *testing.T, r *ring.Ring) {
	t.Run(testString("NewRing", r), func(t *testing.T) {

		q := r.Modulus

		require.Equal(t, uint64(2*r.N), r.NthRoot)
		require.Equal(t, r.N, 1<<r.LogN())
		require.NoError(t, ring.CheckPrimitiveRoot(r.PrimitiveRoot, q, r.Factors))

		// Psi is a primitive 2N-th root of unity
		require.Equal(t, q-1, ring.ModExp(r.Psi, uint64(r.N), q))
		require.Equal(t, uint64(1), ring.ModExp(r.Psi, uint64(2*r.N), q))

		// NInv * N = 1
		NInv := ring.IMForm(r.NInv, q, r.MRedConstant)
		require.Equal(t, uint64(1), new(big.Int).Mod(new(big.Int).Mul(new(big.Int).SetUint64(NInv), big.NewInt(int64(r.N))), new(big.Int).SetUint64(q)).Uint64())

		// Same parameters yield the same tables
		r2, err := ring.NewRing(r.N, q)
		require.NoError(t, err)
		require.Equal(t, r.PrimitiveRoot, r2.PrimitiveRoot)
		require.Equal(t, r.RootsForward, r2.RootsForward)
		require.Equal(t, r.RootsBackward, r2.RootsBackward)
	})
}

func testNewRingErrors(t *testing.T) {
	t.Run("NewRing/Errors", func(t *testing.T) {

		// Not a power of two
		_, err := ring.NewRing(48, 97)
		require.Error(t, err)

		// Too small
		_, err = ring.NewRing(1, 5)
		require.Error(t, err)

		// Not prime, 385 = 5 * 7 * 11 = 1 mod 128
		_, err = ring.NewRing(64, 385)
		require.Error(t, err)

		// Prime but not 1 mod 2N
		_, err = ring.NewRing(64, 193)
		require.Error(t, err)

		// Too large
		_, err = ring.NewRing(64, 0xffffffffffffffc5)
		require.Error(t, err)

		// Even
		_, err = ring.NewRing(64, 2)
		require.Error(t, err)
	})
}

func testModularReduction(t *testing.T, r *ring.Ring) {
	t.Run(testString("ModularReduction", r), func(t *testing.T) {

		q := r.Modulus
		qBig := new(big.Int).SetUint64(q)
		brc := r.BRedConstant
		mrc := r.MRedConstant

		sampler := ring.NewUniformSampler(newTestPRNG(t), r)

		x, err := sampler.ReadNew(256)
		require.NoError(t, err)
		y, err := sampler.ReadNew(256)
		require.NoError(t, err)

		x = append(x, 0, 1, q-1)
		y = append(y, q-1, q-1, q-1)

		tmp := new(big.Int)

		for i := range x {

			want := tmp.Mod(tmp.Mul(new(big.Int).SetUint64(x[i]), new(big.Int).SetUint64(y[i])), qBig).Uint64()

			require.Equal(t, want, ring.BRed(x[i], y[i], q, brc))

			// MRed(MForm(x), y) = x*y
			require.Equal(t, want, ring.MRed(ring.MForm(x[i], q, brc), y[i], q, mrc))

			// IMForm(MForm(x)) = x
			require.Equal(t, x[i], ring.IMForm(ring.MForm(x[i], q, brc), q, mrc))
		}

		for _, a := range []uint64{0, 1, q - 1, q, q + 1, 2*q - 1, math.MaxUint64} {
			require.Equal(t, a%q, ring.BRedAdd(a, q, brc))
		}

		require.Equal(t, uint64(1), ring.ModExp(3, q-1, q))
		require.Equal(t, uint64(0), ring.ModExp(0, 3, q))
		require.Equal(t, uint64(1), ring.ModExp(0, 0, q))

		inv := ring.ModInverse(2, q)
		require.Equal(t, uint64(1), ring.BRed(inv, 2, q, brc))
	})
}

func testNTT(t *testing.T, r *ring.Ring) {

	sampler := ring.NewUniformSampler(newTestPRNG(t), r)

	t.Run(testString("NTT/RoundTrip", r), func(t *testing.T) {

		p0, err := sampler.ReadNew(r.N)
		require.NoError(t, err)

		p1 := r.NewPoly()
		p2 := r.NewPoly()

		r.NTT(p0, p1)
		r.INTT(p1, p2)
		require.Equal(t, p0, p2)

		r.INTT(p0, p1)
		r.NTT(p1, p2)
		require.Equal(t, p0, p2)

		// In place
		copy(p1, p0)
		r.NTT(p1, p1)
		r.INTT(p1, p1)
		require.Equal(t, p0, p1)
	})

	t.Run(testString("NTT/Evaluation", r), func(t *testing.T) {

		p0, err := sampler.ReadNew(r.N)
		require.NoError(t, err)

		p1 := r.NewPoly()
		r.NTT(p0, p1)

		logN := r.LogN()

		for j := 0; j < r.N; j++ {
			x := ring.ModExp(r.Psi, 2*utils.BitReverse64(j, logN)+1, r.Modulus)
			require.Equal(t, ring.EvalPolyModP(x, p0, r.Modulus), p1[j])
		}
	})

	t.Run(testString("NTT/Constant", r), func(t *testing.T) {
		p0 := r.NewPoly()
		for i := range p0 {
			p0[i] = 5 % r.Modulus
		}
		r.INTT(p0, p0)
		require.Equal(t, 5%r.Modulus, p0[0])
		for i := 1; i < r.N; i++ {
			require.Equal(t, uint64(0), p0[i])
		}
	})

	t.Run(testString("NTT/NegacyclicProduct", r), func(t *testing.T) {

		if r.N > 1<<10 {
			t.Skip("schoolbook product too slow")
		}

		p0, err := sampler.ReadNew(r.N)
		require.NoError(t, err)
		p1, err := sampler.ReadNew(r.N)
		require.NoError(t, err)

		want := negacyclicProduct(p0, p1, r.Modulus)

		a := r.NewPoly()
		b := r.NewPoly()
		r.NTT(p0, a)
		r.NTT(p1, b)
		r.MulCoeffsBarrett(a, b, a)
		r.INTT(a, a)

		require.Equal(t, want, a)
	})
}

func negacyclicProduct(p0, p1 []uint64, q uint64) []uint64 {
	N := len(p0)
	qBig := new(big.Int).SetUint64(q)
	acc := make([]*big.Int, N)
	for i := range acc {
		acc[i] = new(big.Int)
	}
	tmp := new(big.Int)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			tmp.Mul(new(big.Int).SetUint64(p0[i]), new(big.Int).SetUint64(p1[j]))
			if k := i + j; k < N {
				acc[k].Add(acc[k], tmp)
			} else {
				acc[k-N].Sub(acc[k-N], tmp)
			}
		}
	}
	out := make([]uint64, N)
	for i := range out {
		out[i] = acc[i].Mod(acc[i], qBig).Uint64()
	}
	return out
}

func testRingOps(t *testing.T, r *ring.Ring) {
	t.Run(testString("Ops", r), func(t *testing.T) {

		sampler := ring.NewUniformSampler(newTestPRNG(t), r)

		p0, err := sampler.ReadNew(r.N)
		require.NoError(t, err)
		p1, err := sampler.ReadNew(r.N)
		require.NoError(t, err)

		q := r.Modulus

		sum := r.NewPoly()
		r.Add(p0, p1, sum)

		diff := r.NewPoly()
		r.Sub(sum, p1, diff)
		require.Equal(t, p0, diff)

		neg := r.NewPoly()
		r.Neg(p0, neg)
		r.Add(neg, p0, neg)
		require.Equal(t, r.NewPoly(), neg)

		scaled := r.NewPoly()
		r.MulScalar(p0, q+3, scaled)
		for i := range p0 {
			require.Equal(t, ring.BRed(p0[i], 3%q, q, r.BRedConstant), scaled[i])
		}

		shifted := r.NewPoly()
		r.AddScalar(p0, q+1, shifted)
		for i := range p0 {
			require.Equal(t, (p0[i]+1)%q, shifted[i])
		}

		lazy := make([]uint64, r.N)
		for i := range lazy {
			lazy[i] = p0[i] + q
		}
		r.Reduce(lazy, lazy)
		require.Equal(t, p0, lazy)

		ones := r.NewPoly()
		for i := range ones {
			ones[i] = 1 + p0[i]%(q-1)
		}
		inv := r.NewPoly()
		require.NoError(t, r.Inverse(ones, inv))
		r.MulCoeffsBarrett(ones, inv, inv)
		for i := range inv {
			require.Equal(t, uint64(1), inv[i])
		}

		zero := r.NewPoly()
		untouched := r.NewPoly()
		untouched[0] = 7
		require.Error(t, r.Inverse(zero, untouched))
		require.Equal(t, uint64(7), untouched[0])
	})
}

func testAutomorphism(t *testing.T, r *ring.Ring) {
	t.Run(testString("Automorphism", r), func(t *testing.T) {

		sampler := ring.NewUniformSampler(newTestPRNG(t), r)

		p0, err := sampler.ReadNew(r.N)
		require.NoError(t, err)

		galEl := uint64(5) % uint64(2*r.N)
		if galEl == 1 {
			galEl = uint64(2*r.N - 1)
		}

		p1 := r.NewPoly()
		r.Automorphism(p0, galEl, p1)

		// p1(x) = p0(x^galEl) for every evaluation point x = Psi^(2k+1)
		for k := uint64(0); k < uint64(r.N); k++ {
			x := ring.ModExp(r.Psi, 2*k+1, r.Modulus)
			xg := ring.ModExp(x, galEl, r.Modulus)
			require.Equal(t, ring.EvalPolyModP(xg, p0, r.Modulus), ring.EvalPolyModP(x, p1, r.Modulus))
		}
	})
}

func testUniformSampler(t *testing.T, r *ring.Ring) {
	t.Run(testString("UniformSampler", r), func(t *testing.T) {

		s0 := ring.NewUniformSampler(newTestPRNG(t), r)
		s1 := ring.NewUniformSampler(newTestPRNG(t), r)

		p0, err := s0.ReadNew(r.N)
		require.NoError(t, err)
		p1, err := s1.ReadNew(r.N)
		require.NoError(t, err)

		require.Equal(t, p0, p1)

		for _, c := range p0 {
			require.Less(t, c, r.Modulus)
		}
	})
}

func testBufferPool(t *testing.T, r *ring.Ring) {
	t.Run(testString("BufferPool", r), func(t *testing.T) {

		pool := ring.NewPool(r)
		require.True(t, pool.IsBound())
		require.Equal(t, r.N, pool.N())

		buff := pool.GetBuffUintArray()
		require.Len(t, *buff, r.N)
		pool.RecycleBuffUintArray(buff)

		// User pool with too short buffers
		short := ring.NewPool(r, structs.NewSyncPoolUint64(1))
		buff = short.GetBuffUintArray()
		require.Len(t, *buff, r.N)
		short.RecycleBuffUintArray(buff)

		// User pool returning nil buffers
		empty := ring.NewPool(r, structs.NewSyncPool(func() *[]uint64 { return nil }))
		buff = empty.GetBuffUintArray()
		require.NotNil(t, buff)
		require.Len(t, *buff, r.N)
		empty.RecycleBuffUintArray(buff)

		var unbound *ring.BufferPool
		require.False(t, unbound.IsBound())
		require.False(t, (&ring.BufferPool{}).IsBound())
	})
}

func testPrimes(t *testing.T) {
	t.Run("Primes", func(t *testing.T) {

		require.True(t, ring.IsPrime(257))
		require.False(t, ring.IsPrime(256))

		require.True(t, ring.IsNTTFriendly(257, 128))
		require.False(t, ring.IsNTTFriendly(257, 512))
		require.False(t, ring.IsNTTFriendly(193, 128))

		next, err := ring.NextNTTPrime(257, 128)
		require.NoError(t, err)
		require.Equal(t, uint64(641), next)

		prev, err := ring.PreviousNTTPrime(641, 128)
		require.NoError(t, err)
		require.Equal(t, uint64(257), prev)

		_, err = ring.PreviousNTTPrime(129, 128)
		require.Error(t, err)

		_, err = ring.NextNTTPrime(256, 128)
		require.Error(t, err)

		primes, err := ring.GenerateNTTPrimes(20, 1<<11, 4)
		require.NoError(t, err)
		require.Len(t, primes, 4)
		require.True(t, utils.AllDistinct(primes))
		for _, p := range primes {
			require.True(t, ring.IsNTTFriendly(p, 1<<11))
		}

		_, err = ring.GenerateNTTPrimes(62, 1<<11, 1)
		require.Error(t, err)

		g, factors, err := ring.PrimitiveRoot(257, nil)
		require.NoError(t, err)
		require.Equal(t, uint64(3), g)
		require.Equal(t, []uint64{2}, factors)

		require.NoError(t, ring.CheckFactors(256, []uint64{2}))
		require.Error(t, ring.CheckFactors(256, []uint64{4}))
		require.Error(t, ring.CheckFactors(12, []uint64{2}))
		require.Error(t, ring.CheckFactors(256, []uint64{2, 2}))
		require.Error(t, ring.CheckPrimitiveRoot(4, 257, []uint64{2}))
	})
}

func testStats(t *testing.T) {
	t.Run("Stats", func(t *testing.T) {
		r, err := ring.NewRing(8, 17)
		require.NoError(t, err)

		s := r.Stats([]uint64{2, 4, 4, 4, 5, 5, 7, 9})
		require.InDelta(t, 1.0, s[0], 1e-9) // std = 2
		require.InDelta(t, 5.0, s[1], 1e-9)

		s = r.Stats(nil)
		require.True(t, math.IsInf(s[0], -1))
	})
}
