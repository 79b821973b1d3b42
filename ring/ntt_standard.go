package ring

import (
	"fmt"
)

func NewNumberTheoreticTransformerStandard(r *Ring, n int) NumberTheoreticTransformer {
	return NumberTheoreticTransformerStandard{
		numberTheoreticTransformerBase: numberTheoreticTransformerBase{
			N:            n,
			Modulus:      r.Modulus,
			MRedConstant: r.MRedConstant,
			BRedConstant: r.BRedConstant,
			NTTTable:     r.NTTTable,
		},
	}
}

// Forward writes the forward NTT in Z[X]/(X^N+1) of p1 on p2.
func (rntt NumberTheoreticTransformerStandard) Forward(p1, p2 []uint64) {
	NTTStandard(p1, p2, rntt.N, rntt.Modulus, rntt.MRedConstant, rntt.RootsForward)
}

// Backward writes the backward NTT in Z[X]/(X^N+1) of p1 on p2.
func (rntt NumberTheoreticTransformerStandard) Backward(p1, p2 []uint64) {
	INTTStandard(p1, p2, rntt.N, rntt.NInv, rntt.Modulus, rntt.MRedConstant, rntt.RootsBackward)
}

// NTTStandard computes the forward NTT with the Cooley-Tukey butterfly.
// Input coefficients must be in [0, Q-1]; outputs are in [0, Q-1].
func NTTStandard(p1, p2 []uint64, N int, Q, MRedConstant uint64, roots []uint64) {

	// Sanity check
	if len(p1) < N || len(p2) < N || len(roots) < N {
		panic(fmt.Sprintf("cannot NTTStandard: ensure that len(p1)=%d, len(p2)=%d and len(roots)=%d >= N=%d", len(p1), len(p2), len(roots), N))
	}

	if &p1[0] != &p2[0] {
		copy(p2[:N], p1[:N])
	}

	var j1, j2, t int
	var F uint64

	t = N

	for m := 1; m < N; m <<= 1 {

		t >>= 1

		for i := 0; i < m; i++ {

			j1 = (i * t) << 1

			j2 = j1 + t

			F = roots[m+i]

			for jx, jy := j1, j1+t; jx < j2; jx, jy = jx+1, jy+1 {
				p2[jx], p2[jy] = butterfly(p2[jx], p2[jy], F, Q, MRedConstant)
			}
		}
	}
}

// INTTStandard computes the backward NTT with the Gentleman-Sande butterfly,
// followed by the multiplication by N^-1.
// Input coefficients must be in [0, Q-1]; outputs are in [0, Q-1].
func INTTStandard(p1, p2 []uint64, N int, NInv, Q, MRedConstant uint64, roots []uint64) {

	// Sanity check
	if len(p1) < N || len(p2) < N || len(roots) < N {
		panic(fmt.Sprintf("cannot INTTStandard: ensure that len(p1)=%d, len(p2)=%d and len(roots)=%d >= N=%d", len(p1), len(p2), len(roots), N))
	}

	if &p1[0] != &p2[0] {
		copy(p2[:N], p1[:N])
	}

	var j1, j2, h, t int
	var F uint64

	t = 1

	for m := N; m > 1; m >>= 1 {

		j1 = 0
		h = m >> 1

		for i := 0; i < h; i++ {

			j2 = j1 + t

			F = roots[h+i]

			for jx, jy := j1, j1+t; jx < j2; jx, jy = jx+1, jy+1 {
				p2[jx], p2[jy] = invbutterfly(p2[jx], p2[jy], F, Q, MRedConstant)
			}

			j1 = j1 + (t << 1)
		}

		t <<= 1
	}

	for i := range p2[:N] {
		p2[i] = MRed(p2[i], NInv, Q, MRedConstant)
	}
}

// butterfly computes X, Y = U + V*Psi, U - V*Psi mod Q.
func butterfly(U, V, Psi, Q, MRedConstant uint64) (X, Y uint64) {
	V = MRed(V, Psi, Q, MRedConstant)
	return CRed(U+V, Q), CRed(U+Q-V, Q)
}

// invbutterfly computes X, Y = U + V, (U - V) * Psi mod Q.
func invbutterfly(U, V, Psi, Q, MRedConstant uint64) (X, Y uint64) {
	return CRed(U+V, Q), MRed(U+Q-V, Psi, Q, MRedConstant)
}
