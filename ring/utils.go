package ring

// EvalPolyModP evaluates y = sum poly[i] * x^{i} mod p.
func EvalPolyModP(x uint64, poly []uint64, p uint64) (y uint64) {

	if len(poly) == 0 {
		return 0
	}

	brc := GetBRedConstant(p)
	y = BRedAdd(poly[len(poly)-1], p, brc)
	for i := len(poly) - 2; i >= 0; i-- {
		y = BRed(y, x, p, brc)
		y = CRed(y+BRedAdd(poly[i], p, brc), p)
	}

	return
}

// ModExp return y = x^e mod q,
// x and q are required to be at most 64 bits to avoid an overflow.
func ModExp(x, e, q uint64) (y uint64) {

	brc := GetBRedConstant(q)

	y = BRedAdd(1, q, brc)
	x = BRedAdd(x, q, brc)

	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			y = BRed(y, x, q, brc)
		}
		x = BRed(x, x, q, brc)
	}

	return
}

// ModInverse returns x^-1 mod q for a prime q, or zero if x = 0 mod q.
func ModInverse(x, q uint64) uint64 {
	return ModExp(x, q-2, q)
}
