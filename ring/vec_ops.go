package ring

// AddVec evaluates p3 = p1 + p2 (mod modulus).
// Inputs must be in [0, modulus-1].
func AddVec(p1, p2, p3 []uint64, modulus uint64) {
	for i := range p1 {
		p3[i] = CRed(p1[i]+p2[i], modulus)
	}
}

// SubVec evaluates p3 = p1 - p2 (mod modulus).
// Inputs must be in [0, modulus-1].
func SubVec(p1, p2, p3 []uint64, modulus uint64) {
	for i := range p1 {
		p3[i] = CRed(p1[i]+modulus-p2[i], modulus)
	}
}

// NegVec evaluates p2 = -p1 (mod modulus).
// Inputs must be in [0, modulus-1].
func NegVec(p1, p2 []uint64, modulus uint64) {
	for i := range p1 {
		p2[i] = CRed(modulus-p1[i], modulus)
	}
}

// BarrettReduceVec evaluates p2 = p1 (mod modulus).
func BarrettReduceVec(p1, p2 []uint64, modulus uint64, bredconstant [2]uint64) {
	for i := range p1 {
		p2[i] = BRedAdd(p1[i], modulus, bredconstant)
	}
}

// MulBarrettReduceVec evaluates p3 = p1 * p2 (mod modulus).
// Inputs must be in [0, modulus-1].
func MulBarrettReduceVec(p1, p2, p3 []uint64, modulus uint64, bredconstant [2]uint64) {
	for i := range p1 {
		p3[i] = BRed(p1[i], p2[i], modulus, bredconstant)
	}
}

// AddScalarVec evaluates p2 = p1 + scalar (mod modulus).
// Inputs must be in [0, modulus-1].
func AddScalarVec(p1 []uint64, scalar uint64, p2 []uint64, modulus uint64) {
	for i := range p1 {
		p2[i] = CRed(p1[i]+scalar, modulus)
	}
}

// MulScalarMontgomeryReduceVec evaluates p2 = p1 * scalarMont (mod modulus).
// Inputs must be in [0, modulus-1] and scalarMont in Montgomery form.
func MulScalarMontgomeryReduceVec(p1 []uint64, scalarMont uint64, p2 []uint64, modulus, mredconstant uint64) {
	for i := range p1 {
		p2[i] = MRed(p1[i], scalarMont, modulus, mredconstant)
	}
}
