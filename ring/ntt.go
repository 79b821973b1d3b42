package ring

// NumberTheoreticTransformer is an interface to provide
// flexibility on what type of NTT is used by the struct Ring.
type NumberTheoreticTransformer interface {
	Forward(p1, p2 []uint64)
	Backward(p1, p2 []uint64)
}

type numberTheoreticTransformerBase struct {
	*NTTTable
	N            int
	Modulus      uint64
	MRedConstant uint64
	BRedConstant [2]uint64
}

// NumberTheoreticTransformerStandard computes the standard nega-cyclic NTT in the ring Z[X]/(X^N+1).
type NumberTheoreticTransformerStandard struct {
	numberTheoreticTransformerBase
}

// NTTTable store all the constants that are specifically tied to the NTT.
type NTTTable struct {
	NthRoot       uint64   // Nthroot used for the NTT
	PrimitiveRoot uint64   // Generator of Z_q^*
	Psi           uint64   // Primitive NthRoot-th root of unity
	RootsForward  []uint64 // powers of the NthRoot-th primitive root in Montgomery form (in bit-reversed order)
	RootsBackward []uint64 // powers of the inverse of the NthRoot-th primitive root in Montgomery form (in bit-reversed order)
	NInv          uint64   // [N^-1] mod Modulus in Montgomery form
}

// NTT evaluates p2 = NTT(p1).
// Position j of the output holds the evaluation of p1 at Psi^(2*brv(j)+1),
// where brv is the bit-reversal over log2(N) bits.
func (r Ring) NTT(p1, p2 []uint64) {
	r.Forward(p1, p2)
}

// INTT evaluates p2 = INTT(p1).
func (r Ring) INTT(p1, p2 []uint64) {
	r.Backward(p1, p2)
}
