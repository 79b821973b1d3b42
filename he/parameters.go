package he

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/Pro7ech/batching/utils/buffer"
	"github.com/google/go-cmp/cmp"
)

const (
	// MinLogN is the log2 of the smallest supported ring degree.
	MinLogN = 1
	// MaxLogN is the log2 of the largest supported ring degree.
	MaxLogN = 17
	// GaloisGen is an integer of order N/2 modulo 2N that spans Z_{2N} with the integer -1.
	// The j-th ring automorphism takes the root zeta to zeta^(GaloisGen^j).
	GaloisGen uint64 = 5
)

// Parameters represents a checked parameter set of a scheme context. Its fields are
// private and immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	scheme Scheme
	logN   int
	t      uint64
}

// NewParametersFromLiteral instantiate a set of parameters from a [ParametersLiteral] specification.
// It returns the empty parameters Parameters{} and a non-nil error if the specified parameters are invalid.
//
// The scheme must be valid, LogN must be in [MinLogN, MaxLogN] and, for the integer
// scheme, T must be at least 2. The plaintext modulus is ignored by the approximate scheme.
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {

	if !pl.Scheme.IsValid() {
		return Parameters{}, fmt.Errorf("invalid parameters: invalid scheme %s", pl.Scheme)
	}

	if pl.LogN < MinLogN || pl.LogN > MaxLogN {
		return Parameters{}, fmt.Errorf("invalid parameters: LogN=%d must be in [%d, %d]", pl.LogN, MinLogN, MaxLogN)
	}

	var t uint64
	if pl.Scheme == SchemeInteger {
		if pl.T < 2 {
			return Parameters{}, fmt.Errorf("invalid parameters: T=%d must be at least 2", pl.T)
		}
		t = pl.T
	}

	return Parameters{
		scheme: pl.Scheme,
		logN:   pl.LogN,
		t:      t,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Scheme: p.scheme,
		LogN:   p.logN,
		T:      p.t,
	}
}

// Scheme returns the scheme of the parameters.
func (p Parameters) Scheme() Scheme {
	return p.scheme
}

// N returns the ring degree.
func (p Parameters) N() int {
	return 1 << p.logN
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// PlaintextModulus returns the plaintext modulus T, or zero for the approximate scheme.
func (p Parameters) PlaintextModulus() uint64 {
	return p.t
}

// LogPlaintextModulus returns log2(PlaintextModulus).
func (p Parameters) LogPlaintextModulus() float64 {
	return math.Log2(float64(p.t))
}

// GaloisElement returns GaloisGen^k mod 2N, the Galois element of the
// automorphism X -> X^{GaloisGen^k} mod (X^N + 1).
// Negative k are mapped to their inverse.
func (p Parameters) GaloisElement(k int) uint64 {

	N := p.N()
	mask := uint64(2*N - 1)

	// GaloisGen has order N/2 in Z_{2N}^*
	order := max(N>>1, 1)
	k %= order
	if k < 0 {
		k += order
	}

	galEl := uint64(1)
	for base, e := GaloisGen&mask, uint64(k); e > 0; e >>= 1 {
		if e&1 == 1 {
			galEl = (galEl * base) & mask
		}
		base = (base * base) & mask
	}

	return galEl
}

// GaloisElementForColRotation returns the Galois element for generating the
// automorphism phi(k): X -> X^{5^k mod 2N} mod (X^{N} + 1), which acts as a
// column-wise cyclic rotation by k position to the left on batched plaintexts.
//
// Example:
// Recall that batched plaintexts are 2xN/2 matrices, thus given the following
// plaintext matrix:
//
// [a, b, c, d][e, f, g, h]
//
// a rotation by k=3 will change the plaintext to:
//
// [d, a, b, c][h, e, f, g]
//
// Providing a negative k will change direction of the cyclic rotation to the right.
func (p Parameters) GaloisElementForColRotation(k int) uint64 {
	return p.GaloisElement(k)
}

// GaloisElementForRowRotation returns the Galois element for generating the
// automorphism X -> X^{-1 mod 2N} mod (X^{N} + 1). This automorphism
// acts as a swapping the rows of the plaintext algebra when the plaintext
// is batched.
//
// Example:
// Recall that batched plaintexts are 2xN/2 matrices, thus given the following
// plaintext matrix:
//
// [a, b, c, d][e, f, g, h]
//
// a row rotation will change the plaintext to:
//
// [e, f, g, h][a, b, c, d]
func (p Parameters) GaloisElementForRowRotation() uint64 {
	return uint64(2*p.N() - 1)
}

// Equal compares two sets of parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return other != nil && cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// BinarySize returns the serialized size of the object in bytes.
func (p Parameters) BinarySize() int {
	return p.ParametersLiteral().BinarySize()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	return p.ParametersLiteral().WriteTo(w)
}

// ReadFrom reads on the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	var paramsLit ParametersLiteral
	if n, err = paramsLit.ReadFrom(r); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(paramsLit)
	return
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p Parameters) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See `Marshal` from the `encoding/json` package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See `Unmarshal` from the `encoding/json` package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
