package ring

import (
	"encoding/binary"
	"fmt"

	"github.com/Pro7ech/batching/utils/sampling"
)

// UniformSampler samples coefficients uniformly at random in [0, Modulus-1]
// by masked rejection sampling over the bytes of a [sampling.PRNG].
// A UniformSampler must not be used concurrently.
type UniformSampler struct {
	prng    sampling.PRNG
	modulus uint64
	mask    uint64
	buff    [1024]byte
	ptr     int
}

// NewUniformSampler creates a new [UniformSampler] for the modulus of the given ring.
func NewUniformSampler(prng sampling.PRNG, r *Ring) *UniformSampler {
	return &UniformSampler{
		prng:    prng,
		modulus: r.Modulus,
		mask:    r.Mask,
		ptr:     1024,
	}
}

// Read samples uniform values in [0, Modulus-1] on pol.
func (s *UniformSampler) Read(pol []uint64) (err error) {

	var v uint64

	for i := range pol {

		for {

			if s.ptr == len(s.buff) {
				if _, err = s.prng.Read(s.buff[:]); err != nil {
					return fmt.Errorf("cannot UniformSampler.Read: %w", err)
				}
				s.ptr = 0
			}

			v = binary.LittleEndian.Uint64(s.buff[s.ptr:s.ptr+8]) & s.mask
			s.ptr += 8

			if v < s.modulus {
				break
			}
		}

		pol[i] = v
	}

	return
}

// ReadNew samples a new slice of n uniform values in [0, Modulus-1].
func (s *UniformSampler) ReadNew(n int) (pol []uint64, err error) {
	pol = make([]uint64, n)
	return pol, s.Read(pol)
}
