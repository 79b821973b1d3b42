package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// MaxModulusBits is the maximum bit-size of a modulus supported by the [Ring].
const MaxModulusBits = 61

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// IsNTTFriendly returns true if q is a prime and q = 1 mod NthRoot,
// i.e. if Z_q admits a primitive NthRoot-th root of unity.
// NthRoot must be a power of two.
func IsNTTFriendly(q, NthRoot uint64) bool {
	return q > 1 && q&(NthRoot-1) == 1 && IsPrime(q)
}

// NextNTTPrime returns the smallest NthRoot NTT prime strictly greater than q.
// The input q must be congruent to 1 mod NthRoot.
func NextNTTPrime(q, NthRoot uint64) (qNext uint64, err error) {

	if q&(NthRoot-1) != 1 {
		return 0, fmt.Errorf("cannot NextNTTPrime: q=%d != 1 mod NthRoot=%d", q, NthRoot)
	}

	for qNext = q + NthRoot; bits.Len64(qNext) <= MaxModulusBits; qNext += NthRoot {
		if IsPrime(qNext) {
			return
		}
	}

	return 0, fmt.Errorf("cannot NextNTTPrime: next NTT prime exceeds the maximum bit-size of %d bits", MaxModulusBits)
}

// PreviousNTTPrime returns the largest NthRoot NTT prime strictly smaller than q.
// The input q must be congruent to 1 mod NthRoot.
func PreviousNTTPrime(q, NthRoot uint64) (qPrev uint64, err error) {

	if q&(NthRoot-1) != 1 {
		return 0, fmt.Errorf("cannot PreviousNTTPrime: q=%d != 1 mod NthRoot=%d", q, NthRoot)
	}

	for qPrev = q; qPrev > NthRoot+1; {
		if qPrev -= NthRoot; IsPrime(qPrev) {
			return
		}
	}

	return 0, fmt.Errorf("cannot PreviousNTTPrime: previous NTT prime is smaller than NthRoot")
}

// GenerateNTTPrimes generates n distinct NthRoot NTT-friendly primes of bit-size
// close to logQ, alternating between upward and downward from 2^logQ.
func GenerateNTTPrimes(logQ int, NthRoot uint64, n int) (primes []uint64, err error) {

	if logQ < 2 || logQ > MaxModulusBits {
		return nil, fmt.Errorf("cannot GenerateNTTPrimes: logQ=%d must be in [2, %d]", logQ, MaxModulusBits)
	}

	base := uint64(1)<<logQ + 1

	primes = make([]uint64, 0, n)

	if n > 0 && IsNTTFriendly(base, NthRoot) {
		primes = append(primes, base)
	}

	next, prev := base, base
	checkNext, checkPrev := true, true

	for len(primes) < n {

		if !(checkNext || checkPrev) {
			return nil, fmt.Errorf("cannot GenerateNTTPrimes: not enough primes for logQ=%d and NthRoot=%d", logQ, NthRoot)
		}

		if checkNext {
			if p, err := NextNTTPrime(next, NthRoot); err != nil {
				checkNext = false
			} else {
				primes = append(primes, p)
				next = p
			}
		}

		if checkPrev && len(primes) < n {
			if p, err := PreviousNTTPrime(prev, NthRoot); err != nil {
				checkPrev = false
			} else {
				primes = append(primes, p)
				prev = p
			}
		}
	}

	return
}
