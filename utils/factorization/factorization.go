// Package factorization implements the integer factorization needed to
// find primitive roots modulo an NTT-friendly prime.
package factorization

import (
	"math/big"
	"slices"
)

// trialDivisionBound is the largest divisor tested by trial division
// before switching to Pollard's rho.
const trialDivisionBound = 1 << 12

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(m *big.Int) bool {
	return m.ProbablyPrime(0)
}

// GetFactors returns all the distinct prime factors of m, in increasing order.
func GetFactors(m *big.Int) (factors []*big.Int) {

	if m.Cmp(big.NewInt(1)) <= 0 {
		return nil
	}

	n := new(big.Int).Set(m)
	d := new(big.Int)
	r := new(big.Int)

	for i := int64(2); i < trialDivisionBound; i++ {

		d.SetInt64(i)

		if new(big.Int).Mul(d, d).Cmp(n) > 0 {
			break
		}

		if r.Mod(n, d).Sign() == 0 {
			factors = appendUnique(factors, d)
			for r.Mod(n, d).Sign() == 0 {
				n.Quo(n, d)
			}
		}
	}

	// Splits the remaining cofactor until only primes are left.
	composites := []*big.Int{n}

	for len(composites) != 0 {

		c := composites[len(composites)-1]
		composites = composites[:len(composites)-1]

		if c.Cmp(big.NewInt(1)) == 0 {
			continue
		}

		if IsPrime(c) {
			factors = appendUnique(factors, c)
			continue
		}

		p := GetFactorPollardRho(c)
		composites = append(composites, p, new(big.Int).Quo(c, p))
	}

	slices.SortFunc(factors, func(a, b *big.Int) int {
		return a.Cmp(b)
	})

	return
}

// GetFactorPollardRho returns a non-trivial factor of m using Pollard's rho
// algorithm with Floyd's cycle detection.
// The input m must be composite.
func GetFactorPollardRho(m *big.Int) (d *big.Int) {

	if m.Bit(0) == 0 {
		return big.NewInt(2)
	}

	one := big.NewInt(1)

	f := func(x, c *big.Int) {
		x.Mul(x, x)
		x.Add(x, c)
		x.Mod(x, m)
	}

	diff := new(big.Int)

	for c := int64(1); ; c++ {

		x := big.NewInt(2)
		y := big.NewInt(2)
		cBig := big.NewInt(c)
		d = big.NewInt(1)

		for d.Cmp(one) == 0 {
			f(x, cBig)
			f(y, cBig)
			f(y, cBig)
			diff.Sub(x, y)
			diff.Abs(diff)
			d.GCD(nil, nil, diff, m)
		}

		if d.Cmp(m) != 0 {
			return
		}
	}
}

func appendUnique(factors []*big.Int, f *big.Int) []*big.Int {
	for i := range factors {
		if factors[i].Cmp(f) == 0 {
			return factors
		}
	}
	return append(factors, new(big.Int).Set(f))
}
