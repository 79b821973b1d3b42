package he

import (
	"fmt"
)

// Scheme identifies the homomorphic encryption scheme a set of parameters is intended for.
type Scheme int

const (
	// SchemeNone is the zero value and is not a valid scheme.
	SchemeNone = Scheme(iota)
	// SchemeInteger is the exact integer scheme (BFV/BGV) with plaintexts in Z_t[X]/(X^N+1).
	SchemeInteger
	// SchemeApproximate is the approximate complex scheme (CKKS).
	SchemeApproximate
)

var schemeNames = [...]string{
	SchemeNone:        "none",
	SchemeInteger:     "integer",
	SchemeApproximate: "approximate",
}

// String returns the string representation of the scheme.
func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// IsValid returns true if the receiver is a known scheme other than [SchemeNone].
func (s Scheme) IsValid() bool {
	return s == SchemeInteger || s == SchemeApproximate
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() (text []byte, err error) {
	if s < 0 || int(s) >= len(schemeNames) {
		return nil, fmt.Errorf("cannot MarshalText: invalid scheme %d", int(s))
	}
	return []byte(schemeNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) (err error) {
	for i, name := range schemeNames {
		if name == string(text) {
			*s = Scheme(i)
			return
		}
	}
	return fmt.Errorf("cannot UnmarshalText: unknown scheme %q", text)
}
