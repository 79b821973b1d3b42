package heint

import (
	"errors"
)

// Kinds of errors returned by the encoder and the evaluator.
// Returned errors wrap one or more of them and are matched with [errors.Is].
var (
	// ErrInvalidArgument is returned for nil or malformed inputs and outputs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidScheme is returned when the parameters cannot be used for batching.
	ErrInvalidScheme = errors.New("invalid scheme")
	// ErrUnsupportedScheme is returned for the approximate scheme.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	// ErrNonBatchableModulus is returned when the plaintext modulus is not a prime congruent to 1 modulo 2N.
	ErrNonBatchableModulus = errors.New("plaintext modulus does not enable batching")
	// ErrInvalidLength is returned when more values than slots are given.
	ErrInvalidLength = errors.New("invalid length")
	// ErrInvalidValue is returned when a value is outside of the range of the plaintext modulus.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidArena is returned when a buffer pool is unbound or does not match the ring degree.
	ErrInvalidArena = errors.New("invalid arena")
)
