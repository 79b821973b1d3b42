package he

// Integer is the set of integer types that can be batched in a plaintext.
type Integer interface {
	int64 | uint64
}

// IntegerSlice is an empty interface whose goal is to
// indicate that the expected input should be []Integer,
// or *[]Integer when it is used as a receiver of decoded values.
// See Integer for information on the type constraint.
type IntegerSlice interface {
}
