// Package structs implements generic interfaces shared by the containers of
// the library and pools of reusable buffers.
package structs

type Equatable[T any] interface {
	Equal(*T) bool
}

type Cloner[V any] interface {
	Clone() *V
}

type Copyer[V any] interface {
	Copy(*V)
}

type BinarySizer interface {
	BinarySize() int
}
