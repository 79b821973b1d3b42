package ring

import (
	"fmt"

	"github.com/Pro7ech/batching/utils/structs"
)

// BufferPool represents a pool of []uint64 of N coefficients that can be used
// (concurrently) to instantiate temporary polynomials.
// A BufferPool is bound if it was created with [NewPool]; the zero value
// and nil are unbound and cannot provide buffers.
type BufferPool struct {
	n          int
	bufferPool structs.BufferPool[*[]uint64]
}

// NewPool returns a new pool given a ring, and optionally a pool to draw the backing arrays from.
func NewPool(ring *Ring, pools ...structs.BufferPool[*[]uint64]) *BufferPool {
	newPool := &BufferPool{n: ring.N}
	switch lenPool := len(pools); lenPool {
	case 0:
		newPool.bufferPool = structs.NewSyncPoolUint64(ring.N)
	case 1:
		newPool.bufferPool = pools[0]
	default:
		panic(fmt.Errorf("the method takes at most 1 argument but %d were given", lenPool))
	}

	return newPool
}

// IsBound returns true if the pool is backed by a buffer store.
func (p *BufferPool) IsBound() bool {
	return p != nil && p.bufferPool != nil
}

// N returns the size of the buffers obtained from the pool.
func (p BufferPool) N() int {
	return p.n
}

// GetBuffUintArray returns a []uint64 slice of size N obtained from a pool.
// A nil buffer or a too short backing array returned by the underlying pool is replaced by a new allocation.
// After use, the slice should be recycled using the [BufferPool.RecycleBuffUintArray] method.
func (p BufferPool) GetBuffUintArray() *[]uint64 {
	buff := p.bufferPool.Get()

	if buff == nil {
		buff = new([]uint64)
	}

	// Backing arrays provided by a user pool may be too short.
	if cap(*buff) < p.n {
		*buff = make([]uint64, p.n)
	}

	*buff = (*buff)[:p.n]

	return buff
}

// RecycleBuffUintArray takes a reference to a []uint64 slice and puts it back in the pool.
func (p BufferPool) RecycleBuffUintArray(arr *[]uint64) {
	p.bufferPool.Put(arr)
}
