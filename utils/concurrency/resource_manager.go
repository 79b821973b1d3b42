// Package concurrency implements a simple channel based resource manager for concurrent operations.
package concurrency

import (
	"sync"
)

// ResourceManager is a struct storing a channel of some given resource (e.g. a scratch
// buffer pool) meant to be used concurrently and a channel for errors.
// At most len(resources) tasks run at the same time, each owning one resource.
type ResourceManager[T any] struct {
	sync.WaitGroup
	Resources chan T
	Errors    chan error
}

// NewResourceManager instantiates a new [ResourceManager].
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	Resources := make(chan T, len(resources))
	for i := range resources {
		Resources <- resources[i]
	}
	return &ResourceManager[T]{
		Resources: Resources,
		Errors:    make(chan error, 1),
	}
}

// Task is an abstract templates for a function taking as input
// a resource of any kind that can be used concurrently.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently.
// If an error was already recorded, the task is skipped.
// The first error returned by a [Task] is recorded, the following ones are dropped.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.Add(1)
	go func() {
		defer r.Done()
		resource := <-r.Resources
		defer func() { r.Resources <- resource }()
		if len(r.Errors) != 0 {
			return
		}
		if err := f(resource); err != nil {
			select {
			case r.Errors <- err:
			default:
			}
		}
	}()
}

// Wait waits until all concurrent [Task] have finished and returns
// the first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.WaitGroup.Wait()
	select {
	case err = <-r.Errors:
	default:
	}
	return
}
