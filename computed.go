package tincan

import "sync"

// ReadonlySignal is a cached pull observer. A change to one of its
// dependencies only marks it dirty; the next Get pays for the recompute.
// Dependencies are tracked during each recompute, so the set a computed
// reacts to can change between runs. A recompute always counts as a change
// and re-dirties the computed's own dependents, whether or not the result
// differs from the cached value.
type ReadonlySignal[T any] struct {
	rt      *Runtime
	id      ID
	compute func() T

	mu     sync.RWMutex
	cached *T
}

// Computed creates a lazily evaluated, cached computation. It starts dirty
// and uncached; nothing runs until the first Get.
func Computed[T any](compute func() T) *ReadonlySignal[T] {
	rt := Current()
	id := rt.allocID()
	rt.registerMemo(id)
	return &ReadonlySignal[T]{
		rt:      rt,
		id:      id,
		compute: compute,
	}
}

// ID reports the computed's id within its runtime. The same id serves as
// both its observer identity and the value identity its own dependents
// track.
func (s *ReadonlySignal[T]) ID() ID {
	return s.id
}

// Get returns the current value, recomputing first if dirty.
func (s *ReadonlySignal[T]) Get() T {
	s.rt.trackRead(s.id)
	if s.rt.memoIsDirty(s.id) {
		return s.recompute()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil {
		panic("tincan: computed is clean but has no cached value")
	}
	return *s.cached
}

// With reads the current value in place, recomputing first if dirty. The
// pointer is only valid for the duration of fn.
func (s *ReadonlySignal[T]) With(fn func(v *T)) {
	s.rt.trackRead(s.id)
	if s.rt.memoIsDirty(s.id) {
		s.recompute()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil {
		panic("tincan: computed is clean but has no cached value")
	}
	fn(s.cached)
}

func (s *ReadonlySignal[T]) recompute() T {
	var v T
	s.rt.withObserver(s.id, func() {
		v = s.compute()
	})
	s.mu.Lock()
	s.cached = &v
	s.mu.Unlock()
	s.rt.markMemoClean(s.id)
	return v
}
