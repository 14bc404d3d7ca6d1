package tincan

import "sync"

// WriteableSignal is a shared mutable reactive value. Reads inside an
// effect or computed register a dependency edge against it; every write
// propagates to dependents before returning. The payload sits behind its
// own RW mutex, independent of the runtime lock, so operations on one
// signal never block another.
type WriteableSignal[T any] struct {
	rt *Runtime
	id ID

	mu    sync.RWMutex
	value T

	// internal effects backing a derived signal from Map/Zip
	keepAlive []*EffectRunner
}

// Signal creates a writable signal holding initial, registered against the
// current runtime.
func Signal[T any](initial T) *WriteableSignal[T] {
	rt := Current()
	return &WriteableSignal[T]{
		rt:    rt,
		id:    rt.allocID(),
		value: initial,
	}
}

// ID reports the signal's value id within its runtime.
func (s *WriteableSignal[T]) ID() ID {
	return s.id
}

// Get returns a copy of the current value, attributing the read to any
// enclosing observer.
func (s *WriteableSignal[T]) Get() T {
	s.rt.trackRead(s.id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// With reads the value in place without copying it out. Tracking semantics
// match Get. The pointer is only valid for the duration of fn and must not
// be written through.
func (s *WriteableSignal[T]) With(fn func(v *T)) {
	s.rt.trackRead(s.id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.value)
}

// Set replaces the value and notifies every dependent. The payload lock is
// released before propagation so a triggered observer can read this same
// signal without deadlocking. Set always notifies; values are never
// compared for equality.
func (s *WriteableSignal[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	s.rt.notify(s.id)
}

// Update mutates the value in place via fn, then notifies, with the same
// lock ordering as Set.
func (s *WriteableSignal[T]) Update(fn func(v *T)) {
	s.mu.Lock()
	fn(&s.value)
	s.mu.Unlock()
	s.rt.notify(s.id)
}

// Watch subscribes callback to this signal. The callback fires once
// immediately with the current value, then once per Set or Update, until
// the returned guard is disposed.
func (s *WriteableSignal[T]) Watch(callback func(v T)) *WatchGuard {
	rt := s.rt
	observerID := rt.allocID()

	rt.createObserver(observerID, func() {
		s.mu.RLock()
		v := s.value
		s.mu.RUnlock()
		callback(v)
	})
	rt.withObserver(observerID, func() {
		rt.trackRead(s.id)
	})

	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()
	callback(v)

	return &WatchGuard{guard: guard{rt: rt, id: observerID}}
}

// Dispose releases the internal effects behind a derived signal built with
// Map or Zip, after which it stops following its sources. For a plain
// signal it is a no-op. The value itself stays readable either way.
func (s *WriteableSignal[T]) Dispose() {
	for _, eff := range s.keepAlive {
		eff.Dispose()
	}
}
