package store

import "sync"

// Store is a plain broadcast container: one state value plus a list of
// callbacks invoked synchronously on every explicit write. There is no
// dependency tracking and no laziness, and subscriptions live as long as
// the store. It does not use the reactive runtime; applications that want
// tracked reads should layer signals on top instead.
type Store[T any] struct {
	stateMu sync.RWMutex
	state   T

	subsMu      sync.RWMutex
	subscribers []func(v *T)
}

// New creates a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{state: initial}
}

// Get returns a copy of the current state.
func (s *Store[T]) Get() T {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Read passes the current state to fn without copying it out. The pointer
// is only valid for the duration of fn and must not be written through.
func (s *Store[T]) Read(fn func(v *T)) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	fn(&s.state)
}

// Set replaces the state and invokes every subscriber with the new value.
func (s *Store[T]) Set(state T) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
	s.broadcast()
}

// Update mutates the state in place via fn, then invokes every subscriber.
func (s *Store[T]) Update(fn func(v *T)) {
	s.stateMu.Lock()
	fn(&s.state)
	s.stateMu.Unlock()
	s.broadcast()
}

// Subscribe registers callback for all future writes. There is no immediate
// call and no way to unsubscribe.
func (s *Store[T]) Subscribe(callback func(v *T)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subscribers = append(s.subscribers, callback)
}

func (s *Store[T]) broadcast() {
	s.subsMu.RLock()
	subs := make([]func(v *T), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subsMu.RUnlock()

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	for _, fn := range subs {
		fn(&s.state)
	}
}
