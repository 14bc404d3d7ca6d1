package tincan

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// ID identifies a signal, computed, or effect within one Runtime. IDs are
// allocated monotonically and never reused while the runtime lives.
type ID uint64

// Runtime owns the dependency graph shared by every reactive primitive
// created against it: forward edges (value -> observers that must react),
// reverse edges (observer -> values it currently reads), the callback table
// for push observers, and the dirty table for pull observers.
//
// All graph state lives behind a single RW mutex. The lock is never held
// while an observer callback executes, so callbacks may freely read and
// write other signals, or even the one that triggered them.
type Runtime struct {
	nextID atomic.Uint64

	mu        sync.RWMutex
	forward   map[ID]mapset.Set[ID]
	reverse   map[ID]mapset.Set[ID]
	observers map[ID]func()
	memoDirty map[ID]bool
	closed    bool
}

// NewRuntime creates an empty, independent runtime. Most callers never need
// one explicitly; signals pick up Current at construction.
func NewRuntime() *Runtime {
	return &Runtime{
		forward:   map[ID]mapset.Set[ID]{},
		reverse:   map[ID]mapset.Set[ID]{},
		observers: map[ID]func(){},
		memoDirty: map[ID]bool{},
	}
}

var (
	defaultRuntimeOnce sync.Once
	defaultRuntime     *Runtime
)

// Default returns the process-wide runtime, created lazily on first use. It
// lives for the lifetime of the process and is what Current falls back to
// outside of any Scope.
func Default() *Runtime {
	defaultRuntimeOnce.Do(func() {
		defaultRuntime = NewRuntime()
	})
	return defaultRuntime
}

// Current returns the runtime on top of the calling goroutine's scope stack,
// or the default runtime if no scope is active.
func Current() *Runtime {
	if rt := currentScope(); rt != nil {
		return rt
	}
	return Default()
}

// Scope runs body against a fresh, fully isolated runtime. The runtime is
// pushed for the calling goroutine only, popped and torn down when body
// returns, including on panic. Guards created inside the scope become
// no-ops once it exits.
func Scope(body func()) {
	ScopeResult(func() struct{} {
		body()
		return struct{}{}
	})
}

// ScopeResult is Scope for bodies that produce a value.
func ScopeResult[T any](body func() T) T {
	rt := NewRuntime()
	pushScope(rt)
	defer func() {
		popScope()
		rt.shutdown()
	}()
	return body()
}

func (rt *Runtime) allocID() ID {
	return ID(rt.nextID.Add(1) - 1)
}

// Clear wipes all edges, observer records, and dirty flags, and resets the
// id allocator. Existing signal handles keep their payloads but lose every
// subscription; mainly useful for full-isolation testing on Default.
func (rt *Runtime) Clear() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.reset()
}

func (rt *Runtime) reset() {
	rt.forward = map[ID]mapset.Set[ID]{}
	rt.reverse = map[ID]mapset.Set[ID]{}
	rt.observers = map[ID]func(){}
	rt.memoDirty = map[ID]bool{}
	rt.nextID.Store(0)
}

// shutdown marks a scoped runtime dead. Guards that outlive the scope check
// this flag and dispose as a silent no-op.
func (rt *Runtime) shutdown() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.closed = true
	rt.reset()
}

// trackRead records that the calling goroutine's active observer read
// value. Untracked reads, and reads attributed to an observer of a
// different runtime, are no-ops.
func (rt *Runtime) trackRead(value ID) {
	observer, ok := activeObserver(rt)
	if !ok {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return
	}
	fwd, ok := rt.forward[value]
	if !ok {
		fwd = mapset.NewThreadUnsafeSet[ID]()
		rt.forward[value] = fwd
	}
	fwd.Add(observer)
	rev, ok := rt.reverse[observer]
	if !ok {
		rev = mapset.NewThreadUnsafeSet[ID]()
		rt.reverse[observer] = rev
	}
	rev.Add(value)
}

// withObserver attributes every tracked read inside body to id. Frames
// nest, so a computed recomputing inside an effect restores the effect as
// the active observer afterwards.
func (rt *Runtime) withObserver(id ID, body func()) {
	pushObserver(rt, id)
	defer popObserver()
	body()
}

// createObserver stores the push callback for id, dropping any reverse
// edges the id accumulated before. Called once per effect or watcher, at
// construction.
func (rt *Runtime) createObserver(id ID, callback func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return
	}
	rt.dropReverseEdges(id)
	rt.observers[id] = callback
}

// removeObserver deletes the observer's record, dirty flag, and every edge
// touching it, on both sides of the relation.
func (rt *Runtime) removeObserver(id ID) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return
	}
	rt.dropReverseEdges(id)
	if fwd, ok := rt.forward[id]; ok {
		fwd.Each(func(observer ID) bool {
			if rev, ok := rt.reverse[observer]; ok {
				rev.Remove(id)
			}
			return false
		})
		delete(rt.forward, id)
	}
	delete(rt.observers, id)
	delete(rt.memoDirty, id)
}

// dropReverseEdges removes id from the forward set of every value it
// depends on. Callers hold rt.mu.
func (rt *Runtime) dropReverseEdges(observer ID) {
	rev, ok := rt.reverse[observer]
	if !ok {
		return
	}
	rev.Each(func(value ID) bool {
		if fwd, ok := rt.forward[value]; ok {
			fwd.Remove(observer)
		}
		return false
	})
	delete(rt.reverse, observer)
}

func (rt *Runtime) registerMemo(id ID) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return
	}
	rt.memoDirty[id] = true
}

// memoIsDirty reports whether the computed needs a recompute. Unknown ids
// count as dirty, so a computed that survived a Clear recomputes rather
// than serving a stale cache.
func (rt *Runtime) memoIsDirty(id ID) bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	dirty, ok := rt.memoDirty[id]
	return !ok || dirty
}

func (rt *Runtime) markMemoClean(id ID) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return
	}
	rt.memoDirty[id] = false
}

// notify walks the dependents of a changed value with an explicit worklist.
// Pull observers (computeds) flip clean->dirty at most once per pass and
// enqueue their own dependents; the already-dirty short-circuit doubles as
// the visited check, so an invalidated subgraph is never re-walked. Push
// observers (effects, watchers) have their callbacks snapshotted and run
// after the lock is released.
//
// Propagation is per-write and effects are not deduplicated: an effect
// reachable through two paths of a diamond runs once per path. That is the
// documented cost of unbatched push semantics.
func (rt *Runtime) notify(value ID) {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return
	}
	var queue []ID
	if fwd, ok := rt.forward[value]; ok {
		queue = fwd.ToSlice()
	}
	var callbacks []func()
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if dirty, isMemo := rt.memoDirty[id]; isMemo {
			if dirty {
				continue
			}
			rt.memoDirty[id] = true
			if fwd, ok := rt.forward[id]; ok {
				queue = append(queue, fwd.ToSlice()...)
			}
			continue
		}
		if callback, ok := rt.observers[id]; ok {
			callbacks = append(callbacks, callback)
		}
	}
	rt.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}
