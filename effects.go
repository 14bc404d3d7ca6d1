package tincan

import "sync"

// guard owns an observer registration. Disposal is idempotent, and once the
// owning runtime has been torn down it degrades to a silent no-op rather
// than resurrecting anything.
type guard struct {
	rt   *Runtime
	id   ID
	once sync.Once
}

// Dispose removes the observer's record and every edge touching it. The
// observer never runs again, even if its old dependencies keep changing.
func (g *guard) Dispose() {
	g.once.Do(func() {
		g.rt.removeObserver(g.id)
	})
}

// ID reports the owned observer id.
func (g *guard) ID() ID {
	return g.id
}

// WatchGuard owns a Watch subscription. Returned by WriteableSignal.Watch.
type WatchGuard struct {
	guard
}

// EffectRunner is a push observer: it runs once at construction, capturing
// its dependency set, then again synchronously every time one of those
// dependencies changes.
//
// Only the construction run is tracked. Re-runs triggered by propagation
// execute the body untracked, so the dependency set is fixed at
// construction: a branch that reads an extra signal on a later run does
// not subscribe to it. This is deliberately asymmetric with computeds,
// which re-track on every recompute.
type EffectRunner struct {
	guard
}

// Effect registers fn as a push observer and runs it immediately, tracking
// the reads of that first run as the effect's dependency set. Dispose the
// returned runner to stop future reactions.
func Effect(fn func()) *EffectRunner {
	rt := Current()
	id := rt.allocID()
	rt.createObserver(id, fn)
	rt.withObserver(id, fn)
	return &EffectRunner{guard: guard{rt: rt, id: id}}
}
