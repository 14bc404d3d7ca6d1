package tincan

// Combinators are built purely out of signals and effects; they add no
// propagation logic of their own.

// Pair holds the two halves of a zipped signal.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Map derives a signal whose value is fn applied to src, kept in sync by an
// internal effect. The derived handle retains that effect; call Dispose on
// the derived signal to release it.
func Map[T, U any](src *WriteableSignal[T], fn func(v T) U) *WriteableSignal[U] {
	derived := Signal(fn(src.Get()))
	eff := Effect(func() {
		derived.Set(fn(src.Get()))
	})
	derived.keepAlive = append(derived.keepAlive, eff)
	return derived
}

// Zip combines two signals into one holding both values, updated whenever
// either source changes. Ownership works as with Map.
func Zip[T, U any](a *WriteableSignal[T], b *WriteableSignal[U]) *WriteableSignal[Pair[T, U]] {
	combined := Signal(Pair[T, U]{First: a.Get(), Second: b.Get()})
	eff := Effect(func() {
		combined.Set(Pair[T, U]{First: a.Get(), Second: b.Get()})
	})
	combined.keepAlive = append(combined.keepAlive, eff)
	return combined
}
