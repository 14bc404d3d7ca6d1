package tincan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tincan-go/tincan"
)

// two fresh scopes allocate identical id sequences and behave identically
func TestScopeIsolation(t *testing.T) {
	run := func() []tincan.ID {
		return tincan.ScopeResult(func() []tincan.ID {
			a := tincan.Signal(1)
			double := tincan.Computed(func() int { return a.Get() * 2 })
			eff := tincan.Effect(func() { a.Get() })
			require.Equal(t, 2, double.Get())
			a.Set(3)
			require.Equal(t, 6, double.Get())
			return []tincan.ID{a.ID(), double.ID(), eff.ID()}
		})
	}

	first := run()
	second := run()
	assert.Equal(t, []tincan.ID{0, 1, 2}, first)
	assert.Equal(t, first, second)
}

func TestScopeResult(t *testing.T) {
	got := tincan.ScopeResult(func() int { return 42 })
	assert.Equal(t, 42, got)
}

func TestCurrentInsideAndOutsideScope(t *testing.T) {
	outside := tincan.Current()
	assert.Same(t, tincan.Default(), outside)

	tincan.Scope(func() {
		inside := tincan.Current()
		assert.NotSame(t, tincan.Default(), inside)
	})
	assert.Same(t, tincan.Default(), tincan.Current())
}

func TestScopePopsOnPanic(t *testing.T) {
	assert.Panics(t, func() {
		tincan.Scope(func() {
			panic("observer blew up")
		})
	})
	assert.Same(t, tincan.Default(), tincan.Current())
}

func TestNestedScopes(t *testing.T) {
	tincan.Scope(func() {
		outer := tincan.Current()
		a := tincan.Signal(1)
		tincan.Scope(func() {
			assert.NotSame(t, outer, tincan.Current())
			// ids restart per runtime
			b := tincan.Signal(2)
			assert.Equal(t, tincan.ID(0), b.ID())
		})
		assert.Same(t, outer, tincan.Current())
		assert.Equal(t, tincan.ID(0), a.ID())
	})
}

// guards outliving their scope dispose as silent no-ops
func TestGuardDisposeAfterScopeTeardown(t *testing.T) {
	var g *tincan.WatchGuard
	var eff *tincan.EffectRunner
	tincan.Scope(func() {
		count := tincan.Signal(0)
		g = count.Watch(func(int) {})
		eff = tincan.Effect(func() { count.Get() })
	})
	require.NotNil(t, g)
	require.NotNil(t, eff)
	assert.NotPanics(t, g.Dispose)
	assert.NotPanics(t, eff.Dispose)
}

// a cell belongs to the runtime it was created in; observers of another
// runtime never subscribe to it
func TestCrossRuntimeReadsAreUntracked(t *testing.T) {
	tincan.Default().Clear()
	outer := tincan.Signal(1)

	runs := 0
	tincan.Scope(func() {
		tincan.Effect(func() {
			outer.Get()
			runs++
		})
		assert.Equal(t, 1, runs)
		outer.Set(2)
		assert.Equal(t, 1, runs)
	})
	assert.Equal(t, 2, outer.Get())
}

func TestClearResetsAllocator(t *testing.T) {
	rt := tincan.Default()
	rt.Clear()
	a := tincan.Signal(1)
	assert.Equal(t, tincan.ID(0), a.ID())

	b := tincan.Signal(2)
	assert.Equal(t, tincan.ID(1), b.ID())

	rt.Clear()
	c := tincan.Signal(3)
	assert.Equal(t, tincan.ID(0), c.ID())
}

// Clear drops subscriptions but leaves payloads intact
func TestClearDropsSubscriptions(t *testing.T) {
	rt := tincan.Default()
	rt.Clear()

	count := tincan.Signal(1)
	runs := 0
	tincan.Effect(func() {
		count.Get()
		runs++
	})
	count.Set(2)
	assert.Equal(t, 2, runs)

	rt.Clear()
	count.Set(3)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 3, count.Get())
}
