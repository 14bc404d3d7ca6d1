package tincan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tincan-go/tincan"
)

func TestComputedSumCaching(t *testing.T) {
	tincan.Scope(func() {
		a := tincan.Signal(5)
		b := tincan.Signal(10)
		computes := 0
		sum := tincan.Computed(func() int {
			computes++
			return a.Get() + b.Get()
		})

		// lazy: nothing runs before the first read
		assert.Equal(t, 0, computes)
		assert.Equal(t, 15, sum.Get())
		assert.Equal(t, 1, computes)

		// clean reads hit the cache
		assert.Equal(t, 15, sum.Get())
		assert.Equal(t, 1, computes)

		// a write only marks dirty, the next read pays for the recompute
		a.Set(20)
		assert.Equal(t, 1, computes)
		assert.Equal(t, 30, sum.Get())
		assert.Equal(t, 2, computes)

		b.Set(5)
		assert.Equal(t, 25, sum.Get())
		assert.Equal(t, 3, computes)
		assert.Equal(t, 25, sum.Get())
		assert.Equal(t, 3, computes)
	})
}

// m2 depends on m1 depends on a: one write, one recompute each
func TestComputedChain(t *testing.T) {
	tincan.Scope(func() {
		a := tincan.Signal(1)
		m1Computes, m2Computes := 0, 0
		m1 := tincan.Computed(func() int {
			m1Computes++
			return a.Get() * 2
		})
		m2 := tincan.Computed(func() int {
			m2Computes++
			return m1.Get() * 2
		})

		assert.Equal(t, 4, m2.Get())
		assert.Equal(t, 1, m1Computes)
		assert.Equal(t, 1, m2Computes)

		a.Set(5)
		assert.Equal(t, 20, m2.Get())
		assert.Equal(t, 2, m1Computes)
		assert.Equal(t, 2, m2Computes)

		// no intervening write, no recompute anywhere
		assert.Equal(t, 20, m2.Get())
		assert.Equal(t, 2, m1Computes)
		assert.Equal(t, 2, m2Computes)
	})
}

// recomputing to an identical value still invalidates dependents
func TestComputedAlwaysCountsAsChanged(t *testing.T) {
	tincan.Scope(func() {
		a := tincan.Signal(1)
		inner := tincan.Computed(func() int {
			return a.Get() * 0
		})
		outerComputes := 0
		outer := tincan.Computed(func() int {
			outerComputes++
			return inner.Get()
		})

		assert.Equal(t, 0, outer.Get())
		assert.Equal(t, 1, outerComputes)

		a.Set(2)
		assert.Equal(t, 0, outer.Get())
		assert.Equal(t, 2, outerComputes)
	})
}

func TestComputedWith(t *testing.T) {
	tincan.Scope(func() {
		words := tincan.Signal([]string{"tin", "can"})
		joined := tincan.Computed(func() string {
			out := ""
			words.With(func(v *[]string) {
				for _, w := range *v {
					out += w
				}
			})
			return out
		})

		n := 0
		joined.With(func(v *string) { n = len(*v) })
		assert.Equal(t, 6, n)

		words.Update(func(v *[]string) { *v = append(*v, "go") })
		assert.Equal(t, "tincango", joined.Get())
	})
}

// dependencies are re-tracked on every recompute
func TestComputedDynamicDependencies(t *testing.T) {
	tincan.Scope(func() {
		useFirst := tincan.Signal(true)
		first := tincan.Signal("a")
		second := tincan.Signal("b")
		computes := 0
		picked := tincan.Computed(func() string {
			computes++
			if useFirst.Get() {
				return first.Get()
			}
			return second.Get()
		})

		assert.Equal(t, "a", picked.Get())
		assert.Equal(t, 1, computes)

		useFirst.Set(false)
		assert.Equal(t, "b", picked.Get())
		assert.Equal(t, 2, computes)

		// second is a dependency now that the recompute read it
		second.Set("c")
		assert.Equal(t, "c", picked.Get())
		assert.Equal(t, 3, computes)
	})
}
