package main

import (
	"context"
	"log"
	"os"

	"github.com/tincan-go/tincan"
	"github.com/tincan-go/tincan/store"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "demo",
		Usage: "Walk through the tincan reactive primitives",
		Commands: []*cli.Command{
			{
				Name:   "effects",
				Usage:  "Signals driving a side effect",
				Action: runEffects,
			},
			{
				Name:   "memos",
				Usage:  "Lazy cached computations",
				Action: runMemos,
			},
			{
				Name:   "combinators",
				Usage:  "Derived signals via Map and Zip",
				Action: runCombinators,
			},
			{
				Name:   "store",
				Usage:  "Plain broadcast state container",
				Action: runStore,
			},
			{
				Name:   "counter",
				Usage:  "Counter app combining store, signals, and memos",
				Action: runCounter,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runEffects(ctx context.Context, cmd *cli.Command) error {
	count := tincan.Signal(0)

	eff := tincan.Effect(func() {
		log.Printf("count is now %d", count.Get())
	})

	for i := 1; i <= 3; i++ {
		count.Set(i)
	}

	eff.Dispose()
	count.Set(99)
	log.Printf("effect disposed, final count %d went unreported", count.Get())
	return nil
}

func runMemos(ctx context.Context, cmd *cli.Command) error {
	a := tincan.Signal(5)
	b := tincan.Signal(10)

	computes := 0
	sum := tincan.Computed(func() int {
		computes++
		return a.Get() + b.Get()
	})

	log.Printf("sum=%d after %d compute(s)", sum.Get(), computes)
	log.Printf("sum=%d after %d compute(s), cache hit", sum.Get(), computes)

	a.Set(20)
	log.Printf("a changed, sum is stale but nothing ran yet (%d compute(s))", computes)
	log.Printf("sum=%d after %d compute(s)", sum.Get(), computes)
	return nil
}

func runCombinators(ctx context.Context, cmd *cli.Command) error {
	celsius := tincan.Signal(0)
	fahrenheit := tincan.Map(celsius, func(c int) int {
		return c*9/5 + 32
	})
	log.Printf("%d°C = %d°F", celsius.Get(), fahrenheit.Get())

	celsius.Set(100)
	log.Printf("%d°C = %d°F", celsius.Get(), fahrenheit.Get())

	width := tincan.Signal(10)
	height := tincan.Signal(5)
	area := tincan.Map(tincan.Zip(width, height), func(p tincan.Pair[int, int]) int {
		return p.First * p.Second
	})
	log.Printf("%dx%d area=%d", width.Get(), height.Get(), area.Get())

	width.Set(20)
	log.Printf("%dx%d area=%d", width.Get(), height.Get(), area.Get())
	return nil
}

func runStore(ctx context.Context, cmd *cli.Command) error {
	type settings struct {
		Theme    string
		FontSize int
	}

	s := store.New(settings{Theme: "light", FontSize: 12})
	s.Subscribe(func(v *settings) {
		log.Printf("settings changed: theme=%s fontSize=%d", v.Theme, v.FontSize)
	})

	s.Update(func(v *settings) { v.Theme = "dark" })
	s.Update(func(v *settings) { v.FontSize = 14 })
	s.Set(settings{Theme: "light", FontSize: 12})
	return nil
}

type counterState struct {
	Count   int
	Step    int
	History []int
}

func runCounter(ctx context.Context, cmd *cli.Command) error {
	st := store.New(counterState{Step: 1, History: []int{0}})

	// bridge the store into a signal so memos can derive from it
	display := tincan.Signal(0)
	st.Subscribe(func(v *counterState) {
		display.Set(v.Count)
	})

	isPositive := tincan.Computed(func() bool { return display.Get() > 0 })
	isEven := tincan.Computed(func() bool { return display.Get()%2 == 0 })
	absolute := tincan.Computed(func() int {
		v := display.Get()
		if v < 0 {
			return -v
		}
		return v
	})

	printState := func() {
		log.Printf("count=%d positive=%v even=%v abs=%d",
			display.Get(), isPositive.Get(), isEven.Get(), absolute.Get())
	}

	increment := func() {
		st.Update(func(v *counterState) {
			v.Count += v.Step
			v.History = append(v.History, v.Count)
		})
	}
	decrement := func() {
		st.Update(func(v *counterState) {
			v.Count -= v.Step
			v.History = append(v.History, v.Count)
		})
	}

	printState()

	increment()
	increment()
	increment()
	printState()

	st.Update(func(v *counterState) { v.Step = 5 })
	increment()
	printState()

	decrement()
	decrement()
	printState()

	st.Read(func(v *counterState) {
		log.Printf("history: %v", v.History)
	})
	return nil
}
