package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tincan-go/tincan"
)

var (
	ww    = []int{1, 10, 100}
	hh    = []int{1, 10, 100}
	iters = 100
)

func main() {
	cpuProfile := flag.String("cpuprofile", "default.pgo", "write cpu profile to file")
	flag.Parse()

	f, err := os.Create(*cpuProfile)
	if err != nil {
		log.Fatal(err)
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	log.Printf("warming up")
	benchmarkPropagate(false)
	benchmarkPropagate(true)
}

// benchmarkPropagate builds w computed chains of depth h over one signal,
// then times a write plus the reads that pull every chain tail clean.
func benchmarkPropagate(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Tincan Signals")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			tincan.Scope(func() {
				src := tincan.Signal(0)
				tails := make([]*tincan.ReadonlySignal[int], 0, w)
				for i := 0; i < w; i++ {
					prev := tincan.Computed(func() int {
						return src.Get() + 1
					})
					for j := 1; j < h; j++ {
						p := prev
						prev = tincan.Computed(func() int {
							return p.Get() + 1
						})
					}
					tails = append(tails, prev)
				}

				for i := 0; i < iters; i++ {
					start := time.Now()
					src.Set(i + 1)
					sum := 0
					for _, tail := range tails {
						sum += tail.Get()
					}
					tach.AddTime(time.Since(start))

					if expected := w * (i + 1 + h); sum != expected {
						log.Fatalf("propagate %d*%d: got %d, want %d", w, h, sum, expected)
					}
				}
			})

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
