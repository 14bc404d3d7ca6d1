package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/tincan-go/tincan/store"
)

type benchmarkConfig struct {
	name        string
	subscribers int
	writes      int64
}

func main() {
	log.Print("Starting store benchmark, please wait...")
	defer log.Print("Finished store benchmark")

	cfgs := []benchmarkConfig{
		{name: "single subscriber", subscribers: 1, writes: 1_000_000},
		{name: "fan out", subscribers: 100, writes: 100_000},
		{name: "wide fan out", subscribers: 10_000, writes: 1_000},
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"scenario", "subs", "writes", "time", "notifies/s", "checksum",
	})

	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)

		s := store.New(int64(0))
		var observed int64
		for i := 0; i < cfg.subscribers; i++ {
			s.Subscribe(func(v *int64) {
				observed += *v
			})
		}

		start := time.Now()
		for i := int64(1); i <= cfg.writes; i++ {
			s.Set(i)
		}
		duration := time.Since(start)

		notifies := cfg.writes * int64(cfg.subscribers)
		rate := float64(notifies) / duration.Seconds()

		// stable across runs; diff checksums between builds to catch
		// broadcast ordering or delivery regressions
		checksum := xxhash.Sum64String(fmt.Sprintf("%s:%d", cfg.name, observed))

		tbl.Append([]string{
			cfg.name,
			humanize.Comma(int64(cfg.subscribers)),
			humanize.Comma(cfg.writes),
			fmt.Sprint(duration),
			humanize.Comma(int64(rate)),
			fmt.Sprintf("%016x", checksum),
		})
	}
	tbl.Render()
}
