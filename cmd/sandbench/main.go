// Command sandbench runs headless worlds over a range of seeds and reports
// tick throughput and how much of the grid is still moving.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"polar-sand/internal/element"
	"polar-sand/internal/world"

	"gonum.org/v1/gonum/stat"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type runResult struct {
	seed      int64
	elapsed   time.Duration
	moved     int
	lastMoved int
	stats     world.Stats
	snapshot  string
	err       error
}

func (r runResult) ticksPerSecond(steps int) float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(steps) / r.elapsed.Seconds()
}

func runWorld(cfg world.Config, steps int, snapshotDir string) runResult {
	res := runResult{seed: cfg.Seed}
	w, err := world.New(cfg, nil)
	if err != nil {
		res.err = err
		return res
	}
	defer w.Close()

	start := time.Now()
	for i := 0; i < steps; i++ {
		res.lastMoved = w.Tick()
		res.moved += res.lastMoved
	}
	res.elapsed = time.Since(start)
	res.stats = w.Stats()

	if snapshotDir != "" {
		res.snapshot = filepath.Join(snapshotDir, fmt.Sprintf("seed-%d.psnd", cfg.Seed))
		res.err = writeSnapshot(w, res.snapshot)
	}
	return res
}

// writeSnapshot reports the first of the snapshot and close errors, so a
// short write is not lost.
func writeSnapshot(w *world.World, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = w.Directory().Snapshot(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// summary describes the throughput of all runs. The spread needs at least
// two samples.
func summary(tps []float64, elapsed time.Duration) string {
	elapsed = elapsed.Round(time.Millisecond)
	if len(tps) == 1 {
		return fmt.Sprintf("1 run in %s: %.1f ticks/s", elapsed, tps[0])
	}
	mean, std := stat.MeanStdDev(tps, nil)
	return fmt.Sprintf("%d runs in %s: %.1f ± %.1f ticks/s per world", len(tps), elapsed, mean, std)
}

func main() {
	steps := flag.Int("steps", 500, "ticks to simulate per run")
	runs := flag.Int("runs", 4, "number of seeds to run")
	parallel := flag.Int("parallel", runtime.NumCPU(), "worlds simulated at once")
	snapshotDir := flag.String("snapshot", "", "directory to write a snapshot of every final grid to")
	var overrides kvList
	flag.Var(&overrides, "set", "config override in key=value form (repeatable), e.g. scene=rain or num_layers=8")
	flag.Parse()

	kv := map[string]string{}
	for _, entry := range overrides {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			log.Printf("ignoring override %q", entry)
			continue
		}
		kv[parts[0]] = parts[1]
	}
	base := world.FromMap(kv)
	if *snapshotDir != "" {
		if err := os.MkdirAll(*snapshotDir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Running %d seeds from %d (%d at once, %d steps, scene %s, %d layers)\n",
		*runs, base.Seed, *parallel, *steps, base.Scene, base.Geometry.NumLayers)

	jobs := make(chan world.Config)
	results := make(chan runResult)
	var wg sync.WaitGroup

	for i := 0; i < max(1, *parallel); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cfg := range jobs {
				results <- runWorld(cfg, *steps, *snapshotDir)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := 0; i < *runs; i++ {
			cfg := base
			cfg.Seed = base.Seed + int64(i)
			jobs <- cfg
		}
		close(jobs)
	}()

	start := time.Now()
	var all []runResult
	for res := range results {
		if res.err != nil {
			log.Printf("seed %d: %v", res.seed, res.err)
			continue
		}
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seed < all[j].seed })
	elapsed := time.Since(start)

	tps := make([]float64, len(all))
	for i, res := range all {
		tps[i] = res.ticksPerSecond(*steps)
		fmt.Printf("seed %d: %.1f ticks/s, moved %d (last tick %d), mass %.0f, dominant %s, sand %d, water %d",
			res.seed, tps[i], res.moved, res.lastMoved, res.stats.Mass, res.stats.Dominant,
			res.stats.Counts[element.Sand], res.stats.Counts[element.Water])
		if res.snapshot != "" {
			fmt.Printf(", snapshot %s", res.snapshot)
		}
		fmt.Println()
	}
	if len(all) == 0 {
		os.Exit(1)
	}
	fmt.Printf("\n%s\n", summary(tps, elapsed))
}
