// Copyright 2025 go-psort Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	pargosort "github.com/exascience/pargo/sort"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-psort/psort"
	"github.com/ajroetker/go-psort/psort/contrib/datagen"
	"github.com/ajroetker/go-psort/psort/contrib/seqsort"
	"github.com/ajroetker/go-psort/psort/forkjoin"
)

var errNotSorted = errors.New("result is not sorted")

type sorter func(data []int) error

func sequential(fn func([]int)) sorter {
	return func(data []int) error {
		fn(data)
		return nil
	}
}

// sorters returns every benchmarkable algorithm by name.
func sorters(eng *psort.Engine[int]) map[string]sorter {
	return map[string]sorter{
		"quick": eng.QuickSort,
		"merge": eng.MergeSort,
		"std":   sequential(slices.Sort[[]int]),
		"pargo": sequential(func(data []int) {
			pargosort.Sort(pargosort.IntSlice(data))
		}),
		"shell":     sequential(seqsort.Shell[int]),
		"insertion": sequential(seqsort.Insertion[int]),
		"selection": sequential(seqsort.Selection[int]),
		"bubble":    sequential(seqsort.Bubble[int]),
	}
}

func algorithmNames() []string {
	names := lo.Keys(sorters(nil))
	sort.Strings(names)
	return names
}

var inputs = map[string]func(n int, seed uint64) []int{
	"random":      datagen.Random,
	"permutation": datagen.Permutation,
	"sorted":      func(n int, _ uint64) []int { return datagen.Range(0, n-1) },
	"reverse":     func(n int, _ uint64) []int { return datagen.Range(n-1, 0) },
	"nearly": func(n int, seed uint64) []int {
		return datagen.NearlySorted(n, max(1, n/100), seed)
	},
}

type benchFlags struct {
	algos           []string
	input           string
	size            int
	runs            int
	concurrent      int
	quicksortCutoff int
	mergesortCutoff int
}

// measurement is the outcome of sorting one slice.
type measurement struct {
	elapsed time.Duration
	alloc   uint64
}

func newRunCmd(g *globalFlags, logger func() *zap.Logger) *cobra.Command {
	f := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time one or more algorithms on generated input",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.OutOrStdout(), g, f, logger())
		},
	}

	cmd.Flags().StringSliceVar(&f.algos, "algo", []string{"quick", "merge", "std"},
		"algorithms: "+strings.Join(algorithmNames(), ","))
	addInputFlags(cmd, f)
	cmd.Flags().IntVar(&f.runs, "runs", 3, "timed runs per algorithm")
	cmd.Flags().IntVar(&f.concurrent, "concurrent", 1, "top-level sorts started at once per run, sharing the pool")
	cmd.Flags().IntVar(&f.quicksortCutoff, "quicksort-cutoff", 0, "quicksort cutoff; 0 keeps "+psort.EnvQuicksortCutoff+" or the default")
	cmd.Flags().IntVar(&f.mergesortCutoff, "mergesort-cutoff", 0, "mergesort cutoff; 0 keeps "+psort.EnvMergesortCutoff+" or the default")
	return cmd
}

func addInputFlags(cmd *cobra.Command, f *benchFlags) {
	names := lo.Keys(inputs)
	sort.Strings(names)
	cmd.Flags().StringVar(&f.input, "input", "random", "input pattern: "+strings.Join(names, ","))
	cmd.Flags().IntVar(&f.size, "size", 1_000_000, "elements per slice")
}

// benchConfig resolves the cutoffs from the environment and flags.
func benchConfig(f *benchFlags) (psort.Config, error) {
	cfg, err := psort.ConfigFromEnv()
	if err != nil {
		return psort.Config{}, err
	}
	if f.quicksortCutoff != 0 {
		if err := cfg.SetQuicksortCutoff(f.quicksortCutoff); err != nil {
			return psort.Config{}, err
		}
	}
	if f.mergesortCutoff != 0 {
		if err := cfg.SetMergesortCutoff(f.mergesortCutoff); err != nil {
			return psort.Config{}, err
		}
	}
	return cfg, nil
}

func runBench(w io.Writer, g *globalFlags, f *benchFlags, logger *zap.Logger) error {
	gen, ok := inputs[f.input]
	if !ok {
		return fmt.Errorf("unknown --input %q", f.input)
	}
	if f.size < 0 || f.runs <= 0 || f.concurrent <= 0 {
		return fmt.Errorf("--size must be >= 0, --runs and --concurrent > 0")
	}
	cfg, err := benchConfig(f)
	if err != nil {
		return err
	}

	pool := forkjoin.New(g.workers, forkjoin.WithLogger(logger))
	defer pool.Close()
	eng := psort.NewOrdered[int](cfg, psort.WithPool(pool), psort.WithLogger(logger))
	all := sorters(eng)

	logger.Info("benchmark",
		zap.Strings("algorithms", f.algos),
		zap.String("input", f.input),
		zap.Int("size", f.size),
		zap.Int("runs", f.runs),
		zap.Int("concurrent", f.concurrent),
		zap.Int("workers", pool.NumWorkers()),
		zap.Int("quicksortCutoff", cfg.QuicksortCutoff()),
		zap.Int("mergesortCutoff", cfg.MergesortCutoff()))

	ref := gen(f.size, g.seed)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tMIN\tMEAN\tMAX\tALLOC/SORT")

	for _, name := range f.algos {
		fn, ok := all[name]
		if !ok {
			return fmt.Errorf("unknown --algo %q", name)
		}

		var ms []measurement
		for run := range f.runs {
			batch, err := measureBatch(fn, ref, f.concurrent)
			if err != nil {
				return fmt.Errorf("%s run %d: %w", name, run, err)
			}
			logger.Debug("run finished",
				zap.String("algorithm", name),
				zap.Int("run", run),
				zap.Durations("elapsed", lo.Map(batch, func(m measurement, _ int) time.Duration { return m.elapsed })))
			ms = append(ms, batch...)
		}
		writeSummary(tw, name, ms)
	}

	st := pool.Stats()
	logger.Debug("pool stats", zap.Int64("stolen", st.Stolen), zap.Int64("inlined", st.Inlined))
	return tw.Flush()
}

// measureBatch sorts n copies of ref at the same time and verifies each.
func measureBatch(fn sorter, ref []int, n int) ([]measurement, error) {
	copies := lo.Times(n, func(int) []int { return slices.Clone(ref) })
	ms := make([]measurement, n)

	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	var g errgroup.Group
	for i, data := range copies {
		g.Go(func() error {
			start := time.Now()
			if err := fn(data); err != nil {
				return err
			}
			ms[i].elapsed = time.Since(start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	runtime.ReadMemStats(&after)
	perSort := (after.TotalAlloc - before.TotalAlloc) / uint64(n)
	for i, data := range copies {
		if !psort.IsSorted(data) {
			return nil, errNotSorted
		}
		ms[i].alloc = perSort
	}
	return ms, nil
}

func writeSummary(w io.Writer, name string, ms []measurement) {
	durs := lo.Map(ms, func(m measurement, _ int) time.Duration { return m.elapsed })
	mean := lo.Sum(durs) / time.Duration(len(durs))
	fmt.Fprintf(w, "%s\t%v\t%v\t%v\t%s\n", name, lo.Min(durs), mean, lo.Max(durs), formatBytes(ms[0].alloc))
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(b)/(1<<10))
	}
	return fmt.Sprintf("%d B", b)
}
