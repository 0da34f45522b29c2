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
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajroetker/go-psort/psort"
	"github.com/ajroetker/go-psort/psort/forkjoin"
)

type sweepFlags struct {
	benchFlags
	algo    string
	cutoffs []int
}

func newSweepCmd(g *globalFlags, logger func() *zap.Logger) *cobra.Command {
	f := &sweepFlags{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Time one parallel algorithm across a list of cutoffs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.OutOrStdout(), g, f, logger())
		},
	}

	cmd.Flags().StringVar(&f.algo, "algo", "quick", "algorithm: quick or merge")
	cmd.Flags().IntSliceVar(&f.cutoffs, "cutoffs", []int{1, 4, 16, 30, 64, 256, 1024}, "cutoffs to try")
	addInputFlags(cmd, &f.benchFlags)
	cmd.Flags().IntVar(&f.runs, "runs", 3, "timed runs per cutoff")
	return cmd
}

func runSweep(w io.Writer, g *globalFlags, f *sweepFlags, logger *zap.Logger) error {
	if f.algo != "quick" && f.algo != "merge" {
		return fmt.Errorf("unknown --algo %q, want quick or merge", f.algo)
	}
	gen, ok := inputs[f.input]
	if !ok {
		return fmt.Errorf("unknown --input %q", f.input)
	}
	if f.size < 0 || f.runs <= 0 {
		return fmt.Errorf("--size must be >= 0 and --runs > 0")
	}
	cutoffs := lo.Uniq(f.cutoffs)
	if len(cutoffs) == 0 {
		return fmt.Errorf("--cutoffs is empty")
	}

	pool := forkjoin.New(g.workers, forkjoin.WithLogger(logger))
	defer pool.Close()

	ref := gen(f.size, g.seed)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUTOFF\tMIN\tMEAN\tMAX\tALLOC/SORT")

	best, bestTime := 0, time.Duration(0)
	for _, cutoff := range cutoffs {
		cfg := psort.NewConfig()
		set := cfg.SetQuicksortCutoff
		if f.algo == "merge" {
			set = cfg.SetMergesortCutoff
		}
		if err := set(cutoff); err != nil {
			return err
		}

		eng := psort.NewOrdered[int](cfg, psort.WithPool(pool), psort.WithLogger(logger))
		fn := sorters(eng)[f.algo]

		var ms []measurement
		for run := range f.runs {
			batch, err := measureBatch(fn, ref, 1)
			if err != nil {
				return fmt.Errorf("cutoff %d run %d: %w", cutoff, run, err)
			}
			ms = append(ms, batch...)
		}
		writeSummary(tw, strconv.Itoa(cutoff), ms)

		fastest := lo.MinBy(ms, func(a, b measurement) bool { return a.elapsed < b.elapsed }).elapsed
		if best == 0 || fastest < bestTime {
			best, bestTime = cutoff, fastest
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	logger.Info("sweep finished", zap.String("algorithm", f.algo), zap.Int("bestCutoff", best), zap.Duration("bestTime", bestTime))
	return nil
}
