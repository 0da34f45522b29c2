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

// Command psortbench times the parallel sorts against sequential and
// third-party baselines.
//
// Usage:
//
//	psortbench run --algo quick,merge,std --size 1000000 --runs 5
//	psortbench run --algo quick --concurrent 8          # 8 top-level sorts sharing one pool
//	psortbench sweep --algo merge --cutoffs 1,8,30,128  # find a good cutoff
//	psortbench info                                     # host parallelism and CPU features
//
// Every sorted slice is verified; an unsorted result is an error.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	logLevel string
	workers  int
	seed     uint64
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var logger *zap.Logger

	root := &cobra.Command{
		Use:           "psortbench",
		Short:         "Benchmark parallel quicksort and mergesort",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(g.logLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&g.workers, "workers", 0, "pool workers; 0 uses GOMAXPROCS")
	root.PersistentFlags().Uint64Var(&g.seed, "seed", 0, "seed for generated input")

	loggerFn := func() *zap.Logger { return logger }
	root.AddCommand(
		newRunCmd(g, loggerFn),
		newSweepCmd(g, loggerFn),
		newInfoCmd(g),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
