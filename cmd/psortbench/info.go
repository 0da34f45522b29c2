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
	"runtime"
	"unsafe"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-psort/psort"
	"github.com/ajroetker/go-psort/psort/forkjoin"
)

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print host parallelism, CPU features and sort configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeInfo(cmd.OutOrStdout(), g)
		},
	}
}

func writeInfo(w io.Writer, g *globalFlags) error {
	cfg, err := psort.ConfigFromEnv()
	if err != nil {
		return err
	}

	workers := g.workers
	if workers <= 0 {
		workers = forkjoin.Default().NumWorkers()
	}

	fmt.Fprintf(w, "GOOS/GOARCH:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "NumCPU:           %d\n", runtime.NumCPU())
	fmt.Fprintf(w, "GOMAXPROCS:       %d\n", runtime.GOMAXPROCS(0))
	fmt.Fprintf(w, "Pool workers:     %d\n", workers)
	fmt.Fprintf(w, "Cache line:       %d bytes\n", unsafe.Sizeof(cpu.CacheLinePad{}))
	fmt.Fprintf(w, "Quicksort cutoff: %d\n", cfg.QuicksortCutoff())
	fmt.Fprintf(w, "Mergesort cutoff: %d\n", cfg.MergesortCutoff())

	switch runtime.GOARCH {
	case "amd64", "386":
		fmt.Fprintf(w, "CPU features:     avx2=%v avx512f=%v bmi2=%v popcnt=%v\n",
			cpu.X86.HasAVX2, cpu.X86.HasAVX512F, cpu.X86.HasBMI2, cpu.X86.HasPOPCNT)
	case "arm64":
		fmt.Fprintf(w, "CPU features:     asimd=%v sve=%v atomics=%v\n",
			cpu.ARM64.HasASIMD, cpu.ARM64.HasSVE, cpu.ARM64.HasATOMICS)
	}
	return nil
}
