// Copyright 2025 kernelbench Authors
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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kernelbench/kernelbench/bench"
	"github.com/kernelbench/kernelbench/kb"
)

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Derive MFLOP/s, bandwidth and latency tables from benchmark CSV files",
	}
	cmd.AddCommand(newAggregateDGEMMCmd(), newAggregateSumCmd())
	return cmd
}

// readOptional parses path with read, returning nil when the file does not
// exist.
func readOptional[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		klog.InfoS("Input missing, skipping", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, kb.NewIOError("aggregate", path, err)
	}
	defer f.Close()
	return read(f)
}

func newAggregateDGEMMCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "dgemm",
		Short: "Build the MFLOP/s and speedup tables from the per-variant dgemm CSV files",
		Long: `Build the dgemm tables from the CSV files written by "dgemm --csv":

  mflops_basic.csv    basic.csv against blas.csv
  mflops_blocked.csv  blocked.csv, one column per block size, against blas.csv
  mflops_parallel.csv best of basic-parallel.csv and blocked-parallel.csv
                      against blas.csv
  speedup.csv         basic.csv runtime over basic-parallel.csv and
                      blocked-parallel.csv runtimes, one column per worker count

Missing inputs are skipped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			load := func(variant string) ([]bench.DGEMMRecord, error) {
				return readOptional(filepath.Join(dir, variant+".csv"), func(r io.Reader) ([]bench.DGEMMRecord, error) {
					return bench.ReadDGEMMCSV(r, variant)
				})
			}
			basic, err := load("basic")
			if err != nil {
				return err
			}
			blocked, err := load("blocked")
			if err != nil {
				return err
			}
			blas, err := load("blas")
			if err != nil {
				return err
			}

			var parallel []bench.DGEMMRecord
			for _, variant := range []string{"basic-parallel", "blocked-parallel"} {
				records, err := load(variant)
				if err != nil {
					return err
				}
				parallel = append(parallel, records...)
			}

			basicTable := bench.MFLOPSTable(basic, nil, blas)
			basicTable.Name = "mflops_basic"
			blockedTable := bench.MFLOPSTable(nil, blocked, blas)
			blockedTable.Name = "mflops_blocked"
			tables := []bench.Table{basicTable, blockedTable}
			if len(parallel) > 0 {
				tables = append(tables, bench.BestParallelTable(parallel, blas))
				if len(basic) > 0 {
					tables = append(tables, bench.SpeedupTable(basic, parallel))
				}
			}
			for _, t := range tables {
				if err := writeFile(filepath.Join(dir, t.Name+".csv"), func(f *os.File) error {
					return bench.WriteTableCSV(f, t)
				}); err != nil {
					return err
				}
			}
			return bench.Report(cmd.OutOrStdout(), tables...)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data", "directory holding the per-variant CSV files")
	return cmd
}

func newAggregateSumCmd() *cobra.Command {
	var dir string
	peak := bench.DefaultPeakBandwidth
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Build gflops.csv, bandwidth.csv and latency.csv from direct.csv, vector.csv and indirect.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			load := func(kernel string) ([]bench.SumRecord, error) {
				return readOptional(filepath.Join(dir, kernel+".csv"), func(r io.Reader) ([]bench.SumRecord, error) {
					return bench.ReadSumCSV(r, kernel)
				})
			}
			direct, err := load("direct")
			if err != nil {
				return err
			}
			vector, err := load("vector")
			if err != nil {
				return err
			}
			indirect, err := load("indirect")
			if err != nil {
				return err
			}

			tables, err := bench.SumMetrics(direct, vector, indirect, peak)
			if err != nil {
				return err
			}
			all := []bench.Table{tables.GFLOPS, tables.Bandwidth, tables.Latency}
			for _, t := range all {
				if err := writeFile(filepath.Join(dir, t.Name+".csv"), func(f *os.File) error {
					return bench.WriteTableCSV(f, t)
				}); err != nil {
					return err
				}
			}
			return bench.Report(cmd.OutOrStdout(), all...)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data", "directory holding the per-kernel CSV files")
	cmd.Flags().Float64Var(&peak, "peak-bandwidth", peak, "theoretical memory bandwidth in bytes/s")
	return cmd
}
