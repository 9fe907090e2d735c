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
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kernelbench/kernelbench/bench"
	"github.com/kernelbench/kernelbench/kb/contrib/dgemm"
)

func newDGEMMCmd() *cobra.Command {
	cfg := bench.DefaultDGEMMConfig()
	sizes := joinInts(cfg.Sizes)
	blockSizes := joinInts(cfg.BlockSizes)
	schedule := cfg.Schedule.String()
	var csvPath string

	cmd := &cobra.Command{
		Use:   "dgemm",
		Short: "Time C += A*B over a sweep of matrix sizes and check it against BLAS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if cfg.Sizes, err = bench.ParseSizes(sizes); err != nil {
				return err
			}
			if cfg.BlockSizes, err = bench.ParseSizes(blockSizes); err != nil {
				return err
			}
			if cfg.Schedule, err = dgemm.ParseSchedule(schedule); err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()
			records, err := bench.RunDGEMM(ctx, cfg, klog.Background())
			if err != nil {
				return err
			}
			if err := bench.DGEMMSummary(cmd.OutOrStdout(), records); err != nil {
				return err
			}
			if csvPath != "" {
				if err := writeFile(csvPath, func(f *os.File) error { return bench.WriteDGEMMCSV(f, records) }); err != nil {
					return err
				}
			}
			if failed := bench.Failed(records); len(failed) > 0 {
				klog.ErrorS(errVerification, "Results differ from reference BLAS", "failed", len(failed), "total", len(records))
				return errVerification
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Variant, "variant", cfg.Variant,
		"kernel variant: "+strings.Join(lo.Map(dgemm.Variants(), func(v dgemm.Variant, _ int) string { return v.Name }), ", "))
	fs.StringVarP(&sizes, "sizes", "N", sizes, "comma separated matrix orders")
	fs.StringVarP(&blockSizes, "block-sizes", "B", blockSizes, "comma separated block sizes for blocked variants")
	fs.IntSliceVar(&cfg.Workers, "workers", cfg.Workers, "comma separated worker counts swept by parallel variants (0: $KB_WORKERS or GOMAXPROCS)")
	fs.StringVar(&schedule, "schedule", schedule, "row or tile schedule for parallel variants: dynamic or static")
	fs.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "absolute per-element tolerance against BLAS")
	fs.BoolVar(&cfg.DiscardFirst, "discard-first", cfg.DiscardFirst, "mark the first problem size as warm-up")
	fs.StringVar(&csvPath, "csv", "", "write records to this CSV file")
	addSeedFlag(fs, &cfg.Seed)
	return cmd
}

func joinInts[T int | int64](vs []T) string {
	return strings.Join(lo.Map(vs, func(v T, _ int) string { return strconv.FormatInt(int64(v), 10) }), ",")
}
