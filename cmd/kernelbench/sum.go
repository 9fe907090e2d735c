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
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kernelbench/kernelbench/bench"
)

func newSumCmd() *cobra.Command {
	cfg := bench.DefaultSumConfig()
	sizes := joinInts(cfg.Sizes)
	var csvPath string

	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Time the direct, vector and indirect summation kernels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if cfg.Sizes, err = bench.ParseInts(sizes); err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()
			records, err := bench.RunSum(ctx, cfg, klog.Background())
			if err != nil {
				return err
			}
			if err := bench.SumSummary(cmd.OutOrStdout(), records); err != nil {
				return err
			}
			if csvPath == "" {
				return nil
			}
			return writeFile(csvPath, func(f *os.File) error { return bench.WriteSumCSV(f, records) })
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Kernel, "kernel", cfg.Kernel, "summation kernel: direct, vector or indirect")
	fs.StringVarP(&sizes, "sizes", "N", sizes, "comma separated problem sizes, 2^k accepted")
	fs.DurationVar(&cfg.MinRuntime, "min-runtime", 10*time.Second, "repeat each size for at least this long")
	fs.StringVar(&csvPath, "csv", "", "write records to this CSV file")
	addSeedFlag(fs, &cfg.Seed)
	return cmd
}
