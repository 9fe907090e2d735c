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

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kernelbench/kernelbench/bench"
	"github.com/kernelbench/kernelbench/bench/likwid"
	"github.com/kernelbench/kernelbench/kb"
)

func newLikwidCmd() *cobra.Command {
	var groupName, csvPath, normalize string
	cmd := &cobra.Command{
		Use:   "likwid [flags] FILE...",
		Short: "Extract performance counters from likwid-perfctr output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := likwid.LookupGroup(groupName)
			if err != nil {
				return err
			}
			var runs []likwid.Run
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return kb.NewIOError("likwid", path, err)
				}
				parsed, err := likwid.Parse(f, group, klog.Background().WithValues("file", path))
				f.Close()
				if err != nil {
					return err
				}
				runs = append(runs, parsed...)
			}
			klog.InfoS("Parsed likwid output", "group", group.Name, "runs", len(runs))

			if csvPath != "" {
				if err := writeFile(csvPath, func(f *os.File) error { return likwid.WriteCSV(f, group, runs) }); err != nil {
					return err
				}
			} else if normalize == "" {
				return likwid.WriteCSV(cmd.OutOrStdout(), group, runs)
			}

			if normalize != "" {
				table, err := likwid.Normalize(runs, normalize)
				if err != nil {
					return err
				}
				return bench.Report(cmd.OutOrStdout(), table)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&groupName, "group", likwid.FlopsDP.Name, "performance group: FLOPS_DP, L2CACHE or L3CACHE")
	fs.StringVar(&csvPath, "csv", "", "write runs to this CSV file (default: stdout)")
	fs.StringVar(&normalize, "normalize", "", "print this column of serial runs normalized by the blas runs")
	return cmd
}
