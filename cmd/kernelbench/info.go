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
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kernelbench/kernelbench/internal/cpuinfo"
	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/dgemm"
)

func newCPUInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpuinfo",
		Short: "Print the detected CPU features and dispatch level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cpuinfo.Detect().Print(cmd.OutOrStdout())
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "default block size: %d\n", kb.DefaultBlockSize())
			return err
		},
	}
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the dgemm variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, v := range dgemm.Variants() {
				var tags string
				if v.Blocked {
					tags += " blocked"
				}
				if v.Parallel {
					tags += " parallel"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, v.Desc, tags)
			}
			return tw.Flush()
		},
	}
}
