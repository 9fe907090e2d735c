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

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kernelbench/kernelbench/bench"
)

func newSobelCmd() *cobra.Command {
	cfg := bench.DefaultSobelConfig()

	cmd := &cobra.Command{
		Use:   "sobel",
		Short: "Apply the Sobel edge filter to a raw 8-bit image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()
			rec, err := bench.RunSobel(ctx, cfg, klog.Background())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%dx%d workers=%d elapsed=%.6fs nonzero=%d\n",
				rec.Width, rec.Height, rec.Workers, rec.Elapsed.Seconds(), rec.Nonzero)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Input, "input", "", "raw 8-bit input image (default: random)")
	fs.StringVar(&cfg.Output, "output", "", "write the filtered image here")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "image width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "image height")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent row bands (1: serial, 0: $KB_WORKERS or GOMAXPROCS)")
	addSeedFlag(fs, &cfg.Seed)
	return cmd
}
