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

// Command kernelbench runs and post-processes the kernelbench benchmarks.
//
// Usage:
//
//	kernelbench dgemm --variant blocked -N 64,128,256 -B 16,32 --csv data/blocked.csv
//	kernelbench dgemm --variant blocked-parallel --workers 8 --schedule static
//	kernelbench sum --kernel indirect --min-runtime 2s --csv data/indirect.csv
//	kernelbench sobel --input zebra.raw --output zebra-sobel.raw
//	kernelbench aggregate dgemm --dir data
//	kernelbench aggregate sum --dir data
//	kernelbench likwid --group FLOPS_DP data/raw/basic-flops_dp.out
//	kernelbench cpuinfo
//	kernelbench variants
//
// Logging goes through klog; -v=1 logs every problem size.
package main

import (
	"errors"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errVerification) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		klog.Flush()
		os.Exit(1)
	}
}
