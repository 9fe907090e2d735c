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

package bench

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/sum"
)

// MaxSumSize is the largest default summation problem, 2^28 values.
const MaxSumSize int64 = 1 << 28

// SumConfig configures RunSum.
type SumConfig struct {
	Kernel string
	Sizes  []int64

	// MinRuntime is how long each size is repeated for. The call count is
	// derived from a single timed call.
	MinRuntime time.Duration

	// Seed feeds the indirect kernel's index table.
	Seed uint64
}

// DefaultSumSizes returns MaxSumSize>>5 .. MaxSumSize in powers of two.
func DefaultSumSizes() []int64 {
	return lo.Map(lo.Range(6), func(i int, _ int) int64 {
		return MaxSumSize >> (5 - i)
	})
}

// DefaultSumConfig returns the course defaults.
func DefaultSumConfig() SumConfig {
	return SumConfig{
		Kernel:     "direct",
		Sizes:      DefaultSumSizes(),
		MinRuntime: 10 * time.Second,
		Seed:       uint64(time.Now().UnixNano()),
	}
}

// Validate checks the configuration.
func (c SumConfig) Validate() error {
	const op = "bench.SumConfig"
	if _, err := sum.Lookup(c.Kernel); err != nil {
		return err
	}
	if len(c.Sizes) == 0 {
		return kb.NewInvalidArgError(op, "no problem sizes")
	}
	if bad, found := lo.Find(c.Sizes, func(n int64) bool { return n <= 0 || n > kb.MaxElements }); found {
		return kb.Errorf(op, kb.ErrBadSize, "n=%d", bad)
	}
	if c.MinRuntime < 0 {
		return kb.NewInvalidArgError(op, "negative minimum runtime")
	}
	return nil
}

// SumRecord is the outcome of one problem size.
type SumRecord struct {
	Kernel     string
	N          int64
	Iterations int64
	Runtime    time.Duration // mean per call
	Sum        float32
}

// RunSum runs cfg and returns one record per size. A single array of the
// largest size is allocated and reused.
func RunSum(ctx context.Context, cfg SumConfig, logger logr.Logger) ([]SumRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kernel, _ := sum.Lookup(cfg.Kernel)
	if ind, ok := kernel.(sum.Indirect); ok {
		ind.Seed = cfg.Seed
		kernel = ind
	}
	logger = logger.WithValues("kernel", kernel.Name())

	a := make([]float32, slices.Max(cfg.Sizes))
	records := make([]SumRecord, 0, len(cfg.Sizes))
	for _, n := range cfg.Sizes {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if err := sum.Check(n, a); err != nil {
			return records, err
		}
		logger.Info("Working on problem size", "n", n)
		kernel.Setup(n, a)

		start := time.Now()
		result := kernel.Sum(n, a)
		single := max(time.Since(start), time.Nanosecond)
		iterations := max(int64(math.Ceil(float64(cfg.MinRuntime)/float64(single))), 1)

		start = time.Now()
		for range iterations {
			result = kernel.Sum(n, a)
		}
		total := time.Since(start)

		rec := SumRecord{
			Kernel:     kernel.Name(),
			N:          n,
			Iterations: iterations,
			Runtime:    total / time.Duration(iterations),
			Sum:        result,
		}
		logger.V(1).Info("Done", "n", n, "iterations", iterations, "runtime", rec.Runtime, "sum", result)
		records = append(records, rec)
	}
	return records, nil
}
