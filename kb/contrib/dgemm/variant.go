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

package dgemm

import (
	"fmt"

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/workerpool"
)

// Config carries the knobs a Variant may use. Unblocked variants ignore
// BlockSize; sequential variants ignore Pool and Schedule.
// Schedule applies to rows for basic-parallel and to tiles for
// blocked-parallel.
type Config struct {
	BlockSize int
	Pool      *workerpool.Pool
	Schedule  Schedule
}

// Func is the common signature of all variants: C += A * B on n x n operands.
type Func func(cfg Config, n int, a, b, c []float64) error

// Variant names one kernel for the harness.
type Variant struct {
	Name     string
	Desc     string
	Blocked  bool // sweeps block sizes
	Parallel bool // uses Config.Pool
	Fn       Func
}

var variants = []Variant{
	{
		Name: "basic",
		Desc: BasicDesc,
		Fn: func(_ Config, n int, a, b, c []float64) error {
			return Basic(n, a, b, c)
		},
	},
	{
		Name:     "basic-parallel",
		Desc:     BasicParallelDesc,
		Parallel: true,
		Fn: func(cfg Config, n int, a, b, c []float64) error {
			return BasicParallel(cfg.Pool, cfg.Schedule, n, a, b, c)
		},
	},
	{
		Name:    "blocked",
		Desc:    BlockedDesc,
		Blocked: true,
		Fn: func(cfg Config, n int, a, b, c []float64) error {
			return Blocked(n, cfg.BlockSize, a, b, c)
		},
	},
	{
		Name:    "blocked-strips",
		Desc:    BlockedStripsDesc,
		Blocked: true,
		Fn: func(cfg Config, n int, a, b, c []float64) error {
			return BlockedStrips(n, cfg.BlockSize, a, b, c)
		},
	},
	{
		Name:     "blocked-parallel",
		Desc:     BlockedParallelDesc,
		Blocked:  true,
		Parallel: true,
		Fn: func(cfg Config, n int, a, b, c []float64) error {
			return BlockedParallel(cfg.Pool, cfg.Schedule, n, cfg.BlockSize, a, b, c)
		},
	},
	{
		Name: "blas",
		Desc: ReferenceDesc,
		Fn: func(_ Config, n int, a, b, c []float64) error {
			return Reference(n, 1, a, b, c)
		},
	},
}

// Variants returns all registered variants in a stable order.
func Variants() []Variant {
	return append([]Variant(nil), variants...)
}

// Lookup returns the variant called name.
func Lookup(name string) (Variant, error) {
	for _, v := range variants {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, kb.NewInvalidArgError("dgemm.Lookup", fmt.Sprintf("unknown variant %q", name))
}
