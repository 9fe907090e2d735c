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
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/dgemm"
	"github.com/kernelbench/kernelbench/kb/contrib/workerpool"
)

// DGEMMConfig configures RunDGEMM.
type DGEMMConfig struct {
	// Variant is a dgemm.Lookup name.
	Variant string

	// Sizes are the matrix orders, in run order. Repeats are allowed.
	Sizes []int

	// BlockSizes are swept for blocked variants. Block sizes that do not
	// divide a problem size are skipped for that size.
	BlockSizes []int

	// Workers are the pool sizes swept for parallel variants, one pool per
	// count; <= 0 means kb.Workers(). Empty runs once with kb.Workers().
	// Sequential variants ignore it.
	Workers []int

	Schedule dgemm.Schedule

	// Tolerance is the absolute per-element tolerance against the reference.
	Tolerance float64

	// Seed makes the random operands reproducible.
	Seed uint64

	// DiscardFirst marks the records of the first size as warm-up: the first
	// call pays one-time costs (page faults, BLAS setup) that would skew it.
	DiscardFirst bool
}

// DefaultDGEMMConfig returns the course defaults.
func DefaultDGEMMConfig() DGEMMConfig {
	return DGEMMConfig{
		Variant:      "blocked",
		Sizes:        []int{64, 64, 128, 256, 512, 1024, 2048},
		BlockSizes:   defaultBlockSizes(),
		Workers:      []int{1, 4, 16, 64},
		Schedule:     dgemm.Dynamic,
		Tolerance:    kb.DefaultTolerance,
		Seed:         uint64(time.Now().UnixNano()),
		DiscardFirst: true,
	}
}

// Validate checks the configuration.
func (c DGEMMConfig) Validate() error {
	const op = "bench.DGEMMConfig"
	v, err := dgemm.Lookup(c.Variant)
	if err != nil {
		return err
	}
	if len(c.Sizes) == 0 {
		return kb.NewInvalidArgError(op, "no problem sizes")
	}
	for _, n := range c.Sizes {
		if _, err := kb.SquareElements(op, n); err != nil {
			return err
		}
	}
	if v.Blocked {
		if len(c.BlockSizes) == 0 {
			return kb.NewInvalidArgError(op, "blocked variant needs block sizes")
		}
		if bad, found := lo.Find(c.BlockSizes, func(b int) bool { return b < 1 }); found {
			return kb.Errorf(op, kb.ErrBadSize, "block size %d", bad)
		}
	}
	if !(c.Tolerance >= 0) {
		return kb.NewInvalidArgError(op, fmt.Sprintf("tolerance %g", c.Tolerance))
	}
	return nil
}

// DGEMMRecord is the outcome of one timed kernel call.
type DGEMMRecord struct {
	Variant   string
	N         int
	BlockSize int // 0 for unblocked variants
	Workers   int
	Runtime   time.Duration
	Verified  bool
	Mismatch  *kb.Mismatch // first bad element when !Verified
	Warmup    bool
}

// MFLOPS returns N^3 / runtime in millions per second, the rate the course
// tables use.
func (r DGEMMRecord) MFLOPS() float64 {
	secs := r.Runtime.Seconds()
	if secs <= 0 {
		return 0
	}
	n := float64(r.N)
	return n * n * n / secs / 1e6
}

// workerCounts resolves Workers to distinct pool sizes, in order.
func (c DGEMMConfig) workerCounts() []int {
	if len(c.Workers) == 0 {
		return []int{kb.Workers()}
	}
	return lo.Uniq(lo.Map(c.Workers, func(w int, _ int) int {
		return lo.Ternary(w > 0, w, kb.Workers())
	}))
}

// defaultBlockSizes is the course sweep plus the platform default block size.
func defaultBlockSizes() []int {
	sizes := []int{2, 16, 32, 64}
	if !slices.Contains(sizes, kb.DefaultBlockSize()) {
		sizes = append(sizes, kb.DefaultBlockSize())
	}
	return sizes
}

// RunDGEMM runs cfg and returns one record per (size, worker count, block
// size); sequential variants run with a single worker. An accuracy failure
// does not stop the run; it is recorded and logged. ctx is checked between
// problems.
func RunDGEMM(ctx context.Context, cfg DGEMMConfig, logger logr.Logger) ([]DGEMMRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v, _ := dgemm.Lookup(cfg.Variant)

	workers := []int{1}
	if v.Parallel {
		workers = cfg.workerCounts()
	}
	pools := make(map[int]*workerpool.Pool, len(workers))
	if v.Parallel {
		for _, w := range workers {
			pools[w] = workerpool.New(w)
		}
		defer func() {
			for _, pool := range pools {
				pool.Close()
			}
		}()
	}

	logger = logger.WithValues("variant", v.Name)
	logger.Info("Starting dgemm sweep", "description", v.Desc, "workers", workers, "level", kb.CurrentName())

	rng := kb.NewRand(cfg.Seed)
	var records []DGEMMRecord
	for i, n := range cfg.Sizes {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		logger.Info("Working on problem size", "n", n)

		blockSizes := []int{0}
		if v.Blocked {
			blockSizes = lo.Filter(lo.Uniq(cfg.BlockSizes), func(b int, _ int) bool {
				if n%b != 0 {
					logger.Info("Skipping block size that does not divide n", "n", n, "blockSize", b)
					return false
				}
				return true
			})
		}

		p, err := newProblem(n, rng)
		if err != nil {
			return records, err
		}
		for _, w := range workers {
			for _, bs := range blockSizes {
				kcfg := dgemm.Config{BlockSize: bs, Pool: pools[w], Schedule: cfg.Schedule}
				rec, err := p.run(v, kcfg, cfg.Tolerance)
				if err != nil {
					return records, err
				}
				rec.Workers = w
				rec.Warmup = cfg.DiscardFirst && i == 0
				records = append(records, rec)

				log := logger.V(1)
				if !rec.Verified {
					log = logger
				}
				log.Info("Done", "n", n, "blockSize", bs, "workers", w, "runtime", rec.Runtime,
					"mflops", rec.MFLOPS(), "verified", rec.Verified, "warmup", rec.Warmup)
				if rec.Mismatch != nil {
					logger.Error(rec.Mismatch, "Result differs from reference BLAS", "n", n, "blockSize", bs, "workers", w)
				}
			}
		}
	}
	return records, nil
}

// problem holds the operands of one size. The kernel works on a, b, c; the
// pristine copies are restored before every call and feed the reference.
type problem struct {
	n                   int
	a, b, c             *kb.Matrix
	aCopy, bCopy, cCopy *kb.Matrix
	want                *kb.Matrix
}

func newProblem(n int, rng *rand.Rand) (*problem, error) {
	mats := make([]*kb.Matrix, 7)
	for i := range mats {
		m, err := kb.NewMatrix(n)
		if err != nil {
			return nil, err
		}
		mats[i] = m
	}
	p := &problem{
		n: n,
		a: mats[0], b: mats[1], c: mats[2],
		aCopy: mats[3], bCopy: mats[4], cCopy: mats[5],
		want: mats[6],
	}
	p.aCopy.Fill(rng)
	p.bCopy.Fill(rng)
	p.cCopy.Fill(rng)
	// The reference result is the same for every block size.
	if err := p.want.CopyFrom(p.cCopy); err != nil {
		return nil, err
	}
	if err := dgemm.Reference(n, 1, p.aCopy.Data, p.bCopy.Data, p.want.Data); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *problem) run(v dgemm.Variant, cfg dgemm.Config, tol float64) (DGEMMRecord, error) {
	if err := p.restore(); err != nil {
		return DGEMMRecord{}, err
	}

	start := time.Now()
	err := v.Fn(cfg, p.n, p.a.Data, p.b.Data, p.c.Data)
	elapsed := time.Since(start)
	if err != nil {
		return DGEMMRecord{}, err
	}

	rec := DGEMMRecord{
		Variant:   v.Name,
		N:         p.n,
		BlockSize: cfg.BlockSize,
		Runtime:   elapsed,
		Verified:  true,
	}
	if err := kb.CheckAccuracy(p.want.Data, p.c.Data, tol); err != nil {
		var m *kb.Mismatch
		if !errors.As(err, &m) {
			return DGEMMRecord{}, err
		}
		rec.Verified = false
		rec.Mismatch = m
	}
	if !slices.Equal(p.a.Data, p.aCopy.Data) || !slices.Equal(p.b.Data, p.bCopy.Data) {
		rec.Verified = false
	}
	return rec, nil
}

// restore resets the kernel operands from the pristine copies.
func (p *problem) restore() error {
	for _, pair := range [][2]*kb.Matrix{{p.a, p.aCopy}, {p.b, p.bCopy}, {p.c, p.cCopy}} {
		if err := pair[0].CopyFrom(pair[1]); err != nil {
			return err
		}
	}
	return nil
}

// Failed returns the records that did not verify.
func Failed(records []DGEMMRecord) []DGEMMRecord {
	return lo.Filter(records, func(r DGEMMRecord, _ int) bool { return !r.Verified })
}
