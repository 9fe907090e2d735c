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
	"strings"

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/workerpool"
)

// Schedule selects how output rows or tiles are handed to workers.
type Schedule int

const (
	// Dynamic lets workers grab one tile at a time from a shared atomic
	// counter.
	Dynamic Schedule = iota

	// Static gives each worker one contiguous range of tile indices.
	Static
)

// String returns the schedule name.
func (s Schedule) String() string {
	switch s {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// ParseSchedule parses "static" or "dynamic".
func ParseSchedule(name string) (Schedule, error) {
	switch strings.ToLower(name) {
	case "dynamic", "":
		return Dynamic, nil
	case "static":
		return Static, nil
	}
	return 0, kb.NewInvalidArgError("dgemm.ParseSchedule", fmt.Sprintf("unknown schedule %q", name))
}

// BlockedParallel computes C += A * B like Blocked, with the (n/blockSize)^2
// output tiles distributed over pool.
//
// Scratch tiles are allocated once per worker before the parallel region and
// indexed by worker id, so no two concurrent tiles share scratch. Each tile is
// accumulated entirely by one worker in the same order as Blocked, so the
// result does not depend on the worker count or the schedule. A nil pool
// runs sequentially.
func BlockedParallel(pool *workerpool.Pool, sched Schedule, n, blockSize int, a, b, c []float64) error {
	const op = "dgemm.BlockedParallel"
	if err := checkBlocked(op, n, blockSize, a, b, c); err != nil {
		return err
	}
	if sched != Static && sched != Dynamic {
		return kb.NewInvalidArgError(op, "unknown schedule "+sched.String())
	}

	perRow := kb.NumTiles(n, blockSize)
	numTiles := perRow * perRow
	workers := min(pool.NumWorkers(), numTiles)

	scratches := make([]*scratch, workers)
	for w := range scratches {
		s, err := newScratch(op, blockSize)
		if err != nil {
			return err
		}
		scratches[w] = s
	}

	if sched == Static {
		pool.ParallelForWorkers(numTiles, func(worker, start, end int) {
			s := scratches[worker]
			for i := start; i < end; i++ {
				multiplyTile(n, a, b, c, kb.TileAt(i, n, blockSize), s)
			}
		})
		return nil
	}
	pool.ParallelForAtomicWorkers(numTiles, func(worker, i int) {
		multiplyTile(n, a, b, c, kb.TileAt(i, n, blockSize), scratches[worker])
	})
	return nil
}
