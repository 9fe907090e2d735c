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
	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/workerpool"
)

// Descriptions printed by the harness for each kernel.
const (
	BasicDesc           = "Basic implementation, three-loop dgemm."
	BasicParallelDesc   = "Basic implementation, parallel three-loop dgemm."
	BlockedDesc         = "Blocked dgemm."
	BlockedStripsDesc   = "Blocked dgemm, strip copy."
	BlockedParallelDesc = "Blocked dgemm, parallel."
	ReferenceDesc       = "Reference dgemm, gonum BLAS."
)

// Basic computes C += A * B with the naive row, column, inner-product loop
// nest. Each C[row, col] starts from its current value and adds
// A[row, i] * B[i, col] for i ascending.
func Basic(n int, a, b, c []float64) error {
	if err := checkOperands("dgemm.Basic", n, a, b, c); err != nil {
		return err
	}
	basicRows(n, a, b, c, 0, n)
	return nil
}

// BasicParallel computes C += A * B like Basic, with rows of C spread over
// the workers of pool. Static gives each worker one contiguous row range;
// Dynamic has workers grab batches of rows from a shared counter, which
// keeps them busy when some run slower. Rows are disjoint, so no two
// workers write the same element, and the result matches Basic bit for bit
// under either schedule. A nil pool runs sequentially.
func BasicParallel(pool *workerpool.Pool, sched Schedule, n int, a, b, c []float64) error {
	const op = "dgemm.BasicParallel"
	if err := checkOperands(op, n, a, b, c); err != nil {
		return err
	}
	rows := func(start, end int) { basicRows(n, a, b, c, start, end) }
	switch sched {
	case Static:
		pool.ParallelFor(n, rows)
	case Dynamic:
		pool.ParallelForAtomicBatched(n, rowBatch(n, pool.NumWorkers()), rows)
	default:
		return kb.NewInvalidArgError(op, "unknown schedule "+sched.String())
	}
	return nil
}

// rowBatch sizes dynamic row batches so each worker grabs about four.
func rowBatch(n, workers int) int {
	return max(1, n/(4*max(1, workers)))
}

func basicRows(n int, a, b, c []float64, rowStart, rowEnd int) {
	for row := rowStart; row < rowEnd; row++ {
		aRow := a[row*n : row*n+n]
		cRow := c[row*n : row*n+n]
		for col := range n {
			sum := cRow[col]
			for i, aik := range aRow {
				sum += aik * b[i*n+col]
			}
			cRow[col] = sum
		}
	}
}

// checkOperands validates n, the operand lengths, and that C shares no
// memory with A or B. A and B may alias each other since both are read-only.
func checkOperands(op string, n int, a, b, c []float64) error {
	if err := kb.CheckSquare(op, n, a, b, c); err != nil {
		return err
	}
	size := n * n
	if kb.Overlaps(c, a, size) {
		return kb.Errorf(op, kb.ErrAliased, "C overlaps A")
	}
	if kb.Overlaps(c, b, size) {
		return kb.Errorf(op, kb.ErrAliased, "C overlaps B")
	}
	return nil
}

// checkBlocked adds the tiling preconditions to checkOperands.
func checkBlocked(op string, n, blockSize int, a, b, c []float64) error {
	if blockSize < 1 {
		return kb.Errorf(op, kb.ErrBadSize, "block_size=%d", blockSize)
	}
	if err := checkOperands(op, n, a, b, c); err != nil {
		return err
	}
	if n%blockSize != 0 {
		return kb.Errorf(op, kb.ErrNotDivisible, "n=%d block_size=%d", n, blockSize)
	}
	return nil
}
