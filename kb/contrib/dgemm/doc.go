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

// Package dgemm provides square double-precision matrix multiply kernels,
//
//	C := C + A * B
//
// where A, B and C are n x n matrices stored row-major in flat slices. A and
// B are never written; only C changes.
//
// The kernels illustrate what blocking, copy optimization and parallelism do
// to the same O(n^3) loop nest:
//
//   - Basic: the three-loop reference ordering.
//   - BasicParallel: Basic with the row loop spread over a worker pool,
//     as static ranges or dynamic batches.
//   - Blocked: block_size x block_size output tiles; each C tile and every
//     A and B operand tile is copied into contiguous scratch before use and
//     the C tile is copied back once all block_k steps are accumulated.
//   - BlockedStrips: the same tiling, but the whole A row strip and B column
//     strip are copied once per tile row / tile instead of per block_k step.
//   - BlockedParallel: Blocked with the (block_i, block_j) tile space spread
//     over a worker pool; each worker owns its own scratch tiles.
//   - Reference: gonum's BLAS Gemm, used as the correctness oracle.
//
// Every kernel validates its arguments before touching C and returns a
// *kb.Error on a violated precondition (n not a multiple of the block size,
// short buffers, C overlapping A or B).
//
// Within one output element all blocked kernels add the n products in the
// same order as Basic (k ascending, starting from the old C value), so the
// blocked and parallel variants are bitwise identical to each other for any
// worker count or schedule.
//
// Example usage:
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//	if err := dgemm.BlockedParallel(pool, dgemm.Dynamic, n, 32, a, b, c); err != nil {
//	    return err
//	}
package dgemm
