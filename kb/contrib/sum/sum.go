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

// Package sum provides three array-summation kernels that isolate the cost
// of memory access:
//
//   - Direct computes sum(0..n-1) from the loop counter and touches no memory.
//   - Vector reads a[0..n) sequentially, which the hardware prefetcher hides.
//   - Indirect follows a chain of random indices through a, so every step is
//     a dependent load that pays the full memory latency.
//
// All three accumulate in float32, as the measurement is about memory and
// not about the accuracy of the result.
package sum

import (
	"fmt"
	"math"

	"github.com/kernelbench/kernelbench/kb"
)

// Kernel is one summation strategy. Setup prepares a for a problem of size
// n and Sum performs the measured work. Both require n <= len(a); see Check.
type Kernel interface {
	Name() string
	Setup(n int64, a []float32)
	Sum(n int64, a []float32) float32
}

// Check validates a problem size against the working array.
func Check(n int64, a []float32) error {
	if n <= 0 {
		return kb.Errorf("sum.Check", kb.ErrBadSize, "n=%d", n)
	}
	if n > int64(len(a)) {
		return kb.NewInvalidArgError("sum.Check", fmt.Sprintf("n=%d exceeds array length %d", n, len(a)))
	}
	return nil
}

// Direct sums the loop counter.
type Direct struct{}

// Name implements Kernel.
func (Direct) Name() string { return "direct" }

// Setup implements Kernel. Direct uses no data.
func (Direct) Setup(int64, []float32) {}

// Sum returns float32(0) + float32(1) + ... + float32(n-1).
func (Direct) Sum(n int64, _ []float32) float32 {
	var sum float32
	for i := range n {
		sum += float32(i)
	}
	return sum
}

// Vector sums an array holding 0..n-1.
type Vector struct{}

// Name implements Kernel.
func (Vector) Name() string { return "vector" }

// Setup sets a[i] = i.
func (Vector) Setup(n int64, a []float32) {
	for i := range n {
		a[i] = float32(i)
	}
}

// Sum returns a[0] + ... + a[n-1].
func (Vector) Sum(n int64, a []float32) float32 {
	var sum float32
	for _, v := range a[:n] {
		sum += v
	}
	return sum
}

// Indirect sums values reached by pointer chasing.
type Indirect struct {
	Seed uint64
}

// Name implements Kernel.
func (Indirect) Name() string { return "indirect" }

// Setup fills a[0..n) with random indices in [0, n). Above 2^24 an index
// is not exactly representable in float32; it is rounded down when rounding
// to nearest would leave the array.
func (k Indirect) Setup(n int64, a []float32) {
	rng := kb.NewRand(k.Seed)
	for i := range n {
		v := float32(rng.Int64N(n))
		for int64(v) >= n {
			v = math.Nextafter32(v, 0)
		}
		a[i] = v
	}
}

// Sum starts at a[n-1] and performs n dependent loads, each reading the
// element whose index is the value just read.
func (Indirect) Sum(n int64, a []float32) float32 {
	var sum float32
	next := n - 1
	for range n {
		v := a[next]
		sum += v
		next = int64(v)
	}
	return sum
}

// Kernels returns all kernels in a stable order.
func Kernels() []Kernel {
	return []Kernel{Direct{}, Vector{}, Indirect{}}
}

// Lookup returns the kernel called name.
func Lookup(name string) (Kernel, error) {
	for _, k := range Kernels() {
		if k.Name() == name {
			return k, nil
		}
	}
	return nil, kb.NewInvalidArgError("sum.Lookup", fmt.Sprintf("unknown kernel %q", name))
}
