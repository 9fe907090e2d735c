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

// Package kb holds the types shared by the kernelbench kernels: square
// row-major matrices, tile coordinates, the error taxonomy, the accuracy
// check used to compare a kernel against its reference, and runtime CPU
// level detection.
//
// The kernels themselves live under kb/contrib:
//
//	kb/contrib/dgemm       basic, blocked and parallel C += A*B
//	kb/contrib/sobel       Sobel edge filter
//	kb/contrib/sum         direct, vector and indirect array sums
//	kb/contrib/workerpool  fork-join worker pool used by the parallel kernels
//
// Example usage:
//
//	a, _ := kb.NewMatrix(n)
//	b, _ := kb.NewMatrix(n)
//	c, _ := kb.NewMatrix(n)
//	a.Fill(rng)
//	b.Fill(rng)
//	want := c.Clone()
//	dgemm.Blocked(n, 32, a.Data, b.Data, c.Data)
//	dgemm.Reference(n, 1, a.Data, b.Data, want.Data)
//	if err := kb.CheckAccuracy(want.Data, c.Data, kb.DefaultTolerance); err != nil {
//	    // err is a *kb.Mismatch naming the first bad index
//	}
package kb
