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
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Reference computes C := alpha * A * B + C with gonum's Gemm on row-major
// n x n operands. The harness uses it with alpha = 1 as the oracle every
// other kernel is compared against.
func Reference(n int, alpha float64, a, b, c []float64) error {
	if err := checkOperands("dgemm.Reference", n, a, b, c); err != nil {
		return err
	}
	size := n * n
	general := func(data []float64) blas64.General {
		return blas64.General{Rows: n, Cols: n, Stride: n, Data: data[:size]}
	}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, alpha, general(a), general(b), 1, general(c))
	return nil
}
