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

package kb

import (
	"fmt"
	"math"
	"unsafe"
)

// DefaultTolerance is the absolute per-element tolerance used when comparing
// a kernel against its reference.
const DefaultTolerance = 1e-5

// Mismatch reports the first element at which a result differs from its
// reference by more than the tolerance.
type Mismatch struct {
	Index int
	Got   float64
	Want  float64
}

// Error implements the error interface.
func (m *Mismatch) Error() string {
	return fmt.Sprintf("result[%d] = %f, expected %f", m.Index, m.Got, m.Want)
}

// CheckAccuracy compares got against want element by element and returns a
// *Mismatch for the first index where |want-got| > tol, or nil. NaN in
// either slice counts as a mismatch.
func CheckAccuracy(want, got []float64, tol float64) error {
	if len(want) != len(got) {
		return NewInvalidArgError("kb.CheckAccuracy", fmt.Sprintf("length %d != %d", len(got), len(want)))
	}
	for i := range want {
		if !(math.Abs(want[i]-got[i]) <= tol) {
			return &Mismatch{Index: i, Got: got[i], Want: want[i]}
		}
	}
	return nil
}

// MaxAbsDiff returns the largest |a[i]-b[i]| over the common prefix.
func MaxAbsDiff(a, b []float64) float64 {
	var maxErr float64
	for i := range min(len(a), len(b)) {
		if d := math.Abs(a[i] - b[i]); d > maxErr {
			maxErr = d
		}
	}
	return maxErr
}

// CheckSquare validates that every buffer in bufs holds at least n*n values.
func CheckSquare(op string, n int, bufs ...[]float64) error {
	size, err := SquareElements(op, n)
	if err != nil {
		return err
	}
	for i, buf := range bufs {
		if len(buf) < size {
			return Errorf(op, ErrShortBuffer, "operand %d has %d values, need %d", i, len(buf), size)
		}
	}
	return nil
}

// Overlaps reports whether the first n values of a and b share memory.
func Overlaps[T any](a, b []T, n int) bool {
	if n == 0 || len(a) == 0 || len(b) == 0 {
		return false
	}
	elem := unsafe.Sizeof(a[0])
	aStart := uintptr(unsafe.Pointer(&a[0]))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	aEnd := aStart + uintptr(min(n, len(a)))*elem
	bEnd := bStart + uintptr(min(n, len(b)))*elem
	return aStart < bEnd && bStart < aEnd
}
