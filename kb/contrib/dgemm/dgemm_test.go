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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/workerpool"
)

// operands returns random A, B, C of order n, all in [-1, 1).
func operands(t testing.TB, n int, seed uint64) (a, b, c *kb.Matrix) {
	t.Helper()
	rng := kb.NewRand(seed)
	var err error
	a, err = kb.NewMatrix(n)
	require.NoError(t, err)
	b, err = kb.NewMatrix(n)
	require.NoError(t, err)
	c, err = kb.NewMatrix(n)
	require.NoError(t, err)
	a.Fill(rng)
	b.Fill(rng)
	c.Fill(rng)
	return a, b, c
}

// naive is the triple loop written independently of Basic.
func naive(n int, a, b, c []float64) {
	for i := range n {
		for j := range n {
			for k := range n {
				c[i*n+j] += a[i*n+k] * b[k*n+j]
			}
		}
	}
}

// blockedKernels adapts every blocked realization to one signature.
func blockedKernels(t testing.TB) map[string]func(n, bs int, a, b, c []float64) error {
	pool := workerpool.New(4)
	t.Cleanup(pool.Close)
	return map[string]func(n, bs int, a, b, c []float64) error{
		"Blocked":       Blocked,
		"BlockedStrips": BlockedStrips,
		"BlockedParallelDynamic": func(n, bs int, a, b, c []float64) error {
			return BlockedParallel(pool, Dynamic, n, bs, a, b, c)
		},
		"BlockedParallelStatic": func(n, bs int, a, b, c []float64) error {
			return BlockedParallel(pool, Static, n, bs, a, b, c)
		},
	}
}

func TestBasicSmall(t *testing.T) {
	// [1 2; 3 4] * [5 6; 7 8] + [1 1; 1 1]
	a := []float64{1, 2, 3, 4}
	b := []float64{5, 6, 7, 8}
	c := []float64{1, 1, 1, 1}

	require.NoError(t, Basic(2, a, b, c))
	assert.Equal(t, []float64{20, 23, 44, 51}, c)
	assert.Equal(t, []float64{1, 2, 3, 4}, a, "A must not change")
	assert.Equal(t, []float64{5, 6, 7, 8}, b, "B must not change")
}

func TestAllOnes4x4(t *testing.T) {
	for name, kernel := range blockedKernels(t) {
		t.Run(name, func(t *testing.T) {
			ones := make([]float64, 16)
			for i := range ones {
				ones[i] = 1
			}
			c := make([]float64, 16)

			// A and B may share storage; only C must be distinct.
			require.NoError(t, kernel(4, 2, ones, ones, c))
			for i, v := range c {
				if v != 4 {
					t.Errorf("c[%d] = %f, want 4", i, v)
				}
			}
		})
	}
}

func TestBlockedMatchesNaive64(t *testing.T) {
	n, bs := 64, 16
	a, b, c := operands(t, n, 64)

	want := c.Clone()
	naive(n, a.Data, b.Data, want.Data)

	for name, kernel := range blockedKernels(t) {
		t.Run(name, func(t *testing.T) {
			got := c.Clone()
			require.NoError(t, kernel(n, bs, a.Data, b.Data, got.Data))
			assert.NoError(t, kb.CheckAccuracy(want.Data, got.Data, kb.DefaultTolerance))
		})
	}
}

func TestBlockSizeIndependence(t *testing.T) {
	n := 48
	a, b, c := operands(t, n, 7)

	want := c.Clone()
	require.NoError(t, Basic(n, a.Data, b.Data, want.Data))

	for name, kernel := range blockedKernels(t) {
		for _, bs := range []int{1, 2, 3, 4, 6, 8, 12, 16, 24, 48} {
			t.Run(fmt.Sprintf("%s/b=%d", name, bs), func(t *testing.T) {
				got := c.Clone()
				require.NoError(t, kernel(n, bs, a.Data, b.Data, got.Data))
				if maxErr := kb.MaxAbsDiff(want.Data, got.Data); maxErr > kb.DefaultTolerance {
					t.Errorf("max error %e exceeds tolerance %e", maxErr, kb.DefaultTolerance)
				}
			})
		}
	}
}

func TestIdentity(t *testing.T) {
	n := 32
	a, _, c := operands(t, n, 3)
	identity, err := kb.NewMatrix(n)
	require.NoError(t, err)
	identity.Identity()

	want := c.Clone()
	for i := range want.Data {
		want.Data[i] += a.Data[i]
	}

	for name, kernel := range blockedKernels(t) {
		t.Run(name, func(t *testing.T) {
			got := c.Clone()
			require.NoError(t, kernel(n, 8, a.Data, identity.Data, got.Data))
			assert.NoError(t, kb.CheckAccuracy(want.Data, got.Data, kb.DefaultTolerance))
		})
	}
}

func TestZeroOperand(t *testing.T) {
	n := 16
	a, b, c := operands(t, n, 11)
	zero, err := kb.NewMatrix(n)
	require.NoError(t, err)

	for name, kernel := range blockedKernels(t) {
		t.Run(name+"/A=0", func(t *testing.T) {
			got := c.Clone()
			require.NoError(t, kernel(n, 4, zero.Data, b.Data, got.Data))
			assert.Equal(t, c.Data, got.Data)
		})
		t.Run(name+"/B=0", func(t *testing.T) {
			got := c.Clone()
			require.NoError(t, kernel(n, 4, a.Data, zero.Data, got.Data))
			assert.Equal(t, c.Data, got.Data)
		})
	}
}

// TestBlockedOrderIdentical checks that every blocked realization performs
// the same additions in the same order per element, whatever the worker
// count and schedule.
func TestBlockedOrderIdentical(t *testing.T) {
	n, bs := 96, 16
	a, b, c := operands(t, n, 5)

	want := c.Clone()
	require.NoError(t, Blocked(n, bs, a.Data, b.Data, want.Data))

	strips := c.Clone()
	require.NoError(t, BlockedStrips(n, bs, a.Data, b.Data, strips.Data))
	assert.Equal(t, want.Data, strips.Data)

	for _, workers := range []int{1, 2, 3, 8} {
		for _, sched := range []Schedule{Static, Dynamic} {
			t.Run(fmt.Sprintf("workers=%d/%s", workers, sched), func(t *testing.T) {
				pool := workerpool.New(workers)
				defer pool.Close()

				got := c.Clone()
				require.NoError(t, BlockedParallel(pool, sched, n, bs, a.Data, b.Data, got.Data))
				assert.Equal(t, want.Data, got.Data)
			})
		}
	}

	t.Run("nil pool", func(t *testing.T) {
		got := c.Clone()
		require.NoError(t, BlockedParallel(nil, Dynamic, n, bs, a.Data, b.Data, got.Data))
		assert.Equal(t, want.Data, got.Data)
	})
}

func TestBasicParallelMatchesBasic(t *testing.T) {
	n := 50
	a, b, c := operands(t, n, 9)

	want := c.Clone()
	require.NoError(t, Basic(n, a.Data, b.Data, want.Data))

	for _, workers := range []int{1, 3, 4, 64} {
		pool := workerpool.New(workers)
		for _, sched := range []Schedule{Static, Dynamic} {
			got := c.Clone()
			require.NoError(t, BasicParallel(pool, sched, n, a.Data, b.Data, got.Data))
			assert.Equal(t, want.Data, got.Data, "workers=%d schedule=%s", workers, sched)
		}
		pool.Close()
	}

	got := c.Clone()
	require.NoError(t, BasicParallel(nil, Dynamic, n, a.Data, b.Data, got.Data))
	assert.Equal(t, want.Data, got.Data)

	err := BasicParallel(nil, Schedule(7), n, a.Data, b.Data, c.Clone().Data)
	assert.True(t, kb.IsInvalidArgument(err), "%v", err)
}

func TestRowBatch(t *testing.T) {
	assert.Equal(t, 1, rowBatch(3, 4))
	assert.Equal(t, 12, rowBatch(50, 1))
	assert.Equal(t, 3, rowBatch(50, 4))
	assert.Equal(t, 1, rowBatch(50, 64))
	assert.Equal(t, 25, rowBatch(100, 0))
}

func TestReference(t *testing.T) {
	n := 40
	a, b, c := operands(t, n, 13)

	want := c.Clone()
	naive(n, a.Data, b.Data, want.Data)

	got := c.Clone()
	require.NoError(t, Reference(n, 1, a.Data, b.Data, got.Data))
	assert.NoError(t, kb.CheckAccuracy(want.Data, got.Data, kb.DefaultTolerance))

	// alpha scales only the product
	scaled := c.Clone()
	require.NoError(t, Reference(n, 0, a.Data, b.Data, scaled.Data))
	assert.Equal(t, c.Data, scaled.Data)
}

func TestPreconditions(t *testing.T) {
	buf := func(n int) []float64 { return make([]float64, n) }
	shared := buf(32)

	tests := []struct {
		name     string
		n, bs    int
		a, b, c  []float64
		sentinel *kb.Error
	}{
		{"not divisible", 6, 4, buf(36), buf(36), buf(36), kb.ErrNotDivisible},
		{"block larger than n", 4, 8, buf(16), buf(16), buf(16), kb.ErrNotDivisible},
		{"zero block", 4, 0, buf(16), buf(16), buf(16), kb.ErrBadSize},
		{"negative n", -4, 2, buf(16), buf(16), buf(16), kb.ErrBadSize},
		{"short C", 4, 2, buf(16), buf(16), buf(15), kb.ErrShortBuffer},
		{"short A", 4, 2, buf(3), buf(16), buf(16), kb.ErrShortBuffer},
		{"C is A", 4, 2, shared[:16], buf(16), shared[:16], kb.ErrAliased},
		{"C overlaps B", 4, 2, buf(16), shared[:16], shared[8:24], kb.ErrAliased},
	}

	for name, kernel := range blockedKernels(t) {
		for _, tc := range tests {
			t.Run(name+"/"+tc.name, func(t *testing.T) {
				before := append([]float64(nil), tc.c...)
				err := kernel(tc.n, tc.bs, tc.a, tc.b, tc.c)
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.sentinel)
				assert.True(t, kb.IsInvalidArgument(err))
				assert.Equal(t, before, tc.c, "C must be untouched on error")
			})
		}
	}

	assert.ErrorIs(t, Basic(4, buf(16), buf(16), buf(10)), kb.ErrShortBuffer)
	assert.ErrorIs(t, Reference(0, 1, nil, nil, nil), kb.ErrBadSize)
	assert.True(t, kb.IsInvalidArgument(BlockedParallel(nil, Schedule(7), 4, 2, buf(16), buf(16), buf(16))))
}

func TestVariants(t *testing.T) {
	pool := workerpool.New(3)
	defer pool.Close()

	n := 32
	a, b, c := operands(t, n, 21)
	want := c.Clone()
	naive(n, a.Data, b.Data, want.Data)

	names := make([]string, 0)
	for _, v := range Variants() {
		names = append(names, v.Name)
		t.Run(v.Name, func(t *testing.T) {
			assert.NotEmpty(t, v.Desc)
			got := c.Clone()
			cfg := Config{BlockSize: 8, Pool: pool, Schedule: Static}
			require.NoError(t, v.Fn(cfg, n, a.Data, b.Data, got.Data))
			assert.NoError(t, kb.CheckAccuracy(want.Data, got.Data, kb.DefaultTolerance))
		})
	}
	assert.Equal(t, []string{"basic", "basic-parallel", "blocked", "blocked-strips", "blocked-parallel", "blas"}, names)

	v, err := Lookup("blocked")
	require.NoError(t, err)
	assert.True(t, v.Blocked)
	assert.False(t, v.Parallel)

	_, err = Lookup("nope")
	assert.True(t, kb.IsInvalidArgument(err))
}

func TestParseSchedule(t *testing.T) {
	s, err := ParseSchedule("Static")
	require.NoError(t, err)
	assert.Equal(t, Static, s)

	s, err = ParseSchedule("")
	require.NoError(t, err)
	assert.Equal(t, Dynamic, s)

	_, err = ParseSchedule("guided")
	assert.Error(t, err)
	assert.Equal(t, "Schedule(5)", Schedule(5).String())
}
