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

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/workerpool"
)

func reportGFLOPS(b *testing.B, n int) {
	b.StopTimer()
	flops := 2 * float64(n) * float64(n) * float64(n) / 1e9
	b.ReportMetric(flops*float64(b.N)/b.Elapsed().Seconds(), "GFLOPS")
}

func BenchmarkDGEMM(b *testing.B) {
	b.Logf("Dispatch level: %s", kb.CurrentName())

	pool := workerpool.New(0)
	defer pool.Close()

	for _, n := range []int{64, 128, 256} {
		a, bm, c := operands(b, n, uint64(n))

		b.Run(fmt.Sprintf("%d/Basic", n), func(b *testing.B) {
			for b.Loop() {
				Basic(n, a.Data, bm.Data, c.Data)
			}
			reportGFLOPS(b, n)
		})

		for _, bs := range []int{16, 32, 64} {
			b.Run(fmt.Sprintf("%d/Blocked/b=%d", n, bs), func(b *testing.B) {
				for b.Loop() {
					Blocked(n, bs, a.Data, bm.Data, c.Data)
				}
				reportGFLOPS(b, n)
			})
			b.Run(fmt.Sprintf("%d/BlockedStrips/b=%d", n, bs), func(b *testing.B) {
				for b.Loop() {
					BlockedStrips(n, bs, a.Data, bm.Data, c.Data)
				}
				reportGFLOPS(b, n)
			})
			b.Run(fmt.Sprintf("%d/BlockedParallel/b=%d", n, bs), func(b *testing.B) {
				for b.Loop() {
					BlockedParallel(pool, Dynamic, n, bs, a.Data, bm.Data, c.Data)
				}
				reportGFLOPS(b, n)
			})
		}

		b.Run(fmt.Sprintf("%d/Reference", n), func(b *testing.B) {
			for b.Loop() {
				Reference(n, 1, a.Data, bm.Data, c.Data)
			}
			reportGFLOPS(b, n)
		})
	}
}
