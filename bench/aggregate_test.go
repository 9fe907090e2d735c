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
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dgemmRun(variant string, n, bs int, rt time.Duration) DGEMMRecord {
	return DGEMMRecord{Variant: variant, N: n, BlockSize: bs, Runtime: rt, Verified: true}
}

func TestMFLOPSTable(t *testing.T) {
	warm := dgemmRun("basic", 1000, 0, time.Hour)
	warm.Warmup = true
	basic := []DGEMMRecord{warm, dgemmRun("basic", 1000, 0, time.Second), dgemmRun("basic", 1000, 0, 3*time.Second), dgemmRun("basic", 2000, 0, 8*time.Second)}
	blocked := []DGEMMRecord{
		dgemmRun("blocked", 1000, 32, 500*time.Millisecond),
		dgemmRun("blocked", 1000, 16, time.Second),
		dgemmRun("blocked", 2000, 16, 4*time.Second),
	}
	blas := []DGEMMRecord{dgemmRun("blas", 1000, 0, 100*time.Millisecond), dgemmRun("blas", 2000, 0, 800*time.Millisecond)}

	table := MFLOPSTable(basic, blocked, blas)
	assert.Equal(t, []string{"basic", "b = 16", "b = 32", "blas"}, table.Columns)
	require.Len(t, table.Rows, 2)

	// N=1000: basic averages 1000 and 333.3 MFLOP/s; the warm-up is dropped.
	assert.Equal(t, int64(1000), table.Rows[0].N)
	assert.InDelta(t, (1000+1000.0/3)/2, table.Rows[0].Values[0], 1e-9)
	assert.InDelta(t, 1000, table.Rows[0].Values[1], 1e-9)
	assert.InDelta(t, 2000, table.Rows[0].Values[2], 1e-9)
	assert.InDelta(t, 10000, table.Rows[0].Values[3], 1e-9)

	assert.Equal(t, int64(2000), table.Rows[1].N)
	assert.True(t, math.IsNaN(table.Rows[1].Values[2]), "no b = 32 run at N=2000")
	assert.InDelta(t, 2000, table.Rows[1].Values[1], 1e-9)

	assert.Len(t, table.Column("blas"), 2)
	assert.Nil(t, table.Column("b = 64"))

	basicOnly := MFLOPSTable(basic, nil, blas)
	assert.Equal(t, []string{"basic", "blas"}, basicOnly.Columns)
}

func TestSpeedupTable(t *testing.T) {
	parallelRun := func(variant string, n, bs, workers int, rt time.Duration) DGEMMRecord {
		r := dgemmRun(variant, n, bs, rt)
		r.Workers = workers
		return r
	}
	warm := parallelRun("basic-parallel", 1000, 0, 1, time.Hour)
	warm.Warmup = true
	basic := []DGEMMRecord{dgemmRun("basic", 1000, 0, 8*time.Second), dgemmRun("basic", 2000, 0, 64*time.Second)}
	parallel := []DGEMMRecord{
		warm,
		parallelRun("basic-parallel", 1000, 0, 4, 2*time.Second),
		parallelRun("basic-parallel", 1000, 0, 1, 8*time.Second),
		parallelRun("basic-parallel", 1000, 0, 16, time.Second),
		parallelRun("basic-parallel", 1000, 0, 16, 3*time.Second),
		parallelRun("basic-parallel", 2000, 0, 4, 16*time.Second),
		parallelRun("basic-parallel", 4000, 0, 4, time.Second),
	}

	table := SpeedupTable(basic, parallel)
	assert.Equal(t, "speedup", table.Name)
	assert.Equal(t, []string{"workers = 1", "workers = 4", "workers = 16"}, table.Columns)
	require.Len(t, table.Rows, 3)

	// N=1000: 8s serial; one worker matches it, 16 workers average 2s.
	assert.Equal(t, int64(1000), table.Rows[0].N)
	assert.InDelta(t, 1, table.Rows[0].Values[0], 1e-9)
	assert.InDelta(t, 4, table.Rows[0].Values[1], 1e-9)
	assert.InDelta(t, 4, table.Rows[0].Values[2], 1e-9)

	assert.InDelta(t, 4, table.Rows[1].Values[1], 1e-9)
	assert.True(t, math.IsNaN(table.Rows[1].Values[0]), "no one-worker run at N=2000")
	assert.True(t, math.IsNaN(table.Rows[2].Values[1]), "no baseline at N=4000")

	blocked := []DGEMMRecord{
		parallelRun("blocked-parallel", 1000, 16, 4, 4*time.Second),
		parallelRun("blocked-parallel", 1000, 8, 4, time.Second),
	}
	mixed := SpeedupTable(basic, append([]DGEMMRecord{parallel[1]}, blocked...))
	assert.Equal(t, []string{
		"basic-parallel workers = 4",
		"blocked-parallel b = 8, workers = 4",
		"blocked-parallel b = 16, workers = 4",
	}, mixed.Columns)
	assert.Equal(t, []float64{4, 8, 2}, mixed.Rows[0].Values)

	assert.Empty(t, SpeedupTable(basic, nil).Columns)
}

func TestBestParallelTable(t *testing.T) {
	run := func(n, bs, workers int, rt time.Duration) DGEMMRecord {
		r := dgemmRun("blocked-parallel", n, bs, rt)
		r.Workers = workers
		return r
	}
	warm := run(1000, 16, 64, time.Millisecond)
	warm.Warmup = true
	parallel := []DGEMMRecord{
		warm,
		run(1000, 16, 1, 4*time.Second),
		run(1000, 16, 4, time.Second),
		run(1000, 16, 4, 3*time.Second),
		run(1000, 32, 4, 500*time.Millisecond),
		run(2000, 16, 4, 8*time.Second),
	}
	blas := []DGEMMRecord{dgemmRun("blas", 1000, 0, 100*time.Millisecond)}

	table := BestParallelTable(parallel, blas)
	assert.Equal(t, "mflops_parallel", table.Name)
	assert.Equal(t, []string{"best parallel", "blas"}, table.Columns)
	require.Len(t, table.Rows, 2)
	// b = 32 with four workers wins at N=1000; the warm-up is dropped.
	assert.InDelta(t, 2000, table.Rows[0].Values[0], 1e-9)
	assert.InDelta(t, 10000, table.Rows[0].Values[1], 1e-9)
	assert.InDelta(t, 1000, table.Rows[1].Values[0], 1e-9)
	assert.True(t, math.IsNaN(table.Rows[1].Values[1]))
}

func TestSumMetrics(t *testing.T) {
	const n = 1_000_000_000
	direct := []SumRecord{{Kernel: "direct", N: n, Runtime: time.Second}}
	vector := []SumRecord{{Kernel: "vector", N: n, Runtime: 2 * time.Second}}
	indirect := []SumRecord{{Kernel: "indirect", N: n, Runtime: 500 * time.Millisecond}}

	tables, err := SumMetrics(direct, vector, indirect, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"direct", "vector", "indirect"}, tables.GFLOPS.Columns)
	assert.InDeltaSlice(t, []float64{1, 0.5, 2}, tables.GFLOPS.Rows[0].Values, 1e-12)

	assert.InDeltaSlice(t, []float64{4e9 / DefaultPeakBandwidth, 2e9 / DefaultPeakBandwidth, 8e9 / DefaultPeakBandwidth},
		tables.Bandwidth.Rows[0].Values, 1e-12)

	// Latency is relative to direct and clipped at zero.
	assert.Equal(t, []string{"vector", "indirect"}, tables.Latency.Columns)
	assert.InDeltaSlice(t, []float64{1, 0}, tables.Latency.Rows[0].Values, 1e-12)

	tables, err = SumMetrics(direct, nil, nil, 100e9)
	require.NoError(t, err)
	assert.Equal(t, []string{"direct"}, tables.GFLOPS.Columns)
	assert.InDelta(t, 0.04, tables.Bandwidth.Rows[0].Values[0], 1e-12)
	assert.Empty(t, tables.Latency.Columns)

	_, err = SumMetrics(nil, vector, indirect, 0)
	require.Error(t, err)
}

func TestWriteTableCSV(t *testing.T) {
	table := Table{
		Name:    "mflops",
		Columns: []string{"basic", "blas"},
		Rows: []TableRow{
			{N: 64, Values: []float64{1.5, 200}},
			{N: 128, Values: []float64{math.NaN(), 250}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, table))
	assert.Equal(t, "N,basic,blas\n64,1.5,200\n128,,250\n", buf.String())
}

func TestReport(t *testing.T) {
	table := Table{
		Name:    "mflops",
		Columns: []string{"basic"},
		Rows:    []TableRow{{N: 1024, Values: []float64{12345.678}}, {N: 2048, Values: []float64{math.NaN()}}},
	}
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, table, table))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "# mflops"))
	assert.Contains(t, out, "1,024")
	assert.Contains(t, out, "12,345.678")

	buf.Reset()
	wide := Table{Name: "speedup", Columns: []string{"blocked-parallel b = 16, workers = 4", "workers = 1"}, Rows: []TableRow{{N: 64, Values: []float64{2, 1}}}}
	require.NoError(t, Report(&buf, wide))
	assert.Contains(t, buf.String(), "  blocked-parallel b = 16, workers = 4   workers = 1\n")

	buf.Reset()
	bad := dgemmRun("blocked", 64, 16, time.Millisecond)
	bad.Verified = false
	require.NoError(t, DGEMMSummary(&buf, []DGEMMRecord{dgemmRun("basic", 64, 0, time.Millisecond), bad}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "ok"))
	assert.Contains(t, lines[1], "FAILED")

	buf.Reset()
	require.NoError(t, SumSummary(&buf, []SumRecord{{Kernel: "direct", N: 1 << 23, Iterations: 3, Runtime: time.Millisecond}}))
	assert.Contains(t, buf.String(), "8,388,608")
}
