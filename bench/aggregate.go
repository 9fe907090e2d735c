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
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/kb"
)

// DefaultPeakBandwidth is the theoretical memory bandwidth of the course
// machine, in bytes per second.
const DefaultPeakBandwidth = 204.8e9

// Table is a derived metric keyed by problem size. Missing cells are NaN.
type Table struct {
	Name    string
	Columns []string
	Rows    []TableRow
}

// TableRow is one problem size of a Table.
type TableRow struct {
	N      int64
	Values []float64
}

// Column returns the values of the named column, or nil.
func (t Table) Column(name string) []float64 {
	i := slices.Index(t.Columns, name)
	if i < 0 {
		return nil
	}
	return lo.Map(t.Rows, func(r TableRow, _ int) float64 { return r.Values[i] })
}

// series is one column before pivoting.
type series struct {
	name   string
	values map[int64]float64
}

// pivot lays the series out side by side over the union of their sizes,
// in ascending N.
func pivot(name string, cols []series) Table {
	ns := lo.Uniq(lo.FlatMap(cols, func(s series, _ int) []int64 { return lo.Keys(s.values) }))
	slices.Sort(ns)
	return Table{
		Name:    name,
		Columns: lo.Map(cols, func(s series, _ int) string { return s.name }),
		Rows: lo.Map(ns, func(n int64, _ int) TableRow {
			return TableRow{N: n, Values: lo.Map(cols, func(s series, _ int) float64 {
				if v, ok := s.values[n]; ok {
					return v
				}
				return math.NaN()
			})}
		}),
	}
}

// meanBy averages value over records sharing a size.
func meanBy[T any](records []T, size func(T) int64, value func(T) float64) map[int64]float64 {
	return lo.MapValues(lo.GroupBy(records, size), func(group []T, _ int64) float64 {
		return lo.Sum(lo.Map(group, func(r T, _ int) float64 { return value(r) })) / float64(len(group))
	})
}

func dgemmSeries(name string, records []DGEMMRecord) series {
	kept := lo.Reject(records, func(r DGEMMRecord, _ int) bool { return r.Warmup })
	return series{
		name:   name,
		values: meanBy(kept, func(r DGEMMRecord) int64 { return int64(r.N) }, DGEMMRecord.MFLOPS),
	}
}

// MFLOPSTable puts the MFLOP/s of the basic, blocked and BLAS runs side by
// side. Blocked records get one column per block size ("b = 16"). An empty
// input contributes no column, so MFLOPSTable(basic, nil, blas) and
// MFLOPSTable(nil, blocked, blas) give the two course comparisons. Warm-up
// records are dropped and repeated sizes averaged.
func MFLOPSTable(basic, blocked, blas []DGEMMRecord) Table {
	var cols []series
	if len(basic) > 0 {
		cols = append(cols, dgemmSeries("basic", basic))
	}
	byBlock := lo.GroupBy(blocked, func(r DGEMMRecord) int { return r.BlockSize })
	blockSizes := lo.Keys(byBlock)
	slices.Sort(blockSizes)
	for _, bs := range blockSizes {
		cols = append(cols, dgemmSeries(fmt.Sprintf("b = %d", bs), byBlock[bs]))
	}
	if len(blas) > 0 {
		cols = append(cols, dgemmSeries("blas", blas))
	}
	return pivot("mflops", cols)
}

// SpeedupTable divides the mean baseline runtime by the mean parallel
// runtime at each size. Parallel records get one column per worker count
// ("workers = 4"), split further by block size ("b = 16, workers = 4") and
// by variant when there is more than one. Sizes missing from the baseline
// are NaN. Warm-up records are dropped.
func SpeedupTable(baseline, parallel []DGEMMRecord) Table {
	keep := func(r DGEMMRecord, _ int) bool { return !r.Warmup }
	size := func(r DGEMMRecord) int64 { return int64(r.N) }
	seconds := func(r DGEMMRecord) float64 { return r.Runtime.Seconds() }
	base := meanBy(lo.Filter(baseline, keep), size, seconds)

	type key struct {
		variant   string
		blockSize int
		workers   int
	}
	groups := lo.GroupBy(lo.Filter(parallel, keep), func(r DGEMMRecord) key {
		return key{r.Variant, r.BlockSize, r.Workers}
	})
	keys := lo.Keys(groups)
	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(cmp.Compare(a.variant, b.variant), cmp.Compare(a.blockSize, b.blockSize), cmp.Compare(a.workers, b.workers))
	})
	manyVariants := len(lo.Uniq(lo.Map(keys, func(k key, _ int) string { return k.variant }))) > 1

	cols := lo.Map(keys, func(k key, _ int) series {
		name := fmt.Sprintf("workers = %d", k.workers)
		if k.blockSize > 0 {
			name = fmt.Sprintf("b = %d, %s", k.blockSize, name)
		}
		if manyVariants {
			name = k.variant + " " + name
		}
		return series{
			name: name,
			values: lo.MapValues(meanBy(groups[k], size, seconds), func(rt float64, n int64) float64 {
				b, ok := base[n]
				if !ok || rt <= 0 {
					return math.NaN()
				}
				return b / rt
			}),
		}
	})
	return pivot("speedup", cols)
}

// BestParallelTable puts, for each size, the best mean MFLOP/s over every
// (variant, block size, worker count) of the parallel records next to the
// BLAS runs. Warm-up records are dropped.
func BestParallelTable(parallel, blas []DGEMMRecord) Table {
	kept := lo.Reject(parallel, func(r DGEMMRecord, _ int) bool { return r.Warmup })
	type key struct {
		variant            string
		blockSize, workers int
	}
	best := map[int64]float64{}
	for _, group := range lo.GroupBy(kept, func(r DGEMMRecord) key { return key{r.Variant, r.BlockSize, r.Workers} }) {
		for n, mflops := range meanBy(group, func(r DGEMMRecord) int64 { return int64(r.N) }, DGEMMRecord.MFLOPS) {
			if cur, ok := best[n]; !ok || mflops > cur {
				best[n] = mflops
			}
		}
	}
	cols := []series{{name: "best parallel", values: best}}
	if len(blas) > 0 {
		cols = append(cols, dgemmSeries("blas", blas))
	}
	return pivot("mflops_parallel", cols)
}

// SumTables holds the derived summation metrics.
type SumTables struct {
	GFLOPS    Table // N / runtime / 1e9
	Bandwidth Table // fraction of peak: 4N / runtime / peak
	Latency   Table // ns per access above direct: max(0, rt - rt_direct) / N * 1e9
}

// SumMetrics derives throughput, bandwidth utilisation and memory latency
// from the three summation kernels. peak <= 0 means DefaultPeakBandwidth.
func SumMetrics(direct, vector, indirect []SumRecord, peak float64) (SumTables, error) {
	if len(direct) == 0 {
		return SumTables{}, kb.NewInvalidArgError("bench.SumMetrics", "direct runs are required as the latency baseline")
	}
	if peak <= 0 {
		peak = DefaultPeakBandwidth
	}
	size := func(r SumRecord) int64 { return r.N }
	seconds := func(r SumRecord) float64 { return r.Runtime.Seconds() }
	runtimes := map[string]map[int64]float64{
		"direct":   meanBy(direct, size, seconds),
		"vector":   meanBy(vector, size, seconds),
		"indirect": meanBy(indirect, size, seconds),
	}
	derive := func(kernel string, f func(n int64, rt float64) float64) series {
		return series{
			name: kernel,
			values: lo.MapValues(runtimes[kernel], func(rt float64, n int64) float64 {
				return f(n, rt)
			}),
		}
	}
	present := lo.Filter([]string{"direct", "vector", "indirect"}, func(k string, _ int) bool {
		return len(runtimes[k]) > 0
	})

	gflops := func(n int64, rt float64) float64 { return float64(n) / rt / 1e9 }
	bandwidth := func(n int64, rt float64) float64 { return 4 * float64(n) / rt / peak }
	latency := func(n int64, rt float64) float64 {
		base, ok := runtimes["direct"][n]
		if !ok {
			return math.NaN()
		}
		return max(0, rt-base) / float64(n) * 1e9
	}

	return SumTables{
		GFLOPS:    pivot("gflops", lo.Map(present, func(k string, _ int) series { return derive(k, gflops) })),
		Bandwidth: pivot("bandwidth", lo.Map(present, func(k string, _ int) series { return derive(k, bandwidth) })),
		Latency: pivot("latency", lo.FilterMap(present, func(k string, _ int) (series, bool) {
			return derive(k, latency), k != "direct"
		})),
	}, nil
}

// WriteTableCSV writes t with an N column followed by its value columns.
// NaN cells are written empty.
func WriteTableCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	rows := [][]string{append([]string{ColN}, t.Columns...)}
	for _, r := range t.Rows {
		row := []string{strconv.FormatInt(r.N, 10)}
		for _, v := range r.Values {
			if math.IsNaN(v) {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows = append(rows, row)
	}
	if err := cw.WriteAll(rows); err != nil {
		return kb.NewIOError("bench.WriteTableCSV", t.Name, err)
	}
	return nil
}
