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

package likwid

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/bench"
	"github.com/kernelbench/kernelbench/kb"
)

// BaselineBenchmark is the benchmark other runs are normalized against.
const BaselineBenchmark = "blas"

// WriteCSV writes one row per run: benchmark, size, threads, block size,
// chrono runtime, then the group's metrics. Missing values are empty.
func WriteCSV(w io.Writer, group MetricGroup, runs []Run) error {
	header := append([]string{ColBenchmark, ColProblemSize, ColThreads, ColBlocks, ColRuntimeChrono},
		lo.Map(group.Metrics, func(m Metric, _ int) string { return m.Column })...)
	rows := [][]string{header}
	for _, r := range runs {
		row := []string{r.Benchmark, strconv.Itoa(r.N), strconv.Itoa(r.Threads), "", ""}
		if r.BlockSize > 0 {
			row[3] = strconv.Itoa(r.BlockSize)
		}
		if r.HasChrono {
			row[4] = strconv.FormatFloat(r.Chrono, 'g', -1, 64)
		}
		for _, m := range group.Metrics {
			v, ok := r.Values[m.Column]
			switch {
			case !ok:
				row = append(row, "")
			case m.Integer:
				row = append(row, strconv.FormatInt(int64(v), 10))
			default:
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		rows = append(rows, row)
	}
	if err := csv.NewWriter(w).WriteAll(rows); err != nil {
		return kb.NewIOError("likwid.WriteCSV", group.Name, err)
	}
	return nil
}

// label names the table column of a run: the benchmark, plus the block
// size for blocked runs.
func label(r Run) string {
	if r.BlockSize > 0 {
		return fmt.Sprintf("%s B%d", r.Benchmark, r.BlockSize)
	}
	return r.Benchmark
}

// Normalize builds a table of column for single-threaded runs, divided by
// the BaselineBenchmark value at the same problem size. The baseline column
// comes first (all ones), the others follow in name order.
func Normalize(runs []Run, column string) (bench.Table, error) {
	serial := lo.Filter(runs, func(r Run, _ int) bool {
		_, ok := r.Values[column]
		return r.Threads == 1 && ok
	})
	baseline := lo.SliceToMap(
		lo.Filter(serial, func(r Run, _ int) bool { return r.Benchmark == BaselineBenchmark }),
		func(r Run) (int64, float64) { return int64(r.N), r.Values[column] },
	)
	if len(baseline) == 0 {
		return bench.Table{}, kb.NewInvalidArgError("likwid.Normalize",
			fmt.Sprintf("no serial %s runs with %q", BaselineBenchmark, column))
	}

	ns := lo.Keys(baseline)
	slices.Sort(ns)
	byLabel := lo.GroupBy(lo.Filter(serial, func(r Run, _ int) bool { return r.Benchmark != BaselineBenchmark }), label)
	labels := lo.Keys(byLabel)
	slices.Sort(labels)

	lookup := lo.MapValues(byLabel, func(rs []Run, _ string) map[int64]float64 {
		return lo.SliceToMap(rs, func(r Run) (int64, float64) { return int64(r.N), r.Values[column] })
	})
	t := bench.Table{
		Name:    column + " normalized by " + BaselineBenchmark,
		Columns: append([]string{BaselineBenchmark}, labels...),
	}
	for _, n := range ns {
		base := baseline[n]
		row := bench.TableRow{N: n, Values: []float64{base / base}}
		for _, l := range labels {
			v, ok := lookup[l][n]
			if !ok {
				row.Values = append(row.Values, math.NaN())
				continue
			}
			row.Values = append(row.Values, v/base)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
