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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/kb"
)

// CSV column names. Readers locate columns by name, so files with only N,
// runtime (and block_size for blocked runs) are accepted.
const (
	ColVariant    = "variant"
	ColKernel     = "kernel"
	ColN          = "N"
	ColBlockSize  = "block_size"
	ColWorkers    = "workers"
	ColRuntime    = "runtime"
	ColVerified   = "verified"
	ColWarmup     = "warmup"
	ColIterations = "iterations"
	ColSum        = "sum"
)

var (
	dgemmHeader = []string{ColVariant, ColN, ColBlockSize, ColWorkers, ColRuntime, ColVerified, ColWarmup}
	sumHeader   = []string{ColKernel, ColN, ColIterations, ColRuntime, ColSum}
)

// WriteDGEMMCSV writes records with runtimes in seconds. Warm-up records
// are written too; aggregation drops them.
func WriteDGEMMCSV(w io.Writer, records []DGEMMRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{}, dgemmHeader...)); err != nil {
		return kb.NewIOError("bench.WriteDGEMMCSV", "", err)
	}
	for _, r := range records {
		row := []string{
			r.Variant,
			strconv.Itoa(r.N),
			strconv.Itoa(r.BlockSize),
			strconv.Itoa(r.Workers),
			formatSeconds(r.Runtime),
			strconv.FormatBool(r.Verified),
			strconv.FormatBool(r.Warmup),
		}
		if err := cw.Write(row); err != nil {
			return kb.NewIOError("bench.WriteDGEMMCSV", "", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return kb.NewIOError("bench.WriteDGEMMCSV", "", err)
	}
	return nil
}

// ReadDGEMMCSV reads records written by WriteDGEMMCSV, or minimal
// per-variant files with only N, runtime and an optional block_size column.
// variant names the records when the file has no variant column.
func ReadDGEMMCSV(r io.Reader, variant string) ([]DGEMMRecord, error) {
	const op = "bench.ReadDGEMMCSV"
	t, err := readTable(op, r, ColN, ColRuntime)
	if err != nil {
		return nil, err
	}
	records := make([]DGEMMRecord, 0, len(t.rows))
	for line, row := range t.rows {
		rec := DGEMMRecord{Variant: variant, Verified: true}
		if rec.N, err = t.intAt(row, ColN); err != nil {
			return nil, t.lineError(op, line, err)
		}
		if rec.Runtime, err = t.secondsAt(row, ColRuntime); err != nil {
			return nil, t.lineError(op, line, err)
		}
		if v, ok := t.get(row, ColVariant); ok && v != "" {
			rec.Variant = v
		}
		if _, ok := t.get(row, ColBlockSize); ok {
			if rec.BlockSize, err = t.intAt(row, ColBlockSize); err != nil {
				return nil, t.lineError(op, line, err)
			}
		}
		if _, ok := t.get(row, ColWorkers); ok {
			if rec.Workers, err = t.intAt(row, ColWorkers); err != nil {
				return nil, t.lineError(op, line, err)
			}
		}
		if v, ok := t.get(row, ColVerified); ok {
			if rec.Verified, err = strconv.ParseBool(v); err != nil {
				return nil, t.lineError(op, line, err)
			}
		}
		if v, ok := t.get(row, ColWarmup); ok {
			if rec.Warmup, err = strconv.ParseBool(v); err != nil {
				return nil, t.lineError(op, line, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteSumCSV writes records with mean runtimes in seconds.
func WriteSumCSV(w io.Writer, records []SumRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{}, sumHeader...)); err != nil {
		return kb.NewIOError("bench.WriteSumCSV", "", err)
	}
	for _, r := range records {
		row := []string{
			r.Kernel,
			strconv.FormatInt(r.N, 10),
			strconv.FormatInt(r.Iterations, 10),
			formatSeconds(r.Runtime),
			strconv.FormatFloat(float64(r.Sum), 'g', -1, 32),
		}
		if err := cw.Write(row); err != nil {
			return kb.NewIOError("bench.WriteSumCSV", "", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return kb.NewIOError("bench.WriteSumCSV", "", err)
	}
	return nil
}

// ReadSumCSV reads records written by WriteSumCSV or files with only N and
// runtime columns. kernel names the records when the file has no kernel
// column.
func ReadSumCSV(r io.Reader, kernel string) ([]SumRecord, error) {
	const op = "bench.ReadSumCSV"
	t, err := readTable(op, r, ColN, ColRuntime)
	if err != nil {
		return nil, err
	}
	records := make([]SumRecord, 0, len(t.rows))
	for line, row := range t.rows {
		rec := SumRecord{Kernel: kernel, Iterations: 1}
		n, err := t.intAt(row, ColN)
		if err != nil {
			return nil, t.lineError(op, line, err)
		}
		rec.N = int64(n)
		if rec.Runtime, err = t.secondsAt(row, ColRuntime); err != nil {
			return nil, t.lineError(op, line, err)
		}
		if v, ok := t.get(row, ColKernel); ok && v != "" {
			rec.Kernel = v
		}
		if v, ok := t.get(row, ColIterations); ok {
			if rec.Iterations, err = strconv.ParseInt(v, 10, 64); err != nil {
				return nil, t.lineError(op, line, err)
			}
		}
		if v, ok := t.get(row, ColSum); ok {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return nil, t.lineError(op, line, err)
			}
			rec.Sum = float32(f)
		}
		records = append(records, rec)
	}
	return records, nil
}

// table is a CSV file indexed by header name.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(op string, r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	all, err := cr.ReadAll()
	if err != nil {
		return nil, kb.NewIOError(op, "", err)
	}
	if len(all) == 0 {
		return nil, kb.NewInvalidArgError(op, "empty CSV")
	}
	t := &table{
		cols: lo.SliceToMap(lo.Range(len(all[0])), func(i int) (string, int) {
			return strings.TrimSpace(all[0][i]), i
		}),
		rows: all[1:],
	}
	if missing := lo.Filter(required, func(c string, _ int) bool { return !lo.HasKey(t.cols, c) }); len(missing) > 0 {
		return nil, kb.NewInvalidArgError(op, fmt.Sprintf("missing columns %v", missing))
	}
	return t, nil
}

func (t *table) get(row []string, col string) (string, bool) {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func (t *table) intAt(row []string, col string) (int, error) {
	v, _ := t.get(row, col)
	// Optional integer columns are often written as floats ("16.0").
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("column %s: invalid integer %q", col, v)
}

func (t *table) secondsAt(row []string, col string) (time.Duration, error) {
	v, _ := t.get(row, col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("column %s: invalid runtime %q", col, v)
	}
	return time.Duration(math.Round(f * float64(time.Second))), nil
}

func (t *table) lineError(op string, line int, err error) error {
	// +2: one for the header, one for 1-based numbering.
	return kb.NewInvalidArgError(op, fmt.Sprintf("line %d: %v", line+2, err))
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'g', -1, 64)
}
