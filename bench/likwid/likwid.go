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

// Package likwid extracts hardware counter metrics from likwid-perfctr
// output captured while running the kernelbench binaries, and turns them
// into CSV rows and normalized tables.
package likwid

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/kb"
)

// Stat selects a column of the STAT table likwid prints for multi-threaded
// runs.
type Stat int

const (
	Sum Stat = iota + 1
	Min
	Max
	Avg
)

var statNames = map[Stat]string{Sum: "Sum", Min: "Min", Max: "Max", Avg: "Avg"}

// String implements fmt.Stringer.
func (s Stat) String() string {
	if name, ok := statNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stat(%d)", int(s))
}

// Metric is one column extracted from a run.
type Metric struct {
	// Column is the output column name.
	Column string

	// Source is the row label in the likwid tables.
	Source string

	// Stat is used for STAT tables. Zero means Sum.
	Stat Stat

	// Integer truncates the value, for event counts.
	Integer bool
}

// MetricGroup is the set of metrics read for one likwid performance group.
type MetricGroup struct {
	Name    string
	Metrics []Metric
}

// Output column names.
const (
	ColBenchmark     = "Benchmark"
	ColProblemSize   = "Problem Size"
	ColThreads       = "Number of threads"
	ColBlocks        = "Number of blocks"
	ColRuntimeChrono = "Runtime (chrono)"
	ColRuntimeRDTSC  = "Runtime (RDTSC)"
	ColInstructions  = "Instruction Count"
	ColCPI           = "CPI"
	ColL2Accesses    = "L2 accesses"
	ColL2Misses      = "L2 misses"
	ColL3Accesses    = "L3_ACCESS_ALL_TYPES"
)

// Predefined groups.
var (
	FlopsDP = MetricGroup{
		Name: "FLOPS_DP",
		Metrics: []Metric{
			{Column: ColRuntimeRDTSC, Source: "Runtime (RDTSC) [s]", Stat: Max},
			{Column: ColInstructions, Source: "RETIRED_INSTRUCTIONS", Integer: true},
			{Column: ColCPI, Source: "CPI", Stat: Avg},
		},
	}
	L2Cache = MetricGroup{
		Name: "L2CACHE",
		Metrics: []Metric{
			{Column: ColL2Accesses, Source: "L2 accesses", Integer: true},
			{Column: ColL2Misses, Source: "L2 misses", Integer: true},
		},
	}
	L3Cache = MetricGroup{
		Name: "L3CACHE",
		Metrics: []Metric{
			{Column: ColL3Accesses, Source: "L3_ACCESS_ALL_TYPES", Integer: true},
		},
	}
)

// Groups returns the predefined groups.
func Groups() []MetricGroup {
	return []MetricGroup{FlopsDP, L2Cache, L3Cache}
}

// LookupGroup finds a predefined group by case-insensitive name.
func LookupGroup(name string) (MetricGroup, error) {
	g, ok := lo.Find(Groups(), func(g MetricGroup) bool { return strings.EqualFold(g.Name, name) })
	if !ok {
		return MetricGroup{}, kb.NewInvalidArgError("likwid.LookupGroup", fmt.Sprintf("unknown group %q", name))
	}
	return g, nil
}

// Run is one likwid-perfctr invocation.
type Run struct {
	Command   string
	Benchmark string
	N         int
	Threads   int
	BlockSize int // 0 when -B was not given

	// Chrono is the runtime the binary printed, valid when HasChrono.
	Chrono    float64
	HasChrono bool

	// Values maps a metric column to its value. Metrics not found in the
	// output are absent.
	Values map[string]float64
}

var (
	commandRE = regexp.MustCompile(`^\s*-m -g \w+ -C N:0-(\d+)\s+\./benchmark-([\w-]+)\s+-N\s+(\d+)(?:\s+-B\s+(\d+))?`)
	chronoRE  = regexp.MustCompile(`Elapsed time is : (\d+\.\d+)`)
)

const number = `([\d.e+-]+)`

// metricREs are tried in order: STAT table, event table (with a counter
// column), metric table.
type metricREs struct {
	stat, event, metric *regexp.Regexp
}

func compileMetric(source string) metricREs {
	q := regexp.QuoteMeta(source)
	cell := `\s*` + number + `\s*\|`
	return metricREs{
		// The counter column is present in event tables only.
		stat:   regexp.MustCompile(`\|\s*` + q + `\s*STAT\s*\|(?:[^|]*\|)?` + strings.Repeat(cell, 4)),
		event:  regexp.MustCompile(`\|\s*` + q + `\s*\|[^|]+\|` + cell),
		metric: regexp.MustCompile(`\|\s*` + q + `\s*\|` + cell),
	}
}

func (m metricREs) find(text string, stat Stat) (float64, bool) {
	if stat == 0 {
		stat = Sum
	}
	if sm := m.stat.FindStringSubmatch(text); sm != nil {
		if int(stat) < len(sm) {
			if v, err := strconv.ParseFloat(sm[stat], 64); err == nil {
				return v, true
			}
		}
	}
	for _, re := range []*regexp.Regexp{m.event, m.metric} {
		if sm := re.FindStringSubmatch(text); sm != nil {
			if v, err := strconv.ParseFloat(sm[1], 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// Parse reads likwid-perfctr output, which may hold many runs, and extracts
// group's metrics from each. Runs whose command line does not match the
// benchmark invocation pattern are skipped with a warning.
func Parse(r io.Reader, group MetricGroup, logger logr.Logger) ([]Run, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, kb.NewIOError("likwid.Parse", "", err)
	}
	res := lo.Map(group.Metrics, func(m Metric, _ int) metricREs { return compileMetric(m.Source) })

	var runs []Run
	for i, chunk := range strings.Split(string(text), "likwid-perfctr") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		cmd := commandRE.FindStringSubmatch(chunk)
		if cmd == nil {
			logger.Info("Could not parse command line, skipping run", "group", group.Name, "run", i)
			continue
		}
		run := Run{
			Command: "likwid-perfctr " + strings.TrimSpace(firstLine(chunk)),
			Values:  make(map[string]float64, len(group.Metrics)),
		}
		run.Threads, _ = strconv.Atoi(cmd[1])
		run.Threads++
		run.Benchmark = cmd[2]
		run.N, _ = strconv.Atoi(cmd[3])
		if cmd[4] != "" {
			run.BlockSize, _ = strconv.Atoi(cmd[4])
		}
		if m := chronoRE.FindStringSubmatch(chunk); m != nil {
			run.Chrono, _ = strconv.ParseFloat(m[1], 64)
			run.HasChrono = true
		}
		for j, metric := range group.Metrics {
			v, ok := res[j].find(chunk, metric.Stat)
			if !ok {
				continue
			}
			if metric.Integer {
				v = float64(int64(v))
			}
			run.Values[metric.Column] = v
		}
		logger.V(1).Info("Parsed run", "command", run.Command)
		runs = append(runs, run)
	}
	return runs, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
