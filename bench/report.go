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
	"io"
	"math"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kernelbench/kernelbench/kb"
)

const columnWidth = 14

// newPrinter groups digits the way the course tables are read.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// Report renders tables as fixed-width text, one after the other.
func Report(w io.Writer, tables ...Table) error {
	p := newPrinter()
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return kb.NewIOError("bench.Report", "", err)
			}
		}
		var sb strings.Builder
		p.Fprintf(&sb, "# %s\n", t.Name)
		p.Fprintf(&sb, "%*s", columnWidth, ColN)
		widths := lo.Map(t.Columns, func(c string, _ int) int { return max(columnWidth, len(c)+2) })
		for i, c := range t.Columns {
			p.Fprintf(&sb, "%*s", widths[i], c)
		}
		sb.WriteString("\n")
		for _, r := range t.Rows {
			p.Fprintf(&sb, "%*d", columnWidth, r.N)
			for i, v := range r.Values {
				if math.IsNaN(v) {
					p.Fprintf(&sb, "%*s", widths[i], "-")
					continue
				}
				p.Fprintf(&sb, "%*.3f", widths[i], v)
			}
			sb.WriteString("\n")
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return kb.NewIOError("bench.Report", t.Name, err)
		}
	}
	return nil
}

// DGEMMSummary writes one line per record.
func DGEMMSummary(w io.Writer, records []DGEMMRecord) error {
	p := newPrinter()
	var sb strings.Builder
	for _, r := range records {
		status := "ok"
		switch {
		case !r.Verified && r.Mismatch != nil:
			status = "FAILED: " + r.Mismatch.Error()
		case !r.Verified:
			status = "FAILED: operands modified"
		case r.Warmup:
			status = "ok (warm-up)"
		}
		p.Fprintf(&sb, "%-16s N=%-6d B=%-4d workers=%-3d %12.6fs %14.1f MFLOP/s  %s\n",
			r.Variant, r.N, r.BlockSize, r.Workers, r.Runtime.Seconds(), r.MFLOPS(), status)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return kb.NewIOError("bench.DGEMMSummary", "", err)
	}
	return nil
}

// SumSummary writes one line per record.
func SumSummary(w io.Writer, records []SumRecord) error {
	p := newPrinter()
	var sb strings.Builder
	for _, r := range records {
		p.Fprintf(&sb, "%-10s N=%-12d iterations=%-8d %14.9fs sum=%g\n",
			r.Kernel, r.N, r.Iterations, r.Runtime.Seconds(), r.Sum)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return kb.NewIOError("bench.SumSummary", "", err)
	}
	return nil
}
