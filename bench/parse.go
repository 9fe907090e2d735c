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
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/kernelbench/kernelbench/kb"
)

// ParseInts parses a comma separated list such as "64,128, 256". Entries may
// also be powers of two written "2^23".
func ParseInts(s string) ([]int64, error) {
	fields := lo.Compact(lo.Map(strings.Split(s, ","), func(f string, _ int) string {
		return strings.TrimSpace(f)
	}))
	if len(fields) == 0 {
		return nil, kb.NewInvalidArgError("bench.ParseInts", "empty list")
	}
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := parseInt(f)
		if err != nil {
			return nil, kb.NewInvalidArgError("bench.ParseInts", err.Error())
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseSizes is ParseInts for int-sized values.
func ParseSizes(s string) ([]int, error) {
	vs, err := ParseInts(s)
	if err != nil {
		return nil, err
	}
	return lo.Map(vs, func(v int64, _ int) int { return int(v) }), nil
}

func parseInt(f string) (int64, error) {
	base, exp, ok := strings.Cut(f, "^")
	if !ok {
		return strconv.ParseInt(f, 10, 64)
	}
	if base != "2" {
		return 0, strconv.ErrSyntax
	}
	e, err := strconv.Atoi(exp)
	if err != nil || e < 0 || e > 62 {
		return 0, &strconv.NumError{Func: "parseInt", Num: f, Err: strconv.ErrRange}
	}
	return 1 << e, nil
}
