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

// Package cpuinfo collects the CPU features reported by golang.org/x/sys/cpu
// so benchmark reports record what machine produced them.
package cpuinfo

import (
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/kernelbench/kernelbench/kb"
)

// Feature is one named CPU capability.
type Feature struct {
	Name string
	Note string
	Has  bool
}

// Info describes the host.
type Info struct {
	GOOS       string
	GOARCH     string
	NumCPU     int
	GOMAXPROCS int
	Level      kb.DispatchLevel
	Features   []Feature
}

// Detect returns the host description.
func Detect() Info {
	info := Info{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Level:      kb.CurrentLevel(),
	}
	switch runtime.GOARCH {
	case "arm64":
		info.Features = arm64Features()
	case "amd64":
		info.Features = amd64Features()
	}
	return info
}

// Enabled returns the names of the features the CPU has.
func (i Info) Enabled() []string {
	var names []string
	for _, f := range i.Features {
		if f.Has {
			names = append(names, f.Name)
		}
	}
	return names
}

// Print writes a human-readable listing to w.
func (i Info) Print(w io.Writer) {
	fmt.Fprintf(w, "GOOS: %s\n", i.GOOS)
	fmt.Fprintf(w, "GOARCH: %s\n", i.GOARCH)
	fmt.Fprintf(w, "NumCPU: %d\n", i.NumCPU)
	fmt.Fprintf(w, "GOMAXPROCS: %d\n", i.GOMAXPROCS)
	fmt.Fprintf(w, "Dispatch level: %s\n", i.Level)
	fmt.Fprintf(w, "Default block size: %d\n", kb.DefaultBlockSize())
	if len(i.Features) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, f := range i.Features {
		if f.Note != "" {
			fmt.Fprintf(w, "  %-12s %v (%s)\n", f.Name+":", f.Has, f.Note)
		} else {
			fmt.Fprintf(w, "  %-12s %v\n", f.Name+":", f.Has)
		}
	}
}

func arm64Features() []Feature {
	return []Feature{
		{"ASIMD", "NEON baseline", cpu.ARM64.HasASIMD},
		{"FP", "Floating point", cpu.ARM64.HasFP},
		{"FPHP", "FP16 scalar, ARMv8.2-A", cpu.ARM64.HasFPHP},
		{"ASIMDHP", "FP16 NEON, ARMv8.2-A", cpu.ARM64.HasASIMDHP},
		{"SVE", "Scalable Vector Extension", cpu.ARM64.HasSVE},
		{"SVE2", "", cpu.ARM64.HasSVE2},
		{"ATOMICS", "Large System Extensions", cpu.ARM64.HasATOMICS},
	}
}

func amd64Features() []Feature {
	return []Feature{
		{"SSE2", "", cpu.X86.HasSSE2},
		{"SSE41", "", cpu.X86.HasSSE41},
		{"SSE42", "", cpu.X86.HasSSE42},
		{"AVX", "", cpu.X86.HasAVX},
		{"AVX2", "", cpu.X86.HasAVX2},
		{"FMA", "", cpu.X86.HasFMA},
		{"AVX512F", "", cpu.X86.HasAVX512F},
		{"AVX512VL", "", cpu.X86.HasAVX512VL},
	}
}
