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

package kb

import (
	"os"
	"runtime"
	"strconv"
)

// DispatchLevel is the widest vector instruction set the CPU reports.
// The kernels are scalar Go; the level is used to pick default tile sizes
// and is printed in benchmark reports so runs on different machines can be
// told apart.
type DispatchLevel int

const (
	// DispatchScalar indicates no vector extension was detected or KB_NO_SIMD is set.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates SSE2 (128-bit), the amd64 baseline.
	DispatchSSE2

	// DispatchAVX2 indicates AVX2 with FMA (256-bit).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512F (512-bit).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON (128-bit).
	DispatchNEON

	// DispatchSVE indicates ARM SVE (scalable).
	DispatchSVE
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	case DispatchSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// currentLevel is set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

func init() {
	if NoSimdEnv() {
		currentLevel = DispatchScalar
		return
	}
	currentLevel = detectLevel()
}

// CurrentLevel returns the detected dispatch level.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentName returns the name of the detected dispatch level.
func CurrentName() string {
	return currentLevel.String()
}

// NoSimdEnv checks if the KB_NO_SIMD environment variable is set.
// When set, the dispatch level is reported as scalar regardless of CPU
// capabilities.
func NoSimdEnv() bool {
	return envBool("KB_NO_SIMD")
}

// Workers returns the default worker count for parallel kernels: KB_WORKERS
// when it holds a positive integer, GOMAXPROCS otherwise.
func Workers() int {
	if val := os.Getenv("KB_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}

// DefaultBlockSize returns a dgemm tile edge such that the three float64
// scratch tiles fit in the L1 data cache of the host platform. The choice
// depends on GOOS/GOARCH, not on the dispatch level: vector width does not
// change the cache size.
func DefaultBlockSize() int {
	return blockSizeFor(runtime.GOOS, runtime.GOARCH)
}

//   - 32: 3 * 32 * 32 * 8 bytes = 24KB < 32KB L1d (x86, generic arm64)
//   - 64: 3 * 64 * 64 * 8 bytes = 96KB < 128KB L1d (Apple arm64)
func blockSizeFor(goos, goarch string) int {
	if goos == "darwin" && goarch == "arm64" {
		return 64
	}
	return 32
}

func envBool(name string) bool {
	val := os.Getenv(name)
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
