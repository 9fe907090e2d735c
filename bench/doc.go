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

// Package bench runs the kernelbench kernels over a sweep of problem sizes,
// times them, verifies them against a reference and turns the results into
// CSV files and derived metrics.
//
// Three harnesses are provided:
//
//   - RunDGEMM times one dgemm variant for every problem size (and block
//     size, for blocked variants) and checks C against dgemm.Reference.
//   - RunSum repeats a summation kernel until a minimum runtime has elapsed
//     and records the mean time per call.
//   - RunSobel filters one image and records the elapsed time.
//
// Aggregation (MFLOPSTable, SumMetrics) reproduces the derived tables the
// course plots are drawn from.
package bench
