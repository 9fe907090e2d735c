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

package sobel

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/kernelbench/kernelbench/kb"
)

// Sobel weights, row-major 3x3.
var (
	gx = [9]float32{1, 0, -1, 2, 0, -2, 1, 0, -1}
	gy = [9]float32{1, 2, 1, 0, 0, 0, -1, -2, -1}
)

// bandRows is the number of output rows per parallel task.
const bandRows = 32

// FilteredPixel returns the Sobel gradient magnitude at (x, y):
// sqrt(Gx^2 + Gy^2) clamped to [0, 1], where Gx and Gy are the 3x3 Sobel
// convolutions centred on (x, y). Pixels on the image border return 0.
func FilteredPixel(img *Image, x, y int) float32 {
	if x <= 0 || y <= 0 || x >= img.width-1 || y >= img.height-1 {
		return 0
	}

	var a, b float32
	idx := 0
	for row := -1; row <= 1; row++ {
		in := img.Row(y + row)
		for col := -1; col <= 1; col++ {
			v := in[x+col]
			a += v * gx[idx]
			b += v * gy[idx]
			idx++
		}
	}

	g := float32(math.Sqrt(float64(a*a + b*b)))
	return min(max(g, 0), 1)
}

// Filter writes the Sobel magnitude of every pixel of in to out.
func Filter(in, out *Image) error {
	if err := checkImages("sobel.Filter", in, out); err != nil {
		return err
	}
	filterRows(in, out, 0, in.height)
	return nil
}

// FilterParallel is Filter with the output split into bands of rows, at
// most workers of which run at once. Each band writes only its own rows of
// out. Cancelling ctx stops new bands from starting; bands already running
// complete.
func FilterParallel(ctx context.Context, in, out *Image, workers int) error {
	if err := checkImages("sobel.FilterParallel", in, out); err != nil {
		return err
	}
	if workers <= 0 {
		workers = kb.Workers()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < in.height; start += bandRows {
		if gctx.Err() != nil {
			break
		}
		end := min(start+bandRows, in.height)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			filterRows(in, out, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func filterRows(in, out *Image, start, end int) {
	for y := start; y < end; y++ {
		row := out.RowSlice(y)
		for x := range row {
			row[x] = FilteredPixel(in, x, y)
		}
	}
}

// CountAbove returns the number of pixels strictly greater than threshold.
func CountAbove(img *Image, threshold float32) int {
	count := 0
	for y := range img.height {
		for _, v := range img.RowSlice(y) {
			if v > threshold {
				count++
			}
		}
	}
	return count
}

func checkImages(op string, in, out *Image) error {
	if in == nil || out == nil || in.data == nil {
		return kb.Errorf(op, kb.ErrBadSize, "empty image")
	}
	if !in.sameSize(out) {
		return kb.NewInvalidArgError(op, fmt.Sprintf("output is %dx%d, input is %dx%d",
			out.width, out.height, in.width, in.height))
	}
	// Rows of out are written while neighbouring rows of in are still read.
	if kb.Overlaps(in.data, out.data, max(len(in.data), len(out.data))) {
		return kb.Errorf(op, kb.ErrAliased, "output image shares pixels with the input")
	}
	return nil
}
