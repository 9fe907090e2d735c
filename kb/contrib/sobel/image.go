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

// Package sobel implements the Sobel edge filter on single-channel float32
// images, serially and in parallel row bands, together with the raw 8-bit
// file format the benchmark data is stored in.
//
// Example usage:
//
//	in, err := sobel.ReadRaw("zebra-gray-int8", 3556, 2573)
//	out := sobel.NewImage(in.Width(), in.Height())
//	err = sobel.FilterParallel(ctx, in, out, runtime.GOMAXPROCS(0))
//	err = sobel.WriteRaw("processed-raw-int8-cpu.dat", out)
package sobel

// rowAlign is the row alignment in elements: 16 float32 = one 64-byte
// cache line, so every row starts on its own line.
const rowAlign = 16

// Image is a single-channel 2D array of float32 with cache-line aligned rows.
type Image struct {
	data   []float32
	width  int
	height int
	stride int // elements per row (includes padding)
}

// NewImage creates a zeroed image with the specified dimensions.
// Non-positive dimensions yield an empty image.
func NewImage(width, height int) *Image {
	if width <= 0 || height <= 0 {
		return &Image{}
	}

	stride := ((width + rowAlign - 1) / rowAlign) * rowAlign
	return &Image{
		data:   make([]float32, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// Width returns the image width in pixels.
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image) Height() int {
	return img.height
}

// Stride returns the number of elements per row (including padding).
func (img *Image) Stride() int {
	return img.stride
}

// Row returns a mutable slice for row y, including padding.
func (img *Image) Row(y int) []float32 {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.stride
	return img.data[start : start+img.stride]
}

// RowSlice returns a mutable slice for row y, limited to the image width.
func (img *Image) RowSlice(y int) []float32 {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.stride
	return img.data[start : start+img.width]
}

// At returns the value at position (x, y), or 0 outside the image.
func (img *Image) At(x, y int) float32 {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return 0
	}
	return img.data[y*img.stride+x]
}

// Set sets the value at position (x, y). Out-of-range positions are ignored.
func (img *Image) Set(x, y int, value float32) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return
	}
	img.data[y*img.stride+x] = value
}

// Fill sets every pixel to value.
func (img *Image) Fill(value float32) {
	for y := range img.height {
		row := img.RowSlice(y)
		for x := range row {
			row[x] = value
		}
	}
}

// sameSize reports whether img and other have equal dimensions.
func (img *Image) sameSize(other *Image) bool {
	return img.width == other.width && img.height == other.height
}
