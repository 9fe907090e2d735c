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
	"fmt"
	"os"

	"github.com/kernelbench/kernelbench/kb"
)

// oneOver255 maps a byte in [0, 255] to [0, 1].
const oneOver255 = 1.0 / 255.0

// FromBytes builds a width x height image from row-major 8-bit pixels,
// scaling each byte to [0, 1].
func FromBytes(data []byte, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, kb.Errorf("sobel.FromBytes", kb.ErrBadSize, "%dx%d", width, height)
	}
	if want := width * height; len(data) < want {
		return nil, kb.NewInvalidArgError("sobel.FromBytes",
			fmt.Sprintf("have %d bytes, need %d for %dx%d", len(data), want, width, height))
	}
	img := NewImage(width, height)
	for y := range height {
		src := data[y*width : (y+1)*width]
		row := img.RowSlice(y)
		for x, v := range src {
			row[x] = float32(float64(v) * oneOver255)
		}
	}
	return img, nil
}

// Bytes converts the image back to row-major 8-bit pixels. Values are
// scaled by 255 and truncated; callers keep values in [0, 1].
func (img *Image) Bytes() []byte {
	out := make([]byte, img.width*img.height)
	for y := range img.height {
		dst := out[y*img.width : (y+1)*img.width]
		for x, v := range img.RowSlice(y) {
			dst[x] = byte(v * 255)
		}
	}
	return out
}

// ReadRaw reads a headerless width x height 8-bit image from path.
func ReadRaw(path string, width, height int) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kb.NewIOError("sobel.ReadRaw", path, err)
	}
	if len(data) < width*height {
		return nil, kb.NewIOError("sobel.ReadRaw", path,
			fmt.Errorf("short file: %d bytes, need %d", len(data), width*height))
	}
	return FromBytes(data, width, height)
}

// WriteRaw writes img to path as headerless 8-bit pixels.
func WriteRaw(path string, img *Image) error {
	if err := os.WriteFile(path, img.Bytes(), 0o644); err != nil {
		return kb.NewIOError("sobel.WriteRaw", path, err)
	}
	return nil
}
