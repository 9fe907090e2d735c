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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelbench/kernelbench/kb"
)

func TestNewImage(t *testing.T) {
	img := NewImage(20, 3)
	assert.Equal(t, 20, img.Width())
	assert.Equal(t, 3, img.Height())
	assert.Equal(t, 32, img.Stride())
	assert.Len(t, img.Row(0), 32)
	assert.Len(t, img.RowSlice(0), 20)
	assert.Nil(t, img.Row(3))

	img.Set(5, 1, 0.5)
	assert.Equal(t, float32(0.5), img.At(5, 1))
	assert.Equal(t, float32(0), img.At(-1, 1))
	img.Set(100, 100, 1) // ignored

	empty := NewImage(0, 10)
	assert.Equal(t, 0, empty.Width())
	assert.Nil(t, empty.Row(0))
}

func TestFilteredPixelBorder(t *testing.T) {
	img := NewImage(5, 4)
	img.Fill(1)
	for x := range 5 {
		assert.Equal(t, float32(0), FilteredPixel(img, x, 0))
		assert.Equal(t, float32(0), FilteredPixel(img, x, 3))
	}
	for y := range 4 {
		assert.Equal(t, float32(0), FilteredPixel(img, 0, y))
		assert.Equal(t, float32(0), FilteredPixel(img, 4, y))
	}
}

func TestFilteredPixelFlat(t *testing.T) {
	img := NewImage(6, 6)
	img.Fill(0.7)
	assert.InDelta(t, 0, FilteredPixel(img, 2, 2), 1e-6)
}

func TestFilteredPixelVerticalEdge(t *testing.T) {
	// Left half 0, right half 0.1: Gx = -(1+2+1)*0.1 = -0.4, Gy = 0.
	img := NewImage(6, 5)
	for y := range 5 {
		for x := 3; x < 6; x++ {
			img.Set(x, y, 0.1)
		}
	}
	assert.InDelta(t, 0.4, FilteredPixel(img, 2, 2), 1e-6)
	assert.InDelta(t, 0.4, FilteredPixel(img, 3, 2), 1e-6)
	assert.InDelta(t, 0, FilteredPixel(img, 1, 2), 1e-6)
}

func TestFilteredPixelClamped(t *testing.T) {
	img := NewImage(3, 3)
	for y := range 3 {
		img.Set(2, y, 1)
	}
	// Gx = -4, magnitude 4 clamps to 1
	assert.Equal(t, float32(1), FilteredPixel(img, 1, 1))
}

func randomImage(width, height int, seed uint64) *Image {
	rng := kb.NewRand(seed)
	img := NewImage(width, height)
	for y := range height {
		row := img.RowSlice(y)
		for x := range row {
			row[x] = rng.Float32()
		}
	}
	return img
}

func TestFilterParallelMatchesSerial(t *testing.T) {
	in := randomImage(131, 97, 1)

	want := NewImage(131, 97)
	require.NoError(t, Filter(in, want))

	for _, workers := range []int{1, 3, 8, 0} {
		got := NewImage(131, 97)
		require.NoError(t, FilterParallel(context.Background(), in, got, workers))
		for y := range 97 {
			assert.Equal(t, want.RowSlice(y), got.RowSlice(y), "row %d, workers=%d", y, workers)
		}
	}
}

func TestFilterParallelCancelled(t *testing.T) {
	in := randomImage(64, 256, 2)
	out := NewImage(64, 256)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, FilterParallel(ctx, in, out, 2), context.Canceled)
}

func TestFilterSizeMismatch(t *testing.T) {
	in := NewImage(10, 10)
	err := Filter(in, NewImage(10, 9))
	assert.True(t, kb.IsInvalidArgument(err))

	err = Filter(NewImage(0, 0), in)
	assert.ErrorIs(t, err, kb.ErrBadSize)
}

func TestFilterAliased(t *testing.T) {
	in := NewImage(8, 8)
	for y := range 8 {
		for x := 4; x < 8; x++ {
			in.Set(x, y, 0.1)
		}
	}
	before := append([]float32(nil), in.data...)

	err := Filter(in, in)
	assert.ErrorIs(t, err, kb.ErrAliased)
	assert.True(t, kb.IsInvalidArgument(err))

	err = FilterParallel(context.Background(), in, in, 4)
	assert.ErrorIs(t, err, kb.ErrAliased)

	// Distinct Image values over the same pixel storage are rejected too.
	view := &Image{data: in.data[in.stride:], width: 8, height: 7, stride: in.stride}
	top := &Image{data: in.data[:7*in.stride], width: 8, height: 7, stride: in.stride}
	assert.ErrorIs(t, Filter(top, view), kb.ErrAliased)

	assert.Equal(t, before, in.data, "input must be untouched")

	out := NewImage(8, 8)
	require.NoError(t, Filter(in, out))
	assert.InDelta(t, 0.4, out.At(4, 1), 1e-6)
}

func TestCountAbove(t *testing.T) {
	img := NewImage(4, 2)
	img.Set(0, 0, 0.5)
	img.Set(3, 1, 0.01)
	assert.Equal(t, 2, CountAbove(img, 0))
	assert.Equal(t, 1, CountAbove(img, 0.1))
}

func TestBytesRoundTrip(t *testing.T) {
	data := []byte{0, 51, 102, 255, 17, 34}
	img, err := FromBytes(data, 3, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, img.At(1, 0), 1e-6)
	assert.InDelta(t, 1, img.At(0, 1), 1e-6)

	// float -> byte truncates, so 51/255*255 may land on 50
	back := img.Bytes()
	for i := range data {
		assert.InDelta(t, float64(data[i]), float64(back[i]), 1)
	}

	_, err = FromBytes(data, 4, 2)
	assert.True(t, kb.IsInvalidArgument(err))
}

func TestRawFiles(t *testing.T) {
	dir := t.TempDir()
	in := randomImage(40, 30, 3)

	path := filepath.Join(dir, "in.raw")
	require.NoError(t, WriteRaw(path, in))

	got, err := ReadRaw(path, 40, 30)
	require.NoError(t, err)
	for y := range 30 {
		for x := range 40 {
			assert.InDelta(t, in.At(x, y), got.At(x, y), 1.0/255+1e-6)
		}
	}

	_, err = ReadRaw(path, 50, 30)
	assert.Error(t, err)

	_, err = ReadRaw(filepath.Join(dir, "missing.raw"), 4, 4)
	var kerr *kb.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, kb.KindIO, kerr.Kind)
}

func BenchmarkFilter(b *testing.B) {
	in := randomImage(1024, 768, 4)
	out := NewImage(1024, 768)
	b.SetBytes(int64(1024 * 768 * 4))

	b.Run("Serial", func(b *testing.B) {
		for b.Loop() {
			Filter(in, out)
		}
	})
	b.Run("Parallel", func(b *testing.B) {
		for b.Loop() {
			FilterParallel(context.Background(), in, out, 0)
		}
	})
}
