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

package dgemm

import (
	"github.com/kernelbench/kernelbench/kb"
)

// scratch is the private working set of one unit of work: the A and B
// operand tiles of the current block_k step and the C tile accumulator.
// Tiles are block_size x block_size, row-major, contiguous.
type scratch struct {
	rowTile []float64 // A[block_i, block_k]
	colTile []float64 // B[block_k, block_j]
	tile    []float64 // C[block_i, block_j]
}

func newScratch(op string, blockSize int) (*scratch, error) {
	size, err := kb.SquareElements(op, blockSize)
	if err != nil {
		return nil, err
	}
	return &scratch{
		rowTile: make([]float64, size),
		colTile: make([]float64, size),
		tile:    make([]float64, size),
	}, nil
}

// Blocked computes C += A * B one block_size x block_size output tile at a
// time. For each output tile the C tile is copied into scratch, every
// (A, B) operand tile pair along block_k is copied in and multiplied into
// it, and the accumulated tile is copied back to C.
//
// n must be a positive multiple of blockSize.
func Blocked(n, blockSize int, a, b, c []float64) error {
	const op = "dgemm.Blocked"
	if err := checkBlocked(op, n, blockSize, a, b, c); err != nil {
		return err
	}
	s, err := newScratch(op, blockSize)
	if err != nil {
		return err
	}

	perRow := kb.NumTiles(n, blockSize)
	for i := range perRow * perRow {
		multiplyTile(n, a, b, c, kb.TileAt(i, n, blockSize), s)
	}
	return nil
}

// multiplyTile computes the output tile t of C += A * B using s.
// It reads only A, B and the t region of C, and writes only the t region of
// C, which is what makes distinct tiles safe to run concurrently.
func multiplyTile(n int, a, b, c []float64, t kb.Tile, s *scratch) {
	bs := t.Size
	loadTile(s.tile, c, n, t)
	for blockK := 0; blockK < n; blockK += bs {
		loadTile(s.rowTile, a, n, kb.Tile{Origin: kb.Coord{Row: t.Origin.Row, Col: blockK}, Size: bs})
		loadTile(s.colTile, b, n, kb.Tile{Origin: kb.Coord{Row: blockK, Col: t.Origin.Col}, Size: bs})
		mulAddTile(s.rowTile, bs, s.colTile, bs, s.tile, bs)
	}
	storeTile(c, n, t, s.tile)
}

// loadTile copies tile t of the n x n matrix src into the contiguous
// t.Size x t.Size buffer dst.
func loadTile(dst, src []float64, n int, t kb.Tile) {
	bs := t.Size
	for row := range bs {
		off := kb.Coord{Row: t.Origin.Row + row, Col: t.Origin.Col}.Offset(n)
		copy(dst[row*bs:(row+1)*bs], src[off:off+bs])
	}
}

// storeTile copies the contiguous tile buffer src back into tile t of dst.
func storeTile(dst []float64, n int, t kb.Tile, src []float64) {
	bs := t.Size
	for row := range bs {
		off := kb.Coord{Row: t.Origin.Row + row, Col: t.Origin.Col}.Offset(n)
		copy(dst[off:off+bs], src[row*bs:(row+1)*bs])
	}
}

// mulAddTile computes c += a * b for bs x bs operands, where a has row
// stride lda, b has row stride ldb and c is contiguous. The inner product
// for each c element runs k ascending.
func mulAddTile(a []float64, lda int, b []float64, ldb int, c []float64, bs int) {
	for i := range bs {
		aRow := a[i*lda : i*lda+bs]
		cRow := c[i*bs : (i+1)*bs]
		for j := range bs {
			sum := cRow[j]
			for k, aik := range aRow {
				sum += aik * b[k*ldb+j]
			}
			cRow[j] = sum
		}
	}
}

// BlockedStrips computes C += A * B with the same tiling as Blocked but a
// coarser copy: the block_size x n row strip of A is copied once per
// block_i and the n x block_size column strip of B once per output tile.
// The per-element accumulation order is the same as Blocked.
func BlockedStrips(n, blockSize int, a, b, c []float64) error {
	const op = "dgemm.BlockedStrips"
	if err := checkBlocked(op, n, blockSize, a, b, c); err != nil {
		return err
	}
	if n > kb.MaxElements/blockSize {
		return kb.Errorf(op, kb.ErrTooLarge, "strip of %d x %d", blockSize, n)
	}
	s, err := newScratch(op, blockSize)
	if err != nil {
		return err
	}
	rowStrip := make([]float64, blockSize*n)
	colStrip := make([]float64, n*blockSize)

	bs := blockSize
	for blockI := 0; blockI < n; blockI += bs {
		// A[block_i:block_i+bs, 0:n] is contiguous in A
		copy(rowStrip, a[blockI*n:(blockI+bs)*n])

		for blockJ := 0; blockJ < n; blockJ += bs {
			for row := range n {
				copy(colStrip[row*bs:(row+1)*bs], b[row*n+blockJ:row*n+blockJ+bs])
			}
			t := kb.Tile{Origin: kb.Coord{Row: blockI, Col: blockJ}, Size: bs}
			loadTile(s.tile, c, n, t)
			for blockK := 0; blockK < n; blockK += bs {
				mulAddTile(rowStrip[blockK:], n, colStrip[blockK*bs:], bs, s.tile, bs)
			}
			storeTile(c, n, t, s.tile)
		}
	}
	return nil
}
