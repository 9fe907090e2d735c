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
	"math/rand/v2"
)

// MaxElements bounds the number of float64 values a single matrix or scratch
// buffer may hold (2^30 values, 8 GiB).
const MaxElements = 1 << 30

// Coord is a (row, col) position inside a row-major square matrix.
type Coord struct {
	Row, Col int
}

// Offset returns the flat index of c in a matrix of order n.
func (c Coord) Offset(n int) int {
	return c.Row*n + c.Col
}

// Tile is a Size x Size sub-matrix whose top-left element is at Origin.
type Tile struct {
	Origin Coord
	Size   int
}

// NumTiles returns the number of tiles along one dimension of an n x n
// matrix split into size x size tiles. n must be a multiple of size.
func NumTiles(n, size int) int {
	return n / size
}

// TileAt maps a flattened tile index in [0, NumTiles(n,size)^2) to its tile.
// Tiles are numbered in row-major tile order.
func TileAt(i, n, size int) Tile {
	perRow := n / size
	return Tile{
		Origin: Coord{Row: (i / perRow) * size, Col: (i % perRow) * size},
		Size:   size,
	}
}

// Tiles returns every size x size tile of an n x n matrix in row-major tile
// order.
func Tiles(n, size int) []Tile {
	perRow := NumTiles(n, size)
	tiles := make([]Tile, 0, perRow*perRow)
	for i := range perRow * perRow {
		tiles = append(tiles, TileAt(i, n, size))
	}
	return tiles
}

// Matrix is an N x N matrix of float64 stored row-major in Data.
type Matrix struct {
	N    int
	Data []float64
}

// NewMatrix allocates a zeroed n x n matrix.
func NewMatrix(n int) (*Matrix, error) {
	size, err := SquareElements("kb.NewMatrix", n)
	if err != nil {
		return nil, err
	}
	return &Matrix{N: n, Data: make([]float64, size)}, nil
}

// SquareElements returns n*n, failing when n is not positive or n*n would
// exceed MaxElements.
func SquareElements(op string, n int) (int, error) {
	if n <= 0 {
		return 0, Errorf(op, ErrBadSize, "n=%d", n)
	}
	if n > MaxElements/n {
		return 0, Errorf(op, ErrTooLarge, "%d x %d exceeds %d elements", n, n, MaxElements)
	}
	return n * n, nil
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) float64 {
	return m.Data[row*m.N+col]
}

// Set sets the element at (row, col).
func (m *Matrix) Set(row, col int, v float64) {
	m.Data[row*m.N+col] = v
}

// Row returns row as a slice aliasing Data.
func (m *Matrix) Row(row int) []float64 {
	start := row * m.N
	return m.Data[start : start+m.N]
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	return &Matrix{N: m.N, Data: data}
}

// CopyFrom copies src into m. Both must have the same order.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if src.N != m.N {
		return NewInvalidArgError("kb.Matrix.CopyFrom", "matrix orders differ")
	}
	copy(m.Data, src.Data)
	return nil
}

// Fill sets every element to a uniform random value in [-1, 1).
func (m *Matrix) Fill(rng *rand.Rand) {
	for i := range m.Data {
		m.Data[i] = 2*rng.Float64() - 1
	}
}

// FillValue sets every element to v.
func (m *Matrix) FillValue(v float64) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// Zero sets every element to 0.
func (m *Matrix) Zero() {
	clear(m.Data)
}

// Identity overwrites m with the identity matrix.
func (m *Matrix) Identity() {
	clear(m.Data)
	for i := range m.N {
		m.Data[i*m.N+i] = 1
	}
}

// NewRand returns a deterministic PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
