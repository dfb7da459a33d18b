// seehuhn.de/go/contour - iso-contours of gridded data
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package contour

import "math"

// Dims is a pair of per-axis values, in (y, x) order.
type Dims struct {
	Y, X int
}

// Square returns a Dims with the same value on both axes.
func Square(n int) Dims {
	return Dims{Y: n, X: n}
}

func (d Dims) isZero() bool {
	return d.X == 0 && d.Y == 0
}

// Options configures a [Generator].
//
// At most one of ChunkSize, ChunkCount and TotalChunkCount may be set.
// If none is set, the whole grid is processed as a single chunk.
type Options struct {
	// Algorithm selects the contouring variant.
	Algorithm Algorithm

	// CornerMask controls the treatment of quads with a single masked
	// corner.  If true, the triangle formed by the other three corners is
	// contoured.  If false, the whole quad is excluded.
	CornerMask bool

	// LineType and FillType select the output representations.  The zero
	// value selects the default of the algorithm.
	LineType LineType
	FillType FillType

	// QuadAsTri splits every quad into two triangles along the diagonal
	// from its south-west to its north-east corner.
	QuadAsTri bool

	// ZInterp selects the interpolation along grid edges.  The zero value
	// means Linear.
	ZInterp ZInterp

	// ChunkSize is the number of quads per chunk in each direction.
	// 0 means no chunking in that direction.
	ChunkSize Dims

	// ChunkCount is the number of chunks in each direction.
	ChunkCount Dims

	// TotalChunkCount is the total number of chunks.  It is factored into
	// two near equal chunk counts, the larger of which is used for the
	// longer axis.
	TotalChunkCount int

	// ThreadCount is the number of worker goroutines used by the Threaded
	// algorithm.  0 means one per chunk, up to GOMAXPROCS.
	ThreadCount int
}

// DefaultOptions returns the default options: the Serial algorithm with
// corner masking enabled and no chunking.
func DefaultOptions() *Options {
	return &Options{
		Algorithm:  Serial,
		CornerMask: true,
	}
}

// CalcChunkSizes converts one of the three chunking policies into the
// number of quads per chunk along each axis, for a grid of ny by nx
// points.  Unset policies are passed as zero values.  A returned size of
// 0 means no chunking along that axis.
func CalcChunkSizes(chunkSize, chunkCount Dims, totalChunkCount int, ny, nx int) (Dims, error) {
	set := 0
	if !chunkSize.isZero() {
		set++
	}
	if !chunkCount.isZero() {
		set++
	}
	if totalChunkCount != 0 {
		set++
	}
	if set > 1 {
		return Dims{}, configErrorf("chunk_size",
			"only one of chunk_size, chunk_count and total_chunk_count should be set")
	}

	if totalChunkCount != 0 {
		maxCount := (nx - 1) * (ny - 1)
		total := min(max(totalChunkCount, 1), maxCount)
		switch {
		case total == 1:
			// no chunking
		case total == maxCount:
			chunkSize = Square(1)
		default:
			a, b := twoFactors(total)
			if ny > nx {
				chunkCount = Dims{Y: a, X: b}
			} else {
				chunkCount = Dims{Y: b, X: a}
			}
		}
	}

	if !chunkCount.isZero() {
		x := min(max(chunkCount.X, 1), nx-1)
		y := min(max(chunkCount.Y, 1), ny-1)
		chunkSize = Dims{
			Y: ceilDiv(ny-1, y),
			X: ceilDiv(nx-1, x),
		}
	}

	if chunkSize.X < 0 || chunkSize.Y < 0 {
		return Dims{}, configErrorf("chunk_size", "cannot be negative, got (%d, %d)", chunkSize.Y, chunkSize.X)
	}
	return chunkSize, nil
}

// twoFactors splits n > 0 into two integer factors which are as close as
// possible to the square root of n, and returns them in decreasing order.
// In the worst case, the result is (n, 1).
func twoFactors(n int) (int, int) {
	i := int(math.Ceil(math.Sqrt(float64(n))))
	for n%i != 0 {
		i--
	}
	j := n / i
	if i > j {
		return i, j
	}
	return j, i
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
