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

import "seehuhn.de/go/geom/vec"

// LineResult is the result of [Generator.Lines].  The concrete type is
// selected by the LineType of the generator:
//
//	LineSeparate             *SeparateLines
//	LineSeparateCode         *SeparateCodeLines
//	LineChunkCombinedCode    *ChunkCombinedCodeLines
//	LineChunkCombinedOffset  *ChunkCombinedOffsetLines
//	LineChunkCombinedNan     *ChunkCombinedNanLines
//
// In the chunk combined types, each field has one entry per chunk, and
// chunks without any lines have nil entries.
type LineResult interface {
	LineType() LineType
	isLineResult()
}

// FillResult is the result of [Generator.Filled].  The concrete type is
// selected by the FillType of the generator:
//
//	FillOuterCode                  *OuterCodeFill
//	FillOuterOffset                *OuterOffsetFill
//	FillChunkCombinedCode          *ChunkCombinedCodeFill
//	FillChunkCombinedOffset        *ChunkCombinedOffsetFill
//	FillChunkCombinedCodeOffset    *ChunkCombinedCodeOffsetFill
//	FillChunkCombinedOffsetOffset  *ChunkCombinedOffsetOffsetFill
//
// Outer boundaries are oriented anticlockwise, holes clockwise.
type FillResult interface {
	FillType() FillType
	isFillResult()
}

// SeparateLines holds one point array per line.
type SeparateLines struct {
	Points [][]vec.Vec2
}

// SeparateCodeLines holds one point array and one code array per line.
// A line is closed if its first and last points coincide, and then ends
// in a ClosePoly code.
type SeparateCodeLines struct {
	Points [][]vec.Vec2
	Codes  [][]Code
}

// ChunkCombinedCodeLines holds, per chunk, the points of all lines and the
// corresponding codes.
type ChunkCombinedCodeLines struct {
	Points [][]vec.Vec2
	Codes  [][]Code
}

// ChunkCombinedOffsetLines holds, per chunk, the points of all lines and
// the offsets where each line starts.  The last offset is the number of
// points.
type ChunkCombinedOffsetLines struct {
	Points  [][]vec.Vec2
	Offsets [][]uint32
}

// ChunkCombinedNanLines holds, per chunk, the points of all lines with a
// NaN point between consecutive lines.
type ChunkCombinedNanLines struct {
	Points [][]vec.Vec2
}

// OuterCodeFill holds one entry per outer boundary.  Each entry contains
// the points of the outer boundary followed by those of its holes.
type OuterCodeFill struct {
	Points [][]vec.Vec2
	Codes  [][]Code
}

// OuterOffsetFill holds one entry per outer boundary.  Each entry contains
// the points of the outer boundary followed by those of its holes, and
// the offsets where each boundary starts.
type OuterOffsetFill struct {
	Points  [][]vec.Vec2
	Offsets [][]uint32
}

// ChunkCombinedCodeFill holds, per chunk, the points and codes of all
// boundaries.  Holes are not grouped with their outer boundaries.
type ChunkCombinedCodeFill struct {
	Points [][]vec.Vec2
	Codes  [][]Code
}

// ChunkCombinedOffsetFill holds, per chunk, the points of all boundaries
// and the offsets where each boundary starts.  Holes are not grouped with
// their outer boundaries.
type ChunkCombinedOffsetFill struct {
	Points  [][]vec.Vec2
	Offsets [][]uint32
}

// ChunkCombinedCodeOffsetFill holds, per chunk, the points and codes of
// all boundaries.  OuterOffsets gives the point index where each outer
// boundary, with its holes, starts.
type ChunkCombinedCodeOffsetFill struct {
	Points       [][]vec.Vec2
	Codes        [][]Code
	OuterOffsets [][]uint32
}

// ChunkCombinedOffsetOffsetFill holds, per chunk, the points of all
// boundaries and the offsets where each boundary starts.  OuterOffsets
// gives the index into Offsets where each outer boundary, with its holes,
// starts.
type ChunkCombinedOffsetOffsetFill struct {
	Points       [][]vec.Vec2
	Offsets      [][]uint32
	OuterOffsets [][]uint32
}

func (*SeparateLines) LineType() LineType            { return LineSeparate }
func (*SeparateCodeLines) LineType() LineType        { return LineSeparateCode }
func (*ChunkCombinedCodeLines) LineType() LineType   { return LineChunkCombinedCode }
func (*ChunkCombinedOffsetLines) LineType() LineType { return LineChunkCombinedOffset }
func (*ChunkCombinedNanLines) LineType() LineType    { return LineChunkCombinedNan }

func (*SeparateLines) isLineResult()            {}
func (*SeparateCodeLines) isLineResult()        {}
func (*ChunkCombinedCodeLines) isLineResult()   {}
func (*ChunkCombinedOffsetLines) isLineResult() {}
func (*ChunkCombinedNanLines) isLineResult()    {}

func (*OuterCodeFill) FillType() FillType                 { return FillOuterCode }
func (*OuterOffsetFill) FillType() FillType               { return FillOuterOffset }
func (*ChunkCombinedCodeFill) FillType() FillType         { return FillChunkCombinedCode }
func (*ChunkCombinedOffsetFill) FillType() FillType       { return FillChunkCombinedOffset }
func (*ChunkCombinedCodeOffsetFill) FillType() FillType   { return FillChunkCombinedCodeOffset }
func (*ChunkCombinedOffsetOffsetFill) FillType() FillType { return FillChunkCombinedOffsetOffset }

func (*OuterCodeFill) isFillResult()                 {}
func (*OuterOffsetFill) isFillResult()               {}
func (*ChunkCombinedCodeFill) isFillResult()         {}
func (*ChunkCombinedOffsetFill) isFillResult()       {}
func (*ChunkCombinedCodeOffsetFill) isFillResult()   {}
func (*ChunkCombinedOffsetOffsetFill) isFillResult() {}
