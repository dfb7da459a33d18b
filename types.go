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

import "fmt"

// LineType selects the representation returned by [Generator.Lines].
type LineType int

// The numeric values are part of the API and do not change.
const (
	// LineSeparate returns one point array per line.
	LineSeparate LineType = 101 + iota

	// LineSeparateCode returns one point array and one code array per line.
	LineSeparateCode

	// LineChunkCombinedCode returns, per chunk, all points in a single array
	// together with a code array.
	LineChunkCombinedCode

	// LineChunkCombinedOffset returns, per chunk, all points in a single array
	// together with the offsets of the start of each line.
	LineChunkCombinedOffset

	// LineChunkCombinedNan returns, per chunk, all points in a single array
	// with lines separated by a NaN point.
	LineChunkCombinedNan
)

var lineTypeNames = map[LineType]string{
	LineSeparate:            "Separate",
	LineSeparateCode:        "SeparateCode",
	LineChunkCombinedCode:   "ChunkCombinedCode",
	LineChunkCombinedOffset: "ChunkCombinedOffset",
	LineChunkCombinedNan:    "ChunkCombinedNan",
}

func (t LineType) String() string {
	if name, ok := lineTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LineType(%d)", int(t))
}

// IsChunked reports whether results of this type have one entry per chunk.
func (t LineType) IsChunked() bool {
	return t != LineSeparate && t != LineSeparateCode
}

// ParseLineType returns the LineType with the given name.
func ParseLineType(name string) (LineType, error) {
	for t, s := range lineTypeNames {
		if s == name {
			return t, nil
		}
	}
	return 0, &ConfigError{Param: "line_type", Msg: fmt.Sprintf("%q is not a valid LineType", name)}
}

// FillType selects the representation returned by [Generator.Filled].
type FillType int

// The numeric values are part of the API and do not change.
const (
	// FillOuterCode returns, for each outer boundary, the points of the
	// boundary and its holes together with a code array.
	FillOuterCode FillType = 201 + iota

	// FillOuterOffset returns, for each outer boundary, the points of the
	// boundary and its holes together with the offsets of each ring.
	FillOuterOffset

	// FillChunkCombinedCode returns, per chunk, all points in a single
	// array together with a code array.  Holes are not grouped with their outers.
	FillChunkCombinedCode

	// FillChunkCombinedOffset returns, per chunk, all points in a single
	// array together with ring offsets.  Holes are not grouped with their
	// outers.
	FillChunkCombinedOffset

	// FillChunkCombinedCodeOffset returns, per chunk, points, codes and the
	// point offsets at which each outer boundary group starts.
	FillChunkCombinedCodeOffset

	// FillChunkCombinedOffsetOffset returns, per chunk, points, ring offsets
	// and the ring offsets at which each outer boundary group starts.
	FillChunkCombinedOffsetOffset
)

var fillTypeNames = map[FillType]string{
	FillOuterCode:                 "OuterCode",
	FillOuterOffset:               "OuterOffset",
	FillChunkCombinedCode:         "ChunkCombinedCode",
	FillChunkCombinedOffset:       "ChunkCombinedOffset",
	FillChunkCombinedCodeOffset:   "ChunkCombinedCodeOffset",
	FillChunkCombinedOffsetOffset: "ChunkCombinedOffsetOffset",
}

func (t FillType) String() string {
	if name, ok := fillTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FillType(%d)", int(t))
}

// IsChunked reports whether results of this type have one entry per chunk.
func (t FillType) IsChunked() bool {
	return t != FillOuterCode && t != FillOuterOffset
}

// groupsHoles reports whether results of this type keep each hole
// together with its enclosing outer boundary.
func (t FillType) groupsHoles() bool {
	return t != FillChunkCombinedCode && t != FillChunkCombinedOffset
}

// ParseFillType returns the FillType with the given name.
func ParseFillType(name string) (FillType, error) {
	for t, s := range fillTypeNames {
		if s == name {
			return t, nil
		}
	}
	return 0, &ConfigError{Param: "fill_type", Msg: fmt.Sprintf("%q is not a valid FillType", name)}
}

// ZInterp selects how crossing points are interpolated along grid edges.
type ZInterp int

const (
	// Linear interpolates linearly in z.
	Linear ZInterp = 1 + iota

	// Log interpolates linearly in log(z).  All unmasked z values must
	// be positive.
	Log
)

func (z ZInterp) String() string {
	switch z {
	case Linear:
		return "Linear"
	case Log:
		return "Log"
	default:
		return fmt.Sprintf("ZInterp(%d)", int(z))
	}
}

// ParseZInterp returns the ZInterp with the given name.
func ParseZInterp(name string) (ZInterp, error) {
	switch name {
	case "Linear":
		return Linear, nil
	case "Log":
		return Log, nil
	}
	return 0, &ConfigError{Param: "z_interp", Msg: fmt.Sprintf("%q is not a valid ZInterp", name)}
}

// Code is a per-point path code.
type Code uint8

// Path codes.
const (
	MoveTo    Code = 1
	LineTo    Code = 2
	ClosePoly Code = 79
)

func (c Code) String() string {
	switch c {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case ClosePoly:
		return "ClosePoly"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}
