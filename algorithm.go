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

import (
	"fmt"
	"slices"
)

// Algorithm selects a contouring variant.
type Algorithm int

const (
	// Serial processes the chunks one after the other.
	Serial Algorithm = iota

	// Threaded processes the chunks concurrently, on a pool of worker
	// goroutines.  The results are identical to Serial.
	Threaded
)

// AlgorithmInfo describes the capabilities of an algorithm.
type AlgorithmInfo struct {
	Name               string
	SupportsCornerMask bool
	SupportsQuadAsTri  bool
	SupportsThreads    bool
	SupportsZInterp    bool
	DefaultLineType    LineType
	DefaultFillType    FillType

	lineTypes []LineType
	fillTypes []FillType
}

// SupportsLineType reports whether the algorithm can produce lines of the
// given type.
func (a *AlgorithmInfo) SupportsLineType(t LineType) bool {
	return slices.Contains(a.lineTypes, t)
}

// SupportsFillType reports whether the algorithm can produce filled
// contours of the given type.
func (a *AlgorithmInfo) SupportsFillType(t FillType) bool {
	return slices.Contains(a.fillTypes, t)
}

var (
	allLineTypes = []LineType{
		LineSeparate, LineSeparateCode, LineChunkCombinedCode,
		LineChunkCombinedOffset, LineChunkCombinedNan,
	}
	allFillTypes = []FillType{
		FillOuterCode, FillOuterOffset, FillChunkCombinedCode,
		FillChunkCombinedOffset, FillChunkCombinedCodeOffset,
		FillChunkCombinedOffsetOffset,
	}
)

var algorithms = []AlgorithmInfo{
	Serial: {
		Name:               "serial",
		SupportsCornerMask: true,
		SupportsQuadAsTri:  true,
		SupportsZInterp:    true,
		DefaultLineType:    LineSeparateCode,
		DefaultFillType:    FillOuterCode,
		lineTypes:          allLineTypes,
		fillTypes:          allFillTypes,
	},
	Threaded: {
		Name:               "threaded",
		SupportsCornerMask: true,
		SupportsQuadAsTri:  true,
		SupportsThreads:    true,
		SupportsZInterp:    true,
		DefaultLineType:    LineSeparateCode,
		DefaultFillType:    FillOuterCode,
		lineTypes:          allLineTypes,
		fillTypes:          allFillTypes,
	},
}

// Capabilities returns the capabilities of an algorithm.  The second
// return value is false if the algorithm is not known.
func Capabilities(a Algorithm) (AlgorithmInfo, bool) {
	if a < 0 || int(a) >= len(algorithms) {
		return AlgorithmInfo{}, false
	}
	return algorithms[a], true
}

// AlgorithmByName returns the algorithm with the given name, in lower case.
func AlgorithmByName(name string) (Algorithm, error) {
	for a := range algorithms {
		if algorithms[a].Name == name {
			return Algorithm(a), nil
		}
	}
	return 0, configErrorf("name", "unknown algorithm %q", name)
}

func (a Algorithm) String() string {
	if info, ok := Capabilities(a); ok {
		return info.Name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}
