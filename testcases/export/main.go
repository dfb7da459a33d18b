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

// Command export writes the contour lines and filled contours of all test
// cases to a JSON file, for comparison with other contouring programs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/contour"
	"seehuhn.de/go/contour/testcases"
)

func main() {
	outFile := flag.String("o", "testdata/contours.json", "output file")
	flag.Parse()

	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			jtc, err := toJSON(category, &tc)
			if err != nil {
				log.Fatalf("%s_%s: %v", category, tc.Name, err)
			}
			out.TestCases = append(out.TestCases, jtc)
		}
	}

	f, err := os.Create(*outFile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}

type jsonTestCase struct {
	Name    string      `json:"name"`
	NX      int         `json:"nx"`
	NY      int         `json:"ny"`
	ZInterp string      `json:"z_interp"`
	Lines   []jsonLines `json:"lines"`
	Filled  []jsonBand  `json:"filled"`
}

type jsonLines struct {
	Level float64       `json:"level"`
	Lines [][][]float64 `json:"lines"`
}

// jsonBand lists the polygons of a band.  Each polygon is a list of
// boundaries, the first is the outer boundary and the others are holes.
type jsonBand struct {
	Lower    float64         `json:"lower"`
	Upper    float64         `json:"upper"`
	Polygons [][][][]float64 `json:"polygons"`
}

func toJSON(category string, tc *testcases.TestCase) (jsonTestCase, error) {
	opt := contour.DefaultOptions()
	opt.LineType = contour.LineSeparate
	opt.FillType = contour.FillOuterOffset
	if tc.Log {
		opt.ZInterp = contour.Log
	}
	g, err := contour.New(&contour.Grid{
		NX: tc.NX, NY: tc.NY,
		X: tc.X, Y: tc.Y, Z: tc.Z,
		Mask: tc.Mask,
	}, opt)
	if err != nil {
		return jsonTestCase{}, err
	}
	defer g.Close()

	jtc := jsonTestCase{
		Name:    category + "_" + tc.Name,
		NX:      tc.NX,
		NY:      tc.NY,
		ZInterp: g.ZInterp().String(),
	}

	for _, level := range tc.Levels {
		res, err := g.Lines(level)
		if err != nil {
			return jsonTestCase{}, err
		}
		lines, ok := res.(*contour.SeparateLines)
		if !ok {
			return jsonTestCase{}, fmt.Errorf("unexpected line type %s", res.LineType())
		}
		jl := jsonLines{Level: level, Lines: [][][]float64{}}
		for _, line := range lines.Points {
			jl.Lines = append(jl.Lines, pointsToJSON(line))
		}
		jtc.Lines = append(jtc.Lines, jl)
	}

	for _, band := range tc.Bands() {
		res, err := g.Filled(band[0], band[1])
		if err != nil {
			return jsonTestCase{}, err
		}
		filled, ok := res.(*contour.OuterOffsetFill)
		if !ok {
			return jsonTestCase{}, fmt.Errorf("unexpected fill type %s", res.FillType())
		}
		jb := jsonBand{Lower: band[0], Upper: band[1], Polygons: [][][][]float64{}}
		for k, points := range filled.Points {
			offsets := filled.Offsets[k]
			var polygon [][][]float64
			for i := 1; i < len(offsets); i++ {
				polygon = append(polygon, pointsToJSON(points[offsets[i-1]:offsets[i]]))
			}
			jb.Polygons = append(jb.Polygons, polygon)
		}
		jtc.Filled = append(jtc.Filled, jb)
	}

	return jtc, nil
}

func pointsToJSON(points []vec.Vec2) [][]float64 {
	res := make([][]float64, len(points))
	for i, p := range points {
		res[i] = []float64{p.X, p.Y}
	}
	return res
}
