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
	"errors"
	"maps"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/contour/testcases"
)

var approx = cmpopts.EquateApprox(0, 1e-7)

// minimalZ is a 3×4 grid with a closed contour line and a hole.
var minimalZ = []float64{
	1.4, 1.2, 0.9, 0.0,
	0.6, 3.0, 0.4, 0.7,
	0.2, 0.2, 0.5, 3.0,
}

func pts(xy ...float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(xy)/2)
	for i := range res {
		res[i] = vec.Vec2{X: xy[2*i], Y: xy[2*i+1]}
	}
	return res
}

func gridOf(tc *testcases.TestCase) *Grid {
	return &Grid{NX: tc.NX, NY: tc.NY, X: tc.X, Y: tc.Y, Z: tc.Z, Mask: tc.Mask}
}

func allCases() []testcases.TestCase {
	var res []testcases.TestCase
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			tc.Name = category + "_" + tc.Name
			res = append(res, tc)
		}
	}
	return res
}

func TestMinimalLines(t *testing.T) {
	chunkPoints := [][]vec.Vec2{
		pts(0.58333333, 1, 1, 0.44444444, 1.38461538, 1, 1, 1.35714286, 0.58333333, 1),
		pts(2.6, 2, 3, 1.56521739),
	}
	chunkCodes := [][]Code{
		{MoveTo, LineTo, LineTo, LineTo, ClosePoly},
		{MoveTo, LineTo},
	}
	chunkOffsets := [][]uint32{{0, 5}, {0, 2}}

	want := map[LineType]LineResult{
		LineSeparate:            &SeparateLines{Points: chunkPoints},
		LineSeparateCode:        &SeparateCodeLines{Points: chunkPoints, Codes: chunkCodes},
		LineChunkCombinedCode:   &ChunkCombinedCodeLines{Points: chunkPoints, Codes: chunkCodes},
		LineChunkCombinedOffset: &ChunkCombinedOffsetLines{Points: chunkPoints, Offsets: chunkOffsets},
		LineChunkCombinedNan:    &ChunkCombinedNanLines{Points: chunkPoints},
	}

	for _, alg := range []Algorithm{Serial, Threaded} {
		for _, lt := range allLineTypes {
			t.Run(alg.String()+"_"+lt.String(), func(t *testing.T) {
				g, err := New(&Grid{NX: 4, NY: 3, Z: minimalZ}, &Options{
					Algorithm:  alg,
					CornerMask: true,
					LineType:   lt,
					ChunkCount: Dims{Y: 1, X: 2},
				})
				if err != nil {
					t.Fatal(err)
				}
				defer g.Close()

				if y, x := g.ChunkCount(); y != 1 || x != 2 {
					t.Errorf("chunk count (%d, %d), want (1, 2)", y, x)
				}
				if y, x := g.ChunkSize(); y != 2 || x != 2 {
					t.Errorf("chunk size (%d, %d), want (2, 2)", y, x)
				}
				if g.LineType() != lt {
					t.Errorf("line type %s, want %s", g.LineType(), lt)
				}

				got, err := g.Lines(2)
				if err != nil {
					t.Fatal(err)
				}
				if d := cmp.Diff(want[lt], got, approx); d != "" {
					t.Errorf("unexpected lines (-want +got):\n%s", d)
				}
			})
		}
	}
}

func TestMinimalFilled(t *testing.T) {
	chunkPoints := [][]vec.Vec2{
		pts(0, 0, 1, 0, 1.66666667, 0, 1.76923077, 1, 1, 1.71428571,
			0.16666667, 1, 0, 0.5, 0, 0, 1, 0.44444444, 0.58333333, 1,
			1, 1.35714286, 1.38461538, 1, 1, 0.44444444),
		pts(2.2, 2, 3, 1.13043478, 3, 1.56521739, 2.6, 2, 2.2, 2),
	}
	chunkCodes := [][]Code{
		{1, 2, 2, 2, 2, 2, 2, 79, 1, 2, 2, 2, 79},
		{1, 2, 2, 2, 79},
	}
	chunkOffsets := [][]uint32{{0, 8, 13}, {0, 5}}

	want := map[FillType]FillResult{
		FillOuterCode:           &OuterCodeFill{Points: chunkPoints, Codes: chunkCodes},
		FillOuterOffset:         &OuterOffsetFill{Points: chunkPoints, Offsets: chunkOffsets},
		FillChunkCombinedCode:   &ChunkCombinedCodeFill{Points: chunkPoints, Codes: chunkCodes},
		FillChunkCombinedOffset: &ChunkCombinedOffsetFill{Points: chunkPoints, Offsets: chunkOffsets},
		FillChunkCombinedCodeOffset: &ChunkCombinedCodeOffsetFill{
			Points:       chunkPoints,
			Codes:        chunkCodes,
			OuterOffsets: [][]uint32{{0, 13}, {0, 5}},
		},
		FillChunkCombinedOffsetOffset: &ChunkCombinedOffsetOffsetFill{
			Points:       chunkPoints,
			Offsets:      chunkOffsets,
			OuterOffsets: [][]uint32{{0, 2}, {0, 1}},
		},
	}

	for _, alg := range []Algorithm{Serial, Threaded} {
		for _, ft := range allFillTypes {
			t.Run(alg.String()+"_"+ft.String(), func(t *testing.T) {
				g, err := New(&Grid{NX: 4, NY: 3, Z: minimalZ}, &Options{
					Algorithm:  alg,
					CornerMask: true,
					FillType:   ft,
					ChunkCount: Dims{Y: 1, X: 2},
				})
				if err != nil {
					t.Fatal(err)
				}
				defer g.Close()

				got, err := g.Filled(1, 2)
				if err != nil {
					t.Fatal(err)
				}
				if d := cmp.Diff(want[ft], got, approx); d != "" {
					t.Errorf("unexpected filled contours (-want +got):\n%s", d)
				}
			})
		}
	}
}

// TestAlgorithmsAgree checks that the threaded algorithm gives the same
// results as the serial one, for every number of worker goroutines.
func TestAlgorithmsAgree(t *testing.T) {
	for _, tc := range allCases() {
		t.Run(tc.Name, func(t *testing.T) {
			opt := &Options{
				CornerMask:      true,
				LineType:        LineChunkCombinedOffset,
				FillType:        FillChunkCombinedOffsetOffset,
				TotalChunkCount: 6,
			}
			if tc.Log {
				opt.ZInterp = Log
			}
			serial, err := New(gridOf(&tc), opt)
			if err != nil {
				t.Fatal(err)
			}
			wantLines, err := serial.MultiLines(tc.Levels)
			if err != nil {
				t.Fatal(err)
			}
			wantFilled, err := serial.MultiFilled(tc.Levels)
			if err != nil {
				t.Fatal(err)
			}

			for _, threads := range []int{1, 2, 4} {
				opt.Algorithm = Threaded
				opt.ThreadCount = threads
				g, err := New(gridOf(&tc), opt)
				if err != nil {
					t.Fatal(err)
				}
				lines, err := g.MultiLines(tc.Levels)
				if err != nil {
					t.Fatal(err)
				}
				filled, err := g.MultiFilled(tc.Levels)
				if err != nil {
					t.Fatal(err)
				}
				g.Close()

				if d := cmp.Diff(wantLines, lines); d != "" {
					t.Errorf("%d threads: lines differ (-serial +threaded):\n%s", threads, d)
				}
				if d := cmp.Diff(wantFilled, filled); d != "" {
					t.Errorf("%d threads: filled contours differ (-serial +threaded):\n%s", threads, d)
				}
			}
		})
	}
}

// quadArea returns the area of the contoured region of a grid with index
// coordinates.
func quadArea(tc *testcases.TestCase, cornerMask bool) float64 {
	masked := func(i, j int) int {
		k := j*tc.NX + i
		if tc.Mask != nil && tc.Mask[k] || math.IsNaN(tc.Z[k]) || math.IsInf(tc.Z[k], 0) {
			return 1
		}
		return 0
	}
	var area float64
	for j := 1; j < tc.NY; j++ {
		for i := 1; i < tc.NX; i++ {
			switch masked(i-1, j-1) + masked(i, j-1) + masked(i-1, j) + masked(i, j) {
			case 0:
				area++
			case 1:
				if cornerMask {
					area += 0.5
				}
			}
		}
	}
	return area
}

// bandEdges returns levels which cover the entire z range of a test case.
func bandEdges(tc *testcases.TestCase) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, z := range tc.Z {
		if math.IsNaN(z) || math.IsInf(z, 0) {
			continue
		}
		lo = min(lo, z)
		hi = max(hi, z)
	}
	if tc.Log {
		lo, hi = lo/2, hi*2
	} else {
		lo, hi = lo-1, hi+1
	}

	edges := []float64{lo}
	for _, level := range tc.Levels {
		if level > lo && level < hi {
			edges = append(edges, level)
		}
	}
	return append(edges, hi)
}

// checkRings verifies that all boundaries of a filled result are closed
// and correctly oriented, and returns the total enclosed area.
func checkRings(t *testing.T, r FillResult) float64 {
	t.Helper()

	res, ok := r.(*OuterOffsetFill)
	if !ok {
		t.Fatalf("unexpected result type %T", r)
	}
	var total float64
	for k, points := range res.Points {
		offsets := res.Offsets[k]
		for m := 1; m < len(offsets); m++ {
			ring := points[offsets[m-1]:offsets[m]]
			if len(ring) < 4 {
				t.Errorf("polygon %d, boundary %d: only %d points", k, m-1, len(ring))
				continue
			}
			if ring[0] != ring[len(ring)-1] {
				t.Errorf("polygon %d, boundary %d: not closed", k, m-1)
			}
			a := signedArea(ring)
			if m == 1 && a <= 0 {
				t.Errorf("polygon %d: outer boundary has area %g", k, a)
			} else if m > 1 && a >= 0 {
				t.Errorf("polygon %d: hole %d has area %g", k, m-2, a)
			}
			total += a
		}
	}
	return total
}

// TestFilledArea checks that filled bands covering the whole z range
// partition the contoured region.
func TestFilledArea(t *testing.T) {
	type variant struct {
		name string
		opt  Options
	}
	variants := []variant{
		{"default", Options{CornerMask: true}},
		{"no_corner_mask", Options{}},
		{"quad_as_tri", Options{CornerMask: true, QuadAsTri: true}},
		{"chunked", Options{CornerMask: true, ChunkSize: Dims{Y: 3, X: 2}}},
		{"chunked_no_corner_mask", Options{ChunkSize: Square(2)}},
		{"threaded", Options{Algorithm: Threaded, CornerMask: true, TotalChunkCount: 5}},
	}

	for _, tc := range allCases() {
		if tc.X != nil {
			continue
		}
		for _, v := range variants {
			t.Run(tc.Name+"_"+v.name, func(t *testing.T) {
				opt := v.opt
				opt.FillType = FillOuterOffset
				if tc.Log {
					opt.ZInterp = Log
				}
				g, err := New(gridOf(&tc), &opt)
				if err != nil {
					t.Fatal(err)
				}
				defer g.Close()

				bands, err := g.MultiFilled(bandEdges(&tc))
				if err != nil {
					t.Fatal(err)
				}
				var total float64
				for _, band := range bands {
					total += checkRings(t, band)
				}

				want := quadArea(&tc, opt.CornerMask)
				if math.Abs(total-want) > 1e-8*max(want, 1) {
					t.Errorf("total area %g, want %g", total, want)
				}
			})
		}
	}
}

// TestLinesClosed checks that closed lines end at their start point, and
// that open lines end on the boundary of the grid or of a masked region.
func TestLinesClosed(t *testing.T) {
	for _, tc := range allCases() {
		t.Run(tc.Name, func(t *testing.T) {
			opt := &Options{CornerMask: true, LineType: LineSeparateCode}
			if tc.Log {
				opt.ZInterp = Log
			}
			g, err := New(gridOf(&tc), opt)
			if err != nil {
				t.Fatal(err)
			}
			xMin, yMin, xMax, yMax := tc.Bounds()
			for _, level := range tc.Levels {
				r, err := g.Lines(level)
				if err != nil {
					t.Fatal(err)
				}
				res := r.(*SeparateCodeLines)
				for k, line := range res.Points {
					codes := res.Codes[k]
					if len(line) < 2 {
						t.Errorf("level %g, line %d: only %d points", level, k, len(line))
						continue
					}
					closed := line[0] == line[len(line)-1]
					if closed != (codes[len(codes)-1] == ClosePoly) {
						t.Errorf("level %g, line %d: closed=%t but last code %s",
							level, k, closed, codes[len(codes)-1])
					}
					for _, p := range line {
						if p.X < xMin || p.X > xMax || p.Y < yMin || p.Y > yMax {
							t.Errorf("level %g, line %d: point %v outside the grid", level, k, p)
							break
						}
					}
				}
			}
		})
	}
}

func TestEmptyResults(t *testing.T) {
	grid := &Grid{NX: 4, NY: 3, Z: minimalZ}

	g, err := New(grid, &Options{LineType: LineChunkCombinedCode, FillType: FillChunkCombinedOffset, ChunkSize: Square(1)})
	if err != nil {
		t.Fatal(err)
	}
	lines, err := g.Lines(10)
	if err != nil {
		t.Fatal(err)
	}
	wantLines := &ChunkCombinedCodeLines{
		Points: make([][]vec.Vec2, 6),
		Codes:  make([][]Code, 6),
	}
	if d := cmp.Diff(wantLines, lines); d != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", d)
	}

	filled, err := g.Filled(1.5, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	wantFilled := &ChunkCombinedOffsetFill{
		Points:  make([][]vec.Vec2, 6),
		Offsets: make([][]uint32, 6),
	}
	if d := cmp.Diff(wantFilled, filled); d != "" {
		t.Errorf("unexpected filled contours (-want +got):\n%s", d)
	}

	g, err = New(grid, nil)
	if err != nil {
		t.Fatal(err)
	}
	filled, err = g.Filled(-10, -5)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(&OuterCodeFill{}, filled, cmpopts.EquateEmpty()); d != "" {
		t.Errorf("unexpected filled contours (-want +got):\n%s", d)
	}
}

func TestWholeDomain(t *testing.T) {
	g, err := New(&Grid{NX: 3, NY: 2, Z: []float64{1, 2, 3, 4, 5, 6}}, &Options{FillType: FillOuterOffset})
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Filled(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := &OuterOffsetFill{
		Points:  [][]vec.Vec2{pts(0, 0, 1, 0, 2, 0, 2, 1, 1, 1, 0, 1, 0, 0)},
		Offsets: [][]uint32{{0, 7}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected filled contours (-want +got):\n%s", d)
	}
}

func TestLogInterpolation(t *testing.T) {
	grid := &Grid{NX: 2, NY: 2, Z: []float64{1, 100, 1, 100}}

	for _, tc := range []struct {
		interp ZInterp
		x      float64
	}{
		{Linear, 9.0 / 99.0},
		{Log, 0.5},
	} {
		t.Run(tc.interp.String(), func(t *testing.T) {
			g, err := New(grid, &Options{ZInterp: tc.interp, LineType: LineSeparate})
			if err != nil {
				t.Fatal(err)
			}
			if g.ZInterp() != tc.interp {
				t.Errorf("z interp %s, want %s", g.ZInterp(), tc.interp)
			}
			r, err := g.Lines(10)
			if err != nil {
				t.Fatal(err)
			}
			want := &SeparateLines{Points: [][]vec.Vec2{pts(tc.x, 1, tc.x, 0)}}
			if d := cmp.Diff(want, r, approx); d != "" {
				t.Errorf("unexpected lines (-want +got):\n%s", d)
			}
		})
	}
}

func TestQuadAsTri(t *testing.T) {
	grid := &Grid{NX: 2, NY: 2, Z: []float64{0, 0, 0, 1}}

	for _, quadAsTri := range []bool{false, true} {
		g, err := New(grid, &Options{QuadAsTri: quadAsTri, LineType: LineSeparate})
		if err != nil {
			t.Fatal(err)
		}
		if g.QuadAsTri() != quadAsTri {
			t.Errorf("quad as tri %t, want %t", g.QuadAsTri(), quadAsTri)
		}
		r, err := g.Lines(0.5)
		if err != nil {
			t.Fatal(err)
		}
		var want *SeparateLines
		if quadAsTri {
			want = &SeparateLines{Points: [][]vec.Vec2{pts(0.5, 1, 0.5, 0.5, 1, 0.5)}}
		} else {
			want = &SeparateLines{Points: [][]vec.Vec2{pts(0.5, 1, 1, 0.5)}}
		}
		if d := cmp.Diff(want, r, approx); d != "" {
			t.Errorf("quad_as_tri=%t: unexpected lines (-want +got):\n%s", quadAsTri, d)
		}
	}
}

func TestSaddle(t *testing.T) {
	// The centre of the quad determines how the two crossing contours
	// are joined.
	for _, tc := range []struct {
		lower float64
		want  int
	}{
		{0.25, 1}, // centre inside: one band across the quad
		{0.75, 2}, // centre outside: two separate corners
	} {
		// z = 1 at SW and NE, 0 at SE and NW.  The mean of the corners is
		// 0.5, the lower level picks which side the centre is on.
		g, err := New(&Grid{NX: 2, NY: 2, Z: []float64{1, 0, 0, 1}}, &Options{FillType: FillOuterOffset})
		if err != nil {
			t.Fatal(err)
		}
		r, err := g.Filled(tc.lower, 2)
		if err != nil {
			t.Fatal(err)
		}
		res := r.(*OuterOffsetFill)
		if len(res.Points) != tc.want {
			t.Errorf("lower level %g: %d polygons, want %d", tc.lower, len(res.Points), tc.want)
		}
	}
}

// saddleZ has low corners SW and NE and high corners SE and NW.  The mean
// of the corners is 50.5.
var saddleZ = &Grid{NX: 2, NY: 2, X: []float64{-1, 1}, Y: []float64{-1, 1}, Z: []float64{1, 100, 100, 1}}

func TestSaddleDirection(t *testing.T) {
	// Lines keep higher z on the left.  Below the centre value the lines
	// cut off the low corners and run anticlockwise around the centre of
	// the quad, above the centre value they cut off the high corners and
	// run clockwise.
	for _, interp := range []ZInterp{Linear, Log} {
		g, err := New(saddleZ, &Options{ZInterp: interp, LineType: LineSeparate})
		if err != nil {
			t.Fatal(err)
		}
		for _, tc := range []struct {
			level float64
			sign  float64
		}{
			{1.1, 1}, {9.9, 1}, {10.1, 1}, {50, 1},
			{51, -1}, {99.9, -1},
		} {
			r, err := g.Lines(tc.level)
			if err != nil {
				t.Fatal(err)
			}
			lines := r.(*SeparateLines).Points
			if len(lines) != 2 {
				t.Fatalf("%s, level %g: %d lines, want 2", interp, tc.level, len(lines))
			}
			for i, line := range lines {
				if len(line) != 2 {
					t.Errorf("%s, level %g, line %d: %d points, want 2", interp, tc.level, i, len(line))
					continue
				}
				cross := line[0].X*line[1].Y - line[0].Y*line[1].X
				if cross*tc.sign <= 0 {
					t.Errorf("%s, level %g, line %d: wrong direction %v", interp, tc.level, i, line)
				}
			}
		}
	}
}

// nearestCorner returns the z value of the corner of saddleZ closest to p.
func nearestCorner(p vec.Vec2) float64 {
	i := 0
	if p.X > 0 {
		i++
	}
	if p.Y > 0 {
		i += 2
	}
	return saddleZ.Z[i]
}

func TestSaddleLinesMatchFilled(t *testing.T) {
	// The corners cut off by the contour lines are the ones which are not
	// joined by the filled region on their side of the level.
	for _, interp := range []ZInterp{Linear, Log} {
		g, err := New(saddleZ, &Options{ZInterp: interp, LineType: LineSeparate, FillType: FillOuterOffset})
		if err != nil {
			t.Fatal(err)
		}
		for _, level := range []float64{2, 10, 50, 51, 90} {
			r, err := g.Lines(level)
			if err != nil {
				t.Fatal(err)
			}
			lines := r.(*SeparateLines).Points
			if len(lines) != 2 {
				t.Fatalf("%s, level %g: %d lines, want 2", interp, level, len(lines))
			}
			var cutLow int
			for _, line := range lines {
				mid := line[0].Add(line[1]).Mul(0.5)
				if nearestCorner(mid) < level {
					cutLow++
				}
			}
			if cutLow != 0 && cutLow != 2 {
				t.Fatalf("%s, level %g: lines cut off one low and one high corner", interp, level)
			}

			wantHigh, wantLow := 2, 1
			if cutLow == 2 {
				wantHigh, wantLow = 1, 2
			}
			high, err := g.Filled(level, 1000)
			if err != nil {
				t.Fatal(err)
			}
			low, err := g.Filled(0, level)
			if err != nil {
				t.Fatal(err)
			}
			if n := len(high.(*OuterOffsetFill).Points); n != wantHigh {
				t.Errorf("%s, level %g: %d polygons above, want %d", interp, level, n, wantHigh)
			}
			if n := len(low.(*OuterOffsetFill).Points); n != wantLow {
				t.Errorf("%s, level %g: %d polygons below, want %d", interp, level, n, wantLow)
			}
			area := checkRings(t, high) + checkRings(t, low)
			if math.Abs(area-4) > 1e-9 {
				t.Errorf("%s, level %g: total area %g, want 4", interp, level, area)
			}
		}
	}
}

func TestQuadAsTriSaddle(t *testing.T) {
	// With quad_as_tri the SW corner decides a saddle instead of the mean
	// of the corners.  The mean here is 5.
	for _, tc := range []struct {
		z         []float64
		level     float64
		quadAsTri bool
		wantHigh  int
	}{
		{[]float64{0, 10, 10, 0}, 1, false, 1},
		{[]float64{0, 10, 10, 0}, 1, true, 2},
		{[]float64{0, 10, 10, 0}, 9, false, 2},
		{[]float64{0, 10, 10, 0}, 9, true, 2},
		{[]float64{10, 0, 0, 10}, 1, true, 1},
		{[]float64{10, 0, 0, 10}, 9, false, 2},
		{[]float64{10, 0, 0, 10}, 9, true, 1},
	} {
		g, err := New(&Grid{NX: 2, NY: 2, Z: tc.z}, &Options{QuadAsTri: tc.quadAsTri, LineType: LineSeparate, FillType: FillOuterOffset})
		if err != nil {
			t.Fatal(err)
		}
		high, err := g.Filled(tc.level, 20)
		if err != nil {
			t.Fatal(err)
		}
		if n := len(high.(*OuterOffsetFill).Points); n != tc.wantHigh {
			t.Errorf("z=%v, level %g, quad_as_tri=%t: %d polygons above, want %d",
				tc.z, tc.level, tc.quadAsTri, n, tc.wantHigh)
		}

		// the lines agree with the filled contours
		r, err := g.Lines(tc.level)
		if err != nil {
			t.Fatal(err)
		}
		for _, line := range r.(*SeparateLines).Points {
			if len(line) != 2 {
				t.Errorf("z=%v, level %g, quad_as_tri=%t: line %v crosses the diagonal",
					tc.z, tc.level, tc.quadAsTri, line)
				continue
			}
			mid := line[0].Add(line[1]).Mul(0.5)
			i := 0
			if mid.X > 0.5 {
				i++
			}
			if mid.Y > 0.5 {
				i += 2
			}
			cutHigh := tc.z[i] > tc.level
			if cutHigh != (tc.wantHigh == 2) {
				t.Errorf("z=%v, level %g, quad_as_tri=%t: line %v cuts off the wrong corner",
					tc.z, tc.level, tc.quadAsTri, line)
			}
		}
	}
}

func TestQuadAsTriDiagonal(t *testing.T) {
	// A contour crossing the SW-NE diagonal gets a point on the diagonal,
	// both in lines and in filled contours.
	grid := &Grid{NX: 2, NY: 2, Z: []float64{0, 0, 0, 1}}
	diag := vec.Vec2{X: 0.5, Y: 0.5}

	for _, tc := range []struct {
		quadAsTri bool
		area      float64
	}{
		{false, 0.125},
		{true, 0.25},
	} {
		g, err := New(grid, &Options{QuadAsTri: tc.quadAsTri, LineType: LineSeparate, FillType: FillOuterOffset})
		if err != nil {
			t.Fatal(err)
		}
		lines, err := g.Lines(0.5)
		if err != nil {
			t.Fatal(err)
		}
		filled, err := g.Filled(0.5, 2)
		if err != nil {
			t.Fatal(err)
		}

		inLines := slices.Contains(lines.(*SeparateLines).Points[0], diag)
		inFilled := slices.Contains(filled.(*OuterOffsetFill).Points[0], diag)
		if inLines != tc.quadAsTri || inFilled != tc.quadAsTri {
			t.Errorf("quad_as_tri=%t: diagonal point in lines %t, in filled %t",
				tc.quadAsTri, inLines, inFilled)
		}
		if a := checkRings(t, filled); math.Abs(a-tc.area) > 1e-12 {
			t.Errorf("quad_as_tri=%t: area %g, want %g", tc.quadAsTri, a, tc.area)
		}
	}
}

func TestCornerMask(t *testing.T) {
	grid := &Grid{
		NX:   3,
		NY:   3,
		Z:    []float64{1, 1, 1, 1, 1, 1, 1, 1, 1},
		Mask: []bool{true, false, false, false, false, false, false, false, false},
	}

	for _, tc := range []struct {
		cornerMask bool
		area       float64
	}{
		{false, 3},
		{true, 3.5},
	} {
		g, err := New(grid, &Options{CornerMask: tc.cornerMask, FillType: FillOuterOffset})
		if err != nil {
			t.Fatal(err)
		}
		if g.CornerMask() != tc.cornerMask {
			t.Errorf("corner mask %t, want %t", g.CornerMask(), tc.cornerMask)
		}
		r, err := g.Filled(0, 2)
		if err != nil {
			t.Fatal(err)
		}
		if area := checkRings(t, r); math.Abs(area-tc.area) > 1e-12 {
			t.Errorf("corner_mask=%t: area %g, want %g", tc.cornerMask, area, tc.area)
		}
	}
}

func TestInteriorHole(t *testing.T) {
	// A masked point in the middle of the grid gives a hole in the
	// filled region.
	tc := testcases.All["masked"][0]
	g, err := New(gridOf(&tc), &Options{CornerMask: false, FillType: FillOuterOffset})
	if err != nil {
		t.Fatal(err)
	}
	r, err := g.Filled(-1, 100)
	if err != nil {
		t.Fatal(err)
	}
	res := r.(*OuterOffsetFill)
	if len(res.Points) != 1 || len(res.Offsets[0]) != 3 {
		t.Fatalf("want one polygon with one hole, got %v", res.Offsets)
	}
	hole := res.Points[0][res.Offsets[0][1]:res.Offsets[0][2]]
	if a := signedArea(hole); math.Abs(a+4) > 1e-12 {
		t.Errorf("hole area %g, want -4", a)
	}
}

func TestConfigErrors(t *testing.T) {
	grid := &Grid{NX: 4, NY: 3, Z: minimalZ}

	for _, tc := range []struct {
		name  string
		grid  *Grid
		opt   *Options
		param string
	}{
		{"nil_grid", nil, nil, "grid"},
		{"small_grid", &Grid{NX: 1, NY: 3, Z: []float64{1, 2, 3}}, nil, "z"},
		{"z_length", &Grid{NX: 2, NY: 2, Z: []float64{1, 2, 3}}, nil, "z"},
		{"mask_length", &Grid{NX: 2, NY: 2, Z: []float64{1, 2, 3, 4}, Mask: []bool{true}}, nil, "mask"},
		{"x_without_y", &Grid{NX: 2, NY: 2, X: []float64{0, 1}, Z: []float64{1, 2, 3, 4}}, nil, "x, y"},
		{"x_length", &Grid{NX: 2, NY: 2, X: []float64{0, 1, 2}, Y: []float64{0, 1}, Z: []float64{1, 2, 3, 4}}, nil, "x, y"},
		{"log_negative", &Grid{NX: 2, NY: 2, Z: []float64{1, 2, 0, 4}}, &Options{ZInterp: Log}, "z"},
		{"algorithm", grid, &Options{Algorithm: 7}, "algorithm"},
		{"z_interp", grid, &Options{ZInterp: 9}, "z_interp"},
		{"line_type", grid, &Options{LineType: 5}, "line_type"},
		{"fill_type", grid, &Options{FillType: 5}, "fill_type"},
		{"negative_threads", grid, &Options{Algorithm: Threaded, ThreadCount: -1}, "thread_count"},
		{"serial_threads", grid, &Options{ThreadCount: 2}, "thread_count"},
		{"two_chunk_policies", grid, &Options{ChunkSize: Square(1), TotalChunkCount: 2}, "chunk_size"},
		{"negative_chunk_size", grid, &Options{ChunkSize: Dims{Y: -1, X: 1}}, "chunk_size"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.grid, tc.opt)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("got error %v, want a configuration error", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Param != tc.param {
				t.Errorf("got error %v, want parameter %q", err, tc.param)
			}
		})
	}

	g, err := New(grid, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Filled(2, 1); !errors.Is(err, ErrConfig) {
		t.Errorf("Filled(2, 1): got %v, want a configuration error", err)
	}
	if _, err := g.MultiFilled([]float64{1}); !errors.Is(err, ErrConfig) {
		t.Errorf("MultiFilled with one level: got %v, want a configuration error", err)
	}
	_, err = g.MultiFilled([]float64{0, 1, 0.5})
	if !errors.Is(err, ErrConfig) || !strings.HasPrefix(err.Error(), "band 1: ") {
		t.Errorf("MultiFilled with decreasing levels: got %v", err)
	}
}

func TestNonFiniteLevels(t *testing.T) {
	inf := math.Inf(1)
	nan := math.NaN()

	g, err := New(&Grid{NX: 4, NY: 3, Z: minimalZ}, &Options{LineType: LineSeparate, FillType: FillOuterOffset})
	if err != nil {
		t.Fatal(err)
	}

	for _, level := range []float64{nan, inf, -inf} {
		r, err := g.Lines(level)
		if err != nil {
			t.Fatal(err)
		}
		if n := len(r.(*SeparateLines).Points); n != 0 {
			t.Errorf("Lines(%g): %d lines, want none", level, n)
		}
	}

	for _, tc := range []struct {
		lower, upper float64
		area         float64
	}{
		{nan, 1, 0},
		{0, nan, 0},
		{nan, nan, 0},
		{-inf, -inf, 0},
		{inf, inf, 0},
		{-inf, inf, 6},
		{-inf, 1, -1},
		{1, inf, -1},
	} {
		r, err := g.Filled(tc.lower, tc.upper)
		if err != nil {
			t.Fatalf("Filled(%g, %g): %v", tc.lower, tc.upper, err)
		}
		res := r.(*OuterOffsetFill)
		for _, points := range res.Points {
			for _, p := range points {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
					t.Fatalf("Filled(%g, %g): invalid point %v", tc.lower, tc.upper, p)
				}
			}
		}
		area := checkRings(t, r)
		switch {
		case tc.area == 0 && len(res.Points) != 0:
			t.Errorf("Filled(%g, %g): %d polygons, want none", tc.lower, tc.upper, len(res.Points))
		case tc.area > 0 && math.Abs(area-tc.area) > 1e-9:
			t.Errorf("Filled(%g, %g): area %g, want %g", tc.lower, tc.upper, area, tc.area)
		case tc.area < 0 && (area <= 0 || area >= 6):
			t.Errorf("Filled(%g, %g): area %g outside (0, 6)", tc.lower, tc.upper, area)
		}
	}
}

func TestNonFiniteMasked(t *testing.T) {
	z := []float64{1, 1, 1, math.NaN()}
	mask := []bool{false, false, false, true}

	var results []FillResult
	for _, grid := range []*Grid{
		{NX: 2, NY: 2, Z: z},
		{NX: 2, NY: 2, Z: []float64{1, 1, 1, 5}, Mask: mask},
	} {
		g, err := New(grid, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		r, err := g.Filled(0, 2)
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, r)
	}
	if d := cmp.Diff(results[0], results[1]); d != "" {
		t.Errorf("NaN and mask differ (-nan +mask):\n%s", d)
	}
}

func TestIntrospection(t *testing.T) {
	g, err := New(&Grid{NX: 11, NY: 7, Z: make([]float64, 77)}, &Options{
		Algorithm:       Threaded,
		CornerMask:      true,
		QuadAsTri:       true,
		ZInterp:         Linear,
		TotalChunkCount: 6,
		ThreadCount:     3,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if g.Algorithm() != Threaded {
		t.Errorf("algorithm %s", g.Algorithm())
	}
	if !g.CornerMask() || !g.QuadAsTri() {
		t.Errorf("corner mask %t, quad as tri %t", g.CornerMask(), g.QuadAsTri())
	}
	if g.LineType() != LineSeparateCode || g.FillType() != FillOuterCode {
		t.Errorf("default types %s, %s", g.LineType(), g.FillType())
	}
	// 6 = 3*2, with the larger factor on the x axis since nx > ny
	if y, x := g.ChunkCount(); y != 2 || x != 3 {
		t.Errorf("chunk count (%d, %d), want (2, 3)", y, x)
	}
	if y, x := g.ChunkSize(); y != 3 || x != 4 {
		t.Errorf("chunk size (%d, %d), want (3, 4)", y, x)
	}
	if n := g.ThreadCount(); n < 1 || n > 3 {
		t.Errorf("thread count %d", n)
	}
}

func TestCloseAndReuse(t *testing.T) {
	g, err := New(&Grid{NX: 4, NY: 3, Z: minimalZ}, &Options{
		Algorithm:  Threaded,
		ChunkCount: Dims{Y: 1, X: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	want, err := g.Filled(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}
	got, err := g.Filled(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("results differ after Close (-before +after):\n%s", d)
	}
	g.Close()
}

func TestInternalError(t *testing.T) {
	g, err := New(&Grid{NX: 3, NY: 3, Z: make([]float64, 9)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Without E boundaries, the boundary walk along the S edge of the
	// grid cannot turn north and leaves the chunk.
	for i := range g.gridFlags {
		g.gridFlags[i] &^= boundaryE
	}

	_, err = g.Filled(-1, 1)
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("got error %v, want an internal error", err)
	}
	if ie.Op != "filled" {
		t.Errorf("op %q, want \"filled\"", ie.Op)
	}
	if !strings.Contains(ie.Dump, "Q_") {
		t.Errorf("cache dump does not show the quads:\n%s", ie.Dump)
	}
}

func TestUnsupportedOptions(t *testing.T) {
	orig := algorithms
	algorithms = append(slices.Clone(orig), AlgorithmInfo{
		Name:            "limited",
		DefaultLineType: LineSeparate,
		DefaultFillType: FillOuterCode,
		lineTypes:       []LineType{LineSeparate},
		fillTypes:       []FillType{FillOuterCode},
	})
	t.Cleanup(func() { algorithms = orig })
	limited := Algorithm(len(orig))

	grid := &Grid{NX: 4, NY: 3, Z: minimalZ}
	for _, tc := range []struct {
		name  string
		opt   Options
		param string
	}{
		{"corner_mask", Options{CornerMask: true}, "corner_mask"},
		{"quad_as_tri", Options{QuadAsTri: true}, "quad_as_tri"},
		{"z_interp", Options{ZInterp: Log}, "z_interp"},
		{"line_type", Options{LineType: LineSeparateCode}, "line_type"},
		{"fill_type", Options{FillType: FillOuterOffset}, "fill_type"},
		{"thread_count", Options{ThreadCount: 2}, "thread_count"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opt := tc.opt
			opt.Algorithm = limited
			_, err := New(grid, &opt)
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Param != tc.param {
				t.Errorf("got error %v, want parameter %q", err, tc.param)
			}
		})
	}

	g, err := New(grid, &Options{Algorithm: limited})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if g.Algorithm() != limited || g.LineType() != LineSeparate || g.FillType() != FillOuterCode {
		t.Errorf("got %s, %s, %s", g.Algorithm(), g.LineType(), g.FillType())
	}
}

func TestCapabilities(t *testing.T) {
	for _, name := range []string{"serial", "threaded"} {
		a, err := AlgorithmByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if a.String() != name {
			t.Errorf("%s: String() = %q", name, a.String())
		}
		info, ok := Capabilities(a)
		if !ok {
			t.Fatalf("%s: no capabilities", name)
		}
		if info.SupportsThreads != (a == Threaded) {
			t.Errorf("%s: supports threads %t", name, info.SupportsThreads)
		}
		for _, lt := range allLineTypes {
			if !info.SupportsLineType(lt) {
				t.Errorf("%s: %s not supported", name, lt)
			}
		}
		for _, ft := range allFillTypes {
			if !info.SupportsFillType(ft) {
				t.Errorf("%s: %s not supported", name, ft)
			}
		}
	}

	if _, err := AlgorithmByName("marching"); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown name: got %v", err)
	}
	if _, ok := Capabilities(Algorithm(-1)); ok {
		t.Error("capabilities for invalid algorithm")
	}
	if s := Algorithm(5).String(); s != "Algorithm(5)" {
		t.Errorf("invalid algorithm String() = %q", s)
	}
}
