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

// Package raster computes anti-aliased pixel coverage of polygonal paths.
//
// The rasteriser accumulates signed cover and area contributions of every
// edge per scanline and integrates them from left to right.  Coverage
// values are exact for straight edges.  Curved path segments are split
// into short line segments first.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// edge is a line segment in device coordinates with y0 != y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

func (e *edge) top() float64 { return min(e.y0, e.y1) }

func (e *edge) bottom() float64 { return max(e.y0, e.y1) }

func (e *edge) xAt(y float64) float64 { return e.x0 + e.dxdy*(y-e.y0) }

// Rule selects which points are inside a path.
type Rule int

// These are the supported fill rules.
const (
	NonZero Rule = iota
	EvenOdd
)

// Rasteriser converts paths to pixel coverage values.
// One instance can be reused for many paths; internal buffers are kept
// between calls.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM maps path coordinates to device coordinates.
	CTM matrix.Matrix

	// Clip is the output region in device coordinates.  The coordinates
	// must be integers.
	Clip rect.Rect

	// Flatness is the tolerance, in device pixels, used when splitting
	// curves into line segments.
	Flatness float64

	cover  []float32
	area   []float32
	edges  []edge
	active []int

	xMin, xMax float64
	yMin, yMax float64
}

// NewRasteriser returns a Rasteriser for the given clip rectangle and the
// identity transformation.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		CTM:      matrix.Identity,
		Clip:     clip,
		Flatness: defaultFlatness,
	}
}

// Reset restores the default settings and sets a new clip rectangle.
// Buffer capacity is preserved.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.cover = r.cover[:0]
	r.area = r.area[:0]
	r.edges = r.edges[:0]
	r.active = r.active[:0]
}

// Fill rasterises p using the given fill rule.
//
// Coverage is delivered one row at a time.  The emit callback receives
// the device row y, the device column of the first coverage value, and
// the coverage values themselves.  Rows without coverage are skipped.
// The coverage slice is only valid during the callback.
func (r *Rasteriser) Fill(p *path.Data, rule Rule, emit func(y, xMin int, coverage []float32)) {
	r.collectEdges(p)
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.xMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.xMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.yMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.yMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}
	r.scan(xMin, xMax, yMin, yMax, rule, emit)
}

// FillNonZero rasterises p using the nonzero winding rule.
func (r *Rasteriser) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd rasterises p using the even-odd rule.
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.Fill(p, EvenOdd, emit)
}

func (r *Rasteriser) collectEdges(p *path.Data) {
	r.edges = r.edges[:0]

	var current, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if current != start {
				r.addEdge(current, start)
			}
			current = p.Coords[k]
			start = current
			k++
		case path.CmdLineTo:
			r.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flatten(current, p.Coords[k:k+2])
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flatten(current, p.Coords[k:k+3])
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if current != start {
				r.addEdge(current, start)
			}
			current = start
		}
	}
	// unclosed subpaths are filled as if closed
	if current != start {
		r.addEdge(current, start)
	}
}

// flatten approximates a Bézier curve, starting at p0 with the remaining
// control points in ctrl, by line segments.
func (r *Rasteriser) flatten(p0 vec.Vec2, ctrl []vec.Vec2) {
	// For a curve of degree d, the distance between the curve and the
	// chord over a parameter step h is at most d(d-1)*dd*h^2/8, where dd
	// is the largest second difference of the control points.
	var buf [4]vec.Vec2
	dev := append(buf[:0], r.device(p0))
	for _, c := range ctrl {
		dev = append(dev, r.device(c))
	}
	dd := 0.0
	for i := 0; i+2 < len(dev); i++ {
		d := dev[i].Sub(dev[i+1].Mul(2)).Add(dev[i+2])
		dd = max(dd, d.Length())
	}
	deg := float64(len(ctrl))
	m := deg * (deg - 1) * dd
	n := max(1, int(math.Ceil(math.Sqrt(m/(8*r.Flatness)))))

	prev := p0
	for i := 1; i <= n; i++ {
		pt := bezier(p0, ctrl, float64(i)/float64(n))
		r.addEdge(prev, pt)
		prev = pt
	}
}

// bezier evaluates a Bézier curve using de Casteljau's algorithm.
func bezier(p0 vec.Vec2, ctrl []vec.Vec2, t float64) vec.Vec2 {
	var buf [4]vec.Vec2
	pts := append(buf[:0], p0)
	pts = append(pts, ctrl...)
	for n := len(pts) - 1; n > 0; n-- {
		for i := range n {
			pts[i] = pts[i].Mul(1 - t).Add(pts[i+1].Mul(t))
		}
	}
	return pts[0]
}

func (r *Rasteriser) device(p vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func (r *Rasteriser) addEdge(p0, p1 vec.Vec2) {
	a := r.device(p0)
	b := r.device(p1)

	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}

	if len(r.edges) == 0 {
		r.xMin, r.xMax = a.X, a.X
		r.yMin, r.yMax = a.Y, a.Y
	}
	r.xMin = min(r.xMin, a.X, b.X)
	r.xMax = max(r.xMax, a.X, b.X)
	r.yMin = min(r.yMin, a.Y, b.Y)
	r.yMax = max(r.yMax, a.Y, b.Y)

	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})
}

// scan walks the scanlines from yMin to yMax, keeping a list of the
// edges which intersect the current scanline.
func (r *Rasteriser) scan(xMin, xMax, yMin, yMax int, rule Rule, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yTop := float64(y)
		yBot := float64(y + 1)

		for next < len(r.edges) && r.edges[next].top() < yBot {
			r.active = append(r.active, next)
			next++
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.bottom() <= yTop {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			if r.accumulate(e, yTop, yBot, xMin) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}
		if row, offs := trimZeros(r.cover); row != nil {
			emit(y, xMin+offs, row)
		}
	}
}

// accumulate adds the contribution of e within the scanline [yTop, yBot)
// to the cover and area buffers.  Buffer index 0 corresponds to device
// column xMin.  Contributions left of the buffer are added to the first
// cell, contributions right of the buffer are dropped.
func (r *Rasteriser) accumulate(e *edge, yTop, yBot float64, xMin int) bool {
	yTop = max(yTop, e.top())
	yBot = min(yBot, e.bottom())
	if yBot <= yTop {
		return false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.xAt(yTop)
	xb := e.xAt(yBot)
	ca := int(math.Floor(xa))
	cb := int(math.Floor(xb))
	if ca == cb {
		r.deposit(ca, sign*float32(yBot-yTop), (xa+xb)/2-float64(ca), xMin)
		return true
	}

	// Split the edge where it crosses vertical pixel boundaries.  The
	// boundaries are visited in order of increasing y.
	y0 := yTop
	step := 1
	x := ca + 1
	if cb < ca {
		step = -1
		x = ca
	}
	for {
		y1 := yBot
		if x != cb+max(step, 0) {
			y1 = min(yBot, max(y0, e.y0+(float64(x)-e.x0)/e.dxdy))
		}
		if y1 > y0 {
			xMid := e.xAt((y0 + y1) / 2)
			c := int(math.Floor(xMid))
			r.deposit(c, sign*float32(y1-y0), xMid-float64(c), xMin)
		}
		if y1 >= yBot {
			break
		}
		y0 = y1
		x += step
	}
	return true
}

// deposit records a segment with vertical extent c (signed) and mean
// horizontal position xFrac within pixel column col.
func (r *Rasteriser) deposit(col int, c float32, xFrac float64, xMin int) {
	idx := col - xMin
	switch {
	case idx < 0:
		r.cover[0] += c
		r.area[0] += c
	case idx < len(r.cover):
		r.cover[idx] += c
		r.area[idx] += c * float32(1-xFrac)
	}
}

// integrateNonZero turns accumulated cover and area values into nonzero
// winding rule coverage, in place.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i, c := range cover {
		v := abs32(acc + area[i])
		acc += c
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd turns accumulated cover and area values into even-odd
// rule coverage, in place.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i, c := range cover {
		v := abs32(acc + area[i])
		acc += c
		v -= 2 * float32(math.Floor(float64(v/2)))
		cover[i] = 1 - abs32(1-v)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros returns the part of row between the first and the last
// non-zero value, together with its offset.  If all values are zero, nil
// is returned.
func trimZeros(row []float32) ([]float32, int) {
	lo := 0
	for lo < len(row) && row[lo] == 0 {
		lo++
	}
	if lo == len(row) {
		return nil, 0
	}
	hi := len(row)
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

const (
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the minimum vertical extent of an edge,
	// in device pixels.  Shorter edges do not contribute to the coverage.
	horizontalEdgeThreshold = 1e-10
)
