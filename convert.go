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
	"math"
	"slices"

	"github.com/asim/quadtree"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ConvertLines converts contour lines to a different representation.
//
// Converting a non-chunked result to a chunked type gives a single chunk.
// Converting a chunked result to a non-chunked type drops the chunk
// boundaries.
func ConvertLines(r LineResult, to LineType) (LineResult, error) {
	if _, ok := lineTypeNames[to]; !ok {
		return nil, configErrorf("line_type", "unsupported value %s", to)
	}
	chunks, err := lineChunks(r)
	if err != nil {
		return nil, err
	}
	return assembleLines(to, chunks), nil
}

// ConvertFilled converts filled contours to a different representation.
//
// Converting a non-chunked result to a chunked type gives a single chunk.
// Converting a chunked result to a non-chunked type drops the chunk
// boundaries.  If the input does not group holes with their outer
// boundaries but the output type does, outer boundaries and holes are
// told apart by orientation, and each hole is assigned to the smallest
// outer boundary which contains it.
func ConvertFilled(r FillResult, to FillType) (FillResult, error) {
	if _, ok := fillTypeNames[to]; !ok {
		return nil, configErrorf("fill_type", "unsupported value %s", to)
	}
	chunks, err := fillChunks(r)
	if err != nil {
		return nil, err
	}

	for i, c := range chunks {
		if c.isEmpty() {
			continue
		}
		if to.groupsHoles() && c.outerOffsets == nil {
			chunks[i] = groupHoles(c)
		}
	}
	return assembleFilled(to, chunks), nil
}

// lineChunks extracts the chunk data from a line result.
func lineChunks(r LineResult) ([]*chunkData, error) {
	switch r := r.(type) {
	case *SeparateLines:
		c, err := joinSeparate(r.Points, nil)
		if err != nil {
			return nil, err
		}
		return []*chunkData{c}, nil

	case *SeparateCodeLines:
		if len(r.Codes) != len(r.Points) {
			return nil, configErrorf("codes", "%d code arrays for %d lines", len(r.Codes), len(r.Points))
		}
		c, err := joinSeparate(r.Points, r.Codes)
		if err != nil {
			return nil, err
		}
		return []*chunkData{c}, nil

	case *ChunkCombinedCodeLines:
		if len(r.Codes) != len(r.Points) {
			return nil, configErrorf("codes", "%d code arrays for %d chunks", len(r.Codes), len(r.Points))
		}
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			offsets, err := offsetsFromCodes(r.Codes[i], len(points))
			if err != nil {
				return nil, err
			}
			chunks[i] = &chunkData{points: points, lineOffsets: offsets}
		}
		return chunks, nil

	case *ChunkCombinedOffsetLines:
		if len(r.Offsets) != len(r.Points) {
			return nil, configErrorf("offsets", "%d offset arrays for %d chunks", len(r.Offsets), len(r.Points))
		}
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			if err := checkOffsets(r.Offsets[i], len(points)); err != nil {
				return nil, err
			}
			chunks[i] = newChunkData(points, r.Offsets[i], nil)
		}
		return chunks, nil

	case *ChunkCombinedNanLines:
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			chunks[i] = splitNaNs(points)
		}
		return chunks, nil

	case nil:
		return nil, configErrorf("lines", "missing")
	default:
		return nil, configErrorf("lines", "unsupported result type %T", r)
	}
}

// fillChunks extracts the chunk data from a fill result.  For types which
// group holes, outerOffsets is set on every non-empty chunk.
func fillChunks(r FillResult) ([]*chunkData, error) {
	switch r := r.(type) {
	case *OuterCodeFill:
		if len(r.Codes) != len(r.Points) {
			return nil, configErrorf("codes", "%d code arrays for %d polygons", len(r.Codes), len(r.Points))
		}
		offsets := make([][]uint32, len(r.Points))
		for i, points := range r.Points {
			o, err := offsetsFromCodes(r.Codes[i], len(points))
			if err != nil {
				return nil, err
			}
			offsets[i] = o
		}
		return []*chunkData{joinGroups(r.Points, offsets)}, nil

	case *OuterOffsetFill:
		if len(r.Offsets) != len(r.Points) {
			return nil, configErrorf("offsets", "%d offset arrays for %d polygons", len(r.Offsets), len(r.Points))
		}
		for i, points := range r.Points {
			if err := checkOffsets(r.Offsets[i], len(points)); err != nil {
				return nil, err
			}
		}
		return []*chunkData{joinGroups(r.Points, r.Offsets)}, nil

	case *ChunkCombinedCodeFill:
		if len(r.Codes) != len(r.Points) {
			return nil, configErrorf("codes", "%d code arrays for %d chunks", len(r.Codes), len(r.Points))
		}
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			offsets, err := offsetsFromCodes(r.Codes[i], len(points))
			if err != nil {
				return nil, err
			}
			chunks[i] = &chunkData{points: points, lineOffsets: offsets}
		}
		return chunks, nil

	case *ChunkCombinedOffsetFill:
		if len(r.Offsets) != len(r.Points) {
			return nil, configErrorf("offsets", "%d offset arrays for %d chunks", len(r.Offsets), len(r.Points))
		}
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			if err := checkOffsets(r.Offsets[i], len(points)); err != nil {
				return nil, err
			}
			chunks[i] = newChunkData(points, r.Offsets[i], nil)
		}
		return chunks, nil

	case *ChunkCombinedCodeOffsetFill:
		if len(r.Codes) != len(r.Points) || len(r.OuterOffsets) != len(r.Points) {
			return nil, configErrorf("codes", "array counts do not match the %d chunks", len(r.Points))
		}
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			offsets, err := offsetsFromCodes(r.Codes[i], len(points))
			if err != nil {
				return nil, err
			}
			if err := checkOffsets(r.OuterOffsets[i], len(points)); err != nil {
				return nil, err
			}
			var outer []uint32
			if len(points) > 0 {
				outer = make([]uint32, len(r.OuterOffsets[i]))
				for k, o := range r.OuterOffsets[i] {
					idx, found := slices.BinarySearch(offsets, o)
					if !found {
						return nil, configErrorf("outer_offsets", "offset %d is not the start of a boundary", o)
					}
					outer[k] = uint32(idx)
				}
			}
			chunks[i] = newChunkData(points, offsets, outer)
		}
		return chunks, nil

	case *ChunkCombinedOffsetOffsetFill:
		if len(r.Offsets) != len(r.Points) || len(r.OuterOffsets) != len(r.Points) {
			return nil, configErrorf("offsets", "array counts do not match the %d chunks", len(r.Points))
		}
		chunks := make([]*chunkData, len(r.Points))
		for i, points := range r.Points {
			if err := checkOffsets(r.Offsets[i], len(points)); err != nil {
				return nil, err
			}
			nRings := 0
			if len(r.Offsets[i]) > 0 {
				nRings = len(r.Offsets[i]) - 1
			}
			if err := checkOffsets(r.OuterOffsets[i], nRings); err != nil {
				return nil, err
			}
			chunks[i] = newChunkData(points, r.Offsets[i], r.OuterOffsets[i])
		}
		return chunks, nil

	case nil:
		return nil, configErrorf("filled", "missing")
	default:
		return nil, configErrorf("filled", "unsupported result type %T", r)
	}
}

func newChunkData(points []vec.Vec2, offsets, outer []uint32) *chunkData {
	if len(points) == 0 {
		return &chunkData{}
	}
	return &chunkData{points: points, lineOffsets: offsets, outerOffsets: outer}
}

// joinSeparate concatenates separate lines into a single chunk.  If codes
// is not nil, the code arrays are validated.
func joinSeparate(lines [][]vec.Vec2, codes [][]Code) (*chunkData, error) {
	c := &chunkData{}
	total := 0
	for i, line := range lines {
		if len(line) == 0 {
			return nil, configErrorf("points", "line %d is empty", i)
		}
		if codes != nil {
			if _, err := offsetsFromCodes(codes[i], len(line)); err != nil {
				return nil, err
			}
		}
		total += len(line)
	}
	if total == 0 {
		return c, nil
	}

	c.points = make([]vec.Vec2, 0, total)
	c.lineOffsets = make([]uint32, 0, len(lines)+1)
	for _, line := range lines {
		c.lineOffsets = append(c.lineOffsets, uint32(len(c.points)))
		c.points = append(c.points, line...)
	}
	c.lineOffsets = append(c.lineOffsets, uint32(len(c.points)))
	return c, nil
}

// joinGroups concatenates polygons, each given as an outer boundary
// followed by its holes, into a single chunk.
func joinGroups(polygons [][]vec.Vec2, offsets [][]uint32) *chunkData {
	c := &chunkData{}
	for i, points := range polygons {
		if len(points) == 0 {
			continue
		}
		base := uint32(len(c.points))
		if len(c.lineOffsets) > 0 {
			c.lineOffsets = c.lineOffsets[:len(c.lineOffsets)-1]
		}
		c.outerOffsets = append(c.outerOffsets, uint32(len(c.lineOffsets)))
		for _, o := range offsets[i] {
			c.lineOffsets = append(c.lineOffsets, base+o)
		}
		c.points = append(c.points, points...)
	}
	if len(c.points) == 0 {
		return &chunkData{}
	}
	c.outerOffsets = append(c.outerOffsets, uint32(len(c.lineOffsets)-1))
	return c
}

// offsetsFromCodes finds the path offsets in a code array: every path
// starts with a MoveTo code.
func offsetsFromCodes(codes []Code, n int) ([]uint32, error) {
	if len(codes) != n {
		return nil, configErrorf("codes", "%d codes for %d points", len(codes), n)
	}
	if n == 0 {
		return nil, nil
	}
	if codes[0] != MoveTo {
		return nil, configErrorf("codes", "first code is %s, not MoveTo", codes[0])
	}

	var offsets []uint32
	for i, code := range codes {
		switch code {
		case MoveTo:
			offsets = append(offsets, uint32(i))
		case LineTo, ClosePoly:
			// part of the current path
		default:
			return nil, configErrorf("codes", "invalid code %d at index %d", code, i)
		}
	}
	return append(offsets, uint32(n)), nil
}

// checkOffsets verifies that offsets split n items into non-empty runs.
func checkOffsets(offsets []uint32, n int) error {
	if n == 0 && len(offsets) == 0 {
		return nil
	}
	if len(offsets) < 2 {
		return configErrorf("offsets", "need at least 2 offsets, got %d", len(offsets))
	}
	if offsets[0] != 0 {
		return configErrorf("offsets", "first offset is %d, not 0", offsets[0])
	}
	for k := 1; k < len(offsets); k++ {
		if offsets[k] <= offsets[k-1] {
			return configErrorf("offsets", "offsets are not increasing at index %d", k)
		}
	}
	if last := offsets[len(offsets)-1]; int(last) != n {
		return configErrorf("offsets", "last offset is %d, expected %d", last, n)
	}
	return nil
}

// splitNaNs separates lines at NaN points.
func splitNaNs(points []vec.Vec2) *chunkData {
	c := &chunkData{}
	start := 0
	for i := 0; i <= len(points); i++ {
		if i < len(points) && !math.IsNaN(points[i].X) && !math.IsNaN(points[i].Y) {
			continue
		}
		if i > start {
			c.lineOffsets = append(c.lineOffsets, uint32(len(c.points)))
			c.points = append(c.points, points[start:i]...)
		}
		start = i + 1
	}
	if len(c.points) == 0 {
		return &chunkData{}
	}
	c.lineOffsets = append(c.lineOffsets, uint32(len(c.points)))
	return c
}

// groupHoles reorders the rings of a chunk so that each outer boundary is
// followed by the holes it contains, and sets outerOffsets.
//
// Rings with positive signed area are outer boundaries, the others are
// holes.  A hole is assigned to the outer boundary with the smallest area
// which contains it.  A hole which is not inside any outer boundary is
// kept as a boundary of its own.
func groupHoles(c *chunkData) *chunkData {
	nRings := len(c.lineOffsets) - 1
	ring := func(k int) []vec.Vec2 {
		return c.points[c.lineOffsets[k]:c.lineOffsets[k+1]]
	}

	areas := make([]float64, nRings)
	boxes := make([]rect.Rect, nRings)
	var outers, holes []int
	for k := range nRings {
		areas[k] = signedArea(ring(k))
		boxes[k] = bbox(ring(k))
		if areas[k] < 0 {
			holes = append(holes, k)
		} else {
			outers = append(outers, k)
		}
	}

	children := make(map[int][]int)
	var orphans []int
	if len(holes) > 0 {
		idx := newOuterIndex(outers, boxes)
		for _, h := range holes {
			best := -1
			for _, o := range idx.candidates(boxes[h]) {
				if best >= 0 && areas[o] >= areas[best] {
					continue
				}
				if ringContainsRing(ring(o), ring(h)) {
					best = o
				}
			}
			if best >= 0 {
				children[best] = append(children[best], h)
			} else {
				orphans = append(orphans, h)
			}
		}
	}

	res := &chunkData{
		points:       make([]vec.Vec2, 0, len(c.points)),
		lineOffsets:  make([]uint32, 0, nRings+1),
		outerOffsets: make([]uint32, 0, len(outers)+len(orphans)+1),
	}
	add := func(k int) {
		res.lineOffsets = append(res.lineOffsets, uint32(len(res.points)))
		res.points = append(res.points, ring(k)...)
	}
	for _, o := range outers {
		res.outerOffsets = append(res.outerOffsets, uint32(len(res.lineOffsets)))
		add(o)
		for _, h := range children[o] {
			add(h)
		}
	}
	for _, h := range orphans {
		res.outerOffsets = append(res.outerOffsets, uint32(len(res.lineOffsets)))
		add(h)
	}
	res.lineOffsets = append(res.lineOffsets, uint32(len(res.points)))
	res.outerOffsets = append(res.outerOffsets, uint32(nRings))
	return res
}

// outerIndex is a spatial index of the bounding boxes of outer
// boundaries, keyed by box centre.
type outerIndex struct {
	tree         *quadtree.QuadTree
	halfW, halfH float64 // largest half extents of the indexed boxes
	boxes        []rect.Rect
}

func newOuterIndex(outers []int, boxes []rect.Rect) *outerIndex {
	idx := &outerIndex{boxes: boxes}
	if len(outers) == 0 {
		return idx
	}

	all := boxes[outers[0]]
	byCentre := make(map[vec.Vec2][]int)
	var centres []vec.Vec2
	for _, o := range outers {
		b := boxes[o]
		all.LLx = min(all.LLx, b.LLx)
		all.LLy = min(all.LLy, b.LLy)
		all.URx = max(all.URx, b.URx)
		all.URy = max(all.URy, b.URy)
		idx.halfW = max(idx.halfW, (b.URx-b.LLx)/2)
		idx.halfH = max(idx.halfH, (b.URy-b.LLy)/2)

		centre := vec.Vec2{X: (b.LLx + b.URx) / 2, Y: (b.LLy + b.URy) / 2}
		if _, seen := byCentre[centre]; !seen {
			centres = append(centres, centre)
		}
		byCentre[centre] = append(byCentre[centre], o)
	}

	// Add a margin to avoid dropping points at the edges.
	marginX := 1 + (all.URx-all.LLx)/16
	marginY := 1 + (all.URy-all.LLy)/16
	aabb := quadtree.NewAABB(
		quadtree.NewPoint((all.LLx+all.URx)/2, (all.LLy+all.URy)/2, nil),
		quadtree.NewPoint((all.URx-all.LLx)/2+marginX, (all.URy-all.LLy)/2+marginY, nil))
	idx.tree = quadtree.New(aabb, 0, nil)
	for _, centre := range centres {
		idx.tree.Insert(quadtree.NewPoint(centre.X, centre.Y, byCentre[centre]))
	}
	return idx
}

// candidates returns the outer boundaries whose bounding box contains the
// given box, in increasing order.
func (idx *outerIndex) candidates(b rect.Rect) []int {
	if idx.tree == nil {
		return nil
	}

	// The centre of a containing box is within the largest half extents
	// of the centre of b.
	cx, cy := (b.LLx+b.URx)/2, (b.LLy+b.URy)/2
	search := quadtree.NewAABB(
		quadtree.NewPoint(cx, cy, nil),
		quadtree.NewPoint(idx.halfW*1.001+1e-9, idx.halfH*1.001+1e-9, nil))

	var res []int
	for _, p := range idx.tree.Search(search) {
		for _, o := range p.Data().([]int) {
			ob := idx.boxes[o]
			if ob.LLx <= b.LLx && ob.LLy <= b.LLy && ob.URx >= b.URx && ob.URy >= b.URy {
				res = append(res, o)
			}
		}
	}
	slices.Sort(res)
	return res
}

// signedArea returns the area enclosed by a ring, positive if the ring is
// oriented anticlockwise.
func signedArea(ring []vec.Vec2) float64 {
	var a float64
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a += (ring[j].X - ring[i].X) * (ring[j].Y + ring[i].Y)
	}
	return a / 2
}

func bbox(ring []vec.Vec2) rect.Rect {
	b := rect.Rect{LLx: math.Inf(1), LLy: math.Inf(1), URx: math.Inf(-1), URy: math.Inf(-1)}
	for _, p := range ring {
		b.LLx = min(b.LLx, p.X)
		b.LLy = min(b.LLy, p.Y)
		b.URx = max(b.URx, p.X)
		b.URy = max(b.URy, p.Y)
	}
	return b
}

// ringContainsRing reports whether the inner ring lies inside the outer
// one.  Vertices of the inner ring which are also vertices of the outer
// ring are skipped, since the two rings may touch.
func ringContainsRing(outer, inner []vec.Vec2) bool {
	vertices := make(map[vec.Vec2]bool, len(outer))
	for _, p := range outer {
		vertices[p] = true
	}
	for _, p := range inner {
		if vertices[p] {
			continue
		}
		return pointInRing(p, outer)
	}
	return false
}

// pointInRing uses the even-odd rule to test whether a point lies inside
// a ring.
func pointInRing(pt vec.Vec2, ring []vec.Vec2) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}
