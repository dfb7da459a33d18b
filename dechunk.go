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

// DechunkLines moves the lines of all chunks into the first chunk.
// Results of non-chunked types, and results with a single chunk, are
// returned unchanged.
func DechunkLines(r LineResult) (LineResult, error) {
	if r == nil {
		return nil, configErrorf("lines", "missing")
	}
	if !r.LineType().IsChunked() {
		return r, nil
	}
	chunks, err := lineChunks(r)
	if err != nil {
		return nil, err
	}
	if len(chunks) <= 1 {
		return r, nil
	}
	return assembleLines(r.LineType(), []*chunkData{mergeChunks(chunks)}), nil
}

// DechunkFilled moves the filled contours of all chunks into the first
// chunk.  Results of non-chunked types, and results with a single chunk,
// are returned unchanged.
func DechunkFilled(r FillResult) (FillResult, error) {
	if r == nil {
		return nil, configErrorf("filled", "missing")
	}
	if !r.FillType().IsChunked() {
		return r, nil
	}
	chunks, err := fillChunks(r)
	if err != nil {
		return nil, err
	}
	if len(chunks) <= 1 {
		return r, nil
	}
	return assembleFilled(r.FillType(), []*chunkData{mergeChunks(chunks)}), nil
}

// mergeChunks concatenates the data of several chunks.  Either all
// non-empty chunks have outer offsets or none has.
func mergeChunks(chunks []*chunkData) *chunkData {
	res := &chunkData{}
	for _, c := range chunks {
		if c.isEmpty() {
			continue
		}

		base := uint32(len(res.points))
		ringBase := uint32(0)
		if len(res.lineOffsets) > 0 {
			res.lineOffsets = res.lineOffsets[:len(res.lineOffsets)-1]
			ringBase = uint32(len(res.lineOffsets))
		}
		if c.outerOffsets != nil {
			if len(res.outerOffsets) > 0 {
				res.outerOffsets = res.outerOffsets[:len(res.outerOffsets)-1]
			}
			for _, o := range c.outerOffsets {
				res.outerOffsets = append(res.outerOffsets, ringBase+o)
			}
		}
		for _, o := range c.lineOffsets {
			res.lineOffsets = append(res.lineOffsets, base+o)
		}
		res.points = append(res.points, c.points...)
	}
	return res
}
