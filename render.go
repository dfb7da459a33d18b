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
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/contour/raster"
)

// RenderFilled rasterises filled contours into an alpha mask of the given
// size.  The matrix ctm maps grid coordinates to pixel coordinates, with
// the pixel (0, 0) covering the unit square at the device origin.
// A zero matrix is treated as the identity.
func RenderFilled(r FillResult, ctm matrix.Matrix, width, height int) (*image.Alpha, error) {
	p, err := FilledPath(r)
	if err != nil {
		return nil, err
	}

	img := image.NewAlpha(image.Rect(0, 0, width, height))

	rast := raster.NewRasteriser(rect.Rect{URx: float64(width), URy: float64(height)})
	if ctm != (matrix.Matrix{}) {
		rast.CTM = ctm
	}
	rast.FillEvenOdd(p, func(y, xMin int, coverage []float32) {
		row := img.Pix[y*img.Stride+xMin:]
		for i, c := range coverage {
			row[i] = uint8(c*255 + 0.5)
		}
	})
	return img, nil
}
