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

// Command genpdf draws the contours of every test case into a PDF file.
// Filled bands are painted in shades of gray, contour lines in black.
// With -png, the PDF files are also rendered to PNG images using
// Ghostscript.
package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/contour"
	"seehuhn.de/go/contour/testcases"
)

const (
	pageSize = 400.0 // size of the data area in PDF points
	margin   = 20.0
)

func main() {
	outDir := flag.String("o", "testdata/contours", "output directory")
	withPNG := flag.Bool("png", false, "also render PNG images using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatal(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			pdfPath := filepath.Join(*outDir, name+".pdf")

			if err := generatePDF(&tc, pdfPath); err != nil {
				log.Fatalf("%s: %v", name, err)
			}
			if *withPNG {
				pngPath := filepath.Join(*outDir, name+".png")
				if err := renderPNG(pdfPath, pngPath); err != nil {
					log.Fatalf("%s: %v", name, err)
				}
			}
		}
	}
}

func generatePDF(tc *testcases.TestCase, pdfPath string) error {
	opt := contour.DefaultOptions()
	if tc.Log {
		opt.ZInterp = contour.Log
	}
	g, err := contour.New(&contour.Grid{
		NX: tc.NX, NY: tc.NY,
		X: tc.X, Y: tc.Y, Z: tc.Z,
		Mask: tc.Mask,
	}, opt)
	if err != nil {
		return err
	}
	defer g.Close()

	xMin, yMin, xMax, yMax := tc.Bounds()
	scale := pageSize / max(xMax-xMin, yMax-yMin)
	paper := &pdf.Rectangle{
		URx: scale*(xMax-xMin) + 2*margin,
		URy: scale*(yMax-yMin) + 2*margin,
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// map data coordinates to the page
	page.Transform(matrix.Matrix{scale, 0, 0, scale, margin - scale*xMin, margin - scale*yMin})

	bands := tc.Bands()
	for k, band := range bands {
		res, err := g.Filled(band[0], band[1])
		if err != nil {
			return err
		}
		p, err := contour.FilledPath(res)
		if err != nil {
			return err
		}
		if len(p.Cmds) == 0 {
			continue
		}
		gray := 0.9 - 0.6*float64(k)/float64(max(len(bands)-1, 1))
		page.SetFillColor(color.DeviceGray(gray))
		drawPath(page, p)
		page.FillEvenOdd()
	}

	page.SetStrokeColor(color.DeviceGray(0))
	page.SetLineWidth(0.5 / scale)
	for _, level := range tc.Levels {
		res, err := g.Lines(level)
		if err != nil {
			return err
		}
		p, err := contour.LinesPath(res)
		if err != nil {
			return err
		}
		if len(p.Cmds) == 0 {
			continue
		}
		drawPath(page, p)
		page.Stroke()
	}

	return page.Close()
}

// pathWriter is the subset of the page methods used to construct paths.
type pathWriter interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
}

func drawPath(page pathWriter, p *path.Data) {
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(p.Coords[k].X, p.Coords[k].Y)
			k++
		case path.CmdLineTo:
			page.LineTo(p.Coords[k].X, p.Coords[k].Y)
			k++
		case path.CmdClose:
			page.ClosePath()
		default:
			panic(fmt.Sprintf("unexpected path command %v", cmd))
		}
	}
}

func renderPNG(pdfPath, pngPath string) error {
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r144",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
