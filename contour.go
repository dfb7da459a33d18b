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

// Package contour computes contour lines and filled contours of data
// given on a structured quadrilateral grid.
//
// A [Generator] is constructed once for a grid, and can then be queried
// for contour lines at a level using [Generator.Lines], or for filled
// contours between two levels using [Generator.Filled].  The grid can be
// divided into chunks, which are traced independently and, with the
// [Threaded] algorithm, concurrently.
package contour

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"seehuhn.de/go/contour/internal/parallel"
)

// Generator computes contours of a fixed grid.
//
// A Generator is not safe for concurrent use.  Use one Generator per
// goroutine instead.
type Generator struct {
	data   *gridData
	nx, ny int

	algorithm   Algorithm
	cornerMask  bool
	lineType    LineType
	fillType    FillType
	quadAsTri   bool
	zInterp     ZInterp
	threadCount int

	xChunkSize, yChunkSize int
	nxChunks, nyChunks     int
	nChunks                int

	gridFlags []uint16 // per quad, fixed
	levels    []uint8  // per point, for the current query
	state     []uint32 // per quad, for the current query

	// The current query.
	filled        bool
	lower, upper  float64
	identifyHoles bool

	pool    *parallel.Pool
	cleanup runtime.Cleanup
}

// New returns a generator for the given grid.  If opt is nil,
// [DefaultOptions] are used.  All invalid input is reported as a
// *[ConfigError].
func New(grid *Grid, opt *Options) (*Generator, error) {
	if opt == nil {
		opt = DefaultOptions()
	}

	info, ok := Capabilities(opt.Algorithm)
	if !ok {
		return nil, configErrorf("algorithm", "unknown algorithm %d", int(opt.Algorithm))
	}

	zInterp := opt.ZInterp
	if zInterp == 0 {
		zInterp = Linear
	}
	if zInterp != Linear && zInterp != Log {
		return nil, configErrorf("z_interp", "unsupported value %s", zInterp)
	}
	if zInterp != Linear && !info.SupportsZInterp {
		return nil, configErrorf("z_interp", "not supported by the %s algorithm", info.Name)
	}

	lineType := opt.LineType
	if lineType == 0 {
		lineType = info.DefaultLineType
	}
	if !info.SupportsLineType(lineType) {
		return nil, configErrorf("line_type", "%s is not supported by the %s algorithm", lineType, info.Name)
	}
	fillType := opt.FillType
	if fillType == 0 {
		fillType = info.DefaultFillType
	}
	if !info.SupportsFillType(fillType) {
		return nil, configErrorf("fill_type", "%s is not supported by the %s algorithm", fillType, info.Name)
	}

	if opt.CornerMask && !info.SupportsCornerMask {
		return nil, configErrorf("corner_mask", "not supported by the %s algorithm", info.Name)
	}
	if opt.QuadAsTri && !info.SupportsQuadAsTri {
		return nil, configErrorf("quad_as_tri", "not supported by the %s algorithm", info.Name)
	}
	if opt.ThreadCount < 0 {
		return nil, configErrorf("thread_count", "cannot be negative, got %d", opt.ThreadCount)
	}
	if opt.ThreadCount > 1 && !info.SupportsThreads {
		return nil, configErrorf("thread_count", "the %s algorithm is single threaded", info.Name)
	}

	data, err := grid.prepare(zInterp)
	if err != nil {
		return nil, err
	}
	nx, ny := data.nx, data.ny

	size, err := CalcChunkSizes(opt.ChunkSize, opt.ChunkCount, opt.TotalChunkCount, ny, nx)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		data:       data,
		nx:         nx,
		ny:         ny,
		algorithm:  opt.Algorithm,
		cornerMask: opt.CornerMask,
		lineType:   lineType,
		fillType:   fillType,
		quadAsTri:  opt.QuadAsTri,
		zInterp:    zInterp,
	}

	g.xChunkSize = nx - 1
	if size.X > 0 {
		g.xChunkSize = min(size.X, nx-1)
	}
	g.yChunkSize = ny - 1
	if size.Y > 0 {
		g.yChunkSize = min(size.Y, ny-1)
	}
	g.nxChunks = ceilDiv(nx-1, g.xChunkSize)
	g.nyChunks = ceilDiv(ny-1, g.yChunkSize)
	g.nChunks = g.nxChunks * g.nyChunks

	g.threadCount = 1
	if info.SupportsThreads {
		threads := runtime.GOMAXPROCS(0)
		if opt.ThreadCount > 0 {
			threads = min(threads, opt.ThreadCount)
		}
		g.threadCount = min(threads, g.nChunks)
	}

	g.initGrid()
	g.levels = make([]uint8, nx*ny)
	g.state = make([]uint32, nx*ny)

	Logger().Debug("contour generator",
		"algorithm", g.algorithm,
		"nx", nx, "ny", ny,
		"masked", data.mask != nil,
		"chunks", g.nChunks,
		"chunk_size", fmt.Sprintf("%dx%d", g.yChunkSize, g.xChunkSize),
		"threads", g.threadCount)

	return g, nil
}

// Close releases the worker goroutines of a threaded generator.  The
// generator can still be used after Close, but will have to start new
// workers.
func (g *Generator) Close() error {
	if g.pool != nil {
		g.cleanup.Stop()
		g.pool.Close()
		g.pool = nil
	}
	return nil
}

// Lines returns the contour lines at the given level.
func (g *Generator) Lines(level float64) (LineResult, error) {
	g.filled = false
	g.lower = level
	g.upper = level
	g.identifyHoles = false

	chunks, err := g.march("lines")
	if err != nil {
		return nil, err
	}
	g.logQuery("lines", chunks, "level", level)
	return assembleLines(g.lineType, chunks), nil
}

// Filled returns the filled contours between the lower and upper level.
// Points with lower < z <= upper are inside the filled region.
// If lower == upper, or if either level is NaN, the result is empty.
func (g *Generator) Filled(lower, upper float64) (FillResult, error) {
	if lower > upper {
		return nil, configErrorf("levels", "lower level %g is greater than upper level %g", lower, upper)
	}
	if lower == upper || math.IsNaN(lower) || math.IsNaN(upper) {
		chunks := make([]*chunkData, g.nChunks)
		for i := range chunks {
			chunks[i] = &chunkData{}
		}
		return assembleFilled(g.fillType, chunks), nil
	}

	g.filled = true
	g.lower = lower
	g.upper = upper
	g.identifyHoles = g.fillType.groupsHoles()

	chunks, err := g.march("filled")
	if err != nil {
		return nil, err
	}
	g.logQuery("filled", chunks, "lower", lower, "upper", upper)
	return assembleFilled(g.fillType, chunks), nil
}

// MultiLines returns the contour lines at each of the given levels.
func (g *Generator) MultiLines(levels []float64) ([]LineResult, error) {
	res := make([]LineResult, len(levels))
	for i, level := range levels {
		r, err := g.Lines(level)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		res[i] = r
	}
	return res, nil
}

// MultiFilled returns the filled contours between each pair of
// consecutive levels.  At least two levels are required, and the levels
// must be in non-decreasing order.
func (g *Generator) MultiFilled(levels []float64) ([]FillResult, error) {
	if len(levels) < 2 {
		return nil, configErrorf("levels", "at least 2 levels are required, got %d", len(levels))
	}

	res := make([]FillResult, len(levels)-1)
	for i := range res {
		r, err := g.Filled(levels[i], levels[i+1])
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
		res[i] = r
	}
	return res, nil
}

// march runs the two stages of a query over all chunks.  All chunks are
// initialised before the first chunk is traced.
func (g *Generator) march(op string) ([]*chunkData, error) {
	locals := make([]*chunkLocal, g.nChunks)
	for c := range locals {
		locals[c] = g.chunkLimits(c)
	}
	chunks := make([]*chunkData, g.nChunks)

	initChunk := func(c int) error {
		return catch(func() { g.initLevelsAndStarts(locals[c]) })
	}
	traceChunk := func(c int) error {
		return catch(func() {
			if g.filled {
				chunks[c] = g.marchFilled(locals[c])
			} else {
				chunks[c] = g.marchLines(locals[c])
			}
		})
	}

	var err error
	if g.threadCount > 1 {
		pool := g.workerPool()
		err = pool.Run(g.nChunks, initChunk)
		if err == nil {
			err = pool.Run(g.nChunks, traceChunk)
		}
	} else {
		err = runSerial(g.nChunks, initChunk)
		if err == nil {
			err = runSerial(g.nChunks, traceChunk)
		}
	}

	if err != nil {
		e := &InternalError{Op: op, Msg: err.Error(), Dump: g.dumpCache()}
		Logger().Error("contour: internal error", "op", op, "msg", e.Msg)
		return nil, e
	}
	return chunks, nil
}

func runSerial(n int, fn func(int) error) error {
	for i := range n {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

// workerPool returns the pool of the generator, starting it on first use.
// A pool which is not released using Close is stopped once the generator
// is garbage collected.
func (g *Generator) workerPool() *parallel.Pool {
	if g.pool == nil {
		g.pool = parallel.New(g.threadCount)
		g.cleanup = runtime.AddCleanup(g, (*parallel.Pool).Close, g.pool)
	}
	return g.pool
}

func (g *Generator) logQuery(op string, chunks []*chunkData, args ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	points, paths := 0, 0
	for _, c := range chunks {
		if c.isEmpty() {
			continue
		}
		points += len(c.points)
		paths += len(c.lineOffsets) - 1
	}
	args = append(args, "chunks", len(chunks), "points", points, "paths", paths)
	l.Debug("contour "+op, args...)
}

// Algorithm returns the algorithm used by the generator.
func (g *Generator) Algorithm() Algorithm {
	return g.algorithm
}

// ChunkCount returns the number of chunks in the y and x directions.
func (g *Generator) ChunkCount() (ny, nx int) {
	return g.nyChunks, g.nxChunks
}

// ChunkSize returns the number of quads per chunk in the y and x
// directions.  The last chunk in each direction may be smaller.
func (g *Generator) ChunkSize() (ny, nx int) {
	return g.yChunkSize, g.xChunkSize
}

// CornerMask reports whether corner masking is enabled.
func (g *Generator) CornerMask() bool {
	return g.cornerMask
}

// LineType returns the representation used for contour lines.
func (g *Generator) LineType() LineType {
	return g.lineType
}

// FillType returns the representation used for filled contours.
func (g *Generator) FillType() FillType {
	return g.fillType
}

// QuadAsTri reports whether quads are split into triangles.
func (g *Generator) QuadAsTri() bool {
	return g.quadAsTri
}

// ThreadCount returns the number of worker goroutines used.
func (g *Generator) ThreadCount() int {
	return g.threadCount
}

// ZInterp returns the interpolation used along grid edges.
func (g *Generator) ZInterp() ZInterp {
	return g.zInterp
}
