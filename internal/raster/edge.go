// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// quadOffsetX and quadOffsetY place the four lanes of a quad at pixel
// centers, 12.4 fixed point, relative to the quad origin.
var (
	quadOffsetX = wide.I32x4{7, 23, 7, 23}
	quadOffsetY = wide.I32x4{7, 7, 23, 23}
)

// edge evaluates the edge function of a triangle side for a 2x2 quad and
// steps it one quad at a time.
type edge struct {
	stepX wide.I32x4
	stepY wide.I32x4
}

// start returns the edge function of the side a->b at the four pixel
// centers of the quad whose top left screen corner is (x, y).
func (e *edge) start(a, b *gstate.Vertex, x, y int) wide.I32x4 {
	xf := a.Y - b.Y
	yf := b.X - a.X
	c := b.Y*a.X - b.X*a.Y

	// A quad covers two pixels of 16 subpixels in each direction.
	e.stepX = wide.SplatI32(int32(xf * 32)) // #nosec G115 -- 12.4 coordinates fit
	e.stepY = wide.SplatI32(int32(yf * 32)) // #nosec G115 -- 12.4 coordinates fit

	var w wide.I32x4
	for i := range w {
		px := x + int(quadOffsetX[i])
		py := y + int(quadOffsetY[i])
		w[i] = int32(xf*px + yf*py + c) // #nosec G115 -- 12.4 coordinates fit
	}
	return w
}

// isRightSideOrFlatBottom reports whether the side line1->line2 is a right
// or flat bottom side as seen from the opposite vertex. Pixels exactly on
// such a side belong to the neighboring triangle.
func isRightSideOrFlatBottom(vertex, line1, line2 *gstate.Vertex) bool {
	if line1.Y == line2.Y {
		return vertex.Y < line1.Y
	}
	return vertex.X < line1.X+(line2.X-line1.X)*(vertex.Y-line1.Y)/(line2.Y-line1.Y)
}

func edgeBias(vertex, line1, line2 *gstate.Vertex) wide.I32x4 {
	if isRightSideOrFlatBottom(vertex, line1, line2) {
		return wide.SplatI32(-1)
	}
	return wide.I32x4{}
}

// coverageMask combines the biased edge values with the scissor lanes.
// A lane is covered when its value is non-negative.
func coverageMask(w0, w1, w2, bias0, bias1, bias2, scissor wide.I32x4) wide.I32x4 {
	return w0.Add(bias0).Or(w1.Add(bias1)).Or(w2.Add(bias2)).Or(scissor)
}
