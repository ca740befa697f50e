// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// DrawTriangle rasterizes a counter-clockwise triangle. Clockwise and
// fully degenerate triangles draw nothing.
//
// Pixels are covered when their center is inside all three edges. Pixels
// on a right or flat bottom edge are left to the neighbor so shared edges
// are drawn once. Large triangles are split into column or row slices and
// drawn by the worker pool.
func (r *Rasterizer) DrawTriangle(st *gstate.State, v0, v1, v2 *gstate.Vertex) {
	d01x, d01y := v0.X-v1.X, v0.Y-v1.Y
	d02x, d02y := v0.X-v2.X, v0.Y-v2.Y
	if d01x*d02y-d01y*d02x < 0 {
		return
	}
	if d01x == 0 && d01y == 0 && d02x == 0 && d02y == 0 {
		return
	}

	minX := min(v0.X, v1.X, v2.X) &^ 0xF
	minY := min(v0.Y, v1.Y, v2.Y) &^ 0xF
	maxX := max(v0.X, v1.X, v2.X) | 0xF
	maxY := max(v0.Y, v1.Y, v2.Y) | 0xF

	tlx, tly, brx, bry := screenScissor(st)
	minX, minY = max(minX, tlx), max(minY, tly)
	maxX, maxY = min(maxX, brx+15), min(maxY, bry+15)
	if maxX < minX || maxY < minY {
		return
	}

	// A quad is 32 subpixels wide, slices must not share quads.
	rangeX := (maxX - minX + 31) / 32
	rangeY := (maxY - minY + 31) / 32

	tri := &triangle{b: r.bind(st), v0: v0, v1: v1, v2: v2}
	switch {
	case rangeY >= sliceThreshold && rangeX >= rangeY*4:
		r.pool.ParallelRange(0, rangeX, MinLinesPerThread, func(lo, hi int) {
			x1 := minX + lo*32
			x2 := min(maxX, minX+hi*32-1)
			tri.drawSlice(x1, minY, x2, maxY)
		})
	case rangeY >= sliceThreshold && rangeX >= sliceThreshold:
		r.pool.ParallelRange(0, rangeY, MinLinesPerThread, func(lo, hi int) {
			y1 := minY + lo*32
			y2 := min(maxY, minY+hi*32-1)
			tri.drawSlice(minX, y1, maxX, y2)
		})
	default:
		tri.drawSlice(minX, minY, maxX, maxY)
	}
}

type triangle struct {
	b          *binding
	v0, v1, v2 *gstate.Vertex
}

// triangleFlags are the per triangle shortcuts of the quad loop.
type triangleFlags struct {
	flatZ      bool
	flatColor0 bool
	flatColor1 bool
	noFog      bool
}

func (tri *triangle) flags() triangleFlags {
	st := tri.b.st
	v0, v1, v2 := tri.v0, tri.v1, tri.v2
	flatAll := tri.b.clearMode || !st.ShadeGouraud
	return triangleFlags{
		flatZ:      v0.Z == v1.Z && v0.Z == v2.Z,
		flatColor0: flatAll || (v0.Color0 == v1.Color0 && v0.Color0 == v2.Color0),
		flatColor1: flatAll || (v0.Color1 == v1.Color1 && v0.Color1 == v2.Color1),
		noFog: tri.b.clearMode || !st.FogEnable ||
			(v0.FogDepth >= 1 && v1.FogDepth >= 1 && v2.FogDepth >= 1),
	}
}

// drawSlice draws the part of the triangle inside the screen rectangle
// (x1, y1)-(x2, y2). x1 and y1 are quad aligned.
func (tri *triangle) drawSlice(x1, y1, x2, y2 int) {
	st := tri.b.st
	v0, v1, v2 := tri.v0, tri.v1, tri.v2
	bias0 := edgeBias(v0, v1, v2)
	bias1 := edgeBias(v1, v2, v0)
	bias2 := edgeBias(v2, v0, v1)

	var e0, e1, e2 edge
	w0Base := e0.start(v1, v2, x1, y1)
	w1Base := e1.start(v2, v0, x1, y1)
	w2Base := e2.start(v0, v1, x1, y1)

	f := tri.flags()
	span := int32(x2 - x1 - 16) // #nosec G115 -- screen coordinates fit
	scissorStep := wide.I32x4{0, -32, 0, -32}

	for curY := y1; curY <= y2; curY += 32 {
		w0, w1, w2 := w0Base, w1Base, w2Base

		var yPlus1 int32
		if curY+16 > y2 {
			yPlus1 = -1
		}
		scissor := wide.I32x4{0, span, yPlus1, span | yPlus1}

		px, py := st.ScreenToDrawing(x1, curY)
		for curX := x1; curX <= x2; curX += 32 {
			mask := coverageMask(w0, w1, w2, bias0, bias1, bias2, scissor)
			if mask.AnyNonNegative() {
				tri.drawQuad(&f, mask, w0, w1, w2, curX, curY, px, py)
			}
			w0, w1, w2 = w0.Add(e0.stepX), w1.Add(e1.stepX), w2.Add(e2.stepX)
			scissor = scissor.Add(scissorStep)
			// No 10-bit wrap: clipRect keeps px inside the buffer stride,
			// which may exceed 1024 pixels.
			px += 2
		}

		w0Base, w1Base, w2Base = w0Base.Add(e0.stepY), w1Base.Add(e1.stepY), w2Base.Add(e2.stepY)
	}
}

// drawQuad interpolates the vertex attributes for the covered lanes of a
// quad and runs the pixel function on them. Lane i is the pixel
// (px + i&1, py + i/2).
func (tri *triangle) drawQuad(f *triangleFlags, mask, w0, w1, w2 wide.I32x4, curX, curY, px, py int) {
	b := tri.b
	v0, v1, v2 := tri.v0, tri.v1, tri.v2
	wsum := w0.Add(w1).Add(w2).ToF32().Recip()

	var prim [4]wide.I32x4
	for i := range prim {
		switch {
		case f.flatColor0:
			prim[i] = wide.I32x4(v2.Color0)
		case mask[i] >= 0:
			prim[i] = interpolate(wide.I32x4(v0.Color0), wide.I32x4(v1.Color0), wide.I32x4(v2.Color0), w0[i], w1[i], w2[i], wsum[i])
		}
	}
	var sec [4]wide.I32x4
	for i := range sec {
		switch {
		case f.flatColor1:
			sec[i] = rgb(v2.Color1)
		case mask[i] >= 0:
			sec[i] = interpolate(rgb(v0.Color1), rgb(v1.Color1), rgb(v2.Color1), w0[i], w1[i], w2[i], wsum[i])
		}
	}

	if b.texturing {
		s, t := tri.texCoords(w0, w1, w2, wsum)
		ds, dt := s[1]-s[0], t[2]-t[0]
		level, frac, linear := b.samplingParams(ds, dt)
		for i := range prim {
			if mask[i] >= 0 {
				prim[i] = b.sampleTexel(s[i], t[i], subpixel(curX), subpixel(curY), prim[i], level, frac, linear)
			}
		}
	}

	if !b.clearMode {
		for i := range prim {
			prim[i] = prim[i].Add(sec[i])
		}
	}

	fog := wide.SplatI32(255)
	if !f.noFog {
		depth := w0.ToF32().MulScalar(v0.FogDepth).
			Add(w1.ToF32().MulScalar(v1.FogDepth)).
			Add(w2.ToF32().MulScalar(v2.FogDepth)).
			Mul(wsum)
		for i := range fog {
			fog[i] = int32(ClampFogDepth(depth[i]))
		}
	}

	var z wide.I32x4
	if f.flatZ {
		z = wide.SplatI32(int32(v2.Z))
	} else {
		z = w0.ToF32().MulScalar(float32(v0.Z)).
			Add(w1.ToF32().MulScalar(float32(v1.Z))).
			Add(w2.ToF32().MulScalar(float32(v2.Z))).
			Mul(wsum).ToI32()
	}

	for i := range mask {
		if mask[i] < 0 {
			continue
		}
		b.drawPixel(px+i&1, py+i/2, uint16(z[i]), uint8(fog[i]), prim[i], b.pctx) // #nosec G115 -- interpolated between 16-bit depths
	}
}

// texCoords interpolates the normalized texture coordinates of a quad.
// Through mode coordinates are texels and interpolate linearly; otherwise
// they are perspective corrected with the clip w of each vertex.
func (tri *triangle) texCoords(w0, w1, w2 wide.I32x4, wsum wide.F32x4) (s, t wide.F32x4) {
	st := tri.b.st
	v0, v1, v2 := tri.v0, tri.v1, tri.v2
	fw0, fw1, fw2 := w0.ToF32(), w1.ToF32(), w2.ToF32()

	if st.ThroughMode {
		// Mip levels are selected against level 0, so scale by its size.
		s = lerp3(v0.TexCoord[0], v1.TexCoord[0], v2.TexCoord[0], fw0, fw1, fw2, wsum).
			MulScalar(1 / float32(st.TextureWidth(0)))
		t = lerp3(v0.TexCoord[1], v1.TexCoord[1], v2.TexCoord[1], fw0, fw1, fw2, wsum).
			MulScalar(1 / float32(st.TextureHeight(0)))
		return s, t
	}

	wq0 := fw0.MulScalar(1 / v0.ClipW)
	wq1 := fw1.MulScalar(1 / v1.ClipW)
	wq2 := fw2.MulScalar(1 / v2.ClipW)
	qRecip := wq0.Add(wq1).Add(wq2).Recip()
	s = lerp3(v0.TexCoord[0], v1.TexCoord[0], v2.TexCoord[0], wq0, wq1, wq2, qRecip)
	t = lerp3(v0.TexCoord[1], v1.TexCoord[1], v2.TexCoord[1], wq0, wq1, wq2, qRecip)
	return s, t
}

// interpolate blends three integer vectors by the edge weights of one
// lane, truncating the result.
func interpolate(c0, c1, c2 wide.I32x4, w0, w1, w2 int32, wsum float32) wide.I32x4 {
	f0, f1, f2 := float32(w0), float32(w1), float32(w2)
	var out wide.I32x4
	for i := range out {
		out[i] = int32((float32(c0[i])*f0 + float32(c1[i])*f1 + float32(c2[i])*f2) * wsum)
	}
	return out
}

// lerp3 blends three scalars by per-lane weights.
func lerp3(c0, c1, c2 float32, w0, w1, w2, wsum wide.F32x4) wide.F32x4 {
	return w0.MulScalar(c0).Add(w1.MulScalar(c1)).Add(w2.MulScalar(c2)).Mul(wsum)
}

func rgb(c [3]int32) wide.I32x4 {
	return wide.I32x4{c[0], c[1], c[2], 0}
}
