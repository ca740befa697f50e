// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// DrawPoint draws the pixel under v0 if it is inside the scissor.
func (r *Rasterizer) DrawPoint(st *gstate.State, v0 *gstate.Vertex) {
	tlx, tly, brx, bry := screenScissor(st)
	if v0.X < tlx || v0.Y < tly || v0.X > brx+15 || v0.Y > bry+15 {
		return
	}

	b := r.bind(st)
	prim := wide.I32x4(v0.Color0)
	if b.texturing {
		// A single vertex needs no perspective division.
		s, t := v0.TexCoord[0], v0.TexCoord[1]
		if st.ThroughMode {
			s /= float32(st.TextureWidth(0))
			t /= float32(st.TextureHeight(0))
		}
		level, frac, linear := b.samplingParams(0, 0)
		prim = b.sampleTexel(s, t, subpixel(v0.X), subpixel(v0.Y), prim, level, frac, linear)
	}
	if !b.clearMode {
		prim = prim.Add(rgb(v0.Color1))
	}

	fog := uint8(255)
	if st.FogEnable && !b.clearMode {
		fog = ClampFogDepth(v0.FogDepth)
	}

	x, y := st.ScreenToDrawing(v0.X, v0.Y)
	b.drawPixel(x, y, v0.Z, fog, prim, b.pctx)
}

// DrawLine steps along the dominant axis one pixel at a time from v0
// towards v1. The end point itself is not drawn.
//
// Colors interpolate in integer steps when Gouraud shading is on and come
// from v1 otherwise. Every pixel takes v0's depth.
func (r *Rasterizer) DrawLine(st *gstate.State, v0, v1 *gstate.Vertex) {
	dx, dy := v1.X-v0.X, v1.Y-v0.Y

	steps := abs(dx) / 16
	if abs(dx) < abs(dy) {
		steps = abs(dy) / 16
	}
	if steps == 0 {
		return
	}

	// Lines rarely start at a pixel center, so stop just short of the
	// last pixel when walking backwards.
	if dx < 0 && dx >= -16 {
		dx++
	}
	if dy < 0 && dy >= -16 {
		dy++
	}

	xinc := float64(dx) / float64(steps)
	yinc := float64(dy) / float64(steps)

	tlx, tly, brx, bry := screenScissor(st)
	brx += 15
	bry += 15

	l := &line{b: r.bind(st), v0: v0, v1: v1, steps: steps, xinc: xinc, yinc: yinc}

	x, y := float64(v0.X), float64(v0.Y)
	if v0.X > v1.X {
		x--
	}
	if v0.Y > v1.Y {
		y--
	}
	for i := range steps {
		if x >= float64(tlx) && y >= float64(tly) && x <= float64(brx) && y <= float64(bry) {
			l.drawStep(i, int(x), int(y), v0.Z)
		}
		x += xinc
		y += yinc
	}
}

type line struct {
	b          *binding
	v0, v1     *gstate.Vertex
	steps      int
	xinc, yinc float64
}

func (l *line) drawStep(i, x, y int, z uint16) {
	b, st := l.b, l.b.st
	v0, v1 := l.v0, l.v1
	n := int32(l.steps)              // #nosec G115 -- bounded by the screen size
	k := int32(i)                    // #nosec G115 -- bounded by the screen size
	nf, kf := float32(n), float32(k)

	var prim, sec wide.I32x4
	if st.ShadeGouraud {
		prim = wide.I32x4(v0.Color0).MulScalar(n - k).Add(wide.I32x4(v1.Color0).MulScalar(k))
		sec = rgb(v0.Color1).MulScalar(n - k).Add(rgb(v1.Color1).MulScalar(k))
		for c := range prim {
			prim[c] /= n
			sec[c] /= n
		}
	} else {
		prim = wide.I32x4(v1.Color0)
		sec = rgb(v1.Color1)
	}

	fog := uint8(255)
	if st.FogEnable && !b.clearMode {
		fog = ClampFogDepth((v0.FogDepth*(nf-kf) + v1.FogDepth*kf) / nf)
	}

	if st.AntiAlias {
		prim[3] = 0x7F
	}

	if b.texturing {
		var s, t, s1, t1 float32
		if st.ThroughMode {
			w, h := float32(st.TextureWidth(0)), float32(st.TextureHeight(0))
			s = (v0.TexCoord[0]*(nf-kf) + v1.TexCoord[0]*kf) / nf / w
			t = (v0.TexCoord[1]*(nf-kf) + v1.TexCoord[1]*kf) / nf / h
			s1 = (v0.TexCoord[0]*(nf-kf-1) + v1.TexCoord[0]*(kf+1)) / nf / w
			t1 = (v0.TexCoord[1]*(nf-kf-1) + v1.TexCoord[1]*(kf+1)) / nf / h
		} else {
			s, t = perspectiveTexCoords(v0, v1, (nf-kf)/nf)
			s1, t1 = perspectiveTexCoords(v0, v1, (nf-kf-1)/nf)
		}

		// The deltas are per pixel, the increments per 16 subpixels.
		var ds, dt float32
		if l.xinc != 0 {
			ds = (s1 - s) * 16 / float32(l.xinc)
		}
		if l.yinc != 0 {
			dt = (t1 - t) * 16 / float32(l.yinc)
		}
		level, frac, linear := b.samplingParams(ds, dt)
		prim = b.sampleTexel(s, t, subpixel(x), subpixel(y), prim, level, frac, linear)
	}

	if !b.clearMode {
		prim = prim.Add(sec)
	}

	px, py := st.ScreenToDrawing(x, y)
	b.drawPixel(px, py, z, fog, prim, b.pctx)
}

// perspectiveTexCoords blends the texture coordinates of two vertices,
// weighting v0 by p, with perspective correction.
func perspectiveTexCoords(v0, v1 *gstate.Vertex, p float32) (s, t float32) {
	wq0 := p / v0.ClipW
	wq1 := (1 - p) / v1.ClipW
	qRecip := 1 / (wq0 + wq1)
	s = (v0.TexCoord[0]*wq0 + v1.TexCoord[0]*wq1) * qRecip
	t = (v0.TexCoord[1]*wq0 + v1.TexCoord[1]*wq1) * qRecip
	return s, t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
