// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/pixel"
	"github.com/gogpu/softgpu/internal/wide"
)

// ClearRectangle fills the rectangle spanned by v0 and v1 in clear mode.
// Depth is set to v1's depth when the state clears depth. Color and
// stencil take v1's color, except for bits kept by the clear flags and
// the write masks.
//
// Both corners are rounded out to whole pixels and clipped to the
// scissor.
func (r *Rasterizer) ClearRectangle(st *gstate.State, v0, v1 *gstate.Vertex) {
	minX := min(v0.X, v1.X) &^ 0xF
	minY := min(v0.Y, v1.Y) &^ 0xF
	maxX := (max(v0.X, v1.X) + 0xF) &^ 0xF
	maxY := (max(v0.Y, v1.Y) + 0xF) &^ 0xF

	tlx, tly, brx, bry := screenScissor(st)
	minX, minY = max(minX, tlx), max(minY, tly)
	maxX = max(0, min(maxX, brx+16))
	maxY = max(0, min(maxY, bry+16))

	x0, y0 := st.ScreenToDrawing(minX, minY)
	_, y1 := st.ScreenToDrawing(maxX, maxY)
	w := (maxX - minX) / 16
	if w <= 0 || y1 <= y0 {
		return
	}

	if st.ClearDepth && len(st.Depthbuf.Data) > 0 {
		z := v1.Z
		r.pool.ParallelRange(y0, y1, minRectLinesPerThread, func(lo, hi int) {
			for y := lo; y < hi; y++ {
				for x := range w {
					st.Depthbuf.Set16(x0+x, y, z)
				}
			}
		})
	}

	keep := uint32(0xFFFFFFFF)
	if st.ClearColor {
		keep &= 0xFF000000
	}
	if st.ClearStencil {
		keep &= 0x00FFFFFF
	}
	keep |= st.ColorWriteMask()

	f := st.FramebufFormat
	color := wide.I32x4(v1.Color0).PackRGBA()
	if f != gstate.Format8888 {
		color = pixel.ToFormat(f, color, true)
		if keep != 0 {
			keep = 0xFFFF0000 | pixel.ToFormat(f, keep, true)
		}
	}
	if keep == 0xFFFFFFFF {
		return
	}

	fb := &st.Framebuf
	r.pool.ParallelRange(y0, y1, minRectLinesPerThread, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			row := y * fb.Stride
			for x := range w {
				i := row + x0 + x
				fb.SetAt(f, i, fb.GetAt(f, i)&keep|color&^keep)
			}
		}
	})
}

// DrawSprite draws the axis aligned rectangle from v0 to v1 in v1's
// color. The end pixel is included when v1 is past its center.
//
// Textured sprites map texels 1:1 from v0's texture coordinate, stepping
// backwards when v1's coordinate is smaller, and sample level 0 without
// filtering.
func (r *Rasterizer) DrawSprite(st *gstate.State, v0, v1 *gstate.Vertex) {
	b := r.bind(st)

	x0, y0 := st.ScreenToDrawing(v0.X, v0.Y)
	x1, y1 := st.ScreenToDrawing(v1.X+7, v1.Y+7)
	sx1, sy1, sx2, sy2 := clipRect(st)
	z := v0.Z
	color := wide.I32x4(v1.Color0)

	x1, y1 = min(x1, sx2+1), min(y1, sy2+1)
	if !b.texturing {
		x0, y0 = max(x0, sx1), max(y0, sy1)
		if x1 <= x0 || y1 <= y0 {
			return
		}
		r.pool.ParallelRange(y0, y1, minRectLinesPerThread, func(lo, hi int) {
			for y := lo; y < hi; y++ {
				for x := x0; x < x1; x++ {
					b.drawPixel(x, y, z, 255, color, b.pctx)
				}
			}
		})
		return
	}

	sStart, tStart := int(v0.TexCoord[0]), int(v0.TexCoord[1])
	ds, dt := 1, 1
	if v1.TexCoord[0] <= v0.TexCoord[0] {
		ds = -1
		sStart--
	}
	if v1.TexCoord[1] <= v0.TexCoord[1] {
		dt = -1
		tStart--
	}
	if x0 < sx1 {
		sStart += (sx1 - x0) * ds
		x0 = sx1
	}
	if y0 < sy1 {
		tStart += (sy1 - y0) * dt
		y0 = sy1
	}
	if x1 <= x0 || y1 <= y0 {
		return
	}

	xoff, yoff := subpixel(v0.X), subpixel(v0.Y)
	dsf := float32(ds) / float32(st.TextureWidth(0))
	dtf := float32(dt) / float32(st.TextureHeight(0))
	sf := float32(sStart) / float32(st.TextureWidth(0))
	tf := float32(tStart) / float32(st.TextureHeight(0))

	r.pool.ParallelRange(y0, y1, minRectLinesPerThread, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			t := tf + float32(y-y0)*dtf
			for x := x0; x < x1; x++ {
				s := sf + float32(x-x0)*dsf
				c := b.sample.Nearest(s, t, xoff, yoff, color, 0, 0, b.sctx)
				b.drawPixel(x, y, z, 255, c, b.pctx)
			}
		}
	})
}
