// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/jit"
	"github.com/gogpu/softgpu/internal/pixel"
	"github.com/gogpu/softgpu/internal/sampler"
)

// DebugFormat is the pixel layout of a DebugBuffer.
type DebugFormat uint8

const (
	// DebugFormat8 is one byte per pixel.
	DebugFormat8 DebugFormat = iota
	// DebugFormat8888 is four bytes per pixel in R, G, B, A order.
	DebugFormat8888
)

// DebugBuffer is a tightly packed copy of a buffer for inspection.
type DebugBuffer struct {
	Width, Height int
	Format        DebugFormat
	Data          []byte
}

// StencilBuffer copies the stencil values of the drawing region, 8 bits
// per pixel. Pixels outside the framebuffer read as 0.
func (r *Rasterizer) StencilBuffer(st *gstate.State) DebugBuffer {
	w := max(st.RegionX2-st.RegionX1+1, 0)
	h := max(st.RegionY2-st.RegionY1+1, 0)
	buf := DebugBuffer{Width: w, Height: h, Format: DebugFormat8, Data: make([]byte, w*h)}

	f := st.FramebufFormat
	fbw := st.Framebuf.Stride
	fbh := st.Framebuf.Rows(f.BytesPerPixel())
	for y := range h {
		fy := st.RegionY1 + y
		if fy < 0 || fy >= fbh {
			continue
		}
		for x := range w {
			fx := st.RegionX1 + x
			if fx < 0 || fx >= fbw {
				continue
			}
			buf.Data[y*w+x] = pixel.ReadStencil(f, st.Framebuf.Get(f, fx, fy))
		}
	}
	return buf
}

// Texture decodes one level of the bound texture to 8888.
func (r *Rasterizer) Texture(st *gstate.State, level int) (DebugBuffer, error) {
	if !st.TextureEnable {
		return DebugBuffer{}, ErrNoTexture
	}
	if level < 0 || level >= sampler.MaxLevels {
		return DebugBuffer{}, fmt.Errorf("%w: level %d", ErrNoTexture, level)
	}

	lvl, err := sampler.ResolveLevel(st, level)
	if err != nil {
		return DebugBuffer{}, fmt.Errorf("%w: %w", ErrInvalidTextureAddress, err)
	}

	id := sampler.ComputeID(st)
	fetch := r.samplers.Get(id).Fetch
	// Only the palette is read from ctx.
	ctx, err := sampler.NewContext(id, st)
	if err != nil {
		jit.Logger().Debug("raster: texture dump with unmapped levels", slog.Int("level", level), slog.Any("err", err))
	}

	w, h := lvl.Width(), lvl.Height()
	buf := DebugBuffer{Width: w, Height: h, Format: DebugFormat8888, Data: make([]byte, w*h*4)}
	for y := range h {
		for x := range w {
			c := fetch(x, y, lvl.Data, lvl.Bufw, level, ctx)
			binary.LittleEndian.PutUint32(buf.Data[(y*w+x)*4:], c.PackRGBA())
		}
	}
	return buf, nil
}
