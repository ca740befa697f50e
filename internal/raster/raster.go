package raster

import (
	"errors"
	"log/slog"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/cache"
	"github.com/gogpu/softgpu/internal/jit"
	"github.com/gogpu/softgpu/internal/parallel"
	"github.com/gogpu/softgpu/internal/pixel"
	"github.com/gogpu/softgpu/internal/sampler"
	"github.com/gogpu/softgpu/internal/wide"
)

var (
	// ErrNoTexture is returned by Texture when texturing is disabled or the
	// level does not exist.
	ErrNoTexture = errors.New("raster: no texture bound")

	// ErrInvalidTextureAddress is returned by Texture when the level does
	// not resolve in memory.
	ErrInvalidTextureAddress = errors.New("raster: invalid texture address")
)

const (
	// MinLinesPerThread is the smallest number of quad rows or columns a
	// triangle slice covers.
	MinLinesPerThread = 4

	// sliceThreshold is the quad count in both directions above which a
	// triangle is split across workers.
	sliceThreshold = 12

	// minRectLinesPerThread is the smallest number of pixel rows a
	// rectangle slice covers.
	minRectLinesPerThread = 32
)

// Config configures a Rasterizer.
type Config struct {
	// Workers is the number of worker goroutines. Zero uses GOMAXPROCS.
	Workers int

	// FilterOverride forces nearest or linear texture filtering.
	FilterOverride gstate.FilterOverride

	// Pixel configures the pixel function compiler.
	Pixel pixel.Options
}

// Rasterizer walks primitives and runs the compiled pixel and sampler
// functions for every covered pixel.
//
// Draw methods may be called from one goroutine at a time. Each draw
// resolves its functions before any work is handed to the worker pool.
type Rasterizer struct {
	pool     *parallel.WorkerPool
	pixels   *jit.PixelCache
	samplers *jit.SamplerCache
	filter   gstate.FilterOverride
}

// New creates a rasterizer with its own worker pool and function caches.
func New(cfg Config) *Rasterizer {
	return &Rasterizer{
		pool:     parallel.NewWorkerPool(cfg.Workers),
		pixels:   jit.NewPixelCache(cfg.Pixel),
		samplers: jit.NewSamplerCache(),
		filter:   cfg.FilterOverride,
	}
}

// Close stops the worker pool. Draws after Close run on the calling
// goroutine.
func (r *Rasterizer) Close() {
	r.pool.Close()
}

// ClearCodeCache discards every compiled pixel and sampler function.
func (r *Rasterizer) ClearCodeCache() {
	r.pixels.Clear()
	r.samplers.Clear()
}

// Stats reports the function cache counters.
type Stats struct {
	PixelFuncs cache.Stats
	Samplers   cache.Stats
}

// Stats returns the function cache counters.
func (r *Rasterizer) Stats() Stats {
	return Stats{
		PixelFuncs: r.pixels.Stats(),
		Samplers:   r.samplers.Stats(),
	}
}

// binding is everything a draw resolves on the calling goroutine before it
// fans out. Workers only read it.
type binding struct {
	st        *gstate.State
	clearMode bool

	drawPixel pixel.Func
	pctx      *pixel.Context

	texturing bool
	sample    sampler.Funcs
	sctx      *sampler.Context
	maxLevel  int
	filter    gstate.FilterOverride
}

func (r *Rasterizer) bind(st *gstate.State) *binding {
	id := pixel.ComputeID(st)
	b := &binding{
		st:        st,
		clearMode: st.ClearMode,
		drawPixel: r.pixels.Get(id),
		pctx:      pixel.NewContext(id, st),
		filter:    r.filter,
	}
	if !st.TextureEnable || st.ClearMode {
		return b
	}

	sid := sampler.ComputeID(st)
	ctx, err := sampler.NewContext(sid, st)
	if err != nil {
		jit.Logger().Debug("raster: texture level not mapped, sampling transparent", slog.Any("err", err))
	}
	b.texturing = true
	b.sample = r.samplers.Get(sid)
	b.sctx = ctx
	b.maxLevel = ctx.MaxLevel
	return b
}

// sampleTexel runs the nearest or linear sampler for one pixel.
func (b *binding) sampleTexel(s, t float32, x, y int, prim wide.I32x4, level, frac int, linear bool) wide.I32x4 {
	if linear {
		return b.sample.Linear(s, t, x, y, prim, level, frac, b.sctx)
	}
	return b.sample.Nearest(s, t, x, y, prim, level, frac, b.sctx)
}

// subpixel converts the 4 fractional bits of a screen coordinate to the
// sampler's half-pixel offset.
func subpixel(c int) int {
	return ((c & 15) + 1) / 2
}

// clipRect returns the scissor rectangle in drawing coordinates, limited
// to the color buffer and, when one is attached, the depth buffer.
func clipRect(st *gstate.State) (x1, y1, x2, y2 int) {
	x1, y1 = max(st.ScissorX1, 0), max(st.ScissorY1, 0)
	x2 = min(st.ScissorX2, st.Framebuf.Stride-1)
	y2 = min(st.ScissorY2, st.Framebuf.Rows(st.FramebufFormat.BytesPerPixel())-1)
	if len(st.Depthbuf.Data) > 0 {
		x2 = min(x2, st.Depthbuf.Stride-1)
		y2 = min(y2, st.Depthbuf.Rows(2)-1)
	}
	return x1, y1, x2, y2
}

// screenScissor returns clipRect in screen coordinates. The bottom right
// corner is the start of the last pixel.
func screenScissor(st *gstate.State) (x1, y1, x2, y2 int) {
	dx1, dy1, dx2, dy2 := clipRect(st)
	x1, y1 = st.DrawingToScreen(dx1, dy1)
	x2, y2 = st.DrawingToScreen(dx2, dy2)
	return x1, y1, x2, y2
}
