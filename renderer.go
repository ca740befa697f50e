package softgpu

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/cache"
	"github.com/gogpu/softgpu/internal/raster"
)

// Renderer draws primitives into the buffers described by a gstate.State.
//
// A Renderer owns a worker pool and the caches of compiled pixel and
// sampler functions. Draws are serialized: concurrent calls are safe but
// run one after another, each using the whole pool.
type Renderer struct {
	mu     sync.Mutex
	r      *raster.Rasterizer
	closed bool
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	Logger().Info("softgpu: renderer created",
		slog.Int("workers", workers),
		slog.String("filter", o.filter.String()))

	return &Renderer{
		r: raster.New(raster.Config{
			Workers:        workers,
			FilterOverride: o.filter,
			Pixel:          o.pixel,
		}),
	}
}

// CacheStats holds the counters of one function cache.
type CacheStats = cache.Stats

// Stats reports how many functions were compiled and reused.
type Stats struct {
	PixelFuncs CacheStats
	Samplers   CacheStats
}

// Stats returns the function cache counters.
func (r *Renderer) Stats() Stats {
	s := r.r.Stats()
	return Stats{PixelFuncs: s.PixelFuncs, Samplers: s.Samplers}
}

// ClearCodeCache discards every compiled function. Later draws compile
// again on first use.
func (r *Renderer) ClearCodeCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.r.ClearCodeCache()
}

// Close stops the worker pool. Draws after Close return ErrClosed.
// Close is idempotent.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.r.Close()
}

// begin locks the renderer for a draw and validates the state.
func (r *Renderer) begin(st *gstate.State) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if err := validate(st); err != nil {
		r.mu.Unlock()
		return err
	}
	return nil
}

func validate(st *gstate.State) error {
	if st == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidFramebuffer)
	}
	f := st.FramebufFormat
	if !f.IsValid() {
		return fmt.Errorf("%w: format %d", ErrInvalidFramebuffer, f)
	}
	if st.Framebuf.Rows(f.BytesPerPixel()) == 0 {
		return fmt.Errorf("%w: empty %s buffer", ErrInvalidFramebuffer, f)
	}
	return nil
}

// DrawTriangle draws a counter-clockwise triangle. Clockwise triangles are
// culled.
func (r *Renderer) DrawTriangle(st *gstate.State, v0, v1, v2 *gstate.Vertex) error {
	if err := r.begin(st); err != nil {
		return err
	}
	defer r.mu.Unlock()
	r.r.DrawTriangle(st, v0, v1, v2)
	return nil
}

// DrawLine draws a line from v0 up to, but not including, v1.
func (r *Renderer) DrawLine(st *gstate.State, v0, v1 *gstate.Vertex) error {
	if err := r.begin(st); err != nil {
		return err
	}
	defer r.mu.Unlock()
	r.r.DrawLine(st, v0, v1)
	return nil
}

// DrawPoint draws the pixel under v0.
func (r *Renderer) DrawPoint(st *gstate.State, v0 *gstate.Vertex) error {
	if err := r.begin(st); err != nil {
		return err
	}
	defer r.mu.Unlock()
	r.r.DrawPoint(st, v0)
	return nil
}

// DrawSprite draws the axis aligned rectangle between v0 and v1 with 1:1
// texture mapping.
func (r *Renderer) DrawSprite(st *gstate.State, v0, v1 *gstate.Vertex) error {
	if err := r.begin(st); err != nil {
		return err
	}
	defer r.mu.Unlock()
	r.r.DrawSprite(st, v0, v1)
	return nil
}

// ClearRectangle clears the rectangle between v0 and v1 to v1's color and
// depth, as selected by the clear flags of st.
func (r *Renderer) ClearRectangle(st *gstate.State, v0, v1 *gstate.Vertex) error {
	if err := r.begin(st); err != nil {
		return err
	}
	defer r.mu.Unlock()
	r.r.ClearRectangle(st, v0, v1)
	return nil
}

// Draw assembles verts into primitives of kind p and draws them. Strip
// triangles alternate their winding, so every other triangle is drawn
// with its last two vertices swapped. Trailing vertices that do not form
// a full primitive are ignored.
func (r *Renderer) Draw(st *gstate.State, p Primitive, verts []gstate.Vertex) error {
	if len(verts) < p.minVertices() {
		return fmt.Errorf("%w: %s needs %d, got %d", ErrVertexCount, p, p.minVertices(), len(verts))
	}
	if err := r.begin(st); err != nil {
		return err
	}
	defer r.mu.Unlock()

	v := func(i int) *gstate.Vertex { return &verts[i] }
	switch p {
	case Points:
		for i := range verts {
			r.r.DrawPoint(st, v(i))
		}
	case Lines:
		for i := 0; i+1 < len(verts); i += 2 {
			r.r.DrawLine(st, v(i), v(i+1))
		}
	case LineStrip:
		for i := 0; i+1 < len(verts); i++ {
			r.r.DrawLine(st, v(i), v(i+1))
		}
	case Triangles:
		for i := 0; i+2 < len(verts); i += 3 {
			r.r.DrawTriangle(st, v(i), v(i+1), v(i+2))
		}
	case TriangleStrip:
		for i := 0; i+2 < len(verts); i++ {
			if i&1 == 0 {
				r.r.DrawTriangle(st, v(i), v(i+1), v(i+2))
			} else {
				r.r.DrawTriangle(st, v(i), v(i+2), v(i+1))
			}
		}
	case TriangleFan:
		for i := 1; i+1 < len(verts); i++ {
			r.r.DrawTriangle(st, v(0), v(i), v(i+1))
		}
	case Rectangles:
		for i := 0; i+1 < len(verts); i += 2 {
			if st.ClearMode {
				r.r.ClearRectangle(st, v(i), v(i+1))
			} else {
				r.r.DrawSprite(st, v(i), v(i+1))
			}
		}
	default:
		return fmt.Errorf("softgpu: unknown primitive %s", p)
	}
	return nil
}
