package jit

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/pixel"
	"github.com/gogpu/softgpu/internal/sampler"
	"github.com/gogpu/softgpu/internal/wide"
)

// recordHandler keeps every record at or above Debug.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}
func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func captureLogs(t *testing.T) *recordHandler {
	t.Helper()
	h := &recordHandler{}
	SetLogger(slog.New(h))
	t.Cleanup(func() { SetLogger(nil) })
	return h
}

func newState() *gstate.State {
	return &gstate.State{
		FramebufFormat: gstate.Format8888,
		Framebuf:       gstate.NewSurface(2, 2, 4),
		Depthbuf:       gstate.NewSurface(2, 2, 2),
		MaxZ:           0xFFFF,
		AlphaTestMask:  0xFF,
		StencilMask:    0xFF,
	}
}

// =============================================================================
// PixelCache
// =============================================================================

func TestPixelCache_CompilesOnce(t *testing.T) {
	logs := captureLogs(t)
	c := NewPixelCache(pixel.Options{})
	id := pixel.ComputeID(newState())

	for range 3 {
		if c.Get(id) == nil {
			t.Fatal("Get() returned nil")
		}
	}

	s := c.Stats()
	if s.Compiles != 1 || s.Hits != 2 || s.Len != 1 {
		t.Errorf("Stats() = %+v, want 1 compile, 2 hits, 1 entry", s)
	}
	if n := logs.count(slog.LevelDebug); n != 1 {
		t.Errorf("debug records = %d, want 1", n)
	}
}

func TestPixelCache_FailureFallsBackToReference(t *testing.T) {
	logs := captureLogs(t)
	c := NewPixelCache(pixel.Options{GenRegs: 2})

	st := newState()
	id := pixel.ComputeID(st)
	fn := c.Get(id)
	_ = c.Get(id)

	fn(1, 0, 0, 0, wide.I32x4{1, 2, 3, 4}, pixel.NewContext(id, st))
	if got := st.Framebuf.Get32(1, 0); got != 0x00030201 {
		t.Errorf("fallback pixel = %#08x, want 0x00030201", got)
	}

	s := c.Stats()
	if s.Compiles != 1 || s.Failures != 1 {
		t.Errorf("Stats() = %+v, want one failed compile", s)
	}
	if n := logs.count(slog.LevelWarn); n != 1 {
		t.Errorf("warn records = %d, want 1", n)
	}
}

func TestPixelCache_Clear(t *testing.T) {
	c := NewPixelCache(pixel.Options{})
	st := newState()
	_ = c.Get(pixel.ComputeID(st))
	st.DepthTestEnable = true
	_ = c.Get(pixel.ComputeID(st))

	if n := c.Stats().Len; n != 2 {
		t.Fatalf("Len = %d, want 2", n)
	}
	c.Clear()
	if n := c.Stats().Len; n != 0 {
		t.Errorf("Len after Clear = %d, want 0", n)
	}
}

// =============================================================================
// SamplerCache
// =============================================================================

func TestSamplerCache_Get(t *testing.T) {
	c := NewSamplerCache()
	id := sampler.ComputeID(&gstate.State{TextureFormat: gstate.Tex8888})

	f := c.Get(id)
	if f.Fetch == nil || f.Nearest == nil || f.Linear == nil {
		t.Fatalf("Get() = %+v, want all functions", f)
	}
	_ = c.Get(id)
	if s := c.Stats(); s.Compiles != 1 || s.Hits != 1 {
		t.Errorf("Stats() = %+v, want 1 compile, 1 hit", s)
	}
}

func TestSamplerCache_FailureUsesFallback(t *testing.T) {
	logs := captureLogs(t)
	c := NewSamplerCache()
	id := sampler.SamplerID{TexFormat: gstate.TextureFormat(40), TexFunc: gstate.TexFuncModulate}

	for range 2 {
		f := c.Get(id)
		got := f.Nearest(0.5, 0.5, 0, 0, wide.I32x4{255, 255, 255, 255}, 0, 0, &sampler.Context{})
		if got != (wide.I32x4{0, 0, 0, 255}) {
			t.Errorf("fallback sample = %v, want black with primitive alpha", got)
		}
	}
	if n := logs.count(slog.LevelWarn); n != 1 {
		t.Errorf("warn records = %d, want 1", n)
	}
}
