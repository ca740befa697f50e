// Package jit binds the pixel and sampler compilers to compile-once caches.
//
// Every fingerprint is compiled the first time a draw needs it. When a
// fingerprint cannot be compiled the failure is logged once and the
// caches hand out portable functions instead: pixel.Reference for pixel
// functions, sampler.Fallback for samplers. Draws never fail because a
// function could not be generated.
package jit

import (
	"log/slog"
	"time"

	"github.com/gogpu/softgpu/internal/cache"
	"github.com/gogpu/softgpu/internal/pixel"
	"github.com/gogpu/softgpu/internal/sampler"
)

// PixelCache caches compiled pixel functions by fingerprint.
type PixelCache struct {
	opts  pixel.Options
	funcs *cache.Cache[pixel.PixelFuncID, pixel.Func]
}

// NewPixelCache creates an empty cache that compiles with opts.
func NewPixelCache(opts pixel.Options) *PixelCache {
	return &PixelCache{
		opts:  opts,
		funcs: cache.New[pixel.PixelFuncID, pixel.Func](),
	}
}

// Get returns the pixel function for id, compiling it on first use.
func (c *PixelCache) Get(id pixel.PixelFuncID) pixel.Func {
	fn, err := c.funcs.GetOrCompile(id, func() (pixel.Func, error) {
		start := time.Now()
		fn, err := pixel.Compile(id, c.opts)
		if err != nil {
			Logger().Warn("jit: pixel function failed to compile, using reference pipeline",
				slog.String("id", id.String()), slog.Any("err", err))
			return nil, err
		}
		Logger().Debug("jit: compiled pixel function",
			slog.String("id", id.String()), slog.Duration("elapsed", time.Since(start)))
		return fn, nil
	})
	if err != nil {
		return pixel.Reference
	}
	return fn
}

// Clear drops every compiled function.
func (c *PixelCache) Clear() { c.funcs.Clear() }

// Stats returns the cache counters.
func (c *PixelCache) Stats() cache.Stats { return c.funcs.Stats() }

// SamplerCache caches compiled sampler functions by fingerprint.
type SamplerCache struct {
	funcs *cache.Cache[sampler.SamplerID, sampler.Funcs]
}

// NewSamplerCache creates an empty cache.
func NewSamplerCache() *SamplerCache {
	return &SamplerCache{
		funcs: cache.New[sampler.SamplerID, sampler.Funcs](),
	}
}

// Get returns the sampler functions for id, compiling them on first use.
func (c *SamplerCache) Get(id sampler.SamplerID) sampler.Funcs {
	funcs, err := c.funcs.GetOrCompile(id, func() (sampler.Funcs, error) {
		start := time.Now()
		funcs, err := sampler.Compile(id)
		if err != nil {
			Logger().Warn("jit: sampler failed to compile, texels read as transparent",
				slog.String("id", id.String()), slog.Any("err", err))
			return sampler.Funcs{}, err
		}
		Logger().Debug("jit: compiled sampler",
			slog.String("id", id.String()), slog.Duration("elapsed", time.Since(start)))
		return funcs, nil
	})
	if err != nil {
		return sampler.Fallback(id)
	}
	return funcs
}

// Clear drops every compiled sampler.
func (c *SamplerCache) Clear() { c.funcs.Clear() }

// Stats returns the cache counters.
func (c *SamplerCache) Stats() cache.Stats { return c.funcs.Stats() }
