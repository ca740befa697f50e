package sampler

import "github.com/gogpu/softgpu/internal/wide"

// Texture coordinates are converted to 8.8 fixed point texels. The sample
// point is nudged by the sub-pixel offset of the pixel, which matches the
// texel selection of the hardware at pixel centers.
const subTexelBias = 12

// wrapFunc returns the addressing for one axis: clamp to the edge or
// repeat. size is a power of two.
func wrapFunc(clamp bool) func(c, size int) int {
	if clamp {
		return func(c, size int) int { return min(max(c, 0), size-1) }
	}
	return func(c, size int) int { return c & (size - 1) }
}

func fixed8(s float32, size int) int {
	return int(s * float32(size) * 256)
}

// hasNextLevel reports whether level+1 can be blended in.
func hasNextLevel(id SamplerID, ctx *Context, level, frac int) bool {
	return id.HasMips && frac > 0 && level+1 <= ctx.MaxLevel && ctx.Levels[level+1].Data != nil
}

// mipBlend mixes two levels by frac/16.
func mipBlend(c0, c1 wide.I32x4, frac int) wide.I32x4 {
	f := int32(frac) // #nosec G115 -- 4-bit fraction
	var out wide.I32x4
	for i := range out {
		out[i] = (c0[i]*(16-f) + c1[i]*f) >> 4
	}
	return out
}

func compileNearest(id SamplerID, fetch FetchFunc, apply texFunc, wrapU, wrapV func(c, size int) int) NearestFunc {
	sample := func(s, t float32, x, y, level int, ctx *Context) wide.I32x4 {
		lvl := &ctx.Levels[level]
		w, h := lvl.Width(), lvl.Height()
		u := wrapU((fixed8(s, w)+subTexelBias-x)>>8, w)
		v := wrapV((fixed8(t, h)+subTexelBias-y)>>8, h)
		return fetch(u, v, lvl.Data, lvl.Bufw, level, ctx)
	}

	return func(s, t float32, x, y int, prim wide.I32x4, level, frac int, ctx *Context) wide.I32x4 {
		c := sample(s, t, x, y, level, ctx)
		if hasNextLevel(id, ctx, level, frac) {
			c = mipBlend(c, sample(s, t, x, y, level+1, ctx), frac)
		}
		return apply(prim, c, ctx.EnvColor)
	}
}

func compileLinear(id SamplerID, fetch FetchFunc, apply texFunc, wrapU, wrapV func(c, size int) int) LinearFunc {
	sample := func(s, t float32, x, y, level int, ctx *Context) wide.I32x4 {
		lvl := &ctx.Levels[level]
		w, h := lvl.Width(), lvl.Height()

		// Sample between the four texels around the point, 128 being half
		// a texel in 8.8.
		bu := fixed8(s, w) + subTexelBias - x - 128
		bv := fixed8(t, h) + subTexelBias - y - 128
		fu := int32(bu >> 4 & 0xF) // #nosec G115 -- 4-bit fraction
		fv := int32(bv >> 4 & 0xF) // #nosec G115 -- 4-bit fraction
		u0, v0 := bu>>8, bv>>8
		u1, v1 := wrapU(u0+1, w), wrapV(v0+1, h)
		u0, v0 = wrapU(u0, w), wrapV(v0, h)

		c00 := fetch(u0, v0, lvl.Data, lvl.Bufw, level, ctx)
		c10 := fetch(u1, v0, lvl.Data, lvl.Bufw, level, ctx)
		c01 := fetch(u0, v1, lvl.Data, lvl.Bufw, level, ctx)
		c11 := fetch(u1, v1, lvl.Data, lvl.Bufw, level, ctx)

		var out wide.I32x4
		for i := range out {
			top := c00[i]*(16-fu) + c10[i]*fu
			bottom := c01[i]*(16-fu) + c11[i]*fu
			out[i] = (top*(16-fv) + bottom*fv) >> 8
		}
		return out
	}

	return func(s, t float32, x, y int, prim wide.I32x4, level, frac int, ctx *Context) wide.I32x4 {
		c := sample(s, t, x, y, level, ctx)
		if hasNextLevel(id, ctx, level, frac) {
			c = mipBlend(c, sample(s, t, x, y, level+1, ctx), frac)
		}
		return apply(prim, c, ctx.EnvColor)
	}
}
