package pixel

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// Reference runs the pixel pipeline for one pixel without compiling it.
// Compiled functions produce the same framebuffer and depth buffer
// contents for the same inputs; Reference is also the fallback for IDs
// that cannot be compiled.
func Reference(x, y int, z uint16, fog uint8, color wide.I32x4, ctx *Context) {
	id := &ctx.ID
	st := ctx.State
	f := id.FBFormat

	if id.ApplyDepthRange && (z < st.MinZ || z > st.MaxZ) {
		return
	}

	color = color.Clamp8()

	if !alphaTestPasses(id, st, color[3]) {
		return
	}
	if id.ApplyFog {
		color = applyFog(color, fog, st.FogColor)
	}
	if id.ColorTest && !colorTestPasses(st, color.PackRGBA()) {
		return
	}

	colorOff := y*st.Framebuf.Stride + x
	depthOff := y*st.Depthbuf.Stride + x

	var stencil uint8
	switch {
	case id.StencilTest && f == gstate.Format565:
		// Stencil reads as zero, so the test has a fixed result.
		if !Compare(id.StencilTestFunc, int32(id.StencilTestRef), 0) {
			return
		}
		if !Compare(id.DepthTestFunc, int32(z), int32(st.Depthbuf.Get16At(depthOff))) {
			return
		}
	case id.StencilTest:
		dst := st.Framebuf.GetAt(f, colorOff)
		stencil = ReadStencil(f, dst)
		masked := stencil
		if id.HasStencilTestMask {
			masked &= st.StencilMask
		}
		ref := stencilReplaceRef(id, st)
		if !Compare(id.StencilTestFunc, int32(id.StencilTestRef), int32(masked)) {
			stencil = ApplyStencilOp(f, id.SFail, stencil, ref)
			st.Framebuf.SetAt(f, colorOff, WriteStencil(f, dst, stencil, st.AlphaMask, id.ApplyColorWriteMask))
			return
		}
		if !Compare(id.DepthTestFunc, int32(z), int32(st.Depthbuf.Get16At(depthOff))) {
			stencil = ApplyStencilOp(f, id.ZFail, stencil, ref)
			st.Framebuf.SetAt(f, colorOff, WriteStencil(f, dst, stencil, st.AlphaMask, id.ApplyColorWriteMask))
			return
		}
		stencil = ApplyStencilOp(f, id.ZPass, stencil, ref)
	case !id.ClearMode:
		if !Compare(id.DepthTestFunc, int32(z), int32(st.Depthbuf.Get16At(depthOff))) {
			return
		}
	}

	if id.DepthWrite {
		st.Depthbuf.Set16At(depthOff, z)
	}

	if id.AlphaBlend {
		dst := wide.UnpackRGBA(FromFormat(f, st.Framebuf.GetAt(f, colorOff)))
		color = blend(id, st, color, dst)
	}

	if id.Dithering {
		d := ctx.Dither[(y&3)*4+x&3]
		color = color.Add(wide.I32x4{d, d, d, 0})
	}

	writeColor(ctx, colorOff, color.PackRGBA(), stencil)
}

// stencilReplaceRef returns the value stored by the replace operation. It
// is the unmasked reference, which is only in the ID when there is no mask.
func stencilReplaceRef(id *PixelFuncID, st *gstate.State) uint8 {
	if id.HasStencilTestMask {
		return st.StencilRef
	}
	return id.StencilTestRef
}

func alphaTestPasses(id *PixelFuncID, st *gstate.State, alpha int32) bool {
	switch id.AlphaTestFunc {
	case gputypes.CompareFunctionAlways:
		return true
	case gputypes.CompareFunctionNever:
		return false
	}
	if id.HasAlphaTestMask {
		alpha &= int32(st.AlphaTestMask)
	}
	return Compare(id.AlphaTestFunc, alpha, int32(id.AlphaTestRef))
}

// applyFog blends RGB toward the fog color. The division by 255 is the
// multiply by 0x8081 followed by a shift of 23.
func applyFog(c wide.I32x4, fog uint8, fogColor uint32) wide.I32x4 {
	fc := wide.UnpackRGBA(fogColor)
	f := uint32(fog)
	for i := range 3 {
		sum := uint32(c[i])*f + uint32(fc[i])*(255-f) // #nosec G115 -- clamped channels
		c[i] = int32(sum * 0x8081 >> 23)              // #nosec G115 -- at most 255
	}
	return c
}

func colorTestPasses(st *gstate.State, rgba uint32) bool {
	mask := st.ColorTestMask & 0x00FFFFFF
	ref := st.ColorTestRef & mask
	switch st.ColorTestFunc & 3 {
	case gstate.ColorTestNever:
		return false
	case gstate.ColorTestAlways:
		return true
	case gstate.ColorTestEqual:
		return rgba&mask == ref
	default:
		return rgba&mask != ref
	}
}

// blendMul weights a channel by a factor. It matches a multiply of both
// values at 11.4 fixed point with a half bit added, keeping the high half.
func blendMul(c, f int32) int32 {
	return (2*c + 1) * (2*f + 1) >> 10
}

// factorValue returns a blend factor per channel in [0, 510]. other is
// the opposite operand's color and fix the fixed color for this operand.
func factorValue(f BlendFactor, src, dst, other wide.I32x4, fix uint32) wide.I32x4 {
	switch f {
	case FactorOtherColor:
		return other
	case FactorInvOtherColor:
		return wide.SplatI32(255).Sub(other)
	case FactorSrcAlpha:
		return wide.SplatI32(src[3])
	case FactorInvSrcAlpha:
		return wide.SplatI32(255 - src[3])
	case FactorDstAlpha:
		return wide.SplatI32(dst[3])
	case FactorInvDstAlpha:
		return wide.SplatI32(255 - dst[3])
	case FactorDoubleSrcAlpha:
		return wide.SplatI32(2 * src[3])
	case FactorDoubleInvSrcAlpha:
		return wide.SplatI32(max(255-2*src[3], 0))
	case FactorDoubleDstAlpha:
		return wide.SplatI32(2 * dst[3])
	case FactorDoubleInvDstAlpha:
		return wide.SplatI32(max(255-2*dst[3], 0))
	case FactorZero:
		return wide.I32x4{}
	case FactorOne:
		return wide.SplatI32(255)
	default:
		return wide.UnpackRGBA(fix)
	}
}

func weigh(c wide.I32x4, f BlendFactor, factor wide.I32x4) wide.I32x4 {
	switch f {
	case FactorZero:
		return wide.I32x4{}
	case FactorOne:
		return c
	}
	var r wide.I32x4
	for i := range 3 {
		r[i] = blendMul(c[i], factor[i])
	}
	return r
}

// blend combines the source color with the framebuffer color. Alpha is
// left as the source alpha; the write stage replaces it.
func blend(id *PixelFuncID, st *gstate.State, src, dst wide.I32x4) wide.I32x4 {
	out := src
	if id.usesFactors() {
		sf := factorValue(id.BlendSrc, src, dst, dst, st.FixA)
		df := factorValue(id.BlendDst, src, dst, src, st.FixB)
		s := weigh(src, id.BlendSrc, sf)
		d := weigh(dst, id.BlendDst, df)
		for i := range 3 {
			switch id.BlendEq {
			case gstate.BlendSubtract:
				out[i] = max(s[i]-d[i], 0)
			case gstate.BlendReverseSubtract:
				out[i] = max(d[i]-s[i], 0)
			default:
				out[i] = s[i] + d[i]
			}
		}
		return out
	}
	for i := range 3 {
		switch id.BlendEq {
		case gstate.BlendMin:
			out[i] = min(src[i], dst[i])
		case gstate.BlendMax:
			out[i] = max(src[i], dst[i])
		default:
			out[i] = max(src[i]-dst[i], dst[i]-src[i])
		}
	}
	return out
}

// writeColor stores the final color and stencil bits.
func writeColor(ctx *Context, off int, c uint32, stencil uint8) {
	id := &ctx.ID
	st := ctx.State
	f := id.FBFormat
	fb := &st.Framebuf
	dst := fb.GetAt(f, off)

	if id.ClearMode && !id.ColorClear {
		if id.StencilClear && f != gstate.Format565 {
			fb.SetAt(f, off, WriteStencil(f, dst, uint8(c>>24), st.AlphaMask, id.ApplyColorWriteMask)) // #nosec G115 -- alpha byte
		}
		return
	}

	stencilFromTest := id.StencilTest && !id.ClearMode && f != gstate.Format565
	var v, sbits uint32
	if stencilFromTest {
		v = ToFormat(f, c, false)
		if f == gstate.Format8888 {
			v &= 0x00FFFFFF
		}
		sbits = StencilToPixel(f, stencil)
	} else {
		v = ToFormat(f, c, id.ClearMode && id.StencilClear)
	}

	switch {
	case id.ApplyLogicOp:
		v = mergeLogicOp(f, st.LogicOp, v, dst, sbits, stencilFromTest)
	case stencilFromTest:
		v |= sbits
	}

	keep := ctx.WriteMask
	fb.SetAt(f, off, dst&keep|v&^keep)
}
