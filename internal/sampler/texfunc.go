package sampler

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// texFunc combines the primitive color with a texel.
type texFunc func(prim, tex, env wide.I32x4) wide.I32x4

// ApplyTextureFunc combines the primitive color with a texel using the
// texture function of id. env is the texture environment color used by
// the blend function. The result is clamped to 8 bits per channel.
//
// Products are biased by one on the primitive side and divided by 256,
// so a full primitive channel passes the texel through unchanged.
func ApplyTextureFunc(id SamplerID, prim, tex, env wide.I32x4) wide.I32x4 {
	var out wide.I32x4
	rgba := id.TextureAlpha
	double := int32(1)
	if id.ColorDoubling {
		double = 2
	}
	modAlpha := prim[3]
	if rgba {
		modAlpha = (prim[3] + 1) * tex[3] / 256
	}

	switch id.TexFunc {
	case gstate.TexFuncModulate:
		for i := range 3 {
			out[i] = (prim[i] + 1) * tex[i] * double / 256
		}
		out[3] = modAlpha
	case gstate.TexFuncDecal:
		if rgba {
			t := tex[3]
			for i := range 3 {
				out[i] = ((prim[i]+1)*(255-t) + (tex[i]+1)*t) * double / 256
			}
		} else {
			out = tex
		}
		out[3] = prim[3]
	case gstate.TexFuncBlend:
		for i := range 3 {
			out[i] = ((255-tex[i])*prim[i] + tex[i]*env[i] + 255) * double / 256
		}
		out[3] = modAlpha
	case gstate.TexFuncReplace:
		for i := range 3 {
			out[i] = tex[i] * double
		}
		out[3] = prim[3]
		if rgba {
			out[3] = tex[3]
		}
	default:
		for i := range 3 {
			out[i] = (prim[i] + tex[i]) * double
		}
		out[3] = modAlpha
	}
	return out.Clamp8()
}

// compileTexFunc specializes ApplyTextureFunc for id.
func compileTexFunc(id SamplerID) texFunc {
	rgba := id.TextureAlpha
	double := int32(1)
	if id.ColorDoubling {
		double = 2
	}
	alpha := func(prim, tex wide.I32x4) int32 { return prim[3] }
	if rgba {
		alpha = func(prim, tex wide.I32x4) int32 { return (prim[3] + 1) * tex[3] / 256 }
	}

	switch id.TexFunc {
	case gstate.TexFuncModulate:
		return func(prim, tex, _ wide.I32x4) wide.I32x4 {
			out := prim.Add(wide.SplatI32(1)).Mul(tex).MulScalar(double)
			for i := range 3 {
				out[i] /= 256
			}
			out[3] = alpha(prim, tex)
			return out.Clamp8()
		}
	case gstate.TexFuncDecal:
		if !rgba {
			return func(prim, tex, _ wide.I32x4) wide.I32x4 {
				return tex.WithAlpha(prim[3]).Clamp8()
			}
		}
		return func(prim, tex, _ wide.I32x4) wide.I32x4 {
			t := tex[3]
			one := wide.SplatI32(1)
			out := prim.Add(one).MulScalar(255 - t).Add(tex.Add(one).MulScalar(t)).MulScalar(double)
			for i := range 3 {
				out[i] /= 256
			}
			out[3] = prim[3]
			return out.Clamp8()
		}
	case gstate.TexFuncBlend:
		return func(prim, tex, env wide.I32x4) wide.I32x4 {
			out := wide.SplatI32(255).Sub(tex).Mul(prim).Add(tex.Mul(env)).Add(wide.SplatI32(255)).MulScalar(double)
			for i := range 3 {
				out[i] /= 256
			}
			out[3] = alpha(prim, tex)
			return out.Clamp8()
		}
	case gstate.TexFuncReplace:
		if rgba {
			return func(_, tex, _ wide.I32x4) wide.I32x4 {
				return tex.MulScalar(double).WithAlpha(tex[3]).Clamp8()
			}
		}
		return func(prim, tex, _ wide.I32x4) wide.I32x4 {
			return tex.MulScalar(double).WithAlpha(prim[3]).Clamp8()
		}
	default:
		return func(prim, tex, _ wide.I32x4) wide.I32x4 {
			out := prim.Add(tex).MulScalar(double)
			out[3] = alpha(prim, tex)
			return out.Clamp8()
		}
	}
}
