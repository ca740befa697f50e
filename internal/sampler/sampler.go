package sampler

import (
	"errors"

	"github.com/gogpu/softgpu/internal/wide"
)

// ErrUnsupported is returned for IDs whose formats cannot be decoded.
var ErrUnsupported = errors.New("sampler: unsupported configuration")

// NearestFunc samples the texture at (s, t) without filtering and applies
// the texture function to prim. s and t are normalized coordinates; x and
// y are the sub-pixel offsets of the sample in 1/16 texel. When frac is
// non-zero, level+1 is sampled too and blended in by frac/16.
type NearestFunc func(s, t float32, x, y int, prim wide.I32x4, level, frac int, ctx *Context) wide.I32x4

// LinearFunc is NearestFunc with bilinear filtering of a 2x2 texel
// neighborhood using 4-bit weights.
type LinearFunc func(s, t float32, x, y int, prim wide.I32x4, level, frac int, ctx *Context) wide.I32x4

// Funcs is the set of sampler functions compiled for one ID.
type Funcs struct {
	Fetch   FetchFunc
	Nearest NearestFunc
	Linear  LinearFunc
}

// Compile specializes the sampler functions for id.
func Compile(id SamplerID) (Funcs, error) {
	fetch, err := CompileFetch(id)
	if err != nil {
		return Funcs{}, err
	}
	apply := compileTexFunc(id)
	wrapU, wrapV := wrapFunc(id.ClampS), wrapFunc(id.ClampT)
	return Funcs{
		Fetch:   fetch,
		Nearest: compileNearest(id, fetch, apply, wrapU, wrapV),
		Linear:  compileLinear(id, fetch, apply, wrapU, wrapV),
	}, nil
}

// Fallback returns sampler functions for IDs that fail to compile. Every
// texel decodes as transparent black; the texture function still runs.
func Fallback(id SamplerID) Funcs {
	fetch := func(int, int, []byte, int, int, *Context) wide.I32x4 { return wide.I32x4{} }
	apply := func(prim, tex, env wide.I32x4) wide.I32x4 { return ApplyTextureFunc(id, prim, tex, env) }
	wrapU, wrapV := wrapFunc(id.ClampS), wrapFunc(id.ClampT)
	return Funcs{
		Fetch:   fetch,
		Nearest: compileNearest(id, fetch, apply, wrapU, wrapV),
		Linear:  compileLinear(id, fetch, apply, wrapU, wrapV),
	}
}
