package pixel

import (
	"errors"

	"github.com/gogpu/softgpu/internal/regalloc"
	"github.com/gogpu/softgpu/internal/wide"
)

// Func is a compiled pixel function. It runs the pipeline for one pixel
// and updates the framebuffer and depth buffer of ctx.State in place.
type Func func(x, y int, z uint16, fog uint8, color wide.I32x4, ctx *Context)

// MaxRegs is the largest register file a compiled function can use.
const MaxRegs = 16

const (
	// DefaultGenRegs is the default size of the general register file.
	DefaultGenRegs = 12

	// DefaultVecRegs is the default size of the vector register file.
	DefaultVecRegs = 8
)

// ErrUnsupported is returned for IDs that no code path can represent.
var ErrUnsupported = errors.New("pixel: unsupported configuration")

// Options configures the code generator.
type Options struct {
	// GenRegs and VecRegs size the register files. Zero selects the
	// default; values above MaxRegs are clamped.
	GenRegs int
	VecRegs int
}

func (o Options) withDefaults() Options {
	if o.GenRegs <= 0 {
		o.GenRegs = DefaultGenRegs
	}
	if o.VecRegs <= 0 {
		o.VecRegs = DefaultVecRegs
	}
	o.GenRegs = min(o.GenRegs, MaxRegs)
	o.VecRegs = min(o.VecRegs, MaxRegs)
	return o
}

// op is one step of a compiled function. Returning false discards the
// pixel: no later step runs.
type op func(m *machine) bool

// machine is the register state of one invocation.
type machine struct {
	gen [MaxRegs]int32
	vec [MaxRegs]wide.I32x4
	ctx *Context
}

// program is the result of a compilation.
type program struct {
	ops []op

	argX, argY, argZ, argFog regalloc.Reg
	argColor                 regalloc.Reg
}

func (p *program) run(x, y int, z uint16, fog uint8, color wide.I32x4, ctx *Context) {
	m := machine{ctx: ctx}
	m.gen[p.argX] = int32(x) // #nosec G115 -- framebuffer coordinates
	m.gen[p.argY] = int32(y) // #nosec G115 -- framebuffer coordinates
	m.gen[p.argZ] = int32(z)
	m.gen[p.argFog] = int32(fog)
	m.vec[p.argColor] = color
	runOps(&m, p.ops)
}

func runOps(m *machine, ops []op) bool {
	for _, o := range ops {
		if !o(m) {
			return false
		}
	}
	return true
}

func discard(*machine) bool {
	return false
}
