package pixel

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/regalloc"
)

// compiler turns a PixelFuncID into a list of ops. Every stage asks the
// allocator for the registers it touches, so a configuration that needs
// more live values than the register files hold fails to compile.
type compiler struct {
	id  PixelFuncID
	ra  *regalloc.Allocator
	ops *[]op
}

// Compile generates the pixel function for id.
func Compile(id PixelFuncID, opts Options) (Func, error) {
	if !id.FBFormat.IsValid() {
		return nil, fmt.Errorf("%w: framebuffer format %d", ErrUnsupported, id.FBFormat)
	}

	c, p := newCompiler(id, opts)
	if err := c.setupArgs(p); err != nil {
		return nil, fmt.Errorf("pixel: compile %s: %w", id, err)
	}

	c.depthRange()
	c.clampColor()
	c.alphaTest()
	c.fog()
	c.colorTest()
	switch {
	case id.StencilTest && !id.ClearMode:
		c.stencilAndDepthTest()
	case !id.ClearMode:
		c.depthTest()
	}
	c.writeDepth()
	c.alphaBlend()
	c.dither()
	c.writeColor()

	if err := c.ra.Err(); err != nil {
		return nil, fmt.Errorf("pixel: compile %s: %w", id, err)
	}
	if err := c.ra.Reset(true); err != nil {
		return nil, fmt.Errorf("pixel: compile %s: %w", id, err)
	}
	return p.run, nil
}

func newCompiler(id PixelFuncID, opts Options) (*compiler, *program) {
	opts = opts.withDefaults()
	p := &program{}
	return &compiler{
		id:  id,
		ra:  regalloc.New(opts.GenRegs, opts.VecRegs),
		ops: &p.ops,
	}, p
}

// setupArgs binds the argument registers and records them in p.
func (c *compiler) setupArgs(p *program) error {
	c.ra.SetupABI(regalloc.GenArgX, regalloc.GenArgY, regalloc.GenArgZ, regalloc.GenArgFog, regalloc.VecArgColor)
	if err := c.ra.Err(); err != nil {
		return err
	}
	p.argX = c.argReg(regalloc.GenArgX)
	p.argY = c.argReg(regalloc.GenArgY)
	p.argZ = c.argReg(regalloc.GenArgZ)
	p.argFog = c.argReg(regalloc.GenArgFog)
	p.argColor = c.argReg(regalloc.VecArgColor)

	if !c.id.ApplyFog {
		c.ra.ForceRelease(regalloc.GenArgFog)
	}
	return nil
}

func (c *compiler) argReg(p regalloc.Purpose) regalloc.Reg {
	r := c.ra.Find(p)
	c.ra.Unlock(r, p)
	return r
}

func (c *compiler) emit(o op) {
	*c.ops = append(*c.ops, o)
}

// block compiles fn into a separate op list. It is used for paths that
// only run when a test fails.
func (c *compiler) block(fn func()) []op {
	var ops []op
	saved := c.ops
	c.ops = &ops
	fn()
	c.ops = saved
	return ops
}

// colorOff returns the framebuffer pixel index, computing it on first use.
func (c *compiler) colorOff() *regalloc.Handle {
	if !c.ra.Has(regalloc.GenColorOff) {
		if c.id.fusedOffsets() {
			c.fusedOffsets()
		} else {
			c.offset(regalloc.GenColorOff, func(m *machine) int32 {
				return int32(m.ctx.State.Framebuf.Stride) // #nosec G115 -- buffer stride
			})
		}
	}
	return c.ra.FindScoped(regalloc.GenColorOff)
}

// depthOff returns the depth buffer pixel index, computing it on first use.
func (c *compiler) depthOff() *regalloc.Handle {
	if !c.ra.Has(regalloc.GenDepthOff) {
		if c.id.fusedOffsets() {
			c.colorOff().Release()
		} else {
			c.offset(regalloc.GenDepthOff, func(m *machine) int32 {
				return int32(m.ctx.State.Depthbuf.Stride) // #nosec G115 -- buffer stride
			})
		}
	}
	return c.ra.FindScoped(regalloc.GenDepthOff)
}

// offset computes y*stride+x into a new register bound to p. The
// coordinates stay live for later stages.
func (c *compiler) offset(p regalloc.Purpose, stride func(m *machine) int32) {
	y := c.ra.FindScoped(regalloc.GenArgY)
	x := c.ra.FindScoped(regalloc.GenArgX)
	h := c.ra.Scoped(p)
	yr, xr, r := y.Reg, x.Reg, h.Reg
	c.emit(func(m *machine) bool {
		m.gen[r] = m.gen[yr]*stride(m) + m.gen[xr]
		return true
	})
	x.Release()
	y.Release()
	h.Keep()
}

// fusedOffsets computes the pixel index in place when nothing reads the
// coordinates afterwards. The y register becomes the color offset and the
// x register the depth offset, or is freed when depth is not touched.
func (c *compiler) fusedOffsets() {
	y := c.ra.FindScoped(regalloc.GenArgY)
	x := c.ra.FindScoped(regalloc.GenArgX)
	yr, xr := y.Reg, x.Reg
	c.emit(func(m *machine) bool {
		m.gen[yr] = m.gen[yr]*int32(m.ctx.State.Framebuf.Stride) + m.gen[xr] // #nosec G115 -- buffer stride
		return true
	})
	y.Release()
	c.ra.Change(regalloc.GenArgY, regalloc.GenColorOff)

	if c.id.needsDepthOff() {
		c.emit(func(m *machine) bool {
			m.gen[xr] = m.gen[yr]
			return true
		})
		x.Release()
		c.ra.Change(regalloc.GenArgX, regalloc.GenDepthOff)
		return
	}
	x.Release()
	c.ra.ForceRelease(regalloc.GenArgX)
}

// srcAlpha returns a register holding the clamped source alpha.
func (c *compiler) srcAlpha() *regalloc.Handle {
	if !c.ra.Has(regalloc.GenSrcAlpha) {
		h := c.ra.Scoped(regalloc.GenSrcAlpha)
		col := c.ra.FindScoped(regalloc.VecArgColor)
		ar, cr := h.Reg, col.Reg
		c.emit(func(m *machine) bool {
			m.gen[ar] = m.vec[cr][3]
			return true
		})
		col.Release()
		h.Keep()
	}
	return c.ra.FindScoped(regalloc.GenSrcAlpha)
}

// compareFunc returns the specialized comparison "a fn b".
func compareFunc(fn gputypes.CompareFunction) func(a, b int32) bool {
	switch fn {
	case gputypes.CompareFunctionNever:
		return func(a, b int32) bool { return false }
	case gputypes.CompareFunctionLess:
		return func(a, b int32) bool { return a < b }
	case gputypes.CompareFunctionEqual:
		return func(a, b int32) bool { return a == b }
	case gputypes.CompareFunctionLessEqual:
		return func(a, b int32) bool { return a <= b }
	case gputypes.CompareFunctionGreater:
		return func(a, b int32) bool { return a > b }
	case gputypes.CompareFunctionNotEqual:
		return func(a, b int32) bool { return a != b }
	case gputypes.CompareFunctionGreaterEqual:
		return func(a, b int32) bool { return a >= b }
	default:
		return func(a, b int32) bool { return true }
	}
}

func (c *compiler) depthRange() {
	if c.id.ApplyDepthRange {
		z := c.ra.FindScoped(regalloc.GenArgZ)
		maxReg := c.ra.Scoped(regalloc.GenTemp0)
		zr, mr := z.Reg, maxReg.Reg
		c.emit(func(m *machine) bool {
			st := m.ctx.State
			if m.gen[zr] < int32(st.MinZ) {
				return false
			}
			m.gen[mr] = int32(st.MaxZ)
			return m.gen[zr] <= m.gen[mr]
		})
		maxReg.Release()
		z.Release()
	}

	// Free z early when nothing later reads it.
	id := c.id
	if id.ClearMode && !id.DepthWrite {
		c.ra.ForceRelease(regalloc.GenArgZ)
	} else if !id.ClearMode && !id.DepthWrite && id.DepthTestFunc == gputypes.CompareFunctionAlways {
		c.ra.ForceRelease(regalloc.GenArgZ)
	}
}

func (c *compiler) clampColor() {
	col := c.ra.FindScoped(regalloc.VecArgColor)
	defer col.Release()
	cr := col.Reg
	c.emit(func(m *machine) bool {
		m.vec[cr] = m.vec[cr].Clamp8()
		return true
	})
}

func (c *compiler) alphaTest() {
	switch c.id.AlphaTestFunc {
	case gputypes.CompareFunctionNever:
		c.emit(discard)
		return
	case gputypes.CompareFunctionAlways:
		return
	}

	alpha := c.srcAlpha()
	defer alpha.Release()
	ar := alpha.Reg

	if c.id.HasAlphaTestMask {
		masked := c.ra.Scoped(regalloc.GenTemp0)
		defer masked.Release()
		mr, src := masked.Reg, ar
		c.emit(func(m *machine) bool {
			m.gen[mr] = m.gen[src] & int32(m.ctx.State.AlphaTestMask)
			return true
		})
		ar = mr
	}

	ref := int32(c.id.AlphaTestRef)
	test := compareFunc(c.id.AlphaTestFunc)
	c.emit(func(m *machine) bool {
		return test(m.gen[ar], ref)
	})
}

func (c *compiler) fog() {
	if !c.id.ApplyFog {
		return
	}
	fogColor := c.ra.Scoped(regalloc.VecTemp1)
	invert := c.ra.Scoped(regalloc.VecTemp2)
	col := c.ra.FindScoped(regalloc.VecArgColor)
	alpha := c.srcAlpha()
	mult := c.ra.Scoped(regalloc.VecTemp3)
	fogArg := c.ra.FindScoped(regalloc.GenArgFog)

	fcr, ir, cr, ar, mr, fr := fogColor.Reg, invert.Reg, col.Reg, alpha.Reg, mult.Reg, fogArg.Reg
	c.emit(func(m *machine) bool {
		m.vec[fcr] = unpackRGB(m.ctx.State.FogColor)
		m.vec[ir] = [4]int32{255, 255, 255, 255}
		f := m.gen[fr]
		m.vec[mr] = [4]int32{f, f, f, f}
		return true
	})
	fogArg.Release()
	c.ra.ForceRelease(regalloc.GenArgFog)

	c.emit(func(m *machine) bool {
		col, fc, inv, mult := &m.vec[cr], &m.vec[fcr], &m.vec[ir], &m.vec[mr]
		for i := range 3 {
			sum := uint32(col[i]*mult[i] + fc[i]*(inv[i]-mult[i])) // #nosec G115 -- at most 255*255
			// Multiply high by 0x8081, then 7 more bits.
			col[i] = int32(sum * 0x8081 >> 16 >> 7) // #nosec G115 -- at most 255
		}
		col[3] = m.gen[ar]
		return true
	})

	mult.Release()
	alpha.Release()
	col.Release()
	invert.Release()
	fogColor.Release()
}

func (c *compiler) colorTest() {
	if !c.id.ColorTest || c.id.ClearMode {
		return
	}
	fn := c.ra.Scoped(regalloc.GenTemp0)
	mask := c.ra.Scoped(regalloc.GenTemp1)
	ref := c.ra.Scoped(regalloc.GenTemp2)
	col := c.ra.FindScoped(regalloc.VecArgColor)
	defer func() {
		col.Release()
		ref.Release()
		mask.Release()
		fn.Release()
	}()

	fr, mr, rr, cr := fn.Reg, mask.Reg, ref.Reg, col.Reg
	c.emit(func(m *machine) bool {
		st := m.ctx.State
		m.gen[mr] = int32(st.ColorTestMask & 0x00FFFFFF)
		m.gen[rr] = int32(st.ColorTestRef&0x00FFFFFF) & m.gen[mr]
		m.gen[fr] = int32(m.vec[cr].PackRGBA() & 0x00FFFFFF)
		m.gen[mr] &= m.gen[fr]
		m.gen[fr] = int32(st.ColorTestFunc & 3)

		switch gstate.ColorTestFunc(m.gen[fr]) {
		case gstate.ColorTestNever:
			return false
		case gstate.ColorTestAlways:
			return true
		case gstate.ColorTestEqual:
			return m.gen[mr] == m.gen[rr]
		default:
			return m.gen[mr] != m.gen[rr]
		}
	})
}

func unpackRGB(c uint32) [4]int32 {
	return [4]int32{int32(c & 0xFF), int32(c >> 8 & 0xFF), int32(c >> 16 & 0xFF), 0}
}
