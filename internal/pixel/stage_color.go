package pixel

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/regalloc"
	"github.com/gogpu/softgpu/internal/wide"
)

// Blend multiplies run at 11.4 fixed point: both operands are shifted up
// by four and given a half bit, and the high half of the product is kept.
const blendHalf = 8

func (c *compiler) alphaBlend() {
	id := c.id
	if !id.AlphaBlend {
		return
	}
	f := id.FBFormat

	off := c.colorOff()
	dst := c.ra.Scoped(regalloc.VecTemp0)
	or, dr := off.Reg, dst.Reg
	c.emit(func(m *machine) bool {
		px := m.ctx.State.Framebuf.GetAt(f, int(m.gen[or]))
		m.vec[dr] = wide.UnpackRGBA(FromFormat(f, px))
		return true
	})
	off.Release()

	col := c.ra.FindScoped(regalloc.VecArgColor)
	cr := col.Reg
	defer func() {
		col.Release()
		dst.Release()
	}()

	if !id.usesFactors() {
		c.emit(minMaxOp(id.BlendEq, cr, dr))
		return
	}

	srcFactor := c.ra.Scoped(regalloc.VecTemp1)
	dstFactor := c.ra.Scoped(regalloc.VecTemp2)
	half := c.ra.Scoped(regalloc.VecTemp3)
	defer func() {
		half.Release()
		dstFactor.Release()
		srcFactor.Release()
	}()
	sfr, dfr, hr := srcFactor.Reg, dstFactor.Reg, half.Reg

	ar := regalloc.InvalidReg
	if needsSrcAlpha(id.BlendSrc) || needsSrcAlpha(id.BlendDst) {
		alpha := c.srcAlpha()
		defer alpha.Release()
		ar = alpha.Reg
	}

	c.emit(func(m *machine) bool {
		m.vec[hr] = wide.SplatI32(blendHalf)
		return true
	})
	if op := c.factorOp(id.BlendSrc, sfr, dr, ar, dr, false); op != nil {
		c.emit(op)
	}
	if op := c.factorOp(id.BlendDst, dfr, dr, ar, cr, true); op != nil {
		c.emit(op)
	}

	srcW := weighOp(id.BlendSrc, cr, sfr, hr)
	dstW := weighOp(id.BlendDst, dr, dfr, hr)
	switch id.BlendEq {
	case gstate.BlendSubtract:
		zero := c.zeroVec()
		defer zero.Release()
		zr := zero.Reg
		c.emit(func(m *machine) bool {
			col := &m.vec[cr]
			for i := range 3 {
				col[i] = max(srcW(m, i)-dstW(m, i), m.vec[zr][i])
			}
			return true
		})
	case gstate.BlendReverseSubtract:
		zero := c.zeroVec()
		defer zero.Release()
		zr := zero.Reg
		c.emit(func(m *machine) bool {
			col := &m.vec[cr]
			for i := range 3 {
				col[i] = max(dstW(m, i)-srcW(m, i), m.vec[zr][i])
			}
			return true
		})
	default:
		c.emit(func(m *machine) bool {
			col := &m.vec[cr]
			for i := range 3 {
				col[i] = srcW(m, i) + dstW(m, i)
			}
			return true
		})
	}
}

// zeroVec returns a vector register cleared to zero, clearing it on first
// use.
func (c *compiler) zeroVec() *regalloc.Handle {
	if !c.ra.Has(regalloc.VecZero) {
		h := c.ra.Scoped(regalloc.VecZero)
		zr := h.Reg
		c.emit(func(m *machine) bool {
			m.vec[zr] = wide.I32x4{}
			return true
		})
		h.Keep()
	}
	return c.ra.FindScoped(regalloc.VecZero)
}

func needsSrcAlpha(f BlendFactor) bool {
	switch f {
	case FactorSrcAlpha, FactorInvSrcAlpha, FactorDoubleSrcAlpha, FactorDoubleInvSrcAlpha:
		return true
	}
	return false
}

// factorOp returns the op that loads a blend factor into fr, or nil when
// the factor needs no register. dr holds the framebuffer color, ar the
// source alpha and other the opposite operand.
func (c *compiler) factorOp(f BlendFactor, fr, dr, ar, other regalloc.Reg, useFixB bool) op {
	switch f {
	case FactorZero, FactorOne:
		return nil
	case FactorOtherColor:
		return func(m *machine) bool {
			m.vec[fr] = m.vec[other]
			return true
		}
	case FactorInvOtherColor:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(255).Sub(m.vec[other])
			return true
		}
	case FactorSrcAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(m.gen[ar])
			return true
		}
	case FactorInvSrcAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(255 - m.gen[ar])
			return true
		}
	case FactorDstAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(m.vec[dr][3])
			return true
		}
	case FactorInvDstAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(255 - m.vec[dr][3])
			return true
		}
	case FactorDoubleSrcAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(m.gen[ar] << 1)
			return true
		}
	case FactorDoubleInvSrcAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(max(255-m.gen[ar]<<1, 0))
			return true
		}
	case FactorDoubleDstAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(m.vec[dr][3] << 1)
			return true
		}
	case FactorDoubleInvDstAlpha:
		return func(m *machine) bool {
			m.vec[fr] = wide.SplatI32(max(255-m.vec[dr][3]<<1, 0))
			return true
		}
	default:
		if useFixB {
			return func(m *machine) bool {
				m.vec[fr] = wide.UnpackRGBA(m.ctx.State.FixB)
				return true
			}
		}
		return func(m *machine) bool {
			m.vec[fr] = wide.UnpackRGBA(m.ctx.State.FixA)
			return true
		}
	}
}

// weighOp returns the weighted lane i of the color in vr.
func weighOp(f BlendFactor, vr, fr, hr regalloc.Reg) func(m *machine, i int) int32 {
	switch f {
	case FactorZero:
		return func(*machine, int) int32 { return 0 }
	case FactorOne:
		return func(m *machine, i int) int32 { return m.vec[vr][i] }
	default:
		return func(m *machine, i int) int32 {
			h := m.vec[hr][i]
			return (m.vec[vr][i]<<4 | h) * (m.vec[fr][i]<<4 | h) >> 16
		}
	}
}

func minMaxOp(eq gstate.BlendEquation, cr, dr regalloc.Reg) op {
	switch eq {
	case gstate.BlendMin:
		return func(m *machine) bool {
			col, dst := &m.vec[cr], &m.vec[dr]
			for i := range 3 {
				col[i] = min(col[i], dst[i])
			}
			return true
		}
	case gstate.BlendMax:
		return func(m *machine) bool {
			col, dst := &m.vec[cr], &m.vec[dr]
			for i := range 3 {
				col[i] = max(col[i], dst[i])
			}
			return true
		}
	default:
		return func(m *machine) bool {
			col, dst := &m.vec[cr], &m.vec[dr]
			for i := range 3 {
				col[i] = max(col[i]-dst[i], dst[i]-col[i])
			}
			return true
		}
	}
}

func (c *compiler) dither() {
	if !c.id.Dithering {
		return
	}
	// The write stage still needs the pixel index once x and y are gone.
	c.colorOff().Release()

	x := c.ra.FindScoped(regalloc.GenArgX)
	y := c.ra.FindScoped(regalloc.GenArgY)
	d := c.ra.Scoped(regalloc.GenTemp0)
	bias := c.ra.Scoped(regalloc.VecTemp0)
	col := c.ra.FindScoped(regalloc.VecArgColor)
	xr, yr, dr, br, cr := x.Reg, y.Reg, d.Reg, bias.Reg, col.Reg
	c.emit(func(m *machine) bool {
		m.gen[dr] = m.ctx.Dither[(m.gen[yr]&3)<<2+m.gen[xr]&3]
		m.vec[br] = wide.I32x4{m.gen[dr], m.gen[dr], m.gen[dr], 0}
		m.vec[cr] = m.vec[cr].Add(m.vec[br])
		return true
	})
	col.Release()
	bias.Release()
	d.Release()
	y.Release()
	x.Release()
}

func (c *compiler) writeColor() {
	id := c.id
	f := id.FBFormat

	off := c.colorOff()
	for _, p := range [...]regalloc.Purpose{regalloc.GenArgX, regalloc.GenArgY, regalloc.GenDepthOff, regalloc.VecZero} {
		if c.ra.Has(p) {
			c.ra.ForceRelease(p)
		}
	}
	// No stage changes the color after this point.
	c.ra.Change(regalloc.VecArgColor, regalloc.VecResult)
	defer func() {
		off.Release()
		c.ra.ForceRelease(regalloc.GenColorOff)
		c.ra.ForceRelease(regalloc.VecResult)
		if c.ra.Has(regalloc.GenSrcAlpha) {
			c.ra.ForceRelease(regalloc.GenSrcAlpha)
		}
	}()
	or := off.Reg

	col := c.ra.FindScoped(regalloc.VecResult)
	defer col.Release()
	cr := col.Reg

	if id.ClearMode && !id.ColorClear {
		if id.StencilClear && f != gstate.Format565 {
			s := c.ra.Scoped(regalloc.GenTemp0)
			sr := s.Reg
			c.emit(func(m *machine) bool {
				m.gen[sr] = int32(m.vec[cr].PackRGBA() >> 24)
				return true
			})
			c.writeStencilOnly(sr)
			s.Release()
		}
		return
	}

	stencilFromTest := id.StencilTest && !id.ClearMode && f != gstate.Format565

	color := c.ra.Scoped(regalloc.GenTemp0)
	t1 := c.ra.Scoped(regalloc.GenTemp1)
	t2 := c.ra.Scoped(regalloc.GenTemp2)
	defer func() {
		t2.Release()
		t1.Release()
		color.Release()
	}()
	vr := color.Reg
	c.emit(c.convertOp(vr, cr, t1.Reg, t2.Reg, !stencilFromTest && id.ClearMode && id.StencilClear))
	if stencilFromTest && f == gstate.Format8888 {
		c.emit(func(m *machine) bool {
			m.gen[vr] &= 0x00FFFFFF
			return true
		})
	}

	// t1 holds the stencil bits in pixel position.
	sbits := t1.Reg
	if stencilFromTest {
		stencil := c.ra.FindScoped(regalloc.GenStencil)
		sr := stencil.Reg
		switch f {
		case gstate.Format5551:
			c.emit(func(m *machine) bool {
				m.gen[sbits] = (m.gen[sr] & 0x80) << 8
				return true
			})
		case gstate.Format4444:
			c.emit(func(m *machine) bool {
				m.gen[sbits] = (m.gen[sr] & 0xF0) << 8
				return true
			})
		default:
			c.emit(func(m *machine) bool {
				m.gen[sbits] = (m.gen[sr] & 0xFF) << 24
				return true
			})
		}
		stencil.Release()
		c.ra.ForceRelease(regalloc.GenStencil)
	}

	switch {
	case id.ApplyLogicOp:
		code := c.ra.Scoped(regalloc.GenTemp4)
		dstReg := c.ra.Scoped(regalloc.GenTemp5)
		lr, dr := code.Reg, dstReg.Reg
		sm := int32(StencilBitMask(f)) // #nosec G115 -- top byte at most
		c.emit(func(m *machine) bool {
			m.gen[lr] = int32(m.ctx.State.LogicOp & 0xF)
			m.gen[dr] = int32(m.ctx.State.Framebuf.GetAt(f, int(m.gen[or]))) // #nosec G115 -- pixel bits
			m.gen[vr] = int32(logicOps[m.gen[lr]](uint32(m.gen[vr]), uint32(m.gen[dr]))) &^ sm // #nosec G115 -- pixel bits
			return true
		})
		if stencilFromTest {
			c.emit(func(m *machine) bool {
				m.gen[vr] |= m.gen[sbits] & sm
				return true
			})
		} else {
			c.emit(func(m *machine) bool {
				m.gen[vr] |= m.gen[dr] & sm
				return true
			})
		}
		dstReg.Release()
		code.Release()
	case stencilFromTest:
		c.emit(func(m *machine) bool {
			m.gen[vr] |= m.gen[sbits]
			return true
		})
	}

	c.emit(c.storeOp(vr, or))
}

// convertOp packs the color register cr into the framebuffer format in vr.
func (c *compiler) convertOp(vr, cr, t1, t2 regalloc.Reg, withAlpha bool) op {
	switch c.id.FBFormat {
	case gstate.Format565:
		return func(m *machine) bool {
			m.gen[vr] = int32(m.vec[cr].PackRGBA() & 0x00FFFFFF)
			m.gen[t1] = m.gen[vr]>>3&0x001F | m.gen[vr]>>5&0x07E0
			m.gen[t2] = m.gen[vr] >> 8 & 0xF800
			m.gen[vr] = m.gen[t1] | m.gen[t2]
			return true
		}
	case gstate.Format5551:
		return func(m *machine) bool {
			p := m.vec[cr].PackRGBA()
			m.gen[vr] = int32(p & 0x00FFFFFF)
			m.gen[t1] = m.gen[vr]>>3&0x001F | m.gen[vr]>>6&0x03E0
			m.gen[t2] = m.gen[vr] >> 9 & 0x7C00
			if withAlpha {
				m.gen[t2] |= int32(p>>31) << 15
			}
			m.gen[vr] = m.gen[t1] | m.gen[t2]
			return true
		}
	case gstate.Format4444:
		return func(m *machine) bool {
			p := m.vec[cr].PackRGBA()
			m.gen[vr] = int32(p & 0x00FFFFFF)
			m.gen[t1] = m.gen[vr]>>4&0x000F | m.gen[vr]>>8&0x00F0
			m.gen[t2] = m.gen[vr] >> 12 & 0x0F00
			if withAlpha {
				m.gen[t2] |= int32(p>>28) << 12
			}
			m.gen[vr] = m.gen[t1] | m.gen[t2]
			return true
		}
	default:
		return func(m *machine) bool {
			m.gen[vr] = int32(m.vec[cr].PackRGBA()) // #nosec G115 -- pixel bits
			return true
		}
	}
}

// storeOp writes vr to the framebuffer, keeping the bits of the live write
// mask. The mask is skipped when it can only be zero.
func (c *compiler) storeOp(vr, or regalloc.Reg) op {
	id := c.id
	f := id.FBFormat
	if !id.ApplyColorWriteMask && fixedKeepMask(id) == 0 {
		if f == gstate.Format8888 {
			return func(m *machine) bool {
				m.ctx.State.Framebuf.Set32At(int(m.gen[or]), uint32(m.gen[vr])) // #nosec G115 -- pixel bits
				return true
			}
		}
		return func(m *machine) bool {
			m.ctx.State.Framebuf.Set16At(int(m.gen[or]), uint16(m.gen[vr])) // #nosec G115 -- 16-bit pixel
			return true
		}
	}

	mask := c.ra.Scoped(regalloc.GenTemp3)
	defer mask.Release()
	mr := mask.Reg
	if f == gstate.Format8888 {
		return func(m *machine) bool {
			fb := &m.ctx.State.Framebuf
			i := int(m.gen[or])
			m.gen[mr] = int32(m.ctx.WriteMask) // #nosec G115 -- pixel bits
			keep := uint32(m.gen[mr])          // #nosec G115 -- pixel bits
			fb.Set32At(i, fb.Get32At(i)&keep|uint32(m.gen[vr])&^keep) // #nosec G115 -- pixel bits
			return true
		}
	}
	return func(m *machine) bool {
		fb := &m.ctx.State.Framebuf
		i := int(m.gen[or])
		m.gen[mr] = int32(m.ctx.WriteMask & 0xFFFF)
		keep := uint16(m.gen[mr])                               // #nosec G115 -- 16-bit pixel
		fb.Set16At(i, fb.Get16At(i)&keep|uint16(m.gen[vr])&^keep) // #nosec G115 -- 16-bit pixel
		return true
	}
}
