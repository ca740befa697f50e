package pixel

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/regalloc"
)

// stencil565Result is the outcome of a stencil test against the fixed
// zero stencil of a 565 framebuffer.
func stencil565Result(fn gputypes.CompareFunction, ref uint8) bool {
	switch fn {
	case gputypes.CompareFunctionNever, gputypes.CompareFunctionLess:
		return false
	case gputypes.CompareFunctionEqual, gputypes.CompareFunctionLessEqual:
		return ref == 0
	case gputypes.CompareFunctionNotEqual, gputypes.CompareFunctionGreater:
		return ref != 0
	default:
		return true
	}
}

func (c *compiler) stencilAndDepthTest() {
	id := c.id
	if id.FBFormat == gstate.Format565 {
		if !stencil565Result(id.StencilTestFunc, id.StencilTestRef) {
			c.emit(discard)
			return
		}
		c.depthTest()
		return
	}

	stencil := c.destStencil()
	sr := stencil.Reg

	if id.StencilTestFunc != gputypes.CompareFunctionAlways {
		maskedReg := sr
		var masked *regalloc.Handle
		if id.HasStencilTestMask {
			masked = c.ra.Scoped(regalloc.GenTemp0)
			mr := masked.Reg
			c.emit(func(m *machine) bool {
				m.gen[mr] = m.gen[sr] & int32(m.ctx.State.StencilMask)
				return true
			})
			maskedReg = mr
		}

		fail := c.block(func() {
			c.stencilOp(id.SFail, sr)
			c.writeStencilOnly(sr)
		})
		ref := int32(id.StencilTestRef)
		test := compareFunc(id.StencilTestFunc)
		c.emit(func(m *machine) bool {
			// The reference is the left operand: Less passes when ref < stencil.
			if test(ref, m.gen[maskedReg]) {
				return true
			}
			runOps(m, fail)
			return false
		})
		if masked != nil {
			masked.Release()
		}
	}

	c.depthTestForStencil(sr)
	c.stencilOp(id.ZPass, sr)

	// The updated stencil is merged into the color write.
	stencil.Keep()
	c.ra.ForceRetain(regalloc.GenStencil)
}

// destStencil loads the stencil of the destination pixel.
func (c *compiler) destStencil() *regalloc.Handle {
	off := c.colorOff()
	defer off.Release()
	h := c.ra.Scoped(regalloc.GenStencil)
	or, sr := off.Reg, h.Reg

	switch c.id.FBFormat {
	case gstate.Format8888:
		c.emit(func(m *machine) bool {
			m.gen[sr] = int32(m.ctx.State.Framebuf.Get32At(int(m.gen[or])) >> 24)
			return true
		})
	case gstate.Format5551:
		c.emit(func(m *machine) bool {
			// Sign extend the top bit across the byte.
			b := int8(m.ctx.State.Framebuf.Get16At(int(m.gen[or])) >> 8) // #nosec G115 -- high byte
			m.gen[sr] = int32(uint8(b >> 7))
			return true
		})
	case gstate.Format4444:
		// Replicate the nibble into both halves of the byte.
		helper := c.ra.Scoped(regalloc.GenTempHelper)
		hr := helper.Reg
		c.emit(func(m *machine) bool {
			m.gen[sr] = int32(m.ctx.State.Framebuf.Get16At(int(m.gen[or])) >> 12)
			m.gen[hr] = m.gen[sr] << 4
			m.gen[sr] |= m.gen[hr]
			return true
		})
		helper.Release()
	}
	return h
}

func (c *compiler) depthTestForStencil(sr regalloc.Reg) {
	id := c.id
	if id.DepthTestFunc == gputypes.CompareFunctionAlways {
		return
	}
	doff := c.depthOff()
	z := c.ra.FindScoped(regalloc.GenArgZ)
	dr, zr := doff.Reg, z.Reg

	fail := c.block(func() {
		c.stencilOp(id.ZFail, sr)
		c.writeStencilOnly(sr)
	})
	test := compareFunc(id.DepthTestFunc)
	c.emit(func(m *machine) bool {
		if test(m.gen[zr], int32(m.ctx.State.Depthbuf.Get16At(int(m.gen[dr])))) {
			return true
		}
		runOps(m, fail)
		return false
	})
	z.Release()
	doff.Release()

	if !id.DepthWrite {
		c.ra.ForceRelease(regalloc.GenArgZ)
	}
}

// stencilOp emits the update of the stencil register.
func (c *compiler) stencilOp(op gputypes.StencilOperation, sr regalloc.Reg) {
	switch op {
	case gputypes.StencilOperationZero:
		c.emit(func(m *machine) bool {
			m.gen[sr] = 0
			return true
		})
	case gputypes.StencilOperationReplace:
		if c.id.HasStencilTestMask {
			c.emit(func(m *machine) bool {
				m.gen[sr] = int32(m.ctx.State.StencilRef)
				return true
			})
		} else {
			ref := int32(c.id.StencilTestRef)
			c.emit(func(m *machine) bool {
				m.gen[sr] = ref
				return true
			})
		}
	case gputypes.StencilOperationInvert:
		c.emit(func(m *machine) bool {
			m.gen[sr] = ^m.gen[sr] & 0xFF
			return true
		})
	case gputypes.StencilOperationIncrementClamp:
		switch c.id.FBFormat {
		case gstate.Format5551:
			c.emit(func(m *machine) bool {
				m.gen[sr] = 0xFF
				return true
			})
		case gstate.Format4444:
			c.emit(func(m *machine) bool {
				if m.gen[sr] < 0xF0 {
					m.gen[sr] += 0x11
				}
				return true
			})
		case gstate.Format8888:
			c.emit(func(m *machine) bool {
				if m.gen[sr] != 0xFF {
					m.gen[sr]++
				}
				return true
			})
		}
	case gputypes.StencilOperationDecrementClamp:
		switch c.id.FBFormat {
		case gstate.Format5551:
			c.emit(func(m *machine) bool {
				m.gen[sr] = 0
				return true
			})
		case gstate.Format4444:
			c.emit(func(m *machine) bool {
				if m.gen[sr] >= 0x11 {
					m.gen[sr] -= 0x11
				}
				return true
			})
		case gstate.Format8888:
			c.emit(func(m *machine) bool {
				if m.gen[sr] != 0 {
					m.gen[sr]--
				}
				return true
			})
		}
	}
}

// writeStencilOnly stores the stencil register into the stencil bits of
// the destination pixel, leaving the color bits alone.
func (c *compiler) writeStencilOnly(sr regalloc.Reg) {
	off := c.colorOff()
	defer off.Release()
	or := off.Reg
	f := c.id.FBFormat

	var shift uint
	var keep int32
	switch f {
	case gstate.Format5551:
		shift, keep = 8, 0x7F
	case gstate.Format4444:
		shift, keep = 8, 0x0F
	case gstate.Format8888:
		shift, keep = 24, 0
	default:
		return
	}

	if c.id.ApplyColorWriteMask {
		mask := c.ra.Scoped(regalloc.GenTemp5)
		defer mask.Release()
		mr := mask.Reg
		c.emit(func(m *machine) bool {
			fb := &m.ctx.State.Framebuf
			m.gen[mr] = int32(m.ctx.State.AlphaMask) | keep
			i := int(m.gen[or])
			v := int32(fb.GetAt(f, i))   // #nosec G115 -- pixel bits
			b := v >> shift & m.gen[mr] // old bits to keep
			b |= m.gen[sr] &^ m.gen[mr]
			v = v&^(0xFF<<shift) | (b&0xFF)<<shift
			fb.SetAt(f, i, uint32(v)) // #nosec G115 -- pixel bits
			return true
		})
		return
	}

	switch f {
	case gstate.Format5551:
		c.emit(func(m *machine) bool {
			fb := &m.ctx.State.Framebuf
			i := int(m.gen[or])
			fb.Set16At(i, fb.Get16At(i)&0x7FFF|uint16(m.gen[sr]&0x80)<<8) // #nosec G115 -- one bit
			return true
		})
	case gstate.Format4444:
		c.emit(func(m *machine) bool {
			fb := &m.ctx.State.Framebuf
			i := int(m.gen[or])
			fb.Set16At(i, fb.Get16At(i)&0x0FFF|uint16(m.gen[sr]&0xF0)<<8) // #nosec G115 -- one nibble
			return true
		})
	case gstate.Format8888:
		c.emit(func(m *machine) bool {
			fb := &m.ctx.State.Framebuf
			i := int(m.gen[or])
			fb.Set32At(i, fb.Get32At(i)&0x00FFFFFF|uint32(m.gen[sr]&0xFF)<<24) // #nosec G115 -- one byte
			return true
		})
	}
}

func (c *compiler) depthTest() {
	id := c.id
	switch id.DepthTestFunc {
	case gputypes.CompareFunctionAlways:
		return
	case gputypes.CompareFunctionNever:
		c.emit(discard)
	default:
		doff := c.depthOff()
		z := c.ra.FindScoped(regalloc.GenArgZ)
		dr, zr := doff.Reg, z.Reg
		test := compareFunc(id.DepthTestFunc)
		c.emit(func(m *machine) bool {
			return test(m.gen[zr], int32(m.ctx.State.Depthbuf.Get16At(int(m.gen[dr]))))
		})
		z.Release()
		doff.Release()
	}

	if !id.DepthWrite {
		c.ra.ForceRelease(regalloc.GenArgZ)
	}
}

func (c *compiler) writeDepth() {
	if c.id.DepthWrite {
		doff := c.depthOff()
		z := c.ra.FindScoped(regalloc.GenArgZ)
		dr, zr := doff.Reg, z.Reg
		c.emit(func(m *machine) bool {
			m.ctx.State.Depthbuf.Set16At(int(m.gen[dr]), uint16(m.gen[zr])) // #nosec G115 -- 16-bit depth
			return true
		})
		z.Release()
		doff.Release()
		c.ra.ForceRelease(regalloc.GenArgZ)
	}
	if c.ra.Has(regalloc.GenDepthOff) {
		c.ra.ForceRelease(regalloc.GenDepthOff)
	}
}
