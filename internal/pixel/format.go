package pixel

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
)

// Packed colors keep red in the low byte: r | g<<8 | b<<16 | a<<24.

// To565 converts a packed 8888 color to 565. Alpha is dropped.
func To565(c uint32) uint32 {
	return c>>3&0x001F | c>>5&0x07E0 | c>>8&0xF800
}

// To5551 converts a packed 8888 color to 5551. The alpha bit is the top
// bit of alpha when withAlpha is set and zero otherwise.
func To5551(c uint32, withAlpha bool) uint32 {
	v := c>>3&0x001F | c>>6&0x03E0 | c>>9&0x7C00
	if withAlpha {
		v |= c >> 31 << 15
	}
	return v
}

// To4444 converts a packed 8888 color to 4444. The alpha nibble is kept
// when withAlpha is set and zero otherwise.
func To4444(c uint32, withAlpha bool) uint32 {
	v := c>>4&0x000F | c>>8&0x00F0 | c>>12&0x0F00
	if withAlpha {
		v |= c >> 28 << 12
	}
	return v
}

// From565 expands a 565 pixel to 8888, replicating the top bits of each
// channel into the low bits. Alpha is zero.
func From565(v uint32) uint32 {
	r := v & 0x1F
	g := v >> 5 & 0x3F
	b := v >> 11 & 0x1F
	return (r<<3 | r>>2) | (g<<2|g>>4)<<8 | (b<<3|b>>2)<<16
}

// From5551 expands a 5551 pixel to 8888. The alpha bit becomes 0 or 0xFF.
func From5551(v uint32) uint32 {
	r := v & 0x1F
	g := v >> 5 & 0x1F
	b := v >> 10 & 0x1F
	c := (r<<3 | r>>2) | (g<<3|g>>2)<<8 | (b<<3|b>>2)<<16
	if v&0x8000 != 0 {
		c |= 0xFF000000
	}
	return c
}

// From4444 expands a 4444 pixel to 8888 by nibble duplication.
func From4444(v uint32) uint32 {
	r := v & 0xF
	g := v >> 4 & 0xF
	b := v >> 8 & 0xF
	a := v >> 12 & 0xF
	return (r<<4 | r) | (g<<4|g)<<8 | (b<<4|b)<<16 | (a<<4|a)<<24
}

// ToFormat converts a packed 8888 color to the framebuffer format.
func ToFormat(f gstate.BufferFormat, c uint32, withAlpha bool) uint32 {
	switch f {
	case gstate.Format565:
		return To565(c)
	case gstate.Format5551:
		return To5551(c, withAlpha)
	case gstate.Format4444:
		return To4444(c, withAlpha)
	default:
		return c
	}
}

// FromFormat expands a framebuffer pixel to a packed 8888 color.
func FromFormat(f gstate.BufferFormat, v uint32) uint32 {
	switch f {
	case gstate.Format565:
		return From565(v)
	case gstate.Format5551:
		return From5551(v)
	case gstate.Format4444:
		return From4444(v)
	default:
		return v
	}
}

// StencilBitMask returns the stencil bits of a framebuffer pixel.
func StencilBitMask(f gstate.BufferFormat) uint32 {
	return f.Info().StencilMask
}

// ReadStencil extracts the stencil value of a pixel as an 8-bit value.
// 565 has no stencil and always reads 0.
func ReadStencil(f gstate.BufferFormat, v uint32) uint8 {
	switch f {
	case gstate.Format5551:
		if v&0x8000 != 0 {
			return 0xFF
		}
		return 0
	case gstate.Format4444:
		n := uint8(v >> 12 & 0xF) // #nosec G115 -- nibble
		return n<<4 | n
	case gstate.Format8888:
		return uint8(v >> 24) // #nosec G115 -- top byte
	default:
		return 0
	}
}

// WriteStencil replaces the stencil bits of pixel v with s and returns the
// new pixel. When masked, bits set in alphaMask keep their old value.
func WriteStencil(f gstate.BufferFormat, v uint32, s, alphaMask uint8, masked bool) uint32 {
	var shift uint
	var keep uint8
	switch f {
	case gstate.Format5551:
		shift, keep = 8, 0x7F
	case gstate.Format4444:
		shift, keep = 8, 0x0F
	case gstate.Format8888:
		shift, keep = 24, 0
	default:
		return v
	}
	if masked {
		keep |= alphaMask
	}
	old := uint8(v >> shift) // #nosec G115 -- byte extract
	b := old&keep | s&^keep
	return v&^(0xFF<<shift) | uint32(b)<<shift
}

// StencilToPixel positions a stencil value in the stencil bits of a pixel.
func StencilToPixel(f gstate.BufferFormat, s uint8) uint32 {
	switch f {
	case gstate.Format5551:
		return uint32(s>>7) << 15
	case gstate.Format4444:
		return uint32(s>>4) << 12
	case gstate.Format8888:
		return uint32(s) << 24
	default:
		return 0
	}
}

// ApplyStencilOp updates a stencil value. Increment and decrement saturate
// at the granularity of the format; wrapping variants behave the same.
func ApplyStencilOp(f gstate.BufferFormat, op gputypes.StencilOperation, s, ref uint8) uint8 {
	switch op {
	case gputypes.StencilOperationZero:
		return 0
	case gputypes.StencilOperationReplace:
		return ref
	case gputypes.StencilOperationInvert:
		return ^s
	case gputypes.StencilOperationIncrementClamp, gputypes.StencilOperationIncrementWrap:
		switch f {
		case gstate.Format5551:
			return 0xFF
		case gstate.Format4444:
			if s < 0xF0 {
				return s + 0x11
			}
		case gstate.Format8888:
			if s != 0xFF {
				return s + 1
			}
		}
		return s
	case gputypes.StencilOperationDecrementClamp, gputypes.StencilOperationDecrementWrap:
		switch f {
		case gstate.Format5551:
			return 0
		case gstate.Format4444:
			if s >= 0x11 {
				return s - 0x11
			}
		case gstate.Format8888:
			if s != 0 {
				return s - 1
			}
		}
		return s
	default:
		return s
	}
}

// Compare evaluates "a fn b". An undefined function behaves as Always.
func Compare(fn gputypes.CompareFunction, a, b int32) bool {
	switch fn {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return a < b
	case gputypes.CompareFunctionEqual:
		return a == b
	case gputypes.CompareFunctionLessEqual:
		return a <= b
	case gputypes.CompareFunctionGreater:
		return a > b
	case gputypes.CompareFunctionNotEqual:
		return a != b
	case gputypes.CompareFunctionGreaterEqual:
		return a >= b
	default:
		return true
	}
}
