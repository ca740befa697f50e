package sampler

import (
	"encoding/binary"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// Texels keep red in the low bits, like framebuffer pixels. Narrow
// channels are widened by replicating their top bits into the low bits.

func expand5(v uint32) int32 { return int32(v<<3 | v>>2) }
func expand6(v uint32) int32 { return int32(v<<2 | v>>4) }
func expand4(v uint32) int32 { return int32(v<<4 | v) }

// Decode5650 expands a 5650 texel. Alpha is opaque.
func Decode5650(v uint16) wide.I32x4 {
	c := uint32(v)
	return wide.I32x4{expand5(c & 0x1F), expand6(c >> 5 & 0x3F), expand5(c >> 11 & 0x1F), 0xFF}
}

// Decode5551 expands a 5551 texel. The alpha bit becomes 0 or 0xFF.
func Decode5551(v uint16) wide.I32x4 {
	c := uint32(v)
	a := int32(0)
	if c&0x8000 != 0 {
		a = 0xFF
	}
	return wide.I32x4{expand5(c & 0x1F), expand5(c >> 5 & 0x1F), expand5(c >> 10 & 0x1F), a}
}

// Decode4444 expands a 4444 texel.
func Decode4444(v uint16) wide.I32x4 {
	c := uint32(v)
	return wide.I32x4{expand4(c & 0xF), expand4(c >> 4 & 0xF), expand4(c >> 8 & 0xF), expand4(c >> 12)}
}

// Decode8888 unpacks an 8888 texel.
func Decode8888(v uint32) wide.I32x4 {
	return wide.UnpackRGBA(v)
}

// decode16 returns the decoder of a 16-bit texel or palette format.
func decode16(f gstate.TextureFormat) func(uint16) wide.I32x4 {
	switch f {
	case gstate.Tex5551:
		return Decode5551
	case gstate.Tex4444:
		return Decode4444
	default:
		return Decode5650
	}
}

// clutTexFormat maps a palette entry format to the matching texel format.
func clutTexFormat(f gstate.ClutFormat) gstate.TextureFormat {
	switch f {
	case gstate.Clut5551:
		return gstate.Tex5551
	case gstate.Clut4444:
		return gstate.Tex4444
	case gstate.Clut8888:
		return gstate.Tex8888
	default:
		return gstate.Tex5650
	}
}

// =============================================================================
// DXT
// =============================================================================

// A DXT color block stores the 2-bit index lines first, then the two
// 565 endpoint colors.
const (
	dxtLinesOff  = 0
	dxtColor1Off = 4
	dxtColor2Off = 6
)

// dxtColor decodes texel (x, y) of the color block b. With alpha1 set, a
// block whose first color is not greater than the second has a
// transparent fourth color; otherwise all colors are opaque.
func dxtColor(b []byte, x, y int, alpha1 bool) wide.I32x4 {
	lines := binary.LittleEndian.Uint32(b[dxtLinesOff:])
	c1 := binary.LittleEndian.Uint16(b[dxtColor1Off:])
	c2 := binary.LittleEndian.Uint16(b[dxtColor2Off:])
	idx := lines >> (2 * uint(y*4+x)) & 3

	switch idx {
	case 0:
		return Decode5650(c1)
	case 1:
		return Decode5650(c2)
	}

	p1, p2 := Decode5650(c1), Decode5650(c2)
	var out wide.I32x4
	if c1 > c2 || !alpha1 {
		w1, w2 := int32(2), int32(1)
		if idx == 3 {
			w1, w2 = 1, 2
		}
		for i := range 3 {
			out[i] = (p1[i]*w1 + p2[i]*w2) / 3
		}
		out[3] = 0xFF
		return out
	}
	if idx == 3 {
		return wide.I32x4{}
	}
	for i := range 3 {
		out[i] = (p1[i] + p2[i]) / 2
	}
	out[3] = 0xFF
	return out
}

// dxt3Alpha returns the explicit 4-bit alpha of texel (x, y). The alpha
// lines follow the color block.
func dxt3Alpha(b []byte, x, y int) int32 {
	line := binary.LittleEndian.Uint16(b[8+2*y:])
	return expand4(uint32(line >> (4 * uint(x)) & 0xF))
}

// dxt5Alpha returns the interpolated alpha of texel (x, y). After the
// color block come 32 bits of index data, 16 more bits of index data and
// the two endpoint alphas.
func dxt5Alpha(b []byte, x, y int) int32 {
	lo := binary.LittleEndian.Uint32(b[8:])
	hi := binary.LittleEndian.Uint16(b[12:])
	a1, a2 := int32(b[14]), int32(b[15])

	bits := uint64(hi)<<32 | uint64(lo)
	idx := int32(bits >> (3 * uint(y*4+x)) & 7)

	switch {
	case idx == 0:
		return a1
	case idx == 1:
		return a2
	case a1 > a2:
		return ((8-idx)*a1 + (idx-1)*a2) / 7
	case idx == 6:
		return 0
	case idx == 7:
		return 0xFF
	default:
		return ((6-idx)*a1 + (idx-1)*a2) / 5
	}
}
