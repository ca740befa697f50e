package sampler

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// FetchFunc decodes the texel (u, v) of one level. u and v must already
// be wrapped or clamped. Reads outside tex decode as zero.
type FetchFunc func(u, v int, tex []byte, bufw, level int, ctx *Context) wide.I32x4

// readFunc returns the raw bits of texel (u, v).
type readFunc func(tex []byte, u, v, bufw int) uint32

// Swizzled textures are stored in blocks of 16 bytes by 8 rows. Blocks
// are laid out left to right, then top to bottom.
func swizzledOffset(xb, v, rowBytes int) int {
	return ((v>>3)*(rowBytes>>4)+(xb>>4))*128 + (v&7)*16 + xb&15
}

func makeReader(bits int, swizzled bool) readFunc {
	switch bits {
	case 4:
		if swizzled {
			return func(tex []byte, u, v, bufw int) uint32 {
				off := swizzledOffset(u>>1, v, bufw>>1)
				if off >= len(tex) {
					return 0
				}
				return uint32(tex[off]>>(4*uint(u&1))) & 0xF
			}
		}
		return func(tex []byte, u, v, bufw int) uint32 {
			i := v*bufw + u
			if i>>1 >= len(tex) {
				return 0
			}
			return uint32(tex[i>>1]>>(4*uint(i&1))) & 0xF
		}
	case 8:
		if swizzled {
			return func(tex []byte, u, v, bufw int) uint32 {
				off := swizzledOffset(u, v, bufw)
				if off >= len(tex) {
					return 0
				}
				return uint32(tex[off])
			}
		}
		return func(tex []byte, u, v, bufw int) uint32 {
			off := v*bufw + u
			if off >= len(tex) {
				return 0
			}
			return uint32(tex[off])
		}
	case 16:
		if swizzled {
			return func(tex []byte, u, v, bufw int) uint32 {
				off := swizzledOffset(u*2, v, bufw*2)
				if off+2 > len(tex) {
					return 0
				}
				return uint32(binary.LittleEndian.Uint16(tex[off:]))
			}
		}
		return func(tex []byte, u, v, bufw int) uint32 {
			off := (v*bufw + u) * 2
			if off+2 > len(tex) {
				return 0
			}
			return uint32(binary.LittleEndian.Uint16(tex[off:]))
		}
	default:
		if swizzled {
			return func(tex []byte, u, v, bufw int) uint32 {
				off := swizzledOffset(u*4, v, bufw*4)
				if off+4 > len(tex) {
					return 0
				}
				return binary.LittleEndian.Uint32(tex[off:])
			}
		}
		return func(tex []byte, u, v, bufw int) uint32 {
			off := (v*bufw + u) * 4
			if off+4 > len(tex) {
				return 0
			}
			return binary.LittleEndian.Uint32(tex[off:])
		}
	}
}

// clutIndexFunc returns the palette index transform for id.
func clutIndexFunc(id SamplerID) func(raw uint32, level int) int {
	shift, mask := uint(id.ClutShift), uint32(id.ClutMask)
	base := int(id.ClutOffset) << 4
	perLevel := !id.UseSharedClut

	switch {
	case id.ClutSimple && !perLevel:
		return func(raw uint32, _ int) int { return int(raw) }
	case id.ClutSimple:
		return func(raw uint32, level int) int { return int(raw) + level*16 }
	case !perLevel:
		return func(raw uint32, _ int) int { return int(raw>>shift&mask) | base }
	default:
		return func(raw uint32, level int) int { return int(raw>>shift&mask) | base + level*16 }
	}
}

// clutReadFunc returns the palette entry decoder for id.
func clutReadFunc(id SamplerID) func(clut []byte, index int) wide.I32x4 {
	if id.ClutFormat == gstate.Clut8888 {
		return func(clut []byte, index int) wide.I32x4 {
			off := index * 4
			if off+4 > len(clut) {
				return wide.I32x4{}
			}
			return Decode8888(binary.LittleEndian.Uint32(clut[off:]))
		}
	}
	decode := decode16(clutTexFormat(id.ClutFormat))
	return func(clut []byte, index int) wide.I32x4 {
		off := index * 2
		if off+2 > len(clut) {
			return wide.I32x4{}
		}
		return decode(binary.LittleEndian.Uint16(clut[off:]))
	}
}

// CompileFetch specializes the texel fetch for id.
func CompileFetch(id SamplerID) (FetchFunc, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, id)
	}
	f := id.TexFormat

	switch {
	case f.IsDXT():
		return compileFetchDXT(f), nil

	case f.IsCLUT():
		read := makeReader(f.BitsPerTexel(), id.Swizzled)
		index := clutIndexFunc(id)
		lookup := clutReadFunc(id)
		return func(u, v int, tex []byte, bufw, level int, ctx *Context) wide.I32x4 {
			return lookup(ctx.CLUT, index(read(tex, u, v, bufw), level))
		}, nil

	case f == gstate.Tex8888:
		read := makeReader(32, id.Swizzled)
		return func(u, v int, tex []byte, bufw, _ int, _ *Context) wide.I32x4 {
			return Decode8888(read(tex, u, v, bufw))
		}, nil

	default:
		read := makeReader(16, id.Swizzled)
		decode := decode16(f)
		return func(u, v int, tex []byte, bufw, _ int, _ *Context) wide.I32x4 {
			return decode(uint16(read(tex, u, v, bufw))) // #nosec G115 -- 16-bit texel
		}, nil
	}
}

func compileFetchDXT(f gstate.TextureFormat) FetchFunc {
	blockBytes := f.Info().BlockBytes
	block := func(u, v int, tex []byte, bufw int) []byte {
		off := ((v>>2)*(bufw>>2) + u>>2) * blockBytes
		if off+blockBytes > len(tex) {
			return nil
		}
		return tex[off : off+blockBytes]
	}

	switch f {
	case gstate.TexDXT3:
		return func(u, v int, tex []byte, bufw, _ int, _ *Context) wide.I32x4 {
			b := block(u, v, tex, bufw)
			if b == nil {
				return wide.I32x4{}
			}
			return dxtColor(b, u&3, v&3, false).WithAlpha(dxt3Alpha(b, u&3, v&3))
		}
	case gstate.TexDXT5:
		return func(u, v int, tex []byte, bufw, _ int, _ *Context) wide.I32x4 {
			b := block(u, v, tex, bufw)
			if b == nil {
				return wide.I32x4{}
			}
			return dxtColor(b, u&3, v&3, false).WithAlpha(dxt5Alpha(b, u&3, v&3))
		}
	default:
		return func(u, v int, tex []byte, bufw, _ int, _ *Context) wide.I32x4 {
			b := block(u, v, tex, bufw)
			if b == nil {
				return wide.I32x4{}
			}
			return dxtColor(b, u&3, v&3, true)
		}
	}
}
