package gstate

import "golang.org/x/image/math/f32"

// Vertex is a transformed vertex ready for rasterization.
type Vertex struct {
	// X and Y are screen coordinates in 12.4 fixed point.
	X, Y int
	// Z is the 16-bit depth.
	Z uint16

	// Color0 is the primary RGBA color, Color1 the secondary RGB color
	// that is added after texturing.
	Color0 [4]int32
	Color1 [3]int32

	// TexCoord holds s and t. In through mode they are texel units.
	TexCoord f32.Vec2

	FogDepth float32

	// ClipW is the clip-space w used for perspective correction.
	ClipW float32
}

// RGBA packs an 8-bit per channel color with red in the low byte.
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// Color4 expands a packed color into a Color0 vector.
func Color4(c uint32) [4]int32 {
	return [4]int32{int32(c & 0xFF), int32(c >> 8 & 0xFF), int32(c >> 16 & 0xFF), int32(c >> 24)}
}
