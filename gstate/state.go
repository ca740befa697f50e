package gstate

import "github.com/gogpu/gputypes"

// TextureLevel describes one mip level of the bound texture.
type TextureLevel struct {
	// Addr is the level's address in Memory.
	Addr uint32

	// BufWidth is the row pitch in texels.
	BufWidth int

	// WidthLog2 and HeightLog2 give the level size as powers of two.
	WidthLog2  uint8
	HeightLog2 uint8
}

// State is a snapshot of the fixed-function pipeline configuration.
//
// The compilers read a State once per draw to build fingerprints; the
// compiled functions read the same State again while drawing for every
// value that is not part of a fingerprint. A State must not be modified
// while a draw that references it is in progress.
//
// Packed colors keep red in the low byte: r | g<<8 | b<<16 | a<<24.
type State struct {
	// Framebuffer.
	FramebufFormat BufferFormat
	Framebuf       Surface
	Depthbuf       Surface

	// OffsetX and OffsetY map screen coordinates (12.4 fixed point) to
	// drawing coordinates: drawing = (screen - offset) >> 4.
	OffsetX int
	OffsetY int

	// Scissor is inclusive, in drawing coordinates.
	ScissorX1, ScissorY1 int
	ScissorX2, ScissorY2 int

	// Region is inclusive, in drawing coordinates. Used by debug dumps.
	RegionX1, RegionY1 int
	RegionX2, RegionY2 int

	// Clear mode. ClearColor, ClearStencil and ClearDepth select which
	// buffers a clear-mode draw writes.
	ClearMode    bool
	ClearColor   bool
	ClearStencil bool
	ClearDepth   bool

	ThroughMode  bool
	ShadeGouraud bool
	AntiAlias    bool

	// Depth test. Functions compare the incoming value against the stored
	// one; an undefined function behaves as Always.
	DepthTestEnable bool
	DepthFunc       gputypes.CompareFunction
	DepthWrite      bool
	MinZ, MaxZ      uint16

	// Alpha test compares (alpha & mask) against (ref & mask).
	AlphaTestEnable bool
	AlphaTestFunc   gputypes.CompareFunction
	AlphaTestRef    uint8
	AlphaTestMask   uint8

	// Color test compares (rgb & mask) against (ref & mask).
	ColorTestEnable bool
	ColorTestFunc   ColorTestFunc
	ColorTestRef    uint32
	ColorTestMask   uint32

	// Stencil test compares the reference against the stored stencil, so
	// Less passes when ref < stencil. Wrapping operations behave as their
	// clamping counterparts.
	StencilTestEnable bool
	StencilFunc       gputypes.CompareFunction
	StencilRef        uint8
	StencilMask       uint8
	StencilFail       gputypes.StencilOperation
	DepthFail         gputypes.StencilOperation
	DepthPass         gputypes.StencilOperation

	// Alpha blending.
	BlendEnable bool
	BlendSrc    BlendFactor
	BlendDst    BlendFactor
	BlendEq     BlendEquation
	FixA        uint32
	FixB        uint32

	FogEnable bool
	FogColor  uint32

	// DitherMatrix is indexed by (y&3)*4 + (x&3). Values are -8..7.
	DitherEnable bool
	DitherMatrix [16]int8

	LogicOpEnable bool
	LogicOp       LogicOp

	// ColorMask has a bit set for every RGB bit that must not be written.
	// AlphaMask does the same for the alpha (stencil) byte.
	ColorMask uint32
	AlphaMask uint8

	// Texturing.
	TextureEnable bool
	TextureFormat TextureFormat
	Swizzled      bool
	Textures      [8]TextureLevel
	MaxLevel      int
	MipmapEnable  bool
	LevelMode     LevelMode
	// LevelOffset16 is the level bias with 4 fractional bits.
	LevelOffset16 int
	LodSlope      float32
	MinFilter     gputypes.FilterMode
	MagFilter     gputypes.FilterMode
	MipFilter     gputypes.MipmapFilterMode
	AddressU      gputypes.AddressMode
	AddressV      gputypes.AddressMode
	TexFunc       TexFunc
	TextureAlpha  bool
	ColorDoubling bool
	EnvColor      uint32

	// Palette for CLUT formats. The index is transformed as
	// ((index >> ClutShift) & ClutMask) | (ClutOffset << 4).
	CLUT       []byte
	ClutFormat ClutFormat
	ClutShift  uint8
	ClutMask   uint8
	ClutOffset uint8
	// ClutShared makes every mip level of a CLUT4 texture use the same 16
	// palette entries. Otherwise level n uses entries 16n to 16n+15.
	ClutShared bool

	Memory Memory
}

// TextureWidth returns the width of a mip level in texels.
func (s *State) TextureWidth(level int) int {
	return 1 << s.Textures[level].WidthLog2
}

// TextureHeight returns the height of a mip level in texels.
func (s *State) TextureHeight(level int) int {
	return 1 << s.Textures[level].HeightLog2
}

// TextureBufw returns the row pitch of a mip level. Block compressed
// textures ignore the pitch and use the level width.
func (s *State) TextureBufw(level int) int {
	if s.TextureFormat.IsDXT() {
		return s.TextureWidth(level)
	}
	return s.Textures[level].BufWidth & 0x7FF
}

// MaxTextureLevel returns the highest usable mip level.
func (s *State) MaxTextureLevel() int {
	if !s.MipmapEnable {
		return 0
	}
	return min(max(s.MaxLevel, 0), 7)
}

// ColorWriteMask returns the 32-bit keep mask: set bits are preserved.
func (s *State) ColorWriteMask() uint32 {
	return s.ColorMask&0x00FFFFFF | uint32(s.AlphaMask)<<24
}

// ScreenToDrawing converts 12.4 screen coordinates to pixels.
func (s *State) ScreenToDrawing(x, y int) (int, int) {
	return (x - s.OffsetX) >> 4, (y - s.OffsetY) >> 4
}

// DrawingToScreen converts pixels to 12.4 screen coordinates.
func (s *State) DrawingToScreen(x, y int) (int, int) {
	return x<<4 + s.OffsetX, y<<4 + s.OffsetY
}

// Blending reports whether alpha blending applies to non-clear draws.
func (s *State) Blending() bool {
	return s.BlendEnable && !s.ClearMode
}

// Clone returns a shallow copy that shares buffers and memory.
func (s *State) Clone() *State {
	c := *s
	return &c
}
