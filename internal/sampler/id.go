package sampler

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
)

// SamplerID is the fingerprint of the sampler functions for a texture
// configuration. Texture sizes, addresses and the palette contents are
// read from the Context while drawing; everything here is baked into the
// compiled functions.
type SamplerID struct {
	TexFormat gstate.TextureFormat
	Swizzled  bool

	// CLUT configuration, zero for direct formats. ClutSimple marks the
	// identity index transform (shift 0, full mask, no offset).
	ClutFormat    gstate.ClutFormat
	ClutShift     uint8
	ClutMask      uint8
	ClutOffset    uint8
	ClutSimple    bool
	UseSharedClut bool

	TexFunc       gstate.TexFunc
	TextureAlpha  bool
	ColorDoubling bool

	ClampS bool
	ClampT bool

	// HasMips is set when level+1 may be sampled for mip blending.
	HasMips bool
}

// ComputeID derives the sampler fingerprint for a state.
func ComputeID(st *gstate.State) SamplerID {
	id := SamplerID{
		TexFormat:     st.TextureFormat,
		Swizzled:      st.Swizzled,
		TexFunc:       st.TexFunc,
		TextureAlpha:  st.TextureAlpha,
		ColorDoubling: st.ColorDoubling,
		ClampS:        st.AddressU == gputypes.AddressModeClampToEdge,
		ClampT:        st.AddressV == gputypes.AddressModeClampToEdge,
		HasMips:       st.MaxTextureLevel() > 0,
		UseSharedClut: true,
	}
	if id.TexFunc > gstate.TexFuncAdd {
		id.TexFunc = gstate.TexFuncAdd
	}

	if st.TextureFormat.IsCLUT() {
		id.ClutFormat = st.ClutFormat
		id.ClutShift = st.ClutShift & 0x1F
		id.ClutMask = st.ClutMask
		id.ClutOffset = st.ClutOffset & 0x1F
		id.ClutSimple = id.ClutShift == 0 && id.ClutMask == 0xFF && id.ClutOffset == 0
		id.UseSharedClut = st.TextureFormat != gstate.TexCLUT4 || !id.HasMips || st.ClutShared
	}
	return id
}

// IsValid reports whether the formats of the ID can be decoded.
func (id SamplerID) IsValid() bool {
	if !id.TexFormat.IsValid() {
		return false
	}
	return !id.TexFormat.IsCLUT() || id.ClutFormat <= gstate.Clut8888
}

// String describes the ID for logs.
func (id SamplerID) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TEX:%s", id.TexFormat)
	if id.Swizzled {
		b.WriteString(" Swizzled")
	}
	if id.TexFormat.IsCLUT() {
		fmt.Fprintf(&b, " CLUT:%s", id.ClutFormat)
		if !id.ClutSimple {
			fmt.Fprintf(&b, " Index:>>%d&%02x|%02x", id.ClutShift, id.ClutMask, id.ClutOffset)
		}
		if !id.UseSharedClut {
			b.WriteString(" PerLevelClut")
		}
	}
	fmt.Fprintf(&b, " Func:%s", id.TexFunc)
	if id.TextureAlpha {
		b.WriteString(" RGBA")
	}
	if id.ColorDoubling {
		b.WriteString(" Double")
	}
	if id.ClampS {
		b.WriteString(" ClampS")
	}
	if id.ClampT {
		b.WriteString(" ClampT")
	}
	if id.HasMips {
		b.WriteString(" Mips")
	}
	return b.String()
}
