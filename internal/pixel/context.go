package pixel

import (
	"github.com/gogpu/softgpu/gstate"
)

// Context carries the live inputs of a pixel function for one draw. It is
// built on the calling thread before any work is split across workers and
// is read-only afterwards.
type Context struct {
	ID    PixelFuncID
	State *gstate.State

	// WriteMask has a bit set for every framebuffer bit that must keep its
	// old value. It is in the destination format and already includes the
	// stencil bits when the draw does not write stencil.
	WriteMask uint32

	// Dither is the dither bias matrix indexed by (y&3)*4 + (x&3).
	Dither [16]int32
}

// NewContext prepares the live inputs of a draw.
func NewContext(id PixelFuncID, st *gstate.State) *Context {
	ctx := &Context{ID: id, State: st}
	for i, v := range st.DitherMatrix {
		ctx.Dither[i] = int32(v)
	}
	ctx.WriteMask = writeMask(id, st)
	return ctx
}

// fixedKeepMask returns the stencil bits that keep their old value when
// the draw does not write stencil.
func fixedKeepMask(id PixelFuncID) uint32 {
	if id.writesStencil() {
		return 0
	}
	return StencilBitMask(id.FBFormat)
}

// writeMask combines the live color and alpha masks with the fixed keep
// mask, converted to the destination format.
func writeMask(id PixelFuncID, st *gstate.State) uint32 {
	keep := fixedKeepMask(id)
	if !id.ApplyColorWriteMask {
		return keep
	}
	m := st.ColorMask & 0x00FFFFFF
	writeAlpha := id.writesStencil()
	if writeAlpha {
		m |= uint32(st.AlphaMask) << 24
	}
	return ToFormat(id.FBFormat, m, writeAlpha) | keep
}
