package pixel

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
)

// BlendFactor is the normalized blend factor used by pixel functions. It
// extends the hardware codes with Zero and One, which skip the multiply.
type BlendFactor uint8

const (
	FactorOtherColor BlendFactor = iota
	FactorInvOtherColor
	FactorSrcAlpha
	FactorInvSrcAlpha
	FactorDstAlpha
	FactorInvDstAlpha
	FactorDoubleSrcAlpha
	FactorDoubleInvSrcAlpha
	FactorDoubleDstAlpha
	FactorDoubleInvDstAlpha
	FactorFix
	FactorZero
	FactorOne
)

var factorNames = [...]string{
	"OTHER", "INVOTHER", "SRCA", "INVSRCA", "DSTA", "INVDSTA",
	"2SRCA", "2INVSRCA", "2DSTA", "2INVDSTA", "FIX", "ZERO", "ONE",
}

// String returns a short name for the factor.
func (f BlendFactor) String() string {
	if int(f) < len(factorNames) {
		return factorNames[f]
	}
	return "FIX"
}

// normalizeFactor maps a hardware factor to a BlendFactor. Fixed colors of
// all zeros or all ones become Zero and One.
func normalizeFactor(f gstate.BlendFactor, fix uint32) BlendFactor {
	if f < gstate.FactorFixed {
		return BlendFactor(f)
	}
	switch fix & 0x00FFFFFF {
	case 0:
		return FactorZero
	case 0x00FFFFFF:
		return FactorOne
	default:
		return FactorFix
	}
}

// PixelFuncID is the fingerprint of a pixel function. It holds exactly the
// facts that select code paths; values not listed here are read from the
// State while drawing. Fields that do not apply to a configuration are
// left zero so equal behavior always yields equal IDs.
type PixelFuncID struct {
	FBFormat gstate.BufferFormat

	// Clear mode and its buffer selection.
	ClearMode    bool
	ColorClear   bool
	StencilClear bool

	// DepthWrite is the depth clear flag in clear mode.
	DepthWrite      bool
	DepthTestFunc   gputypes.CompareFunction
	ApplyDepthRange bool

	// AlphaTestRef is already masked. The mask itself is read live when
	// HasAlphaTestMask is set.
	AlphaTestFunc    gputypes.CompareFunction
	AlphaTestRef     uint8
	HasAlphaTestMask bool

	ApplyFog  bool
	ColorTest bool

	// StencilTestRef is already masked, like AlphaTestRef.
	StencilTest        bool
	StencilTestFunc    gputypes.CompareFunction
	StencilTestRef     uint8
	HasStencilTestMask bool
	SFail              gputypes.StencilOperation
	ZFail              gputypes.StencilOperation
	ZPass              gputypes.StencilOperation

	AlphaBlend bool
	BlendEq    gstate.BlendEquation
	BlendSrc   BlendFactor
	BlendDst   BlendFactor

	Dithering           bool
	ApplyLogicOp        bool
	ApplyColorWriteMask bool

	// SharedStride is set when the depth buffer is read or written and
	// has the framebuffer's stride, so one pixel index serves both.
	SharedStride bool
}

func normalizeCompare(f gputypes.CompareFunction) gputypes.CompareFunction {
	if f < gputypes.CompareFunctionNever || f > gputypes.CompareFunctionAlways {
		return gputypes.CompareFunctionAlways
	}
	return f
}

func normalizeStencilOp(op gputypes.StencilOperation) gputypes.StencilOperation {
	switch op {
	case gputypes.StencilOperationIncrementWrap:
		return gputypes.StencilOperationIncrementClamp
	case gputypes.StencilOperationDecrementWrap:
		return gputypes.StencilOperationDecrementClamp
	case gputypes.StencilOperationZero, gputypes.StencilOperationReplace,
		gputypes.StencilOperationInvert, gputypes.StencilOperationIncrementClamp,
		gputypes.StencilOperationDecrementClamp:
		return op
	default:
		return gputypes.StencilOperationKeep
	}
}

// ComputeID derives the fingerprint of the pixel function for a state.
func ComputeID(st *gstate.State) PixelFuncID {
	id := PixelFuncID{
		FBFormat:        st.FramebufFormat,
		ClearMode:       st.ClearMode,
		ApplyDepthRange: !st.ThroughMode,
		DepthTestFunc:   gputypes.CompareFunctionAlways,
		AlphaTestFunc:   gputypes.CompareFunctionAlways,
	}

	id.ApplyColorWriteMask = st.ColorMask&0x00FFFFFF != 0 || st.AlphaMask != 0

	if st.ClearMode {
		id.ColorClear = st.ClearColor
		id.StencilClear = st.ClearStencil
		id.DepthWrite = st.ClearDepth
		id.SharedStride = id.needsDepthOff() && st.Framebuf.Stride == st.Depthbuf.Stride
		return id
	}

	if st.DepthTestEnable {
		id.DepthTestFunc = normalizeCompare(st.DepthFunc)
		id.DepthWrite = st.DepthWrite
	}

	if st.AlphaTestEnable {
		id.AlphaTestFunc = normalizeCompare(st.AlphaTestFunc)
		if id.AlphaTestFunc != gputypes.CompareFunctionAlways && id.AlphaTestFunc != gputypes.CompareFunctionNever {
			id.AlphaTestRef = st.AlphaTestRef & st.AlphaTestMask
			id.HasAlphaTestMask = st.AlphaTestMask != 0xFF
		}
	}

	id.ApplyFog = st.FogEnable && !st.ThroughMode
	id.ColorTest = st.ColorTestEnable

	if st.StencilTestEnable {
		id.StencilTest = true
		id.StencilTestFunc = normalizeCompare(st.StencilFunc)
		id.StencilTestRef = st.StencilRef & st.StencilMask
		id.HasStencilTestMask = st.StencilMask != 0xFF
		id.SFail = normalizeStencilOp(st.StencilFail)
		id.ZFail = normalizeStencilOp(st.DepthFail)
		id.ZPass = normalizeStencilOp(st.DepthPass)
		if id.DepthTestFunc == gputypes.CompareFunctionAlways {
			id.ZFail = gputypes.StencilOperationKeep
		}
		if id.StencilTestFunc == gputypes.CompareFunctionAlways {
			id.SFail = gputypes.StencilOperationKeep
		}
	}

	if st.BlendEnable {
		id.AlphaBlend = true
		id.BlendEq = st.BlendEq
		if id.BlendEq > gstate.BlendAbsDiff {
			id.BlendEq = gstate.BlendAdd
		}
		if id.usesFactors() {
			id.BlendSrc = normalizeFactor(st.BlendSrc, st.FixA)
			id.BlendDst = normalizeFactor(st.BlendDst, st.FixB)
		} else {
			id.BlendSrc = FactorOne
			id.BlendDst = FactorOne
		}
	}

	id.Dithering = st.DitherEnable
	id.ApplyLogicOp = st.LogicOpEnable
	id.SharedStride = id.needsDepthOff() && st.Framebuf.Stride == st.Depthbuf.Stride
	return id
}

// needsDepthOff reports whether any stage addresses the depth buffer.
func (id PixelFuncID) needsDepthOff() bool {
	return id.DepthWrite || id.DepthTestFunc != gputypes.CompareFunctionAlways
}

// fusedOffsets reports whether the pixel index can overwrite the
// coordinate registers. Dithering reads x and y after the index is known.
func (id PixelFuncID) fusedOffsets() bool {
	return !id.Dithering && (id.SharedStride || !id.needsDepthOff())
}

// usesFactors reports whether the blend equation weights its operands.
func (id PixelFuncID) usesFactors() bool {
	return id.BlendEq == gstate.BlendAdd || id.BlendEq == gstate.BlendSubtract || id.BlendEq == gstate.BlendReverseSubtract
}

// usesDstAlpha reports whether a blend factor reads the framebuffer alpha.
func (id PixelFuncID) usesDstAlpha() bool {
	for _, f := range [2]BlendFactor{id.BlendSrc, id.BlendDst} {
		switch f {
		case FactorDstAlpha, FactorInvDstAlpha, FactorDoubleDstAlpha, FactorDoubleInvDstAlpha:
			return true
		}
	}
	return false
}

// writesStencil reports whether the stencil bits of the color write come
// from the pipeline rather than from the framebuffer.
func (id PixelFuncID) writesStencil() bool {
	if id.ClearMode {
		return id.StencilClear
	}
	return id.StencilTest && id.FBFormat != gstate.Format565
}

// String describes the ID for logs.
func (id PixelFuncID) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FB:%s", id.FBFormat)
	if id.ClearMode {
		b.WriteString(" Clear:")
		if id.ColorClear {
			b.WriteString("C")
		}
		if id.StencilClear {
			b.WriteString("S")
		}
		if id.DepthWrite {
			b.WriteString("Z")
		}
	}
	if id.ApplyDepthRange {
		b.WriteString(" DepthRange")
	}
	if !id.ClearMode && id.DepthTestFunc != gputypes.CompareFunctionAlways {
		fmt.Fprintf(&b, " Depth:%s", id.DepthTestFunc)
	}
	if !id.ClearMode && id.DepthWrite {
		b.WriteString(" DepthWrite")
	}
	if id.AlphaTestFunc != gputypes.CompareFunctionAlways {
		fmt.Fprintf(&b, " AlphaTest:%s/%02x", id.AlphaTestFunc, id.AlphaTestRef)
		if id.HasAlphaTestMask {
			b.WriteString("&mask")
		}
	}
	if id.ApplyFog {
		b.WriteString(" Fog")
	}
	if id.ColorTest {
		b.WriteString(" ColorTest")
	}
	if id.StencilTest {
		fmt.Fprintf(&b, " Stencil:%s/%02x", id.StencilTestFunc, id.StencilTestRef)
		if id.HasStencilTestMask {
			b.WriteString("&mask")
		}
		fmt.Fprintf(&b, " Ops:%s/%s/%s", id.SFail, id.ZFail, id.ZPass)
	}
	if id.AlphaBlend {
		fmt.Fprintf(&b, " Blend:%s(%s,%s)", id.BlendEq, id.BlendSrc, id.BlendDst)
	}
	if id.Dithering {
		b.WriteString(" Dither")
	}
	if id.ApplyLogicOp {
		b.WriteString(" LogicOp")
	}
	if id.ApplyColorWriteMask {
		b.WriteString(" WriteMask")
	}
	if id.SharedStride {
		b.WriteString(" SharedStride")
	}
	return b.String()
}
