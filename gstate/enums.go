package gstate

// BlendFactor is the hardware encoding of a blend factor. The same codes
// are used for the source and destination operands; "other" refers to
// the opposite operand and Fixed selects FixA for the source and FixB
// for the destination. Codes above FactorFixed behave as FactorFixed.
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
	FactorFixed
)

var blendFactorNames = [...]string{
	"OtherColor", "InvOtherColor", "SrcAlpha", "InvSrcAlpha", "DstAlpha",
	"InvDstAlpha", "DoubleSrcAlpha", "DoubleInvSrcAlpha", "DoubleDstAlpha",
	"DoubleInvDstAlpha", "Fixed",
}

// String returns a string representation of the factor.
func (f BlendFactor) String() string {
	if int(f) < len(blendFactorNames) {
		return blendFactorNames[f]
	}
	return "Fixed"
}

// BlendEquation combines the weighted source and destination colors.
type BlendEquation uint8

const (
	BlendAdd BlendEquation = iota
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
	BlendAbsDiff
)

var blendEquationNames = [...]string{"Add", "Subtract", "ReverseSubtract", "Min", "Max", "AbsDiff"}

// String returns a string representation of the equation.
func (e BlendEquation) String() string {
	if int(e) < len(blendEquationNames) {
		return blendEquationNames[e]
	}
	return "Unknown"
}

// ColorTestFunc is the color test comparison. Only the low two bits are
// significant.
type ColorTestFunc uint8

const (
	ColorTestNever ColorTestFunc = iota
	ColorTestAlways
	ColorTestEqual
	ColorTestNotEqual
)

// String returns a string representation of the function.
func (f ColorTestFunc) String() string {
	switch f & 3 {
	case ColorTestNever:
		return "Never"
	case ColorTestAlways:
		return "Always"
	case ColorTestEqual:
		return "Equal"
	default:
		return "NotEqual"
	}
}

// LogicOp is a bitwise operation between the new pixel (s) and the
// framebuffer contents (d).
type LogicOp uint8

const (
	LogicClear        LogicOp = iota // 0
	LogicAnd                         // s & d
	LogicAndReverse                  // s & ^d
	LogicCopy                        // s
	LogicAndInverted                 // ^s & d
	LogicNoop                        // d
	LogicXor                         // s ^ d
	LogicOr                          // s | d
	LogicNor                         // ^(s | d)
	LogicEquiv                       // ^(s ^ d)
	LogicInverted                    // ^d
	LogicOrReverse                   // s | ^d
	LogicCopyInverted                // ^s
	LogicOrInverted                  // ^s | d
	LogicNand                        // ^(s & d)
	LogicSet                         // all ones
)

var logicOpNames = [...]string{
	"Clear", "And", "AndReverse", "Copy", "AndInverted", "Noop", "Xor", "Or",
	"Nor", "Equiv", "Inverted", "OrReverse", "CopyInverted", "OrInverted",
	"Nand", "Set",
}

// String returns a string representation of the operation.
func (op LogicOp) String() string {
	return logicOpNames[op&0xF]
}

// TexFunc combines the texel color with the primitive color.
type TexFunc uint8

const (
	TexFuncModulate TexFunc = iota
	TexFuncDecal
	TexFuncBlend
	TexFuncReplace
	TexFuncAdd
)

var texFuncNames = [...]string{"Modulate", "Decal", "Blend", "Replace", "Add"}

// String returns a string representation of the function.
func (f TexFunc) String() string {
	if int(f) < len(texFuncNames) {
		return texFuncNames[f]
	}
	return "Add"
}

// LevelMode selects how the mip level detail is computed.
type LevelMode uint8

const (
	// LevelAuto derives the level from the texture coordinate slope.
	LevelAuto LevelMode = iota

	// LevelConst uses only LevelOffset16.
	LevelConst

	// LevelSlope derives the level from LodSlope.
	LevelSlope
)

// String returns a string representation of the mode.
func (m LevelMode) String() string {
	switch m {
	case LevelConst:
		return "Const"
	case LevelSlope:
		return "Slope"
	default:
		return "Auto"
	}
}

// FilterOverride forces a sampling filter regardless of the state.
type FilterOverride uint8

const (
	FilterAuto FilterOverride = iota
	FilterForceLinear
	FilterForceNearest
)

// String returns a string representation of the override.
func (f FilterOverride) String() string {
	switch f {
	case FilterForceLinear:
		return "ForceLinear"
	case FilterForceNearest:
		return "ForceNearest"
	default:
		return "Auto"
	}
}
