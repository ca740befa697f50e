package pixel

import "github.com/gogpu/softgpu/gstate"

// logicOps maps each operation code to its bitwise handler over the new
// pixel s and the framebuffer contents d.
var logicOps = [16]func(s, d uint32) uint32{
	gstate.LogicClear:        func(s, d uint32) uint32 { return 0 },
	gstate.LogicAnd:          func(s, d uint32) uint32 { return s & d },
	gstate.LogicAndReverse:   func(s, d uint32) uint32 { return s &^ d },
	gstate.LogicCopy:         func(s, d uint32) uint32 { return s },
	gstate.LogicAndInverted:  func(s, d uint32) uint32 { return ^s & d },
	gstate.LogicNoop:         func(s, d uint32) uint32 { return d },
	gstate.LogicXor:          func(s, d uint32) uint32 { return s ^ d },
	gstate.LogicOr:           func(s, d uint32) uint32 { return s | d },
	gstate.LogicNor:          func(s, d uint32) uint32 { return ^(s | d) },
	gstate.LogicEquiv:        func(s, d uint32) uint32 { return ^(s ^ d) },
	gstate.LogicInverted:     func(s, d uint32) uint32 { return ^d },
	gstate.LogicOrReverse:    func(s, d uint32) uint32 { return s | ^d },
	gstate.LogicCopyInverted: func(s, d uint32) uint32 { return ^s },
	gstate.LogicOrInverted:   func(s, d uint32) uint32 { return ^s | d },
	gstate.LogicNand:         func(s, d uint32) uint32 { return ^(s & d) },
	gstate.LogicSet:          func(s, d uint32) uint32 { return 0xFFFFFFFF },
}

// ApplyLogicOp combines s and d with the operation. Only the low four bits
// of op are significant.
func ApplyLogicOp(op gstate.LogicOp, s, d uint32) uint32 {
	return logicOps[op&0xF](s, d)
}

// mergeLogicOp applies op to the color bits and then fills the stencil
// bits: with the new stencil when one is written, with the old ones
// otherwise.
func mergeLogicOp(f gstate.BufferFormat, op gstate.LogicOp, c, dst, stencil uint32, writeStencil bool) uint32 {
	sm := StencilBitMask(f)
	r := ApplyLogicOp(op, c, dst) &^ sm
	if writeStencil {
		return r | stencil&sm
	}
	return r | dst&sm
}
