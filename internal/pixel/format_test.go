package pixel

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
)

// =============================================================================
// Color Conversion
// =============================================================================

func TestFormatConversion(t *testing.T) {
	tests := []struct {
		name      string
		format    gstate.BufferFormat
		color     uint32
		withAlpha bool
		want      uint32
	}{
		{"565 white", gstate.Format565, 0xFFFFFFFF, false, 0xFFFF},
		{"565 red", gstate.Format565, 0xFF0000FF, false, 0x001F},
		{"565 green", gstate.Format565, 0xFF00FF00, false, 0x07E0},
		{"565 blue", gstate.Format565, 0xFFFF0000, false, 0xF800},
		{"5551 opaque", gstate.Format5551, 0xFF0000FF, true, 0x801F},
		{"5551 alpha dropped", gstate.Format5551, 0xFF0000FF, false, 0x001F},
		{"5551 low alpha", gstate.Format5551, 0x7F00FF00, true, 0x03E0},
		{"4444 opaque", gstate.Format4444, 0xF0F0F0F0, true, 0xFFFF},
		{"4444 alpha dropped", gstate.Format4444, 0xA0302010, false, 0x0321},
		{"4444 alpha kept", gstate.Format4444, 0xA0302010, true, 0xA321},
		{"8888 passthrough", gstate.Format8888, 0x12345678, false, 0x12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToFormat(tt.format, tt.color, tt.withAlpha); got != tt.want {
				t.Errorf("ToFormat(%s, %#08x, %v) = %#04x, want %#04x", tt.format, tt.color, tt.withAlpha, got, tt.want)
			}
		})
	}
}

func TestFormatExpansion(t *testing.T) {
	tests := []struct {
		name   string
		format gstate.BufferFormat
		pixel  uint32
		want   uint32
	}{
		{"565 white", gstate.Format565, 0xFFFF, 0x00FFFFFF},
		{"565 red", gstate.Format565, 0x001F, 0x000000FF},
		{"565 mid green", gstate.Format565, 0x0400, 0x00008200},
		{"5551 opaque red", gstate.Format5551, 0x801F, 0xFF0000FF},
		{"5551 transparent blue", gstate.Format5551, 0x7C00, 0x00FF0000},
		{"4444 nibbles", gstate.Format4444, 0xA321, 0xAA332211},
		{"8888 passthrough", gstate.Format8888, 0x12345678, 0x12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFormat(tt.format, tt.pixel); got != tt.want {
				t.Errorf("FromFormat(%s, %#04x) = %#08x, want %#08x", tt.format, tt.pixel, got, tt.want)
			}
		})
	}
}

// Expanding and converting back must be lossless for every 16-bit pixel.
func TestFormatRoundTrip16(t *testing.T) {
	for _, f := range []gstate.BufferFormat{gstate.Format565, gstate.Format5551, gstate.Format4444} {
		for v := uint32(0); v <= 0xFFFF; v++ {
			if f == gstate.Format565 {
				if got := To565(From565(v)); got != v {
					t.Fatalf("565 round trip of %#04x = %#04x", v, got)
				}
				continue
			}
			if got := ToFormat(f, FromFormat(f, v), true); got != v {
				t.Fatalf("%s round trip of %#04x = %#04x", f, v, got)
			}
		}
	}
}

// =============================================================================
// Stencil
// =============================================================================

func TestReadStencil(t *testing.T) {
	tests := []struct {
		format gstate.BufferFormat
		pixel  uint32
		want   uint8
	}{
		{gstate.Format565, 0xFFFF, 0},
		{gstate.Format5551, 0x8000, 0xFF},
		{gstate.Format5551, 0x7FFF, 0},
		{gstate.Format4444, 0xA000, 0xAA},
		{gstate.Format4444, 0x0FFF, 0},
		{gstate.Format8888, 0x7F000000, 0x7F},
	}

	for _, tt := range tests {
		if got := ReadStencil(tt.format, tt.pixel); got != tt.want {
			t.Errorf("ReadStencil(%s, %#x) = %#02x, want %#02x", tt.format, tt.pixel, got, tt.want)
		}
	}
}

func TestWriteStencil(t *testing.T) {
	tests := []struct {
		name      string
		format    gstate.BufferFormat
		pixel     uint32
		stencil   uint8
		alphaMask uint8
		masked    bool
		want      uint32
	}{
		{"565 untouched", gstate.Format565, 0x1234, 0xFF, 0, false, 0x1234},
		{"5551 set", gstate.Format5551, 0x1234, 0x80, 0, false, 0x9234},
		{"5551 clear", gstate.Format5551, 0x9234, 0x7F, 0, false, 0x1234},
		{"4444 nibble", gstate.Format4444, 0x0123, 0xB7, 0, false, 0xB123},
		{"8888 byte", gstate.Format8888, 0x00123456, 0x42, 0, false, 0x42123456},
		{"8888 masked", gstate.Format8888, 0xF0123456, 0x0F, 0xF0, true, 0xFF123456},
		{"8888 mask ignored", gstate.Format8888, 0xF0123456, 0x0F, 0xF0, false, 0x0F123456},
		{"5551 masked keeps bit", gstate.Format5551, 0x8000, 0x00, 0x80, true, 0x8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WriteStencil(tt.format, tt.pixel, tt.stencil, tt.alphaMask, tt.masked)
			if got != tt.want {
				t.Errorf("WriteStencil() = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestApplyStencilOp(t *testing.T) {
	tests := []struct {
		name   string
		format gstate.BufferFormat
		op     gputypes.StencilOperation
		in     uint8
		want   uint8
	}{
		{"keep", gstate.Format8888, gputypes.StencilOperationKeep, 0x42, 0x42},
		{"zero", gstate.Format8888, gputypes.StencilOperationZero, 0x42, 0},
		{"replace", gstate.Format8888, gputypes.StencilOperationReplace, 0x42, 0x99},
		{"invert", gstate.Format8888, gputypes.StencilOperationInvert, 0x0F, 0xF0},

		{"8888 incr", gstate.Format8888, gputypes.StencilOperationIncrementClamp, 0x41, 0x42},
		{"8888 incr saturates", gstate.Format8888, gputypes.StencilOperationIncrementClamp, 0xFF, 0xFF},
		{"8888 incr wrap saturates", gstate.Format8888, gputypes.StencilOperationIncrementWrap, 0xFF, 0xFF},
		{"8888 decr", gstate.Format8888, gputypes.StencilOperationDecrementClamp, 0x42, 0x41},
		{"8888 decr saturates", gstate.Format8888, gputypes.StencilOperationDecrementClamp, 0, 0},

		{"4444 incr", gstate.Format4444, gputypes.StencilOperationIncrementClamp, 0x22, 0x33},
		{"4444 incr saturates", gstate.Format4444, gputypes.StencilOperationIncrementClamp, 0xF0, 0xF0},
		{"4444 incr below top", gstate.Format4444, gputypes.StencilOperationIncrementClamp, 0xEE, 0xFF},
		{"4444 decr", gstate.Format4444, gputypes.StencilOperationDecrementClamp, 0x33, 0x22},
		{"4444 decr saturates", gstate.Format4444, gputypes.StencilOperationDecrementClamp, 0x10, 0x10},

		{"5551 incr", gstate.Format5551, gputypes.StencilOperationIncrementClamp, 0, 0xFF},
		{"5551 decr", gstate.Format5551, gputypes.StencilOperationDecrementClamp, 0xFF, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyStencilOp(tt.format, tt.op, tt.in, 0x99); got != tt.want {
				t.Errorf("ApplyStencilOp(%s, %s, %#02x) = %#02x, want %#02x", tt.format, tt.op, tt.in, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		fn   gputypes.CompareFunction
		a, b int32
		want bool
	}{
		{gputypes.CompareFunctionNever, 1, 1, false},
		{gputypes.CompareFunctionLess, 1, 2, true},
		{gputypes.CompareFunctionLess, 2, 2, false},
		{gputypes.CompareFunctionEqual, 2, 2, true},
		{gputypes.CompareFunctionLessEqual, 2, 2, true},
		{gputypes.CompareFunctionGreater, 3, 2, true},
		{gputypes.CompareFunctionNotEqual, 3, 2, true},
		{gputypes.CompareFunctionGreaterEqual, 1, 2, false},
		{gputypes.CompareFunctionAlways, 1, 2, true},
		{gputypes.CompareFunctionUndefined, 1, 2, true},
	}

	for _, tt := range tests {
		if got := Compare(tt.fn, tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%s, %d, %d) = %v, want %v", tt.fn, tt.a, tt.b, got, tt.want)
		}
		if got := compareFunc(tt.fn)(tt.a, tt.b); got != tt.want {
			t.Errorf("compareFunc(%s)(%d, %d) = %v, want %v", tt.fn, tt.a, tt.b, got, tt.want)
		}
	}
}

// =============================================================================
// Logic Ops
// =============================================================================

func TestApplyLogicOp(t *testing.T) {
	// Every combination of one source and one destination bit.
	const s, d = 0b1100, 0b1010

	tests := []struct {
		op   gstate.LogicOp
		want uint32
	}{
		{gstate.LogicClear, 0b0000},
		{gstate.LogicAnd, 0b1000},
		{gstate.LogicAndReverse, 0b0100},
		{gstate.LogicCopy, 0b1100},
		{gstate.LogicAndInverted, 0b0010},
		{gstate.LogicNoop, 0b1010},
		{gstate.LogicXor, 0b0110},
		{gstate.LogicOr, 0b1110},
		{gstate.LogicNor, 0b0001},
		{gstate.LogicEquiv, 0b1001},
		{gstate.LogicInverted, 0b0101},
		{gstate.LogicOrReverse, 0b1101},
		{gstate.LogicCopyInverted, 0b0011},
		{gstate.LogicOrInverted, 0b1011},
		{gstate.LogicNand, 0b0111},
		{gstate.LogicSet, 0b1111},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := ApplyLogicOp(tt.op, s, d) & 0xF; got != tt.want {
				t.Errorf("ApplyLogicOp(%s) = %04b, want %04b", tt.op, got, tt.want)
			}
		})
	}
}

func TestMergeLogicOp(t *testing.T) {
	// Stencil bits come from the new stencil or the old pixel, never from
	// the operation.
	got := mergeLogicOp(gstate.Format4444, gstate.LogicSet, 0x0000, 0x5000, 0xA000, true)
	if got&0xFFFF != 0xAFFF {
		t.Errorf("merge with stencil = %#04x, want 0xafff", got&0xFFFF)
	}
	got = mergeLogicOp(gstate.Format4444, gstate.LogicSet, 0x0000, 0x5000, 0xA000, false)
	if got&0xFFFF != 0x5FFF {
		t.Errorf("merge keeping stencil = %#04x, want 0x5fff", got&0xFFFF)
	}
	got = mergeLogicOp(gstate.Format565, gstate.LogicInverted, 0, 0x00FF, 0, false)
	if got&0xFFFF != 0xFF00 {
		t.Errorf("565 merge = %#04x, want 0xff00", got&0xFFFF)
	}
}
