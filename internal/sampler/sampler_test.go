package sampler

import (
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// newContext builds a single level context without going through a State.
func newContext(id SamplerID, data []byte, wlog, hlog uint8, bufw int) *Context {
	ctx := &Context{ID: id}
	ctx.Levels[0] = Level{Data: data, Bufw: bufw, WidthLog2: wlog, HeightLog2: hlog}
	return ctx
}

func mustCompile(t *testing.T, id SamplerID) Funcs {
	t.Helper()
	f, err := Compile(id)
	if err != nil {
		t.Fatalf("Compile(%s) error: %v", id, err)
	}
	return f
}

// replaceID passes texels through unchanged.
func replaceID(f gstate.TextureFormat) SamplerID {
	return SamplerID{TexFormat: f, TexFunc: gstate.TexFuncReplace, TextureAlpha: true, UseSharedClut: true, ClutSimple: true, ClutMask: 0xFF}
}

// =============================================================================
// Decoding
// =============================================================================

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		got  wide.I32x4
		want wide.I32x4
	}{
		{"5650 red", Decode5650(0x001F), wide.I32x4{255, 0, 0, 255}},
		{"5650 green", Decode5650(0x07E0), wide.I32x4{0, 255, 0, 255}},
		{"5650 blue", Decode5650(0xF800), wide.I32x4{0, 0, 255, 255}},
		{"5650 low bits replicate", Decode5650(0x0010), wide.I32x4{132, 0, 0, 255}},
		{"5551 opaque", Decode5551(0x8000), wide.I32x4{0, 0, 0, 255}},
		{"5551 transparent", Decode5551(0x7FFF), wide.I32x4{255, 255, 255, 0}},
		{"4444", Decode4444(0xF0A5), wide.I32x4{0x55, 0xAA, 0, 0xFF}},
		{"8888", Decode8888(0x80402010), wide.I32x4{0x10, 0x20, 0x40, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("decode = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

// =============================================================================
// Addressing
// =============================================================================

// swizzle rearranges a linear texture into 16 byte by 8 row blocks.
func swizzle(src []byte, rowBytes, rows int) []byte {
	dst := make([]byte, len(src))
	for v := range rows {
		for xb := range rowBytes {
			dst[swizzledOffset(xb, v, rowBytes)] = src[v*rowBytes+xb]
		}
	}
	return dst
}

func TestFetch_SwizzledMatchesLinear(t *testing.T) {
	const width, height = 32, 16
	rng := rand.New(rand.NewPCG(7, 8))

	clut := make([]byte, 256*4)
	for i := range clut {
		clut[i] = byte(rng.Uint32())
	}

	for _, f := range []gstate.TextureFormat{gstate.TexCLUT4, gstate.TexCLUT8, gstate.Tex5650, gstate.Tex8888} {
		t.Run(f.String(), func(t *testing.T) {
			rowBytes := width * f.BitsPerTexel() / 8
			linear := make([]byte, rowBytes*height)
			for i := range linear {
				linear[i] = byte(rng.Uint32())
			}
			swizzled := swizzle(linear, rowBytes, height)

			id := replaceID(f)
			id.ClutFormat = gstate.Clut8888
			plain := mustCompile(t, id).Fetch
			id.Swizzled = true
			sw := mustCompile(t, id).Fetch

			ctx := &Context{ID: id, CLUT: clut}
			for v := range height {
				for u := range width {
					want := plain(u, v, linear, width, 0, ctx)
					got := sw(u, v, swizzled, width, 0, ctx)
					if got != want {
						t.Fatalf("texel (%d,%d): swizzled %v, linear %v", u, v, got, want)
					}
				}
			}
		})
	}
}

func TestFetch_OutOfRange(t *testing.T) {
	fetch := mustCompile(t, replaceID(gstate.Tex8888)).Fetch
	if got := fetch(3, 3, make([]byte, 4), 4, 0, &Context{}); got != (wide.I32x4{}) {
		t.Errorf("fetch past data = %v, want zero", got)
	}
}

// =============================================================================
// CLUT
// =============================================================================

// identityClut returns an 8888 palette whose entry i has red i&0xFF and
// green i>>8.
func identityClut(n int) []byte {
	clut := make([]byte, n*4)
	for i := range n {
		binary.LittleEndian.PutUint32(clut[i*4:], uint32(i&0xFF)|uint32(i>>8)<<8)
	}
	return clut
}

func TestFetch_ClutIndexTransform(t *testing.T) {
	tests := []struct {
		name   string
		shift  uint8
		mask   uint8
		offset uint8
		raw    byte
		want   int32
	}{
		{"simple", 0, 0xFF, 0, 0xAB, 0xAB},
		{"shift and mask", 4, 0x0F, 0, 0xAB, 0x0A},
		{"offset", 4, 0x0F, 1, 0xAB, 0x1A},
		{"mask only", 0, 0x3F, 0, 0xFF, 0x3F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &gstate.State{
				TextureFormat: gstate.TexCLUT8,
				ClutFormat:    gstate.Clut8888,
				ClutShift:     tt.shift,
				ClutMask:      tt.mask,
				ClutOffset:    tt.offset,
				TexFunc:       gstate.TexFuncReplace,
				TextureAlpha:  true,
			}
			id := ComputeID(st)
			fetch := mustCompile(t, id).Fetch
			ctx := &Context{ID: id, CLUT: identityClut(256)}
			got := fetch(0, 0, []byte{tt.raw}, 1, 0, ctx)
			if got[0] != tt.want {
				t.Errorf("palette entry = %#x, want %#x (%s)", got[0], tt.want, id)
			}
		})
	}
}

func TestFetch_ClutPerLevel(t *testing.T) {
	st := &gstate.State{
		TextureFormat: gstate.TexCLUT4,
		ClutFormat:    gstate.Clut8888,
		ClutMask:      0xFF,
		MipmapEnable:  true,
		MaxLevel:      2,
	}
	id := ComputeID(st)
	if id.UseSharedClut {
		t.Fatalf("ComputeID() = %s, want per-level palette", id)
	}
	fetch := mustCompile(t, id).Fetch
	ctx := &Context{ID: id, CLUT: identityClut(64)}

	if got := fetch(1, 0, []byte{0x30}, 2, 2, ctx); got[0] != 0x23 {
		t.Errorf("level 2 entry = %#x, want 0x23", got[0])
	}

	st.ClutShared = true
	if !ComputeID(st).UseSharedClut {
		t.Error("ClutShared did not select the shared palette")
	}
}

func TestFetch_Clut16(t *testing.T) {
	id := replaceID(gstate.TexCLUT16)
	id.ClutFormat = gstate.Clut4444
	clut := make([]byte, 512*2)
	binary.LittleEndian.PutUint16(clut[0x123*2:], 0xF0A5)

	fetch := mustCompile(t, id).Fetch
	ctx := &Context{ID: id, CLUT: clut}
	tex := []byte{0x23, 0x01}
	if got, want := fetch(0, 0, tex, 1, 0, ctx), Decode4444(0xF0A5); got != want {
		t.Errorf("CLUT16 texel = %v, want %v", got, want)
	}
}

// =============================================================================
// DXT
// =============================================================================

func dxtBlock(c1, c2 uint16, lines uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], lines)
	binary.LittleEndian.PutUint16(b[4:], c1)
	binary.LittleEndian.PutUint16(b[6:], c2)
	return b
}

func TestFetch_DXT1(t *testing.T) {
	fetch := mustCompile(t, replaceID(gstate.TexDXT1)).Fetch
	ctx := &Context{}

	tests := []struct {
		name  string
		block []byte
		want  wide.I32x4
	}{
		{"color 0", dxtBlock(0xFFFF, 0x0000, 0), wide.I32x4{255, 255, 255, 255}},
		{"color 1", dxtBlock(0xFFFF, 0x0000, 0x55555555), wide.I32x4{0, 0, 0, 255}},
		{"two thirds", dxtBlock(0xFFFF, 0x0000, 0xAAAAAAAA), wide.I32x4{170, 170, 170, 255}},
		{"one third", dxtBlock(0xFFFF, 0x0000, 0xFFFFFFFF), wide.I32x4{85, 85, 85, 255}},
		{"half", dxtBlock(0x0000, 0xFFFF, 0xAAAAAAAA), wide.I32x4{127, 127, 127, 255}},
		{"transparent", dxtBlock(0x0000, 0xFFFF, 0xFFFFFFFF), wide.I32x4{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fetch(2, 1, tt.block, 4, 0, ctx); got != tt.want {
				t.Errorf("DXT1 texel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetch_DXT3Alpha(t *testing.T) {
	b := make([]byte, 16)
	copy(b, dxtBlock(0x0000, 0xFFFF, 0xFFFFFFFF))
	binary.LittleEndian.PutUint16(b[8:], 0x00F0)

	fetch := mustCompile(t, replaceID(gstate.TexDXT3)).Fetch
	ctx := &Context{}

	// DXT3 never uses the transparent color.
	if got := fetch(1, 0, b, 4, 0, ctx); got != (wide.I32x4{170, 170, 170, 255}) {
		t.Errorf("texel (1,0) = %v, want opaque third", got)
	}
	if got := fetch(0, 0, b, 4, 0, ctx); got[3] != 0 {
		t.Errorf("texel (0,0) alpha = %d, want 0", got[3])
	}
}

func TestFetch_DXT5Alpha(t *testing.T) {
	b := make([]byte, 16)
	copy(b, dxtBlock(0xFFFF, 0xFFFF, 0))
	// Texel 1 uses index 2, texel 2 index 1.
	binary.LittleEndian.PutUint32(b[8:], 2<<3|1<<6)
	b[14], b[15] = 200, 100

	fetch := mustCompile(t, replaceID(gstate.TexDXT5)).Fetch
	ctx := &Context{}

	want := []int32{200, 185, 100}
	for x, w := range want {
		if got := fetch(x, 0, b, 4, 0, ctx); got[3] != w {
			t.Errorf("texel %d alpha = %d, want %d", x, got[3], w)
		}
	}

	// With a1 <= a2, indices 6 and 7 are 0 and 255.
	b[14], b[15] = 100, 200
	binary.LittleEndian.PutUint32(b[8:], 6|7<<3)
	if got := fetch(0, 0, b, 4, 0, ctx); got[3] != 0 {
		t.Errorf("index 6 alpha = %d, want 0", got[3])
	}
	if got := fetch(1, 0, b, 4, 0, ctx); got[3] != 255 {
		t.Errorf("index 7 alpha = %d, want 255", got[3])
	}
}

// =============================================================================
// Filtering
// =============================================================================

func texture8888(texels ...uint32) []byte {
	b := make([]byte, len(texels)*4)
	for i, c := range texels {
		binary.LittleEndian.PutUint32(b[i*4:], c)
	}
	return b
}

func TestNearest_Addressing(t *testing.T) {
	data := texture8888(0xFF000000, 0xFF000001, 0xFF000002, 0xFF000003)

	tests := []struct {
		name  string
		clamp bool
		s     float32
		want  int32
	}{
		{"center 0", false, 0.125, 0},
		{"center 2", false, 0.625, 2},
		{"repeat", false, 1.375, 1},
		{"repeat negative", false, -0.125, 3},
		{"clamp high", true, 1.375, 3},
		{"clamp low", true, -0.125, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := replaceID(gstate.Tex8888)
			id.ClampS = tt.clamp
			ctx := newContext(id, data, 2, 0, 4)
			got := mustCompile(t, id).Nearest(tt.s, 0.5, subTexelBias, subTexelBias, wide.I32x4{}, 0, 0, ctx)
			if got[0] != tt.want {
				t.Errorf("Nearest(s=%v) texel = %d, want %d", tt.s, got[0], tt.want)
			}
		})
	}
}

func TestLinear_Checker(t *testing.T) {
	const white, black = 0xFFFFFFFF, 0xFF000000
	data := texture8888(white, black, black, white)
	id := replaceID(gstate.Tex8888)
	ctx := newContext(id, data, 1, 1, 2)
	linear := mustCompile(t, id).Linear

	got := linear(0.5, 0.5, subTexelBias, subTexelBias, wide.I32x4{}, 0, 0, ctx)
	if want := (wide.I32x4{127, 127, 127, 255}); got != want {
		t.Errorf("center of checker = %v, want %v", got, want)
	}

	// On a texel center the weights select that texel alone.
	got = linear(0.25, 0.25, subTexelBias, subTexelBias, wide.I32x4{}, 0, 0, ctx)
	if want := (wide.I32x4{255, 255, 255, 255}); got != want {
		t.Errorf("texel center = %v, want %v", got, want)
	}
}

func TestSample_MipBlend(t *testing.T) {
	id := replaceID(gstate.Tex8888)
	id.HasMips = true
	ctx := &Context{ID: id, MaxLevel: 1}
	ctx.Levels[0] = Level{Data: texture8888(0xFFFFFFFF), Bufw: 1}
	ctx.Levels[1] = Level{Data: texture8888(0xFF000000), Bufw: 1}
	f := mustCompile(t, id)

	for _, tt := range []struct {
		name string
		fn   NearestFunc
	}{
		{"nearest", f.Nearest},
		{"linear", NearestFunc(f.Linear)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(0.5, 0.5, subTexelBias, subTexelBias, wide.I32x4{}, 0, 8, ctx)
			if want := (wide.I32x4{127, 127, 127, 255}); got != want {
				t.Errorf("half mip blend = %v, want %v", got, want)
			}
			got = tt.fn(0.5, 0.5, subTexelBias, subTexelBias, wide.I32x4{}, 0, 0, ctx)
			if got[0] != 255 {
				t.Errorf("no blend red = %d, want 255", got[0])
			}
		})
	}
}

// =============================================================================
// Texture Functions
// =============================================================================

func TestApplyTextureFunc(t *testing.T) {
	prim := wide.I32x4{255, 128, 0, 200}
	tex := wide.I32x4{100, 200, 255, 50}
	env := wide.I32x4{10, 20, 30, 0}

	tests := []struct {
		name string
		id   SamplerID
		want wide.I32x4
	}{
		{"modulate rgb", SamplerID{TexFunc: gstate.TexFuncModulate}, wide.I32x4{100, 100, 0, 200}},
		{"modulate rgba", SamplerID{TexFunc: gstate.TexFuncModulate, TextureAlpha: true}, wide.I32x4{100, 100, 0, 39}},
		{"modulate doubled", SamplerID{TexFunc: gstate.TexFuncModulate, ColorDoubling: true}, wide.I32x4{200, 201, 1, 200}},
		{"decal rgb", SamplerID{TexFunc: gstate.TexFuncDecal}, wide.I32x4{100, 200, 255, 200}},
		{"replace rgba", SamplerID{TexFunc: gstate.TexFuncReplace, TextureAlpha: true}, tex},
		{"replace rgb", SamplerID{TexFunc: gstate.TexFuncReplace}, wide.I32x4{100, 200, 255, 200}},
		{"add", SamplerID{TexFunc: gstate.TexFuncAdd}, wide.I32x4{255, 255, 255, 200}},
		{"blend", SamplerID{TexFunc: gstate.TexFuncBlend}, wide.I32x4{159, 44, 30, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyTextureFunc(tt.id, prim, tex, env); got != tt.want {
				t.Errorf("ApplyTextureFunc() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileTexFunc_MatchesApply(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	channel := func() int32 { return int32(rng.IntN(256)) }
	vec := func() wide.I32x4 { return wide.I32x4{channel(), channel(), channel(), channel()} }

	for fn := gstate.TexFuncModulate; fn <= gstate.TexFuncAdd; fn++ {
		for _, alpha := range []bool{false, true} {
			for _, double := range []bool{false, true} {
				id := SamplerID{TexFunc: fn, TextureAlpha: alpha, ColorDoubling: double}
				compiled := compileTexFunc(id)
				for range 200 {
					prim, tex, env := vec(), vec(), vec()
					if got, want := compiled(prim, tex, env), ApplyTextureFunc(id, prim, tex, env); got != want {
						t.Fatalf("%s: compiled %v, want %v (prim %v tex %v)", id, got, want, prim, tex)
					}
				}
			}
		}
	}
}

// =============================================================================
// IDs and Contexts
// =============================================================================

func TestComputeID(t *testing.T) {
	st := &gstate.State{
		TextureFormat: gstate.TexCLUT8,
		ClutFormat:    gstate.Clut5551,
		ClutMask:      0xFF,
		AddressU:      gputypes.AddressModeClampToEdge,
		AddressV:      gputypes.AddressModeRepeat,
		TexFunc:       gstate.TexFunc(7),
	}
	id := ComputeID(st)
	if !id.ClutSimple || !id.UseSharedClut {
		t.Errorf("ComputeID() = %s, want simple shared palette", id)
	}
	if !id.ClampS || id.ClampT {
		t.Errorf("ComputeID() clamp = %v/%v, want true/false", id.ClampS, id.ClampT)
	}
	if id.TexFunc != gstate.TexFuncAdd {
		t.Errorf("TexFunc = %s, want Add for unknown codes", id.TexFunc)
	}

	// Palette settings do not split direct formats.
	a := ComputeID(&gstate.State{TextureFormat: gstate.Tex5650, ClutShift: 3})
	b := ComputeID(&gstate.State{TextureFormat: gstate.Tex5650, ClutMask: 0x0F})
	if a != b {
		t.Errorf("direct format IDs differ: %s vs %s", a, b)
	}
}

func TestCompile_Unsupported(t *testing.T) {
	if _, err := Compile(SamplerID{TexFormat: gstate.TextureFormat(40)}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Compile(bad format) err = %v, want ErrUnsupported", err)
	}

	f := Fallback(SamplerID{TexFormat: gstate.TextureFormat(40), TexFunc: gstate.TexFuncReplace, TextureAlpha: true})
	ctx := &Context{}
	if got := f.Nearest(0.5, 0.5, 0, 0, wide.I32x4{1, 2, 3, 4}, 0, 0, ctx); got != (wide.I32x4{}) {
		t.Errorf("fallback texel = %v, want transparent black", got)
	}
}

func TestNewContext(t *testing.T) {
	mem := &gstate.Flat{Base: 0x1000, Data: make([]byte, 64)}
	st := &gstate.State{
		TextureFormat: gstate.Tex8888,
		Memory:        mem,
		EnvColor:      0xFF010203,
	}
	st.Textures[0] = gstate.TextureLevel{Addr: 0x1000, BufWidth: 4, WidthLog2: 2, HeightLog2: 2}

	ctx, err := NewContext(ComputeID(st), st)
	if err != nil {
		t.Fatalf("NewContext() error: %v", err)
	}
	if len(ctx.Levels[0].Data) != 64 || ctx.Levels[0].Bufw != 4 {
		t.Errorf("level 0 = %d bytes bufw %d, want 64 bytes bufw 4", len(ctx.Levels[0].Data), ctx.Levels[0].Bufw)
	}
	if ctx.EnvColor != (wide.I32x4{3, 2, 1, 0}) {
		t.Errorf("EnvColor = %v, want {3 2 1 0}", ctx.EnvColor)
	}

	st.Textures[0].HeightLog2 = 3
	ctx, err = NewContext(ComputeID(st), st)
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("NewContext(oversized) err = %v, want ErrInvalidAddress", err)
	}
	if ctx == nil || ctx.Levels[0].Data != nil {
		t.Fatal("NewContext(oversized) should return a context with an empty level")
	}
	if got := mustCompile(t, ComputeID(st)).Fetch(0, 0, ctx.Levels[0].Data, 4, 0, ctx); got != (wide.I32x4{}) {
		t.Errorf("fetch from unresolved level = %v, want transparent", got)
	}
}
