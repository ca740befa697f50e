package gstate

import "testing"

func TestBufferFormat_Info(t *testing.T) {
	tests := []struct {
		format      BufferFormat
		bpp         int
		stencilBits int
		stencilMask uint32
		name        string
	}{
		{Format565, 2, 0, 0, "565"},
		{Format5551, 2, 1, 0x8000, "5551"},
		{Format4444, 2, 4, 0xF000, "4444"},
		{Format8888, 4, 8, 0xFF000000, "8888"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.format.IsValid() {
				t.Fatal("IsValid() = false, want true")
			}
			info := tt.format.Info()
			if info.BytesPerPixel != tt.bpp || tt.format.BytesPerPixel() != tt.bpp {
				t.Errorf("BytesPerPixel = %d, want %d", info.BytesPerPixel, tt.bpp)
			}
			if info.StencilBits != tt.stencilBits || info.StencilMask != tt.stencilMask {
				t.Errorf("stencil = %d bits %#x, want %d bits %#x", info.StencilBits, info.StencilMask, tt.stencilBits, tt.stencilMask)
			}
			if got := tt.format.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}

	bad := BufferFormat(7)
	if bad.IsValid() || bad.BytesPerPixel() != 0 || bad.String() != "Unknown" {
		t.Errorf("BufferFormat(7) = valid %v, %d bytes, %q", bad.IsValid(), bad.BytesPerPixel(), bad.String())
	}
}

func TestTextureFormat_Info(t *testing.T) {
	tests := []struct {
		format TextureFormat
		bits   int
		clut   bool
		dxt    bool
	}{
		{Tex5650, 16, false, false},
		{Tex8888, 32, false, false},
		{TexCLUT4, 4, true, false},
		{TexCLUT32, 32, true, false},
		{TexDXT1, 4, false, true},
		{TexDXT5, 8, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BitsPerTexel(); got != tt.bits {
				t.Errorf("BitsPerTexel() = %d, want %d", got, tt.bits)
			}
			if got := tt.format.IsCLUT(); got != tt.clut {
				t.Errorf("IsCLUT() = %v, want %v", got, tt.clut)
			}
			if got := tt.format.IsDXT(); got != tt.dxt {
				t.Errorf("IsDXT() = %v, want %v", got, tt.dxt)
			}
		})
	}

	if TextureFormat(11).IsValid() {
		t.Error("TextureFormat(11).IsValid() = true, want false")
	}
}

func TestClutFormat_BytesPerEntry(t *testing.T) {
	for _, f := range []ClutFormat{Clut565, Clut5551, Clut4444} {
		if got := f.BytesPerEntry(); got != 2 {
			t.Errorf("%s.BytesPerEntry() = %d, want 2", f, got)
		}
	}
	if got := Clut8888.BytesPerEntry(); got != 4 {
		t.Errorf("8888.BytesPerEntry() = %d, want 4", got)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FactorSrcAlpha.String(), "SrcAlpha"},
		{BlendFactor(14).String(), "Fixed"},
		{BlendAbsDiff.String(), "AbsDiff"},
		{ColorTestFunc(6).String(), "Equal"},
		{LogicXor.String(), "Xor"},
		{TexFuncReplace.String(), "Replace"},
		{LevelSlope.String(), "Slope"},
		{FilterForceNearest.String(), "ForceNearest"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}
