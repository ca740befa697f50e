package softgpu

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/softgpu/gstate"
)

func TestFramebufferImage(t *testing.T) {
	tests := []struct {
		name   string
		format gstate.BufferFormat
		pixel  uint32
		want   color.NRGBA
	}{
		{"8888 drops stencil", gstate.Format8888, 0x80332211, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}},
		{"565 red", gstate.Format565, 0x001F, color.NRGBA{R: 0xFF, A: 0xFF}},
		{"565 green", gstate.Format565, 0x07E0, color.NRGBA{G: 0xFF, A: 0xFF}},
	}

	r := newRenderer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState(4, 4)
			st.FramebufFormat = tt.format
			st.Framebuf = gstate.NewSurface(4, 4, tt.format.BytesPerPixel())
			st.Framebuf.Set(tt.format, 2, 1, tt.pixel)
			st.RegionX1, st.RegionY1 = 1, 1

			img, err := r.FramebufferImage(st)
			if err != nil {
				t.Fatalf("FramebufferImage() error: %v", err)
			}
			if got := img.Bounds(); got != image.Rect(0, 0, 3, 3) {
				t.Fatalf("Bounds() = %v, want (0,0)-(3,3)", got)
			}
			if got := img.NRGBAAt(1, 0); got != tt.want {
				t.Errorf("NRGBAAt(1, 0) = %v, want %v", got, tt.want)
			}
			if got := img.NRGBAAt(0, 0); got != (color.NRGBA{A: 0xFF}) {
				t.Errorf("NRGBAAt(0, 0) = %v, want opaque black", got)
			}
		})
	}
}

func TestFramebufferImage_Invalid(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.FramebufferImage(&gstate.State{}); !errors.Is(err, ErrInvalidFramebuffer) {
		t.Errorf("FramebufferImage(empty) error = %v, want ErrInvalidFramebuffer", err)
	}
}

func TestDepthImage(t *testing.T) {
	r := newRenderer(t)
	st := newState(4, 4)
	st.Depthbuf.Set16(3, 3, 0xBEEF)
	// The region reaches one row past the buffer.
	st.RegionX1, st.RegionY1, st.RegionY2 = 2, 3, 4

	img := r.DepthImage(st)
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Bounds() = %v, want (0,0)-(2,2)", got)
	}
	if got := img.Gray16At(1, 0).Y; got != 0xBEEF {
		t.Errorf("Gray16At(1, 0) = %#04x, want 0xbeef", got)
	}
	if got := img.Gray16At(1, 1).Y; got != 0 {
		t.Errorf("Gray16At(1, 1) = %#04x, want 0 outside the buffer", got)
	}
}

func TestStencilImage(t *testing.T) {
	r := newRenderer(t)
	st := newState(4, 4)
	countStencil(st)

	v := vert(1, 2, 0xFFFFFFFF)
	for range 3 {
		if err := r.DrawPoint(st, &v); err != nil {
			t.Fatalf("DrawPoint() = %v", err)
		}
	}

	img := r.StencilImage(st)
	if got := img.Bounds(); got != image.Rect(0, 0, 4, 4) {
		t.Fatalf("Bounds() = %v, want (0,0)-(4,4)", got)
	}
	if got := img.GrayAt(1, 2).Y; got != 3 {
		t.Errorf("GrayAt(1, 2) = %d, want 3", got)
	}
	if got := img.GrayAt(2, 2).Y; got != 0 {
		t.Errorf("GrayAt(2, 2) = %d, want 0", got)
	}
}

func TestTextureImage(t *testing.T) {
	r := newRenderer(t)
	st := newState(4, 4)
	st.TextureEnable = true
	st.TextureFormat = gstate.Tex8888
	st.Memory = &gstate.Flat{Base: 0x1000, Data: []byte{
		0x10, 0x20, 0x30, 0xFF, 0x40, 0x50, 0x60, 0x80,
	}}
	st.Textures[0] = gstate.TextureLevel{Addr: 0x1000, BufWidth: 2, WidthLog2: 1}

	img, err := r.TextureImage(st, 0)
	if err != nil {
		t.Fatalf("TextureImage() error: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 1) {
		t.Fatalf("Bounds() = %v, want (0,0)-(2,1)", got)
	}
	if got, want := img.NRGBAAt(1, 0), (color.NRGBA{R: 0x40, G: 0x50, B: 0x60, A: 0x80}); got != want {
		t.Errorf("NRGBAAt(1, 0) = %v, want %v", got, want)
	}

	st.TextureEnable = false
	if _, err := r.TextureImage(st, 0); !errors.Is(err, ErrNoTexture) {
		t.Errorf("TextureImage(disabled) error = %v, want ErrNoTexture", err)
	}
}

func TestSaveBMP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF})

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := SaveBMP(path, img); err != nil {
		t.Fatalf("SaveBMP() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("bmp.Decode() error: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("decoded Bounds() = %v, want %v", got.Bounds(), img.Bounds())
	}
	r, g, b, _ := got.At(2, 1).RGBA()
	if r>>8 != 0xAA || g>>8 != 0xBB || b>>8 != 0xCC {
		t.Errorf("decoded At(2, 1) = %x %x %x, want aa bb cc", r>>8, g>>8, b>>8)
	}
}

func TestSaveBMP_BadPath(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	if err := SaveBMP(filepath.Join(t.TempDir(), "missing", "out.bmp"), img); err == nil {
		t.Error("SaveBMP() into a missing directory: error = nil, want error")
	}
}
