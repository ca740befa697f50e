package softgpu

import (
	"image"
	"image/color"
	"os"

	"golang.org/x/image/bmp"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/pixel"
)

// FramebufferImage converts the region of the color buffer to an opaque
// image. The alpha channel holds stencil bits and is not copied.
func (r *Renderer) FramebufferImage(st *gstate.State) (*image.NRGBA, error) {
	if err := validate(st); err != nil {
		return nil, err
	}
	f := st.FramebufFormat
	rect := regionRect(st)
	img := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	bounds := image.Rect(0, 0, st.Framebuf.Stride, st.Framebuf.Rows(f.BytesPerPixel()))

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			c := pixel.FromFormat(f, st.Framebuf.Get(f, x, y))
			img.SetNRGBA(x-rect.Min.X, y-rect.Min.Y, color.NRGBA{
				R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: 0xFF, // #nosec G115 -- byte lanes
			})
		}
	}
	return img, nil
}

// DepthImage copies the region of the depth buffer. Pixels outside the
// buffer read as 0.
func (r *Renderer) DepthImage(st *gstate.State) *image.Gray16 {
	rect := regionRect(st)
	img := image.NewGray16(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	bounds := image.Rect(0, 0, st.Depthbuf.Stride, st.Depthbuf.Rows(2))

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if (image.Point{X: x, Y: y}).In(bounds) {
				img.SetGray16(x-rect.Min.X, y-rect.Min.Y, color.Gray16{Y: st.Depthbuf.Get16(x, y)})
			}
		}
	}
	return img
}

// StencilImage copies the stencil values of the drawing region, expanded
// to 8 bits. Pixels outside the color buffer read as 0.
func (r *Renderer) StencilImage(st *gstate.State) *image.Gray {
	buf := r.r.StencilBuffer(st)
	return &image.Gray{Pix: buf.Data, Stride: buf.Width, Rect: image.Rect(0, 0, buf.Width, buf.Height)}
}

// TextureImage decodes one level of the bound texture.
func (r *Renderer) TextureImage(st *gstate.State, level int) (*image.NRGBA, error) {
	buf, err := r.r.Texture(st, level)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: buf.Data, Stride: buf.Width * 4, Rect: image.Rect(0, 0, buf.Width, buf.Height)}, nil
}

// regionRect is the inclusive drawing region as a half-open rectangle.
func regionRect(st *gstate.State) image.Rectangle {
	return image.Rect(st.RegionX1, st.RegionY1, max(st.RegionX2+1, st.RegionX1), max(st.RegionY2+1, st.RegionY1))
}

// SaveBMP writes img to path as an uncompressed BMP.
func SaveBMP(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
