package softgpu

import (
	"errors"

	"github.com/gogpu/softgpu/internal/raster"
)

var (
	// ErrClosed is returned by draws on a closed Renderer.
	ErrClosed = errors.New("softgpu: renderer closed")

	// ErrInvalidFramebuffer is returned when the state has no usable
	// color buffer.
	ErrInvalidFramebuffer = errors.New("softgpu: invalid framebuffer")

	// ErrVertexCount is returned when a primitive has too few vertices.
	ErrVertexCount = errors.New("softgpu: not enough vertices")

	// ErrNoTexture is returned by TextureImage when texturing is off or
	// the level does not exist.
	ErrNoTexture = raster.ErrNoTexture

	// ErrInvalidTextureAddress is returned by TextureImage when the level
	// does not resolve in memory.
	ErrInvalidTextureAddress = raster.ErrInvalidTextureAddress
)
