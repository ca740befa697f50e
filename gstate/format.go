package gstate

// BufferFormat is the pixel layout of the color buffer.
type BufferFormat uint8

const (
	// Format565 is 16-bit RGB with no stencil bits. Stencil reads as 0.
	Format565 BufferFormat = iota

	// Format5551 is 16-bit RGB with a single stencil bit in bit 15.
	Format5551

	// Format4444 is 16-bit RGB with a 4-bit stencil nibble in bits 12-15.
	Format4444

	// Format8888 is 32-bit RGB with an 8-bit stencil in the top byte.
	Format8888

	bufferFormatCount
)

// BufferFormatInfo contains metadata about a color buffer format.
type BufferFormatInfo struct {
	// BytesPerPixel is 2 for the 16-bit formats and 4 for 8888.
	BytesPerPixel int

	// StencilBits is the number of stencil bits stored per pixel.
	StencilBits int

	// StencilMask selects the stencil bits of a packed pixel.
	StencilMask uint32
}

var bufferFormatInfoTable = [bufferFormatCount]BufferFormatInfo{
	Format565:  {BytesPerPixel: 2, StencilBits: 0, StencilMask: 0},
	Format5551: {BytesPerPixel: 2, StencilBits: 1, StencilMask: 0x8000},
	Format4444: {BytesPerPixel: 2, StencilBits: 4, StencilMask: 0xF000},
	Format8888: {BytesPerPixel: 4, StencilBits: 8, StencilMask: 0xFF000000},
}

// Info returns the BufferFormatInfo for this format.
func (f BufferFormat) Info() BufferFormatInfo {
	if f >= bufferFormatCount {
		return BufferFormatInfo{}
	}
	return bufferFormatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f BufferFormat) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// IsValid returns true if the format is a known buffer format.
func (f BufferFormat) IsValid() bool {
	return f < bufferFormatCount
}

// String returns a string representation of the format.
func (f BufferFormat) String() string {
	switch f {
	case Format565:
		return "565"
	case Format5551:
		return "5551"
	case Format4444:
		return "4444"
	case Format8888:
		return "8888"
	default:
		return "Unknown"
	}
}

// TextureFormat is the texel layout of a bound texture.
type TextureFormat uint8

const (
	Tex5650 TextureFormat = iota
	Tex5551
	Tex4444
	Tex8888
	TexCLUT4
	TexCLUT8
	TexCLUT16
	TexCLUT32
	TexDXT1
	TexDXT3
	TexDXT5

	textureFormatCount
)

// TextureFormatInfo contains metadata about a texture format.
type TextureFormatInfo struct {
	// BitsPerTexel is the storage size of one texel. DXT formats report
	// the average over a 4x4 block.
	BitsPerTexel int

	// IsCLUT indicates a palette-indexed format.
	IsCLUT bool

	// IsDXT indicates a block-compressed format.
	IsDXT bool

	// BlockBytes is the size of one 4x4 block for DXT formats.
	BlockBytes int
}

var textureFormatInfoTable = [textureFormatCount]TextureFormatInfo{
	Tex5650:   {BitsPerTexel: 16},
	Tex5551:   {BitsPerTexel: 16},
	Tex4444:   {BitsPerTexel: 16},
	Tex8888:   {BitsPerTexel: 32},
	TexCLUT4:  {BitsPerTexel: 4, IsCLUT: true},
	TexCLUT8:  {BitsPerTexel: 8, IsCLUT: true},
	TexCLUT16: {BitsPerTexel: 16, IsCLUT: true},
	TexCLUT32: {BitsPerTexel: 32, IsCLUT: true},
	TexDXT1:   {BitsPerTexel: 4, IsDXT: true, BlockBytes: 8},
	TexDXT3:   {BitsPerTexel: 8, IsDXT: true, BlockBytes: 16},
	TexDXT5:   {BitsPerTexel: 8, IsDXT: true, BlockBytes: 16},
}

// Info returns the TextureFormatInfo for this format.
func (f TextureFormat) Info() TextureFormatInfo {
	if f >= textureFormatCount {
		return TextureFormatInfo{}
	}
	return textureFormatInfoTable[f]
}

// BitsPerTexel returns the storage size of one texel in bits.
func (f TextureFormat) BitsPerTexel() int {
	return f.Info().BitsPerTexel
}

// IsCLUT returns true for palette-indexed formats.
func (f TextureFormat) IsCLUT() bool {
	return f.Info().IsCLUT
}

// IsDXT returns true for block-compressed formats.
func (f TextureFormat) IsDXT() bool {
	return f.Info().IsDXT
}

// IsValid returns true if the format is a known texture format.
func (f TextureFormat) IsValid() bool {
	return f < textureFormatCount
}

// String returns a string representation of the format.
func (f TextureFormat) String() string {
	switch f {
	case Tex5650:
		return "5650"
	case Tex5551:
		return "5551"
	case Tex4444:
		return "4444"
	case Tex8888:
		return "8888"
	case TexCLUT4:
		return "CLUT4"
	case TexCLUT8:
		return "CLUT8"
	case TexCLUT16:
		return "CLUT16"
	case TexCLUT32:
		return "CLUT32"
	case TexDXT1:
		return "DXT1"
	case TexDXT3:
		return "DXT3"
	case TexDXT5:
		return "DXT5"
	default:
		return "Unknown"
	}
}

// ClutFormat is the entry layout of the color lookup table.
type ClutFormat uint8

const (
	Clut565 ClutFormat = iota
	Clut5551
	Clut4444
	Clut8888
)

// BytesPerEntry returns the size of one palette entry.
func (f ClutFormat) BytesPerEntry() int {
	if f == Clut8888 {
		return 4
	}
	return 2
}

// String returns a string representation of the format.
func (f ClutFormat) String() string {
	switch f {
	case Clut565:
		return "565"
	case Clut5551:
		return "5551"
	case Clut4444:
		return "4444"
	case Clut8888:
		return "8888"
	default:
		return "Unknown"
	}
}
