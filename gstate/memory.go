package gstate

import "encoding/binary"

// Memory is the emulated address space that texture addresses resolve in.
type Memory interface {
	// IsValidRange reports whether [addr, addr+size) is mapped.
	IsValidRange(addr, size uint32) bool

	// Bytes returns the mapped bytes starting at addr, or nil if addr is
	// not mapped. The slice may extend past size.
	Bytes(addr, size uint32) []byte
}

// Flat is a Memory backed by a single contiguous slice.
type Flat struct {
	Base uint32
	Data []byte
}

// IsValidRange reports whether [addr, addr+size) lies inside the slice.
func (m *Flat) IsValidRange(addr, size uint32) bool {
	if m == nil || addr < m.Base {
		return false
	}
	off := uint64(addr - m.Base)
	return off+uint64(size) <= uint64(len(m.Data))
}

// Bytes returns the slice from addr to the end of the mapping.
func (m *Flat) Bytes(addr, size uint32) []byte {
	if !m.IsValidRange(addr, size) {
		return nil
	}
	return m.Data[addr-m.Base:]
}

// Surface is a row-major pixel buffer. Stride is in pixels.
type Surface struct {
	Data   []byte
	Stride int
}

// Get16 reads a 16-bit pixel.
func (s *Surface) Get16(x, y int) uint16 {
	return s.Get16At(y*s.Stride + x)
}

// Set16 writes a 16-bit pixel.
func (s *Surface) Set16(x, y int, v uint16) {
	s.Set16At(y*s.Stride+x, v)
}

// Get32 reads a 32-bit pixel.
func (s *Surface) Get32(x, y int) uint32 {
	return s.Get32At(y*s.Stride + x)
}

// Set32 writes a 32-bit pixel.
func (s *Surface) Set32(x, y int, v uint32) {
	s.Set32At(y*s.Stride+x, v)
}

// Get16At reads the 16-bit pixel at a linear pixel index.
func (s *Surface) Get16At(i int) uint16 {
	return binary.LittleEndian.Uint16(s.Data[i*2:])
}

// Set16At writes the 16-bit pixel at a linear pixel index.
func (s *Surface) Set16At(i int, v uint16) {
	binary.LittleEndian.PutUint16(s.Data[i*2:], v)
}

// Get32At reads the 32-bit pixel at a linear pixel index.
func (s *Surface) Get32At(i int) uint32 {
	return binary.LittleEndian.Uint32(s.Data[i*4:])
}

// Set32At writes the 32-bit pixel at a linear pixel index.
func (s *Surface) Set32At(i int, v uint32) {
	binary.LittleEndian.PutUint32(s.Data[i*4:], v)
}

// Get reads a pixel of the given format widened to 32 bits.
func (s *Surface) Get(f BufferFormat, x, y int) uint32 {
	return s.GetAt(f, y*s.Stride+x)
}

// Set writes a pixel of the given format. 16-bit formats use the low half.
func (s *Surface) Set(f BufferFormat, x, y int, v uint32) {
	s.SetAt(f, y*s.Stride+x, v)
}

// GetAt reads a pixel of the given format at a linear pixel index.
func (s *Surface) GetAt(f BufferFormat, i int) uint32 {
	if f == Format8888 {
		return s.Get32At(i)
	}
	return uint32(s.Get16At(i))
}

// SetAt writes a pixel of the given format at a linear pixel index.
func (s *Surface) SetAt(f BufferFormat, i int, v uint32) {
	if f == Format8888 {
		s.Set32At(i, v)
		return
	}
	s.Set16At(i, uint16(v)) // #nosec G115 -- 16-bit formats
}

// Rows returns the number of complete rows for the given pixel size.
func (s *Surface) Rows(bytesPerPixel int) int {
	if s.Stride <= 0 || bytesPerPixel <= 0 {
		return 0
	}
	return len(s.Data) / (s.Stride * bytesPerPixel)
}

// NewSurface allocates a zeroed surface of the given size.
func NewSurface(width, height, bytesPerPixel int) Surface {
	return Surface{Data: make([]byte, width*height*bytesPerPixel), Stride: width}
}
