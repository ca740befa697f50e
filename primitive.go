package softgpu

import "fmt"

// Primitive is the kind of primitive a vertex list describes.
type Primitive uint8

const (
	Points Primitive = iota
	Lines
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
	// Rectangles take two corners per rectangle. They draw sprites, or
	// clear rectangles in clear mode.
	Rectangles
)

var primitiveNames = [...]string{
	"points", "lines", "line_strip", "triangles", "triangle_strip", "triangle_fan", "rectangles",
}

// String returns the lower case name of the primitive.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", p)
}

// ParsePrimitive returns the primitive with the given String name.
func ParsePrimitive(s string) (Primitive, error) {
	for i, name := range primitiveNames {
		if name == s {
			return Primitive(i), nil // #nosec G115 -- small table
		}
	}
	return 0, fmt.Errorf("softgpu: unknown primitive %q", s)
}

// minVertices is the number of vertices the first primitive needs.
func (p Primitive) minVertices() int {
	switch p {
	case Points:
		return 1
	case Lines, LineStrip, Rectangles:
		return 2
	default:
		return 3
	}
}
