package softgpu

import "testing"

func TestPrimitive_String(t *testing.T) {
	tests := []struct {
		p    Primitive
		want string
	}{
		{Points, "points"},
		{Lines, "lines"},
		{LineStrip, "line_strip"},
		{Triangles, "triangles"},
		{TriangleStrip, "triangle_strip"},
		{TriangleFan, "triangle_fan"},
		{Rectangles, "rectangles"},
		{Primitive(42), "Primitive(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePrimitive(t *testing.T) {
	for p := Points; p <= Rectangles; p++ {
		got, err := ParsePrimitive(p.String())
		if err != nil {
			t.Errorf("ParsePrimitive(%q) error: %v", p.String(), err)
			continue
		}
		if got != p {
			t.Errorf("ParsePrimitive(%q) = %v, want %v", p.String(), got, p)
		}
	}

	if _, err := ParsePrimitive("quads"); err == nil {
		t.Error("ParsePrimitive(\"quads\") error = nil, want error")
	}
}

func TestPrimitive_MinVertices(t *testing.T) {
	tests := []struct {
		p    Primitive
		want int
	}{
		{Points, 1},
		{Lines, 2},
		{LineStrip, 2},
		{Rectangles, 2},
		{Triangles, 3},
		{TriangleStrip, 3},
		{TriangleFan, 3},
	}
	for _, tt := range tests {
		if got := tt.p.minVertices(); got != tt.want {
			t.Errorf("%s.minVertices() = %d, want %d", tt.p, got, tt.want)
		}
	}
}
