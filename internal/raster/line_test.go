// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
)

// drawnRow lists the pixels of row y with a non-zero color.
func drawnRow(st *gstate.State, y int) []int {
	var xs []int
	for x := range st.Framebuf.Stride {
		if rgbAt(st, x, y) != 0 {
			xs = append(xs, x)
		}
	}
	return xs
}

func drawnColumn(st *gstate.State, x int) []int {
	var ys []int
	for y := range st.Framebuf.Rows(4) {
		if rgbAt(st, x, y) != 0 {
			ys = append(ys, y)
		}
	}
	return ys
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// Lines
// =============================================================================

func TestDrawLine_Coverage(t *testing.T) {
	tests := []struct {
		name   string
		v0, v1 *gstate.Vertex
		column bool
		index  int
		want   []int
	}{
		{"left to right", vert(0, 2, 0, 0xFF), vert(8, 2, 0, 0xFF), false, 2, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"right to left", vert(8, 2, 0, 0xFF), vert(0, 2, 0, 0xFF), false, 2, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"bottom to top", vert(3, 8, 0, 0xFF), vert(3, 0, 0, 0xFF), true, 3, []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"shorter than a pixel", vert(3, 3, 0, 0xFF), vert(3, 3, 8, 0xFF), false, 3, nil},
	}

	r := newRasterizer(t, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState(16, 16)
			r.DrawLine(st, tt.v0, tt.v1)

			got := drawnRow(st, tt.index)
			if tt.column {
				got = drawnColumn(st, tt.index)
			}
			if !equalInts(got, tt.want) {
				t.Errorf("DrawLine() covered %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawLine_Scissor(t *testing.T) {
	r := newRasterizer(t, 1)
	st := newState(16, 16)
	st.ScissorX1, st.ScissorX2 = 2, 4

	r.DrawLine(st, vert(0, 1, 0, 0xFF), vert(10, 1, 0, 0xFF))

	if got, want := drawnRow(st, 1), []int{2, 3, 4}; !equalInts(got, want) {
		t.Errorf("DrawLine() covered %v, want %v", got, want)
	}
}

func TestDrawLine_Interpolation(t *testing.T) {
	r := newRasterizer(t, 1)
	st := newState(16, 16)
	st.ShadeGouraud = true
	st.DepthTestEnable = true
	st.DepthFunc = gputypes.CompareFunctionAlways
	st.DepthWrite = true

	v0, v1 := vert(0, 2, 0, 0x000000), vert(8, 2, 0, 0x000050)
	v0.Z, v1.Z = 0, 800
	r.DrawLine(st, v0, v1)

	for x := range 8 {
		if got, want := rgbAt(st, x, 2), uint32(10*x); got != want {
			t.Errorf("color at %d = %#06x, want %#06x", x, got, want)
		}
		// Depth does not interpolate along a line.
		if got := st.Depthbuf.Get16(x, 2); got != 0 {
			t.Errorf("depth at %d = %d, want v0's depth 0", x, got)
		}
	}
}

func TestDrawLine_FlatUsesEndColor(t *testing.T) {
	r := newRasterizer(t, 1)
	st := newState(16, 16)

	r.DrawLine(st, vert(0, 0, 0, 0x0000FF), vert(4, 0, 0, 0x00FF00))

	for x := range 4 {
		if got := rgbAt(st, x, 0); got != 0x00FF00 {
			t.Errorf("color at %d = %#06x, want 0x00ff00", x, got)
		}
	}
}

// =============================================================================
// Points
// =============================================================================

func TestDrawPoint(t *testing.T) {
	tests := []struct {
		name string
		v    *gstate.Vertex
		want bool
	}{
		{"pixel start", vert(3, 4, 0, 0xFF), true},
		{"pixel center", vert(3, 4, 8, 0xFF), true},
		{"left of scissor", vert(1, 4, 15, 0xFF), false},
		{"below scissor", vert(3, 9, 0, 0xFF), false},
	}

	r := newRasterizer(t, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newState(16, 16)
			st.ScissorX1, st.ScissorY1, st.ScissorX2, st.ScissorY2 = 2, 2, 8, 8
			r.DrawPoint(st, tt.v)

			x, y := st.ScreenToDrawing(tt.v.X, tt.v.Y)
			if x < 0 || y < 0 || x >= 16 || y >= 16 {
				t.Fatalf("test point (%d,%d) outside the buffer", x, y)
			}
			if got := rgbAt(st, x, y) != 0; got != tt.want {
				t.Errorf("DrawPoint() drew = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawPoint_Textured(t *testing.T) {
	r := newRasterizer(t, 1)
	st := newState(4, 4)
	useTexture(st, 1, 1, 0xFF000011, 0xFF000022, 0xFF000033, 0xFF000044)

	v := vert(2, 2, 0, 0xFFFFFFFF)
	v.TexCoord[0], v.TexCoord[1] = 1.5, 0.5
	r.DrawPoint(st, v)

	if got := rgbAt(st, 2, 2); got != 0x000022 {
		t.Errorf("pixel = %#06x, want texel (1,0) 0x000022", got)
	}
}
