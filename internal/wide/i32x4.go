package wide

// I32x4 represents 4 int32 lanes.
// Used for the edge functions of a 2x2 quad and for RGBA colors, where
// lane 0 is red and lane 3 is alpha.
type I32x4 [4]int32

// SplatI32 creates I32x4 with all lanes set to n.
func SplatI32(n int32) I32x4 {
	return I32x4{n, n, n, n}
}

// Add performs lane-wise addition.
func (v I32x4) Add(other I32x4) I32x4 {
	var result I32x4
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Sub performs lane-wise subtraction.
func (v I32x4) Sub(other I32x4) I32x4 {
	var result I32x4
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

// Mul performs lane-wise multiplication.
func (v I32x4) Mul(other I32x4) I32x4 {
	var result I32x4
	for i := range v {
		result[i] = v[i] * other[i]
	}
	return result
}

// MulScalar multiplies every lane by n.
func (v I32x4) MulScalar(n int32) I32x4 {
	var result I32x4
	for i := range v {
		result[i] = v[i] * n
	}
	return result
}

// Or performs lane-wise bitwise OR.
func (v I32x4) Or(other I32x4) I32x4 {
	var result I32x4
	for i := range v {
		result[i] = v[i] | other[i]
	}
	return result
}

// And performs lane-wise bitwise AND.
func (v I32x4) And(other I32x4) I32x4 {
	var result I32x4
	for i := range v {
		result[i] = v[i] & other[i]
	}
	return result
}

// AnyNonNegative reports whether at least one lane has a clear sign bit.
// A coverage mask uses the sign bit to mark lanes outside the primitive.
func (v I32x4) AnyNonNegative() bool {
	return v[0]&v[1]&v[2]&v[3] >= 0
}

// ToF32 converts every lane to float32.
func (v I32x4) ToF32() F32x4 {
	return F32x4{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}

// Clamp8 saturates every lane to [0, 255].
func (v I32x4) Clamp8() I32x4 {
	var result I32x4
	for i := range v {
		result[i] = min(max(v[i], 0), 255)
	}
	return result
}

// RGB returns the vector with lane 3 cleared.
func (v I32x4) RGB() I32x4 {
	return I32x4{v[0], v[1], v[2], 0}
}

// WithAlpha returns the vector with lane 3 replaced.
func (v I32x4) WithAlpha(a int32) I32x4 {
	return I32x4{v[0], v[1], v[2], a}
}

// PackRGBA packs a clamped color with red in the low byte.
func (v I32x4) PackRGBA() uint32 {
	c := v.Clamp8()
	return uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24 // #nosec G115 -- clamped
}

// UnpackRGBA expands a packed color with red in the low byte.
func UnpackRGBA(c uint32) I32x4 {
	return I32x4{int32(c & 0xFF), int32(c >> 8 & 0xFF), int32(c >> 16 & 0xFF), int32(c >> 24)}
}
