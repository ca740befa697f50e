package wide

// F32x4 represents 4 float32 lanes, one per pixel of a 2x2 quad.
type F32x4 [4]float32

// SplatF32 creates F32x4 with all lanes set to n.
func SplatF32(n float32) F32x4 {
	return F32x4{n, n, n, n}
}

// Add performs lane-wise addition.
func (v F32x4) Add(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Mul performs lane-wise multiplication.
func (v F32x4) Mul(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = v[i] * other[i]
	}
	return result
}

// MulScalar multiplies every lane by n.
func (v F32x4) MulScalar(n float32) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = v[i] * n
	}
	return result
}

// Recip returns 1/v for every lane using a true division.
func (v F32x4) Recip() F32x4 {
	var result F32x4
	for i := range v {
		result[i] = 1 / v[i]
	}
	return result
}

// ToI32 truncates every lane toward zero.
func (v F32x4) ToI32() I32x4 {
	var result I32x4
	for i := range v {
		result[i] = int32(v[i])
	}
	return result
}
