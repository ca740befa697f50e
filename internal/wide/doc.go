// Package wide provides small fixed-width vector types for quad rasterization.
//
// This package implements 4-lane types that mirror the 128-bit registers a
// native code generator would use. By using fixed-size arrays and simple
// loops, these types allow the Go compiler to keep lanes in registers and
// generate SIMD instructions where the architecture supports it.
//
// # Wide Types
//
// I32x4: 4 int32 lanes for edge functions, coverage masks and RGBA colors.
// F32x4: 4 float32 lanes for barycentric weights and interpolation.
//
// # Lane Order
//
// For a 2x2 quad, lane i covers pixel (x + i&1, y + i/2). For colors,
// lanes are red, green, blue, alpha.
//
// # Design Philosophy
//
//   - Use simple loops over fixed-size arrays for auto-vectorization
//   - Avoid unsafe and assembly - rely on compiler optimization
//   - Keep functions small and inlineable
package wide
