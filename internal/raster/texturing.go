// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/gstate"
)

// TexLog2 returns log2(delta) in 4-bit fixed point, read straight from the
// float exponent and the top mantissa bits. Non-positive deltas give very
// negative results.
func TexLog2(delta float32) int {
	bits := math.Float32bits(delta)
	return int(bits>>19&0xFFF) - 127*16
}

// ClampFogDepth converts a fog factor in [0, 1] to 8 bits. Negative and
// tiny values give 0, values of 1 or more give 255.
func ClampFogDepth(fogDepth float32) uint8 {
	bits := math.Float32bits(fogDepth)
	if bits&0x80000000 != 0 {
		return 0
	}
	exp := bits >> 23
	if exp > 126 {
		return 255
	}
	if exp <= 126-8 {
		return 0
	}
	mantissa := bits&0x7FFFFF | 0x800000
	return uint8(mantissa >> (16 + 126 - exp)) // #nosec G115 -- at most 8 bits remain
}

// samplingParams selects the mip level, the level fraction and the filter
// for a quad. ds and dt are the texture coordinate changes across one
// pixel in normalized units.
func (b *binding) samplingParams(ds, dt float32) (level, frac int, linear bool) {
	st := b.st
	var detail int
	switch st.LevelMode {
	case gstate.LevelAuto:
		w, h := float32(st.TextureWidth(0)), float32(st.TextureHeight(0))
		detail = TexLog2(max(ds*w, dt*h))
	case gstate.LevelSlope:
		detail = 16 + TexLog2(st.LodSlope)
	}
	detail += st.LevelOffset16

	mipLinear := st.MipFilter == gputypes.MipmapFilterModeLinear
	if detail > 0 && b.maxLevel > 0 {
		level8 := min(detail, b.maxLevel*16)
		if !mipLinear {
			level8 += 8
		}
		level = level8 >> 4
		if mipLinear {
			frac = level8 & 0xF
		}
	}

	switch b.filter {
	case gstate.FilterForceLinear:
		linear = true
	case gstate.FilterForceNearest:
		linear = false
	default:
		if detail > 0 {
			linear = st.MinFilter == gputypes.FilterModeLinear
		} else {
			linear = st.MagFilter == gputypes.FilterModeLinear
		}
	}
	return level, frac, linear
}
