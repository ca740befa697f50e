// Package sampler decodes and filters texels for the software pixel
// backend.
//
// SamplerID fingerprints a texture configuration: texel format, swizzle,
// palette index transform, texture function and addressing. Compile
// specializes three functions for an ID:
//
//   - Fetch decodes one texel of one level.
//   - Nearest samples the closest texel and applies the texture function.
//   - Linear filters a 2x2 neighborhood with 4-bit weights first.
//
// Both sampling functions blend in the next mip level when a level
// fraction is given. Texture addresses, sizes and the palette live in a
// Context built once per draw.
//
// Supported formats are 5650, 5551, 4444 and 8888 texels, 4, 8, 16 and
// 32-bit palette indices into 565, 5551, 4444 or 8888 palettes, and the
// DXT1, DXT3 and DXT5 block formats.
package sampler
