// Package pixel implements the per-pixel stage of the pipeline: depth
// range, alpha test, fog, color test, stencil and depth tests, depth
// write, blending, dithering, logic op and the masked color write.
//
// # Fingerprints
//
// PixelFuncID captures the facts of a State that select code paths.
// Two states with equal IDs run the same code; everything else (masks,
// fixed blend colors, fog color, dither matrix, logic op code) is read
// from the State while drawing.
//
// # Compiled Functions
//
// Compile specializes a pixel function for one ID. The result is a list
// of small closures that operate on a register machine whose registers
// come from internal/regalloc, so a configuration that needs more live
// values than the register files hold fails to compile with
// regalloc.ErrExhausted. Stages that cannot apply to an ID emit nothing.
//
// Reference is the portable implementation of the same stages. It is
// used as the fallback for IDs that fail to compile and, in tests, as the
// oracle for compiled functions.
//
// # Formats
//
// Colors travel as 8-bit RGBA lanes and are converted to the framebuffer
// format only at the final write. 5551, 4444 and 8888 keep the stencil
// value in their alpha bits; 565 has no stencil and reads it as zero.
package pixel
