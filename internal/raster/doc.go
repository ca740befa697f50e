// Package raster walks primitives and feeds the covered pixels to the
// compiled pixel and sampler functions.
//
// Triangles are traversed in 2x2 quads with integer edge functions
// evaluated at pixel centers, in 12.4 fixed point screen coordinates. A
// top-left style bias drops pixels that lie exactly on a right or flat
// bottom edge, so triangles sharing an edge never draw a pixel twice.
// Large triangles are split into column or row slices that the worker
// pool draws concurrently; every pixel belongs to exactly one slice.
//
// Lines step along their dominant axis, points draw a single pixel and
// sprites fill axis aligned rectangles with 1:1 texel mapping.
// ClearRectangle fills color, stencil and depth directly without running
// a pixel function.
//
// Functions are looked up in the caches of package jit before a draw is
// split across workers. A configuration that fails to compile falls back
// to the interpreted reference path, so every draw produces pixels.
package raster
