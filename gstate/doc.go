// Package gstate describes the fixed-function pipeline configuration that
// drives the software pixel backend.
//
// # State
//
// State is a plain value snapshot of the emulated GPU registers: buffer
// formats and surfaces, test functions and references, blend factors,
// stencil operations, write masks, fog, dither, logic op and texture
// configuration. Comparison functions, stencil operations, filter modes
// and address modes use the shared enumerations from gogpu/gputypes.
//
// Fingerprints (see internal/pixel and internal/sampler) are derived
// from a State once per draw. Fields that are not part of a fingerprint
// are read from the State again while pixels are drawn.
//
// # Coordinates
//
// Vertices carry screen coordinates in 12.4 fixed point. OffsetX and
// OffsetY translate them to drawing (pixel) coordinates.
//
// # Memory
//
// Textures are addressed through the Memory interface. Flat is a simple
// implementation over one byte slice.
package gstate
