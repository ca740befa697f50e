// Package regalloc assigns physical registers to semantic purposes while
// a pixel or sampler function is being generated.
//
// # Model
//
// There are two files, general and vector, each with a fixed number of
// registers. A Purpose (GenArgX, GenStencil, VecArgColor, ...) names the
// role a value plays; at most one register holds a purpose at a time.
//
// Alloc binds a free register, Find locks an already bound one, Unlock
// and Release undo those. ForceRetain pins a value across a section
// where a Release would otherwise free it. Change relabels a register
// without moving its value.
//
// # No Spilling
//
// When a file is full, Alloc fails with ErrExhausted. The error is sticky
// so the generator can finish emitting and check Err once; the whole
// compilation is then abandoned.
//
// # Scoped Handles
//
// Scoped and FindScoped return a Handle whose Release can be deferred,
// tying a register to a lexical scope. Keep promotes the value so that a
// later stage can Find it.
package regalloc
