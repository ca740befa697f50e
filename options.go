package softgpu

import (
	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/pixel"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Default: one worker per CPU, filtering as the state asks
//	r := softgpu.New()
//
//	// Four workers, always bilinear
//	r := softgpu.New(softgpu.WithWorkers(4), softgpu.WithFilterOverride(gstate.FilterForceLinear))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	workers int
	filter  gstate.FilterOverride
	pixel   pixel.Options
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		workers: 0, // GOMAXPROCS
		filter:  gstate.FilterAuto,
	}
}

// WithWorkers sets the number of goroutines large primitives are split
// across. Values below 1 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithFilterOverride forces nearest or linear texture filtering for every
// draw, regardless of the filters in the state.
func WithFilterOverride(f gstate.FilterOverride) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithRegisterFile sets the number of general purpose and vector registers
// available to the pixel function compiler. Configurations that need more
// live values than the register files hold run on the reference pipeline.
// Zero keeps the default for that file.
func WithRegisterFile(gen, vec int) Option {
	return func(o *options) {
		o.pixel.GenRegs = gen
		o.pixel.VecRegs = vec
	}
}
