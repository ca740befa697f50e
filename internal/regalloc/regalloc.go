package regalloc

import (
	"errors"
	"fmt"
	"strings"
)

// Reg is the index of a physical register within its file.
type Reg int

// InvalidReg is returned when no register could be provided.
const InvalidReg Reg = -1

var (
	// ErrExhausted is reported when a file has no free register left.
	ErrExhausted = errors.New("regalloc: register file exhausted")

	// ErrMisuse is reported for unbalanced or inconsistent calls, such as
	// finding a purpose that is not live.
	ErrMisuse = errors.New("regalloc: invalid register operation")

	// ErrLeaked is reported by Reset when registers are still held.
	ErrLeaked = errors.New("regalloc: registers still held")
)

// slot is the bookkeeping for one physical register.
type slot struct {
	purpose Purpose
	used    bool
	locked  int
	forced  bool
}

// file is one physical register file.
type file struct {
	slots     []slot
	highWater int
}

func (f *file) lookup(p Purpose) Reg {
	for i := range f.slots {
		if f.slots[i].used && f.slots[i].purpose == p {
			return Reg(i)
		}
	}
	return InvalidReg
}

func (f *file) free() Reg {
	for i := range f.slots {
		if !f.slots[i].used {
			return Reg(i)
		}
	}
	return InvalidReg
}

func (f *file) live() int {
	n := 0
	for i := range f.slots {
		if f.slots[i].used {
			n++
		}
	}
	return n
}

// Allocator maps purposes to physical registers for one compilation.
//
// There is no spilling: when a file runs out, Alloc records ErrExhausted
// and returns InvalidReg. Errors are sticky; the first one is kept and
// returned by Err, so a compiler can emit a whole function and check
// once at the end.
//
// Allocator is not safe for concurrent use.
type Allocator struct {
	gen file
	vec file
	err error
}

// New creates an allocator with the given file sizes.
func New(genRegs, vecRegs int) *Allocator {
	return &Allocator{
		gen: file{slots: make([]slot, max(genRegs, 0))},
		vec: file{slots: make([]slot, max(vecRegs, 0))},
	}
}

func (a *Allocator) fileFor(p Purpose) *file {
	if p.IsVec() {
		return &a.vec
	}
	return &a.gen
}

func (a *Allocator) fail(base error, format string, args ...any) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: "+format, append([]any{base}, args...)...)
	}
}

// Err returns the first error recorded since the last Reset.
func (a *Allocator) Err() error {
	return a.err
}

// SetupABI binds argument purposes to the lowest registers of each file,
// in order. The registers start unlocked.
func (a *Allocator) SetupABI(args ...Purpose) {
	for _, p := range args {
		if !p.IsValid() {
			a.fail(ErrMisuse, "invalid argument purpose %d", p)
			continue
		}
		f := a.fileFor(p)
		if f.lookup(p) != InvalidReg {
			a.fail(ErrMisuse, "argument %s bound twice", p)
			continue
		}
		r := f.free()
		if r == InvalidReg {
			a.fail(ErrExhausted, "no register for argument %s", p)
			continue
		}
		f.slots[r] = slot{purpose: p, used: true}
		f.highWater = max(f.highWater, f.live())
	}
}

// Alloc reserves a free register for a purpose that is not live yet.
// The register is returned locked once.
func (a *Allocator) Alloc(p Purpose) Reg {
	if !p.IsValid() {
		a.fail(ErrMisuse, "alloc of invalid purpose %d", p)
		return InvalidReg
	}
	f := a.fileFor(p)
	if f.lookup(p) != InvalidReg {
		a.fail(ErrMisuse, "alloc of live purpose %s", p)
		return InvalidReg
	}
	r := f.free()
	if r == InvalidReg {
		a.fail(ErrExhausted, "%s", p)
		return InvalidReg
	}
	f.slots[r] = slot{purpose: p, used: true, locked: 1}
	f.highWater = max(f.highWater, f.live())
	return r
}

// Has reports whether a purpose is currently bound to a register.
func (a *Allocator) Has(p Purpose) bool {
	if !p.IsValid() {
		return false
	}
	return a.fileFor(p).lookup(p) != InvalidReg
}

// Find returns the register bound to a live purpose and locks it.
func (a *Allocator) Find(p Purpose) Reg {
	if !p.IsValid() {
		a.fail(ErrMisuse, "find of invalid purpose %d", p)
		return InvalidReg
	}
	f := a.fileFor(p)
	r := f.lookup(p)
	if r == InvalidReg {
		a.fail(ErrMisuse, "find of purpose %s that is not live", p)
		return InvalidReg
	}
	f.slots[r].locked++
	return r
}

func (a *Allocator) slotFor(r Reg, p Purpose, op string) *slot {
	f := a.fileFor(p)
	if r < 0 || int(r) >= len(f.slots) || !f.slots[r].used || f.slots[r].purpose != p {
		a.fail(ErrMisuse, "%s of %s in register %d", op, p, r)
		return nil
	}
	return &f.slots[r]
}

// Unlock drops one lock taken by Alloc or Find. The purpose stays bound.
func (a *Allocator) Unlock(r Reg, p Purpose) {
	s := a.slotFor(r, p, "unlock")
	if s == nil {
		return
	}
	if s.locked == 0 {
		a.fail(ErrMisuse, "unlock of unlocked %s", p)
		return
	}
	s.locked--
}

// Release drops one lock and frees the register once no locks remain,
// unless the purpose is force-retained.
func (a *Allocator) Release(r Reg, p Purpose) {
	s := a.slotFor(r, p, "release")
	if s == nil {
		return
	}
	if s.locked > 0 {
		s.locked--
	}
	if s.locked == 0 && !s.forced {
		*s = slot{}
	}
}

// ForceRetain pins a live purpose so that Release keeps it bound.
func (a *Allocator) ForceRetain(p Purpose) {
	f := a.fileFor(p)
	r := f.lookup(p)
	if r == InvalidReg {
		a.fail(ErrMisuse, "force retain of %s that is not live", p)
		return
	}
	f.slots[r].forced = true
}

// ForceRelease unpins a purpose and frees its register. The register must
// not be locked.
func (a *Allocator) ForceRelease(p Purpose) {
	f := a.fileFor(p)
	r := f.lookup(p)
	if r == InvalidReg {
		a.fail(ErrMisuse, "force release of %s that is not live", p)
		return
	}
	if f.slots[r].locked > 0 {
		a.fail(ErrMisuse, "force release of locked %s", p)
		return
	}
	f.slots[r] = slot{}
}

// Change relabels the register bound to from so that it is bound to to.
// The data in the register is untouched and the lock count carries over.
func (a *Allocator) Change(from, to Purpose) {
	if from.IsVec() != to.IsVec() || !to.IsValid() {
		a.fail(ErrMisuse, "change from %s to %s", from, to)
		return
	}
	f := a.fileFor(from)
	r := f.lookup(from)
	if r == InvalidReg {
		a.fail(ErrMisuse, "change of %s that is not live", from)
		return
	}
	if f.lookup(to) != InvalidReg {
		a.fail(ErrMisuse, "change to live purpose %s", to)
		return
	}
	f.slots[r].purpose = to
}

// Reset clears all bindings and the sticky error. With validate set it
// reports registers that are still locked or force-retained.
func (a *Allocator) Reset(validate bool) error {
	var err error
	if validate {
		var held []string
		for _, f := range []*file{&a.gen, &a.vec} {
			for _, s := range f.slots {
				if s.used && (s.locked > 0 || s.forced) {
					held = append(held, s.purpose.String())
				}
			}
		}
		if len(held) > 0 {
			err = fmt.Errorf("%w: %s", ErrLeaked, strings.Join(held, ", "))
		}
	}
	for _, f := range []*file{&a.gen, &a.vec} {
		clear(f.slots)
		f.highWater = 0
	}
	a.err = nil
	return err
}

// Stats describes the current register pressure.
type Stats struct {
	GenLive, VecLive           int
	GenHighWater, VecHighWater int
	GenSize, VecSize           int
}

// Stats returns the current register pressure.
func (a *Allocator) Stats() Stats {
	return Stats{
		GenLive:      a.gen.live(),
		VecLive:      a.vec.live(),
		GenHighWater: a.gen.highWater,
		VecHighWater: a.vec.highWater,
		GenSize:      len(a.gen.slots),
		VecSize:      len(a.vec.slots),
	}
}
