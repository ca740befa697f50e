package regalloc

// Handle is a scoped claim on a register. Release returns the claim;
// calling it more than once is a no-op, so it can be deferred:
//
//	h := ra.Scoped(regalloc.GenTemp0)
//	defer h.Release()
//
// Keep promotes the value to a retained one: the purpose stays bound,
// unlocked, for a later stage to Find.
type Handle struct {
	a       *Allocator
	Reg     Reg
	Purpose Purpose
	found   bool
	done    bool
}

// Scoped allocates a register for p and returns a handle that releases it.
func (a *Allocator) Scoped(p Purpose) *Handle {
	return &Handle{a: a, Reg: a.Alloc(p), Purpose: p}
}

// FindScoped locks the register of a live purpose and returns a handle
// that unlocks it again. The purpose stays bound after Release.
func (a *Allocator) FindScoped(p Purpose) *Handle {
	return &Handle{a: a, Reg: a.Find(p), Purpose: p, found: true}
}

// Valid reports whether the handle holds a register.
func (h *Handle) Valid() bool {
	return h.Reg != InvalidReg
}

// Release returns the claim taken by Scoped or FindScoped.
func (h *Handle) Release() {
	if h.done || h.Reg == InvalidReg {
		h.done = true
		return
	}
	h.done = true
	if h.found {
		h.a.Unlock(h.Reg, h.Purpose)
		return
	}
	h.a.Release(h.Reg, h.Purpose)
}

// Keep drops the lock but leaves the purpose bound for later stages.
// A deferred Release after Keep does nothing.
func (h *Handle) Keep() {
	if h.done || h.Reg == InvalidReg {
		h.done = true
		return
	}
	h.done = true
	h.a.Unlock(h.Reg, h.Purpose)
}
