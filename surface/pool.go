// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "fmt"

// Pool owns a fixed set of surfaces sharing one geometry.
//
// The pool is an index-addressed arena: surfaces are referred to by their
// position, never by aliasing pointers held outside the pool. Scanning for a
// free surface is done by the single pipeline control goroutine; the lock
// counters it inspects are released concurrently by engine completion
// handlers.
type Pool struct {
	surfaces []*Surface
}

// NewPool allocates n surfaces with the given geometry.
func NewPool(n int, info Info) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("surface: pool size %d, want > 0", n)
	}
	p := &Pool{surfaces: make([]*Surface, n)}
	for i := range p.surfaces {
		s, err := New(info)
		if err != nil {
			return nil, err
		}
		p.surfaces[i] = s
	}
	return p, nil
}

// AcquireFree returns the index of the first unlocked surface. The second
// return value is false when every surface is locked; callers treat that as
// backpressure, not as an error, and make progress by waiting on the oldest
// in-flight operation.
//
// AcquireFree itself does not lock the returned surface. The lock is taken by
// the engine at submission time, so a surface found free but never submitted
// stays free.
func (p *Pool) AcquireFree() (int, bool) {
	for i, s := range p.surfaces {
		if !s.Locked() {
			return i, true
		}
	}
	return 0, false
}

// At returns the surface at index i.
func (p *Pool) At(i int) *Surface { return p.surfaces[i] }

// Len returns the number of surfaces in the pool.
func (p *Pool) Len() int { return len(p.surfaces) }

// Free returns the number of currently unlocked surfaces.
func (p *Pool) Free() int {
	n := 0
	for _, s := range p.surfaces {
		if !s.Locked() {
			n++
		}
	}
	return n
}

// Reset clears per-frame state so the pool can serve a new stream. Resetting
// while any surface is still locked panics: in-flight operations may not
// outlive the run that submitted them.
func (p *Pool) Reset() {
	for _, s := range p.surfaces {
		if s.Locked() {
			panic("surface: reset of pool with locked surfaces")
		}
		s.Seq = 0
	}
}

// Info returns the shared geometry of the pool's surfaces.
func (p *Pool) Info() Info { return p.surfaces[0].info }
