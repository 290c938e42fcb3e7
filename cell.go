// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// Cell phases, stored in the low 32 bits of the state word.
// A generation only ever moves forward through them.
const (
	phasePending uint64 = iota // no producer has touched the cell
	phaseClaimed               // a Send or Close owns the value slot
	phaseReady                 // readiness published; slot and ok are visible
	phaseDone                  // the producer no longer touches the cell
)

const phaseMask = 1<<32 - 1

// stateOf packs a generation and a phase into one state word.
func stateOf(gen uint32, phase uint64) uint64 {
	return uint64(gen)<<32 | phase
}

// cell is the shared scratch space of one handoff.
//
// value and ok are written only by the producer between claiming the cell
// and storing phaseReady, and read only by the receiver after loading
// phaseReady. taken belongs to the goroutine that owns the scope. Every
// store to state is a release and every load an acquire, so those plain
// fields travel with the phase.
type cell[T any] struct {
	state atomix.Uint64
	sig   signal
	ok    bool
	taken bool
	value T
}

func newCell[T any](cfg *config) *cell[T] {
	return &cell[T]{sig: cfg.newSignal()}
}

// generation returns the current generation of the cell.
func (c *cell[T]) generation() uint32 {
	return uint32(c.state.LoadAcquire() >> 32)
}

// readyAt reports whether generation gen has published readiness.
func readyAt(state *atomix.Uint64, gen uint32) bool {
	s := state.LoadAcquire()
	return uint32(s>>32) == gen && s&phaseMask >= phaseReady
}

// claim moves generation gen from pending to claimed.
// Exactly one producer wins; every later claim fails.
func (c *cell[T]) claim(gen uint32) bool {
	return c.state.CompareAndSwapAcqRel(stateOf(gen, phasePending), stateOf(gen, phaseClaimed))
}

// publish stores readiness, wakes the receiver and then releases the cell.
// The wake happens between ready and done, so the owning scope keeps the
// cell alive until the wake target is no longer needed.
func (c *cell[T]) publish(gen uint32) {
	c.state.StoreRelease(stateOf(gen, phaseReady))
	c.sig.wake()
	c.state.StoreRelease(stateOf(gen, phaseDone))
}

// take consumes the value. Callers must have observed readiness.
func (c *cell[T]) take() (T, error) {
	var zero T
	c.taken = true
	v := c.value
	c.value = zero
	if !c.ok {
		return zero, ErrAbandoned
	}
	return v, nil
}

// settle blocks until generation gen is done. After settle returns no
// capability of gen can reach the cell's memory any more.
func (c *cell[T]) settle(gen uint32) {
	if !readyAt(&c.state, gen) {
		c.sig.wait(&c.state, gen)
	}
	for c.state.LoadAcquire() != stateOf(gen, phaseDone) {
		runtime.Gosched()
	}
}

// recycle prepares a settled cell for the next generation.
func (c *cell[T]) recycle(gen uint32) {
	var zero T
	c.value = zero
	c.ok = false
	c.taken = false
	c.sig.reset()
	c.state.StoreRelease(stateOf(gen+1, phasePending))
}
