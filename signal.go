// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Strategy selects how a receiver waits for readiness and how a producer
// wakes it.
type Strategy uint8

const (
	// Park spins briefly, then parks on a one-token channel owned by the
	// cell. The producer wakes exactly that waiter. Lowest latency.
	Park Strategy = iota
	// Cond blocks on a mutex and condition variable; the producer signals
	// one waiter under the lock.
	Cond
	// Backoff polls readiness with iox.Backoff. The producer never wakes
	// anyone, so it suits receivers that already live in a polling loop.
	Backoff
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Park:
		return "park"
	case Cond:
		return "cond"
	case Backoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// signal is the readiness wait and wake target of one cell.
// wait returns once readyAt(state, gen) holds. wake may be called at most
// once per generation. reset runs between generations.
type signal interface {
	wait(state *atomix.Uint64, gen uint32)
	wake()
	reset()
}

// parkSignal is the flag + park/unpark strategy.
// token holds at most one pending unpark, so a wake that lands before the
// receiver parks is not lost.
type parkSignal struct {
	token chan struct{}
	spin  int
}

func newParkSignal(spin int) *parkSignal {
	return &parkSignal{token: make(chan struct{}, 1), spin: spin}
}

func (p *parkSignal) wait(state *atomix.Uint64, gen uint32) {
	for range p.spin {
		if readyAt(state, gen) {
			return
		}
		runtime.Gosched()
	}
	for !readyAt(state, gen) {
		<-p.token
	}
}

func (p *parkSignal) wake() {
	select {
	case p.token <- struct{}{}:
	default:
	}
}

func (p *parkSignal) reset() {
	select {
	case <-p.token:
	default:
	}
}

// condSignal is the mutex + condition variable strategy.
// The producer stores readiness before taking mu, and the receiver checks
// readiness under mu, so a signal cannot slip between check and Wait.
type condSignal struct {
	mu   sync.Mutex
	cond sync.Cond
}

func newCondSignal() *condSignal {
	s := &condSignal{}
	s.cond.L = &s.mu
	return s
}

func (s *condSignal) wait(state *atomix.Uint64, gen uint32) {
	s.mu.Lock()
	for !readyAt(state, gen) {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

func (s *condSignal) wake() {
	s.mu.Lock()
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *condSignal) reset() {}

// backoffSignal polls readiness with iox.Backoff.
type backoffSignal struct {
	base time.Duration
	max  time.Duration
}

func (s *backoffSignal) wait(state *atomix.Uint64, gen uint32) {
	var bo iox.Backoff
	bo.SetBase(s.base)
	bo.SetMax(s.max)
	for !readyAt(state, gen) {
		bo.Wait()
	}
}

func (s *backoffSignal) wake() {}

func (s *backoffSignal) reset() {}
