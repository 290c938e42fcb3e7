// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"code.hybscloud.com/iox"
)

// Sender is the write-once capability of a handoff.
// It may be moved to and used from any goroutine.
type Sender[T any] struct {
	c   *cell[T]
	gen uint32
}

// Send deposits v, publishes readiness and wakes the receiver.
// Send panics if the sender was already used or its scope has ended.
func (tx Sender[T]) Send(v T) {
	c := tx.c
	if c == nil {
		panic("handoff: send on zero Sender")
	}
	if !c.claim(tx.gen) {
		if c.generation() != tx.gen {
			panic("handoff: stale capability")
		}
		panic("handoff: sender used twice")
	}
	c.value = v
	c.ok = true
	c.publish(tx.gen)
}

// Close abandons the handoff without a value: the receiver observes
// [ErrAbandoned]. Close after Send, a second Close, or Close on a sender
// whose scope has ended is a no-op.
func (tx Sender[T]) Close() {
	c := tx.c
	if c == nil || !c.claim(tx.gen) {
		return
	}
	c.publish(tx.gen)
}

// Receiver is the read-once capability of a handoff.
// It belongs to the goroutine that called [Invoke] and must not be handed
// to another goroutine.
type Receiver[T any] struct {
	c   *cell[T]
	gen uint32
}

// Recv blocks until the sender publishes, then takes the value.
// Returns [ErrAbandoned] if the sender was closed without sending.
// Recv panics if the receiver was already used or its scope has ended.
func (rx Receiver[T]) Recv() (T, error) {
	c := rx.check()
	c.sig.wait(&c.state, rx.gen)
	return c.take()
}

// TryRecv takes the value if readiness is already published.
// Returns iox.ErrWouldBlock otherwise; the receiver stays usable until a
// call returns anything else.
func (rx Receiver[T]) TryRecv() (T, error) {
	c := rx.check()
	if !readyAt(&c.state, rx.gen) {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	return c.take()
}

// Ready reports whether the sender has published, without consuming.
func (rx Receiver[T]) Ready() bool {
	return rx.c != nil && readyAt(&rx.c.state, rx.gen)
}

func (rx Receiver[T]) check() *cell[T] {
	c := rx.c
	if c == nil {
		panic("handoff: recv on zero Receiver")
	}
	if c.generation() != rx.gen {
		panic("handoff: stale capability")
	}
	if c.taken {
		panic("handoff: receiver used twice")
	}
	return c
}

// Invoke creates a handoff cell, passes its split capabilities to f, and
// returns f's result once the sender side is finished with the cell.
//
// The final wait is what bounds the cell's lifetime: Invoke does not return
// until the sender has either sent or been closed, so f must guarantee that
// one of the two eventually happens.
func Invoke[T, R any](f func(tx Sender[T], rx Receiver[T]) R, opts ...Option) R {
	cfg := newConfig(opts)
	r, _ := scope(newCell[T](&cfg), f)
	return r
}

// InvokeIn is [Invoke] over a cell taken from p. The cell goes back to p
// only after the final wait; if f panics, the cell is left to the garbage
// collector instead.
func InvokeIn[T, R any](p *Pool[T], f func(tx Sender[T], rx Receiver[T]) R) R {
	c := p.get()
	r, gen := scope(c, f)
	p.put(c, gen)
	return r
}

func scope[T, R any](c *cell[T], f func(tx Sender[T], rx Receiver[T]) R) (R, uint32) {
	gen := c.generation()
	r := f(Sender[T]{c: c, gen: gen}, Receiver[T]{c: c, gen: gen})
	c.settle(gen)
	return r, gen
}
