// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "sync"

// Pool recycles handoff cells of one strategy for [InvokeIn].
// A cell is reused only after its scope has settled; capabilities that
// outlive their scope carry an old generation and are rejected.
//
// The zero Pool is not usable; create pools with [NewPool].
type Pool[T any] struct {
	cfg   config
	cells sync.Pool
}

// NewPool creates a cell pool configured by opts.
func NewPool[T any](opts ...Option) *Pool[T] {
	p := &Pool[T]{cfg: newConfig(opts)}
	p.cells.New = func() any {
		return newCell[T](&p.cfg)
	}
	return p
}

// Strategy returns the readiness strategy of the pool's cells.
func (p *Pool[T]) Strategy() Strategy {
	return p.cfg.strategy
}

func (p *Pool[T]) get() *cell[T] {
	return p.cells.Get().(*cell[T])
}

func (p *Pool[T]) put(c *cell[T], gen uint32) {
	c.recycle(gen)
	p.cells.Put(c)
}
