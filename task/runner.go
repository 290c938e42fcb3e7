// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tedsuo/ifrit"
)

// Runner hosts a worker loop as an ifrit.Runner, so a worker can be
// supervised next to other processes in an ifrit group.
type Runner struct {
	sel   *Selector
	impls Impls
}

var _ ifrit.Runner = (*Runner)(nil)

// NewRunner returns a runner that serves sel with impls.
// Typical use pairs it with [New]:
//
//	h, sel := task.New(tbl)
//	proc := ifrit.Invoke(task.NewRunner(sel, impls))
func NewRunner(sel *Selector, impls Impls) *Runner {
	sel.check(impls)
	return &Runner{sel: sel, impls: impls}
}

// Run reports ready immediately, then dispatches requests until every
// handle is closed or a signal arrives; both end the run with a nil error.
// A panicking implementation ends the run with an error wrapping
// [ErrWorkerPanic]. On return the worker is stopped.
func (r *Runner) Run(signals <-chan os.Signal, ready chan<- struct{}) (err error) {
	s := r.sel
	c := s.core
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerPanic, p)
			c.log(slog.LevelError, "worker panicked", "panic", p)
		}
		c.stop(err)
	}()

	c.log(slog.LevelDebug, "worker started")
	close(ready)
	for {
		select {
		case m := <-s.queue:
			s.serve(m, r.impls)
		case <-s.gone:
			if s.disconnected(r.impls) != nil {
				c.log(slog.LevelDebug, "all handles closed")
				return nil
			}
		case sig := <-signals:
			c.log(slog.LevelDebug, "worker signalled", "signal", sig)
			return nil
		}
	}
}
