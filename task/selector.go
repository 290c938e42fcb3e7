// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"code.hybscloud.com/iox"
)

// Selector is the worker side of a task. It is owned by the worker
// goroutine and is not safe for concurrent use.
//
// Every select operation dequeues at most one request and invokes exactly
// one implementation: the one bound to the request's operation. The reply
// is completed with the implementation's result; if the implementation
// panics, the reply is abandoned and the panic propagates to the caller of
// the select.
type Selector struct {
	core  *core
	queue <-chan call
	gone  <-chan struct{}
	timer *time.Timer
}

// Name returns the worker name.
func (s *Selector) Name() string {
	return s.core.name
}

func (s *Selector) check(impls Impls) {
	if impls.table != s.core.table {
		panic("task: selector given implementations for another table")
	}
}

func (s *Selector) serve(m call, impls Impls) {
	m.serve(impls.fns[m.opIndex()])
}

// disconnected runs once the last reference is gone. A request may still
// sit in the queue; it is served first and ErrDisconnected comes on the
// next select.
func (s *Selector) disconnected(impls Impls) error {
	select {
	case m := <-s.queue:
		s.serve(m, impls)
		return nil
	default:
		return ErrDisconnected
	}
}

func (s *Selector) stopped() bool {
	select {
	case <-s.core.stopped:
		return true
	default:
		return false
	}
}

// SelectBlocking waits for one request and dispatches it.
// Returns [ErrDisconnected] once every handle has been closed and the
// queue is empty, or [ErrStopped] after [Selector.Close].
func (s *Selector) SelectBlocking(impls Impls) error {
	s.check(impls)
	if s.stopped() {
		return ErrStopped
	}
	select {
	case m := <-s.queue:
		s.serve(m, impls)
		return nil
	case <-s.gone:
		return s.disconnected(impls)
	}
}

// SelectTimeout is [Selector.SelectBlocking] bounded by d.
// Returns [ErrTimeout] if no request arrives within d.
func (s *Selector) SelectTimeout(d time.Duration, impls Impls) error {
	s.check(impls)
	if s.stopped() {
		return ErrStopped
	}
	if s.timer == nil {
		s.timer = time.NewTimer(d)
	} else {
		s.timer.Reset(d)
	}
	select {
	case m := <-s.queue:
		s.timer.Stop()
		s.serve(m, impls)
		return nil
	case <-s.gone:
		s.timer.Stop()
		return s.disconnected(impls)
	case <-s.timer.C:
		return ErrTimeout
	}
}

// SelectContext is [Selector.SelectBlocking] bounded by ctx.
// Returns ctx.Err() if ctx is done before a request arrives.
func (s *Selector) SelectContext(ctx context.Context, impls Impls) error {
	s.check(impls)
	if s.stopped() {
		return ErrStopped
	}
	select {
	case m := <-s.queue:
		s.serve(m, impls)
		return nil
	case <-s.gone:
		return s.disconnected(impls)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySelect dispatches one request if one is queued.
// Returns iox.ErrWouldBlock if the queue is empty, so a worker can fold
// request handling into its own polling loop.
func (s *Selector) TrySelect(impls Impls) error {
	s.check(impls)
	if s.stopped() {
		return ErrStopped
	}
	select {
	case m := <-s.queue:
		s.serve(m, impls)
		return nil
	case <-s.gone:
		return s.disconnected(impls)
	default:
		return iox.ErrWouldBlock
	}
}

// Serve dispatches requests until every handle is closed, returning nil,
// or until ctx is done, returning ctx.Err().
func (s *Selector) Serve(ctx context.Context, impls Impls) error {
	for {
		err := s.SelectContext(ctx, impls)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrDisconnected):
			s.core.log(slog.LevelDebug, "all handles closed")
			return nil
		default:
			return err
		}
	}
}

// Close stops the worker: calls made after Close fail with [ErrStopped],
// and requests still queued are abandoned. Workers run by [Start] are
// closed automatically when their body returns.
func (s *Selector) Close() {
	s.core.stop(nil)
}
