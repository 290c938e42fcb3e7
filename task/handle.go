// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/handoff"
)

// Handle is a caller's capability on one worker.
//
// A Handle is safe for concurrent use. [Handle.Clone] returns another
// capability on the same worker and queue; the worker's selector reports
// [ErrDisconnected] once every clone has been closed and the requests they
// enqueued have been served. A clone that becomes unreachable without Close
// is closed by a runtime cleanup, but that happens only after a garbage
// collection; close handles explicitly.
type Handle struct {
	ref *ref
}

// ref is one clone's share of the worker. It is kept apart from Handle so
// the cleanup attached to a Handle can release it.
type ref struct {
	core   *core
	closed atomix.Uint32
}

func newHandle(c *core) *Handle {
	h := &Handle{ref: &ref{core: c}}
	runtime.AddCleanup(h, (*ref).release, h.ref)
	return h
}

// Clone returns a new handle on the same worker. Cloning a closed handle
// returns a closed handle. Clone never blocks.
func (h *Handle) Clone() *Handle {
	c := h.ref.core
	if h.ref.closed.LoadAcquire() != 0 || !c.acquire() {
		r := &ref{core: c}
		r.closed.StoreRelease(1)
		return &Handle{ref: r}
	}
	return newHandle(c)
}

// Close releases this clone. Calls through it fail with [ErrClosed]
// afterwards; a call already enqueueing keeps the worker connected until
// its request is queued. Close never blocks, and closing twice is a no-op.
func (h *Handle) Close() {
	h.ref.release()
}

// Name returns the worker name.
func (h *Handle) Name() string {
	return h.ref.core.name
}

// Serial returns the worker serial.
func (h *Handle) Serial() Serial {
	return h.ref.core.serial
}

// Done returns a channel closed when the worker has stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.ref.core.stopped
}

// Wait blocks until the worker has stopped and returns the error it stopped
// with: nil after a normal return, or an error wrapping [ErrWorkerPanic].
func (h *Handle) Wait() error {
	c := h.ref.core
	<-c.stopped
	return c.err
}

func (r *ref) release() {
	if r.closed.CompareAndSwapAcqRel(0, 1) {
		r.core.unref()
	}
}

// enqueue hands m to the worker, blocking while the queue is full. The
// send holds its own reference, so the selector cannot disconnect while a
// request is on its way into the queue.
func (r *ref) enqueue(m call) error {
	c := r.core
	if r.closed.LoadAcquire() != 0 || !c.acquire() {
		return ErrClosed
	}
	defer c.unref()
	select {
	case <-c.stopped:
		return ErrStopped
	default:
	}
	select {
	case c.queue <- m:
		return nil
	case <-c.stopped:
		return ErrStopped
	}
}

// Call invokes op on the worker behind h with arg and blocks until the
// worker answers.
//
// The error is [handoff.ErrAbandoned] if the worker dropped the request
// (its implementation panicked or the worker exited with the request
// queued), [ErrStopped] if the worker had already exited, [ErrClosed] if h
// was closed, and [ErrForeignOp] if op belongs to another table.
//
// Calling a worker's own handle from inside one of its implementations
// deadlocks.
func Call[A, R any](h *Handle, op *Op[A, R], arg A) (R, error) {
	r := h.ref
	if op.table != r.core.table {
		var zero R
		return zero, ErrForeignOp
	}
	var out R
	err := handoff.InvokeIn(op.cells, func(tx handoff.Sender[R], rx handoff.Receiver[R]) error {
		if err := r.enqueue(&request[A, R]{op: op, arg: arg, tx: tx}); err != nil {
			tx.Close()
			return err
		}
		v, err := rx.Recv()
		out = v
		return err
	})
	runtime.KeepAlive(h)
	return out, err
}
