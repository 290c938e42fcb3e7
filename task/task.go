// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/pprof"
	"sync"

	"code.hybscloud.com/atomix"
)

// queueCapacity bounds the request queue of every worker. One request waits
// in the slot while the worker serves another; a third caller blocks until
// the worker dequeues.
const queueCapacity = 1

// Option configures a worker created by [New] or [Start].
type Option func(*options)

type options struct {
	name       string
	lockThread bool
	logger     *slog.Logger
}

// WithName sets the worker name used in logs and as the "task" pprof label.
// The default is "<table>-<serial>".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLockOSThread wires the worker goroutine started by [Start] to its own
// OS thread for the worker's whole life.
func WithLockOSThread() Option {
	return func(o *options) { o.lockThread = true }
}

// WithLogger sets the logger of one worker instead of [DefaultLogger].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// core is the state shared by every handle clone and the selector of one
// worker.
type core struct {
	table  *Table
	serial Serial
	name   string
	opts   options
	queue  chan call

	// refs counts open clones plus sends in progress. It never rises again
	// once it reaches zero, and gone is closed at that moment.
	refs atomix.Int64
	gone chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}
	err      error // written before stopped is closed
}

// acquire takes a reference unless the last one has already been dropped.
func (c *core) acquire() bool {
	for {
		n := c.refs.LoadAcquire()
		if n == 0 {
			return false
		}
		if c.refs.CompareAndSwapAcqRel(n, n+1) {
			return true
		}
	}
}

// unref drops a reference taken by New, Clone or acquire.
func (c *core) unref() {
	if c.refs.AddAcqRel(-1) == 0 {
		close(c.gone)
	}
}

func (c *core) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return defaultLogger()
}

func (c *core) log(level slog.Level, msg string, args ...any) {
	c.logger().Log(context.Background(), level, msg,
		append([]any{"component", "task", "task", c.name, "serial", c.serial}, args...)...)
}

// New creates a worker's handle and selector without running anything.
// The caller hosts the loop, e.g. through [NewRunner], and calls
// [Selector.Close] when the loop ends.
func New(t *Table, opts ...Option) (*Handle, *Selector) {
	t.seal()
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := &core{
		table:   t,
		serial:  nextSerial(),
		opts:    o,
		queue:   make(chan call, queueCapacity),
		gone:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	c.refs.StoreRelease(1)
	c.name = o.name
	if c.name == "" {
		c.name = fmt.Sprintf("%s-%d", t.name, c.serial)
	}
	return newHandle(c), &Selector{core: c, queue: c.queue, gone: c.gone}
}

// Start creates a worker and runs body on a new goroutine with the worker's
// selector. body is expected to loop over the select operations until it
// observes [ErrDisconnected].
//
// When body returns or panics the worker is stopped: later calls fail with
// [ErrStopped] and requests still queued are abandoned, so no caller blocks
// forever. A panic is recovered, logged, and reported by [Handle.Wait].
func Start(t *Table, body func(sel *Selector), opts ...Option) *Handle {
	h, sel := New(t, opts...)
	go sel.run(body)
	return h
}

func (s *Selector) run(body func(sel *Selector)) {
	c := s.core
	if c.opts.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	c.log(slog.LevelDebug, "worker started")
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
				c.log(slog.LevelError, "worker panicked", "panic", r)
			}
		}()
		labels := pprof.Labels("task", c.name)
		pprof.Do(context.Background(), labels, func(context.Context) {
			body(s)
		})
	}()
	c.stop(err)
}

// stop marks the worker stopped and abandons every request that is queued
// now or enqueued later, until the last reference is dropped.
func (c *core) stop(err error) {
	c.stopOnce.Do(func() {
		c.err = err
		c.log(slog.LevelDebug, "worker exited", "error", err)
		close(c.stopped)
		go c.drain()
	})
}

func (c *core) drain() {
	n := 0
loop:
	for {
		select {
		case m := <-c.queue:
			m.abandon()
			n++
		case <-c.gone:
			break loop
		}
	}
	// Nothing is sent after gone closes, so one slot is all that can remain.
	select {
	case m := <-c.queue:
		m.abandon()
		n++
	default:
	}
	if n > 0 {
		c.log(slog.LevelWarn, "abandoned requests after worker exit", "count", n)
	}
}
