// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import "errors"

// Selector results.
var (
	// ErrDisconnected means every handle of the worker has been closed;
	// no request can ever arrive again.
	ErrDisconnected = errors.New("task: all handles closed")
	// ErrTimeout means SelectTimeout elapsed with no request.
	ErrTimeout = errors.New("task: select timed out")
)

// Call failures.
var (
	// ErrStopped means the worker has exited and serves no more requests.
	ErrStopped = errors.New("task: worker stopped")
	// ErrClosed means the handle clone used for the call was closed.
	ErrClosed = errors.New("task: handle closed")
	// ErrForeignOp means the operation belongs to another table.
	ErrForeignOp = errors.New("task: operation from another table")
)

// Worker failures.
var (
	// ErrWorkerPanic wraps the value a worker body panicked with.
	ErrWorkerPanic = errors.New("task: worker panicked")
)

// Implementation set errors.
var (
	ErrMissingImpl   = errors.New("task: missing implementation")
	ErrDuplicateImpl = errors.New("task: duplicate implementation")
	ErrForeignImpl   = errors.New("task: implementation from another table")
)
