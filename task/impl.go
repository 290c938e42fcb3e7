// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"fmt"

	"code.hybscloud.com/handoff"
)

// Impl is an implementation bound to one operation.
type Impl struct {
	table *Table
	index int
	fn    any
}

// Implement binds fn as the implementation of op.
func Implement[A, R any](op *Op[A, R], fn func(A) R) Impl {
	if fn == nil {
		panic("task: nil implementation for " + op.table.name + "." + op.name)
	}
	return Impl{table: op.table, index: op.index, fn: fn}
}

// Impls is a total set of implementations for one table: exactly one per
// declared operation, indexed by operation.
type Impls struct {
	table *Table
	fns   []any
}

// Impls checks that impls cover every operation of t exactly once and
// returns them ready for dispatch. It seals t.
func (t *Table) Impls(impls ...Impl) (Impls, error) {
	t.seal()
	fns := make([]any, len(t.ops))
	for _, im := range impls {
		if im.table != t {
			return Impls{}, fmt.Errorf("%w: table %s", ErrForeignImpl, t.name)
		}
		if fns[im.index] != nil {
			return Impls{}, fmt.Errorf("%w: %s.%s", ErrDuplicateImpl, t.name, t.ops[im.index])
		}
		fns[im.index] = im.fn
	}
	for i, fn := range fns {
		if fn == nil {
			return Impls{}, fmt.Errorf("%w: %s.%s", ErrMissingImpl, t.name, t.ops[i])
		}
	}
	return Impls{table: t, fns: fns}, nil
}

// MustImpls is like [Table.Impls] but panics on an incomplete set.
func (t *Table) MustImpls(impls ...Impl) Impls {
	set, err := t.Impls(impls...)
	if err != nil {
		panic(err)
	}
	return set
}

// request is one message on a worker queue: the variant of op, its
// argument, and the reply capability.
type request[A, R any] struct {
	op  *Op[A, R]
	arg A
	tx  handoff.Sender[R]
}

// call is the tag-dispatched view of a request used by the worker.
type call interface {
	opIndex() int
	serve(fn any)
	abandon()
}

func (r *request[A, R]) opIndex() int {
	return r.op.index
}

// serve runs fn and completes the reply. If fn panics the reply is
// abandoned before the panic continues.
func (r *request[A, R]) serve(fn any) {
	defer r.tx.Close()
	r.tx.Send(fn.(func(A) R)(r.arg))
}

func (r *request[A, R]) abandon() {
	r.tx.Close()
}
