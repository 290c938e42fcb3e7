// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/handoff"
)

// Unit is the argument or result type of operations that take or return
// nothing.
type Unit = struct{}

// Table is the declarative operation list of one worker kind.
//
// Operations are added with [Declare] before the first [New] or [Start] on
// the table; after that the table is sealed and further declarations
// panic. Declare is not safe for concurrent use.
type Table struct {
	name   string
	ops    []string
	sealed atomix.Uint32
}

// NewTable creates an empty operation table.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of declared operations.
func (t *Table) Len() int {
	return len(t.ops)
}

// OpName returns the name of the i-th declared operation.
func (t *Table) OpName(i int) string {
	return t.ops[i]
}

func (t *Table) seal() {
	t.sealed.StoreRelease(1)
}

// Op is a declared operation taking A and returning R.
type Op[A, R any] struct {
	table *Table
	index int
	name  string
	cells *handoff.Pool[R]
}

// Declare adds an operation to t. opts configure the handoff cells that
// carry the operation's replies.
// Declare panics on a sealed table or a duplicate name.
func Declare[A, R any](t *Table, name string, opts ...handoff.Option) *Op[A, R] {
	if t.sealed.LoadAcquire() != 0 {
		panic("task: declare on sealed table " + t.name)
	}
	for _, n := range t.ops {
		if n == name {
			panic("task: duplicate operation " + t.name + "." + name)
		}
	}
	op := &Op[A, R]{
		table: t,
		index: len(t.ops),
		name:  name,
		cells: handoff.NewPool[R](opts...),
	}
	t.ops = append(t.ops, name)
	return op
}

// Name returns the operation name.
func (op *Op[A, R]) Name() string {
	return op.name
}

// Index returns the position of the operation in its table.
func (op *Op[A, R]) Index() int {
	return op.index
}

// Table returns the table the operation was declared in.
func (op *Op[A, R]) Table() *Table {
	return op.table
}
