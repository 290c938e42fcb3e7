// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/handoff/task"
)

func TestImplsMissing(t *testing.T) {
	e := newEchoTable()
	_, err := e.tbl.Impls(
		task.Implement(e.echo, func(s string) string { return s }),
		task.Implement(e.noop, func(task.Unit) task.Unit { return task.Unit{} }),
	)
	if !errors.Is(err, task.ErrMissingImpl) {
		t.Fatalf("got %v, want ErrMissingImpl", err)
	}
	if err.Error() != "task: missing implementation: echo.Add" {
		t.Fatalf("error %q does not name the operation", err)
	}
}

func TestImplsDuplicate(t *testing.T) {
	e := newEchoTable()
	_, err := e.tbl.Impls(
		task.Implement(e.echo, func(s string) string { return s }),
		task.Implement(e.echo, func(s string) string { return s + s }),
		task.Implement(e.add, func(a [2]int) int { return 0 }),
		task.Implement(e.noop, func(task.Unit) task.Unit { return task.Unit{} }),
	)
	if !errors.Is(err, task.ErrDuplicateImpl) {
		t.Fatalf("got %v, want ErrDuplicateImpl", err)
	}
}

func TestImplsForeign(t *testing.T) {
	e := newEchoTable()
	other := newEchoTable()
	_, err := e.tbl.Impls(
		task.Implement(e.echo, func(s string) string { return s }),
		task.Implement(other.add, func(a [2]int) int { return 0 }),
		task.Implement(e.noop, func(task.Unit) task.Unit { return task.Unit{} }),
	)
	if !errors.Is(err, task.ErrForeignImpl) {
		t.Fatalf("got %v, want ErrForeignImpl", err)
	}
}

func TestMustImplsPanics(t *testing.T) {
	e := newEchoTable()
	expectPanic(t, "task: missing implementation: echo.Echo", func() {
		e.tbl.MustImpls()
	})
}

func TestImplementNilPanics(t *testing.T) {
	e := newEchoTable()
	expectPanic(t, "task: nil implementation for echo.Echo", func() {
		task.Implement(e.echo, nil)
	})
}

func TestDeclareDuplicatePanics(t *testing.T) {
	tbl := task.NewTable("dup")
	task.Declare[int, int](tbl, "Op")
	expectPanic(t, "task: duplicate operation dup.Op", func() {
		task.Declare[string, string](tbl, "Op")
	})
}

func TestDeclareAfterSealPanics(t *testing.T) {
	e := newEchoTable()
	h, sel := task.New(e.tbl)
	defer h.Close()
	defer sel.Close()
	expectPanic(t, "task: declare on sealed table echo", func() {
		task.Declare[int, int](e.tbl, "Late")
	})
}

func TestTableIntrospection(t *testing.T) {
	e := newEchoTable()
	if e.tbl.Name() != "echo" || e.tbl.Len() != 3 {
		t.Fatalf("table %q has %d ops", e.tbl.Name(), e.tbl.Len())
	}
	for i, want := range []string{"Echo", "Add", "Noop"} {
		if got := e.tbl.OpName(i); got != want {
			t.Fatalf("OpName(%d) = %q, want %q", i, got, want)
		}
	}
	if e.add.Name() != "Add" || e.add.Index() != 1 || e.add.Table() != e.tbl {
		t.Fatalf("op Add reports %q at %d", e.add.Name(), e.add.Index())
	}
}
