// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tedsuo/ifrit"

	"code.hybscloud.com/handoff/task"
)

func TestRunnerServesUntilSignalled(t *testing.T) {
	skipRace(t)
	e := newEchoTable()
	h, sel := task.New(e.tbl)
	defer h.Close()

	proc := ifrit.Invoke(task.NewRunner(sel, e.impls()))
	for i := range 10 {
		got, err := task.Call(h, e.add, [2]int{i, i})
		if err != nil || got != 2*i {
			t.Fatalf("Add(%d, %d) = (%d, %v)", i, i, got, err)
		}
	}

	proc.Signal(os.Interrupt)
	select {
	case err := <-proc.Wait():
		if err != nil {
			t.Fatalf("runner exited with %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not exit on signal")
	}

	if _, err := task.Call(h, e.echo, "late"); !errors.Is(err, task.ErrStopped) {
		t.Fatalf("call after exit: got %v, want ErrStopped", err)
	}
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestRunnerExitsOnDisconnect(t *testing.T) {
	skipRace(t)
	e := newEchoTable()
	h, sel := task.New(e.tbl)
	proc := ifrit.Invoke(task.NewRunner(sel, e.impls()))

	got, err := task.Call(h, e.echo, "x")
	if err != nil || got != "x processed" {
		t.Fatalf("Echo = (%q, %v)", got, err)
	}
	h.Close()

	select {
	case err := <-proc.Wait():
		if err != nil {
			t.Fatalf("runner exited with %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not exit after the last handle closed")
	}
}

func TestRunnerPanicIsReported(t *testing.T) {
	skipRace(t)
	tbl := task.NewTable("fragile")
	boom := task.Declare[task.Unit, task.Unit](tbl, "Boom")
	impls := tbl.MustImpls(task.Implement(boom, func(task.Unit) task.Unit {
		panic("boom")
	}))

	buf := &syncBuffer{}
	h, sel := task.New(tbl, task.WithLogger(bufferLogger(buf)))
	defer h.Close()
	proc := ifrit.Invoke(task.NewRunner(sel, impls))

	if _, err := task.Call(h, boom, task.Unit{}); err == nil {
		t.Fatal("call into a panicking implementation succeeded")
	}

	err := <-proc.Wait()
	if !errors.Is(err, task.ErrWorkerPanic) {
		t.Fatalf("runner exited with %v, want ErrWorkerPanic", err)
	}
	if err := h.Wait(); !errors.Is(err, task.ErrWorkerPanic) {
		t.Fatalf("Wait: got %v, want ErrWorkerPanic", err)
	}
}

func TestRunnerForeignImplsPanics(t *testing.T) {
	e := newEchoTable()
	other := newEchoTable()
	h, sel := task.New(e.tbl)
	defer h.Close()
	defer sel.Close()

	expectPanic(t, "task: selector given implementations for another table", func() {
		task.NewRunner(sel, other.impls())
	})
}
