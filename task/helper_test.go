// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"code.hybscloud.com/handoff/task"
)

// echoTable is a fresh table with the operations most tests use.
type echoTable struct {
	tbl  *task.Table
	echo *task.Op[string, string]
	add  *task.Op[[2]int, int]
	noop *task.Op[task.Unit, task.Unit]
}

func newEchoTable() echoTable {
	tbl := task.NewTable("echo")
	return echoTable{
		tbl:  tbl,
		echo: task.Declare[string, string](tbl, "Echo"),
		add:  task.Declare[[2]int, int](tbl, "Add"),
		noop: task.Declare[task.Unit, task.Unit](tbl, "Noop"),
	}
}

// impls binds the default implementations.
func (e echoTable) impls() task.Impls {
	return e.tbl.MustImpls(
		task.Implement(e.echo, func(s string) string { return s + " processed" }),
		task.Implement(e.add, func(a [2]int) int { return a[0] + a[1] }),
		task.Implement(e.noop, func(task.Unit) task.Unit { return task.Unit{} }),
	)
}

// serveUntilDone loops a blocking select and reports the terminal error.
func serveUntilDone(impls task.Impls, done chan<- error) func(*task.Selector) {
	return func(sel *task.Selector) {
		for {
			if err := sel.SelectBlocking(impls); err != nil {
				done <- err
				return
			}
		}
	}
}

// syncBuffer is a bytes.Buffer safe for a logger on another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger(buf *syncBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// expectPanic runs f and fails unless it panics with a value whose string
// form is want.
func expectPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic %q", want)
		}
		var msg string
		switch v := r.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		if msg != want {
			t.Fatalf("unexpected panic: %v, want %q", r, want)
		}
	}()
	f()
}
