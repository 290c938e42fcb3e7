// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task_test

import (
	"testing"
	"testing/quick"

	"code.hybscloud.com/handoff/task"
)

// TestPropertyFIFO proves that for any sequence of calls from one caller,
// the worker serves them in call order and every caller gets its own
// reply.
func TestPropertyFIFO(t *testing.T) {
	skipRace(t)

	property := func(args []int32) bool {
		tbl := task.NewTable("fifo")
		neg := task.Declare[int32, int32](tbl, "Neg")
		var served []int32
		impls := tbl.MustImpls(task.Implement(neg, func(v int32) int32 {
			served = append(served, v)
			return -v
		}))
		done := make(chan error, 1)
		h := task.Start(tbl, serveUntilDone(impls, done))

		ok := true
		for _, v := range args {
			got, err := task.Call(h, neg, v)
			if err != nil || got != -v {
				ok = false
			}
		}
		h.Close()
		<-done
		if !ok || len(served) != len(args) {
			return false
		}
		for i := range args {
			if served[i] != args[i] {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyRepliesMatchCallers proves that concurrent callers each get
// the reply computed from their own argument.
func TestPropertyRepliesMatchCallers(t *testing.T) {
	skipRace(t)
	e := newEchoTable()
	done := make(chan error, 1)
	h := task.Start(e.tbl, serveUntilDone(e.impls(), done))
	defer h.Close()

	property := func(a, b int16) bool {
		results := make(chan bool, 2)
		for _, x := range []int16{a, b} {
			go func() {
				got, err := task.Call(h, e.add, [2]int{int(x), int(x)})
				results <- err == nil && got == 2*int(x)
			}()
		}
		return <-results && <-results
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
