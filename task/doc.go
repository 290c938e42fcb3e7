// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package task exposes one background worker goroutine as a set of typed,
// synchronous call operations.
//
// A [Table] declares the operations of a worker kind. Each operation is an
// [Op] with an argument type and a result type. Callers hold a cloneable
// [Handle] and invoke operations with [Call]; the worker holds the matching
// [Selector] and services one request per select, dispatching it to the
// implementation bound for its operation.
//
// # Architecture
//
//   - Transport: a capacity-1 channel of requests shared by every handle
//     clone. While the worker serves one request a second waits in the
//     slot, and a third caller blocks until the worker dequeues.
//   - Reply: each request carries a [code.hybscloud.com/handoff.Sender] drawn
//     from the operation's cell pool; the caller blocks on the paired
//     receiver. A reply that cannot be produced is abandoned, never lost.
//   - Totality: [Table.Impls] rejects a set of implementations that misses,
//     repeats or mixes in operations before anything is dispatched. Code
//     generated by cmd/taskgen makes the same check at compile time.
//   - Lifecycle: [Start] runs a worker body on its own goroutine; [NewRunner]
//     hosts the loop as an [github.com/tedsuo/ifrit.Runner]. When every
//     handle is closed the next select reports [ErrDisconnected].
//   - Effects: [Request] is a [code.hybscloud.com/kont] operation, so worker
//     calls compose into effectful protocols run by [Exec] and [ExecExpr].
//     [CallLoop] repeats one call until a fold finishes, and [Advance]
//     drives a protocol one call at a time.
//
// # Example
//
//	tbl := task.NewTable("echo")
//	echo := task.Declare[string, string](tbl, "Echo")
//	impls := tbl.MustImpls(task.Implement(echo, func(s string) string {
//		return s + " processed"
//	}))
//
//	h := task.Start(tbl, func(sel *task.Selector) {
//		for sel.SelectBlocking(impls) == nil {
//		}
//	})
//	defer h.Close()
//
//	out, err := task.Call(h, echo, "x") // "x processed"
package task
