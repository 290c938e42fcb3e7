// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handoff provides a scoped single-value handoff between two goroutines.
//
// A handoff is a one-shot rendezvous: one [Sender] deposits exactly one value,
// one [Receiver] takes it exactly once. The backing cell is owned by the
// [Invoke] call that created it, and Invoke does not return until the sender
// side has finished touching the cell, so a pooled cell is never recycled
// while a send or an abandonment wake is still in flight.
//
// # Architecture
//
//   - Cell: a state word (generation << 32 | phase) from [code.hybscloud.com/atomix],
//     a value slot, and a wake target. The slot is written before the ready
//     phase is stored and read only after the ready phase is loaded.
//   - Readiness: [Park] spins then parks on a token fixed at cell creation,
//     [Cond] blocks on a mutex and condition variable, [Backoff] polls with
//     [code.hybscloud.com/iox.Backoff] and never wakes anyone.
//   - Recycling: [Pool] reuses cells of one strategy. Stale capabilities from
//     a previous generation are detected and rejected.
//
// # Abandonment
//
// Go has no destructors, so abandonment is explicit: a producer that cannot
// produce calls [Sender.Close]. The receiver then observes [ErrAbandoned]
// instead of blocking forever. Close after Send is a no-op, which makes
// `defer tx.Close()` the idiomatic guard around a producer.
//
// # Example
//
//	n := handoff.Invoke(func(tx handoff.Sender[int], rx handoff.Receiver[int]) int {
//		go func() {
//			defer tx.Close()
//			tx.Send(42)
//		}()
//		v, err := rx.Recv()
//		if err != nil {
//			return -1
//		}
//		return v
//	})
package handoff
