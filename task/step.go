// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"code.hybscloud.com/kont"
)

// CallLoop calls op once per round until fold finishes. arg builds the
// round's argument from the state; fold turns the result into Left(next)
// to go around again or Right(result) to finish. op is called at least
// once. Under [Exec] a failed round ends the loop with Left(err).
func CallLoop[S, A, R, B any](op *Op[A, R], initial S, arg func(S) A, fold func(S, R) kont.Either[S, B]) kont.Eff[B] {
	return CallBind(op, arg(initial), func(r R) kont.Eff[B] {
		e := fold(initial, r)
		if next, ok := e.GetLeft(); ok {
			return CallLoop(op, next, arg, fold)
		}
		result, _ := e.GetRight()
		return kont.Pure(result)
	})
}

// Advance performs the pending call of susp on h and runs the protocol up
// to its next call. The first suspension comes from [kont.StepExpr].
//
// If the call fails, the error is returned with susp unconsumed, so the
// same call can be retried, for example on a handle to a replacement
// worker.
func Advance[R any](h *Handle, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	top, ok := susp.Op().(taskDispatcher)
	if !ok {
		panic("task: unhandled effect in Advance")
	}
	v, err := top.DispatchTask(h)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
