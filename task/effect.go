// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task

import (
	"code.hybscloud.com/kont"
)

// Request is the effect operation for one worker call.
// Perform(Request[A, R]{Op: op, Arg: a}) calls op with a and resumes with
// the worker's result.
type Request[A, R any] struct {
	kont.Phantom[R]
	Op  *Op[A, R]
	Arg A
}

// DispatchTask performs the call on h. Blocks until the worker answers.
func (q Request[A, R]) DispatchTask(h *Handle) (kont.Resumed, error) {
	v, err := Call(h, q.Op, q.Arg)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// taskDispatcher is the structural interface for task effects.
type taskDispatcher interface {
	DispatchTask(h *Handle) (kont.Resumed, error)
}

// taskHandler implements kont.Handler for task effects.
// A failed call short-circuits the computation with Left(err).
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type taskHandler[R any] struct {
	h *Handle
}

// Dispatch implements kont.Handler via structural interface assertion.
func (th taskHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	top, ok := op.(taskDispatcher)
	if !ok {
		panic("task: unhandled effect in taskHandler")
	}
	v, err := top.DispatchTask(th.h)
	if err != nil {
		return kont.Left[error, R](err), false
	}
	return v, true
}

// CallBind calls op with arg and passes the result to f.
// Fuses Perform(Request[A, R]{...}) + Bind.
func CallBind[A, R, B any](op *Op[A, R], arg A, f func(R) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Request[A, R]{Op: op, Arg: arg}), f)
}

// CallThen calls op with arg, discards the result and continues with next.
// Fuses Perform(Request[A, R]{...}) + Then.
func CallThen[A, R, B any](op *Op[A, R], arg A, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Request[A, R]{Op: op, Arg: arg}), next)
}

// Exec runs a Cont-world protocol whose effects are worker calls on h.
// Returns Right(result), or Left(err) from the first call that failed.
func Exec[R any](h *Handle, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.Handle(wrapped, taskHandler[R]{h: h})
}

// ExecExpr runs an Expr-world protocol whose effects are worker calls on h.
// Returns Right(result), or Left(err) from the first call that failed.
func ExecExpr[R any](h *Handle, protocol kont.Expr[R]) kont.Either[error, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.HandleExpr(wrapped, taskHandler[R]{h: h})
}
