/*
Copyright (C) 2023  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package scm

// A frame is the six-slot activation record spec.md section 3 describes,
// cons-encoded as
//
//	(parent-frame . (env . (op . (pending-args . (evaluated-args-reversed . pending-body)))))
//
// so Heap.Mark already traces every live frame's contents as an ordinary
// pair graph — the evaluator only has to hand the top frame to Mark as one
// more root, with no frame-shaped special case in the collector.

func newFrame(h *Heap, parent, env Value) Value {
	// op unset (Nil), no pending args yet, nothing evaluated yet, no body yet
	tail := h.Cons(Nil, Nil)           // (evaluated-args-reversed . pending-body)
	tail = h.Cons(Nil, tail)           // (pending-args . tail)
	tail = h.Cons(Nil, tail)           // (op . tail)
	tail = h.Cons(env, tail)           // (env . tail)
	return h.Cons(parent, tail)
}

func frameParent(h *Heap, f Value) Value { return h.Car(f) }

func frameEnv(h *Heap, f Value) Value { return h.Car(h.Cdr(f)) }
func frameSetEnv(h *Heap, f, env Value) { h.SetCar(h.Cdr(f), env) }

func frameOp(h *Heap, f Value) Value { return h.Car(h.Cdr(h.Cdr(f))) }
func frameSetOp(h *Heap, f, op Value) { h.SetCar(h.Cdr(h.Cdr(f)), op) }

func framePendingArgs(h *Heap, f Value) Value { return h.Car(h.Cdr(h.Cdr(h.Cdr(f)))) }
func frameSetPendingArgs(h *Heap, f, v Value) { h.SetCar(h.Cdr(h.Cdr(h.Cdr(f))), v) }

func frameEvaluatedArgs(h *Heap, f Value) Value {
	return h.Car(h.Cdr(h.Cdr(h.Cdr(h.Cdr(f)))))
}
func frameSetEvaluatedArgs(h *Heap, f, v Value) {
	h.SetCar(h.Cdr(h.Cdr(h.Cdr(h.Cdr(f)))), v)
}

func framePendingBody(h *Heap, f Value) Value {
	return h.Cdr(h.Cdr(h.Cdr(h.Cdr(h.Cdr(f)))))
}
func frameSetPendingBody(h *Heap, f, v Value) {
	h.SetCdr(h.Cdr(h.Cdr(h.Cdr(h.Cdr(f)))), v)
}

// pushEvaluatedArg conses x onto a frame's evaluated-args-reversed slot; cheap push,
// the list is reversed once at apply time (spec.md section 3).
func pushEvaluatedArg(h *Heap, f, x Value) {
	frameSetEvaluatedArgs(h, f, h.Cons(x, frameEvaluatedArgs(h, f)))
}

// reverseList returns a freshly consed reversal of a proper list; the input
// list is left unchanged.
func reverseList(h *Heap, list Value) Value {
	out := Nil
	for !IsNil(list) {
		out = h.Cons(h.Car(list), out)
		list = h.Cdr(list)
	}
	return out
}
