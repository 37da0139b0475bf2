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

// machine holds the trampoline's loop-carried state (spec.md section 4.4):
// the expression/environment pending evaluation, the frame stack, and the
// most recently produced result. needEval selects which of the two halves
// of the loop runs next: evaluate expr, or feed result back into the stack.
type machine struct {
	expr     Value
	env      Value
	stack    Value
	result   Value
	needEval bool
}

// Eval drives the trampoline to a final value. It never recurses into
// itself for a tail call: every interpreted tail position is reached by
// looping back with a new expr/env and an unchanged (or popped) stack, so
// arbitrarily deep self-tail-recursion costs no Go stack (spec.md section
// 4.4's "Tail calls" note).
func (in *Interp) Eval(expr Value, env Value) Value {
	return in.run(&machine{expr: expr, env: env, stack: Nil, needEval: true})
}

// run drains a machine to its final value. Exported internally (not just
// via Eval) so the apply builtin can seed a machine at the do-apply stage
// directly, without re-deriving it from a synthetic expression. A run can
// nest: the apply builtin's invoke calls run again while an outer run is
// still suspended in a Go stack frame above it, so run registers its
// machine in in.activeMachines rather than assuming it is the only one
// collectRoots needs to mark.
func (in *Interp) run(m *machine) Value {
	h := in.Heap
	in.activeMachines = append(in.activeMachines, m)
	defer func() {
		in.activeMachines = in.activeMachines[:len(in.activeMachines)-1]
	}()
	for {
		if h.Step() {
			in.collectRoots()
		}
		if m.needEval {
			in.evalStep(m)
			continue
		}
		if IsNil(m.stack) {
			return m.result
		}
		in.doReturn(m)
	}
}

// collectRoots marks every outstanding machine, not just the innermost one:
// a nested run (invoke's call from the apply builtin) leaves its caller's
// machine alive only in a Go stack frame, and a GC pass that skipped it
// would sweep the outer continuation's still-live expr/env/stack/result.
func (in *Interp) collectRoots() {
	h := in.Heap
	h.Mark(in.Global)
	for _, am := range in.activeMachines {
		h.Mark(am.expr)
		h.Mark(am.env)
		h.Mark(am.stack)
		h.Mark(am.result)
	}
	h.Collect()
}

// evalStep classifies m.expr: atoms resolve or self-evaluate immediately;
// pairs are either a recognized special form (some complete synchronously,
// others suspend via a new frame) or an application (push a frame and start
// by evaluating the operator).
func (in *Interp) evalStep(m *machine) {
	expr := m.expr
	switch expr.Kind {
	case KindSymbol:
		m.result = envGet(in.Heap, m.env, expr)
		m.needEval = false
	case KindPair:
		in.evalPair(m)
	default:
		// Nil, Int, Builtin, Closure, Macro all self-evaluate.
		m.result = expr
		m.needEval = false
	}
}

func listp(h *Heap, v Value) bool {
	for {
		if IsNil(v) {
			return true
		}
		if v.Kind != KindPair {
			return false
		}
		v = h.Cdr(v)
	}
}

func listToSlice(h *Heap, v Value) []Value {
	out := make([]Value, 0, 4)
	for !IsNil(v) {
		out = append(out, h.Car(v))
		v = h.Cdr(v)
	}
	return out
}

func mustList1(h *Heap, args Value, who string) Value {
	if IsNil(args) || !IsNil(h.Cdr(args)) {
		throw(Args, who)
	}
	return h.Car(args)
}

func splitIf(h *Heap, args Value) (test, then, els Value) {
	if IsNil(args) {
		throw(Args, "if")
	}
	a1 := h.Cdr(args)
	if IsNil(a1) {
		throw(Args, "if")
	}
	a2 := h.Cdr(a1)
	if IsNil(a2) {
		throw(Args, "if")
	}
	if !IsNil(h.Cdr(a2)) {
		throw(Args, "if")
	}
	return h.Car(args), h.Car(a1), h.Car(a2)
}

func splitLambda(h *Heap, args Value, who string) (params, body Value) {
	if IsNil(args) || IsNil(h.Cdr(args)) {
		throw(Args, who)
	}
	return h.Car(args), h.Cdr(args)
}

func (in *Interp) evalPair(m *machine) {
	h := in.Heap
	expr := m.expr
	if !listp(h, expr) {
		throw(Syntax, "improper list in operator position")
	}
	op := h.Car(expr)
	args := h.Cdr(expr)

	if op.Kind == KindBuiltin {
		m.result = in.callBuiltin(op.Builtin, listToSlice(h, args))
		m.needEval = false
		return
	}

	if op.Kind == KindSymbol {
		f := in.forms
		switch {
		case SameIdentity(op, f.quote):
			m.result = mustList1(h, args, "quote")
			m.needEval = false
			return

		case SameIdentity(op, f.and):
			if IsNil(args) {
				m.result = in.symT
				m.needEval = false
				return
			}
			frame := newFrame(h, m.stack, m.env)
			frameSetOp(h, frame, op)
			frameSetPendingArgs(h, frame, h.Cdr(args))
			m.stack = frame
			m.expr = h.Car(args)
			m.needEval = true
			return

		case SameIdentity(op, f.if_):
			test, then, els := splitIf(h, args)
			frame := newFrame(h, m.stack, m.env)
			frameSetOp(h, frame, op)
			frameSetPendingArgs(h, frame, h.Cons(then, h.Cons(els, Nil)))
			m.stack = frame
			m.expr = test
			m.needEval = true
			return

		case SameIdentity(op, f.lambda):
			params, body := splitLambda(h, args, "lambda")
			m.result = makeClosure(h, m.env, params, body, KindClosure)
			m.needEval = false
			return

		case SameIdentity(op, f.define):
			in.handleDefine(m, args)
			return

		case SameIdentity(op, f.defmacro):
			in.handleDefmacro(m, args)
			return

		case SameIdentity(op, f.apply_):
			if IsNil(args) || IsNil(h.Cdr(args)) || !IsNil(h.Cdr(h.Cdr(args))) {
				throw(Args, "apply")
			}
			frame := newFrame(h, m.stack, m.env)
			frameSetOp(h, frame, op)
			frameSetPendingArgs(h, frame, h.Cdr(args))
			m.stack = frame
			m.expr = h.Car(args)
			m.needEval = true
			return
		}
	}

	// Plain application: push a frame with the operator still unresolved
	// and start by evaluating it.
	frame := newFrame(h, m.stack, m.env)
	frameSetPendingArgs(h, frame, args)
	m.stack = frame
	m.expr = op
	m.needEval = true
}

func (in *Interp) handleDefine(m *machine, args Value) {
	h := in.Heap
	if IsNil(args) || IsNil(h.Cdr(args)) {
		throw(Args, "define")
	}
	target := h.Car(args)
	switch target.Kind {
	case KindSymbol:
		if !IsNil(h.Cdr(h.Cdr(args))) {
			throw(Args, "define")
		}
		valExpr := h.Car(h.Cdr(args))
		frame := newFrame(h, m.stack, m.env)
		frameSetOp(h, frame, in.forms.define)
		frameSetPendingArgs(h, frame, target)
		m.stack = frame
		m.expr = valExpr
		m.needEval = true
	case KindPair:
		// (define (name . params) body...) sugar for (define name (lambda params body...));
		// no argument needs evaluating, so this completes synchronously.
		name := h.Car(target)
		if name.Kind != KindSymbol {
			throw(Type, "define")
		}
		closure := makeClosure(h, m.env, h.Cdr(target), h.Cdr(args), KindClosure)
		envSet(h, m.env, name, closure)
		m.result = name
		m.needEval = false
	default:
		throw(Type, "define")
	}
}

func (in *Interp) handleDefmacro(m *machine, args Value) {
	h := in.Heap
	if IsNil(args) || IsNil(h.Cdr(args)) {
		throw(Args, "defmacro")
	}
	sig := h.Car(args)
	if sig.Kind != KindPair {
		throw(Syntax, "defmacro")
	}
	name := h.Car(sig)
	if name.Kind != KindSymbol {
		throw(Type, "defmacro")
	}
	macro := makeClosure(h, m.env, h.Cdr(sig), h.Cdr(args), KindMacro)
	envSet(h, m.env, name, macro)
	m.result = name
	m.needEval = false
}

// makeClosure builds the shared (env . (params . body)) representation that
// backs both closures and macros — a macro is the same triple wrapped with
// a different Kind tag, never a separate value shape (spec.md section 3).
func makeClosure(h *Heap, env, params, body Value, kind Kind) Value {
	if !listp(h, body) {
		throw(Syntax, "lambda body must be a proper list")
	}
	p := params
	for !IsNil(p) {
		if p.Kind == KindSymbol {
			break
		}
		if p.Kind != KindPair || h.Car(p).Kind != KindSymbol {
			throw(Type, "lambda parameter list")
		}
		p = h.Cdr(p)
	}
	cell := h.Cons(env, h.Cons(params, body))
	return pairValue(kind, cell.Handle)
}

// doReturn absorbs the just-produced m.result into the top stack frame,
// implementing the do-return/do-apply/do-bind/do-exec state machine of
// spec.md section 4.4.
func (in *Interp) doReturn(m *machine) {
	h := in.Heap
	f := m.stack

	if !IsNil(framePendingBody(h, f)) {
		in.doExec(m, f)
		return
	}

	op := frameOp(h, f)

	if SameIdentity(op, in.forms.macroExpand) {
		// The macro body's final value is an expansion, not a result: pop
		// this frame and re-evaluate it in the environment of the call site.
		callSiteEnv := frameEvaluatedArgs(h, f)
		m.stack = frameParent(h, f)
		m.expr = m.result
		m.env = callSiteEnv
		m.needEval = true
		return
	}

	if IsNil(op) {
		// The operator expression just finished evaluating.
		resolved := m.result
		frameSetOp(h, f, resolved)
		if resolved.Kind == KindMacro {
			in.doMacroBind(m, f, resolved)
			return
		}
		in.startArgs(m, f)
		return
	}

	if SameIdentity(op, in.forms.define) {
		sym := framePendingArgs(h, f)
		envSet(h, frameEnv(h, f), sym, m.result)
		m.stack = frameParent(h, f)
		m.result = sym
		m.needEval = false
		return
	}

	if SameIdentity(op, in.forms.if_) {
		pending := framePendingArgs(h, f)
		then := h.Car(pending)
		els := h.Car(h.Cdr(pending))
		branch := els
		if !IsNil(m.result) {
			branch = then
		}
		m.stack = frameParent(h, f)
		m.expr = branch
		m.env = frameEnv(h, f)
		m.needEval = true
		return
	}

	if SameIdentity(op, in.forms.and) {
		if IsNil(m.result) {
			m.stack = frameParent(h, f)
			m.needEval = false
			return
		}
		pending := framePendingArgs(h, f)
		if IsNil(pending) {
			m.stack = frameParent(h, f)
			m.needEval = false
			return
		}
		frameSetPendingArgs(h, f, h.Cdr(pending))
		m.expr = h.Car(pending)
		m.env = frameEnv(h, f)
		m.needEval = true
		return
	}

	// op is either the apply special form (both operands go through the
	// ordinary argument-accumulation machinery) or an already-resolved
	// operator value: either way, m.result is the next evaluated argument.
	in.pushArgAndAdvance(m, f)
}

func (in *Interp) startArgs(m *machine, f Value) {
	h := in.Heap
	pending := framePendingArgs(h, f)
	if IsNil(pending) {
		in.doApply(m, f)
		return
	}
	frameSetPendingArgs(h, f, h.Cdr(pending))
	m.expr = h.Car(pending)
	m.env = frameEnv(h, f)
	m.needEval = true
}

func (in *Interp) pushArgAndAdvance(m *machine, f Value) {
	h := in.Heap
	pushEvaluatedArg(h, f, m.result)
	pending := framePendingArgs(h, f)
	if IsNil(pending) {
		in.doApply(m, f)
		return
	}
	frameSetPendingArgs(h, f, h.Cdr(pending))
	m.expr = h.Car(pending)
	m.env = frameEnv(h, f)
	m.needEval = true
}

// doApply fires once every operand (and, for a normal call, the operator)
// has been evaluated and accumulated in reverse on the frame.
func (in *Interp) doApply(m *machine, f Value) {
	h := in.Heap
	op := frameOp(h, f)
	args := reverseList(h, frameEvaluatedArgs(h, f))

	if SameIdentity(op, in.forms.apply_) {
		if IsNil(args) || IsNil(h.Cdr(args)) || !IsNil(h.Cdr(h.Cdr(args))) {
			throw(Args, "apply")
		}
		fn := h.Car(args)
		argList := h.Car(h.Cdr(args))
		if !listp(h, argList) {
			throw(Syntax, "apply: second argument must be a list")
		}
		// Replace the current frame's op/args with the resolved callee and
		// its already-evaluated argument list, then fall through as if this
		// had been an ordinary call all along.
		frameSetOp(h, f, fn)
		frameSetEvaluatedArgs(h, f, reverseList(h, argList))
		in.doApply(m, f)
		return
	}

	switch op.Kind {
	case KindBuiltin:
		m.stack = frameParent(h, f)
		m.expr = h.Cons(op, args)
		m.env = frameEnv(h, f)
		m.needEval = true
	case KindClosure:
		in.doBind(m, f, op, args)
	default:
		throw(Type, "value is not callable")
	}
}

func bindParams(h *Heap, env, params, args Value) {
	p, a := params, args
	for {
		if IsNil(p) {
			if !IsNil(a) {
				throw(Args, "too many arguments")
			}
			return
		}
		if p.Kind == KindSymbol {
			envSet(h, env, p, a)
			return
		}
		if IsNil(a) {
			throw(Args, "too few arguments")
		}
		envSet(h, env, h.Car(p), h.Car(a))
		p = h.Cdr(p)
		a = h.Cdr(a)
	}
}

// doBind enters a closure's body: a fresh child environment of the
// closure's captured environment, parameters bound to the (already
// evaluated) arguments.
func (in *Interp) doBind(m *machine, f, closure Value, args Value) {
	h := in.Heap
	if !IsNil(framePendingBody(h, f)) {
		in.doExec(m, f)
		return
	}
	capturedEnv := h.Car(closure)
	rest := h.Cdr(closure)
	params := h.Car(rest)
	body := h.Cdr(rest)

	childEnv := envCreate(h, capturedEnv)
	bindParams(h, childEnv, params, args)

	frameSetEnv(h, f, childEnv)
	frameSetEvaluatedArgs(h, f, Nil)
	frameSetPendingBody(h, f, body)
	in.doExec(m, f)
}

// doMacroBind is do-bind's unevaluated-argument twin: the raw argument
// expressions (frame's pending-args, stashed there when the call was first
// dispatched) are bound as-is, and the frame is tagged so that once its
// body finishes, the resulting expansion is re-evaluated rather than
// handed onward as a final value.
func (in *Interp) doMacroBind(m *machine, f, macro Value) {
	h := in.Heap
	rawArgs := framePendingArgs(h, f)
	callSiteEnv := frameEnv(h, f)
	capturedEnv := h.Car(macro)
	rest := h.Cdr(macro)
	params := h.Car(rest)
	body := h.Cdr(rest)

	childEnv := envCreate(h, capturedEnv)
	bindParams(h, childEnv, params, rawArgs)

	frameSetEnv(h, f, childEnv)
	frameSetPendingBody(h, f, body)
	frameSetOp(h, f, in.forms.macroExpand)
	frameSetEvaluatedArgs(h, f, callSiteEnv)
	in.doExec(m, f)
}

// doExec advances through a body's forms one at a time. The last form is a
// genuine tail call: the frame is popped before it is evaluated, so a
// self-recursive tail call never grows the stack. A macro's last form is
// the one exception — the frame is kept (with pending-body cleared) just
// long enough for do-return's macro-expand case to catch the expansion.
func (in *Interp) doExec(m *machine, f Value) {
	h := in.Heap
	body := framePendingBody(h, f)
	head := h.Car(body)
	rest := h.Cdr(body)

	if IsNil(rest) {
		if SameIdentity(frameOp(h, f), in.forms.macroExpand) {
			frameSetPendingBody(h, f, Nil)
			m.expr = head
			m.env = frameEnv(h, f)
			m.needEval = true
			return
		}
		m.stack = frameParent(h, f)
		m.expr = head
		m.env = frameEnv(h, f)
		m.needEval = true
		return
	}
	frameSetPendingBody(h, f, rest)
	m.expr = head
	m.env = frameEnv(h, f)
	m.needEval = true
}
