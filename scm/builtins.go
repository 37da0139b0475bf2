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

// Builtin is a native procedure: a name (for the printer and error
// messages) and a Go function taking already-evaluated arguments. Builtins
// never see unevaluated expressions or the environment — spec.md section
// 4.5 keeps the builtin surface deliberately thin, grounded on
// original_source/ToyLisp.c's builtin_* family.
type Builtin struct {
	Name string
	Fn   func(in *Interp, args []Value) Value
}

func (in *Interp) callBuiltin(b *Builtin, args []Value) Value {
	return b.Fn(in, args)
}

func argError(name string, want int, got int) {
	throw(Args, name)
}

func wantInt(name string, v Value) int64 {
	if v.Kind != KindInt {
		throw(Type, name+": expected an integer")
	}
	return v.Int
}

func registerBuiltins(in *Interp) {
	h := in.Heap
	def := func(name string, fn func(in *Interp, args []Value) Value) {
		b := &Builtin{Name: name, Fn: fn}
		envSet(h, in.Global, Sym(in.Symbols.Intern(name)), BuiltinValue(b))
	}

	def("car", func(in *Interp, args []Value) Value {
		if len(args) != 1 {
			argError("car", 1, len(args))
		}
		a := args[0]
		if IsNil(a) {
			return Nil
		}
		if a.Kind != KindPair {
			throw(Type, "car: not a pair")
		}
		return in.Heap.Car(a)
	})

	def("cdr", func(in *Interp, args []Value) Value {
		if len(args) != 1 {
			argError("cdr", 1, len(args))
		}
		a := args[0]
		if IsNil(a) {
			return Nil
		}
		if a.Kind != KindPair {
			throw(Type, "cdr: not a pair")
		}
		return in.Heap.Cdr(a)
	})

	def("cons", func(in *Interp, args []Value) Value {
		if len(args) != 2 {
			argError("cons", 2, len(args))
		}
		return in.Heap.Cons(args[0], args[1])
	})

	def("pair?", func(in *Interp, args []Value) Value {
		if len(args) != 1 {
			argError("pair?", 1, len(args))
		}
		if args[0].Kind == KindPair {
			return in.symT
		}
		return Nil
	})

	def("eq?", func(in *Interp, args []Value) Value {
		if len(args) != 2 {
			argError("eq?", 2, len(args))
		}
		if SameIdentity(args[0], args[1]) {
			return in.symT
		}
		return Nil
	})

	def("+", func(in *Interp, args []Value) Value {
		var sum int64
		for _, a := range args {
			sum += wantInt("+", a)
		}
		return Int(sum)
	})

	def("*", func(in *Interp, args []Value) Value {
		var prod int64 = 1
		for _, a := range args {
			prod *= wantInt("*", a)
		}
		return Int(prod)
	})

	def("-", func(in *Interp, args []Value) Value {
		if len(args) == 0 {
			argError("-", 1, 0)
		}
		if len(args) == 1 {
			return Int(-wantInt("-", args[0]))
		}
		acc := wantInt("-", args[0])
		for _, a := range args[1:] {
			acc -= wantInt("-", a)
		}
		return Int(acc)
	})

	def("/", func(in *Interp, args []Value) Value {
		if len(args) == 0 {
			argError("/", 1, 0)
		}
		if len(args) == 1 {
			// division by zero traps as a raw Go runtime panic, deliberately
			// not converted to a Lisp-level error condition.
			return Int(1 / wantInt("/", args[0]))
		}
		acc := wantInt("/", args[0])
		for _, a := range args[1:] {
			acc /= wantInt("/", a)
		}
		return Int(acc)
	})

	def("=", func(in *Interp, args []Value) Value {
		if len(args) < 2 {
			argError("=", 2, len(args))
		}
		first := wantInt("=", args[0])
		for _, a := range args[1:] {
			if wantInt("=", a) != first {
				return Nil
			}
		}
		return in.symT
	})

	def("<", func(in *Interp, args []Value) Value {
		if len(args) < 2 {
			argError("<", 2, len(args))
		}
		prev := wantInt("<", args[0])
		for _, a := range args[1:] {
			n := wantInt("<", a)
			if !(prev < n) {
				return Nil
			}
			prev = n
		}
		return in.symT
	})

	def("apply", func(in *Interp, args []Value) Value {
		// The builtin escape hatch: apply as a plain procedure value, used
		// whenever code needs to pass `apply` itself around as a value
		// rather than invoke the apply special form directly.
		if len(args) != 2 {
			argError("apply", 2, len(args))
		}
		fn := args[0]
		rest := listToSlice(in.Heap, args[1])
		return in.invoke(fn, rest)
	})
}

// invoke calls a resolved procedure value with already-evaluated arguments,
// used by the apply builtin. A fresh frame is seeded directly at the
// do-apply stage and handed to the ordinary trampoline (run) to finish —
// going through evalPair's generic application path here would re-evaluate
// args that are already final values.
func (in *Interp) invoke(fn Value, args []Value) Value {
	h := in.Heap
	if fn.Kind == KindBuiltin {
		return in.callBuiltin(fn.Builtin, args)
	}
	if fn.Kind != KindClosure {
		throw(Type, "apply: not callable")
	}
	frame := newFrame(h, Nil, Nil)
	frameSetOp(h, frame, fn)
	rev := Nil
	for _, a := range args {
		rev = h.Cons(a, rev)
	}
	frameSetEvaluatedArgs(h, frame, rev)
	m := &machine{stack: frame}
	in.doApply(m, frame)
	return in.run(m)
}
