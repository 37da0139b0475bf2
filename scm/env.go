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

// An environment is a pair (parent . bindings): parent is nil at the root
// or an outer environment, bindings is a list of (symbol . value) pairs in
// most-recently-bound-first order (spec.md section 3). Being an ordinary
// pair, it is traced for free by Heap.Mark.

func envCreate(h *Heap, parent Value) Value {
	return h.Cons(parent, Nil)
}

func envParent(h *Heap, env Value) Value { return h.Car(env) }

func envBindings(h *Heap, env Value) Value { return h.Cdr(env) }

// envGet performs a linear scan of the local binding list by symbol
// identity, falling through to the parent on a local miss, and raises
// Unbound once it walks off the root (spec.md section 4.3).
func envGet(h *Heap, env Value, sym Value) Value {
	for {
		bs := h.Cdr(env)
		for !IsNil(bs) {
			b := h.Car(bs)
			if SameIdentity(h.Car(b), sym) {
				return h.Cdr(b)
			}
			bs = h.Cdr(bs)
		}
		parent := h.Car(env)
		if IsNil(parent) {
			throw(Unbound, sym.Sym.Name)
		}
		env = parent
	}
}

// envSet updates an existing local binding in place if sym is already bound
// locally; otherwise it prepends a fresh binding to the local list. It never
// reaches into the parent environment, so shadowing a name in a nested scope
// is simply prepending a new binding in front of it (spec.md section 4.3).
func envSet(h *Heap, env Value, sym Value, val Value) {
	bs := h.Cdr(env)
	for !IsNil(bs) {
		b := h.Car(bs)
		if SameIdentity(h.Car(b), sym) {
			h.SetCdr(b, val)
			return
		}
		bs = h.Cdr(bs)
	}
	binding := h.Cons(sym, val)
	h.SetCdr(env, h.Cons(binding, h.Cdr(env)))
}
