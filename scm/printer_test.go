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

import "testing"

func TestPrintClosureHidesEnv(t *testing.T) {
	in := NewInterp()
	h := in.Heap
	params := h.Cons(Sym(in.Symbols.Intern("x")), Nil)
	body := h.Cons(Sym(in.Symbols.Intern("x")), Nil)
	closure := makeClosure(h, in.Global, params, body, KindClosure)

	got := h.String(closure)
	want := "((x) x)"
	if got != want {
		t.Fatalf("closure printed as %q, want %q (captured env must not leak)", got, want)
	}
}

func TestPrintBuiltin(t *testing.T) {
	in := NewInterp()
	car := envGet(in.Heap, in.Global, Sym(in.Symbols.Intern("car")))
	got := in.Heap.String(car)
	if got != "#<BUILTIN:car>" {
		t.Fatalf("got %q", got)
	}
}
