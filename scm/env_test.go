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

func TestEnvGetSetLocal(t *testing.T) {
	h := NewHeap()
	st := NewSymbolTable()
	env := envCreate(h, Nil)
	x := Sym(st.Intern("x"))

	envSet(h, env, x, Int(1))
	if v := envGet(h, env, x); v.Int != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
	envSet(h, env, x, Int(2)) // rebind in place
	if v := envGet(h, env, x); v.Int != 2 {
		t.Fatalf("expected rebind to 2, got %v", v)
	}
}

func TestEnvLookupFallsThroughToParent(t *testing.T) {
	h := NewHeap()
	st := NewSymbolTable()
	outer := envCreate(h, Nil)
	inner := envCreate(h, outer)
	x := Sym(st.Intern("x"))

	envSet(h, outer, x, Int(10))
	if v := envGet(h, inner, x); v.Int != 10 {
		t.Fatalf("expected inner lookup to see outer binding, got %v", v)
	}
}

func TestEnvShadowingDoesNotTouchParent(t *testing.T) {
	h := NewHeap()
	st := NewSymbolTable()
	outer := envCreate(h, Nil)
	inner := envCreate(h, outer)
	x := Sym(st.Intern("x"))

	envSet(h, outer, x, Int(1))
	envSet(h, inner, x, Int(2))
	if v := envGet(h, inner, x); v.Int != 2 {
		t.Fatalf("expected shadowed binding 2, got %v", v)
	}
	if v := envGet(h, outer, x); v.Int != 1 {
		t.Fatalf("shadowing in inner env corrupted outer binding: got %v", v)
	}
}

func TestEnvUnboundThrows(t *testing.T) {
	h := NewHeap()
	st := NewSymbolTable()
	env := envCreate(h, Nil)
	y := Sym(st.Intern("y"))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic for unbound symbol")
		}
		e, ok := r.(*Error)
		if !ok || e.Kind != Unbound {
			t.Fatalf("expected Unbound *Error, got %v", r)
		}
	}()
	envGet(h, env, y)
}
