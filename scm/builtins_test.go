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

func TestBuiltinCarCdrOfNil(t *testing.T) {
	in := NewInterp()
	if v := evalStr(t, in, "(car nil)"); !IsNil(v) {
		t.Fatalf("(car nil) should be nil, got %v", v)
	}
	if v := evalStr(t, in, "(cdr nil)"); !IsNil(v) {
		t.Fatalf("(cdr nil) should be nil, got %v", v)
	}
}

func TestBuiltinConsCarCdr(t *testing.T) {
	in := NewInterp()
	v := evalStr(t, in, "(car (cons 1 2))")
	if v.Int != 1 {
		t.Fatalf("got %v", v)
	}
	v = evalStr(t, in, "(cdr (cons 1 2))")
	if v.Int != 2 {
		t.Fatalf("got %v", v)
	}
}

func TestBuiltinPairPredicate(t *testing.T) {
	in := NewInterp()
	if v := evalStr(t, in, "(pair? (cons 1 2))"); IsNil(v) {
		t.Fatalf("(pair? (cons 1 2)) should be true")
	}
	if v := evalStr(t, in, "(pair? 1)"); !IsNil(v) {
		t.Fatalf("(pair? 1) should be nil")
	}
	if v := evalStr(t, in, "(pair? nil)"); !IsNil(v) {
		t.Fatalf("(pair? nil) should be nil")
	}
}

func TestBuiltinEqIdentity(t *testing.T) {
	in := NewInterp()
	if v := evalStr(t, in, "(eq? 1 1)"); IsNil(v) {
		t.Fatalf("equal integers should be eq?")
	}
	if v := evalStr(t, in, "(eq? (quote a) (quote a))"); IsNil(v) {
		t.Fatalf("same-named interned symbols should be eq?")
	}
	if v := evalStr(t, in, "(eq? (cons 1 2) (cons 1 2))"); !IsNil(v) {
		t.Fatalf("distinct cons cells should not be eq?")
	}
}

func TestBuiltinComparisons(t *testing.T) {
	in := NewInterp()
	if v := evalStr(t, in, "(= 1 1 1)"); IsNil(v) {
		t.Fatalf("(= 1 1 1) should be true")
	}
	if v := evalStr(t, in, "(= 1 2)"); !IsNil(v) {
		t.Fatalf("(= 1 2) should be nil")
	}
	if v := evalStr(t, in, "(< 1 2 3)"); IsNil(v) {
		t.Fatalf("(< 1 2 3) should be true")
	}
	if v := evalStr(t, in, "(< 1 3 2)"); !IsNil(v) {
		t.Fatalf("(< 1 3 2) should be nil")
	}
}

func TestBuiltinDivisionByZeroTraps(t *testing.T) {
	in := NewInterp()
	defer func() {
		if recover() == nil {
			t.Fatalf("division by zero should be a fatal (un-recovered) condition")
		}
	}()
	// bypass EvalTopLevel's recover: division by zero is not a Lisp Error,
	// it is a raw runtime panic that must propagate past the top level.
	r := NewReader(in.Heap, in.Symbols, "(/ 1 0)")
	expr, _ := r.ReadExpr()
	in.Eval(expr, in.Global)
}

func TestBuiltinWrongTypeIsTypeError(t *testing.T) {
	in := NewInterp()
	r := NewReader(in.Heap, in.Symbols, "(+ 1 (quote a))")
	expr, _ := r.ReadExpr()
	_, err := in.EvalTopLevel(expr, in.Global)
	if err == nil || err.Kind != Type {
		t.Fatalf("expected Type error, got %v", err)
	}
}
