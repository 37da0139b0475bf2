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

// specialForms holds the interned symbols the evaluator dispatches on by
// identity, never by name string (spec.md section 4.4 and section 9's
// "Special-form dispatch" design note). macroExpand is an internal marker,
// deliberately NOT interned through the symbol table, so no reader-produced
// symbol can ever alias it (see eval.go's macro-expansion frame handling).
type specialForms struct {
	quote, if_, lambda, define, defmacro, apply_, and Value
	macroExpand                                       Value
}

// Interp is one interpreter instance: its own heap, symbol table, global
// environment and evaluation state. Per spec.md section 9's design note,
// all of the package's "global" mutable state is threaded through this
// handle so multiple independent interpreters can coexist in one process.
type Interp struct {
	Heap    *Heap
	Symbols *SymbolTable
	Global  Value
	forms   specialForms
	symT    Value

	// activeMachines is every run() invocation currently suspended on the
	// Go call stack (normally one; two while invoke drives a nested run
	// for the apply builtin), so a GC pass mid-run marks all of them.
	activeMachines []*machine
}

func NewInterp() *Interp {
	h := NewHeap()
	st := NewSymbolTable()
	in := &Interp{
		Heap:    h,
		Symbols: st,
		Global:  envCreate(h, Nil),
	}
	in.forms = specialForms{
		quote:       Sym(st.Intern("quote")),
		if_:         Sym(st.Intern("if")),
		lambda:      Sym(st.Intern("lambda")),
		define:      Sym(st.Intern("define")),
		defmacro:    Sym(st.Intern("defmacro")),
		apply_:      Sym(st.Intern("apply")),
		and:         Sym(st.Intern("and")),
		macroExpand: Value{Kind: KindSymbol, Sym: &Symbol{Name: "macro-expand"}},
	}
	in.symT = Sym(st.Intern("t"))
	envSet(h, in.Global, in.symT, in.symT)
	registerBuiltins(in)
	return in
}

// EvalTopLevel evaluates one top-level expression, converts any *Error
// panic raised along the way into a returned error (spec.md section 7: "the
// REPL and file loader catch at the top level"), and runs one collection
// afterward (spec.md section 4.1, collection point (b)).
func (in *Interp) EvalTopLevel(expr Value, env Value) (result Value, errOut *Error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				errOut = e
				return
			}
			panic(r)
		}
	}()
	result = in.Eval(expr, env)
	in.Heap.Mark(in.Global)
	in.Heap.Mark(result)
	in.Heap.Collect()
	return result, nil
}
