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

import "github.com/google/btree"

// binding is one (name, printed value) pair surfaced by DumpEnv.
type binding struct {
	name  string
	value string
}

func bindingLess(a, b binding) bool { return a.name < b.name }

// DumpEnv walks env's local-then-parent binding chain and returns every
// binding in alphabetical order, backing the REPL's `:env` debug command
// (not a Lisp-level builtin: builtins never receive the environment). A
// btree.BTreeG sorts on insert rather than requiring a separate sort pass,
// grounded on storage/index.go's use of btree.BTreeG as an ordered index
// structure.
func (in *Interp) DumpEnv(env Value) []string {
	h := in.Heap
	tr := btree.NewG(32, bindingLess)

	seen := make(map[string]bool)
	for !IsNil(env) {
		bs := h.Cdr(env)
		for !IsNil(bs) {
			b := h.Car(bs)
			sym := h.Car(b)
			name := sym.Sym.Name
			if !seen[name] {
				seen[name] = true
				tr.ReplaceOrInsert(binding{name: name, value: h.String(h.Cdr(b))})
			}
			bs = h.Cdr(bs)
		}
		env = h.Car(env)
	}

	out := make([]string, 0, tr.Len())
	tr.Ascend(func(b binding) bool {
		out = append(out, b.name+" = "+b.value)
		return true
	})
	return out
}
