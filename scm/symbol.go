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

// Symbol is an interned name. Two Values of KindSymbol refer to the same
// binding iff their *Symbol pointers are equal, which SymbolTable.Intern
// guarantees holds iff their Name strings are equal (spec.md section 8,
// property 2).
type Symbol struct {
	Name string
}

// SymbolTable interns symbol names for the lifetime of one Interp. Symbols
// never reference heap cells and are never freed, so the garbage collector
// does not mark from the table; the roots it marks are the global
// environment and the active evaluation machines (see eval.go's
// collectRoots and interp.go's EvalTopLevel).
type SymbolTable struct {
	byName map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]*Symbol, 128)}
}

// Intern returns the unique *Symbol for s, creating and storing it the first
// time s is seen. The backing string is owned by the table for the rest of
// the session (spec.md section 3, "Symbol name storage").
func (t *SymbolTable) Intern(s string) *Symbol {
	if sym, ok := t.byName[s]; ok {
		return sym
	}
	sym := &Symbol{Name: s}
	t.byName[s] = sym
	return sym
}

// Len reports how many distinct symbols have been interned so far.
func (t *SymbolTable) Len() int { return len(t.byName) }

// Names returns every interned name, for introspection/debug use. Order is
// unspecified.
func (t *SymbolTable) Names() []string {
	out := make([]string, 0, len(t.byName))
	for n := range t.byName {
		out = append(out, n)
	}
	return out
}
