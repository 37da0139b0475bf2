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

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders v back to surface syntax (spec.md section 4.6), grounded
// on ToyLisp.c's print_expr and the tag-switch shape of scm/printer.go's
// String/SerializeEx.
func (h *Heap) String(v Value) string {
	var b strings.Builder
	h.write(&b, v)
	return b.String()
}

func (h *Heap) write(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindNil:
		b.WriteString("nil")
	case KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case KindSymbol:
		b.WriteString(v.Sym.Name)
	case KindBuiltin:
		fmt.Fprintf(b, "#<BUILTIN:%s>", v.Builtin.Name)
	case KindPair:
		h.writePair(b, v)
	case KindClosure, KindMacro:
		// print the (params . body) portion, suppressing the captured env
		h.write(b, h.Cdr(v))
	default:
		b.WriteString("#<unknown>")
	}
}

func (h *Heap) writePair(b *strings.Builder, v Value) {
	b.WriteByte('(')
	h.write(b, h.Car(v))
	rest := h.Cdr(v)
	for {
		if IsNil(rest) {
			break
		}
		if IsPair(rest) {
			b.WriteByte(' ')
			h.write(b, h.Car(rest))
			rest = h.Cdr(rest)
		} else {
			b.WriteString(" . ")
			h.write(b, rest)
			break
		}
	}
	b.WriteByte(')')
}
