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

// Value is the tagged union every part of the interpreter passes around.
// Heap-backed kinds (Pair, Closure, Macro) carry a Handle, an index into the
// owning Interp's heap arena rather than a raw pointer, so the collector can
// sweep without chasing live Go pointers (see heap.go).
type Kind uint8

const (
	KindNil Kind = iota
	KindInt
	KindSymbol
	KindBuiltin
	KindPair
	KindClosure
	KindMacro
)

type Value struct {
	Kind    Kind
	Int     int64
	Sym     *Symbol
	Builtin *Builtin
	Handle  uint32
}

var Nil = Value{Kind: KindNil}

func IsNil(v Value) bool { return v.Kind == KindNil }

func IsPair(v Value) bool { return v.Kind == KindPair }

func IsSymbol(v Value) bool { return v.Kind == KindSymbol }

func IsInt(v Value) bool { return v.Kind == KindInt }

func IsHeap(v Value) bool {
	return v.Kind == KindPair || v.Kind == KindClosure || v.Kind == KindMacro
}

func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

func Sym(s *Symbol) Value { return Value{Kind: KindSymbol, Sym: s} }

func BuiltinValue(b *Builtin) Value { return Value{Kind: KindBuiltin, Builtin: b} }

// pairValue builds a Value referencing an existing heap cell under a given
// kind; used by heap.go's Cons (Kind: KindPair) and by eval.go when a closure
// cons cell is retagged into a closure/macro value without copying.
func pairValue(kind Kind, h uint32) Value { return Value{Kind: kind, Handle: h} }

// SameIdentity implements eq? for variants compared by identity rather than
// value: nil·nil, pair/closure/macro by heap handle, symbol by interned
// pointer, builtin by native-handle pointer.
func SameIdentity(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindInt:
		return a.Int == b.Int
	case KindSymbol:
		return a.Sym == b.Sym
	case KindBuiltin:
		return a.Builtin == b.Builtin
	case KindPair, KindClosure, KindMacro:
		return a.Handle == b.Handle
	default:
		return false
	}
}
