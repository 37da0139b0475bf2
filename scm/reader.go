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

import "strconv"

// Reader is the lexer + recursive-descent parser of spec.md section 4.2,
// grounded on original_source/ToyLisp.c's lex/read_expr/read_list/parse_simple.
// The reader never retains pointers into its source buffer past a read: an
// interned symbol copies its name out of the buffer at make_sym time, which
// in this implementation is SymbolTable.Intern copying a Go string.
type Reader struct {
	h   *Heap
	st  *SymbolTable
	src string
	pos int
}

func NewReader(h *Heap, st *SymbolTable, src string) *Reader {
	return &Reader{h: h, st: st, src: src}
}

func isWS(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDelim(c byte) bool { return c == '(' || c == ')' || isWS(c) }

// skipWS advances past whitespace, exactly like lex's strspn(str, ws).
func (r *Reader) skipWS() {
	for r.pos < len(r.src) && isWS(r.src[r.pos]) {
		r.pos++
	}
}

// AtEOF reports whether, after skipping whitespace, no more input remains.
func (r *Reader) AtEOF() bool {
	r.skipWS()
	return r.pos >= len(r.src)
}

// lex returns the next token text and advances past it, or ok=false on
// end-of-input (the syntax condition ReadExpr uses to stop cleanly).
func (r *Reader) lex() (tok string, ok bool) {
	r.skipWS()
	if r.pos >= len(r.src) {
		return "", false
	}
	start := r.pos
	c := r.src[r.pos]
	switch c {
	case '(', ')', '\'', '`':
		r.pos++
		return r.src[start:r.pos], true
	case ',':
		r.pos++
		if r.pos < len(r.src) && r.src[r.pos] == '@' {
			r.pos++
		}
		return r.src[start:r.pos], true
	default:
		// Atoms are delimited only by parens/whitespace, exactly like
		// ToyLisp.c's lex: strcspn(str, "() \t\r\n"). A quote character
		// only ends a token by being its own token, not by being an extra
		// delimiter, so "a'b" lexes as a single atom.
		for r.pos < len(r.src) && !isDelim(r.src[r.pos]) {
			r.pos++
		}
		return r.src[start:r.pos], true
	}
}

// parseSimple implements spec.md section 4.2: a token that fully parses as a
// signed decimal integer reads as an integer; "nil" reads as Nil; anything
// else is an interned symbol, names preserved verbatim (case-sensitive).
func (r *Reader) parseSimple(tok string) Value {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Int(n)
	}
	if tok == "nil" {
		return Nil
	}
	return Sym(r.st.Intern(tok))
}

var quoteForms = map[string]string{
	"'": "quote", "`": "quasiquote", ",": "unquote", ",@": "unquote-splicing",
}

// ReadExpr reads one expression, advancing past it. On end-of-input with no
// partial form pending, it reports Syntax (the collaborator contract: the
// source loader and REPL use this to stop cleanly rather than treat EOF as
// an error worth printing).
func (r *Reader) ReadExpr() (Value, *Error) {
	tok, ok := r.lex()
	if !ok {
		return Nil, newError(Syntax, "unexpected end of input")
	}
	switch tok {
	case "(":
		return r.readList()
	case ")":
		return Nil, newError(Syntax, "unexpected )")
	case "'", "`", ",", ",@":
		inner, err := r.ReadExpr()
		if err != nil {
			return Nil, err
		}
		sym := Sym(r.st.Intern(quoteForms[tok]))
		return r.h.Cons(sym, r.h.Cons(inner, Nil)), nil
	default:
		return r.parseSimple(tok), nil
	}
}

// readList implements read_list: zero or more expressions, with a `.`
// token at list position introducing an improper tail (exactly one more
// expression, then the closing paren is mandatory).
func (r *Reader) readList() (Value, *Error) {
	head := Nil
	tail := Nil // last cons cell of the list built so far, Nil if none yet

	for {
		save := r.pos
		tok, ok := r.lex()
		if !ok {
			return Nil, newError(Syntax, "unterminated list")
		}
		if tok == ")" {
			return head, nil
		}
		if tok == "." {
			if IsNil(tail) {
				return Nil, newError(Syntax, "'.' as first list element")
			}
			item, err := r.ReadExpr()
			if err != nil {
				return Nil, err
			}
			r.h.SetCdr(tail, item)
			closeTok, ok := r.lex()
			if !ok {
				return Nil, newError(Syntax, "unterminated list")
			}
			if closeTok != ")" {
				return Nil, newError(Syntax, "extra forms after dotted tail")
			}
			return head, nil
		}
		// not a list-terminator token: rewind and read a full expression
		r.pos = save
		item, err := r.ReadExpr()
		if err != nil {
			return Nil, err
		}
		cell := r.h.Cons(item, Nil)
		if IsNil(tail) {
			head = cell
		} else {
			r.h.SetCdr(tail, cell)
		}
		tail = cell
	}
}
