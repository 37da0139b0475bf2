/*
Copyright (C) 2023  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

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
	"io"
	"log"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

// Repl runs an interactive terminal session against env, reading from a
// chzyer/readline-backed line editor. Each line is wrapped in an outer pair
// of parens and read as a single list to check that it is complete, the
// same "(%s)" wrap ToyLisp.c's original_source main loop does; several
// top-level forms typed on one line then each evaluate and print in order.
// A line that still doesn't close (ReadExpr reporting Syntax on the wrapped
// input) is held and re-offered together with the next line, so a single
// form can also span several lines (spec.md
// section 7, supplemented feature "REPL multi-form lines"), grounded on
// scm/prompt.go's readline wiring.
func (in *Interp) Repl(env Value) {
	sessionID := uuid.New()
	log.Printf("repl %s: session start", sessionID)

	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".toylisp-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	pending := ""
	for {
		line, err := l.Readline()
		line = pending + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			pending = ""
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		if line == "" {
			continue
		}
		if line == ":env" {
			for _, b := range in.DumpEnv(env) {
				fmt.Println(b)
			}
			continue
		}

		r := NewReader(in.Heap, in.Symbols, "("+line+")")
		if _, rerr := r.ReadExpr(); rerr != nil {
			pending = line + "\n"
			l.SetPrompt(contprompt)
			continue
		}
		pending = ""
		l.SetPrompt(newprompt)

		// Every EvalTopLevel collection sweeps cells not reachable from the
		// global env or its result, so the forms are read one at a time from
		// the line rather than held in the wrapped list across evaluations.
		fr := NewReader(in.Heap, in.Symbols, line)
		for !fr.AtEOF() {
			form, ferr := fr.ReadExpr()
			if ferr != nil {
				fmt.Println("error:", ferr.Error())
				break
			}
			result, evalErr := in.EvalTopLevel(form, env)
			if evalErr != nil {
				log.Printf("repl %s: %s", sessionID, evalErr.Error())
				fmt.Println("error:", evalErr.Error())
			} else {
				fmt.Print(resultprompt)
				fmt.Println(in.Heap.String(result))
			}
		}
	}
	log.Printf("repl %s: session end", sessionID)
}
