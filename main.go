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
/*
	toylisp: a small case-sensitive Lisp-1 with a trampolined evaluator
	and a precise mark-and-sweep collector.

	grounded on https://pkelchte.wordpress.com/2013/12/31/scm-go/
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"toylisp/scm"
)

func main() {
	fmt.Print(`toylisp Copyright (C) 2023   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	library := flag.String("library", "library.lisp", "bootstrap library to load at startup")
	netAddr := flag.String("net", "", "if set, also serve a websocket REPL on this address (e.g. :6655)")
	watch := flag.Bool("watch", false, "reload -library whenever it changes on disk")
	flag.Parse()

	in := scm.NewInterp()
	in.RegisterShutdownHooks()

	if _, err := os.Stat(*library); err == nil {
		if err := in.LoadFile(*library, in.Global); err != nil {
			log.Printf("loading %s: %v", *library, err)
		}
	}

	if *watch {
		if _, err := in.WatchLibrary(*library, in.Global); err != nil {
			log.Printf("watch %s: %v", *library, err)
		}
	}

	if *netAddr != "" {
		go func() {
			if err := in.NetServe(*netAddr, in.Global); err != nil {
				log.Printf("netrepl: %v", err)
			}
		}()
	}

	in.Repl(in.Global)
}
