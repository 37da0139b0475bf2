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
	"log"

	"github.com/dc0d/onexit"
)

// RegisterShutdownHooks reports the interpreter's final heap stats once the
// process is exiting, rather than leaving that observation to whatever
// happened to run before os.Exit.
func (in *Interp) RegisterShutdownHooks() {
	onexit.Register(func() {
		log.Printf("shutdown: %d live cells, %d collections, %d interned symbols",
			in.Heap.LiveCells(), in.Heap.Collections(), in.Symbols.Len())
	})
}
