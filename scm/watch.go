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
	"os"

	"github.com/fsnotify/fsnotify"
)

// WatchLibrary re-loads path into env every time it is written, letting a
// session iterate on the bootstrap library without restarting the REPL.
// This is the one teacher dependency (fsnotify appears in its go.mod but
// is never imported by any file in the retrieved snapshot) given a concrete
// home here: a hot-reload watcher for the one external file this
// interpreter reads at startup.
func (in *Interp) WatchLibrary(path string, env Value) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				log.Printf("watch: reloading %s", path)
				if err := in.LoadFile(path, env); err != nil {
					log.Printf("watch: reload failed: %v", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("watch: %v", err)
			}
		}
	}()
	return w, nil
}

// LoadFile reads every top-level expression out of path and evaluates it in
// env in order (the supplemented "source-loader error-continuation"): a form
// that fails to evaluate is logged together with its error and the load
// continues with the next form. A read error is logged and ends the load.
func (in *Interp) LoadFile(path string, env Value) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r := NewReader(in.Heap, in.Symbols, string(data))
	for !r.AtEOF() {
		expr, rerr := r.ReadExpr()
		if rerr != nil {
			log.Printf("load %s: %s", path, rerr.Error())
			break
		}
		src := in.Heap.String(expr)
		if _, evalErr := in.EvalTopLevel(expr, env); evalErr != nil {
			log.Printf("load %s: %s: %s", path, src, evalErr.Error())
		}
	}
	return nil
}
