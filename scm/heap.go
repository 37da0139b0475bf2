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

// cell is one cons cell in the heap arena. Car/Cdr hold the two Values;
// live is false once the slot has been swept and is waiting to be reused.
type cell struct {
	car, cdr Value
	mark     bool
	live     bool
}

// Heap is a non-moving, precise, mark-and-sweep allocator for cons cells.
// Cells are addressed by index (a Handle) rather than by Go pointer, per
// spec.md section 9's design note, so sweeping never has to chase pointers
// through Go's own memory model.
type Heap struct {
	cells    []cell
	freeList []uint32
	live     int

	// stats; collections is exposed for the shutdown hook's log line
	stepsSinceGC int
	collections  int
}

// stepsBetweenGC is the evaluator-step cadence spec.md section 4.1 asks for.
const stepsBetweenGC = 100000

func NewHeap() *Heap {
	return &Heap{}
}

// Cons allocates a fresh pair cell and returns a Value of KindPair for it.
func (h *Heap) Cons(car, cdr Value) Value {
	var idx uint32
	if n := len(h.freeList); n > 0 {
		idx = h.freeList[n-1]
		h.freeList = h.freeList[:n-1]
		h.cells[idx] = cell{car: car, cdr: cdr, live: true}
	} else {
		idx = uint32(len(h.cells))
		h.cells = append(h.cells, cell{car: car, cdr: cdr, live: true})
	}
	h.live++
	return pairValue(KindPair, idx)
}

func (h *Heap) requireCell(v Value, who string) *cell {
	if !IsHeap(v) {
		throw(Type, who+": not a pair")
	}
	c := &h.cells[v.Handle]
	if !c.live {
		throw(Type, who+": stale handle (use after free)")
	}
	return c
}

// Car/Cdr follow spec.md's nil-is-not-a-pair contract: callers that need the
// "car of nil is nil" builtin behavior (car/cdr builtins) check for nil
// themselves before calling into the heap; Car/Cdr here are the raw
// accessors used by environments, frames and the evaluator's own pair
// traversal, where the argument is always already known to be a pair.
func (h *Heap) Car(v Value) Value { return h.requireCell(v, "car").car }
func (h *Heap) Cdr(v Value) Value { return h.requireCell(v, "cdr").cdr }

func (h *Heap) SetCar(v Value, x Value) { h.requireCell(v, "set-car!").car = x }
func (h *Heap) SetCdr(v Value, x Value) { h.requireCell(v, "set-cdr!").cdr = x }

// Mark traces root and everything reachable from it, skipping already-marked
// cells (handles cycles, including closures that capture an environment
// which in turn (through a binding) points back at the closure).
func (h *Heap) Mark(root Value) {
	if !IsHeap(root) {
		return
	}
	idx := root.Handle
	c := &h.cells[idx]
	if !c.live || c.mark {
		return
	}
	c.mark = true
	h.Mark(c.car)
	h.Mark(c.cdr)
}

// Collect sweeps every cell not reached by the most recent Mark calls, then
// clears marks on survivors so the next collection starts clean.
func (h *Heap) Collect() {
	freed := 0
	for i := range h.cells {
		c := &h.cells[i]
		if !c.live {
			continue
		}
		if !c.mark {
			c.live = false
			c.car = Nil
			c.cdr = Nil
			h.freeList = append(h.freeList, uint32(i))
			freed++
		} else {
			c.mark = false
		}
	}
	h.live -= freed
	h.collections++
	h.stepsSinceGC = 0
}

// LiveCells reports the number of currently allocated (unswept) cells.
func (h *Heap) LiveCells() int { return h.live }

// Collections reports how many sweeps have run, for introspection/logging.
func (h *Heap) Collections() int { return h.collections }

// Step advances the evaluator-step counter and reports whether a step-based
// collection is due (spec.md section 4.1, "(a) after every ~100,000
// evaluator steps"). Callers still need to pass the live roots to Mark
// themselves; Step only tracks cadence.
func (h *Heap) Step() bool {
	h.stepsSinceGC++
	return h.stepsSinceGC >= stepsBetweenGC
}
