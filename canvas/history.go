package canvas

import "drawboard/shape"

// History holds full document snapshots for local undo and redo. It is never
// shared with peers.
type History struct {
	undo [][]shape.Shape
	redo [][]shape.Shape
}

// Record pushes the snapshot taken before a completed action and forgets
// anything that could be redone.
func (h *History) Record(prior []shape.Shape) {
	h.undo = append(h.undo, prior)
	h.redo = nil
}

// Undo returns the snapshot to restore, saving current for Redo.
func (h *History) Undo(current []shape.Shape) ([]shape.Shape, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

func (h *History) Redo(current []shape.Shape) ([]shape.Shape, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
