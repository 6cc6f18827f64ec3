package canvas

import (
	"math"

	"drawboard/shape"
)

type entry struct {
	shape shape.Shape
	live  bool
}

// Handle refers to one shape slot in a Document. It stays valid across
// appends by anyone, and goes stale when its shape is removed or the
// document is replaced wholesale.
type Handle struct {
	e *entry
}

func (h Handle) Valid() bool {
	return h.e != nil && h.e.live
}

// Shape returns the current shape behind h, or nil when h is stale.
func (h Handle) Shape() shape.Shape {
	if !h.Valid() {
		return nil
	}
	return h.e.shape
}

// Document is the ordered shape list of one canvas; order is z-order.
// It is not safe for concurrent use.
type Document struct {
	entries []*entry
}

func (d *Document) Len() int {
	return len(d.entries)
}

// Shapes returns a snapshot of the document.
func (d *Document) Shapes() []shape.Shape {
	out := make([]shape.Shape, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.shape
	}
	return out
}

// ShapesExcept returns a snapshot of the document without the entry behind h.
func (d *Document) ShapesExcept(h Handle) []shape.Shape {
	out := make([]shape.Shape, 0, len(d.entries))
	for _, e := range d.entries {
		if e != h.e {
			out = append(out, e.shape)
		}
	}
	return out
}

func (d *Document) Append(s shape.Shape) Handle {
	e := &entry{shape: s, live: true}
	d.entries = append(d.entries, e)
	return Handle{e: e}
}

// Set replaces the shape behind h. It reports false for a stale handle.
func (d *Document) Set(h Handle, s shape.Shape) bool {
	if !h.Valid() {
		return false
	}
	h.e.shape = s
	return true
}

// Replace swaps in shapes wholesale; every existing handle goes stale.
func (d *Document) Replace(shapes []shape.Shape) {
	d.detachAll()
	d.entries = make([]*entry, 0, len(shapes))
	for _, s := range shapes {
		d.entries = append(d.entries, &entry{shape: s, live: true})
	}
}

func (d *Document) Clear() {
	d.detachAll()
	d.entries = nil
}

func (d *Document) detachAll() {
	for _, e := range d.entries {
		e.live = false
	}
}

func (d *Document) indexEqual(s shape.Shape) int {
	for i, e := range d.entries {
		if shape.Equal(e.shape, s) {
			return i
		}
	}
	return -1
}

func (d *Document) removeAt(i int) shape.Shape {
	e := d.entries[i]
	e.live = false
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	return e.shape
}

// RemoveEqual removes the first shape equal to s.
func (d *Document) RemoveEqual(s shape.Shape) bool {
	i := d.indexEqual(s)
	if i < 0 {
		return false
	}
	d.removeAt(i)
	return true
}

// ReplaceEqual swaps the first shape equal to from for to, in place.
func (d *Document) ReplaceEqual(from, to shape.Shape) bool {
	i := d.indexEqual(from)
	if i < 0 {
		return false
	}
	d.entries[i].shape = to
	return true
}

// RemoveWhere removes every shape matching pred and returns them in
// document order.
func (d *Document) RemoveWhere(pred func(shape.Shape) bool) []shape.Shape {
	var removed []shape.Shape
	kept := d.entries[:0]
	for _, e := range d.entries {
		if pred(e.shape) {
			e.live = false
			removed = append(removed, e.shape)
			continue
		}
		kept = append(kept, e)
	}
	clear(d.entries[len(kept):])
	d.entries = kept
	return removed
}

// HitTest returns the shape nearest to p among those whose bounds, grown by
// tol, contain p. Ties go to the topmost shape.
func (d *Document) HitTest(p shape.Point, tol float64) (Handle, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := len(d.entries) - 1; i >= 0; i-- {
		s := d.entries[i].shape
		if !s.Bounds().Contains(p, tol) {
			continue
		}
		if dist := shape.Distance(s, p); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Handle{}, false
	}
	return Handle{e: d.entries[best]}, true
}
