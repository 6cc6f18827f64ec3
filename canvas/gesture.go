package canvas

import "drawboard/shape"

// gesture is the state of the pointer-down/move/up cycle in progress.
type gesture interface {
	gesture()
}

type idle struct{}

// dragging previews a drag tool from anchor to the latest pointer position.
type dragging struct {
	tool    Tool
	anchor  shape.Point
	current shape.Point
}

// authoring extends a freehand stroke through its handle.
type authoring struct {
	stroke Handle
}

type panning struct {
	lastX, lastY float64
}

type erasing struct {
	path []shape.Point
}

// moving drags the selected shape.
type moving struct {
	target   Handle
	original shape.Shape
	last     shape.Point
	prior    []shape.Shape
}

// composing waits for the text overlay opened at a click to be committed.
type composing struct {
	at               shape.Point
	screenX, screenY float64
}

func (idle) gesture()       {}
func (*dragging) gesture()  {}
func (*authoring) gesture() {}
func (*panning) gesture()   {}
func (*erasing) gesture()   {}
func (*moving) gesture()    {}
func (*composing) gesture() {}
