package canvas

import (
	"math"

	"drawboard/shape"
)

// Tool is the toolbar selection that decides what a gesture does.
type Tool string

const (
	ToolRect    Tool = "rect"
	ToolCircle  Tool = "circle"
	ToolRhombus Tool = "rhombus"
	ToolPencil  Tool = "pencil"
	ToolLine    Tool = "line"
	ToolText    Tool = "text"
	ToolErase   Tool = "erase"
	ToolClear   Tool = "clear"
	ToolHand    Tool = "hand"
	ToolSelect  Tool = "select"
)

// pickTolerance is the erase and select radius in screen pixels.
const pickTolerance = 8.0

// dragShape builds the shape a drag tool produces for a drag from anchor to
// end, both in world coordinates.
func dragShape(tool Tool, anchor, end shape.Point) (shape.Shape, bool) {
	w := end.X - anchor.X
	h := end.Y - anchor.Y
	switch tool {
	case ToolRect:
		return shape.Rect{X: anchor.X, Y: anchor.Y, Width: w, Height: h}, true
	case ToolCircle:
		r := math.Max(w, h) / 2
		return shape.Circle{CenterX: anchor.X + r, CenterY: anchor.Y + r, Radius: r}, true
	case ToolRhombus:
		return shape.Rhombus{
			X:      math.Min(anchor.X, end.X),
			Y:      math.Min(anchor.Y, end.Y),
			Width:  math.Abs(w),
			Height: math.Abs(h),
		}, true
	case ToolLine:
		return shape.Line{X1: anchor.X, Y1: anchor.Y, X2: end.X, Y2: end.Y}, true
	}
	return nil, false
}
