// Package shape holds the drawable primitives shared by the drawing engine and
// the wire protocol. Geometry is always in world coordinates.
package shape

import "slices"

// Kind is the wire tag of a shape variant.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindFreehand Kind = "pencil"
	KindText     Kind = "text"
	KindLine     Kind = "line"
	KindRhombus  Kind = "rhombus"
)

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is one drawable primitive. The set of variants is closed: Rect, Circle,
// Freehand, Text, Line and Rhombus. Shapes are values; operations that change
// geometry return a new Shape.
type Shape interface {
	Kind() Kind
	Bounds() Box
	Translate(dx, dy float64) Shape
	sealed()
}

// Rect is an axis-aligned rectangle anchored at (X, Y). Width and Height keep
// the sign they were drawn with.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Circle struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

// Freehand is a pencil stroke.
type Freehand struct {
	Points []Point `json:"points"`
}

// Text is a single line of text whose baseline starts at (X, Y).
type Text struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
}

type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Rhombus is the diamond inscribed in the box (X, Y, Width, Height).
type Rhombus struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Rect) Kind() Kind     { return KindRect }
func (Circle) Kind() Kind   { return KindCircle }
func (Freehand) Kind() Kind { return KindFreehand }
func (Text) Kind() Kind     { return KindText }
func (Line) Kind() Kind     { return KindLine }
func (Rhombus) Kind() Kind  { return KindRhombus }

func (Rect) sealed()     {}
func (Circle) sealed()   {}
func (Freehand) sealed() {}
func (Text) sealed()     {}
func (Line) sealed()     {}
func (Rhombus) sealed()  {}

func (r Rect) Translate(dx, dy float64) Shape {
	r.X += dx
	r.Y += dy
	return r
}

func (c Circle) Translate(dx, dy float64) Shape {
	c.CenterX += dx
	c.CenterY += dy
	return c
}

func (f Freehand) Translate(dx, dy float64) Shape {
	points := make([]Point, len(f.Points))
	for i, p := range f.Points {
		points[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return Freehand{Points: points}
}

func (t Text) Translate(dx, dy float64) Shape {
	t.X += dx
	t.Y += dy
	return t
}

func (l Line) Translate(dx, dy float64) Shape {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
	return l
}

func (r Rhombus) Translate(dx, dy float64) Shape {
	r.X += dx
	r.Y += dy
	return r
}

// Extend returns a copy of the stroke with p appended. The receiver's backing
// array is never shared with the result.
func (f Freehand) Extend(p Point) Freehand {
	return Freehand{Points: append(slices.Clip(f.Points), p)}
}

// Vertices returns the rhombus corners clockwise from the top.
func (r Rhombus) Vertices() []Point {
	cx := r.X + r.Width/2
	cy := r.Y + r.Height/2
	return []Point{
		{X: cx, Y: r.Y},
		{X: r.X + r.Width, Y: cy},
		{X: cx, Y: r.Y + r.Height},
		{X: r.X, Y: cy},
	}
}

// Equal reports whether a and b are the same variant with the same geometry.
func Equal(a, b Shape) bool {
	switch a := a.(type) {
	case Rect:
		b, ok := b.(Rect)
		return ok && a == b
	case Circle:
		b, ok := b.(Circle)
		return ok && a == b
	case Freehand:
		b, ok := b.(Freehand)
		return ok && slices.Equal(a.Points, b.Points)
	case Text:
		b, ok := b.(Text)
		return ok && a == b
	case Line:
		b, ok := b.(Line)
		return ok && a == b
	case Rhombus:
		b, ok := b.(Rhombus)
		return ok && a == b
	}
	return false
}
