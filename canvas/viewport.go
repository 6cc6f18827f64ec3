package canvas

import (
	"math"

	"drawboard/shape"
)

const (
	MinScale = 0.1
	MaxScale = 5.0

	// wheelDivisor turns a wheel delta into an exponent, so a delta and its
	// negation cancel exactly.
	wheelDivisor = 200.0
	zoomStep     = 0.2
)

// Viewport maps world coordinates to the screen: screen = world*Scale + Pan.
type Viewport struct {
	Scale float64
	PanX  float64
	PanY  float64
}

func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

func (v Viewport) ToWorld(x, y float64) shape.Point {
	return shape.Point{X: (x - v.PanX) / v.Scale, Y: (y - v.PanY) / v.Scale}
}

func (v Viewport) ToScreen(p shape.Point) (x, y float64) {
	return p.X*v.Scale + v.PanX, p.Y*v.Scale + v.PanY
}

func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAt sets the scale, clamped to [MinScale, MaxScale], keeping the world
// point under the screen position (x, y) where it is.
func (v *Viewport) ZoomAt(scale, x, y float64) {
	scale = math.Max(MinScale, math.Min(MaxScale, scale))
	anchor := v.ToWorld(x, y)
	v.Scale = scale
	v.PanX = x - anchor.X*scale
	v.PanY = y - anchor.Y*scale
}

// Wheel applies a wheel delta with the cursor at (x, y). Negative deltas zoom in.
func (v *Viewport) Wheel(x, y, deltaY float64) {
	v.ZoomAt(v.Scale*math.Exp(-deltaY/wheelDivisor), x, y)
}
