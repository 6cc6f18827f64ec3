package canvas

import (
	"math"

	"drawboard/shape"
)

const (
	DefaultStroke   = "#7a7a7a"
	LightBackground = "#ffffff"
	DarkBackground  = "#18181b"
)

// Style is the colour scheme a document is drawn with.
type Style struct {
	Stroke     string
	Background string
}

func DefaultStyle() Style {
	return Style{Stroke: DefaultStroke, Background: LightBackground}
}

// Surface is a 2D drawing target. Begin clears it to background and sets the
// world-to-screen transform; all later coordinates are world coordinates.
type Surface interface {
	Begin(background string, v Viewport)
	StrokeRect(x, y, width, height float64, color string)
	StrokeCircle(cx, cy, r float64, color string)
	StrokePolyline(points []shape.Point, closed bool, color string)
	FillText(x, y float64, text string, size float64, color string)
	End()
}

// Render redraws the whole of shapes, then preview if there is one.
func Render(s Surface, shapes []shape.Shape, preview shape.Shape, v Viewport, style Style) {
	s.Begin(style.Background, v)
	for _, sh := range shapes {
		draw(s, sh, style.Stroke)
	}
	if preview != nil {
		draw(s, preview, style.Stroke)
	}
	s.End()
}

func draw(s Surface, sh shape.Shape, color string) {
	switch sh := sh.(type) {
	case shape.Rect:
		s.StrokeRect(sh.X, sh.Y, sh.Width, sh.Height, color)
	case shape.Circle:
		s.StrokeCircle(sh.CenterX, sh.CenterY, math.Abs(sh.Radius), color)
	case shape.Freehand:
		if len(sh.Points) > 0 {
			s.StrokePolyline(sh.Points, false, color)
		}
	case shape.Text:
		s.FillText(sh.X, sh.Y, sh.Content, shape.TextSize, color)
	case shape.Line:
		s.StrokePolyline([]shape.Point{{X: sh.X1, Y: sh.Y1}, {X: sh.X2, Y: sh.Y2}}, false, color)
	case shape.Rhombus:
		s.StrokePolyline(sh.Vertices(), true, color)
	}
}
