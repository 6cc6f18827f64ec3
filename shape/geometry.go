package shape

import (
	"math"
	"unicode/utf8"
)

// Text metrics used for hit-testing; they match the 14px face the renderers use.
const (
	TextSize      = 14.0
	textCharWidth = 8.0
	circleSteps   = 48
)

// Box is a normalized axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

func boxOf(x1, y1, x2, y2 float64) Box {
	return Box{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

// Contains reports whether p lies inside b grown by pad on every side.
func (b Box) Contains(p Point, pad float64) bool {
	return p.X >= b.MinX-pad && p.X <= b.MaxX+pad && p.Y >= b.MinY-pad && p.Y <= b.MaxY+pad
}

func (r Rect) Bounds() Box { return boxOf(r.X, r.Y, r.X+r.Width, r.Y+r.Height) }

func (c Circle) Bounds() Box {
	r := math.Abs(c.Radius)
	return boxOf(c.CenterX-r, c.CenterY-r, c.CenterX+r, c.CenterY+r)
}

func (f Freehand) Bounds() Box {
	if len(f.Points) == 0 {
		return Box{}
	}
	b := Box{MinX: f.Points[0].X, MinY: f.Points[0].Y, MaxX: f.Points[0].X, MaxY: f.Points[0].Y}
	for _, p := range f.Points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

func (t Text) Bounds() Box {
	w := float64(utf8.RuneCountInString(t.Content)) * textCharWidth
	return boxOf(t.X, t.Y-TextSize, t.X+w, t.Y)
}

func (l Line) Bounds() Box { return boxOf(l.X1, l.Y1, l.X2, l.Y2) }

func (r Rhombus) Bounds() Box { return boxOf(r.X, r.Y, r.X+r.Width, r.Y+r.Height) }

type segment struct{ a, b Point }

func closed(points []Point) []segment {
	segs := make([]segment, 0, len(points))
	for i := range points {
		segs = append(segs, segment{points[i], points[(i+1)%len(points)]})
	}
	return segs
}

func boxCorners(b Box) []Point {
	return []Point{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}
}

// outline approximates the drawn stroke of s as line segments. Degenerate
// shapes collapse to zero-length segments rather than disappearing.
func outline(s Shape) []segment {
	switch s := s.(type) {
	case Rect:
		return closed(boxCorners(s.Bounds()))
	case Circle:
		r := math.Abs(s.Radius)
		points := make([]Point, circleSteps)
		for i := range points {
			a := 2 * math.Pi * float64(i) / circleSteps
			points[i] = Point{X: s.CenterX + r*math.Cos(a), Y: s.CenterY + r*math.Sin(a)}
		}
		return closed(points)
	case Freehand:
		switch len(s.Points) {
		case 0:
			return nil
		case 1:
			return []segment{{s.Points[0], s.Points[0]}}
		}
		segs := make([]segment, 0, len(s.Points)-1)
		for i := 1; i < len(s.Points); i++ {
			segs = append(segs, segment{s.Points[i-1], s.Points[i]})
		}
		return segs
	case Text:
		return closed(boxCorners(s.Bounds()))
	case Line:
		return []segment{{Point{s.X1, s.Y1}, Point{s.X2, s.Y2}}}
	case Rhombus:
		return closed(s.Vertices())
	}
	return nil
}

// Distance returns the distance from p to the stroke of s. Text counts as
// filled, so any point inside its box is at distance zero.
func Distance(s Shape, p Point) float64 {
	if t, ok := s.(Text); ok && t.Bounds().Contains(p, 0) {
		return 0
	}
	d := math.Inf(1)
	for _, seg := range outline(s) {
		d = math.Min(d, pointSegment(p, seg))
	}
	return d
}

// IntersectsPath reports whether the polyline path passes within tol of the
// stroke of s.
func IntersectsPath(s Shape, path []Point, tol float64) bool {
	if len(path) == 0 {
		return false
	}
	for _, p := range path {
		if Distance(s, p) <= tol {
			return true
		}
	}
	segs := outline(s)
	for i := 1; i < len(path); i++ {
		walk := segment{path[i-1], path[i]}
		for _, seg := range segs {
			if segmentSegment(walk, seg) <= tol {
				return true
			}
		}
	}
	return false
}

func dist(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func pointSegment(p Point, s segment) float64 {
	dx, dy := s.b.X-s.a.X, s.b.Y-s.a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return dist(p, s.a)
	}
	t := ((p.X-s.a.X)*dx + (p.Y-s.a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return dist(p, Point{X: s.a.X + t*dx, Y: s.a.Y + t*dy})
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segmentSegment(s, t segment) float64 {
	d1 := cross(t.a, t.b, s.a)
	d2 := cross(t.a, t.b, s.b)
	d3 := cross(s.a, s.b, t.a)
	d4 := cross(s.a, s.b, t.b)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return 0
	}
	return math.Min(
		math.Min(pointSegment(s.a, t), pointSegment(s.b, t)),
		math.Min(pointSegment(t.a, s), pointSegment(t.b, s)),
	)
}
