package canvas

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawboard/shape"
)

// recorder is a Surface that logs each call.
type recorder struct {
	calls []string
}

func (r *recorder) Begin(background string, v Viewport) {
	r.calls = append(r.calls, fmt.Sprintf("begin %s %v", background, v))
}

func (r *recorder) StrokeRect(x, y, w, h float64, color string) {
	r.calls = append(r.calls, fmt.Sprintf("rect %v %v %v %v", x, y, w, h))
}

func (r *recorder) StrokeCircle(cx, cy, radius float64, color string) {
	r.calls = append(r.calls, fmt.Sprintf("circle %v %v %v", cx, cy, radius))
}

func (r *recorder) StrokePolyline(points []shape.Point, closed bool, color string) {
	r.calls = append(r.calls, fmt.Sprintf("polyline %d %v", len(points), closed))
}

func (r *recorder) FillText(x, y float64, text string, size float64, color string) {
	r.calls = append(r.calls, fmt.Sprintf("text %v %v %s", x, y, text))
}

func (r *recorder) End() {
	r.calls = append(r.calls, "end")
}

func TestRender_DrawsEveryVariant(t *testing.T) {
	rec := &recorder{}
	shapes := []shape.Shape{
		shape.Rect{X: 1, Y: 2, Width: 3, Height: 4},
		shape.Circle{CenterX: 5, CenterY: 5, Radius: -2},
		shape.Freehand{Points: []shape.Point{{X: 0, Y: 0}}},
		shape.Freehand{},
		shape.Text{X: 1, Y: 1, Content: "hi"},
		shape.Line{X2: 1},
		shape.Rhombus{Width: 4, Height: 2},
	}

	Render(rec, shapes, shape.Line{X2: 9}, NewViewport(), DefaultStyle())

	assert.Equal(t, []string{
		"begin #ffffff {1 0 0}",
		"rect 1 2 3 4",
		"circle 5 5 2",
		"polyline 1 false",
		"text 1 1 hi",
		"polyline 2 false",
		"polyline 4 true",
		"polyline 2 false",
		"end",
	}, rec.calls)
}

func TestEngine_RedrawsOnEveryChange(t *testing.T) {
	rec := &recorder{}
	e := New("r", nil)
	e.SetSurface(rec, 100, 100)
	e.SetTool(ToolRect)

	rec.calls = nil
	drag(e, 0, 0, 10, 10)
	// One full pass for the move preview and one for the commit.
	assert.Equal(t, 2, count(rec.calls, "end"))

	rec.calls = nil
	e.Undo()
	e.Redo()
	e.Wheel(0, 0, 10)
	assert.Equal(t, 3, count(rec.calls, "end"))
}

func count(calls []string, want string) int {
	n := 0
	for _, c := range calls {
		if c == want {
			n++
		}
	}
	return n
}

func TestSVG_Golden(t *testing.T) {
	svg := NewSVG(100, 80)
	shapes := []shape.Shape{
		shape.Rect{X: 10, Y: 10, Width: 40, Height: 30},
		shape.Circle{CenterX: 30, CenterY: 30, Radius: -5},
		shape.Freehand{Points: []shape.Point{{X: 1, Y: 1}, {X: 2, Y: 3}}},
		shape.Text{X: 20, Y: 60, Content: "a<b"},
		shape.Line{X1: 0, Y1: 0, X2: 5, Y2: 5},
		shape.Rhombus{X: 60, Y: 10, Width: 20, Height: 10},
	}

	Render(svg, shapes, nil, NewViewport(), DefaultStyle())

	g := goldie.New(t)
	g.Assert(t, "document", svg.Bytes())
}

func TestSVG_EscapesStyleAttributes(t *testing.T) {
	svg := NewSVG(10, 10)
	e := New("r", nil)
	e.SetSurface(svg, 10, 10)
	seed(e, shape.Rect{Width: 1, Height: 1}, shape.Text{Content: "x"})

	e.SetTheme(`<dark>`)
	e.SetColor(`red" onload="alert(1)`)

	out := svg.Bytes()
	assert.Contains(t, string(out), `stroke="red&#34; onload=&#34;alert(1)"`)
	assert.Contains(t, string(out), `fill="&lt;dark&gt;"`)

	dec := xml.NewDecoder(bytes.NewReader(out))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
}
