package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"drawboard/shape"
)

// SVG is a Surface that renders to an SVG document.
type SVG struct {
	width, height float64
	buf           bytes.Buffer
}

func NewSVG(width, height float64) *SVG {
	return &SVG{width: width, height: height}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// attr escapes v for use inside a double-quoted attribute.
func attr(v string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(v))
	return b.String()
}

func (s *SVG) Begin(background string, v Viewport) {
	s.buf.Reset()
	w, h := num(s.width), num(s.height)
	fmt.Fprintf(&s.buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\">\n", w, h, w, h)
	fmt.Fprintf(&s.buf, "<rect width=\"%s\" height=\"%s\" fill=\"%s\"/>\n", w, h, attr(background))
	fmt.Fprintf(&s.buf, "<g transform=\"matrix(%s 0 0 %s %s %s)\" fill=\"none\">\n",
		num(v.Scale), num(v.Scale), num(v.PanX), num(v.PanY))
}

func (s *SVG) StrokeRect(x, y, width, height float64, color string) {
	fmt.Fprintf(&s.buf, "<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" stroke=\"%s\"/>\n",
		num(math.Min(x, x+width)), num(math.Min(y, y+height)), num(math.Abs(width)), num(math.Abs(height)), attr(color))
}

func (s *SVG) StrokeCircle(cx, cy, r float64, color string) {
	fmt.Fprintf(&s.buf, "<circle cx=\"%s\" cy=\"%s\" r=\"%s\" stroke=\"%s\"/>\n", num(cx), num(cy), num(r), attr(color))
}

func (s *SVG) StrokePolyline(points []shape.Point, closed bool, color string) {
	elem := "polyline"
	if closed {
		elem = "polygon"
	}
	var pts bytes.Buffer
	for i, p := range points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		pts.WriteString(num(p.X))
		pts.WriteByte(',')
		pts.WriteString(num(p.Y))
	}
	fmt.Fprintf(&s.buf, "<%s points=\"%s\" stroke=\"%s\"/>\n", elem, pts.String(), attr(color))
}

func (s *SVG) FillText(x, y float64, text string, size float64, color string) {
	fmt.Fprintf(&s.buf, "<text x=\"%s\" y=\"%s\" font-family=\"Arial\" font-size=\"%s\" fill=\"%s\" stroke=\"none\">",
		num(x), num(y), num(size), attr(color))
	xml.EscapeText(&s.buf, []byte(text))
	s.buf.WriteString("</text>\n")
}

func (s *SVG) End() {
	s.buf.WriteString("</g>\n</svg>\n")
}

// Bytes returns the document produced by the last Begin/End pass.
func (s *SVG) Bytes() []byte {
	return bytes.Clone(s.buf.Bytes())
}
