package shape

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a payload carries a type tag outside the
// closed set of shape variants.
var ErrUnknownKind = errors.New("unknown shape type")

func (r Rect) MarshalJSON() ([]byte, error) {
	type plain Rect
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindRect, plain(r)})
}

func (c Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindCircle, plain(c)})
}

func (f Freehand) MarshalJSON() ([]byte, error) {
	points := f.Points
	if points == nil {
		points = []Point{}
	}
	return json.Marshal(struct {
		Type   Kind    `json:"type"`
		Points []Point `json:"points"`
	}{KindFreehand, points})
}

func (t Text) MarshalJSON() ([]byte, error) {
	type plain Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindText, plain(t)})
}

func (l Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindLine, plain(l)})
}

func (r Rhombus) MarshalJSON() ([]byte, error) {
	type plain Rhombus
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindRhombus, plain(r)})
}

// Decode parses one JSON shape object. A null or untagged object is an error.
func Decode(data []byte) (Shape, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}

	var (
		s   Shape
		err error
	)
	switch head.Type {
	case KindRect:
		var v Rect
		err = json.Unmarshal(data, (*plainRect)(&v))
		s = v
	case KindCircle:
		var v Circle
		err = json.Unmarshal(data, (*plainCircle)(&v))
		s = v
	case KindFreehand:
		var v Freehand
		err = json.Unmarshal(data, (*plainFreehand)(&v))
		s = v
	case KindText:
		var v Text
		err = json.Unmarshal(data, (*plainText)(&v))
		s = v
	case KindLine:
		var v Line
		err = json.Unmarshal(data, (*plainLine)(&v))
		s = v
	case KindRhombus:
		var v Rhombus
		err = json.Unmarshal(data, (*plainRhombus)(&v))
		s = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return s, nil
}

// Method-free twins of the variants, decoded into directly.
type (
	plainRect     Rect
	plainCircle   Circle
	plainFreehand Freehand
	plainText     Text
	plainLine     Line
	plainRhombus  Rhombus
)
