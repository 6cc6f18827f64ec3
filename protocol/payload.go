package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"drawboard/shape"
)

// Actions carried in a payload's "action" field.
const (
	ActionClear  = "clear"
	ActionRemove = "remove"
	ActionUpdate = "update"
)

var ErrInvalidPayload = errors.New("invalid payload")

// Payload is the content of a chat message. Variants: AddShape, Clear,
// Remove and Update.
type Payload interface {
	payload()
}

// AddShape appends Shape to the document.
type AddShape struct {
	Shape shape.Shape
}

// Clear empties the document.
type Clear struct{}

// Remove deletes the first shape equal to each entry of Shapes.
type Remove struct {
	Shapes []shape.Shape
}

// Update replaces the first shape equal to From with Shape, or appends Shape
// when From is no longer present.
type Update struct {
	From  shape.Shape
	Shape shape.Shape
}

func (AddShape) payload() {}
func (Clear) payload()    {}
func (Remove) payload()   {}
func (Update) payload()   {}

type wirePayload struct {
	Action string            `json:"action,omitempty"`
	Shape  json.RawMessage   `json:"shape,omitempty"`
	From   json.RawMessage   `json:"from,omitempty"`
	Shapes []json.RawMessage `json:"shapes,omitempty"`
}

// EncodePayload renders p as the string carried in Envelope.Message.
func EncodePayload(p Payload) (string, error) {
	var (
		data []byte
		err  error
	)
	switch p := p.(type) {
	case AddShape:
		data, err = json.Marshal(struct {
			Shape shape.Shape `json:"shape"`
		}{p.Shape})
	case Clear:
		data, err = json.Marshal(struct {
			Action string `json:"action"`
		}{ActionClear})
	case Remove:
		data, err = json.Marshal(struct {
			Action string        `json:"action"`
			Shapes []shape.Shape `json:"shapes"`
		}{ActionRemove, p.Shapes})
	case Update:
		data, err = json.Marshal(struct {
			Action string      `json:"action"`
			From   shape.Shape `json:"from"`
			Shape  shape.Shape `json:"shape"`
		}{ActionUpdate, p.From, p.Shape})
	default:
		return "", fmt.Errorf("%w: %T", ErrInvalidPayload, p)
	}
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload parses the string carried in Envelope.Message.
func DecodePayload(message string) (Payload, error) {
	var w wirePayload
	if err := json.Unmarshal([]byte(message), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch w.Action {
	case "":
		if len(w.Shape) == 0 {
			return nil, fmt.Errorf("%w: missing shape", ErrInvalidPayload)
		}
		s, err := shape.Decode(w.Shape)
		if err != nil {
			return nil, err
		}
		return AddShape{Shape: s}, nil
	case ActionClear:
		return Clear{}, nil
	case ActionRemove:
		shapes := make([]shape.Shape, 0, len(w.Shapes))
		for _, raw := range w.Shapes {
			s, err := shape.Decode(raw)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, s)
		}
		return Remove{Shapes: shapes}, nil
	case ActionUpdate:
		if len(w.From) == 0 || len(w.Shape) == 0 {
			return nil, fmt.Errorf("%w: update needs from and shape", ErrInvalidPayload)
		}
		from, err := shape.Decode(w.From)
		if err != nil {
			return nil, err
		}
		to, err := shape.Decode(w.Shape)
		if err != nil {
			return nil, err
		}
		return Update{From: from, Shape: to}, nil
	}
	return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidPayload, w.Action)
}
