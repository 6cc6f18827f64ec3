package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawboard/shape"
)

func TestPayload_Encode(t *testing.T) {
	rect := shape.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	moved := shape.Rect{X: 5, Y: 6, Width: 3, Height: 4}

	tests := []struct {
		name string
		in   Payload
		want string
	}{
		{"add", AddShape{Shape: rect}, `{"shape":{"type":"rect","x":1,"y":2,"width":3,"height":4}}`},
		{"clear", Clear{}, `{"action":"clear"}`},
		{"remove", Remove{Shapes: []shape.Shape{rect}}, `{"action":"remove","shapes":[{"type":"rect","x":1,"y":2,"width":3,"height":4}]}`},
		{"update", Update{From: rect, Shape: moved}, `{"action":"update","from":{"type":"rect","x":1,"y":2,"width":3,"height":4},"shape":{"type":"rect","x":5,"y":6,"width":3,"height":4}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := EncodePayload(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, msg)

			back, err := DecodePayload(msg)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestPayload_DecodeAcceptsPeerFormat(t *testing.T) {
	p, err := DecodePayload(`{"shape":{"type":"pencil","points":[{"x":1,"y":1},{"x":2,"y":2}]}}`)
	require.NoError(t, err)
	assert.Equal(t, AddShape{Shape: shape.Freehand{Points: []shape.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}, p)

	p, err = DecodePayload(`{"action":"remove","shapes":[]}`)
	require.NoError(t, err)
	assert.Equal(t, Remove{Shapes: []shape.Shape{}}, p)
}

func TestPayload_DecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"not json", `hello`},
		{"empty object", `{}`},
		{"null shape", `{"shape":null}`},
		{"unknown shape", `{"shape":{"type":"star"}}`},
		{"unknown action", `{"action":"explode"}`},
		{"update without from", `{"action":"update","shape":{"type":"line"}}`},
		{"remove with bad shape", `{"action":"remove","shapes":[{"type":"blob"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.message)
			assert.Error(t, err)
		})
	}
}

func TestPayload_EncodeRejectsNil(t *testing.T) {
	_, err := EncodePayload(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
