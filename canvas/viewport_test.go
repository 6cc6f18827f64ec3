package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_ScreenWorldRoundTrip(t *testing.T) {
	v := Viewport{Scale: 2.5, PanX: -40, PanY: 17}

	p := v.ToWorld(123, 456)
	x, y := v.ToScreen(p)

	assert.InDelta(t, 123, x, 1e-9)
	assert.InDelta(t, 456, y, 1e-9)
}

func TestViewport_WheelInverseRestores(t *testing.T) {
	tests := []struct {
		name   string
		start  Viewport
		x, y   float64
		deltaY float64
	}{
		{name: "zoom in at origin", start: NewViewport(), deltaY: -100},
		{name: "zoom out at cursor", start: NewViewport(), x: 320, y: 240, deltaY: 150},
		{name: "panned and scaled", start: Viewport{Scale: 1.7, PanX: 55, PanY: -30}, x: 10, y: 700, deltaY: -53},
		{name: "tiny delta", start: Viewport{Scale: 0.5, PanX: 1, PanY: 2}, x: 3, y: 4, deltaY: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.start
			under := v.ToWorld(tt.x, tt.y)

			v.Wheel(tt.x, tt.y, tt.deltaY)
			moved := v.ToWorld(tt.x, tt.y)
			assert.InDelta(t, under.X, moved.X, 1e-9)
			assert.InDelta(t, under.Y, moved.Y, 1e-9)

			v.Wheel(tt.x, tt.y, -tt.deltaY)
			assert.InDelta(t, tt.start.Scale, v.Scale, 1e-9)
			assert.InDelta(t, tt.start.PanX, v.PanX, 1e-9)
			assert.InDelta(t, tt.start.PanY, v.PanY, 1e-9)

			back := v.ToWorld(tt.x, tt.y)
			assert.InDelta(t, under.X, back.X, 1e-9)
			assert.InDelta(t, under.Y, back.Y, 1e-9)
		})
	}
}

func TestViewport_ScaleIsClamped(t *testing.T) {
	v := NewViewport()
	for i := 0; i < 50; i++ {
		v.Wheel(0, 0, -500)
	}
	assert.Equal(t, MaxScale, v.Scale)

	for i := 0; i < 50; i++ {
		v.Wheel(0, 0, 500)
	}
	assert.Equal(t, MinScale, v.Scale)
}

func TestViewport_Pan(t *testing.T) {
	v := NewViewport()
	v.Pan(10, -5)
	v.Pan(1, 1)

	assert.Equal(t, Viewport{Scale: 1, PanX: 11, PanY: -4}, v)
	assert.Equal(t, 0.0, v.ToWorld(11, -4).X)
}
