package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_Rotate(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		angle float64
		want  Point
	}{
		{"zero angle", Point{X: 3, Y: 4}, 0, Point{X: 3, Y: 4}},
		{"quarter turn", Point{X: 1, Y: 0}, math.Pi / 2, Point{X: 0, Y: 1}},
		{"half turn", Point{X: 2, Y: 1}, math.Pi, Point{X: -2, Y: -1}},
		{"negative quarter turn", Point{X: 0, Y: 1}, -math.Pi / 2, Point{X: 1, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Rotate(tt.angle)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestPoint_RotateAbout(t *testing.T) {
	pivot := Point{X: 960, Y: 180}
	p := Point{X: 1060, Y: 180}

	got := p.RotateAbout(pivot, math.Pi/2)

	assert.InDelta(t, 960, got.X, 1e-9)
	assert.InDelta(t, 280, got.Y, 1e-9)
}

func TestRect_Intersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"contained", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"touching edge only", Rect{X: 10, Y: 0, W: 5, H: 5}, false},
		{"left of", Rect{X: -20, Y: 0, W: 5, H: 5}, false},
		{"above", Rect{X: 0, Y: 20, W: 5, H: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base), "intersection is symmetric")
		})
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}

	assert.True(t, r.Contains(Point{X: 10, Y: 20}), "corner is inside")
	assert.True(t, r.Contains(r.Center()))
	assert.True(t, r.Contains(Point{X: 40, Y: 60}))
	assert.False(t, r.Contains(Point{X: 41, Y: 60}))
	assert.False(t, r.Contains(Point{X: 20, Y: 19}))
}

func TestAnchor_Rect(t *testing.T) {
	pos := Point{X: 100, Y: 100}
	size := Size{W: 40, H: 20}

	tests := []struct {
		anchor Anchor
		want   Rect
	}{
		{AnchorCenter, Rect{X: 80, Y: 90, W: 40, H: 20}},
		{AnchorTop, Rect{X: 80, Y: 80, W: 40, H: 20}},
		{AnchorTopLeft, Rect{X: 100, Y: 80, W: 40, H: 20}},
		{AnchorTopRight, Rect{X: 60, Y: 80, W: 40, H: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.anchor.Rect(pos, size))
		})
	}
}

func TestParseAnchor(t *testing.T) {
	for _, a := range []Anchor{AnchorCenter, AnchorTop, AnchorTopLeft, AnchorTopRight} {
		got, err := ParseAnchor(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAnchor("")
	require.NoError(t, err)
	assert.Equal(t, AnchorCenter, got)

	_, err = ParseAnchor("bottom-left")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Anchor(42).String())
}
