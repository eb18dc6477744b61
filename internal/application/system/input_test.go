package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younwookim/duet/internal/domain/entity"
)

func TestTouchTracker_Step(t *testing.T) {
	tests := []struct {
		name    string
		samples []PointerSample
		want    [][]TouchEvent
	}{
		{
			name:    "idle",
			samples: []PointerSample{{}, {}},
			want:    [][]TouchEvent{nil, nil},
		},
		{
			name: "tap",
			samples: []PointerSample{
				{Down: true, X: 10, Y: 20},
				{},
			},
			want: [][]TouchEvent{
				{{Kind: TouchStarted, X: 10, Y: 20}},
				{{Kind: TouchEnded, X: 10, Y: 20}},
			},
		},
		{
			name: "hold without moving",
			samples: []PointerSample{
				{Down: true, X: 10, Y: 20},
				{Down: true, X: 10, Y: 20},
			},
			want: [][]TouchEvent{
				{{Kind: TouchStarted, X: 10, Y: 20}},
				nil,
			},
		},
		{
			name: "drag then release at last position",
			samples: []PointerSample{
				{Down: true, X: 10, Y: 20},
				{Down: true, X: 30, Y: 20},
				{X: 99, Y: 99},
			},
			want: [][]TouchEvent{
				{{Kind: TouchStarted, X: 10, Y: 20}},
				{{Kind: TouchMoved, X: 30, Y: 20}},
				{{Kind: TouchEnded, X: 30, Y: 20}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr TouchTracker
			for i, s := range tt.samples {
				assert.Equal(t, tt.want[i], tr.Step(s), "frame %d", i)
			}
			assert.False(t, tr.Down() && !tt.samples[len(tt.samples)-1].Down)
		})
	}
}

func TestTouchKind_String(t *testing.T) {
	assert.Equal(t, "Started", TouchStarted.String())
	assert.Equal(t, "Moved", TouchMoved.String())
	assert.Equal(t, "Ended", TouchEnded.String())
	assert.Equal(t, "Unknown", TouchKind(9).String())
}

func TestTouchEvent_Point(t *testing.T) {
	e := TouchEvent{Kind: TouchMoved, X: 3, Y: 4}
	assert.Equal(t, entity.Point{X: 3, Y: 4}, e.Point())
}
