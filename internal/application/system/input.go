package system

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/duet/internal/domain/entity"
)

// TouchKind is the phase of a touch event
type TouchKind int

const (
	TouchStarted TouchKind = iota
	TouchMoved
	TouchEnded
)

// String returns the string representation of the touch kind
func (k TouchKind) String() string {
	switch k {
	case TouchStarted:
		return "Started"
	case TouchMoved:
		return "Moved"
	case TouchEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// TouchEvent is a touch in canvas coordinates (origin bottom-left, y up)
type TouchEvent struct {
	Kind TouchKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Point returns the event position
func (e TouchEvent) Point() entity.Point {
	return entity.Point{X: e.X, Y: e.Y}
}

// EventSource yields the touch events of one frame.
// canvasHeight is used to flip screen coordinates into canvas space.
type EventSource interface {
	Poll(canvasHeight float64) []TouchEvent
}

// PointerSample is the raw pointer state for one frame in screen coordinates
type PointerSample struct {
	Down bool
	X, Y float64
}

// TouchTracker turns per-frame pointer samples into touch events
type TouchTracker struct {
	down bool
	x, y float64
}

// Step compares sample with the previous frame and returns at most one event.
func (t *TouchTracker) Step(sample PointerSample) []TouchEvent {
	switch {
	case sample.Down && !t.down:
		t.down, t.x, t.y = true, sample.X, sample.Y
		return []TouchEvent{{Kind: TouchStarted, X: sample.X, Y: sample.Y}}
	case sample.Down && (sample.X != t.x || sample.Y != t.y):
		t.x, t.y = sample.X, sample.Y
		return []TouchEvent{{Kind: TouchMoved, X: sample.X, Y: sample.Y}}
	case !sample.Down && t.down:
		// release reports the last known position
		t.down = false
		return []TouchEvent{{Kind: TouchEnded, X: t.x, Y: t.y}}
	}
	return nil
}

// Down reports whether a touch is in progress
func (t *TouchTracker) Down() bool {
	return t.down
}

// InputSystem reads ebiten touches, falling back to the left mouse button.
// Only one pointer is tracked; the first touch wins until it is lifted.
type InputSystem struct {
	tracker  TouchTracker
	touchIDs []ebiten.TouchID
	active   ebiten.TouchID
	hasTouch bool
}

// NewInputSystem creates a new input system
func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// Poll implements EventSource
func (s *InputSystem) Poll(canvasHeight float64) []TouchEvent {
	events := s.tracker.Step(s.sample())
	for i := range events {
		events[i].Y = canvasHeight - events[i].Y
	}
	return events
}

func (s *InputSystem) sample() PointerSample {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		if !s.hasTouch || !containsTouch(s.touchIDs, s.active) {
			s.active = s.touchIDs[0]
			s.hasTouch = true
		}
		x, y := ebiten.TouchPosition(s.active)
		return PointerSample{Down: true, X: float64(x), Y: float64(y)}
	}
	s.hasTouch = false

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return PointerSample{Down: true, X: float64(x), Y: float64(y)}
	}
	return PointerSample{}
}

func containsTouch(ids []ebiten.TouchID, id ebiten.TouchID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
