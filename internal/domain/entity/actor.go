package entity

import "math"

// Rotation directions set by the half of the screen being touched
const (
	DirectionClockwise        = -1.0
	DirectionNone             = 0.0
	DirectionCounterClockwise = 1.0
)

// Marker is one of the orbiting balls controlled by the player
type Marker struct {
	Position Point
	Size     Size
	Texture  string
}

// Bounds returns the marker box in canvas coordinates (markers are center-anchored)
func (m Marker) Bounds() Rect {
	return AnchorCenter.Rect(m.Position, m.Size)
}

// Actor is the player: markers orbiting rigidly around a pivot.
//
// Marker positions are always derived from a fixed arm (marker 0's home
// position relative to the pivot) and the accumulated Angle, never by
// rotating an already rotated position again.
type Actor struct {
	Markers       []Marker
	Pivot         Point
	RotationSpeed float64 // radians per second
	Angle         float64 // accumulated while the screen is touched
	Direction     float64 // -1, 0 or +1

	home []Point
	arm  Point
}

// NewActor creates an actor. The given marker positions are the canonical layout.
func NewActor(rotationSpeed float64, markers ...Marker) *Actor {
	a := &Actor{RotationSpeed: rotationSpeed}
	for _, m := range markers {
		a.AddMarker(m)
	}
	return a
}

// AddMarker appends a marker; its current position becomes its home position.
func (a *Actor) AddMarker(m Marker) {
	a.Markers = append(a.Markers, m)
	a.home = append(a.home, m.Position)
	if len(a.home) == 1 {
		a.arm = m.Position.Sub(a.Pivot)
	}
}

// SetPivot sets the rotation center and captures the arm from marker 0's home position.
func (a *Actor) SetPivot(p Point) {
	a.Pivot = p
	if len(a.home) > 0 {
		a.arm = a.home[0].Sub(p)
	}
}

// SetDirection sets the rotation direction (-1, 0 or +1)
func (a *Actor) SetDirection(d float64) {
	a.Direction = d
}

// DirectionForTouch returns the direction for a touch at x on a canvas of the given width.
// The right half rotates clockwise, everything else counter-clockwise.
func DirectionForTouch(x, canvasWidth float64) float64 {
	if x > canvasWidth/2 {
		return DirectionClockwise
	}
	return DirectionCounterClockwise
}

// Update advances the rotation by one frame.
// While not touching, markers stay where they are and the angle resets to 0.
func (a *Actor) Update(dt float64, touching bool) {
	if !touching {
		a.Angle = 0
		return
	}

	a.Angle += a.Direction * dt * a.RotationSpeed
	a.applyRotation()
}

func (a *Actor) applyRotation() {
	for i := range a.Markers {
		// odd markers sit diametrically opposite marker 0
		offset := float64(i%2) * math.Pi
		a.Markers[i].Position = a.Pivot.Add(a.arm.Rotate(a.Angle + offset))
	}
}

// MarkerAngle returns the polar angle of marker i around the pivot
func (a *Actor) MarkerAngle(i int) float64 {
	d := a.Markers[i].Position.Sub(a.Pivot)
	return math.Atan2(d.Y, d.X)
}

// Collided reports whether any marker intersects other.
func (a *Actor) Collided(other Rect) bool {
	for _, m := range a.Markers {
		if m.Bounds().Intersects(other) {
			return true
		}
	}
	return false
}

// Reset puts markers back on their home positions and clears rotation state
func (a *Actor) Reset() {
	for i := range a.Markers {
		a.Markers[i].Position = a.home[i]
	}
	a.Angle = 0
	a.Direction = DirectionNone
}
