package entity

// Obstacle is a pool-provided block moving vertically through the canvas
type Obstacle struct {
	Position Point
	SpeedY   float64 // canvas units per second, negative moves down
	Size     Size
	Anchor   Anchor
	Texture  string
}

// Bounds returns the obstacle box in canvas coordinates
func (o *Obstacle) Bounds() Rect {
	return o.Anchor.Rect(o.Position, o.Size)
}

// Update integrates the vertical motion
func (o *Obstacle) Update(dt float64) {
	o.Position.Y += o.SpeedY * dt
}

// Place moves the obstacle to pos and stops it
func (o *Obstacle) Place(pos Point) {
	o.Position = pos
	o.SpeedY = 0
}
