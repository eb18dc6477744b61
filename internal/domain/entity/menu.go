package entity

// NoOption is returned by hit tests that miss every option
const NoOption = -1

// MenuOption is one entry of a vertically stacked menu
type MenuOption struct {
	ID       string
	Slice    string // atlas slice drawn for this option
	Size     Size   // slice dimensions
	Position Point  // top-center anchor in canvas space
	Pressed  bool
}

// Menu is a fixed list of options stacked top-down and centered on the canvas
type Menu struct {
	Options []MenuOption
}

// NewMenu creates a menu with the options in top-down order
func NewMenu(options ...MenuOption) *Menu {
	return &Menu{Options: options}
}

// Height returns the total stacked height of all options
func (m *Menu) Height() float64 {
	total := 0.0
	for _, o := range m.Options {
		total += o.Size.H
	}
	return total
}

// Layout positions the options so the stack is vertically centered, and
// releases every option.
func (m *Menu) Layout(canvasWidth, canvasHeight float64) {
	top := canvasHeight/2 + m.Height()/2

	for i := range m.Options {
		m.Options[i].Position = Point{X: canvasWidth / 2, Y: top}
		m.Options[i].Pressed = false
		top -= m.Options[i].Size.H
	}
}

// OptionAt returns the index of the option under p, or NoOption.
// The hit box spans a full slice width and height on each side of the anchor.
func (m *Menu) OptionAt(p Point) int {
	for i, o := range m.Options {
		if p.X > o.Position.X-o.Size.W &&
			p.X < o.Position.X+o.Size.W &&
			p.Y > o.Position.Y-o.Size.H &&
			p.Y < o.Position.Y+o.Size.H {
			return i
		}
	}
	return NoOption
}

// IDAt returns the ID of the option under p, or "" when nothing is hit
func (m *Menu) IDAt(p Point) string {
	i := m.OptionAt(p)
	if i == NoOption {
		return ""
	}
	return m.Options[i].ID
}

// Press marks the option under p as pressed and every other option as released.
// Only one option can be pressed at a time.
func (m *Menu) Press(p Point) int {
	touched := m.OptionAt(p)
	for i := range m.Options {
		m.Options[i].Pressed = i == touched
	}
	return touched
}

// ReleaseAll releases every option
func (m *Menu) ReleaseAll() {
	for i := range m.Options {
		m.Options[i].Pressed = false
	}
}
