package entity

import (
	"fmt"
	"math"
)

// Point is a position in canvas space.
// The canvas origin is the bottom-left corner and the y axis points up.
type Point struct {
	X, Y float64
}

// Add returns p + q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rotate returns p rotated by angle radians about the origin.
func (p Point) Rotate(angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// RotateAbout returns p rotated by angle radians about pivot.
func (p Point) RotateAbout(pivot Point, angle float64) Point {
	return p.Sub(pivot).Rotate(angle).Add(pivot)
}

// Size is the width and height of a texture or slice
type Size struct {
	W, H float64
}

// Rect is an axis-aligned box. X, Y is the bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Left returns the minimum x
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the minimum y
func (r Rect) Bottom() float64 { return r.Y }

// Top returns the maximum y
func (r Rect) Top() float64 { return r.Y + r.H }

// Center returns the center point of the rect
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects reports whether r and o overlap with a non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Bottom() < o.Top() && o.Bottom() < r.Top()
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Bottom() && p.Y <= r.Top()
}

// Anchor selects which point of a sprite its position refers to
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorTopLeft
	AnchorTopRight
)

// String returns the config name of the anchor
func (a Anchor) String() string {
	switch a {
	case AnchorCenter:
		return "center"
	case AnchorTop:
		return "top"
	case AnchorTopLeft:
		return "top-left"
	case AnchorTopRight:
		return "top-right"
	default:
		return "unknown"
	}
}

// ParseAnchor parses a config anchor name. An empty name is AnchorCenter.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "", "center":
		return AnchorCenter, nil
	case "top":
		return AnchorTop, nil
	case "top-left":
		return AnchorTopLeft, nil
	case "top-right":
		return AnchorTopRight, nil
	default:
		return AnchorCenter, fmt.Errorf("unknown anchor: %s", s)
	}
}

// Rect returns the box of a sprite of the given size whose anchor sits at pos
func (a Anchor) Rect(pos Point, size Size) Rect {
	switch a {
	case AnchorTop:
		return Rect{X: pos.X - size.W/2, Y: pos.Y - size.H, W: size.W, H: size.H}
	case AnchorTopLeft:
		return Rect{X: pos.X, Y: pos.Y - size.H, W: size.W, H: size.H}
	case AnchorTopRight:
		return Rect{X: pos.X - size.W, Y: pos.Y - size.H, W: size.W, H: size.H}
	default:
		return Rect{X: pos.X - size.W/2, Y: pos.Y - size.H/2, W: size.W, H: size.H}
	}
}
