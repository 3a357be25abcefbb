// Package geometry provides the pure shape-overlap tests used by the
// hit-volume registry. It knows nothing about attacks, characters or damage;
// it only answers whether two shapes overlap and by how much.
package geometry

import "github.com/jakecoffman/cp"

// Kind tags the variant held by a Shape.
type Kind int

const (
	KindRect Kind = iota
	KindCircle
)

// Rect is an axis-aligned rectangle anchored at its top-left corner, in world
// coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the rectangle's center point.
func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Circle is a circle in world coordinates.
type Circle struct {
	Center cp.Vector
	Radius float64
}

// Shape is a tagged union of the two supported shapes. Exactly one of Rect or
// Circle is meaningful, selected by Kind.
type Shape struct {
	Kind   Kind
	Rect   Rect
	Circle Circle
}

// NewRect builds a rectangle shape from its top-left corner and size.
func NewRect(x, y, width, height float64) Shape {
	return Shape{Kind: KindRect, Rect: Rect{X: x, Y: y, Width: width, Height: height}}
}

// NewCircle builds a circle shape.
func NewCircle(center cp.Vector, radius float64) Shape {
	return Shape{Kind: KindCircle, Circle: Circle{Center: center, Radius: radius}}
}

// Center returns the center point of the shape.
func (s Shape) Center() cp.Vector {
	if s.Kind == KindCircle {
		return s.Circle.Center
	}
	return s.Rect.Center()
}

// MoveTo repositions the shape so its center sits at pos.
func (s Shape) MoveTo(pos cp.Vector) Shape {
	switch s.Kind {
	case KindCircle:
		s.Circle.Center = pos
	case KindRect:
		s.Rect.X = pos.X - s.Rect.Width/2
		s.Rect.Y = pos.Y - s.Rect.Height/2
	}
	return s
}
