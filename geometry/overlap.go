package geometry

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/common"
)

// Overlap is the result of an intersection test. Penetration is the minimum
// translation to apply to the first shape so the pair no longer overlaps. It
// is a single-axis heuristic, not a full minkowski solve: for rectangles only
// the axis with the smaller overlap carries a component.
type Overlap struct {
	Intersects  bool
	Penetration cp.Vector
}

// Intersect tests two shapes and reports the penetration vector for the
// first. Coincident circle centers are degenerate; they resolve along the
// positive X axis so callers never see a zero-length separation for an
// overlapping pair.
func Intersect(a, b Shape) Overlap {
	switch {
	case a.Kind == KindRect && b.Kind == KindRect:
		return rectRect(a.Rect, b.Rect)
	case a.Kind == KindCircle && b.Kind == KindCircle:
		return circleCircle(a.Circle, b.Circle)
	case a.Kind == KindRect && b.Kind == KindCircle:
		return rectCircle(a.Rect, b.Circle)
	default:
		o := rectCircle(b.Rect, a.Circle)
		o.Penetration = o.Penetration.Neg()
		return o
	}
}

func rectRect(a, b Rect) Overlap {
	overlapX := math.Min(a.X+a.Width, b.X+b.Width) - math.Max(a.X, b.X)
	overlapY := math.Min(a.Y+a.Height, b.Y+b.Height) - math.Max(a.Y, b.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return Overlap{}
	}

	ca, cb := a.Center(), b.Center()
	var pen cp.Vector
	if overlapX < overlapY {
		pen.X = overlapX
		if ca.X < cb.X {
			pen.X = -overlapX
		}
	} else {
		pen.Y = overlapY
		if ca.Y < cb.Y {
			pen.Y = -overlapY
		}
	}
	return Overlap{Intersects: true, Penetration: pen}
}

func circleCircle(a, b Circle) Overlap {
	diff := a.Center.Sub(b.Center)
	dist := diff.Length()
	sum := a.Radius + b.Radius
	if dist > sum {
		return Overlap{}
	}
	if dist == 0 {
		// Degenerate: centers coincide, no meaningful normal. Fall back to
		// the positive X axis with the full radius sum as depth.
		return Overlap{Intersects: true, Penetration: cp.Vector{X: sum}}
	}
	normal := diff.Mult(1 / dist)
	return Overlap{Intersects: true, Penetration: normal.Mult(sum - dist)}
}

func rectCircle(r Rect, c Circle) Overlap {
	closest := cp.Vector{
		X: common.Clamp(c.Center.X, r.X, r.X+r.Width),
		Y: common.Clamp(c.Center.Y, r.Y, r.Y+r.Height),
	}
	diff := c.Center.Sub(closest)
	dist := diff.Length()
	if dist > c.Radius {
		return Overlap{}
	}
	if dist > 0 {
		// Center outside the rectangle: push the rectangle away from the
		// circle along the closest-point normal.
		normal := diff.Mult(1 / dist)
		return Overlap{Intersects: true, Penetration: normal.Mult(c.Radius - dist).Neg()}
	}

	// Center strictly inside the rectangle: resolve through the nearest of
	// the four edges.
	left := c.Center.X - r.X
	right := r.X + r.Width - c.Center.X
	top := c.Center.Y - r.Y
	bottom := r.Y + r.Height - c.Center.Y

	min := left
	pen := cp.Vector{X: left + c.Radius}
	if right < min {
		min = right
		pen = cp.Vector{X: -(right + c.Radius)}
	}
	if top < min {
		min = top
		pen = cp.Vector{Y: top + c.Radius}
	}
	if bottom < min {
		pen = cp.Vector{Y: -(bottom + c.Radius)}
	}
	return Overlap{Intersects: true, Penetration: pen}
}
