package geometry

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func vecApprox(got, want cp.Vector) bool {
	const eps = 1e-9
	return math.Abs(got.X-want.X) < eps && math.Abs(got.Y-want.Y) < eps
}

func TestRectRectOverlap(t *testing.T) {
	cases := []struct {
		name        string
		a, b        Shape
		hit         bool
		penetration cp.Vector
	}{
		{
			name: "separated",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(20, 0, 10, 10),
			hit:  false,
		},
		{
			name: "touching_edges_not_overlapping",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(10, 0, 10, 10),
			hit:  false,
		},
		{
			name:        "overlap_resolved_on_x",
			a:           NewRect(0, 0, 10, 10),
			b:           NewRect(8, 0, 10, 10),
			hit:         true,
			penetration: cp.Vector{X: -2},
		},
		{
			name:        "overlap_resolved_on_y",
			a:           NewRect(0, 0, 10, 10),
			b:           NewRect(0, 9, 10, 10),
			hit:         true,
			penetration: cp.Vector{Y: -1},
		},
		{
			name:        "first_shape_on_far_side",
			a:           NewRect(8, 0, 10, 10),
			b:           NewRect(0, 0, 10, 10),
			hit:         true,
			penetration: cp.Vector{X: 2},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := Intersect(c.a, c.b)
			if o.Intersects != c.hit {
				t.Fatalf("Intersects = %v, want %v", o.Intersects, c.hit)
			}
			if c.hit && !vecApprox(o.Penetration, c.penetration) {
				t.Fatalf("Penetration = %+v, want %+v", o.Penetration, c.penetration)
			}
		})
	}
}

func TestCircleCircleOverlap(t *testing.T) {
	a := NewCircle(cp.Vector{X: 0, Y: 0}, 5)
	b := NewCircle(cp.Vector{X: 8, Y: 0}, 5)

	o := Intersect(a, b)
	if !o.Intersects {
		t.Fatalf("expected overlap at distance 8 with radius sum 10")
	}
	if !vecApprox(o.Penetration, cp.Vector{X: -2}) {
		t.Fatalf("Penetration = %+v, want {-2 0}", o.Penetration)
	}

	far := NewCircle(cp.Vector{X: 11, Y: 0}, 5)
	if Intersect(a, far).Intersects {
		t.Fatalf("circles at distance 11 with radius sum 10 should not overlap")
	}

	// Touching circles count as intersecting (distance == radius sum).
	touch := NewCircle(cp.Vector{X: 10, Y: 0}, 5)
	if !Intersect(a, touch).Intersects {
		t.Fatalf("touching circles should report an overlap")
	}
}

func TestCoincidentCirclesFallBackToXAxis(t *testing.T) {
	a := NewCircle(cp.Vector{X: 3, Y: 3}, 4)
	b := NewCircle(cp.Vector{X: 3, Y: 3}, 2)

	o := Intersect(a, b)
	if !o.Intersects {
		t.Fatalf("coincident circles must overlap")
	}
	if !vecApprox(o.Penetration, cp.Vector{X: 6}) {
		t.Fatalf("degenerate penetration = %+v, want {6 0}", o.Penetration)
	}
}

func TestRectCircleOverlap(t *testing.T) {
	t.Run("center_outside", func(t *testing.T) {
		r := NewRect(0, 0, 10, 10)
		c := NewCircle(cp.Vector{X: 13, Y: 5}, 4)

		o := Intersect(r, c)
		if !o.Intersects {
			t.Fatalf("expected overlap, closest point is 3 away with radius 4")
		}
		if !vecApprox(o.Penetration, cp.Vector{X: -1}) {
			t.Fatalf("Penetration = %+v, want {-1 0}", o.Penetration)
		}
	})

	t.Run("center_inside_resolves_nearest_edge", func(t *testing.T) {
		r := NewRect(0, 0, 20, 10)
		c := NewCircle(cp.Vector{X: 18, Y: 5}, 3)

		o := Intersect(r, c)
		if !o.Intersects {
			t.Fatalf("circle center inside rect must overlap")
		}
		// Right edge is 2 away, nearest of the four.
		if !vecApprox(o.Penetration, cp.Vector{X: -5}) {
			t.Fatalf("Penetration = %+v, want {-5 0}", o.Penetration)
		}
	})

	t.Run("no_overlap", func(t *testing.T) {
		r := NewRect(0, 0, 10, 10)
		c := NewCircle(cp.Vector{X: 20, Y: 20}, 3)
		if Intersect(r, c).Intersects {
			t.Fatalf("distant circle should not overlap rect")
		}
	})

	t.Run("circle_first_flips_penetration", func(t *testing.T) {
		r := NewRect(0, 0, 10, 10)
		c := NewCircle(cp.Vector{X: 13, Y: 5}, 4)

		o := Intersect(c, r)
		if !o.Intersects {
			t.Fatalf("expected overlap")
		}
		if !vecApprox(o.Penetration, cp.Vector{X: 1}) {
			t.Fatalf("Penetration = %+v, want {1 0}", o.Penetration)
		}
	})
}
