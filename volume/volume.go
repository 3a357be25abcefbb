// Package volume owns the flat set of tagged hit volumes for a match and
// resolves their pairwise overlaps. It has no knowledge of frame data, guard
// meters or combos; it only pairs shapes by category and owner.
package volume

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/geometry"
)

// Category tags what a volume is for.
type Category int

const (
	// Attack volumes deal damage while active.
	Attack Category = iota
	// Hurt volumes receive damage (a character's vulnerable region).
	Hurt
	// BodyBlock volumes keep characters from occupying the same space.
	BodyBlock
	// Throw volumes grab; they test against the target's body-block volume.
	Throw
	// Body volumes are the permanent default hurt region of a character.
	Body
)

func (c Category) String() string {
	switch c {
	case Attack:
		return "attack"
	case Hurt:
		return "hurt"
	case BodyBlock:
		return "body-block"
	case Throw:
		return "throw"
	case Body:
		return "body"
	}
	return "unknown"
}

// Payload carries the offensive data of an attack or throw volume. Tag names
// the attack so the host can map an overlap back to its definition.
type Payload struct {
	Tag       string
	Damage    int
	Knockback cp.Vector
}

// Volume is one tagged shape belonging to an owner. Permanent body volumes
// live for the character's lifetime and are repositioned every tick; attack
// volumes exist only for the attack's active window.
type Volume struct {
	ID       int
	Owner    int
	Category Category
	Shape    geometry.Shape
	Active   bool
	Payload  *Payload

	// HitTargets records owners already struck by this volume so one active
	// window lands at most one hit per target.
	HitTargets map[int]bool
}

// receives reports whether the category can be struck by attack volumes.
func (c Category) receives() bool {
	return c == Hurt || c == Body
}
