package volume

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/geometry"
)

// PairKind classifies a resolved overlap.
type PairKind int

const (
	// AttackOnDefense pairs an active attack volume with a receiving volume.
	AttackOnDefense PairKind = iota
	// ThrowOnBody pairs an active throw volume with a body-block volume.
	ThrowOnBody
	// BodyOnBody pairs two body-block volumes for separation.
	BodyOnBody
)

// Overlap is one resolved pair. Penetration is the minimum translation for
// the source volume's owner, computed by the geometry package.
type Overlap struct {
	Kind        PairKind
	Source      *Volume
	Target      *Volume
	Penetration cp.Vector
}

// Registry holds every volume in a match keyed by id, preserving insertion
// order so resolution is deterministic tick over tick.
type Registry struct {
	nextID  int
	volumes map[int]*Volume
	order   []int
}

func NewRegistry() *Registry {
	return &Registry{volumes: make(map[int]*Volume)}
}

// Register adds a volume and returns its id. Volumes start active.
func (r *Registry) Register(owner int, category Category, shape geometry.Shape, payload *Payload) int {
	r.nextID++
	v := &Volume{
		ID:       r.nextID,
		Owner:    owner,
		Category: category,
		Shape:    shape,
		Active:   true,
		Payload:  payload,
	}
	if category == Attack || category == Throw {
		v.HitTargets = make(map[int]bool)
	}
	r.volumes[v.ID] = v
	r.order = append(r.order, v.ID)
	return v.ID
}

// Get returns the volume with the given id.
func (r *Registry) Get(id int) (*Volume, bool) {
	v, ok := r.volumes[id]
	return v, ok
}

// SetActive toggles a volume without removing it.
func (r *Registry) SetActive(id int, active bool) error {
	v, ok := r.volumes[id]
	if !ok {
		return fmt.Errorf("volume: set active %d: unknown volume", id)
	}
	v.Active = active
	return nil
}

// UpdateShape repositions or reshapes a volume.
func (r *Registry) UpdateShape(id int, shape geometry.Shape) error {
	v, ok := r.volumes[id]
	if !ok {
		return fmt.Errorf("volume: update shape %d: unknown volume", id)
	}
	v.Shape = shape
	return nil
}

// Remove deletes a volume. Removing an unknown id is a no-op.
func (r *Registry) Remove(id int) {
	if _, ok := r.volumes[id]; !ok {
		return
	}
	delete(r.volumes, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ResolveAll runs the pairwise overlap pass: every active attack volume
// against every active receiving volume with a different owner, every active
// throw volume against opposing body-block volumes, and every pair of active
// body-block volumes for separation. Same-owner pairs are always skipped.
func (r *Registry) ResolveAll() []Overlap {
	var out []Overlap
	for _, sid := range r.order {
		src := r.volumes[sid]
		if !src.Active {
			continue
		}
		switch src.Category {
		case Attack:
			out = r.pair(out, src, AttackOnDefense, func(c Category) bool { return c.receives() })
		case Throw:
			out = r.pair(out, src, ThrowOnBody, func(c Category) bool { return c == BodyBlock })
		case BodyBlock:
			out = r.pairBodies(out, src)
		}
	}
	return out
}

func (r *Registry) pair(out []Overlap, src *Volume, kind PairKind, match func(Category) bool) []Overlap {
	for _, tid := range r.order {
		tgt := r.volumes[tid]
		if !tgt.Active || tgt.Owner == src.Owner || !match(tgt.Category) {
			continue
		}
		if o := geometry.Intersect(src.Shape, tgt.Shape); o.Intersects {
			out = append(out, Overlap{Kind: kind, Source: src, Target: tgt, Penetration: o.Penetration})
		}
	}
	return out
}

func (r *Registry) pairBodies(out []Overlap, src *Volume) []Overlap {
	for _, tid := range r.order {
		// Only pair forward so each body pair is reported once.
		if tid <= src.ID {
			continue
		}
		tgt := r.volumes[tid]
		if !tgt.Active || tgt.Owner == src.Owner || tgt.Category != BodyBlock {
			continue
		}
		if o := geometry.Intersect(src.Shape, tgt.Shape); o.Intersects {
			out = append(out, Overlap{Kind: BodyOnBody, Source: src, Target: tgt, Penetration: o.Penetration})
		}
	}
	return out
}
