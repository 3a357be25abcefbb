package versus

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/common"
	"github.com/milk9111/versus/guard"
	"github.com/milk9111/versus/volume"
)

// HitReport is one resolved strike from a single tick.
type HitReport struct {
	AttackerID int
	DefenderID int
	Attack     string
	RawDamage  int
	// Damage is what reached the defender's health: scaled on hit,
	// reduced passthrough on block.
	Damage  int
	Blocked bool
	Throw   bool
}

// Match owns the shared volume registry and drives both fighters through the
// fixed per-tick ordering: input capture, start detection, phase advancement,
// combo and meter housekeeping, overlap resolution, block/hit resolution.
type Match struct {
	registry *volume.Registry
	fighters []*Fighter
	audio    AudioSink
	ui       UISink
}

// NewMatch creates an empty match. Fighters join with Join.
func NewMatch(audio AudioSink, ui UISink) *Match {
	return &Match{registry: volume.NewRegistry(), audio: audio, ui: ui}
}

// Join adds a fighter to the match. A match holds at most two fighters.
func (m *Match) Join(cfg FighterConfig, body Body, input attack.InputSource) (*Fighter, error) {
	if len(m.fighters) >= 2 {
		return nil, fmt.Errorf("versus: match is full")
	}
	f, err := newFighter(len(m.fighters)+1, cfg, body, input, m.audio, m.ui, m.registry)
	if err != nil {
		return nil, err
	}
	m.fighters = append(m.fighters, f)
	return f, nil
}

// Fighter returns the fighter with the given id.
func (m *Match) Fighter(id int) (*Fighter, bool) {
	for _, f := range m.fighters {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Update advances the match by deltaMs of simulated time and returns the
// strikes resolved this tick.
func (m *Match) Update(deltaMs float64) []HitReport {
	for _, f := range m.fighters {
		f.handleInput()
	}
	for _, f := range m.fighters {
		f.session.Advance(deltaMs)
	}
	for _, f := range m.fighters {
		f.updatePosture()
		f.tickModules(deltaMs)
	}
	for _, f := range m.fighters {
		f.syncVolumes()
	}

	var reports []HitReport
	for _, o := range m.registry.ResolveAll() {
		switch o.Kind {
		case volume.BodyOnBody:
			m.separateBodies(o)
		case volume.AttackOnDefense:
			if r, ok := m.resolveStrike(o, false); ok {
				reports = append(reports, r)
			}
		case volume.ThrowOnBody:
			if r, ok := m.resolveStrike(o, true); ok {
				reports = append(reports, r)
			}
		}
	}

	if m.ui != nil {
		for _, f := range m.fighters {
			m.ui.GuardMeter(f.ID, f.guard.MeterFraction())
		}
	}
	return reports
}

// separateBodies pushes overlapping fighters apart, half the penetration
// each.
func (m *Match) separateBodies(o volume.Overlap) {
	src, okSrc := m.Fighter(o.Source.Owner)
	tgt, okTgt := m.Fighter(o.Target.Owner)
	if !okSrc || !okTgt {
		return
	}
	half := o.Penetration.Mult(0.5)
	src.body.ApplyForce(half)
	tgt.body.ApplyForce(half.Neg())
}

// resolveStrike resolves one attack or throw overlap: each active window
// lands at most once per target, a blockable hit checked against the
// defender's posture, everything else through the combo ledger.
func (m *Match) resolveStrike(o volume.Overlap, throw bool) (HitReport, bool) {
	if o.Source.HitTargets[o.Target.Owner] {
		return HitReport{}, false
	}
	attacker, ok := m.Fighter(o.Source.Owner)
	if !ok {
		return HitReport{}, false
	}
	defender, ok := m.Fighter(o.Target.Owner)
	if !ok {
		return HitReport{}, false
	}
	def, ok := attacker.session.ByName(o.Source.Payload.Tag)
	if !ok {
		// Unknown reference: the volume outlived its definition. Never fatal.
		return HitReport{}, false
	}
	o.Source.HitTargets[o.Target.Owner] = true

	if !throw && defender.guard.CanBlock(def) {
		passthrough := defender.guard.ProcessBlock(def, attacker.body.Position())
		defender.takeDamage(passthrough)
		return HitReport{
			AttackerID: attacker.ID,
			DefenderID: defender.ID,
			Attack:     def.Name,
			RawDamage:  def.Damage,
			Damage:     passthrough,
			Blocked:    true,
		}, true
	}

	attacker.ledger.OnHit(defender.body, def, def.Damage)
	scaled := def.Damage
	if entry, ok := attacker.ledger.LastEntry(); ok {
		scaled = entry.ScaledDamage
	}
	defender.takeDamage(scaled)

	defender.body.SetState(guard.StunHit, common.FramesToMillis(def.HitstunFrames))
	defender.body.ApplyForce(cp.Vector{
		X: attacker.body.FacingDirection() * def.Knockback.X,
		Y: def.Knockback.Y,
	})
	defender.session.Interrupt()

	if m.audio != nil {
		m.audio.Play(CueHit)
	}
	if def.OnHit != nil {
		def.OnHit(attack.HitContext{
			AttackerID:   attacker.ID,
			DefenderID:   defender.ID,
			Attack:       def.Name,
			RawDamage:    def.Damage,
			ScaledDamage: scaled,
			ComboLength:  attacker.ledger.Len(),
		})
	}

	return HitReport{
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Attack:     def.Name,
		RawDamage:  def.Damage,
		Damage:     scaled,
		Throw:      throw,
	}, true
}
