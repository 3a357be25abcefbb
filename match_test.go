package versus

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/guard"
)

// tickMs is a hair above one 60 Hz frame so phase boundaries always fall on a
// deterministic tick.
const tickMs = 16.67

type stunCall struct {
	kind guard.StunKind
	ms   float64
}

type stubBody struct {
	pos       cp.Vector
	facing    float64
	grounded  bool
	crouching bool
	forces    []cp.Vector
	stuns     []stunCall
}

func (b *stubBody) IsGrounded() bool         { return b.grounded }
func (b *stubBody) IsCrouching() bool        { return b.crouching }
func (b *stubBody) Position() cp.Vector      { return b.pos }
func (b *stubBody) FacingDirection() float64 { return b.facing }
func (b *stubBody) ApplyForce(v cp.Vector)   { b.forces = append(b.forces, v) }
func (b *stubBody) SetState(kind guard.StunKind, ms float64) {
	b.stuns = append(b.stuns, stunCall{kind, ms})
}

type stubInput struct {
	held    map[attack.Symbol]bool
	pressed map[attack.Symbol]bool
}

func newStubInput() *stubInput {
	return &stubInput{held: map[attack.Symbol]bool{}, pressed: map[attack.Symbol]bool{}}
}

func (in *stubInput) IsHeld(sym attack.Symbol) bool        { return in.held[sym] }
func (in *stubInput) IsJustPressed(sym attack.Symbol) bool { return in.pressed[sym] }
func (in *stubInput) press(sym attack.Symbol)              { in.pressed[sym] = true }
func (in *stubInput) clear()                               { in.pressed = map[attack.Symbol]bool{} }

type stubAudio struct {
	cues []string
}

func (a *stubAudio) Play(cue string) { a.cues = append(a.cues, cue) }

func (a *stubAudio) count(cue string) int {
	n := 0
	for _, c := range a.cues {
		if c == cue {
			n++
		}
	}
	return n
}

type stubUI struct {
	extended []int // combo lengths reported, any player
	dropped  int
	meters   map[int]float64
}

func newStubUI() *stubUI { return &stubUI{meters: map[int]float64{}} }

func (u *stubUI) ComboExtended(player, hits int)      { u.extended = append(u.extended, hits) }
func (u *stubUI) ComboDropped(player int)             { u.dropped++ }
func (u *stubUI) GuardMeter(player int, frac float64) { u.meters[player] = frac }

func lightJab() *attack.Definition {
	return &attack.Definition{
		Name:            "light_jab",
		Class:           attack.ClassLight,
		StartupFrames:   5,
		ActiveFrames:    3,
		RecoveryFrames:  7,
		Damage:          10,
		HitstunFrames:   12,
		BlockstunFrames: 8,
		Knockback:       cp.Vector{X: 4},
		Volume:          attack.HitVolume{Width: 30, Height: 20, OffsetX: 30},
	}
}

type duel struct {
	match *Match
	a, b  *Fighter
	inA   *stubInput
	inB   *stubInput
	bodyA *stubBody
	bodyB *stubBody
	audio *stubAudio
	ui    *stubUI
}

func newDuel(t *testing.T, jab *attack.Definition, bx float64) *duel {
	t.Helper()
	d := &duel{
		inA:   newStubInput(),
		inB:   newStubInput(),
		bodyA: &stubBody{facing: 1, grounded: true},
		bodyB: &stubBody{pos: cp.Vector{X: bx}, facing: -1, grounded: true},
		audio: &stubAudio{},
		ui:    newStubUI(),
	}
	d.match = NewMatch(d.audio, d.ui)

	var err error
	d.a, err = d.match.Join(FighterConfig{Name: "alpha", Attacks: []*attack.Definition{jab}}, d.bodyA, d.inA)
	if err != nil {
		t.Fatalf("join alpha: %v", err)
	}
	d.b, err = d.match.Join(FighterConfig{Name: "beta"}, d.bodyB, d.inB)
	if err != nil {
		t.Fatalf("join beta: %v", err)
	}
	return d
}

func (d *duel) tick() []HitReport {
	reports := d.match.Update(tickMs)
	d.inA.clear()
	d.inB.clear()
	return reports
}

func TestLightAttackExchange(t *testing.T) {
	jab := lightJab()
	hookCalls := 0
	jab.OnHit = func(ctx attack.HitContext) {
		hookCalls++
		if ctx.ScaledDamage != 10 || ctx.ComboLength != 1 {
			t.Errorf("hook ctx = %+v", ctx)
		}
	}

	d := newDuel(t, jab, 50)
	d.inA.press(attack.SymLight)

	var hits []HitReport
	hitTick := 0
	for tick := 1; tick <= 15; tick++ {
		reports := d.tick()
		if len(reports) > 0 {
			hits = append(hits, reports...)
			hitTick = tick
		}

		switch tick {
		case 1:
			if got := d.a.Session().Phase(); got != attack.PhaseStartup {
				t.Fatalf("tick 1 phase = %v, want startup", got)
			}
		case 4:
			if got := d.a.Session().Phase(); got != attack.PhaseStartup {
				t.Fatalf("tick 4 phase = %v, want startup", got)
			}
		case 5:
			if got := d.a.Session().Phase(); got != attack.PhaseActive {
				t.Fatalf("tick 5 phase = %v, want active", got)
			}
		case 8:
			if got := d.a.Session().Phase(); got != attack.PhaseRecovery {
				t.Fatalf("tick 8 phase = %v, want recovery", got)
			}
		}
	}

	if !d.a.Session().Idle() {
		t.Fatalf("attack must be completed after 15 ticks, phase %v", d.a.Session().Phase())
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want exactly 1", len(hits))
	}
	if hitTick != 5 {
		t.Fatalf("hit landed on tick %d, want tick 5 (first active tick)", hitTick)
	}

	hit := hits[0]
	if hit.Blocked || hit.Throw {
		t.Fatalf("hit misclassified: %+v", hit)
	}
	if hit.Damage != 10 || hit.RawDamage != 10 {
		t.Fatalf("first combo hit must be unscaled: %+v", hit)
	}
	if hookCalls != 1 {
		t.Fatalf("hook fired %d times, want once", hookCalls)
	}
	if got := d.a.Ledger().Len(); got != 1 {
		t.Fatalf("combo length = %d, want 1", got)
	}
	if got := d.b.Health(); got != 990 {
		t.Fatalf("defender health = %d, want 990", got)
	}

	if len(d.bodyB.stuns) != 1 || d.bodyB.stuns[0].kind != guard.StunHit {
		t.Fatalf("defender stuns = %+v, want one hitstun", d.bodyB.stuns)
	}
	if len(d.bodyB.forces) != 1 || d.bodyB.forces[0].X != 4 {
		t.Fatalf("defender knockback = %+v, want +4 along x", d.bodyB.forces)
	}

	if d.audio.count(CueAttackStart) != 1 || d.audio.count(CueHit) != 1 {
		t.Fatalf("audio cues = %v", d.audio.cues)
	}
	if d.a.attackID != 0 {
		t.Fatalf("attack volume must be retired after the active window")
	}
}

func TestBlockedExchange(t *testing.T) {
	d := newDuel(t, lightJab(), 50)
	// Defender faces left, so holding right is holding back.
	d.inB.held[attack.SymRight] = true
	d.inA.press(attack.SymLight)

	var hits []HitReport
	for tick := 1; tick <= 15; tick++ {
		hits = append(hits, d.tick()...)
	}

	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	hit := hits[0]
	if !hit.Blocked {
		t.Fatalf("hit must be blocked: %+v", hit)
	}
	if hit.Damage != 2 {
		t.Fatalf("passthrough = %d, want round(10*0.2) = 2", hit.Damage)
	}
	if got := d.b.Health(); got != 998 {
		t.Fatalf("defender health = %d, want 998", got)
	}
	// Cost is the base 4 plus floor(10/10).
	if got := d.b.Guard().Meter(); got != 95 {
		t.Fatalf("guard meter = %v, want 95", got)
	}
	if got := d.ui.meters[d.b.ID]; got != 0.95 {
		t.Fatalf("reported meter fraction = %v, want 0.95", got)
	}
	if len(d.bodyB.stuns) != 1 || d.bodyB.stuns[0].kind != guard.StunBlock {
		t.Fatalf("defender stuns = %+v, want one blockstun", d.bodyB.stuns)
	}
	if got := d.a.Ledger().Len(); got != 0 {
		t.Fatalf("blocked hits must not extend a combo, combo length = %d", got)
	}
	if d.audio.count(CueHit) != 0 {
		t.Fatalf("blocked hit must not play the hit cue: %v", d.audio.cues)
	}
	if d.audio.count(guard.CueBlockStart) != 1 {
		t.Fatalf("block start cue missing: %v", d.audio.cues)
	}
}

func TestComboAcrossExchanges(t *testing.T) {
	d := newDuel(t, lightJab(), 50)

	d.inA.press(attack.SymLight)
	for tick := 1; tick <= 15; tick++ {
		d.tick()
	}
	d.inA.press(attack.SymLight)
	for tick := 16; tick <= 30; tick++ {
		d.tick()
	}

	stats := d.a.Ledger().Stats()
	if stats.Hits != 2 {
		t.Fatalf("combo hits = %d, want 2", stats.Hits)
	}
	// The second hit started from idle well after recovery: a link.
	if stats.Links != 1 || stats.Cancels != 0 {
		t.Fatalf("connections = %+v, want one link", stats)
	}
	// Pre-append combo length 1 means the second hit is still unscaled.
	if stats.ScaledDamage != 20 {
		t.Fatalf("scaled total = %d, want 20", stats.ScaledDamage)
	}
	if got := d.b.Health(); got != 980 {
		t.Fatalf("defender health = %d, want 980", got)
	}
}

func TestCancelDuringActiveRetiresVolume(t *testing.T) {
	jab := lightJab()
	jab.Cancelable = true
	d := newDuel(t, jab, 200) // well out of reach

	d.inA.press(attack.SymLight)
	for tick := 1; tick <= 5; tick++ {
		if reports := d.tick(); len(reports) != 0 {
			t.Fatalf("tick %d: hit landed at range", tick)
		}
	}
	if got := d.a.Session().Phase(); got != attack.PhaseActive {
		t.Fatalf("phase = %v, want active before the cancel", got)
	}
	if d.a.attackID == 0 {
		t.Fatalf("active attack must carry a volume")
	}

	// Cancel into a fresh jab mid-active.
	d.inA.press(attack.SymLight)
	d.tick()
	if got := d.a.Session().Phase(); got != attack.PhaseStartup {
		t.Fatalf("phase = %v, want startup after the cancel", got)
	}
	if d.a.attackID != 0 {
		t.Fatalf("replaced attack's volume must be retired on cancel")
	}

	// Walk the defender into range. The replaced attack's active window is
	// over, so nothing may land until the new jab goes active on tick 10.
	d.bodyB.pos.X = 50
	hitTick := 0
	hits := 0
	for tick := 7; tick <= 20; tick++ {
		reports := d.tick()
		if tick <= 9 && len(reports) != 0 {
			t.Fatalf("tick %d: hit landed during startup", tick)
		}
		if len(reports) > 0 {
			hits += len(reports)
			if hitTick == 0 {
				hitTick = tick
			}
		}
	}
	if hits != 1 || hitTick != 10 {
		t.Fatalf("got %d hits, first on tick %d; want one hit on tick 10", hits, hitTick)
	}
}

func TestBodySeparation(t *testing.T) {
	d := newDuel(t, lightJab(), 10)

	d.tick()

	if len(d.bodyA.forces) != 1 || len(d.bodyB.forces) != 1 {
		t.Fatalf("forces a=%v b=%v, want one each", d.bodyA.forces, d.bodyB.forces)
	}
	fa, fb := d.bodyA.forces[0], d.bodyB.forces[0]
	if fa.X >= 0 || fb.X <= 0 {
		t.Fatalf("fighters must be pushed apart: a=%v b=%v", fa, fb)
	}
	if fa.X != -fb.X {
		t.Fatalf("separation must split evenly: a=%v b=%v", fa, fb)
	}
}

func TestJoinLimits(t *testing.T) {
	m := NewMatch(nil, nil)
	if _, err := m.Join(FighterConfig{Name: "x"}, nil, nil); err == nil {
		t.Fatalf("nil body must be rejected")
	}

	for i := 0; i < 2; i++ {
		if _, err := m.Join(FighterConfig{Name: "x"}, &stubBody{facing: 1, grounded: true}, nil); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
	if _, err := m.Join(FighterConfig{Name: "x"}, &stubBody{facing: 1, grounded: true}, nil); err == nil {
		t.Fatalf("third fighter must be rejected")
	}
}
