// Package versus wires the combat modules into fighters and a match: per-tick
// input capture, attack phase advancement, hit-volume maintenance, overlap
// resolution and block/hit resolution between two characters.
package versus

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/combo"
	"github.com/milk9111/versus/common"
	"github.com/milk9111/versus/geometry"
	"github.com/milk9111/versus/guard"
	"github.com/milk9111/versus/scaling"
	"github.com/milk9111/versus/volume"
)

// Audio cue names emitted at the match level. The guard module owns its own
// block and break cues.
const (
	CueAttackStart = "attack_start"
	CueHit         = "hit"
)

// Body is the character/physics collaborator a fighter drives. The core never
// moves a body directly; it applies forces and forces stun states.
type Body interface {
	IsGrounded() bool
	IsCrouching() bool
	Position() cp.Vector
	// FacingDirection is +1 facing right, -1 facing left.
	FacingDirection() float64
	ApplyForce(v cp.Vector)
	SetState(kind guard.StunKind, durationMs float64)
}

// AudioSink receives fire-and-forget cue names.
type AudioSink interface {
	Play(cue string)
}

// UISink receives per-player display events, consumed each tick by
// render-side widgets.
type UISink interface {
	ComboExtended(player, hits int)
	ComboDropped(player int)
	GuardMeter(player int, fraction float64)
}

// comboUI adapts the match-level UI sink to one fighter's combo ledger.
type comboUI struct {
	player int
	ui     UISink
}

func (c comboUI) ComboExtended(hits int) {
	if c.ui != nil {
		c.ui.ComboExtended(c.player, hits)
	}
}

func (c comboUI) ComboDropped() {
	if c.ui != nil {
		c.ui.ComboDropped(c.player)
	}
}

// FighterConfig assembles one character: its move list and the tuning records
// of the guard, scaling and combo modules. Zero-value tuning fields fall back
// to the module defaults.
type FighterConfig struct {
	Name    string
	Attacks []*attack.Definition

	Guard   guard.Config
	Scaling scaling.Config
	Combo   combo.Config

	Health int
	// Width and Height size the permanent hurt and body-block volumes.
	Width  float64
	Height float64
}

func (c *FighterConfig) applyDefaults() {
	if c.Guard.MeterMax == 0 {
		c.Guard = guard.DefaultConfig()
	}
	if c.Scaling.MinFloor == 0 && c.Scaling.PerHitDecay == 0 {
		c.Scaling = scaling.DefaultConfig()
	}
	if c.Combo.TimeoutMs == 0 {
		c.Combo = combo.DefaultConfig()
	}
	if c.Health == 0 {
		c.Health = 1000
	}
	if c.Width == 0 {
		c.Width = 40
	}
	if c.Height == 0 {
		c.Height = 90
	}
}

// Fighter is one character's combat state: the phase machine, guard meter,
// damage scaler and combo ledger, plus its volumes in the shared registry.
type Fighter struct {
	ID   int
	Name string

	body  Body
	input attack.InputSource
	audio AudioSink
	ui    UISink

	session *attack.Session
	guard   *guard.State
	scaler  *scaling.Scaler
	ledger  *combo.Ledger

	registry *volume.Registry
	hurtID   int
	pushID   int

	// Attack volume for the current active window, zero when none.
	attackID  int
	attackDef *attack.Definition

	health int

	// Fractional-frame carry for modifier ticking.
	frameCarry float64
}

func newFighter(id int, cfg FighterConfig, body Body, input attack.InputSource, audio AudioSink, ui UISink, registry *volume.Registry) (*Fighter, error) {
	if body == nil {
		return nil, fmt.Errorf("versus: fighter %s: nil body", cfg.Name)
	}
	cfg.applyDefaults()

	f := &Fighter{
		ID:       id,
		Name:     cfg.Name,
		body:     body,
		input:    input,
		audio:    audio,
		ui:       ui,
		registry: registry,
		health:   cfg.Health,
	}

	f.session = attack.NewSession(body)
	for _, def := range cfg.Attacks {
		if err := f.session.Register(def); err != nil {
			return nil, fmt.Errorf("versus: fighter %s: %w", cfg.Name, err)
		}
	}
	f.session.AddListener(f.onPhaseChange)

	f.guard = guard.NewState(cfg.Guard, body, audio)
	f.scaler = scaling.NewScaler(cfg.Scaling)
	f.ledger = combo.NewLedger(cfg.Combo, f.session, f.scaler, comboUI{player: id, ui: ui})

	pos := body.Position()
	hurt := geometry.NewRect(0, 0, cfg.Width, cfg.Height).MoveTo(pos)
	push := geometry.NewRect(0, 0, cfg.Width*0.8, cfg.Height).MoveTo(pos)
	f.hurtID = registry.Register(id, volume.Body, hurt, nil)
	f.pushID = registry.Register(id, volume.BodyBlock, push, nil)

	return f, nil
}

// Session exposes the fighter's attack phase machine.
func (f *Fighter) Session() *attack.Session { return f.session }

// Guard exposes the fighter's guard state.
func (f *Fighter) Guard() *guard.State { return f.guard }

// Ledger exposes the fighter's combo ledger.
func (f *Fighter) Ledger() *combo.Ledger { return f.ledger }

// Scaler exposes the fighter's damage scaler.
func (f *Fighter) Scaler() *scaling.Scaler { return f.scaler }

// Health returns the fighter's remaining health.
func (f *Fighter) Health() int { return f.health }

func (f *Fighter) takeDamage(amount int) {
	f.health -= amount
	if f.health < 0 {
		f.health = 0
	}
}

// handleInput runs input capture and attack start detection for the tick.
func (f *Fighter) handleInput() {
	started := f.session.HandleInput(f.input)
	if started != nil && f.audio != nil {
		f.audio.Play(CueAttackStart)
	}
}

// holdingBack reports whether the fighter holds the direction away from its
// facing, the blocking convention.
func (f *Fighter) holdingBack() bool {
	if f.input == nil {
		return false
	}
	if f.body.FacingDirection() >= 0 {
		return f.input.IsHeld(attack.SymLeft)
	}
	return f.input.IsHeld(attack.SymRight)
}

// updatePosture derives the guard posture from the held inputs and crouch
// state.
func (f *Fighter) updatePosture() {
	f.guard.SetPosture(f.holdingBack(), f.body.IsCrouching())
}

// tickModules advances the combo clock, modifier lifetimes and guard
// recovery. Modifier durations are frame-counted, so fractional deltas
// accumulate until a whole frame has passed.
func (f *Fighter) tickModules(deltaMs float64) {
	f.ledger.Update(deltaMs)

	f.frameCarry += deltaMs
	frames := int(f.frameCarry / common.FrameMillis)
	if frames > 0 {
		f.scaler.Tick(frames)
		f.frameCarry -= float64(frames) * common.FrameMillis
	}

	f.guard.Update(deltaMs)
}

// syncVolumes repositions the fighter's volumes to follow the body.
func (f *Fighter) syncVolumes() {
	pos := f.body.Position()
	if v, ok := f.registry.Get(f.hurtID); ok {
		_ = f.registry.UpdateShape(f.hurtID, v.Shape.MoveTo(pos))
	}
	if v, ok := f.registry.Get(f.pushID); ok {
		_ = f.registry.UpdateShape(f.pushID, v.Shape.MoveTo(pos))
	}
	if f.attackID != 0 {
		_ = f.registry.UpdateShape(f.attackID, f.attackShape(f.attackDef))
	}
}

func (f *Fighter) attackShape(def *attack.Definition) geometry.Shape {
	pos := f.body.Position()
	center := cp.Vector{
		X: pos.X + f.body.FacingDirection()*def.Volume.OffsetX,
		Y: pos.Y + def.Volume.OffsetY,
	}
	return geometry.NewRect(0, 0, def.Volume.Width, def.Volume.Height).MoveTo(center)
}

// onPhaseChange maintains the attack volume: spawned when the attack goes
// active, retired when the active window ends for any reason. A transition to
// STARTUP means a cancel replaced the attack mid-flight, so the replaced
// attack's volume goes too.
func (f *Fighter) onPhaseChange(def *attack.Definition, from, to attack.Phase) {
	f.retireAttackVolume()
	if to != attack.PhaseActive {
		return
	}
	if def.Volume.Width > 0 && def.Volume.Height > 0 {
		f.attackDef = def
		f.attackID = f.registry.Register(f.ID, volume.Attack, f.attackShape(def), &volume.Payload{
			Tag:       def.Name,
			Damage:    def.Damage,
			Knockback: def.Knockback,
		})
	}
}

func (f *Fighter) retireAttackVolume() {
	if f.attackID == 0 {
		return
	}
	f.registry.Remove(f.attackID)
	f.attackID = 0
	f.attackDef = nil
}
