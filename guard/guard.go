// Package guard owns blocking posture and the guard meter: a depleting
// resource with delayed recovery that gates how much blocking a character
// can sustain before a guard break.
package guard

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/common"
)

// Posture is the active blocking stance.
type Posture int

const (
	PostureNone Posture = iota
	PostureHigh
	PostureLow
)

func (p Posture) String() string {
	switch p {
	case PostureHigh:
		return "high"
	case PostureLow:
		return "low"
	}
	return "none"
}

// StunKind distinguishes the stun states the guard module forces on its
// owner through the character collaborator.
type StunKind int

const (
	StunBlock StunKind = iota
	StunHit
)

// Audio cue names emitted by this module.
const (
	CueBlockStart = "block_start"
	CueGuardBreak = "guard_break"
)

// Body is the slice of the character collaborator the guard module drives.
type Body interface {
	Position() cp.Vector
	ApplyForce(v cp.Vector)
	SetState(kind StunKind, durationMs float64)
}

// AudioSink receives fire-and-forget cue names.
type AudioSink interface {
	Play(cue string)
}

// Config tunes the guard meter and block response.
type Config struct {
	MeterMax        float64
	DamageReduction float64 // fraction of raw damage removed on block
	BlockCost       float64 // fixed meter cost per block
	RecoveryDelayMs float64 // delay after the last block before regen resumes
	RecoveryPerSec  float64
	PushbackScale   float64
	// GuardBreakStunFrames is the forced hitstun on a break.
	GuardBreakStunFrames int
}

func DefaultConfig() Config {
	return Config{
		MeterMax:             100,
		DamageReduction:      0.8,
		BlockCost:            4,
		RecoveryDelayMs:      1200,
		RecoveryPerSec:       15,
		PushbackScale:        0.6,
		GuardBreakStunFrames: 60,
	}
}

// State is the per-character guard module.
type State struct {
	cfg   Config
	body  Body
	audio AudioSink

	blocking       bool
	posture        Posture
	meter          float64
	recoveryWaitMs float64
}

func NewState(cfg Config, body Body, audio AudioSink) *State {
	return &State{cfg: cfg, body: body, audio: audio, meter: cfg.MeterMax}
}

func (g *State) Blocking() bool   { return g.blocking }
func (g *State) Posture() Posture { return g.posture }
func (g *State) Meter() float64   { return g.meter }

// MeterFraction reports the meter as a fraction of its maximum, for the UI
// collaborator.
func (g *State) MeterFraction() float64 {
	if g.cfg.MeterMax <= 0 {
		return 0
	}
	return g.meter / g.cfg.MeterMax
}

// SetPosture derives the posture from the blocking and crouching flags:
// HIGH standing, LOW crouching, NONE when not blocking. Entering a blocking
// posture from none plays a one-shot cue.
func (g *State) SetPosture(isBlocking, isCrouching bool) {
	wasBlocking := g.blocking
	g.blocking = isBlocking
	switch {
	case !isBlocking:
		g.posture = PostureNone
	case isCrouching:
		g.posture = PostureLow
	default:
		g.posture = PostureHigh
	}
	if isBlocking && !wasBlocking && g.audio != nil {
		g.audio.Play(CueBlockStart)
	}
}

// CanBlock reports whether the incoming attack can be blocked in the current
// posture with the current meter.
func (g *State) CanBlock(def *attack.Definition) bool {
	if def == nil || !g.blocking || g.meter <= 0 || def.Unblockable {
		return false
	}
	if def.BlockLow && g.posture != PostureLow {
		return false
	}
	if def.BlockHigh && g.posture != PostureHigh {
		return false
	}
	return true
}

// ProcessBlock resolves a blocked hit: it returns the passthrough damage
// (reduced and rounded to nearest, matching designer-tuned values), deducts
// the meter cost, restarts the recovery delay, puts the defender into
// blockstun, and pushes the defender away from the attacker. A depleted
// meter triggers the guard break.
func (g *State) ProcessBlock(def *attack.Definition, attackerPos cp.Vector) int {
	if def == nil {
		return 0
	}
	passthrough := int(math.Round(float64(def.Damage) * (1 - g.cfg.DamageReduction)))

	g.meter -= g.cfg.BlockCost + math.Floor(float64(def.Damage)/10)
	g.recoveryWaitMs = g.cfg.RecoveryDelayMs

	g.body.SetState(StunBlock, common.FramesToMillis(def.BlockstunFrames))

	dir := 1.0
	if g.body.Position().X < attackerPos.X {
		dir = -1
	}
	push := math.Abs(def.Knockback.X) * g.cfg.PushbackScale
	g.body.ApplyForce(cp.Vector{X: dir * push})

	if g.meter <= 0 {
		g.meter = 0
		g.breakGuard()
	}
	return passthrough
}

// Update runs per-tick recovery: while not blocking and below max, the delay
// counts down first, then the meter regenerates at the configured rate.
func (g *State) Update(deltaMs float64) {
	if g.blocking || g.meter >= g.cfg.MeterMax {
		return
	}
	if g.recoveryWaitMs > 0 {
		g.recoveryWaitMs = math.Max(0, g.recoveryWaitMs-deltaMs)
		return
	}
	g.meter = common.Clamp(g.meter+g.cfg.RecoveryPerSec*deltaMs/1000, 0, g.cfg.MeterMax)
}

// breakGuard is the terminal escalation: blocking is forced off and the
// owner is put into a fixed hitstun.
func (g *State) breakGuard() {
	g.blocking = false
	g.posture = PostureNone
	g.body.SetState(StunHit, common.FramesToMillis(g.cfg.GuardBreakStunFrames))
	if g.audio != nil {
		g.audio.Play(CueGuardBreak)
	}
}
