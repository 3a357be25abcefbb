// Package attack owns attack definitions and the per-character attack phase
// state machine: startup/active/recovery timing, cancel gating, special-move
// input recognition and button-attack selection.
package attack

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Class groups attacks for damage scaling and chain eligibility. The set is
// open; characters may introduce their own classes in data files.
type Class string

const (
	ClassLight   Class = "light"
	ClassMedium  Class = "medium"
	ClassHeavy   Class = "heavy"
	ClassSpecial Class = "special"
	ClassSuper   Class = "super"
)

// Symbol is one discrete input in the closed host vocabulary: directions,
// the three attack strengths, two special slots, and synthesized diagonals.
type Symbol string

const (
	SymUp        Symbol = "up"
	SymDown      Symbol = "down"
	SymLeft      Symbol = "left"
	SymRight     Symbol = "right"
	SymDownLeft  Symbol = "down-left"
	SymDownRight Symbol = "down-right"
	SymLight     Symbol = "light"
	SymMedium    Symbol = "medium"
	SymHeavy     Symbol = "heavy"
	SymSpecial1  Symbol = "special1"
	SymSpecial2  Symbol = "special2"
)

// Sequence is a special-move input requirement: the symbols must arrive in
// exact order within WindowMs of each other.
type Sequence struct {
	Symbols  []Symbol
	WindowMs float64
}

// HitContext is handed to an attack's optional on-hit hook when it lands.
type HitContext struct {
	AttackerID   int
	DefenderID   int
	Attack       string
	RawDamage    int
	ScaledDamage int
	ComboLength  int
}

// HookFunc is an optional fire-and-forget side effect run when the attack
// lands. The core never inspects its result.
type HookFunc func(ctx HitContext)

// HitVolume sizes the attack's damage volume relative to the attacker: the
// offset is measured from the attacker's center along its facing direction.
type HitVolume struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// Definition is the immutable template for one attack. It is created at
// character load time and shared by reference across all simulation ticks;
// nothing in this package mutates it after registration.
type Definition struct {
	Name  string
	Class Class

	StartupFrames  int
	ActiveFrames   int
	RecoveryFrames int

	Damage          int
	HitstunFrames   int
	BlockstunFrames int
	Knockback       cp.Vector
	Volume          HitVolume

	// Airborne marks the attack as usable only while airborne.
	Airborne bool
	// Crouchable allows the attack while the character is crouching.
	Crouchable  bool
	Cancelable  bool
	Unblockable bool
	// BlockLow / BlockHigh demand a specific guard posture to block.
	BlockLow  bool
	BlockHigh bool

	Sequence *Sequence
	OnHit    HookFunc
}

// Validate rejects definitions the state machine cannot drive.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("attack: definition has no name")
	}
	if d.StartupFrames < 0 || d.ActiveFrames < 0 || d.RecoveryFrames < 0 {
		return fmt.Errorf("attack: %s: negative frame count", d.Name)
	}
	if d.StartupFrames+d.ActiveFrames+d.RecoveryFrames == 0 {
		return fmt.Errorf("attack: %s: zero total duration", d.Name)
	}
	if d.Damage < 0 {
		return fmt.Errorf("attack: %s: negative damage", d.Name)
	}
	if d.Sequence != nil {
		if len(d.Sequence.Symbols) == 0 {
			return fmt.Errorf("attack: %s: empty input sequence", d.Name)
		}
		if d.Sequence.WindowMs <= 0 {
			return fmt.Errorf("attack: %s: sequence window must be positive", d.Name)
		}
	}
	return nil
}
