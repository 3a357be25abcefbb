// Package chardata loads character data files: frame-data tables, guard and
// scaling configs, and optional per-attack hook scripts. Files are YAML and
// validated at the boundary so bad data never reaches the simulation.
package chardata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/guard"
	"github.com/milk9111/versus/hooks"
	"github.com/milk9111/versus/scaling"
	"gopkg.in/yaml.v3"
)

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type SequenceSpec struct {
	Symbols  []string `yaml:"symbols"`
	WindowMs float64  `yaml:"window_ms"`
}

type VolumeSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type AttackSpec struct {
	Name        string        `yaml:"name"`
	Class       string        `yaml:"class"`
	Startup     int           `yaml:"startup"`
	Active      int           `yaml:"active"`
	Recovery    int           `yaml:"recovery"`
	Damage      int           `yaml:"damage"`
	Hitstun     int           `yaml:"hitstun"`
	Blockstun   int           `yaml:"blockstun"`
	Knockback   VectorSpec    `yaml:"knockback"`
	Volume      VolumeSpec    `yaml:"volume"`
	Airborne    bool          `yaml:"airborne"`
	Crouchable  bool          `yaml:"crouchable"`
	Cancelable  bool          `yaml:"cancelable"`
	Unblockable bool          `yaml:"unblockable"`
	BlockLow    bool          `yaml:"block_low"`
	BlockHigh   bool          `yaml:"block_high"`
	Sequence    *SequenceSpec `yaml:"sequence"`
	HookScript  string        `yaml:"hook_script"`
}

// GuardSpec and ScalingSpec use pointer fields so an absent key keeps the
// module default while an explicit zero overrides it.
type GuardSpec struct {
	MeterMax             *float64 `yaml:"meter_max"`
	DamageReduction      *float64 `yaml:"damage_reduction"`
	BlockCost            *float64 `yaml:"block_cost"`
	RecoveryDelayMs      *float64 `yaml:"recovery_delay_ms"`
	RecoveryPerSec       *float64 `yaml:"recovery_per_sec"`
	PushbackScale        *float64 `yaml:"pushback_scale"`
	GuardBreakStunFrames *int     `yaml:"guard_break_stun_frames"`
}

type ScalingSpec struct {
	MinFloor       *float64           `yaml:"min_floor"`
	PerHitDecay    *float64           `yaml:"per_hit_decay"`
	MaxScalingHits *int               `yaml:"max_scaling_hits"`
	ClassFactors   map[string]float64 `yaml:"class_factors"`
	RepeatFactor   *float64           `yaml:"repeat_factor"`
	RepeatEnabled  *bool              `yaml:"repeat_enabled"`
}

// CharacterSpec is one character data file.
type CharacterSpec struct {
	Name    string       `yaml:"name"`
	Attacks []AttackSpec `yaml:"attacks"`
	Guard   *GuardSpec   `yaml:"guard"`
	Scaling *ScalingSpec `yaml:"scaling"`
}

// Load reads and validates a character file.
func Load(path string) (*CharacterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chardata: load %s: %w", path, err)
	}
	var spec CharacterSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("chardata: unmarshal %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("chardata: %s: %w", path, err)
	}
	return &spec, nil
}

// Validate rejects inconsistent character data.
func (s *CharacterSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("character has no name")
	}
	if len(s.Attacks) == 0 {
		return fmt.Errorf("%s: character has no attacks", s.Name)
	}
	seen := make(map[string]bool, len(s.Attacks))
	for _, a := range s.Attacks {
		if a.Name == "" {
			return fmt.Errorf("%s: attack with no name", s.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("%s: duplicate attack %q", s.Name, a.Name)
		}
		seen[a.Name] = true
		if a.Class == "" {
			return fmt.Errorf("%s: attack %q has no class", s.Name, a.Name)
		}
		if a.Startup < 0 || a.Active < 0 || a.Recovery < 0 {
			return fmt.Errorf("%s: attack %q has negative frame data", s.Name, a.Name)
		}
		if a.Startup+a.Active+a.Recovery == 0 {
			return fmt.Errorf("%s: attack %q has zero total duration", s.Name, a.Name)
		}
		if a.Damage < 0 {
			return fmt.Errorf("%s: attack %q has negative damage", s.Name, a.Name)
		}
		if a.Sequence != nil {
			if len(a.Sequence.Symbols) == 0 {
				return fmt.Errorf("%s: attack %q has an empty input sequence", s.Name, a.Name)
			}
			if a.Sequence.WindowMs <= 0 {
				return fmt.Errorf("%s: attack %q sequence window must be positive", s.Name, a.Name)
			}
		}
	}
	if g := s.Guard; g != nil {
		if g.MeterMax != nil && *g.MeterMax <= 0 {
			return fmt.Errorf("%s: guard meter max must be positive", s.Name)
		}
		if g.BlockCost != nil && *g.BlockCost < 0 {
			return fmt.Errorf("%s: negative guard tuning", s.Name)
		}
		if g.RecoveryPerSec != nil && *g.RecoveryPerSec < 0 {
			return fmt.Errorf("%s: negative guard tuning", s.Name)
		}
		if g.DamageReduction != nil && (*g.DamageReduction < 0 || *g.DamageReduction > 1) {
			return fmt.Errorf("%s: damage reduction must be within [0, 1]", s.Name)
		}
	}
	if sc := s.Scaling; sc != nil {
		if sc.MinFloor != nil && (*sc.MinFloor < 0 || *sc.MinFloor > 1) {
			return fmt.Errorf("%s: scaling floor must be within [0, 1]", s.Name)
		}
		if sc.PerHitDecay != nil && *sc.PerHitDecay < 0 {
			return fmt.Errorf("%s: negative scaling decay", s.Name)
		}
	}
	return nil
}

// BuildAttacks turns the attack specs into definitions. Hook script paths
// are resolved relative to baseDir and compiled once here.
func (s *CharacterSpec) BuildAttacks(baseDir string) ([]*attack.Definition, error) {
	defs := make([]*attack.Definition, 0, len(s.Attacks))
	for _, a := range s.Attacks {
		def := &attack.Definition{
			Name:            a.Name,
			Class:           attack.Class(a.Class),
			StartupFrames:   a.Startup,
			ActiveFrames:    a.Active,
			RecoveryFrames:  a.Recovery,
			Damage:          a.Damage,
			HitstunFrames:   a.Hitstun,
			BlockstunFrames: a.Blockstun,
			Knockback:       cp.Vector{X: a.Knockback.X, Y: a.Knockback.Y},
			Volume: attack.HitVolume{
				Width:   a.Volume.Width,
				Height:  a.Volume.Height,
				OffsetX: a.Volume.OffsetX,
				OffsetY: a.Volume.OffsetY,
			},
			Airborne:    a.Airborne,
			Crouchable:  a.Crouchable,
			Cancelable:  a.Cancelable,
			Unblockable: a.Unblockable,
			BlockLow:    a.BlockLow,
			BlockHigh:   a.BlockHigh,
		}
		if a.Sequence != nil {
			seq := &attack.Sequence{WindowMs: a.Sequence.WindowMs}
			for _, sym := range a.Sequence.Symbols {
				seq.Symbols = append(seq.Symbols, attack.Symbol(sym))
			}
			def.Sequence = seq
		}
		if a.HookScript != "" {
			hook, err := hooks.CompileFile(filepath.Join(baseDir, a.HookScript))
			if err != nil {
				return nil, fmt.Errorf("chardata: %s: attack %q: %w", s.Name, a.Name, err)
			}
			def.OnHit = hook.Bind()
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// GuardConfig overlays the spec's guard tuning onto the defaults.
func (s *CharacterSpec) GuardConfig() guard.Config {
	cfg := guard.DefaultConfig()
	g := s.Guard
	if g == nil {
		return cfg
	}
	if g.MeterMax != nil {
		cfg.MeterMax = *g.MeterMax
	}
	if g.DamageReduction != nil {
		cfg.DamageReduction = *g.DamageReduction
	}
	if g.BlockCost != nil {
		cfg.BlockCost = *g.BlockCost
	}
	if g.RecoveryDelayMs != nil {
		cfg.RecoveryDelayMs = *g.RecoveryDelayMs
	}
	if g.RecoveryPerSec != nil {
		cfg.RecoveryPerSec = *g.RecoveryPerSec
	}
	if g.PushbackScale != nil {
		cfg.PushbackScale = *g.PushbackScale
	}
	if g.GuardBreakStunFrames != nil {
		cfg.GuardBreakStunFrames = *g.GuardBreakStunFrames
	}
	return cfg
}

// ScalingConfig overlays the spec's scaling tuning onto the defaults.
func (s *CharacterSpec) ScalingConfig() scaling.Config {
	cfg := scaling.DefaultConfig()
	sc := s.Scaling
	if sc == nil {
		return cfg
	}
	if sc.MinFloor != nil {
		cfg.MinFloor = *sc.MinFloor
	}
	if sc.PerHitDecay != nil {
		cfg.PerHitDecay = *sc.PerHitDecay
	}
	if sc.MaxScalingHits != nil {
		cfg.MaxScalingHits = *sc.MaxScalingHits
	}
	if len(sc.ClassFactors) > 0 {
		cfg.ClassFactors = make(map[attack.Class]float64, len(sc.ClassFactors))
		for class, f := range sc.ClassFactors {
			cfg.ClassFactors[attack.Class(class)] = f
		}
	}
	if sc.RepeatFactor != nil {
		cfg.RepeatFactor = *sc.RepeatFactor
	}
	if sc.RepeatEnabled != nil {
		cfg.RepeatEnabled = *sc.RepeatEnabled
	}
	return cfg
}
