// Package scaling computes the combo damage-scaling factor: a product of
// hit-count decay, attack-class multipliers, repeated-move penalties and
// time-bounded temporary modifiers, clamped to [floor, 1.0].
package scaling

import (
	"fmt"
	"math"

	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/common"
)

// UnboundedDuration marks a temporary modifier that never expires on its
// own. Any other negative duration is a configuration error.
const UnboundedDuration = -1

// Config holds the tunable scaling constants. It is read on every scaling
// computation and mutated only through whole replacement.
type Config struct {
	BaseFactor  float64
	MinFloor    float64
	PerHitDecay float64
	// MaxScalingHits is the combo length beyond which the factor is forced
	// to the floor.
	MaxScalingHits int
	ClassFactors   map[attack.Class]float64
	RepeatFactor   float64
	RepeatEnabled  bool
}

func DefaultConfig() Config {
	return Config{
		BaseFactor:     1.0,
		MinFloor:       0.1,
		PerHitDecay:    0.1,
		MaxScalingHits: 10,
		ClassFactors: map[attack.Class]float64{
			attack.ClassLight:   1.0,
			attack.ClassMedium:  0.95,
			attack.ClassHeavy:   0.9,
			attack.ClassSpecial: 0.85,
			attack.ClassSuper:   1.0,
		},
		RepeatFactor:  0.8,
		RepeatEnabled: true,
	}
}

type modifier struct {
	factor   float64
	duration int // frames, or UnboundedDuration
	elapsed  int
}

// Scaler is the per-character damage scaling module. Stateless per scaling
// call apart from the informational current factor and the modifier set.
type Scaler struct {
	cfg    Config
	factor float64
	mods   map[string]*modifier
}

func NewScaler(cfg Config) *Scaler {
	return &Scaler{cfg: cfg, factor: cfg.BaseFactor, mods: make(map[string]*modifier)}
}

// SetConfig replaces the tunable constants.
func (s *Scaler) SetConfig(cfg Config) { s.cfg = cfg }

// Factor returns the factor computed by the most recent Scale call.
func (s *Scaler) Factor() float64 { return s.factor }

// AddModifier installs a keyed multiplicative modifier lasting the given
// number of frames, or forever with UnboundedDuration. Re-adding a key
// replaces the previous modifier and restarts its clock.
func (s *Scaler) AddModifier(key string, factor float64, durationFrames int) error {
	if durationFrames < 0 && durationFrames != UnboundedDuration {
		return fmt.Errorf("scaling: modifier %q: negative duration %d", key, durationFrames)
	}
	s.mods[key] = &modifier{factor: factor, duration: durationFrames}
	return nil
}

// RemoveModifier drops a modifier early. Unknown keys are a no-op.
func (s *Scaler) RemoveModifier(key string) {
	delete(s.mods, key)
}

// Tick advances modifier lifetimes by the given number of frames, expiring
// any whose elapsed frames meet or exceed their duration.
func (s *Scaler) Tick(frames int) {
	if frames <= 0 {
		return
	}
	for key, m := range s.mods {
		if m.duration == UnboundedDuration {
			continue
		}
		m.elapsed += frames
		if m.elapsed >= m.duration {
			delete(s.mods, key)
		}
	}
}

// Reset clears every bounded modifier and restores the factor to base.
// Called whenever a combo ends.
func (s *Scaler) Reset() {
	for key, m := range s.mods {
		if m.duration != UnboundedDuration {
			delete(s.mods, key)
		}
	}
	s.factor = s.cfg.BaseFactor
}

// Scale computes the scaled damage for a hit. comboLength is the length of
// the combo before this hit is recorded; history lists the attack names
// already in the combo. The first hit of a combo is never scaled. The result
// is floored, not rounded.
func (s *Scaler) Scale(rawDamage, comboLength int, def *attack.Definition, history []string) int {
	if comboLength <= 1 {
		s.factor = s.cfg.BaseFactor
		return rawDamage
	}

	if comboLength > s.cfg.MaxScalingHits {
		s.factor = s.cfg.MinFloor
	} else {
		hit := math.Max(s.cfg.MinFloor, 1.0-float64(comboLength-1)*s.cfg.PerHitDecay)

		class := 1.0
		if f, ok := s.cfg.ClassFactors[def.Class]; ok {
			class = f
		}

		repeat := 1.0
		if s.cfg.RepeatEnabled {
			seen := 0
			for _, name := range history {
				if name == def.Name {
					seen++
				}
			}
			if seen > 0 {
				if seen > 3 {
					seen = 3
				}
				repeat = math.Pow(s.cfg.RepeatFactor, float64(seen))
			}
		}

		factor := hit * class * repeat
		for _, m := range s.mods {
			factor *= m.factor
		}
		s.factor = common.Clamp(factor, s.cfg.MinFloor, 1.0)
	}

	return int(math.Floor(float64(rawDamage) * s.factor))
}
