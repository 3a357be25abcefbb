// Package combo records the hits of the current combo, classifies how each
// one connected, tracks juggle state, and ends combos on inter-hit timeout.
package combo

import (
	"strings"

	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/scaling"
)

// Connection classifies how a hit connected relative to the previous one.
// It is informational: nothing gameplay-gating reads it.
type Connection int

const (
	// ConnectionNone marks the first hit of a combo, which is never counted
	// as a connection.
	ConnectionNone Connection = iota
	ConnectionCancel
	ConnectionLink
	ConnectionChain
	ConnectionSpecial
)

func (c Connection) String() string {
	switch c {
	case ConnectionCancel:
		return "cancel"
	case ConnectionLink:
		return "link"
	case ConnectionChain:
		return "chain"
	case ConnectionSpecial:
		return "special"
	}
	return "none"
}

// cancelWindow is the recovery-progress threshold below which a new attack
// still counts as a cancel (the final 30% of recovery).
const cancelWindow = 0.3

// Entry is one recorded hit of the current combo.
type Entry struct {
	Attack       string
	RawDamage    int
	ScaledDamage int
	Connection   Connection
	// At is the ledger clock in simulated milliseconds when the hit landed.
	At float64
}

// Stats aggregates the current combo. The first hit's classification is
// excluded from the connection counts: a combo needs at least two hits to
// have a connection.
type Stats struct {
	Hits         int
	RawDamage    int
	ScaledDamage int
	DurationMs   float64
	Cancels      int
	Links        int
	Chains       int
	Specials     int
}

// Defender is the slice of the opposing character the ledger reads.
type Defender interface {
	IsGrounded() bool
}

// UI receives combo display events, consumed by render-side widgets.
type UI interface {
	ComboExtended(hits int)
	ComboDropped()
}

// Config tunes combo lifetime and juggle tracking.
type Config struct {
	// TimeoutMs is the maximum inter-hit gap before the combo ends.
	TimeoutMs float64
	// MaxJuggleHits is tracked but not enforced; see TestJuggleCapIsAdvisory.
	MaxJuggleHits int
}

func DefaultConfig() Config {
	return Config{TimeoutMs: 1500, MaxJuggleHits: 5}
}

// Ledger is the per-character combo record. It owns the authoritative combo
// count; the phase machine's legacy counters are write-only mirrors it
// resets.
type Ledger struct {
	cfg     Config
	session *attack.Session
	scaler  *scaling.Scaler
	ui      UI

	clock     float64
	entries   []Entry
	lastHitAt float64

	juggling   bool
	juggleHits int

	// SpecialClassifier is the extension point for character-specific
	// special-cancel tables. Nil means no hit ever classifies as SPECIAL.
	SpecialClassifier func(prev, current string) bool
}

func NewLedger(cfg Config, session *attack.Session, scaler *scaling.Scaler, ui UI) *Ledger {
	return &Ledger{cfg: cfg, session: session, scaler: scaler, ui: ui}
}

// Len returns the current combo length.
func (l *Ledger) Len() int { return len(l.entries) }

// Active reports whether a combo is in progress.
func (l *Ledger) Active() bool { return len(l.entries) > 0 }

// Entries returns a copy of the current combo's hits.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// LastEntry returns the most recent hit.
func (l *Ledger) LastEntry() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// JuggleActive reports whether the combo is currently juggling an airborne
// defender, and how many juggle hits have landed.
func (l *Ledger) JuggleActive() (bool, int) { return l.juggling, l.juggleHits }

// OnHit records a successful hit and reports whether it extended the current
// combo. A non-extending hit clears the ledger and restarts with this hit as
// entry zero. Damage scaling is computed with the pre-append combo length.
func (l *Ledger) OnHit(defender Defender, def *attack.Definition, rawDamage int) bool {
	extends := len(l.entries) > 0 && l.clock-l.lastHitAt <= l.cfg.TimeoutMs
	if !extends {
		l.reset()
	}

	conn := ConnectionNone
	if extends {
		conn = l.classify(def)
	}

	history := make([]string, len(l.entries))
	for i, e := range l.entries {
		history[i] = e.Attack
	}
	scaled := l.scaler.Scale(rawDamage, len(l.entries), def, history)

	l.entries = append(l.entries, Entry{
		Attack:       def.Name,
		RawDamage:    rawDamage,
		ScaledDamage: scaled,
		Connection:   conn,
		At:           l.clock,
	})
	l.lastHitAt = l.clock

	if extends && defender != nil && !defender.IsGrounded() {
		l.juggling = true
		l.juggleHits++
	}

	l.session.NoteComboHit()
	if l.ui != nil {
		l.ui.ComboExtended(len(l.entries))
	}
	return extends
}

// Update advances the ledger clock and ends the combo once the gap since the
// last hit exceeds the timeout, notifying the UI and resetting the phase
// machine's legacy scaling.
func (l *Ledger) Update(deltaMs float64) {
	l.clock += deltaMs
	if len(l.entries) == 0 {
		return
	}
	if l.clock-l.lastHitAt > l.cfg.TimeoutMs {
		l.reset()
		if l.ui != nil {
			l.ui.ComboDropped()
		}
	}
}

// Stats aggregates the current combo.
func (l *Ledger) Stats() Stats {
	var s Stats
	s.Hits = len(l.entries)
	if s.Hits == 0 {
		return s
	}
	for _, e := range l.entries {
		s.RawDamage += e.RawDamage
		s.ScaledDamage += e.ScaledDamage
	}
	s.DurationMs = l.entries[len(l.entries)-1].At - l.entries[0].At
	for _, e := range l.entries[1:] {
		switch e.Connection {
		case ConnectionCancel:
			s.Cancels++
		case ConnectionLink:
			s.Links++
		case ConnectionChain:
			s.Chains++
		case ConnectionSpecial:
			s.Specials++
		}
	}
	return s
}

func (l *Ledger) reset() {
	l.entries = nil
	l.juggling = false
	l.juggleHits = 0
	l.scaler.Reset()
	l.session.ResetComboScaling()
}

// classify decides how an extending hit connected. Cancels are detected from
// the phase the previous attack was in when the current one started: still
// ACTIVE, or within the final stretch of RECOVERY.
func (l *Ledger) classify(def *attack.Definition) Connection {
	during, progress := l.session.StartedDuring()
	if during == attack.PhaseActive || (during == attack.PhaseRecovery && progress <= cancelWindow) {
		return ConnectionCancel
	}

	prev := l.entries[len(l.entries)-1]
	if strength(def.Name) > strength(prev.Attack) && strength(prev.Attack) > 0 {
		return ConnectionChain
	}
	if l.SpecialClassifier != nil && l.SpecialClassifier(prev.Attack, def.Name) {
		return ConnectionSpecial
	}
	return ConnectionLink
}

// strength maps attack names onto the light < medium < heavy chain ordering
// by substring convention. Unrecognized names have no strength.
func strength(name string) int {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "heavy"):
		return 3
	case strings.Contains(lower, "medium"):
		return 2
	case strings.Contains(lower, "light"):
		return 1
	}
	return 0
}
