package attack

import (
	"fmt"

	"github.com/milk9111/versus/common"
)

// Phase is the lifecycle stage of the active attack.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStartup
	PhaseActive
	PhaseRecovery
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStartup:
		return "startup"
	case PhaseActive:
		return "active"
	case PhaseRecovery:
		return "recovery"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Stance reports the ground/crouch state the eligibility flags check against.
type Stance interface {
	IsGrounded() bool
	IsCrouching() bool
}

// PhaseListener receives a notification on every phase transition.
type PhaseListener func(def *Definition, from, to Phase)

// Session is the per-character attack phase state machine. Phase transitions
// are the only legal mutation of the attack lifecycle; everything advances
// inside the host's simulation tick.
type Session struct {
	stance Stance

	byName map[string]*Definition
	order  []*Definition

	current   *Definition
	phase     Phase
	remaining float64
	total     float64

	// Phase and progress of whatever the current attack replaced at start
	// time; the combo ledger reads these to classify cancels.
	startedDuring   Phase
	startedProgress float64

	clock    float64
	inputLog []inputEvent

	listeners []PhaseListener

	// Vestigial combo bookkeeping kept for hosts that still read it. The
	// combo ledger is the source of truth and resets these; nothing in this
	// package reads them back.
	LegacyComboHits int
	LegacyScale     float64
}

func NewSession(stance Stance) *Session {
	return &Session{
		stance:      stance,
		byName:      make(map[string]*Definition),
		phase:       PhaseIdle,
		LegacyScale: 1,
	}
}

// Register adds an attack to the character's move list. Registration order
// decides selection priority for both sequences and button fallbacks.
func (s *Session) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, ok := s.byName[def.Name]; ok {
		return fmt.Errorf("attack: register %s: already registered", def.Name)
	}
	s.byName[def.Name] = def
	s.order = append(s.order, def)
	return nil
}

// ByName looks an attack up. The false result is the caller's signal for an
// unknown reference; it is never fatal.
func (s *Session) ByName(name string) (*Definition, bool) {
	def, ok := s.byName[name]
	return def, ok
}

// Current returns the active attack, or nil when idle.
func (s *Session) Current() *Definition { return s.current }

// Phase returns the current lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Idle reports whether no attack is in progress.
func (s *Session) Idle() bool { return s.current == nil }

// Progress reports remaining-time over phase-total: 1.0 at phase entry
// decaying to 0.0. The combo ledger uses it to detect late-recovery cancels.
func (s *Session) Progress() float64 {
	if s.total <= 0 {
		return 0
	}
	return s.remaining / s.total
}

// StartedDuring returns the phase the previous attack was in when the
// current one was accepted, and that phase's progress at the time.
func (s *Session) StartedDuring() (Phase, float64) {
	return s.startedDuring, s.startedProgress
}

// AddListener subscribes to phase-change notifications.
func (s *Session) AddListener(l PhaseListener) {
	s.listeners = append(s.listeners, l)
}

// TryStart begins an attack. It is rejected when another attack is in
// progress and not cancelable, when the attack is airborne-only and the
// character is grounded, or when the character is crouching and the attack
// is not crouch-compatible. Rejection is a normal negative result.
func (s *Session) TryStart(def *Definition) bool {
	if def == nil {
		return false
	}
	if s.current != nil && !s.current.Cancelable {
		return false
	}
	if def.Airborne && s.stance.IsGrounded() {
		return false
	}
	if s.stance.IsCrouching() && !def.Crouchable {
		return false
	}

	s.startedDuring = PhaseIdle
	s.startedProgress = 0
	if s.current != nil {
		s.startedDuring = s.phase
		s.startedProgress = s.Progress()
	}

	s.current = def
	s.enterPhase(PhaseStartup)
	return true
}

// Interrupt forces the attack to COMPLETED immediately, used when the owner
// is hit. It takes effect synchronously.
func (s *Session) Interrupt() {
	if s.current == nil {
		return
	}
	s.enterPhase(PhaseCompleted)
}

// Advance moves the phase timer by deltaMs, walking through as many phase
// boundaries as the delta covers and emitting a notification at each. It
// also advances the session clock and prunes the input log.
func (s *Session) Advance(deltaMs float64) {
	s.clock += deltaMs
	s.pruneInputs()

	if s.current == nil {
		return
	}
	s.remaining -= deltaMs
	for s.current != nil && s.remaining <= 0 {
		carry := -s.remaining
		switch s.phase {
		case PhaseStartup:
			s.enterPhase(PhaseActive)
		case PhaseActive:
			s.enterPhase(PhaseRecovery)
		case PhaseRecovery:
			s.enterPhase(PhaseCompleted)
		default:
			return
		}
		s.remaining -= carry
	}
}

// ResetComboScaling clears the vestigial combo counters. Called by the combo
// ledger whenever a combo ends.
func (s *Session) ResetComboScaling() {
	s.LegacyComboHits = 0
	s.LegacyScale = 1
}

// NoteComboHit bumps the vestigial counters. Write-only compatibility data.
func (s *Session) NoteComboHit() {
	s.LegacyComboHits++
	s.LegacyScale *= 0.9
}

func (s *Session) enterPhase(p Phase) {
	from := s.phase
	def := s.current
	s.phase = p

	frames := 0
	switch p {
	case PhaseStartup:
		frames = def.StartupFrames
	case PhaseActive:
		frames = def.ActiveFrames
	case PhaseRecovery:
		frames = def.RecoveryFrames
	}
	s.total = common.FramesToMillis(frames)
	s.remaining = s.total

	if p == PhaseCompleted {
		s.current = nil
		s.total = 0
		s.remaining = 0
	}

	for _, l := range s.listeners {
		l(def, from, p)
	}
}
