package attack

// InputSource is the host's abstracted input device. The core never binds
// keys or gamepads; it only asks about the closed symbol vocabulary.
type InputSource interface {
	IsHeld(sym Symbol) bool
	IsJustPressed(sym Symbol) bool
}

// inputRetentionMs bounds the rolling input log used for special-move
// matching.
const inputRetentionMs = 1000.0

type inputEvent struct {
	sym Symbol
	at  float64
}

// captureOrder fixes the per-tick recording order: directions before
// buttons, so a direction and a button pressed together match sequences
// that end on the button.
var captureOrder = []Symbol{
	SymUp, SymDown, SymLeft, SymRight,
	SymLight, SymMedium, SymHeavy,
	SymSpecial1, SymSpecial2,
}

// RecordInput appends one symbol to the rolling log, tagged with the session
// clock.
func (s *Session) RecordInput(sym Symbol) {
	s.inputLog = append(s.inputLog, inputEvent{sym: sym, at: s.clock})
}

// InputLog returns the symbols currently retained, oldest first.
func (s *Session) InputLog() []Symbol {
	out := make([]Symbol, len(s.inputLog))
	for i, ev := range s.inputLog {
		out[i] = ev.sym
	}
	return out
}

// HandleInput runs the per-tick input half of the state machine: capture
// just-pressed symbols (synthesizing diagonals), then try special-move
// sequences, then plain button attacks. Sequences win over buttons in the
// same tick. Returns the attack that started, or nil.
func (s *Session) HandleInput(in InputSource) *Definition {
	if in == nil {
		return nil
	}
	s.captureInputs(in)

	if def := s.matchSequence(); def != nil {
		if s.TryStart(def) {
			return def
		}
	}
	return s.startButtonAttack(in)
}

func (s *Session) captureInputs(in InputSource) {
	// Diagonals are synthesized from a fresh edge on either component while
	// the other is held. A diagonal consumes its component directions for
	// the tick, the way a stick position would.
	consumed := map[Symbol]bool{}
	if diagonalEdge(in, SymDown, SymLeft) {
		s.RecordInput(SymDownLeft)
		consumed[SymDown], consumed[SymLeft] = true, true
	}
	if diagonalEdge(in, SymDown, SymRight) {
		s.RecordInput(SymDownRight)
		consumed[SymDown], consumed[SymRight] = true, true
	}

	for _, sym := range captureOrder {
		if consumed[sym] {
			continue
		}
		if in.IsJustPressed(sym) {
			s.RecordInput(sym)
		}
	}
}

func diagonalEdge(in InputSource, a, b Symbol) bool {
	if in.IsJustPressed(a) && (in.IsHeld(b) || in.IsJustPressed(b)) {
		return true
	}
	return in.IsJustPressed(b) && in.IsHeld(a)
}

// matchSequence finds the first registered attack whose input sequence is
// satisfied by the most recent log entries: the last N symbols must equal
// the sequence in exact order and span no more than the declared window.
func (s *Session) matchSequence() *Definition {
	for _, def := range s.order {
		if def.Sequence == nil {
			continue
		}
		n := len(def.Sequence.Symbols)
		if n == 0 || len(s.inputLog) < n {
			continue
		}
		tail := s.inputLog[len(s.inputLog)-n:]
		matched := true
		for i, want := range def.Sequence.Symbols {
			if tail[i].sym != want {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if tail[n-1].at-tail[0].at > def.Sequence.WindowMs {
			continue
		}
		return def
	}
	return nil
}

// startButtonAttack maps a just-pressed strength button to an attack class
// and starts the best candidate: an exact eligibility match for the current
// airborne/crouch state if one exists, else the first registered attack of
// that class.
func (s *Session) startButtonAttack(in InputSource) *Definition {
	var class Class
	switch {
	case in.IsJustPressed(SymLight):
		class = ClassLight
	case in.IsJustPressed(SymMedium):
		class = ClassMedium
	case in.IsJustPressed(SymHeavy):
		class = ClassHeavy
	default:
		return nil
	}

	airborne := !s.stance.IsGrounded()
	crouching := s.stance.IsCrouching()

	var fallback *Definition
	for _, def := range s.order {
		if def.Class != class || def.Sequence != nil {
			continue
		}
		if fallback == nil {
			fallback = def
		}
		if def.Airborne == airborne && def.Crouchable == crouching {
			if s.TryStart(def) {
				return def
			}
			return nil
		}
	}
	if fallback != nil && s.TryStart(fallback) {
		return fallback
	}
	return nil
}

func (s *Session) pruneInputs() {
	cutoff := s.clock - inputRetentionMs
	keep := s.inputLog[:0]
	for _, ev := range s.inputLog {
		if ev.at >= cutoff {
			keep = append(keep, ev)
		}
	}
	s.inputLog = keep
}
