package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"

	"github.com/milk9111/versus"
	"github.com/milk9111/versus/attack"
	"github.com/milk9111/versus/chardata"
	"github.com/milk9111/versus/common"
	"github.com/milk9111/versus/guard"
)

var (
	flagTicks   int
	flagScriptA string
	flagScriptB string
	flagBlockA  bool
	flagBlockB  bool
	flagGap     float64
)

var runCmd = &cobra.Command{
	Use:   "run <a.yaml> <b.yaml>",
	Short: "Run a scripted exchange between two characters",
	Long: `Load two character files, place them in a match and drive a fixed
number of 60 Hz ticks, feeding each fighter a scripted input stream.

Scripts are comma-separated tick:symbol entries; join simultaneous presses
with '+'. Symbols: up down left right light medium heavy special1 special2.

Examples:
  fightsim run ryo.yaml ken.yaml --script-a 1:light,30:heavy
  fightsim run ryo.yaml ken.yaml --script-a 5:down,7:right+light --block-b`,
	Args: cobra.ExactArgs(2),
	Run:  runMatch,
}

func init() {
	runCmd.Flags().IntVar(&flagTicks, "ticks", 600, "Number of simulation ticks")
	runCmd.Flags().StringVar(&flagScriptA, "script-a", "", "Input script for fighter A")
	runCmd.Flags().StringVar(&flagScriptB, "script-b", "", "Input script for fighter B")
	runCmd.Flags().BoolVar(&flagBlockA, "block-a", false, "Fighter A holds back the whole match")
	runCmd.Flags().BoolVar(&flagBlockB, "block-b", false, "Fighter B holds back the whole match")
	runCmd.Flags().Float64Var(&flagGap, "gap", 60, "Starting distance between the fighters")
}

// simBody is a minimal physics stand-in: forces displace it directly and stun
// states only tick down a timer.
type simBody struct {
	pos    cp.Vector
	facing float64
	stunMs float64
}

func (b *simBody) IsGrounded() bool         { return true }
func (b *simBody) IsCrouching() bool        { return false }
func (b *simBody) Position() cp.Vector      { return b.pos }
func (b *simBody) FacingDirection() float64 { return b.facing }
func (b *simBody) ApplyForce(v cp.Vector)   { b.pos = b.pos.Add(v) }

func (b *simBody) SetState(kind guard.StunKind, durationMs float64) {
	b.stunMs = durationMs
	logger.Debug("stun", "kind", kind, "ms", fmt.Sprintf("%.0f", durationMs))
}

func (b *simBody) update(deltaMs float64) {
	if b.stunMs > 0 {
		b.stunMs -= deltaMs
	}
}

// scriptedInput replays tick-stamped presses, plus an optional permanent hold.
type scriptedInput struct {
	presses map[int][]attack.Symbol
	held    map[attack.Symbol]bool
	tick    int
}

func parseScript(script string, holdBack attack.Symbol) (*scriptedInput, error) {
	in := &scriptedInput{
		presses: map[int][]attack.Symbol{},
		held:    map[attack.Symbol]bool{},
	}
	if holdBack != "" {
		in.held[holdBack] = true
	}
	if script == "" {
		return in, nil
	}
	for _, entry := range strings.Split(script, ",") {
		tickStr, syms, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return nil, fmt.Errorf("script entry %q: want tick:symbol", entry)
		}
		tick, err := strconv.Atoi(tickStr)
		if err != nil || tick < 1 {
			return nil, fmt.Errorf("script entry %q: bad tick", entry)
		}
		for _, sym := range strings.Split(syms, "+") {
			in.presses[tick] = append(in.presses[tick], attack.Symbol(sym))
		}
	}
	return in, nil
}

func (in *scriptedInput) IsHeld(sym attack.Symbol) bool { return in.held[sym] }

func (in *scriptedInput) IsJustPressed(sym attack.Symbol) bool {
	for _, s := range in.presses[in.tick] {
		if s == sym {
			return true
		}
	}
	return false
}

// logAudio writes cue names to the debug log.
type logAudio struct {
	logger *log.Logger
}

func (a logAudio) Play(cue string) { a.logger.Debug("cue", "name", cue) }

// logUI reports combo and guard-meter changes.
type logUI struct {
	logger *log.Logger
	meters map[int]float64
}

func (u *logUI) ComboExtended(player, hits int) {
	u.logger.Info("combo", "player", player, "hits", hits)
}

func (u *logUI) ComboDropped(player int) {
	u.logger.Debug("combo dropped", "player", player)
}

func (u *logUI) GuardMeter(player int, fraction float64) {
	if u.meters[player] == fraction {
		return
	}
	u.meters[player] = fraction
	u.logger.Debug("guard meter", "player", player, "fraction", fmt.Sprintf("%.2f", fraction))
}

func runMatch(cmd *cobra.Command, args []string) {
	match := versus.NewMatch(logAudio{logger: logger}, &logUI{logger: logger, meters: map[int]float64{}})

	bodies := [2]*simBody{
		{facing: 1},
		{pos: cp.Vector{X: flagGap}, facing: -1},
	}
	inputs := [2]*scriptedInput{}
	fighters := [2]*versus.Fighter{}

	scripts := [2]string{flagScriptA, flagScriptB}
	blocks := [2]bool{flagBlockA, flagBlockB}
	for i, path := range args {
		spec, err := chardata.Load(path)
		if err != nil {
			logger.Fatal("load character", "file", path, "error", err)
		}
		defs, err := spec.BuildAttacks(filepath.Dir(path))
		if err != nil {
			logger.Fatal("build attacks", "file", path, "error", err)
		}

		holdBack := attack.Symbol("")
		if blocks[i] {
			// Back is away from the facing direction.
			holdBack = attack.SymLeft
			if bodies[i].facing < 0 {
				holdBack = attack.SymRight
			}
		}
		inputs[i], err = parseScript(scripts[i], holdBack)
		if err != nil {
			logger.Fatal("parse script", "fighter", spec.Name, "error", err)
		}

		fighters[i], err = match.Join(versus.FighterConfig{
			Name:    spec.Name,
			Attacks: defs,
			Guard:   spec.GuardConfig(),
			Scaling: spec.ScalingConfig(),
		}, bodies[i], inputs[i])
		if err != nil {
			logger.Fatal("join", "fighter", spec.Name, "error", err)
		}
		logger.Info("joined", "fighter", spec.Name, "attacks", len(defs))
	}

	for tick := 1; tick <= flagTicks; tick++ {
		for i := range inputs {
			inputs[i].tick = tick
			bodies[i].update(common.FrameMillis)
		}
		for _, r := range match.Update(common.FrameMillis) {
			logger.Info("strike",
				"tick", tick,
				"attacker", fighters[r.AttackerID-1].Name,
				"defender", fighters[r.DefenderID-1].Name,
				"attack", r.Attack,
				"damage", r.Damage,
				"raw", r.RawDamage,
				"blocked", r.Blocked,
			)
		}
	}

	for _, f := range fighters {
		stats := f.Ledger().Stats()
		logger.Info("final",
			"fighter", f.Name,
			"health", f.Health(),
			"guard", fmt.Sprintf("%.0f", f.Guard().Meter()),
			"combo_hits", stats.Hits,
			"combo_damage", stats.ScaledDamage,
		)
	}
}
