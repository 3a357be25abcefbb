// Package hooks compiles and runs optional per-attack on-hit scripts. A
// script declares an onHit function; it receives a hit map with the
// attacker and defender ids, attack name, damage values and combo length.
// Hook results are never awaited or inspected by the core.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/versus/attack"
)

// dispatchScript calls the user-declared onHit with the hit context bound by
// the runtime before each run.
const dispatchScript = `
onHit(__hit)
`

// Hook is a compiled on-hit script, compiled once at load time and safe to
// invoke every tick.
type Hook struct {
	name     string
	compiled *tengo.Compiled
}

// Compile builds a hook from source. The source must declare
// onHit := func(hit) { ... }.
func Compile(name, src string) (*Hook, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("hooks: %s: empty script", name)
	}

	script := tengo.NewScript([]byte(src + dispatchScript))
	script.SetImports(stdlib.GetModuleMap("math", "text", "fmt"))
	if err := script.Add("__hit", map[string]interface{}{}); err != nil {
		return nil, fmt.Errorf("hooks: %s: bind hit context: %w", name, err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("hooks: %s: compile: %w", name, err)
	}
	return &Hook{name: name, compiled: compiled}, nil
}

// CompileFile builds a hook from a script file.
func CompileFile(path string) (*Hook, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hooks: load %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Compile(name, string(src))
}

// Name returns the hook's name.
func (h *Hook) Name() string { return h.name }

// Invoke runs the script with the given hit context.
func (h *Hook) Invoke(ctx attack.HitContext) error {
	run := h.compiled.Clone()
	if err := run.Set("__hit", map[string]interface{}{
		"attacker":      ctx.AttackerID,
		"defender":      ctx.DefenderID,
		"attack":        ctx.Attack,
		"raw_damage":    ctx.RawDamage,
		"scaled_damage": ctx.ScaledDamage,
		"combo_length":  ctx.ComboLength,
	}); err != nil {
		return fmt.Errorf("hooks: %s: set hit context: %w", h.name, err)
	}
	if err := run.Run(); err != nil {
		return fmt.Errorf("hooks: %s: run: %w", h.name, err)
	}
	return nil
}

// Bind adapts the hook to the attack definition's fire-and-forget hook slot,
// discarding errors the way the core discards every collaborator result.
func (h *Hook) Bind() attack.HookFunc {
	return func(ctx attack.HitContext) {
		_ = h.Invoke(ctx)
	}
}
