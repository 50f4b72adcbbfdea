package garden

import (
	"context"
	"fmt"
	"strings"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
)

// Command is a keyboard action.
type Command int

const (
	// CmdNone is an unbound key.
	CmdNone Command = iota
	// CmdRegenerate runs synthesis with the current inspiration.
	CmdRegenerate
	// CmdScaleUp nudges Flower scale up by one step.
	CmdScaleUp
	// CmdScaleDown nudges Flower scale down by one step.
	CmdScaleDown
)

// ParseKey maps a key name to its command. Names follow the terminal key
// naming used by bubbletea ("space", " ", "r", "up", "down").
func ParseKey(key string) Command {
	switch strings.ToLower(key) {
	case " ", "space", "r":
		return CmdRegenerate
	case "up", "arrowup":
		return CmdScaleUp
	case "down", "arrowdown":
		return CmdScaleDown
	default:
		return CmdNone
	}
}

// HandleKey runs the command bound to key. Scale nudges and regeneration
// always act on the Flower, whatever variant is displayed.
//
// # Outputs
//
//   - dna.Record: the Flower after the command.
//   - bool: false when the key is unbound.
//   - error: from synthesis or the store.
func (g *Garden) HandleKey(ctx context.Context, key string) (dna.Record, bool, error) {
	switch ParseKey(key) {
	case CmdRegenerate:
		rec, err := g.Regenerate(ctx)
		return rec, true, err
	case CmdScaleUp:
		rec, err := g.flower.Nudge("scale", g.cfg.NudgeStep, g.cfg.ScaleMin, g.cfg.ScaleMax)
		return rec, true, err
	case CmdScaleDown:
		rec, err := g.flower.Nudge("scale", -g.cfg.NudgeStep, g.cfg.ScaleMin, g.cfg.ScaleMax)
		return rec, true, err
	default:
		return nil, false, nil
	}
}

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdRegenerate:
		return "regenerate"
	case CmdScaleUp:
		return "scale-up"
	case CmdScaleDown:
		return "scale-down"
	case CmdNone:
		return "none"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}
