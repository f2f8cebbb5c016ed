package classify

import (
	"fmt"

	"github.com/nao1215/psvident/internal/model"
)

// Signals holds the boolean capability probes read from the kernel.
type Signals struct {
	// Retail is the CEX probe.
	Retail bool
	// Dev is the DEX probe.
	Dev bool
	// Tool is the factory tool probe.
	Tool bool
	// IDU is the in-store demo unit probe.
	IDU bool
	// ShowMode is the show mode probe.
	ShowMode bool
}

// DebugProbe looks up the debug_mode registry key.
// Only the presence of the key matters; the value is ignored.
type DebugProbe func() (int, error)

// TieBreak selects which probe combinations are treated as spoofed.
type TieBreak int

const (
	// TieBreakBothSet treats only Retail && Dev as spoofed. Units reporting
	// neither fall through to the tool and error checks.
	TieBreakBothSet TieBreak = iota
	// TieBreakAgree treats any Retail == Dev as spoofed, including units
	// reporting neither. This is how PSVident 0.26 behaves; such units never
	// classify as Tool.
	TieBreakAgree
)

// String returns the configuration name of the tie break.
func (t TieBreak) String() string {
	if t == TieBreakAgree {
		return "agree"
	}
	return "both_set"
}

// ParseTieBreak returns the tie break named s.
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "both_set":
		return TieBreakBothSet, nil
	case "agree":
		return TieBreakAgree, nil
	default:
		return TieBreakBothSet, fmt.Errorf("%w: %q", ErrUnknownTieBreak, s)
	}
}

// tier is the branch of the decision the signals fall into.
type tier int

const (
	// consistentTier is used when the Retail and Dev probes can be trusted.
	consistentTier tier = iota
	// spoofedTier is used when Retail and Dev agree, which a real unit
	// never reports. The debug probe breaks the tie.
	spoofedTier
)

// selectTier picks the tier for s.
func (t TieBreak) selectTier(s Signals) tier {
	if s.Retail != s.Dev {
		return consistentTier
	}
	if s.Retail || t == TieBreakAgree {
		return spoofedTier
	}
	return consistentTier
}

// ClassifyMode reconciles the capability probes into one mode using
// TieBreakBothSet.
func ClassifyMode(s Signals, debug DebugProbe) model.DeviceMode {
	return TieBreakBothSet.ClassifyMode(s, debug)
}

// ClassifyMode reconciles the capability probes into one mode.
// debug is consulted only in the spoofed tier; a nil debug counts as a
// failed lookup.
func (t TieBreak) ClassifyMode(s Signals, debug DebugProbe) model.DeviceMode {
	if t.selectTier(s) == spoofedTier {
		return classifySpoofed(s, debug)
	}
	return classifyConsistent(s)
}

// classifySpoofed handles Retail == Dev. A readable debug_mode key means
// the unit carries a debug registry and is some kind of test or dev kit.
func classifySpoofed(s Signals, debug DebugProbe) model.DeviceMode {
	if debug != nil {
		if _, err := debug(); err == nil {
			return model.ModeTestOrDevUndetermined
		}
	}
	return retailMode(s.IDU)
}

// classifyConsistent handles the case where the probes can be trusted.
func classifyConsistent(s Signals) model.DeviceMode {
	switch {
	case s.Retail:
		return retailMode(s.IDU)
	case s.Dev:
		if s.ShowMode {
			return model.ModeDevKitShowMode
		}
		return model.ModeDevKit
	case s.Tool:
		return model.ModeTool
	default:
		return model.ModeError
	}
}

func retailMode(idu bool) model.DeviceMode {
	if idu {
		return model.ModeRetailIDU
	}
	return model.ModeRetail
}
