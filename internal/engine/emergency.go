package engine

import (
	"math"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region emergency

// checkEmergency scans raw signal values for override conditions. It runs
// before the scored path on every tick, including mid-transition. Two
// independent triggers: a rapid entropy excursion inside a short window, and
// extreme joint values on the current frame alone (so an extreme first frame
// fires immediately).
func (e *Engine) checkEmergency(frame signals.Frame) (mode.Mode, bool) {
	cfg := e.cfg.Emergency

	// Rapid excursion across the recent frame window.
	recent := e.window.Last(cfg.ExcursionSpan)
	if len(recent) >= 2 {
		first := recent[0]
		last := recent[len(recent)-1]
		span := last.At.Sub(first.At)
		delta := math.Abs(last.Entropy - first.Entropy)

		if delta > cfg.EntropyDelta && span > 0 && span < cfg.ExcursionWindow {
			switch {
			case last.Entropy > cfg.HighEntropy:
				return mode.Overwhelmed, true
			case last.Entropy > cfg.MidEntropy:
				return mode.Anxious, true
			case last.Entropy < cfg.LowEntropy:
				return mode.Calm, true
			}
		}
	}

	// Extreme joint values on the current frame.
	if frame.Entropy > cfg.JointHigh && frame.Heat > cfg.JointHigh {
		return mode.Overwhelmed, true
	}
	if frame.Scup > cfg.CalmScup && frame.Entropy < cfg.CalmLow && frame.Heat < cfg.CalmLow {
		return mode.Calm, true
	}

	return mode.Neutral, false
}

// #endregion emergency
