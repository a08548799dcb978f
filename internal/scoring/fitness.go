package scoring

import (
	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region fitness

// Fitness scores how well a signal frame matches each mode's optimal vector:
// 1 - mean(|signal - optimal|) per mode, floored at 0. Pure function of
// (frame, table); out-of-range input is clamped, never rejected.
func Fitness(frame signals.Frame, table mode.Table) map[mode.Mode]float64 {
	f := frame.Clamped()
	scores := make(map[mode.Mode]float64, len(table.Profiles))

	for m, p := range table.Profiles {
		scupFit := 1.0 - abs(f.Scup-p.OptimalScup)
		entropyFit := 1.0 - abs(f.Entropy-p.OptimalEntropy)
		heatFit := 1.0 - abs(f.Heat-p.OptimalHeat)

		fit := (scupFit + entropyFit + heatFit) / 3.0
		if fit < 0 {
			fit = 0
		}
		scores[m] = fit
	}
	return scores
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// #endregion fitness
