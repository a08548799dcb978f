package scoring

import "time"

// #region momentum-config

// MomentumConfig tunes the decaying "desire to change" signal.
type MomentumConfig struct {
	Window  time.Duration // transitions older than this contribute nothing
	Divisor float64       // normalizes the summed contributions
}

// DefaultMomentumConfig returns the tuned defaults. The divisor is a manual
// normalization constant, not a derived value.
func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		Window:  5 * time.Minute,
		Divisor: 10.0,
	}
}

// #endregion momentum-config

// #region inertia-config

// InertiaConfig tunes resistance to leaving the current mode.
type InertiaConfig struct {
	Base            float64       // starting inertia before adjustments
	ProlongedAfter  time.Duration // time-in-mode before the bonus kicks in
	MaxBonus        float64       // cap on the prolonged-residency bonus
	MomentumPenalty float64       // how strongly momentum erodes inertia
}

// DefaultInertiaConfig returns the tuned defaults.
func DefaultInertiaConfig() InertiaConfig {
	return InertiaConfig{
		Base:            0.5,
		ProlongedAfter:  10 * time.Minute,
		MaxBonus:        0.4,
		MomentumPenalty: 0.3,
	}
}

// #endregion inertia-config

// #region pattern-config

// PatternConfig tunes the externally fed pattern influence and the
// anti-repetition diversity bias.
type PatternConfig struct {
	HighConfidence    float64 // confidence above this biases exploratory modes
	CuriousBias       float64
	CreativeBias      float64
	AnxiousBias       float64 // applied when the trigger flag is set
	ContemplativeBias float64
	HistorySpan       int     // how many recent modes to examine
	DominanceRun      int     // occurrences within the span that count as stuck
	DiversityBias     float64 // bias added to every non-dominant mode
}

// DefaultPatternConfig returns the tuned defaults.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		HighConfidence:    0.8,
		CuriousBias:       0.7,
		CreativeBias:      0.5,
		AnxiousBias:       0.6,
		ContemplativeBias: 0.4,
		HistorySpan:       5,
		DominanceRun:      4,
		DiversityBias:     0.3,
	}
}

// #endregion pattern-config
