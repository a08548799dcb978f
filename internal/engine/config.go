package engine

import (
	"time"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/scoring"
)

// #region emergency-config

// EmergencyConfig tunes the override detector that bypasses scored decisions.
type EmergencyConfig struct {
	EntropyDelta    float64       // excursion size that counts as rapid
	ExcursionWindow time.Duration // excursion must happen inside this window
	ExcursionSpan   int           // how many recent frames to examine

	HighEntropy float64 // excursion ending above this → Overwhelmed
	MidEntropy  float64 // excursion ending above this → Anxious
	LowEntropy  float64 // excursion ending below this → Calm

	JointHigh float64 // entropy AND heat above this → Overwhelmed
	CalmScup  float64 // scup above this with entropy and heat below CalmLow → Calm
	CalmLow   float64
}

// DefaultEmergencyConfig returns the tuned defaults.
func DefaultEmergencyConfig() EmergencyConfig {
	return EmergencyConfig{
		EntropyDelta:    0.5,
		ExcursionWindow: 3 * time.Second,
		ExcursionSpan:   5,
		HighEntropy:     0.8,
		MidEntropy:      0.6,
		LowEntropy:      0.3,
		JointHigh:       0.9,
		CalmScup:        0.9,
		CalmLow:         0.2,
	}
}

// #endregion emergency-config

// #region config

// Config bundles every tunable of the engine. All values are configuration
// defaults rather than derived constants; none are assumed optimal.
type Config struct {
	Initial mode.Mode
	Table   mode.Table

	// Scoring weights.
	MetricWeight  float64
	InertiaWeight float64
	PatternWeight float64

	// Transition timing bounds. Emergencies always use MinDuration.
	MinDuration time.Duration
	MaxDuration time.Duration

	// Acceptance probability shaping. The clamp guarantees eventual escape
	// from any mode and keeps the ordinary path non-deterministic.
	MinProbability   float64
	MaxProbability   float64
	ProbabilitySlope float64
	InertiaDamping   float64

	// Trigger-reason thresholds (logging only).
	PatternReasonBias float64
	LowInertia        float64

	// Ring capacities.
	HistorySize  int
	MomentumSize int
	FrameWindow  int

	Momentum  scoring.MomentumConfig
	Inertia   scoring.InertiaConfig
	Pattern   scoring.PatternConfig
	Emergency EmergencyConfig

	Clock   Clock
	Sampler Sampler
}

// DefaultConfig returns a fully populated configuration with a system clock
// and a time-seeded sampler.
func DefaultConfig() Config {
	return Config{
		Initial: mode.Neutral,
		Table:   mode.DefaultTable(),

		MetricWeight:  0.4,
		InertiaWeight: 0.4,
		PatternWeight: 0.2,

		MinDuration: 2 * time.Second,
		MaxDuration: 5 * time.Second,

		MinProbability:   0.05,
		MaxProbability:   0.95,
		ProbabilitySlope: 4.0,
		InertiaDamping:   0.6,

		PatternReasonBias: 0.3,
		LowInertia:        0.3,

		HistorySize:  100,
		MomentumSize: 10,
		FrameWindow:  20,

		Momentum:  scoring.DefaultMomentumConfig(),
		Inertia:   scoring.DefaultInertiaConfig(),
		Pattern:   scoring.DefaultPatternConfig(),
		Emergency: DefaultEmergencyConfig(),

		Clock:   SystemClock(),
		Sampler: NewSampler(time.Now().UnixNano()),
	}
}

// #endregion config
