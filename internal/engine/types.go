package engine

import (
	"time"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region reason

// Reason categorizes what drove a committed transition. Used for the journal
// and metrics only; it never feeds back into control flow.
type Reason string

const (
	ReasonMetricDriven      Reason = "metric_driven"
	ReasonPatternInfluenced Reason = "pattern_influenced"
	ReasonMomentumChange    Reason = "momentum_change"
	ReasonGradualEvolution  Reason = "gradual_evolution"
	ReasonEmergency         Reason = "emergency"
)

// #endregion reason

// #region record

// Record is the immutable log entry for one committed transition.
type Record struct {
	ID          string
	From        mode.Mode
	To          mode.Mode
	At          time.Time
	Duration    time.Duration
	Reason      Reason
	Frame       signals.Frame // input snapshot at commit time
	Probability float64
	Momentum    float64
	Inertia     float64
	PatternBias float64
	IsEmergency bool
}

// #endregion record

// #region progress

// Progress reports the state of the (at most one) live transition. When
// InTransition is false the engine is stable and Blended holds the current
// mode's full property vector.
type Progress struct {
	InTransition bool
	IsEmergency  bool
	From         mode.Mode
	To           mode.Mode
	StartedAt    time.Time
	Duration     time.Duration
	Fraction     float64 // [0, 1]
	Blended      mode.Vector
}

// #endregion progress

// #region info

// Info is the point-in-time query snapshot returned by Engine.Info.
type Info struct {
	Mode         mode.Mode
	TimeInMode   time.Duration
	InTransition bool
	Progress     float64
	Momentum     float64
	Inertia      float64
}

// #endregion info

// #region stats

// Stats aggregates the in-memory transition history.
type Stats struct {
	TotalTransitions  int
	Emergencies       int
	CountsByPair      map[string]int // "from→to"
	AvgDurationByFrom map[mode.Mode]time.Duration
	Momentum          float64
	Inertia           float64
}

// #endregion stats
