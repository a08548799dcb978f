package scoring

import "github.com/danielpatrickdp/modeshift/internal/mode"

// #region hint

// Hint is an externally supplied pattern-detection signal. The engine never
// requires one; a nil hint means zero influence.
type Hint struct {
	Confidence float64 `json:"confidence"`
	Trigger    bool    `json:"trigger"` // detector is asking for a change of mode
}

// #endregion hint

// #region pattern-influence

// PatternInfluence produces a sparse additive bias map from the optional
// pattern hint and the recently observed modes. High-confidence patterns
// bias exploratory modes; a trigger flag biases the change-reaction modes;
// a mode dominating the recent history biases every other mode. Absent or
// partial input degrades to zero influence, never an error.
func PatternInfluence(hint *Hint, recent []mode.Mode, table mode.Table, cfg PatternConfig) map[mode.Mode]float64 {
	influence := make(map[mode.Mode]float64)

	if hint != nil {
		if hint.Confidence > cfg.HighConfidence {
			influence[mode.Curious] += cfg.CuriousBias
			influence[mode.Creative] += cfg.CreativeBias
		} else if hint.Trigger {
			influence[mode.Anxious] += cfg.AnxiousBias
			influence[mode.Contemplative] += cfg.ContemplativeBias
		}
	}

	if len(recent) >= cfg.HistorySpan && cfg.HistorySpan > 0 {
		span := recent[len(recent)-cfg.HistorySpan:]
		counts := make(map[mode.Mode]int, len(span))
		for _, m := range span {
			counts[m]++
		}

		dominant := span[0]
		for m, c := range counts {
			if c > counts[dominant] {
				dominant = m
			}
		}

		// Stuck in one mode: nudge everything else.
		if counts[dominant] >= cfg.DominanceRun {
			for m := range table.Profiles {
				if m != dominant {
					influence[m] += cfg.DiversityBias
				}
			}
		}
	}

	return influence
}

// #endregion pattern-influence
