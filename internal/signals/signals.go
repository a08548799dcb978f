package signals

import "time"

// #region frame

// Frame is one snapshot of the engine's named input metrics. Values are
// expected in [0, 1] but not guaranteed; the engine clamps rather than
// rejects, so a noisy source never breaks the decision path.
type Frame struct {
	Scup    float64   `json:"scup"`
	Entropy float64   `json:"entropy"`
	Heat    float64   `json:"heat"`
	At      time.Time `json:"at"`
}

// Clamped returns a copy of the frame with every metric forced into [0, 1].
func (f Frame) Clamped() Frame {
	f.Scup = clamp01(f.Scup)
	f.Entropy = clamp01(f.Entropy)
	f.Heat = clamp01(f.Heat)
	return f
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion frame
