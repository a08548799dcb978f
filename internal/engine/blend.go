package engine

import "github.com/danielpatrickdp/modeshift/internal/mode"

// #region easing

// easeInOutCubic maps linear progress to a smooth S-curve: slow start, fast
// middle, slow finish. t is assumed clamped to [0, 1].
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	p := 2*t - 2
	return 1 + p*p*p/2
}

// lerp interpolates start→end at t.
func lerp(start, end, t float64) float64 {
	return start + (end-start)*t
}

// #endregion easing

// #region blend

// blendVector interpolates every profile property between the from and to
// vectors at the given eased progress.
func blendVector(from, to mode.Vector, eased float64) mode.Vector {
	return mode.Vector{
		Scup:          lerp(from.Scup, to.Scup, eased),
		Entropy:       lerp(from.Entropy, to.Entropy, eased),
		Heat:          lerp(from.Heat, to.Heat, eased),
		Stability:     lerp(from.Stability, to.Stability, eased),
		Energy:        lerp(from.Energy, to.Energy, eased),
		Creativity:    lerp(from.Creativity, to.Creativity, eased),
		Introspection: lerp(from.Introspection, to.Introspection, eased),
	}
}

// #endregion blend
