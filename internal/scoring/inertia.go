package scoring

import "time"

// #region inertia

// Inertia computes resistance to leaving the current mode. Long residency
// raises it (linearly, capped), momentum erodes it. The result is always in
// [0.1, 1.0]: long-resident low-momentum modes are hardest to leave,
// recently volatile ones easiest.
func Inertia(timeInMode time.Duration, momentum float64, cfg InertiaConfig) float64 {
	inertia := cfg.Base

	if timeInMode > cfg.ProlongedAfter && cfg.ProlongedAfter > 0 {
		bonus := (timeInMode - cfg.ProlongedAfter).Seconds() / cfg.ProlongedAfter.Seconds() * cfg.MaxBonus
		if bonus > cfg.MaxBonus {
			bonus = cfg.MaxBonus
		}
		inertia += bonus
	}

	inertia *= 1.0 - momentum*cfg.MomentumPenalty

	if inertia < 0.1 {
		return 0.1
	}
	if inertia > 1.0 {
		return 1.0
	}
	return inertia
}

// #endregion inertia
