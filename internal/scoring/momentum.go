package scoring

import (
	"time"

	"github.com/danielpatrickdp/modeshift/internal/mode"
)

// #region momentum

// TransitionEvent is the slice of a transition record that momentum cares
// about: which modes were involved and when the transition committed.
type TransitionEvent struct {
	From mode.Mode
	To   mode.Mode
	At   time.Time
}

// Momentum computes the decaying measure of recent transition activity.
// Each event younger than the window contributes (1/max(age_s, 1)) times the
// larger momentum weight of its two modes; the sum is normalized by the
// divisor and clamped to [0, 1]. Empty history yields 0.
func Momentum(events []TransitionEvent, now time.Time, table mode.Table, cfg MomentumConfig) float64 {
	if len(events) == 0 {
		return 0
	}

	var total float64
	for _, ev := range events {
		age := now.Sub(ev.At)
		if age > cfg.Window {
			continue
		}

		weight := table.Weight(ev.From)
		if w := table.Weight(ev.To); w > weight {
			weight = w
		}

		ageSeconds := age.Seconds()
		if ageSeconds < 1 {
			ageSeconds = 1 // floor prevents a just-committed transition from dominating
		}
		total += weight / ageSeconds
	}

	m := total / cfg.Divisor
	if m > 1 {
		m = 1
	}
	if m < 0 {
		m = 0
	}
	return m
}

// #endregion momentum
