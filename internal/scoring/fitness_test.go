package scoring

import (
	"testing"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

func TestFitnessBounds(t *testing.T) {
	table := mode.DefaultTable()
	frames := []signals.Frame{
		{Scup: 0.5, Entropy: 0.5, Heat: 0.5},
		{Scup: 0, Entropy: 0, Heat: 0},
		{Scup: 1, Entropy: 1, Heat: 1},
		{Scup: -2.0, Entropy: 3.5, Heat: 0.4}, // out-of-range must be tolerated
	}
	for _, f := range frames {
		scores := Fitness(f, table)
		if len(scores) != len(table.Profiles) {
			t.Fatalf("expected a score per mode, got %d", len(scores))
		}
		for m, s := range scores {
			if s < 0 || s > 1 {
				t.Fatalf("frame %+v: fitness for %s out of [0,1]: %f", f, m, s)
			}
		}
	}
}

func TestFitnessPerfectMatch(t *testing.T) {
	table := mode.DefaultTable()
	p := table.Profiles[mode.Calm]
	f := signals.Frame{Scup: p.OptimalScup, Entropy: p.OptimalEntropy, Heat: p.OptimalHeat}

	scores := Fitness(f, table)
	if scores[mode.Calm] != 1.0 {
		t.Fatalf("expected fitness 1.0 for exact match, got %f", scores[mode.Calm])
	}
	for m, s := range scores {
		if m != mode.Calm && s > scores[mode.Calm] {
			t.Fatalf("%s outscored the exact match: %f", m, s)
		}
	}
}

func TestFitnessCalmScenario(t *testing.T) {
	// High scup, low entropy, low heat should fit the calm profile best.
	scores := Fitness(signals.Frame{Scup: 0.9, Entropy: 0.2, Heat: 0.1}, mode.DefaultTable())

	best := mode.Neutral
	for _, m := range mode.All() {
		if scores[m] > scores[best] {
			best = m
		}
	}
	if best != mode.Calm {
		t.Fatalf("expected calm to score highest, got %s (%.3f vs calm %.3f)", best, scores[best], scores[mode.Calm])
	}
}
