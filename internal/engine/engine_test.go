package engine

import (
	"testing"
	"time"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/scoring"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// testClock is a manually advanced clock.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

// fixedSampler always returns the same draw. 0 accepts every transition
// (every p is at least the floor); values at or above the ceiling decline.
type fixedSampler struct{ v float64 }

func (s fixedSampler) Float64() float64 { return s.v }

func testBase() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *testClock) {
	t.Helper()
	clk := &testClock{now: testBase()}
	cfg := DefaultConfig()
	cfg.Clock = clk
	cfg.Sampler = fixedSampler{v: 0.999} // decline by default; tests override
	if mutate != nil {
		mutate(&cfg)
	}
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, clk
}

func neutralFrame() signals.Frame {
	p := mode.DefaultTable().Profiles[mode.Neutral]
	return signals.Frame{Scup: p.OptimalScup, Entropy: p.OptimalEntropy, Heat: p.OptimalHeat}
}

func TestNewRejectsBadTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table = mode.Table{}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected construction to fail on an empty table")
	}
}

func TestStayInCurrentModeWritesNoRecord(t *testing.T) {
	eng, clk := newTestEngine(t, nil)

	for i := 0; i < 20; i++ {
		clk.now = clk.now.Add(time.Second)
		got, prog := eng.Decide(neutralFrame(), nil, nil)
		if got != mode.Neutral {
			t.Fatalf("tick %d: expected to stay neutral, got %s", i, got)
		}
		if prog.InTransition {
			t.Fatalf("tick %d: unexpected transition in progress", i)
		}
	}
	if n := len(eng.RecentTransitions(100)); n != 0 {
		t.Fatalf("expected no transition records, got %d", n)
	}
}

func TestDeclinedDrawWritesNoRecord(t *testing.T) {
	// Signals strongly favor calm, but the sampler declines every draw.
	eng, clk := newTestEngine(t, nil)
	frame := signals.Frame{Scup: 0.9, Entropy: 0.2, Heat: 0.1}

	for i := 0; i < 10; i++ {
		clk.now = clk.now.Add(time.Second)
		got, prog := eng.Decide(frame, nil, nil)
		if got != mode.Neutral || prog.InTransition {
			t.Fatalf("tick %d: declined draw must keep current mode, got %s", i, got)
		}
	}
	if n := len(eng.RecentTransitions(100)); n != 0 {
		t.Fatalf("declined draws must not write records, got %d", n)
	}
}

func TestCalmScenarioScoresHighest(t *testing.T) {
	// From a low-stability current mode, high scup with low entropy and heat
	// must select the calm mode.
	eng, clk := newTestEngine(t, func(cfg *Config) {
		cfg.Initial = mode.Anxious
		cfg.Sampler = fixedSampler{v: 0} // always accept
	})
	clk.now = clk.now.Add(time.Second)

	got, prog := eng.Decide(signals.Frame{Scup: 0.9, Entropy: 0.2, Heat: 0.1}, nil, nil)
	if got != mode.Calm {
		t.Fatalf("expected calm, got %s", got)
	}
	if !prog.InTransition || prog.IsEmergency {
		t.Fatalf("expected an ordinary transition, got %+v", prog)
	}

	recs := eng.RecentTransitions(1)
	if len(recs) != 1 || recs[0].From != mode.Anxious || recs[0].To != mode.Calm {
		t.Fatalf("unexpected record: %+v", recs)
	}
}

func TestEmergencyJointExtremes(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	// Both joint-extreme thresholds exceeded: single-call emergency.
	got, prog := eng.Decide(signals.Frame{Scup: 0.3, Entropy: 0.95, Heat: 0.95}, nil, nil)
	if got != mode.Overwhelmed {
		t.Fatalf("expected overwhelmed, got %s", got)
	}
	if !prog.InTransition || !prog.IsEmergency {
		t.Fatalf("expected emergency transition, got %+v", prog)
	}
	if prog.Duration != eng.cfg.MinDuration {
		t.Fatalf("emergency must use minimum duration, got %s", prog.Duration)
	}

	recs := eng.RecentTransitions(1)
	if len(recs) != 1 || !recs[0].IsEmergency || recs[0].Reason != ReasonEmergency {
		t.Fatalf("unexpected record: %+v", recs)
	}
}

func TestEmergencyCalmJoint(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	got, prog := eng.Decide(signals.Frame{Scup: 0.95, Entropy: 0.1, Heat: 0.1}, nil, nil)
	if got != mode.Calm {
		t.Fatalf("expected calm, got %s", got)
	}
	if !prog.IsEmergency {
		t.Fatalf("expected emergency, got %+v", prog)
	}
}

func TestEmergencyRapidExcursion(t *testing.T) {
	eng, clk := newTestEngine(t, nil)

	// Mild frame, then an entropy jump of 0.8 one second later.
	eng.Decide(signals.Frame{Scup: 0.5, Entropy: 0.1, Heat: 0.3}, nil, nil)
	clk.now = clk.now.Add(time.Second)
	got, prog := eng.Decide(signals.Frame{Scup: 0.5, Entropy: 0.9, Heat: 0.3}, nil, nil)

	if got != mode.Overwhelmed {
		t.Fatalf("expected overwhelmed after rapid excursion, got %s", got)
	}
	if !prog.IsEmergency {
		t.Fatalf("expected emergency, got %+v", prog)
	}
}

func TestEmergencySlowExcursionDoesNotFire(t *testing.T) {
	eng, clk := newTestEngine(t, nil)

	// Same entropy jump spread over 10s: outside the excursion window.
	eng.Decide(signals.Frame{Scup: 0.5, Entropy: 0.1, Heat: 0.3}, nil, nil)
	clk.now = clk.now.Add(10 * time.Second)
	_, prog := eng.Decide(signals.Frame{Scup: 0.5, Entropy: 0.9, Heat: 0.3}, nil, nil)

	if prog.IsEmergency {
		t.Fatalf("slow excursion must not trigger an emergency: %+v", prog)
	}
}

func TestBlendEndpointsAndFinalize(t *testing.T) {
	eng, clk := newTestEngine(t, func(cfg *Config) {
		cfg.Sampler = fixedSampler{v: 0}
	})
	table := mode.DefaultTable()
	fromVec := table.Profiles[mode.Neutral].Vector()
	toVec := table.Profiles[mode.Calm].Vector()
	frame := signals.Frame{Scup: 0.9, Entropy: 0.2, Heat: 0.1}

	clk.now = clk.now.Add(time.Second)
	got, prog := eng.Decide(frame, nil, nil)
	if got != mode.Calm || !prog.InTransition {
		t.Fatalf("expected committed transition to calm, got %s %+v", got, prog)
	}
	if prog.Blended != fromVec {
		t.Fatalf("blend at elapsed=0 must equal the from vector: %+v", prog.Blended)
	}
	if prog.Fraction != 0 {
		t.Fatalf("expected zero progress at commit, got %f", prog.Fraction)
	}

	// Midway: strictly between the endpoint vectors.
	clk.now = clk.now.Add(prog.Duration / 2)
	_, mid := eng.Decide(frame, nil, nil)
	if !mid.InTransition {
		t.Fatal("expected transition still in progress at midpoint")
	}
	if mid.Blended.Scup <= min(fromVec.Scup, toVec.Scup) || mid.Blended.Scup >= max(fromVec.Scup, toVec.Scup) {
		t.Fatalf("midpoint scup %f not strictly between endpoints", mid.Blended.Scup)
	}

	// At (past) the full duration: lands exactly on the target and finalizes.
	clk.now = clk.now.Add(prog.Duration)
	got, final := eng.Decide(frame, nil, nil)
	if final.InTransition {
		t.Fatalf("expected finalized transition, got %+v", final)
	}
	if final.Blended != toVec {
		t.Fatalf("blend at elapsed>=duration must equal the to vector: %+v", final.Blended)
	}
	if got != mode.Calm || eng.Current() != mode.Calm {
		t.Fatalf("current mode not updated: %s / %s", got, eng.Current())
	}

	info := eng.Info()
	if info.InTransition {
		t.Fatal("info still reports a transition after finalize")
	}
	if info.TimeInMode != 0 {
		t.Fatalf("time-in-mode must reset on finalize, got %s", info.TimeInMode)
	}
}

func TestEmergencyOverwritesLiveTransition(t *testing.T) {
	eng, clk := newTestEngine(t, func(cfg *Config) {
		cfg.Sampler = fixedSampler{v: 0}
	})

	clk.now = clk.now.Add(time.Second)
	got, prog := eng.Decide(signals.Frame{Scup: 0.9, Entropy: 0.2, Heat: 0.1}, nil, nil)
	if got != mode.Calm || !prog.InTransition {
		t.Fatalf("setup failed: expected transition to calm, got %s", got)
	}

	// Mid-transition emergency: the slot is overwritten and the abandoned
	// target never becomes current.
	clk.now = clk.now.Add(time.Second)
	got, prog = eng.Decide(signals.Frame{Scup: 0.3, Entropy: 0.95, Heat: 0.95}, nil, nil)
	if got != mode.Overwhelmed || !prog.IsEmergency {
		t.Fatalf("expected emergency overwrite, got %s %+v", got, prog)
	}
	if prog.From != mode.Neutral {
		t.Fatalf("overwritten slot should depart from the still-current mode, got %s", prog.From)
	}

	// Let the emergency finish; current must be the emergency target.
	clk.now = clk.now.Add(prog.Duration)
	eng.Decide(signals.Frame{Scup: 0.5, Entropy: 0.5, Heat: 0.3}, nil, nil)
	if eng.Current() != mode.Overwhelmed {
		t.Fatalf("expected overwhelmed after finalize, got %s", eng.Current())
	}
}

func TestEmergencyDoesNotRetriggerSameTarget(t *testing.T) {
	eng, clk := newTestEngine(t, nil)

	eng.Decide(signals.Frame{Entropy: 0.95, Heat: 0.95}, nil, nil)
	clk.now = clk.now.Add(500 * time.Millisecond)
	eng.Decide(signals.Frame{Entropy: 0.95, Heat: 0.95}, nil, nil)

	if n := len(eng.RecentTransitions(10)); n != 1 {
		t.Fatalf("sustained extreme signals must not restart the same emergency, got %d records", n)
	}
}

func TestAcceptanceProbabilityClamps(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	// Hopeless target: huge negative score difference still gets the floor.
	low := eng.acceptanceProbability(map[mode.Mode]float64{
		mode.Neutral: 5.0, mode.Calm: -5.0,
	}, mode.Calm, 0.5)
	if low != eng.cfg.MinProbability {
		t.Fatalf("expected floor %f, got %f", eng.cfg.MinProbability, low)
	}

	// Overwhelming target with no damping hits the ceiling.
	undamped, _ := newTestEngine(t, func(cfg *Config) { cfg.InertiaDamping = 0 })
	high := undamped.acceptanceProbability(map[mode.Mode]float64{
		mode.Neutral: -5.0, mode.Calm: 5.0,
	}, mode.Calm, 0.5)
	if high != undamped.cfg.MaxProbability {
		t.Fatalf("expected ceiling %f, got %f", undamped.cfg.MaxProbability, high)
	}
}

func TestHistoryEviction(t *testing.T) {
	eng, clk := newTestEngine(t, func(cfg *Config) {
		cfg.HistorySize = 5
	})

	// Alternate the two joint-extreme emergencies; each flip commits a record.
	for i := 0; i < 6; i++ {
		clk.now = clk.now.Add(10 * time.Second)
		if i%2 == 0 {
			eng.Decide(signals.Frame{Scup: 0.3, Entropy: 0.95, Heat: 0.95}, nil, nil)
		} else {
			eng.Decide(signals.Frame{Scup: 0.95, Entropy: 0.05, Heat: 0.05}, nil, nil)
		}
	}

	recs := eng.RecentTransitions(100)
	if len(recs) != 5 {
		t.Fatalf("expected history capped at 5, got %d", len(recs))
	}
	// The first record (to overwhelmed) was evicted; oldest retained is the flip to calm.
	if recs[0].To != mode.Calm {
		t.Fatalf("expected oldest retained record to target calm, got %s", recs[0].To)
	}
}

func TestSeededDeterminism(t *testing.T) {
	run := func() []string {
		clk := &testClock{now: testBase()}
		cfg := DefaultConfig()
		cfg.Clock = clk
		cfg.Sampler = NewSampler(42)
		eng, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		frames := []signals.Frame{
			{Scup: 0.7, Entropy: 0.8, Heat: 0.6},
			{Scup: 0.7, Entropy: 0.8, Heat: 0.6},
			{Scup: 0.9, Entropy: 0.2, Heat: 0.1},
			{Scup: 0.6, Entropy: 0.5, Heat: 0.4},
			{Scup: 0.5, Entropy: 0.5, Heat: 0.3},
			{Scup: 0.9, Entropy: 0.2, Heat: 0.1},
		}
		var trace []string
		for _, f := range frames {
			clk.now = clk.now.Add(time.Second)
			got, prog := eng.Decide(f, nil, &scoring.Hint{Confidence: 0.85})
			trace = append(trace, got.String())
			_ = prog
		}
		return trace
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded runs diverged at tick %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestStatsAggregation(t *testing.T) {
	eng, clk := newTestEngine(t, nil)

	clk.now = clk.now.Add(10 * time.Second)
	eng.Decide(signals.Frame{Entropy: 0.95, Heat: 0.95}, nil, nil)
	clk.now = clk.now.Add(10 * time.Second)
	eng.Decide(signals.Frame{Scup: 0.95, Entropy: 0.05, Heat: 0.05}, nil, nil)

	stats := eng.Stats()
	if stats.TotalTransitions != 2 {
		t.Fatalf("expected 2 transitions, got %d", stats.TotalTransitions)
	}
	if stats.Emergencies != 2 {
		t.Fatalf("expected 2 emergencies, got %d", stats.Emergencies)
	}
	if stats.CountsByPair["neutral→overwhelmed"] != 1 {
		t.Fatalf("unexpected pair counts: %v", stats.CountsByPair)
	}
	if stats.Momentum <= 0 || stats.Momentum > 1 {
		t.Fatalf("momentum out of range: %f", stats.Momentum)
	}
	if stats.Inertia < 0.1 || stats.Inertia > 1.0 {
		t.Fatalf("inertia out of range: %f", stats.Inertia)
	}
}
