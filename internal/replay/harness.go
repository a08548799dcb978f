package replay

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region types

// StepResult captures the decision one replayed frame produced.
type StepResult struct {
	Index        int
	OffsetMs     int64
	Mode         mode.Mode
	InTransition bool
	IsEmergency  bool
	Fraction     float64
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalFrames int
	Transitions int
	Emergencies int
	FinalMode   mode.Mode
	Records     []engine.Record
}

// Mismatch is one expectation the run did not meet.
type Mismatch struct {
	Index       int
	WantMode    mode.Mode
	GotMode     mode.Mode
	WantInTrans bool
	GotInTrans  bool
}

// simClock is a manually advanced clock so replay runs are independent of
// wall time.
type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time { return c.now }

// #endregion types

// #region run

// Run replays a fixture through a fresh engine. The clock is driven by the
// frame offsets and the sampler is seeded from the fixture, so two runs of
// the same fixture produce identical decisions.
func Run(f *Fixture) ([]StepResult, Summary, error) {
	initial, ok := mode.Parse(f.InitialMode)
	if !ok {
		return nil, Summary{}, fmt.Errorf("unknown initial mode %q", f.InitialMode)
	}

	clock := &simClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cfg := engine.DefaultConfig()
	cfg.Initial = initial
	cfg.Clock = clock
	cfg.Sampler = engine.NewSampler(f.Seed)

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("build engine: %w", err)
	}

	base := clock.now
	var recent []mode.Mode
	results := make([]StepResult, 0, len(f.Frames))

	for i, ff := range f.Frames {
		clock.now = base.Add(time.Duration(ff.OffsetMs) * time.Millisecond)
		frame := signals.Frame{Scup: ff.Scup, Entropy: ff.Entropy, Heat: ff.Heat, At: clock.now}

		decided, prog := eng.Decide(frame, recent, ff.hint())
		results = append(results, StepResult{
			Index:        i,
			OffsetMs:     ff.OffsetMs,
			Mode:         decided,
			InTransition: prog.InTransition,
			IsEmergency:  prog.IsEmergency,
			Fraction:     prog.Fraction,
		})
		// Only the last HistorySpan modes influence pattern scoring; keep the
		// tail bounded so long journal replays don't accumulate the full run.
		recent = append(recent, eng.Current())
		if len(recent) > cfg.Pattern.HistorySpan {
			recent = recent[len(recent)-cfg.Pattern.HistorySpan:]
		}
	}

	records := eng.RecentTransitions(len(f.Frames))
	summary := Summary{
		TotalFrames: len(f.Frames),
		Transitions: len(records),
		FinalMode:   eng.Current(),
		Records:     records,
	}
	for _, r := range records {
		if r.IsEmergency {
			summary.Emergencies++
		}
	}
	return results, summary, nil
}

// Compare checks the run results against the fixture's expectations.
func Compare(f *Fixture, results []StepResult) []Mismatch {
	var mismatches []Mismatch
	for _, exp := range f.Expected {
		if exp.Index < 0 || exp.Index >= len(results) {
			mismatches = append(mismatches, Mismatch{Index: exp.Index})
			continue
		}
		want, _ := mode.Parse(exp.Mode)
		got := results[exp.Index]
		if got.Mode != want || got.InTransition != exp.InTransition {
			mismatches = append(mismatches, Mismatch{
				Index:       exp.Index,
				WantMode:    want,
				GotMode:     got.Mode,
				WantInTrans: exp.InTransition,
				GotInTrans:  got.InTransition,
			})
		}
	}
	return mismatches
}

// #endregion run
