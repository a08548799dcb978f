package engine

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/scoring"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region engine-struct

// Engine decides, once per tick, whether the system stays in its current
// operating mode or smoothly moves to another one. It owns its mutable state
// exclusively (current mode, transition slot, history rings, frame window)
// and is not safe for concurrent use; callers serialize access.
type Engine struct {
	cfg     Config
	clock   Clock
	sampler Sampler

	current   mode.Mode
	enteredAt time.Time

	slot    *Progress // live transition, nil when stable
	window  *signals.Window
	history *History
}

// #endregion engine-struct

// #region constructor

// New constructs an engine from the given configuration. An empty or
// inconsistent profile table fails here, never at decision time. Zero-valued
// clock, sampler, and capacities fall back to defaults.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Table.Validate(); err != nil {
		return nil, fmt.Errorf("profile table: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Sampler == nil {
		cfg.Sampler = NewSampler(time.Now().UnixNano())
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	if cfg.MomentumSize <= 0 {
		cfg.MomentumSize = 10
	}

	e := &Engine{
		cfg:       cfg,
		clock:     cfg.Clock,
		sampler:   cfg.Sampler,
		current:   cfg.Initial,
		enteredAt: cfg.Clock.Now(),
		window:    signals.NewWindow(cfg.FrameWindow),
		history:   newHistory(cfg.HistorySize, cfg.MomentumSize),
	}
	log.Printf("[ENGINE] initialized in %s mode", e.current)
	return e, nil
}

// #endregion constructor

// #region decide

// Decide consumes one signal frame and returns the suggested mode plus the
// transition progress. recent is the caller-observed mode history (newest
// last); hint is optional. The decision path never returns an error:
// out-of-range signals are clamped, absent hints mean zero influence, and a
// stale mode reference means "stay put".
func (e *Engine) Decide(frame signals.Frame, recent []mode.Mode, hint *scoring.Hint) (mode.Mode, Progress) {
	now := e.clock.Now()
	if frame.At.IsZero() {
		frame.At = now
	}
	e.window.Push(frame)

	// Emergency override runs first, even mid-transition. Firing while a
	// transition is live overwrites the slot; the old target is abandoned.
	if target, ok := e.checkEmergency(frame); ok {
		if e.slot != nil && e.slot.IsEmergency && e.slot.To == target {
			return e.advance(now) // already heading there, just blend
		}
		log.Printf("[ENGINE] emergency transition to %s", target)
		mom := e.momentumAt(now)
		iner := scoring.Inertia(now.Sub(e.enteredAt), mom, e.cfg.Inertia)
		prog := e.commit(target, ReasonEmergency, frame, 1.0, mom, iner, 0, true, now)
		return target, prog
	}

	// A live transition is advanced, not reconsidered.
	if e.slot != nil {
		return e.advance(now)
	}

	// Scored decision path.
	fit := scoring.Fitness(frame, e.cfg.Table)
	mom := e.momentumAt(now)
	iner := scoring.Inertia(now.Sub(e.enteredAt), mom, e.cfg.Inertia)
	bias := scoring.PatternInfluence(hint, recent, e.cfg.Table, e.cfg.Pattern)

	scores := make(map[mode.Mode]float64, len(fit))
	for m, f := range fit {
		scores[m] += f * e.cfg.MetricWeight
	}
	for m, b := range bias {
		scores[m] += b * e.cfg.PatternWeight
	}
	scores[e.current] += iner * e.cfg.InertiaWeight

	target := argmax(scores, e.current)
	if target == e.current {
		return e.current, e.stableProgress()
	}
	if _, ok := e.cfg.Table.Profile(target); !ok {
		return e.current, e.stableProgress() // stale reference, stay put
	}

	p := e.acceptanceProbability(scores, target, iner)
	if e.sampler.Float64() >= p {
		// Declined draw: no record is written.
		return e.current, e.stableProgress()
	}

	reason := e.transitionReason(target, fit, bias, iner)
	log.Printf("[ENGINE] transition %s → %s (p=%.3f, reason=%s)", e.current, target, p, reason)
	prog := e.commit(target, reason, frame, p, mom, iner, bias[target], false, now)
	return target, prog
}

// #endregion decide

// #region acceptance

// acceptanceProbability converts the score difference into a commit
// probability, damped by inertia and the target's stability, clamped so the
// ordinary path is never certain in either direction.
func (e *Engine) acceptanceProbability(scores map[mode.Mode]float64, target mode.Mode, inertia float64) float64 {
	diff := scores[target] - scores[e.current]
	p := sigmoid(e.cfg.ProbabilitySlope * diff)
	p *= 1.0 - inertia*e.cfg.InertiaDamping
	if prof, ok := e.cfg.Table.Profile(target); ok {
		p *= prof.Stability
	}

	if p < e.cfg.MinProbability {
		return e.cfg.MinProbability
	}
	if p > e.cfg.MaxProbability {
		return e.cfg.MaxProbability
	}
	return p
}

// transitionReason categorizes what dominated the committed decision.
func (e *Engine) transitionReason(target mode.Mode, fit, bias map[mode.Mode]float64, inertia float64) Reason {
	metricScore := fit[target] * e.cfg.MetricWeight
	patternScore := bias[target] * e.cfg.PatternWeight
	switch {
	case metricScore > patternScore:
		return ReasonMetricDriven
	case patternScore > e.cfg.PatternReasonBias:
		return ReasonPatternInfluenced
	case inertia < e.cfg.LowInertia:
		return ReasonMomentumChange
	default:
		return ReasonGradualEvolution
	}
}

// #endregion acceptance

// #region commit-advance

// commit writes the transition record and opens the transition slot. Called
// with the slot empty, or live when an emergency overwrites it.
func (e *Engine) commit(target mode.Mode, reason Reason, frame signals.Frame, prob, mom, iner, bias float64, emergency bool, now time.Time) Progress {
	dur := e.cfg.MinDuration
	if !emergency {
		if prof, ok := e.cfg.Table.Profile(target); ok {
			dur += time.Duration(prof.Stability * float64(e.cfg.MaxDuration-e.cfg.MinDuration))
		}
	}

	e.history.Append(Record{
		ID:          uuid.NewString(),
		From:        e.current,
		To:          target,
		At:          now,
		Duration:    dur,
		Reason:      reason,
		Frame:       frame,
		Probability: prob,
		Momentum:    mom,
		Inertia:     iner,
		PatternBias: bias,
		IsEmergency: emergency,
	})

	e.slot = &Progress{
		InTransition: true,
		IsEmergency:  emergency,
		From:         e.current,
		To:           target,
		StartedAt:    now,
		Duration:     dur,
		Fraction:     0,
		Blended:      e.vectorOf(e.current), // blend starts at the from vector exactly
	}
	return *e.slot
}

// advance updates the live transition's progress and blended vector,
// finalizing it when the duration has elapsed.
func (e *Engine) advance(now time.Time) (mode.Mode, Progress) {
	slot := e.slot
	fraction := 0.0
	if slot.Duration > 0 {
		fraction = now.Sub(slot.StartedAt).Seconds() / slot.Duration.Seconds()
	} else {
		fraction = 1.0
	}
	if fraction < 0 {
		fraction = 0
	}

	toVec := e.vectorOf(slot.To)
	if fraction >= 1 {
		slot.Fraction = 1
		slot.Blended = toVec // lands on the target vector exactly
		slot.InTransition = false
		done := *slot

		e.current = slot.To
		e.enteredAt = now
		e.slot = nil
		log.Printf("[ENGINE] transition completed: %s → %s", done.From, done.To)
		return e.current, done
	}

	slot.Fraction = fraction
	slot.Blended = blendVector(e.vectorOf(slot.From), toVec, easeInOutCubic(fraction))
	return slot.To, *slot
}

// #endregion commit-advance

// #region queries

// Current returns the current mode label.
func (e *Engine) Current() mode.Mode {
	return e.current
}

// Info returns the point-in-time snapshot of the engine.
func (e *Engine) Info() Info {
	now := e.clock.Now()
	mom := e.momentumAt(now)
	info := Info{
		Mode:       e.current,
		TimeInMode: now.Sub(e.enteredAt),
		Momentum:   mom,
		Inertia:    scoring.Inertia(now.Sub(e.enteredAt), mom, e.cfg.Inertia),
	}
	if e.slot != nil {
		info.InTransition = true
		info.Progress = e.slot.Fraction
	}
	return info
}

// RecentTransitions returns up to limit most recent records, oldest first.
func (e *Engine) RecentTransitions(limit int) []Record {
	return e.history.Recent(limit)
}

// Stats aggregates the retained transition history.
func (e *Engine) Stats() Stats {
	now := e.clock.Now()
	pairs, avgByFrom, emergencies := e.history.stats()
	mom := e.momentumAt(now)
	return Stats{
		TotalTransitions:  e.history.Len(),
		Emergencies:       emergencies,
		CountsByPair:      pairs,
		AvgDurationByFrom: avgByFrom,
		Momentum:          mom,
		Inertia:           scoring.Inertia(now.Sub(e.enteredAt), mom, e.cfg.Inertia),
	}
}

// #endregion queries

// #region helpers

func (e *Engine) momentumAt(now time.Time) float64 {
	return scoring.Momentum(e.history.Events(), now, e.cfg.Table, e.cfg.Momentum)
}

// stableProgress describes the engine at rest in its current mode.
func (e *Engine) stableProgress() Progress {
	return Progress{
		From:      e.current,
		To:        e.current,
		StartedAt: e.enteredAt,
		Fraction:  1,
		Blended:   e.vectorOf(e.current),
	}
}

func (e *Engine) vectorOf(m mode.Mode) mode.Vector {
	if prof, ok := e.cfg.Table.Profile(m); ok {
		return prof.Vector()
	}
	return mode.Vector{}
}

// argmax returns the best-scoring mode, preferring current on ties. Modes
// are visited in the stable mode.All order so results are deterministic.
func argmax(scores map[mode.Mode]float64, current mode.Mode) mode.Mode {
	if len(scores) == 0 {
		return current
	}
	best := current
	bestScore := scores[current]
	for _, m := range mode.All() {
		s, ok := scores[m]
		if !ok {
			continue
		}
		if s > bestScore {
			best, bestScore = m, s
		}
	}
	return best
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// #endregion helpers
