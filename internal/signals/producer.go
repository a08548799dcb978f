package signals

import (
	"math/rand"
	"time"
)

// #region producer

// ProducerConfig tunes the synthetic signal generator.
type ProducerConfig struct {
	Step       float64 // max per-tick drift of each metric
	SpikeEvery int     // roughly one entropy spike per this many ticks
	SpikeSize  float64 // entropy/heat jump on a spike
}

// DefaultProducerConfig returns the tuned defaults.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Step:       0.05,
		SpikeEvery: 40,
		SpikeSize:  0.45,
	}
}

// Producer emits synthetic signal frames for demo runs: a slow random walk
// per metric with occasional entropy spikes so emergencies actually happen.
type Producer struct {
	cfg ProducerConfig
	rng *rand.Rand
	cur Frame
}

// NewProducer creates a seeded producer starting at the midpoint of every
// metric. Same seed, same frame sequence.
func NewProducer(seed int64, cfg ProducerConfig) *Producer {
	return &Producer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		cur: Frame{Scup: 0.5, Entropy: 0.5, Heat: 0.5},
	}
}

// Next advances the walk one tick and returns the frame stamped at the
// given time.
func (p *Producer) Next(at time.Time) Frame {
	p.cur.Scup = clamp01(p.cur.Scup + p.drift())
	p.cur.Entropy = clamp01(p.cur.Entropy + p.drift())
	p.cur.Heat = clamp01(p.cur.Heat + p.drift())

	if p.cfg.SpikeEvery > 0 && p.rng.Intn(p.cfg.SpikeEvery) == 0 {
		p.cur.Entropy = clamp01(p.cur.Entropy + p.cfg.SpikeSize)
		p.cur.Heat = clamp01(p.cur.Heat + p.cfg.SpikeSize/2)
	}

	p.cur.At = at
	return p.cur
}

func (p *Producer) drift() float64 {
	return (p.rng.Float64()*2 - 1) * p.cfg.Step
}

// #endregion producer
