package engine

import (
	"math/rand"
	"time"
)

// #region clock

// Clock supplies the engine's notion of now. Injected so tests can simulate
// elapsed time without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// #endregion clock

// #region sampler

// Sampler supplies uniform draws in [0, 1) for the probabilistic acceptance
// step. Injected so the Bernoulli draw is deterministic under test.
type Sampler interface {
	Float64() float64
}

// NewSampler returns a seeded Sampler. The same seed replays the same
// acceptance decisions.
func NewSampler(seed int64) Sampler {
	return rand.New(rand.NewSource(seed))
}

// #endregion sampler
