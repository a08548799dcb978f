package mode

import "fmt"

// #region profile

// Profile is a mode's immutable property set: the signal vector the mode is
// the best fit for, its stability factor, and the blend-only attributes.
type Profile struct {
	OptimalScup    float64
	OptimalEntropy float64
	OptimalHeat    float64
	Stability      float64 // resistance multiplier, (0, 1]
	Energy         float64
	Creativity     float64
	Introspection  float64
}

// Vector is the full blendable property vector of a profile. Every field is
// interpolated during a transition; nothing is left un-blended.
type Vector struct {
	Scup          float64 `json:"scup"`
	Entropy       float64 `json:"entropy"`
	Heat          float64 `json:"heat"`
	Stability     float64 `json:"stability"`
	Energy        float64 `json:"energy"`
	Creativity    float64 `json:"creativity"`
	Introspection float64 `json:"introspection"`
}

// Vector flattens the profile into its blendable form.
func (p Profile) Vector() Vector {
	return Vector{
		Scup:          p.OptimalScup,
		Entropy:       p.OptimalEntropy,
		Heat:          p.OptimalHeat,
		Stability:     p.Stability,
		Energy:        p.Energy,
		Creativity:    p.Creativity,
		Introspection: p.Introspection,
	}
}

// #endregion profile

// #region table

// Table holds the per-mode profiles plus the momentum weight of each mode.
// Weights reflect how energetic a mode is; transitions touching energetic
// modes contribute more momentum.
type Table struct {
	Profiles map[Mode]Profile
	Weights  map[Mode]float64
}

// DefaultTable returns the tuned seven-mode table. The values are
// configuration defaults, not derived constants.
func DefaultTable() Table {
	return Table{
		Profiles: map[Mode]Profile{
			Creative:      {0.7, 0.8, 0.6, 0.6, 0.8, 1.0, 0.4},
			Contemplative: {0.8, 0.3, 0.2, 0.9, 0.4, 0.3, 1.0},
			Curious:       {0.6, 0.5, 0.4, 0.7, 0.6, 0.7, 0.6},
			Calm:          {0.8, 0.2, 0.1, 1.0, 0.3, 0.2, 0.8},
			Anxious:       {0.4, 0.7, 0.8, 0.3, 0.9, 0.5, 0.3},
			Overwhelmed:   {0.3, 0.9, 0.9, 0.2, 1.0, 0.8, 0.1},
			Neutral:       {0.5, 0.5, 0.3, 0.8, 0.5, 0.5, 0.5},
		},
		Weights: map[Mode]float64{
			Creative:      0.9,
			Curious:       0.7,
			Contemplative: 0.8,
			Calm:          0.6,
			Neutral:       0.5,
			Anxious:       0.8,
			Overwhelmed:   1.0,
		},
	}
}

// Validate checks the table is complete and internally consistent. An empty
// or inconsistent table is the one fatal condition; it must be caught at
// construction time, never at decision time.
func (t Table) Validate() error {
	if len(t.Profiles) == 0 {
		return fmt.Errorf("profile table is empty")
	}
	for _, m := range All() {
		p, ok := t.Profiles[m]
		if !ok {
			return fmt.Errorf("profile table missing mode %s", m)
		}
		if p.Stability <= 0 || p.Stability > 1 {
			return fmt.Errorf("mode %s: stability %.3f outside (0, 1]", m, p.Stability)
		}
	}
	return nil
}

// Profile looks up a mode's profile. ok=false signals a stale or malformed
// mode reference; callers treat it as "remain in current mode".
func (t Table) Profile(m Mode) (Profile, bool) {
	p, ok := t.Profiles[m]
	return p, ok
}

// Weight returns the momentum weight of a mode, defaulting to 0.5 when the
// table has no entry.
func (t Table) Weight(m Mode) float64 {
	if w, ok := t.Weights[m]; ok {
		return w
	}
	return 0.5
}

// #endregion table
