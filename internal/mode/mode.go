package mode

// #region mode

// Mode is one of the engine's fixed operating modes. The set is closed:
// transition logic switches over these values and nothing else.
type Mode int

const (
	Neutral Mode = iota
	Calm
	Contemplative
	Curious
	Creative
	Anxious
	Overwhelmed
)

var names = [...]string{
	Neutral:       "neutral",
	Calm:          "calm",
	Contemplative: "contemplative",
	Curious:       "curious",
	Creative:      "creative",
	Anxious:       "anxious",
	Overwhelmed:   "overwhelmed",
}

// String returns the canonical lowercase name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(names) {
		return "unknown"
	}
	return names[m]
}

// All returns every mode in a stable order. Scoring and tie-breaking
// iterate this slice so results are deterministic.
func All() []Mode {
	return []Mode{Neutral, Calm, Contemplative, Curious, Creative, Anxious, Overwhelmed}
}

// Parse maps a mode name back to its Mode. Unknown names report ok=false;
// callers fall back to the current mode rather than failing.
func Parse(name string) (Mode, bool) {
	for _, m := range All() {
		if names[m] == name {
			return m, true
		}
	}
	return Neutral, false
}

// #endregion mode
