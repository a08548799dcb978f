package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/scoring"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string         `json:"description"`
	InitialMode string         `json:"initial_mode"`
	Seed        int64          `json:"seed"`
	Frames      []FixtureFrame `json:"frames"`
	Expected    []Expectation  `json:"expected,omitempty"`
}

// FixtureFrame is one recorded signal frame, timed relative to the run start.
type FixtureFrame struct {
	OffsetMs int64        `json:"offset_ms"`
	Scup     float64      `json:"scup"`
	Entropy  float64      `json:"entropy"`
	Heat     float64      `json:"heat"`
	Hint     *FixtureHint `json:"hint,omitempty"`
}

// FixtureHint mirrors scoring.Hint with JSON tags.
type FixtureHint struct {
	Confidence float64 `json:"confidence"`
	Trigger    bool    `json:"trigger"`
}

// Expectation pins the decision a given frame index must produce.
type Expectation struct {
	Index        int    `json:"index"`
	Mode         string `json:"mode"`
	InTransition bool   `json:"in_transition"`
}

// #endregion fixture-types

// #region fixture-io

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if _, ok := mode.Parse(f.InitialMode); !ok {
		return nil, fmt.Errorf("fixture %s: unknown initial mode %q", path, f.InitialMode)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// hint converts the optional fixture hint to a domain hint.
func (ff *FixtureFrame) hint() *scoring.Hint {
	if ff.Hint == nil {
		return nil
	}
	return &scoring.Hint{
		Confidence: ff.Hint.Confidence,
		Trigger:    ff.Hint.Trigger,
	}
}

// #endregion fixture-io
