package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/mode"
)

// #region types

type Config struct {
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
}

type ServerConfig struct {
	Addr   string `toml:"addr"`
	DBPath string `toml:"db_path"` // empty disables the journal
}

type EngineConfig struct {
	InitialMode   string  `toml:"initial_mode"`
	Seed          int64   `toml:"seed"` // 0 seeds from wall time
	MetricWeight  float64 `toml:"metric_weight,omitempty"`
	InertiaWeight float64 `toml:"inertia_weight,omitempty"`
	PatternWeight float64 `toml:"pattern_weight,omitempty"`
	MinDurationMs int64   `toml:"min_duration_ms,omitempty"`
	MaxDurationMs int64   `toml:"max_duration_ms,omitempty"`
	HistorySize   int     `toml:"history_size,omitempty"`
	MomentumSize  int     `toml:"momentum_size,omitempty"`
	FrameWindow   int     `toml:"frame_window,omitempty"`
}

// #endregion types

// #region load

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:   ":9040",
			DBPath: "modeshift.db",
		},
		Engine: EngineConfig{
			InitialMode: mode.Neutral.String(),
		},
	}
}

// Load reads a TOML config file and applies environment overrides. A missing
// file is not an error; defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays MODESHIFT_* variables on top of the file values.
func applyEnv(cfg *Config) {
	if v := getenv("MODESHIFT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("MODESHIFT_DB_PATH"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := getenv("MODESHIFT_INITIAL_MODE"); v != "" {
		cfg.Engine.InitialMode = v
	}
	if v := getenv("MODESHIFT_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.Seed = n
		}
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// #endregion load

// #region engine-config

// EngineConfig converts the file values into an engine configuration,
// leaving unset fields at the engine defaults.
func (c Config) EngineConfig() (engine.Config, error) {
	ec := engine.DefaultConfig()

	initial, ok := mode.Parse(c.Engine.InitialMode)
	if !ok {
		return ec, fmt.Errorf("unknown initial mode %q", c.Engine.InitialMode)
	}
	ec.Initial = initial

	if c.Engine.Seed != 0 {
		ec.Sampler = engine.NewSampler(c.Engine.Seed)
	}
	if c.Engine.MetricWeight > 0 {
		ec.MetricWeight = c.Engine.MetricWeight
	}
	if c.Engine.InertiaWeight > 0 {
		ec.InertiaWeight = c.Engine.InertiaWeight
	}
	if c.Engine.PatternWeight > 0 {
		ec.PatternWeight = c.Engine.PatternWeight
	}
	if c.Engine.MinDurationMs > 0 {
		ec.MinDuration = time.Duration(c.Engine.MinDurationMs) * time.Millisecond
	}
	if c.Engine.MaxDurationMs > 0 {
		ec.MaxDuration = time.Duration(c.Engine.MaxDurationMs) * time.Millisecond
	}
	if c.Engine.HistorySize > 0 {
		ec.HistorySize = c.Engine.HistorySize
	}
	if c.Engine.MomentumSize > 0 {
		ec.MomentumSize = c.Engine.MomentumSize
	}
	if c.Engine.FrameWindow > 0 {
		ec.FrameWindow = c.Engine.FrameWindow
	}
	if ec.MaxDuration < ec.MinDuration {
		return ec, fmt.Errorf("max_duration_ms must be >= min_duration_ms")
	}
	return ec, nil
}

// #endregion engine-config
