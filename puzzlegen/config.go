package puzzlegen

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config drives one generation run. Zero fields fall back to the defaults
// the tool has always shipped with.
type Config struct {
	// EnginePath is resolved on PATH; VariantsPath is handed to the engine
	// as its variant definition file.
	EnginePath   string `yaml:"engine_path"`
	VariantsPath string `yaml:"variants_path"`
	Variant      string `yaml:"variant"`

	// MultiPV is the candidate width the weak defender picks its worst
	// move from.
	MultiPV      int `yaml:"multipv"`
	SearchTimeMS int `yaml:"search_time_ms"`

	MaxMoves    int `yaml:"max_moves"`
	MaxAttempts int `yaml:"max_attempts"`
	Workers     int `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		EnginePath:   "fairy-stockfish",
		VariantsPath: "variants.ini",
		Variant:      "wildcatshogi",
		MultiPV:      5,
		SearchTimeMS: 10,
		MaxMoves:     300,
		MaxAttempts:  10,
		Workers:      8,
	}
}

// LoadConfig reads a yaml config, filling unset fields with defaults. An
// empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.merge(loaded)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.EnginePath != "" {
		c.EnginePath = o.EnginePath
	}
	if o.VariantsPath != "" {
		c.VariantsPath = o.VariantsPath
	}
	if o.Variant != "" {
		c.Variant = o.Variant
	}
	if o.MultiPV > 0 {
		c.MultiPV = o.MultiPV
	}
	if o.SearchTimeMS > 0 {
		c.SearchTimeMS = o.SearchTimeMS
	}
	if o.MaxMoves > 0 {
		c.MaxMoves = o.MaxMoves
	}
	if o.MaxAttempts > 0 {
		c.MaxAttempts = o.MaxAttempts
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

func (c Config) searchTime() time.Duration {
	return time.Duration(c.SearchTimeMS) * time.Millisecond
}
