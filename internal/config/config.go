// Package config loads the optional nonogrid.toml file that tunes the
// solver's otherwise-hardcoded defaults (the Skim budget, the default
// escalation ceiling, the disambiguation progress interval). The teacher
// ships no config file — flags only — but the Design Notes call these
// values "tunable", which earns them a small file-backed layer rather
// than a second, competing set of flags.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk shape of nonogrid.toml. Every field is optional;
// zero values fall back to the documented defaults in the caller.
type Config struct {
	Solve struct {
		SkimBudget    int    `toml:"skim_budget"`
		DefaultEffort string `toml:"default_effort"` // "skim" or "scrub"
	} `toml:"solve"`

	Disambiguate struct {
		ProgressInterval int `toml:"progress_interval"`
	} `toml:"disambiguate"`
}

// Load reads and parses path. A missing file is not an error: it returns
// a zero-value Config so callers can apply their own defaults uniformly.
func Load(path string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
