// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Load layers defaults, an optional YAML file and environment variables.
//   - External errors must be wrapped via this package's error sentinels.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/secopvotes/internal/domain/window"
)

// Pipeline stages selectable with Config.Stage.
const (
	StageAll         = "all"
	StageProcurement = "procurement"
	StageElectoral   = "electoral"
	StageMerge       = "merge"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Stage selects which stages run: all, procurement, electoral or merge.
	Stage string `koanf:"stage"`

	Inputs  Inputs  `koanf:"inputs"`
	Outputs Outputs `koanf:"outputs"`

	// MinContracts is the minimum number of distinct main-window processes
	// an entity needs to be analyzed.
	MinContracts int `koanf:"min_contracts"`

	// MinMatchLength is the shortest municipality name searched for inside
	// entity names during location recovery.
	MinMatchLength int `koanf:"min_match_length"`

	Windows   Windows   `koanf:"windows"`
	Electoral Electoral `koanf:"electoral"`
	SQLite    SQLite    `koanf:"sqlite"`
	Metrics   Metrics   `koanf:"metrics"`
}

// Inputs are the source files read by the pipeline.
type Inputs struct {
	SECOPI    string `koanf:"secop1"`
	SECOPII   string `koanf:"secop2"`
	Gazetteer string `koanf:"gazetteer"`
	Electoral string `koanf:"electoral"`
}

// Outputs are the files written by the pipeline.
type Outputs struct {
	Procurement string `koanf:"procurement"`
	Electoral   string `koanf:"electoral"`
	Merged      string `koanf:"merged"`
	Unmatched   string `koanf:"unmatched"`
}

// Window is a date range, Start inclusive and End exclusive, as YYYY-MM-DD.
type Window struct {
	Start string `koanf:"start"`
	End   string `koanf:"end"`
}

// Resolve parses w into a named domain window.
func (w Window) Resolve(name string) (window.Window, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(w.Start))
	if err != nil {
		return window.Window{}, fmt.Errorf("%w: windows.%s.start: %v", ErrInvalidConfig, name, err)
	}
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(w.End))
	if err != nil {
		return window.Window{}, fmt.Errorf("%w: windows.%s.end: %v", ErrInvalidConfig, name, err)
	}
	out := window.Window{Name: name, Start: start, End: end}
	if err := out.Validate(); err != nil {
		return window.Window{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return out, nil
}

// Windows groups the three analysis windows.
type Windows struct {
	Corpus  Window `koanf:"corpus"`
	Main    Window `koanf:"main"`
	Control Window `koanf:"control"`
}

// Electoral configures the election stage.
type Electoral struct {
	// ReduceRaw treats the input as polling-station results and reduces it
	// to the two most voted mayoral candidates per municipality first.
	ReduceRaw bool `koanf:"reduce_raw"`

	// ExtraParties extends the official party roster.
	ExtraParties []string `koanf:"extra_parties"`
}

// SQLite configures the optional snapshot export. Empty Path disables it.
type SQLite struct {
	Path string `koanf:"path"`
}

// Metrics configures the optional Prometheus textfile. Empty Textfile disables it.
type Metrics struct {
	Textfile string `koanf:"textfile"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel: "info",
		Stage:    StageAll,
		Inputs: Inputs{
			SECOPI:    "datasets/02_intermediate/secop1_intermediate.csv",
			SECOPII:   "datasets/02_intermediate/secop2_intermediate.csv",
			Gazetteer: "datasets/03_primary/municipios_colombia.csv",
			Electoral: "datasets/02_intermediate/resultados_electorales_intermediate.csv",
		},
		Outputs: Outputs{
			Procurement: "datasets/03_primary/secop.csv",
			Electoral:   "datasets/03_primary/outsiders.csv",
			Merged:      "datasets/04_final/final_database.csv",
			Unmatched:   "datasets/04_final/unmatched_cities.csv",
		},
		MinContracts:   2,
		MinMatchLength: 4,
		Windows: Windows{
			Corpus:  Window{Start: "2015-01-01", End: "2024-01-01"},
			Main:    Window{Start: "2020-01-01", End: "2024-01-01"},
			Control: Window{Start: "2015-01-01", End: "2019-01-01"},
		},
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if !slices.Contains([]string{StageAll, StageProcurement, StageElectoral, StageMerge}, c.Stage) {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidConfig, c.Stage)
	}
	if c.MinContracts < 1 {
		return fmt.Errorf("%w: min_contracts must be at least 1", ErrInvalidConfig)
	}
	if c.MinMatchLength < 1 {
		return fmt.Errorf("%w: min_match_length must be at least 1", ErrInvalidConfig)
	}
	for name, w := range map[string]Window{"corpus": c.Windows.Corpus, "main": c.Windows.Main, "control": c.Windows.Control} {
		if _, err := w.Resolve(name); err != nil {
			return err
		}
	}
	if c.Outputs.Procurement == "" || c.Outputs.Electoral == "" || c.Outputs.Merged == "" || c.Outputs.Unmatched == "" {
		return fmt.Errorf("%w: output paths must not be empty", ErrInvalidConfig)
	}
	return nil
}
