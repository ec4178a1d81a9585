// Package config validates attack parameters and loads named TOML
// scenario presets for the cdpa command-line tools.
//
// Adapted from the teacher's internal/config: TOML decoding via
// github.com/BurntSushi/toml for on-disk presets, and the same
// ValidationError/ValidationErrors accumulation pattern the teacher
// uses in validation.go, trimmed to the handful of fields spec.md §6
// actually exposes.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Params is the fully-parsed, not-yet-validated set of attack
// parameters a CLI invocation assembles from flags and/or a preset.
type Params struct {
	BitCount        int     `toml:"bit_count"`
	ShareCount      int     `toml:"share_count"`
	TraceCount      int     `toml:"trace_count"`
	Noise           float64 `toml:"noise"`
	ExperimentCount int     `toml:"experiment_count"`
	Seed            *int64  `toml:"-"`
	Verbose         bool    `toml:"-"`
	ListTraces      bool    `toml:"-"`
}

// Default returns the single-experiment, noiseless, unmasked (d=1)
// default scenario.
func Default() Params {
	return Params{
		BitCount:        32,
		ShareCount:      1,
		TraceCount:      100000,
		Noise:           0,
		ExperimentCount: 1,
	}
}

// ValidationError is one failed parameter constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors accumulates every failed constraint so a CLI can
// report them all at once instead of stopping at the first.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks p against spec.md §3/§6's domain constraints.
func Validate(p Params) error {
	var errs ValidationErrors

	if p.BitCount < 1 || p.BitCount > 64 {
		errs = append(errs, ValidationError{"bit_count", "must be in [1, 64]"})
	}
	if p.ShareCount < 1 {
		errs = append(errs, ValidationError{"share_count", "must be >= 1"})
	}
	if p.TraceCount < 1 {
		errs = append(errs, ValidationError{"trace_count", "must be >= 1"})
	}
	if p.Noise < 0 {
		errs = append(errs, ValidationError{"noise", "must be >= 0"})
	}
	if p.ExperimentCount < 1 {
		errs = append(errs, ValidationError{"experiment_count", "must be >= 1"})
	}
	if p.ListTraces && p.ExperimentCount != 1 {
		errs = append(errs, ValidationError{"list_traces", "only meaningful with experiment_count == 1"})
	}
	if p.Verbose && p.ExperimentCount != 1 {
		errs = append(errs, ValidationError{"verbose", "only meaningful with experiment_count == 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoadPreset reads a named scenario from a TOML file. The file may
// define several named tables; name selects one, falling back to the
// file's top-level fields when name is empty.
func LoadPreset(path, name string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}

	if name == "" {
		if _, err := toml.Decode(string(data), &p); err != nil {
			return p, fmt.Errorf("config: decode %s: %w", path, err)
		}
		return p, nil
	}

	var presets map[string]Params
	if _, err := toml.Decode(string(data), &presets); err != nil {
		return p, fmt.Errorf("config: decode %s: %w", path, err)
	}
	preset, ok := presets[name]
	if !ok {
		return p, fmt.Errorf("config: no scenario named %q in %s", name, path)
	}
	return preset, nil
}
