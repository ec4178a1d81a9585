package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) = %v, want nil", err)
	}
}

func TestValidateRejectsOutOfRangeBitCount(t *testing.T) {
	p := Default()
	p.BitCount = 0
	if err := Validate(p); err == nil {
		t.Error("expected error for bit_count = 0")
	}
	p.BitCount = 65
	if err := Validate(p); err == nil {
		t.Error("expected error for bit_count = 65")
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	p := Params{BitCount: 0, ShareCount: 0, TraceCount: 0, Noise: -1, ExperimentCount: 0}
	err := Validate(p)
	if err == nil {
		t.Fatal("expected error")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) < 5 {
		t.Errorf("len(verrs) = %d, want >= 5 (one per invalid field)", len(verrs))
	}
}

func TestValidateRejectsVerboseWithMultipleExperiments(t *testing.T) {
	p := Default()
	p.ExperimentCount = 10
	p.Verbose = true
	if err := Validate(p); err == nil {
		t.Error("expected error for verbose with experiment_count > 1")
	}
}

func TestLoadPresetTopLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")
	contents := "bit_count = 16\nshare_count = 3\ntrace_count = 1024\nnoise = 2.5\nexperiment_count = 4\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := LoadPreset(path, "")
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if p.BitCount != 16 || p.ShareCount != 3 || p.TraceCount != 1024 || p.Noise != 2.5 || p.ExperimentCount != 4 {
		t.Errorf("LoadPreset result = %+v, unexpected", p)
	}
}

func TestLoadPresetNamedScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.toml")
	contents := "[quick]\nbit_count = 8\nshare_count = 1\ntrace_count = 100\nnoise = 0\nexperiment_count = 1\n\n" +
		"[thorough]\nbit_count = 64\nshare_count = 3\ntrace_count = 1000000\nnoise = 1\nexperiment_count = 16\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := LoadPreset(path, "thorough")
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if p.BitCount != 64 || p.ExperimentCount != 16 {
		t.Errorf("LoadPreset(thorough) = %+v, unexpected", p)
	}

	if _, err := LoadPreset(path, "missing"); err == nil {
		t.Error("expected error for unknown scenario name")
	}
}

func TestLoadPresetMissingFile(t *testing.T) {
	if _, err := LoadPreset("/nonexistent/path/scenario.toml", ""); err == nil {
		t.Error("expected error for missing file")
	}
}
