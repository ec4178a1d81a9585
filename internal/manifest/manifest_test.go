package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	contents := `{"bit_counts":[8,16],"share_counts":[1,2],"noises":[0,4]}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	points := m.Points()
	if len(points) != 2*2*2 {
		t.Fatalf("len(Points()) = %d, want 8", len(points))
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	// bit_counts entries must be <= 64.
	contents := `{"bit_counts":[128],"share_counts":[1],"noises":[0]}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected schema validation error for bit_count = 128")
	}
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	contents := `{"bit_counts":[8],"share_counts":[1]}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected schema validation error for missing noises field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/manifest.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
