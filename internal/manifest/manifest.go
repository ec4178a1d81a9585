// Package manifest loads and schema-validates the JSON sweep manifests
// cmd/cdpa-sweep accepts in place of the hardcoded default grid
// (internal/sweep.DefaultPoints).
//
// Adapted from the teacher's internal/schemavalidation, which compiles
// a github.com/santhosh-tekuri/jsonschema/v5 schema and validates a
// decoded JSON document against it; the teacher only exercised this
// path from tests, we wire it into an actual load path.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"chaindpa/internal/sweep"
)

//go:embed sweep-manifest.schema.json
var schemaJSON []byte

const schemaResourceName = "sweep-manifest.schema.json"

// Manifest is the JSON document shape a -manifest flag accepts.
type Manifest struct {
	BitCounts   []int     `json:"bit_counts"`
	ShareCounts []int     `json:"share_counts"`
	Noises      []float64 `json:"noises"`
}

// Points expands the manifest into the full cartesian product of sweep
// points, the same grid shape internal/sweep.DefaultPoints produces for
// the built-in scenario.
func (m Manifest) Points() []sweep.Point {
	points := make([]sweep.Point, 0, len(m.BitCounts)*len(m.ShareCounts)*len(m.Noises))
	for _, b := range m.BitCounts {
		for _, d := range m.ShareCounts {
			for _, n := range m.Noises {
				points = append(points, sweep.Point{BitCount: b, ShareCount: d, Noise: n})
			}
		}
	}
	return points
}

// Load reads and schema-validates a manifest file at path.
func Load(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return m, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceName, bytes.NewReader(schemaJSON)); err != nil {
		return m, fmt.Errorf("manifest: load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaResourceName)
	if err != nil {
		return m, fmt.Errorf("manifest: compile schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return m, fmt.Errorf("manifest: %s failed schema validation: %w", path, err)
	}

	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	return m, nil
}
