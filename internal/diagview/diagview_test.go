package diagview

import (
	"bytes"
	"strings"
	"testing"

	"chaindpa/internal/harness"
)

func sampleResult(t *testing.T) *harness.ExperimentResult {
	t.Helper()
	seed := uint32(1)
	summary, err := harness.Run(2000, 8, 2, 1, &seed, 0, true)
	if err != nil {
		t.Fatalf("harness.Run: %v", err)
	}
	if summary.Last == nil {
		t.Fatalf("expected Last to be populated")
	}
	return summary.Last
}

func TestPrintTableProducesStepHeader(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	PrintTable(&buf, res, 8, false)
	out := buf.String()
	if !strings.Contains(out, "Step 0") {
		t.Errorf("output missing step header:\n%s", out)
	}
	if !strings.Contains(out, "L(M0)") {
		t.Errorf("output missing moment row:\n%s", out)
	}
}

func TestPrintTableWithListTraces(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	PrintTable(&buf, res, 8, true)
	out := buf.String()
	if !strings.Contains(out, "W   HD") {
		t.Errorf("output missing trace listing header:\n%s", out)
	}
}

func TestPrintTableNilResultNoop(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, nil, 8, false)
	if buf.Len() != 0 {
		t.Errorf("expected no output for nil result, got %q", buf.String())
	}
}

func TestWriteYAMLRoundTripsFields(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	if err := WriteYAML(&buf, res); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "recovered_x") {
		t.Errorf("output missing recovered_x field:\n%s", out)
	}
}
