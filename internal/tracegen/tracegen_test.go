package tracegen

import (
	"testing"

	"chaindpa/internal/prng"
)

func TestGenerateTracesShapeAndRange(t *testing.T) {
	s := prng.NewDeterministic(1)
	data, traces, x, y, err := GenerateTraces(100, 8, 2, 0, s)
	if err != nil {
		t.Fatalf("GenerateTraces: %v", err)
	}
	if len(data) != 100 || len(traces) != 100 {
		t.Fatalf("len(data)=%d len(traces)=%d, want 100", len(data), len(traces))
	}
	if x >= 256 || y >= 256 {
		t.Fatalf("x=%d y=%d out of 8-bit range", x, y)
	}
	for i, d := range data {
		if d >= 256 {
			t.Fatalf("data[%d] = %d out of 8-bit range", i, d)
		}
	}
	for i, tr := range traces {
		if tr < 0 || tr > 2*8 {
			t.Fatalf("traces[%d] = %v, expected a sum of 2 Hamming distances in [0,16] with no noise", i, tr)
		}
	}
}

func TestGenerateTracesDeterministic(t *testing.T) {
	s1 := prng.NewDeterministic(99)
	s2 := prng.NewDeterministic(99)
	d1, t1, x1, y1, _ := GenerateTraces(50, 16, 3, 0, s1)
	d2, t2, x2, y2, _ := GenerateTraces(50, 16, 3, 0, s2)
	if x1 != x2 || y1 != y2 {
		t.Fatalf("secrets diverged: (%d,%d) vs (%d,%d)", x1, y1, x2, y2)
	}
	for i := range d1 {
		if d1[i] != d2[i] || t1[i] != t2[i] {
			t.Fatalf("trace %d diverged", i)
		}
	}
}

func TestGenerateTracesRejectsBadParams(t *testing.T) {
	s := prng.NewDeterministic(1)
	cases := []struct {
		traceCount, bitCount, shareCount int
		noise                            float64
	}{
		{0, 8, 2, 0},
		{10, 0, 2, 0},
		{10, 65, 2, 0},
		{10, 8, 0, 0},
		{10, 8, 2, -1},
	}
	for _, c := range cases {
		if _, _, _, _, err := GenerateTraces(c.traceCount, c.bitCount, c.shareCount, c.noise, s); err == nil {
			t.Errorf("case %+v: expected error, got nil", c)
		}
	}
}

func TestGenerateTracesBitCount64NoOverflow(t *testing.T) {
	s := prng.NewDeterministic(7)
	_, traces, _, _, err := GenerateTraces(20, 64, 2, 0, s)
	if err != nil {
		t.Fatalf("GenerateTraces: %v", err)
	}
	for i, tr := range traces {
		if tr < 0 || tr > 2*64 {
			t.Fatalf("traces[%d] = %v out of [0,128] for bit_count=64, share_count=2", i, tr)
		}
	}
}

func TestGenerateTracesWithNoiseAddsVariance(t *testing.T) {
	s := prng.NewDeterministic(3)
	_, traces, _, _, err := GenerateTraces(200, 8, 2, 2.0, s)
	if err != nil {
		t.Fatalf("GenerateTraces: %v", err)
	}
	allIntegral := true
	for _, tr := range traces {
		if tr != float64(int64(tr)) {
			allIntegral = false
			break
		}
	}
	if allIntegral {
		t.Fatalf("expected non-integral traces with noise enabled")
	}
}
