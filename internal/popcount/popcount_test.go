package popcount

import "testing"

func TestHWKnownValues(t *testing.T) {
	tests := []struct {
		name string
		u    uint64
		want uint32
	}{
		{"zero", 0, 0},
		{"one bit low", 1, 1},
		{"one bit mid", 1 << 33, 1},
		{"all ones", 0xFFFFFFFFFFFFFFFF, 64},
		{"alternating", 0x5555555555555555, 32},
		{"alternating inverse", 0xAAAAAAAAAAAAAAAA, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HW(tt.u); got != tt.want {
				t.Errorf("HW(%#x) = %d, want %d", tt.u, got, tt.want)
			}
		})
	}
}

func TestHWMatchesSWARReference(t *testing.T) {
	vals := []uint64{0, 1, 2, 0xdeadbeef, 0x0123456789abcdef, 0xffffffffffffffff, 1 << 63}
	for _, v := range vals {
		if got, want := HW(v), swar64(v); got != want {
			t.Errorf("HW(%#x) = %d, swar64 = %d", v, got, want)
		}
	}
}

func TestHWVec(t *testing.T) {
	xs := []uint64{0, 1, 3, 7, 0xff}
	got := HWVec(xs)
	want := []uint32{0, 1, 2, 3, 8}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HWVec[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestHammingDistance(t *testing.T) {
	if d := HammingDistance(0b1010, 0b0110); d != 2 {
		t.Errorf("HammingDistance = %d, want 2", d)
	}
	if d := HammingDistance(5, 5); d != 0 {
		t.Errorf("HammingDistance(x,x) = %d, want 0", d)
	}
}
