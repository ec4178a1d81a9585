// Package popcount computes the Hamming weight of machine integers.
package popcount

import "math/bits"

// HW returns the number of set bits in u.
//
// bits.OnesCount64 compiles to a POPCNT instruction on hardware that
// has one; this is the "hardware intrinsic" alternative spec.md §4.1
// allows in place of a hand-rolled SWAR reduction.
func HW(u uint64) uint32 {
	return uint32(bits.OnesCount64(u))
}

// HWVec applies HW element-wise over xs.
func HWVec(xs []uint64) []uint32 {
	ys := make([]uint32, len(xs))
	for i, x := range xs {
		ys[i] = HW(x)
	}
	return ys
}

// swar64 is the bit-parallel SWAR popcount from the original reference
// (cdpa_trace_generation.py's hd), applied to a single operand: mask,
// pair-sum, nibble-sum, then a single multiply-and-shift horizontal
// reduction. Kept only so HW's hardware-intrinsic result can be
// cross-checked against the reference algorithm in tests.
func swar64(u uint64) uint32 {
	const (
		m1 = 0x5555555555555555
		m2 = 0x3333333333333333
		m4 = 0x0f0f0f0f0f0f0f0f
		h01 = 0x0101010101010101
	)
	u -= (u >> 1) & m1
	u = (u & m2) + ((u >> 2) & m2)
	u = (u + (u >> 4)) & m4
	return uint32((u * h01) >> 56)
}

// HammingDistance returns HW(x ^ y), the number of differing bits.
func HammingDistance(x, y uint64) uint32 {
	return HW(x ^ y)
}
