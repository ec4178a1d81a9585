// Package cdpa implements the bit-serial Chain-DPA attack: given public
// data words and their masked Hamming-distance leakage traces, recover
// the secret pair (X, Y) one bit at a time.
//
// Grounded step-for-step on cdpa_attack.py's cdpa_attack: step 0 splits
// the trace set on the LSB of data and guesses x0^y0 from the sign of
// the moment difference; each subsequent step partitions on a 2-bit
// window of (data+x) and ranks the four resulting moments by the
// largest-magnitude second difference ("leap") to recover the next bit
// of x and the next bit of x^y.
package cdpa

import (
	"chaindpa/internal/moments"
)

// Diagnostics mirrors the Python reference's moment_trace/leaps_trace,
// captured for internal/diagview's table and trace-listing output. Left
// nil by Attack callers that only want the recovered secrets.
type Diagnostics struct {
	// Step0Moments holds the two moments from the LSB split.
	Step0Moments [2]float64
	// StepMoments[i] holds the four moments from step i+1's 2-bit
	// window split (i.e. the loop iteration with carry index i).
	StepMoments [][4]float64
	// Leaps[i] holds the two second-difference leaps from the same
	// iteration.
	Leaps [][2]float64
}

// Result is the recovered secret pair plus, if requested, the
// per-step diagnostics that produced it.
type Result struct {
	X, Y  uint64
	Diag  *Diagnostics
}

// Attack recovers (X, Y) from data and their corresponding traces.
// shareCount must match the number of shares the traces were generated
// with (it selects the order of the central moment compared at each
// step); bitCount is the bit width of X, Y and every element of data.
//
// When wantDiag is true the returned Result carries a populated Diag
// for reporting; the extra bookkeeping is skipped otherwise.
func Attack(data []uint64, traces []float64, bitCount, shareCount int, wantDiag bool) Result {
	var diag *Diagnostics
	if wantDiag {
		diag = &Diagnostics{
			StepMoments: make([][4]float64, 0, bitCount-1),
			Leaps:       make([][2]float64, 0, bitCount-1),
		}
	}

	// Step 0: split on data's LSB.
	step0 := splitTwo(data, traces, func(w uint64) int { return int(w & 1) })
	m0 := centralMoment(step0[0], shareCount)
	m1 := centralMoment(step0[1], shareCount)
	if diag != nil {
		diag.Step0Moments = [2]float64{m0, m1}
	}

	var x, y uint64
	if (m0 < m1) != (shareCount&1 == 1) {
		y = 1
	}

	for i := 0; i < bitCount-1; i++ {
		shift := uint(i)
		parts := splitFour(data, traces, func(w uint64) int {
			return int(((w + x) >> shift) & 3)
		})
		var mo [4]float64
		for j := 0; j < 4; j++ {
			mo[j] = centralMoment(parts[j], shareCount)
		}
		leap0 := mo[0] - mo[1] - mo[2] + mo[3]
		leap1 := mo[1] - mo[2] - mo[3] + mo[0]
		if diag != nil {
			diag.StepMoments = append(diag.StepMoments, mo)
			diag.Leaps = append(diag.Leaps, [2]float64{leap0, leap1})
		}

		bit0 := uint64(0)
		if abs(leap0) > abs(leap1) {
			bit0 = 1
		}
		other := leap1
		if bit0 == 1 {
			other = leap0
		}
		bit1 := uint64(0)
		if (other < 0) != (shareCount&1 == 1) {
			bit1 = 1
		}
		caseVal := bit0 + (bit1 << 1)
		x ^= bit0 << shift
		y ^= caseVal << shift
	}

	return Result{X: x, Y: y, Diag: diag}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// centralMoment returns the population moment of order shareCount, or
// the mean when shareCount <= 1 (matching the Python reference's
// `np.average` fallback for the unmasked, single-share case).
func centralMoment(traces []float64, shareCount int) float64 {
	if shareCount > 1 {
		return moments.Central(traces, shareCount)
	}
	return moments.Central(traces, 1)
}

func splitTwo(data []uint64, traces []float64, key func(uint64) int) [2][]float64 {
	var out [2][]float64
	for i, w := range data {
		k := key(w)
		out[k] = append(out[k], traces[i])
	}
	return out
}

func splitFour(data []uint64, traces []float64, key func(uint64) int) [4][]float64 {
	var out [4][]float64
	for i, w := range data {
		k := key(w)
		out[k] = append(out[k], traces[i])
	}
	return out
}
