// Package moments computes the d-th order biased population central
// moment of a leakage-trace subset, the statistic the bit-serial attack
// in internal/cdpa compares across partitions of the trace set.
//
// Grounded on the other_examples CPA attack's use of gonum/v1/gonum/stat
// (stat.Correlation there, stat.Mean/stat.Moment here) rather than a
// hand-rolled accumulator.
package moments

import "math"

import "gonum.org/v1/gonum/stat"

// Central returns E[(T-E[T])^d] over samples, the biased (population,
// not Bessel-corrected) central moment spec.md §4.3 calls for.
//
// d must be >= 1. Subsets with fewer than two samples carry no
// statistical signal; Central returns math.NaN() for them so callers can
// propagate the sentinel instead of dividing by a near-zero partition.
func Central(samples []float64, d int) float64 {
	if len(samples) < 2 {
		return math.NaN()
	}
	if d == 1 {
		return stat.Mean(samples, nil)
	}
	return stat.Moment(float64(d), samples, nil)
}

// Partition splits traces into two subsets according to keep, the
// bit-serial window predicate: keep[i] true sends traces[i] to the first
// subset, false to the second.
func Partition(traces []float64, keep []bool) (a, b []float64) {
	a = make([]float64, 0, len(traces))
	b = make([]float64, 0, len(traces))
	for i, t := range traces {
		if keep[i] {
			a = append(a, t)
		} else {
			b = append(b, t)
		}
	}
	return a, b
}

// Difference returns Central(a, d) - Central(b, d). If either subset is
// degenerate the result is NaN, which the caller treats as "no signal"
// rather than a guess to rank.
func Difference(a, b []float64, d int) float64 {
	return Central(a, d) - Central(b, d)
}
