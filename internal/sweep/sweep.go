// Package sweep drives the trace-count exponent sweep that produces
// res.csv, lsb.csv and bit.csv: for every (bit_count, share_count,
// noise) triple it runs increasingly large experiments until the
// recovery rate clears 99%, skipping exponents below a sliding lower
// bound once the signal is too weak to register.
//
// The schedule is reproduced verbatim from cdpa_stats.py: experiment
// count E = 2^min(floor((34-t_exp)/2), 10), lower bound advances by one
// exponent whenever lsb_rate < 2, and the row stops early once
// result_rate exceeds 99.
package sweep

import "chaindpa/internal/harness"

// MinTraceExp and MaxTraceExp bound the trace-count exponent columns,
// matching the original's range(6, 21) (trace counts 2^6 .. 2^20).
const (
	MinTraceExp = 6
	MaxTraceExp = 20
)

// Point identifies one (bit_count, share_count, noise) sweep row.
type Point struct {
	BitCount   int
	ShareCount int
	Noise      float64
}

// Cell is one column of a row: the result for a single trace-count
// exponent, or an empty cell for exponents skipped by the sliding lower
// bound.
type Cell struct {
	TraceExp   int
	Computed   bool
	ResultRate float64
	LSBRate    float64
	BitRate    float64
}

// Row is one sweep point's full set of columns from MinTraceExp to
// MaxTraceExp. Once the row stops early on a >99% result rate, the
// remaining columns are present but left uncomputed.
type Row struct {
	Point Point
	Cells []Cell
}

// ExperimentCount implements the schedule E = 2^min(floor((34-t_exp)/2), 10).
func ExperimentCount(traceExp int) int {
	shift := (34 - traceExp) >> 1
	if shift > 10 {
		shift = 10
	}
	if shift < 0 {
		shift = 0
	}
	return 1 << uint(shift)
}

// Progress is called after every computed cell, before CSV rows are
// written out, so a caller (the CLI) can print live status the way the
// original script does.
type Progress func(p Point, traceExp, experimentCount int, resultRate, lsbRate, bitRate float64)

// Run sweeps every point in points, returning one Row per point.
//
// The sliding lower bound (start) is reproduced verbatim from
// cdpa_stats.py: it resets to MinTraceExp only when (bit_count,
// share_count) changes from the previous point, and otherwise carries
// across the noise loop, so a noisy row inherits the lower bound a
// quieter row at the same (b, d) already established.
func Run(points []Point, onProgress Progress) ([]Row, error) {
	rows := make([]Row, 0, len(points))
	start := MinTraceExp
	var prevBitCount, prevShareCount int
	havePrev := false
	for _, p := range points {
		if !havePrev || p.BitCount != prevBitCount || p.ShareCount != prevShareCount {
			start = MinTraceExp
			prevBitCount, prevShareCount = p.BitCount, p.ShareCount
			havePrev = true
		}
		row := Row{Point: p, Cells: make([]Cell, 0, MaxTraceExp-MinTraceExp+1)}
		stopped := false
		for traceExp := MinTraceExp; traceExp <= MaxTraceExp; traceExp++ {
			if traceExp < start || stopped {
				row.Cells = append(row.Cells, Cell{TraceExp: traceExp})
				continue
			}
			experimentCount := ExperimentCount(traceExp)
			traceCount := 1 << uint(traceExp)

			summary, err := harness.Run(traceCount, p.BitCount, p.ShareCount, experimentCount, nil, p.Noise, false)
			if err != nil {
				return nil, err
			}
			if onProgress != nil {
				onProgress(p, traceExp, experimentCount, summary.ResultRate, summary.LSBRate, summary.BitRate)
			}
			if summary.LSBRate < 2 {
				start++
			}
			row.Cells = append(row.Cells, Cell{
				TraceExp:   traceExp,
				Computed:   true,
				ResultRate: summary.ResultRate,
				LSBRate:    summary.LSBRate,
				BitRate:    summary.BitRate,
			})
			if summary.ResultRate > 99 {
				stopped = true
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DefaultPoints reproduces the original driver's fixed sweep grid:
// bit widths {32, 64}, share counts {1, 2, 3}, and the noise levels
// {0, 4, 8, 16, 32, 64, 128}.
func DefaultPoints() []Point {
	bitCounts := []int{32, 64}
	shareCounts := []int{1, 2, 3}
	noises := []float64{0, 4, 8, 16, 32, 64, 128}

	points := make([]Point, 0, len(bitCounts)*len(shareCounts)*len(noises))
	for _, b := range bitCounts {
		for _, d := range shareCounts {
			for _, n := range noises {
				points = append(points, Point{BitCount: b, ShareCount: d, Noise: n})
			}
		}
	}
	return points
}
