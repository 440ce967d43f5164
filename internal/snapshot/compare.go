package snapshot

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Delta is a grouping key whose count changed between two snapshots.
type Delta struct {
	Key     string
	Base    int
	Against int
}

// Change is Against minus Base.
func (delta Delta) Change() int {
	return delta.Against - delta.Base
}

// Compare returns the keys whose counts differ, sorted by key.
// Keys with equal counts on both sides are left out.
func Compare(base, against *Tally) []Delta {
	keys := make(map[string]struct{}, len(base.Counts)+len(against.Counts))
	for key := range base.Counts {
		keys[key] = struct{}{}
	}

	for key := range against.Counts {
		keys[key] = struct{}{}
	}

	var deltas []Delta

	for _, key := range slices.Sorted(maps.Keys(keys)) {
		baseCount, againstCount := base.Counts[key], against.Counts[key]
		if baseCount == againstCount {
			continue
		}

		deltas = append(deltas, Delta{Key: key, Base: baseCount, Against: againstCount})
	}

	return deltas
}

// Summary aggregates a comparison.
type Summary struct {
	BaseTotal    int
	AgainstTotal int
	Changed      int
	Added        int
	Removed      int
	MeanChange   float64
	StdDevChange float64
	// Largest per-key increase and decrease, zero when there is none.
	MaxIncrease int
	MaxDecrease int
}

// Net is the overall change in diagnostic count.
func (summary Summary) Net() int {
	return summary.AgainstTotal - summary.BaseTotal
}

// Summarize computes totals and the spread of per-key changes.
func Summarize(base, against *Tally, deltas []Delta) Summary {
	summary := Summary{
		BaseTotal:    base.Records,
		AgainstTotal: against.Records,
		Changed:      len(deltas),
	}

	if len(deltas) == 0 {
		return summary
	}

	changes := make([]float64, 0, len(deltas))

	for _, delta := range deltas {
		changes = append(changes, float64(delta.Change()))

		switch {
		case delta.Base == 0:
			summary.Added++
		case delta.Against == 0:
			summary.Removed++
		}
	}

	summary.MeanChange = stat.Mean(changes, nil)
	summary.MaxIncrease = int(max(floats.Max(changes), 0))
	summary.MaxDecrease = int(min(floats.Min(changes), 0))

	if len(changes) > 1 {
		summary.StdDevChange = stat.StdDev(changes, nil)
	}

	return summary
}
