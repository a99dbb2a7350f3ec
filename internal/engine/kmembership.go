package engine

import (
	"sort"

	"github.com/rawblock/retirement-engine/pkg/models"
)

// mergedRange is a coalesced run of overlapping or touching K-intervals
// (gap <= 1 second), per spec §4.8.
type mergedRange struct {
	start, end int64
}

// MergeKRanges sorts K-intervals by start and coalesces any that overlap
// or are separated by at most one second, producing the union the filter
// pipeline tests membership against.
func MergeKRanges(ks []models.Interval) []mergedRange {
	if len(ks) == 0 {
		return nil
	}
	sorted := append([]models.Interval(nil), ks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartEpoch < sorted[j].StartEpoch })

	merged := []mergedRange{{sorted[0].StartEpoch, sorted[0].EndEpoch}}
	for _, k := range sorted[1:] {
		last := &merged[len(merged)-1]
		if k.StartEpoch <= last.end+1 {
			if k.EndEpoch > last.end {
				last.end = k.EndEpoch
			}
			continue
		}
		merged = append(merged, mergedRange{k.StartEpoch, k.EndEpoch})
	}
	return merged
}

// RangeWalker reports membership of epoch in the merged K union via a
// two-pointer walk: callers iterate epoch-sorted transactions and must
// pass a non-decreasing sequence of epochs across calls for the O(N+K)
// bound to hold (the cursor only advances).
type RangeWalker struct {
	ranges []mergedRange
	cursor int
}

func NewRangeWalker(ranges []mergedRange) *RangeWalker {
	return &RangeWalker{ranges: ranges}
}

func (w *RangeWalker) Contains(epoch int64) bool {
	for w.cursor < len(w.ranges) && w.ranges[w.cursor].end < epoch {
		w.cursor++
	}
	if w.cursor >= len(w.ranges) {
		return false
	}
	return epoch >= w.ranges[w.cursor].start && epoch <= w.ranges[w.cursor].end
}
