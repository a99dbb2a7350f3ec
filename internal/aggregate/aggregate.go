// Package aggregate implements the K-aggregator (spec C6): prefix-sum
// range sums of adjusted remanents over each K-interval, preserving the
// K list's own input order in the output.
package aggregate

import (
	"sort"

	"github.com/rawblock/retirement-engine/pkg/models"
)

// ByKWindow computes prefix[0]=0, prefix[k+1]=prefix[k]+adjusted[k] over
// the epoch-sorted view (sortedEpochs/adjusted, as produced by
// engine.Adjust), then for each K-interval (in its own input order)
// emits the range sum via lower/upper bound lookups.
func ByKWindow(sortedEpochs []int64, adjusted []float64, ks []models.Interval) []models.KWindowResult {
	prefix := make([]float64, len(sortedEpochs)+1)
	for i, v := range adjusted {
		prefix[i+1] = prefix[i] + v
	}

	results := make([]models.KWindowResult, len(ks))
	for i, k := range ks {
		left := lowerBound(sortedEpochs, k.StartEpoch)
		right := upperBound(sortedEpochs, k.EndEpoch)
		results[i] = models.KWindowResult{
			Start:  k.Start,
			End:    k.End,
			Amount: prefix[right] - prefix[left],
		}
	}
	return results
}

func lowerBound(times []int64, target int64) int {
	return sort.Search(len(times), func(i int) bool { return times[i] >= target })
}

func upperBound(times []int64, target int64) int {
	return sort.Search(len(times), func(i int) bool { return times[i] > target })
}
