package engine

import "math"

// strategy names the two interchangeable Q-override algorithms, purely
// for observability (spec §4.5.3: "the selection is observational and
// does not affect output").
type strategy int

const (
	strategyHeap strategy = iota
	strategyDSU
)

func (s strategy) String() string {
	if s == strategyDSU {
		return "dsu"
	}
	return "heap"
}

const dsuSampleLimit = 4096
const dsuDuplicateRatioThreshold = 0.25
const heapHysteresis = 0.85

// selectStrategy implements spec §4.5.3's cheap heuristic: trivial cases
// and small Q sets always use the heap; for larger sets, a sampled
// duplicate-bounds ratio favors DSU when bounds repeat heavily, and
// otherwise a cost estimate comparison (with hysteresis favoring heap)
// decides.
func selectStrategy(n, qCount int, qs []qItem) strategy {
	if qCount == 0 || n == 0 {
		return strategyHeap
	}
	if qCount < 2048 {
		return strategyHeap
	}

	if duplicateRatio(qs) >= dsuDuplicateRatioThreshold {
		return strategyDSU
	}

	logQ := math.Log2(float64(qCount))
	heapCost := (2*float64(qCount) + float64(n)) * logQ
	dsuCost := float64(qCount)*math.Log2(float64(n)) + float64(n)

	if heapHysteresis*dsuCost < heapCost {
		return strategyDSU
	}
	return strategyHeap
}

// duplicateRatio samples up to dsuSampleLimit Q-intervals and returns the
// fraction whose (start_epoch, end_epoch) bounds repeat within the
// sample.
func duplicateRatio(qs []qItem) float64 {
	sample := qs
	if len(sample) > dsuSampleLimit {
		sample = sample[:dsuSampleLimit]
	}
	if len(sample) == 0 {
		return 0
	}

	seen := make(map[boundsKey]int, len(sample))
	for _, q := range sample {
		seen[boundsKey{q.startEpoch, q.endEpoch}]++
	}

	duplicates := 0
	for _, count := range seen {
		if count > 1 {
			duplicates += count
		}
	}
	return float64(duplicates) / float64(len(sample))
}
