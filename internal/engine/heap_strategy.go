// Package engine implements the temporal adjustment engine (spec C5):
// Q-override resolution (two interchangeable strategies), the P-extra
// sweep, and the cost model that picks between the Q strategies.
package engine

import (
	"container/heap"
	"sort"
)

// qItem is a Q-interval queued for the heap strategy, shaped on
// daglabs-btcd/mining's txPrioItem: the payload plus whatever the
// compare function needs to order it.
type qItem struct {
	startEpoch int64
	endEpoch   int64
	index      int
	value      float64
}

// qHeap is a min-heap by (-startEpoch, index) so the top is the
// Q-interval with the latest start_epoch, ties broken by the smallest
// index (earliest insertion). Same heap.Interface shape as
// txPriorityQueue: Len/Less/Swap/Push/Pop on a plain slice.
type qHeap []qItem

func (h qHeap) Len() int { return len(h) }

func (h qHeap) Less(i, j int) bool {
	if h[i].startEpoch != h[j].startEpoch {
		return h[i].startEpoch > h[j].startEpoch // later start sorts first
	}
	return h[i].index < h[j].index // earlier index sorts first on tie
}

func (h qHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *qHeap) Push(x interface{}) {
	*h = append(*h, x.(qItem))
}

func (h *qHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// solveHeap implements spec §4.5.2's heap strategy: sort Q ascending by
// (start_epoch, index), then for every transaction (in ascending epoch
// order) push every interval whose start has arrived, lazily pop expired
// intervals off the top, and record whichever interval is left on top.
func solveHeap(times []int64, qs []qItem) []*float64 {
	sorted := append([]qItem(nil), qs...)
	sortQByStartAsc(sorted)

	overrides := make([]*float64, len(times))
	h := &qHeap{}
	heap.Init(h)

	next := 0
	for i, t := range times {
		for next < len(sorted) && sorted[next].startEpoch <= t {
			heap.Push(h, sorted[next])
			next++
		}

		// Lazy expiry: pop anything whose window has already closed
		// before this transaction's timestamp. Expired entries buried
		// below the top are simply discarded once they surface later.
		for h.Len() > 0 && (*h)[0].endEpoch < t {
			heap.Pop(h)
		}

		if h.Len() > 0 {
			v := (*h)[0].value
			overrides[i] = &v
		}
	}
	return overrides
}

func sortQByStartAsc(qs []qItem) {
	sort.Slice(qs, func(i, j int) bool {
		if qs[i].startEpoch != qs[j].startEpoch {
			return qs[i].startEpoch < qs[j].startEpoch
		}
		return qs[i].index < qs[j].index
	})
}
