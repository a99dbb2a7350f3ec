package engine

import "sort"

// nextUnassigned is a disjoint-set over positions 0..n (n is a sentinel
// "off the end" marker), repurposed from cluster_engine.go's weighted
// union-find: there parent[addr]=addr roots an address cluster; here
// parent[i]=i roots "the smallest unassigned position >= i". Every union
// here is directional (i is linked to i+1 once assigned), so the
// union-by-rank bookkeeping the address clustering needs is dropped —
// only path-compressed Find survives.
type nextUnassigned struct {
	parent []int
}

func newNextUnassigned(n int) *nextUnassigned {
	parent := make([]int, n+1)
	for i := range parent {
		parent[i] = i
	}
	return &nextUnassigned{parent: parent}
}

// find returns the smallest unassigned position >= i, with path
// compression so repeated lookups over an already-assigned run are
// amortized O(alpha(n)).
func (u *nextUnassigned) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// assign marks position i as taken by linking it to i+1.
func (u *nextUnassigned) assign(i int) {
	u.parent[i] = i + 1
}

// boundsKey caches a (start_epoch, end_epoch) -> (left, right) binary
// search result, since heavily repeated bounds across the Q set are one of
// the conditions that select the DSU path (spec §4.5.3). Left unbounded per §9's open
// question: growth tracks |Q|'s distinct bounds, not capped here.
type boundsKey struct {
	start, end int64
}

// solveDSU implements spec §4.5.2's DSU strategy: sort Q by
// (-start_epoch, index) so the highest-priority interval (latest start,
// earliest index on ties) is processed first, then for each interval
// walk forward from the smallest unassigned position in its range,
// assigning its value to every unassigned slot and skipping past
// already-assigned ones via the union-find.
func solveDSU(times []int64, qs []qItem) []*float64 {
	n := len(times)
	overrides := make([]*float64, n)
	if n == 0 || len(qs) == 0 {
		return overrides
	}

	sorted := append([]qItem(nil), qs...)
	sortQByStartDesc(sorted)

	u := newNextUnassigned(n)
	cache := make(map[boundsKey][2]int)
	remaining := n

	for _, q := range sorted {
		if remaining == 0 {
			break
		}
		key := boundsKey{q.startEpoch, q.endEpoch}
		bounds, ok := cache[key]
		if !ok {
			left := lowerBound(times, q.startEpoch)
			right := upperBound(times, q.endEpoch) - 1
			bounds = [2]int{left, right}
			cache[key] = bounds
		}
		left, right := bounds[0], bounds[1]
		if left > right {
			continue
		}

		value := q.value
		pos := u.find(left)
		for pos <= right {
			overrides[pos] = &value
			u.assign(pos)
			remaining--
			pos = u.find(pos + 1)
		}
	}

	return overrides
}

func sortQByStartDesc(qs []qItem) {
	sort.Slice(qs, func(i, j int) bool {
		if qs[i].startEpoch != qs[j].startEpoch {
			return qs[i].startEpoch > qs[j].startEpoch
		}
		return qs[i].index < qs[j].index
	})
}

// lowerBound returns the first index in the ascending-sorted times with
// times[idx] >= target.
func lowerBound(times []int64, target int64) int {
	lo, hi := 0, len(times)
	for lo < hi {
		mid := (lo + hi) / 2
		if times[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first index in the ascending-sorted times with
// times[idx] > target.
func upperBound(times []int64, target int64) int {
	lo, hi := 0, len(times)
	for lo < hi {
		mid := (lo + hi) / 2
		if times[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
