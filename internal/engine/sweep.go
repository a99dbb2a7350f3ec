package engine

import "sort"

// pEvent is one entry of the two sorted event streams spec §4.5.1
// describes: a start event adds `extra`, an end event (keyed one second
// past end_epoch) subtracts it back out.
type pEvent struct {
	at    int64
	delta float64
}

// sweepPExtra computes extraSum_i for every transaction in times (which
// must already be sorted ascending) by walking a single merged event
// stream and applying every event with key <= epoch_i before recording
// the running sum.
func sweepPExtra(times []int64, ps []qItem) []float64 {
	events := make([]pEvent, 0, 2*len(ps))
	for _, p := range ps {
		events = append(events, pEvent{at: p.startEpoch, delta: p.value})
		events = append(events, pEvent{at: p.endEpoch + 1, delta: -p.value})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].at < events[j].at })

	out := make([]float64, len(times))
	running := 0.0
	ei := 0
	for i, t := range times {
		for ei < len(events) && events[ei].at <= t {
			running += events[ei].delta
			ei++
		}
		out[i] = running
	}
	return out
}
