package engine

import (
	"log"
	"os"
	"sort"

	"github.com/rawblock/retirement-engine/internal/money"
	"github.com/rawblock/retirement-engine/pkg/models"
)

// Result carries the per-transaction adjustment outputs, indexed by the
// same ascending-epoch order as the sorted input.
type Result struct {
	SortedEpochs      []int64
	AdjustedRemanents []float64
	StrategyUsed      string
}

// shadowVerify gates the dual-strategy divergence check (§4.5's shadow
// comparator, adapted from shadow_runner.go) behind an env var so routine
// requests pay only the selected strategy's cost; tests run solveHeap and solveDSU directly.
var shadowVerify = os.Getenv("ENGINE_SHADOW_VERIFY") == "1"

// Adjust is the temporal engine's entry point (spec §4.5). txs must
// already be canonical and is mutated in place: AdjustedRemanent is set
// on every element (the engine's one license to write into the
// canonicalizer's output, per spec §3's ownership rule). It is sorted
// internally by epoch; the Result carries the same sorted-by-epoch view
// for the K-aggregator's prefix sum (spec C6) to consume directly.
func Adjust(txs []models.Transaction, qRaw, pRaw []models.Interval) Result {
	order := make([]int, len(txs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return txs[order[i]].Epoch < txs[order[j]].Epoch })

	times := make([]int64, len(txs))
	baseRemanent := make([]float64, len(txs))
	for pos, idx := range order {
		times[pos] = txs[idx].Epoch
		baseRemanent[pos] = txs[idx].Remanent
	}

	qs := toQItems(qRaw)
	ps := toQItems(pRaw)

	var overrides []*float64
	var used strategy

	if shadowVerify {
		overrides, used = compareStrategies(times, qs)
	} else {
		used = selectStrategy(len(times), len(qs), qs)
		overrides = solve(used, times, qs)
	}

	extraSums := sweepPExtra(times, ps)

	adjusted := make([]float64, len(times))
	for i := range times {
		base := baseRemanent[i]
		if overrides[i] != nil {
			base = *overrides[i]
		}
		adjusted[i] = money.RoundFloat(money.FromFloat(base + extraSums[i]))
		v := adjusted[i]
		txs[order[i]].AdjustedRemanent = &v
	}

	return Result{
		SortedEpochs:      times,
		AdjustedRemanents: adjusted,
		StrategyUsed:      used.String(),
	}
}

func solve(s strategy, times []int64, qs []qItem) []*float64 {
	if s == strategyDSU {
		return solveDSU(times, qs)
	}
	return solveHeap(times, qs)
}

// compareStrategies runs both Q strategies and logs a divergence,
// adapted from shadow_runner.go's production-vs-shadow comparator: run
// both, diff, log on mismatch, never persist. The heap result is
// returned as the production answer; both are pure functions of the
// same inputs so this never changes output, only adds an observability
// pass (spec §8's cross-strategy invariant).
func compareStrategies(times []int64, qs []qItem) ([]*float64, strategy) {
	heapResult := solveHeap(times, qs)
	dsuResult := solveDSU(times, qs)

	for i := range heapResult {
		if !sameOverride(heapResult[i], dsuResult[i]) {
			log.Printf("[engine] shadow divergence at sorted position %d: heap=%v dsu=%v", i, deref(heapResult[i]), deref(dsuResult[i]))
		}
	}

	return heapResult, strategyHeap
}

func sameOverride(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func deref(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func toQItems(ivs []models.Interval) []qItem {
	out := make([]qItem, len(ivs))
	for i, iv := range ivs {
		out[i] = qItem{
			startEpoch: iv.StartEpoch,
			endEpoch:   iv.EndEpoch,
			index:      iv.Index,
			value:      iv.Value,
		}
	}
	return out
}
