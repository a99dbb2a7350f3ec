package engine

import (
	"math/rand"
	"testing"

	"github.com/rawblock/retirement-engine/pkg/models"
)

func mkTx(epoch int64, remanent float64) models.Transaction {
	return models.Transaction{Epoch: epoch, Remanent: remanent}
}

func mkInterval(startEpoch, endEpoch int64, index int, value float64) models.Interval {
	return models.Interval{StartEpoch: startEpoch, EndEpoch: endEpoch, Index: index, Value: value}
}

// TestQLatestStartWinsPExtraAdditive is spec §8 scenario 2: a single
// transaction under two overlapping Q-intervals and two overlapping
// P-intervals. 40 (latest-start Q) + 5 + 7 (both P extras) = 52.
func TestQLatestStartWinsPExtraAdditive(t *testing.T) {
	txs := []models.Transaction{mkTx(1686823200, 0)} // 2023-06-15 10:00:00 UTC
	qs := []models.Interval{
		mkInterval(1672531200, 1703980800, 0, 10), // 2023-01-01..2023-12-31
		mkInterval(1685577600, 1688083200, 1, 40),  // 2023-06-01..2023-06-30
	}
	ps := []models.Interval{
		mkInterval(1686355200, 1687219200, 0, 5), // 2023-06-10..2023-06-20
		mkInterval(1686528000, 1687046400, 1, 7),  // 2023-06-12..2023-06-18
	}

	result := Adjust(txs, qs, ps)
	if len(result.AdjustedRemanents) != 1 {
		t.Fatalf("expected 1 adjusted remanent, got %d", len(result.AdjustedRemanents))
	}
	if got := result.AdjustedRemanents[0]; got != 52.0 {
		t.Errorf("adjustedRemanent = %v, want 52.0", got)
	}
	if txs[0].AdjustedRemanent == nil || *txs[0].AdjustedRemanent != 52.0 {
		t.Errorf("Transaction.AdjustedRemanent not written correctly: %v", txs[0].AdjustedRemanent)
	}
}

func TestQTieBreakEarliestIndexWinsOnEqualStart(t *testing.T) {
	txs := []models.Transaction{mkTx(100, 0)}
	qs := []models.Interval{
		mkInterval(50, 200, 1, 99), // inserted second, should lose
		mkInterval(50, 200, 0, 11), // inserted first, same start: wins
	}
	result := Adjust(txs, qs, nil)
	if result.AdjustedRemanents[0] != 11 {
		t.Errorf("expected tie-break to favor earliest index (11), got %v", result.AdjustedRemanents[0])
	}
}

func TestQLaterStartWinsOverEarlierEvenIfInsertedLater(t *testing.T) {
	txs := []models.Transaction{mkTx(100, 0)}
	qs := []models.Interval{
		mkInterval(10, 200, 0, 1),  // earlier start
		mkInterval(90, 200, 1, 2), // later start, should win regardless of index
	}
	result := Adjust(txs, qs, nil)
	if result.AdjustedRemanents[0] != 2 {
		t.Errorf("expected later start_epoch to win (2), got %v", result.AdjustedRemanents[0])
	}
}

func TestNoActiveQKeepsBaseRemanent(t *testing.T) {
	txs := []models.Transaction{mkTx(500, 17.5)}
	qs := []models.Interval{mkInterval(1000, 2000, 0, 99)}
	result := Adjust(txs, qs, nil)
	if result.AdjustedRemanents[0] != 17.5 {
		t.Errorf("expected base remanent preserved (17.5), got %v", result.AdjustedRemanents[0])
	}
}

// TestBothStrategiesProduceIdenticalOverrides is spec §8's testable
// cross-strategy invariant, exercised directly (bypassing selectStrategy)
// across random interval sets.
func TestBothStrategiesProduceIdenticalOverrides(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(40)
		times := make([]int64, n)
		for i := range times {
			times[i] = int64(i * 10)
		}

		qCount := rng.Intn(30)
		qs := make([]qItem, qCount)
		for i := range qs {
			start := int64(rng.Intn(n * 10))
			end := start + int64(rng.Intn(n*10))
			qs[i] = qItem{startEpoch: start, endEpoch: end, index: i, value: float64(i)}
		}

		heapResult := solveHeap(times, qs)
		dsuResult := solveDSU(times, qs)

		for i := range times {
			if !sameOverride(heapResult[i], dsuResult[i]) {
				t.Fatalf("trial %d position %d: heap=%v dsu=%v diverge", trial, i, deref(heapResult[i]), deref(dsuResult[i]))
			}
		}
	}
}

func TestSelectStrategyTrivialCasesUseHeap(t *testing.T) {
	if s := selectStrategy(0, 0, nil); s != strategyHeap {
		t.Errorf("expected heap for empty inputs, got %v", s)
	}
	if s := selectStrategy(100, 10, make([]qItem, 10)); s != strategyHeap {
		t.Errorf("expected heap for small |Q|, got %v", s)
	}
}

func TestSelectStrategyPicksDSUOnHighDuplicateRatio(t *testing.T) {
	n := 10000
	qs := make([]qItem, 3000)
	for i := range qs {
		qs[i] = qItem{startEpoch: int64(i % 5), endEpoch: int64(i%5 + 100), index: i, value: 1}
	}
	s := selectStrategy(n, len(qs), qs)
	if s != strategyDSU {
		t.Errorf("expected DSU when bounds repeat heavily, got %v", s)
	}
}

func TestAdjustIsIdempotent(t *testing.T) {
	qs := []models.Interval{mkInterval(0, 1000, 0, 42)}
	txs1 := []models.Transaction{mkTx(500, 10)}
	txs2 := []models.Transaction{mkTx(500, 10)}

	r1 := Adjust(txs1, qs, nil)
	r2 := Adjust(txs2, qs, nil)

	if r1.AdjustedRemanents[0] != r2.AdjustedRemanents[0] {
		t.Errorf("running the engine twice on the same input diverged: %v vs %v", r1.AdjustedRemanents[0], r2.AdjustedRemanents[0])
	}
}

func TestMergeKRangesCoalescesOverlapAndTouching(t *testing.T) {
	ks := []models.Interval{
		mkInterval(100, 200, 0, 0),
		mkInterval(201, 300, 1, 0), // touches (gap of 1 second)
		mkInterval(500, 600, 2, 0), // disjoint
	}
	merged := MergeKRanges(ks)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged ranges, got %d: %+v", len(merged), merged)
	}
	if merged[0].start != 100 || merged[0].end != 300 {
		t.Errorf("expected first merged range [100,300], got %+v", merged[0])
	}
}

func TestRangeWalkerContains(t *testing.T) {
	w := NewRangeWalker([]mergedRange{{100, 200}, {500, 600}})
	cases := []struct {
		epoch int64
		want  bool
	}{
		{50, false},
		{100, true},
		{150, true},
		{250, false},
		{550, true},
		{700, false},
	}
	for _, c := range cases {
		if got := w.Contains(c.epoch); got != c.want {
			t.Errorf("Contains(%d) = %v, want %v", c.epoch, got, c.want)
		}
	}
}
