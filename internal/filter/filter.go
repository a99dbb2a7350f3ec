// Package filter implements the filter pipeline (spec C8): canonicalize,
// dedupe, run the temporal engine, then gate each transaction on
// K-membership.
package filter

import (
	"sort"

	"github.com/rawblock/retirement-engine/internal/engine"
	"github.com/rawblock/retirement-engine/internal/txn"
	"github.com/rawblock/retirement-engine/pkg/models"
)

// ValidRecord is a transaction that cleared K-membership and carries a
// positive adjusted remanent.
type ValidRecord struct {
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Ceiling   float64 `json:"ceiling"`
	Remanent  float64 `json:"remanent"`
	InKPeriod bool    `json:"inKPeriod"`
}

// InvalidRecord is a rejected or malformed transaction with a reason.
type InvalidRecord struct {
	Date    string  `json:"date"`
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// Result holds the filter pipeline's two output lists. Valid is in input
// order; Invalid holds the canonicalization and duplicate rejections in
// input order, followed by the out-of-K rejections in input order.
type Result struct {
	Valid   []ValidRecord   `json:"valid"`
	Invalid []InvalidRecord `json:"invalid"`
}

// Run canonicalizes in synthesize mode, flags negative amounts and
// duplicate timestamps as invalid in the order they are encountered,
// runs the temporal engine over the surviving transactions, and then
// gates each on K-membership: outside all K ranges -> invalid; adjusted
// remanent <= 0 -> silently dropped; otherwise valid.
func Run(raws []models.RawTransaction, qRaw, pRaw, kRaw []models.Interval) Result {
	seen := txn.NewSeenSet()
	var result Result

	var good []models.Transaction

	for _, raw := range raws {
		tx, err := txn.Canonicalize(raw, false)
		if err != nil {
			msg := err.Error()
			if _, negative := err.(*txn.NegativeAmountError); negative {
				msg = "Negative amounts are not allowed"
			}
			result.Invalid = append(result.Invalid, InvalidRecord{
				Date: firstNonEmpty(raw.Date, raw.Timestamp), Amount: raw.Amount,
				Message: msg,
			})
			continue
		}

		if !seen.CheckAndMark(tx.Date) {
			result.Invalid = append(result.Invalid, InvalidRecord{
				Date: tx.Date, Amount: tx.Amount,
				Message: "Duplicate transaction",
			})
			continue
		}

		good = append(good, tx)
	}

	if len(good) == 0 {
		return result
	}

	engine.Adjust(good, qRaw, pRaw)

	merged := engine.MergeKRanges(kRaw)

	// K-membership must be evaluated against a non-decreasing epoch
	// sequence for the two-pointer walker (spec §4.8); good is still in
	// input order, so sort a parallel index view for the walk and apply
	// results back by original position.
	order := make([]int, len(good))
	for i := range order {
		order[i] = i
	}
	sortByEpoch(good, order)

	walker := engine.NewRangeWalker(merged)
	inK := make([]bool, len(good))
	for _, idx := range order {
		inK[idx] = walker.Contains(good[idx].Epoch)
	}

	for i, tx := range good {
		if !inK[i] {
			result.Invalid = append(result.Invalid, InvalidRecord{
				Date: tx.Date, Amount: tx.Amount,
				Message: "Transaction is outside all k evaluation ranges.",
			})
			continue
		}
		if tx.AdjustedRemanent == nil || *tx.AdjustedRemanent <= 0 {
			continue // silently dropped per spec §4.8
		}
		result.Valid = append(result.Valid, ValidRecord{
			Date:      tx.Date,
			Amount:    tx.Amount,
			Ceiling:   tx.Ceiling,
			Remanent:  *tx.AdjustedRemanent,
			InKPeriod: true,
		})
	}

	return result
}

func sortByEpoch(txs []models.Transaction, order []int) {
	sort.Slice(order, func(i, j int) bool { return txs[order[i]].Epoch < txs[order[j]].Epoch })
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
