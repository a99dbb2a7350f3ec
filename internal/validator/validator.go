// Package validator implements the validator pipeline (spec C7): strict
// canonicalization followed by a cumulative-investment cap walk in input
// order.
package validator

import (
	"fmt"

	"github.com/rawblock/retirement-engine/internal/txn"
	"github.com/rawblock/retirement-engine/pkg/models"
)

const capTolerance = 1e-9

// Record pairs a canonical transaction with an optional rejection
// reason, the shape of every entry in the validator pipeline's response
// body.
type Record struct {
	models.Transaction
	Message string `json:"message,omitempty"`
}

// Result partitions the batch into valid, invalid, and duplicate
// records. Valid and Duplicates are in input order; Invalid holds the
// structural rejections in input order, followed by the cumulative-cap
// rejections in input order.
type Result struct {
	Valid      []Record `json:"valid"`
	Invalid    []Record `json:"invalid"`
	Duplicates []Record `json:"duplicates"`
}

// Run canonicalizes every raw record in strict mode, rejects structural
// mismatches, detects duplicate timestamps (first-seen-wins), and then
// walks the structurally valid, non-duplicate candidates in input order,
// rejecting each one whose remanent would push the running total over the
// cumulative cap and accepting every other one.
// defaultCapMultiple sets the fallback cap (defaultCapMultiple * wage)
// used when maxInvestment is omitted.
func Run(raws []models.RawTransaction, wage float64, maxInvestment *float64, defaultCapMultiple float64) (Result, error) {
	if wage < 0 {
		return Result{}, fmt.Errorf("Wage cannot be negative.")
	}
	if maxInvestment != nil && *maxInvestment < 0 {
		return Result{}, fmt.Errorf("Maximum investment cannot be negative.")
	}

	cap := defaultCapMultiple * wage
	if maxInvestment != nil {
		cap = *maxInvestment
	}

	seen := txn.NewSeenSet()
	var result Result

	type candidate struct {
		tx models.Transaction
	}
	var candidates []candidate

	for _, raw := range raws {
		tx, err := txn.Canonicalize(raw, true)
		if err != nil {
			result.Invalid = append(result.Invalid, Record{Transaction: asPartial(raw), Message: err.Error()})
			continue
		}

		if !seen.CheckAndMark(tx.Date) {
			result.Duplicates = append(result.Duplicates, Record{Transaction: tx, Message: "Duplicate transaction"})
			continue
		}

		candidates = append(candidates, candidate{tx: tx})
	}

	running := 0.0
	for _, c := range candidates {
		if running+c.tx.Remanent > cap+capTolerance {
			result.Invalid = append(result.Invalid, Record{
				Transaction: c.tx,
				Message:     "Cumulative investment cap exceeded",
			})
			continue
		}
		running += c.tx.Remanent
		result.Valid = append(result.Valid, Record{Transaction: c.tx})
	}

	return result, nil
}

// asPartial builds a best-effort Transaction for an invalid record's
// response entry (canonicalization failed, so only the fields the client
// actually sent are meaningful).
func asPartial(raw models.RawTransaction) models.Transaction {
	tx := models.Transaction{Date: raw.Date, Amount: raw.Amount}
	if tx.Date == "" {
		tx.Date = raw.Timestamp
	}
	if raw.Ceiling != nil {
		tx.Ceiling = *raw.Ceiling
	}
	if raw.Remanent != nil {
		tx.Remanent = *raw.Remanent
	}
	return tx
}
