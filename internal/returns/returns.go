// Package returns implements the returns pipeline (spec C9): silently
// drop invalid/duplicate records, run the temporal engine, aggregate by
// K, then project nominal and real investment returns per K-window.
package returns

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/rawblock/retirement-engine/internal/aggregate"
	"github.com/rawblock/retirement-engine/internal/engine"
	"github.com/rawblock/retirement-engine/internal/money"
	"github.com/rawblock/retirement-engine/internal/txn"
	"github.com/rawblock/retirement-engine/pkg/models"
	"github.com/shopspring/decimal"
)

// Instrument selects the annual nominal rate and whether an NPS tax
// benefit applies.
type Instrument int

const (
	InstrumentNPS Instrument = iota
	InstrumentIndex
)

const (
	npsAnnualRate   = 0.0711
	indexAnnualRate = 0.1449
)

// ErrNoValidTransactions is returned when canonicalization/dedup leaves
// nothing to project, matching spec §4.9's contract.
var ErrNoValidTransactions = errors.New("No valid transactions available for returns calculation.")

// Projection is a single K-window's return projection.
type Projection struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Amount     float64 `json:"amount"`
	Profits    float64 `json:"profits"`
	TaxBenefit float64 `json:"taxBenefit"`
}

// Totals summarizes the whole batch alongside the per-window
// projections.
type Totals struct {
	TransactionsTotalAmount  float64      `json:"transactionsTotalAmount"`
	TransactionsTotalCeiling float64      `json:"transactionsTotalCeiling"`
	SavingsByDates           []Projection `json:"savingsByDates"`
}

// Run canonicalizes (synthesize mode, amount/timestamp only), silently
// drops invalid and duplicate records (logging a count), fails if none
// remain, runs the temporal engine, aggregates by K, and projects
// nominal/real returns per window.
func Run(raws []models.RawTransaction, age int, wage, inflation float64, instrument Instrument, qRaw, pRaw, kRaw []models.Interval) (Totals, error) {
	if age < 0 {
		return Totals{}, fmt.Errorf("Age cannot be negative.")
	}
	if wage < 0 {
		return Totals{}, fmt.Errorf("Wage cannot be negative.")
	}
	if inflation < 0 {
		return Totals{}, fmt.Errorf("inflation must be >= 0")
	}
	normalizedInflation := inflation
	if normalizedInflation > 1.0 {
		normalizedInflation /= 100
	}

	seen := txn.NewSeenSet()
	var good []models.Transaction
	dropped := 0

	var totalAmount, totalCeiling float64

	for _, raw := range raws {
		tx, err := txn.Canonicalize(raw, false)
		if err != nil {
			dropped++
			continue
		}
		if !seen.CheckAndMark(tx.Date) {
			dropped++
			continue
		}
		good = append(good, tx)
		totalAmount += tx.Amount
		totalCeiling += tx.Ceiling
	}

	if dropped > 0 {
		log.Printf("[returns] dropped %d invalid/duplicate transaction(s) before projection", dropped)
	}

	if len(good) == 0 {
		return Totals{}, ErrNoValidTransactions
	}

	result := engine.Adjust(good, qRaw, pRaw)
	windows := aggregate.ByKWindow(result.SortedEpochs, result.AdjustedRemanents, kRaw)

	years := 5
	if age < 60 {
		years = 60 - age
	}

	rate := npsAnnualRate
	if instrument == InstrumentIndex {
		rate = indexAnnualRate
	}

	projections := make([]Projection, len(windows))
	for i, w := range windows {
		amount := decimal.NewFromFloat(w.Amount)
		nominal := compound(amount, rate, years)
		real := nominal.Div(inflationFactor(normalizedInflation, years))
		profit := real.Sub(amount)

		taxBenefit := decimal.Zero
		if instrument == InstrumentNPS {
			taxBenefit = npsTaxBenefit(amount, decimal.NewFromFloat(wage))
		}

		projections[i] = Projection{
			Start:      w.Start,
			End:        w.End,
			Amount:     money.RoundFloat(amount),
			Profits:    money.RoundFloat(profit),
			TaxBenefit: money.RoundFloat(taxBenefit),
		}
	}

	return Totals{
		TransactionsTotalAmount:  money.RoundFloat(decimal.NewFromFloat(totalAmount)),
		TransactionsTotalCeiling: money.RoundFloat(decimal.NewFromFloat(totalCeiling)),
		SavingsByDates:           projections,
	}, nil
}

// compound returns amount * (1 + rate)^years using float64 exponentiation
// (compounding is not a threshold-sensitive boundary the way tax slabs
// and ceiling rounding are, so math.Pow is adequate here; the result is
// immediately folded back into decimal for the final two-place round).
func compound(amount decimal.Decimal, rate float64, years int) decimal.Decimal {
	factor := math.Pow(1+rate, float64(years))
	return amount.Mul(decimal.NewFromFloat(factor))
}

func inflationFactor(inflation float64, years int) decimal.Decimal {
	return decimal.NewFromFloat(math.Pow(1+inflation, float64(years)))
}
