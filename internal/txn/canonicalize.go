// Package txn implements the canonicalizer (spec C3): the sole boundary
// that turns a loosely typed RawTransaction into a canonical Transaction.
// Downstream pipelines borrow its output read-only except for writing
// AdjustedRemanent.
package txn

import (
	"fmt"

	"github.com/rawblock/retirement-engine/internal/money"
	"github.com/rawblock/retirement-engine/internal/timeutil"
	"github.com/rawblock/retirement-engine/pkg/models"
	"github.com/shopspring/decimal"
)

const maxAmount = 500000

// ValidationError marks a failure that should surface as an HTTP 400 at
// the API boundary. The core stays HTTP-agnostic; only the api package
// translates this into a status code.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NegativeAmountError marks specifically the negative-amount rejection, so
// a caller needing a fixed user-facing substitute message (the filter
// pipeline) can distinguish it from every other canonicalization failure
// without string-matching the error text.
type NegativeAmountError struct {
	msg string
}

func (e *NegativeAmountError) Error() string { return e.msg }

// Canonicalize normalizes a raw record. In synthesize mode (strict=false)
// Ceiling/Remanent are derived from Amount. In strict mode both must be
// present on the input and are checked against the derived values within
// a 0.01 tolerance.
func Canonicalize(raw models.RawTransaction, strict bool) (models.Transaction, error) {
	dateStr := raw.Date
	if dateStr == "" {
		dateStr = raw.Timestamp
	}
	if dateStr == "" {
		return models.Transaction{}, invalid("transaction is missing a date/timestamp")
	}

	parsed, err := timeutil.Parse(dateStr)
	if err != nil {
		return models.Transaction{}, invalid("%v", err)
	}

	amount := money.FromFloat(raw.Amount)
	if amount.IsNegative() {
		return models.Transaction{}, &NegativeAmountError{msg: fmt.Sprintf("amount %s must be >= 0", amount.String())}
	}
	if !amount.LessThan(decimal.NewFromInt(maxAmount)) {
		return models.Transaction{}, invalid("amount %s must be < %d", amount.String(), maxAmount)
	}

	var ceiling, remanent decimal.Decimal

	if !strict {
		ceiling = money.NextMultipleOf100(amount)
		remanent = ceiling.Sub(amount)
	} else {
		if raw.Ceiling == nil || raw.Remanent == nil {
			return models.Transaction{}, invalid("ceiling and remanent are required in strict mode")
		}
		ceiling = money.FromFloat(*raw.Ceiling)
		remanent = money.FromFloat(*raw.Remanent)

		if ceiling.LessThan(amount) {
			return models.Transaction{}, invalid("ceiling %s must be >= amount %s", ceiling.String(), amount.String())
		}
		expectedCeiling := money.NextMultipleOf100(amount)
		if ceiling.Sub(expectedCeiling).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
			return models.Transaction{}, invalid("ceiling %s does not match the expected next multiple of 100 (%s)", ceiling.String(), expectedCeiling.String())
		}
		expectedRemanent := ceiling.Sub(amount)
		if remanent.Sub(expectedRemanent).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
			return models.Transaction{}, invalid("remanent %s does not equal ceiling - amount (%s)", remanent.String(), expectedRemanent.String())
		}
		if remanent.GreaterThan(decimal.NewFromInt(maxAmount)) {
			return models.Transaction{}, invalid("remanent %s exceeds %d", remanent.String(), maxAmount)
		}
	}

	return models.Transaction{
		Date:     parsed.Date,
		Epoch:    parsed.Epoch,
		Amount:   money.RoundFloat(amount),
		Ceiling:  money.RoundFloat(ceiling),
		Remanent: money.RoundFloat(remanent),
	}, nil
}

// SeenSet is a pipeline-owned duplicate-timestamp tracker. Each pipeline
// constructs its own; it is never shared across pipelines or requests
// (spec §5/§9).
type SeenSet struct {
	seen map[string]bool
}

// NewSeenSet returns an empty, request-scoped duplicate tracker.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]bool)}
}

// CheckAndMark returns true the first time a given normalized date is
// seen, and false (a duplicate) on every subsequent call for that date.
func (s *SeenSet) CheckAndMark(date string) bool {
	if s.seen[date] {
		return false
	}
	s.seen[date] = true
	return true
}
