package returns

import "github.com/shopspring/decimal"

// slab is one piecewise-linear bracket of the tax schedule: ceiling is
// the upper bound of income this bracket applies to (unused for the top,
// open-ended bracket, which has hasCeiling=false), base is the tax already owed at the bracket's
// floor, rate is the marginal rate applied to income above floor.
type slab struct {
	floor, ceiling decimal.Decimal
	hasCeiling     bool
	base           decimal.Decimal
	rate           decimal.Decimal
}

var taxSlabs = buildTaxSlabs()

func buildTaxSlabs() []slab {
	d := decimal.NewFromInt
	pct := func(p int64) decimal.Decimal { return decimal.NewFromInt(p).Div(decimal.NewFromInt(100)) }

	return []slab{
		{floor: d(0), ceiling: d(700000), hasCeiling: true, base: d(0), rate: pct(0)},
		{floor: d(700000), ceiling: d(1000000), hasCeiling: true, base: d(0), rate: pct(10)},
		{floor: d(1000000), ceiling: d(1200000), hasCeiling: true, base: d(30000), rate: pct(15)},
		{floor: d(1200000), ceiling: d(1500000), hasCeiling: true, base: d(60000), rate: pct(20)},
		{floor: d(1500000), hasCeiling: false, base: d(120000), rate: pct(30)},
	}
}

// tax computes the five-slab piecewise-linear tax owed on annualIncome
// (spec §4.9): <=700k -> 0; <=1M -> 10% of excess over 700k; <=1.2M ->
// 30000 + 15% over 1M; <=1.5M -> 60000 + 20% over 1.2M; else 120000 + 30%
// over 1.5M.
func tax(annualIncome decimal.Decimal) decimal.Decimal {
	if annualIncome.IsNegative() {
		return decimal.Zero
	}
	for _, s := range taxSlabs {
		if !s.hasCeiling || annualIncome.LessThanOrEqual(s.ceiling) {
			excess := annualIncome.Sub(s.floor)
			if excess.IsNegative() {
				excess = decimal.Zero
			}
			return s.base.Add(excess.Mul(s.rate))
		}
	}
	// unreachable: the final slab has hasCeiling=false
	return decimal.Zero
}

// npsTaxBenefit computes the NPS deduction's tax saving (spec §4.9):
// annualIncome = 12*wage; deduction = min(amount, 10% of annualIncome,
// 200000); benefit = tax(annualIncome) - tax(annualIncome - deduction).
func npsTaxBenefit(amount, wageMonthly decimal.Decimal) decimal.Decimal {
	annualIncome := wageMonthly.Mul(decimal.NewFromInt(12))

	deduction := amount
	tenPercent := annualIncome.Mul(decimal.NewFromFloat(0.10))
	if tenPercent.LessThan(deduction) {
		deduction = tenPercent
	}
	cap := decimal.NewFromInt(200000)
	if cap.LessThan(deduction) {
		deduction = cap
	}
	if deduction.IsNegative() {
		deduction = decimal.Zero
	}

	return tax(annualIncome).Sub(tax(annualIncome.Sub(deduction)))
}
