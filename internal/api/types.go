package api

import "github.com/rawblock/retirement-engine/pkg/models"

// parseRequest accepts either a bare array of expenses or an object
// wrapping them under "expenses", matching the two shapes the original
// client is known to send (spec §6).
type parseRequest struct {
	Expenses []models.RawTransaction `json:"expenses"`
}

type validatorRequest struct {
	Wage          float64                 `json:"wage"`
	MaxInvestment *float64                `json:"maxInvestment,omitempty"`
	Transactions  []models.RawTransaction `json:"transactions"`
}

type filterRequest struct {
	Q            []models.RawInterval    `json:"q"`
	P            []models.RawInterval    `json:"p"`
	K            []models.RawInterval    `json:"k"`
	Transactions []models.RawTransaction `json:"transactions"`
}

type returnsRequest struct {
	Age          int                     `json:"age"`
	Wage         float64                 `json:"wage"`
	Inflation    float64                 `json:"inflation"`
	Q            []models.RawInterval    `json:"q"`
	P            []models.RawInterval    `json:"p"`
	K            []models.RawInterval    `json:"k"`
	Transactions []models.RawTransaction `json:"transactions"`
}
