package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rawblock/retirement-engine/internal/filter"
	"github.com/rawblock/retirement-engine/internal/periods"
	"github.com/rawblock/retirement-engine/internal/returns"
	"github.com/rawblock/retirement-engine/internal/txn"
	"github.com/rawblock/retirement-engine/internal/validator"
	"github.com/rawblock/retirement-engine/pkg/models"
)

// badRequest logs the failure alongside a per-request correlation id and
// writes the {detail: "..."} shape spec §6 requires, without persisting
// anything about the request.
func badRequest(c *gin.Context, err error) {
	requestID := uuid.NewString()
	log.Printf("[api] request=%s 400: %v", requestID, err)
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

// buildPeriods materializes the three interval families from their raw
// wire form, failing fast on the first invalid one.
func buildPeriods(qRaw, pRaw, kRaw []models.RawInterval) (q, p, k []models.Interval, err error) {
	if q, err = periods.Build(qRaw, models.KindQ); err != nil {
		return nil, nil, nil, err
	}
	if p, err = periods.Build(pRaw, models.KindP); err != nil {
		return nil, nil, nil, err
	}
	if k, err = periods.Build(kRaw, models.KindK); err != nil {
		return nil, nil, nil, err
	}
	return q, p, k, nil
}

// handleParse canonicalizes a bare batch of expenses, accepting either
// `{"expenses": [...]}` or a top-level JSON array (spec §6).
func (h *APIHandler) handleParse(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}

	var raws []models.RawTransaction
	var wrapped parseRequest
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Expenses != nil {
		raws = wrapped.Expenses
	} else if err := json.Unmarshal(body, &raws); err != nil {
		badRequest(c, err)
		return
	}

	out := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		tx, err := txn.Canonicalize(raw, false)
		if err != nil {
			badRequest(c, err)
			return
		}
		out = append(out, tx)
	}

	c.JSON(http.StatusOK, out)
}

// handleValidator runs the strict-mode validator pipeline (spec §4.7).
func (h *APIHandler) handleValidator(c *gin.Context) {
	var req validatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := validator.Run(req.Transactions, req.Wage, req.MaxInvestment, h.defaultCapMultiple)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleFilter runs the temporal engine and K-membership filter pipeline
// (spec §4.8).
func (h *APIHandler) handleFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	q, p, k, err := buildPeriods(req.Q, req.P, req.K)
	if err != nil {
		badRequest(c, err)
		return
	}

	result := filter.Run(req.Transactions, q, p, k)
	c.JSON(http.StatusOK, result)
}

// handleReturns runs the returns pipeline (spec §4.9) for the given
// instrument.
func (h *APIHandler) handleReturns(instrument returns.Instrument) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req returnsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		q, p, k, err := buildPeriods(req.Q, req.P, req.K)
		if err != nil {
			badRequest(c, err)
			return
		}

		totals, err := returns.Run(req.Transactions, req.Age, req.Wage, req.Inflation, instrument, q, p, k)
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}

// handleHealth is the liveness probe; spec §6 fixes its body to exactly
// {"status": "ok"}.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
