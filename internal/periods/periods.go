// Package periods implements the period builder (spec C4): validates and
// materializes the Q/P/K interval lists carried in a request batch.
package periods

import (
	"fmt"

	"github.com/rawblock/retirement-engine/internal/timeutil"
	"github.com/rawblock/retirement-engine/pkg/models"
)

const maxValue = 500000

// BuildError surfaces as an HTTP 400, same tier as txn.ValidationError.
type BuildError struct{ msg string }

func (e *BuildError) Error() string { return e.msg }

func invalid(format string, args ...interface{}) error {
	return &BuildError{msg: fmt.Sprintf(format, args...)}
}

// Build materializes one interval list of the given kind, preserving
// insertion order in Index for the Q-override tie-break (spec §4.5.1).
func Build(raws []models.RawInterval, kind models.IntervalKind) ([]models.Interval, error) {
	out := make([]models.Interval, 0, len(raws))
	for i, r := range raws {
		start, err := timeutil.Parse(r.Start)
		if err != nil {
			return nil, invalid("interval %d: %v", i, err)
		}
		end, err := timeutil.Parse(r.End)
		if err != nil {
			return nil, invalid("interval %d: %v", i, err)
		}
		if start.Epoch > end.Epoch {
			return nil, invalid("interval %d: start (%s) must be <= end (%s)", i, start.Date, end.Date)
		}

		iv := models.Interval{
			Kind:       kind,
			Start:      start.Date,
			End:        end.Date,
			StartEpoch: start.Epoch,
			EndEpoch:   end.Epoch,
			Index:      i,
		}

		switch kind {
		case models.KindQ:
			if r.Fixed == nil {
				return nil, invalid("q-interval %d: missing fixed value", i)
			}
			if *r.Fixed < 0 || *r.Fixed >= maxValue {
				return nil, invalid("q-interval %d: fixed %v must be in [0, %d)", i, *r.Fixed, maxValue)
			}
			iv.Value = *r.Fixed

		case models.KindP:
			if r.Extra == nil {
				return nil, invalid("p-interval %d: missing extra value", i)
			}
			if *r.Extra < 0 || *r.Extra >= maxValue {
				return nil, invalid("p-interval %d: extra %v must be in [0, %d)", i, *r.Extra, maxValue)
			}
			iv.Value = *r.Extra

		case models.KindK:
			if !timeutil.SameCalendarYear(start.Epoch, end.Epoch) {
				return nil, invalid("k-interval %d: start (%s) and end (%s) must be in the same calendar year", i, start.Date, end.Date)
			}
		}

		out = append(out, iv)
	}
	return out, nil
}
