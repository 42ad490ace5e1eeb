// Package window selects pick records that fall inside a lookback window.
package window

import (
	"time"

	"github.com/huddleup/pickem/internal/domain/model"
)

// AllTimeDays is the sentinel window used by the product for "all time".
// Any window at least this large disables the cutoff entirely.
const AllTimeDays = 999

// Product lookback windows, in days.
const (
	WeekDays   = 7
	MonthDays  = 30
	SeasonDays = 120
)

// Cutoff returns the lower-bound timestamp for a window of days ending at
// now. The zero time means "no lower bound".
func Cutoff(now time.Time, days int) (time.Time, error) {
	if days < 0 {
		return time.Time{}, ErrNegativeWindow
	}
	if days >= AllTimeDays {
		return time.Time{}, nil
	}
	return now.AddDate(0, 0, -days), nil
}

// Filter returns the records whose SubmittedAt is not before cutoff. A zero
// cutoff keeps everything. Input order is preserved.
func Filter(records []model.PickRecord, cutoff time.Time) []model.PickRecord {
	if cutoff.IsZero() {
		return records
	}
	out := make([]model.PickRecord, 0, len(records))
	for _, r := range records {
		if !r.SubmittedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}
