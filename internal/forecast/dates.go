package forecast

import (
	"time"

	"ech-simulator/internal/model"
)

// AddMonths moves t by n calendar months, clamping the day to the target
// month's length (Jan 31 + 1 month = Feb 28 or 29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// FutureDates labels horizon steps, each offset from last by whole months.
func FutureDates(last time.Time, horizon int) []string {
	out := make([]string, horizon)
	for i := range out {
		out[i] = AddMonths(last, i+1).Format(model.DateLayout)
	}
	return out
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
