package utils

import (
	"math"
	"time"
)

// AddMonths applies calendar-month arithmetic: Jan 31 + 1 month
// normalizes past the month boundary (Mar 2/3), same as the billing
// engine has always behaved.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// DaysRemaining counts whole days left until `until`, rounding up.
// Anything in the past counts as zero.
func DaysRemaining(now, until time.Time) int {
	d := until.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}
