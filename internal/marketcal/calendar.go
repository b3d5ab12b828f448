// Package marketcal resolves upcoming trading sessions for an exchange.
//
// Only weekends are skipped. Exchange holidays are not modeled, so a returned
// day may fall on a market holiday; callers that need holiday accuracy must
// filter against an exchange calendar themselves.
package marketcal

import (
	"fmt"
	"time"
)

// closeHour is the local hour at which the session is considered over.
// Exactly 16:00:00 counts as after close.
const closeHour = 16

// TradingDay is a single trading session's calendar date, with no time of day.
type TradingDay struct {
	Year  int
	Month time.Month
	Day   int
}

// Date returns the day as a time.Time at midnight in loc.
func (d TradingDay) Date(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day's weekday.
func (d TradingDay) Weekday() time.Weekday {
	return d.Date(time.UTC).Weekday()
}

func (d TradingDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalJSON renders the day as a "YYYY-MM-DD" string.
func (d TradingDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// NextTradingDays returns the next count trading days relative to ref,
// evaluated in the exchange timezone loc. The reference day itself is the
// first result when it is a weekday and the local time is before the close
// cutoff. The result is strictly increasing and contains weekdays only.
//
// The function is pure: it never consults the ambient clock, so a frozen ref
// always yields the same sequence. count <= 0 returns nil.
func NextTradingDays(ref time.Time, loc *time.Location, count int) []TradingDay {
	if count <= 0 {
		return nil
	}

	local := ref.In(loc)
	y, m, d := local.Date()
	cur := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		for isWeekend(cur.Weekday()) {
			cur = cur.AddDate(0, 0, 1)
		}
	default:
		if local.Hour() >= closeHour {
			cur = cur.AddDate(0, 0, 1)
			for isWeekend(cur.Weekday()) {
				cur = cur.AddDate(0, 0, 1)
			}
		}
	}

	days := make([]TradingDay, 0, count)
	for len(days) < count {
		if !isWeekend(cur.Weekday()) {
			cy, cm, cd := cur.Date()
			days = append(days, TradingDay{Year: cy, Month: cm, Day: cd})
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}

// NextTradingDaysIn is NextTradingDays with the timezone given by IANA name,
// e.g. "America/New_York" or "Asia/Kolkata".
func NextTradingDaysIn(ref time.Time, tzName string, count int) ([]TradingDay, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load exchange timezone %q: %w", tzName, err)
	}
	return NextTradingDays(ref, loc, count), nil
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
