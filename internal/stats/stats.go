// Package stats turns a daily bar series into the compact statistical summary
// used to condition a forecast: streak, recent performance, ATR, 52-week
// position and day-of-week tendencies. All computations are pure and leave
// the input series untouched.
package stats

import (
	"fmt"
	"math"
	"time"

	"stock-forecaster/internal/types"
)

const (
	// MinBars is the hard floor below which no statistics are computed.
	// The 30-day change and the ATR are misleading on anything shorter.
	MinBars = 30

	atrPeriod  = 14
	yearWindow = 252 // trading days in one year
)

// InsufficientHistoryError reports a series too short to summarize.
type InsufficientHistoryError struct {
	Have int
	Want int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: have %d bars, want at least %d", e.Have, e.Want)
}

// Streak is the run of consecutive most-recent bars sharing the same
// same-bar gain/loss sign (each bar's own close vs open).
type Streak struct {
	Direction string `json:"direction"` // "gain" or "loss"
	Days      int    `json:"days"`
}

// Performance holds close-to-close percentage changes over fixed lookbacks.
// A lookback longer than the series yields 0.
type Performance struct {
	Change1D  float64 `json:"change_1d"`
	Change5D  float64 `json:"change_5d"`
	Change30D float64 `json:"change_30d"`
}

// DayOfWeekStats summarizes same-day returns for one weekday.
type DayOfWeekStats struct {
	AvgGain float64 `json:"avg_gain"` // mean of strictly positive returns, 0 if none
	AvgLoss float64 `json:"avg_loss"` // mean of strictly negative returns, 0 if none
	WinRate float64 `json:"win_rate"` // wins / observations
	Days    int     `json:"days"`     // observations for this weekday
}

// HistoricalContext is the engine's sole output. It is constructed once all
// sub-statistics are known and never mutated afterwards.
type HistoricalContext struct {
	Streak      Streak                          `json:"streak"`
	Performance Performance                     `json:"performance"`
	ATR14       float64                         `json:"atr_14"`
	Position52W float64                         `json:"position_52w"`
	DayOfWeek   map[time.Weekday]DayOfWeekStats `json:"day_of_week"`
}

// Compute summarizes a bar series ordered oldest to newest. It fails only
// when the series is shorter than MinBars; every sub-statistic is total over
// a valid series.
func Compute(series []types.DailyBar) (HistoricalContext, error) {
	if len(series) < MinBars {
		return HistoricalContext{}, &InsufficientHistoryError{Have: len(series), Want: MinBars}
	}
	return HistoricalContext{
		Streak:      streak(series),
		Performance: performance(series),
		ATR14:       averageTrueRange(series, atrPeriod),
		Position52W: position52Week(series),
		DayOfWeek:   dayOfWeek(series),
	}, nil
}

// streak walks backward from the latest bar counting bars that share its
// close-vs-open sign. A bar closing exactly at its open counts as a loss.
func streak(series []types.DailyBar) Streak {
	last := series[len(series)-1]
	gaining := last.Close > last.Open

	days := 0
	for i := len(series) - 1; i >= 0; i-- {
		if (series[i].Close > series[i].Open) != gaining {
			break
		}
		days++
	}

	dir := "loss"
	if gaining {
		dir = "gain"
	}
	return Streak{Direction: dir, Days: days}
}

func performance(series []types.DailyBar) Performance {
	return Performance{
		Change1D:  changeOver(series, 1),
		Change5D:  changeOver(series, 5),
		Change30D: changeOver(series, 30),
	}
}

// changeOver is the fractional close-to-close change over n trading days,
// or 0 when the series has no bar that far back.
func changeOver(series []types.DailyBar, n int) float64 {
	idx := len(series) - 1 - n
	if idx < 0 {
		return 0
	}
	prev := series[idx].Close
	return (series[len(series)-1].Close - prev) / prev
}

// averageTrueRange is the arithmetic mean of the most recent period true
// ranges, where TR = max(high-low, |high-prevClose|, |low-prevClose|).
// Returns 0 when fewer than period adjacent pairs exist.
func averageTrueRange(series []types.DailyBar, period int) float64 {
	if len(series) < period+1 {
		return 0
	}
	sum := 0.0
	for i := len(series) - period; i < len(series); i++ {
		prevClose := series[i-1].Close
		tr := series[i].High - series[i].Low
		tr = math.Max(tr, math.Abs(series[i].High-prevClose))
		tr = math.Max(tr, math.Abs(series[i].Low-prevClose))
		sum += tr
	}
	return sum / float64(period)
}

// position52Week places the latest close inside the trailing 252-bar
// high/low range: 0 at the low, 1 at the high, 0.5 when the range is
// degenerate.
func position52Week(series []types.DailyBar) float64 {
	start := len(series) - yearWindow
	if start < 0 {
		start = 0
	}

	high := math.Inf(-1)
	low := math.Inf(1)
	for i := start; i < len(series); i++ {
		if series[i].High > high {
			high = series[i].High
		}
		if series[i].Low < low {
			low = series[i].Low
		}
	}
	if high == low {
		return 0.5
	}

	pos := (series[len(series)-1].Close - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}

// dayOfWeek partitions bars by the UTC weekday of their timestamp and
// summarizes same-day (close-open)/open returns per weekday. Weekdays with
// no observations are omitted.
func dayOfWeek(series []types.DailyBar) map[time.Weekday]DayOfWeekStats {
	type acc struct {
		gainSum  float64
		gainDays int
		lossSum  float64
		lossDays int
		total    int
	}

	accs := make(map[time.Weekday]*acc)
	for _, bar := range series {
		wd := bar.Timestamp.UTC().Weekday()
		a := accs[wd]
		if a == nil {
			a = &acc{}
			accs[wd] = a
		}
		ret := (bar.Close - bar.Open) / bar.Open
		switch {
		case ret > 0:
			a.gainSum += ret
			a.gainDays++
		case ret < 0:
			a.lossSum += ret
			a.lossDays++
		}
		a.total++
	}

	out := make(map[time.Weekday]DayOfWeekStats, len(accs))
	for wd, a := range accs {
		s := DayOfWeekStats{Days: a.total}
		if a.gainDays > 0 {
			s.AvgGain = a.gainSum / float64(a.gainDays)
		}
		if a.lossDays > 0 {
			s.AvgLoss = a.lossSum / float64(a.lossDays)
		}
		s.WinRate = float64(a.gainDays) / float64(a.total)
		out[wd] = s
	}
	return out
}
