package synth

import (
	"fmt"
	"time"
)

// Clock returns the reference time for date labels.
type Clock func() time.Time

var weekdayMultipliers = map[time.Weekday]float64{
	time.Sunday:    0.7,
	time.Monday:    1.0,
	time.Tuesday:   1.1,
	time.Wednesday: 1.2,
	time.Thursday:  1.3,
	time.Friday:    1.4,
	time.Saturday:  1.1,
}

// DayOfWeekMultiplier weights daily volume: Sunday is the quietest day and
// Friday the busiest.
func DayOfWeekMultiplier(t time.Time) float64 {
	if m, ok := weekdayMultipliers[t.Weekday()]; ok {
		return m
	}
	return 1.0
}

// LastNDays returns n consecutive days ending at now, oldest first.
func LastNDays(now time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]time.Time, n)
	for i := range n {
		out[i] = day.AddDate(0, 0, i-(n-1))
	}
	return out
}

// LastNMonths returns month labels ("Jan 2025") for the n months ending with
// the month of now, oldest first.
func LastNMonths(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]string, n)
	for i := range n {
		out[i] = first.AddDate(0, i-(n-1), 0).Format("Jan 2006")
	}
	return out
}

func dateLabels(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

// QuarterLabels names the four quarters of the year containing now.
func QuarterLabels(now time.Time) []string {
	year := now.Year()
	return []string{
		quarterLabel(1, year),
		quarterLabel(2, year),
		quarterLabel(3, year),
		quarterLabel(4, year),
	}
}

func quarterLabel(q, year int) string {
	return fmt.Sprintf("Q%d %d", q, year)
}
