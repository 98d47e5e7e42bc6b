// Package report turns ledger summaries into terminal charts and tables.
package report

import (
	"fmt"
	"time"

	"github.com/gestor-dev/gestor/internal/ledger"
)

// Point is one labelled value of a Summary. At is set for time series and
// used by line charts to place the point.
type Point struct {
	Label string
	Value float64
	At    time.Time
}

// Summary is a named series ready to be charted.
type Summary struct {
	Name   string
	Points []Point
}

// Empty reports whether there is nothing to draw.
func (s Summary) Empty() bool {
	return len(s.Points) == 0
}

// FromCategories converts per-category sums.
func FromCategories(name string, totals []ledger.CategoryTotal) Summary {
	s := Summary{Name: name}
	for _, t := range totals {
		s.Points = append(s.Points, Point{Label: t.Category, Value: t.Amount.InexactFloat64()})
	}
	return s
}

// FromDaily converts per-day totals of the given month. Days between the
// first and last total with no expenses become zero points.
func FromDaily(name string, year int, month time.Month, totals []ledger.PeriodTotal) Summary {
	s := Summary{Name: name}
	if len(totals) == 0 {
		return s
	}
	byDay := make(map[int]float64, len(totals))
	first, last := totals[0].Period, totals[0].Period
	for _, t := range totals {
		byDay[t.Period] += t.Amount.InexactFloat64()
		first, last = min(first, t.Period), max(last, t.Period)
	}
	for day := first; day <= last; day++ {
		s.Points = append(s.Points, Point{
			Label: fmt.Sprintf("%02d", day),
			Value: byDay[day],
			At:    time.Date(year, month, day, 0, 0, 0, 0, time.Local),
		})
	}
	return s
}

// FromMonthly converts per-month totals of the given year.
func FromMonthly(name string, year int, totals []ledger.PeriodTotal) Summary {
	s := Summary{Name: name}
	for _, t := range totals {
		m := time.Month(t.Period)
		s.Points = append(s.Points, Point{
			Label: m.String()[:3],
			Value: t.Amount.InexactFloat64(),
			At:    time.Date(year, m, 1, 0, 0, 0, 0, time.Local),
		})
	}
	return s
}

// FromYearly converts per-year totals.
func FromYearly(name string, totals []ledger.PeriodTotal) Summary {
	s := Summary{Name: name}
	for _, t := range totals {
		s.Points = append(s.Points, Point{
			Label: fmt.Sprintf("%d", t.Period),
			Value: t.Amount.InexactFloat64(),
			At:    time.Date(t.Period, time.January, 1, 0, 0, 0, 0, time.Local),
		})
	}
	return s
}
