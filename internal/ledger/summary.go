package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/gestor-dev/gestor/internal/model"
)

// Status is the outcome of a time-windowed query. Callers branch on it
// instead of on errors.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoData      Status = "no_data"
	StatusInvalidDate Status = "invalid_date"
	StatusInvalidYear Status = "invalid_year"
)

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// PeriodTotal is the summed amount of one month (1-12), day (1-31) or year.
type PeriodTotal struct {
	Period int
	Amount decimal.Decimal
}

// Row is a transaction together with its current position.
type Row struct {
	Position    int
	Transaction model.Transaction
}

// ExpenseReport is the result of Expenses. Rows carry their ledger positions.
type ExpenseReport struct {
	Rows       []Row
	ByCategory []CategoryTotal
}

// DailyPivot is a day-of-month by category table. Rows[i].Amounts lines up
// with Categories; combinations without data are zero.
type DailyPivot struct {
	Categories []string
	Rows       []DailyRow
}

// DailyRow is one day of a DailyPivot.
type DailyRow struct {
	Day     int
	Amounts []decimal.Decimal
}

// Cell returns the amount for day and category, zero when absent.
func (p DailyPivot) Cell(day int, category string) decimal.Decimal {
	col := -1
	for i, c := range p.Categories {
		if c == category {
			col = i
			break
		}
	}
	if col < 0 {
		return decimal.Zero
	}
	for _, r := range p.Rows {
		if r.Day == day {
			return r.Amounts[col]
		}
	}
	return decimal.Zero
}

// DayTotals collapses the pivot into one total per day.
func (p DailyPivot) DayTotals() []PeriodTotal {
	out := make([]PeriodTotal, len(p.Rows))
	for i, r := range p.Rows {
		sum := decimal.Zero
		for _, a := range r.Amounts {
			sum = sum.Add(a)
		}
		out[i] = PeriodTotal{Period: r.Day, Amount: sum}
	}
	return out
}

// MonthlyReport is the result of MonthlyExpenses. Daily is set only for
// daily queries with StatusOK.
type MonthlyReport struct {
	Status     Status
	Year       int
	Month      int
	ByCategory []CategoryTotal
	Daily      *DailyPivot
}

// AnnualReport is the result of AnnualExpenses. Totals are keyed by month,
// or by year when AllYears is set.
type AnnualReport struct {
	Status   Status
	Year     int
	AllYears bool
	Totals   []PeriodTotal
}

// SearchParams are the optional, conjunctive filters of Search.
type SearchParams struct {
	Kind        string
	Category    string
	Description string
	Start       string // TimestampLayout, inclusive
	End         string // TimestampLayout, inclusive
}

// Empty reports whether no filter is set.
func (p SearchParams) Empty() bool {
	return p == SearchParams{}
}

// SearchResult is the result of Search.
type SearchResult struct {
	Status Status
	Rows   []Row
}
