package ledger

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestor-dev/gestor/internal/model"
)

// yearWindow is the number of years covered by AnnualExpenses(allYears=true).
const yearWindow = 10

// TotalBalance returns the sum of incomes minus the sum of expenses.
func (l *Ledger) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.rows {
		total = total.Add(tx.Signed())
	}
	return total
}

// Expenses returns the expense rows and their per-category sums.
func (l *Ledger) Expenses() ExpenseReport {
	var rows []Row
	for i, tx := range l.rows {
		if tx.Kind == model.KindExpense {
			rows = append(rows, Row{Position: i, Transaction: tx})
		}
	}
	return ExpenseReport{Rows: rows, ByCategory: sumByCategory(l.expenseRows())}
}

// MonthlyExpenses summarizes the expenses of one month. Empty year or month
// default to the current ones.
func (l *Ledger) MonthlyExpenses(year, month string, daily bool) MonthlyReport {
	now := l.now()
	y, errY := parsePeriod(year, now.Year())
	m, errM := parsePeriod(month, int(now.Month()))
	if errY != nil || errM != nil {
		return MonthlyReport{Status: StatusInvalidDate}
	}

	var rows []model.Transaction
	for _, tx := range l.expenseRows() {
		if tx.Timestamp.Year() == y && int(tx.Timestamp.Month()) == m {
			rows = append(rows, tx)
		}
	}

	report := MonthlyReport{Year: y, Month: m}
	if len(rows) == 0 {
		report.Status = StatusNoData
		return report
	}

	report.Status = StatusOK
	if daily {
		pivot := pivotByDay(rows)
		report.Daily = &pivot
		return report
	}
	report.ByCategory = sumByCategory(rows)
	return report
}

// AnnualExpenses sums the expenses of one year by month, or, with allYears,
// the last ten years (current year included) by year.
func (l *Ledger) AnnualExpenses(year string, allYears bool) AnnualReport {
	now := l.now()
	y, err := parsePeriod(year, now.Year())
	if err != nil {
		return AnnualReport{Status: StatusInvalidYear, AllYears: allYears}
	}

	report := AnnualReport{Year: y, AllYears: allYears}
	sums := make(map[int]decimal.Decimal)
	for _, tx := range l.expenseRows() {
		ty := tx.Timestamp.Year()
		switch {
		case !allYears && ty == y:
			m := int(tx.Timestamp.Month())
			sums[m] = sums[m].Add(tx.Amount)
		case allYears && ty > now.Year()-yearWindow && ty <= now.Year():
			sums[ty] = sums[ty].Add(tx.Amount)
		}
	}

	if len(sums) == 0 {
		report.Status = StatusNoData
		return report
	}
	report.Status = StatusOK
	report.Totals = sortedPeriods(sums)
	return report
}

func (l *Ledger) expenseRows() []model.Transaction {
	var out []model.Transaction
	for _, tx := range l.rows {
		if tx.Kind == model.KindExpense {
			out = append(out, tx)
		}
	}
	return out
}

// parsePeriod parses an integer year, month or day; empty means def.
func parsePeriod(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func sumByCategory(rows []model.Transaction) []CategoryTotal {
	if len(rows) == 0 {
		return nil
	}
	sums := make(map[string]decimal.Decimal)
	for _, tx := range rows {
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}
	out := make([]CategoryTotal, 0, len(sums))
	for cat, amt := range sums {
		out = append(out, CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func sortedPeriods(sums map[int]decimal.Decimal) []PeriodTotal {
	out := make([]PeriodTotal, 0, len(sums))
	for p, amt := range sums {
		out = append(out, PeriodTotal{Period: p, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func pivotByDay(rows []model.Transaction) DailyPivot {
	catIndex := make(map[string]int)
	var cats []string
	days := make(map[int]bool)
	for _, tx := range rows {
		if _, ok := catIndex[tx.Category]; !ok {
			catIndex[tx.Category] = 0
			cats = append(cats, tx.Category)
		}
		days[tx.Timestamp.Day()] = true
	}
	sort.Strings(cats)
	for i, c := range cats {
		catIndex[c] = i
	}

	dayList := make([]int, 0, len(days))
	for d := range days {
		dayList = append(dayList, d)
	}
	sort.Ints(dayList)

	pivot := DailyPivot{Categories: cats, Rows: make([]DailyRow, len(dayList))}
	dayRow := make(map[int]int, len(dayList))
	for i, d := range dayList {
		amounts := make([]decimal.Decimal, len(cats))
		for j := range amounts {
			amounts[j] = decimal.Zero
		}
		pivot.Rows[i] = DailyRow{Day: d, Amounts: amounts}
		dayRow[d] = i
	}
	for _, tx := range rows {
		r := &pivot.Rows[dayRow[tx.Timestamp.Day()]]
		c := catIndex[tx.Category]
		r.Amounts[c] = r.Amounts[c].Add(tx.Amount)
	}
	return pivot
}
