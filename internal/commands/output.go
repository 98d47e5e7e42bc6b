package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gestor-dev/gestor/internal/id"
	"github.com/gestor-dev/gestor/internal/ledger"
	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/report"
)

var rowHeaders = []string{"#", "ID", "Kind", "Amount", "Category", "Description", "Date"}

func rowCells(position int, tx model.Transaction) []string {
	return []string{
		strconv.Itoa(position),
		id.Short(tx.ID),
		string(tx.Kind),
		tx.Amount.StringFixed(2),
		tx.Category,
		tx.Description,
		model.FormatTimestamp(tx.Timestamp),
	}
}

func printRows(w io.Writer, rows []ledger.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, rowCells(r.Position, r.Transaction))
	}
	fmt.Fprintln(w, report.Table(rowHeaders, cells))
}

func printCategoryTotals(w io.Writer, totals []ledger.CategoryTotal) {
	cells := make([][]string, 0, len(totals)+1)
	sum := decimal.Zero
	for _, t := range totals {
		cells = append(cells, []string{t.Category, t.Amount.StringFixed(2)})
		sum = sum.Add(t.Amount)
	}
	cells = append(cells, []string{"Total", sum.StringFixed(2)})
	fmt.Fprintln(w, report.Table([]string{"Category", "Amount"}, cells))
}

func printPeriodTotals(w io.Writer, header string, totals []ledger.PeriodTotal, label func(int) string) {
	cells := make([][]string, 0, len(totals))
	for _, t := range totals {
		cells = append(cells, []string{label(t.Period), t.Amount.StringFixed(2)})
	}
	fmt.Fprintln(w, report.Table([]string{header, "Amount"}, cells))
}

func printDailyPivot(w io.Writer, p *ledger.DailyPivot) {
	headers := append([]string{"Day"}, p.Categories...)
	cells := make([][]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		row := []string{fmt.Sprintf("%02d", r.Day)}
		for _, a := range r.Amounts {
			row = append(row, a.StringFixed(2))
		}
		cells = append(cells, row)
	}
	fmt.Fprintln(w, report.Table(headers, cells))
}

// statusMessage explains a non-ok query status to the user.
func statusMessage(s ledger.Status) string {
	switch s {
	case ledger.StatusNoData:
		return "No data found."
	case ledger.StatusInvalidDate:
		return "Invalid date: use a numeric year and month, or dd-mm-YYYY HH:MM:SS bounds."
	case ledger.StatusInvalidYear:
		return "Invalid year: use a number such as 2025."
	}
	return ""
}
