package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/ledger"
	"github.com/gestor-dev/gestor/internal/report"
)

// Summary shapes accepted by chart --summary.
const (
	summaryCategories = "categories"
	summaryDaily      = "daily"
	summaryMonthly    = "monthly"
	summaryYearly     = "yearly"
)

// buildSummary runs the query behind a chart and returns its title.
func buildSummary(l *ledger.Ledger, shape, year, month string) (report.Summary, string, ledger.Status, error) {
	switch strings.ToLower(shape) {
	case summaryCategories:
		r := l.Expenses()
		if len(r.ByCategory) == 0 {
			return report.Summary{}, "", ledger.StatusNoData, nil
		}
		title := "Expenses by category"
		return report.FromCategories(title, r.ByCategory), title, ledger.StatusOK, nil

	case summaryDaily:
		r := l.MonthlyExpenses(year, month, true)
		if r.Status != ledger.StatusOK {
			return report.Summary{}, "", r.Status, nil
		}
		title := fmt.Sprintf("Daily expenses %02d/%d", r.Month, r.Year)
		return report.FromDaily(title, r.Year, time.Month(r.Month), r.Daily.DayTotals()), title, r.Status, nil

	case summaryMonthly:
		r := l.AnnualExpenses(year, false)
		if r.Status != ledger.StatusOK {
			return report.Summary{}, "", r.Status, nil
		}
		title := fmt.Sprintf("Monthly expenses %d", r.Year)
		return report.FromMonthly(title, r.Year, r.Totals), title, r.Status, nil

	case summaryYearly:
		r := l.AnnualExpenses("", true)
		if r.Status != ledger.StatusOK {
			return report.Summary{}, "", r.Status, nil
		}
		cur := l.Now().Year()
		title := fmt.Sprintf("Yearly expenses %d-%d", cur-9, cur)
		return report.FromYearly(title, r.Totals), title, r.Status, nil
	}
	return report.Summary{}, "", "", fmt.Errorf("unknown summary %q (want categories, daily, monthly or yearly)", shape)
}

func newChartCommand(opts *rootOptions) *cobra.Command {
	var shape, kind, year, month string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Draw an expense summary and save it under the charts directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chartKind, err := report.ParseChartKind(kind)
			if err != nil {
				return err
			}
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			return runChart(cmd, opts, sess.Ledger, shape, chartKind, year, month)
		},
	}

	cmd.Flags().StringVar(&shape, "summary", summaryCategories, "categories, daily, monthly or yearly")
	cmd.Flags().StringVar(&kind, "kind", string(report.ChartPie), "pie, bar or line")
	cmd.Flags().StringVar(&year, "year", "", "year (defaults to the current one)")
	cmd.Flags().StringVar(&month, "month", "", "month 1-12 (defaults to the current one)")

	return cmd
}

func runChart(cmd *cobra.Command, opts *rootOptions, l *ledger.Ledger, shape string, kind report.ChartKind, year, month string) error {
	out := cmd.OutOrStdout()

	summary, title, status, err := buildSummary(l, shape, year, month)
	if err != nil {
		return err
	}
	if status != ledger.StatusOK {
		fmt.Fprintln(out, statusMessage(status))
		return nil
	}

	r := report.NewRenderer(opts.cfg.Charts.Dir, opts.cfg.Charts.Width, opts.cfg.Charts.Height)
	art, err := r.Render(summary, kind, title)
	if err != nil {
		return err
	}
	fmt.Fprint(out, art.Text)
	fmt.Fprintf(out, "Chart saved to %s\n", art.Path)
	return nil
}
