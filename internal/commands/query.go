package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/ledger"
)

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show total income minus total expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", sess.Ledger.TotalBalance().StringFixed(2))
			return nil
		},
	}
}

type expensesFlags struct {
	monthly  bool
	daily    bool
	yearly   bool
	allYears bool
	year     string
	month    string
}

func newExpensesCommand(opts *rootOptions) *cobra.Command {
	var f expensesFlags

	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Summarize expenses by category, month, day or year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			runExpenses(cmd, sess.Ledger, f)
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.monthly, "monthly", false, "totals per category for one month")
	cmd.Flags().BoolVar(&f.daily, "daily", false, "day by category table for one month")
	cmd.Flags().BoolVar(&f.yearly, "yearly", false, "totals per month for one year")
	cmd.Flags().BoolVar(&f.allYears, "all-years", false, "totals per year over the last ten years")
	cmd.Flags().StringVar(&f.year, "year", "", "year (defaults to the current one)")
	cmd.Flags().StringVar(&f.month, "month", "", "month 1-12 (defaults to the current one)")
	cmd.MarkFlagsMutuallyExclusive("monthly", "daily", "yearly", "all-years")

	return cmd
}

func runExpenses(cmd *cobra.Command, l *ledger.Ledger, f expensesFlags) {
	out := cmd.OutOrStdout()

	switch {
	case f.monthly || f.daily:
		r := l.MonthlyExpenses(f.year, f.month, f.daily)
		if r.Status != ledger.StatusOK {
			fmt.Fprintln(out, statusMessage(r.Status))
			return
		}
		fmt.Fprintf(out, "Expenses for %02d/%d\n", r.Month, r.Year)
		if r.Daily != nil {
			printDailyPivot(out, r.Daily)
			return
		}
		printCategoryTotals(out, r.ByCategory)

	case f.yearly || f.allYears:
		r := l.AnnualExpenses(f.year, f.allYears)
		if r.Status != ledger.StatusOK {
			fmt.Fprintln(out, statusMessage(r.Status))
			return
		}
		if r.AllYears {
			cur := l.Now().Year()
			fmt.Fprintf(out, "Expenses per year, %d-%d\n", cur-9, cur)
			printPeriodTotals(out, "Year", r.Totals, strconv.Itoa)
			return
		}
		fmt.Fprintf(out, "Expenses per month, %d\n", r.Year)
		printPeriodTotals(out, "Month", r.Totals, func(m int) string { return time.Month(m).String() })

	default:
		r := l.Expenses()
		if len(r.Rows) == 0 {
			fmt.Fprintln(out, "No expenses recorded.")
			return
		}
		printRows(out, r.Rows)
		printCategoryTotals(out, r.ByCategory)
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with their positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			printRows(cmd.OutOrStdout(), sess.Ledger.List(kind))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only income or expense")
	return cmd
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var p ledger.SearchParams

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find transactions by kind, category, description or date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			printSearch(cmd, sess.Ledger, p)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&p.Category, "category", "", "category substring")
	cmd.Flags().StringVar(&p.Description, "description", "", "description substring")
	cmd.Flags().StringVar(&p.Start, "start", "", "inclusive lower bound, dd-mm-YYYY HH:MM:SS")
	cmd.Flags().StringVar(&p.End, "end", "", "inclusive upper bound, dd-mm-YYYY HH:MM:SS")

	return cmd
}

func printSearch(cmd *cobra.Command, l *ledger.Ledger, p ledger.SearchParams) {
	res := l.Search(p)
	if res.Status != ledger.StatusOK {
		fmt.Fprintln(cmd.OutOrStdout(), statusMessage(res.Status))
		return
	}
	printRows(cmd.OutOrStdout(), res.Rows)
}
