package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/id"
	"github.com/gestor-dev/gestor/internal/ledger"
	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/report"
	"github.com/gestor-dev/gestor/internal/session"
)

// errQuit ends the menu loop; the session is saved on the way out.
var errQuit = errors.New("quit")

func newMenuCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive numbered menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			m := &menu{
				cmd:  cmd,
				opts: opts,
				sess: sess,
				in:   bufio.NewScanner(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
			}
			return m.run()
		},
	}
}

type menu struct {
	cmd  *cobra.Command
	opts *rootOptions
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
}

type menuItem struct {
	label  string
	action func() error
}

func (m *menu) items() []menuItem {
	return []menuItem{
		{"Add income", func() error { return m.add(model.KindIncome) }},
		{"Add expense", func() error { return m.add(model.KindExpense) }},
		{"Show balance", m.balance},
		{"Expenses", m.expenses},
		{"Charts", m.charts},
		{"List transactions", m.list},
		{"Delete a transaction", m.delete},
		{"Edit a transaction", m.edit},
		{"Search", m.search},
	}
}

// ask prints prompt and reads one line. io.EOF means input is exhausted.
func (m *menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// choose shows numbered options and re-prompts until one is picked.
func (m *menu) choose(title string, options []string) (int, error) {
	for {
		fmt.Fprintf(m.out, "\n%s\n", title)
		for i, o := range options {
			fmt.Fprintf(m.out, "  %d. %s\n", i+1, o)
		}
		answer, err := m.ask("> ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(m.out, "Invalid option, try again.")
	}
}

func (m *menu) run() error {
	items := m.items()
	for {
		fmt.Fprintln(m.out, "\n== gestor ==")
		for i, it := range items {
			fmt.Fprintf(m.out, "  %d. %s\n", i+1, it.label)
		}
		fmt.Fprintln(m.out, "  0. Save and exit")

		answer, err := m.ask("> ")
		if err == nil && answer == "0" {
			err = errQuit
		}
		if err == nil {
			n, convErr := strconv.Atoi(answer)
			if convErr != nil || n < 1 || n > len(items) {
				fmt.Fprintln(m.out, "Invalid option, try again.")
				continue
			}
			err = items[n-1].action()
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return m.opts.save(m.cmd, m.sess)
		default:
			return err
		}
	}
}

func (m *menu) add(kind model.Kind) error {
	amount, err := m.ask("Amount: ")
	if err != nil {
		return err
	}

	names := m.sess.Categories.Names(kind)
	for i, n := range names {
		fmt.Fprintf(m.out, "  %d. %s\n", i+1, n)
	}
	category, err := m.ask(fmt.Sprintf("Category (number or name, empty for %s): ", m.sess.DefaultCategory(kind)))
	if err != nil {
		return err
	}
	if n, convErr := strconv.Atoi(category); convErr == nil && n >= 1 && n <= len(names) {
		category = names[n-1]
	}

	description, err := m.ask("Description: ")
	if err != nil {
		return err
	}
	date, err := m.ask("Date (dd-mm-YYYY HH:MM:SS, empty for now): ")
	if err != nil {
		return err
	}

	tx, err := m.sess.NewTransaction(kind, amount, category, description, date)
	if err != nil {
		fmt.Fprintf(m.out, "Not added: %v\n", err)
		return nil
	}
	stored := m.sess.Ledger.Add(tx)
	fmt.Fprintf(m.out, "Added %s: %s\n", id.Short(stored.ID), stored)
	return nil
}

func (m *menu) balance() error {
	fmt.Fprintf(m.out, "Balance: %s\n", m.sess.Ledger.TotalBalance().StringFixed(2))
	return nil
}

func (m *menu) expenses() error {
	modes := []string{"Totals by category", "One month by category", "One month by day", "One year by month", "Last ten years"}
	mode, err := m.choose("Expenses", modes)
	if err != nil {
		return err
	}

	var f expensesFlags
	switch mode {
	case 1, 2:
		f.monthly, f.daily = mode == 1, mode == 2
		if f.year, err = m.ask("Year (empty for current): "); err != nil {
			return err
		}
		if f.month, err = m.ask("Month 1-12 (empty for current): "); err != nil {
			return err
		}
	case 3:
		f.yearly = true
		if f.year, err = m.ask("Year (empty for current): "); err != nil {
			return err
		}
	case 4:
		f.allYears = true
	}
	runExpenses(m.cmd, m.sess.Ledger, f)
	return nil
}

func (m *menu) charts() error {
	shapes := []string{summaryCategories, summaryDaily, summaryMonthly, summaryYearly}
	shape, err := m.choose("Chart of", shapes)
	if err != nil {
		return err
	}
	kinds := []string{string(report.ChartPie), string(report.ChartBar), string(report.ChartLine)}
	kind, err := m.choose("Chart kind", kinds)
	if err != nil {
		return err
	}

	var year, month string
	if shapes[shape] == summaryDaily || shapes[shape] == summaryMonthly {
		if year, err = m.ask("Year (empty for current): "); err != nil {
			return err
		}
	}
	if shapes[shape] == summaryDaily {
		if month, err = m.ask("Month 1-12 (empty for current): "); err != nil {
			return err
		}
	}
	return runChart(m.cmd, m.opts, m.sess.Ledger, shapes[shape], report.ChartKind(kinds[kind]), year, month)
}

func (m *menu) list() error {
	printRows(m.out, m.sess.Ledger.List(""))
	return nil
}

func (m *menu) askPosition() (int, bool, error) {
	printRows(m.out, m.sess.Ledger.List(""))
	answer, err := m.ask("Position: ")
	if err != nil {
		return 0, false, err
	}
	pos, convErr := strconv.Atoi(answer)
	if convErr != nil {
		fmt.Fprintf(m.out, "Invalid position %q.\n", answer)
		return 0, false, nil
	}
	return pos, true, nil
}

func (m *menu) delete() error {
	pos, ok, err := m.askPosition()
	if err != nil || !ok {
		return err
	}
	if !m.sess.Ledger.Delete(pos) {
		fmt.Fprintf(m.out, "No transaction at position %d.\n", pos)
		return nil
	}
	fmt.Fprintf(m.out, "Deleted position %d.\n", pos)
	return nil
}

func (m *menu) edit() error {
	pos, ok, err := m.askPosition()
	if err != nil || !ok {
		return err
	}
	field, err := m.ask("Field (Model, Amount, Category, Description, Date): ")
	if err != nil {
		return err
	}
	value, err := m.ask("New value: ")
	if err != nil {
		return err
	}

	skipped, ok := m.sess.Ledger.EditMany(pos, []ledger.Change{{Field: field, Value: value}})
	switch {
	case !ok:
		fmt.Fprintln(m.out, "Not edited: unknown position or field.")
	case len(skipped) > 0:
		fmt.Fprintf(m.out, "Not edited: %q is not a valid %s.\n", value, skipped[0])
	default:
		tx, _ := m.sess.Ledger.At(pos)
		fmt.Fprintf(m.out, "Updated %d: %s\n", pos, tx)
	}
	return nil
}

func (m *menu) search() error {
	var p ledger.SearchParams
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Kind (income/expense, empty for any): ", &p.Kind},
		{"Category contains: ", &p.Category},
		{"Description contains: ", &p.Description},
		{"From (dd-mm-YYYY HH:MM:SS, empty for none): ", &p.Start},
		{"To (dd-mm-YYYY HH:MM:SS, empty for none): ", &p.End},
	}
	for _, q := range prompts {
		v, err := m.ask(q.label)
		if err != nil {
			return err
		}
		*q.dst = v
	}
	printSearch(m.cmd, m.sess.Ledger, p)
	return nil
}
