package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/id"
	"github.com/gestor-dev/gestor/internal/ledger"
	"github.com/gestor-dev/gestor/internal/session"
)

// resolvePosition turns either a positional argument or an --id prefix into a
// row position.
func resolvePosition(sess *session.Session, idPrefix, posArg string) (int, error) {
	if idPrefix != "" {
		txID, err := id.Resolve(idPrefix, sess.Ledger.IDs())
		if err != nil {
			return 0, err
		}
		return sess.Ledger.PositionOf(txID), nil
	}
	pos, err := strconv.Atoi(strings.TrimSpace(posArg))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", posArg, err)
	}
	return pos, nil
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	var txID string

	cmd := &cobra.Command{
		Use:   "delete <position> | --id <id>",
		Short: "Delete a transaction",
		Args: func(cmd *cobra.Command, args []string) error {
			if txID != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var posArg string
			if len(args) > 0 {
				posArg = args[0]
			}
			return runDelete(cmd, opts, txID, posArg)
		},
	}

	cmd.Flags().StringVar(&txID, "id", "", "transaction id or unique id prefix")
	return cmd
}

func runDelete(cmd *cobra.Command, opts *rootOptions, txID, posArg string) error {
	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}

	pos, err := resolvePosition(sess, txID, posArg)
	if err != nil {
		return err
	}
	tx, _ := sess.Ledger.At(pos)
	if !sess.Ledger.Delete(pos) {
		return fmt.Errorf("no transaction at position %d (have %d)", pos, sess.Ledger.Len())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", id.Short(tx.ID), tx)
	return opts.save(cmd, sess)
}

// parseChanges reads Field=Value arguments.
func parseChanges(args []string) ([]ledger.Change, error) {
	changes := make([]ledger.Change, 0, len(args))
	for _, a := range args {
		field, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("expected Field=Value, got %q", a)
		}
		changes = append(changes, ledger.Change{Field: field, Value: value})
	}
	return changes, nil
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var txID string

	cmd := &cobra.Command{
		Use:   "edit <position> Field=Value... | --id <id> Field=Value...",
		Short: "Change fields of a transaction (Model, Amount, Category, Description, Date)",
		Args: func(cmd *cobra.Command, args []string) error {
			if txID != "" {
				return cobra.MinimumNArgs(1)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			posArg := ""
			if txID == "" {
				posArg, args = args[0], args[1:]
			}
			changes, err := parseChanges(args)
			if err != nil {
				return err
			}
			return runEdit(cmd, opts, txID, posArg, changes)
		},
	}

	cmd.Flags().StringVar(&txID, "id", "", "transaction id or unique id prefix")
	return cmd
}

func runEdit(cmd *cobra.Command, opts *rootOptions, txID, posArg string, changes []ledger.Change) error {
	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}

	pos, err := resolvePosition(sess, txID, posArg)
	if err != nil {
		return err
	}

	skipped, ok := sess.Ledger.EditMany(pos, changes)
	if !ok {
		return fmt.Errorf("cannot edit position %d: out of range or unknown field (fields: Model, Amount, Category, Description, Date)", pos)
	}

	out := cmd.OutOrStdout()
	for _, f := range skipped {
		fmt.Fprintf(out, "Skipped %s: value did not parse\n", f)
	}
	tx, _ := sess.Ledger.At(pos)
	fmt.Fprintf(out, "Updated %d: %s\n", pos, tx)
	return opts.save(cmd, sess)
}
