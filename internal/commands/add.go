package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/id"
	"github.com/gestor-dev/gestor/internal/model"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	var category, description, date string

	cmd := &cobra.Command{
		Use:   "add income|expense <amount>",
		Short: "Record an income or an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runAdd(cmd, opts, kind, args[1], category, description, date)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category (defaults per kind)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	cmd.Flags().StringVar(&date, "date", "", "timestamp as dd-mm-YYYY HH:MM:SS (defaults to now)")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *rootOptions, kind model.Kind, amount, category, description, date string) error {
	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}

	tx, err := sess.NewTransaction(kind, amount, category, description, date)
	if err != nil {
		return err
	}
	stored := sess.Ledger.Add(tx)

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s at position %d: %s\n", id.Short(stored.ID), sess.Ledger.Len()-1, stored)
	return opts.save(cmd, sess)
}
