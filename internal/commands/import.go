package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/importer"
	"github.com/gestor-dev/gestor/internal/log"
	"github.com/gestor-dev/gestor/internal/store"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format, category string

	cmd := &cobra.Command{
		Use:   "import [file.csv...]",
		Short: "Import bank CSV exports (default: every CSV in <data dir>/import)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = opts.cfg.Import.Format
			}
			if category == "" {
				category = opts.cfg.Import.Category
			}
			return runImport(cmd, opts, args, format, category)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "bank export format (default from config)")
	cmd.Flags().StringVar(&category, "category", "", "category for imported rows (default from config)")
	return cmd
}

func runImport(cmd *cobra.Command, opts *rootOptions, files []string, format, category string) error {
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown import format %q", format)
	}

	// Files found by the scan are moved to processed/ once imported.
	scanned := len(files) == 0
	if scanned {
		found, err := importer.Scan(opts.cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		for _, f := range found {
			files = append(files, f.Path)
		}
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
		return nil
	}

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	logger := opts.log.WithComponent(log.ComponentImport)

	var imported, failed int
	for _, path := range files {
		txs, err := importer.ImportFile(path, parser, sess.Categories.Canonical(category))
		if err != nil {
			failed++
			logger.Warn("import failed", log.FieldPath, path, log.FieldError, err)
			if err := sess.RecordErrors(path, []store.ErrorEntry{{Kind: store.KindReadError, Message: err.Error()}}); err != nil {
				return err
			}
			fmt.Fprintf(out, "Failed %s: %v\n", filepath.Base(path), err)
			continue
		}

		for _, tx := range txs {
			sess.Ledger.Add(tx)
		}
		imported += len(txs)
		fmt.Fprintf(out, "Imported %d transactions from %s\n", len(txs), filepath.Base(path))

		if scanned {
			if err := importer.MarkProcessed(opts.cfg.Storage.DataDir, filepath.Base(path)); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "%d imported, %d files failed\n", imported, failed)
	if imported == 0 {
		return nil
	}
	return opts.save(cmd, sess)
}
