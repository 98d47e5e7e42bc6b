package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/buildinfo"
	"github.com/gestor-dev/gestor/internal/config"
	"github.com/gestor-dev/gestor/internal/log"
	"github.com/gestor-dev/gestor/internal/session"
	"github.com/gestor-dev/gestor/internal/store"
)

// rootOptions is the state shared by every subcommand once the root's
// pre-run has loaded configuration.
type rootOptions struct {
	configPath string
	envFile    string
	cfg        *config.Config
	log        *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "gestor",
		Short:   "Personal income and expense tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to gestor.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with GESTOR_* overrides")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newBalanceCommand(opts),
		newExpensesCommand(opts),
		newListCommand(opts),
		newDeleteCommand(opts),
		newEditCommand(opts),
		newSearchCommand(opts),
		newChartCommand(opts),
		newImportCommand(opts),
		newErrorsCommand(opts),
		newServeCommand(opts),
		newMenuCommand(opts),
	)

	return rootCmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", o.envFile, err)
		}
	}

	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	baseDir, err := filepath.Abs(filepath.Dir(o.configPath))
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}
	cfg.ResolvePaths(baseDir)
	o.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	o.log = log.New(log.Config{Level: level, Component: log.ComponentCLI, Output: cmd.ErrOrStderr()})
	log.SetDefault(o.log)
	return nil
}

func (o *rootOptions) openSession(cmd *cobra.Command) (*session.Session, error) {
	sess, err := session.Open(cmd.Context(), o.cfg, o.log)
	if err != nil {
		return nil, err
	}
	// A brand-new data dir is not worth a warning on the terminal.
	for _, e := range sess.LoadErrors {
		if e.Kind != store.KindNotFound {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s\n", e)
		}
	}
	return sess, nil
}

func (o *rootOptions) save(cmd *cobra.Command, sess *session.Session) error {
	path, err := sess.Save(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", path)
	return nil
}
