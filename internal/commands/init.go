package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/categories"
	"github.com/gestor-dev/gestor/internal/config"
	"github.com/gestor-dev/gestor/internal/gitops"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create gestor.yaml and the data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, backend, useGit)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendCSV, "storage backend (csv or sqlite)")
	cmd.Flags().BoolVar(&useGit, "git", false, "track the data directory in git and commit after every save")

	return cmd
}

func runInit(cmd *cobra.Command, dir, backend string, useGit bool) error {
	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := config.Save(filepath.Join(dir, config.DefaultPath), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Paths in the saved file stay relative; resolve a copy to create them.
	cfg.ResolvePaths(dir)
	dataDir := cfg.Storage.DataDir

	dirs := []string{
		dataDir,
		filepath.Join(dataDir, "logs"),
		filepath.Join(dataDir, "import"),
		filepath.Join(dataDir, "import", "processed"),
		cfg.Charts.Dir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := categories.NewService(categories.Default()).Save(dataDir); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dataDir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if useGit {
		if err := gitops.Init(cmd.Context(), dataDir); err != nil {
			return err
		}
		c := gitops.Committer{Dir: dataDir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
		hash, err := c.CommitAll(cmd.Context(), "init: gestor data")
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(out, "Initialized git repository in %s (%s)\n", dataDir, hash)
	}

	fmt.Fprintf(out, "Initialized gestor in %s (backend: %s)\n", dir, backend)
	return nil
}
