// Package gitops snapshots the data directory into git after each save.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Committer commits the contents of Dir under a fixed identity.
type Committer struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func (c Committer) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir
	// Committer identity must not depend on the user's git config.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+c.AuthorName,
		"GIT_AUTHOR_EMAIL="+c.AuthorEmail,
		"GIT_COMMITTER_NAME="+c.AuthorName,
		"GIT_COMMITTER_EMAIL="+c.AuthorEmail,
	)
	return cmd
}

// Dirty reports whether the work tree has uncommitted changes.
func (c Committer) Dirty(ctx context.Context) (bool, error) {
	out, err := c.command(ctx, "status", "--porcelain").Output()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// CommitAll stages all files and creates a commit. Returns the short commit
// hash, or "" when there was nothing to commit.
func (c Committer) CommitAll(ctx context.Context, message string) (string, error) {
	if out, err := c.command(ctx, "add", "-A").CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	dirty, err := c.Dirty(ctx)
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	if out, err := c.command(ctx, "commit", "-m", message).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := c.command(ctx, "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitSnapshot commits after a save of the file at path.
func (c Committer) CommitSnapshot(ctx context.Context, path string) (string, error) {
	return c.CommitAll(ctx, "save: "+filepath.Base(path))
}
