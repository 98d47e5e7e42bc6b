package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not installed")
	}
}

func testCommitter(dir string) Committer {
	return Committer{Dir: dir, AuthorName: "Test Author", AuthorEmail: "test@example.com"}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitSnapshot(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	path := filepath.Join(dir, "data_2025-01-15.csv")
	require.NoError(t, os.WriteFile(path, []byte("Model,Amount\n"), 0o644))

	c := testCommitter(dir)
	hash, err := c.CommitSnapshot(ctx, path)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "save: data_2025-01-15.csv|Test Author <test@example.com>")
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o644))

	c := testCommitter(dir)
	_, err := c.CommitAll(ctx, "first")
	require.NoError(t, err)

	hash, err := c.CommitAll(ctx, "second")
	require.NoError(t, err)
	assert.Empty(t, hash)

	dirty, err := c.Dirty(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
}
