package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendSQLite
	cfg.Charts.Width = 90
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), "gestor.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "data_", cfg.Storage.FilePrefix)
	assert.Equal(t, "graficas", cfg.Charts.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Correcciones", cfg.Categories.IncomeDefault)
	assert.Equal(t, "Otros", cfg.Categories.ExpenseDefault)
	assert.Equal(t, "chase", cfg.Import.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: sqlite\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, 60, cfg.Charts.Width)
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: excel\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GESTOR_BACKEND", "sqlite")
	t.Setenv("GESTOR_DATA_DIR", "/tmp/finanzas")
	t.Setenv("GESTOR_CHARTS_DIR", "out")
	t.Setenv("GESTOR_WEB_ADDR", ":9000")
	t.Setenv("GESTOR_LOG_LEVEL", "debug")
	t.Setenv("GESTOR_GIT_AUTO_COMMIT", "true")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/finanzas", cfg.Storage.DataDir)
	assert.Equal(t, "out", cfg.Charts.Dir)
	assert.Equal(t, ":9000", cfg.Web.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Git.AutoCommit)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("GESTOR_GIT_AUTO_COMMIT", "maybe")
	assert.Error(t, Default().ApplyEnv())

	t.Setenv("GESTOR_GIT_AUTO_COMMIT", "")
	t.Setenv("GESTOR_BACKEND", "excel")
	assert.Error(t, Default().ApplyEnv())
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestor.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: csv")
	assert.Contains(t, contents, "data_dir: data")
	assert.Contains(t, contents, "auto_commit: false")
	assert.Contains(t, contents, "income_default: Correcciones")
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()
	cfg.Charts.Dir = "/srv/charts"
	cfg.ResolvePaths("/home/ana/finanzas")

	assert.Equal(t, filepath.Join("/home/ana/finanzas", "data"), cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join("/home/ana/finanzas", "data", "gestor.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, "/srv/charts", cfg.Charts.Dir)
}
