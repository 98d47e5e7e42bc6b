package commands_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestor-dev/gestor/internal/commands"
	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/report"
)

// runGestor executes the CLI in-process and returns combined output.
func runGestor(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath, "--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// setupProject runs init in a temp dir and returns the dir and config path.
func setupProject(t *testing.T, initArgs ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gestor.yaml")
	_, err := runGestor(t, cfgPath, "", append([]string{"init", dir}, initArgs...)...)
	require.NoError(t, err)
	return dir, cfgPath
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := runGestor(t, cfgPath, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestInit_CreatesStructure(t *testing.T) {
	dir, _ := setupProject(t)

	for _, d := range []string{
		"data",
		filepath.Join("data", "logs"),
		filepath.Join("data", "import"),
		filepath.Join("data", "import", "processed"),
		"graficas",
	} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	assert.FileExists(t, filepath.Join(dir, "gestor.yaml"))
	data, err := os.ReadFile(filepath.Join(dir, "data", "categories.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Correcciones,income")
	assert.Contains(t, string(data), "Otros,expense")
}

func TestInit_BadBackend(t *testing.T) {
	dir := t.TempDir()
	_, err := runGestor(t, filepath.Join(dir, "gestor.yaml"), "", "init", dir, "--backend", "excel")
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestAddListBalance(t *testing.T) {
	_, cfg := setupProject(t)

	out := mustRun(t, cfg, "add", "income", "1000", "-c", "salario", "-d", "Nómina", "--date", "01-03-2025 09:00:00")
	assert.Contains(t, out, "at position 0")
	assert.Contains(t, out, "Saved to")
	mustRun(t, cfg, "add", "expense", "45,50", "-c", "Comida", "--date", "02-03-2025 13:00:00")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "Salario")
	assert.Contains(t, out, "Nómina")
	assert.Contains(t, out, "45.50")

	out = mustRun(t, cfg, "list", "--kind", "expense")
	assert.NotContains(t, out, "Nómina")

	out = mustRun(t, cfg, "balance")
	assert.Contains(t, out, "Balance: 954.50")
}

func TestAdd_DefaultCategory(t *testing.T) {
	_, cfg := setupProject(t)
	mustRun(t, cfg, "add", "expense", "3")
	out := mustRun(t, cfg, "list")
	assert.Contains(t, out, "Otros")
}

func TestAdd_Invalid(t *testing.T) {
	_, cfg := setupProject(t)

	_, err := runGestor(t, cfg, "", "add", "expense", "-5")
	assert.Error(t, err)

	_, err = runGestor(t, cfg, "", "add", "expense", "abc")
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = runGestor(t, cfg, "", "add", "transfer", "5")
	assert.ErrorIs(t, err, model.ErrInvalidKind)

	_, err = runGestor(t, cfg, "", "add", "income", "5", "--date", "2025-03-01")
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func seedExpenses(t *testing.T, cfg string) {
	t.Helper()
	mustRun(t, cfg, "add", "expense", "10", "-c", "Comida", "--date", "01-03-2025 10:00:00")
	mustRun(t, cfg, "add", "expense", "5", "-c", "Ocio", "--date", "01-03-2025 20:00:00")
	mustRun(t, cfg, "add", "expense", "7", "-c", "Comida", "--date", "15-03-2025 10:00:00")
	mustRun(t, cfg, "add", "expense", "100", "-c", "Vivienda", "--date", "01-04-2025 10:00:00")
	mustRun(t, cfg, "add", "income", "500", "-c", "Salario", "--date", "01-03-2025 08:00:00")
}

func TestExpenses_Totals(t *testing.T) {
	_, cfg := setupProject(t)
	seedExpenses(t, cfg)

	out := mustRun(t, cfg, "expenses")
	assert.Contains(t, out, "Comida")
	assert.Contains(t, out, "17.00")
	assert.Contains(t, out, "122.00")
	assert.NotContains(t, out, "Salario")
}

func TestExpenses_Monthly(t *testing.T) {
	_, cfg := setupProject(t)
	seedExpenses(t, cfg)

	out := mustRun(t, cfg, "expenses", "--monthly", "--year", "2025", "--month", "3")
	assert.Contains(t, out, "Expenses for 03/2025")
	assert.Contains(t, out, "17.00")
	assert.Contains(t, out, "22.00")
	assert.NotContains(t, out, "Vivienda")

	out = mustRun(t, cfg, "expenses", "--monthly", "--year", "2025", "--month", "13")
	assert.Contains(t, out, "No data found.")

	out = mustRun(t, cfg, "expenses", "--monthly", "--year", "twenty")
	assert.Contains(t, out, "Invalid date")
}

func TestExpenses_Daily(t *testing.T) {
	_, cfg := setupProject(t)
	seedExpenses(t, cfg)

	out := mustRun(t, cfg, "expenses", "--daily", "--year", "2025", "--month", "3")
	assert.Contains(t, out, "Day")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "0.00")
}

func TestExpenses_Yearly(t *testing.T) {
	_, cfg := setupProject(t)
	seedExpenses(t, cfg)

	out := mustRun(t, cfg, "expenses", "--yearly", "--year", "2025")
	assert.Contains(t, out, "March")
	assert.Contains(t, out, "April")

	out = mustRun(t, cfg, "expenses", "--yearly", "--year", "abc")
	assert.Contains(t, out, "Invalid year")
}

func TestExpenses_AllYears(t *testing.T) {
	_, cfg := setupProject(t)
	year := time.Now().Year()
	mustRun(t, cfg, "add", "expense", "8", "--date", fmt.Sprintf("01-01-%d 10:00:00", year))
	mustRun(t, cfg, "add", "expense", "9", "--date", fmt.Sprintf("01-01-%d 10:00:00", year-20))

	out := mustRun(t, cfg, "expenses", "--all-years")
	assert.Contains(t, out, fmt.Sprint(year))
	assert.NotContains(t, out, fmt.Sprint(year-20))
}

func TestExpenses_ModesAreExclusive(t *testing.T) {
	_, cfg := setupProject(t)
	_, err := runGestor(t, cfg, "", "expenses", "--monthly", "--yearly")
	assert.Error(t, err)
}

var addedID = regexp.MustCompile(`Added ([0-9a-f]{8}) at position`)

func TestDelete(t *testing.T) {
	_, cfg := setupProject(t)
	mustRun(t, cfg, "add", "expense", "1", "-d", "first")
	out := mustRun(t, cfg, "add", "expense", "2", "-d", "second")
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2)

	_, err := runGestor(t, cfg, "", "delete", "5")
	assert.ErrorContains(t, err, "no transaction at position 5")

	out = mustRun(t, cfg, "delete", "0")
	assert.Contains(t, out, "first")

	out = mustRun(t, cfg, "delete", "--id", m[1])
	assert.Contains(t, out, "second")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "No transactions.")
}

func TestEdit(t *testing.T) {
	_, cfg := setupProject(t)
	mustRun(t, cfg, "add", "expense", "10", "-c", "Comida", "--date", "01-03-2025 10:00:00")

	out := mustRun(t, cfg, "edit", "0", "Amount=99", "category=Ocio", "Date=not-a-date")
	assert.Contains(t, out, "Skipped Date")
	assert.Contains(t, out, "99.00 - Ocio")
	assert.Contains(t, out, "01-03-2025 10:00:00")

	_, err := runGestor(t, cfg, "", "edit", "0", "Bogus=1")
	assert.Error(t, err)

	_, err = runGestor(t, cfg, "", "edit", "3", "Amount=1")
	assert.Error(t, err)

	_, err = runGestor(t, cfg, "", "edit", "0", "Amount")
	assert.ErrorContains(t, err, "expected Field=Value")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "99.00")
}

func TestSearch(t *testing.T) {
	_, cfg := setupProject(t)
	seedExpenses(t, cfg)

	out := mustRun(t, cfg, "search", "--category", "com")
	assert.Contains(t, out, "Comida")
	assert.NotContains(t, out, "Vivienda")

	out = mustRun(t, cfg, "search", "--start", "01-04-2025 00:00:00", "--end", "30-04-2025 23:59:59")
	assert.Contains(t, out, "Vivienda")
	assert.NotContains(t, out, "Comida")

	out = mustRun(t, cfg, "search", "--start", "April")
	assert.Contains(t, out, "Invalid date")

	out = mustRun(t, cfg, "search", "--description", "nothing like this")
	assert.Contains(t, out, "No data found.")
}

func TestChart(t *testing.T) {
	dir, cfg := setupProject(t)
	seedExpenses(t, cfg)

	out := mustRun(t, cfg, "chart", "--summary", "categories", "--kind", "pie")
	assert.Contains(t, out, "Expenses by category")
	assert.FileExists(t, filepath.Join(dir, "graficas", "Expenses by category.txt"))

	mustRun(t, cfg, "chart", "--summary", "daily", "--kind", "bar", "--year", "2025", "--month", "3")
	assert.FileExists(t, filepath.Join(dir, "graficas", "Daily expenses 03-2025.txt"))

	mustRun(t, cfg, "chart", "--summary", "monthly", "--kind", "line", "--year", "2025")
	assert.FileExists(t, filepath.Join(dir, "graficas", "Monthly expenses 2025.txt"))

	out = mustRun(t, cfg, "chart", "--summary", "daily", "--year", "1999", "--month", "1")
	assert.Contains(t, out, "No data found.")
}

func TestChart_Invalid(t *testing.T) {
	_, cfg := setupProject(t)

	_, err := runGestor(t, cfg, "", "chart", "--kind", "scatter")
	assert.ErrorIs(t, err, report.ErrUnsupportedChart)

	mustRun(t, cfg, "add", "expense", "1")
	_, err = runGestor(t, cfg, "", "chart", "--summary", "weekly")
	assert.ErrorContains(t, err, "unknown summary")
}

func TestImport(t *testing.T) {
	dir, cfg := setupProject(t)
	data, err := os.ReadFile("../../testdata/chase_checking.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "import", "chase.csv"), data, 0o644))

	out := mustRun(t, cfg, "import")
	assert.Contains(t, out, "Imported 6 transactions from chase.csv")
	assert.FileExists(t, filepath.Join(dir, "data", "import", "processed", "chase.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "data", "import", "chase.csv"))

	out = mustRun(t, cfg, "balance")
	assert.Contains(t, out, "Balance: 2402.86")

	out = mustRun(t, cfg, "import")
	assert.Contains(t, out, "Nothing to import.")
}

func TestImport_BadFileIsLogged(t *testing.T) {
	dir, cfg := setupProject(t)
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\nDEBIT,yesterday,x,-1,DEBIT_CARD,0,\n"), 0o644))

	out := mustRun(t, cfg, "import", bad)
	assert.Contains(t, out, "Failed bad.csv")

	out = mustRun(t, cfg, "errors")
	assert.Contains(t, out, "read_error")
	assert.Contains(t, out, "bad.csv")

	_, err := runGestor(t, cfg, "", "import", "--format", "nope", bad)
	assert.ErrorContains(t, err, "unknown import format")
}

func TestErrors_FromLoad(t *testing.T) {
	dir, cfg := setupProject(t)
	snapshot := "Model,Amount,Category,Description,Date,ID\n" +
		"expense,doce,Comida,,01-01-2025 10:00:00,\n" +
		"income,10,Extra,,01-01-2025 10:00:00,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "data_2025-01-01.csv"), []byte(snapshot), 0o644))

	out := mustRun(t, cfg, "balance")
	assert.Contains(t, out, "warning: skipped invalid_amount")
	assert.Contains(t, out, "Balance: 10.00")

	out = mustRun(t, cfg, "errors", "--last", "1")
	assert.Contains(t, out, "invalid_amount")
}

func TestErrors_Empty(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, filepath.Join(dir, "gestor.yaml"), "errors")
	assert.Contains(t, out, "No errors logged.")
}

func TestSQLiteBackend(t *testing.T) {
	dir, cfg := setupProject(t, "--backend", "sqlite")
	mustRun(t, cfg, "add", "income", "20", "--date", "01-01-2025 10:00:00")
	mustRun(t, cfg, "add", "expense", "5", "--date", "02-01-2025 10:00:00")

	assert.FileExists(t, filepath.Join(dir, "data", "gestor.db"))
	out := mustRun(t, cfg, "balance")
	assert.Contains(t, out, "Balance: 15.00")
}

func TestEnvOverride(t *testing.T) {
	dir, cfg := setupProject(t)
	t.Setenv("GESTOR_BACKEND", "sqlite")
	mustRun(t, cfg, "add", "income", "1")
	assert.FileExists(t, filepath.Join(dir, "data", "gestor.db"))
}

func TestVersion(t *testing.T) {
	out, err := runGestor(t, filepath.Join(t.TempDir(), "gestor.yaml"), "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
