package commands_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestMenu_InvalidChoiceReprompts(t *testing.T) {
	_, cfg := setupProject(t)

	out, err := runGestor(t, cfg, lines("x", "42", "3", "0"), "menu")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Invalid option, try again."))
	assert.Contains(t, out, "Balance: 0.00")
	assert.Contains(t, out, "Saved to")
}

func TestMenu_AddAndSave(t *testing.T) {
	_, cfg := setupProject(t)

	// Expense 12.5 in category 1 (Comida), then income with default category.
	input := lines(
		"2", "12.5", "1", "Cena", "",
		"1", "100", "", "Regalo cumple", "01-01-2025 10:00:00",
		"3",
		"0",
	)
	out, err := runGestor(t, cfg, input, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: 87.50")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "Comida")
	assert.Contains(t, out, "Cena")
	assert.Contains(t, out, "Correcciones")
}

func TestMenu_AddRejectsBadAmount(t *testing.T) {
	_, cfg := setupProject(t)

	out, err := runGestor(t, cfg, lines("2", "-4", "", "", "", "0"), "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Not added")

	out = mustRun(t, cfg, "list")
	assert.Contains(t, out, "No transactions.")
}

func TestMenu_EOFSaves(t *testing.T) {
	_, cfg := setupProject(t)

	out, err := runGestor(t, cfg, lines("2", "7", "Transporte", "Bus", ""), "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to")

	out = mustRun(t, cfg, "balance")
	assert.Contains(t, out, "Balance: -7.00")
}

func TestMenu_EditDeleteSearch(t *testing.T) {
	_, cfg := setupProject(t)
	mustRun(t, cfg, "add", "expense", "10", "-c", "Comida", "--date", "01-03-2025 10:00:00")
	mustRun(t, cfg, "add", "expense", "20", "-c", "Ocio", "--date", "02-03-2025 10:00:00")

	input := lines(
		"8", "0", "Amount", "11",
		"8", "0", "Date", "yesterday",
		"7", "1",
		"9", "expense", "", "", "", "",
		"0",
	)
	out, err := runGestor(t, cfg, input, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 0")
	assert.Contains(t, out, `Not edited: "yesterday" is not a valid Date.`)
	assert.Contains(t, out, "Deleted position 1.")

	out = mustRun(t, cfg, "balance")
	assert.Contains(t, out, "Balance: -11.00")
}

func TestMenu_ExpensesAndCharts(t *testing.T) {
	dir, cfg := setupProject(t)
	mustRun(t, cfg, "add", "expense", "10", "-c", "Comida", "--date", "01-03-2025 10:00:00")

	input := lines(
		"4", "9", "2", "2025", "3",
		"5", "1", "2",
		"0",
	)
	out, err := runGestor(t, cfg, input, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Expenses for 03/2025")
	assert.Contains(t, out, "Invalid option, try again.")
	assert.Contains(t, out, "Chart saved to")
	assert.FileExists(t, dir+"/graficas/Expenses by category.txt")
}
