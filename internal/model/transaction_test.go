package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)

func TestNew(t *testing.T) {
	tx, err := New(KindIncome, decimal.RequireFromString("100.0"), "Salario", "Pago mensual", "01-06-2024 10:00:00", testNow)
	require.NoError(t, err)

	assert.Equal(t, KindIncome, tx.Kind)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Salario", tx.Category)
	assert.Equal(t, "Pago mensual", tx.Description)
	assert.True(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local).Equal(tx.Timestamp))
	assert.Empty(t, tx.ID, "IDs are assigned by the ledger")
}

func TestNew_DefaultsToNow(t *testing.T) {
	tx, err := New(KindExpense, decimal.NewFromInt(5), "Comida", "", "  ", testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow, tx.Timestamp)
}

func TestNew_InvalidDate(t *testing.T) {
	_, err := New(KindExpense, decimal.NewFromInt(50), "Comida", "Cena", "2024-06-01", testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNew_InvalidKindAndAmount(t *testing.T) {
	_, err := New(Kind("transfer"), decimal.NewFromInt(1), "x", "", "", testNow)
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = New(KindIncome, decimal.NewFromInt(-1), "x", "", "", testNow)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSigned(t *testing.T) {
	in := Transaction{Kind: KindIncome, Amount: decimal.NewFromInt(30)}
	out := Transaction{Kind: KindExpense, Amount: decimal.NewFromInt(30)}
	assert.Equal(t, "30", in.Signed().String())
	assert.Equal(t, "-30", out.Signed().String())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"income", KindIncome, false},
		{"Expense", KindExpense, false},
		{" INCOME ", KindIncome, false},
		{"gasto", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKind, "ParseKind(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseKind(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1500", "1500", false},
		{"12.34", "12.34", false},
		{"12,34", "12.34", false},
		{"0", "0", false},
		{"-3", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidAmount, "ParseAmount(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ts, err := ParseTimestamp("31-12-2025 23:59:58")
	require.NoError(t, err)
	assert.Equal(t, "31-12-2025 23:59:58", FormatTimestamp(ts))
}
