package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the fixed textual timestamp format (dd-mm-YYYY HH:MM:SS).
const TimestampLayout = "02-01-2006 15:04:05"

var (
	// ErrInvalidFormat is returned when timestamp text does not match TimestampLayout.
	ErrInvalidFormat = errors.New("invalid timestamp format")
	// ErrInvalidAmount is returned for negative or non-numeric amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidKind is returned for anything other than income or expense.
	ErrInvalidKind = errors.New("invalid kind")
)

// Transaction is one dated income or expense record.
type Transaction struct {
	ID          string
	Kind        Kind
	Amount      decimal.Decimal // always non-negative; sign comes from Kind
	Category    string
	Description string
	Timestamp   time.Time
}

// New builds a validated Transaction. An empty when defaults to now.
func New(kind Kind, amount decimal.Decimal, category, description, when string, now time.Time) (Transaction, error) {
	if !kind.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidKind, string(kind))
	}
	if amount.IsNegative() {
		return Transaction{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}

	ts := now
	if strings.TrimSpace(when) != "" {
		var err error
		ts, err = ParseTimestamp(when)
		if err != nil {
			return Transaction{}, err
		}
	}

	return Transaction{
		Kind:        kind,
		Amount:      amount,
		Category:    category,
		Description: description,
		Timestamp:   ts,
	}, nil
}

// Signed returns the amount with the balance sign applied.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// String renders the transaction the way the CLI lists it.
func (t Transaction) String() string {
	return fmt.Sprintf("%s: %s - %s - %s - %s",
		t.Kind, t.Amount.StringFixed(2), t.Category, t.Description, FormatTimestamp(t.Timestamp))
}

// ParseTimestamp parses text in TimestampLayout using the local zone.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want dd-mm-YYYY HH:MM:SS)", ErrInvalidFormat, s)
	}
	return ts, nil
}

// FormatTimestamp renders ts in TimestampLayout.
func FormatTimestamp(ts time.Time) string {
	return ts.Format(TimestampLayout)
}

// ParseAmount parses a non-negative decimal amount. A decimal comma is accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	return d, nil
}
