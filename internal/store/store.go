// Package store defines the persistence adapter contract shared by the CSV
// and SQLite backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestor-dev/gestor/internal/model"
)

// ErrorKind classifies a load-time problem.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindReadError     ErrorKind = "read_error"
	KindMissingField  ErrorKind = "missing_field"
	KindInvalidAmount ErrorKind = "invalid_amount"
	KindInvalidDate   ErrorKind = "invalid_date"
	KindInvalidKind   ErrorKind = "invalid_kind"
)

// ErrorEntry records one skipped row or unreadable source.
type ErrorEntry struct {
	Kind    ErrorKind
	Message string
}

func (e ErrorEntry) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// LoadResult is returned fresh by every Load call.
type LoadResult struct {
	Transactions []model.Transaction
	Errors       []ErrorEntry
}

// Adapter reads and writes the whole transaction set.
type Adapter interface {
	// Load never fails outright: unreadable sources and bad rows end up in
	// LoadResult.Errors.
	Load(ctx context.Context) LoadResult
	// Save overwrites the stored set and returns where it was written.
	Save(ctx context.Context, txs []model.Transaction) (string, error)
	// Location describes where the adapter reads from.
	Location() string
}

// ErrMissingField is returned for rows lacking a required value.
var ErrMissingField = errors.New("missing required field")

// Classify maps a row decoding error to an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, model.ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, model.ErrInvalidFormat):
		return KindInvalidDate
	case errors.Is(err, model.ErrInvalidKind):
		return KindInvalidKind
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	default:
		return KindReadError
	}
}

// Record is the textual form of a transaction shared by the backends.
type Record struct {
	ID          string
	Kind        string
	Amount      string
	Category    string
	Description string
	Date        string
}

// MarshalRecord converts a Transaction to its textual form.
func MarshalRecord(tx model.Transaction) Record {
	return Record{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        model.FormatTimestamp(tx.Timestamp),
	}
}

// UnmarshalRecord validates a Record and converts it to a Transaction.
// Kind, Amount and Date are required.
func UnmarshalRecord(r Record) (model.Transaction, error) {
	if r.Kind == "" {
		return model.Transaction{}, fmt.Errorf("%w: Model", ErrMissingField)
	}
	if r.Amount == "" {
		return model.Transaction{}, fmt.Errorf("%w: Amount", ErrMissingField)
	}
	if r.Date == "" {
		return model.Transaction{}, fmt.Errorf("%w: Date", ErrMissingField)
	}

	kind, err := model.ParseKind(r.Kind)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := model.ParseAmount(r.Amount)
	if err != nil {
		return model.Transaction{}, err
	}
	ts, err := model.ParseTimestamp(r.Date)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:          r.ID,
		Kind:        kind,
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description,
		Timestamp:   ts,
	}, nil
}
