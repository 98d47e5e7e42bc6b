// Package ledger holds the in-memory transaction table and its aggregation queries.
//
// A Ledger is not safe for concurrent use; hosts that share one across
// goroutines must serialize access themselves.
package ledger

import (
	"strings"
	"time"

	"github.com/gestor-dev/gestor/internal/id"
	"github.com/gestor-dev/gestor/internal/model"
)

// Field names a mutable transaction column.
type Field string

const (
	FieldKind        Field = "Model"
	FieldAmount      Field = "Amount"
	FieldCategory    Field = "Category"
	FieldDescription Field = "Description"
	FieldDate        Field = "Date"
)

// Fields lists the editable fields in column order.
var Fields = []Field{FieldKind, FieldAmount, FieldCategory, FieldDescription, FieldDate}

// ParseField resolves a field name case-insensitively. "Type" is accepted for Model.
func ParseField(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "type") {
		return FieldKind, true
	}
	for _, f := range Fields {
		if strings.EqualFold(name, string(f)) {
			return f, true
		}
	}
	return "", false
}

// Change is one field assignment in a batch edit.
type Change struct {
	Field string
	Value string
}

// Ledger is an ordered table of transactions. Row position is insertion order.
type Ledger struct {
	rows []model.Transaction
	ids  map[string]struct{}
	now  func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the source of "now" used for default years and months.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{ids: make(map[string]struct{}), now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromTransactions creates a Ledger hydrated with txs in order.
func FromTransactions(txs []model.Transaction, opts ...Option) *Ledger {
	l := New(opts...)
	l.rows = make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		l.Add(tx)
	}
	return l
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Len returns the number of rows.
func (l *Ledger) Len() int {
	return len(l.rows)
}

// Transactions returns a copy of all rows in order.
func (l *Ledger) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(l.rows))
	copy(out, l.rows)
	return out
}

// At returns the row at position.
func (l *Ledger) At(position int) (model.Transaction, bool) {
	if !l.inRange(position) {
		return model.Transaction{}, false
	}
	return l.rows[position], true
}

// IDs returns every row's ID in order.
func (l *Ledger) IDs() []string {
	ids := make([]string, len(l.rows))
	for i, tx := range l.rows {
		ids[i] = tx.ID
	}
	return ids
}

// Add appends tx and returns the stored row. A missing ID, or one already
// held by another row, is replaced with a fresh one.
func (l *Ledger) Add(tx model.Transaction) model.Transaction {
	if _, taken := l.ids[tx.ID]; tx.ID == "" || taken {
		tx.ID = id.New()
	}
	l.ids[tx.ID] = struct{}{}
	l.rows = append(l.rows, tx)
	return tx
}

// Edit sets one field of the row at position. It reports false for an
// out-of-range position or an unknown field. A value that does not parse for
// its field (dates, amounts, kinds) is skipped and Edit still reports true.
func (l *Ledger) Edit(position int, field, value string) bool {
	_, ok := l.EditMany(position, []Change{{Field: field, Value: value}})
	return ok
}

// EditMany applies changes to the row at position. Field names are all
// checked before anything is written, so an unknown field leaves the row as
// it was. Values that fail to parse are skipped and returned by field name.
func (l *Ledger) EditMany(position int, changes []Change) (skipped []string, ok bool) {
	if !l.inRange(position) {
		return nil, false
	}

	fields := make([]Field, len(changes))
	for i, c := range changes {
		f, known := ParseField(c.Field)
		if !known {
			return nil, false
		}
		fields[i] = f
	}

	tx := l.rows[position]
	for i, c := range changes {
		if !apply(&tx, fields[i], c.Value) {
			skipped = append(skipped, string(fields[i]))
		}
	}
	l.rows[position] = tx
	return skipped, true
}

func apply(tx *model.Transaction, f Field, value string) bool {
	switch f {
	case FieldKind:
		k, err := model.ParseKind(value)
		if err != nil {
			return false
		}
		tx.Kind = k
	case FieldAmount:
		amt, err := model.ParseAmount(value)
		if err != nil {
			return false
		}
		tx.Amount = amt
	case FieldCategory:
		tx.Category = value
	case FieldDescription:
		tx.Description = value
	case FieldDate:
		ts, err := model.ParseTimestamp(value)
		if err != nil {
			return false
		}
		tx.Timestamp = ts
	}
	return true
}

// Delete removes the row at position; later rows move down by one.
func (l *Ledger) Delete(position int) bool {
	if !l.inRange(position) {
		return false
	}
	delete(l.ids, l.rows[position].ID)
	l.rows = append(l.rows[:position], l.rows[position+1:]...)
	return true
}

// Get returns the row with the given ID.
func (l *Ledger) Get(txID string) (model.Transaction, bool) {
	pos := l.PositionOf(txID)
	if pos < 0 {
		return model.Transaction{}, false
	}
	return l.rows[pos], true
}

// PositionOf returns the current position of txID, or -1.
func (l *Ledger) PositionOf(txID string) int {
	for i, tx := range l.rows {
		if tx.ID == txID {
			return i
		}
	}
	return -1
}

// EditByID is EditMany addressed by stable ID.
func (l *Ledger) EditByID(txID string, changes []Change) (skipped []string, ok bool) {
	return l.EditMany(l.PositionOf(txID), changes)
}

// DeleteByID is Delete addressed by stable ID.
func (l *Ledger) DeleteByID(txID string) bool {
	return l.Delete(l.PositionOf(txID))
}

func (l *Ledger) inRange(position int) bool {
	return position >= 0 && position < len(l.rows)
}
