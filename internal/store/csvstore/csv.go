// Package csvstore persists the ledger as dated CSV snapshots.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/store"
)

// Header is the CSV header written by WriteTransactions.
const Header = "Model,Amount,Category,Description,Date,ID"

const (
	numFields = 6
	colKind   = 0
	colAmount = 1
	colCat    = 2
	colDesc   = 3
	colDate   = 4
	colID     = 5
)

// headerAliases maps accepted header names to column slots. Older files use
// Type for the kind column and Date/Time for the timestamp.
var headerAliases = map[string]int{
	"model":       colKind,
	"type":        colKind,
	"amount":      colAmount,
	"category":    colCat,
	"description": colDesc,
	"date":        colDate,
	"date/time":   colDate,
	"id":          colID,
}

// ReadTransactions decodes a snapshot. Bad rows are skipped and reported in
// the result; only a malformed CSV stream stops reading early.
func ReadTransactions(r io.Reader) store.LoadResult {
	var res store.LoadResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res
	}
	if err != nil {
		res.Errors = append(res.Errors, store.ErrorEntry{Kind: store.KindReadError, Message: fmt.Sprintf("reading header: %v", err)})
		return res
	}

	slots := mapHeader(header)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, store.ErrorEntry{Kind: store.KindReadError, Message: fmt.Sprintf("row %d: %v", line, err)})
			break
		}

		tx, err := store.UnmarshalRecord(UnmarshalRow(rec, slots))
		if err != nil {
			res.Errors = append(res.Errors, store.ErrorEntry{
				Kind:    store.Classify(err),
				Message: fmt.Sprintf("row %d %q: %v", line, strings.Join(rec, ","), err),
			})
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

// WriteTransactions writes txs with a header row.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalRow(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Transaction to a CSV row.
func MarshalRow(tx model.Transaction) []string {
	rec := store.MarshalRecord(tx)
	row := make([]string, numFields)
	row[colKind] = rec.Kind
	row[colAmount] = rec.Amount
	row[colCat] = rec.Category
	row[colDesc] = rec.Description
	row[colDate] = rec.Date
	row[colID] = rec.ID
	return row
}

// UnmarshalRow picks the record fields out of row using the column slots
// returned by mapHeader. Missing cells come back empty.
func UnmarshalRow(row []string, slots map[int]int) store.Record {
	cell := func(col int) string {
		i, ok := slots[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return store.Record{
		ID:          cell(colID),
		Kind:        cell(colKind),
		Amount:      cell(colAmount),
		Category:    cell(colCat),
		Description: cell(colDesc),
		Date:        cell(colDate),
	}
}

// mapHeader returns column slot -> index in the file.
func mapHeader(header []string) map[int]int {
	slots := make(map[int]int, numFields)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if col, ok := headerAliases[name]; ok {
			if _, dup := slots[col]; !dup {
				slots[col] = i
			}
		}
	}
	return slots
}
