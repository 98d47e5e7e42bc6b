package ledger

import (
	"strings"
	"time"

	"github.com/gestor-dev/gestor/internal/model"
)

// List returns every row with its position. A kindFilter of "income" or
// "expense" keeps only that kind; any other value keeps everything.
func (l *Ledger) List(kindFilter string) []Row {
	kind, err := model.ParseKind(kindFilter)
	filter := err == nil

	var out []Row
	for i, tx := range l.rows {
		if filter && tx.Kind != kind {
			continue
		}
		out = append(out, Row{Position: i, Transaction: tx})
	}
	return out
}

// Search returns the rows matching every filter set in p. An unparsable
// Start or End bound yields StatusInvalidDate and no rows.
func (l *Ledger) Search(p SearchParams) SearchResult {
	var start, end time.Time
	var err error
	if strings.TrimSpace(p.Start) != "" {
		if start, err = model.ParseTimestamp(p.Start); err != nil {
			return SearchResult{Status: StatusInvalidDate}
		}
	}
	if strings.TrimSpace(p.End) != "" {
		if end, err = model.ParseTimestamp(p.End); err != nil {
			return SearchResult{Status: StatusInvalidDate}
		}
	}

	kind := strings.TrimSpace(p.Kind)
	category := strings.ToLower(p.Category)
	description := strings.ToLower(p.Description)

	var rows []Row
	for i, tx := range l.rows {
		if kind != "" && !strings.EqualFold(string(tx.Kind), kind) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(tx.Category), category) {
			continue
		}
		if description != "" && !strings.Contains(strings.ToLower(tx.Description), description) {
			continue
		}
		if !start.IsZero() && tx.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && tx.Timestamp.After(end) {
			continue
		}
		rows = append(rows, Row{Position: i, Transaction: tx})
	}

	if len(rows) == 0 {
		return SearchResult{Status: StatusNoData}
	}
	return SearchResult{Status: StatusOK, Rows: rows}
}
