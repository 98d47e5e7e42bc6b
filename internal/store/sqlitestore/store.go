// Package sqlitestore persists the ledger in a single SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/store"
)

// Store reads and rewrites the transactions table of one database file.
type Store struct {
	path string
}

var _ store.Adapter = (*Store)(nil)

// New creates a Store for the database at path. Nothing is opened yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Location returns the database path.
func (s *Store) Location() string {
	return s.path
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(s.path); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Load reads all rows in position order. A missing database file is reported
// as not_found without creating it.
func (s *Store) Load(ctx context.Context) store.LoadResult {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return store.LoadResult{Errors: []store.ErrorEntry{{
			Kind:    store.KindNotFound,
			Message: fmt.Sprintf("database %s does not exist", s.path),
		}}}
	}

	db, err := s.open()
	if err != nil {
		return readFailure(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT position, id, kind, amount, category, description, date FROM transactions ORDER BY position`)
	if err != nil {
		return readFailure(fmt.Errorf("query transactions: %w", err))
	}
	defer rows.Close()

	var res store.LoadResult
	for rows.Next() {
		var (
			position           int
			txID               string
			kind, amount, date sql.NullString
			category, desc     string
		)
		if err := rows.Scan(&position, &txID, &kind, &amount, &category, &desc, &date); err != nil {
			res.Errors = append(res.Errors, store.ErrorEntry{Kind: store.KindReadError, Message: fmt.Sprintf("scan row: %v", err)})
			continue
		}

		tx, err := store.UnmarshalRecord(store.Record{
			ID:          txID,
			Kind:        kind.String,
			Amount:      amount.String,
			Category:    category,
			Description: desc,
			Date:        date.String,
		})
		if err != nil {
			res.Errors = append(res.Errors, store.ErrorEntry{
				Kind:    store.Classify(err),
				Message: fmt.Sprintf("position %d (%s): %v", position, txID, err),
			})
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		res.Errors = append(res.Errors, store.ErrorEntry{Kind: store.KindReadError, Message: fmt.Sprintf("iterate rows: %v", err)})
	}
	return res
}

// Save replaces every row with txs inside one SQL transaction.
func (s *Store) Save(ctx context.Context, txs []model.Transaction) (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", fmt.Errorf("create db directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return "", fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT INTO transactions (position, id, kind, amount, category, description, date) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		rec := store.MarshalRecord(tx)
		if _, err := stmt.ExecContext(ctx, i, rec.ID, rec.Kind, rec.Amount, rec.Category, rec.Description, rec.Date); err != nil {
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return s.path, nil
}

func readFailure(err error) store.LoadResult {
	return store.LoadResult{Errors: []store.ErrorEntry{{Kind: store.KindReadError, Message: err.Error()}}}
}
