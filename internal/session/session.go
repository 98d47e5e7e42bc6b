// Package session wires a Ledger to its configured storage: it hydrates the
// ledger on open, records load problems in the import log and writes
// everything back on save.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/gestor-dev/gestor/internal/categories"
	"github.com/gestor-dev/gestor/internal/config"
	"github.com/gestor-dev/gestor/internal/gitops"
	"github.com/gestor-dev/gestor/internal/importlog"
	"github.com/gestor-dev/gestor/internal/ledger"
	"github.com/gestor-dev/gestor/internal/log"
	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/store"
	"github.com/gestor-dev/gestor/internal/store/csvstore"
	"github.com/gestor-dev/gestor/internal/store/sqlitestore"
)

// Session is one open ledger together with where it came from.
type Session struct {
	Ledger     *ledger.Ledger
	Categories *categories.Service
	LoadErrors []store.ErrorEntry

	cfg     *config.Config
	adapter store.Adapter
	log     *log.Logger
	now     func() time.Time
}

// Option configures Open.
type Option func(*Session)

// WithClock overrides the session clock, shared by the ledger and the CSV
// snapshot names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithAdapter replaces the adapter selected by the config.
func WithAdapter(a store.Adapter) Option {
	return func(s *Session) { s.adapter = a }
}

// NewAdapter returns the storage adapter selected by cfg.
func NewAdapter(cfg *config.Config, now func() time.Time) store.Adapter {
	if cfg.Storage.Backend == config.BackendSQLite {
		return sqlitestore.New(cfg.Storage.SQLitePath)
	}
	return csvstore.New(cfg.Storage.DataDir, cfg.Storage.FilePrefix, csvstore.WithClock(now))
}

// Open loads the configured storage into a new Ledger. Load problems never
// fail Open: they are kept in LoadErrors, and the ones not logged before are
// appended to the import log. An unreadable category file falls back to the
// built-in categories.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...Option) (*Session, error) {
	s := &Session{cfg: cfg, log: logger.WithComponent(log.ComponentStorage), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.adapter == nil {
		s.adapter = NewAdapter(cfg, s.now)
	}

	cats, err := categories.LoadOrDefault(cfg.Storage.DataDir)
	if err != nil {
		s.log.Warn("using default categories", log.FieldError, err)
		cats = categories.NewService(categories.Default())
	}
	s.Categories = cats

	res := s.adapter.Load(ctx)
	s.Ledger = ledger.FromTransactions(res.Transactions, ledger.WithClock(s.now))
	s.LoadErrors = res.Errors
	s.log.Debug("ledger loaded", log.FieldPath, s.adapter.Location(), log.FieldCount, s.Ledger.Len())

	s.logLoadErrors(res.Errors)
	return s, nil
}

// logLoadErrors appends skipped rows to the import log once. A missing
// snapshot is the normal state of a new data dir and is not logged.
func (s *Session) logLoadErrors(errs []store.ErrorEntry) {
	var skipped []store.ErrorEntry
	for _, e := range errs {
		if e.Kind != store.KindNotFound {
			skipped = append(skipped, e)
		}
	}
	entries := importlog.FromErrors(s.now(), s.adapter.Location(), skipped)
	n, err := importlog.AppendNew(s.cfg.Storage.DataDir, entries)
	if err != nil {
		s.log.Warn("import log not updated", log.FieldError, err)
		return
	}
	if n > 0 {
		s.log.Warn("skipped records on load", log.FieldCount, n, "source", s.adapter.Location())
	}
}

// Location describes where the session loads from.
func (s *Session) Location() string {
	return s.adapter.Location()
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// RecordErrors appends errs to the import log under source and logs a warning
// for each one.
func (s *Session) RecordErrors(source string, errs []store.ErrorEntry) error {
	for _, e := range errs {
		s.log.Warn("skipped record", "kind", string(e.Kind), "message", e.Message, "source", source)
	}
	if err := importlog.Append(s.cfg.Storage.DataDir, importlog.FromErrors(s.now(), source, errs)); err != nil {
		return fmt.Errorf("recording load errors: %w", err)
	}
	return nil
}

// NewTransaction builds a transaction with the session clock, filling an
// empty category with the configured default for kind.
func (s *Session) NewTransaction(kind model.Kind, amount, category, description, when string) (model.Transaction, error) {
	amt, err := model.ParseAmount(amount)
	if err != nil {
		return model.Transaction{}, err
	}
	if category == "" {
		category = s.DefaultCategory(kind)
	}
	return model.New(kind, amt, s.Categories.Canonical(category), description, when, s.now())
}

// DefaultCategory returns the configured fallback category for kind.
func (s *Session) DefaultCategory(kind model.Kind) string {
	switch {
	case kind == model.KindIncome && s.cfg.Categories.IncomeDefault != "":
		return s.cfg.Categories.IncomeDefault
	case kind == model.KindExpense && s.cfg.Categories.ExpenseDefault != "":
		return s.cfg.Categories.ExpenseDefault
	}
	return categories.DefaultFor(kind)
}

// Save writes the whole ledger back and, when enabled, commits the data dir.
// It returns where the ledger was written.
func (s *Session) Save(ctx context.Context) (string, error) {
	path, err := s.adapter.Save(ctx, s.Ledger.Transactions())
	if err != nil {
		return "", fmt.Errorf("saving ledger: %w", err)
	}
	s.log.Info("ledger saved", log.FieldPath, path, log.FieldCount, s.Ledger.Len())

	if s.cfg.Git.AutoCommit && gitops.IsRepo(s.cfg.Storage.DataDir) {
		c := gitops.Committer{
			Dir:         s.cfg.Storage.DataDir,
			AuthorName:  s.cfg.Git.AuthorName,
			AuthorEmail: s.cfg.Git.AuthorEmail,
		}
		hash, err := c.CommitSnapshot(ctx, path)
		if err != nil {
			return path, fmt.Errorf("committing snapshot: %w", err)
		}
		if hash != "" {
			s.log.WithComponent(log.ComponentGit).Info("snapshot committed", "commit", hash)
		}
	}
	return path, nil
}
