package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/store"
)

// DefaultPrefix is the snapshot file name prefix.
const DefaultPrefix = "data_"

const snapshotDateFormat = "2006-01-02"

// Store keeps one snapshot per day in dir, named <prefix>YYYY-MM-DD.csv.
type Store struct {
	dir    string
	prefix string
	now    func() time.Time
}

var _ store.Adapter = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock that names new snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store rooted at dir. An empty prefix uses DefaultPrefix.
func New(dir, prefix string, opts ...Option) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Store{dir: dir, prefix: prefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the snapshot glob pattern.
func (s *Store) Location() string {
	return filepath.Join(s.dir, s.prefix+"*.csv")
}

// SnapshotPath returns the file Save writes for day.
func (s *Store) SnapshotPath(day time.Time) string {
	return filepath.Join(s.dir, s.prefix+day.Format(snapshotDateFormat)+".csv")
}

// Latest returns the most recently modified snapshot, or "" when none exist.
func (s *Store) Latest() (string, error) {
	matches, err := filepath.Glob(s.Location())
	if err != nil {
		return "", fmt.Errorf("listing snapshots: %w", err)
	}

	type snapshot struct {
		path string
		mod  time.Time
	}
	var snaps []snapshot
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		snaps = append(snaps, snapshot{path: m, mod: info.ModTime()})
	}
	if len(snaps) == 0 {
		return "", nil
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].mod.Equal(snaps[j].mod) {
			return snaps[i].mod.After(snaps[j].mod)
		}
		return snaps[i].path > snaps[j].path
	})
	return snaps[0].path, nil
}

// Load reads the newest snapshot.
func (s *Store) Load(_ context.Context) store.LoadResult {
	path, err := s.Latest()
	if err != nil {
		return store.LoadResult{Errors: []store.ErrorEntry{{Kind: store.KindReadError, Message: err.Error()}}}
	}
	if path == "" {
		return store.LoadResult{Errors: []store.ErrorEntry{{
			Kind:    store.KindNotFound,
			Message: fmt.Sprintf("no snapshot matching %s", s.Location()),
		}}}
	}
	return s.LoadFile(path)
}

// LoadFile reads one snapshot file.
func (s *Store) LoadFile(path string) store.LoadResult {
	f, err := os.Open(path)
	if err != nil {
		kind := store.KindReadError
		if os.IsNotExist(err) {
			kind = store.KindNotFound
		}
		return store.LoadResult{Errors: []store.ErrorEntry{{Kind: kind, Message: fmt.Sprintf("opening %s: %v", path, err)}}}
	}
	defer f.Close()

	return ReadTransactions(f)
}

// Save writes today's snapshot, creating dir if needed.
func (s *Store) Save(_ context.Context, txs []model.Transaction) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}

	path := s.SnapshotPath(s.now())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txs); err != nil {
		return "", fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing snapshot %s: %w", path, err)
	}
	return path, nil
}
