// Package importlog keeps an append-only CSV audit of rows that could not be
// loaded or imported.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gestor-dev/gestor/internal/store"
)

// Entry is one row in the import error log.
type Entry struct {
	Timestamp time.Time
	Source    string
	Kind      store.ErrorKind
	Message   string
}

// Header is the CSV header for import-errors.csv.
const Header = "timestamp,source,kind,message"

const (
	numFields    = 4
	logDir       = "logs"
	logFile      = "logs/import-errors.csv"
	colTimestamp = 0
	colSource    = 1
	colKind      = 2
	colMessage   = 3
)

// FromErrors stamps the errors of one load or import with source and now.
func FromErrors(now time.Time, source string, errs []store.ErrorEntry) []Entry {
	entries := make([]Entry, 0, len(errs))
	for _, e := range errs {
		entries = append(entries, Entry{Timestamp: now, Source: source, Kind: e.Kind, Message: e.Message})
	}
	return entries
}

// Path returns the log file location under dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSource] = e.Source
	row[colKind] = string(e.Kind)
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Source:    record[colSource],
		Kind:      store.ErrorKind(record[colKind]),
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to <dataDir>/logs/import-errors.csv, creating the
// file and header if needed. Nothing is written for an empty slice.
func Append(dataDir string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Join(dataDir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dataDir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// AppendNew is Append minus the entries already logged with the same source,
// kind and message. It returns how many entries were written.
func AppendNew(dataDir string, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	existing, err := Read(dataDir)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.key()] = true
	}
	var fresh []Entry
	for _, e := range entries {
		if !seen[e.key()] {
			seen[e.key()] = true
			fresh = append(fresh, e)
		}
	}
	return len(fresh), Append(dataDir, fresh)
}

func (e Entry) key() string {
	return e.Source + "\x00" + string(e.Kind) + "\x00" + e.Message
}

// Read returns all entries from <dataDir>/logs/import-errors.csv.
// Returns nil if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(Path(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
