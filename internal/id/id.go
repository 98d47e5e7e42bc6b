package id

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ShortLen is the number of characters shown for an ID in listings.
const ShortLen = 8

var (
	// ErrNotFound is returned when no ID carries the prefix.
	ErrNotFound = errors.New("no transaction with that id")
	// ErrAmbiguous is returned when more than one ID carries the prefix.
	ErrAmbiguous = errors.New("id prefix is ambiguous")
)

// New returns a fresh transaction ID.
func New() string {
	return uuid.NewString()
}

// Short returns the display prefix of an ID.
// "0b7c5d0e-9a4f-4c1e-8f5a-2d3e4f5a6b7c" -> "0b7c5d0e"
func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Resolve finds the single ID in ids that starts with prefix (case-insensitive).
func Resolve(prefix string, ids []string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%w: empty prefix", ErrNotFound)
	}

	var match string
	for _, candidate := range ids {
		if !strings.HasPrefix(strings.ToLower(candidate), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %q", ErrAmbiguous, prefix)
		}
		match = candidate
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, prefix)
	}
	return match, nil
}
