// Package categories keeps the list of known income and expense categories.
package categories

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gestor-dev/gestor/internal/model"
)

// FileName is the category list inside the data dir.
const FileName = "categories.csv"

// Category is a named bucket for one kind of transaction.
type Category struct {
	Name string
	Kind model.Kind
}

// Service provides lookup over the category list.
type Service struct {
	cats   []Category
	byName map[string]Category
}

// NewService creates a Service from a slice of categories.
func NewService(cats []Category) *Service {
	byName := make(map[string]Category, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Name)] = c
	}
	return &Service{cats: cats, byName: byName}
}

// Load reads categories.csv from dataDir.
func Load(dataDir string) (*Service, error) {
	f, err := os.Open(filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	cats, err := ReadCategories(f)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return NewService(cats), nil
}

// LoadOrDefault is Load, falling back to Default when the file is missing.
func LoadOrDefault(dataDir string) (*Service, error) {
	s, err := Load(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(Default()), nil
	}
	return s, err
}

// All returns all categories.
func (s *Service) All() []Category {
	return s.cats
}

// ByKind returns the categories of kind in list order.
func (s *Service) ByKind(kind model.Kind) []Category {
	var result []Category
	for _, c := range s.cats {
		if c.Kind == kind {
			result = append(result, c)
		}
	}
	return result
}

// Names returns the names of the categories of kind.
func (s *Service) Names(kind model.Kind) []string {
	var names []string
	for _, c := range s.ByKind(kind) {
		names = append(names, c.Name)
	}
	return names
}

// Canonical returns the known spelling of name, or name trimmed when unknown.
func (s *Service) Canonical(name string) string {
	name = strings.TrimSpace(name)
	if c, ok := s.byName[strings.ToLower(name)]; ok {
		return c.Name
	}
	return name
}

// Known reports whether name matches a category case-insensitively.
func (s *Service) Known(name string) bool {
	_, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// DefaultFor returns the category used when none is given.
func DefaultFor(kind model.Kind) string {
	if kind == model.KindIncome {
		return DefaultIncome
	}
	return DefaultExpense
}

// Save writes the list to dataDir/categories.csv.
func (s *Service) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dataDir, FileName))
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	if err := WriteCategories(f, s.cats); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}
