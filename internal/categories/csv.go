package categories

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gestor-dev/gestor/internal/model"
)

const (
	numFields = 2
	colName   = 0
	colKind   = 1
)

// ReadCategories reads categories.csv.
func ReadCategories(r io.Reader) ([]Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var cats []Category
	for i, rec := range records[1:] {
		c, err := UnmarshalCategory(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// WriteCategories writes categories.csv.
func WriteCategories(w io.Writer, cats []Category) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"name", "kind"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range cats {
		if err := cw.Write(MarshalCategory(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCategory converts a Category to a CSV row.
func MarshalCategory(c Category) []string {
	row := make([]string, numFields)
	row[colName] = c.Name
	row[colKind] = string(c.Kind)
	return row
}

// UnmarshalCategory converts a CSV row to a Category.
func UnmarshalCategory(record []string) (Category, error) {
	if len(record) != numFields {
		return Category{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colName] == "" {
		return Category{}, fmt.Errorf("empty category name")
	}
	kind, err := model.ParseKind(record[colKind])
	if err != nil {
		return Category{}, fmt.Errorf("category %q: %w", record[colName], err)
	}
	return Category{Name: record[colName], Kind: kind}, nil
}
