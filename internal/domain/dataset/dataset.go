package dataset

import (
	"fmt"
	"time"

	"github.com/kpihub/backend/internal/domain/shared"
)

// Sheet describes a single worksheet: its canonical name and column order.
// Column order is used when generating workbook templates and exports.
type Sheet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Schema is the workbook layout a department accepts. Every sheet in the
// schema is required on upload.
type Schema struct {
	Sheets []Sheet `json:"sheets"`
}

// SheetNames returns the required sheet names in canonical order
func (s Schema) SheetNames() []string {
	names := make([]string, 0, len(s.Sheets))
	for _, sheet := range s.Sheets {
		names = append(names, sheet.Name)
	}
	return names
}

// Sheet returns the sheet definition with the given name
func (s Schema) Sheet(name string) (Sheet, bool) {
	for _, sheet := range s.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return Sheet{}, false
}

// Missing returns the required sheet names that are absent from present,
// in canonical order
func (s Schema) Missing(present []string) []string {
	have := make(map[string]bool, len(present))
	for _, name := range present {
		have[name] = true
	}
	var missing []string
	for _, sheet := range s.Sheets {
		if !have[sheet.Name] {
			missing = append(missing, sheet.Name)
		}
	}
	return missing
}

// View is a rendered table: column headers plus row cells in column order.
// Cells hold nil when the source field was never populated.
type View struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Empty reports whether the view has no rows
func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// Tabular is the contract every department dataset implements. A dataset is
// a set of named in-memory tables decoded from one workbook.
type Tabular interface {
	// Department returns the owning department key
	Department() string
	// Schema returns the workbook layout this dataset was decoded from
	Schema() Schema
	// TableNames returns all table names in canonical order
	TableNames() []string
	// View renders the named table
	View(table string) (View, error)
	// Append decodes a single record into the named table
	Append(table string, record map[string]any) error
	// Clear empties the named table
	Clear(table string) error
	// Reset empties every table
	Reset()
	// Between returns a copy restricted to rows whose primary date falls
	// within [start, end]. The end bound is date-level and covers its
	// whole day. A zero bound is open. Reference tables without a date
	// column are kept whole.
	Between(start, end time.Time) Tabular
	// Clone returns a deep copy. Stores hand clones to requests so one
	// request's mutations never leak into another's snapshot.
	Clone() Tabular
	// TotalRows returns the row count across all tables
	TotalRows() int
	// Empty reports whether no table has any rows
	Empty() bool
}

// ErrUnknownTable builds the domain error returned when a table name does
// not belong to the dataset's schema
func ErrUnknownTable(table string) *shared.DomainError {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Unknown table: %s", table))
}

// ErrInvalidRecord builds the domain error returned when a record fails to
// decode into the named table
func ErrInvalidRecord(table string, err error) *shared.DomainError {
	return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid record for table %s: %v", table, err))
}
