package workbook

import (
	"errors"
	"fmt"
	"strings"
)

// Workbook error codes
const (
	ErrCodeWorkbookInvalidFile = "ERR_WORKBOOK_INVALID_FILE"
	ErrCodeWorkbookEmpty       = "ERR_WORKBOOK_EMPTY"
	ErrCodeMissingSheets       = "ERR_WORKBOOK_MISSING_SHEETS"
	ErrCodeMissingColumns      = "ERR_WORKBOOK_MISSING_COLUMNS"
	ErrCodeRowBinding          = "ERR_WORKBOOK_ROW_BINDING"
)

// Common workbook errors
var (
	// ErrInvalidWorkbook is returned when the file cannot be opened as xlsx
	ErrInvalidWorkbook = errors.New("file is not a valid Excel workbook")

	// ErrEmptyWorkbook is returned when the workbook has no sheets
	ErrEmptyWorkbook = errors.New("workbook contains no sheets")
)

// MissingSheetsError rejects an upload wholesale when required sheets are
// absent. Its message is shown to the user verbatim.
type MissingSheetsError struct {
	Sheets []string
}

// Error implements the error interface
func (e *MissingSheetsError) Error() string {
	return "Missing required sheets: " + strings.Join(e.Sheets, ", ")
}

// RowError represents a binding failure for one row of one sheet
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e RowError) Error() string {
	return fmt.Sprintf("Sheet %s row %d: %s", e.Sheet, e.Row, e.Message)
}

// NewRowError creates a new RowError. Row is the 1-based worksheet row,
// header included, matching what the user sees in Excel.
func NewRowError(sheet string, row int, code, message string) RowError {
	return RowError{
		Sheet:   sheet,
		Row:     row,
		Code:    code,
		Message: message,
	}
}

// ErrorCollection accumulates row errors up to a cap so a pathological
// upload cannot balloon the response
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddBindingError records a row that failed to decode into its table
func (ec *ErrorCollection) AddBindingError(sheet string, row int, err error) {
	ec.Add(NewRowError(sheet, row, ErrCodeRowBinding, err.Error()))
}

// AddMissingColumns records schema columns absent from a sheet's header row
func (ec *ErrorCollection) AddMissingColumns(sheet string, columns []string) {
	ec.Add(NewRowError(sheet, 1, ErrCodeMissingColumns,
		fmt.Sprintf("missing columns: %s", strings.Join(columns, ", "))))
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Count returns the number of collected errors (up to the cap)
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns the total number of errors including those not collected
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped due to the cap
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// ValidationResult reports the outcome of binding an uploaded workbook
type ValidationResult struct {
	TotalRows   int              `json:"total_rows"`
	ValidRows   int              `json:"valid_rows"`
	ErrorRows   int              `json:"error_rows"`
	Errors      []RowError       `json:"errors,omitempty"`
	Preview     []map[string]any `json:"preview,omitempty"`
	IsTruncated bool             `json:"is_truncated,omitempty"`
	TotalErrors int              `json:"total_errors,omitempty"`
}

// NewValidationResult creates an empty ValidationResult
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Errors:  make([]RowError, 0),
		Preview: make([]map[string]any, 0),
	}
}

// AddPreview keeps the first few bound rows for the response
func (vr *ValidationResult) AddPreview(row map[string]any) {
	if len(vr.Preview) < 5 {
		vr.Preview = append(vr.Preview, row)
	}
}

// SetErrors copies the collection into the result
func (vr *ValidationResult) SetErrors(ec *ErrorCollection) {
	vr.Errors = ec.Errors()
	vr.IsTruncated = ec.IsTruncated()
	vr.TotalErrors = ec.TotalCount()
}

// IsValid returns true when every row bound cleanly
func (vr *ValidationResult) IsValid() bool {
	return vr.ErrorRows == 0
}
