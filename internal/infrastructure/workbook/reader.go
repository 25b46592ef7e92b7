package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kpihub/backend/internal/domain/dataset"
)

// Reader wraps one uploaded xlsx workbook and turns worksheets into
// header-keyed records ready for table binding
type Reader struct {
	file *excelize.File
}

// OpenReader opens a workbook from an upload stream
func OpenReader(r io.Reader) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(f.GetSheetList()) == 0 {
		_ = f.Close()
		return nil, ErrEmptyWorkbook
	}
	return &Reader{file: f}, nil
}

// Close releases the underlying workbook
func (r *Reader) Close() error {
	return r.file.Close()
}

// SheetNames returns the worksheet names in workbook order
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// ValidateSheets checks that every sheet the schema requires is present.
// Rejection is wholesale: the caller must not bind anything on error.
func (r *Reader) ValidateSheets(schema dataset.Schema) error {
	if missing := schema.Missing(r.SheetNames()); len(missing) > 0 {
		return &MissingSheetsError{Sheets: missing}
	}
	return nil
}

// MissingColumns returns the schema columns absent from the sheet's header
// row, in schema order. Unknown extra columns are fine and ignored.
func (r *Reader) MissingColumns(sheet dataset.Sheet) ([]string, error) {
	rows, err := r.file.Rows(sheet.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer rows.Close()

	var header []string
	if rows.Next() {
		header, err = rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
		}
	}

	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range sheet.Columns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// Records reads one sheet into records keyed by the header row. Blank rows
// are skipped; cells right of the header width are ignored; rows shorter
// than the header get empty strings for the tail columns.
func (r *Reader) Records(sheet string) ([]map[string]any, error) {
	rows, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]map[string]any, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if blankRow(cells) {
			continue
		}
		record := make(map[string]any, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(cells) {
				record[header] = strings.TrimSpace(cells[i])
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// AllRecords validates sheet presence and reads every schema sheet
func (r *Reader) AllRecords(schema dataset.Schema) (map[string][]map[string]any, error) {
	if err := r.ValidateSheets(schema); err != nil {
		return nil, err
	}
	sheets := make(map[string][]map[string]any, len(schema.Sheets))
	for _, sheet := range schema.Sheets {
		records, err := r.Records(sheet.Name)
		if err != nil {
			return nil, err
		}
		sheets[sheet.Name] = records
	}
	return sheets, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
