package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kpihub/backend/internal/domain/dataset"
)

// Template builds a headers-only workbook for the schema, one sheet per
// table in canonical order. Users fill it in and upload it back.
func Template(schema dataset.Schema) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, sheet := range schema.Sheets {
		if err := addSheet(f, i, sheet.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeRow(f, sheet.Name, 1, headerCells(sheet.Columns)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// FromViews serializes rendered tables into a workbook, one sheet per view.
// Cell types are preserved; nil cells come out blank.
func FromViews(views []dataset.View) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, view := range views {
		if err := addSheet(f, i, view.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeRow(f, view.Name, 1, headerCells(view.Columns)); err != nil {
			_ = f.Close()
			return nil, err
		}
		for r := range view.Rows {
			if err := writeRow(f, view.Name, r+2, view.Rows[r]); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

// Bytes renders the workbook to an in-memory buffer and closes it
func Bytes(f *excelize.File) ([]byte, error) {
	defer func() { _ = f.Close() }()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// addSheet renames the default sheet for the first table and appends the
// rest, so no stray "Sheet1" survives in the output
func addSheet(f *excelize.File, index int, name string) error {
	if index == 0 {
		return f.SetSheetName(f.GetSheetName(0), name)
	}
	_, err := f.NewSheet(name)
	return err
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func headerCells(columns []string) []any {
	cells := make([]any, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	return cells
}
