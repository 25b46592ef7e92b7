package dataset

import (
	"fmt"
	"math"
	"strings"
)

// Columns whose null ratio crosses this threshold get a warning
const nullWarningRatio = 0.5

// TableQuality summarizes completeness for one table
type TableQuality struct {
	Table         string   `json:"table"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	MissingCells  int      `json:"missing_cells"`
	MissingPct    float64  `json:"missing_pct"`
	DuplicateRows int      `json:"duplicate_rows"`
	DuplicateIDs  int      `json:"duplicate_ids"`
	NegativeCells int      `json:"negative_cells"`
	Warnings      []string `json:"warnings,omitempty"`
}

// QualityReport summarizes completeness across all tables of a dataset
type QualityReport struct {
	Department string         `json:"department"`
	TotalRows  int            `json:"total_rows"`
	Tables     []TableQuality `json:"tables"`
}

// Quality computes a data-quality report for the dataset. A cell counts as
// missing when the source field was never populated. Per table it flags
// mostly-null columns, repeated identifier values and negative numeric
// cells alongside the overall completeness figures.
func Quality(t Tabular) (QualityReport, error) {
	report := QualityReport{
		Department: t.Department(),
		TotalRows:  t.TotalRows(),
		Tables:     make([]TableQuality, 0, len(t.TableNames())),
	}
	for _, name := range t.TableNames() {
		view, err := t.View(name)
		if err != nil {
			return QualityReport{}, err
		}
		report.Tables = append(report.Tables, tableQuality(view))
	}
	return report, nil
}

func tableQuality(view View) TableQuality {
	tq := TableQuality{Table: view.Name, Rows: len(view.Rows), Columns: len(view.Columns)}
	idCol := primaryIDColumn(view.Columns)
	columnNulls := make([]int, len(view.Columns))
	seenRows := make(map[string]bool, len(view.Rows))
	seenIDs := make(map[string]bool, len(view.Rows))
	for _, row := range view.Rows {
		key := fmt.Sprint(row)
		if seenRows[key] {
			tq.DuplicateRows++
		} else {
			seenRows[key] = true
		}
		if idCol >= 0 && idCol < len(row) && !missingCell(row[idCol]) {
			id := fmt.Sprint(row[idCol])
			if seenIDs[id] {
				tq.DuplicateIDs++
			} else {
				seenIDs[id] = true
			}
		}
		for i, cell := range row {
			if missingCell(cell) {
				tq.MissingCells++
				if i < len(columnNulls) {
					columnNulls[i]++
				}
				continue
			}
			if negativeNumber(cell) {
				tq.NegativeCells++
			}
		}
	}
	if cells := tq.Rows * tq.Columns; cells > 0 {
		tq.MissingPct = math.Round(float64(tq.MissingCells)/float64(cells)*10000) / 100
	}
	if tq.Rows > 0 {
		for i, col := range view.Columns {
			if ratio := float64(columnNulls[i]) / float64(tq.Rows); ratio > nullWarningRatio {
				tq.Warnings = append(tq.Warnings, fmt.Sprintf("column %s is %.1f%% null", col, ratio*100))
			}
		}
	}
	if tq.DuplicateIDs > 0 {
		tq.Warnings = append(tq.Warnings, fmt.Sprintf("%d duplicate %s values", tq.DuplicateIDs, view.Columns[idCol]))
	}
	if tq.NegativeCells > 0 {
		tq.Warnings = append(tq.Warnings, fmt.Sprintf("%d negative numeric values", tq.NegativeCells))
	}
	return tq
}

// primaryIDColumn returns the index of the table's own identifier column,
// the first one named "id" or carrying an _id suffix
func primaryIDColumn(columns []string) int {
	for i, c := range columns {
		lower := strings.ToLower(c)
		if lower == "id" || strings.HasSuffix(lower, "_id") {
			return i
		}
	}
	return -1
}

func missingCell(cell any) bool {
	return cell == nil || cell == ""
}

// negativeNumber reports whether a rendered cell holds a numeric value
// below zero. Money cells decode through decimal, which never renders NaN,
// so only the sign needs checking here.
func negativeNumber(cell any) bool {
	switch v := cell.(type) {
	case int:
		return v < 0
	case int64:
		return v < 0
	case float64:
		return v < 0
	}
	return false
}
