package recap

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"recapcli/pkg/contracts/domain"
)

// Summary sheet layout: headers in B3:E3, one data row per non-empty date
// sheet from row 4 down.
const (
	summaryHeaderRow    = 3
	summaryFirstDataRow = 4
	summaryFirstColumn  = 2 // column B
)

var summaryHeaders = []string{"Date", "Hour", "Rate", "Total Cost"}

// BuildSummary writes the aggregate sheet: one row per date sheet whose data
// interval is non-empty, in ascending date order. Hours and cost are symbolic
// formulas referencing each sheet's own row span, so the totals stay live
// when the workbook recalculates. The data region is cleared first, making a
// rebuild from the same records idempotent.
func BuildSummary(f *excelize.File, sheet string, records []domain.SheetRecord, rate float64) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil {
		return fmt.Errorf("failed to look up summary sheet: %w", err)
	} else if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create summary sheet: %w", err)
		}
	}

	if err := clearRowsFrom(f, sheet, summaryFirstDataRow); err != nil {
		return err
	}

	for i, header := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(summaryFirstColumn+i, summaryHeaderRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write summary header %s: %w", cell, err)
		}
	}

	// Canonical date-string names sort lexicographically in date order.
	sorted := append([]domain.SheetRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	rowNum := summaryFirstDataRow
	for _, rec := range sorted {
		if rec.Rows.Empty() {
			continue
		}

		hourFormula := fmt.Sprintf("SUM('%s'!C%d:C%d) + (SUM('%s'!D%d:D%d)/60)",
			rec.Name, rec.Rows.First, rec.Rows.Last,
			rec.Name, rec.Rows.First, rec.Rows.Last)

		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), rec.Name); err != nil {
			return fmt.Errorf("failed to write summary date: %w", err)
		}
		if err := f.SetCellFormula(sheet, fmt.Sprintf("C%d", rowNum), hourFormula); err != nil {
			return fmt.Errorf("failed to write hours formula: %w", err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), rate); err != nil {
			return fmt.Errorf("failed to write rate: %w", err)
		}
		if err := f.SetCellFormula(sheet, fmt.Sprintf("E%d", rowNum), fmt.Sprintf("C%d*D%d", rowNum, rowNum)); err != nil {
			return fmt.Errorf("failed to write cost formula: %w", err)
		}
		rowNum++
	}

	return freezeRows(f, sheet, summaryHeaderRow)
}

// clearRowsFrom blanks every occupied cell from startRow to the end of the
// sheet, values and formulas both, leaving styling intact.
func clearRowsFrom(f *excelize.File, sheet string, startRow int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	for r := startRow; r <= len(rows); r++ {
		for c := 1; c <= len(rows[r-1]); c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := f.SetCellFormula(sheet, cell, ""); err != nil {
				return fmt.Errorf("failed to clear formula in %s: %w", cell, err)
			}
			if err := f.SetCellValue(sheet, cell, nil); err != nil {
				return fmt.Errorf("failed to clear cell %s: %w", cell, err)
			}
		}
	}

	return nil
}
