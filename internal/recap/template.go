package recap

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteStarterTemplate creates a styled starter template workbook at path,
// holding the template sheet duplicated per date during a run plus an empty
// summary sheet. A normal run still requires the template to already exist;
// this only bootstraps one for new users and for test fixtures.
func WriteStarterTemplate(path, templateSheet, summarySheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("failed to name template sheet: %w", err)
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create label style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "4472C4", Style: 2},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(templateSheet, "A1", "Date:"); err != nil {
		return err
	}
	if err := f.SetCellValue(templateSheet, "A3", "Requested:"); err != nil {
		return err
	}
	if err := f.SetCellStyle(templateSheet, "A1", "A1", labelStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(templateSheet, "A3", "A3", labelStyle); err != nil {
		return err
	}

	for col, header := range sheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(templateSheet, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(templateSheet, "A6", "G6", headerStyle); err != nil {
		return err
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 10}, {"B", 44}, {"C", 7}, {"D", 7}, {"E", 11}, {"F", 28}, {"G", 32},
	}
	for _, w := range widths {
		if err := f.SetColWidth(templateSheet, w.col, w.col, w.width); err != nil {
			return err
		}
	}
	if err := freezeRows(f, templateSheet, headerRow); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for i, header := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(summaryFirstColumn+i, summaryHeaderRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "B3", "E3", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "C", "E", 12); err != nil {
		return err
	}
	if err := freezeRows(f, summarySheet, summaryHeaderRow); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template %s: %w", path, err)
	}
	return nil
}
