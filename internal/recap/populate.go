package recap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"recapcli/pkg/contracts/domain"
)

// Daily sheet layout. Cell B1 carries the sheet's date, B3 the fallback
// date when a single-day run matched no data, headers live in row 6 and
// data starts at row 7.
const (
	dateCell         = "B1"
	fallbackDateCell = "B3"
	headerRow        = 6
	firstDataRow     = 7
)

// sheetHeaders are the seven fixed columns of every daily sheet, A through G.
var sheetHeaders = []string{
	domain.ColumnNumber,
	domain.ColumnDescription,
	domain.ColumnHours,
	domain.ColumnMinutes,
	domain.ColumnComplete,
	domain.ColumnFollowUp,
	domain.ColumnComments,
}

// Populator writes daily task sheets into a workbook. The completion styles
// are created once per workbook and shared by every populated sheet.
type Populator struct {
	f        *excelize.File
	now      func() time.Time
	yesStyle int
	noStyle  int
}

// NewPopulator creates a populator for the given workbook.
func NewPopulator(f *excelize.File) (*Populator, error) {
	yesStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "008000"}})
	if err != nil {
		return nil, fmt.Errorf("failed to create affirmative style: %w", err)
	}
	noStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "FF0000"}})
	if err != nil {
		return nil, fmt.Errorf("failed to create negative style: %w", err)
	}

	return &Populator{
		f:        f,
		now:      time.Now,
		yesStyle: yesStyle,
		noStyle:  noStyle,
	}, nil
}

// Populate fills one daily sheet with its bucket of task rows and returns the
// occupied data-row interval. With an empty bucket the date cell shows the
// current real date instead of the sheet's date; fallback, when non-nil,
// additionally records the originally requested date in a secondary cell so a
// single-day run with no matching data still shows what was asked for.
func (p *Populator) Populate(sheet string, date time.Time, rows []domain.TaskRow, fallback *time.Time) (domain.RowInterval, error) {
	if len(rows) == 0 {
		if err := p.f.SetCellValue(sheet, dateCell, p.now().Format(domain.CanonicalDateLayout)); err != nil {
			return domain.RowInterval{}, fmt.Errorf("failed to set date cell: %w", err)
		}
		if fallback != nil {
			if err := p.f.SetCellValue(sheet, fallbackDateCell, fallback.Format(domain.CanonicalDateLayout)); err != nil {
				return domain.RowInterval{}, fmt.Errorf("failed to set fallback date cell: %w", err)
			}
		}
	} else {
		if err := p.f.SetCellValue(sheet, dateCell, date.Format(domain.CanonicalDateLayout)); err != nil {
			return domain.RowInterval{}, fmt.Errorf("failed to set date cell: %w", err)
		}
	}

	// Header row is written unconditionally so empty sheets keep their shape.
	for col, header := range sheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return domain.RowInterval{}, err
		}
		if err := p.f.SetCellValue(sheet, cell, header); err != nil {
			return domain.RowInterval{}, fmt.Errorf("failed to write header %s: %w", cell, err)
		}
	}

	if err := freezeRows(p.f, sheet, headerRow); err != nil {
		return domain.RowInterval{}, err
	}

	current := firstDataRow
	for _, row := range rows {
		if err := p.writeTaskRow(sheet, current, row); err != nil {
			return domain.RowInterval{}, err
		}
		current++
	}

	return domain.RowInterval{First: firstDataRow, Last: current - 1}, nil
}

// writeTaskRow maps one task row onto columns A..G of the given sheet row.
func (p *Populator) writeTaskRow(sheet string, rowNum int, row domain.TaskRow) error {
	values := []string{
		row.Number,
		row.Description,
		row.Hours,
		row.Minutes,
		row.Complete,
		row.FollowUp,
		row.Comments,
	}

	for col, value := range values {
		if value == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := setNumberOrText(p.f, sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}

	// Completion status drives a font color only; the value stays verbatim.
	switch strings.ToLower(row.Complete) {
	case "yes":
		return p.styleCompleteCell(sheet, rowNum, p.yesStyle)
	case "no":
		return p.styleCompleteCell(sheet, rowNum, p.noStyle)
	}
	return nil
}

func (p *Populator) styleCompleteCell(sheet string, rowNum, styleID int) error {
	cell, err := excelize.CoordinatesToCellName(completeColumn(), rowNum)
	if err != nil {
		return err
	}
	if err := p.f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", cell, err)
	}
	return nil
}

// completeColumn returns the 1-based column of the Complete field.
func completeColumn() int {
	for i, h := range sheetHeaders {
		if h == domain.ColumnComplete {
			return i + 1
		}
	}
	return 0
}

// setNumberOrText writes the value as a number when it parses as one, and as
// literal text otherwise, so SUM formulas see numeric cells where possible.
func setNumberOrText(f *excelize.File, sheet, cell, value string) error {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return f.SetCellValue(sheet, cell, n)
	}
	return f.SetCellValue(sheet, cell, value)
}

// freezeRows pins the top rows of a sheet so headers stay visible while
// scrolling data rows.
func freezeRows(f *excelize.File, sheet string, rows int) error {
	topLeft, err := excelize.CoordinatesToCellName(1, rows+1)
	if err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      rows,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes on %s: %w", sheet, err)
	}
	return nil
}
