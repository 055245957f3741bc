package recap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"recapcli/internal/config"
	"recapcli/pkg/contracts/domain"
)

func writeTestTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template_daily_recap.xlsx")
	require.NoError(t, WriteStarterTemplate(path, "Template", "Total"))
	return path
}

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	a := NewAssembler(nil, config.ReportConfig{TemplateSheet: "Template", SummarySheet: "Total"})
	a.Now = func() time.Time { return day(t, "2025-06-15") }
	return a
}

func openResult(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestAssemblerCreatesOneSheetPerDate(t *testing.T) {
	a := newTestAssembler(t)
	outDir := t.TempDir()

	set := domain.TaskSet{
		HasDate: true,
		Rows: []domain.TaskRow{
			{Number: "1", Description: "standup", Hours: "0", Minutes: "30", Date: dayPtr(t, "2024-03-01")},
			{Number: "2", Description: "report", Hours: "2", Minutes: "0", Date: dayPtr(t, "2024-03-01")},
			{Number: "3", Description: "review", Hours: "1", Minutes: "15", Date: dayPtr(t, "2024-03-03")},
		},
	}

	outputPath, err := a.Run(context.Background(), Request{
		TemplatePath: writeTestTemplate(t),
		OutputDir:    outDir,
		Tasks:        set,
		Range:        domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-03")},
		Rate:         25.5,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "2024-03-01_to_2024-03-03.xlsx"), outputPath)

	f := openResult(t, outputPath)

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Template")
	assert.Contains(t, sheets, "Total")
	assert.Contains(t, sheets, "2024-03-01")
	assert.Contains(t, sheets, "2024-03-02")
	assert.Contains(t, sheets, "2024-03-03")
	assert.Len(t, sheets, 5)

	// Template is hidden, not deleted.
	visible, err := f.GetSheetVisible("Template")
	require.NoError(t, err)
	assert.False(t, visible)

	// Date sheets with data show their own date.
	got, err := f.GetCellValue("2024-03-01", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)

	got, err = f.GetCellValue("2024-03-01", "B7")
	require.NoError(t, err)
	assert.Equal(t, "standup", got)
	got, err = f.GetCellValue("2024-03-01", "B8")
	require.NoError(t, err)
	assert.Equal(t, "report", got)

	// Summary holds exactly two rows: 03-01 and 03-03, none for empty 03-02.
	got, err = f.GetCellValue("Total", "B4")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)
	got, err = f.GetCellValue("Total", "B5")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", got)
	got, err = f.GetCellValue("Total", "B6")
	require.NoError(t, err)
	assert.Empty(t, got)

	formula, err := f.GetCellFormula("Total", "C4")
	require.NoError(t, err)
	assert.Equal(t, "SUM('2024-03-01'!C7:C8) + (SUM('2024-03-01'!D7:D8)/60)", formula)
}

func TestAssemblerSingleDayNoDataFallback(t *testing.T) {
	a := newTestAssembler(t)
	outDir := t.TempDir()

	set := domain.TaskSet{
		HasDate: true,
		Rows: []domain.TaskRow{
			{Description: "elsewhere", Date: dayPtr(t, "2024-05-20")},
		},
	}

	outputPath, err := a.Run(context.Background(), Request{
		TemplatePath: writeTestTemplate(t),
		OutputDir:    outDir,
		Tasks:        set,
		Range:        domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-01")},
		Rate:         10,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "2024-03-01.xlsx"), outputPath)

	f := openResult(t, outputPath)

	// Header date cell shows today's real date, the fallback cell the
	// requested one.
	got, err := f.GetCellValue("2024-03-01", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", got)
	got, err = f.GetCellValue("2024-03-01", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)

	// Aggregate sheet has zero data rows.
	got, err = f.GetCellValue("Total", "B4")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAssemblerBroadcastsRowsWithoutDateColumn(t *testing.T) {
	a := newTestAssembler(t)

	set := domain.TaskSet{
		HasDate: false,
		Rows:    []domain.TaskRow{{Number: "1", Description: "daily check", Hours: "1", Minutes: "0"}},
	}

	outputPath, err := a.Run(context.Background(), Request{
		TemplatePath: writeTestTemplate(t),
		OutputDir:    t.TempDir(),
		Tasks:        set,
		Range:        domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-02")},
		Rate:         10,
	})
	require.NoError(t, err)

	f := openResult(t, outputPath)
	for _, sheet := range []string{"2024-03-01", "2024-03-02"} {
		got, err := f.GetCellValue(sheet, "B7")
		require.NoError(t, err)
		assert.Equal(t, "daily check", got, "sheet %s", sheet)
	}

	got, err := f.GetCellValue("Total", "B4")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got)
	got, err = f.GetCellValue("Total", "B5")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", got)
}

func TestAssemblerMissingTemplateFile(t *testing.T) {
	a := newTestAssembler(t)
	outDir := t.TempDir()

	_, err := a.Run(context.Background(), Request{
		TemplatePath: filepath.Join(t.TempDir(), "nope.xlsx"),
		OutputDir:    outDir,
		Range:        domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-01")},
		Rate:         10,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template file not found")

	// No partial output is produced on failure.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAssemblerMissingTemplateSheet(t *testing.T) {
	// A workbook without the required source sheet name is a structural error.
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, WriteStarterTemplate(path, "Scratch", "Total"))

	a := newTestAssembler(t)
	outDir := t.TempDir()

	_, err := a.Run(context.Background(), Request{
		TemplatePath: path,
		OutputDir:    outDir,
		Range:        domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-01")},
		Rate:         10,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no sheet named "Template"`)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAssemblerClearsTemplateSampleData(t *testing.T) {
	// Template carrying sample rows must not leak them into date sheets.
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, WriteStarterTemplate(path, "Template", "Total"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Template", "B7", "sample task"))
	require.NoError(t, f.SetCellValue("Template", "B8", "another sample"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	a := newTestAssembler(t)
	outputPath, err := a.Run(context.Background(), Request{
		TemplatePath: path,
		OutputDir:    t.TempDir(),
		Tasks:        domain.TaskSet{HasDate: true},
		Range:        domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-01")},
		Rate:         10,
	})
	require.NoError(t, err)

	out := openResult(t, outputPath)
	got, err := out.GetCellValue("2024-03-01", "B7")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = out.GetCellValue("2024-03-01", "B8")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOutputFileName(t *testing.T) {
	single := domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-01")}
	assert.Equal(t, "2024-03-01.xlsx", outputFileName(single))

	ranged := domain.DateRange{Start: day(t, "2024-03-01"), End: day(t, "2024-03-05")}
	assert.Equal(t, "2024-03-01_to_2024-03-05.xlsx", outputFileName(ranged))
}
