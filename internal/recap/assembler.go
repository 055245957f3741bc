package recap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"recapcli/internal/config"
	"recapcli/pkg/contracts/domain"
)

// Request carries the inputs for one workbook build. All values are fixed
// for the duration of the run.
type Request struct {
	TemplatePath string
	OutputDir    string
	Tasks        domain.TaskSet
	Range        domain.DateRange
	Rate         float64
}

// Assembler drives the whole build: load template, copy and populate one
// sheet per date, build the summary, hide the template, save. It exclusively
// owns the in-memory workbook until Run returns; every failure surfaces
// before the save step so no partial output file is ever written.
type Assembler struct {
	logger        *slog.Logger
	templateSheet string
	summarySheet  string

	// Now is the time source for "today" displays. Overridable in tests.
	Now func() time.Time
}

// NewAssembler creates an assembler using the configured sheet names.
func NewAssembler(logger *slog.Logger, report config.ReportConfig) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		logger:        logger.With(slog.String("component", "assembler")),
		templateSheet: report.TemplateSheet,
		summarySheet:  report.SummarySheet,
		Now:           time.Now,
	}
}

// Run builds the recap workbook and returns the saved output path.
func (a *Assembler) Run(ctx context.Context, req Request) (string, error) {
	if _, err := os.Stat(req.TemplatePath); err != nil {
		return "", fmt.Errorf("template file not found: %s: %w", req.TemplatePath, err)
	}

	f, err := excelize.OpenFile(req.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to open template %s: %w", req.TemplatePath, err)
	}
	defer f.Close()

	tmplIdx, err := f.GetSheetIndex(a.templateSheet)
	if err != nil {
		return "", fmt.Errorf("failed to look up template sheet: %w", err)
	}
	if tmplIdx == -1 {
		return "", fmt.Errorf("no sheet named %q in %s", a.templateSheet, req.TemplatePath)
	}

	pop, err := NewPopulator(f)
	if err != nil {
		return "", err
	}
	pop.now = a.Now

	dates, buckets := BucketByDate(req.Tasks, req.Range)
	a.logger.InfoContext(ctx, "Bucketed task rows",
		slog.Int("dates", len(dates)),
		slog.Int("rows", len(req.Tasks.Rows)),
		slog.Bool("has_date_column", req.Tasks.HasDate))

	records := make([]domain.SheetRecord, 0, len(dates))
	for _, date := range dates {
		name := date.Format(domain.CanonicalDateLayout)
		bucket := buckets[name]

		// A single-day run that matched nothing still shows the requested
		// date in a secondary cell.
		var fallback *time.Time
		if req.Range.SingleDay() && len(bucket) == 0 {
			d := date
			fallback = &d
		}

		interval, err := a.addDateSheet(f, pop, tmplIdx, name, date, bucket, fallback)
		if err != nil {
			return "", err
		}
		records = append(records, domain.SheetRecord{Name: name, Rows: interval})

		a.logger.DebugContext(ctx, "Populated date sheet",
			slog.String("sheet", name),
			slog.Int("first_row", interval.First),
			slog.Int("last_row", interval.Last))
	}

	if err := BuildSummary(f, a.summarySheet, records, req.Rate); err != nil {
		return "", err
	}

	if err := f.SetSheetVisible(a.templateSheet, false); err != nil {
		return "", fmt.Errorf("failed to hide template sheet: %w", err)
	}

	outputPath := filepath.Join(req.OutputDir, outputFileName(req.Range))
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", outputPath, err)
	}

	a.logger.InfoContext(ctx, "Workbook created",
		slog.String("path", outputPath),
		slog.Int("date_sheets", len(records)))

	return outputPath, nil
}

// addDateSheet copies the template into a new sheet named for the date,
// clears any sample data the template carried, and populates it.
func (a *Assembler) addDateSheet(f *excelize.File, pop *Populator, tmplIdx int, name string, date time.Time, bucket []domain.TaskRow, fallback *time.Time) (domain.RowInterval, error) {
	idx, err := f.NewSheet(name)
	if err != nil {
		return domain.RowInterval{}, fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	if err := f.CopySheet(tmplIdx, idx); err != nil {
		return domain.RowInterval{}, fmt.Errorf("failed to copy template into %s: %w", name, err)
	}
	if err := clearRowsFrom(f, name, firstDataRow); err != nil {
		return domain.RowInterval{}, err
	}

	return pop.Populate(name, date, bucket, fallback)
}

// outputFileName names the artifact after the requested range: the date
// itself for a single day, otherwise "{start}_to_{end}".
func outputFileName(r domain.DateRange) string {
	start := r.Start.Format(domain.CanonicalDateLayout)
	if r.SingleDay() {
		return start + ".xlsx"
	}
	return fmt.Sprintf("%s_to_%s.xlsx", start, r.End.Format(domain.CanonicalDateLayout))
}
