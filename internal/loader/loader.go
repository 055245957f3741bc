package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recapcli/pkg/contracts/domain"
)

// dateLayouts are the row-date formats accepted, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Load reads one or more delimited task files and concatenates them into a
// single TaskSet, preserving per-file row order then file order. Files ending
// in .txt are read as tab-separated; everything else as comma-separated.
// Rows from multiple files are never deduplicated.
func Load(paths []string) (domain.TaskSet, error) {
	var set domain.TaskSet

	for _, path := range paths {
		rows, hasDate, err := loadFile(path)
		if err != nil {
			return domain.TaskSet{}, fmt.Errorf("failed to read data file %s: %w", path, err)
		}
		set.Rows = append(set.Rows, rows...)
		set.HasDate = set.HasDate || hasDate

		slog.Info("Data file read",
			slog.String("path", path),
			slog.Int("rows", len(rows)),
			slog.Bool("has_date_column", hasDate))
	}

	return set, nil
}

// loadFile parses a single file into task rows.
func loadFile(path string) ([]domain.TaskRow, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		reader.Comma = '\t'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("parse error: %w", err)
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	// First record is the header; map recognized columns to their positions.
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	columnMap := mapColumns(header)
	_, hasDate := columnMap[domain.ColumnDate]

	rows := make([]domain.TaskRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}

		field := func(name string) string {
			if idx, ok := columnMap[name]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		row := domain.TaskRow{
			Number:      field(domain.ColumnNumber),
			Description: field(domain.ColumnDescription),
			Hours:       field(domain.ColumnHours),
			Minutes:     field(domain.ColumnMinutes),
			Complete:    field(domain.ColumnComplete),
			FollowUp:    field(domain.ColumnFollowUp),
			Comments:    field(domain.ColumnComments),
		}

		if hasDate {
			row.DateRaw = field(domain.ColumnDate)
			if d, ok := parseDate(row.DateRaw); ok {
				row.Date = &d
			} else if row.DateRaw != "" {
				// Unparseable dates exclude the row from date bucketing
				// but never fail the run.
				slog.Debug("Unparseable row date",
					slog.String("path", path),
					slog.Int("line", i+2),
					slog.String("value", row.DateRaw))
			}
		}

		rows = append(rows, row)
	}

	return rows, hasDate, nil
}

// mapColumns maps recognized header names to column positions.
// Matching is exact and case-sensitive; unknown columns are ignored.
func mapColumns(header []string) map[string]int {
	recognized := []string{
		domain.ColumnNumber,
		domain.ColumnDescription,
		domain.ColumnHours,
		domain.ColumnMinutes,
		domain.ColumnComplete,
		domain.ColumnFollowUp,
		domain.ColumnComments,
		domain.ColumnDate,
	}

	columnMap := make(map[string]int)
	for j, name := range header {
		name = strings.TrimSpace(name)
		for _, want := range recognized {
			if name == want {
				columnMap[want] = j
				break
			}
		}
	}
	return columnMap
}

// parseDate tries each accepted layout and normalizes to a bare calendar date.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
