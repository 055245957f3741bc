package domain

import (
	"time"
)

// CanonicalDateLayout is the date format used for sheet names, header cells
// and output file names. Lexicographic order of formatted values equals
// chronological order.
const CanonicalDateLayout = "2006-01-02"

// Recognized input column names. Matching is case-sensitive and exact.
const (
	ColumnNumber      = "Number"
	ColumnDescription = "Daily Work Description"
	ColumnHours       = "Hr"
	ColumnMinutes     = "Min"
	ColumnComplete    = "Complete"
	ColumnFollowUp    = "Follow up"
	ColumnComments    = "Supervisor Comments"
	ColumnDate        = "Date"
)

// TaskRow represents a single task entry read from an input file.
// All field values are kept verbatim as read; numeric conversion of
// Hours/Minutes happens at cell-write time so malformed values degrade
// to their original text instead of failing the run.
type TaskRow struct {
	Number      string     `json:"number"`
	Description string     `json:"description"`
	Hours       string     `json:"hours"`
	Minutes     string     `json:"minutes"`
	Complete    string     `json:"complete"`
	FollowUp    string     `json:"follow_up"`
	Comments    string     `json:"comments"`
	Date        *time.Time `json:"date,omitempty"`
	DateRaw     string     `json:"date_raw,omitempty"`
}

// TaskSet is the combined row set loaded from all input files, in per-file
// order then file order. HasDate reports whether any input file carried a
// Date column; without one, every row applies to every date in the range.
type TaskSet struct {
	Rows    []TaskRow `json:"rows"`
	HasDate bool      `json:"has_date"`
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// Days returns every calendar date from Start to End inclusive.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SingleDay reports whether the range covers exactly one calendar date.
func (r DateRange) SingleDay() bool {
	return r.Start.Equal(r.End)
}

// RowInterval is the occupied data-row span of one populated sheet.
// Last < First signals that no data rows were written.
type RowInterval struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Empty reports whether the interval contains no rows.
func (i RowInterval) Empty() bool {
	return i.Last < i.First
}

// SheetRecord maps a generated sheet's name (canonical date string) to its
// occupied row interval. The summary builder consumes these once, in
// ascending name order.
type SheetRecord struct {
	Name string      `json:"name" validate:"required"`
	Rows RowInterval `json:"rows"`
}
