// Package recap builds the daily recap workbook: it buckets task rows onto
// a calendar date range, populates one copied template sheet per date, and
// aggregates per-date hours and cost on a summary sheet through live
// cross-sheet formulas.
package recap
