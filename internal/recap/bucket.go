package recap

import (
	"time"

	"recapcli/pkg/contracts/domain"
)

// BucketByDate assigns task rows to calendar dates. The returned date list is
// always the full inclusive sequence from the range start to its end, one
// entry per day, even for dates with no matching rows. The map is keyed by
// the canonical date string of each date in the list.
//
// When the row set carries a Date column, rows group by exact date equality;
// rows whose date is missing, unparseable, or outside the range appear in no
// bucket. When there is no Date column, the whole row set is broadcast to
// every date, modeling daily recurring tasks. Source order is preserved
// inside each bucket.
func BucketByDate(set domain.TaskSet, r domain.DateRange) ([]time.Time, map[string][]domain.TaskRow) {
	dates := r.Days()
	buckets := make(map[string][]domain.TaskRow, len(dates))
	for _, d := range dates {
		buckets[d.Format(domain.CanonicalDateLayout)] = nil
	}

	if !set.HasDate {
		for _, d := range dates {
			key := d.Format(domain.CanonicalDateLayout)
			buckets[key] = append([]domain.TaskRow(nil), set.Rows...)
		}
		return dates, buckets
	}

	for _, row := range set.Rows {
		if row.Date == nil {
			continue
		}
		key := row.Date.Format(domain.CanonicalDateLayout)
		if _, inRange := buckets[key]; !inRange {
			continue
		}
		buckets[key] = append(buckets[key], row)
	}

	return dates, buckets
}
