package analysis

import (
	"time"
)

// TimeWindow is a named, inclusive calendar-date range at day granularity.
// The zero-bounds AllTime window covers the full fetched history.
type TimeWindow struct {
	Name    string    `json:"name"`
	Start   time.Time `json:"start_date"`
	End     time.Time `json:"end_date"`
	AllTime bool      `json:"all_time,omitempty"`
}

// AllTimeWindow is the single implicit window used when no time ranges are
// configured.
func AllTimeWindow() TimeWindow {
	return TimeWindow{Name: "All Time", AllTime: true}
}

// Contains reports whether a UTC timestamp falls inside the window,
// comparing at calendar-day granularity with inclusive bounds.
func (w TimeWindow) Contains(ts time.Time) bool {
	if w.AllTime {
		return true
	}
	day := ts.UTC().Truncate(24 * time.Hour)
	return !day.Before(w.Start) && !day.After(w.End)
}

// FilterWindow keeps the records whose timestamp date lies within the window.
// Windows are independent; a record may appear in zero, one, or several.
func FilterWindow(records []CommitRecord, w TimeWindow) []CommitRecord {
	if w.AllTime {
		out := make([]CommitRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]CommitRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}
