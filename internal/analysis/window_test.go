package analysis

import (
	"testing"
	"time"
)

func mustWindow(name, start, end string) TimeWindow {
	s, err := time.ParseInLocation("2006-01-02", start, time.UTC)
	if err != nil {
		panic(err)
	}
	e, err := time.ParseInLocation("2006-01-02", end, time.UTC)
	if err != nil {
		panic(err)
	}
	return TimeWindow{Name: name, Start: s, End: e}
}

func TestWindowContains(t *testing.T) {
	w := mustWindow("Sprint 1", "2025-03-17", "2025-05-03")

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"inside", time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC), true},
		{"start day inclusive", time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), true},
		{"end day inclusive, late hour", time.Date(2025, 5, 3, 23, 59, 59, 0, time.UTC), true},
		{"after window", time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC), false},
		{"before window", time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.ts); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestFilterWindowIsSubset(t *testing.T) {
	w := mustWindow("Sprint 1", "2025-03-17", "2025-05-03")
	records := []CommitRecord{
		record("in1", "main", "alice", "a", "stats:a", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), 1),
		record("out", "main", "alice", "b", "stats:b", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), 1),
		record("in2", "main", "bob", "c", "stats:c", time.Date(2025, 5, 3, 18, 0, 0, 0, time.UTC), 1),
	}

	filtered := FilterWindow(records, w)

	if len(filtered) != 2 {
		t.Fatalf("got %d records, want 2", len(filtered))
	}
	all := make(map[string]bool, len(records))
	for _, r := range records {
		all[r.SHA] = true
	}
	for _, r := range filtered {
		if !all[r.SHA] {
			t.Errorf("record %s not present in unwindowed input", r.SHA)
		}
		if !w.Contains(r.Timestamp) {
			t.Errorf("record %s timestamp %v outside window", r.SHA, r.Timestamp)
		}
	}
}

func TestAllTimeWindowKeepsEverything(t *testing.T) {
	records := []CommitRecord{
		record("sha1", "main", "alice", "a", "stats:a", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), 1),
		record("sha2", "main", "alice", "b", "stats:b", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), 1),
	}

	filtered := FilterWindow(records, AllTimeWindow())
	if len(filtered) != len(records) {
		t.Fatalf("got %d records, want %d", len(filtered), len(records))
	}
}

func TestFilterWindowDoesNotMutateInput(t *testing.T) {
	w := mustWindow("Sprint 1", "2025-03-17", "2025-05-03")
	records := []CommitRecord{
		record("in1", "main", "alice", "a", "stats:a", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), 1),
	}

	filtered := FilterWindow(records, w)
	filtered[0].Author = "mallory"

	if records[0].Author != "alice" {
		t.Error("input slice was mutated by FilterWindow")
	}
}
