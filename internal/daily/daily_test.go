package daily

import (
	"testing"
	"time"
)

func TestDateKeyUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("minus5", -5*3600)
	ts := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)
	if got := DateKey(ts); got != "2026-03-15" {
		t.Errorf("DateKey = %q, want 2026-03-15", got)
	}
}

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

	a := WordIndex(day, "salt", 1000)
	b := WordIndex(later, "salt", 1000)
	if a != b {
		t.Errorf("same date, different index: %d vs %d", a, b)
	}
	if a < 0 || a >= 1000 {
		t.Errorf("index %d out of range", a)
	}

	if WordIndex(day, "othersalt", 1000) == a && WordIndex(day.AddDate(0, 0, 1), "salt", 1000) == a {
		t.Error("index insensitive to both salt and date; HMAC wiring broken")
	}
}

func TestWordIndexEmptyList(t *testing.T) {
	if got := WordIndex(time.Now(), "salt", 0); got != 0 {
		t.Errorf("empty list: got %d, want 0", got)
	}
}
