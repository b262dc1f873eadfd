package week

import (
	"testing"
	"time"
)

func TestBuildShape(t *testing.T) {
	refs := []time.Time{
		time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC), // Monday
		time.Date(2025, 11, 26, 15, 30, 0, 0, time.UTC), // Wednesday, mid-day
		time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC), // Friday
		time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC), // Saturday
	}
	for _, ref := range refs {
		days := Build(ref)
		if len(days) != 5 {
			t.Fatalf("ref %v: expected 5 days, got %d", ref, len(days))
		}
		if days[0].Date.Weekday() != time.Monday {
			t.Fatalf("ref %v: first day is %s", ref, days[0].Date.Weekday())
		}
		for i := 1; i < len(days); i++ {
			if !days[i].Date.Equal(days[i-1].Date.AddDate(0, 0, 1)) {
				t.Fatalf("ref %v: days not consecutive at %d", ref, i)
			}
		}
		if days[4].Date.Weekday() != time.Friday {
			t.Fatalf("ref %v: last day is %s", ref, days[4].Date.Weekday())
		}
	}
}

func TestMondayOnSunday(t *testing.T) {
	sunday := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	got := Monday(sunday)
	want := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBuildKeysAndNames(t *testing.T) {
	days := Build(time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC))
	wantKeys := []string{"2025-11-24", "2025-11-25", "2025-11-26", "2025-11-27", "2025-11-28"}
	wantNames := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	for i, d := range days {
		if d.Key != wantKeys[i] {
			t.Fatalf("day %d: key %s, want %s", i, d.Key, wantKeys[i])
		}
		if d.Name != wantNames[i] {
			t.Fatalf("day %d: name %s, want %s", i, d.Name, wantNames[i])
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	ref := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	a := Build(ref)
	b := Build(ref)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("build not deterministic at day %d", i)
		}
	}
}

func TestBounds(t *testing.T) {
	start, end := Bounds(time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC))
	if start != "2025-11-24" || end != "2025-11-28" {
		t.Fatalf("unexpected bounds %s..%s", start, end)
	}
}

func TestToEngineFormat(t *testing.T) {
	if got := ToEngineFormat("2025-11-24"); got != "24/11/2025" {
		t.Fatalf("got %s", got)
	}
	if got := ToEngineFormat("not-a-date"); got != "not-a-date" {
		t.Fatalf("non-ISO input should pass through, got %s", got)
	}
}
