package streak

import (
	"math/rand"
	"testing"
	"time"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return d.Add(15 * time.Hour)
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		today string
		want  int
	}{
		{"no dates", nil, "2024-03-07", 0},
		{"only today", []string{"2024-03-07"}, "2024-03-07", 1},
		{"only yesterday", []string{"2024-03-06"}, "2024-03-07", 1},
		{"stale by two days", []string{"2024-03-05"}, "2024-03-07", 0},
		{
			"full week ending today",
			[]string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07"},
			"2024-03-07", 7,
		},
		{
			"gap stops the scan",
			[]string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05", "2024-03-06", "2024-03-07"},
			"2024-03-07", 3,
		},
		{
			"run ending yesterday",
			[]string{"2024-03-04", "2024-03-05", "2024-03-06"},
			"2024-03-07", 3,
		},
		{
			"month boundary",
			[]string{"2024-02-28", "2024-02-29", "2024-03-01"},
			"2024-03-01", 3,
		},
		{
			"year boundary",
			[]string{"2023-12-30", "2023-12-31", "2024-01-01"},
			"2024-01-02", 3,
		},
		{
			"duplicates count once",
			[]string{"2024-03-07", "2024-03-07", "2024-03-06"},
			"2024-03-07", 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Current(tt.dates, mustDay(t, tt.today))
			if err != nil {
				t.Fatalf("Current: %v", err)
			}
			if got != tt.want {
				t.Errorf("Current(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}

func TestLongest(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no dates", nil, 0},
		{"single date", []string{"2024-03-01"}, 1},
		{"two separate days", []string{"2024-03-01", "2024-03-03"}, 1},
		{
			"best run in the middle",
			[]string{"2024-01-01", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-02-01", "2024-02-02"},
			4,
		},
		{
			"later run wins",
			[]string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08"},
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Longest(tt.dates)
			if err != nil {
				t.Fatalf("Longest: %v", err)
			}
			if got != tt.want {
				t.Errorf("Longest(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}

func TestWeekWithGap(t *testing.T) {
	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05", "2024-03-06", "2024-03-07"}
	today := mustDay(t, "2024-03-07")

	current, err := Current(dates, today)
	if err != nil {
		t.Fatal(err)
	}
	longest, err := Longest(dates)
	if err != nil {
		t.Fatal(err)
	}
	if current != 3 {
		t.Errorf("expected current streak 3, got %d", current)
	}
	if longest != 3 {
		t.Errorf("expected longest streak 3, got %d", longest)
	}
}

func TestOrderIndependence(t *testing.T) {
	dates := []string{
		"2024-03-01", "2024-03-02", "2024-03-04", "2024-03-05", "2024-03-06",
		"2024-03-09", "2024-03-10", "2024-03-11", "2024-03-12", "2024-03-13",
	}
	today := mustDay(t, "2024-03-13")

	wantCurrent, _ := Current(dates, today)
	wantLongest, _ := Longest(dates)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), dates...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		current, err := Current(shuffled, today)
		if err != nil {
			t.Fatal(err)
		}
		longest, err := Longest(shuffled)
		if err != nil {
			t.Fatal(err)
		}
		if current != wantCurrent || longest != wantLongest {
			t.Fatalf("order changed result: current %d/%d longest %d/%d", current, wantCurrent, longest, wantLongest)
		}
		if longest < current {
			t.Fatalf("longest %d < current %d", longest, current)
		}
	}
}

func TestDaylightSavingTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-03-10 is 23 hours long in New York.
	dates := []string{"2024-03-09", "2024-03-10", "2024-03-11"}
	now := time.Date(2024, 3, 11, 0, 30, 0, 0, loc)

	got, err := Current(dates, now)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("expected streak 3 across DST change, got %d", got)
	}
}

func TestMalformedDate(t *testing.T) {
	if _, err := Current([]string{"2024-13-01"}, time.Now()); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := Longest([]string{"yesterday"}); err == nil {
		t.Error("expected error for malformed date")
	}
}
