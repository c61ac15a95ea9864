package dateparse

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	// 2026-01-07 is a Wednesday.
	now := time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  string
	}{
		{"2026-03-15", "2026-03-15"},
		{"today", "2026-01-07"},
		{"Today", "2026-01-07"},
		{"tomorrow", "2026-01-08"},
		{"  tomorrow  ", "2026-01-08"},
		{"next week", "2026-01-14"},
		{"next  week", "2026-01-14"},
		{"next month", "2026-02-06"},
		{"friday", "2026-01-09"},
		{"Friday", "2026-01-09"},
		{"next friday", "2026-01-09"},
		{"monday", "2026-01-12"},
		// Naming today's weekday means a week from now, not today.
		{"wednesday", "2026-01-14"},
		{"in 3 days", "2026-01-10"},
		{"in 1 day", "2026-01-08"},
		{"in 2 weeks", "2026-01-21"},
		{"in 1 month", "2026-02-06"},
		{"3 days", "2026-01-10"},
		{"3 days from now", "2026-01-10"},
		{"2 weeks from now", "2026-01-21"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input, now)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	now := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"", "someday", "01/02/2026", "in days", "yesterday"} {
		if _, err := Parse(input, now); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}
