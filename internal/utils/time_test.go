package utils

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty", "", false},
		{"local", "Local", false},
		{"utc", "UTC", false},
		{"iana", "America/New_York", false},
		{"invalid", "Mars/Olympus", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
		})
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	today, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("GetTodayInTimezone failed: %v", err)
	}
	if _, err := ParseDate(today); err != nil {
		t.Errorf("today %q is not a valid date: %v", today, err)
	}
	if _, err := GetTodayInTimezone("Nowhere/Land"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestPreviousDays(t *testing.T) {
	got, err := PreviousDays("2024-03-02", 3)
	if err != nil {
		t.Fatalf("PreviousDays failed: %v", err)
	}
	want := []string{"2024-03-01", "2024-02-29", "2024-02-28"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PreviousDays mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailingDays(t *testing.T) {
	got, err := TrailingDays("2024-01-02", 3)
	if err != nil {
		t.Fatalf("TrailingDays failed: %v", err)
	}
	want := []string{"2023-12-31", "2024-01-01", "2024-01-02"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrailingDays mismatch (-want +got):\n%s", diff)
	}
}

func TestWeekDates(t *testing.T) {
	// 2024-01-03 is a Wednesday, 2024-01-07 a Sunday.
	for _, date := range []string{"2024-01-03", "2024-01-07", "2024-01-01"} {
		got, err := WeekDates(date)
		if err != nil {
			t.Fatalf("WeekDates(%s) failed: %v", date, err)
		}
		if got[0] != "2024-01-01" || got[6] != "2024-01-07" {
			t.Errorf("WeekDates(%s) = %v", date, got)
		}
	}
}

func TestMonthDates(t *testing.T) {
	if got := len(MonthDates(2024, time.February)); got != 29 {
		t.Errorf("expected 29 days in Feb 2024, got %d", got)
	}
	if got := len(MonthDates(2023, time.February)); got != 28 {
		t.Errorf("expected 28 days in Feb 2023, got %d", got)
	}
}

func TestAddDaysInvalid(t *testing.T) {
	if _, err := AddDays("2024-13-01", 1); err == nil {
		t.Error("expected error for invalid date")
	}
	got, err := AddDays("2024-12-31", 1)
	if err != nil || got != "2025-01-01" {
		t.Errorf("AddDays = %q, %v", got, err)
	}
}
