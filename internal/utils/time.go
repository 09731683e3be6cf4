package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// Timestamp returns the current instant in the persisted timestamp format.
func Timestamp() string {
	return time.Now().UTC().Format(constants.TimestampFormat)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// PreviousDays returns the n dates strictly before date, most recent first.
func PreviousDays(date string, n int) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		days = append(days, FormatDate(t.AddDate(0, 0, -i)))
	}
	return days, nil
}

// TrailingDays returns the n dates ending at date inclusive, oldest first.
func TrailingDays(date string, n int) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, FormatDate(t.AddDate(0, 0, -i)))
	}
	return days, nil
}

// WeekDates returns the Monday-to-Sunday week containing date.
func WeekDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)

	days := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, FormatDate(monday.AddDate(0, 0, i)))
	}
	return days, nil
}

// MonthDates returns every date of the given month.
func MonthDates(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var days []string
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDate(d))
	}
	return days
}
