// Package sweep back-fills failed entries for days a habit was not tracked.
package sweep

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// HabitSource lists the habits eligible for back-fill.
type HabitSource interface {
	Active() []models.Habit
}

// EntryStore is the entry access the marker needs.
type EntryStore interface {
	Get(habitID, date string) *models.Entry
	Create(e models.Entry) *models.Entry
}

// Recomputer refreshes a habit's cached strength.
type Recomputer interface {
	Recompute(habitID string) (float64, bool)
}

// Result summarises one sweep.
type Result struct {
	Today   string
	Habits  int
	Created int
	// Touched lists the habits that gained entries, in processing order.
	Touched []string
	// Errors maps habit id to the failure that stopped its back-fill.
	Errors map[string]string
}

// Marker records a failed entry for every active habit on each of the
// days in the window before today that has no entry yet.
type Marker struct {
	habits   HabitSource
	entries  EntryStore
	strength Recomputer
	window   int
}

func NewMarker(habits HabitSource, entries EntryStore, strength Recomputer) *Marker {
	return &Marker{
		habits:   habits,
		entries:  entries,
		strength: strength,
		window:   constants.MissedDayWindow,
	}
}

// Run back-fills the days strictly before today. Existing entries, today
// and future dates are never touched, so repeated runs for the same today
// change nothing. A failure in one habit is logged and does not stop the
// others.
func (m *Marker) Run(today string) (Result, error) {
	days, err := utils.PreviousDays(today, m.window)
	if err != nil {
		return Result{}, err
	}

	result := Result{Today: today, Errors: map[string]string{}}
	for _, habit := range m.habits.Active() {
		result.Habits++

		created, err := m.markHabit(habit.ID, days)
		if err != nil {
			logger.Error("Missed-day sweep failed for habit", "habit", habit.ID, "error", err)
			result.Errors[habit.ID] = err.Error()
		}
		if created == 0 {
			continue
		}

		result.Created += created
		result.Touched = append(result.Touched, habit.ID)
		if _, ok := m.strength.Recompute(habit.ID); !ok {
			logger.Warn("Habit vanished during sweep", "habit", habit.ID)
		}
	}

	logger.Info("Missed-day sweep finished", "today", today, "habits", result.Habits, "created", result.Created)
	return result, nil
}

func (m *Marker) markHabit(habitID string, days []string) (created int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while marking missed days: %v", r)
		}
	}()

	for _, day := range days {
		if m.entries.Get(habitID, day) != nil {
			continue
		}
		if m.entries.Create(models.Entry{
			HabitID:       habitID,
			Date:          day,
			CheckboxState: models.CheckboxState{Failed: true},
		}) != nil {
			created++
		}
	}
	return created, nil
}
