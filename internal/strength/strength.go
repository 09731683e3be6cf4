// Package strength derives a habit's strength score from its entry history.
package strength

import (
	"math"
	"sort"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// HabitStore is the habit access the engine needs.
type HabitStore interface {
	Get(id string) *models.Habit
	SetComputedStrength(id string, strength float64) *models.Habit
}

// EntrySource lists a habit's entries.
type EntrySource interface {
	ForHabit(habitID string) []models.Entry
}

// Delta returns how much a single entry moves the running total for a
// habit of type t. Multi-part partial credit and a failed penalty both apply.
func Delta(t models.HabitType, e models.Entry) float64 {
	state := e.CheckboxState
	switch t.Kind {
	case models.KindCheckbox:
		if state.Completed {
			return 1
		}
		if state.Failed {
			return -1
		}
	case models.KindMultiCheckbox:
		delta := 0.0
		if len(state.Parts) > 0 && t.Parts > 0 {
			delta = float64(state.CompletedParts()) / float64(t.Parts)
		}
		if state.Failed {
			delta--
		}
		return delta
	case models.KindText:
		if e.HasText() {
			return 1
		}
		if state.Failed {
			return -1
		}
	case models.KindEmoji:
		if e.HasEmoji() {
			return 1
		}
		if state.Failed {
			return -1
		}
	}
	return 0
}

// Compute replays entries in ascending date order, clamping the running
// total at zero after every step, and rounds the result to two decimals.
func Compute(t models.HabitType, entries []models.Entry) float64 {
	sorted := append([]models.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	total := 0.0
	for _, e := range sorted {
		total = math.Max(0, total+Delta(t, e))
	}
	return Round(total)
}

// Round rounds to two decimal places.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Engine recomputes strengths and writes them back onto habit records.
type Engine struct {
	habits  HabitStore
	entries EntrySource
}

func NewEngine(habits HabitStore, entries EntrySource) *Engine {
	return &Engine{habits: habits, entries: entries}
}

// Recompute derives the habit's strength from its entries and persists it.
// It reports false when the habit does not exist.
func (e *Engine) Recompute(habitID string) (float64, bool) {
	habit := e.habits.Get(habitID)
	if habit == nil {
		return 0, false
	}

	value := Compute(habit.Type, e.entries.ForHabit(habitID))
	e.habits.SetComputedStrength(habitID, value)
	logger.Debug("Recomputed habit strength", "habit", habitID, "strength", value)
	return value, true
}
