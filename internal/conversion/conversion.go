// Package conversion changes a habit's type and migrates its entries.
package conversion

import (
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var nowFunc = utils.Timestamp

// HabitStore is the habit access conversion needs.
type HabitStore interface {
	Get(id string) *models.Habit
	Replace(h models.Habit) *models.Habit
}

// EntryStore is the entry access conversion needs.
type EntryStore interface {
	ForHabit(habitID string) []models.Entry
	Put(records ...models.Entry) int
}

// Engine performs type conversions. It never recomputes strength: the
// value held before the conversion is restored verbatim.
type Engine struct {
	habits  HabitStore
	entries EntryStore
	now     func() string
}

func NewEngine(habits HabitStore, entries EntryStore) *Engine {
	return &Engine{habits: habits, entries: entries, now: nowFunc}
}

// Convert switches the habit to next, rewriting its schedule and every one
// of its entries. Converting to the current type is a no-op that returns
// the habit unchanged. It reports false when the habit does not exist.
func (e *Engine) Convert(habitID string, next models.HabitType) (*models.Habit, bool) {
	habit := e.habits.Get(habitID)
	if habit == nil {
		return nil, false
	}
	old := habit.Type
	if old == next {
		return habit, true
	}

	strength := habit.Strength

	habit.Type = next
	habit.TimeOfDay = ConvertTimeOfDay(habit.TimeOfDay, old, next)
	stamp := e.now()
	existing := e.entries.ForHabit(habitID)
	converted := make([]models.Entry, 0, len(existing))
	for _, entry := range existing {
		c := ConvertEntry(entry, old, next)
		c.UpdatedAt = stamp
		converted = append(converted, c)
	}
	e.entries.Put(converted...)

	// Keep written placeholder emojis inside the option set.
	if next.Kind == models.KindEmoji {
		for _, c := range converted {
			if c.EmojiValue != "" {
				habit.EmojiOptions = appendMissing(habit.EmojiOptions, c.EmojiValue)
			}
		}
	}

	habit.Strength = strength
	updated := e.habits.Replace(*habit)

	logger.Info("Converted habit type",
		"habit", habitID,
		"from", old.String(),
		"to", next.String(),
		"entries", len(converted),
		"strength", strength,
	)
	return updated, updated != nil
}

// ConvertTimeOfDay maps a schedule from one type to another.
func ConvertTimeOfDay(tod models.TimeOfDay, old, next models.HabitType) models.TimeOfDay {
	first := tod.FirstPeriod()

	if !next.IsMultiPart() {
		return models.SingleTime(first)
	}

	parts := make([]models.PartTime, next.Parts)
	for i := range parts {
		period := first
		if old.IsMultiPart() && i < len(tod.Parts) && tod.Parts[i].Time != "" {
			period = tod.Parts[i].Time
		}
		parts[i] = models.PartTime{PartIndex: i, Time: period}
	}
	return models.TimeOfDay{Parts: parts}
}

func appendMissing(options []string, value string) []string {
	for _, o := range options {
		if o == value {
			return options
		}
	}
	return append(options, value)
}
