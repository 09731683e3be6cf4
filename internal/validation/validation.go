package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictDuplicateEntry     ConflictType = "duplicate_entry"
	ConflictOrphanEntry        ConflictType = "orphan_entry"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictTimeOfDayMismatch  ConflictType = "time_of_day_mismatch"
	ConflictEntryTypeMismatch  ConflictType = "entry_type_mismatch"
	ConflictNegativeStrength   ConflictType = "negative_strength"
)

// Conflict represents a detected inconsistency in the stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Habit names involved
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks the habit and entry collections for inconsistencies.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateData checks habits and entries together.
func (v *Validator) ValidateData(habits []models.Habit, entries []models.Entry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	nameIDs := make(map[string][]string)
	for _, h := range habits {
		byID[h.ID] = h
		if h.Status == models.StatusTrash || h.Name == "" {
			continue
		}
		nameIDs[strings.ToLower(h.Name)] = append(nameIDs[strings.ToLower(h.Name)], h.ID)

		if err := ValidateTimeOfDay(h.Type, h.TimeOfDay); err != nil {
			result.add(Conflict{
				Type:        ConflictTimeOfDayMismatch,
				Description: fmt.Sprintf("Habit %q has an invalid schedule: %v", h.Name, err),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}
		if h.Strength < 0 {
			result.add(Conflict{
				Type:        ConflictNegativeStrength,
				Description: fmt.Sprintf("Habit %q has negative strength %.2f", h.Name, h.Strength),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(nameIDs))
	for name := range nameIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := nameIDs[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				Items:       []string{name},
				HabitIDs:    ids,
			})
		}
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := e.HabitID + "|" + e.Date
		habit, known := byID[e.HabitID]

		if seen[key] {
			result.add(Conflict{
				Type:        ConflictDuplicateEntry,
				Description: fmt.Sprintf("More than one entry for habit %s on %s", e.HabitID, e.Date),
				Date:        e.Date,
				HabitIDs:    []string{e.HabitID},
			})
		}
		seen[key] = true

		if err := ValidateDate(e.Date); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Entry %s has an invalid date %q", e.ID, e.Date),
				Date:        e.Date,
				HabitIDs:    []string{e.HabitID},
			})
		}

		if !known {
			result.add(Conflict{
				Type:        ConflictOrphanEntry,
				Description: fmt.Sprintf("Entry on %s references unknown habit %s", e.Date, e.HabitID),
				Date:        e.Date,
				HabitIDs:    []string{e.HabitID},
			})
			continue
		}

		if problem := entryShapeProblem(habit.Type, e); problem != "" {
			result.add(Conflict{
				Type:        ConflictEntryTypeMismatch,
				Description: fmt.Sprintf("Entry for %q on %s %s", habit.Name, e.Date, problem),
				Date:        e.Date,
				Items:       []string{habit.Name},
				HabitIDs:    []string{habit.ID},
			})
		}
	}

	return result
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// entryShapeProblem describes fields populated for a type other than t.
func entryShapeProblem(t models.HabitType, e models.Entry) string {
	state := e.CheckboxState
	switch t.Kind {
	case models.KindCheckbox:
		if len(state.Parts) > 0 {
			return "has part data on a single checkbox habit"
		}
	case models.KindMultiCheckbox:
		if len(state.Parts) > 0 && len(state.Parts) != t.Parts {
			return fmt.Sprintf("has %d parts, habit has %d", len(state.Parts), t.Parts)
		}
		if state.Completed {
			return "sets completed on a multi-part habit"
		}
	case models.KindText, models.KindEmoji:
		if state.Completed || len(state.Parts) > 0 {
			return fmt.Sprintf("has checkbox data on a %s habit", t.Kind)
		}
	}
	if t.Kind != models.KindText && e.TextValue != "" {
		return fmt.Sprintf("has a text value on a %s habit", t)
	}
	if t.Kind != models.KindEmoji && e.EmojiValue != "" {
		return fmt.Sprintf("has an emoji value on a %s habit", t)
	}
	return ""
}
