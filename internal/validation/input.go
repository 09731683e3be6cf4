package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateName rejects blank habit names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD format.
func ValidateDate(date string) error {
	_, err := utils.ParseDate(date)
	return err
}

// ValidateTimeOfDay checks that the schedule shape matches the habit type:
// one valid period for single-period types, exactly one valid period per
// part index for multi-part types.
func ValidateTimeOfDay(t models.HabitType, tod models.TimeOfDay) error {
	if !t.IsMultiPart() {
		if len(tod.Parts) > 0 {
			return fmt.Errorf("%s habits take a single time of day, got %d parts", t, len(tod.Parts))
		}
		if tod.Single != "" {
			if _, err := models.ParsePeriod(string(tod.Single)); err != nil {
				return err
			}
		}
		return nil
	}

	if tod.Single != "" {
		return fmt.Errorf("%s habits need a time of day per part, got a single period", t)
	}
	if len(tod.Parts) != t.Parts {
		return fmt.Errorf("%s habits need %d part times, got %d", t, t.Parts, len(tod.Parts))
	}
	seen := make(map[int]bool, len(tod.Parts))
	for _, part := range tod.Parts {
		if part.PartIndex < 0 || part.PartIndex >= t.Parts {
			return fmt.Errorf("part index %d out of range for %s", part.PartIndex, t)
		}
		if seen[part.PartIndex] {
			return fmt.Errorf("duplicate part index %d", part.PartIndex)
		}
		seen[part.PartIndex] = true
		if _, err := models.ParsePeriod(string(part.Time)); err != nil {
			return fmt.Errorf("part %d: %w", part.PartIndex, err)
		}
	}
	return nil
}

// ValidatePartIndex checks idx addresses a part of a multi-part type.
func ValidatePartIndex(t models.HabitType, idx int) error {
	if !t.IsMultiPart() {
		return fmt.Errorf("%s habits have no parts", t)
	}
	if idx < 0 || idx >= t.Parts {
		return fmt.Errorf("part %d out of range (habit has %d parts, numbered from 0)", idx, t.Parts)
	}
	return nil
}

// ValidateEntry rejects an entry whose populated fields belong to a type
// other than t. Empty parts are allowed on multi-part habits.
func ValidateEntry(t models.HabitType, e models.Entry) error {
	if problem := entryShapeProblem(t, e); problem != "" {
		return fmt.Errorf("entry on %s %s", e.Date, problem)
	}
	return nil
}

// ValidateHabit checks a habit before it is created or after it is edited.
func ValidateHabit(h models.Habit) error {
	if err := ValidateName(h.Name); err != nil {
		return err
	}
	if _, err := models.ParseHabitType(h.Type.String()); err != nil {
		return err
	}
	if h.Status != "" {
		if _, err := models.ParseStatus(string(h.Status)); err != nil {
			return err
		}
	}
	if h.Type.Kind == models.KindEmoji {
		for _, opt := range h.EmojiOptions {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("emoji options cannot be blank")
			}
		}
	}
	if h.TimeOfDay.Single == "" && len(h.TimeOfDay.Parts) == 0 {
		return nil
	}
	return ValidateTimeOfDay(h.Type, h.TimeOfDay)
}

// ValidateTheme accepts the known theme names.
func ValidateTheme(theme string) error {
	switch theme {
	case constants.ThemeLight, constants.ThemeDark:
		return nil
	default:
		return fmt.Errorf("invalid theme %q (expected %s or %s)", theme, constants.ThemeLight, constants.ThemeDark)
	}
}

// ValidateHexColor accepts #RRGGBB colors.
func ValidateHexColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid color %q (expected #RRGGBB)", color)
	}
	return nil
}
