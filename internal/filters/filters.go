// Package filters narrows, orders and summarises habit collections for the
// list views.
package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Strength buckets used by the strength filter.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// ParseStrength validates a bucket name. The empty string means no filter.
func ParseStrength(s string) (Strength, error) {
	switch b := Strength(strings.ToLower(strings.TrimSpace(s))); b {
	case "", StrengthWeak, StrengthMedium, StrengthStrong:
		return b, nil
	default:
		return "", fmt.Errorf("invalid strength filter %q (expected weak, medium or strong)", s)
	}
}

// Matches reports whether a strength value falls in the bucket.
func (b Strength) Matches(v float64) bool {
	switch b {
	case StrengthWeak:
		return v <= constants.StrengthWeakMax
	case StrengthMedium:
		return v > constants.StrengthWeakMax && v <= constants.StrengthMediumMax
	case StrengthStrong:
		return v > constants.StrengthMediumMax
	default:
		return true
	}
}

// Criteria holds the optional filters. Zero-valued fields do not filter.
type Criteria struct {
	Status     models.Status
	Tag        string
	LifeSphere string
	TimeOfDay  models.Period
	Type       string
	Strength   Strength
	Value      string
	Goal       string
}

// Match reports whether h satisfies every set criterion.
func (c Criteria) Match(h models.Habit) bool {
	if c.Status != "" && h.Status != c.Status {
		return false
	}
	if c.Tag != "" && !h.HasTag(c.Tag) {
		return false
	}
	if c.LifeSphere != "" && h.LifeSphere != c.LifeSphere {
		return false
	}
	if c.TimeOfDay != "" && !slices.Contains(h.TimeOfDay.Periods(), c.TimeOfDay) {
		return false
	}
	if c.Type != "" && h.Type.String() != c.Type {
		return false
	}
	if !c.Strength.Matches(h.Strength) {
		return false
	}
	if c.Value != "" && !h.HasValue(c.Value) {
		return false
	}
	if c.Goal != "" && !h.HasGoal(c.Goal) {
		return false
	}
	return true
}

// Apply returns the habits matching c, in input order.
func Apply(habits []models.Habit, c Criteria) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if c.Match(h) {
			out = append(out, h)
		}
	}
	return out
}

// SortBy names an ordering for habit lists.
type SortBy string

const (
	SortByStrength SortBy = "strength"
	SortByName     SortBy = "name"
	SortByCreated  SortBy = "created"
)

// Sort returns a sorted copy. Unknown orderings fall back to strength,
// weakest first.
func Sort(habits []models.Habit, by SortBy) []models.Habit {
	out := slices.Clone(habits)
	switch by {
	case SortByName:
		slices.SortStableFunc(out, func(a, b models.Habit) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortByCreated:
		slices.SortStableFunc(out, func(a, b models.Habit) int {
			return strings.Compare(a.CreatedAt, b.CreatedAt)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Habit) int {
			switch {
			case a.Strength < b.Strength:
				return -1
			case a.Strength > b.Strength:
				return 1
			}
			return 0
		})
	}
	return out
}

func collect(habits []models.Habit, fn func(models.Habit) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range habits {
		for _, s := range fn(h) {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

func Tags(habits []models.Habit) []string {
	return collect(habits, func(h models.Habit) []string { return h.Tags })
}

func LifeSpheres(habits []models.Habit) []string {
	return collect(habits, func(h models.Habit) []string { return []string{h.LifeSphere} })
}

func Values(habits []models.Habit) []string {
	return collect(habits, func(h models.Habit) []string { return h.Values })
}

func Goals(habits []models.Habit) []string {
	return collect(habits, func(h models.Habit) []string { return h.Goals })
}

// TimesOfDay lists every period used by any habit's schedule.
func TimesOfDay(habits []models.Habit) []string {
	return collect(habits, func(h models.Habit) []string {
		var out []string
		for _, p := range h.TimeOfDay.Periods() {
			out = append(out, string(p))
		}
		return out
	})
}
