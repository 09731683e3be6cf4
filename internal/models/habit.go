package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the input shape of a habit.
type Kind string

const (
	KindCheckbox      Kind = "checkbox"
	KindMultiCheckbox Kind = "multi_checkbox"
	KindText          Kind = "text"
	KindEmoji         Kind = "emoji"
)

const (
	MinParts = 2
	MaxParts = 4
)

// HabitType is the tagged variant describing a habit's input shape.
// Parts is only meaningful for KindMultiCheckbox.
type HabitType struct {
	Kind  Kind
	Parts int
}

func CheckboxType() HabitType { return HabitType{Kind: KindCheckbox} }
func TextType() HabitType     { return HabitType{Kind: KindText} }
func EmojiType() HabitType    { return HabitType{Kind: KindEmoji} }

// MultiCheckboxType returns a multi-part checkbox type with n parts.
func MultiCheckboxType(n int) HabitType {
	return HabitType{Kind: KindMultiCheckbox, Parts: n}
}

// ParseHabitType parses the persisted tag form: checkbox, checkbox_N, text, emoji.
func ParseHabitType(s string) (HabitType, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "checkbox":
		return CheckboxType(), nil
	case "text":
		return TextType(), nil
	case "emoji":
		return EmojiType(), nil
	}

	if rest, ok := strings.CutPrefix(s, "checkbox_"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return HabitType{}, fmt.Errorf("invalid habit type %q: part count is not a number", s)
		}
		if n < MinParts || n > MaxParts {
			return HabitType{}, fmt.Errorf("invalid habit type %q: part count must be between %d and %d", s, MinParts, MaxParts)
		}
		return MultiCheckboxType(n), nil
	}

	return HabitType{}, fmt.Errorf("invalid habit type %q", s)
}

// String returns the persisted tag form.
func (t HabitType) String() string {
	if t.Kind == KindMultiCheckbox {
		return fmt.Sprintf("checkbox_%d", t.Parts)
	}
	return string(t.Kind)
}

// IsMultiPart reports whether the type has more than one checkbox part.
func (t HabitType) IsMultiPart() bool {
	return t.Kind == KindMultiCheckbox
}

// IsCheckbox reports whether the type is a single or multi-part checkbox.
func (t HabitType) IsCheckbox() bool {
	return t.Kind == KindCheckbox || t.Kind == KindMultiCheckbox
}

// PartCount returns the number of checkbox parts, 1 for every single-period type.
func (t HabitType) PartCount() int {
	if t.Kind == KindMultiCheckbox {
		return t.Parts
	}
	return 1
}

// DisplayName returns a human readable name for the type.
func (t HabitType) DisplayName() string {
	switch t.Kind {
	case KindCheckbox:
		return "simple checkbox"
	case KindMultiCheckbox:
		return fmt.Sprintf("%d-part checkbox", t.Parts)
	case KindText:
		return "text field"
	case KindEmoji:
		return "emoji picker"
	default:
		return t.String()
	}
}

func (t HabitType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *HabitType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHabitType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Period is the part of the day a habit is scheduled for.
type Period string

const (
	PeriodMorning Period = "morning"
	PeriodDay     Period = "day"
	PeriodEvening Period = "evening"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodMorning, PeriodDay, PeriodEvening:
		return p, nil
	default:
		return "", fmt.Errorf("invalid period %q (expected morning, day or evening)", s)
	}
}

// PartTime schedules a single part of a multi-part habit.
type PartTime struct {
	PartIndex int    `json:"partIndex"`
	Time      Period `json:"time"`
}

// TimeOfDay is either a single period or one period per checkbox part.
type TimeOfDay struct {
	Single Period     `json:"single,omitempty"`
	Parts  []PartTime `json:"parts,omitempty"`
}

// SingleTime returns a single-period schedule.
func SingleTime(p Period) TimeOfDay {
	return TimeOfDay{Single: p}
}

// IsMultiPart reports whether the schedule is per-part.
func (t TimeOfDay) IsMultiPart() bool {
	return len(t.Parts) > 0
}

// FirstPeriod returns the single period, or the first part's time, or day.
func (t TimeOfDay) FirstPeriod() Period {
	if t.Single != "" {
		return t.Single
	}
	if len(t.Parts) > 0 && t.Parts[0].Time != "" {
		return t.Parts[0].Time
	}
	return PeriodDay
}

// Periods returns every period the schedule mentions.
func (t TimeOfDay) Periods() []Period {
	if t.Single != "" {
		return []Period{t.Single}
	}
	periods := make([]Period, 0, len(t.Parts))
	for _, part := range t.Parts {
		periods = append(periods, part.Time)
	}
	return periods
}

// Status governs visibility of a habit.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusIdea     Status = "idea"
	StatusTrash    Status = "trash"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusArchived, StatusIdea, StatusTrash:
		return st, nil
	default:
		return "", fmt.Errorf("invalid status %q (expected active, archived, idea or trash)", s)
	}
}

// Habit represents a recurring practice to track
type Habit struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         HabitType `json:"type"`
	EmojiOptions []string  `json:"emojiOptions"`
	Tags         []string  `json:"tags"`
	LifeSphere   string    `json:"lifeSphere"`
	Values       []string  `json:"values"`
	Goals        []string  `json:"goals"`
	TimeOfDay    TimeOfDay `json:"timeOfDay"`
	Status       Status    `json:"status"`
	Strength     float64   `json:"strength"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (h Habit) Clone() Habit {
	c := h
	c.EmojiOptions = cloneStrings(h.EmojiOptions)
	c.Tags = cloneStrings(h.Tags)
	c.Values = cloneStrings(h.Values)
	c.Goals = cloneStrings(h.Goals)
	if h.TimeOfDay.Parts != nil {
		c.TimeOfDay.Parts = append([]PartTime(nil), h.TimeOfDay.Parts...)
	}
	return c
}

// HasTag reports whether the habit carries the tag.
func (h Habit) HasTag(tag string) bool { return contains(h.Tags, tag) }

// HasValue reports whether the habit is linked to the value.
func (h Habit) HasValue(value string) bool { return contains(h.Values, value) }

// HasGoal reports whether the habit is linked to the goal.
func (h Habit) HasGoal(goal string) bool { return contains(h.Goals, goal) }

// UniqueStrings drops blanks and duplicates while keeping insertion order.
func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
