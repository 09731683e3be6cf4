// Package tracker is the synchronous entry point the CLI uses to change
// habits and entries. Every entry mutation is followed by a strength
// recompute before control returns.
package tracker

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/conversion"
	"github.com/julianstephens/habitual/internal/entries"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/strength"
	"github.com/julianstephens/habitual/internal/validation"
)

// HabitUpdate is a partial habit edit. A Type different from the current
// one is applied through the conversion engine before the other fields.
type HabitUpdate struct {
	habits.Patch
	Type *models.HabitType
}

// EntryUpdate is a partial entry edit.
type EntryUpdate struct {
	CheckboxState *models.CheckboxState
	TextValue     *string
	EmojiValue    *string
	Comment       *string
}

// Tracker coordinates the stores and engines.
type Tracker struct {
	Habits     *habits.Store
	Entries    *entries.Store
	Strength   *strength.Engine
	Conversion *conversion.Engine
}

func New(habitStore *habits.Store, entryStore *entries.Store) *Tracker {
	return &Tracker{
		Habits:     habitStore,
		Entries:    entryStore,
		Strength:   strength.NewEngine(habitStore, entryStore),
		Conversion: conversion.NewEngine(habitStore, entryStore),
	}
}

// CreateHabit validates and stores a new habit.
func (t *Tracker) CreateHabit(h models.Habit) (models.Habit, error) {
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	created := t.Habits.Create(h)
	logger.Info("Created habit", "habit", created.ID, "type", created.Type.String())
	return created, nil
}

// UpdateHabit applies u. It returns nil, nil when the habit does not exist.
func (t *Tracker) UpdateHabit(id string, u HabitUpdate) (*models.Habit, error) {
	current := t.Habits.Get(id)
	if current == nil {
		return nil, nil
	}

	// Validate the combined result before mutating anything.
	target := current.Clone()
	if u.Type != nil {
		target.TimeOfDay = conversion.ConvertTimeOfDay(target.TimeOfDay, target.Type, *u.Type)
		target.Type = *u.Type
	}
	if u.Name != nil {
		target.Name = *u.Name
	}
	if u.Status != nil {
		target.Status = *u.Status
	}
	if u.EmojiOptions != nil {
		target.EmojiOptions = *u.EmojiOptions
	}
	if u.TimeOfDay != nil {
		target.TimeOfDay = *u.TimeOfDay
	}
	if err := validation.ValidateHabit(target); err != nil {
		return nil, err
	}

	if u.Type != nil && *u.Type != current.Type {
		if _, ok := t.Conversion.Convert(id, *u.Type); !ok {
			return nil, nil
		}
		if u.Type.Kind == models.KindEmoji && u.EmojiOptions != nil {
			options := t.keepRecordedEmojis(id, *u.EmojiOptions)
			u.EmojiOptions = &options
		}
	}
	return t.Habits.Update(id, u.Patch), nil
}

// keepRecordedEmojis appends to options every emoji already recorded in the
// habit's entries, so converted values stay inside the option set.
func (t *Tracker) keepRecordedEmojis(habitID string, options []string) []string {
	merged := append([]string(nil), options...)
	for _, e := range t.Entries.ForHabit(habitID) {
		if e.HasEmoji() && !contains(merged, e.EmojiValue) {
			merged = append(merged, e.EmojiValue)
		}
	}
	return merged
}

func (t *Tracker) habitFor(habitID, date string) (*models.Habit, error) {
	if err := validation.ValidateDate(date); err != nil {
		return nil, err
	}
	return t.Habits.Get(habitID), nil
}

// mutate upserts the entry, applies fn and recomputes the habit's strength.
func (t *Tracker) mutate(habitID, date string, fn func(*models.Entry)) *models.Entry {
	e := t.Entries.Upsert(habitID, date, fn)
	t.Strength.Recompute(habitID)
	return &e
}

// ToggleCheckbox cycles a single checkbox entry through
// empty -> completed -> failed -> empty.
func (t *Tracker) ToggleCheckbox(habitID, date string) (*models.Entry, error) {
	habit, err := t.habitFor(habitID, date)
	if habit == nil || err != nil {
		return nil, err
	}
	if habit.Type.Kind != models.KindCheckbox {
		return nil, fmt.Errorf("habit %q is a %s, not a simple checkbox", habit.Name, habit.Type.DisplayName())
	}

	return t.mutate(habitID, date, func(e *models.Entry) {
		s := &e.CheckboxState
		switch {
		case !s.Completed && !s.Failed:
			s.Completed = true
		case s.Completed && !s.Failed:
			s.Completed, s.Failed = false, true
		default:
			s.Completed, s.Failed = false, false
		}
	}), nil
}

// TogglePart flips one part of a multi-part entry, creating the parts on
// first use.
func (t *Tracker) TogglePart(habitID, date string, idx int) (*models.Entry, error) {
	habit, err := t.habitFor(habitID, date)
	if habit == nil || err != nil {
		return nil, err
	}
	if err := validation.ValidatePartIndex(habit.Type, idx); err != nil {
		return nil, err
	}

	n := habit.Type.Parts
	return t.mutate(habitID, date, func(e *models.Entry) {
		if len(e.CheckboxState.Parts) != n {
			parts := make([]bool, n)
			copy(parts, e.CheckboxState.Parts)
			e.CheckboxState.Parts = parts
		}
		e.CheckboxState.Parts[idx] = !e.CheckboxState.Parts[idx]
	}), nil
}

// SetText records a text habit's value for the day.
func (t *Tracker) SetText(habitID, date, value string) (*models.Entry, error) {
	habit, err := t.habitFor(habitID, date)
	if habit == nil || err != nil {
		return nil, err
	}
	if habit.Type.Kind != models.KindText {
		return nil, fmt.Errorf("habit %q is a %s, not a text field", habit.Name, habit.Type.DisplayName())
	}
	return t.mutate(habitID, date, func(e *models.Entry) { e.TextValue = value }), nil
}

// SetEmoji records an emoji habit's value for the day. When the habit has
// emoji options the value must be one of them.
func (t *Tracker) SetEmoji(habitID, date, value string) (*models.Entry, error) {
	habit, err := t.habitFor(habitID, date)
	if habit == nil || err != nil {
		return nil, err
	}
	if habit.Type.Kind != models.KindEmoji {
		return nil, fmt.Errorf("habit %q is a %s, not an emoji picker", habit.Name, habit.Type.DisplayName())
	}
	if value != "" && len(habit.EmojiOptions) > 0 && !contains(habit.EmojiOptions, value) {
		return nil, fmt.Errorf("%q is not one of the habit's emoji options %v", value, habit.EmojiOptions)
	}
	return t.mutate(habitID, date, func(e *models.Entry) { e.EmojiValue = value }), nil
}

// SetComment attaches a comment to the day's entry.
func (t *Tracker) SetComment(habitID, date, comment string) (*models.Entry, error) {
	habit, err := t.habitFor(habitID, date)
	if habit == nil || err != nil {
		return nil, err
	}
	return t.mutate(habitID, date, func(e *models.Entry) { e.Comment = comment }), nil
}

// MarkFailed flags the day as failed. Single checkboxes lose their
// completion; multi-part progress and text or emoji values are kept.
func (t *Tracker) MarkFailed(habitID, date string) (*models.Entry, error) {
	habit, err := t.habitFor(habitID, date)
	if habit == nil || err != nil {
		return nil, err
	}
	kind := habit.Type.Kind
	return t.mutate(habitID, date, func(e *models.Entry) {
		e.CheckboxState.Failed = true
		if kind == models.KindCheckbox {
			e.CheckboxState.Completed = false
		}
	}), nil
}

// CreateEntry stores a new entry. It returns nil, nil when the habit does
// not exist and an error when the day already has an entry or the payload
// does not fit the habit's type.
func (t *Tracker) CreateEntry(e models.Entry) (*models.Entry, error) {
	habit, err := t.habitFor(e.HabitID, e.Date)
	if habit == nil || err != nil {
		return nil, err
	}
	if err := validation.ValidateEntry(habit.Type, e); err != nil {
		return nil, fmt.Errorf("habit %q: %w", habit.Name, err)
	}
	created := t.Entries.Create(e)
	if created == nil {
		return nil, fmt.Errorf("habit %q already has an entry on %s", habit.Name, e.Date)
	}
	t.Strength.Recompute(e.HabitID)
	return created, nil
}

func (u EntryUpdate) apply(e *models.Entry) {
	if u.CheckboxState != nil {
		e.CheckboxState = *u.CheckboxState
		if u.CheckboxState.Parts != nil {
			e.CheckboxState.Parts = append([]bool(nil), u.CheckboxState.Parts...)
		}
	}
	if u.TextValue != nil {
		e.TextValue = *u.TextValue
	}
	if u.EmojiValue != nil {
		e.EmojiValue = *u.EmojiValue
	}
	if u.Comment != nil {
		e.Comment = *u.Comment
	}
}

// UpdateEntry applies u to an existing entry. It returns nil, nil when the
// habit or entry does not exist and an error, leaving the entry untouched,
// when the result would not fit the habit's type.
func (t *Tracker) UpdateEntry(habitID, date string, u EntryUpdate) (*models.Entry, error) {
	habit := t.Habits.Get(habitID)
	current := t.Entries.Get(habitID, date)
	if habit == nil || current == nil {
		return nil, nil
	}
	u.apply(current)
	if err := validation.ValidateEntry(habit.Type, *current); err != nil {
		return nil, fmt.Errorf("habit %q: %w", habit.Name, err)
	}

	updated := t.Entries.Update(habitID, date, u.apply)
	if updated != nil {
		t.Strength.Recompute(habitID)
	}
	return updated, nil
}

// DeleteEntry removes the day's entry and reports whether one existed.
func (t *Tracker) DeleteEntry(habitID, date string) bool {
	if !t.Entries.Delete(habitID, date) {
		return false
	}
	t.Strength.Recompute(habitID)
	return true
}

// RecomputeStrength is the explicit recompute trigger.
func (t *Tracker) RecomputeStrength(habitID string) (float64, bool) {
	return t.Strength.Recompute(habitID)
}

// PermanentlyDelete removes the habit and all of its entries.
func (t *Tracker) PermanentlyDelete(habitID string) bool {
	if !t.Habits.PermanentlyDelete(habitID) {
		return false
	}
	removed := t.Entries.DeleteForHabit(habitID)
	logger.Info("Permanently deleted habit", "habit", habitID, "entries", removed)
	return true
}

// EmptyTrash permanently deletes every trashed habit with its entries.
func (t *Tracker) EmptyTrash() []string {
	removed := t.Habits.EmptyTrash()
	for _, id := range removed {
		t.Entries.DeleteForHabit(id)
	}
	if len(removed) > 0 {
		logger.Info("Emptied trash", "habits", len(removed))
	}
	return removed
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
