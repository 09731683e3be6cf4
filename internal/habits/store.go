// Package habits holds the canonical habit collection.
package habits

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	nowFunc   = utils.Timestamp
	newIDFunc = uuid.NewString
)

// Patch carries the fields of a partial habit update. Nil fields are left
// unchanged. Type changes go through the conversion engine instead.
type Patch struct {
	Name         *string
	EmojiOptions *[]string
	Tags         *[]string
	LifeSphere   *string
	Values       *[]string
	Goals        *[]string
	TimeOfDay    *models.TimeOfDay
	Status       *models.Status
}

// Store keeps every habit in memory and writes the whole collection to the
// provider after each mutation. Write failures are logged and the in-memory
// state stays authoritative.
type Store struct {
	provider storage.Provider
	habits   []models.Habit
}

func NewStore(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Load reads the habit blob. A missing blob yields an empty collection.
func (s *Store) Load() error {
	var habits []models.Habit
	if _, err := storage.GetJSON(s.provider, constants.KeyHabits, &habits); err != nil {
		return err
	}
	s.habits = habits
	return nil
}

func (s *Store) save() {
	habits := s.habits
	if habits == nil {
		habits = []models.Habit{}
	}
	if err := storage.SetJSON(s.provider, constants.KeyHabits, habits); err != nil {
		logger.Error("Failed to persist habits", "key", constants.KeyHabits, "error", err)
	}
}

func (s *Store) index(id string) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// GetAll returns copies of every habit in insertion order.
func (s *Store) GetAll() []models.Habit {
	out := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		out = append(out, h.Clone())
	}
	return out
}

// Get returns a copy of the habit, or nil when it does not exist.
func (s *Store) Get(id string) *models.Habit {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	h := s.habits[i].Clone()
	return &h
}

// Create assigns an id and timestamps and appends the habit. Status
// defaults to active, time of day to a single "day" period (or one "day"
// per part for multi-part types). Strength always starts at zero.
func (s *Store) Create(h models.Habit) models.Habit {
	now := nowFunc()
	h = h.Clone()
	h.ID = newIDFunc()
	h.Name = strings.TrimSpace(h.Name)
	h.Tags = models.UniqueStrings(h.Tags)
	h.Values = models.UniqueStrings(h.Values)
	h.Goals = models.UniqueStrings(h.Goals)
	if h.EmojiOptions == nil {
		h.EmojiOptions = []string{}
	}
	if h.Status == "" {
		h.Status = models.StatusActive
	}
	if h.TimeOfDay.Single == "" && len(h.TimeOfDay.Parts) == 0 {
		h.TimeOfDay = DefaultTimeOfDay(h.Type)
	}
	h.Strength = 0
	h.CreatedAt = now
	h.UpdatedAt = now

	s.habits = append(s.habits, h)
	s.save()
	return h.Clone()
}

// DefaultTimeOfDay schedules every part of t for the day period.
func DefaultTimeOfDay(t models.HabitType) models.TimeOfDay {
	if !t.IsMultiPart() {
		return models.SingleTime(models.PeriodDay)
	}
	parts := make([]models.PartTime, t.Parts)
	for i := range parts {
		parts[i] = models.PartTime{PartIndex: i, Time: models.PeriodDay}
	}
	return models.TimeOfDay{Parts: parts}
}

// Update applies a partial update and returns the updated copy, or nil.
func (s *Store) Update(id string, p Patch) *models.Habit {
	i := s.index(id)
	if i < 0 {
		return nil
	}

	h := &s.habits[i]
	if p.Name != nil {
		h.Name = strings.TrimSpace(*p.Name)
	}
	if p.EmojiOptions != nil {
		h.EmojiOptions = append([]string{}, (*p.EmojiOptions)...)
	}
	if p.Tags != nil {
		h.Tags = models.UniqueStrings(*p.Tags)
	}
	if p.LifeSphere != nil {
		h.LifeSphere = strings.TrimSpace(*p.LifeSphere)
	}
	if p.Values != nil {
		h.Values = models.UniqueStrings(*p.Values)
	}
	if p.Goals != nil {
		h.Goals = models.UniqueStrings(*p.Goals)
	}
	if p.TimeOfDay != nil {
		tod := *p.TimeOfDay
		if tod.Parts != nil {
			tod.Parts = append([]models.PartTime(nil), tod.Parts...)
		}
		h.TimeOfDay = tod
	}
	if p.Status != nil {
		h.Status = *p.Status
	}
	h.UpdatedAt = nowFunc()

	s.save()
	c := h.Clone()
	return &c
}

// Replace overwrites the stored record with h, matched by id, bumping
// updatedAt. It returns nil when no habit has that id.
func (s *Store) Replace(h models.Habit) *models.Habit {
	i := s.index(h.ID)
	if i < 0 {
		return nil
	}
	h = h.Clone()
	h.CreatedAt = s.habits[i].CreatedAt
	h.UpdatedAt = nowFunc()
	s.habits[i] = h

	s.save()
	c := h.Clone()
	return &c
}

// Delete moves the habit to trash. Records only leave the collection
// through PermanentlyDelete or EmptyTrash.
func (s *Store) Delete(id string) *models.Habit {
	return s.Trash(id)
}

func (s *Store) setStatus(id string, status models.Status) *models.Habit {
	return s.Update(id, Patch{Status: &status})
}

func (s *Store) Trash(id string) *models.Habit {
	return s.setStatus(id, models.StatusTrash)
}

func (s *Store) Archive(id string) *models.Habit {
	return s.setStatus(id, models.StatusArchived)
}

func (s *Store) MoveToIdeas(id string) *models.Habit {
	return s.setStatus(id, models.StatusIdea)
}

// Restore moves the habit to status, which defaults to active when empty.
func (s *Store) Restore(id string, status models.Status) *models.Habit {
	if status == "" {
		status = models.StatusActive
	}
	return s.setStatus(id, status)
}

// PermanentlyDelete removes the habit record. It reports whether a record
// was removed.
func (s *Store) PermanentlyDelete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	s.save()
	return true
}

// EmptyTrash permanently removes every trashed habit and returns their ids.
func (s *Store) EmptyTrash() []string {
	var removed []string
	kept := s.habits[:0]
	for _, h := range s.habits {
		if h.Status == models.StatusTrash {
			removed = append(removed, h.ID)
			continue
		}
		kept = append(kept, h)
	}
	if len(removed) == 0 {
		return nil
	}
	s.habits = kept
	s.save()
	return removed
}

// ByStatus returns copies of the habits with the given status.
func (s *Store) ByStatus(status models.Status) []models.Habit {
	var out []models.Habit
	for _, h := range s.habits {
		if h.Status == status {
			out = append(out, h.Clone())
		}
	}
	return out
}

// Active returns copies of the active habits.
func (s *Store) Active() []models.Habit {
	return s.ByStatus(models.StatusActive)
}

// SetStrength is the user-facing strength setter; the value is clamped to
// [0, MaxStrength].
func (s *Store) SetStrength(id string, strength float64) *models.Habit {
	return s.setStrength(id, math.Max(0, math.Min(constants.MaxStrength, strength)))
}

// SetComputedStrength stores a value produced by the strength engine. The
// engine guarantees it is non-negative; it has no upper bound.
func (s *Store) SetComputedStrength(id string, strength float64) *models.Habit {
	return s.setStrength(id, math.Max(0, strength))
}

func (s *Store) setStrength(id string, strength float64) *models.Habit {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	h := &s.habits[i]
	h.Strength = strength
	h.UpdatedAt = nowFunc()

	s.save()
	c := h.Clone()
	return &c
}
