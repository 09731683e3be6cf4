// Package entries holds the canonical entry collection, keyed by habit id
// and date.
package entries

import (
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

// Store keeps every entry in memory and writes the whole collection to the
// provider after each mutation. Write failures are logged and swallowed.
type Store struct {
	provider storage.Provider
	entries  []models.Entry
}

func NewStore(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Load reads the entry blob. A missing blob yields an empty collection.
func (s *Store) Load() error {
	var entries []models.Entry
	if _, err := storage.GetJSON(s.provider, constants.KeyEntries, &entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}

func (s *Store) save() {
	entries := s.entries
	if entries == nil {
		entries = []models.Entry{}
	}
	if err := storage.SetJSON(s.provider, constants.KeyEntries, entries); err != nil {
		logger.Error("Failed to persist entries", "key", constants.KeyEntries, "error", err)
	}
}

func (s *Store) index(habitID, date string) int {
	for i := range s.entries {
		if s.entries[i].HabitID == habitID && s.entries[i].Date == date {
			return i
		}
	}
	return -1
}

func (s *Store) GetAll() []models.Entry {
	out := make([]models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Get returns a copy of the entry for (habitID, date), or nil.
func (s *Store) Get(habitID, date string) *models.Entry {
	i := s.index(habitID, date)
	if i < 0 {
		return nil
	}
	e := s.entries[i].Clone()
	return &e
}

// Create adds a new entry for (e.HabitID, e.Date). If one already exists it
// is left untouched and nil is returned.
func (s *Store) Create(e models.Entry) *models.Entry {
	if s.index(e.HabitID, e.Date) >= 0 {
		return nil
	}
	now := nowFunc()
	e = e.Clone()
	e.ID = newIDFunc()
	e.CreatedAt = now
	e.UpdatedAt = now

	s.entries = append(s.entries, e)
	s.save()
	c := e.Clone()
	return &c
}

// Update applies mutate to the stored entry and returns the updated copy,
// or nil when no entry exists for the key.
func (s *Store) Update(habitID, date string, mutate func(*models.Entry)) *models.Entry {
	i := s.index(habitID, date)
	if i < 0 {
		return nil
	}
	return s.apply(i, mutate)
}

func (s *Store) apply(i int, mutate func(*models.Entry)) *models.Entry {
	e := &s.entries[i]
	id, habitID, date, createdAt := e.ID, e.HabitID, e.Date, e.CreatedAt
	if mutate != nil {
		mutate(e)
	}
	// Identity and key are immutable.
	e.ID, e.HabitID, e.Date, e.CreatedAt = id, habitID, date, createdAt
	e.UpdatedAt = nowFunc()

	s.save()
	c := e.Clone()
	return &c
}

// Upsert creates an empty entry for the key when none exists, then applies
// mutate to it.
func (s *Store) Upsert(habitID, date string, mutate func(*models.Entry)) models.Entry {
	i := s.index(habitID, date)
	if i < 0 {
		now := nowFunc()
		s.entries = append(s.entries, models.Entry{
			ID:        newIDFunc(),
			HabitID:   habitID,
			Date:      date,
			CreatedAt: now,
			UpdatedAt: now,
		})
		i = len(s.entries) - 1
	}
	return *s.apply(i, mutate)
}

// Delete removes the entry for (habitID, date). It reports whether one existed.
func (s *Store) Delete(habitID, date string) bool {
	i := s.index(habitID, date)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.save()
	return true
}

// ForHabit returns copies of the habit's entries in storage order.
func (s *Store) ForHabit(habitID string) []models.Entry {
	var out []models.Entry
	for _, e := range s.entries {
		if e.HabitID == habitID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// ForDate returns copies of every entry recorded on date.
func (s *Store) ForDate(date string) []models.Entry {
	var out []models.Entry
	for _, e := range s.entries {
		if e.Date == date {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Put replaces whole records matched by (habitId, date) in a single write.
// Records without a match are ignored. It returns how many were replaced.
func (s *Store) Put(records ...models.Entry) int {
	replaced := 0
	for _, r := range records {
		i := s.index(r.HabitID, r.Date)
		if i < 0 {
			continue
		}
		s.entries[i] = r.Clone()
		replaced++
	}
	if replaced > 0 {
		s.save()
	}
	return replaced
}

// DeleteForHabit removes every entry of the habit and returns how many went.
func (s *Store) DeleteForHabit(habitID string) int {
	kept := make([]models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.HabitID != habitID {
			kept = append(kept, e)
		}
	}
	removed := len(s.entries) - len(kept)
	if removed > 0 {
		s.entries = kept
		s.save()
	}
	return removed
}
