// Package progress rolls habit strength and entry outcomes up into the
// per-facet and per-period figures shown by the progress views.
package progress

import (
	"math"
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/filters"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitSource interface {
	GetAll() []models.Habit
	Get(id string) *models.Habit
	Active() []models.Habit
}

type EntrySource interface {
	ForDate(date string) []models.Entry
	ForHabit(habitID string) []models.Entry
}

// Progress summarises the active habits sharing a facet.
type Progress struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}

// DayStats counts outcomes on a single date.
type DayStats struct {
	Date        string `json:"date"`
	TotalHabits int    `json:"totalHabits"`
	Completed   int    `json:"completed"`
	Failed      int    `json:"failed"`
	Percentage  int    `json:"percentage"`
}

type WeekStats struct {
	Dates          []string       `json:"weekDates"`
	Days           []DayStats     `json:"dailyStats"`
	TotalHabits    int            `json:"totalHabits"`
	TotalCompleted int            `json:"totalCompleted"`
	TotalPossible  int            `json:"totalPossible"`
	Percentage     int            `json:"percentage"`
	Strongest      []models.Habit `json:"strongestHabits"`
	Weakest        []models.Habit `json:"weakestHabits"`
}

type MonthStats struct {
	Year           int         `json:"year"`
	Month          time.Month  `json:"month"`
	Weeks          []WeekStats `json:"weeks"`
	TotalHabits    int         `json:"totalHabits"`
	TotalCompleted int         `json:"totalCompleted"`
	TotalPossible  int         `json:"totalPossible"`
	Percentage     int         `json:"percentage"`
}

// TrendPoint is a habit's status on one day.
type TrendPoint struct {
	Date   string             `json:"date"`
	Status models.EntryStatus `json:"status"`
}

type Aggregator struct {
	habits  HabitSource
	entries EntrySource
}

func New(habits HabitSource, entries EntrySource) *Aggregator {
	return &Aggregator{habits: habits, entries: entries}
}

func rollup(name string, habits []models.Habit) Progress {
	p := Progress{Name: name, Total: len(habits)}
	if p.Total == 0 {
		return p
	}
	var sum float64
	for _, h := range habits {
		sum += h.Strength
	}
	p.Percentage = int(math.Round(sum / float64(p.Total)))
	p.Completed = int(math.Round(float64(p.Percentage) / 100 * float64(p.Total)))
	return p
}

func (a *Aggregator) activeWhere(match func(models.Habit) bool) []models.Habit {
	var out []models.Habit
	for _, h := range a.habits.Active() {
		if match(h) {
			out = append(out, h)
		}
	}
	return out
}

func (a *Aggregator) SphereProgress(sphere string) Progress {
	return rollup(sphere, a.activeWhere(func(h models.Habit) bool { return h.LifeSphere == sphere }))
}

func (a *Aggregator) ValueProgress(value string) Progress {
	return rollup(value, a.activeWhere(func(h models.Habit) bool { return h.HasValue(value) }))
}

func (a *Aggregator) GoalProgress(goal string) Progress {
	return rollup(goal, a.activeWhere(func(h models.Habit) bool { return h.HasGoal(goal) }))
}

// AllSpheres reports progress for every life sphere named by any habit,
// including spheres whose habits are all inactive.
func (a *Aggregator) AllSpheres() []Progress {
	return each(filters.LifeSpheres(a.habits.GetAll()), a.SphereProgress)
}

func (a *Aggregator) AllValues() []Progress {
	return each(filters.Values(a.habits.GetAll()), a.ValueProgress)
}

func (a *Aggregator) AllGoals() []Progress {
	return each(filters.Goals(a.habits.GetAll()), a.GoalProgress)
}

func each(names []string, fn func(string) Progress) []Progress {
	out := make([]Progress, 0, len(names))
	for _, n := range names {
		out = append(out, fn(n))
	}
	return out
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// Daily counts completed and failed entries on date for the given habits,
// or for every active habit when habits is nil. A failed flag only counts
// when the entry is not also complete.
func (a *Aggregator) Daily(date string, habits []models.Habit) DayStats {
	if habits == nil {
		habits = a.habits.Active()
	}
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	stats := DayStats{Date: date, TotalHabits: len(habits)}
	for _, e := range a.entries.ForDate(date) {
		h, ok := byID[e.HabitID]
		if !ok {
			continue
		}
		switch {
		case models.StatusFor(h.Type, &e) == models.EntryStatusCompleted:
			stats.Completed++
		case h.Type.Kind == models.KindCheckbox && e.CheckboxState.Failed:
			stats.Failed++
		}
	}
	stats.Percentage = percent(stats.Completed, stats.TotalHabits)
	return stats
}

// Weekly aggregates Daily over dates and ranks active habits by strength.
func (a *Aggregator) Weekly(dates []string) WeekStats {
	active := a.habits.Active()
	ws := WeekStats{
		Dates:       slices.Clone(dates),
		Days:        make([]DayStats, 0, len(dates)),
		TotalHabits: len(active),
	}
	for _, d := range dates {
		day := a.Daily(d, active)
		ws.Days = append(ws.Days, day)
		ws.TotalCompleted += day.Completed
	}
	ws.TotalPossible = ws.TotalHabits * len(dates)
	ws.Percentage = percent(ws.TotalCompleted, ws.TotalPossible)

	ranked := slices.Clone(active)
	slices.SortStableFunc(ranked, func(x, y models.Habit) int {
		switch {
		case x.Strength > y.Strength:
			return -1
		case x.Strength < y.Strength:
			return 1
		}
		return 0
	})
	n := min(constants.TopHabitsCount, len(ranked))
	ws.Strongest = ranked[:n]
	ws.Weakest = slices.Clone(ranked[len(ranked)-n:])
	slices.Reverse(ws.Weakest)
	return ws
}

// Monthly splits the month into consecutive 7-day chunks starting on the
// first and aggregates them.
func (a *Aggregator) Monthly(year int, month time.Month) MonthStats {
	dates := utils.MonthDates(year, month)
	ms := MonthStats{
		Year:        year,
		Month:       month,
		TotalHabits: len(a.habits.Active()),
	}
	for chunk := range slices.Chunk(dates, 7) {
		week := a.Weekly(chunk)
		ms.Weeks = append(ms.Weeks, week)
		ms.TotalCompleted += week.TotalCompleted
	}
	ms.TotalPossible = ms.TotalHabits * len(dates)
	ms.Percentage = percent(ms.TotalCompleted, ms.TotalPossible)
	return ms
}

// Trend returns the habit's status for each of the days ending at today,
// oldest first. It returns nil when the habit does not exist.
func (a *Aggregator) Trend(habitID string, days int, today string) ([]TrendPoint, error) {
	h := a.habits.Get(habitID)
	if h == nil {
		return nil, nil
	}
	if days <= 0 {
		days = constants.DefaultTrendDays
	}
	dates, err := utils.TrailingDays(today, days)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]models.Entry)
	for _, e := range a.entries.ForHabit(habitID) {
		byDate[e.Date] = e
	}

	points := make([]TrendPoint, 0, len(dates))
	for _, d := range dates {
		var entry *models.Entry
		if e, ok := byDate[d]; ok {
			entry = &e
		}
		points = append(points, TrendPoint{Date: d, Status: models.StatusFor(h.Type, entry)})
	}
	return points, nil
}
