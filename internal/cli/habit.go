package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/conversion"
	"github.com/julianstephens/habitual/internal/filters"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
)

// confirmFunc asks a yes/no question. Tests replace it.
var confirmFunc = func(title, description string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	return confirmFunc(title, description)
}

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits."`
	Show       HabitShowCmd       `cmd:"" help:"Show a habit with its recent history."`
	Edit       HabitEditCmd       `cmd:"" help:"Edit a habit's details."`
	Convert    HabitConvertCmd    `cmd:"" help:"Change a habit's input type, converting its entries."`
	Archive    HabitArchiveCmd    `cmd:"" help:"Archive a habit."`
	Idea       HabitIdeaCmd       `cmd:"" help:"Move a habit to ideas."`
	Trash      HabitTrashCmd      `cmd:"" help:"Move a habit to trash."`
	Restore    HabitRestoreCmd    `cmd:"" help:"Restore a habit from archive, ideas or trash."`
	Purge      HabitPurgeCmd      `cmd:"" help:"Permanently delete a habit and its entries."`
	EmptyTrash HabitEmptyTrashCmd `cmd:"" name:"empty-trash" help:"Permanently delete every trashed habit."`
	Strength   HabitStrengthCmd   `cmd:"" help:"Show, recompute or set a habit's strength."`
	Facets     HabitFacetsCmd     `cmd:"" help:"List the tags, spheres, values, goals and times of day in use."`
}

// parseSchedule turns --time values into a schedule for t. One value
// applies to every part; multi-part types also accept one value per part.
func parseSchedule(t models.HabitType, values []string) (models.TimeOfDay, error) {
	if len(values) == 0 {
		return habits.DefaultTimeOfDay(t), nil
	}
	periods := make([]models.Period, 0, len(values))
	for _, v := range values {
		p, err := models.ParsePeriod(v)
		if err != nil {
			return models.TimeOfDay{}, err
		}
		periods = append(periods, p)
	}

	if !t.IsMultiPart() {
		if len(periods) != 1 {
			return models.TimeOfDay{}, fmt.Errorf("a %s takes exactly one time of day", t.DisplayName())
		}
		return models.SingleTime(periods[0]), nil
	}

	switch len(periods) {
	case 1, t.Parts:
	default:
		return models.TimeOfDay{}, fmt.Errorf("a %s takes one time of day or %d (one per part)", t.DisplayName(), t.Parts)
	}
	parts := make([]models.PartTime, t.Parts)
	for i := range parts {
		p := periods[0]
		if len(periods) == t.Parts {
			p = periods[i]
		}
		parts[i] = models.PartTime{PartIndex: i, Time: p}
	}
	return models.TimeOfDay{Parts: parts}, nil
}

type HabitAddCmd struct {
	Name   string   `arg:"" help:"Habit name."`
	Type   string   `help:"Input type: checkbox, checkbox_2..checkbox_4, text or emoji." default:"checkbox"`
	Time   []string `help:"Time of day (morning, day, evening); one per part for multi-part habits." sep:","`
	Emoji  []string `help:"Emoji options for emoji habits." sep:","`
	Tag    []string `help:"Tags." sep:","`
	Sphere string   `help:"Life sphere."`
	Value  []string `help:"Values the habit serves." sep:","`
	Goal   []string `help:"Goals the habit serves." sep:","`
	Status string   `help:"Initial status: active or idea." default:"active" enum:"active,idea"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	t, err := models.ParseHabitType(c.Type)
	if err != nil {
		return err
	}
	tod, err := parseSchedule(t, c.Time)
	if err != nil {
		return err
	}

	for _, h := range ctx.Tracker.Habits.GetAll() {
		if strings.EqualFold(h.Name, strings.TrimSpace(c.Name)) && h.Status != models.StatusTrash {
			return fmt.Errorf("habit with name %q already exists", c.Name)
		}
	}

	h, err := ctx.Tracker.CreateHabit(models.Habit{
		Name:         c.Name,
		Type:         t,
		EmojiOptions: c.Emoji,
		Tags:         c.Tag,
		LifeSphere:   c.Sphere,
		Values:       c.Value,
		Goals:        c.Goal,
		TimeOfDay:    tod,
		Status:       models.Status(c.Status),
	})
	if err != nil {
		return err
	}
	ctx.printf("Added habit: %s (%s, %s)\n", h.Name, h.Type.DisplayName(), shortID(h.ID))
	return nil
}

type HabitListCmd struct {
	Status   string `help:"Filter by status (active, archived, idea, trash)." default:"active"`
	All      bool   `help:"List habits of every status."`
	Tag      string `help:"Filter by tag."`
	Sphere   string `help:"Filter by life sphere."`
	Time     string `help:"Filter by time of day."`
	Type     string `help:"Filter by input type."`
	Strength string `help:"Filter by strength: weak, medium or strong."`
	Value    string `help:"Filter by value."`
	Goal     string `help:"Filter by goal."`
	Sort     string `help:"Sort by strength, name or created." default:"strength" enum:"strength,name,created"`
}

func (c *HabitListCmd) criteria() (filters.Criteria, error) {
	crit := filters.Criteria{
		Tag:        c.Tag,
		LifeSphere: c.Sphere,
		Value:      c.Value,
		Goal:       c.Goal,
	}
	if !c.All {
		status, err := models.ParseStatus(c.Status)
		if err != nil {
			return crit, err
		}
		crit.Status = status
	}
	if c.Time != "" {
		p, err := models.ParsePeriod(c.Time)
		if err != nil {
			return crit, err
		}
		crit.TimeOfDay = p
	}
	if c.Type != "" {
		t, err := models.ParseHabitType(c.Type)
		if err != nil {
			return crit, err
		}
		crit.Type = t.String()
	}
	bucket, err := filters.ParseStrength(c.Strength)
	if err != nil {
		return crit, err
	}
	crit.Strength = bucket
	return crit, nil
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	crit, err := c.criteria()
	if err != nil {
		return err
	}

	list := filters.Sort(filters.Apply(ctx.Tracker.Habits.GetAll(), crit), filters.SortBy(c.Sort))
	if len(list) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	for _, h := range list {
		line := fmt.Sprintf("%s  %-24s %-16s %6.2f  %s", mutedStyle.Render(shortID(h.ID)), h.Name, h.Type.String(), h.Strength, formatSchedule(h.TimeOfDay))
		if c.All && h.Status != models.StatusActive {
			line += " " + warnStyle.Render("["+strings.ToUpper(string(h.Status))+"]")
		}
		ctx.println(line)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Days  int    `help:"Days of history to show." default:"14"`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	ctx.println(headerStyle.Render(h.Name))
	ctx.printf("  ID:        %s\n", h.ID)
	ctx.printf("  Type:      %s\n", h.Type.DisplayName())
	ctx.printf("  Status:    %s\n", h.Status)
	ctx.printf("  Strength:  %.2f\n", h.Strength)
	ctx.printf("  Schedule:  %s\n", formatSchedule(h.TimeOfDay))
	if h.LifeSphere != "" {
		ctx.printf("  Sphere:    %s\n", h.LifeSphere)
	}
	if len(h.Tags) > 0 {
		ctx.printf("  Tags:      %s\n", strings.Join(h.Tags, ", "))
	}
	if len(h.Values) > 0 {
		ctx.printf("  Values:    %s\n", strings.Join(h.Values, ", "))
	}
	if len(h.Goals) > 0 {
		ctx.printf("  Goals:     %s\n", strings.Join(h.Goals, ", "))
	}
	if len(h.EmojiOptions) > 0 {
		ctx.printf("  Emoji:     %s\n", strings.Join(h.EmojiOptions, " "))
	}

	trend, err := ctx.Progress.Trend(h.ID, c.Days, today)
	if err != nil {
		return err
	}
	ctx.println()
	for _, p := range trend {
		ctx.printf("  %s  %s\n", p.Date, formatEntry(h.Type, ctx.Tracker.Entries.Get(h.ID, p.Date)))
	}
	return nil
}

type HabitEditCmd struct {
	Habit  string   `arg:"" help:"Habit id, id prefix or name."`
	Name   *string  `help:"New name."`
	Time   []string `help:"New time of day; one per part for multi-part habits." sep:","`
	Emoji  []string `help:"Replace emoji options." sep:","`
	Tag    []string `help:"Replace tags; pass an empty value to clear." sep:","`
	Sphere *string  `help:"New life sphere."`
	Value  []string `help:"Replace values; pass an empty value to clear." sep:","`
	Goal   []string `help:"Replace goals; pass an empty value to clear." sep:","`
}

// given distinguishes a flag that was passed from one that was not.
func given(values []string) *[]string {
	if values == nil {
		return nil
	}
	return &values
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	update := tracker.HabitUpdate{Patch: habits.Patch{
		Name:         c.Name,
		EmojiOptions: given(c.Emoji),
		Tags:         given(c.Tag),
		LifeSphere:   c.Sphere,
		Values:       given(c.Value),
		Goals:        given(c.Goal),
	}}
	if c.Time != nil {
		tod, err := parseSchedule(h.Type, c.Time)
		if err != nil {
			return err
		}
		update.TimeOfDay = &tod
	}

	updated, err := ctx.Tracker.UpdateHabit(h.ID, update)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("habit %s disappeared during edit", h.ID)
	}
	ctx.printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitConvertCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Type  string `arg:"" help:"New input type: checkbox, checkbox_2..checkbox_4, text or emoji."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitConvertCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	next, err := models.ParseHabitType(c.Type)
	if err != nil {
		return err
	}
	if next == h.Type {
		ctx.printf("Habit %s is already a %s.\n", h.Name, next.DisplayName())
		return nil
	}

	ok, err := confirm(c.Yes,
		fmt.Sprintf("Convert %s from %s to %s?", h.Name, h.Type.DisplayName(), next.DisplayName()),
		conversion.Warning(h.Type, next))
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Conversion cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	updated, err := ctx.Tracker.UpdateHabit(h.ID, tracker.HabitUpdate{Type: &next})
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("habit %s disappeared during conversion", h.ID)
	}
	ctx.printf("Converted %s to %s (strength %.2f).\n", updated.Name, updated.Type.DisplayName(), updated.Strength)
	return nil
}

// moveHabit is shared by the status-changing commands.
func moveHabit(ctx *Context, ref string, move func(id string) *models.Habit, verb string) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(ref)
	if err != nil {
		return err
	}
	if moved := move(h.ID); moved != nil {
		ctx.printf("%s habit: %s\n", verb, moved.Name)
	}
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	return moveHabit(ctx, c.Habit, func(id string) *models.Habit { return ctx.Tracker.Habits.Archive(id) }, "Archived")
}

type HabitIdeaCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitIdeaCmd) Run(ctx *Context) error {
	return moveHabit(ctx, c.Habit, func(id string) *models.Habit { return ctx.Tracker.Habits.MoveToIdeas(id) }, "Moved to ideas")
}

type HabitTrashCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitTrashCmd) Run(ctx *Context) error {
	return moveHabit(ctx, c.Habit, func(id string) *models.Habit { return ctx.Tracker.Habits.Trash(id) }, "Trashed")
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	To    string `help:"Status to restore to." default:"active" enum:"active,archived,idea"`
}

func (c *HabitRestoreCmd) Run(ctx *Context) error {
	return moveHabit(ctx, c.Habit, func(id string) *models.Habit {
		return ctx.Tracker.Habits.Restore(id, models.Status(c.To))
	}, "Restored")
}

type HabitPurgeCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitPurgeCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	n := len(ctx.Tracker.Entries.ForHabit(h.ID))
	ok, err := confirm(c.Yes,
		fmt.Sprintf("Permanently delete %s?", h.Name),
		fmt.Sprintf("The habit and its %d entries cannot be recovered except from a backup.", n))
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Purge cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if ctx.Tracker.PermanentlyDelete(h.ID) {
		ctx.printf("Permanently deleted %s and %d entries.\n", h.Name, n)
	}
	return nil
}

type HabitEmptyTrashCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitEmptyTrashCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	trashed := ctx.Tracker.Habits.ByStatus(models.StatusTrash)
	if len(trashed) == 0 {
		ctx.println("Trash is empty.")
		return nil
	}
	ok, err := confirm(c.Yes,
		fmt.Sprintf("Permanently delete %d trashed habits?", len(trashed)),
		"Their entries are deleted too.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Empty trash cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	removed := ctx.Tracker.EmptyTrash()
	ctx.printf("Permanently deleted %d habits.\n", len(removed))
	return nil
}

type HabitStrengthCmd struct {
	Habit     string   `arg:"" help:"Habit id, id prefix or name."`
	Set       *float64 `help:"Set the strength directly (0-100)."`
	Recompute bool     `help:"Recompute the strength from the entry history."`
}

func (c *HabitStrengthCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	value := h.Strength
	switch {
	case c.Set != nil:
		if updated := ctx.Tracker.Habits.SetStrength(h.ID, *c.Set); updated != nil {
			value = updated.Strength
		}
	case c.Recompute:
		value, _ = ctx.Tracker.RecomputeStrength(h.ID)
	}
	ctx.printf("%s: %.2f\n", h.Name, value)
	return nil
}

type HabitFacetsCmd struct{}

func (c *HabitFacetsCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	all := ctx.Tracker.Habits.GetAll()
	facets := []struct {
		title  string
		values []string
	}{
		{"Tags", filters.Tags(all)},
		{"Life spheres", filters.LifeSpheres(all)},
		{"Values", filters.Values(all)},
		{"Goals", filters.Goals(all)},
		{"Times of day", filters.TimesOfDay(all)},
	}
	for _, f := range facets {
		if len(f.values) == 0 {
			ctx.printf("%-14s %s\n", f.title+":", mutedStyle.Render("none"))
			continue
		}
		ctx.printf("%-14s %s\n", f.title+":", strings.Join(f.values, ", "))
	}
	return nil
}
