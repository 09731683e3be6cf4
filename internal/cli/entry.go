package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
)

type EntryCmd struct {
	Toggle  EntryToggleCmd  `cmd:"" help:"Cycle a checkbox habit: empty, completed, failed."`
	Part    EntryPartCmd    `cmd:"" help:"Toggle one part of a multi-part habit."`
	Text    EntryTextCmd    `cmd:"" help:"Record a text habit's value."`
	Emoji   EntryEmojiCmd   `cmd:"" help:"Record an emoji habit's value."`
	Comment EntryCommentCmd `cmd:"" help:"Attach a comment to a day."`
	Fail    EntryFailCmd    `cmd:"" help:"Mark a day as failed."`
	Delete  EntryDeleteCmd  `cmd:"" help:"Delete a day's entry."`
	List    EntryListCmd    `cmd:"" help:"List entries for a day."`
}

// entryTarget resolves the habit and date shared by every entry command.
func entryTarget(ctx *Context, ref, date string) (*models.Habit, string, error) {
	if err := ctx.Open(); err != nil {
		return nil, "", err
	}
	h, err := ctx.FindHabit(ref)
	if err != nil {
		return nil, "", err
	}
	day, err := ctx.ResolveDate(date)
	if err != nil {
		return nil, "", err
	}
	return h, day, nil
}

func (c *Context) reportEntry(h *models.Habit, e *models.Entry, err error) error {
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("habit %s no longer exists", h.ID)
	}
	strength := h.Strength
	if updated := c.Tracker.Habits.Get(h.ID); updated != nil {
		strength = updated.Strength
	}
	c.printf("%s %s  %s  (strength %.2f)\n", e.Date, h.Name, formatEntry(h.Type, e), strength)
	return nil
}

type EntryToggleCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryToggleCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	e, err := ctx.Tracker.ToggleCheckbox(h.ID, day)
	return ctx.reportEntry(h, e, err)
}

type EntryPartCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Part  int    `arg:"" help:"Part number, starting at 1."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryPartCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	e, err := ctx.Tracker.TogglePart(h.ID, day, c.Part-1)
	return ctx.reportEntry(h, e, err)
}

type EntryTextCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Value string `arg:"" help:"Text value; empty clears it."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryTextCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	e, err := ctx.Tracker.SetText(h.ID, day, c.Value)
	return ctx.reportEntry(h, e, err)
}

type EntryEmojiCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Value string `arg:"" help:"Emoji; must be one of the habit's options when it has any."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryEmojiCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	e, err := ctx.Tracker.SetEmoji(h.ID, day, c.Value)
	return ctx.reportEntry(h, e, err)
}

type EntryCommentCmd struct {
	Habit   string `arg:"" help:"Habit id, id prefix or name."`
	Comment string `arg:"" help:"Comment; empty clears it."`
	Date    string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryCommentCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	e, err := ctx.Tracker.SetComment(h.ID, day, c.Comment)
	return ctx.reportEntry(h, e, err)
}

type EntryFailCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryFailCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	e, err := ctx.Tracker.MarkFailed(h.ID, day)
	return ctx.reportEntry(h, e, err)
}

type EntryDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryDeleteCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, c.Habit, c.Date)
	if err != nil {
		return err
	}
	if !ctx.Tracker.DeleteEntry(h.ID, day) {
		ctx.printf("No entry for %s on %s.\n", h.Name, day)
		return nil
	}
	ctx.printf("Deleted entry for %s on %s.\n", h.Name, day)
	return nil
}

type EntryListCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *EntryListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	active := ctx.Tracker.Habits.Active()
	if len(active) == 0 {
		ctx.println("No active habits.")
		return nil
	}

	ctx.println(headerStyle.Render(day))
	for _, period := range []models.Period{models.PeriodMorning, models.PeriodDay, models.PeriodEvening} {
		printed := false
		for _, h := range active {
			if h.TimeOfDay.FirstPeriod() != period {
				continue
			}
			if !printed {
				ctx.println(mutedStyle.Render(string(period)))
				printed = true
			}
			ctx.printf("  %-24s %s\n", h.Name, formatEntry(h.Type, ctx.Tracker.Entries.Get(h.ID, day)))
		}
	}

	stats := ctx.Progress.Daily(day, active)
	ctx.printf("\n%d/%d completed, %d failed  %s %d%%\n", stats.Completed, stats.TotalHabits, stats.Failed, progressBar(stats.Percentage, 20), stats.Percentage)
	return nil
}
