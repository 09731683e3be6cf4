package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/progress"
	"github.com/julianstephens/habitual/internal/utils"
)

type ProgressCmd struct {
	Spheres ProgressSpheresCmd `cmd:"" help:"Progress per life sphere."`
	Values  ProgressValuesCmd  `cmd:"" help:"Progress per value."`
	Goals   ProgressGoalsCmd   `cmd:"" help:"Progress per goal."`
	Day     ProgressDayCmd     `cmd:"" help:"Completion for one day."`
	Week    ProgressWeekCmd    `cmd:"" help:"Completion for the week containing a date."`
	Month   ProgressMonthCmd   `cmd:"" help:"Completion for a month."`
	Trend   ProgressTrendCmd   `cmd:"" help:"Daily status history of one habit."`
}

func printFacets(ctx *Context, title string, list []progress.Progress) {
	if len(list) == 0 {
		ctx.printf("No %s defined.\n", title)
		return
	}
	ctx.println(headerStyle.Render(title))
	for _, p := range list {
		ctx.printf("  %-20s %s %3d%%  %d/%d\n", p.Name, progressBar(p.Percentage, 20), p.Percentage, p.Completed, p.Total)
	}
}

type ProgressSpheresCmd struct{}

func (c *ProgressSpheresCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	printFacets(ctx, "life spheres", ctx.Progress.AllSpheres())
	return nil
}

type ProgressValuesCmd struct{}

func (c *ProgressValuesCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	printFacets(ctx, "values", ctx.Progress.AllValues())
	return nil
}

type ProgressGoalsCmd struct{}

func (c *ProgressGoalsCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	printFacets(ctx, "goals", ctx.Progress.AllGoals())
	return nil
}

func printDay(ctx *Context, d progress.DayStats) {
	ctx.printf("  %s  %s %3d%%  %d done, %d failed of %d\n", d.Date, progressBar(d.Percentage, 20), d.Percentage, d.Completed, d.Failed, d.TotalHabits)
}

type ProgressDayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *ProgressDayCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	printDay(ctx, ctx.Progress.Daily(day, nil))
	return nil
}

type ProgressWeekCmd struct {
	Date string `arg:"" optional:"" help:"Any date in the week (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *ProgressWeekCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	day, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	dates, err := utils.WeekDates(day)
	if err != nil {
		return err
	}

	w := ctx.Progress.Weekly(dates)
	ctx.println(headerStyle.Render(fmt.Sprintf("Week %s to %s", dates[0], dates[len(dates)-1])))
	for _, d := range w.Days {
		printDay(ctx, d)
	}
	ctx.printf("\n  %d/%d completed (%d%%)\n", w.TotalCompleted, w.TotalPossible, w.Percentage)
	printRanking(ctx, "Strongest", w.Strongest)
	printRanking(ctx, "Weakest", w.Weakest)
	return nil
}

func printRanking(ctx *Context, title string, list []models.Habit) {
	if len(list) == 0 {
		return
	}
	ctx.printf("  %s:\n", title)
	for _, h := range list {
		ctx.printf("    %-24s %6.2f\n", h.Name, h.Strength)
	}
}

type ProgressMonthCmd struct {
	Month string `arg:"" optional:"" help:"Month as YYYY-MM; defaults to the current month."`
}

func (c *ProgressMonthCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	var month time.Time
	if c.Month == "" {
		today, err := ctx.Today()
		if err != nil {
			return err
		}
		t, err := utils.ParseDate(today)
		if err != nil {
			return err
		}
		month = t
	} else {
		t, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
		month = t
	}

	m := ctx.Progress.Monthly(month.Year(), month.Month())
	ctx.println(headerStyle.Render(fmt.Sprintf("%s %d", m.Month, m.Year)))
	for i, w := range m.Weeks {
		ctx.printf("  %d. %s to %s  %s %3d%%\n", i+1, w.Dates[0], w.Dates[len(w.Dates)-1], progressBar(w.Percentage, 20), w.Percentage)
	}
	ctx.printf("\n  %d/%d completed (%d%%)\n", m.TotalCompleted, m.TotalPossible, m.Percentage)
	return nil
}

type ProgressTrendCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Days  int    `help:"Number of days." default:"${trend_days}"`
	Date  string `help:"Last day of the trend (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *ProgressTrendCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	end, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	days := c.Days
	if days <= 0 {
		days = constants.DefaultTrendDays
	}

	points, err := ctx.Progress.Trend(h.ID, days, end)
	if err != nil {
		return err
	}
	line := ""
	counts := map[models.EntryStatus]int{}
	for _, p := range points {
		line += statusMark(p.Status)
		counts[p.Status]++
	}
	ctx.printf("%s  %s\n", h.Name, line)
	ctx.printf("  %d completed, %d partial, %d failed, %d untracked over %d days\n",
		counts[models.EntryStatusCompleted], counts[models.EntryStatusPartial],
		counts[models.EntryStatusFailed], counts[models.EntryStatusNone], len(points))
	return nil
}
