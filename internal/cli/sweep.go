package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/lockfile"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/scheduler"
	"github.com/julianstephens/habitual/internal/sweep"
)

const sweepJob = "missed-day-sweep"

type SweepCmd struct {
	Today    string `help:"Treat this date as today (YYYY-MM-DD)."`
	Watch    bool   `help:"Keep running and sweep on a schedule."`
	Schedule string `help:"Cron schedule used with --watch." default:"${sweep_schedule}"`
}

func (c *SweepCmd) Run(ctx *Context) error {
	// The command reports its own sweep.
	ctx.SweepOnOpen = false
	if err := ctx.Open(); err != nil {
		return err
	}
	if !c.Watch {
		result, err := c.sweepOnce(ctx)
		if err != nil {
			return err
		}
		c.report(ctx, result)
		return nil
	}

	lock, err := lockfile.Acquire(ConfigDir(ctx.Config), constants.WatchLockfileName)
	if err != nil {
		return err
	}
	defer lock.Release()

	sched := scheduler.New()
	job := func() {
		if err := ctx.Reload(); err != nil {
			logger.Error("Failed to reload store before sweep", "error", err)
			return
		}
		if _, err := c.sweepOnce(ctx); err != nil {
			logger.Error("Missed-day sweep failed", "error", err)
		}
	}
	if err := sched.AddJob(sweepJob, c.Schedule, job); err != nil {
		return err
	}
	sched.Trigger(sweepJob)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("Watching for missed days (%s). Press Ctrl+C to stop.\n", c.Schedule)
	if err := sched.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	ctx.println("Stopped.")
	return nil
}

func (c *SweepCmd) sweepOnce(ctx *Context) (sweep.Result, error) {
	today := c.Today
	if today == "" {
		var err error
		if today, err = ctx.Today(); err != nil {
			return sweep.Result{}, err
		}
	}
	return ctx.Sweep.Run(today)
}

func (c *SweepCmd) report(ctx *Context, r sweep.Result) {
	ctx.printf("Checked %d active habits for the %d days before %s.\n", r.Habits, constants.MissedDayWindow, r.Today)
	if r.Created == 0 {
		ctx.println("No missed days.")
	} else {
		ctx.printf("Marked %d missed days as failed across %d habits.\n", r.Created, len(r.Touched))
	}
	for id, msg := range r.Errors {
		ctx.println(warnStyle.Render("  " + apperrors.Formatf("%s: %s", shortID(id), msg)))
	}
}
