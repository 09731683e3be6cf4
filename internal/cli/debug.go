package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitual/internal/errors"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show the store location."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit as JSON."`
	DumpEntry DebugDumpEntryCmd `cmd:"" help:"Dump an entry as JSON."`
}

func printJSON(ctx *Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	store, err := ctx.provider()
	if err != nil {
		return err
	}
	return printJSON(ctx, map[string]string{"path": store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpEntryCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *Context) error {
	h, day, err := entryTarget(ctx, cmd.Habit, cmd.Date)
	if err != nil {
		return err
	}
	e := ctx.Tracker.Entries.Get(h.ID, day)
	if e == nil {
		return errors.NotFound("entry", h.Name+" on "+day)
	}
	return printJSON(ctx, e)
}
