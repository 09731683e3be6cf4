package cli

import (
	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	ctx.println("Validating habits and entries...")
	result := validation.New().ValidateData(ctx.Tracker.Habits.GetAll(), ctx.Tracker.Entries.GetAll())
	ctx.println()
	ctx.println(result.FormatReport())
	return nil
}
