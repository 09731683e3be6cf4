package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change settings, e.g. theme=dark accent_color=#336699."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	printSettings(ctx, ctx.Settings.Get())
	return nil
}

func printSettings(ctx *Context, s models.Settings) {
	values := models.SettingsToMap(s)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	ctx.println("Current Settings:")
	for _, k := range keys {
		ctx.printf("  %-14s %s\n", k+":", values[k])
	}
}

type SettingsSetCmd struct {
	Pairs []string `arg:"" help:"key=value pairs."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	values := make(map[string]string, len(c.Pairs))
	for _, pair := range c.Pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid setting %q (expected key=value)", pair)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	updated, err := ctx.Settings.Set(values)
	if err != nil {
		return err
	}
	ctx.println("Settings updated successfully.")
	printSettings(ctx, updated)
	return nil
}
