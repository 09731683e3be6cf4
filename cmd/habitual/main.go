package main

import (
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store location: a .json or .db file, a postgres:// URL, or 'keyring'." env:"HABITUAL_CONFIG" default:"${default_config}"`
	Timezone string `help:"Timezone used to resolve today." env:"HABITUAL_TIMEZONE" default:"${default_timezone}"`
	Debug    bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Entry    cli.EntryCmd    `cmd:"" help:"Record daily entries."`
	Sweep    cli.SweepCmd    `cmd:"" help:"Mark missed days as failed."`
	Progress cli.ProgressCmd `cmd:"" help:"Show progress and statistics."`
	Settings cli.SettingsCmd `cmd:"" help:"Show or change settings."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage store backups."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Validate cli.ValidateCmd `cmd:"" help:"Check habits and entries for inconsistencies."`
	Tools    cli.DebugCmd    `cmd:"" name:"debug" help:"Debugging helpers." hidden:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with strength scoring and progress statistics"),
		kong.UsageOnError(),
		kong.Vars{
			"version":          constants.Version,
			"default_config":   constants.DefaultConfigPath,
			"default_timezone": constants.DefaultTimezone,
			"sweep_schedule":   constants.SweepSchedule,
			"trend_days":       strconv.Itoa(constants.DefaultTrendDays),
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: cli.ConfigDir(CLI.Config),
	}); err != nil {
		logger.InitWriter(os.Stderr, log.WarnLevel)
		logger.Warn("Failed to initialize file logging", "error", err)
	}

	appCtx := cli.NewContext(CLI.Config, CLI.Timezone)
	err := ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}
