package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/entries"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/progress"
	"github.com/julianstephens/habitual/internal/settings"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/sweep"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConfigKeyring selects the PostgreSQL connection string stored in the OS keyring.
const ConfigKeyring = "keyring"

// Context is handed to every command. Store is opened lazily so commands
// that never touch data (keyring, help) work without an initialized store.
type Context struct {
	Config   string
	Timezone string
	Out      io.Writer

	Store    storage.Provider
	Tracker  *tracker.Tracker
	Settings *settings.Service
	Progress *progress.Aggregator
	Sweep    *sweep.Marker

	// SweepOnOpen back-fills missed days every time the store is opened.
	SweepOnOpen bool

	loaded bool
}

func NewContext(config, timezone string) *Context {
	return &Context{
		Config:      config,
		Timezone:    timezone,
		Out:         os.Stdout,
		SweepOnOpen: true,
	}
}

// OpenProvider picks a backend for config: a PostgreSQL URL, the keyring
// marker, a .db/.sqlite file, or a JSON file for anything else.
func OpenProvider(config string) (storage.Provider, error) {
	if config == ConfigKeyring {
		connStr, err := keyring.GetConnectionString()
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("no connection string in keyring, run '%s keyring set' first", constants.AppName)
		}
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	if storage.IsPostgresConfig(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings must not embed a password; use .pgpass, PGPASSWORD or '%s keyring set'", constants.AppName)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := utils.ExpandPath(config)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if storage.IsSQLiteConfig(path) {
		return sqlite.NewStore(path), nil
	}
	return storage.NewJSONStore(path), nil
}

// ConfigDir is where logs live: next to a file store, or the default
// config directory for database backends.
func ConfigDir(config string) string {
	if config != ConfigKeyring && !storage.IsPostgresConfig(config) {
		if path, err := utils.ExpandPath(config); err == nil {
			return filepath.Dir(path)
		}
	}
	path, _ := utils.ExpandPath(constants.DefaultConfigPath)
	return filepath.Dir(path)
}

// provider returns the store, creating it from Config on first use.
func (c *Context) provider() (storage.Provider, error) {
	if c.Store == nil {
		store, err := OpenProvider(c.Config)
		if err != nil {
			return nil, err
		}
		c.Store = store
	}
	return c.Store, nil
}

// Open loads the store and wires the services on top of it.
func (c *Context) Open() error {
	if c.loaded {
		return nil
	}
	store, err := c.provider()
	if err != nil {
		return err
	}
	if err := store.Load(); err != nil {
		return err
	}

	habitStore := habits.NewStore(store)
	if err := habitStore.Load(); err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	entryStore := entries.NewStore(store)
	if err := entryStore.Load(); err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	c.Tracker = tracker.New(habitStore, entryStore)
	c.Settings = settings.NewService(store)
	c.Progress = progress.New(habitStore, entryStore)
	c.Sweep = sweep.NewMarker(habitStore, entryStore, c.Tracker.Strength)
	c.loaded = true
	logger.Debug("Store loaded", "config", store.GetConfigPath(), "habits", len(habitStore.GetAll()))

	if c.SweepOnOpen {
		c.sweepMissedDays()
	}
	return nil
}

// sweepMissedDays runs the missed-day back-fill for the current day. Errors
// are logged and never fail the command that opened the store.
func (c *Context) sweepMissedDays() {
	today, err := c.Today()
	if err != nil {
		logger.Warn("Skipping missed-day sweep", "error", err)
		return
	}
	if _, err := c.Sweep.Run(today); err != nil {
		logger.Warn("Missed-day sweep failed", "today", today, "error", err)
	}
}

// Reload rereads the store so a long-running command sees writes made by
// other processes.
func (c *Context) Reload() error {
	c.loaded = false
	return c.Open()
}

func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// PerformAutomaticBackup snapshots file stores before destructive commands.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if c.Store == nil || !c.fileBacked() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) fileBacked() bool {
	path := c.Store.GetConfigPath()
	if path == postgres.ConfigPath {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() (string, error) {
	tz := c.Timezone
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	return utils.GetTodayInTimezone(tz)
}

// ResolveDate accepts YYYY-MM-DD, "today", "yesterday", or empty for today.
func (c *Context) ResolveDate(date string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "", "today":
		return c.Today()
	case "yesterday":
		today, err := c.Today()
		if err != nil {
			return "", err
		}
		return utils.AddDays(today, -1)
	}
	if _, err := utils.ParseDate(date); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today or yesterday)", date)
	}
	return date, nil
}

// FindHabit resolves ref as an exact ID, a case-insensitive name, or a
// unique ID prefix.
func (c *Context) FindHabit(ref string) (*models.Habit, error) {
	if h := c.Tracker.Habits.Get(ref); h != nil {
		return h, nil
	}

	all := c.Tracker.Habits.GetAll()
	for i := range all {
		if strings.EqualFold(all[i].Name, ref) {
			return &all[i], nil
		}
	}

	var match *models.Habit
	for i := range all {
		if ref != "" && strings.HasPrefix(all[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("habit reference %q is ambiguous", ref)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, apperrors.NotFound("habit", ref)
	}
	return match, nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}
