package constants

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.json"
	Version            = "v0.3.0"

	// Blob keys in the key-value store
	KeyHabits   = "habits"
	KeyEntries  = "entries"
	KeySettings = "settings"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"

	// Lockfile held by `sweep --watch`
	WatchLockfileName = "habitual-watch.lock"

	// MissedDayWindow is the number of days before today the sweep back-fills.
	MissedDayWindow = 7

	// SweepSchedule is the cron spec for the periodic missed-day sweep.
	SweepSchedule = "@hourly"

	// MaxStrength bounds the user-facing strength setter.
	MaxStrength = 100

	// Strength filter buckets: weak <= StrengthWeakMax < medium <= StrengthMediumMax < strong
	StrengthWeakMax   = 5
	StrengthMediumMax = 15

	// TopHabitsCount is how many strongest/weakest habits weekly stats report.
	TopHabitsCount = 3

	// DefaultTrendDays is the default window for a habit trend.
	DefaultTrendDays = 30
)
