package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitlit"
	DefaultConfigPath  = "~/.config/habitlit/habitlit.db"
	DefaultKeyringUser = "session"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used for reminders (HH:MM)
	TimeFormat = "15:04"

	// Session constants
	SessionFileName    = "session.json"
	SessionBackendFile = "file"
	SessionBackendKey  = "keyring"
	SessionBackendMem  = "memory"

	// Storage selectors
	MemoryStorePath = ":memory:"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlit-"
	BackupFileSuffix = ".db"

	// Server constants
	DefaultListenAddr     = "127.0.0.1:8080"
	ServerLockfileName    = "habitlit-serve.lock"
	RequestTimeout        = 30 * time.Second
	ReadHeaderTimeout     = 5 * time.Second
	ShutdownTimeout       = 10 * time.Second
	DefaultHistoryDays    = 14
	HistoryNameColumnSize = 20
)

// Session States
const (
	StateLoading SessionState = iota
	StateAuth
	StateDashboard
	StateAddHabit
	StateHistory
)
