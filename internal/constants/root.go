package constants

import "time"

const (
	AppName            = "habitnudge"
	AppTitle           = "Habitnudge"
	DefaultKeyringUser = "database-connection"
	DBConnectionEnvVar = "HABITNUDGE_DB_CONNECTION"
	DefaultUserName    = "Friend"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Notify constants
	NotifierLockfileName   = "habitnudge-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitnudge"
	TrayExecutablePrefix   = "habitnudge-tray"

	// Runner constants
	DefaultEvalInterval = time.Minute
	LogLookbackDays     = 366
)
