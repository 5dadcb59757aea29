package constants

// Directory and file names used by webprobe on disk.
const (
	// ProbeHome is the hidden directory where webprobe keeps global config and logs.
	// It is created in the user's home directory.
	ProbeHome = ".webprobe"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// ReportsDir is the default directory for report artifacts, relative to
	// the working directory.
	ReportsDir = "reports"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "webprobe.log"

	// ConfigFileName is the name of both the global and project config files.
	ConfigFileName = "config.yaml"

	// EnvFileName is the dotenv file loaded from the working directory.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment variable webprobe reads.
	EnvPrefix = "WEBPROBE"
)

// Log rotation settings for the CLI log file.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 5
	LogMaxAgeDays = 30
	LogCompress   = true
)
