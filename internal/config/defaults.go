package config

import (
	"github.com/mrz1836/webprobe/internal/constants"
)

// DefaultConfig returns a new Config with the built-in defaults.
// These match what setDefaults registers with viper.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			BaseURL: constants.DefaultBaseURL,
		},
		Probe: ProbeConfig{
			PageTimeout:   constants.DefaultPageTimeout,
			SlowThreshold: constants.DefaultSlowThreshold,
			CheckPacing:   constants.DefaultCheckPacing,
			Interval:      constants.DefaultInterval,
			Duration:      constants.DefaultDuration,
		},
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  constants.DefaultWindowWidth,
			WindowHeight: constants.DefaultWindowHeight,
		},
		Report: ReportConfig{
			Dir:          constants.ReportsDir,
			Format:       constants.ReportFormatJSON,
			RecentAlerts: constants.DefaultRecentAlerts,
			RecentCycles: constants.DefaultRecentCycles,
			S3: S3Config{
				Prefix: "webprobe/",
			},
		},
	}
}
