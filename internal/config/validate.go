package config

import (
	"net/url"
	"time"

	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - target.base_url must be an absolute http or https URL
//   - probe timings must be positive; check pacing may be zero
//   - browser window dimensions must be positive
//   - report.format must be json or yaml, report.dir must be set
//   - report.s3.bucket is required when report.s3.enabled is true
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateTargetConfig(&cfg.Target); err != nil {
		return err
	}
	if err := validateProbeConfig(&cfg.Probe); err != nil {
		return err
	}
	if err := validateBrowserConfig(&cfg.Browser); err != nil {
		return err
	}
	return validateReportConfig(&cfg.Report)
}

func validateTargetConfig(cfg *TargetConfig) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidTarget,
			"target.base_url %q does not parse", cfg.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Wrapf(errors.ErrConfigInvalidTarget,
			"target.base_url must use http or https, got %q", cfg.BaseURL)
	}
	if u.Host == "" {
		return errors.Wrapf(errors.ErrConfigInvalidTarget,
			"target.base_url must include a host, got %q", cfg.BaseURL)
	}
	return nil
}

func validateProbeConfig(cfg *ProbeConfig) error {
	positive := []struct {
		key   string
		value time.Duration
	}{
		{"probe.page_timeout", cfg.PageTimeout},
		{"probe.slow_threshold", cfg.SlowThreshold},
		{"probe.interval", cfg.Interval},
		{"probe.duration", cfg.Duration},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.Wrapf(errors.ErrConfigInvalidProbe,
				"%s must be positive, got %s", p.key, p.value)
		}
	}

	if cfg.CheckPacing < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidProbe,
			"probe.check_pacing cannot be negative, got %s", cfg.CheckPacing)
	}
	return nil
}

func validateBrowserConfig(cfg *BrowserConfig) error {
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidBrowser,
			"browser window must be positive, got %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	return nil
}

func validateReportConfig(cfg *ReportConfig) error {
	if cfg.Dir == "" {
		return errors.Wrap(errors.ErrConfigInvalidReport, "report.dir must not be empty")
	}

	switch cfg.Format {
	case constants.ReportFormatJSON, constants.ReportFormatYAML:
	default:
		return errors.Wrapf(errors.ErrConfigInvalidReport,
			"report.format must be %q or %q, got %q",
			constants.ReportFormatJSON, constants.ReportFormatYAML, cfg.Format)
	}

	if cfg.RecentAlerts < 0 || cfg.RecentCycles < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidReport,
			"report.recent_alerts and report.recent_cycles cannot be negative, got %d and %d",
			cfg.RecentAlerts, cfg.RecentCycles)
	}

	if cfg.S3.Enabled && cfg.S3.Bucket == "" {
		return errors.Wrap(errors.ErrConfigInvalidReport,
			"report.s3.bucket is required when report.s3.enabled is true")
	}
	return nil
}
