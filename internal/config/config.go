// Package config provides configuration management for webprobe with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (WEBPROBE_* prefix, plus a .env file in the working directory)
//  3. Project config (.webprobe/config.yaml)
//  4. Global config (~/.webprobe/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"strings"
	"time"
)

// Config is the root configuration structure for webprobe.
type Config struct {
	// Target is the web shop being monitored.
	Target TargetConfig `yaml:"target" json:"target" mapstructure:"target"`

	// Probe holds check and scheduling timings.
	Probe ProbeConfig `yaml:"probe" json:"probe" mapstructure:"probe"`

	// Browser controls how the headless browser is found and launched.
	Browser BrowserConfig `yaml:"browser" json:"browser" mapstructure:"browser"`

	// Report controls where and how run reports are written.
	Report ReportConfig `yaml:"report" json:"report" mapstructure:"report"`

	// Metrics controls the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// TargetConfig identifies the monitored application.
type TargetConfig struct {
	// BaseURL is prefixed to every check path.
	// Default: http://127.0.0.1:5000
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
}

// URL joins the base URL and a check path.
func (t TargetConfig) URL(path string) string {
	return strings.TrimRight(t.BaseURL, "/") + path
}

// ProbeConfig holds the timings that drive checks and cycles.
type ProbeConfig struct {
	// PageTimeout bounds how long a check waits for the page body.
	// Default: 10s
	PageTimeout time.Duration `yaml:"page_timeout" json:"page_timeout" mapstructure:"page_timeout"`

	// SlowThreshold is the load time above which a slow-page alert is raised.
	// Default: 5s
	SlowThreshold time.Duration `yaml:"slow_threshold" json:"slow_threshold" mapstructure:"slow_threshold"`

	// CheckPacing is the pause between consecutive checks within a cycle.
	// Default: 1s
	CheckPacing time.Duration `yaml:"check_pacing" json:"check_pacing" mapstructure:"check_pacing"`

	// Interval is the wait between cycles in continuous mode.
	// Default: 60s
	Interval time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"`

	// Duration is how long continuous mode runs.
	// Default: 60m
	Duration time.Duration `yaml:"duration" json:"duration" mapstructure:"duration"`
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	// Headless runs without a window. Turning it off only helps local debugging.
	// Default: true
	Headless bool `yaml:"headless" json:"headless" mapstructure:"headless"`

	// WindowWidth and WindowHeight fix the viewport.
	// Default: 1920x1080
	WindowWidth  int `yaml:"window_width" json:"window_width" mapstructure:"window_width"`
	WindowHeight int `yaml:"window_height" json:"window_height" mapstructure:"window_height"`

	// Candidates are browser binaries tried in order before the system default.
	// Empty means the built-in list of common Chrome/Chromium locations.
	Candidates []string `yaml:"candidates" json:"candidates" mapstructure:"candidates"`
}

// ReportConfig controls report generation.
type ReportConfig struct {
	// Dir is the directory report files are written to.
	// Default: reports
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`

	// Format is json or yaml.
	// Default: json
	Format string `yaml:"format" json:"format" mapstructure:"format"`

	// RecentAlerts caps the alerts copied into a report.
	// Default: 10
	RecentAlerts int `yaml:"recent_alerts" json:"recent_alerts" mapstructure:"recent_alerts"`

	// RecentCycles caps the cycle results copied into a report.
	// Default: 5
	RecentCycles int `yaml:"recent_cycles" json:"recent_cycles" mapstructure:"recent_cycles"`

	// S3 optionally uploads every report to a bucket as well.
	S3 S3Config `yaml:"s3" json:"s3" mapstructure:"s3"`
}

// S3Config configures the S3 report sink. Empty credentials fall back to the
// default AWS credential chain.
type S3Config struct {
	Enabled         bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Bucket          string `yaml:"bucket" json:"bucket" mapstructure:"bucket"`
	Region          string `yaml:"region" json:"region" mapstructure:"region"`
	Endpoint        string `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" mapstructure:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style" json:"use_path_style" mapstructure:"use_path_style"`
	Prefix          string `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddr serves /metrics when set, e.g. ":9464". Empty disables it.
	ListenAddr string `yaml:"listen_addr" json:"listen_addr" mapstructure:"listen_addr"`
}
