package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/errors"
)

// newViperInstance creates a Viper instance with the WEBPROBE_ env prefix,
// key replacer, and defaults. report.s3.bucket maps to WEBPROBE_REPORT_S3_BUCKET.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// loadDotEnv loads a .env file from dir into the process environment.
// Variables that are already set win, and a missing file is not an error.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, constants.EnvFileName)
	if err := godotenv.Load(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "failed to read %s", path)
	}
	return nil
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (WEBPROBE_* prefix, .env in the working directory)
//  2. Project config (.webprobe/config.yaml)
//  3. Global config (~/.webprobe/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
// Missing config files are expected and never an error.
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotEnv("."); err != nil {
		return nil, err
	}

	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("target.base_url", cfg.Target.BaseURL).
		Dur("probe.page_timeout", cfg.Probe.PageTimeout).
		Dur("probe.interval", cfg.Probe.Interval).
		Dur("probe.duration", cfg.Probe.Duration).
		Str("report.format", cfg.Report.Format).
		Bool("report.s3.enabled", cfg.Report.S3.Enabled).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.webprobe/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file (.webprobe/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides,
// which have the highest precedence.
//
// Only non-zero values in overrides are applied. Zero values are ignored
// to allow partial overrides.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level. The .env file is not read.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly, and every
// key needs a default so AutomaticEnv can see it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("target.base_url", d.Target.BaseURL)

	v.SetDefault("probe.page_timeout", d.Probe.PageTimeout.String())
	v.SetDefault("probe.slow_threshold", d.Probe.SlowThreshold.String())
	v.SetDefault("probe.check_pacing", d.Probe.CheckPacing.String())
	v.SetDefault("probe.interval", d.Probe.Interval.String())
	v.SetDefault("probe.duration", d.Probe.Duration.String())

	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.window_width", d.Browser.WindowWidth)
	v.SetDefault("browser.window_height", d.Browser.WindowHeight)
	v.SetDefault("browser.candidates", []string{})

	v.SetDefault("report.dir", d.Report.Dir)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("report.recent_alerts", d.Report.RecentAlerts)
	v.SetDefault("report.recent_cycles", d.Report.RecentCycles)
	v.SetDefault("report.s3.enabled", false)
	v.SetDefault("report.s3.bucket", "")
	v.SetDefault("report.s3.region", "")
	v.SetDefault("report.s3.endpoint", "")
	v.SetDefault("report.s3.access_key_id", "")
	v.SetDefault("report.s3.secret_access_key", "")
	v.SetDefault("report.s3.use_path_style", false)
	v.SetDefault("report.s3.prefix", d.Report.S3.Prefix)

	v.SetDefault("metrics.listen_addr", "")
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Boolean fields cannot be overridden to false here because the
// zero value is indistinguishable from "not set". The CLI exposes no boolean
// overrides for that reason.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Target.BaseURL != "" {
		cfg.Target.BaseURL = overrides.Target.BaseURL
	}

	applyProbeOverrides(&cfg.Probe, &overrides.Probe)

	if overrides.Report.Dir != "" {
		cfg.Report.Dir = overrides.Report.Dir
	}
	if overrides.Report.Format != "" {
		cfg.Report.Format = overrides.Report.Format
	}

	if overrides.Metrics.ListenAddr != "" {
		cfg.Metrics.ListenAddr = overrides.Metrics.ListenAddr
	}
}

func applyProbeOverrides(cfg, overrides *ProbeConfig) {
	if overrides.PageTimeout != 0 {
		cfg.PageTimeout = overrides.PageTimeout
	}
	if overrides.SlowThreshold != 0 {
		cfg.SlowThreshold = overrides.SlowThreshold
	}
	if overrides.CheckPacing != 0 {
		cfg.CheckPacing = overrides.CheckPacing
	}
	if overrides.Interval != 0 {
		cfg.Interval = overrides.Interval
	}
	if overrides.Duration != 0 {
		cfg.Duration = overrides.Duration
	}
}

// viperDecoderOption handles durations written as strings and comma-separated
// lists coming from environment variables.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
