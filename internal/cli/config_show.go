package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/webprobe/internal/config"
	"github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/logging"
	"github.com/mrz1836/webprobe/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect webprobe configuration",
	}
	cmd.AddCommand(newConfigShowCmd(global))
	root.AddCommand(cmd)
}

func newConfigShowCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective webprobe configuration after merging, in order of
precedence:
  - WEBPROBE_* environment variables (a .env file in the working directory is read first)
  - project config: .webprobe/config.yaml
  - global config: ~/.webprobe/config.yaml
  - built-in defaults

S3 credentials and URL passwords are masked.

Examples:
  webprobe config show
  webprobe config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), global)
		},
	}
}

func runConfigShow(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	out := tui.NewOutput(w, global.Output)

	cfg, err := config.Load(ctx)
	if err != nil {
		out.Error(err)
		return errors.NewExitCode2Error(err)
	}

	masked := maskConfig(cfg)
	if global.Output == OutputJSON {
		return out.JSON(masked)
	}

	data, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// maskConfig returns a copy of cfg with credentials redacted.
func maskConfig(cfg *config.Config) *config.Config {
	c := *cfg
	c.Browser.Candidates = append([]string(nil), cfg.Browser.Candidates...)
	c.Target.BaseURL = logging.SafeValue("base_url", cfg.Target.BaseURL)
	c.Report.S3.Endpoint = logging.SafeValue("endpoint", cfg.Report.S3.Endpoint)
	c.Report.S3.AccessKeyID = logging.SafeValue("access_key_id", cfg.Report.S3.AccessKeyID)
	c.Report.S3.SecretAccessKey = logging.SafeValue("secret_access_key", cfg.Report.S3.SecretAccessKey)
	return &c
}
