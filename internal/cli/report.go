package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/webprobe/internal/report"
	"github.com/mrz1836/webprobe/internal/tui"
)

// AddReportCommand adds the report command group to the root command.
func AddReportCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Work with stored reports",
	}
	cmd.AddCommand(newReportShowCmd(global))
	root.AddCommand(cmd)
}

func newReportShowCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Pretty-print a stored report",
		Long: `Print a report written by 'webprobe run'. JSON and YAML reports are
both accepted; the format follows the file extension.

Examples:
  webprobe report show reports/webprobe_report_20261017_140309_045.json
  webprobe report show report.yaml --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportShow(cmd.OutOrStdout(), global, args[0])
		},
	}
}

func runReportShow(w io.Writer, global *GlobalFlags, path string) error {
	out := tui.NewOutput(w, global.Output)

	r, err := report.Load(path)
	if err != nil {
		out.Error(err)
		return err
	}

	if global.Output == OutputJSON {
		return out.JSON(r)
	}
	_, err = fmt.Fprintln(w, tui.RenderReport(r))
	return err
}
