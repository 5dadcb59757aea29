// Package report builds the run report and writes it to every configured sink.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// Report is a read-only snapshot of one run.
type Report struct {
	GeneratedAt   time.Time             `json:"generated_at" yaml:"generated_at"`
	RunID         string                `json:"run_id" yaml:"run_id"`
	Target        string                `json:"target,omitempty" yaml:"target,omitempty"`
	Summary       Summary               `json:"summary" yaml:"summary"`
	Performance   Performance           `json:"performance" yaml:"performance"`
	RecentAlerts  []domain.Alert        `json:"recent_alerts" yaml:"recent_alerts"`
	RecentResults []*domain.CycleResult `json:"recent_results" yaml:"recent_results"`
}

// Summary holds the run totals.
type Summary struct {
	TotalCycles    int `json:"total_cycles" yaml:"total_cycles"`
	PagesMonitored int `json:"pages_monitored" yaml:"pages_monitored"`
	ErrorsDetected int `json:"errors_detected" yaml:"errors_detected"`
	TotalAlerts    int `json:"total_alerts" yaml:"total_alerts"`
}

// Performance holds load-time statistics formatted as seconds, e.g. "1.25s".
type Performance struct {
	MeanLoadTime string `json:"mean_load_time" yaml:"mean_load_time"`
	MinLoadTime  string `json:"min_load_time" yaml:"min_load_time"`
	MaxLoadTime  string `json:"max_load_time" yaml:"max_load_time"`
}

// FormatSeconds renders a load time the way reports show it.
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.2fs", s)
}

// Filename returns the artifact name for a report generated at t.
// Format: webprobe_report_YYYYMMDD_HHMMSS_mmm.<format>
func Filename(t time.Time, format string) string {
	stamp := fmt.Sprintf("%s_%03d", t.Format(constants.ReportTimestampLayout), t.Nanosecond()/int(time.Millisecond))
	return constants.ReportFilePrefix + stamp + "." + format
}

// ContentType returns the MIME type of a report format.
func ContentType(format string) string {
	if format == constants.ReportFormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode serializes r as indented JSON or YAML.
func Encode(r *Report, format string) ([]byte, error) {
	switch format {
	case constants.ReportFormatJSON, "":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return append(data, '\n'), nil
	case constants.ReportFormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", probeerrors.ErrConfigInvalidReport, format)
	}
}

// Load reads a stored report. The format follows the file extension.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is provided by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", probeerrors.ErrReportNotFound, path)
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}
