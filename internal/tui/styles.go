// Package tui renders webprobe's operator-facing output.
//
// All colors use lipgloss AdaptiveColor for light/dark terminal support.
// Status displays keep icon, color and text together so they stay readable
// with NO_COLOR set.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/mrz1836/webprobe/internal/domain"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for headers and informational lines.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for OK checks.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for WARNING checks and alerts.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for ERROR and DOWN checks.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorCritical is magenta, reserved for CRITICAL alerts.
	ColorCritical = lipgloss.AdaptiveColor{Light: "#AF005F", Dark: "#FF5FAF"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Header:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StatusColor returns the color for a check status.
func StatusColor(s domain.Status) lipgloss.AdaptiveColor {
	switch s {
	case domain.StatusOK:
		return ColorSuccess
	case domain.StatusWarning:
		return ColorWarning
	case domain.StatusError, domain.StatusDown:
		return ColorError
	default:
		return ColorMuted
	}
}

// StatusIcon returns the icon for a check status.
func StatusIcon(s domain.Status) string {
	switch s {
	case domain.StatusOK:
		return "✓"
	case domain.StatusWarning:
		return "⚠"
	case domain.StatusError:
		return "✗"
	case domain.StatusDown:
		return "⨯"
	default:
		return "?"
	}
}

// LevelColor returns the color for an alert level.
func LevelColor(l domain.Level) lipgloss.AdaptiveColor {
	switch l {
	case domain.LevelCritical:
		return ColorCritical
	case domain.LevelError:
		return ColorError
	case domain.LevelWarning:
		return ColorWarning
	default:
		return ColorPrimary
	}
}

// HealthColor returns the color for an overall cycle classification.
func HealthColor(h domain.CycleHealth) lipgloss.AdaptiveColor {
	switch h {
	case domain.CycleCritical:
		return ColorError
	case domain.CycleWarning:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// DefaultBoxWidth is the default width for bordered boxes.
const DefaultBoxWidth = 60

// BoxBorder defines the characters used for box borders.
type BoxBorder struct {
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
	Top         string
	Bottom      string
	Left        string
	Right       string
	MiddleLeft  string
	MiddleRight string
}

// DefaultBorder uses square corners.
//
//nolint:gochecknoglobals // Read-only border definition
var DefaultBorder = BoxBorder{
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	MiddleLeft:  "├",
	MiddleRight: "┤",
}

// BoxStyle holds configuration for rendering bordered boxes.
type BoxStyle struct {
	Width  int
	Border *BoxBorder
}

// NewBoxStyle creates a BoxStyle with the default border and width.
func NewBoxStyle() *BoxStyle {
	border := DefaultBorder
	return &BoxStyle{Width: DefaultBoxWidth, Border: &border}
}

// Render renders a box with a title line, a divider and the content lines.
func (b *BoxStyle) Render(title, content string) string {
	innerWidth := b.Width - 2

	lines := make([]string, 0, 8)
	lines = append(lines,
		b.Border.TopLeft+strings.Repeat(b.Border.Top, innerWidth)+b.Border.TopRight,
		b.Border.Left+" "+padRight(title, innerWidth-1)+b.Border.Right,
		b.Border.MiddleLeft+strings.Repeat(b.Border.Top, innerWidth)+b.Border.MiddleRight,
	)
	for _, line := range strings.Split(content, "\n") {
		lines = append(lines, b.Border.Left+" "+padRight(line, innerWidth-1)+b.Border.Right)
	}
	lines = append(lines, b.Border.BottomLeft+strings.Repeat(b.Border.Bottom, innerWidth)+b.Border.BottomRight)

	return strings.Join(lines, "\n")
}

// stripANSI removes CSI escape sequences so widths count visible runes only.
func stripANSI(s string) string {
	var result strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			i += 2
			for i < len(runes) && (runes[i] < 'A' || runes[i] > 'z' || (runes[i] > 'Z' && runes[i] < 'a')) {
				i++
			}
			continue
		}
		result.WriteRune(runes[i])
	}
	return result.String()
}

// padRight pads s with spaces to width visible runes. Longer strings are
// returned unchanged so styled text is never cut mid-escape.
func padRight(s string, width int) string {
	visible := runewidth.StringWidth(stripANSI(s))
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
