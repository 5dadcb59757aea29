package browser

import (
	"fmt"
	"os"
	"strings"

	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// DefaultCandidates lists where Chrome and Chromium usually live.
// The first existing file wins.
func DefaultCandidates() []string {
	return []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}
}

// LookPathFunc resolves a browser binary the system way.
type LookPathFunc func() (string, bool)

// FindBinary returns the first candidate that is an existing regular file.
// When none matches it falls back to lookPath. It fails with
// ErrBrowserUnavailable when both come up empty.
func FindBinary(candidates []string, lookPath LookPathFunc) (string, error) {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	if lookPath != nil {
		if found, ok := lookPath(); ok && found != "" {
			return found, nil
		}
	}

	return "", fmt.Errorf("no chrome or chromium binary found: %w", probeerrors.ErrBrowserUnavailable)
}
