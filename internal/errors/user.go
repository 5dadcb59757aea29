package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the operator-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinels to operator-facing text.
// A slice rather than a map so wrapped errors resolve through errors.Is().
// More specific sentinels come before the ones they are wrapped with.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrBrowserUnavailable,
		info: ErrorInfo{
			Message: "Could not start a headless browser. The cycle was skipped.",
			Action:  "Install Chrome or Chromium, or list its path under browser.candidates.",
		},
	},
	{
		err: ErrNavigationTimeout,
		info: ErrorInfo{
			Message: "The page did not finish rendering before the timeout.",
			Action:  "Check the target application load, or raise probe.page_timeout.",
		},
	},
	{
		err: ErrTargetUnreachable,
		info: ErrorInfo{
			Message: "The target application could not be reached.",
			Action:  "Verify target.base_url and that the application is running.",
		},
	},
	{
		err: ErrElementNotFound,
		info: ErrorInfo{
			Message: "An expected page element was missing.",
			Action:  "Check whether the page markup changed.",
		},
	},
	{
		err: ErrConfigInvalidTarget,
		info: ErrorInfo{
			Message: "The target configuration is invalid.",
			Action:  "Set target.base_url to an absolute http(s) URL.",
		},
	},
	{
		err: ErrConfigInvalidProbe,
		info: ErrorInfo{
			Message: "The probe timing configuration is invalid.",
			Action:  "Run 'webprobe config show' and fix the probe section.",
		},
	},
	{
		err: ErrConfigInvalidBrowser,
		info: ErrorInfo{
			Message: "The browser configuration is invalid.",
			Action:  "Run 'webprobe config show' and fix the browser section.",
		},
	},
	{
		err: ErrConfigInvalidReport,
		info: ErrorInfo{
			Message: "The report configuration is invalid.",
			Action:  "Run 'webprobe config show' and fix the report section.",
		},
	},
	{
		err: ErrReportDirLocked,
		info: ErrorInfo{
			Message: "Another webprobe process kept the report directory locked.",
			Action:  "Wait for it to finish, or point report.dir somewhere else.",
		},
	},
	{
		err: ErrReportWrite,
		info: ErrorInfo{
			Message: "The report could not be written.",
			Action:  "Check that report.dir exists and is writable.",
		},
	},
	{
		err: ErrReportUpload,
		info: ErrorInfo{
			Message: "The report could not be uploaded to object storage.",
			Action:  "Check the report.s3 bucket, endpoint and credentials.",
		},
	},
	{
		err: ErrReportNotFound,
		info: ErrorInfo{
			Message: "The report file does not exist.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrConflictingFlags,
		info: ErrorInfo{
			Message: "Conflicting flags were specified.",
			Action:  "Use either --once or --duration, not both.",
		},
	},
}

func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns an operator-friendly message for err.
// Unrecognized errors return their own message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns the operator-friendly message for err along with a
// suggested action. The action is empty when there is nothing to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
