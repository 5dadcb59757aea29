// Package constants provides centralized constant values used throughout webprobe.
// This package is the single source of truth for shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Probe timing defaults.
const (
	// DefaultPageTimeout bounds how long a check waits for the page root element.
	DefaultPageTimeout = 10 * time.Second

	// DefaultSlowThreshold is the load time above which an otherwise successful
	// check raises a WARNING alert.
	DefaultSlowThreshold = 5 * time.Second

	// DefaultCheckPacing is the pause inserted between consecutive checks of a cycle.
	DefaultCheckPacing = 1 * time.Second

	// DefaultInterval is the pause between consecutive cycles of a continuous run.
	DefaultInterval = 60 * time.Second

	// DefaultDuration is how long a continuous run lasts when no duration is given.
	DefaultDuration = 60 * time.Minute
)

// Target defaults.
const (
	// DefaultBaseURL is where the demo shop listens when run locally.
	DefaultBaseURL = "http://127.0.0.1:5000"
)

// Browser defaults.
const (
	// DefaultWindowWidth is the fixed browser viewport width.
	DefaultWindowWidth = 1920

	// DefaultWindowHeight is the fixed browser viewport height.
	DefaultWindowHeight = 1080
)

// Report defaults.
const (
	// DefaultRecentAlerts is how many of the latest alerts a report includes.
	DefaultRecentAlerts = 10

	// DefaultRecentCycles is how many of the latest cycle results a report includes.
	DefaultRecentCycles = 5

	// ReportFilePrefix starts every report artifact filename.
	ReportFilePrefix = "webprobe_report_"

	// ReportTimestampLayout stamps report filenames; a millisecond suffix is
	// appended separately.
	ReportTimestampLayout = "20060102_150405"

	// ReportFormatJSON writes reports as indented JSON.
	ReportFormatJSON = "json"

	// ReportFormatYAML writes reports as YAML.
	ReportFormatYAML = "yaml"
)

// Page selectors and markers the checks rely on.
const (
	// SelectorBody is the root element every page must render.
	SelectorBody = "body"

	// SelectorProduct marks one product entry on the catalog page.
	SelectorProduct = ".producto"

	// HealthyMarker is the token the health endpoint renders when nominal.
	HealthyMarker = "healthy"
)

// Target paths, one per check.
const (
	PathHome     = "/"
	PathProducts = "/productos"
	PathCart     = "/carrito"
	PathCheckout = "/checkout"
	PathHealth   = "/health"
)

// Alert metric names. They match the keys operators already chart, so they
// keep their original spelling.
const (
	MetricLoadTime         = "tiempo_carga"
	MetricAvailability     = "disponibilidad"
	MetricProducts         = "productos"
	MetricSearch           = "funcionalidad"
	MetricCartLoadTime     = "tiempo_carga_carrito"
	MetricCartFunction     = "funcionalidad_carrito"
	MetricCheckoutLoadTime = "tiempo_carga_checkout"
	MetricCheckoutFunction = "funcionalidad_checkout"
	MetricHealth           = "health"
)

// Detail keys recorded on check outcomes.
const (
	DetailURL          = "url"
	DetailItemsFound   = "items_found"
	DetailResponseBody = "response_body"
	DetailMessage      = "message"
)
