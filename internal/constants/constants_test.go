package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeTimingDefaults(t *testing.T) {
	t.Run("slow threshold fits inside the page timeout", func(t *testing.T) {
		assert.Equal(t, 5*time.Second, DefaultSlowThreshold)
		assert.Equal(t, 10*time.Second, DefaultPageTimeout)
		assert.Less(t, DefaultSlowThreshold, DefaultPageTimeout)
	})

	t.Run("pacing is shorter than the cycle interval", func(t *testing.T) {
		assert.Equal(t, time.Second, DefaultCheckPacing)
		assert.Equal(t, time.Minute, DefaultInterval)
		assert.Less(t, DefaultCheckPacing, DefaultInterval)
	})

	t.Run("default continuous run is one hour", func(t *testing.T) {
		assert.Equal(t, time.Hour, DefaultDuration)
	})
}

func TestReportDefaults(t *testing.T) {
	assert.Equal(t, 10, DefaultRecentAlerts)
	assert.Equal(t, 5, DefaultRecentCycles)

	stamp := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC).Format(ReportTimestampLayout)
	assert.Equal(t, "20260304_050607", stamp)
}

func TestTargetPaths(t *testing.T) {
	paths := []string{PathHome, PathProducts, PathCart, PathCheckout, PathHealth}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		assert.Equal(t, byte('/'), p[0], "path %q must be absolute", p)
		assert.False(t, seen[p], "path %q is duplicated", p)
		seen[p] = true
	}
}
