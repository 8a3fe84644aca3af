package geotime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTime(t *testing.T) {
	utc := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lat, lon  float64
		wantZone  string
		wantLocal string
	}{
		{"philippines", 10.0, 120.0, "UTC+8", "2026-03-14 10:30:00"},
		{"greenwich", 51.5, 0.0, "UTC+0", "2026-03-14 02:30:00"},
		{"chile", -33.4, -70.7, "UTC-5", "2026-03-13 21:30:00"},
		{"band rounds up", 35.0, 127.8, "UTC+9", "2026-03-14 11:30:00"},
	}

	var loc Localizer
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := loc.LocalTime(utc, tc.lat, tc.lon)
			require.NoError(t, err)
			zone, _ := got.Zone()
			assert.Equal(t, tc.wantZone, zone)
			assert.Equal(t, tc.wantLocal, got.Format("2006-01-02 15:04:05"))
			// Same instant, different wall clock.
			assert.True(t, got.Equal(utc))
		})
	}
}

func TestLocalTimeRejectsBadCoordinates(t *testing.T) {
	var loc Localizer
	now := time.Now()

	_, err := loc.LocalTime(now, 95.0, 120.0)
	assert.Error(t, err)

	_, err = loc.LocalTime(now, 10.0, -190.0)
	assert.Error(t, err)
}

func TestElapsedString(t *testing.T) {
	origin := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		after time.Duration
		want  string
	}{
		{"under a minute", 30 * time.Second, "less than a minute"},
		{"single minute", time.Minute, "1 minute"},
		{"minutes only", 45 * time.Minute, "45 minutes"},
		{"hours and minutes", 3*time.Hour + 15*time.Minute, "3 hours, 15 minutes"},
		{"exact hour", 2 * time.Hour, "2 hours"},
		{"days drop minutes", 26*time.Hour + 40*time.Minute, "1 day, 2 hours"},
		{"exact day", 48 * time.Hour, "2 days"},
	}

	var ef ElapsedFormatter
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ef.ElapsedString(origin, origin.Add(tc.after))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestElapsedStringRejectsNegativeInterval(t *testing.T) {
	var ef ElapsedFormatter
	origin := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)

	_, err := ef.ElapsedString(origin, origin.Add(-time.Hour))
	assert.Error(t, err)
}
