// Package geotime supplies the time collaborators used by the report core:
// epicentral local time and human-readable elapsed-time strings.
package geotime

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Localizer implements report.Localizer by approximating the epicentral
// time zone from longitude. Each 15° band of longitude maps to one hour of
// UTC offset, which is accurate enough for a report headline; a full
// boundary-aware lookup needs an offline time-zone shapefile the aggregator
// does not carry.
type Localizer struct{}

// LocalTime converts t to the approximate local time at (lat, lon).
func (Localizer) LocalTime(t time.Time, lat, lon float64) (time.Time, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return time.Time{}, fmt.Errorf("geotime: coordinate out of range (%.4f, %.4f)", lat, lon)
	}
	offsetHours := int(math.Round(lon / 15))
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
	return t.In(zone), nil
}

// ElapsedFormatter implements report.ElapsedFormatter.
type ElapsedFormatter struct{}

// ElapsedString renders the interval between origin and now using the two
// largest non-zero units of days, hours, and minutes.
func (ElapsedFormatter) ElapsedString(origin, now time.Time) (string, error) {
	if now.Before(origin) {
		return "", fmt.Errorf("geotime: processing time %s precedes origin time %s",
			now.Format(time.RFC3339), origin.Format(time.RFC3339))
	}

	d := now.Sub(origin)
	if d < time.Minute {
		return "less than a minute", nil
	}

	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	// Minutes only matter while the report is fresh.
	if days == 0 && minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	return strings.Join(parts, ", "), nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
