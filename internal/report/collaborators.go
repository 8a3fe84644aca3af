package report

import "time"

// EventMetadata is the origin information exposed by the shaking grid.
type EventMetadata struct {
	ID        string
	Time      time.Time
	Lat       float64
	Lon       float64
	Depth     float64
	Magnitude float64
	Location  string
}

// ShakeMetadata identifies the shake product the grid came from.
type ShakeMetadata struct {
	Version     int
	CodeVersion string
	ProcessTime time.Time
}

// IntensityLayer is a queryable shaking-intensity surface. ValueAt reports
// the MMI value at a coordinate, or false when the point is outside the
// gridded area.
type IntensityLayer interface {
	ValueAt(lat, lon float64) (float64, bool)
}

// GridSummary exposes the shaking grid's metadata and intensity layer.
type GridSummary interface {
	Event() EventMetadata
	Shake() ShakeMetadata
	IntensityLayer() IntensityLayer
}

// LossModel is the capability surface shared by the empirical fatality and
// economic models. The two concrete models differ entirely in computation;
// only this surface is common.
type LossModel interface {
	// AlertLevel derives the model's alert severity from its result set.
	AlertLevel(results ModelResult) AlertLevel

	// CombinedSeverity returns the model's combined severity score (the
	// g-value) for a result set.
	CombinedSeverity(results ModelResult) float64

	// Probabilities distributes probability mass over the seven fixed loss
	// ranges, keyed by range label ("0-1" through "100000-10000000").
	Probabilities(results ModelResult, gvalue float64) map[string]float64

	// LossRates returns the per-intensity loss rate for a country at each
	// of the given MMI levels.
	LossRates(countryCode string, mmi []int) []float64
}

// HistoricalCatalog retrieves candidate historical earthquakes near an
// epicenter.
type HistoricalCatalog interface {
	SelectByRadius(lat, lon, radiusKm float64) (HistoricalCandidates, error)
}

// HistoricalCandidates ranks and annotates a candidate set relative to the
// current event's maximum affected intensity and exposure. The ranking and
// coloring policy is owned by the catalog; the resulting list is passed into
// the report unmodified.
type HistoricalCandidates interface {
	HistoricalEvents(maxMMI int, nMMI, lat, lon float64) ([]HistoricalEvent, error)
}

// Gazetteer loads a city gazetteer from a file.
type Gazetteer interface {
	Load(path string) (CitySet, error)
}

// CitySet intersects loaded cities with a shaking intensity layer.
type CitySet interface {
	CityTable(layer IntensityLayer) (CityTableBuilder, error)
}

// CityTableBuilder selects the top cities by relevance for the report map.
type CityTableBuilder interface {
	TopCities(count int) ([]City, error)
}

// Localizer resolves the local wall-clock time at a coordinate.
type Localizer interface {
	LocalTime(t time.Time, lat, lon float64) (time.Time, error)
}

// ElapsedFormatter renders the interval between origin time and processing
// time as a human-readable string.
type ElapsedFormatter interface {
	ElapsedString(origin, now time.Time) (string, error)
}

// Collaborators bundles the external dependencies a Builder delegates to at
// finalize time. All fields are required.
type Collaborators struct {
	Catalog   HistoricalCatalog
	Gazetteer Gazetteer
	Localizer Localizer
	Elapsed   ElapsedFormatter
}
