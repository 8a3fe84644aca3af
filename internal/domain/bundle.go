package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
)

// InputBundle is the JSON document published by the loss-model runner once
// both loss models have completed for a shake grid version.
type InputBundle struct {
	Event         EventPayload           `json:"event"`
	Shake         ShakePayload           `json:"shake"`
	Grid          GridPayload            `json:"grid"`
	Version       int                    `json:"version"`
	EventCode     string                 `json:"event_code"`
	PopulationExp map[string][10]float64 `json:"population_exposure"`
	EconomicExp   map[string][10]float64 `json:"economic_exposure"`
	FatalityModel ModelPayload           `json:"fatality_model"`
	EconomicModel ModelPayload           `json:"economic_model"`
	SemiEmpirical SemiEmpiricalPayload   `json:"semi_empirical"`
	Comments      report.Comments        `json:"comments"`
}

// EventPayload carries the earthquake origin parameters.
type EventPayload struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Depth     float64   `json:"depth"`
	Magnitude float64   `json:"magnitude"`
	Location  string    `json:"location"`
}

// ShakePayload identifies the shake product version the bundle derives from.
type ShakePayload struct {
	Version     int       `json:"version"`
	CodeVersion string    `json:"code_version"`
	ProcessTime time.Time `json:"process_time"`
}

// GridPayload is a coarse row-major MMI grid. Cell (0,0) covers the
// south-west corner at (MinLat, MinLon); values are ordered row by row,
// south to north.
type GridPayload struct {
	MinLat  float64   `json:"min_lat"`
	MinLon  float64   `json:"min_lon"`
	Spacing float64   `json:"spacing"` // degrees per cell
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	MMI     []float64 `json:"mmi"`
}

// ModelPayload is one loss model's precomputed output surface.
type ModelPayload struct {
	Level         string               `json:"level"`
	GValue        float64              `json:"gvalue"`
	Results       map[string]float64   `json:"results"`
	Probabilities map[string]float64   `json:"probabilities"`
	Rates         map[string][]float64 `json:"rates"`
}

// SemiEmpiricalPayload is the semi-empirical fatality triple.
type SemiEmpiricalPayload struct {
	Fatalities     float64 `json:"fatalities"`
	Residential    float64 `json:"residential"`
	NonResidential float64 `json:"non_residential"`
}

// ParseRawEvent deserializes a RawEvent's value into an InputBundle and
// checks the invariants the aggregation depends on.
func ParseRawEvent(raw RawEvent) (InputBundle, error) {
	var bundle InputBundle
	if err := json.Unmarshal(raw.Value, &bundle); err != nil {
		return InputBundle{}, fmt.Errorf("parse input bundle: %w", err)
	}

	if bundle.Event.ID == "" {
		return InputBundle{}, fmt.Errorf("parse input bundle: missing event id")
	}
	if _, ok := bundle.PopulationExp[report.TotalExposureKey]; !ok {
		return InputBundle{}, fmt.Errorf("parse input bundle %s: population exposure missing %q key", bundle.Event.ID, report.TotalExposureKey)
	}
	if _, ok := bundle.EconomicExp[report.TotalEconomicExposureKey]; !ok {
		return InputBundle{}, fmt.Errorf("parse input bundle %s: economic exposure missing %q key", bundle.Event.ID, report.TotalEconomicExposureKey)
	}
	if err := validateModel(bundle.FatalityModel, report.TotalFatalitiesKey); err != nil {
		return InputBundle{}, fmt.Errorf("parse input bundle %s: fatality model: %w", bundle.Event.ID, err)
	}
	if err := validateModel(bundle.EconomicModel, report.TotalDollarsKey); err != nil {
		return InputBundle{}, fmt.Errorf("parse input bundle %s: economic model: %w", bundle.Event.ID, err)
	}
	return bundle, nil
}

func validateModel(m ModelPayload, totalKey string) error {
	if report.AlertLevel(m.Level).Severity() < 0 {
		return fmt.Errorf("unknown alert level %q", m.Level)
	}
	if _, ok := m.Results[totalKey]; !ok {
		return fmt.Errorf("results missing %q key", totalKey)
	}
	return nil
}
