package report

import (
	"slices"
	"time"
)

const (
	// MinSignificantExposure is the minimum population required to declare
	// the maximum affected intensity at a given MMI level.
	MinSignificantExposure = 1000

	// HistoricalSearchRadiusKm is the distance around the epicenter searched
	// for comparable historical earthquakes.
	HistoricalSearchRadiusKm = 400.0

	// Version identifies the aggregator release that produced a report.
	Version = "2.1.0"

	// TimestampLayout is the wall-clock format used for every timestamp
	// string in a report.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Distinguished total keys used by the loss pipeline in exposure tables and
// model result maps.
const (
	TotalExposureKey         = "TotalExposure"
	TotalEconomicExposureKey = "TotalEconomicExposure"
	TotalFatalitiesKey       = "TotalFatalities"
	TotalDollarsKey          = "TotalDollars"
)

// ExposureTable maps a region key (a distinguished total key plus zero or
// more country codes) to per-MMI counts for intensity levels 1 through 10.
type ExposureTable map[string][10]float64

// ModelResult maps a region key to a scalar loss estimate.
type ModelResult map[string]float64

// AlertLevel is one of four ordered impact severities.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertOrange AlertLevel = "orange"
	AlertRed    AlertLevel = "red"
)

// Severity returns the numeric rank of the level, green lowest.
func (a AlertLevel) Severity() int {
	switch a {
	case AlertGreen:
		return 0
	case AlertYellow:
		return 1
	case AlertOrange:
		return 2
	case AlertRed:
		return 3
	}
	return -1
}

// Report is the finalized impact report. It is built exactly once by
// Builder.Finalize and read-only thereafter. Field order matches the
// serialized key order consumed by downstream renderers.
type Report struct {
	EventInfo             EventInfo           `json:"event_info"`
	Pager                 PagerInfo           `json:"pager"`
	ShakeInfo             ShakeInfo           `json:"shake_info"`
	Alerts                Alerts              `json:"alerts"`
	PopulationExposure    ExposureSection     `json:"population_exposure"`
	EconomicExposure      ExposureSection     `json:"economic_exposure"`
	ModelResults          ModelResultsSection `json:"model_results"`
	CityTable             []City              `json:"city_table"`
	HistoricalEarthquakes []HistoricalEvent   `json:"historical_earthquakes"`
	Comments              Comments            `json:"comments"`
}

// clone returns a deep copy of the report. The builder retains its own
// finalized report for the accessors, so the value handed to the caller
// must not share any mutable state with it.
func (r *Report) clone() *Report {
	out := *r
	out.Alerts.Fatality.Bins = slices.Clone(r.Alerts.Fatality.Bins)
	out.Alerts.Economic.Bins = slices.Clone(r.Alerts.Economic.Bins)
	out.PopulationExposure = cloneExposureSection(r.PopulationExposure)
	out.EconomicExposure = cloneExposureSection(r.EconomicExposure)
	out.ModelResults.EmpiricalFatality.CountryFatalities = slices.Clone(r.ModelResults.EmpiricalFatality.CountryFatalities)
	for i := range out.ModelResults.EmpiricalFatality.CountryFatalities {
		cf := &out.ModelResults.EmpiricalFatality.CountryFatalities[i]
		cf.Rates = slices.Clone(cf.Rates)
	}
	out.ModelResults.EmpiricalEconomic.CountryDollars = slices.Clone(r.ModelResults.EmpiricalEconomic.CountryDollars)
	for i := range out.ModelResults.EmpiricalEconomic.CountryDollars {
		cd := &out.ModelResults.EmpiricalEconomic.CountryDollars[i]
		cd.Rates = slices.Clone(cd.Rates)
	}
	out.CityTable = slices.Clone(r.CityTable)
	out.HistoricalEarthquakes = slices.Clone(r.HistoricalEarthquakes)
	return &out
}

func cloneExposureSection(s ExposureSection) ExposureSection {
	s.MMI = slices.Clone(s.MMI)
	s.AggregatedExposure = slices.Clone(s.AggregatedExposure)
	s.CountryExposures = slices.Clone(s.CountryExposures)
	for i := range s.CountryExposures {
		s.CountryExposures[i].Exposure = slices.Clone(s.CountryExposures[i].Exposure)
	}
	return s
}

// EventInfo summarizes the earthquake origin.
type EventInfo struct {
	EventID  string    `json:"eventid"`
	Time     time.Time `json:"time"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Depth    float64   `json:"depth"`
	Mag      float64   `json:"mag"`
	Version  int       `json:"version"`
	Location string    `json:"location"`
}

// PagerInfo carries processing metadata, the combined alert level, and the
// maximum affected intensity.
type PagerInfo struct {
	SoftwareVersion string     `json:"software_version"`
	ProcessingTime  string     `json:"processing_time"`
	VersionNumber   int        `json:"version_number"`
	VersionCode     string     `json:"versioncode"`
	EventCode       string     `json:"eventcode"`
	AlertLevel      AlertLevel `json:"alert_level"`
	MaxMMI          int        `json:"maxmmi"`
	ElapsedTime     string     `json:"elapsed_time"`
	LocalTimeString string     `json:"local_time_string"`
}

// ShakeInfo identifies the shaking grid the report was derived from.
type ShakeInfo struct {
	ShakeVersion     int       `json:"shake_version"`
	ShakeCodeVersion string    `json:"shake_code_version"`
	ShakeTime        time.Time `json:"shake_time"`
}

// Alerts holds the fatality and economic alert groups. Exactly one of the
// two is marked as the summary group.
type Alerts struct {
	Fatality AlertGroup `json:"fatality"`
	Economic AlertGroup `json:"economic"`
}

// AlertGroup is one loss model's alert: its level, combined severity score,
// and probability mass over the seven fixed loss ranges.
type AlertGroup struct {
	Type    string           `json:"type"`
	Units   string           `json:"units"`
	GValue  float64          `json:"gvalue"`
	Summary bool             `json:"summary"`
	Level   AlertLevel       `json:"level"`
	Bins    []ProbabilityBin `json:"bins"`
}

// ProbabilityBin is the probability mass assigned to one loss range.
type ProbabilityBin struct {
	Color       string  `json:"color"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Probability float64 `json:"probability"`
}

// ExposureSection reshapes one exposure table: the aggregated 10-value
// sequence plus per-country sequences, total key excluded.
type ExposureSection struct {
	MMI                []int             `json:"mmi"`
	AggregatedExposure []float64         `json:"aggregated_exposure"`
	CountryExposures   []CountryExposure `json:"country_exposures"`
}

// CountryExposure is one country's per-MMI exposure counts.
type CountryExposure struct {
	CountryCode string    `json:"country_code"`
	Exposure    []float64 `json:"exposure"`
}

// ModelResultsSection reshapes the loss model outputs into comparably keyed
// structures.
type ModelResultsSection struct {
	EmpiricalFatality       EmpiricalFatality `json:"empirical_fatality"`
	EmpiricalEconomic       EmpiricalEconomic `json:"empirical_economic"`
	SemiEmpiricalFatalities SemiEmpirical     `json:"semi_empirical_fatalities"`
}

// EmpiricalFatality holds the empirical fatality model output: the total
// estimate plus per-country estimates with per-intensity loss rates.
type EmpiricalFatality struct {
	TotalFatalities   float64           `json:"total_fatalities"`
	CountryFatalities []CountryFatality `json:"country_fatalities"`
}

// CountryFatality is one country's fatality estimate and its loss rates for
// MMI levels 1 through 10.
type CountryFatality struct {
	CountryCode string    `json:"country_code"`
	Rates       []float64 `json:"rates"`
	Fatalities  float64   `json:"fatalities"`
}

// EmpiricalEconomic holds the empirical economic model output.
type EmpiricalEconomic struct {
	TotalDollars   float64          `json:"total_dollars"`
	CountryDollars []CountryDollars `json:"country_dollars"`
}

// CountryDollars is one country's economic loss estimate and its loss rates
// for MMI levels 1 through 10.
type CountryDollars struct {
	CountryCode string    `json:"country_code"`
	Rates       []float64 `json:"rates"`
	USDollars   float64   `json:"us_dollars"`
}

// SemiEmpirical carries the semi-empirical fatality triple unchanged. It is
// reported alongside, not combined into, the empirical alert computation.
type SemiEmpirical struct {
	Fatalities               float64 `json:"fatalities"`
	ResidentialFatalities    float64 `json:"residential_fatalities"`
	NonResidentialFatalities float64 `json:"non_residential_fatalities"`
}

// HistoricalEvent is one comparable past earthquake, annotated by the
// catalog with distance from the current epicenter and a display color.
type HistoricalEvent struct {
	ID            string      `json:"id"`
	Time          time.Time   `json:"time"`
	Lat           float64     `json:"lat"`
	Lon           float64     `json:"lon"`
	Depth         float64     `json:"depth"`
	Magnitude     float64     `json:"magnitude"`
	CountryCode   string      `json:"country_code"`
	ShakingDeaths float64     `json:"shaking_deaths"`
	TotalDeaths   float64     `json:"total_deaths"`
	Injured       float64     `json:"injured"`
	Fire          bool        `json:"fire"`
	Liquefaction  bool        `json:"liquefaction"`
	Tsunami       bool        `json:"tsunami"`
	Landslide     bool        `json:"landslide"`
	Exposure      [10]float64 `json:"exposure"`
	MaxMMI        int         `json:"maxmmi"`
	NumMaxMMI     float64     `json:"nmaxmmi"`
	DistanceKm    float64     `json:"distance"`
	Color         string      `json:"color"`
}

// City is one row of the city table: a gazetteer city intersected with the
// shaking intensity layer.
type City struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"ccode"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Population  int     `json:"pop"`
	MMI         float64 `json:"mmi"`
}

// Comments holds the five narrative comments. Impact1 and Impact2 are
// ordered by severity; Impact2 is empty when both loss models report the
// same alert level.
type Comments struct {
	Impact1           string `json:"impact1"`
	Impact2           string `json:"impact2"`
	StructComment     string `json:"struct_comment"`
	HistoricalComment string `json:"historical_comment"`
	SecondaryComment  string `json:"secondary_comment"`
}
