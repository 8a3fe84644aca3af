package report

import (
	"slices"
	"time"
)

// Builder accumulates the input groups for one aggregation run and builds
// the Report. A Builder serves exactly one event; it is not safe for
// concurrent use and Finalize may succeed only once.
type Builder struct {
	collab Collaborators

	grid      GridSummary
	version   int
	eventCode string

	popExposure  ExposureTable
	econExposure ExposureTable
	maxMMI       int
	nMMI         float64

	fatModel         LossModel
	ecoModel         LossModel
	fatResults       ModelResult
	ecoResults       ModelResult
	semiFatalities   float64
	resFatalities    float64
	nonResFatalities float64

	comments Comments

	cityFile  string
	mapCities int

	inputSet    bool
	exposureSet bool
	modelsSet   bool
	commentsSet bool
	mapInfoSet  bool

	report *Report
}

// NewBuilder creates a Builder for one aggregation run.
func NewBuilder(collab Collaborators) *Builder {
	return &Builder{collab: collab}
}

// SetInputs stores the shaking grid summary, the report version, and the
// event code.
func (b *Builder) SetInputs(grid GridSummary, version int, eventCode string) {
	b.grid = grid
	b.version = version
	b.eventCode = eventCode
	b.inputSet = true
}

// SetExposure stores both exposure tables and caches the maximum affected
// intensity derived from the aggregated population exposure. The cached
// value is reused at finalize for the pager section and the historical
// comparison.
func (b *Builder) SetExposure(population, economic ExposureTable) {
	b.maxMMI, b.nMMI = MaxAffectedMMI(population[TotalExposureKey])
	b.popExposure = population
	b.econExposure = economic
	b.exposureSet = true
}

// SetModelResults stores both loss model capabilities, both result sets, and
// the semi-empirical fatality triple.
func (b *Builder) SetModelResults(fatModel, ecoModel LossModel, fatResults, ecoResults ModelResult, semiFatalities, resFatalities, nonResFatalities float64) {
	b.fatModel = fatModel
	b.ecoModel = ecoModel
	b.fatResults = fatResults
	b.ecoResults = ecoResults
	b.semiFatalities = semiFatalities
	b.resFatalities = resFatalities
	b.nonResFatalities = nonResFatalities
	b.modelsSet = true
}

// SetComments stores the five narrative comments. impact1 and impact2 are
// ordered by severity; impact2 is empty when both models report the same
// alert level.
func (b *Builder) SetComments(impact1, impact2, structComment, histComment, secondaryComment string) {
	b.comments = Comments{
		Impact1:           impact1,
		Impact2:           impact2,
		StructComment:     structComment,
		HistoricalComment: histComment,
		SecondaryComment:  secondaryComment,
	}
	b.commentsSet = true
}

// SetMapInfo stores the city gazetteer path and how many top cities the
// report's city table should carry. Optional; without it the city table is
// empty.
func (b *Builder) SetMapInfo(cityFile string, mapCities int) {
	b.cityFile = cityFile
	b.mapCities = mapCities
	b.mapInfoSet = true
}

// Finalize verifies that every mandatory input group is present, runs the
// derivations once over the supplied inputs, and builds the Report. The
// processing timestamp is captured here. The returned report is the
// caller's own copy; the builder's accessors keep serving the original.
// A second call returns AlreadyFinalizedError.
func (b *Builder) Finalize() (*Report, error) {
	if b.report != nil {
		return nil, &AlreadyFinalizedError{}
	}
	switch {
	case !b.inputSet:
		return nil, &MissingInputError{Group: "inputs"}
	case !b.exposureSet:
		return nil, &MissingInputError{Group: "exposure"}
	case !b.commentsSet:
		return nil, &MissingInputError{Group: "comments"}
	case !b.modelsSet:
		return nil, &MissingInputError{Group: "model results"}
	}

	processTime := clock.Now().UTC()
	event := b.grid.Event()

	pager, err := b.pagerInfo(event, processTime)
	if err != nil {
		return nil, err
	}
	cities, err := b.cityTable()
	if err != nil {
		return nil, err
	}
	historical, err := b.historicalEvents(event)
	if err != nil {
		return nil, err
	}

	b.report = &Report{
		EventInfo:             b.eventInfo(event),
		Pager:                 pager,
		ShakeInfo:             shakeInfo(b.grid.Shake()),
		Alerts:                b.alerts(),
		PopulationExposure:    reshapeExposure(b.popExposure, TotalExposureKey),
		EconomicExposure:      reshapeExposure(b.econExposure, TotalEconomicExposureKey),
		ModelResults:          b.modelResults(),
		CityTable:             cities,
		HistoricalEarthquakes: historical,
		Comments:              b.comments,
	}
	return b.report.clone(), nil
}

func (b *Builder) eventInfo(event EventMetadata) EventInfo {
	return EventInfo{
		EventID:  event.ID,
		Time:     event.Time,
		Lat:      event.Lat,
		Lon:      event.Lon,
		Depth:    event.Depth,
		Mag:      event.Magnitude,
		Version:  b.version,
		Location: event.Location,
	}
}

func (b *Builder) pagerInfo(event EventMetadata, processTime time.Time) (PagerInfo, error) {
	combined, _ := combineAlerts(b.fatModel.AlertLevel(b.fatResults), b.ecoModel.AlertLevel(b.ecoResults))

	elapsed, err := b.collab.Elapsed.ElapsedString(event.Time, processTime)
	if err != nil {
		return PagerInfo{}, &CollaboratorError{Op: "format elapsed time", Err: err}
	}
	local, err := b.collab.Localizer.LocalTime(event.Time, event.Lat, event.Lon)
	if err != nil {
		return PagerInfo{}, &CollaboratorError{Op: "resolve local time", Err: err}
	}

	return PagerInfo{
		SoftwareVersion: Version,
		ProcessingTime:  processTime.Format(TimestampLayout),
		VersionNumber:   b.version,
		VersionCode:     event.ID,
		EventCode:       b.eventCode,
		AlertLevel:      combined,
		MaxMMI:          b.maxMMI,
		ElapsedTime:     elapsed,
		LocalTimeString: local.Format(TimestampLayout),
	}, nil
}

func shakeInfo(shake ShakeMetadata) ShakeInfo {
	return ShakeInfo{
		ShakeVersion:     shake.Version,
		ShakeCodeVersion: shake.CodeVersion,
		ShakeTime:        shake.ProcessTime,
	}
}

func (b *Builder) alerts() Alerts {
	fatLevel := b.fatModel.AlertLevel(b.fatResults)
	ecoLevel := b.ecoModel.AlertLevel(b.ecoResults)
	_, fatSummary := combineAlerts(fatLevel, ecoLevel)
	return Alerts{
		Fatality: buildAlertGroup("fatality", "fatalities", b.fatModel, b.fatResults, fatSummary),
		Economic: buildAlertGroup("economic", "USD", b.ecoModel, b.ecoResults, !fatSummary),
	}
}

func (b *Builder) modelResults() ModelResultsSection {
	return ModelResultsSection{
		EmpiricalFatality: reshapeFatalities(b.fatModel, b.fatResults),
		EmpiricalEconomic: reshapeDollars(b.ecoModel, b.ecoResults),
		SemiEmpiricalFatalities: SemiEmpirical{
			Fatalities:               b.semiFatalities,
			ResidentialFatalities:    b.resFatalities,
			NonResidentialFatalities: b.nonResFatalities,
		},
	}
}

func (b *Builder) cityTable() ([]City, error) {
	if !b.mapInfoSet {
		return nil, nil
	}
	cities, err := b.collab.Gazetteer.Load(b.cityFile)
	if err != nil {
		return nil, &CollaboratorError{Op: "load gazetteer", Err: err}
	}
	table, err := cities.CityTable(b.grid.IntensityLayer())
	if err != nil {
		return nil, &CollaboratorError{Op: "build city table", Err: err}
	}
	top, err := table.TopCities(b.mapCities)
	if err != nil {
		return nil, &CollaboratorError{Op: "rank cities", Err: err}
	}
	return top, nil
}

func (b *Builder) historicalEvents(event EventMetadata) ([]HistoricalEvent, error) {
	candidates, err := b.collab.Catalog.SelectByRadius(event.Lat, event.Lon, HistoricalSearchRadiusKm)
	if err != nil {
		return nil, &CollaboratorError{Op: "query historical catalog", Err: err}
	}
	events, err := candidates.HistoricalEvents(b.maxMMI, b.nMMI, event.Lat, event.Lon)
	if err != nil {
		return nil, &CollaboratorError{Op: "rank historical events", Err: err}
	}
	return events, nil
}

// ---- accessors ----

func (b *Builder) finalized(accessor string) (*Report, error) {
	if b.report == nil {
		return nil, &NotFinalizedError{Accessor: accessor}
	}
	return b.report, nil
}

// EventInfo returns the event summary section.
func (b *Builder) EventInfo() (EventInfo, error) {
	r, err := b.finalized("event info")
	if err != nil {
		return EventInfo{}, err
	}
	return r.EventInfo, nil
}

// ImpactComments returns the two impact comments, most impactful first. The
// second is empty when both models report the same alert level.
func (b *Builder) ImpactComments() (string, string, error) {
	r, err := b.finalized("impact comments")
	if err != nil {
		return "", "", err
	}
	return r.Comments.Impact1, r.Comments.Impact2, nil
}

// SoftwareVersion returns the aggregator version that produced the report.
func (b *Builder) SoftwareVersion() (string, error) {
	r, err := b.finalized("software version")
	if err != nil {
		return "", err
	}
	return r.Pager.SoftwareVersion, nil
}

// ElapsedTime returns the human-readable interval between origin time and
// processing time.
func (b *Builder) ElapsedTime() (string, error) {
	r, err := b.finalized("elapsed time")
	if err != nil {
		return "", err
	}
	return r.Pager.ElapsedTime, nil
}

// TotalExposure returns a copy of the aggregated population exposure.
func (b *Builder) TotalExposure() ([]float64, error) {
	r, err := b.finalized("total exposure")
	if err != nil {
		return nil, err
	}
	return slices.Clone(r.PopulationExposure.AggregatedExposure), nil
}

// HistoricalEvents returns a copy of the comparable historical earthquakes.
func (b *Builder) HistoricalEvents() ([]HistoricalEvent, error) {
	r, err := b.finalized("historical events")
	if err != nil {
		return nil, err
	}
	return slices.Clone(r.HistoricalEarthquakes), nil
}

// StructureComment returns the structure-vulnerability comment.
func (b *Builder) StructureComment() (string, error) {
	r, err := b.finalized("structure comment")
	if err != nil {
		return "", err
	}
	return r.Comments.StructComment, nil
}

// HistoricalComment returns the historical-comparison comment.
func (b *Builder) HistoricalComment() (string, error) {
	r, err := b.finalized("historical comment")
	if err != nil {
		return "", err
	}
	return r.Comments.HistoricalComment, nil
}

// CityTable returns a copy of the city table.
func (b *Builder) CityTable() ([]City, error) {
	r, err := b.finalized("city table")
	if err != nil {
		return nil, err
	}
	return slices.Clone(r.CityTable), nil
}

// SummaryAlert returns the combined report-level alert.
func (b *Builder) SummaryAlert() (AlertLevel, error) {
	r, err := b.finalized("summary alert")
	if err != nil {
		return "", err
	}
	return r.Pager.AlertLevel, nil
}
