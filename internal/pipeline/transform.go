package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-impact-aggregator/internal/domain"
	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
)

// ReportTransformer implements Transformer by driving a report.Builder over
// each incoming bundle.
type ReportTransformer struct {
	collab    report.Collaborators
	cityFile  string
	mapCities int
	logger    *slog.Logger
}

// NewTransformer creates a ReportTransformer. Pass an empty cityFile to
// produce reports without a city table.
func NewTransformer(collab report.Collaborators, cityFile string, mapCities int, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		collab:    collab,
		cityFile:  cityFile,
		mapCities: mapCities,
		logger:    logger,
	}
}

// Transform parses a raw bundle, aggregates it into a finalized report, and
// serializes the result for publication.
func (t *ReportTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	bundle, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	b := report.NewBuilder(t.collab)
	b.SetInputs(domain.NewBundleGrid(&bundle), bundle.Version, bundle.EventCode)
	b.SetExposure(report.ExposureTable(bundle.PopulationExp), report.ExposureTable(bundle.EconomicExp))
	b.SetModelResults(
		domain.NewPrecomputedLossModel(bundle.FatalityModel),
		domain.NewPrecomputedLossModel(bundle.EconomicModel),
		report.ModelResult(bundle.FatalityModel.Results),
		report.ModelResult(bundle.EconomicModel.Results),
		bundle.SemiEmpirical.Fatalities,
		bundle.SemiEmpirical.Residential,
		bundle.SemiEmpirical.NonResidential,
	)
	c := bundle.Comments
	b.SetComments(c.Impact1, c.Impact2, c.StructComment, c.HistoricalComment, c.SecondaryComment)
	if t.cityFile != "" {
		b.SetMapInfo(t.cityFile, t.mapCities)
	}

	rep, err := b.Finalize()
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("aggregate %s v%d: %w", bundle.Event.ID, bundle.Version, err)
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("serialize report %s v%d: %w", bundle.Event.ID, bundle.Version, err)
	}

	processedAt, err := time.ParseInLocation(report.TimestampLayout, rep.Pager.ProcessingTime, time.UTC)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("parse processing time %q: %w", rep.Pager.ProcessingTime, err)
	}

	return domain.OutputEvent{
		Key:   []byte(fmt.Sprintf("%s-%d", bundle.Event.ID, bundle.Version)),
		Value: data,
		Headers: map[string]string{
			"alert_level":  string(rep.Pager.AlertLevel),
			"event_code":   rep.Pager.EventCode,
			"processed_at": processedAt.Format(time.RFC3339),
		},
	}, nil
}
