package domain

import (
	"maps"
	"math"

	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
)

// BundleGrid adapts an InputBundle's event, shake, and grid payloads to the
// report core's GridSummary contract.
type BundleGrid struct {
	bundle *InputBundle
}

// NewBundleGrid wraps a parsed bundle. The bundle must outlive the grid.
func NewBundleGrid(bundle *InputBundle) *BundleGrid {
	return &BundleGrid{bundle: bundle}
}

func (g *BundleGrid) Event() report.EventMetadata {
	e := g.bundle.Event
	return report.EventMetadata{
		ID:        e.ID,
		Time:      e.Time,
		Lat:       e.Lat,
		Lon:       e.Lon,
		Depth:     e.Depth,
		Magnitude: e.Magnitude,
		Location:  e.Location,
	}
}

func (g *BundleGrid) Shake() report.ShakeMetadata {
	s := g.bundle.Shake
	return report.ShakeMetadata{
		Version:     s.Version,
		CodeVersion: s.CodeVersion,
		ProcessTime: s.ProcessTime,
	}
}

func (g *BundleGrid) IntensityLayer() report.IntensityLayer {
	return gridLayer{grid: g.bundle.Grid}
}

// gridLayer answers point queries against the coarse MMI grid by nearest
// cell. Points outside the gridded area report no value.
type gridLayer struct {
	grid GridPayload
}

func (l gridLayer) ValueAt(lat, lon float64) (float64, bool) {
	g := l.grid
	if g.Spacing <= 0 || g.Rows <= 0 || g.Cols <= 0 || len(g.MMI) != g.Rows*g.Cols {
		return 0, false
	}
	row := int(math.Floor((lat - g.MinLat) / g.Spacing))
	col := int(math.Floor((lon - g.MinLon) / g.Spacing))
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return 0, false
	}
	return g.MMI[row*g.Cols+col], true
}

// PrecomputedLossModel exposes a ModelPayload through the report core's
// LossModel capability. The upstream runner has already evaluated the model;
// this adapter only hands the results over.
type PrecomputedLossModel struct {
	payload ModelPayload
}

// NewPrecomputedLossModel wraps one model payload.
func NewPrecomputedLossModel(payload ModelPayload) *PrecomputedLossModel {
	return &PrecomputedLossModel{payload: payload}
}

func (m *PrecomputedLossModel) AlertLevel(report.ModelResult) report.AlertLevel {
	return report.AlertLevel(m.payload.Level)
}

func (m *PrecomputedLossModel) CombinedSeverity(report.ModelResult) float64 {
	return m.payload.GValue
}

func (m *PrecomputedLossModel) Probabilities(report.ModelResult, float64) map[string]float64 {
	return maps.Clone(m.payload.Probabilities)
}

// LossRates returns the country's loss rate at each requested MMI level.
// Levels beyond the payload's rate sequence report zero.
func (m *PrecomputedLossModel) LossRates(countryCode string, mmi []int) []float64 {
	rates := m.payload.Rates[countryCode]
	out := make([]float64, len(mmi))
	for i, level := range mmi {
		if idx := level - 1; idx >= 0 && idx < len(rates) {
			out[i] = rates[idx]
		}
	}
	return out
}
