package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBundle() InputBundle {
	probs := map[string]float64{
		"0-1": 0.5, "1-10": 0.3, "10-100": 0.1, "100-1000": 0.05,
		"1000-10000": 0.03, "10000-100000": 0.015, "100000-10000000": 0.005,
	}
	return InputBundle{
		Event: EventPayload{
			ID:        "us7000abcd",
			Time:      time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC),
			Lat:       10.0,
			Lon:       120.0,
			Depth:     22.5,
			Magnitude: 7.1,
			Location:  "12km SSE of Calapan, Philippines",
		},
		Shake:     ShakePayload{Version: 3, CodeVersion: "4.1.2"},
		Grid:      GridPayload{MinLat: 8, MinLon: 118, Spacing: 0.5, Rows: 8, Cols: 8, MMI: make([]float64, 64)},
		Version:   2,
		EventCode: "us7000abcd",
		PopulationExp: map[string][10]float64{
			report.TotalExposureKey: {0, 0, 0, 0, 0, 0, 0, 0, 1200, 0},
			"PH":                    {0, 0, 0, 0, 0, 0, 0, 0, 1200, 0},
		},
		EconomicExp: map[string][10]float64{
			report.TotalEconomicExposureKey: {0, 0, 0, 0, 0, 0, 0, 0, 4.1e8, 0},
		},
		FatalityModel: ModelPayload{
			Level:         "green",
			GValue:        1.1,
			Results:       map[string]float64{report.TotalFatalitiesKey: 2, "PH": 2},
			Probabilities: probs,
			Rates:         map[string][]float64{"PH": {0, 0, 0, 0, 0.0001, 0.001, 0.01, 0.1, 1, 10}},
		},
		EconomicModel: ModelPayload{
			Level:         "orange",
			GValue:        2.3,
			Results:       map[string]float64{report.TotalDollarsKey: 3.2e7, "PH": 3.2e7},
			Probabilities: probs,
			Rates:         map[string][]float64{"PH": {0, 0, 0, 0, 0.001, 0.01, 0.05, 0.1, 0.2, 0.4}},
		},
		SemiEmpirical: SemiEmpiricalPayload{Fatalities: 14, Residential: 9, NonResidential: 5},
		Comments: report.Comments{
			Impact1: "Orange alert for economic losses.",
			Impact2: "Green alert for shaking-related fatalities.",
		},
	}
}

func rawFor(t *testing.T, bundle InputBundle) RawEvent {
	t.Helper()
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	return RawEvent{Value: data}
}

func TestParseRawEvent(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		parsed, err := ParseRawEvent(rawFor(t, sampleBundle()))
		require.NoError(t, err)

		assert.Equal(t, "us7000abcd", parsed.Event.ID)
		assert.Equal(t, 7.1, parsed.Event.Magnitude)
		assert.Equal(t, "orange", parsed.EconomicModel.Level)
		assert.Equal(t, [10]float64{0, 0, 0, 0, 0, 0, 0, 0, 1200, 0}, parsed.PopulationExp[report.TotalExposureKey])
		assert.Equal(t, 14.0, parsed.SemiEmpirical.Fatalities)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte("not-json{{{")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse input bundle")
	})

	t.Run("missing event id", func(t *testing.T) {
		bundle := sampleBundle()
		bundle.Event.ID = ""
		_, err := ParseRawEvent(rawFor(t, bundle))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing event id")
	})

	t.Run("missing population total key", func(t *testing.T) {
		bundle := sampleBundle()
		delete(bundle.PopulationExp, report.TotalExposureKey)
		_, err := ParseRawEvent(rawFor(t, bundle))
		require.Error(t, err)
		assert.Contains(t, err.Error(), report.TotalExposureKey)
	})

	t.Run("unknown alert level", func(t *testing.T) {
		bundle := sampleBundle()
		bundle.FatalityModel.Level = "purple"
		_, err := ParseRawEvent(rawFor(t, bundle))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown alert level")
	})

	t.Run("missing model total key", func(t *testing.T) {
		bundle := sampleBundle()
		delete(bundle.EconomicModel.Results, report.TotalDollarsKey)
		_, err := ParseRawEvent(rawFor(t, bundle))
		require.Error(t, err)
		assert.Contains(t, err.Error(), report.TotalDollarsKey)
	})
}

func TestBundleGrid(t *testing.T) {
	bundle := sampleBundle()
	grid := NewBundleGrid(&bundle)

	event := grid.Event()
	assert.Equal(t, "us7000abcd", event.ID)
	assert.Equal(t, 10.0, event.Lat)
	assert.Equal(t, "12km SSE of Calapan, Philippines", event.Location)

	shake := grid.Shake()
	assert.Equal(t, 3, shake.Version)
	assert.Equal(t, "4.1.2", shake.CodeVersion)
}

func TestGridLayerValueAt(t *testing.T) {
	mmi := make([]float64, 4)
	mmi[0] = 4.0 // (0,0) south-west cell
	mmi[3] = 7.5 // (1,1) north-east cell
	layer := gridLayer{grid: GridPayload{MinLat: 10, MinLon: 120, Spacing: 1, Rows: 2, Cols: 2, MMI: mmi}}

	tests := []struct {
		name     string
		lat, lon float64
		want     float64
		wantOK   bool
	}{
		{"south-west cell", 10.2, 120.3, 4.0, true},
		{"north-east cell", 11.9, 121.9, 7.5, true},
		{"west of grid", 10.5, 119.0, 0, false},
		{"north of grid", 12.5, 120.5, 0, false},
		{"fractional cell south of grid", 9.5, 120.5, 0, false},
		{"fractional cell west of grid", 10.5, 119.5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := layer.ValueAt(tt.lat, tt.lon)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed grid", func(t *testing.T) {
		bad := gridLayer{grid: GridPayload{Spacing: 1, Rows: 2, Cols: 2, MMI: []float64{1}}}
		_, ok := bad.ValueAt(0, 0)
		assert.False(t, ok)
	})
}

func TestPrecomputedLossModel(t *testing.T) {
	bundle := sampleBundle()
	model := NewPrecomputedLossModel(bundle.FatalityModel)
	results := report.ModelResult(bundle.FatalityModel.Results)

	assert.Equal(t, report.AlertGreen, model.AlertLevel(results))
	assert.Equal(t, 1.1, model.CombinedSeverity(results))

	probs := model.Probabilities(results, 1.1)
	assert.Len(t, probs, 7)
	probs["0-1"] = 99 // callers must not be able to mutate the payload
	assert.Equal(t, 0.5, model.Probabilities(results, 1.1)["0-1"])

	mmi := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	rates := model.LossRates("PH", mmi)
	assert.Equal(t, []float64{0, 0, 0, 0, 0.0001, 0.001, 0.01, 0.1, 1, 10}, rates)

	unknown := model.LossRates("XX", mmi)
	assert.Equal(t, make([]float64, 10), unknown)
}
