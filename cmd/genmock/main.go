// Command genmock generates deterministic mock fixtures for test and demo
// environments: a historical catalog, a city gazetteer, a loss-model bundle,
// and the impact report the aggregator produces from them. The report is
// built by the actual aggregation code under a fixed clock so the fixture
// always matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/catalog"
	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/gazetteer"
	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/geotime"
	"github.com/couchcryptid/quake-impact-aggregator/internal/domain"
	"github.com/couchcryptid/quake-impact-aggregator/internal/pipeline"
	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
	"github.com/jonboulle/clockwork"
)

var (
	originTime  = time.Date(2026, time.March, 14, 2, 30, 0, 0, time.UTC)
	processTime = time.Date(2026, time.March, 14, 5, 45, 0, 0, time.UTC)
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for mock fixtures")
	cities := flag.Int("cities", 11, "number of cities in the report city table")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	catalogPath := filepath.Join(*out, "catalog.json")
	cityPath := filepath.Join(*out, "cities.txt")
	bundlePath := filepath.Join(*out, "bundle.json")
	reportPath := filepath.Join(*out, "report.json")

	events := mockCatalog()
	if err := writeJSON(catalogPath, events); err != nil {
		return fmt.Errorf("writing catalog fixture: %w", err)
	}
	if err := os.WriteFile(cityPath, []byte(mockCityFile), 0o600); err != nil {
		return fmt.Errorf("writing city fixture: %w", err)
	}

	bundle := mockBundle()
	if err := writeJSON(bundlePath, bundle); err != nil {
		return fmt.Errorf("writing bundle fixture: %w", err)
	}

	// Freeze the clock so the report fixture is reproducible.
	report.SetClock(clockwork.NewFakeClockAt(processTime))
	defer report.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	collab := report.Collaborators{
		Catalog:   catalog.New(events, logger),
		Gazetteer: gazetteer.New(logger),
		Localizer: geotime.Localizer{},
		Elapsed:   geotime.ElapsedFormatter{},
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return err
	}

	tfm := pipeline.NewTransformer(collab, cityPath, *cities, logger)
	outEvent, err := tfm.Transform(context.Background(), domain.RawEvent{Value: payload})
	if err != nil {
		return fmt.Errorf("aggregating mock bundle: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(outEvent.Value, &rep); err != nil {
		return err
	}
	if err := writeJSON(reportPath, rep); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}

	log.Printf("wrote fixtures: %s %s %s %s", catalogPath, cityPath, bundlePath, reportPath)
	log.Printf("alert level: %s, maxmmi: %d", rep.Pager.AlertLevel, rep.Pager.MaxMMI)
	return nil
}

// mockCatalog lists comparable Philippine earthquakes within the search
// radius of the mock event plus one Japanese event outside it.
func mockCatalog() []catalog.Event {
	return []catalog.Event{
		{
			ID: "usp0000699", Time: time.Date(1976, 8, 16, 16, 11, 0, 0, time.UTC),
			Lat: 10.5, Lon: 121.0, Depth: 33, Magnitude: 7.9, CountryCode: "PH",
			ShakingDeaths: 3500, TotalDeaths: 8000, Injured: 10000, Tsunami: true,
			Exposure: [10]float64{0, 0, 0, 10000, 120000, 350000, 410000, 98000, 2100, 0},
		},
		{
			ID: "usp0006dgt", Time: time.Date(1994, 11, 14, 19, 15, 0, 0, time.UTC),
			Lat: 12.5, Lon: 121.1, Depth: 31, Magnitude: 7.1, CountryCode: "PH",
			ShakingDeaths: 78, TotalDeaths: 78, Injured: 430, Tsunami: true,
			Exposure: [10]float64{0, 0, 5000, 90000, 600000, 720000, 150000, 20000, 0, 0},
		},
		{
			ID: "usp0009eq0", Time: time.Date(2000, 10, 6, 4, 30, 0, 0, time.UTC),
			Lat: 35.5, Lon: 133.1, Depth: 10, Magnitude: 6.7, CountryCode: "JP",
			ShakingDeaths: 0, TotalDeaths: 0, Injured: 130,
			Exposure: [10]float64{0, 0, 20000, 300000, 500000, 200000, 40000, 0, 0, 0},
		},
	}
}

const mockCityFile = "# name\tccode\tlat\tlon\tpopulation\n" +
	"Calapan\tPH\t10.4\t120.6\t145786\n" +
	"Batangas\tPH\t10.8\t120.1\t351437\n" +
	"Puerto Galera\tPH\t10.2\t120.3\t41763\n" +
	"Lubang\tPH\t9.9\t119.1\t30330\n"

func mockBundle() domain.InputBundle {
	popTotal := [10]float64{0, 0, 12000, 250000, 900000, 1500000, 430000, 85000, 1200, 0}
	econTotal := [10]float64{0, 0, 4e6, 9e7, 3.2e8, 5.5e8, 1.6e8, 3e7, 5e5, 0}
	fatRates := []float64{0, 0, 0, 0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.2}
	ecoRates := []float64{0, 0, 0, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.2, 0.3}

	return domain.InputBundle{
		Event: domain.EventPayload{
			ID:        "us7000abcd",
			Time:      originTime,
			Lat:       10.0,
			Lon:       120.0,
			Depth:     31.2,
			Magnitude: 7.1,
			Location:  "Mindoro, Philippines",
		},
		Shake: domain.ShakePayload{
			Version:     3,
			CodeVersion: "4.1.2",
			ProcessTime: originTime.Add(time.Hour),
		},
		Grid: domain.GridPayload{
			MinLat: 9.0, MinLon: 119.0, Spacing: 1.0,
			Rows: 2, Cols: 2,
			MMI: []float64{5.0, 6.5, 7.0, 8.5},
		},
		Version:       3,
		EventCode:     "us7000abcd",
		PopulationExp: map[string][10]float64{report.TotalExposureKey: popTotal, "PH": popTotal},
		EconomicExp:   map[string][10]float64{report.TotalEconomicExposureKey: econTotal, "PH": econTotal},
		FatalityModel: domain.ModelPayload{
			Level:   "yellow",
			GValue:  0.4,
			Results: map[string]float64{report.TotalFatalitiesKey: 12, "PH": 12},
			Probabilities: map[string]float64{
				"0-1":             0.13,
				"1-10":            0.42,
				"10-100":          0.31,
				"100-1000":        0.1,
				"1000-10000":      0.03,
				"10000-100000":    0.01,
				"100000-10000000": 0.0,
			},
			Rates: map[string][]float64{"PH": fatRates},
		},
		EconomicModel: domain.ModelPayload{
			Level:   "orange",
			GValue:  0.7,
			Results: map[string]float64{report.TotalDollarsKey: 2.5e8, "PH": 2.5e8},
			Probabilities: map[string]float64{
				"0-1":             0.02,
				"1-10":            0.08,
				"10-100":          0.2,
				"100-1000":        0.35,
				"1000-10000":      0.25,
				"10000-100000":    0.08,
				"100000-10000000": 0.02,
			},
			Rates: map[string][]float64{"PH": ecoRates},
		},
		SemiEmpirical: domain.SemiEmpiricalPayload{Fatalities: 18, Residential: 11, NonResidential: 7},
		Comments: report.Comments{
			Impact1:           "Significant damage is likely and the disaster is potentially widespread.",
			Impact2:           "Some casualties and damage are possible.",
			StructComment:     "Overall, the population in this region resides in structures that are vulnerable to earthquake shaking.",
			HistoricalComment: "A magnitude 7.9 earthquake in 1976 caused extensive losses in this region.",
			SecondaryComment:  "Recent earthquakes in this area have caused secondary hazards such as landslides and tsunamis.",
		},
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
