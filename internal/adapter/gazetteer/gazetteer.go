// Package gazetteer loads GeoNames-style city files and intersects them
// with a shaking intensity layer to build the report's city table.
package gazetteer

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
)

// A gazetteer line holds five tab-separated fields:
//
//	name <tab> country code <tab> latitude <tab> longitude <tab> population
//
// Blank lines and lines starting with '#' are skipped.
const fieldCount = 5

// FileGazetteer implements report.Gazetteer over local city files.
type FileGazetteer struct {
	logger *slog.Logger
}

// New creates a file-backed gazetteer.
func New(logger *slog.Logger) *FileGazetteer {
	return &FileGazetteer{logger: logger}
}

// Load parses a city file into a CitySet.
func (g *FileGazetteer) Load(path string) (report.CitySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: %w", err)
	}
	defer f.Close()

	var cities []city
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := parseCityLine(line)
		if err != nil {
			return nil, fmt.Errorf("gazetteer %s line %d: %w", path, lineNum, err)
		}
		cities = append(cities, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load gazetteer %s: %w", path, err)
	}

	g.logger.Debug("gazetteer loaded", "path", path, "cities", len(cities))
	return &citySet{cities: cities}, nil
}

type city struct {
	name       string
	ccode      string
	lat, lon   float64
	population int
}

func parseCityLine(line string) (city, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != fieldCount {
		return city{}, fmt.Errorf("want %d tab-separated fields, got %d", fieldCount, len(fields))
	}
	lat, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return city{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return city{}, fmt.Errorf("longitude: %w", err)
	}
	pop, err := strconv.Atoi(fields[4])
	if err != nil {
		return city{}, fmt.Errorf("population: %w", err)
	}
	return city{name: fields[0], ccode: fields[1], lat: lat, lon: lon, population: pop}, nil
}

type citySet struct {
	cities []city
}

// CityTable intersects the loaded cities with the intensity layer. Cities
// outside the gridded area are dropped.
func (s *citySet) CityTable(layer report.IntensityLayer) (report.CityTableBuilder, error) {
	if layer == nil {
		return nil, fmt.Errorf("gazetteer: nil intensity layer")
	}
	rows := make([]report.City, 0, len(s.cities))
	for _, c := range s.cities {
		mmi, ok := layer.ValueAt(c.lat, c.lon)
		if !ok {
			continue
		}
		rows = append(rows, report.City{
			Name:        c.name,
			CountryCode: c.ccode,
			Lat:         c.lat,
			Lon:         c.lon,
			Population:  c.population,
			MMI:         mmi,
		})
	}
	return &cityTable{rows: rows}, nil
}

type cityTable struct {
	rows []report.City
}

// TopCities returns up to count cities, strongest shaking first, larger
// population breaking ties.
func (t *cityTable) TopCities(count int) ([]report.City, error) {
	if count < 0 {
		return nil, fmt.Errorf("gazetteer: negative city count %d", count)
	}
	ranked := make([]report.City, len(t.rows))
	copy(ranked, t.rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MMI != ranked[j].MMI {
			return ranked[i].MMI > ranked[j].MMI
		}
		if ranked[i].Population != ranked[j].Population {
			return ranked[i].Population > ranked[j].Population
		}
		return ranked[i].Name < ranked[j].Name
	})
	if count < len(ranked) {
		ranked = ranked[:count]
	}
	return ranked, nil
}
