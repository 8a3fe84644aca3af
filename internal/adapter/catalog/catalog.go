// Package catalog provides a file-backed catalog of significant historical
// earthquakes with per-event MMI exposure counts, used to select and rank
// events comparable to the one being reported.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
)

const (
	earthRadiusKm = 6371.0

	// maxHistoricalEvents caps how many comparable earthquakes a report
	// carries.
	maxHistoricalEvents = 3
)

// Row hex colors for the historical events table, by shaking-death count.
const (
	colorGreen  = "#00b04f"
	colorYellow = "#ffff00"
	colorOrange = "#ff9900"
	colorRed    = "#ff0000"
)

// Event is one catalog row.
type Event struct {
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
}

// Catalog implements report.HistoricalCatalog over an in-memory event list
// loaded once at startup.
type Catalog struct {
	events []Event
	logger *slog.Logger
}

// Load reads a JSON catalog file.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	logger.Info("historical catalog loaded", "path", path, "events", len(events))
	return &Catalog{events: events, logger: logger}, nil
}

// New builds a catalog from an already-loaded event list.
func New(events []Event, logger *slog.Logger) *Catalog {
	return &Catalog{events: events, logger: logger}
}

// SelectByRadius returns the candidate events whose epicenters lie within
// radiusKm of (lat, lon).
func (c *Catalog) SelectByRadius(lat, lon, radiusKm float64) (report.HistoricalCandidates, error) {
	var selected []candidate
	for i := range c.events {
		ev := &c.events[i]
		d := haversineKm(lat, lon, ev.Lat, ev.Lon)
		if d <= radiusKm {
			selected = append(selected, candidate{event: ev, distanceKm: d})
		}
	}
	return &candidateSet{candidates: selected}, nil
}

type candidate struct {
	event      *Event
	distanceKm float64
}

type candidateSet struct {
	candidates []candidate
}

// HistoricalEvents ranks the candidates by impact similarity to the current
// event and returns up to three, annotated with distance and display color.
// Similarity compares each candidate's own maximum affected intensity and
// the population exposed at it against the current event's; distance breaks
// ties.
func (s *candidateSet) HistoricalEvents(maxMMI int, nMMI, lat, lon float64) ([]report.HistoricalEvent, error) {
	rows := make([]report.HistoricalEvent, 0, len(s.candidates))
	for _, c := range s.candidates {
		evMMI, evN := report.MaxAffectedMMI(c.event.Exposure)
		rows = append(rows, report.HistoricalEvent{
			ID:            c.event.ID,
			Time:          c.event.Time,
			Lat:           c.event.Lat,
			Lon:           c.event.Lon,
			Depth:         c.event.Depth,
			Magnitude:     c.event.Magnitude,
			CountryCode:   c.event.CountryCode,
			ShakingDeaths: c.event.ShakingDeaths,
			TotalDeaths:   c.event.TotalDeaths,
			Injured:       c.event.Injured,
			Fire:          c.event.Fire,
			Liquefaction:  c.event.Liquefaction,
			Tsunami:       c.event.Tsunami,
			Landslide:     c.event.Landslide,
			Exposure:      c.event.Exposure,
			MaxMMI:        evMMI,
			NumMaxMMI:     evN,
			DistanceKm:    c.distanceKm,
			Color:         deathColor(c.event.ShakingDeaths),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := similarity(&rows[i], maxMMI, nMMI), similarity(&rows[j], maxMMI, nMMI)
		if si != sj {
			return si < sj
		}
		return rows[i].DistanceKm < rows[j].DistanceKm
	})

	if len(rows) > maxHistoricalEvents {
		rows = rows[:maxHistoricalEvents]
	}
	return rows, nil
}

// similarity scores how closely a candidate's impact matches the current
// event; lower is more similar. Intensity difference dominates; the
// normalized exposure difference contributes at most one intensity step.
func similarity(ev *report.HistoricalEvent, maxMMI int, nMMI float64) float64 {
	score := math.Abs(float64(ev.MaxMMI - maxMMI))
	popDiff := math.Abs(ev.NumMaxMMI - nMMI)
	if popDiff > 0 {
		score += popDiff / (popDiff + nMMI + 1)
	}
	return score
}

func deathColor(shakingDeaths float64) string {
	switch {
	case shakingDeaths < 1:
		return colorGreen
	case shakingDeaths <= 100:
		return colorYellow
	case shakingDeaths <= 1000:
		return colorOrange
	default:
		return colorRed
	}
}

// haversineKm computes the great-circle distance between two WGS-84 points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180
	phi1, phi2 := lat1*degToRad, lat2*degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
