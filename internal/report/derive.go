package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// binRanges lists the seven fixed loss ranges, in reporting order.
var binRanges = []string{
	"0-1",
	"1-10",
	"10-100",
	"100-1000",
	"1000-10000",
	"10000-100000",
	"100000-10000000",
}

// binColors is the fixed range→display-color mapping.
var binColors = map[string]string{
	"0-1":             "green",
	"1-10":            "yellow",
	"10-100":          "yellow",
	"100-1000":        "orange",
	"1000-10000":      "red",
	"10000-100000":    "red",
	"100000-10000000": "red",
}

// MaxAffectedMMI scans the aggregated per-MMI counts from intensity 10 down
// to 1 and returns the first level whose count reaches
// MinSignificantExposure, together with that count. When no level clears the
// threshold the scan exhausts to level 1 and its count.
func MaxAffectedMMI(totals [10]float64) (mmi int, count float64) {
	for i := 9; i >= 0; i-- {
		if totals[i] >= MinSignificantExposure {
			return i + 1, totals[i]
		}
	}
	return 1, totals[0]
}

// combineAlerts returns the report-level alert (the higher of the two
// severities) and whether the fatality group is the summary group. Ties
// favor fatality.
func combineAlerts(fatality, economic AlertLevel) (AlertLevel, bool) {
	if economic.Severity() > fatality.Severity() {
		return economic, false
	}
	return fatality, true
}

// buildAlertGroup assembles one model's alert group from its capability and
// result set.
func buildAlertGroup(kind, units string, model LossModel, results ModelResult, summary bool) AlertGroup {
	gvalue := model.CombinedSeverity(results)
	return AlertGroup{
		Type:    kind,
		Units:   units,
		GValue:  gvalue,
		Summary: summary,
		Level:   model.AlertLevel(results),
		Bins:    probabilityBins(model.Probabilities(results, gvalue)),
	}
}

// probabilityBins converts a model's range-keyed probability map into the
// seven ordered bins. A map that does not cover exactly the seven fixed
// labels is a programming error in the loss model.
func probabilityBins(probs map[string]float64) []ProbabilityBin {
	if len(probs) != len(binRanges) {
		panic(fmt.Sprintf("report: loss model returned %d probability ranges, want %d", len(probs), len(binRanges)))
	}
	bins := make([]ProbabilityBin, 0, len(binRanges))
	for _, label := range binRanges {
		p, ok := probs[label]
		if !ok {
			panic(fmt.Sprintf("report: loss model missing probability range %q", label))
		}
		lo, hi := parseRange(label)
		bins = append(bins, ProbabilityBin{
			Color:       binColors[label],
			Min:         lo,
			Max:         hi,
			Probability: p,
		})
	}
	return bins
}

func parseRange(label string) (float64, float64) {
	lo, hi, ok := strings.Cut(label, "-")
	if !ok {
		panic(fmt.Sprintf("report: malformed probability range %q", label))
	}
	rmin, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		panic(fmt.Sprintf("report: malformed probability range %q: %v", label, err))
	}
	rmax, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		panic(fmt.Sprintf("report: malformed probability range %q: %v", label, err))
	}
	return rmin, rmax
}

// mmiLevels returns a fresh 1–10 level axis so each report section owns its
// own slice.
func mmiLevels() []int {
	levels := make([]int, 10)
	for i := range levels {
		levels[i] = i + 1
	}
	return levels
}

// countryKeys returns the non-total region keys of a map in sorted order,
// so reshaped sections are deterministic.
func countryKeys[V any](m map[string]V, totalKey string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == totalKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// reshapeExposure turns one exposure table into its report section: the
// 1–10 level axis, the aggregated sequence, and per-country sequences with
// the total key excluded.
func reshapeExposure(table ExposureTable, totalKey string) ExposureSection {
	total := table[totalKey]
	section := ExposureSection{
		MMI:                mmiLevels(),
		AggregatedExposure: total[:],
		CountryExposures:   make([]CountryExposure, 0, len(table)),
	}
	for _, ccode := range countryKeys(table, totalKey) {
		exp := table[ccode]
		section.CountryExposures = append(section.CountryExposures, CountryExposure{
			CountryCode: ccode,
			Exposure:    exp[:],
		})
	}
	return section
}

// reshapeFatalities reshapes the empirical fatality results: the total
// estimate plus one record per country carrying its 10 per-intensity loss
// rates.
func reshapeFatalities(model LossModel, results ModelResult) EmpiricalFatality {
	out := EmpiricalFatality{
		TotalFatalities:   results[TotalFatalitiesKey],
		CountryFatalities: make([]CountryFatality, 0, len(results)),
	}
	for _, ccode := range countryKeys(results, TotalFatalitiesKey) {
		out.CountryFatalities = append(out.CountryFatalities, CountryFatality{
			CountryCode: ccode,
			Rates:       lossRates(model, ccode),
			Fatalities:  results[ccode],
		})
	}
	return out
}

// reshapeDollars reshapes the empirical economic results.
func reshapeDollars(model LossModel, results ModelResult) EmpiricalEconomic {
	out := EmpiricalEconomic{
		TotalDollars:   results[TotalDollarsKey],
		CountryDollars: make([]CountryDollars, 0, len(results)),
	}
	for _, ccode := range countryKeys(results, TotalDollarsKey) {
		out.CountryDollars = append(out.CountryDollars, CountryDollars{
			CountryCode: ccode,
			Rates:       lossRates(model, ccode),
			USDollars:   results[ccode],
		})
	}
	return out
}

func lossRates(model LossModel, ccode string) []float64 {
	rates := model.LossRates(ccode, mmiLevels())
	if len(rates) != 10 {
		panic(fmt.Sprintf("report: loss model returned %d rates for %s, want 10", len(rates), ccode))
	}
	return rates
}
