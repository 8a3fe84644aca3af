// Package report aggregates the outputs of the earthquake loss-estimation
// pipeline into one validated, immutable impact report.
//
// # Aggregation model
//
// A [Builder] is used once per event. The caller supplies four mandatory
// input groups in any order — shake grid metadata, exposure tables, loss
// model results, narrative comments — plus an optional map/city group, then
// calls [Builder.Finalize]. Finalize runs the derivations exactly once over
// the supplied inputs and produces a [Report] whose ten top-level sections
// appear in a fixed order: event_info, pager, shake_info, alerts,
// population_exposure, economic_exposure, model_results, city_table,
// historical_earthquakes, comments.
//
// # Derived quantities
//
// Maximum affected intensity: exposure tables bucket population (or economic
// value) by Modified Mercalli Intensity levels 1–10. The maximum affected
// intensity is the highest MMI level whose aggregated population count is at
// least [MinSignificantExposure]; when no level clears the threshold the
// scan falls through to level 1 and its count. See [MaxAffectedMMI].
//
// Alert level: the fatality and economic loss models each report one of four
// ordered severities (green < yellow < orange < red). The report-level alert
// is the higher of the two; the group carrying that severity is marked as
// the summary group, with ties resolved in favor of fatality. Each group
// also carries seven probability bins over fixed loss ranges, colored by a
// fixed range→color mapping.
//
// Historical comparison: comparable past earthquakes are retrieved from a
// [HistoricalCatalog] within [HistoricalSearchRadiusKm] of the epicenter and
// ranked by the catalog relative to the current event's maximum affected
// intensity and exposure.
//
// # Input trust
//
// The package does not recompute loss models or shaking grids and does not
// defensively re-validate caller-supplied shapes. Exposure sequences are
// fixed at ten entries by construction; a loss model returning probability
// ranges outside the seven known labels indicates a programming error and
// panics.
package report
