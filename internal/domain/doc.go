// Package domain models the wire format exchanged over Kafka by the
// earthquake impact aggregation pipeline.
//
// # Data flow
//
// The upstream loss-model runner computes, per shake grid version, the
// population and economic exposure tables, the empirical fatality and
// economic loss model outputs, the semi-empirical fatality split, and the
// narrative comments. It publishes the whole set as one JSON [InputBundle]
// on the source topic.
//
// This service parses each bundle, aggregates it into a finalized impact
// report, and publishes the report JSON on the sink topic with alert_level,
// event_code, and processed_at headers.
//
// # Bundle conventions
//
// Exposure tables and model result maps are keyed by ISO country code plus
// one distinguished total key per map ("TotalExposure",
// "TotalEconomicExposure", "TotalFatalities", "TotalDollars"). Exposure
// sequences hold exactly ten values, one per Modified Mercalli Intensity
// level 1 through 10.
//
// Loss model outputs arrive precomputed: the alert level, the combined
// severity score (g-value), the probability mass per fixed loss range, and
// the per-country loss rates by intensity. [PrecomputedLossModel] exposes
// them through the report core's LossModel capability.
//
// The shaking intensity layer arrives as a coarse row-major grid
// ([GridPayload]) sampled from the full ShakeMap product, dense enough for
// city-table intersection without shipping the full grid.
package domain
