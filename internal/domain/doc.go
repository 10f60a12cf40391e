// Package domain models ground-temperature simulation output and the weather
// data used to drive and check it.
//
// # Simulation Profiles
//
// A heat-transfer simulation of a buried channel exports one temperature per
// depth for every simulated time step. A [Profile] holds the shared depth axis
// (meters below the surface, strictly increasing) and one [TemperatureColumn]
// per time step. Missing samples are NaN; blank cells and decimal commas are
// normalised by the tabular reader before they reach this package.
//
// Column headers encode elapsed time in one of several forms:
//
//	"12 days"  elapsed days
//	"2,5 yrs"  elapsed years of 365 days, decimal comma allowed
//	"30"       bare day count
//	"Day 7"    synthetic label for headerless exports
//
// Anything unparseable falls back to the column position. Dates are derived
// from the simulation start, 1995-01-01 unless configured otherwise.
//
// # Frost Front
//
// The frost front of a column is the depth where temperature crosses 0 °C.
// [ComputeFrostDepth] finds the deepest frozen sample that has an unfrozen
// sample directly below it and interpolates linearly between the two:
//
//	depth = d[i] + (0 - t[i]) * (d[i+1] - d[i]) / (t[i+1] - t[i])
//
// A column that never drops below freezing has no front. A column frozen over
// its whole sampled range reports the deepest depth, which understates the
// real front. Multiple frozen bands are not distinguished; only the deepest
// crossing is reported.
//
// # Weather Data
//
// Hourly forecasts come from yr.no as XML. Each period is keyed by its
// from/to timestamps; later downloads supersede earlier forecasts for the same
// period (see [DedupeForecastEntries]). Historical station readings come from
// frost.met.no and are reduced to daily UTC means by [DailyMeans].
package domain
