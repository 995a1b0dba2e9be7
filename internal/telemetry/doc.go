// Package telemetry defines the metric records sunflow stores and the
// mappers that build them from Solar API responses.
//
// # Purpose
//
// Seven record shapes cover the seven data categories collected each cycle:
// inverter electrical values, per-phase values, inverter identity, smart
// meter, battery storage, OhmPilot and site power flow. Records are plain
// immutable values; each converts itself to an InfluxDB point and carries
// the series name it belongs to.
//
// # Mapping Rules
//
// Mappers copy source fields 1:1 under fixed renames. The only transforms
// are integer-flag-to-boolean coercion, numeric code to string conversion,
// and flattening of nested controller/site objects. A reading the device
// omitted stays absent in the record and off the written point; it is never
// replaced with zero. The single sanctioned default is the OhmPilot error
// code, which reads 0 while no fault is present. A mapper either produces a
// complete record or fails; there are no partial records.
//
// Each record is stamped with the wall clock at mapping time, so sibling
// records from one cycle carry slightly different timestamps. Stored series
// alignment depends on this, so the stamping point must not move.
package telemetry
