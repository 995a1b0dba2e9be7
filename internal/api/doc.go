// Package api implements the HTTP status and health server for Sunflow.
//
// This package provides:
//   - GET /health - aggregate and per-component health for monitors
//   - GET /api/v1/status - collection counters, last errors, runtime stats
//   - Middleware stack (request ID, logging, recovery)
//
// # Architecture
//
// The server is a read-only observation surface over the collector.
// It never issues commands; the collection loop runs on its own clock
// regardless of whether anyone is watching.
//
// # Health Model
//
// Each infrastructure component registers a named checker. A failing
// check carries a severity chosen at wiring time: the inverter being
// unreachable (powered down overnight) only degrades the aggregate,
// while a lost InfluxDB connection marks the service unhealthy and
// flips /health to 503.
//
// # Security
//
// No auth, no TLS. The server binds a LAN address and shares the
// collector's trust model: anything that can reach the inverter can
// read the numbers collected from it.
package api
