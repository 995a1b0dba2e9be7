// Package influxdb provides InfluxDB connectivity for Sunflow.
//
// It wraps the official influxdb-client-go v2 library with Sunflow-specific
// patterns for connection management, point writing, and health monitoring.
//
// # Purpose
//
// This package is the storage sink for solar telemetry. The collector
// hands it one point per record (inverter output, meter readings,
// storage state, power flow) and each write either lands or fails on
// its own.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "sunflow",
//	    Bucket: "telemetry",
//	}
//
//	client, err := influxdb.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.WritePoints(ctx, cfg.Bucket, point)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
//
// # Error Handling
//
// Writes are synchronous and return errors directly, so a failed write
// for one record never hides behind a batch. Sentinel errors
// (ErrNotConnected, ErrEmptyBucket, ErrWriteFailed) support errors.Is()
// checks; server errors are wrapped, not swallowed.
package influxdb
