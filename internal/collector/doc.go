// Package collector orchestrates sunflow's telemetry collection cycles.
//
// A cycle walks the seven metric categories in a fixed order. Each category
// is fetched from the datamanager, mapped into its record, and written to
// the sink as a single-point batch before the next category is attempted.
//
// # Purpose
//
// This package owns the failure-isolation policy of the collector:
//   - categories fail independently; a dead smart meter never blocks
//     inverter readings
//   - fetch and write failures are logged and absorbed; the record is
//     simply not emitted for that cycle
//   - nothing is retried or carried forward to the next cycle
//
// The only cycle-level failure is a missing destination bucket, which
// aborts the cycle before any category is attempted.
//
// # Usage
//
//	col := collector.New(collector.Deps{
//	    Device: froniusClient,
//	    Sink:   influxClient,
//	    Logger: logger,
//	    Bucket: cfg.InfluxDB.Bucket,
//	    Devices: collector.DeviceIDs{...},
//	})
//
//	sched := collector.NewScheduler(col, cfg.Collect.Interval, logger)
//	err := sched.Run(ctx) // blocks until ctx is cancelled
//
// # Thread Safety
//
// The Scheduler runs cycles strictly one after another; RunCycle itself is
// not safe for concurrent use. Status is mutex-guarded and may be
// snapshotted from other goroutines (the API server) while cycles run.
//
// # Error Handling
//
// RunCycle returns an error only for the cycle-level configuration class
// (ErrNoBucket). All per-category errors are absorbed after logging and
// recorded in Status. Run returns only the context's error on shutdown.
package collector
