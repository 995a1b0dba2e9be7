package telemetry

import "errors"

// Sentinel errors for mapping operations.
var (
	// ErrDeviceNotListed indicates the inverter info response did not
	// contain an entry for the queried device id. The datamanager knows a
	// different set of devices than configured, which makes every value in
	// the response suspect, so no record is produced.
	ErrDeviceNotListed = errors.New("telemetry: device not listed in inverter info")
)
