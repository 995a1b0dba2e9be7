package collector

import "errors"

// Sentinel errors for cycle orchestration.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, collector.ErrNoBucket) {
//	    // Destination bucket missing from configuration
//	}
var (
	// ErrNoBucket indicates no destination bucket is configured. The cycle
	// aborts before any category is attempted; nothing is fetched or
	// written.
	ErrNoBucket = errors.New("collector: no destination bucket configured")
)
