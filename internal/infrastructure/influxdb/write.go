package influxdb

import (
	"context"
	"fmt"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePoints writes one or more points to the given bucket synchronously.
//
// This is the primary method for recording telemetry records. The
// write blocks until the server accepts or rejects the batch, so the
// caller can account for each record individually.
//
// The bucket is chosen per call rather than fixed at connect time;
// the underlying client caches one blocking write API per bucket.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - bucket: Destination bucket name (must be non-empty)
//   - points: Points to write; a call with no points is a no-op
//
// Returns:
//   - error: ErrEmptyBucket, ErrNotConnected, or ErrWriteFailed wrapping
//     the server error
//
// Example:
//
//	point := write.NewPoint("inverter",
//	    map[string]string{"device": "Inverter"},
//	    map[string]interface{}{"ac_power": 540.2},
//	    time.Now().UTC())
//	err := client.WritePoints(ctx, "telemetry", point)
func (c *Client) WritePoints(ctx context.Context, bucket string, points ...*write.Point) error {
	if bucket == "" {
		return ErrEmptyBucket
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	if len(points) == 0 {
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	writeAPI := c.client.WriteAPIBlocking(c.cfg.Org, bucket)
	if err := writeAPI.WritePoint(writeCtx, points...); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}
