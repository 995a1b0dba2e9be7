package collector

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/sunflow/internal/fronius"
	"github.com/nerrad567/sunflow/internal/infrastructure/logging"
	"github.com/nerrad567/sunflow/internal/telemetry"
)

// Category labels used in logs and status reporting, in cycle order.
// inverter_info carries no _data suffix; the labels predate this collector
// and renaming them would break downstream log filters.
const (
	CategoryInverter      = "inverter_data"
	CategoryInverterPhase = "inverter_phase_data"
	CategoryInverterInfo  = "inverter_info"
	CategoryMeter         = "meter_data"
	CategoryStorage       = "storage_data"
	CategoryOhmPilot      = "ohm_pilot_data"
	CategoryPowerFlow     = "power_flow_data"
)

// Categories lists every category label in the order a cycle walks them.
var Categories = []string{
	CategoryInverter,
	CategoryInverterPhase,
	CategoryInverterInfo,
	CategoryMeter,
	CategoryStorage,
	CategoryOhmPilot,
	CategoryPowerFlow,
}

// Sink receives finished records. Writes block until the point is
// transmitted or rejected; satisfied by *influxdb.Client.
type Sink interface {
	WritePoints(ctx context.Context, bucket string, points ...*write.Point) error
}

// Publisher mirrors stored records to a live feed. Optional; satisfied by
// *mqtt.Client.
type Publisher interface {
	PublishTelemetry(measurement string, payload []byte) error
}

// DeviceIDs selects which device instance each category queries. The three
// inverter categories share the inverter id.
type DeviceIDs struct {
	Inverter fronius.DeviceID
	Meter    fronius.DeviceID
	Storage  fronius.DeviceID
	OhmPilot fronius.DeviceID
}

// Deps bundles the collaborators a Collector needs.
type Deps struct {
	Device    telemetry.DeviceClient
	Sink      Sink
	Publisher Publisher // optional, nil disables the live feed
	Logger    *logging.Logger
	Bucket    string
	Devices   DeviceIDs
}

// Collector runs collection cycles against one datamanager and one sink.
type Collector struct {
	device    telemetry.DeviceClient
	sink      Sink
	publisher Publisher
	logger    *logging.Logger
	bucket    string
	devices   DeviceIDs
	status    *Status
}

// New creates a Collector from its collaborators.
func New(deps Deps) *Collector {
	return &Collector{
		device:    deps.Device,
		sink:      deps.Sink,
		publisher: deps.Publisher,
		logger:    deps.Logger.With("component", "collector"),
		bucket:    deps.Bucket,
		devices:   deps.Devices,
		status:    NewStatus(),
	}
}

// Status returns the cycle state shared with the API server.
func (c *Collector) Status() *Status {
	return c.status
}

// step pairs a category label with its fetch-and-map call.
type step struct {
	category string
	collect  func(ctx context.Context) (telemetry.Record, error)
}

// steps returns the cycle's categories in order.
func (c *Collector) steps() []step {
	return []step{
		{CategoryInverter, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectInverter(ctx, c.device, c.devices.Inverter)
		}},
		{CategoryInverterPhase, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectInverterPhase(ctx, c.device, c.devices.Inverter)
		}},
		{CategoryInverterInfo, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectInverterInfo(ctx, c.device, c.devices.Inverter)
		}},
		{CategoryMeter, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectMeter(ctx, c.device, c.devices.Meter)
		}},
		{CategoryStorage, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectStorage(ctx, c.device, c.devices.Storage)
		}},
		{CategoryOhmPilot, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectOhmPilot(ctx, c.device, c.devices.OhmPilot)
		}},
		{CategoryPowerFlow, func(ctx context.Context) (telemetry.Record, error) {
			return telemetry.CollectPowerFlow(ctx, c.device)
		}},
	}
}

// RunCycle walks the seven categories in order, writing each record that
// maps successfully. Per-category failures are logged, recorded in Status
// and absorbed; no failure stops the walk. Returns an error only when no
// destination bucket is configured, in which case nothing is attempted.
func (c *Collector) RunCycle(ctx context.Context) error {
	if c.bucket == "" {
		c.status.cycleFailed(ErrNoBucket)
		return ErrNoBucket
	}

	cycleID := uuid.New().String()
	start := time.Now().UTC()
	c.status.cycleStarted(cycleID, start)
	c.logger.Info("cycle started", "cycle_id", cycleID, "started_at", start.Format(time.RFC3339))

	for _, s := range c.steps() {
		record, err := s.collect(ctx)
		if err != nil {
			c.logger.Error("collect failed", "cycle_id", cycleID, "category", s.category, "error", err)
			c.status.categoryFailed(s.category, err)
			continue
		}

		if err := c.sink.WritePoints(ctx, c.bucket, record.Point()); err != nil {
			c.logger.Error("write failed", "cycle_id", cycleID, "category", s.category, "error", err)
			c.status.categoryFailed(s.category, err)
			continue
		}

		c.status.categorySucceeded(s.category)
		c.logger.Debug("record written", "cycle_id", cycleID, "category", s.category)
		c.publish(record, cycleID, s.category)
	}

	c.status.cycleCompleted(time.Since(start))
	return nil
}

// publish mirrors a stored record to the live feed. Failures are absorbed
// like write failures and never affect category status.
func (c *Collector) publish(record telemetry.Record, cycleID, category string) {
	if c.publisher == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		c.logger.Warn("publish encode failed", "cycle_id", cycleID, "category", category, "error", err)
		return
	}
	if err := c.publisher.PublishTelemetry(record.Measurement(), payload); err != nil {
		c.logger.Warn("publish failed", "cycle_id", cycleID, "category", category, "error", err)
	}
}
