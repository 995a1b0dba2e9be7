package mqtt

import "fmt"

// Topic prefixes for the Sunflow MQTT hierarchy.
//
// All topics use the flat scheme: sunflow/{category}/{name}
const (
	// TopicPrefix is the base for all Sunflow topics.
	TopicPrefix = "sunflow"

	// TopicPrefixTelemetry is the base for telemetry record topics.
	TopicPrefixTelemetry = "sunflow/telemetry"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "sunflow/system"
)

// Topics provides builders for Sunflow MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.Telemetry("power_flow")
//	// Returns: "sunflow/telemetry/power_flow"
type Topics struct{}

// Telemetry returns the topic carrying records for one measurement.
//
// Every collection cycle publishes the latest record for each
// measurement to its own topic, retained, so consumers joining
// between cycles see the current values immediately.
//
// Example: sunflow/telemetry/inverter
func (Topics) Telemetry(measurement string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixTelemetry, measurement)
}

// SystemStatus returns the collector availability topic.
//
// Carries online/offline announcements including the Last Will
// published by the broker on unexpected disconnect.
//
// Example: sunflow/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllTelemetry returns a pattern matching every telemetry topic.
// Intended for downstream consumers (dashboards, recorders).
//
// Pattern: sunflow/telemetry/+
func (Topics) AllTelemetry() string {
	return fmt.Sprintf("%s/+", TopicPrefixTelemetry)
}

// AllTopics returns a pattern matching all Sunflow topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: sunflow/#
func (Topics) AllTopics() string {
	return "sunflow/#"
}
