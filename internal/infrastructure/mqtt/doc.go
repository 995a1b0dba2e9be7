// Package mqtt provides MQTT client connectivity for Sunflow.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Telemetry publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is an optional live feed alongside the InfluxDB sink. Each
// collection cycle publishes every stored record to its measurement
// topic, retained, so dashboards and home automation consumers follow
// the plant in real time without querying the database.
//
//	Sunflow Collector → MQTT Broker → Dashboards / Automations
//
// The client is publish-only. Sunflow produces telemetry; it never
// consumes from the bus.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish a record to sunflow/telemetry/inverter
//	err = client.PublishTelemetry("inverter", payload)
//
// # Error Handling
//
// Publish failures are returned directly and never retried here; the
// collector treats the MQTT feed as best-effort and carries on. Loss
// of the broker only costs the live feed, never the stored data.
package mqtt
