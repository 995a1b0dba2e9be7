// Sunflow - Fronius solar telemetry collector
//
// This is the main entry point for the Sunflow collector. Sunflow polls
// a Fronius datamanager on the local network every collection interval
// and records inverter, meter, storage and power flow telemetry into
// InfluxDB, with an optional MQTT live feed and an HTTP status surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/sunflow/internal/api"
	"github.com/nerrad567/sunflow/internal/collector"
	"github.com/nerrad567/sunflow/internal/fronius"
	"github.com/nerrad567/sunflow/internal/infrastructure/config"
	"github.com/nerrad567/sunflow/internal/infrastructure/influxdb"
	"github.com/nerrad567/sunflow/internal/infrastructure/logging"
	"github.com/nerrad567/sunflow/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Sunflow",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the Solar API client. Construction validates the address but
	// opens no connection; the inverter is routinely offline overnight
	// and cycles simply record errors until it answers again.
	froniusClient, err := fronius.Connect(fronius.Config{
		Host:    cfg.Fronius.Host,
		Port:    cfg.Fronius.Port,
		Timeout: cfg.Fronius.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connecting to inverter: %w", err)
	}
	defer func() {
		log.Info("closing Solar API client")
		if closeErr := froniusClient.Close(); closeErr != nil {
			log.Error("error closing Solar API client", "error", closeErr)
		}
	}()
	log.Info("Solar API client ready",
		"host", cfg.Fronius.Host,
		"port", cfg.Fronius.Port,
	)

	if probeErr := froniusClient.HealthCheck(ctx); probeErr != nil {
		log.Warn("inverter not reachable at startup, cycles will record errors", "error", probeErr)
	}

	devices, err := deviceIDs(cfg.Fronius)
	if err != nil {
		return fmt.Errorf("device ids: %w", err)
	}

	// Connect to InfluxDB. Storage is the point of the service, so an
	// unreachable server is fatal at startup.
	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	if err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	defer func() {
		log.Info("closing InfluxDB connection")
		if closeErr := influxClient.Close(); closeErr != nil {
			log.Error("error closing InfluxDB", "error", closeErr)
		}
	}()
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)

	// Connect to MQTT broker (optional live feed)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Set up MQTT logging callbacks
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Avoid a typed-nil interface when MQTT is disabled.
	var publisher collector.Publisher
	if mqttClient != nil {
		publisher = mqttClient
	}

	col := collector.New(collector.Deps{
		Device:    froniusClient,
		Sink:      influxClient,
		Publisher: publisher,
		Logger:    log,
		Bucket:    cfg.InfluxDB.Bucket,
		Devices:   devices,
	})

	// Start the status server (if enabled)
	if cfg.API.Enabled {
		checkers := []api.HealthChecker{
			api.NewChecker("fronius", api.StatusDegraded, froniusClient.HealthCheck),
			api.NewChecker("influxdb", api.StatusUnhealthy, influxClient.HealthCheck),
		}
		if mqttClient != nil {
			checkers = append(checkers, api.NewChecker("mqtt", api.StatusDegraded, mqttClient.HealthCheck))
		}

		srv, apiErr := api.New(api.Deps{
			Config:   cfg.API,
			Logger:   log,
			Status:   col.Status(),
			Checkers: checkers,
			Version:  version,
		})
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := srv.Start(); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	log.Info("initialisation complete, collecting", "interval", cfg.Collect.Interval)

	// Run the collection loop in the foreground until shutdown
	sched := collector.NewScheduler(col, cfg.Collect.Interval, log)
	if runErr := sched.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("scheduler: %w", runErr)
	}

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (if enabled)
	// 2. MQTT (if enabled)
	// 3. InfluxDB
	// 4. Solar API client

	log.Info("Sunflow stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SUNFLOW_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SUNFLOW_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// deviceIDs converts the configured device numbers into Solar API ids.
func deviceIDs(cfg config.FroniusConfig) (collector.DeviceIDs, error) {
	inverter, err := fronius.NewDeviceID(cfg.InverterID)
	if err != nil {
		return collector.DeviceIDs{}, fmt.Errorf("inverter: %w", err)
	}
	meter, err := fronius.NewDeviceID(cfg.MeterID)
	if err != nil {
		return collector.DeviceIDs{}, fmt.Errorf("meter: %w", err)
	}
	storage, err := fronius.NewDeviceID(cfg.StorageID)
	if err != nil {
		return collector.DeviceIDs{}, fmt.Errorf("storage: %w", err)
	}
	ohmPilot, err := fronius.NewDeviceID(cfg.OhmPilotID)
	if err != nil {
		return collector.DeviceIDs{}, fmt.Errorf("ohmpilot: %w", err)
	}

	return collector.DeviceIDs{
		Inverter: inverter,
		Meter:    meter,
		Storage:  storage,
		OhmPilot: ohmPilot,
	}, nil
}
