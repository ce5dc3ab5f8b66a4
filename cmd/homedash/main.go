// HomeDash Core - smart-home dashboard backend
//
// This is the main entry point for the HomeDash Core service. It owns the
// device state of every room, executes lighting and blind scenes, persists
// user-defined scenes, and keeps dashboards and the building controller in
// sync over WebSocket and MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/homedash-core/migrations"

	"github.com/nerrad567/homedash-core/internal/api"
	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/bridge"
	"github.com/nerrad567/homedash-core/internal/device"
	"github.com/nerrad567/homedash-core/internal/infrastructure/config"
	"github.com/nerrad567/homedash-core/internal/infrastructure/database"
	"github.com/nerrad567/homedash-core/internal/infrastructure/logging"
	"github.com/nerrad567/homedash-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/homedash-core/internal/metrics"
	"github.com/nerrad567/homedash-core/internal/storage"
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
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component, serves until ctx is cancelled and then shuts
// down in reverse order of construction.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting HomeDash Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"mode", cfg.Home.Mode,
		"storage_backend", cfg.Storage.Backend,
	)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	m := metrics.New()

	// Storage: the selected backend with the SQLite store as local fallback.
	local := storage.NewSQLiteStore(db.DB)
	backend, err := storage.OpenBackend(ctx, cfg.Storage, local, log.Component("storage"), m)
	if err != nil {
		return fmt.Errorf("opening storage backend: %w", err)
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			log.Error("error closing storage backend", "error", closeErr)
		}
	}()
	store := storage.NewService(backend.Store, log.Component("storage"))
	defer store.Flush()

	registry := device.NewRegistry(device.SeedRooms(), device.SystemConfig{
		Heating:     cfg.IsHeating(),
		MinDimLevel: cfg.Home.MinDimLevel,
	})
	registry.SetLogger(log.Component("devices"))

	driver := device.NewDriver(registry, cfg.BlindStepInterval())
	driver.SetLogger(log.Component("blinds"))
	defer driver.Close()

	engine := automation.NewEngine(registry, store, log.Component("scenes"))
	engine.SetRecorder(m)
	engine.LoadUserScenes(ctx)

	hub := api.NewHub(cfg.WebSocket, log.Component("websocket"))
	br := bridge.New(engine, registry)
	br.SetLogger(log.Component("bridge"))
	br.SetHub(hub)
	br.SetRecorder(m)
	engine.SetHub(hub)
	hub.SetPushHandler(br.Apply)
	driver.OnStep(br.Notify)

	m.WatchBlindDrives(driver.ActiveCount)
	m.WatchWSClients(hub.ClientCount)

	var mqttHealth api.HealthChecker
	if cfg.MQTT.Enabled {
		mqttClient, connErr := mqtt.Connect(ctx, cfg.MQTT, log.Component("mqtt"))
		if connErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		if startErr := br.Start(mqttClient, mqttClient.QoS()); startErr != nil {
			return fmt.Errorf("starting MQTT bridge: %w", startErr)
		}
		defer br.Stop()
		engine.SetPublisher(br)
		mqttHealth = mqttClient
		log.Info("MQTT bridge started",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	srv, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log.Component("api"),
		Registry:    registry,
		Driver:      driver,
		Engine:      engine,
		Bridge:      br,
		Storage:     local,
		Metrics:     m.Handler(),
		MQTT:        mqttHealth,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order: API server, MQTT bridge and
	// client, blind driver, pending storage writes, backend, database.
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMEDASH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMEDASH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
