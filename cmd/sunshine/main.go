// Sunshine Core - weather forecast content service.
//
// This is the main entry point. It opens the forecast store, exposes it
// through the content provider, keeps the stored forecast fresh from the
// upstream API and forwards change notifications to MQTT when enabled.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/ceulain/sunshine-core/migrations"

	"github.com/ceulain/sunshine-core/internal/infrastructure/config"
	"github.com/ceulain/sunshine-core/internal/infrastructure/database"
	"github.com/ceulain/sunshine-core/internal/infrastructure/influxdb"
	"github.com/ceulain/sunshine-core/internal/infrastructure/logging"
	"github.com/ceulain/sunshine-core/internal/infrastructure/mqtt"
	"github.com/ceulain/sunshine-core/internal/notify"
	"github.com/ceulain/sunshine-core/internal/provider"
	"github.com/ceulain/sunshine-core/internal/settings"
	"github.com/ceulain/sunshine-core/internal/store"
	"github.com/ceulain/sunshine-core/internal/weather"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// defaultConfigPath is used when SUNSHINE_CONFIG is unset and the file exists.
	defaultConfigPath = "configs/config.yaml"

	configEnv = config.EnvPrefix + "CONFIG"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Sunshine Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// A local .env only supplies SUNSHINE_* overrides; it is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	prefs, err := settings.FromConfig(cfg.Preferences)
	if err != nil {
		return fmt.Errorf("resolving preferences: %w", err)
	}
	summaries := prefs.Summaries()
	log.Info("preferences resolved",
		settings.KeyLocation, summaries[settings.KeyLocation],
		settings.KeyUnits, summaries[settings.KeyUnits],
	)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	resolver := notify.NewResolver()
	resolver.SetLogger(log)

	weatherProvider, err := provider.New(store.NewSQLiteEngine(db.DB), resolver)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	weatherProvider.SetLogger(log)

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = connectMQTT(cfg, resolver, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
	} else {
		log.Info("MQTT disabled")
	}

	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
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
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	}

	syncer := weather.NewSyncer(weatherProvider, weather.NewClient(cfg.Weather), weather.SyncOptions{
		Days:  cfg.Weather.Days,
		Units: prefs.Units.String(),
	})
	syncer.SetLogger(log)
	if influxClient != nil {
		syncer.SetRecorder(influxClient)
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	loop := newRefreshLoop(syncer, prefs.Location.String(), cfg.GetRefreshInterval(), log)
	var loopDone chan struct{}
	if cfg.Weather.APIKey == "" {
		log.Warn("weather.api_key not set, forecast refresh disabled")
	} else {
		if mqttClient != nil {
			loop.SetPublisher(mqttClient.PublishDefault)
			if subErr := mqttClient.Subscribe(mqtt.Topics{}.CommandRefresh(), byte(cfg.MQTT.QoS), loop.HandleCommand); subErr != nil {
				return fmt.Errorf("subscribing to refresh commands: %w", subErr)
			}
		}
		loopDone = make(chan struct{})
		go func() {
			defer close(loopDone)
			loop.Run(ctx)
		}()
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	if loopDone != nil {
		<-loopDone
	}

	log.Info("Sunshine Core stopped")
	return nil
}

// connectMQTT connects to the broker and forwards every provider change to it.
func connectMQTT(cfg *config.Config, resolver *notify.Resolver, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", client.ClientID(),
	)

	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	forwarder, err := notify.NewMQTTForwarder(client, byte(cfg.MQTT.QoS))
	if err != nil {
		client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("forwarding changes to MQTT: %w", err)
	}
	forwarder.SetLogger(log)
	if err := forwarder.Attach(resolver); err != nil {
		client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("forwarding changes to MQTT: %w", err)
	}
	return client, nil
}

// getConfigPath returns the configuration file path.
// SUNSHINE_CONFIG wins; otherwise the default path is used when present,
// and an empty path (defaults plus environment) when it is not.
func getConfigPath() string {
	if path := os.Getenv(configEnv); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// healthCheck verifies every enabled connection. mqttClient and
// influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
