package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "SUNSHINE_"

// Config is the root configuration structure for the sunshine service.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	App         AppConfig         `yaml:"app"`
	Database    DatabaseConfig    `yaml:"database"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
	Weather     WeatherConfig     `yaml:"weather"`
	Preferences PreferencesConfig `yaml:"preferences"`
}

// AppConfig identifies this instance.
type AppConfig struct {
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// Change notifications are only forwarded when Enabled is set.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// WeatherConfig controls the upstream forecast fetch and the refresh loop.
type WeatherConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// Days is the number of forecast days requested per refresh.
	Days int `yaml:"days"`

	// Timeout bounds one upstream request (seconds).
	Timeout int `yaml:"timeout"`

	// RefreshInterval is the time between refreshes (minutes). Zero
	// disables the periodic refresh; the startup refresh still runs.
	RefreshInterval int `yaml:"refresh_interval"`
}

// PreferencesConfig holds the user-facing preference values.
type PreferencesConfig struct {
	Location string `yaml:"location"`
	Units    string `yaml:"units"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// An empty path skips step 2. Environment variables follow the pattern
// SUNSHINE_SECTION_KEY, for example SUNSHINE_DATABASE_PATH or
// SUNSHINE_WEATHER_API_KEY.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: "sunshine",
		},
		Database: DatabaseConfig{
			Path:        "./data/sunshine.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sunshine-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "sunshine",
			Bucket:        "forecast",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Weather: WeatherConfig{
			BaseURL:         "https://api.openweathermap.org",
			Days:            14,
			Timeout:         15,
			RefreshInterval: 180,
		},
		Preferences: PreferencesConfig{
			Location: "94043",
			Units:    "metric",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"DATABASE_PATH":        &cfg.Database.Path,
		"MQTT_HOST":            &cfg.MQTT.Broker.Host,
		"MQTT_USERNAME":        &cfg.MQTT.Auth.Username,
		"MQTT_PASSWORD":        &cfg.MQTT.Auth.Password,
		"INFLUXDB_URL":         &cfg.InfluxDB.URL,
		"INFLUXDB_TOKEN":       &cfg.InfluxDB.Token,
		"LOGGING_LEVEL":        &cfg.Logging.Level,
		"WEATHER_API_KEY":      &cfg.Weather.APIKey,
		"WEATHER_BASE_URL":     &cfg.Weather.BaseURL,
		"PREFERENCES_LOCATION": &cfg.Preferences.Location,
		"PREFERENCES_UNITS":    &cfg.Preferences.Units,
	}
	for key, dst := range strs {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"MQTT_ENABLED":     &cfg.MQTT.Enabled,
		"INFLUXDB_ENABLED": &cfg.InfluxDB.Enabled,
	}
	for key, dst := range bools {
		v := os.Getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}

	if v := os.Getenv(EnvPrefix + "MQTT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMQTT_PORT: %w", EnvPrefix, err)
		}
		cfg.MQTT.Broker.Port = port
	}
	return nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout cannot be negative")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if u, err := url.Parse(c.Weather.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "weather.base_url must be an absolute URL")
	}
	// The daily forecast endpoint serves at most 16 days.
	if c.Weather.Days < 1 || c.Weather.Days > 16 {
		errs = append(errs, "weather.days must be between 1 and 16")
	}
	if c.Weather.Timeout < 1 {
		errs = append(errs, "weather.timeout must be at least 1 second")
	}
	if c.Weather.RefreshInterval < 0 {
		errs = append(errs, "weather.refresh_interval cannot be negative")
	}

	if strings.TrimSpace(c.Preferences.Location) == "" {
		errs = append(errs, "preferences.location is required")
	}
	switch c.Preferences.Units {
	case "metric", "imperial":
	default:
		errs = append(errs, "preferences.units must be metric or imperial")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GetWeatherTimeout returns the upstream request timeout as a Duration.
func (c *Config) GetWeatherTimeout() time.Duration {
	return time.Duration(c.Weather.Timeout) * time.Second
}

// GetRefreshInterval returns the refresh period as a Duration.
func (c *Config) GetRefreshInterval() time.Duration {
	return time.Duration(c.Weather.RefreshInterval) * time.Minute
}
