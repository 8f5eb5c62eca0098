// Package config loads and validates the sunshine service configuration.
//
// Values come from three layers, each overriding the one before:
// built-in defaults, an optional YAML file, and SUNSHINE_* environment
// variables. Validate reports every problem in one error so a bad file can
// be fixed in a single pass.
//
// Secrets (the weather API key, MQTT password, InfluxDB token) are best
// supplied through the environment or a .env file rather than the YAML.
//
// Usage:
//
//	cfg, err := config.Load(os.Getenv("SUNSHINE_CONFIG"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Preferences.Location)
package config
