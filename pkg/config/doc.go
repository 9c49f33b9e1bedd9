// Package config loads typed configuration structs from environment
// variables, reading a .env file once if present. Each config type is
// parsed once per process and cached.
//
//	type AlertsConfig struct {
//	    Retention time.Duration `env:"ALERTS_RETENTION" envDefault:"720h"`
//	}
//
//	var cfg AlertsConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
