// Package config loads and validates gateway configuration.
package config

import "time"

// Config is the root configuration structure for the mapping gateway.
type Config struct {
	RouterType string `mapstructure:"router_type"`
	Service    ServiceConfig
	HTTP       HTTPConfig
	Mongo      MongoConfig
	Log        LogConfig
	Routes     []RouteConfig `mapstructure:"routes"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URL              string        `mapstructure:"url"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RouteConfig declares one CRUD route set over a collection. The full set
// (collection GET/POST, item GET/PUT/DELETE) is mounted at Path.
type RouteConfig struct {
	Collection          string   `mapstructure:"collection"`
	Path                string   `mapstructure:"path"`
	RequiredQueryFields []string `mapstructure:"required_query_fields"`
	OptionalQueryFields []string `mapstructure:"optional_query_fields"`
	Envelope            *bool    `mapstructure:"envelope"`
}

// DefaultConfig returns the built-in defaults, the lowest-precedence
// configuration layer.
func DefaultConfig() Config {
	return Config{
		RouterType: "nethttp",
		Service: ServiceConfig{
			Name:        "mongomap",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Mongo: MongoConfig{
			URL:              "mongodb://localhost:27017",
			Database:         "mongomap",
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
